package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hsgmemory/engine/internal/hsg"
)

type namespaceRequest struct {
	Description     string  `json:"description"`
	OntologyProfile *string `json:"ontology_profile"`
	MetadataJSON    *string `json:"metadata_json"`
}

// listNamespaces implements GET /api/namespaces.
func (s *Server) listNamespaces(c *fiber.Ctx) error {
	nss, err := s.engine.ListNamespaces(c.Context())
	if err != nil {
		code, msg := statusFor(err)
		return c.Status(code).JSON(ResponseHTTP{Success: false, Message: msg})
	}
	return c.JSON(ResponseHTTP{Success: true, Data: nss})
}

type createNamespaceRequest struct {
	Namespace string `json:"namespace"`
	namespaceRequest
}

// createNamespace implements POST /api/namespaces.
func (s *Server) createNamespace(c *fiber.Ctx) error {
	var req createNamespaceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseHTTP{Success: false, Message: "invalid body"})
	}
	ns, err := s.engine.UpsertNamespace(c.Context(), req.Namespace, hsg.NamespaceRequest{
		Description:     req.Description,
		OntologyProfile: req.OntologyProfile,
		MetadataJSON:    req.MetadataJSON,
	})
	if err != nil {
		code, msg := statusFor(err)
		return c.Status(code).JSON(ResponseHTTP{Success: false, Message: msg})
	}
	return c.Status(fiber.StatusCreated).JSON(ResponseHTTP{Success: true, Data: ns})
}

// getNamespace implements GET /api/namespaces/:namespace.
func (s *Server) getNamespace(c *fiber.Ctx) error {
	ns, err := s.engine.GetNamespace(c.Context(), c.Params("namespace"))
	if err != nil {
		code, msg := statusFor(err)
		return c.Status(code).JSON(ResponseHTTP{Success: false, Message: msg})
	}
	return c.JSON(ResponseHTTP{Success: true, Data: ns})
}

// updateNamespace implements PUT /api/namespaces/:namespace.
func (s *Server) updateNamespace(c *fiber.Ctx) error {
	var req namespaceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseHTTP{Success: false, Message: "invalid body"})
	}
	ns, err := s.engine.UpsertNamespace(c.Context(), c.Params("namespace"), hsg.NamespaceRequest{
		Description:     req.Description,
		OntologyProfile: req.OntologyProfile,
		MetadataJSON:    req.MetadataJSON,
	})
	if err != nil {
		code, msg := statusFor(err)
		return c.Status(code).JSON(ResponseHTTP{Success: false, Message: msg})
	}
	return c.JSON(ResponseHTTP{Success: true, Data: ns})
}

// deleteNamespace implements DELETE /api/namespaces/:namespace.
func (s *Server) deleteNamespace(c *fiber.Ctx) error {
	if err := s.engine.DeleteNamespace(c.Context(), c.Params("namespace")); err != nil {
		code, msg := statusFor(err)
		return c.Status(code).JSON(ResponseHTTP{Success: false, Message: msg})
	}
	return c.JSON(ResponseHTTP{Success: true, Data: fiber.Map{"ok": true}})
}
