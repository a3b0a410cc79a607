package http

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/hsgmemory/engine/internal/hsg"
	"github.com/hsgmemory/engine/internal/sector"
)

type addMemoryRequest struct {
	Content    string          `json:"content"`
	Namespaces []string        `json:"namespaces"`
	Tags       []string        `json:"tags"`
	Metadata   json.RawMessage `json:"metadata"`
}

// addMemory implements POST /memory/add.
func (s *Server) addMemory(c *fiber.Ctx) error {
	var req addMemoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseHTTP{Success: false, Message: "invalid body"})
	}
	if len(req.Namespaces) == 0 {
		req.Namespaces = []string{defaultNamespace(c)}
	}

	result, err := s.engine.Store(c.Context(), hsg.StoreRequest{
		Content:    req.Content,
		Namespaces: req.Namespaces,
		Tags:       req.Tags,
		Metadata:   req.Metadata,
	})
	if err != nil {
		code, msg := statusFor(err)
		return c.Status(code).JSON(ResponseHTTP{Success: false, Message: msg})
	}
	return c.JSON(ResponseHTTP{Success: true, Data: result})
}

type queryFiltersRequest struct {
	Namespaces  []string `json:"namespaces"`
	Sectors     []string `json:"sectors"`
	MinSalience *float64 `json:"min_salience"`
	Tags        []string `json:"tags"`
}

type queryMemoryRequest struct {
	Query   string              `json:"query"`
	K       int                 `json:"k"`
	Filters queryFiltersRequest `json:"filters"`
}

// queryMemory implements POST /memory/query.
func (s *Server) queryMemory(c *fiber.Ctx) error {
	var req queryMemoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseHTTP{Success: false, Message: "invalid body"})
	}
	if len(req.Filters.Namespaces) == 0 {
		req.Filters.Namespaces = []string{defaultNamespace(c)}
	}

	var sectors []sector.Sector
	for _, raw := range req.Filters.Sectors {
		sec := sector.Sector(raw)
		if sector.Valid(sec) {
			sectors = append(sectors, sec)
		}
	}

	hits, err := s.engine.Query(c.Context(), hsg.QueryRequest{
		Text: req.Query,
		K:    req.K,
		Filters: hsg.QueryFilters{
			Namespaces:  req.Filters.Namespaces,
			Sectors:     sectors,
			MinSalience: req.Filters.MinSalience,
			Tags:        req.Filters.Tags,
		},
	})
	if err != nil {
		code, msg := statusFor(err)
		return c.Status(code).JSON(ResponseHTTP{Success: false, Message: msg})
	}
	return c.JSON(ResponseHTTP{Success: true, Data: fiber.Map{"matches": hits}})
}

type reinforceRequest struct {
	ID    string  `json:"id"`
	Boost float64 `json:"boost"`
}

// reinforceMemory implements POST /memory/reinforce.
func (s *Server) reinforceMemory(c *fiber.Ctx) error {
	var req reinforceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseHTTP{Success: false, Message: "invalid body"})
	}
	boost := req.Boost
	if boost <= 0 {
		boost = s.engine.DefaultReinforceBoost()
	}
	if err := s.engine.Reinforce(c.Context(), req.ID, boost); err != nil {
		code, msg := statusFor(err)
		return c.Status(code).JSON(ResponseHTTP{Success: false, Message: msg})
	}
	return c.JSON(ResponseHTTP{Success: true, Data: fiber.Map{"ok": true}})
}

// listMemories implements GET /memory/all?l=&u=&namespace=&sector=.
func (s *Server) listMemories(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("l", "50"))
	offset, _ := strconv.Atoi(c.Query("u", "0"))
	if limit <= 0 {
		limit = 50
	}

	ns := c.Query("namespace", defaultNamespace(c))
	var sectors []sector.Sector
	if raw := c.Query("sector"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			sec := sector.Sector(strings.TrimSpace(part))
			if sector.Valid(sec) {
				sectors = append(sectors, sec)
			}
		}
	}

	mems, err := s.engine.ListMemories(c.Context(), []string{ns}, sectors, offset, limit)
	if err != nil {
		code, msg := statusFor(err)
		return c.Status(code).JSON(ResponseHTTP{Success: false, Message: msg})
	}
	return c.JSON(ResponseHTTP{Success: true, Data: mems})
}

// getMemory implements GET /memory/:id?namespaces=.
func (s *Server) getMemory(c *fiber.Ctx) error {
	mem, err := s.engine.Get(c.Context(), c.Params("id"))
	if err != nil {
		code, msg := statusFor(err)
		return c.Status(code).JSON(ResponseHTTP{Success: false, Message: msg})
	}
	if raw := c.Query("namespaces"); raw != "" {
		requested := strings.Split(raw, ",")
		if !memberOfAny(mem.Namespaces, requested) {
			return c.Status(fiber.StatusNotFound).JSON(ResponseHTTP{Success: false, Message: "memory not found"})
		}
	}
	return c.JSON(ResponseHTTP{Success: true, Data: mem})
}

type patchMemoryRequest struct {
	Content *string  `json:"content"`
	Tags    []string `json:"tags"`
}

// patchMemory implements PATCH /memory/:id.
func (s *Server) patchMemory(c *fiber.Ctx) error {
	var req patchMemoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseHTTP{Success: false, Message: "invalid body"})
	}
	mem, err := s.engine.Patch(c.Context(), c.Params("id"), req.Content, req.Tags)
	if err != nil {
		code, msg := statusFor(err)
		return c.Status(code).JSON(ResponseHTTP{Success: false, Message: msg})
	}
	return c.JSON(ResponseHTTP{Success: true, Data: mem})
}

// deleteMemory implements DELETE /memory/:id.
func (s *Server) deleteMemory(c *fiber.Ctx) error {
	if err := s.engine.Delete(c.Context(), c.Params("id")); err != nil {
		code, msg := statusFor(err)
		return c.Status(code).JSON(ResponseHTTP{Success: false, Message: msg})
	}
	return c.JSON(ResponseHTTP{Success: true, Data: fiber.Map{"ok": true}})
}

func memberOfAny(have, want []string) bool {
	set := make(map[string]struct{}, len(want))
	for _, w := range want {
		set[strings.TrimSpace(w)] = struct{}{}
	}
	for _, h := range have {
		if _, ok := set[h]; ok {
			return true
		}
	}
	return false
}
