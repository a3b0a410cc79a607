package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/hsgmemory/engine/internal/hsg"
)

type temporalFactRequest struct {
	Subject    string `json:"subject"`
	Predicate  string `json:"predicate"`
	Object     string `json:"object"`
	Namespace  string `json:"namespace"`
	ValidFrom  *int64 `json:"valid_from"`
	Confidence float64 `json:"confidence"`
}

// insertTemporalFact implements POST /api/temporal/facts.
func (s *Server) insertTemporalFact(c *fiber.Ctx) error {
	var req temporalFactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseHTTP{Success: false, Message: "invalid body"})
	}
	if req.Namespace == "" {
		req.Namespace = defaultNamespace(c)
	}
	fact, err := s.engine.InsertTemporalFact(c.Context(), hsg.TemporalFactRequest{
		Subject:    req.Subject,
		Predicate:  req.Predicate,
		Object:     req.Object,
		Namespace:  req.Namespace,
		ValidFrom:  req.ValidFrom,
		Confidence: req.Confidence,
	})
	if err != nil {
		code, msg := statusFor(err)
		return c.Status(code).JSON(ResponseHTTP{Success: false, Message: msg})
	}
	return c.Status(fiber.StatusCreated).JSON(ResponseHTTP{Success: true, Data: fiber.Map{"fact_id": fact.ID}})
}

// queryTemporalFacts implements GET /api/temporal/facts?subject=&predicate=&at=&namespace=.
func (s *Server) queryTemporalFacts(c *fiber.Ctx) error {
	subject := optionalQuery(c, "subject")
	predicate := optionalQuery(c, "predicate")
	namespace := optionalQuery(c, "namespace")

	if at := c.Query("at"); at != "" {
		ts, err := strconv.ParseInt(at, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ResponseHTTP{Success: false, Message: "invalid at"})
		}
		facts, err := s.engine.QueryTemporalFactsAt(c.Context(), subject, predicate, namespace, ts)
		if err != nil {
			code, msg := statusFor(err)
			return c.Status(code).JSON(ResponseHTTP{Success: false, Message: msg})
		}
		return c.JSON(ResponseHTTP{Success: true, Data: facts})
	}

	facts, err := s.engine.Timeline(c.Context(), subject, predicate, namespace)
	if err != nil {
		code, msg := statusFor(err)
		return c.Status(code).JSON(ResponseHTTP{Success: false, Message: msg})
	}
	return c.JSON(ResponseHTTP{Success: true, Data: facts})
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	return &v
}
