package http

import "github.com/gofiber/fiber/v2"

// health implements GET /health.
func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
