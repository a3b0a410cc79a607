// Package http exposes the HSG engine over REST via fiber, one handler
// file per resource per spec.md §6's endpoint table. Grounded on the
// teacher's fiber usage in internal/google/auth.go (fiber app + typed
// handlers + c.BodyParser) and its ResponseHTTP{Success,Data,Message}
// envelope, which every handler here reuses.
package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hsgmemory/engine/internal/hsg"
	"go.uber.org/zap"
)

// ResponseHTTP is the teacher's envelope shape (internal/google/auth.go),
// reused verbatim so every endpoint in this service looks the same
// whether it touches memories, namespaces, or temporal facts.
type ResponseHTTP struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// Server bundles the engine and logger every handler needs.
type Server struct {
	engine *hsg.Engine
	logger *zap.Logger
}

// NewRouter builds the fiber app and registers every route from
// spec.md §6's table. The caller owns Listen/Shutdown.
func NewRouter(engine *hsg.Engine, logger *zap.Logger) *fiber.App {
	s := &Server{engine: engine, logger: logger}

	app := fiber.New(fiber.Config{
		AppName:      "hsgd",
		ErrorHandler: s.errorHandler,
	})
	app.Use(recover.New())
	app.Use(namespaceHeaderMiddleware)

	app.Get("/health", s.health)

	memory := app.Group("/memory")
	memory.Post("/add", s.addMemory)
	memory.Post("/query", s.queryMemory)
	memory.Post("/reinforce", s.reinforceMemory)
	memory.Get("/all", s.listMemories)
	memory.Get("/:id", s.getMemory)
	memory.Patch("/:id", s.patchMemory)
	memory.Delete("/:id", s.deleteMemory)

	api := app.Group("/api")
	ns := api.Group("/namespaces")
	ns.Get("/", s.listNamespaces)
	ns.Post("/", s.createNamespace)
	ns.Get("/:namespace", s.getNamespace)
	ns.Put("/:namespace", s.updateNamespace)
	ns.Delete("/:namespace", s.deleteNamespace)

	temporal := api.Group("/temporal")
	temporal.Post("/facts", s.insertTemporalFact)
	temporal.Get("/facts", s.queryTemporalFacts)

	return app
}

// namespaceHeaderKey is the fiber.Locals key the X-Namespace header is
// stashed under, per spec.md §6: "Optional header X-Namespace selects
// default namespace."
const namespaceHeaderKey = "hsg_default_namespace"

func namespaceHeaderMiddleware(c *fiber.Ctx) error {
	if ns := c.Get("X-Namespace"); ns != "" {
		c.Locals(namespaceHeaderKey, ns)
	}
	return c.Next()
}

func defaultNamespace(c *fiber.Ctx) string {
	if ns, ok := c.Locals(namespaceHeaderKey).(string); ok && ns != "" {
		return ns
	}
	return "global"
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code, msg := statusFor(err)
	s.logger.Warn("hsg: http request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(code).JSON(ResponseHTTP{Success: false, Message: msg})
}
