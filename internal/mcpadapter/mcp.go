// Package mcpadapter exposes the HSG engine as an MCP tool server,
// grounded directly on ai/mcp/mcp.go's MCPServer/Tool/middleware-chain
// construction. The engine never authenticates callers (spec.md §9), so
// this strips the teacher's JWT-auth middleware entirely; no logging or
// rate-limit middleware is registered either, only mcp-go's recovery
// option.
package mcpadapter

import (
	"time"

	"github.com/hsgmemory/engine/internal/hsg"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Server wraps an mcp-go server.MCPServer with every tool from
// spec.md §6's MCP tool surface registered against one hsg.Engine.
type Server struct {
	engine  *hsg.Engine
	logger  *zap.Logger
	name    string
	version string
	inner   *server.MCPServer
}

// New builds the server and registers every tool. Tools map 1:1 onto
// engine operations, per spec.md §6.
func New(engine *hsg.Engine, logger *zap.Logger) *Server {
	s := &Server{engine: engine, logger: logger, name: "hsg-memory", version: "1.0.0"}

	s.inner = server.NewMCPServer(
		s.name,
		s.version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	for _, t := range s.tools() {
		s.inner.AddTool(t.Tool, t.Handler)
	}

	return s
}

// ServeStdio runs the line-framed stdio transport, per spec.md §6's
// "either a request-response HTTP framing or line-framed stdio" wording.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.inner)
}

// HTTPHandler returns a streamable-HTTP transport for the MCP endpoint,
// mounted by cmd/hsgd alongside the REST router, the way the teacher's
// MCPServer.Start binds its own http.Server to a dedicated port.
func (s *Server) HTTPHandler(endpoint string) *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(s.inner,
		server.WithEndpointPath("/"+endpoint),
		server.WithHeartbeatInterval(30*time.Second),
		server.WithStateLess(true),
	)
}

func jsonResult(s string) *mcp.CallToolResult {
	return mcp.NewToolResultText(s)
}

func errResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}
