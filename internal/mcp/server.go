package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"pagebuilder/internal/registry"
	"pagebuilder/internal/service"
	"pagebuilder/internal/session"
)

// Server is the MCP server for the page builder.
// It exposes tools and resources so AI agents can edit layouts the same way
// the drag surface does: through the session's mutation and history paths.
type Server struct {
	mcp      *server.MCPServer
	emitter  service.EventEmitter
	registry *registry.Registry

	// Services (injected from app layer)
	templates *service.TemplateService
	sessions  *service.SessionManager

	// Active document context (set by the set_active_template tool)
	activeTemplateID string
}

// Deps holds all dependencies passed from the app layer to the MCP server.
type Deps struct {
	Emitter   service.EventEmitter
	Registry  *registry.Registry
	Templates *service.TemplateService
	Sessions  *service.SessionManager
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	s := &Server{
		emitter:   deps.Emitter,
		registry:  deps.Registry,
		templates: deps.Templates,
		sessions:  deps.Sessions,
	}

	s.mcp = server.NewMCPServer(
		"pagebuilder-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTemplateTools()
	s.registerComponentTools()
	s.registerHistoryTools()
	s.registerDataSourceTools()
	s.registerResources()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// emitLayoutChanged notifies the rendering surface that a document changed.
func (s *Server) emitLayoutChanged(ctx context.Context, templateID string) {
	s.emitter.Emit(ctx, "mcp:layout-changed", map[string]string{"templateId": templateID})
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// resolveTemplateID returns the templateId from tool args or falls back to
// the active template.
func (s *Server) resolveTemplateID(args map[string]any) (string, error) {
	if tid, ok := args["templateId"].(string); ok && tid != "" {
		return tid, nil
	}
	if s.activeTemplateID != "" {
		return s.activeTemplateID, nil
	}
	return "", fmt.Errorf("no templateId provided and no active template set (use set_active_template first)")
}

// sessionForTool opens (or returns) the editing session for the tool's
// target template.
func (s *Server) sessionForTool(args map[string]any) (*session.Session, string, error) {
	templateID, err := s.resolveTemplateID(args)
	if err != nil {
		return nil, "", err
	}
	sess, err := s.sessions.Open(templateID)
	if err != nil {
		return nil, "", err
	}
	return sess, templateID, nil
}

// getInt reads an integer argument with a fallback. MCP numbers arrive as
// float64.
func getInt(args map[string]any, key string, fallback int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return fallback
}
