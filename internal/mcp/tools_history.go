package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerHistoryTools() {
	// ── undo / redo ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last structural edit on a template"),
		mcp.WithString("templateId", mcp.Description("Template ID (optional, defaults to active template)")),
	), s.handleUndo)

	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the next undone edit on a template"),
		mcp.WithString("templateId", mcp.Description("Template ID (optional, defaults to active template)")),
	), s.handleRedo)

	// ── editor_state ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("editor_state",
		mcp.WithDescription("Get the session's interaction state: selection, zoom, grid flags, dirty flag, undo/redo availability"),
		mcp.WithString("templateId", mcp.Description("Template ID (optional, defaults to active template)")),
	), s.handleEditorState)

	// ── set_zoom ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_zoom",
		mcp.WithDescription("Set the canvas zoom percentage (clamped to 25–200)"),
		mcp.WithNumber("zoom", mcp.Description("Zoom percentage"), mcp.Required()),
		mcp.WithString("templateId", mcp.Description("Template ID (optional, defaults to active template)")),
	), s.handleSetZoom)
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, templateID, err := s.sessionForTool(req.GetArguments())
	if err != nil {
		return nil, err
	}
	if !sess.Undo() {
		return textResult("Nothing to undo"), nil
	}
	s.emitLayoutChanged(ctx, templateID)
	return textResult(fmt.Sprintf("Undone — now at %q", sess.LastAction())), nil
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, templateID, err := s.sessionForTool(req.GetArguments())
	if err != nil {
		return nil, err
	}
	if !sess.Redo() {
		return textResult("Nothing to redo"), nil
	}
	s.emitLayoutChanged(ctx, templateID)
	return textResult(fmt.Sprintf("Redone — now at %q", sess.LastAction())), nil
}

func (s *Server) handleEditorState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, templateID, err := s.sessionForTool(req.GetArguments())
	if err != nil {
		return nil, err
	}
	state := sess.State()
	return jsonResult(map[string]any{
		"templateId":          templateID,
		"mode":                state.Mode,
		"selectedComponentId": state.SelectedComponentID,
		"hoveredComponentId":  state.HoveredComponentID,
		"isDirty":             state.IsDirty,
		"zoom":                state.Zoom,
		"gridEnabled":         state.GridEnabled,
		"snapToGrid":          state.SnapToGrid,
		"canUndo":             sess.CanUndo(),
		"canRedo":             sess.CanRedo(),
		"lastAction":          sess.LastAction(),
	})
}

func (s *Server) handleSetZoom(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, _, err := s.sessionForTool(args)
	if err != nil {
		return nil, err
	}
	sess.SetZoom(getInt(args, "zoom", 100))
	return textResult(fmt.Sprintf("Zoom set to %d%%", sess.State().Zoom)), nil
}
