package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"pagebuilder/internal/domain"
)

func (s *Server) registerComponentTools() {
	// ── list_component_types ───────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_component_types",
		mcp.WithDescription("List the component palette: registered types with their defaults"),
	), s.handleListComponentTypes)

	// ── add_component ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_component",
		mcp.WithDescription("Add a new component to a zone. Appends when index is omitted."),
		mcp.WithString("type",
			mcp.Description("Component type: heading, text, image, divider, table, chart, metric, text-input, select, button"),
			mcp.Required(),
		),
		mcp.WithString("zoneId", mcp.Description("Zone ID (optional, defaults to the first zone)")),
		mcp.WithNumber("index", mcp.Description("Insertion index within the zone (optional, appends if omitted)")),
		mcp.WithString("props", mcp.Description("JSON object of initial props merged over the type defaults (optional)")),
		mcp.WithString("templateId", mcp.Description("Template ID (optional, defaults to active template)")),
	), s.handleAddComponent)

	// ── update_component_props ─────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_component_props",
		mcp.WithDescription("Shallow-merge a JSON object into a component's props"),
		mcp.WithString("componentId", mcp.Description("Component ID"), mcp.Required()),
		mcp.WithString("props", mcp.Description("JSON object of props to merge"), mcp.Required()),
		mcp.WithString("templateId", mcp.Description("Template ID (optional, defaults to active template)")),
	), s.handleUpdateComponentProps)

	// ── delete_component (destructive) ─────────────────
	s.mcp.AddTool(mcp.NewTool("delete_component",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a component from the document."),
		mcp.WithString("componentId", mcp.Description("Component ID to delete"), mcp.Required()),
		mcp.WithString("templateId", mcp.Description("Template ID (optional, defaults to active template)")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteComponent)

	// ── reorder_component ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("reorder_component",
		mcp.WithDescription("Move a component to a new index within its zone"),
		mcp.WithString("zoneId", mcp.Description("Zone ID"), mcp.Required()),
		mcp.WithNumber("oldIndex", mcp.Description("Current index"), mcp.Required()),
		mcp.WithNumber("newIndex", mcp.Description("Target index"), mcp.Required()),
		mcp.WithString("templateId", mcp.Description("Template ID (optional, defaults to active template)")),
	), s.handleReorderComponent)

	// ── move_component ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_component",
		mcp.WithDescription("Move a component from one zone to another. Appends when index is omitted."),
		mcp.WithString("componentId", mcp.Description("Component ID"), mcp.Required()),
		mcp.WithString("sourceZoneId", mcp.Description("Zone the component currently lives in"), mcp.Required()),
		mcp.WithString("targetZoneId", mcp.Description("Zone to move it into"), mcp.Required()),
		mcp.WithNumber("index", mcp.Description("Insertion index in the target zone (optional)")),
		mcp.WithString("templateId", mcp.Description("Template ID (optional, defaults to active template)")),
	), s.handleMoveComponent)

	// ── copy_component / paste_component ───────────────
	s.mcp.AddTool(mcp.NewTool("copy_component",
		mcp.WithDescription("Copy a component to the session clipboard"),
		mcp.WithString("componentId", mcp.Description("Component ID"), mcp.Required()),
		mcp.WithString("templateId", mcp.Description("Template ID (optional, defaults to active template)")),
	), s.handleCopyComponent)

	s.mcp.AddTool(mcp.NewTool("paste_component",
		mcp.WithDescription("Paste the clipboard into a zone. The pasted component gets a fresh id."),
		mcp.WithString("zoneId", mcp.Description("Zone ID (optional, defaults to the first zone)")),
		mcp.WithNumber("index", mcp.Description("Insertion index (optional, appends if omitted)")),
		mcp.WithString("templateId", mcp.Description("Template ID (optional, defaults to active template)")),
	), s.handlePasteComponent)

	// ── select_component ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("select_component",
		mcp.WithDescription("Select a component (empty id clears the selection)"),
		mcp.WithString("componentId", mcp.Description("Component ID")),
		mcp.WithString("templateId", mcp.Description("Template ID (optional, defaults to active template)")),
	), s.handleSelectComponent)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListComponentTypes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.registry.Definitions())
}

func (s *Server) handleAddComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	componentType, _ := args["type"].(string)
	if componentType == "" {
		return nil, fmt.Errorf("type is required")
	}
	sess, templateID, err := s.sessionForTool(args)
	if err != nil {
		return nil, err
	}

	c, err := s.registry.NewComponent(componentType)
	if err != nil {
		return nil, err
	}
	if propsJSON, ok := args["props"].(string); ok && propsJSON != "" {
		var props map[string]any
		if err := json.Unmarshal([]byte(propsJSON), &props); err != nil {
			return nil, fmt.Errorf("invalid props JSON: %w", err)
		}
		for k, v := range props {
			c.Props[k] = v
		}
	}

	zoneID, _ := args["zoneId"].(string)
	index := getInt(args, "index", -1)
	if !sess.AddComponent(c, zoneID, index) {
		return nil, fmt.Errorf("zone %q does not exist", zoneID)
	}
	sess.SelectComponent(c.ID)

	s.emitLayoutChanged(ctx, templateID)
	return jsonResult(c)
}

func (s *Server) handleUpdateComponentProps(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	componentID, _ := args["componentId"].(string)
	propsJSON, _ := args["props"].(string)
	if componentID == "" || propsJSON == "" {
		return nil, fmt.Errorf("componentId and props are required")
	}
	sess, templateID, err := s.sessionForTool(args)
	if err != nil {
		return nil, err
	}

	var props map[string]any
	if err := json.Unmarshal([]byte(propsJSON), &props); err != nil {
		return nil, fmt.Errorf("invalid props JSON: %w", err)
	}
	if !sess.UpdateComponentProps(componentID, props) {
		return textResult(fmt.Sprintf("Component %s not found — nothing changed", componentID)), nil
	}

	s.emitLayoutChanged(ctx, templateID)
	return textResult(fmt.Sprintf("Component %s props updated", componentID)), nil
}

func (s *Server) handleDeleteComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	componentID, _ := args["componentId"].(string)
	if componentID == "" {
		return nil, fmt.Errorf("componentId is required")
	}
	sess, templateID, err := s.sessionForTool(args)
	if err != nil {
		return nil, err
	}

	if !sess.DeleteComponent(componentID) {
		return textResult(fmt.Sprintf("Component %s not found — nothing changed", componentID)), nil
	}
	s.emitLayoutChanged(ctx, templateID)
	return textResult(fmt.Sprintf("Component %s deleted", componentID)), nil
}

func (s *Server) handleReorderComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	zoneID, _ := args["zoneId"].(string)
	if zoneID == "" {
		return nil, fmt.Errorf("zoneId is required")
	}
	sess, templateID, err := s.sessionForTool(args)
	if err != nil {
		return nil, err
	}

	oldIndex := getInt(args, "oldIndex", -1)
	newIndex := getInt(args, "newIndex", -1)
	if !sess.ReorderComponent(zoneID, oldIndex, newIndex) {
		return textResult("Reorder was a no-op (unknown zone or index out of range)"), nil
	}
	s.emitLayoutChanged(ctx, templateID)
	return textResult(fmt.Sprintf("Zone %s reordered: %d → %d", zoneID, oldIndex, newIndex)), nil
}

func (s *Server) handleMoveComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	componentID, _ := args["componentId"].(string)
	sourceZoneID, _ := args["sourceZoneId"].(string)
	targetZoneID, _ := args["targetZoneId"].(string)
	if componentID == "" || sourceZoneID == "" || targetZoneID == "" {
		return nil, fmt.Errorf("componentId, sourceZoneId, and targetZoneId are required")
	}
	sess, templateID, err := s.sessionForTool(args)
	if err != nil {
		return nil, err
	}

	index := getInt(args, "index", -1)
	if !sess.MoveComponent(componentID, sourceZoneID, targetZoneID, index) {
		return textResult("Move was a no-op (component or zone not found)"), nil
	}
	s.emitLayoutChanged(ctx, templateID)
	return textResult(fmt.Sprintf("Component %s moved to zone %s", componentID, targetZoneID)), nil
}

func (s *Server) handleCopyComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	componentID, _ := args["componentId"].(string)
	if componentID == "" {
		return nil, fmt.Errorf("componentId is required")
	}
	sess, _, err := s.sessionForTool(args)
	if err != nil {
		return nil, err
	}

	if !sess.CopyComponent(componentID) {
		return nil, fmt.Errorf("component %s not found", componentID)
	}
	return textResult(fmt.Sprintf("Component %s copied", componentID)), nil
}

func (s *Server) handlePasteComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, templateID, err := s.sessionForTool(args)
	if err != nil {
		return nil, err
	}

	zoneID, _ := args["zoneId"].(string)
	index := getInt(args, "index", -1)
	c := sess.PasteComponent(zoneID, index)
	if c == nil {
		return textResult("Clipboard is empty — nothing pasted"), nil
	}
	s.emitLayoutChanged(ctx, templateID)
	return jsonResult(c)
}

func (s *Server) handleSelectComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, _, err := s.sessionForTool(args)
	if err != nil {
		return nil, err
	}
	componentID, _ := args["componentId"].(string)
	sess.SelectComponent(componentID)
	if componentID == "" {
		return textResult("Selection cleared"), nil
	}
	return textResult(fmt.Sprintf("Component %s selected", componentID)), nil
}

// summarizeComponent is the compact form used in listings.
type componentSummary struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	ZoneID   string `json:"zoneId"`
	Index    int    `json:"index"`
	GridSpan int    `json:"gridSpan"`
	HasData  bool   `json:"hasData"`
}

func summarizeComponents(t *domain.LayoutTemplate) []componentSummary {
	var out []componentSummary
	for zi := range t.Zones {
		for ci := range t.Zones[zi].Components {
			c := &t.Zones[zi].Components[ci]
			out = append(out, componentSummary{
				ID:       c.ID,
				Type:     c.Type,
				ZoneID:   t.Zones[zi].ID,
				Index:    ci,
				GridSpan: c.GridSpan,
				HasData:  c.DataSource != nil,
			})
		}
	}
	return out
}
