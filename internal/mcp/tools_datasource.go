package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"pagebuilder/internal/datasource"
	"pagebuilder/internal/domain"
)

func (s *Server) registerDataSourceTools() {
	// ── set_component_data_source ──────────────────────
	s.mcp.AddTool(mcp.NewTool("set_component_data_source",
		mcp.WithDescription("Bind a component to a data source. The config replaces any previous one wholesale."),
		mcp.WithString("componentId", mcp.Description("Component ID"), mcp.Required()),
		mcp.WithString("config",
			mcp.Description(`JSON DataSourceConfig, e.g. {"kind":"query","driver":"postgres","host":"db","database":"app","username":"reader","query":"SELECT ..."}; empty string detaches`),
		),
		mcp.WithString("templateId", mcp.Description("Template ID (optional, defaults to active template)")),
	), s.handleSetComponentDataSource)

	// ── preview_data_source ────────────────────────────
	s.mcp.AddTool(mcp.NewTool("preview_data_source",
		mcp.WithDescription("Run a component's data source query and return a bounded row preview. Password is read from PAGEBUILDER_DS_PASSWORD."),
		mcp.WithString("componentId", mcp.Description("Component ID"), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Max rows (default 50)")),
		mcp.WithString("templateId", mcp.Description("Template ID (optional, defaults to active template)")),
	), s.handlePreviewDataSource)

	// ── introspect_data_source ─────────────────────────
	s.mcp.AddTool(mcp.NewTool("introspect_data_source",
		mcp.WithDescription("Return the schema (tables and columns) behind a component's data source"),
		mcp.WithString("componentId", mcp.Description("Component ID"), mcp.Required()),
		mcp.WithString("templateId", mcp.Description("Template ID (optional, defaults to active template)")),
	), s.handleIntrospectDataSource)
}

// componentDataSource looks up a component's data source config in the
// session's live document.
func (s *Server) componentDataSource(args map[string]any) (*domain.DataSourceConfig, error) {
	componentID, _ := args["componentId"].(string)
	if componentID == "" {
		return nil, fmt.Errorf("componentId is required")
	}
	sess, _, err := s.sessionForTool(args)
	if err != nil {
		return nil, err
	}
	c, _, _ := sess.Template().FindComponent(componentID)
	if c == nil {
		return nil, fmt.Errorf("component %s not found", componentID)
	}
	if c.DataSource == nil {
		return nil, fmt.Errorf("component %s has no data source", componentID)
	}
	return c.DataSource, nil
}

func (s *Server) handleSetComponentDataSource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	componentID, _ := args["componentId"].(string)
	if componentID == "" {
		return nil, fmt.Errorf("componentId is required")
	}
	sess, templateID, err := s.sessionForTool(args)
	if err != nil {
		return nil, err
	}

	var ds *domain.DataSourceConfig
	if configJSON, ok := args["config"].(string); ok && configJSON != "" {
		ds = &domain.DataSourceConfig{}
		if err := json.Unmarshal([]byte(configJSON), ds); err != nil {
			return nil, fmt.Errorf("invalid config JSON: %w", err)
		}
	}
	if !sess.UpdateComponentDataSource(componentID, ds) {
		return textResult(fmt.Sprintf("Component %s not found — nothing changed", componentID)), nil
	}

	s.emitLayoutChanged(ctx, templateID)
	if ds == nil {
		return textResult(fmt.Sprintf("Component %s data source detached", componentID)), nil
	}
	return textResult(fmt.Sprintf("Component %s bound to %s data source", componentID, ds.Driver)), nil
}

func (s *Server) handlePreviewDataSource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	ds, err := s.componentDataSource(args)
	if err != nil {
		return nil, err
	}

	conn, err := datasource.NewConnector(ds, os.Getenv("PAGEBUILDER_DS_PASSWORD"))
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	preview, err := conn.Preview(ctx, ds.Query, getInt(args, "limit", 50))
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	return jsonResult(preview)
}

func (s *Server) handleIntrospectDataSource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ds, err := s.componentDataSource(req.GetArguments())
	if err != nil {
		return nil, err
	}

	conn, err := datasource.NewConnector(ds, os.Getenv("PAGEBUILDER_DS_PASSWORD"))
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	schema, err := conn.Introspect(ctx)
	if err != nil {
		return nil, fmt.Errorf("introspect: %w", err)
	}
	return jsonResult(schema)
}
