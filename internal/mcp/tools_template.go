package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"pagebuilder/internal/domain"
)

func (s *Server) registerTemplateTools() {
	// ── set_active_template ────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_active_template",
		mcp.WithDescription("Set the template that subsequent tools operate on by default"),
		mcp.WithString("templateId", mcp.Description("Template ID"), mcp.Required()),
	), s.handleSetActiveTemplate)

	// ── list_templates ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List all stored layout templates"),
	), s.handleListTemplates)

	// ── create_template ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_template",
		mcp.WithDescription("Create a new layout template from a structure archetype"),
		mcp.WithString("name", mcp.Description("Template name"), mcp.Required()),
		mcp.WithString("structure",
			mcp.Description("Layout structure: single-column, sidebar-left, sidebar-right, header-sidebar, two-column"),
		),
	), s.handleCreateTemplate)

	// ── get_template ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_template",
		mcp.WithDescription("Get the current live document of a template, including zones and components"),
		mcp.WithString("templateId", mcp.Description("Template ID (optional, defaults to active template)")),
	), s.handleGetTemplate)

	// ── duplicate_template ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("duplicate_template",
		mcp.WithDescription("Duplicate a template under a new id; component ids are regenerated"),
		mcp.WithString("templateId", mcp.Description("Template ID (optional, defaults to active template)")),
		mcp.WithString("name", mcp.Description("Name for the copy (optional)")),
	), s.handleDuplicateTemplate)

	// ── delete_template (destructive) ──────────────────
	s.mcp.AddTool(mcp.NewTool("delete_template",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a template and all of its revisions."),
		mcp.WithString("templateId", mcp.Description("Template ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteTemplate)

	// ── save_template ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_template",
		mcp.WithDescription("Persist the current document and record a revision; clears the dirty flag"),
		mcp.WithString("templateId", mcp.Description("Template ID (optional, defaults to active template)")),
	), s.handleSaveTemplate)

	// ── list_revisions ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_revisions",
		mcp.WithDescription("List persisted save points for a template, newest first"),
		mcp.WithString("templateId", mcp.Description("Template ID (optional, defaults to active template)")),
	), s.handleListRevisions)

	// ── restore_revision ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("restore_revision",
		mcp.WithDescription("Replace the current document with a stored revision snapshot"),
		mcp.WithString("revisionId", mcp.Description("Revision ID"), mcp.Required()),
		mcp.WithString("templateId", mcp.Description("Template ID (optional, defaults to active template)")),
	), s.handleRestoreRevision)
}

func boolPtr(v bool) *bool { return &v }

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleSetActiveTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	templateID, _ := args["templateId"].(string)
	if templateID == "" {
		return nil, fmt.Errorf("templateId is required")
	}
	if _, err := s.templates.GetTemplate(templateID); err != nil {
		return nil, fmt.Errorf("template not found: %w", err)
	}
	s.activeTemplateID = templateID
	return textResult(fmt.Sprintf("Active template set to %s", templateID)), nil
}

func (s *Server) handleListTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templates, err := s.templates.ListTemplates()
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	type templateSummary struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Structure  string `json:"structure"`
		Zones      int    `json:"zones"`
		Components int    `json:"components"`
	}
	summaries := make([]templateSummary, len(templates))
	for i := range templates {
		t := &templates[i]
		summaries[i] = templateSummary{
			ID:         t.ID,
			Name:       t.Name,
			Structure:  string(t.Structure),
			Zones:      len(t.Zones),
			Components: t.ComponentCount(),
		}
	}
	return jsonResult(summaries)
}

func (s *Server) handleCreateTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	name, _ := args["name"].(string)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	structure, _ := args["structure"].(string)

	t, err := s.templates.CreateTemplate(name, domain.LayoutStructure(structure))
	if err != nil {
		return nil, err
	}
	s.activeTemplateID = t.ID
	return jsonResult(t)
}

func (s *Server) handleGetTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, _, err := s.sessionForTool(req.GetArguments())
	if err != nil {
		return nil, err
	}
	return jsonResult(sess.Template())
}

func (s *Server) handleDuplicateTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	templateID, err := s.resolveTemplateID(args)
	if err != nil {
		return nil, err
	}
	name, _ := args["name"].(string)

	t, err := s.templates.DuplicateTemplate(templateID, name)
	if err != nil {
		return nil, err
	}
	return jsonResult(t)
}

func (s *Server) handleDeleteTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	templateID, _ := args["templateId"].(string)
	if templateID == "" {
		return nil, fmt.Errorf("templateId is required")
	}

	s.sessions.Close(templateID)
	if err := s.templates.DeleteTemplate(ctx, templateID); err != nil {
		return nil, err
	}
	if s.activeTemplateID == templateID {
		s.activeTemplateID = ""
	}
	return textResult(fmt.Sprintf("Template %s deleted", templateID)), nil
}

func (s *Server) handleSaveTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, templateID, err := s.sessionForTool(req.GetArguments())
	if err != nil {
		return nil, err
	}
	if err := s.templates.SaveSession(ctx, sess); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Template %s saved", templateID)), nil
}

func (s *Server) handleListRevisions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID, err := s.resolveTemplateID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	revisions, err := s.templates.ListRevisions(templateID)
	if err != nil {
		return nil, err
	}
	return jsonResult(revisions)
}

func (s *Server) handleRestoreRevision(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	revisionID, _ := args["revisionId"].(string)
	if revisionID == "" {
		return nil, fmt.Errorf("revisionId is required")
	}
	sess, templateID, err := s.sessionForTool(args)
	if err != nil {
		return nil, err
	}
	if err := s.templates.RestoreRevision(ctx, sess, revisionID); err != nil {
		return nil, err
	}
	s.emitLayoutChanged(ctx, templateID)
	return textResult(fmt.Sprintf("Template %s restored to revision %s", templateID, revisionID)), nil
}
