package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerResources() {
	// ── builder://templates ────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"builder://templates",
		"All Layout Templates",
		mcp.WithMIMEType("application/json"),
	), s.handleTemplatesResource)

	// ── builder://template/{templateId}/components ─────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"builder://template/{templateId}/components",
			"Components in a Template",
		),
		s.handleTemplateComponentsResource,
	)
}

func (s *Server) handleTemplatesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	templates, err := s.templates.ListTemplates()
	if err != nil {
		return nil, err
	}

	type templateSummary struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Structure string `json:"structure"`
	}

	var summaries []templateSummary
	for _, t := range templates {
		summaries = append(summaries, templateSummary{ID: t.ID, Name: t.Name, Structure: string(t.Structure)})
	}

	data, _ := json.MarshalIndent(summaries, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "builder://templates",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleTemplateComponentsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	templateID := extractTemplateIDFromURI(uri)
	if templateID == "" {
		return nil, fmt.Errorf("could not extract templateId from URI: %s", uri)
	}

	sess, err := s.sessions.Open(templateID)
	if err != nil {
		return nil, err
	}

	data, _ := json.MarshalIndent(summarizeComponents(sess.Template()), "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// extractTemplateIDFromURI parses builder://template/{templateId}/components.
func extractTemplateIDFromURI(uri string) string {
	const prefix = "builder://template/"
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	rest := strings.TrimPrefix(uri, prefix)
	if idx := strings.Index(rest, "/"); idx != -1 {
		rest = rest[:idx]
	}
	return rest
}
