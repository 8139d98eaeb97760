package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"pdfmark/internal/workspace"
)

func (s *Server) registerAnnotationTools() {
	s.mcp.AddTool(mcp.NewTool("draw_stroke",
		mcp.WithDescription("Draw a highlight, pen or eraser stroke on the current page. Coordinates are PDF points from the top-left corner, independent of zoom."),
		mcp.WithString("tool", mcp.Description("highlight, pen or eraser"), mcp.Required()),
		mcp.WithString("points", mcp.Description("JSON array of [x,y] pairs, e.g. [[72,100],[300,100]]"), mcp.Required()),
		mcp.WithString("color", mcp.Description("Highlight color (optional, defaults to the active highlight color)")),
	), s.handleDrawStroke)

	s.mcp.AddTool(mcp.NewTool("clear_page",
		mcp.WithDescription("🛑 DESTRUCTIVE: Remove every stroke on the current page. Requires user approval."),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleClearPage)

	s.mcp.AddTool(mcp.NewTool("list_annotations",
		mcp.WithDescription("List the strokes of a page"),
		mcp.WithNumber("page", mcp.Description("Page number (optional, defaults to the current page)")),
	), s.handleListAnnotations)
}

// ── Handlers ────────────────────────────────────────────────

func (s *Server) handleDrawStroke(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tool := req.GetString("tool", "")
	raw := req.GetString("points", "")
	if tool == "" || raw == "" {
		return nil, fmt.Errorf("tool and points are required")
	}
	pts, err := parsePoints(raw)
	if err != nil {
		return nil, err
	}
	a, err := s.workspace.DrawStroke(ctx, tool, req.GetString("color", ""), pts)
	if err != nil {
		return nil, fmt.Errorf("draw stroke: %w", err)
	}
	return jsonResult(a)
}

func (s *Server) handleClearPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, ok := s.workspace.Document(); !ok {
		return nil, workspace.ErrNoDocument
	}
	page := s.workspace.State().Page
	approved, err := s.approval.Request("clear_page",
		fmt.Sprintf("Remove all strokes on page %d", page))
	if err != nil {
		return nil, err
	}
	if !approved {
		return textResult("Clear page was rejected"), nil
	}
	n := s.workspace.ClearPage(ctx)
	return textResult(fmt.Sprintf("Removed %d stroke(s) from page %d", n, page)), nil
}

func (s *Server) handleListAnnotations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.workspace.Annotations(req.GetInt("page", 0)))
}
