package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"pdfmark/internal/domain"
	"pdfmark/internal/workspace"
)

func (s *Server) registerWorkspaceTools() {
	// ── get_workspace_state ────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_workspace_state",
		mcp.WithDescription("Get the open document, current page, zoom, active tool and the marks on the visible page"),
	), s.handleGetWorkspaceState)

	// ── open_document ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("open_document",
		mcp.WithDescription("Open a PDF from disk. Replaces the current document and discards its annotations."),
		mcp.WithString("path",
			mcp.Description("Path to the PDF file"),
			mcp.Required(),
		),
	), s.handleOpenDocument)

	// ── select_tool ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("select_tool",
		mcp.WithDescription("Switch the active tool"),
		mcp.WithString("tool",
			mcp.Description("One of: select, highlight, pen, eraser, edit"),
			mcp.Required(),
		),
	), s.handleSelectTool)

	// ── set_highlight_color ────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_highlight_color",
		mcp.WithDescription("Set the color used by the highlight tool"),
		mcp.WithString("color",
			mcp.Description("One of: yellow, green, blue, pink"),
			mcp.Required(),
		),
	), s.handleSetHighlightColor)

	// ── go_to_page ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("go_to_page",
		mcp.WithDescription("Navigate to a page (1-based, clamped to the document)"),
		mcp.WithNumber("page", mcp.Description("Page number"), mcp.Required()),
	), s.handleGoToPage)

	// ── zoom ───────────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("zoom",
		mcp.WithDescription("Change the zoom level. Give either direction or scale."),
		mcp.WithString("direction", mcp.Description("'in' or 'out' (one step)")),
		mcp.WithNumber("scale", mcp.Description("Absolute scale, clamped to the allowed range")),
	), s.handleZoom)

	// ── list_span_edits ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_span_edits",
		mcp.WithDescription("List text-layer edits captured with the edit tool, keyed by span ID"),
	), s.handleListSpanEdits)

	// ── export_document ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("export_document",
		mcp.WithDescription("Save the annotated document"),
	), s.handleExportDocument)

	// ── render_overlay ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("render_overlay",
		mcp.WithDescription("Render a page's strokes and text boxes as a transparent PNG"),
		mcp.WithNumber("page", mcp.Description("Page number (optional, defaults to the current page)")),
	), s.handleRenderOverlay)
}

func (s *Server) handleGetWorkspaceState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.workspace.State())
}

func (s *Server) handleOpenDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	st, err := s.workspace.OpenPath(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	return jsonResult(st)
}

func (s *Server) handleSelectTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("tool", "")
	if name == "" {
		return nil, fmt.Errorf("tool is required")
	}
	st, err := s.workspace.SelectTool(ctx, name)
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Active tool: %s", st.Tool)), nil
}

func (s *Server) handleSetHighlightColor(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	color := req.GetString("color", "")
	if color == "" {
		return nil, fmt.Errorf("color is required")
	}
	st, err := s.workspace.SetHighlightColor(ctx, color)
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Highlight color: %s (%s)", st.HighlightColor, st.HighlightColor.Hex())), nil
}

func (s *Server) handleGoToPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page := req.GetInt("page", 0)
	if page == 0 {
		return nil, fmt.Errorf("page is required")
	}
	if _, ok := s.workspace.Document(); !ok {
		return nil, workspace.ErrNoDocument
	}
	st := s.workspace.GoToPage(ctx, page)
	return textResult(fmt.Sprintf("Page %d of %d", st.Page, st.TotalPages)), nil
}

func (s *Server) handleZoom(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var st domain.PageState
	switch dir := strings.ToLower(req.GetString("direction", "")); {
	case dir == "in":
		st = s.workspace.ZoomIn(ctx)
	case dir == "out":
		st = s.workspace.ZoomOut(ctx)
	case dir != "":
		return nil, fmt.Errorf("direction must be 'in' or 'out', got %q", dir)
	default:
		scale := req.GetFloat("scale", 0)
		if scale <= 0 {
			return nil, fmt.Errorf("direction or a positive scale is required")
		}
		st = s.workspace.SetScale(ctx, scale)
	}
	return textResult(fmt.Sprintf("Zoom: %.0f%%", st.Scale*100)), nil
}

func (s *Server) handleListSpanEdits(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.workspace.SpanEdits())
}

func (s *Server) handleExportDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	err := s.workspace.Export()
	if errors.Is(err, workspace.ErrExportUnimplemented) {
		return textResult(err.Error()), nil
	}
	if err != nil {
		return nil, err
	}
	return textResult("Document exported"), nil
}

func (s *Server) handleRenderOverlay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := s.workspace.OverlayPNG(req.GetInt("page", 0))
	if err != nil {
		return nil, fmt.Errorf("render overlay: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.ImageContent{
				Type:     "image",
				Data:     strings.TrimPrefix(url, "data:image/png;base64,"),
				MIMEType: "image/png",
			},
		},
	}, nil
}
