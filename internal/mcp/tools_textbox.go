package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"pdfmark/internal/domain"
)

func (s *Server) registerTextBoxTools() {
	s.mcp.AddTool(mcp.NewTool("place_text_box",
		mcp.WithDescription("Place a text box on the current page. Switches to the edit tool. Coordinates are PDF points from the top-left corner."),
		mcp.WithNumber("x", mcp.Description("X position"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Y position"), mcp.Required()),
		mcp.WithString("text", mcp.Description("Initial text (optional, defaults to a placeholder)")),
	), s.handlePlaceTextBox)

	s.mcp.AddTool(mcp.NewTool("edit_text_box",
		mcp.WithDescription("Replace the text of a text box"),
		mcp.WithString("id", mcp.Description("Text box ID"), mcp.Required()),
		mcp.WithString("text", mcp.Description("New text"), mcp.Required()),
	), s.handleEditTextBox)

	s.mcp.AddTool(mcp.NewTool("delete_text_box",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a text box. Requires user approval."),
		mcp.WithString("id", mcp.Description("Text box ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteTextBox)

	s.mcp.AddTool(mcp.NewTool("list_text_boxes",
		mcp.WithDescription("List every text box in the document"),
	), s.handleListTextBoxes)
}

func (s *Server) handlePlaceTextBox(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	x, okX := args["x"].(float64)
	y, okY := args["y"].(float64)
	if !okX || !okY {
		return nil, fmt.Errorf("x and y are required")
	}
	if s.workspace.State().Tool != domain.ToolEdit {
		if _, err := s.workspace.SelectTool(ctx, string(domain.ToolEdit)); err != nil {
			return nil, err
		}
	}
	b, err := s.workspace.PlaceTextBox(ctx, domain.Point{X: x, Y: y})
	if err != nil {
		return nil, fmt.Errorf("place text box: %w", err)
	}
	text := req.GetString("text", "")
	if text == "" {
		return jsonResult(b)
	}
	s.workspace.CommitTextEdit(ctx, b.ID, text)
	b.Text = text
	return jsonResult(b)
}

func (s *Server) handleEditTextBox(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	text := req.GetString("text", "")
	if err := s.workspace.BeginTextEdit(ctx, id); err != nil {
		return nil, err
	}
	if !s.workspace.CommitTextEdit(ctx, id, text) {
		return textResult("Text box unchanged"), nil
	}
	return textResult(fmt.Sprintf("Text box %s updated", id)), nil
}

func (s *Server) handleDeleteTextBox(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	approved, err := s.approval.Request("delete_text_box", fmt.Sprintf("Delete text box %s", id))
	if err != nil {
		return nil, err
	}
	if !approved {
		return textResult("Delete was rejected"), nil
	}
	if !s.workspace.DeleteTextBox(ctx, id) {
		return nil, fmt.Errorf("text box %s not found", id)
	}
	return textResult(fmt.Sprintf("Text box %s deleted", id)), nil
}

func (s *Server) handleListTextBoxes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.workspace.TextBoxes())
}
