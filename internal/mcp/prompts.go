package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("review_document",
		mcp.WithPromptDescription("Read a PDF page by page and highlight the passages that matter for a topic"),
		mcp.WithArgument("path",
			mcp.ArgumentDescription("Path to the PDF"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("topic",
			mcp.ArgumentDescription("What the reviewer is looking for"),
			mcp.RequiredArgument(),
		),
	), s.handleReviewPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("fill_form",
		mcp.WithPromptDescription("Place text boxes to fill in a form-like PDF"),
		mcp.WithArgument("path",
			mcp.ArgumentDescription("Path to the PDF"),
			mcp.RequiredArgument(),
		),
	), s.handleFillFormPrompt)
}

func (s *Server) handleReviewPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	path := req.Params.Arguments["path"]
	topic := req.Params.Arguments["topic"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Review %s for: %s", path, topic),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Review the PDF at %s for anything related to "%s". Follow these steps:

1. Use open_document to load the file, then get_workspace_state to learn the page count.
2. For each page, read the pdfmark://page/{page}/spans resource to get the text and its position.
3. For every relevant passage, call draw_stroke with tool "highlight" and a horizontal line across the span (y at the middle of the span).
4. Use yellow for key findings and pink for risks (set_highlight_color).
5. Finish with list_annotations on each page and summarize what you marked.`, path, topic),
				},
			},
		},
	}, nil
}

func (s *Server) handleFillFormPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	path := req.Params.Arguments["path"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Fill in the form at %s", path),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Fill in the form at %s:

1. Use open_document, then read pdfmark://page/1/spans to find labels such as "Name:" or "Date:".
2. For each field, ask me for the value if you do not know it.
3. Place the value with place_text_box just right of the label (x = label x + label width + 6, y = label y).
4. Use list_text_boxes to confirm every field was placed, then call export_document.`, path),
				},
			},
		},
	}, nil
}
