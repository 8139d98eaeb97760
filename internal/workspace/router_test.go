package workspace_test

import (
	"testing"

	"pdfmark/internal/domain"
	"pdfmark/internal/workspace"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		tool  domain.Tool
		drag  workspace.Target
		click workspace.Target
	}{
		{domain.ToolSelect, workspace.TargetNone, workspace.TargetNone},
		{domain.ToolHighlight, workspace.TargetSurface, workspace.TargetNone},
		{domain.ToolPen, workspace.TargetSurface, workspace.TargetNone},
		{domain.ToolEraser, workspace.TargetSurface, workspace.TargetNone},
		{domain.ToolEdit, workspace.TargetNone, workspace.TargetTextLayer},
	}
	for _, tt := range tests {
		t.Run(string(tt.tool), func(t *testing.T) {
			if got := workspace.Route(tt.tool, workspace.GestureDrag); got != tt.drag {
				t.Errorf("drag → %s, want %s", got, tt.drag)
			}
			if got := workspace.Route(tt.tool, workspace.GestureClick); got != tt.click {
				t.Errorf("click → %s, want %s", got, tt.click)
			}
		})
	}
}

func TestToolController_RetainsHighlightColor(t *testing.T) {
	c := workspace.NewToolController()
	if c.Tool() != domain.ToolSelect || c.HighlightColor() != domain.HighlightYellow {
		t.Fatalf("unexpected defaults: %s / %s", c.Tool(), c.HighlightColor())
	}
	c.Select(domain.ToolHighlight)
	if err := c.SetHighlightColor(domain.HighlightBlue); err != nil {
		t.Fatalf("SetHighlightColor: %v", err)
	}
	c.Select(domain.ToolPen)
	c.Select(domain.ToolEdit)
	c.Select(domain.ToolHighlight)
	if c.HighlightColor() != domain.HighlightBlue {
		t.Errorf("color = %s, want blue", c.HighlightColor())
	}
}

func TestToolController_Rejects(t *testing.T) {
	c := workspace.NewToolController()
	if _, err := c.Select("lasso"); err == nil {
		t.Error("unknown tool should be rejected")
	}
	if c.Tool() != domain.ToolSelect {
		t.Errorf("tool changed to %s after rejected select", c.Tool())
	}
	if err := c.SetHighlightColor("orange"); err == nil {
		t.Error("color outside the palette should be rejected")
	}
}

func TestParseTool(t *testing.T) {
	for _, tool := range domain.Tools {
		got, err := domain.ParseTool(string(tool))
		if err != nil || got != tool {
			t.Errorf("ParseTool(%q) = %q, %v", tool, got, err)
		}
	}
	if _, err := domain.ParseTool("text"); err == nil {
		t.Error("expected error for unknown tool")
	}
}
