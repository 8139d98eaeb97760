package domain

import "fmt"

type Tool string

const (
	ToolSelect    Tool = "select"
	ToolHighlight Tool = "highlight"
	ToolPen       Tool = "pen"
	ToolEraser    Tool = "eraser"
	ToolEdit      Tool = "edit"
)

// Tools lists every tool in toolbar order.
var Tools = []Tool{ToolSelect, ToolHighlight, ToolPen, ToolEraser, ToolEdit}

// ParseTool converts a tool name into a Tool.
func ParseTool(s string) (Tool, error) {
	for _, t := range Tools {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tool: %q", s)
}

// StrokeKind returns the stroke kind a drawing tool produces.
// Select and edit never produce strokes.
func (t Tool) StrokeKind() (StrokeKind, bool) {
	switch t {
	case ToolHighlight:
		return StrokeHighlight, true
	case ToolPen:
		return StrokePen, true
	case ToolEraser:
		return StrokeEraser, true
	default:
		return "", false
	}
}
