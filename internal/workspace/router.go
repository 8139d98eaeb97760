package workspace

import (
	"fmt"

	"pdfmark/internal/domain"
)

// Gesture is the kind of pointer interaction being routed.
type Gesture int

const (
	GestureDrag  Gesture = iota // pointer down/move/up on the surface
	GestureClick                // click on the page body
)

// Target is the component that receives a gesture.
type Target int

const (
	TargetNone Target = iota
	TargetSurface
	TargetTextLayer
)

func (t Target) String() string {
	switch t {
	case TargetSurface:
		return "surface"
	case TargetTextLayer:
		return "text-layer"
	default:
		return "none"
	}
}

// routes is the only place tool gating is decided.
var routes = map[domain.Tool]map[Gesture]Target{
	domain.ToolSelect:    {GestureDrag: TargetNone, GestureClick: TargetNone},
	domain.ToolHighlight: {GestureDrag: TargetSurface, GestureClick: TargetNone},
	domain.ToolPen:       {GestureDrag: TargetSurface, GestureClick: TargetNone},
	domain.ToolEraser:    {GestureDrag: TargetSurface, GestureClick: TargetNone},
	domain.ToolEdit:      {GestureDrag: TargetNone, GestureClick: TargetTextLayer},
}

// Route returns the component that handles g under tool.
func Route(tool domain.Tool, g Gesture) Target {
	return routes[tool][g]
}

// ToolController holds the active tool and the last chosen highlight color.
type ToolController struct {
	tool  domain.Tool
	color domain.HighlightColor
}

func NewToolController() *ToolController {
	return &ToolController{tool: domain.ToolSelect, color: domain.HighlightYellow}
}

func (c *ToolController) Tool() domain.Tool { return c.tool }

func (c *ToolController) HighlightColor() domain.HighlightColor { return c.color }

// Select switches to t and returns the previous tool. The highlight color is
// left alone so reselecting highlight reuses it.
func (c *ToolController) Select(t domain.Tool) (domain.Tool, error) {
	if _, ok := routes[t]; !ok {
		return c.tool, fmt.Errorf("unknown tool: %q", t)
	}
	prev := c.tool
	c.tool = t
	return prev, nil
}

func (c *ToolController) SetHighlightColor(hc domain.HighlightColor) error {
	if !hc.Valid() {
		return fmt.Errorf("unknown highlight color: %q", hc)
	}
	c.color = hc
	return nil
}

// Route routes g under the active tool.
func (c *ToolController) Route(g Gesture) Target {
	return Route(c.tool, g)
}
