package domain

import "time"

// Point is a position in the page's zoom-normalized frame (scale 1.0,
// top-left origin). Screen pixels are Point × scale.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Scale projects p into screen pixels at the given zoom factor.
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

type StrokeKind string

const (
	StrokeHighlight StrokeKind = "highlight"
	StrokePen       StrokeKind = "pen"
	StrokeEraser    StrokeKind = "eraser"
)

type HighlightColor string

const (
	HighlightYellow HighlightColor = "yellow"
	HighlightGreen  HighlightColor = "green"
	HighlightBlue   HighlightColor = "blue"
	HighlightPink   HighlightColor = "pink"
)

// HighlightPalette lists the selectable highlight colors in display order.
var HighlightPalette = []HighlightColor{
	HighlightYellow,
	HighlightGreen,
	HighlightBlue,
	HighlightPink,
}

var highlightHex = map[HighlightColor]string{
	HighlightYellow: "#ffff00",
	HighlightGreen:  "#00ff00",
	HighlightBlue:   "#00bfff",
	HighlightPink:   "#ff69b4",
}

// Valid reports whether c belongs to the highlight palette.
func (c HighlightColor) Valid() bool {
	_, ok := highlightHex[c]
	return ok
}

// Hex returns the color's RGB hex value, or "" for unknown colors.
func (c HighlightColor) Hex() string {
	return highlightHex[c]
}

// Annotation is a committed stroke. It is never edited after commit; the only
// way to remove one is to clear its whole page.
type Annotation struct {
	ID        string         `json:"id"`
	Page      int            `json:"page"`
	Kind      StrokeKind     `json:"kind"`
	Color     HighlightColor `json:"color,omitempty"` // highlight only
	Points    []Point        `json:"points"`
	CreatedAt time.Time      `json:"createdAt"`
}
