package workspace

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"pdfmark/internal/domain"
)

// Style is how a stroke kind is rasterized. Width is in the normalized page
// frame and is multiplied by the zoom scale at draw time.
type Style struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
	Alpha float64 `json:"alpha"`
}

// StyleFor returns the stroke style for kind. Live drawing and replay both go
// through here so a repaint looks exactly like the original gesture.
func StyleFor(kind domain.StrokeKind, c domain.HighlightColor) Style {
	switch kind {
	case domain.StrokeHighlight:
		hex := c.Hex()
		if hex == "" {
			hex = domain.HighlightYellow.Hex()
		}
		return Style{Color: hex, Width: 20, Alpha: 0.3}
	case domain.StrokeEraser:
		return Style{Color: "#ffffff", Width: 10, Alpha: 1}
	default:
		return Style{Color: "#000000", Width: 2, Alpha: 1}
	}
}

// Scaled returns a copy of s with its width projected to screen pixels.
func (s Style) Scaled(scale float64) Style {
	s.Width *= scale
	return s
}

// RGBA resolves the style color with its alpha applied.
func (s Style) RGBA() (color.NRGBA, error) {
	c, err := parseHex(s.Color)
	if err != nil {
		return color.NRGBA{}, err
	}
	c.A = uint8(clampUnit(s.Alpha)*255 + 0.5)
	return c, nil
}

func parseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
