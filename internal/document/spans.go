package document

import (
	"fmt"
	"math"
	"strings"

	"pdfmark/internal/domain"
)

// Glyph is one positioned text run as reported by the PDF content stream,
// in PDF user space (bottom-left origin).
type Glyph struct {
	Font string
	Size float64
	X, Y float64
	W    float64
	S    string
}

// ascent approximates the distance from the baseline to the top of a line
// as a fraction of the font size.
const ascent = 0.8

// GroupGlyphs merges consecutive glyphs on the same baseline, in the same
// font, with a horizontal gap under half a font size, into spans. Span
// geometry is converted to a top-left origin using pageHeight. Ids are
// "p<page>-s<index>" and stay stable for a given document.
func GroupGlyphs(page int, pageHeight float64, glyphs []Glyph) []domain.TextSpan {
	var (
		spans []domain.TextSpan
		cur   *run
	)
	flush := func() {
		if cur == nil {
			return
		}
		text := strings.TrimSpace(cur.text.String())
		if text != "" {
			idx := len(spans)
			spans = append(spans, domain.TextSpan{
				ID:    fmt.Sprintf("p%d-s%d", page, idx),
				Index: idx,
				Text:  text,
				X:     cur.x0,
				Y:     pageHeight - cur.y - cur.size*ascent,
				W:     cur.x1 - cur.x0,
				H:     cur.size,
			})
		}
		cur = nil
	}

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		if cur != nil && !cur.accepts(g) {
			flush()
		}
		if cur == nil {
			cur = &run{font: g.Font, size: g.Size, y: g.Y, x0: g.X, x1: g.X}
		}
		cur.text.WriteString(g.S)
		cur.x1 = math.Max(cur.x1, g.X+g.W)
	}
	flush()
	return spans
}

type run struct {
	font   string
	size   float64
	y      float64
	x0, x1 float64
	text   strings.Builder
}

func (r *run) accepts(g Glyph) bool {
	if g.Font != r.font || math.Abs(g.Size-r.size) > 0.01 {
		return false
	}
	if math.Abs(g.Y-r.y) > r.size*0.2 {
		return false
	}
	gap := g.X - r.x1
	return gap > -r.size*0.5 && gap < r.size*0.5
}
