package document_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"pdfmark/internal/document"
	"pdfmark/internal/domain"
)

func glyphs(font string, size, x, y float64, s string) []document.Glyph {
	out := make([]document.Glyph, 0, len(s))
	for i, r := range s {
		out = append(out, document.Glyph{Font: font, Size: size, X: x + float64(i)*6, Y: y, W: 6, S: string(r)})
	}
	return out
}

func TestGroupGlyphs(t *testing.T) {
	var in []document.Glyph
	in = append(in, glyphs("F1", 10, 100, 700, "Hello")...)
	in = append(in, glyphs("F1", 10, 200, 700, "World")...) // big gap → new span
	in = append(in, glyphs("F2", 10, 230, 700, "Bold")...)  // font change → new span
	in = append(in, glyphs("F1", 10, 100, 680, "  ")...)    // whitespace only → dropped
	in = append(in, glyphs("F1", 10, 100, 660, "Next")...)  // new line

	got := document.GroupGlyphs(2, 800, in)
	want := []domain.TextSpan{
		{ID: "p2-s0", Index: 0, Text: "Hello", X: 100, Y: 800 - 700 - 8, W: 30, H: 10},
		{ID: "p2-s1", Index: 1, Text: "World", X: 200, Y: 92, W: 30, H: 10},
		{ID: "p2-s2", Index: 2, Text: "Bold", X: 230, Y: 92, W: 24, H: 10},
		{ID: "p2-s3", Index: 3, Text: "Next", X: 100, Y: 132, W: 24, H: 10},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupGlyphs_Empty(t *testing.T) {
	if got := document.GroupGlyphs(1, 842, nil); len(got) != 0 {
		t.Errorf("expected no spans, got %v", got)
	}
}
