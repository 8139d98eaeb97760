package workspace_test

import (
	"bytes"
	"image/png"
	"testing"

	"pdfmark/internal/domain"
	"pdfmark/internal/workspace"
)

func TestStyleFor(t *testing.T) {
	tests := []struct {
		kind  domain.StrokeKind
		color domain.HighlightColor
		want  workspace.Style
	}{
		{domain.StrokeHighlight, domain.HighlightYellow, workspace.Style{Color: "#ffff00", Width: 20, Alpha: 0.3}},
		{domain.StrokeHighlight, domain.HighlightPink, workspace.Style{Color: "#ff69b4", Width: 20, Alpha: 0.3}},
		{domain.StrokePen, "", workspace.Style{Color: "#000000", Width: 2, Alpha: 1}},
		{domain.StrokeEraser, "", workspace.Style{Color: "#ffffff", Width: 10, Alpha: 1}},
	}
	for _, tt := range tests {
		if got := workspace.StyleFor(tt.kind, tt.color); got != tt.want {
			t.Errorf("StyleFor(%s, %s) = %+v, want %+v", tt.kind, tt.color, got, tt.want)
		}
	}
}

func TestStyle_RGBA(t *testing.T) {
	c, err := workspace.StyleFor(domain.StrokeHighlight, domain.HighlightGreen).RGBA()
	if err != nil {
		t.Fatalf("RGBA: %v", err)
	}
	if c.R != 0 || c.G != 255 || c.B != 0 || c.A != 77 {
		t.Errorf("got %+v", c)
	}
	if _, err := (workspace.Style{Color: "#12"}).RGBA(); err == nil {
		t.Error("malformed hex should fail")
	}
}

func TestRasterSurface(t *testing.T) {
	s := workspace.NewRasterSurface(100, 50)
	pen := workspace.StyleFor(domain.StrokePen, "")

	s.Segment(pt(10, 25), pt(90, 25), pen)
	if _, _, _, a := s.Image().At(50, 25).RGBA(); a == 0 {
		t.Error("segment should paint (50,25)")
	}

	s.Dot(pt(5, 5), workspace.StyleFor(domain.StrokeEraser, ""))
	if r, g, b, a := s.Image().At(5, 5).RGBA(); a == 0 || r != g || g != b {
		t.Errorf("dot pixel = %d,%d,%d,%d", r, g, b, a)
	}

	s.Clear()
	if _, _, _, a := s.Image().At(50, 25).RGBA(); a != 0 {
		t.Error("Clear should leave the surface transparent")
	}

	s.Resize(30, 40)
	if b := s.Image().Bounds(); b.Dx() != 30 || b.Dy() != 40 {
		t.Errorf("resized bounds = %v", b)
	}

	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 30 {
		t.Errorf("decoded width = %d", img.Bounds().Dx())
	}
}

func TestAnnotationStore(t *testing.T) {
	s := workspace.NewAnnotationStore()
	pts := []domain.Point{pt(1, 1), pt(2, 2)}
	s.Append(domain.Annotation{ID: "a", Page: 1, Kind: domain.StrokePen, Points: pts})
	s.Append(domain.Annotation{ID: "b", Page: 1, Kind: domain.StrokePen, Points: pts})
	s.Append(domain.Annotation{ID: "c", Page: 3, Kind: domain.StrokePen, Points: pts})

	pts[0] = pt(99, 99)
	page1 := s.Page(1)
	if page1[0].Points[0] != pt(1, 1) {
		t.Error("store must not alias caller slices")
	}
	page1[1].Points[0] = pt(42, 42)
	if s.Page(1)[1].Points[0] != pt(1, 1) {
		t.Error("Page must return copies")
	}
	if page1[0].ID != "a" || page1[1].ID != "b" {
		t.Errorf("order = %s,%s", page1[0].ID, page1[1].ID)
	}

	if got := s.Pages(); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("Pages() = %v", got)
	}
	if n := s.ClearPage(1); n != 2 || s.Count() != 1 {
		t.Errorf("ClearPage removed %d, %d left", n, s.Count())
	}
	if n := s.DropPagesAfter(2); n != 1 || s.Count() != 0 {
		t.Errorf("DropPagesAfter removed %d", n)
	}
}
