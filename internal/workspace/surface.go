package workspace

import (
	"fmt"
	"image"
	"io"
	"log"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"pdfmark/internal/domain"
)

// Surface is the rasterization target for live and replayed strokes.
// Coordinates and widths passed in are already in screen pixels.
type Surface interface {
	Resize(width, height int)
	Clear()
	Segment(from, to domain.Point, st Style)
	Dot(at domain.Point, st Style)
}

// ─────────────────────────────────────────────────────────────
// RasterSurface: gg-backed Surface
// ─────────────────────────────────────────────────────────────

// RasterSurface draws onto an in-memory RGBA image. The zero value is not
// usable; create one with NewRasterSurface.
type RasterSurface struct {
	dc    *gg.Context
	faces map[float64]font.Face
}

// NewRasterSurface creates a transparent surface of the given pixel size.
func NewRasterSurface(width, height int) *RasterSurface {
	s := &RasterSurface{faces: make(map[float64]font.Face)}
	s.Resize(width, height)
	return s
}

func (s *RasterSurface) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if s.dc != nil && s.dc.Width() == width && s.dc.Height() == height {
		s.Clear()
		return
	}
	s.dc = gg.NewContext(width, height)
}

func (s *RasterSurface) Clear() {
	s.dc.SetRGBA(0, 0, 0, 0)
	s.dc.Clear()
}

func (s *RasterSurface) Segment(from, to domain.Point, st Style) {
	if !s.apply(st) {
		return
	}
	s.dc.SetLineWidth(st.Width)
	s.dc.SetLineCapRound()
	s.dc.DrawLine(from.X, from.Y, to.X, to.Y)
	s.dc.Stroke()
}

// Dot renders a single-point stroke as a filled disc of the stroke width.
func (s *RasterSurface) Dot(at domain.Point, st Style) {
	if !s.apply(st) {
		return
	}
	s.dc.DrawCircle(at.X, at.Y, st.Width/2)
	s.dc.Fill()
}

// DrawText renders a text box label with its top-left corner at p.
func (s *RasterSurface) DrawText(text string, p domain.Point, size float64, hex string) error {
	face, err := s.face(size)
	if err != nil {
		return err
	}
	c, err := parseHex(hex)
	if err != nil {
		return err
	}
	s.dc.SetFontFace(face)
	s.dc.SetColor(c)
	width := float64(s.dc.Width()) - p.X
	if width < size {
		width = size
	}
	s.dc.DrawStringWrapped(text, p.X, p.Y, 0, 0, width, 1.2, gg.AlignLeft)
	return nil
}

// Clone returns an independent copy of the surface's pixels.
func (s *RasterSurface) Clone() *RasterSurface {
	c := NewRasterSurface(s.dc.Width(), s.dc.Height())
	c.dc.DrawImage(s.dc.Image(), 0, 0)
	return c
}

// Image returns the backing image.
func (s *RasterSurface) Image() image.Image {
	return s.dc.Image()
}

// EncodePNG writes the surface as a PNG with a transparent background.
func (s *RasterSurface) EncodePNG(w io.Writer) error {
	if err := s.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (s *RasterSurface) apply(st Style) bool {
	c, err := st.RGBA()
	if err != nil {
		log.Printf("[workspace] skip stroke: %v", err)
		return false
	}
	s.dc.SetColor(c)
	return true
}

var (
	monoOnce sync.Once
	monoFont *truetype.Font
	monoErr  error
)

func (s *RasterSurface) face(size float64) (font.Face, error) {
	if f, ok := s.faces[size]; ok {
		return f, nil
	}
	monoOnce.Do(func() {
		monoFont, monoErr = truetype.Parse(gomono.TTF)
	})
	if monoErr != nil {
		return nil, fmt.Errorf("parse font: %w", monoErr)
	}
	f := truetype.NewFace(monoFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	s.faces[size] = f
	return f, nil
}
