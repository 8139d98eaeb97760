package workspace

import (
	"time"

	"pdfmark/internal/domain"
)

// DrawingLayer couples the transient Surface with the AnnotationStore: it
// rasterizes the in-progress stroke segment by segment and commits it on
// release. Points are in the normalized page frame.
type DrawingLayer struct {
	surface Surface
	store   *AnnotationStore
	newID   func() string
	now     func() time.Time

	stroke *pendingStroke
}

type pendingStroke struct {
	page   int
	kind   domain.StrokeKind
	color  domain.HighlightColor
	points []domain.Point
}

// NewDrawingLayer draws live strokes onto surface and commits them to store.
func NewDrawingLayer(surface Surface, store *AnnotationStore, newID func() string, now func() time.Time) *DrawingLayer {
	return &DrawingLayer{surface: surface, store: store, newID: newID, now: now}
}

// Drawing reports whether a stroke is in progress.
func (d *DrawingLayer) Drawing() bool {
	return d.stroke != nil
}

// PendingPoints returns how many points the in-progress stroke holds.
func (d *DrawingLayer) PendingPoints() int {
	if d.stroke == nil {
		return 0
	}
	return len(d.stroke.points)
}

// Begin starts a stroke at p. It is a no-op while another stroke is open.
func (d *DrawingLayer) Begin(page int, kind domain.StrokeKind, color domain.HighlightColor, p domain.Point) bool {
	if d.stroke != nil {
		return false
	}
	if kind != domain.StrokeHighlight {
		color = ""
	}
	d.stroke = &pendingStroke{page: page, kind: kind, color: color, points: []domain.Point{p}}
	return true
}

// Extend appends p and draws the segment from the previous point.
func (d *DrawingLayer) Extend(p domain.Point, scale float64) bool {
	if d.stroke == nil {
		return false
	}
	last := d.stroke.points[len(d.stroke.points)-1]
	d.stroke.points = append(d.stroke.points, p)
	st := StyleFor(d.stroke.kind, d.stroke.color).Scaled(scale)
	d.surface.Segment(last.Scale(scale), p.Scale(scale), st)
	return true
}

// End commits the open stroke. A stroke that never moved is committed as a
// single point and drawn as a dot, matching what Repaint produces for it.
func (d *DrawingLayer) End(scale float64) (domain.Annotation, bool) {
	s := d.stroke
	d.stroke = nil
	if s == nil || len(s.points) == 0 {
		return domain.Annotation{}, false
	}
	if len(s.points) == 1 {
		d.surface.Dot(s.points[0].Scale(scale), StyleFor(s.kind, s.color).Scaled(scale))
	}
	a := domain.Annotation{
		ID:        d.newID(),
		Page:      s.page,
		Kind:      s.kind,
		Color:     s.color,
		Points:    s.points,
		CreatedAt: d.now(),
	}
	d.store.Append(a)
	return a, true
}

// Discard drops the open stroke without committing it. The caller is
// expected to repaint since segments may already be on the surface.
func (d *DrawingLayer) Discard() bool {
	had := d.stroke != nil
	d.stroke = nil
	return had
}

// Repaint clears the surface and replays page n in insertion order.
func (d *DrawingLayer) Repaint(page int, scale float64) {
	d.surface.Clear()
	for _, a := range d.store.Page(page) {
		replay(d.surface, a, scale)
	}
}

// ClearPage removes all strokes of page n.
func (d *DrawingLayer) ClearPage(page int) int {
	return d.store.ClearPage(page)
}

func replay(s Surface, a domain.Annotation, scale float64) {
	st := StyleFor(a.Kind, a.Color).Scaled(scale)
	if len(a.Points) == 1 {
		s.Dot(a.Points[0].Scale(scale), st)
		return
	}
	for i := 1; i < len(a.Points); i++ {
		s.Segment(a.Points[i-1].Scale(scale), a.Points[i].Scale(scale), st)
	}
}
