package workspace

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"pdfmark/internal/domain"
)

var ErrNoDocument = errors.New("no document loaded")

// Document is the rendering collaborator as seen by the workspace.
type Document interface {
	SpanSource
	PageCount() int
	PageSize(page int) domain.PageSize
}

// Options configures zoom bounds and the edit adapter's settle wait.
type Options struct {
	DefaultScale float64
	MinScale     float64
	MaxScale     float64
	ZoomStep     float64
	SettleDelay  time.Duration
	Scheduler    Scheduler
	NewID        func() string
	Now          func() time.Time
}

// DefaultOptions returns the stock zoom range (0.5x to 3x in 0.25 steps, 1.5x
// default) and a 100ms span settle delay.
func DefaultOptions() Options {
	return Options{
		DefaultScale: 1.5,
		MinScale:     0.5,
		MaxScale:     3.0,
		ZoomStep:     0.25,
		SettleDelay:  100 * time.Millisecond,
	}
}

func (o *Options) fill() {
	d := DefaultOptions()
	if o.MinScale <= 0 {
		o.MinScale = d.MinScale
	}
	if o.MaxScale < o.MinScale {
		o.MaxScale = math.Max(d.MaxScale, o.MinScale)
	}
	if o.DefaultScale <= 0 {
		o.DefaultScale = d.DefaultScale
	}
	o.DefaultScale = math.Min(math.Max(o.DefaultScale, o.MinScale), o.MaxScale)
	if o.ZoomStep <= 0 {
		o.ZoomStep = d.ZoomStep
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = d.SettleDelay
	}
	if o.NewID == nil {
		o.NewID = func() string { return uuid.New().String() }
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// ─────────────────────────────────────────────────────────────
// Workspace: page navigation, zoom and input routing
// ─────────────────────────────────────────────────────────────

// Workspace composes the drawing layer, text boxes, the edit adapter and the
// tool controller around one open document. All coordinates it stores are in
// the normalized page frame; pointer input arrives in screen pixels and is
// divided by the current scale.
type Workspace struct {
	mu   sync.Mutex
	opts Options

	doc   Document
	info  *domain.DocumentInfo
	page  int
	scale float64

	tools   *ToolController
	store   *AnnotationStore
	surface Surface
	drawing *DrawingLayer
	boxes   *TextBoxLayer
	adapter *EditAdapter
}

// New creates an empty workspace. surface receives every stroke; layer is
// the renderer's editable text layer.
func New(surface Surface, layer EditableLayer, opts Options) *Workspace {
	opts.fill()
	store := NewAnnotationStore()
	w := &Workspace{
		opts:    opts,
		page:    1,
		scale:   opts.DefaultScale,
		tools:   NewToolController(),
		store:   store,
		surface: surface,
		drawing: NewDrawingLayer(surface, store, opts.NewID, opts.Now),
		boxes:   NewTextBoxLayer(opts.NewID),
		adapter: NewEditAdapter(layer, opts.Scheduler, opts.SettleDelay),
	}
	w.resizeLocked()
	return w
}

// LoadDocument replaces the open document and resets all overlay state.
func (w *Workspace) LoadDocument(doc Document, info domain.DocumentInfo) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.drawing.Discard()
	w.store.Reset()
	w.boxes.Reset()
	w.adapter.Reset()
	w.doc = doc
	w.info = &info
	w.page = 1
	w.scale = w.opts.DefaultScale
	w.resizeLocked()
	w.repaintLocked()
	w.armAdapterLocked()
	log.Printf("[workspace] loaded %q (%d pages)", info.Name, doc.PageCount())
}

// ReloadDocument swaps in a new rendering of the same file. Overlay state is
// kept; marks on pages the new rendering no longer has are dropped.
func (w *Workspace) ReloadDocument(doc Document, info domain.DocumentInfo) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.commitPendingLocked()
	w.adapter.Deactivate()
	w.doc = doc
	w.info = &info
	total := doc.PageCount()
	if n := w.store.DropPagesAfter(total) + w.boxes.DropPagesAfter(total); n > 0 {
		log.Printf("[workspace] reload dropped %d marks beyond page %d", n, total)
	}
	w.page = w.clampPage(w.page)
	w.resizeLocked()
	w.repaintLocked()
	w.armAdapterLocked()
}

// Close drops the document and everything drawn on it.
func (w *Workspace) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.drawing.Discard()
	w.store.Reset()
	w.boxes.Reset()
	w.adapter.Reset()
	w.doc = nil
	w.info = nil
	w.page = 1
	w.scale = w.opts.DefaultScale
	w.resizeLocked()
	w.surface.Clear()
}

// HasDocument reports whether a document is open.
func (w *Workspace) HasDocument() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.doc != nil
}

// ── Tools ───────────────────────────────────────────────────

// SelectTool switches the active tool. An open stroke is committed first and
// the edit adapter is torn down before the new tool takes effect.
func (w *Workspace) SelectTool(t domain.Tool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.tools.Select(t); err != nil {
		return err
	}
	w.commitPendingLocked()
	w.adapter.Deactivate()
	w.armAdapterLocked()
	return nil
}

// SetHighlightColor changes the highlighter color. Colors outside the
// palette are rejected and the current color is kept.
func (w *Workspace) SetHighlightColor(c domain.HighlightColor) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tools.SetHighlightColor(c)
}

// Tool returns the active tool.
func (w *Workspace) Tool() domain.Tool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tools.Tool()
}

// ── Pointer input (screen pixels) ───────────────────────────

// PointerDown starts a stroke when the active tool routes drags to the
// surface.
func (w *Workspace) PointerDown(p domain.Point) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.doc == nil || w.tools.Route(GestureDrag) != TargetSurface {
		return false
	}
	kind, _ := w.tools.Tool().StrokeKind()
	return w.drawing.Begin(w.page, kind, w.tools.HighlightColor(), w.normalize(p))
}

// PointerMove extends the open stroke to p (screen pixels) and draws the new
// segment. Reports false when no stroke is open.
func (w *Workspace) PointerMove(p domain.Point) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.tools.Route(GestureDrag) != TargetSurface {
		return false
	}
	return w.drawing.Extend(w.normalize(p), w.scale)
}

// PointerUp ends the gesture. A press that never moved is a click, not a
// stroke, and is dropped.
func (w *Workspace) PointerUp() (domain.Annotation, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.drawing.PendingPoints() < 2 {
		w.drawing.Discard()
		return domain.Annotation{}, false
	}
	return w.drawing.End(w.scale)
}

// Click handles a click on the page body. Under the edit tool it places a
// text box at p.
func (w *Workspace) Click(p domain.Point) (domain.TextBox, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.doc == nil || w.tools.Route(GestureClick) != TargetTextLayer {
		return domain.TextBox{}, false
	}
	return w.boxes.Place(w.normalize(p), w.page), true
}

// DrawStroke commits a whole stroke given in normalized page coordinates, as
// if it had been drawn with tool on the current page. Used by automation.
func (w *Workspace) DrawStroke(tool domain.Tool, color domain.HighlightColor, pts []domain.Point) (domain.Annotation, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.doc == nil {
		return domain.Annotation{}, ErrNoDocument
	}
	kind, ok := tool.StrokeKind()
	if !ok {
		return domain.Annotation{}, fmt.Errorf("tool %q does not draw", tool)
	}
	if len(pts) == 0 {
		return domain.Annotation{}, fmt.Errorf("stroke needs at least one point")
	}
	if kind == domain.StrokeHighlight {
		if color == "" {
			color = w.tools.HighlightColor()
		}
		if !color.Valid() {
			return domain.Annotation{}, fmt.Errorf("unknown highlight color: %q", color)
		}
	}
	w.commitPendingLocked()
	w.drawing.Begin(w.page, kind, color, pts[0])
	for _, p := range pts[1:] {
		w.drawing.Extend(p, w.scale)
	}
	a, _ := w.drawing.End(w.scale)
	return a, nil
}

// ── Text boxes ──────────────────────────────────────────────

// PlaceTextBox creates a box at p (normalized) on the current page. It is
// only permitted under the edit tool.
func (w *Workspace) PlaceTextBox(p domain.Point) (domain.TextBox, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.doc == nil {
		return domain.TextBox{}, ErrNoDocument
	}
	if w.tools.Route(GestureClick) != TargetTextLayer {
		return domain.TextBox{}, fmt.Errorf("text boxes can only be placed with the edit tool")
	}
	return w.boxes.Place(p, w.page), nil
}

// BeginTextEdit makes id the editing text box, finalizing the previous
// editor's draft first.
func (w *Workspace) BeginTextEdit(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.boxes.BeginEdit(id)
}

// UpdateTextDraft records uncommitted keystrokes for the editing box.
func (w *Workspace) UpdateTextDraft(id, text string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.boxes.UpdateDraft(id, text)
}

// CommitTextEdit stores text on id and ends editing. Reports whether the
// text changed.
func (w *Workspace) CommitTextEdit(id, text string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.boxes.CommitEdit(id, text)
}

// TextBoxKey applies the text box keyboard policy: Enter commits, Shift+Enter
// is a newline.
func (w *Workspace) TextBoxKey(id, key string, shift bool) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.boxes.Key(id, key, shift)
}

func (w *Workspace) DeleteTextBox(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.boxes.Delete(id)
}

func (w *Workspace) TextBox(id string) (domain.TextBox, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.boxes.Get(id)
}

// TextBoxes returns every box of the document.
func (w *Workspace) TextBoxes() []domain.TextBox {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.boxes.All()
}

// ScreenPos projects a box's anchor to screen pixels at the current scale.
func (w *Workspace) ScreenPos(b domain.TextBox) domain.Point {
	w.mu.Lock()
	defer w.mu.Unlock()
	return domain.Point{X: b.X, Y: b.Y}.Scale(w.scale)
}

// ── Text-layer edits ────────────────────────────────────────

// SpanBlurred captures an edit to an attached text-layer span.
func (w *Workspace) SpanBlurred(spanID, original, current string) (string, bool) {
	return w.adapter.SpanBlurred(spanID, original, current)
}

// SpanKey ends editing of an attached span on Enter.
func (w *Workspace) SpanKey(spanID, key string) bool {
	return w.adapter.SpanKey(spanID, key)
}

// SpanEdits returns the captured span edits keyed by span id.
func (w *Workspace) SpanEdits() map[string]string {
	return w.adapter.Edits()
}

// ── Navigation and zoom ─────────────────────────────────────

// GoToPage moves to n clamped to the document's page range and repaints.
// Stored annotations and text boxes are untouched.
func (w *Workspace) GoToPage(n int) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.goToLocked(n)
}

func (w *Workspace) NextPage() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.goToLocked(w.page + 1)
}

func (w *Workspace) PrevPage() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.goToLocked(w.page - 1)
}

// Page returns the current page number, 1-based.
func (w *Workspace) Page() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.page
}

// Zoom changes the scale by delta, clamped to the configured range.
func (w *Workspace) Zoom(delta float64) float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.setScaleLocked(w.scale + delta)
}

func (w *Workspace) ZoomIn() float64 { return w.Zoom(w.opts.ZoomStep) }

func (w *Workspace) ZoomOut() float64 { return w.Zoom(-w.opts.ZoomStep) }

// SetScale jumps to an absolute scale, clamped to the zoom range, and
// returns the scale applied.
func (w *Workspace) SetScale(s float64) float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.setScaleLocked(s)
}

// Scale returns the current zoom factor.
func (w *Workspace) Scale() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scale
}

// ── Annotations ─────────────────────────────────────────────

// ClearPage removes every annotation of the current page.
func (w *Workspace) ClearPage() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.drawing.Discard()
	n := w.drawing.ClearPage(w.page)
	w.repaintLocked()
	return n
}

// Annotations returns page's committed strokes in drawing order.
func (w *Workspace) Annotations(page int) []domain.Annotation {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.store.Page(page)
}

// Repaint redraws the current page from the store.
func (w *Workspace) Repaint() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.repaintLocked()
}

// State returns a snapshot of the visible page.
func (w *Workspace) State() domain.PageState {
	w.mu.Lock()
	defer w.mu.Unlock()
	st := domain.PageState{
		Page:           w.page,
		TotalPages:     w.totalLocked(),
		Scale:          w.scale,
		Tool:           w.tools.Tool(),
		HighlightColor: w.tools.HighlightColor(),
		PageSize:       w.pageSizeLocked(),
		Annotations:    w.store.Page(w.page),
		TextBoxes:      w.boxes.Visible(w.page),
		EditingID:      w.boxes.EditingID(),
		SpanEdits:      len(w.adapter.EditKeys()),
		Drawing:        w.drawing.Drawing(),
	}
	if w.info != nil {
		info := *w.info
		st.Document = &info
	}
	return st
}

// ── internals (w.mu held) ───────────────────────────────────

func (w *Workspace) goToLocked(n int) int {
	if w.doc == nil {
		return w.page
	}
	n = w.clampPage(n)
	w.commitPendingLocked()
	w.adapter.Deactivate()
	w.page = n
	w.resizeLocked()
	w.repaintLocked()
	w.armAdapterLocked()
	return n
}

func (w *Workspace) setScaleLocked(s float64) float64 {
	s = math.Round(s*1000) / 1000
	s = math.Min(math.Max(s, w.opts.MinScale), w.opts.MaxScale)
	if s == w.scale {
		return s
	}
	w.commitPendingLocked()
	w.adapter.Deactivate()
	w.scale = s
	w.resizeLocked()
	w.repaintLocked()
	w.armAdapterLocked()
	return s
}

// commitPendingLocked force-commits a stroke left open by a page, zoom or
// tool change.
func (w *Workspace) commitPendingLocked() {
	if a, ok := w.drawing.End(w.scale); ok {
		log.Printf("[workspace] committed open stroke %s on page %d", a.ID, a.Page)
	}
}

func (w *Workspace) armAdapterLocked() {
	if w.doc == nil || w.tools.Tool() != domain.ToolEdit {
		return
	}
	w.adapter.Activate(w.page, w.doc)
}

func (w *Workspace) repaintLocked() {
	w.drawing.Repaint(w.page, w.scale)
}

func (w *Workspace) resizeLocked() {
	ps := w.pageSizeLocked()
	w.surface.Resize(int(math.Ceil(ps.Width*w.scale)), int(math.Ceil(ps.Height*w.scale)))
}

func (w *Workspace) pageSizeLocked() domain.PageSize {
	if w.doc != nil {
		if ps := w.doc.PageSize(w.page); ps.Width > 0 && ps.Height > 0 {
			return ps
		}
	}
	return domain.PageSize{Width: domain.DefaultPageWidth, Height: domain.DefaultPageHeight}
}

func (w *Workspace) totalLocked() int {
	if w.doc == nil {
		return 0
	}
	return w.doc.PageCount()
}

func (w *Workspace) clampPage(n int) int {
	total := w.totalLocked()
	if n > total {
		n = total
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (w *Workspace) normalize(p domain.Point) domain.Point {
	return domain.Point{X: p.X / w.scale, Y: p.Y / w.scale}
}
