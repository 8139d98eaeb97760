package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"pdfmark/internal/document"
	"pdfmark/internal/domain"
	"pdfmark/internal/handoff"
	"pdfmark/internal/watch"
	"pdfmark/internal/workspace"
)

// ─────────────────────────────────────────────────────────────
// Workspace Service: the open document and everything drawn on it
// ─────────────────────────────────────────────────────────────

// ErrNoPendingUpload is returned when the workspace is opened without an
// upload waiting in the handoff slot.
var ErrNoPendingUpload = errors.New("no uploaded document is waiting; upload a PDF first")

// WorkspaceConfig configures a WorkspaceService.
type WorkspaceConfig struct {
	Options   workspace.Options
	MaxUpload int64
	// Watch reloads a document opened from disk when the file changes.
	Watch   bool
	Metrics *Metrics
	// Slot is shared with the upload screen. A fresh slot is used when nil.
	Slot *handoff.Slot
}

// WorkspaceService wraps the workspace orchestrator for the frontend and
// the MCP server. Every mutation emits workspace:state.
type WorkspaceService struct {
	emitter   EventEmitter
	layer     *emitterLayer
	ws        *workspace.Workspace
	slot      *handoff.Slot
	metrics   *Metrics
	maxUpload int64
	watcher   *watch.Watcher

	mu  sync.Mutex
	doc *document.Document
}

// NewWorkspaceService creates a WorkspaceService with an empty workspace.
func NewWorkspaceService(emitter EventEmitter, cfg WorkspaceConfig) (*WorkspaceService, error) {
	if emitter == nil {
		emitter = NoopEmitter{}
	}
	slot := cfg.Slot
	if slot == nil {
		slot = &handoff.Slot{}
	}
	layer := newEmitterLayer(emitter)
	s := &WorkspaceService{
		emitter:   emitter,
		layer:     layer,
		ws:        workspace.New(workspace.NewRasterSurface(0, 0), layer, cfg.Options),
		slot:      slot,
		metrics:   cfg.Metrics,
		maxUpload: cfg.MaxUpload,
	}
	if cfg.Watch {
		w, err := watch.New(s.reload, watch.DefaultDebounce)
		if err != nil {
			return nil, fmt.Errorf("start file watcher: %w", err)
		}
		s.watcher = w
	}
	return s, nil
}

// SetContext sets the context used for events emitted outside a call, such
// as edit-layer attach after the settle delay and file reloads.
func (s *WorkspaceService) SetContext(ctx context.Context) {
	s.layer.setContext(ctx)
}

// State returns a snapshot of the visible page.
func (s *WorkspaceService) State() domain.PageState {
	return s.ws.State()
}

func (s *WorkspaceService) emitState(ctx context.Context) domain.PageState {
	st := s.ws.State()
	s.emitter.Emit(ctx, EventWorkspaceState, st)
	return st
}

// ── Opening and closing ────────────────────────────────────

// StageUpload validates an upload and parks it in the handoff slot for the
// workspace to pick up.
func (s *WorkspaceService) StageUpload(name string, data []byte) error {
	if err := handoff.ValidateUpload(name, data, s.maxUpload); err != nil {
		return err
	}
	s.slot.Put(handoff.Payload{Name: name, Data: data})
	log.Printf("[workspace] staged upload %q (%d bytes)", name, len(data))
	return nil
}

// UploadPending reports whether an upload is waiting in the handoff slot.
func (s *WorkspaceService) UploadPending() bool {
	return s.slot.Pending()
}

// OpenFromHandoff takes the staged upload and loads it. The slot is empty
// afterwards whether or not the document opens.
func (s *WorkspaceService) OpenFromHandoff(ctx context.Context) (domain.PageState, error) {
	p, ok := s.slot.Take()
	if !ok {
		return s.ws.State(), ErrNoPendingUpload
	}
	doc, err := document.Open(p.Name, p.Data)
	if err != nil {
		return s.ws.State(), fmt.Errorf("open %s: %w", p.Name, err)
	}
	return s.load(ctx, doc), nil
}

// OpenUpload validates, stages and opens an upload in one step.
func (s *WorkspaceService) OpenUpload(ctx context.Context, name string, data []byte) (domain.PageState, error) {
	if err := s.StageUpload(name, data); err != nil {
		return s.ws.State(), err
	}
	return s.OpenFromHandoff(ctx)
}

// OpenPath opens a PDF from disk and, when watching is on, reloads it on
// change.
func (s *WorkspaceService) OpenPath(ctx context.Context, path string) (domain.PageState, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return s.ws.State(), fmt.Errorf("resolve path: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return s.ws.State(), fmt.Errorf("read pdf: %w", err)
	}
	if err := handoff.ValidateUpload(filepath.Base(abs), data, s.maxUpload); err != nil {
		return s.ws.State(), err
	}
	doc, err := document.OpenAt(abs, data)
	if err != nil {
		return s.ws.State(), fmt.Errorf("open %s: %w", abs, err)
	}
	st := s.load(ctx, doc)
	if s.watcher != nil {
		if err := s.watcher.Watch(abs); err != nil {
			log.Printf("[workspace] watch %s: %v", abs, err)
		}
	}
	return st, nil
}

func (s *WorkspaceService) load(ctx context.Context, doc *document.Document) domain.PageState {
	s.mu.Lock()
	s.unwatchLocked()
	s.doc = doc
	s.mu.Unlock()

	s.ws.LoadDocument(doc, doc.Info())
	s.metrics.DocumentOpened(doc.PageCount())
	return s.emitState(ctx)
}

// CloseDocument discards the document and all overlay state.
func (s *WorkspaceService) CloseDocument(ctx context.Context) domain.PageState {
	s.mu.Lock()
	s.unwatchLocked()
	s.doc = nil
	s.mu.Unlock()

	s.ws.Close()
	s.metrics.DocumentClosed()
	return s.emitState(ctx)
}

func (s *WorkspaceService) unwatchLocked() {
	if s.watcher != nil && s.doc != nil && s.doc.Path() != "" {
		s.watcher.Unwatch(s.doc.Path())
	}
}

// reload is the watcher callback for the open document's file.
func (s *WorkspaceService) reload(path string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil || s.doc.Path() != path {
		return
	}
	if bytes.Equal(s.doc.Bytes(), data) {
		return
	}
	doc, err := document.OpenAt(path, data)
	if err != nil {
		log.Printf("[workspace] reload %s: %v", path, err)
		return
	}
	s.doc = doc
	s.ws.ReloadDocument(doc, doc.Info())
	log.Printf("[workspace] reloaded %s (%d pages)", path, doc.PageCount())

	ctx := s.layer.emitCtx()
	s.emitter.Emit(ctx, EventDocumentReload, doc.Info())
	s.emitState(ctx)
}

// Document returns the open document's metadata.
func (s *WorkspaceService) Document() (domain.DocumentInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return domain.DocumentInfo{}, false
	}
	return s.doc.Info(), true
}

// Spans returns the extracted text spans of page n of the open document.
func (s *WorkspaceService) Spans(n int) ([]domain.TextSpan, error) {
	s.mu.Lock()
	doc := s.doc
	s.mu.Unlock()
	if doc == nil {
		return nil, workspace.ErrNoDocument
	}
	spans, ok := doc.Spans(n)
	if !ok {
		return nil, fmt.Errorf("page %d has no text layer", n)
	}
	return spans, nil
}

// ── Tools ──────────────────────────────────────────────────

// SelectTool switches to the named tool (select, highlight, pen, eraser,
// edit).
func (s *WorkspaceService) SelectTool(ctx context.Context, name string) (domain.PageState, error) {
	t, err := domain.ParseTool(name)
	if err != nil {
		return s.ws.State(), err
	}
	if err := s.ws.SelectTool(t); err != nil {
		return s.ws.State(), err
	}
	return s.emitState(ctx), nil
}

// SetHighlightColor sets the highlighter color by palette name.
func (s *WorkspaceService) SetHighlightColor(ctx context.Context, name string) (domain.PageState, error) {
	if err := s.ws.SetHighlightColor(domain.HighlightColor(name)); err != nil {
		return s.ws.State(), err
	}
	return s.emitState(ctx), nil
}

// ── Pointer input ──────────────────────────────────────────

// PointerDown and PointerMove draw on the live surface only; state is
// emitted once the stroke commits.
func (s *WorkspaceService) PointerDown(p domain.Point) bool {
	return s.ws.PointerDown(p)
}

func (s *WorkspaceService) PointerMove(p domain.Point) bool {
	return s.ws.PointerMove(p)
}

// PointerUp commits the open stroke, if it moved, and emits state.
func (s *WorkspaceService) PointerUp(ctx context.Context) (domain.Annotation, bool) {
	a, ok := s.ws.PointerUp()
	if ok {
		s.metrics.StrokeCommitted(string(a.Kind))
		s.emitState(ctx)
	}
	return a, ok
}

// Click places a text box at p when the edit tool is active.
func (s *WorkspaceService) Click(ctx context.Context, p domain.Point) (domain.TextBox, bool) {
	b, ok := s.ws.Click(p)
	if ok {
		s.metrics.TextBoxPlaced()
		s.emitState(ctx)
	}
	return b, ok
}

// DrawStroke commits a stroke given in page coordinates.
func (s *WorkspaceService) DrawStroke(ctx context.Context, tool, color string, pts []domain.Point) (domain.Annotation, error) {
	t, err := domain.ParseTool(tool)
	if err != nil {
		return domain.Annotation{}, err
	}
	a, err := s.ws.DrawStroke(t, domain.HighlightColor(color), pts)
	if err != nil {
		return domain.Annotation{}, err
	}
	s.metrics.StrokeCommitted(string(a.Kind))
	s.emitState(ctx)
	return a, nil
}

// ClearPage erases every stroke on the current page and returns how many
// were removed.
func (s *WorkspaceService) ClearPage(ctx context.Context) int {
	n := s.ws.ClearPage()
	s.emitState(ctx)
	return n
}

// Annotations returns the strokes of page n, or of the current page when n
// is 0.
func (s *WorkspaceService) Annotations(n int) []domain.Annotation {
	if n == 0 {
		n = s.ws.Page()
	}
	return s.ws.Annotations(n)
}

// ── Text boxes ─────────────────────────────────────────────

// PlaceTextBox adds a text box at p, in normalized page coordinates, on the
// current page. The edit tool must be active.
func (s *WorkspaceService) PlaceTextBox(ctx context.Context, p domain.Point) (domain.TextBox, error) {
	b, err := s.ws.PlaceTextBox(p)
	if err != nil {
		return domain.TextBox{}, err
	}
	s.metrics.TextBoxPlaced()
	s.emitState(ctx)
	return b, nil
}

func (s *WorkspaceService) BeginTextEdit(ctx context.Context, id string) error {
	if err := s.ws.BeginTextEdit(id); err != nil {
		return err
	}
	s.emitState(ctx)
	return nil
}

// UpdateTextDraft tracks keystrokes in the open editor without emitting.
func (s *WorkspaceService) UpdateTextDraft(id, text string) bool {
	return s.ws.UpdateTextDraft(id, text)
}

func (s *WorkspaceService) CommitTextEdit(ctx context.Context, id, text string) bool {
	ok := s.ws.CommitTextEdit(id, text)
	s.emitState(ctx)
	return ok
}

// TextBoxKey applies Enter/Shift+Enter handling for the editing box.
func (s *WorkspaceService) TextBoxKey(ctx context.Context, id, key string, shift bool) bool {
	ok := s.ws.TextBoxKey(id, key, shift)
	if ok {
		s.emitState(ctx)
	}
	return ok
}

func (s *WorkspaceService) DeleteTextBox(ctx context.Context, id string) bool {
	ok := s.ws.DeleteTextBox(id)
	if ok {
		s.emitState(ctx)
	}
	return ok
}

// TextBoxes returns every text box of the document.
func (s *WorkspaceService) TextBoxes() []domain.TextBox {
	return s.ws.TextBoxes()
}

// ── Text-layer edits ───────────────────────────────────────

// SpanBlurred captures a text-layer span edit and returns its key.
func (s *WorkspaceService) SpanBlurred(ctx context.Context, spanID, original, current string) (string, bool) {
	key, ok := s.ws.SpanBlurred(spanID, original, current)
	if ok {
		s.metrics.SpanEdited()
		s.emitState(ctx)
	}
	return key, ok
}

func (s *WorkspaceService) SpanKey(spanID, key string) bool {
	return s.ws.SpanKey(spanID, key)
}

func (s *WorkspaceService) SpanEdits() map[string]string {
	return s.ws.SpanEdits()
}

// ── Navigation and zoom ────────────────────────────────────

// GoToPage moves to page n, clamped to the document.
func (s *WorkspaceService) GoToPage(ctx context.Context, n int) domain.PageState {
	s.ws.GoToPage(n)
	return s.emitState(ctx)
}

func (s *WorkspaceService) NextPage(ctx context.Context) domain.PageState {
	s.ws.NextPage()
	return s.emitState(ctx)
}

func (s *WorkspaceService) PrevPage(ctx context.Context) domain.PageState {
	s.ws.PrevPage()
	return s.emitState(ctx)
}

func (s *WorkspaceService) ZoomIn(ctx context.Context) domain.PageState {
	s.ws.ZoomIn()
	return s.emitState(ctx)
}

func (s *WorkspaceService) ZoomOut(ctx context.Context) domain.PageState {
	s.ws.ZoomOut()
	return s.emitState(ctx)
}

// SetScale jumps to an absolute zoom factor.
func (s *WorkspaceService) SetScale(ctx context.Context, scale float64) domain.PageState {
	s.ws.SetScale(scale)
	return s.emitState(ctx)
}

// ── Rendering and export ───────────────────────────────────

// OverlayPNG renders page n (0 for the current page) as a PNG data URL.
// The current page comes from the live drawing surface and includes a
// stroke that is still being drawn.
func (s *WorkspaceService) OverlayPNG(n int) (string, error) {
	rs, err := s.ws.RenderOverlay(n)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := rs.EncodePNG(&buf); err != nil {
		return "", fmt.Errorf("encode overlay: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Export reports the placeholder notice for saving the annotated document.
func (s *WorkspaceService) Export() error {
	return s.ws.Export()
}

// Close stops the file watcher.
func (s *WorkspaceService) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}
