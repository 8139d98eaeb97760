package workspace_test

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"pdfmark/internal/domain"
	"pdfmark/internal/workspace"
)

// ── recordingSurface ───────────────────────────────────────

type surfaceOp struct {
	Kind     string
	From, To domain.Point
	Style    workspace.Style
}

// recordingSurface keeps the ops drawn since the last Clear/Resize.
type recordingSurface struct {
	w, h   int
	ops    []surfaceOp
	clears int
}

func (r *recordingSurface) Resize(w, h int) {
	r.w, r.h = w, h
	r.ops = nil
}

func (r *recordingSurface) Clear() {
	r.ops = nil
	r.clears++
}

func (r *recordingSurface) Segment(from, to domain.Point, st workspace.Style) {
	r.ops = append(r.ops, surfaceOp{Kind: "segment", From: from, To: to, Style: st})
}

func (r *recordingSurface) Dot(at domain.Point, st workspace.Style) {
	r.ops = append(r.ops, surfaceOp{Kind: "dot", From: at, To: at, Style: st})
}

func (r *recordingSurface) snapshot() []surfaceOp {
	out := make([]surfaceOp, len(r.ops))
	copy(out, r.ops)
	return out
}

// ── fakeLayer ──────────────────────────────────────────────

type fakeLayer struct {
	mu    sync.Mutex
	calls []string
}

func (l *fakeLayer) AttachEditable(page int, spans []domain.TextSpan) {
	l.record("attach", page, spans)
}

func (l *fakeLayer) DetachEditable(page int, spans []domain.TextSpan) {
	l.record("detach", page, spans)
}

func (l *fakeLayer) Blur(spanID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, "blur:"+spanID)
}

func (l *fakeLayer) record(kind string, page int, spans []domain.TextSpan) {
	ids := make([]string, len(spans))
	for i, s := range spans {
		ids[i] = s.ID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, fmt.Sprintf("%s:%d:%s", kind, page, strings.Join(ids, ",")))
}

func (l *fakeLayer) log() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

// ── manualClock ────────────────────────────────────────────

type manualTimer struct {
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// manualClock queues AfterFunc callbacks until Fire is called. With
// ignoreStop set, stopped timers still run, which exercises the adapter's
// own staleness check.
type manualClock struct {
	mu         sync.Mutex
	pending    []*manualTimer
	delays     []time.Duration
	ignoreStop bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) workspace.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{f: f}
	c.pending = append(c.pending, t)
	c.delays = append(c.delays, d)
	return t
}

// Fire runs the callbacks queued so far and returns how many ran.
// Callbacks scheduled while firing wait for the next call.
func (c *manualClock) Fire() int {
	c.mu.Lock()
	batch := c.pending
	c.pending = nil
	c.mu.Unlock()
	ran := 0
	for _, t := range batch {
		if t.stopped && !c.ignoreStop {
			continue
		}
		t.f()
		ran++
	}
	return ran
}

func (c *manualClock) queued() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// ── fakeDoc ────────────────────────────────────────────────

type fakeDoc struct {
	mu       sync.Mutex
	pages    int
	spans    map[int][]domain.TextSpan
	notReady map[int]int // page → number of Spans calls that report not ready
	calls    int
}

func newFakeDoc(pages int) *fakeDoc {
	d := &fakeDoc{pages: pages, spans: map[int][]domain.TextSpan{}, notReady: map[int]int{}}
	for p := 1; p <= pages; p++ {
		d.spans[p] = []domain.TextSpan{
			{ID: fmt.Sprintf("p%d-s0", p), Index: 0, Text: "Hello"},
			{ID: fmt.Sprintf("p%d-s1", p), Index: 1, Text: "World"},
		}
	}
	return d
}

func (d *fakeDoc) PageCount() int { return d.pages }

func (d *fakeDoc) PageSize(int) domain.PageSize {
	return domain.PageSize{Width: domain.DefaultPageWidth, Height: domain.DefaultPageHeight}
}

func (d *fakeDoc) Spans(page int) ([]domain.TextSpan, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.notReady[page] > 0 {
		d.notReady[page]--
		return nil, false
	}
	s, ok := d.spans[page]
	return s, ok
}

// ── builders ───────────────────────────────────────────────

type rig struct {
	ws      *workspace.Workspace
	surface *recordingSurface
	layer   *fakeLayer
	clock   *manualClock
	doc     *fakeDoc
}

func newRig(pages int, scale float64) *rig {
	r := &rig{
		surface: &recordingSurface{},
		layer:   &fakeLayer{},
		clock:   &manualClock{},
		doc:     newFakeDoc(pages),
	}
	seq := 0
	opts := workspace.DefaultOptions()
	opts.DefaultScale = scale
	opts.Scheduler = r.clock
	opts.NewID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	opts.Now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	r.ws = workspace.New(r.surface, r.layer, opts)
	r.ws.LoadDocument(r.doc, domain.DocumentInfo{Name: "test.pdf", PageCount: pages})
	return r
}

// drag performs a full pointer gesture through pts (screen pixels).
func (r *rig) drag(pts ...domain.Point) (domain.Annotation, bool) {
	r.ws.PointerDown(pts[0])
	for _, p := range pts[1:] {
		r.ws.PointerMove(p)
	}
	return r.ws.PointerUp()
}

func pt(x, y float64) domain.Point { return domain.Point{X: x, Y: y} }
