package workspace

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"pdfmark/internal/domain"
)

// EditableLayer is the capability the renderer's text layer exposes so spans
// can be made editable in place. Implementations must not call back into the
// adapter synchronously from AttachEditable or DetachEditable.
type EditableLayer interface {
	AttachEditable(page int, spans []domain.TextSpan)
	DetachEditable(page int, spans []domain.TextSpan)
	// Blur removes focus from the span, which ends editing on the renderer side.
	Blur(spanID string)
}

// SpanSource returns the laid-out text spans of a page. ok is false while the
// renderer has not finished the page yet.
type SpanSource interface {
	Spans(page int) (spans []domain.TextSpan, ok bool)
}

// Timer is a pending scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. time.AfterFunc satisfies it through
// RealScheduler; tests substitute a manual clock.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules on the runtime timer.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// EditAdapter grants in-place editability to the current page's text spans
// while the edit tool is active and captures the edits into a map keyed by
// span id.
//
// Every Activate/Deactivate bumps a generation counter. A scheduled attach
// carries the generation it was armed with and does nothing if that is no
// longer current.
type EditAdapter struct {
	mu       sync.Mutex
	layer    EditableLayer
	sched    Scheduler
	settle   time.Duration
	retries  int
	gen      uint64
	timer    Timer
	page     int
	attached []domain.TextSpan
	edits    map[string]string
	order    []string
}

// NewEditAdapter creates an inactive adapter. A nil sched uses RealScheduler.
func NewEditAdapter(layer EditableLayer, sched Scheduler, settle time.Duration) *EditAdapter {
	if sched == nil {
		sched = RealScheduler{}
	}
	return &EditAdapter{
		layer:   layer,
		sched:   sched,
		settle:  settle,
		retries: 1,
		edits:   make(map[string]string),
	}
}

// Activate tears down any previous attachment, then waits for page's spans to
// settle before attaching to them.
func (a *EditAdapter) Activate(page int, src SpanSource) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.teardownLocked()
	a.page = page
	a.scheduleLocked(a.gen, page, src, a.retries)
}

// Deactivate reverts every attached span and cancels a pending attach.
// Captured edits are kept.
func (a *EditAdapter) Deactivate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.teardownLocked()
}

// Reset deactivates and forgets all captured edits.
func (a *EditAdapter) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.teardownLocked()
	a.edits = make(map[string]string)
	a.order = nil
}

// Attached returns the spans currently editable.
func (a *EditAdapter) Attached() []domain.TextSpan {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.TextSpan, len(a.attached))
	copy(out, a.attached)
	return out
}

// SpanBlurred records the span's text when it changed while focused. Blurs
// for spans that are not currently editable, such as one arriving after a
// detach, are ignored.
// A span without a stable id gets a random key; such an edit cannot be
// matched back to its span after a re-render.
func (a *EditAdapter) SpanBlurred(spanID, original, current string) (string, bool) {
	if current == original {
		return "", false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.editableLocked(spanID) {
		return "", false
	}
	key := spanID
	if key == "" {
		key = uuid.New().String()
		log.Printf("[workspace] span edit without id stored under %s", key)
	}
	if _, seen := a.edits[key]; !seen {
		a.order = append(a.order, key)
	}
	a.edits[key] = current
	return key, true
}

// SpanKey applies the keyboard policy for an editable span: Enter ends
// editing instead of inserting a line break. Reports whether the key was
// consumed; keys for spans that are not editable pass through.
func (a *EditAdapter) SpanKey(spanID, key string) bool {
	if key != "Enter" {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.editableLocked(spanID) {
		return false
	}
	a.layer.Blur(spanID)
	return true
}

// Edits returns a copy of the captured span edits.
func (a *EditAdapter) Edits() map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]string, len(a.edits))
	for k, v := range a.edits {
		out[k] = v
	}
	return out
}

// EditKeys returns captured edit keys in first-edit order.
func (a *EditAdapter) EditKeys() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

func (a *EditAdapter) scheduleLocked(gen uint64, page int, src SpanSource, retriesLeft int) {
	a.timer = a.sched.AfterFunc(a.settle, func() {
		a.attempt(gen, page, src, retriesLeft)
	})
}

func (a *EditAdapter) attempt(gen uint64, page int, src SpanSource, retriesLeft int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen {
		return
	}
	a.timer = nil
	var spans []domain.TextSpan
	ok := false
	if src != nil {
		spans, ok = src.Spans(page)
	}
	if !ok || len(spans) == 0 {
		if retriesLeft > 0 {
			a.scheduleLocked(gen, page, src, retriesLeft-1)
		}
		return
	}
	a.attached = spans
	a.layer.AttachEditable(page, spans)
}

// editableLocked reports whether spanID is among the attached spans. An
// empty id matches while anything is attached.
func (a *EditAdapter) editableLocked(spanID string) bool {
	if len(a.attached) == 0 {
		return false
	}
	if spanID == "" {
		return true
	}
	for _, s := range a.attached {
		if s.ID == spanID {
			return true
		}
	}
	return false
}

func (a *EditAdapter) teardownLocked() {
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if len(a.attached) > 0 {
		a.layer.DetachEditable(a.page, a.attached)
		a.attached = nil
	}
}
