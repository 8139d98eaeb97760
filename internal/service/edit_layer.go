package service

import (
	"context"
	"sync"

	"pdfmark/internal/domain"
)

// EditIndicator is the tint the frontend puts behind editable spans.
type EditIndicator struct {
	Color string  `json:"color"`
	Alpha float64 `json:"alpha"`
}

var editIndicator = EditIndicator{Color: domain.HighlightYellow.Hex(), Alpha: 0.1}

// EditLayerEvent is the payload of editlayer:attach and editlayer:detach.
type EditLayerEvent struct {
	Page      int               `json:"page"`
	Spans     []domain.TextSpan `json:"spans"`
	Indicator *EditIndicator    `json:"indicator,omitempty"`
}

// emitterLayer forwards the edit adapter's text-layer operations to the
// renderer as frontend events. Calls arrive on timer goroutines, so the
// emit context is set once at startup and read under a lock.
type emitterLayer struct {
	emitter EventEmitter

	mu  sync.RWMutex
	ctx context.Context
}

func newEmitterLayer(emitter EventEmitter) *emitterLayer {
	return &emitterLayer{emitter: emitter, ctx: context.Background()}
}

func (l *emitterLayer) setContext(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ctx = ctx
}

func (l *emitterLayer) emitCtx() context.Context {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ctx
}

func (l *emitterLayer) AttachEditable(page int, spans []domain.TextSpan) {
	ind := editIndicator
	l.emitter.Emit(l.emitCtx(), EventEditAttach, EditLayerEvent{Page: page, Spans: spans, Indicator: &ind})
}

func (l *emitterLayer) DetachEditable(page int, spans []domain.TextSpan) {
	l.emitter.Emit(l.emitCtx(), EventEditDetach, EditLayerEvent{Page: page, Spans: spans})
}

func (l *emitterLayer) Blur(spanID string) {
	l.emitter.Emit(l.emitCtx(), EventEditBlur, map[string]string{"spanId": spanID})
}
