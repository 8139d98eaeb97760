package service

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pdfmark Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	DocumentsOpened  prometheus.Counter
	DocumentPages    prometheus.Gauge
	StrokesCommitted *prometheus.CounterVec
	TextBoxesPlaced  prometheus.Counter
	SpanEdits        prometheus.Counter
	EventsTracked    *prometheus.CounterVec
	InsertFailures   prometheus.Counter
	EventsPruned     prometheus.Counter
}

var (
	metricsOnce     sync.Once
	metricsInstance *Metrics
)

// NewMetrics registers the collectors with the default registry once and
// returns the shared set.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInstance = &Metrics{
			DocumentsOpened: promauto.NewCounter(prometheus.CounterOpts{
				Name: "pdfmark_documents_opened_total",
				Help: "Total number of documents loaded into the workspace",
			}),
			DocumentPages: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "pdfmark_document_pages",
				Help: "Page count of the open document, 0 when none is open",
			}),
			StrokesCommitted: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "pdfmark_strokes_committed_total",
				Help: "Total number of strokes committed, by kind",
			}, []string{"kind"}),
			TextBoxesPlaced: promauto.NewCounter(prometheus.CounterOpts{
				Name: "pdfmark_text_boxes_placed_total",
				Help: "Total number of text boxes placed",
			}),
			SpanEdits: promauto.NewCounter(prometheus.CounterOpts{
				Name: "pdfmark_span_edits_total",
				Help: "Total number of text-layer span edits captured",
			}),
			EventsTracked: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "pdfmark_analytics_events_total",
				Help: "Total number of analytics events queued, by type",
			}, []string{"type"}),
			InsertFailures: promauto.NewCounter(prometheus.CounterOpts{
				Name: "pdfmark_analytics_insert_failures_total",
				Help: "Total number of analytics inserts that failed",
			}),
			EventsPruned: promauto.NewCounter(prometheus.CounterOpts{
				Name: "pdfmark_analytics_events_pruned_total",
				Help: "Total number of analytics events removed by retention",
			}),
		}
	})
	return metricsInstance
}

func (m *Metrics) DocumentOpened(pages int) {
	if m == nil || m.DocumentsOpened == nil {
		return
	}
	m.DocumentsOpened.Inc()
	m.DocumentPages.Set(float64(pages))
}

func (m *Metrics) DocumentClosed() {
	if m == nil || m.DocumentPages == nil {
		return
	}
	m.DocumentPages.Set(0)
}

func (m *Metrics) StrokeCommitted(kind string) {
	if m == nil || m.StrokesCommitted == nil {
		return
	}
	m.StrokesCommitted.WithLabelValues(kind).Inc()
}

func (m *Metrics) TextBoxPlaced() {
	if m == nil || m.TextBoxesPlaced == nil {
		return
	}
	m.TextBoxesPlaced.Inc()
}

func (m *Metrics) SpanEdited() {
	if m == nil || m.SpanEdits == nil {
		return
	}
	m.SpanEdits.Inc()
}

func (m *Metrics) EventTracked(eventType string) {
	if m == nil || m.EventsTracked == nil {
		return
	}
	m.EventsTracked.WithLabelValues(eventType).Inc()
}

func (m *Metrics) InsertFailed() {
	if m == nil || m.InsertFailures == nil {
		return
	}
	m.InsertFailures.Inc()
}

func (m *Metrics) Pruned(n int64) {
	if m == nil || m.EventsPruned == nil {
		return
	}
	m.EventsPruned.Add(float64(n))
}
