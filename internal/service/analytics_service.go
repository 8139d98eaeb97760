package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"pdfmark/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Analytics Service: page views, clicks and retention
// ─────────────────────────────────────────────────────────────

const (
	// DefaultRecentEvents is the admin summary size.
	DefaultRecentEvents = 100
	// clickTextLimit caps the element text stored with a click.
	clickTextLimit = 20
	insertTimeout  = 5 * time.Second
	pruneKey       = "retention:prune"
)

// ClickInfo describes the element a click landed on.
type ClickInfo struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Tag  string  `json:"tag"`
	ID   string  `json:"id"`
	Text string  `json:"text"`
}

// AnalyticsService records usage events. Inserts run in the background and
// never block or fail the caller; a nil store turns tracking off.
type AnalyticsService struct {
	store   domain.EventStore
	metrics *Metrics
	now     func() time.Time
	running runningGuard

	mu       sync.Mutex
	lastView string
	cronSch  *cron.Cron
}

// NewAnalyticsService creates an AnalyticsService. store may be nil.
func NewAnalyticsService(store domain.EventStore, metrics *Metrics) *AnalyticsService {
	return &AnalyticsService{store: store, metrics: metrics, now: time.Now}
}

// Enabled reports whether events are being stored.
func (s *AnalyticsService) Enabled() bool { return s.store != nil }

// ── Tracking ───────────────────────────────────────────────

// TrackPageView records a view of path. Repeated reports of the same path
// and query are ignored until the location changes.
func (s *AnalyticsService) TrackPageView(path, search string) bool {
	if s.store == nil {
		return false
	}
	key := path + "?" + search
	s.mu.Lock()
	if s.lastView == key {
		s.mu.Unlock()
		return false
	}
	s.lastView = key
	s.mu.Unlock()

	s.track(domain.EventPageView, path, map[string]any{"search": search})
	return true
}

// TrackClick records a click on path.
func (s *AnalyticsService) TrackClick(path string, c ClickInfo) {
	if s.store == nil {
		return
	}
	s.track(domain.EventClick, path, map[string]any{
		"x":    c.X,
		"y":    c.Y,
		"tag":  c.Tag,
		"id":   c.ID,
		"text": truncateRunes(c.Text, clickTextLimit),
	})
}

func (s *AnalyticsService) track(eventType, path string, meta map[string]any) {
	e := &domain.Event{
		ID:        uuid.New().String(),
		EventType: eventType,
		Path:      path,
		Meta:      meta,
		CreatedAt: s.now().UTC(),
	}
	s.metrics.EventTracked(eventType)
	s.running.Go(e.ID, func() {
		ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
		defer cancel()
		if err := s.store.InsertEvent(ctx, e); err != nil {
			s.metrics.InsertFailed()
			log.Printf("[analytics] insert %s: %v", eventType, err)
		}
	})
}

// ── Queries ────────────────────────────────────────────────

// RecentEvents returns the newest events first. limit <= 0 means
// DefaultRecentEvents.
func (s *AnalyticsService) RecentEvents(ctx context.Context, limit int) ([]domain.Event, error) {
	if s.store == nil {
		return []domain.Event{}, nil
	}
	if limit <= 0 {
		limit = DefaultRecentEvents
	}
	events, err := s.store.QueryEvents(ctx, domain.EventFilter{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	if events == nil {
		events = []domain.Event{}
	}
	return events, nil
}

// Stats counts stored page views and clicks.
func (s *AnalyticsService) Stats(ctx context.Context) (domain.EventStats, error) {
	if s.store == nil {
		return domain.EventStats{}, nil
	}
	views, err := s.store.CountEvents(ctx, domain.EventPageView)
	if err != nil {
		return domain.EventStats{}, fmt.Errorf("count page views: %w", err)
	}
	clicks, err := s.store.CountEvents(ctx, domain.EventClick)
	if err != nil {
		return domain.EventStats{}, fmt.Errorf("count clicks: %w", err)
	}
	return domain.EventStats{PageViews: views, Clicks: clicks}, nil
}

// ── Retention ──────────────────────────────────────────────

// Prune deletes events older than days. A run already in progress makes
// this a no-op.
func (s *AnalyticsService) Prune(ctx context.Context, days int) (int64, error) {
	if s.store == nil || days <= 0 {
		return 0, nil
	}
	if !s.running.TryLock(pruneKey) {
		return 0, nil
	}
	defer s.running.Unlock(pruneKey)

	before := s.now().UTC().AddDate(0, 0, -days)
	n, err := s.store.PruneEvents(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	s.metrics.Pruned(n)
	return n, nil
}

// StartRetention schedules Prune on a cron spec such as "@daily".
func (s *AnalyticsService) StartRetention(schedule string, days int) error {
	if s.store == nil || days <= 0 {
		return nil
	}
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := s.Prune(ctx, days)
		if err != nil {
			log.Printf("[analytics] retention: %v", err)
			return
		}
		if n > 0 {
			log.Printf("[analytics] retention removed %d event(s) older than %d days", n, days)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid retention schedule %q: %w", schedule, err)
	}

	s.mu.Lock()
	if s.cronSch != nil {
		s.cronSch.Stop()
	}
	s.cronSch = c
	s.mu.Unlock()
	c.Start()
	return nil
}

// Wait blocks until queued inserts finish or ctx is cancelled.
func (s *AnalyticsService) Wait(ctx context.Context) {
	s.running.WaitAll(ctx)
}

// Shutdown stops retention, drains queued inserts and closes the store.
func (s *AnalyticsService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.cronSch != nil {
		<-s.cronSch.Stop().Done()
		s.cronSch = nil
	}
	s.mu.Unlock()

	s.running.WaitAll(ctx)
	if n := s.running.Running(); n > 0 {
		log.Printf("[analytics] shutdown with %d insert(s) still running", n)
	}
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
