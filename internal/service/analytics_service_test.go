package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"pdfmark/internal/domain"
	"pdfmark/internal/service"
)

// fakeEventStore is an in-memory domain.EventStore.
type fakeEventStore struct {
	mu         sync.Mutex
	events     []domain.Event
	lastFilter domain.EventFilter
	pruneAt    time.Time
	failInsert bool
	closed     bool
}

func (f *fakeEventStore) InsertEvent(_ context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInsert {
		return errors.New("connection refused")
	}
	f.events = append(f.events, *e)
	return nil
}

func (f *fakeEventStore) QueryEvents(_ context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	var out []domain.Event
	for i := len(f.events) - 1; i >= 0; i-- {
		if filter.EventType != "" && f.events[i].EventType != filter.EventType {
			continue
		}
		out = append(out, f.events[i])
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeEventStore) CountEvents(_ context.Context, eventType string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, e := range f.events {
		if e.EventType == eventType {
			n++
		}
	}
	return n, nil
}

func (f *fakeEventStore) PruneEvents(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pruneAt = before
	kept := f.events[:0]
	var n int64
	for _, e := range f.events {
		if e.CreatedAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, e)
	}
	f.events = kept
	return n, nil
}

func (f *fakeEventStore) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeEventStore) snapshot() []domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Event(nil), f.events...)
}

func drain(t *testing.T, s *service.AnalyticsService) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.Wait(ctx)
}

func TestAnalytics_PageViewDedupe(t *testing.T) {
	store := &fakeEventStore{}
	s := service.NewAnalyticsService(store, nil)

	steps := []struct {
		path, search string
		want         bool
	}{
		{"/", "", true},
		{"/", "", false},
		{"/", "?doc=1", true},
		{"/workspace", "", true},
		{"/workspace", "", false},
		{"/", "", true},
	}
	for i, st := range steps {
		if got := s.TrackPageView(st.path, st.search); got != st.want {
			t.Errorf("step %d: TrackPageView(%q, %q) = %v, want %v", i, st.path, st.search, got, st.want)
		}
	}
	drain(t, s)

	events := store.snapshot()
	if len(events) != 4 {
		t.Fatalf("expected 4 page views, got %d", len(events))
	}
	for _, e := range events {
		if e.EventType != domain.EventPageView || e.ID == "" || e.CreatedAt.IsZero() {
			t.Errorf("malformed event: %+v", e)
		}
		if _, ok := e.Meta["search"]; !ok {
			t.Errorf("page view without search meta: %+v", e)
		}
	}
}

func TestAnalytics_ClickTruncatesText(t *testing.T) {
	store := &fakeEventStore{}
	s := service.NewAnalyticsService(store, nil)

	s.TrackClick("/workspace", service.ClickInfo{
		X: 10, Y: 20, Tag: "BUTTON", ID: "zoom-in",
		Text: "ääääääääääääääääääääääääää",
	})
	drain(t, s)

	events := store.snapshot()
	if len(events) != 1 {
		t.Fatalf("expected 1 click, got %d", len(events))
	}
	meta := events[0].Meta
	text, _ := meta["text"].(string)
	if utf8.RuneCountInString(text) != 20 {
		t.Errorf("expected text truncated to 20 runes, got %d (%q)", utf8.RuneCountInString(text), text)
	}
	if meta["tag"] != "BUTTON" || meta["id"] != "zoom-in" || meta["x"] != 10.0 || meta["y"] != 20.0 {
		t.Errorf("unexpected click meta: %v", meta)
	}
}

func TestAnalytics_InsertFailureIsSwallowed(t *testing.T) {
	store := &fakeEventStore{failInsert: true}
	s := service.NewAnalyticsService(store, nil)

	s.TrackClick("/", service.ClickInfo{Tag: "DIV"})
	drain(t, s)

	if n := len(store.snapshot()); n != 0 {
		t.Fatalf("expected no stored events, got %d", n)
	}
}

func TestAnalytics_RecentEventsAndStats(t *testing.T) {
	store := &fakeEventStore{}
	s := service.NewAnalyticsService(store, nil)
	ctx := context.Background()

	s.TrackPageView("/", "")
	drain(t, s)
	s.TrackClick("/", service.ClickInfo{Tag: "A"})
	drain(t, s)
	s.TrackClick("/", service.ClickInfo{Tag: "B"})
	drain(t, s)

	events, err := s.RecentEvents(ctx, 0)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if store.lastFilter.Limit != service.DefaultRecentEvents {
		t.Errorf("expected default limit %d, got %d", service.DefaultRecentEvents, store.lastFilter.Limit)
	}
	if len(events) != 3 || events[0].Meta["tag"] != "B" {
		t.Errorf("expected newest first, got %+v", events)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.PageViews != 1 || stats.Clicks != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestAnalytics_Prune(t *testing.T) {
	store := &fakeEventStore{}
	s := service.NewAnalyticsService(store, nil)

	n, err := s.Prune(context.Background(), 30)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 0 {
		t.Errorf("expected nothing pruned, got %d", n)
	}
	age := time.Since(store.pruneAt)
	if age < 29*24*time.Hour || age > 31*24*time.Hour {
		t.Errorf("expected cutoff about 30 days ago, got %v", store.pruneAt)
	}

	if n, err := s.Prune(context.Background(), 0); err != nil || n != 0 {
		t.Errorf("expected zero days to be a no-op, got %d, %v", n, err)
	}
}

func TestAnalytics_Retention(t *testing.T) {
	store := &fakeEventStore{}
	s := service.NewAnalyticsService(store, nil)

	if err := s.StartRetention("not a schedule", 30); err == nil {
		t.Fatal("expected invalid schedule error")
	}
	if err := s.StartRetention("@daily", 30); err != nil {
		t.Fatalf("StartRetention: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if !store.closed {
		t.Error("expected store to be closed")
	}
}

func TestAnalytics_Disabled(t *testing.T) {
	s := service.NewAnalyticsService(nil, nil)
	ctx := context.Background()

	if s.Enabled() {
		t.Fatal("expected analytics to be disabled")
	}
	if s.TrackPageView("/", "") {
		t.Error("expected page view to be ignored")
	}
	s.TrackClick("/", service.ClickInfo{})

	events, err := s.RecentEvents(ctx, 10)
	if err != nil || len(events) != 0 {
		t.Errorf("expected no events, got %v, %v", events, err)
	}
	stats, err := s.Stats(ctx)
	if err != nil || stats != (domain.EventStats{}) {
		t.Errorf("expected zero stats, got %+v, %v", stats, err)
	}
	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}
