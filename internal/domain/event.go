package domain

import (
	"context"
	"time"
)

const (
	EventPageView = "page_view"
	EventClick    = "click"
)

// Event is one row of the analytics table.
type Event struct {
	ID        string         `json:"id"`
	EventType string         `json:"eventType"`
	Path      string         `json:"path"`
	Meta      map[string]any `json:"meta"`
	CreatedAt time.Time      `json:"createdAt"`
}

// EventFilter narrows QueryEvents/CountEvents. Zero values mean "any".
// Results are always ordered newest first.
type EventFilter struct {
	EventType string
	Since     time.Time
	Limit     int
}

// EventStats is the admin dashboard summary.
type EventStats struct {
	PageViews int64 `json:"pageViews"`
	Clicks    int64 `json:"clicks"`
}

type EventStore interface {
	InsertEvent(ctx context.Context, e *Event) error
	QueryEvents(ctx context.Context, f EventFilter) ([]Event, error)
	CountEvents(ctx context.Context, eventType string) (int64, error)
	PruneEvents(ctx context.Context, before time.Time) (int64, error)
	Close() error
}
