package app

import (
	"pdfmark/internal/domain"
	"pdfmark/internal/service"
)

// AdminSummary is the admin dashboard payload.
type AdminSummary struct {
	Enabled bool              `json:"enabled"`
	Stats   domain.EventStats `json:"stats"`
	Events  []domain.Event    `json:"events"`
}

// TrackPageView is called by the router on every location change.
func (a *App) TrackPageView(path, search string) {
	a.analytics.TrackPageView(path, search)
}

// TrackClick is called by the global click listener.
func (a *App) TrackClick(path string, click service.ClickInfo) {
	a.analytics.TrackClick(path, click)
}

// GetAdminSummary returns event counts and the latest events.
func (a *App) GetAdminSummary() (*AdminSummary, error) {
	stats, err := a.analytics.Stats(a.ctx)
	if err != nil {
		return nil, err
	}
	events, err := a.analytics.RecentEvents(a.ctx, service.DefaultRecentEvents)
	if err != nil {
		return nil, err
	}
	return &AdminSummary{Enabled: a.analytics.Enabled(), Stats: stats, Events: events}, nil
}
