package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"pdfmark/internal/app"
	"pdfmark/internal/config"
	"pdfmark/internal/document"
	"pdfmark/internal/domain"
	"pdfmark/internal/service"
)

func loadConfig() (*config.Config, error) {
	return config.Load(config.ResolvePath(configPath))
}

func runMCP() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return app.ServeMCP(cfg)
}

func runInspect(out io.Writer, path string, showSpans bool) error {
	doc, err := document.OpenFile(path)
	if err != nil {
		return err
	}
	info := doc.Info()
	fmt.Fprintf(out, "%s: %d page(s), %d bytes\n", info.Name, info.PageCount, info.SizeBytes)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PAGE\tWIDTH\tHEIGHT\tSPANS")
	pageSpans := make([][]domain.TextSpan, info.PageCount)
	for n := 1; n <= info.PageCount; n++ {
		ps := doc.PageSize(n)
		spans, ok := doc.Spans(n)
		count := "-"
		if ok {
			count = fmt.Sprint(len(spans))
			pageSpans[n-1] = spans
		}
		fmt.Fprintf(tw, "%d\t%.0f\t%.0f\t%s\n", n, ps.Width, ps.Height, count)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !showSpans {
		return nil
	}
	for _, spans := range pageSpans {
		for _, s := range spans {
			fmt.Fprintf(out, "%s\t(%.1f, %.1f)\t%q\n", s.ID, s.X, s.Y, s.Text)
		}
	}
	return nil
}

// openAnalytics opens the configured event store directly: the CLI reports
// connection errors instead of silently disabling analytics.
func openAnalytics(ctx context.Context) (*service.AnalyticsService, domain.EventStore, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := app.OpenEventStore(ctx, cfg, app.Secrets())
	if err != nil {
		return nil, nil, nil, err
	}
	return service.NewAnalyticsService(store, nil), store, cfg, nil
}

func runStats(ctx context.Context, out io.Writer, asJSON bool) error {
	a, _, _, err := openAnalytics(ctx)
	if err != nil {
		return err
	}
	defer a.Shutdown(ctx)

	stats, err := a.Stats(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(out, stats)
	}
	fmt.Fprintf(out, "page views: %d\nclicks:     %d\n", stats.PageViews, stats.Clicks)
	return nil
}

func runEvents(ctx context.Context, out io.Writer, eventType string, limit int, asJSON bool) error {
	a, store, _, err := openAnalytics(ctx)
	if err != nil {
		return err
	}
	defer a.Shutdown(ctx)

	var events []domain.Event
	if eventType == "" {
		events, err = a.RecentEvents(ctx, limit)
	} else {
		events, err = store.QueryEvents(ctx, domain.EventFilter{EventType: eventType, Limit: limit})
	}
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(out, events)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTYPE\tPATH\tDETAILS")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.CreatedAt.Local().Format(time.DateTime), e.EventType, e.Path, formatMeta(e.Meta))
	}
	return tw.Flush()
}

func runPrune(ctx context.Context, out io.Writer, days int) error {
	a, _, cfg, err := openAnalytics(ctx)
	if err != nil {
		return err
	}
	defer a.Shutdown(ctx)

	if days <= 0 {
		days = cfg.Analytics.RetentionDays
	}
	n, err := a.Prune(ctx, days)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "removed %d event(s) older than %d days\n", n, days)
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatMeta(meta map[string]any) string {
	if len(meta) == 0 {
		return ""
	}
	keys := []string{"tag", "id", "text", "search", "x", "y"}
	var parts []string
	for _, k := range keys {
		if v, ok := meta[k]; ok && v != "" {
			parts = append(parts, fmt.Sprintf("%s=%v", k, v))
		}
	}
	return strings.Join(parts, " ")
}
