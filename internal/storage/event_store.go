package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pdfmark/internal/domain"
)

// EventStore implements domain.EventStore over any database/sql driver.
type EventStore struct {
	db      *sql.DB
	dialect Dialect
}

func NewEventStore(db *sql.DB, d Dialect) *EventStore {
	return &EventStore{db: db, dialect: d}
}

func (s *EventStore) InsertEvent(ctx context.Context, e *domain.Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	meta, err := marshalMeta(e.Meta)
	if err != nil {
		return err
	}
	q := fmt.Sprintf(`INSERT INTO analytics_events (id, event_type, path, meta_json, created_at) VALUES (%s)`,
		s.binds(5))
	if _, err := s.db.ExecContext(ctx, q, e.ID, e.EventType, e.Path, meta, e.CreatedAt); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// QueryEvents returns matching events, newest first.
func (s *EventStore) QueryEvents(ctx context.Context, f domain.EventFilter) ([]domain.Event, error) {
	var (
		where []string
		args  []any
	)
	if f.EventType != "" {
		args = append(args, f.EventType)
		where = append(where, "event_type = "+s.dialect.bind(len(args)))
	}
	if !f.Since.IsZero() {
		args = append(args, f.Since.UTC())
		where = append(where, "created_at >= "+s.dialect.bind(len(args)))
	}

	q := `SELECT id, event_type, path, meta_json, created_at FROM analytics_events`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		var (
			e    domain.Event
			meta string
		)
		if err := rows.Scan(&e.ID, &e.EventType, &e.Path, &meta, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if meta != "" {
			if err := json.Unmarshal([]byte(meta), &e.Meta); err != nil {
				return nil, fmt.Errorf("decode meta of event %s: %w", e.ID, err)
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *EventStore) CountEvents(ctx context.Context, eventType string) (int64, error) {
	var n int64
	q := `SELECT COUNT(*) FROM analytics_events WHERE event_type = ` + s.dialect.bind(1)
	if err := s.db.QueryRowContext(ctx, q, eventType).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// PruneEvents deletes events created before the cutoff.
func (s *EventStore) PruneEvents(ctx context.Context, before time.Time) (int64, error) {
	q := `DELETE FROM analytics_events WHERE created_at < ` + s.dialect.bind(1)
	res, err := s.db.ExecContext(ctx, q, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return n, nil
}

func (s *EventStore) Close() error {
	return s.db.Close()
}

func (s *EventStore) binds(n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = s.dialect.bind(i + 1)
	}
	return strings.Join(out, ", ")
}

func marshalMeta(meta map[string]any) (string, error) {
	if len(meta) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("encode meta: %w", err)
	}
	return string(data), nil
}
