package dbclient

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pdfmark/internal/domain"
	"pdfmark/internal/storage"
)

// openSQL opens a hosted SQL database, verifies connectivity and applies the
// analytics schema.
func openSQL(ctx context.Context, driverName, dsn string) (domain.EventStore, error) {
	dialect, err := storage.ParseDialect(driverName)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}
	// Sensible pool settings for a desktop app
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driverName, err)
	}
	if err := storage.Migrate(ctx, db, dialect); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", driverName, err)
	}
	return storage.NewEventStore(db, dialect), nil
}
