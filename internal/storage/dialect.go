package storage

import "fmt"

// Dialect selects placeholder syntax and DDL for the SQL event store.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case DialectSQLite, DialectPostgres, DialectMySQL:
		return Dialect(s), nil
	}
	return "", fmt.Errorf("unsupported sql dialect: %q", s)
}

// bind returns the placeholder for the n-th (1-based) argument.
func (d Dialect) bind(n int) string {
	if d == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (d Dialect) migrations() []string {
	switch d {
	case DialectPostgres:
		return []string{
			`CREATE TABLE IF NOT EXISTS analytics_events (
				id TEXT PRIMARY KEY,
				event_type TEXT NOT NULL,
				path TEXT NOT NULL DEFAULT '',
				meta_json TEXT NOT NULL DEFAULT '{}',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE INDEX IF NOT EXISTS idx_events_type_created ON analytics_events(event_type, created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_events_created ON analytics_events(created_at)`,
		}
	case DialectMySQL:
		return []string{
			`CREATE TABLE IF NOT EXISTS analytics_events (
				id VARCHAR(64) PRIMARY KEY,
				event_type VARCHAR(64) NOT NULL,
				path VARCHAR(2048) NOT NULL DEFAULT '',
				meta_json TEXT NOT NULL,
				created_at DATETIME(6) NOT NULL,
				INDEX idx_events_type_created (event_type, created_at),
				INDEX idx_events_created (created_at)
			)`,
		}
	default:
		return []string{
			`CREATE TABLE IF NOT EXISTS analytics_events (
				id TEXT PRIMARY KEY,
				event_type TEXT NOT NULL,
				path TEXT NOT NULL DEFAULT '',
				meta_json TEXT NOT NULL DEFAULT '{}',
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE INDEX IF NOT EXISTS idx_events_type_created ON analytics_events(event_type, created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_events_created ON analytics_events(created_at)`,
		}
	}
}
