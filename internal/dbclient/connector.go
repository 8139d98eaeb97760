package dbclient

import (
	"context"
	"fmt"

	"pdfmark/internal/domain"
)

// Open connects to the analytics database described by conn and returns an
// event store with its schema in place.
// The password must be provided separately (from SecretStore).
func Open(ctx context.Context, conn *domain.DatabaseConnection, password string) (domain.EventStore, error) {
	switch conn.Driver {
	case domain.DatabaseDriverSQLite, "":
		return openSQLite(conn)
	case domain.DatabaseDriverMySQL:
		return openSQL(ctx, "mysql", buildMySQLDSN(conn, password))
	case domain.DatabaseDriverPostgres:
		return openSQL(ctx, "postgres", buildPostgresDSN(conn, password))
	case domain.DatabaseDriverMongoDB:
		return openMongo(ctx, conn, password)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", conn.Driver)
	}
}
