package dbclient

import (
	"fmt"

	"pdfmark/internal/domain"
	"pdfmark/internal/storage"
)

// openSQLite opens the local analytics database file. Host is the file path.
func openSQLite(conn *domain.DatabaseConnection) (domain.EventStore, error) {
	if conn.Host == "" {
		return nil, fmt.Errorf("sqlite analytics store needs a file path")
	}
	db, err := storage.New(conn.Host)
	if err != nil {
		return nil, err
	}
	return db.Events(), nil
}
