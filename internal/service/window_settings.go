package service

import (
	"database/sql"
	"errors"
	"fmt"

	"pdfmark/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// App Settings Persistence
// ─────────────────────────────────────────────────────────────
//
// Saves and restores the main Wails window size and the last document
// opened from disk between sessions. Stored in the local SQLite state
// database as key-value rows in app_settings.

// WindowSize holds the saved window dimensions.
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SettingsService persists UI settings between sessions.
type SettingsService struct {
	db *storage.DB
}

// NewSettingsService creates a SettingsService. db may be nil, in which case
// defaults are returned and saves fail.
func NewSettingsService(db *storage.DB) *SettingsService {
	s := &SettingsService{db: db}
	if db != nil {
		// Try to create settings table (idempotent)
		db.Conn().Exec(`CREATE TABLE IF NOT EXISTS app_settings (key TEXT PRIMARY KEY, value TEXT NOT NULL DEFAULT '')`)
	}
	return s
}

const (
	settingWindowWidth  = "window_width"
	settingWindowHeight = "window_height"
	settingLastDocument = "last_document"
	defaultWindowWidth  = 1280
	defaultWindowHeight = 900
)

// LoadWindowSize returns the saved window dimensions, or sensible defaults.
func (s *SettingsService) LoadWindowSize() WindowSize {
	if s.db == nil {
		return WindowSize{Width: defaultWindowWidth, Height: defaultWindowHeight}
	}
	conn := s.db.Conn()

	w := defaultWindowWidth
	h := defaultWindowHeight
	conn.QueryRow(`SELECT value FROM app_settings WHERE key = ?`, settingWindowWidth).Scan(&w)
	conn.QueryRow(`SELECT value FROM app_settings WHERE key = ?`, settingWindowHeight).Scan(&h)

	if w < 800 {
		w = defaultWindowWidth
	}
	if h < 600 {
		h = defaultWindowHeight
	}
	return WindowSize{Width: w, Height: h}
}

// SaveWindowSize persists the current window dimensions.
func (s *SettingsService) SaveWindowSize(width, height int) error {
	if s.db == nil {
		return fmt.Errorf("settings: no db")
	}
	conn := s.db.Conn()
	if err := upsertSetting(conn, settingWindowWidth, width); err != nil {
		return err
	}
	return upsertSetting(conn, settingWindowHeight, height)
}

// LastDocument returns the path of the last document opened from disk.
func (s *SettingsService) LastDocument() (string, error) {
	if s.db == nil {
		return "", nil
	}
	var path string
	err := s.db.Conn().QueryRow(`SELECT value FROM app_settings WHERE key = ?`, settingLastDocument).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load last document: %w", err)
	}
	return path, nil
}

// SaveLastDocument remembers the path reopened by OpenLastDocument.
func (s *SettingsService) SaveLastDocument(path string) error {
	if s.db == nil {
		return fmt.Errorf("settings: no db")
	}
	return upsertSetting(s.db.Conn(), settingLastDocument, path)
}

func upsertSetting(conn *sql.DB, key string, value any) error {
	_, err := conn.Exec(
		`INSERT INTO app_settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}
	return nil
}
