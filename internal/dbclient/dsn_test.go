package dbclient

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"

	"pdfmark/internal/domain"
)

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name     string
		conn     domain.DatabaseConnection
		password string
		want     string
	}{
		{
			name:     "defaults",
			conn:     domain.DatabaseConnection{Host: "db.local", Username: "app", Database: "analytics"},
			password: "secret",
			want:     "host=db.local port=5432 user=app password=secret dbname=analytics sslmode=disable",
		},
		{
			name:     "quoted password and options",
			conn:     domain.DatabaseConnection{Host: "db", Port: 6543, Username: "u", Database: "d", SSLMode: "require", Options: map[string]string{"connect_timeout": "5"}},
			password: "it's here",
			want:     `host=db port=6543 user=u password='it\'s here' dbname=d sslmode=require connect_timeout=5`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildPostgresDSN(&tt.conn, tt.password); got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestBuildMySQLDSN(t *testing.T) {
	conn := &domain.DatabaseConnection{
		Host:     "mysql",
		Username: "root",
		Database: "events",
		SSLMode:  "require",
		Options:  map[string]string{"timeout": "5s", "appName": "pdfmark"},
	}
	dsn := buildMySQLDSN(conn, "p@ss:word")

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("ParseDSN(%q): %v", dsn, err)
	}
	if cfg.User != "root" || cfg.Passwd != "p@ss:word" || cfg.Addr != "mysql:3306" || cfg.DBName != "events" {
		t.Errorf("unexpected target: %+v", cfg)
	}
	if !cfg.ParseTime || cfg.Loc != time.UTC {
		t.Errorf("expected parseTime with UTC, got parseTime=%v loc=%v", cfg.ParseTime, cfg.Loc)
	}
	if cfg.TLSConfig != "true" {
		t.Errorf("tls = %q, want true", cfg.TLSConfig)
	}
	if cfg.Timeout != 5*time.Second || cfg.Params["appName"] != "pdfmark" {
		t.Errorf("options not applied: timeout=%v params=%v", cfg.Timeout, cfg.Params)
	}
	if !strings.Contains(dsn, "charset=utf8mb4") {
		t.Errorf("dsn %q missing utf8mb4 charset", dsn)
	}
}

func TestBuildMySQLDSN_PlainTCP(t *testing.T) {
	cfg, err := mysql.ParseDSN(buildMySQLDSN(&domain.DatabaseConnection{Host: "db", Port: 3307, Username: "u"}, ""))
	if err != nil {
		t.Fatalf("ParseDSN: %v", err)
	}
	if cfg.Addr != "db:3307" || cfg.TLSConfig != "" {
		t.Errorf("unexpected config: addr=%q tls=%q", cfg.Addr, cfg.TLSConfig)
	}
}

func TestBuildMongoURI(t *testing.T) {
	tests := []struct {
		name     string
		conn     domain.DatabaseConnection
		password string
		wantURI  string
		wantDB   string
	}{
		{
			name:    "host and port",
			conn:    domain.DatabaseConnection{Host: "localhost"},
			wantURI: "mongodb://localhost:27017",
			wantDB:  "pdfmark",
		},
		{
			name:     "credentials and options",
			conn:     domain.DatabaseConnection{Host: "mongo", Port: 27018, Username: "app", Database: "stats", Options: map[string]string{"authSource": "admin"}},
			password: "pw",
			wantURI:  "mongodb://app:pw@mongo:27018/?authSource=admin",
			wantDB:   "stats",
		},
		{
			name:     "atlas uri with placeholder",
			conn:     domain.DatabaseConnection{Host: "mongodb+srv://app:<db_password>@cluster0.example.net/site?retryWrites=true"},
			password: "pw",
			wantURI:  "mongodb+srv://app:pw@cluster0.example.net/site?retryWrites=true",
			wantDB:   "site",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri, db := buildMongoURI(&tt.conn, tt.password)
			if uri != tt.wantURI || db != tt.wantDB {
				t.Errorf("got (%q, %q), want (%q, %q)", uri, db, tt.wantURI, tt.wantDB)
			}
		})
	}
}

func TestOpen_SQLite(t *testing.T) {
	conn := &domain.DatabaseConnection{Driver: domain.DatabaseDriverSQLite, Host: filepath.Join(t.TempDir(), "events.db")}
	store, err := Open(context.Background(), conn, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()
	if err := store.InsertEvent(context.Background(), &domain.Event{EventType: domain.EventClick}); err != nil {
		t.Fatalf("InsertEvent: %v", err)
	}
	n, err := store.CountEvents(context.Background(), domain.EventClick)
	if err != nil || n != 1 {
		t.Errorf("CountEvents = %d, %v", n, err)
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	if _, err := Open(context.Background(), &domain.DatabaseConnection{Driver: "oracle"}, ""); err == nil {
		t.Error("expected error for unsupported driver")
	}
}
