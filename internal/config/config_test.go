package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"pdfmark/internal/config"
	"pdfmark/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workspace.DefaultScale != 1.5 || cfg.Workspace.MinScale != 0.5 || cfg.Workspace.MaxScale != 3 {
		t.Errorf("unexpected zoom defaults: %+v", cfg.Workspace)
	}
	if cfg.Workspace.SettleDelay != 100*time.Millisecond {
		t.Errorf("settle delay = %v", cfg.Workspace.SettleDelay)
	}
	if cfg.Upload.MaxBytes != 50<<20 {
		t.Errorf("upload max = %d", cfg.Upload.MaxBytes)
	}
	if cfg.Analytics.Connection.Driver != domain.DatabaseDriverSQLite ||
		cfg.Analytics.Connection.Host != filepath.Join(cfg.DataDir, "analytics.db") {
		t.Errorf("unexpected analytics defaults: %+v", cfg.Analytics.Connection)
	}
	if !cfg.AnalyticsEnabled() || !cfg.WatchFiles() {
		t.Error("analytics and file watching default to on")
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("PDFMARK_TEST_DB_HOST", "db.internal")
	path := writeConfig(t, `
data_dir: /tmp/pdfmark-test
workspace:
  default_scale: 1
  settle_delay: 250ms
  watch_files: false
analytics:
  enabled: false
  retention_days: 30
  connection:
    driver: postgres
    host: ${PDFMARK_TEST_DB_HOST}
    port: 5433
    database: site
    username: admin
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/tmp/pdfmark-test" {
		t.Errorf("data dir = %q", cfg.DataDir)
	}
	if cfg.Workspace.DefaultScale != 1 || cfg.Workspace.SettleDelay != 250*time.Millisecond {
		t.Errorf("workspace = %+v", cfg.Workspace)
	}
	if cfg.WatchFiles() || cfg.AnalyticsEnabled() {
		t.Error("explicit false values must survive defaults")
	}
	c := cfg.Analytics.Connection
	if c.Driver != domain.DatabaseDriverPostgres || c.Host != "db.internal" || c.Port != 5433 {
		t.Errorf("connection = %+v", c)
	}
	opts := cfg.WorkspaceOptions()
	if opts.DefaultScale != 1 || opts.ZoomStep != 0.25 {
		t.Errorf("workspace options = %+v", opts)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "workspace: [unclosed"},
		{"inverted zoom range", "workspace:\n  min_scale: 2\n  max_scale: 1\n"},
		{"default outside range", "workspace:\n  default_scale: 5\n"},
		{"unknown driver", "analytics:\n  connection:\n    driver: oracle\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := config.Load(writeConfig(t, tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv("PDFMARK_CONFIG", "/etc/pdfmark.yaml")
	if got := config.ResolvePath("/explicit.yaml"); got != "/explicit.yaml" {
		t.Errorf("explicit path ignored: %q", got)
	}
	if got := config.ResolvePath(""); got != "/etc/pdfmark.yaml" {
		t.Errorf("env path ignored: %q", got)
	}
}
