package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"pdfmark/internal/domain"
	"pdfmark/internal/workspace"
)

const (
	configEnv        = "PDFMARK_CONFIG"
	defaultConfigDir = "pdfmark"
	configFileName   = "config.yaml"
)

type Config struct {
	DataDir   string          `yaml:"data_dir"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Upload    UploadConfig    `yaml:"upload"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type WorkspaceConfig struct {
	DefaultScale float64       `yaml:"default_scale"`
	MinScale     float64       `yaml:"min_scale"`
	MaxScale     float64       `yaml:"max_scale"`
	ZoomStep     float64       `yaml:"zoom_step"`
	SettleDelay  time.Duration `yaml:"settle_delay"`
	WatchFiles   *bool         `yaml:"watch_files"`
}

type UploadConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

type AnalyticsConfig struct {
	Enabled       *bool                     `yaml:"enabled"`
	Connection    domain.DatabaseConnection `yaml:"connection"`
	Retention     string                    `yaml:"retention_schedule"`
	RetentionDays int                       `yaml:"retention_days"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// ResolvePath picks the config file: explicit path, then $PDFMARK_CONFIG,
// then ~/.config/pdfmark/config.yaml.
func ResolvePath(explicit string) string {
	if strings.TrimSpace(explicit) != "" {
		return expandUserPath(explicit)
	}
	if env := strings.TrimSpace(os.Getenv(configEnv)); env != "" {
		return expandUserPath(env)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return configFileName
	}
	return filepath.Join(dir, defaultConfigDir, configFileName)
}

// Load reads the config at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		// Expand environment variables
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.DataDir == "" {
		home, _ := os.UserHomeDir()
		cfg.DataDir = filepath.Join(home, ".local", "share", "pdfmark")
	}
	cfg.DataDir = expandUserPath(cfg.DataDir)

	d := workspace.DefaultOptions()
	w := &cfg.Workspace
	if w.DefaultScale == 0 {
		w.DefaultScale = d.DefaultScale
	}
	if w.MinScale == 0 {
		w.MinScale = d.MinScale
	}
	if w.MaxScale == 0 {
		w.MaxScale = d.MaxScale
	}
	if w.ZoomStep == 0 {
		w.ZoomStep = d.ZoomStep
	}
	if w.SettleDelay == 0 {
		w.SettleDelay = d.SettleDelay
	}
	if w.WatchFiles == nil {
		w.WatchFiles = boolPtr(true)
	}

	if cfg.Upload.MaxBytes == 0 {
		cfg.Upload.MaxBytes = 50 << 20
	}

	a := &cfg.Analytics
	if a.Enabled == nil {
		a.Enabled = boolPtr(true)
	}
	if a.Connection.Driver == "" {
		a.Connection.Driver = domain.DatabaseDriverSQLite
	}
	if a.Connection.Driver == domain.DatabaseDriverSQLite && a.Connection.Host == "" {
		a.Connection.Host = filepath.Join(cfg.DataDir, "analytics.db")
	}
	if a.Retention == "" {
		a.Retention = "@daily"
	}
	if a.RetentionDays == 0 {
		a.RetentionDays = 90
	}

	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = "127.0.0.1:9464"
	}
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	w := c.Workspace
	if w.MinScale <= 0 || w.MaxScale < w.MinScale {
		return fmt.Errorf("workspace: invalid zoom range [%v, %v]", w.MinScale, w.MaxScale)
	}
	if w.DefaultScale < w.MinScale || w.DefaultScale > w.MaxScale {
		return fmt.Errorf("workspace: default scale %v outside [%v, %v]", w.DefaultScale, w.MinScale, w.MaxScale)
	}
	if w.ZoomStep <= 0 {
		return fmt.Errorf("workspace: zoom step must be positive")
	}
	if c.Upload.MaxBytes < 0 {
		return fmt.Errorf("upload: max_bytes must not be negative")
	}
	switch c.Analytics.Connection.Driver {
	case domain.DatabaseDriverSQLite, domain.DatabaseDriverPostgres, domain.DatabaseDriverMySQL, domain.DatabaseDriverMongoDB:
	default:
		return fmt.Errorf("analytics: unsupported driver %q", c.Analytics.Connection.Driver)
	}
	if c.Analytics.RetentionDays < 0 {
		return fmt.Errorf("analytics: retention_days must not be negative")
	}
	return nil
}

// WorkspaceOptions converts the workspace section into workspace.Options.
func (c *Config) WorkspaceOptions() workspace.Options {
	return workspace.Options{
		DefaultScale: c.Workspace.DefaultScale,
		MinScale:     c.Workspace.MinScale,
		MaxScale:     c.Workspace.MaxScale,
		ZoomStep:     c.Workspace.ZoomStep,
		SettleDelay:  c.Workspace.SettleDelay,
	}
}

func (c *Config) AnalyticsEnabled() bool {
	return c.Analytics.Enabled == nil || *c.Analytics.Enabled
}

func (c *Config) WatchFiles() bool {
	return c.Workspace.WatchFiles == nil || *c.Workspace.WatchFiles
}

func expandUserPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil && strings.TrimSpace(home) != "" {
			return filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}
	return path
}

func boolPtr(b bool) *bool { return &b }
