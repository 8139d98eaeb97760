package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pdfmark/internal/config"
	"pdfmark/internal/dbclient"
	"pdfmark/internal/domain"
	"pdfmark/internal/secret"
	"pdfmark/internal/service"
)

// Secrets returns the store consulted for the analytics password: the
// PDFMARK_ environment first, then the OS keychain.
func Secrets() secret.SecretStore {
	return secret.Chain{secret.NewEnvStore("PDFMARK_"), secret.NewKeychainStore()}
}

// OpenEventStore connects to the configured analytics database.
func OpenEventStore(ctx context.Context, cfg *config.Config, secrets secret.SecretStore) (domain.EventStore, error) {
	conn := cfg.Analytics.Connection
	var password string
	if conn.Driver != domain.DatabaseDriverSQLite && secrets != nil {
		pw, err := secrets.Get(secret.AnalyticsPasswordKey)
		if err != nil {
			return nil, fmt.Errorf("read analytics password: %w", err)
		}
		password = string(pw)
	}
	store, err := dbclient.Open(ctx, &conn, password)
	if err != nil {
		return nil, fmt.Errorf("open analytics store: %w", err)
	}
	return store, nil
}

// OpenAnalytics builds the analytics service. Analytics never blocks the
// app: when the store cannot be opened tracking is disabled and the error
// is only logged.
func OpenAnalytics(ctx context.Context, cfg *config.Config, metrics *service.Metrics) *service.AnalyticsService {
	if !cfg.AnalyticsEnabled() {
		return service.NewAnalyticsService(nil, metrics)
	}
	store, err := OpenEventStore(ctx, cfg, Secrets())
	if err != nil {
		log.Printf("[analytics] disabled: %v", err)
		return service.NewAnalyticsService(nil, metrics)
	}
	return service.NewAnalyticsService(store, metrics)
}

// NewWorkspaceService builds the workspace service from config.
func NewWorkspaceService(cfg *config.Config, emitter service.EventEmitter, metrics *service.Metrics) (*service.WorkspaceService, error) {
	return service.NewWorkspaceService(emitter, service.WorkspaceConfig{
		Options:   cfg.WorkspaceOptions(),
		MaxUpload: cfg.Upload.MaxBytes,
		Watch:     cfg.WatchFiles(),
		Metrics:   metrics,
	})
}

// StartMetrics serves /metrics on addr until Shutdown is called on the
// returned server.
func StartMetrics(addr string) (*http.Server, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listen: %w", err)
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[metrics] server error: %v", err)
		}
	}()
	log.Printf("[metrics] serving on http://%s/metrics", listener.Addr())
	return server, nil
}
