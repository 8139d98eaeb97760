package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pdfmark/internal/config"
	mcpserver "pdfmark/internal/mcp"
	"pdfmark/internal/service"
)

// noopEmitter is a no-op EventEmitter used in MCP-only mode (no Wails frontend).
type noopEmitter struct{}

func (noopEmitter) Emit(_ context.Context, _ string, _ any) {}

// ServeMCP runs a headless workspace as a standalone MCP server on
// stdin/stdout. It returns when stdin closes or the process is interrupted.
func ServeMCP(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	emitter := noopEmitter{}
	metrics := service.NewMetrics()

	ws, err := NewWorkspaceService(cfg, emitter, metrics)
	if err != nil {
		return err
	}
	defer ws.Close()
	ws.SetContext(ctx)

	analytics := OpenAnalytics(ctx, cfg, metrics)
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		analytics.Shutdown(drainCtx)
	}()

	if cfg.Metrics.Enabled {
		srv, err := StartMetrics(cfg.Metrics.Addr)
		if err != nil {
			log.Printf("[metrics] disabled: %v", err)
		} else {
			defer srv.Close()
		}
	}

	// Nobody is around to confirm destructive tools in stdio mode.
	mcpSrv := mcpserver.New(ctx, mcpserver.Deps{
		Emitter:     emitter,
		Workspace:   ws,
		Analytics:   analytics,
		AutoApprove: true,
	})

	log.Println("[MCP] Starting standalone stdio server...")
	errCh := make(chan error, 1)
	go func() { errCh <- mcpSrv.ServeStdio() }()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}
