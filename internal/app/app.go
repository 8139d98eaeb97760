package app

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"pdfmark/internal/config"
	mcpserver "pdfmark/internal/mcp"
	"pdfmark/internal/service"
	"pdfmark/internal/storage"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx context.Context
	cfg *config.Config

	state       *storage.DB
	settings    *service.SettingsService
	metrics     *service.Metrics
	workspace   *service.WorkspaceService
	analytics   *service.AnalyticsService
	mcp         *mcpserver.Server
	metricsHTTP *http.Server
}

// wailsEmitter delivers service events to the frontend.
type wailsEmitter struct{}

func (wailsEmitter) Emit(ctx context.Context, event string, data any) {
	wailsRuntime.EventsEmit(ctx, event, data)
}

// New creates a new App.
func New(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	return &App{cfg: cfg, metrics: service.NewMetrics()}
}

// WindowSize returns the size the main window should open with. It is
// called before Startup, so it opens the state database itself.
func (a *App) WindowSize() service.WindowSize {
	a.openState()
	return a.settings.LoadWindowSize()
}

func (a *App) openState() {
	if a.settings != nil {
		return
	}
	db, err := storage.New(filepath.Join(a.cfg.DataDir, "state.db"))
	if err != nil {
		// Settings fall back to defaults without a state database.
		a.settings = service.NewSettingsService(nil)
		return
	}
	a.state = db
	a.settings = service.NewSettingsService(db)
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
	a.openState()

	emitter := wailsEmitter{}
	ws, err := NewWorkspaceService(a.cfg, emitter, a.metrics)
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to start workspace: %v", err)
		return
	}
	ws.SetContext(ctx)
	a.workspace = ws

	a.analytics = OpenAnalytics(ctx, a.cfg, a.metrics)
	if err := a.analytics.StartRetention(a.cfg.Analytics.Retention, a.cfg.Analytics.RetentionDays); err != nil {
		wailsRuntime.LogErrorf(ctx, "Analytics retention disabled: %v", err)
	}

	a.mcp = mcpserver.New(ctx, mcpserver.Deps{
		Emitter:   emitter,
		Workspace: a.workspace,
		Analytics: a.analytics,
	})

	if a.cfg.Metrics.Enabled {
		srv, err := StartMetrics(a.cfg.Metrics.Addr)
		if err != nil {
			wailsRuntime.LogErrorf(ctx, "Metrics disabled: %v", err)
		} else {
			a.metricsHTTP = srv
		}
	}
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.settings != nil && a.ctx != nil {
		w, h := wailsRuntime.WindowGetSize(a.ctx)
		a.settings.SaveWindowSize(w, h)
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if a.metricsHTTP != nil {
		a.metricsHTTP.Shutdown(drainCtx)
	}
	if a.workspace != nil {
		a.workspace.Close()
	}
	if a.analytics != nil {
		if err := a.analytics.Shutdown(drainCtx); err != nil {
			wailsRuntime.LogErrorf(ctx, "Close analytics: %v", err)
		}
	}
	if a.state != nil {
		a.state.Close()
	}
}

// ── MCP approvals ──────────────────────────────────────────

// ApproveMCPAction approves a destructive tool call requested by an agent.
func (a *App) ApproveMCPAction(actionID string) {
	a.mcp.Approve(actionID)
}

// RejectMCPAction rejects a destructive tool call requested by an agent.
func (a *App) RejectMCPAction(actionID string) {
	a.mcp.Reject(actionID)
}
