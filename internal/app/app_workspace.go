package app

import (
	"encoding/base64"
	"fmt"
	"strings"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"pdfmark/internal/domain"
)

// ============================================================
// Upload and handoff
// ============================================================

// UploadDocument validates an uploaded PDF and parks it for the workspace.
// data is base64, optionally as a data URL.
func (a *App) UploadDocument(name, data string) error {
	if i := strings.Index(data, ","); strings.HasPrefix(data, "data:") && i >= 0 {
		data = data[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return fmt.Errorf("decode upload: %w", err)
	}
	return a.workspace.StageUpload(name, raw)
}

// OpenWorkspace loads the uploaded document. It fails when nothing was
// uploaded, and the frontend sends the user back to the upload screen.
func (a *App) OpenWorkspace() (domain.PageState, error) {
	return a.workspace.OpenFromHandoff(a.ctx)
}

// PickDocument opens a native file picker and loads the chosen PDF.
func (a *App) PickDocument() (domain.PageState, error) {
	path, err := wailsRuntime.OpenFileDialog(a.ctx, wailsRuntime.OpenDialogOptions{
		Title: "Open PDF",
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "PDF", Pattern: "*.pdf"},
		},
	})
	if err != nil {
		return a.workspace.State(), err
	}
	if path == "" {
		return a.workspace.State(), nil
	}
	return a.openPath(path)
}

// OpenLastDocument reopens the last PDF opened from disk, if any.
func (a *App) OpenLastDocument() (domain.PageState, error) {
	path, err := a.settings.LastDocument()
	if err != nil || path == "" {
		return a.workspace.State(), err
	}
	return a.openPath(path)
}

func (a *App) openPath(path string) (domain.PageState, error) {
	st, err := a.workspace.OpenPath(a.ctx, path)
	if err != nil {
		return st, err
	}
	if err := a.settings.SaveLastDocument(path); err != nil {
		wailsRuntime.LogWarningf(a.ctx, "Remember last document: %v", err)
	}
	return st, nil
}

// CloseDocument is "go back": the document and all marks are discarded.
func (a *App) CloseDocument() domain.PageState {
	return a.workspace.CloseDocument(a.ctx)
}

func (a *App) GetWorkspaceState() domain.PageState {
	return a.workspace.State()
}

// ============================================================
// Tools
// ============================================================

func (a *App) SelectTool(tool string) (domain.PageState, error) {
	return a.workspace.SelectTool(a.ctx, tool)
}

func (a *App) SetHighlightColor(color string) (domain.PageState, error) {
	return a.workspace.SetHighlightColor(a.ctx, color)
}

// ============================================================
// Pointer input (screen pixels relative to the page)
// ============================================================

func (a *App) PointerDown(x, y float64) bool {
	return a.workspace.PointerDown(domain.Point{X: x, Y: y})
}

func (a *App) PointerMove(x, y float64) bool {
	return a.workspace.PointerMove(domain.Point{X: x, Y: y})
}

// PointerUp returns the committed stroke, or nil when the gesture was a
// click.
func (a *App) PointerUp() *domain.Annotation {
	ann, ok := a.workspace.PointerUp(a.ctx)
	if !ok {
		return nil
	}
	return &ann
}

// Click places a text box under the edit tool. It returns nil otherwise.
func (a *App) Click(x, y float64) *domain.TextBox {
	b, ok := a.workspace.Click(a.ctx, domain.Point{X: x, Y: y})
	if !ok {
		return nil
	}
	return &b
}

func (a *App) ClearPage() int {
	return a.workspace.ClearPage(a.ctx)
}

// ============================================================
// Text boxes
// ============================================================

func (a *App) BeginTextEdit(id string) error {
	return a.workspace.BeginTextEdit(a.ctx, id)
}

func (a *App) UpdateTextDraft(id, text string) bool {
	return a.workspace.UpdateTextDraft(id, text)
}

func (a *App) CommitTextEdit(id, text string) bool {
	return a.workspace.CommitTextEdit(a.ctx, id, text)
}

func (a *App) TextBoxKey(id, key string, shift bool) bool {
	return a.workspace.TextBoxKey(a.ctx, id, key, shift)
}

func (a *App) DeleteTextBox(id string) bool {
	return a.workspace.DeleteTextBox(a.ctx, id)
}

// ============================================================
// Text-layer edits
// ============================================================

// SpanBlurred records an edited span and returns the key it was stored
// under, or "" when the text did not change.
func (a *App) SpanBlurred(spanID, original, current string) string {
	key, _ := a.workspace.SpanBlurred(a.ctx, spanID, original, current)
	return key
}

func (a *App) SpanKey(spanID, key string) bool {
	return a.workspace.SpanKey(spanID, key)
}

func (a *App) SpanEdits() map[string]string {
	return a.workspace.SpanEdits()
}

// ============================================================
// Navigation and zoom
// ============================================================

func (a *App) GoToPage(n int) domain.PageState {
	return a.workspace.GoToPage(a.ctx, n)
}

func (a *App) NextPage() domain.PageState {
	return a.workspace.NextPage(a.ctx)
}

func (a *App) PrevPage() domain.PageState {
	return a.workspace.PrevPage(a.ctx)
}

func (a *App) ZoomIn() domain.PageState {
	return a.workspace.ZoomIn(a.ctx)
}

func (a *App) ZoomOut() domain.PageState {
	return a.workspace.ZoomOut(a.ctx)
}

func (a *App) SetScale(scale float64) domain.PageState {
	return a.workspace.SetScale(a.ctx, scale)
}

// ============================================================
// Rendering and export
// ============================================================

// GetOverlayImage returns page n's strokes and text boxes as a PNG data URL.
func (a *App) GetOverlayImage(page int) (string, error) {
	return a.workspace.OverlayPNG(page)
}

// ExportDocument reports the placeholder notice; the frontend shows the
// error text to the user.
func (a *App) ExportDocument() error {
	return a.workspace.Export()
}
