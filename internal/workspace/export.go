package workspace

import (
	"errors"
	"fmt"
	"math"

	"pdfmark/internal/domain"
)

// ErrExportUnimplemented is returned by Export: merging the overlay into the
// document bytes is not supported.
var ErrExportUnimplemented = errors.New("saving annotations and text edits into the PDF is not implemented yet")

// Export would write the annotated document. It currently only reports the
// placeholder notice.
func (w *Workspace) Export() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.doc == nil {
		return ErrNoDocument
	}
	return ErrExportUnimplemented
}

// RenderOverlay rasterizes page's annotations and text boxes at the current
// scale. Page 0 or the current page copies the live surface, so a stroke
// still being drawn is included; other pages are replayed from the store
// onto a fresh transparent surface.
func (w *Workspace) RenderOverlay(page int) (*RasterSurface, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.doc == nil {
		return nil, ErrNoDocument
	}
	if page == 0 {
		page = w.page
	}
	if page < 1 || page > w.totalLocked() {
		return nil, fmt.Errorf("page %d out of range 1..%d", page, w.totalLocked())
	}

	var rs *RasterSurface
	if live, ok := w.surface.(*RasterSurface); ok && page == w.page {
		rs = live.Clone()
	} else {
		ps := w.doc.PageSize(page)
		if ps.Width <= 0 || ps.Height <= 0 {
			ps = domain.PageSize{Width: domain.DefaultPageWidth, Height: domain.DefaultPageHeight}
		}
		rs = NewRasterSurface(int(math.Ceil(ps.Width*w.scale)), int(math.Ceil(ps.Height*w.scale)))
		for _, a := range w.store.Page(page) {
			replay(rs, a, w.scale)
		}
	}
	for _, b := range w.boxes.Visible(page) {
		at := domain.Point{X: b.X, Y: b.Y}.Scale(w.scale)
		if err := rs.DrawText(b.Text, at, b.FontSize*w.scale, b.Color); err != nil {
			return nil, fmt.Errorf("draw text box %s: %w", b.ID, err)
		}
	}
	return rs, nil
}
