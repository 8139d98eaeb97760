package document

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"pdfmark/internal/domain"
)

// ErrMalformed is returned when the bytes are not a readable PDF.
var ErrMalformed = errors.New("malformed pdf")

func init() {
	// Page counting and validation never need pdfcpu's user config or fonts.
	api.DisableConfigDir()
}

// Document is an opened PDF: page geometry from pdfcpu, text spans from
// ledongthuc/pdf, extracted lazily per page and cached.
type Document struct {
	name string
	path string
	data []byte
	dims []domain.PageSize

	mu     sync.Mutex
	reader *pdf.Reader
	spans  map[int][]domain.TextSpan
}

// Open validates data and reads its page geometry.
func Open(name string, data []byte) (*Document, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	count, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: page count: %v", ErrMalformed, err)
	}
	pageDims, err := api.PageDims(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: page dims: %v", ErrMalformed, err)
	}

	dims := make([]domain.PageSize, count)
	for i := range dims {
		dims[i] = domain.PageSize{Width: domain.DefaultPageWidth, Height: domain.DefaultPageHeight}
		if i < len(pageDims) && pageDims[i].Width > 0 && pageDims[i].Height > 0 {
			dims[i] = domain.PageSize{Width: pageDims[i].Width, Height: pageDims[i].Height}
		}
	}

	return &Document{
		name:  name,
		data:  data,
		dims:  dims,
		spans: make(map[int][]domain.TextSpan),
	}, nil
}

// OpenFile reads and opens the PDF at path.
func OpenFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	return OpenAt(path, data)
}

// OpenAt opens data that was read from path, e.g. after a change on disk.
func OpenAt(path string, data []byte) (*Document, error) {
	doc, err := Open(filepath.Base(path), data)
	if err != nil {
		return nil, err
	}
	doc.path = path
	return doc, nil
}

func (d *Document) Name() string { return d.name }

func (d *Document) Path() string { return d.path }

func (d *Document) Bytes() []byte { return d.data }

func (d *Document) PageCount() int { return len(d.dims) }

// PageSize returns the size of page n (1-based), or the zero size when n is
// out of range.
func (d *Document) PageSize(n int) domain.PageSize {
	if n < 1 || n > len(d.dims) {
		return domain.PageSize{}
	}
	return d.dims[n-1]
}

func (d *Document) Info() domain.DocumentInfo {
	pages := make([]domain.PageSize, len(d.dims))
	copy(pages, d.dims)
	return domain.DocumentInfo{
		Name:      d.name,
		Path:      d.path,
		PageCount: len(d.dims),
		Pages:     pages,
		SizeBytes: len(d.data),
	}
}

// Spans returns the text spans of page n. ok is false when the page has no
// extractable text layer.
func (d *Document) Spans(n int) ([]domain.TextSpan, bool) {
	if n < 1 || n > len(d.dims) {
		return nil, false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if s, ok := d.spans[n]; ok {
		return s, s != nil
	}
	s, err := d.extractLocked(n)
	if err != nil {
		log.Printf("[document] spans page %d of %s: %v", n, d.name, err)
	}
	d.spans[n] = s
	return s, s != nil
}

func (d *Document) extractLocked(n int) (spans []domain.TextSpan, err error) {
	defer func() {
		if r := recover(); r != nil {
			spans, err = nil, fmt.Errorf("extract text: %v", r)
		}
	}()
	if d.reader == nil {
		r, err := pdf.NewReader(bytes.NewReader(d.data), int64(len(d.data)))
		if err != nil {
			return nil, fmt.Errorf("open text reader: %w", err)
		}
		d.reader = r
	}
	p := d.reader.Page(n)
	if p.V.IsNull() {
		return nil, nil
	}
	content := p.Content()
	glyphs := make([]Glyph, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, Glyph{Font: t.Font, Size: t.FontSize, X: t.X, Y: t.Y, W: t.W, S: t.S})
	}
	return GroupGlyphs(n, d.dims[n-1].Height, glyphs), nil
}
