package document_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pdfmark/internal/document"
	"pdfmark/internal/document/pdftest"
)

func TestOpen(t *testing.T) {
	data := pdftest.Minimal([2]int{595, 842}, [2]int{612, 792})
	doc, err := document.Open("two.pdf", data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if doc.PageCount() != 2 {
		t.Fatalf("PageCount = %d, want 2", doc.PageCount())
	}
	if ps := doc.PageSize(2); ps.Width != 612 || ps.Height != 792 {
		t.Errorf("page 2 size = %+v", ps)
	}
	if ps := doc.PageSize(3); ps.Width != 0 {
		t.Errorf("out of range page should have zero size, got %+v", ps)
	}
	info := doc.Info()
	if info.Name != "two.pdf" || info.SizeBytes != len(data) || len(info.Pages) != 2 {
		t.Errorf("unexpected info %+v", info)
	}

	spans, ok := doc.Spans(1)
	for _, s := range spans {
		if !strings.HasPrefix(s.ID, "p1-") {
			t.Errorf("span id %q should carry the page prefix", s.ID)
		}
	}
	again, ok2 := doc.Spans(1)
	if ok != ok2 || len(spans) != len(again) {
		t.Error("span extraction should be cached")
	}
	if _, ok := doc.Spans(0); ok {
		t.Error("page 0 has no spans")
	}
}

func TestOpen_Malformed(t *testing.T) {
	_, err := document.Open("junk.pdf", []byte("%PDF-1.4\nthis is not a pdf"))
	if !errors.Is(err, document.ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, pdftest.Minimal([2]int{300, 400}), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	doc, err := document.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if doc.Name() != "doc.pdf" || doc.Path() != path {
		t.Errorf("name=%q path=%q", doc.Name(), doc.Path())
	}
	if _, err := document.OpenFile(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("missing file should fail")
	}
}
