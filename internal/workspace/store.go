package workspace

import (
	"sort"

	"pdfmark/internal/domain"
)

// AnnotationStore keeps committed strokes per page in insertion order.
// Returned slices are copies; stored annotations never change after Append.
type AnnotationStore struct {
	pages map[int][]domain.Annotation
}

func NewAnnotationStore() *AnnotationStore {
	return &AnnotationStore{pages: make(map[int][]domain.Annotation)}
}

// Append commits a to the end of its page's sequence.
func (s *AnnotationStore) Append(a domain.Annotation) {
	a.Points = clonePoints(a.Points)
	s.pages[a.Page] = append(s.pages[a.Page], a)
}

// Page returns the annotations of page n in insertion order.
func (s *AnnotationStore) Page(n int) []domain.Annotation {
	src := s.pages[n]
	out := make([]domain.Annotation, len(src))
	for i, a := range src {
		a.Points = clonePoints(a.Points)
		out[i] = a
	}
	return out
}

// ClearPage drops every annotation of page n and returns how many were removed.
func (s *AnnotationStore) ClearPage(n int) int {
	removed := len(s.pages[n])
	delete(s.pages, n)
	return removed
}

// Pages returns the page numbers that hold at least one annotation, ascending.
func (s *AnnotationStore) Pages() []int {
	out := make([]int, 0, len(s.pages))
	for n, list := range s.pages {
		if len(list) > 0 {
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}

// Count returns the total number of annotations across all pages.
func (s *AnnotationStore) Count() int {
	total := 0
	for _, list := range s.pages {
		total += len(list)
	}
	return total
}

// DropPagesAfter removes annotations on pages beyond last. Used when a
// reloaded document shrank.
func (s *AnnotationStore) DropPagesAfter(last int) int {
	removed := 0
	for n, list := range s.pages {
		if n > last {
			removed += len(list)
			delete(s.pages, n)
		}
	}
	return removed
}

// Reset drops every page.
func (s *AnnotationStore) Reset() {
	s.pages = make(map[int][]domain.Annotation)
}

func clonePoints(pts []domain.Point) []domain.Point {
	if pts == nil {
		return nil
	}
	out := make([]domain.Point, len(pts))
	copy(out, pts)
	return out
}
