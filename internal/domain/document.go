package domain

// Default page geometry (A4 in PDF points) used until a document reports its
// own page sizes.
const (
	DefaultPageWidth  = 595.0
	DefaultPageHeight = 842.0
)

type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TextSpan is one run of text laid out by the renderer, in the page frame.
// ID is stable across renders of the same page; it may be empty when the
// renderer could not assign one.
type TextSpan struct {
	ID    string  `json:"id"`
	Index int     `json:"index"`
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
}

// DocumentInfo summarises an opened document for the frontend.
type DocumentInfo struct {
	Name      string     `json:"name"`
	Path      string     `json:"path,omitempty"`
	PageCount int        `json:"pageCount"`
	Pages     []PageSize `json:"pages"`
	SizeBytes int        `json:"sizeBytes"`
}
