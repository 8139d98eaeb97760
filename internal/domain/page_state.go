package domain

// PageState represents the complete state of the visible page for rendering.
// Returned to the frontend after every workspace mutation.
type PageState struct {
	Document       *DocumentInfo  `json:"document,omitempty"`
	Page           int            `json:"page"`
	TotalPages     int            `json:"totalPages"`
	Scale          float64        `json:"scale"`
	Tool           Tool           `json:"tool"`
	HighlightColor HighlightColor `json:"highlightColor"`
	PageSize       PageSize       `json:"pageSize"`
	Annotations    []Annotation   `json:"annotations"`
	TextBoxes      []TextBox      `json:"textBoxes"`
	EditingID      string         `json:"editingId,omitempty"`
	SpanEdits      int            `json:"spanEdits"`
	Drawing        bool           `json:"drawing"`
}
