package domain

const (
	TextBoxPlaceholder = "Click to edit"
	TextBoxFontSize    = 16.0
	TextBoxColor       = "#000000"
)

// TextBox is a floating label anchored to one page. X and Y are in the
// zoom-normalized page frame.
type TextBox struct {
	ID       string  `json:"id"`
	Page     int     `json:"page"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     string  `json:"text"`
	FontSize float64 `json:"fontSize"`
	Color    string  `json:"color"`
}
