package workspace

import (
	"fmt"

	"pdfmark/internal/domain"
)

// TextBoxLayer holds every text box of the document in creation order and
// tracks the single box currently in edit mode.
type TextBoxLayer struct {
	boxes     []domain.TextBox
	editingID string
	draft     string
	hasDraft  bool
	newID     func() string
}

func NewTextBoxLayer(newID func() string) *TextBoxLayer {
	return &TextBoxLayer{newID: newID}
}

// Place creates a placeholder box at p on page and puts it in edit mode.
// A box already being edited is finalized first.
func (l *TextBoxLayer) Place(p domain.Point, page int) domain.TextBox {
	l.finalize()
	b := domain.TextBox{
		ID:       l.newID(),
		Page:     page,
		X:        p.X,
		Y:        p.Y,
		Text:     domain.TextBoxPlaceholder,
		FontSize: domain.TextBoxFontSize,
		Color:    domain.TextBoxColor,
	}
	l.boxes = append(l.boxes, b)
	l.editingID = b.ID
	return b
}

// BeginEdit moves edit mode to id, committing the previous editor's pending
// draft as if it had lost focus.
func (l *TextBoxLayer) BeginEdit(id string) error {
	if l.index(id) < 0 {
		return fmt.Errorf("text box %s not found", id)
	}
	if l.editingID == id {
		return nil
	}
	l.finalize()
	l.editingID = id
	return nil
}

// UpdateDraft records uncommitted keystrokes for the box in edit mode.
// Drafts for any other box are stale and ignored.
func (l *TextBoxLayer) UpdateDraft(id, text string) bool {
	if id == "" || id != l.editingID {
		return false
	}
	l.draft = text
	l.hasDraft = true
	return true
}

// CommitEdit stores text on box id when it differs from the stored value.
// Edit mode always ends, even when id is not the box being edited.
func (l *TextBoxLayer) CommitEdit(id, text string) bool {
	l.editingID = ""
	l.draft, l.hasDraft = "", false
	i := l.index(id)
	if i < 0 || l.boxes[i].Text == text {
		return false
	}
	l.boxes[i].Text = text
	return true
}

// Key applies the editor keyboard policy: Enter without Shift commits the
// pending draft and leaves edit mode. It reports whether the key was consumed.
func (l *TextBoxLayer) Key(id, key string, shift bool) bool {
	if key != "Enter" || shift || id != l.editingID || id == "" {
		return false
	}
	l.finalize()
	return true
}

// Delete removes box id.
func (l *TextBoxLayer) Delete(id string) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.boxes = append(l.boxes[:i], l.boxes[i+1:]...)
	if l.editingID == id {
		l.editingID = ""
		l.draft, l.hasDraft = "", false
	}
	return true
}

// Visible returns the boxes anchored to page in creation order.
func (l *TextBoxLayer) Visible(page int) []domain.TextBox {
	out := []domain.TextBox{}
	for _, b := range l.boxes {
		if b.Page == page {
			out = append(out, b)
		}
	}
	return out
}

// All returns every box regardless of page.
func (l *TextBoxLayer) All() []domain.TextBox {
	out := make([]domain.TextBox, len(l.boxes))
	copy(out, l.boxes)
	return out
}

// Get returns the box with id on any page.
func (l *TextBoxLayer) Get(id string) (domain.TextBox, bool) {
	i := l.index(id)
	if i < 0 {
		return domain.TextBox{}, false
	}
	return l.boxes[i], true
}

// EditingID returns the box in edit mode, or "".
func (l *TextBoxLayer) EditingID() string {
	return l.editingID
}

// DropPagesAfter removes boxes on pages beyond last.
func (l *TextBoxLayer) DropPagesAfter(last int) int {
	kept := l.boxes[:0]
	removed := 0
	for _, b := range l.boxes {
		if b.Page > last {
			removed++
			if b.ID == l.editingID {
				l.editingID = ""
				l.draft, l.hasDraft = "", false
			}
			continue
		}
		kept = append(kept, b)
	}
	l.boxes = kept
	return removed
}

func (l *TextBoxLayer) Reset() {
	l.boxes = nil
	l.editingID = ""
	l.draft, l.hasDraft = "", false
}

// finalize ends edit mode, committing a pending draft if there is one.
func (l *TextBoxLayer) finalize() {
	if l.editingID == "" {
		return
	}
	if l.hasDraft {
		l.CommitEdit(l.editingID, l.draft)
		return
	}
	l.editingID = ""
}

func (l *TextBoxLayer) index(id string) int {
	for i, b := range l.boxes {
		if b.ID == id {
			return i
		}
	}
	return -1
}
