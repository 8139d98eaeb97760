package handoff_test

import (
	"bytes"
	"errors"
	"testing"

	"pdfmark/internal/handoff"
)

func TestValidateUpload(t *testing.T) {
	pdf := []byte("%PDF-1.7\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n")
	tests := []struct {
		name    string
		data    []byte
		max     int64
		wantErr error
	}{
		{"valid pdf", pdf, 0, nil},
		{"empty", nil, 0, handoff.ErrEmpty},
		{"png", []byte("\x89PNG\r\n\x1a\n0000"), 0, handoff.ErrNotPDF},
		{"plain text", []byte("hello world"), 0, handoff.ErrNotPDF},
		{"over limit", pdf, 10, handoff.ErrTooLarge},
		{"exactly at limit", pdf, int64(len(pdf)), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := handoff.ValidateUpload("doc.pdf", tt.data, tt.max)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUpload_DefaultLimit(t *testing.T) {
	big := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte{' '}, handoff.DefaultMaxUpload)...)
	if err := handoff.ValidateUpload("big.pdf", big, 0); !errors.Is(err, handoff.ErrTooLarge) {
		t.Errorf("expected ErrTooLarge over 50MB, got %v", err)
	}
}

func TestSlot_ReadOnce(t *testing.T) {
	var s handoff.Slot
	if _, ok := s.Take(); ok {
		t.Fatal("empty slot should have nothing to take")
	}

	s.Put(handoff.Payload{Name: "a.pdf", Data: []byte("a")})
	s.Put(handoff.Payload{Name: "b.pdf", Data: []byte("b")})
	if !s.Pending() {
		t.Fatal("slot should be pending after Put")
	}

	p, ok := s.Take()
	if !ok || p.Name != "b.pdf" || p.Uploaded.IsZero() {
		t.Fatalf("Take = %+v, %v; want latest payload", p, ok)
	}
	if _, ok := s.Take(); ok {
		t.Error("second Take must find the slot empty")
	}

	s.Put(handoff.Payload{Name: "c.pdf"})
	s.Discard()
	if s.Pending() {
		t.Error("Discard should empty the slot")
	}
}
