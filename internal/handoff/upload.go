package handoff

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// DefaultMaxUpload is the largest document accepted from the upload screen.
const DefaultMaxUpload = 50 << 20

var (
	ErrEmpty    = errors.New("file is empty")
	ErrNotPDF   = errors.New("please upload a PDF file")
	ErrTooLarge = errors.New("file is too large")
)

// ValidateUpload checks that data looks like a PDF and fits in max bytes.
// max <= 0 means DefaultMaxUpload.
func ValidateUpload(name string, data []byte, max int64) error {
	if max <= 0 {
		max = DefaultMaxUpload
	}
	if len(data) == 0 {
		return fmt.Errorf("%s: %w", name, ErrEmpty)
	}
	if int64(len(data)) > max {
		return fmt.Errorf("%s is %s, limit is %s: %w", name, humanSize(int64(len(data))), humanSize(max), ErrTooLarge)
	}
	if ct := http.DetectContentType(data); ct != "application/pdf" && !bytes.HasPrefix(data, []byte("%PDF-")) {
		return fmt.Errorf("%s (%s): %w", name, strings.SplitN(ct, ";", 2)[0], ErrNotPDF)
	}
	return nil
}

func humanSize(n int64) string {
	const mb = 1 << 20
	if n >= mb {
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	}
	return fmt.Sprintf("%d bytes", n)
}
