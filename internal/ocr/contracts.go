// Package ocr turns scanned claim documents into text through the Azure
// Read API. Results keep their page structure because each form page is
// extracted into its own record downstream.
package ocr

import (
	"context"
	"time"
)

// Page holds the recognized lines of one document page in reading order.
type Page struct {
	Lines []string
}

// Result is the full OCR output for a document.
type Result struct {
	Pages    []Page
	Duration time.Duration
}

// Text joins a page's lines with newlines.
func (p Page) Text() string {
	out := ""
	for i, line := range p.Lines {
		if i > 0 {
			out += "\n"
		}
		out += line
	}
	return out
}

// TextExtractor is the first pipeline stage: document file to text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (Result, error)
}
