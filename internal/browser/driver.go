// Package browser wraps the automation driver behind a small interface so
// the form-fill logic stays testable without a live browser.
package browser

import (
	"context"
	"time"
)

// Driver is the subset of browser automation the form filler needs. All
// selectors are XPath or CSS strings as the underlying engine accepts them.
type Driver interface {
	// Navigate loads a URL and waits for the network to settle.
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	// WaitForURL blocks until the page reaches the given URL.
	WaitForURL(ctx context.Context, url string, timeout time.Duration) error
	Click(ctx context.Context, selector string) error
	// ClickAt clicks at an offset inside the element, used for segmented
	// date inputs.
	ClickAt(ctx context.Context, selector string, x, y float64) error
	Fill(ctx context.Context, selector, text string) error
	// TypeSlow types text one character at a time with a fixed delay,
	// letting autocomplete widgets keep up.
	TypeSlow(ctx context.Context, selector, text string, perKey time.Duration) error
	Press(ctx context.Context, selector, key string) error
	// WaitVisible reports whether the element became visible in time.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) bool
	// Texts returns the inner text of every element matching selector.
	Texts(ctx context.Context, selector string) ([]string, error)
	// SetInputFiles attaches a local file to a file input.
	SetInputFiles(ctx context.Context, selector, path string) error
	Sleep(ctx context.Context, d time.Duration)
	Close() error
}
