package match

import (
	"context"
	"time"
)

// Control abstracts one live dropdown widget. Implementations wrap the real
// browser driver; tests substitute an in-memory fake. Sleep is on the
// interface so fakes can skip the fixed settle waits.
type Control interface {
	// Focus clicks into the input.
	Focus(ctx context.Context) error
	// TypeText clears the input and types text.
	TypeText(ctx context.Context, text string) error
	// OpenList opens the option list via the arrow button.
	OpenList(ctx context.Context) error
	// VisibleOptions returns the option texts currently shown, or an empty
	// slice when no list is visible.
	VisibleOptions(ctx context.Context) ([]string, error)
	PressArrowDown(ctx context.Context) error
	PressEnter(ctx context.Context) error
	PressTab(ctx context.Context) error
	Sleep(ctx context.Context, d time.Duration)
}
