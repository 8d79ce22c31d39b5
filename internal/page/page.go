// Package page defines the interactive-page capability the application core
// depends on, and a chromedp-backed implementation of it. The core never
// talks to a browser directly; everything goes through the Page interface so
// tests can substitute a scripted fake.
package page

import (
	"context"

	"github.com/seeker-agent/seeker/internal/classify"
)

// Page is the capability surface consumed by the application state machine.
//
// Fields returns a snapshot of every interactive element with a best-effort
// resolved label. Label resolution follows a fixed fallback chain, first
// non-empty wins, never combined:
//
//  1. a label element bound to the field's id (label[for])
//  2. the nearest enclosing label's text with the field's own value stripped
//  3. the aria-label attribute
//  4. the text of an immediately preceding label or span sibling
//
// Implementations must preserve this order exactly; the classifier's rule
// table is written against it.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Fields(ctx context.Context) ([]*classify.FieldDescriptor, error)
	Fill(ctx context.Context, selector, value string) error
	SelectOption(ctx context.Context, selector, value string) error
	Check(ctx context.Context, selector string) error
	Click(ctx context.Context, selector string) error
	UploadFile(ctx context.Context, selector, path string) error
	Text(ctx context.Context) (string, error)
	URL(ctx context.Context) (string, error)
	Screenshot(ctx context.Context, path string) error
	Close() error
}
