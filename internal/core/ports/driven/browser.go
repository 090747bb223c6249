package driven

import "context"

// BrowserOpener opens a link in the user's browser.
type BrowserOpener interface {
	Open(ctx context.Context, url string) error
}
