package driving

import (
	"context"

	"github.com/custodia-labs/reposcout/internal/core/domain"
)

// ReviewService presents discovered items to a human.
// This is used by the TUI and the plain CLI presenter.
type ReviewService interface {
	// Plan returns an iterator over the batches to present.
	Plan(items []domain.Item) *domain.BatchIterator

	// Open opens every item of the batch in the browser.
	Open(ctx context.Context, batch domain.Batch) domain.OpenSummary

	// CanOpen reports whether a browser opener is configured.
	CanOpen() bool
}
