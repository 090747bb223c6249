package driving

import (
	"context"

	"github.com/custodia-labs/reposcout/internal/core/domain"
)

// DiscoveryService runs the fetch, normalise and dedup pipeline.
type DiscoveryService interface {
	// Discover walks the configured page range and returns the new items.
	// Page failures are recorded in the report, never returned. On
	// cancellation the partial report is returned together with ctx.Err().
	Discover(ctx context.Context, opts domain.DiscoverOptions) (*domain.Report, error)

	// KnownSet loads the corpus on its own, for inspection.
	KnownSet(ctx context.Context) (domain.KnownSet, error)
}
