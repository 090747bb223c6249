package driven

import "context"

// PageFetcher retrieves one page of search results.
type PageFetcher interface {
	// Fetch returns the page body. Transient failures are retried
	// internally; once retries are exhausted the returned error satisfies
	// domain.IsPageSkipped.
	Fetch(ctx context.Context, page int) (string, error)

	// MaxPages returns the highest page number the source serves.
	MaxPages() int
}
