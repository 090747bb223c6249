package driven

import "github.com/custodia-labs/reposcout/internal/core/domain"

// ResultExtractor pulls raw search results out of a fetched page body.
// It never fails: an absent or malformed payload yields no results.
type ResultExtractor interface {
	Extract(document string) []domain.RawResult
}
