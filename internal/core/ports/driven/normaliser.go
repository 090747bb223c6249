package driven

import "github.com/custodia-labs/reposcout/internal/core/domain"

// ResultNormaliser cleans raw results into canonical items.
// Implementations must be pure: the same input always yields the same output.
type ResultNormaliser interface {
	Normalise(raw []domain.RawResult) []domain.Item
}
