package driven

import (
	"context"

	"github.com/custodia-labs/reposcout/internal/core/domain"
)

// CorpusLoader reads the curated dataset and returns the known set.
// Unreadable files are skipped; the only error is context cancellation.
type CorpusLoader interface {
	LoadKnownSet(ctx context.Context, rootDir string) (domain.KnownSet, error)
}
