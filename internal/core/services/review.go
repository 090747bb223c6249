package services

import (
	"context"

	"github.com/custodia-labs/reposcout/internal/core/domain"
	"github.com/custodia-labs/reposcout/internal/core/ports/driven"
	"github.com/custodia-labs/reposcout/internal/core/ports/driving"
	"github.com/custodia-labs/reposcout/internal/logger"
)

// Ensure ReviewService implements the interface.
var _ driving.ReviewService = (*ReviewService)(nil)

// ReviewService splits new items into batches and opens them in the browser.
type ReviewService struct {
	opener   driven.BrowserOpener
	settings domain.ReviewSettings
}

// NewReviewService creates a review service.
// The opener may be nil, in which case nothing is ever opened.
func NewReviewService(opener driven.BrowserOpener, settings domain.ReviewSettings) *ReviewService {
	return &ReviewService{
		opener:   opener,
		settings: settings,
	}
}

// Plan returns a single batch when there are at most OpenAllThreshold items,
// and batches of BatchSize otherwise.
func (s *ReviewService) Plan(items []domain.Item) *domain.BatchIterator {
	if len(items) <= s.settings.OpenAllThreshold {
		return domain.NewBatchIterator(items, 0)
	}
	return domain.NewBatchIterator(items, s.settings.BatchSize)
}

// Open opens every item of the batch. Failures are logged and counted;
// opening stops early if ctx is done.
func (s *ReviewService) Open(ctx context.Context, batch domain.Batch) domain.OpenSummary {
	var summary domain.OpenSummary
	if s.opener == nil {
		return summary
	}

	for _, item := range batch.Items {
		if ctx.Err() != nil {
			break
		}
		if err := s.opener.Open(ctx, item.Link()); err != nil {
			logger.Warn("failed to open %s: %v", item.Link(), err)
			summary.Failed++
			continue
		}
		logger.Debug("opened %s", item.Link())
		summary.Opened++
	}
	return summary
}

// CanOpen reports whether a browser opener is configured.
func (s *ReviewService) CanOpen() bool {
	return s.opener != nil
}
