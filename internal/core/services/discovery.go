package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/reposcout/internal/core/domain"
	"github.com/custodia-labs/reposcout/internal/core/ports/driven"
	"github.com/custodia-labs/reposcout/internal/core/ports/driving"
	"github.com/custodia-labs/reposcout/internal/logger"
)

// Ensure DiscoveryService implements the interface.
var _ driving.DiscoveryService = (*DiscoveryService)(nil)

// DiscoveryConfig holds the run parameters not owned by a port.
type DiscoveryConfig struct {
	// Query is reported in the run summary.
	Query string

	// CorpusDir is the root of the curated dataset.
	CorpusDir string

	// PageDelay is the pacing wait after every page except the last.
	PageDelay time.Duration
}

// DiscoveryService walks the search pages, cleans the results and removes
// repositories already in the corpus.
type DiscoveryService struct {
	fetcher    driven.PageFetcher
	extractor  driven.ResultExtractor
	normaliser driven.ResultNormaliser
	corpus     driven.CorpusLoader
	config     DiscoveryConfig

	// wait is the pacing wait; replaced in tests.
	wait func(ctx context.Context, d time.Duration) error
	now  func() time.Time
}

// DiscoveryOption configures a DiscoveryService.
type DiscoveryOption func(*DiscoveryService)

// WithPageWait replaces the pacing wait between pages.
func WithPageWait(wait func(ctx context.Context, d time.Duration) error) DiscoveryOption {
	return func(s *DiscoveryService) {
		s.wait = wait
	}
}

// WithClock replaces the clock used for report timestamps.
func WithClock(now func() time.Time) DiscoveryOption {
	return func(s *DiscoveryService) {
		s.now = now
	}
}

// NewDiscoveryService creates a new discovery service.
func NewDiscoveryService(
	fetcher driven.PageFetcher,
	extractor driven.ResultExtractor,
	normaliser driven.ResultNormaliser,
	corpus driven.CorpusLoader,
	config DiscoveryConfig,
	opts ...DiscoveryOption,
) *DiscoveryService {
	s := &DiscoveryService{
		fetcher:    fetcher,
		extractor:  extractor,
		normaliser: normaliser,
		corpus:     corpus,
		config:     config,
		wait:       domain.Sleep,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Discover fetches pages FirstPage..LastPage one at a time, then removes
// repeats and known repositories from what was collected.
//
// A page that exhausts its retries is recorded and skipped. On
// cancellation the service stops fetching, still deduplicates the items
// collected so far, and returns the partial report together with ctx.Err().
func (s *DiscoveryService) Discover(ctx context.Context, opts domain.DiscoverOptions) (*domain.Report, error) {
	first, last, err := s.pageRange(opts)
	if err != nil {
		return nil, err
	}

	report := &domain.Report{
		RunID:     uuid.NewString(),
		Query:     s.config.Query,
		StartedAt: s.now(),
	}
	s.transition(report, domain.RunIdle)

	var collected []domain.Item
	for page := first; page <= last; page++ {
		if ctx.Err() != nil {
			report.Interrupted = true
			break
		}
		if page == first {
			s.transition(report, domain.RunFetching)
		}

		outcome, items := s.fetchPage(ctx, page, last)
		if ctx.Err() != nil {
			report.Interrupted = true
			break
		}
		report.Pages = append(report.Pages, outcome)
		collected = append(collected, items...)

		if page < last {
			if err := s.wait(ctx, s.config.PageDelay); err != nil {
				report.Interrupted = true
				break
			}
		}
	}

	report.Collected = len(collected)
	s.transition(report, domain.RunAggregated)
	logger.Info("total items collected: %d", report.Collected)

	loadCtx := ctx
	if report.Interrupted {
		loadCtx = context.WithoutCancel(ctx)
	}
	known, err := s.corpus.LoadKnownSet(loadCtx, s.config.CorpusDir)
	if err != nil {
		report.Interrupted = true
		report.FinishedAt = s.now()
		return report, err
	}
	report.Known = known.Len()
	logger.Debug("known set: %d repositories", report.Known)

	report.Items = Dedup(Unique(collected), known)
	s.transition(report, domain.RunDeduplicated)

	report.FinishedAt = s.now()
	s.transition(report, domain.RunDone)

	if report.Interrupted {
		return report, ctx.Err()
	}
	return report, nil
}

// KnownSet loads the corpus on its own.
func (s *DiscoveryService) KnownSet(ctx context.Context) (domain.KnownSet, error) {
	return s.corpus.LoadKnownSet(ctx, s.config.CorpusDir)
}

// fetchPage runs one page through fetch, extract and normalise.
func (s *DiscoveryService) fetchPage(ctx context.Context, page, last int) (domain.PageOutcome, []domain.Item) {
	logger.Info("fetching page %d/%d", page, last)

	body, err := s.fetcher.Fetch(ctx, page)
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn("skipping page %d: %v", page, err)
		}
		return domain.PageOutcome{Page: page, Status: domain.PageSkipped, Err: err}, nil
	}

	items := s.normaliser.Normalise(s.extractor.Extract(body))
	logger.Info("page %d: found %d valid items", page, len(items))

	status := domain.PageFetched
	if len(items) == 0 {
		status = domain.PageEmpty
	}
	return domain.PageOutcome{Page: page, Status: status, Items: len(items)}, items
}

// pageRange resolves the run's page bounds against the source limit.
func (s *DiscoveryService) pageRange(opts domain.DiscoverOptions) (int, int, error) {
	maxPages := s.fetcher.MaxPages()
	first := max(opts.FirstPage, 1)
	last := opts.LastPage
	if last < 1 || last > maxPages {
		last = maxPages
	}
	if first > last {
		return 0, 0, fmt.Errorf("%w: first page %d is after last page %d", domain.ErrInvalidInput, first, last)
	}
	return first, last, nil
}

func (s *DiscoveryService) transition(report *domain.Report, state domain.RunState) {
	logger.Debug("run %s: %s", report.RunID, state)
}
