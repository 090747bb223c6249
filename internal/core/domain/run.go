package domain

import (
	"context"
	"time"
)

// RunState is a step in the discovery state machine.
type RunState int

const (
	// RunIdle is the state before the first page.
	RunIdle RunState = iota

	// RunFetching is the state while pages are being fetched.
	RunFetching

	// RunAggregated is reached once every page has been attempted.
	RunAggregated

	// RunDeduplicated is reached once the known set has been applied.
	RunDeduplicated

	// RunDone is the only terminal state.
	RunDone
)

// String returns the state name.
func (s RunState) String() string {
	switch s {
	case RunIdle:
		return "idle"
	case RunFetching:
		return "fetching"
	case RunAggregated:
		return "aggregated"
	case RunDeduplicated:
		return "deduplicated"
	case RunDone:
		return "done"
	default:
		return "unknown"
	}
}

// PageStatus describes how a page attempt cycle ended.
type PageStatus string

const (
	// PageFetched means the page was fetched and yielded at least one item.
	PageFetched PageStatus = "fetched"

	// PageEmpty means the page was fetched but yielded no usable items.
	PageEmpty PageStatus = "empty"

	// PageSkipped means every attempt to fetch the page failed.
	PageSkipped PageStatus = "skipped"
)

// PageOutcome records the result of one page.
type PageOutcome struct {
	Page   int
	Status PageStatus
	Items  int
	Err    error
}

// Report is the outcome of a discovery run.
type Report struct {
	// RunID identifies the run in logs.
	RunID string

	// Query is the search term used.
	Query string

	// Pages holds one outcome per attempted page, in order.
	Pages []PageOutcome

	// Collected is the number of normalised items across all pages.
	Collected int

	// Known is the size of the known set.
	Known int

	// Items are the new items, in discovery order.
	Items []Item

	// Interrupted is set when the run stopped early on cancellation.
	Interrupted bool

	StartedAt  time.Time
	FinishedAt time.Time
}

// Skipped returns the pages that exhausted their retries.
func (r *Report) Skipped() []int {
	var pages []int
	for _, p := range r.Pages {
		if p.Status == PageSkipped {
			pages = append(pages, p.Page)
		}
	}
	return pages
}

// Duration returns the wall-clock duration of the run.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// DiscoverOptions narrows a single run. Zero values fall back to settings.
type DiscoverOptions struct {
	// FirstPage is the first page to fetch (one-based).
	FirstPage int

	// LastPage is the last page to fetch, inclusive.
	LastPage int
}

// Sleep waits for d, returning early with ctx.Err() if ctx is done.
// It is the default wait for both retry and page pacing.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
