package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/reposcout/internal/core/domain"
)

// --- Mock implementations of the driven ports ---

// mockFetcher serves canned bodies by page. Pages listed in failing return
// a PageSkippedError, as the real client does after exhausting retries.
type mockFetcher struct {
	mu       sync.Mutex
	maxPages int
	bodies   map[int]string
	failing  map[int]bool
	calls    []int

	// onFetch runs before each fetch, e.g. to cancel a context.
	onFetch func(page int)
}

func (m *mockFetcher) Fetch(ctx context.Context, page int) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, page)
	m.mu.Unlock()

	if m.onFetch != nil {
		m.onFetch(page)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.failing[page] {
		last := &domain.FetchError{Page: page, Attempt: 11, StatusCode: 503}
		return "", &domain.PageSkippedError{Page: page, Attempts: 11, Last: last}
	}
	return m.bodies[page], nil
}

func (m *mockFetcher) MaxPages() int { return m.maxPages }

func (m *mockFetcher) Calls() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.calls...)
}

// lineExtractor treats each line of the body as "name|description".
// A line without a separator has no description.
type lineExtractor struct{}

func (lineExtractor) Extract(document string) []domain.RawResult {
	var raws []domain.RawResult
	for _, line := range strings.Split(strings.TrimSpace(document), "\n") {
		if line == "" {
			continue
		}
		name, desc, ok := strings.Cut(line, "|")
		r := domain.RawResult{HighlightedName: name}
		if ok {
			d := desc
			r.HighlightedDescription = &d
		}
		raws = append(raws, r)
	}
	return raws
}

// passNormaliser keeps results with a description, unchanged.
type passNormaliser struct{}

func (passNormaliser) Normalise(raw []domain.RawResult) []domain.Item {
	var items []domain.Item
	for _, r := range raw {
		if r.HasDescription() {
			items = append(items, domain.Item{Name: r.HighlightedName, Description: *r.HighlightedDescription})
		}
	}
	return items
}

// mockCorpus returns a fixed known set.
type mockCorpus struct {
	known     domain.KnownSet
	err       error
	gotDir    string
	gotCtxErr error
}

func (m *mockCorpus) LoadKnownSet(ctx context.Context, rootDir string) (domain.KnownSet, error) {
	m.gotDir = rootDir
	m.gotCtxErr = ctx.Err()
	if m.err != nil {
		return domain.KnownSet{}, m.err
	}
	return m.known, nil
}

// mockOpener records opened links and fails for the listed ones.
type mockOpener struct {
	opened []string
	fail   map[string]bool
}

func (m *mockOpener) Open(_ context.Context, url string) error {
	if m.fail[url] {
		return fmt.Errorf("open %s: %w", url, errors.New("no handler"))
	}
	m.opened = append(m.opened, url)
	return nil
}

// waitRecorder records pacing waits without sleeping.
type waitRecorder struct {
	delays []time.Duration
	err    error
}

func (w *waitRecorder) wait(ctx context.Context, d time.Duration) error {
	w.delays = append(w.delays, d)
	if w.err != nil {
		return w.err
	}
	return ctx.Err()
}
