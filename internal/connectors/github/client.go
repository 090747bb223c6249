package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/reposcout/internal/core/domain"
	"github.com/custodia-labs/reposcout/internal/core/ports/driven"
	"github.com/custodia-labs/reposcout/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxRetries is the default number of retries after a failed attempt.
	MaxRetries = 10

	// RetryDelay is the fixed delay between attempts.
	RetryDelay = 5 * time.Second
)

// Ensure Client implements the interface.
var _ driven.PageFetcher = (*Client)(nil)

// WaitFunc blocks for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Client fetches search result pages one at a time.
type Client struct {
	config      SearchConfig
	httpClient  *http.Client
	rateLimiter *RateLimiter
	wait        WaitFunc
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithWaitFunc replaces the wait used between retry attempts.
func WithWaitFunc(w WaitFunc) Option {
	return func(c *Client) {
		c.wait = w
	}
}

// NewClient creates a search client.
// In API mode with a token, requests carry it as a bearer token.
func NewClient(cfg SearchConfig, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		config:      cfg,
		rateLimiter: NewRateLimiter(cfg.RequestsPerSecond),
		wait:        domain.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = newHTTPClient(cfg)
	}
	return c
}

// newHTTPClient builds the default http.Client for the mode.
func newHTTPClient(cfg SearchConfig) *http.Client {
	if cfg.Mode == domain.SourceModeAPI && cfg.Token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: cfg.Token},
		)
		tc := oauth2.NewClient(context.Background(), ts)
		tc.Timeout = cfg.Timeout
		return tc
	}
	return &http.Client{Timeout: cfg.Timeout}
}

// MaxPages returns the highest page the source serves.
func (c *Client) MaxPages() int {
	return c.config.LastPage()
}

// Fetch retrieves one results page, retrying failed attempts up to
// MaxRetries times with a fixed RetryDelay in between. When every attempt
// fails it returns a *domain.PageSkippedError.
func (c *Client) Fetch(ctx context.Context, page int) (string, error) {
	pageURL, err := c.config.PageURL(page)
	if err != nil {
		return "", err
	}

	attempts := c.config.MaxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		body, err := c.fetchOnce(ctx, pageURL, page, attempt)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		var fetchErr *domain.FetchError
		if errors.As(err, &fetchErr) && !fetchErr.Temporary() {
			return "", err
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		logger.Warn("page %d failed, retrying in %s (attempt %d/%d): %v",
			page, c.config.RetryDelay, attempt, c.config.MaxRetries, err)
		if err := c.wait(ctx, c.config.RetryDelay); err != nil {
			return "", err
		}
	}

	logger.Error("page %d failed after %d retries: %v", page, c.config.MaxRetries, lastErr)
	if h := hint(lastErr); h != "" {
		logger.Warn("page %d: %s", page, h)
	}
	if IsRateLimited(lastErr) {
		logger.Debug("rate limit %d/%d remaining, resets at %s",
			c.rateLimiter.Remaining(), c.rateLimiter.Limit(), c.rateLimiter.ResetTime().Format(time.RFC3339))
	}
	return "", &domain.PageSkippedError{Page: page, Attempts: attempts, Last: lastErr}
}

// fetchOnce performs a single GET and returns the body of a 2xx response.
func (c *Client) fetchOnce(ctx context.Context, pageURL string, page, attempt int) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &domain.FetchError{Page: page, Attempt: attempt, Err: err}
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", c.config.accept())

	logger.Debug("GET %s (attempt %d)", pageURL, attempt)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.FetchError{Page: page, Attempt: attempt, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.rateLimiter.UpdateFromResponse(resp)

	body, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &domain.FetchError{
			Page:       page,
			Attempt:    attempt,
			StatusCode: resp.StatusCode,
			Err:        c.responseError(resp, body),
		}
	}

	if readErr != nil {
		return "", &domain.FetchError{
			Page:    page,
			Attempt: attempt,
			Err:     fmt.Errorf("read body: %w", readErr),
		}
	}

	return string(body), nil
}
