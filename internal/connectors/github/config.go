package github

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/reposcout/internal/core/domain"
)

// APIResultLimit is the number of results the REST search endpoint serves
// for one query. Pages past it are rejected with 422.
const APIResultLimit = 1000

// SearchConfig holds the parsed configuration for the search source.
type SearchConfig struct {
	// Mode selects the HTML search page or the REST endpoint.
	Mode domain.SourceMode

	// Host is the web search base URL, e.g. https://github.com.
	Host string

	// APIHost is the REST base URL, e.g. https://api.github.com.
	APIHost string

	// Query is the search term.
	Query string

	// MaxPages is the last page the source serves.
	MaxPages int

	// PerPage is the API page size. Ignored in web mode.
	PerPage int

	UserAgent string

	// Token is sent as a bearer token in API mode, if set.
	Token string

	// MaxRetries is the number of retries after the first failed attempt.
	MaxRetries int

	// RetryDelay is the fixed wait between attempts.
	RetryDelay time.Duration

	// Timeout bounds a single request.
	Timeout time.Duration

	// RequestsPerSecond caps the request rate. Zero disables the cap.
	RequestsPerSecond float64
}

// ConfigFromSettings builds a SearchConfig from application settings.
func ConfigFromSettings(s domain.AppSettings) SearchConfig {
	return SearchConfig{
		Mode:              s.Source.Mode,
		Host:              s.Source.Host,
		APIHost:           s.Source.APIHost,
		Query:             s.Source.Query,
		MaxPages:          s.Source.MaxPages,
		PerPage:           s.Source.PerPage,
		UserAgent:         s.Source.UserAgent,
		Token:             s.Source.Token,
		MaxRetries:        s.Fetch.MaxRetries,
		RetryDelay:        s.Fetch.RetryDelay,
		Timeout:           s.Fetch.Timeout,
		RequestsPerSecond: s.Fetch.RequestsPerSecond,
	}
}

// LastPage returns the highest page the source serves. In API mode it is
// capped at the page holding the last of APIResultLimit results.
func (c SearchConfig) LastPage() int {
	if c.Mode != domain.SourceModeAPI || c.PerPage < 1 {
		return c.MaxPages
	}
	return min(c.MaxPages, (APIResultLimit+c.PerPage-1)/c.PerPage)
}

// PageURL builds the search URL for a one-based page number.
// Results are ordered by last update, newest first.
func (c SearchConfig) PageURL(page int) (string, error) {
	if last := c.LastPage(); page < 1 || page > last {
		return "", fmt.Errorf("%w: page %d outside 1..%d", domain.ErrInvalidInput, page, last)
	}

	q := url.QueryEscape(c.Query)
	if c.Mode == domain.SourceModeAPI {
		return fmt.Sprintf("%s/search/repositories?q=%s&sort=updated&order=desc&page=%d&per_page=%d",
			strings.TrimRight(c.APIHost, "/"), q, page, c.PerPage), nil
	}
	return fmt.Sprintf("%s/search?q=%s&type=repositories&s=updated&o=desc&p=%d",
		strings.TrimRight(c.Host, "/"), q, page), nil
}

// accept returns the Accept header for the configured mode.
func (c SearchConfig) accept() string {
	if c.Mode == domain.SourceModeAPI {
		return "application/vnd.github+json"
	}
	return "text/html,application/xhtml+xml"
}
