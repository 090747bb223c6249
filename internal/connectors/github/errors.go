package github

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/reposcout/internal/core/domain"
)

// RateLimitError represents a rate limit exceeded error with reset time.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// APIError represents a non-2xx response from the search source.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// IsForbidden checks if the error indicates a forbidden resource.
func IsForbidden(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// hint returns a short remedy for failures retrying cannot fix.
func hint(err error) string {
	switch {
	case IsRateLimited(err):
		return "rate limited, lower fetch.requests_per_second or set a token"
	case IsUnauthorized(err):
		return "token rejected, check source.token or GITHUB_TOKEN"
	case IsForbidden(err):
		return "access forbidden"
	case IsNotFound(err):
		return "search endpoint not found, check source.host"
	default:
		return ""
	}
}

// responseError converts a non-2xx response into one of our error types.
// The body has already been consumed and is passed in separately.
func (c *Client) responseError(resp *http.Response, body []byte) error {
	if err := c.rateLimiter.CheckRateLimit(resp); err != nil {
		return err
	}

	url := ""
	if resp.Request != nil && resp.Request.URL != nil {
		url = resp.Request.URL.String()
	}

	if c.config.Mode != domain.SourceModeAPI {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			URL:        url,
		}
	}

	// go-github reads the body itself to decode the error document.
	resp.Body = io.NopCloser(bytes.NewReader(body))
	err := gh.CheckResponse(resp)

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &RateLimitError{ResetAt: time.Now().Add(abuseErr.GetRetryAfter())}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    ghErr.Message,
			URL:        url,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
		URL:        url,
	}
}
