package domain

import (
	"context"
	"errors"
	"fmt"
)

// Domain errors represent pipeline failures.
// None of them aborts a discovery run; they are recorded and logged.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPageSkipped indicates a page was given up after exhausting retries.
	ErrPageSkipped = errors.New("page skipped")

	// ErrInvalidSetting indicates a configuration value failed validation.
	ErrInvalidSetting = errors.New("invalid setting")

	// ErrUnknownSetting indicates a configuration key is not recognised.
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrNoItems indicates a run produced nothing to review.
	ErrNoItems = errors.New("no new items")
)

// FetchError is a single failed attempt to fetch a results page.
// It covers both transport failures and non-2xx responses.
type FetchError struct {
	Page       int
	Attempt    int
	StatusCode int // zero for transport failures
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		msg := fmt.Sprintf("fetch page %d (attempt %d): HTTP status %d", e.Page, e.Attempt, e.StatusCode)
		if e.Err != nil {
			msg += ": " + e.Err.Error()
		}
		return msg
	}
	return fmt.Sprintf("fetch page %d (attempt %d): %v", e.Page, e.Attempt, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Temporary reports whether another attempt may succeed.
// Every failure is retried except a cancelled request.
func (e *FetchError) Temporary() bool {
	return !errors.Is(e.Err, context.Canceled)
}

// PageSkippedError is returned once a page has failed every allowed attempt.
type PageSkippedError struct {
	Page     int
	Attempts int
	Last     error
}

func (e *PageSkippedError) Error() string {
	return fmt.Sprintf("page %d skipped after %d attempts: %v", e.Page, e.Attempts, e.Last)
}

// Is matches ErrPageSkipped.
func (e *PageSkippedError) Is(target error) bool {
	return target == ErrPageSkipped
}

func (e *PageSkippedError) Unwrap() error {
	return e.Last
}

// ExtractionError describes a page whose embedded payload could not be read.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract results: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// CorpusFileError describes a corpus file that could not be read or parsed.
type CorpusFileError struct {
	Path string
	Err  error
}

func (e *CorpusFileError) Error() string {
	return fmt.Sprintf("corpus file %s: %v", e.Path, e.Err)
}

func (e *CorpusFileError) Unwrap() error {
	return e.Err
}

// IsPageSkipped checks if the error reports an exhausted page.
func IsPageSkipped(err error) bool {
	return errors.Is(err, ErrPageSkipped)
}
