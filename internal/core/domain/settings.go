package domain

import (
	"slices"
	"time"
)

const unknownDescription = "Unknown"

// SourceMode selects how search result pages are obtained.
type SourceMode string

// Available source modes.
const (
	// SourceModeWeb scrapes the HTML search page and its embedded payload.
	SourceModeWeb SourceMode = "web"

	// SourceModeAPI queries the REST search endpoint.
	SourceModeAPI SourceMode = "api"
)

// IsValid returns true if the source mode is recognised.
func (m SourceMode) IsValid() bool {
	return slices.Contains(AllSourceModes(), m)
}

// String returns the string representation.
func (m SourceMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m SourceMode) Description() string {
	switch m {
	case SourceModeWeb:
		return "Web (HTML search page)"
	case SourceModeAPI:
		return "API (REST search endpoint)"
	default:
		return unknownDescription
	}
}

// DefaultUserAgent is a desktop browser identifier. The search page
// rejects default HTTP client identifiers.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// SourceSettings describes the search source.
type SourceSettings struct {
	Mode SourceMode `validate:"oneof=web api"`

	// Host is the base URL of the web search page.
	Host string `validate:"required,url"`

	// APIHost is the base URL of the REST API.
	APIHost string `validate:"required,url"`

	// Query is the search term.
	Query string `validate:"required"`

	// MaxPages is the highest page the source will serve.
	MaxPages int `validate:"min=1"`

	// PerPage is the page size requested in API mode.
	PerPage int `validate:"min=1,max=100"`

	UserAgent string `validate:"required"`

	// Token authenticates API mode requests. Optional.
	Token string
}

// FetchSettings holds retry and pacing policy.
type FetchSettings struct {
	// MaxRetries is the number of retries after the first failed attempt.
	MaxRetries int `validate:"min=0"`

	// RetryDelay is the fixed wait between attempts.
	RetryDelay time.Duration `validate:"min=0"`

	// PageDelay is the pacing wait after every page except the last.
	PageDelay time.Duration `validate:"min=0"`

	// Timeout bounds a single HTTP request.
	Timeout time.Duration `validate:"gt=0"`

	// RequestsPerSecond caps the request rate. Zero disables the cap.
	RequestsPerSecond float64 `validate:"min=0"`
}

// CorpusSettings locates the curated dataset.
type CorpusSettings struct {
	// Dir is the root directory scanned recursively.
	Dir string `validate:"required"`

	// Extensions are the dataset file extensions, including the dot.
	Extensions []string `validate:"min=1,dive,required,startswith=."`
}

// FilterSettings holds name-based exclusions.
type FilterSettings struct {
	// Exclude lists substrings that disqualify a name, case-insensitive.
	Exclude []string `validate:"dive,required"`
}

// ReviewSettings controls how new items are presented.
type ReviewSettings struct {
	// BatchSize is the number of links opened per batch.
	BatchSize int `validate:"min=1"`

	// OpenAllThreshold opens everything at once when the item count
	// does not exceed it.
	OpenAllThreshold int `validate:"min=0"`
}

// AppSettings holds all application configuration.
type AppSettings struct {
	Source SourceSettings
	Fetch  FetchSettings
	Corpus CorpusSettings
	Filter FilterSettings
	Review ReviewSettings
}

// DefaultAppSettings returns the default application settings.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Source: SourceSettings{
			Mode:      SourceModeWeb,
			Host:      "https://github.com",
			APIHost:   "https://api.github.com",
			Query:     "bili",
			MaxPages:  100,
			PerPage:   100,
			UserAgent: DefaultUserAgent,
		},
		Fetch: FetchSettings{
			MaxRetries:        10,
			RetryDelay:        5 * time.Second,
			PageDelay:         10 * time.Second,
			Timeout:           30 * time.Second,
			RequestsPerSecond: 1,
		},
		Corpus: CorpusSettings{
			Dir:        "RAW_DATA",
			Extensions: []string{".yml", ".yaml"},
		},
		Filter: FilterSettings{
			Exclude: []string{"bilingual"},
		},
		Review: ReviewSettings{
			BatchSize:        10,
			OpenAllThreshold: 20,
		},
	}
}

// AllSourceModes returns all source modes.
func AllSourceModes() []SourceMode {
	return []SourceMode{SourceModeWeb, SourceModeAPI}
}
