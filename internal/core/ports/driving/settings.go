package driving

import "github.com/custodia-labs/reposcout/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set parses and stores a single setting by key.
	Set(key, value string) error

	// Keys returns the recognised setting keys in display order.
	Keys() []string

	// Value formats one setting of settings for display.
	Value(settings *domain.AppSettings, key string) (string, error)

	// Validate checks settings against their constraints.
	Validate(settings *domain.AppSettings) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Path returns where settings are persisted.
	Path() string
}
