package driven

import "time"

// ConfigStore provides access to application configuration as flat
// dot-separated keys such as "fetch.retry_delay".
// Implementations handle persistence (e.g., TOML files) and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// ok is false if the key doesn't exist or isn't a whole number.
	GetInt(key string) (int, bool)

	// GetFloat retrieves a floating point configuration value.
	// Integers are converted. ok is false if the key doesn't exist or isn't a number.
	GetFloat(key string) (float64, bool)

	// GetDuration retrieves a duration stored as a string like "5s".
	// ok is false if the key doesn't exist or doesn't parse.
	GetDuration(key string) (time.Duration, bool)

	// GetStringSlice retrieves a string slice configuration value.
	// Returns nil if key doesn't exist or isn't a slice.
	GetStringSlice(key string) []string

	// Set stores a configuration value.
	// The value is persisted immediately.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
