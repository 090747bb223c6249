package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/reposcout/internal/core/domain"
	"github.com/custodia-labs/reposcout/internal/core/ports/driven"
	"github.com/custodia-labs/reposcout/internal/core/ports/driving"
	"github.com/custodia-labs/reposcout/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keySourceMode       = "source.mode"
	keySourceHost       = "source.host"
	keySourceAPIHost    = "source.api_host"
	keySourceQuery      = "source.query"
	keySourceMaxPages   = "source.max_pages"
	keySourcePerPage    = "source.per_page"
	keySourceUserAgent  = "source.user_agent"
	keySourceToken      = "source.token"
	keyFetchMaxRetries  = "fetch.max_retries"
	keyFetchRetryDelay  = "fetch.retry_delay"
	keyFetchPageDelay   = "fetch.page_delay"
	keyFetchTimeout     = "fetch.timeout"
	keyFetchRPS         = "fetch.requests_per_second"
	keyCorpusDir        = "corpus.dir"
	keyCorpusExtensions = "corpus.extensions"
	keyFilterExclude    = "filter.exclude"
	keyReviewBatchSize  = "review.batch_size"
	keyReviewOpenAllMax = "review.open_all_threshold"
)

type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindDuration
	kindList
)

// setting binds a config key to its field in domain.AppSettings.
type setting struct {
	key   string
	field string // struct namespace below AppSettings, as reported by the validator
	kind  settingKind
}

// settingsTable lists every key in display order.
var settingsTable = []setting{
	{keySourceMode, "Source.Mode", kindString},
	{keySourceHost, "Source.Host", kindString},
	{keySourceAPIHost, "Source.APIHost", kindString},
	{keySourceQuery, "Source.Query", kindString},
	{keySourceMaxPages, "Source.MaxPages", kindInt},
	{keySourcePerPage, "Source.PerPage", kindInt},
	{keySourceUserAgent, "Source.UserAgent", kindString},
	{keySourceToken, "Source.Token", kindString},
	{keyFetchMaxRetries, "Fetch.MaxRetries", kindInt},
	{keyFetchRetryDelay, "Fetch.RetryDelay", kindDuration},
	{keyFetchPageDelay, "Fetch.PageDelay", kindDuration},
	{keyFetchTimeout, "Fetch.Timeout", kindDuration},
	{keyFetchRPS, "Fetch.RequestsPerSecond", kindFloat},
	{keyCorpusDir, "Corpus.Dir", kindString},
	{keyCorpusExtensions, "Corpus.Extensions", kindList},
	{keyFilterExclude, "Filter.Exclude", kindList},
	{keyReviewBatchSize, "Review.BatchSize", kindInt},
	{keyReviewOpenAllMax, "Review.OpenAllThreshold", kindInt},
}

func lookupSetting(key string) (setting, bool) {
	for _, s := range settingsTable {
		if s.key == key {
			return s, true
		}
	}
	return setting{}, false
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	validate    *validator.Validate
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Get retrieves current application settings.
// Missing or unparsable values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Source: domain.SourceSettings{
			Mode:      s.getSourceMode(defaults.Source.Mode),
			Host:      s.getString(keySourceHost, defaults.Source.Host),
			APIHost:   s.getString(keySourceAPIHost, defaults.Source.APIHost),
			Query:     s.getString(keySourceQuery, defaults.Source.Query),
			MaxPages:  s.getInt(keySourceMaxPages, defaults.Source.MaxPages),
			PerPage:   s.getInt(keySourcePerPage, defaults.Source.PerPage),
			UserAgent: s.getString(keySourceUserAgent, defaults.Source.UserAgent),
			Token:     s.configStore.GetString(keySourceToken), // No default
		},
		Fetch: domain.FetchSettings{
			MaxRetries:        s.getInt(keyFetchMaxRetries, defaults.Fetch.MaxRetries),
			RetryDelay:        s.getDuration(keyFetchRetryDelay, defaults.Fetch.RetryDelay),
			PageDelay:         s.getDuration(keyFetchPageDelay, defaults.Fetch.PageDelay),
			Timeout:           s.getDuration(keyFetchTimeout, defaults.Fetch.Timeout),
			RequestsPerSecond: s.getFloat(keyFetchRPS, defaults.Fetch.RequestsPerSecond),
		},
		Corpus: domain.CorpusSettings{
			Dir:        s.getString(keyCorpusDir, defaults.Corpus.Dir),
			Extensions: s.getStringSlice(keyCorpusExtensions, defaults.Corpus.Extensions),
		},
		Filter: domain.FilterSettings{
			Exclude: s.getStringSlice(keyFilterExclude, defaults.Filter.Exclude),
		},
		Review: domain.ReviewSettings{
			BatchSize:        s.getInt(keyReviewBatchSize, defaults.Review.BatchSize),
			OpenAllThreshold: s.getInt(keyReviewOpenAllMax, defaults.Review.OpenAllThreshold),
		},
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.Validate(settings); err != nil {
		return err
	}

	for _, st := range settingsTable {
		if st.key == keySourceToken && settings.Source.Token == "" {
			continue
		}
		if err := s.configStore.Set(st.key, storedValue(settings, st)); err != nil {
			return fmt.Errorf("save %s: %w", st.key, err)
		}
	}
	return nil
}

// Set parses value according to the key's type, validates the resulting
// settings and persists the single key.
func (s *SettingsService) Set(key, value string) error {
	st, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownSetting, key)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := apply(settings, st, value); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidSetting, key, err)
	}
	if err := s.Validate(settings); err != nil {
		return err
	}

	if err := s.configStore.Set(key, storedValue(settings, st)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the recognised setting keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingsTable))
	for i, st := range settingsTable {
		keys[i] = st.key
	}
	return keys
}

// Value formats one setting for display.
func (s *SettingsService) Value(settings *domain.AppSettings, key string) (string, error) {
	st, ok := lookupSetting(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownSetting, key)
	}
	switch v := storedValue(settings, st).(type) {
	case []string:
		return strings.Join(v, ","), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// Validate checks settings against their constraints.
// Failures are reported by config key and wrap domain.ErrInvalidSetting.
func (s *SettingsService) Validate(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: nil settings", domain.ErrInvalidSetting)
	}

	err := s.validate.Struct(settings)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidSetting, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", keyForNamespace(fe.StructNamespace()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidSetting, strings.Join(msgs, "; "))
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// keyForNamespace maps "AppSettings.Source.MaxPages" (or a list element
// such as "AppSettings.Corpus.Extensions[0]") back to its config key.
func keyForNamespace(ns string) string {
	field := strings.TrimPrefix(ns, "AppSettings.")
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	for _, st := range settingsTable {
		if st.field == field {
			return st.key
		}
	}
	return field
}

// storedValue returns the value persisted for a key.
func storedValue(settings *domain.AppSettings, st setting) any {
	switch st.key {
	case keySourceMode:
		return settings.Source.Mode.String()
	case keySourceHost:
		return settings.Source.Host
	case keySourceAPIHost:
		return settings.Source.APIHost
	case keySourceQuery:
		return settings.Source.Query
	case keySourceMaxPages:
		return settings.Source.MaxPages
	case keySourcePerPage:
		return settings.Source.PerPage
	case keySourceUserAgent:
		return settings.Source.UserAgent
	case keySourceToken:
		return settings.Source.Token
	case keyFetchMaxRetries:
		return settings.Fetch.MaxRetries
	case keyFetchRetryDelay:
		return settings.Fetch.RetryDelay.String()
	case keyFetchPageDelay:
		return settings.Fetch.PageDelay.String()
	case keyFetchTimeout:
		return settings.Fetch.Timeout.String()
	case keyFetchRPS:
		return settings.Fetch.RequestsPerSecond
	case keyCorpusDir:
		return settings.Corpus.Dir
	case keyCorpusExtensions:
		return settings.Corpus.Extensions
	case keyFilterExclude:
		return settings.Filter.Exclude
	case keyReviewBatchSize:
		return settings.Review.BatchSize
	case keyReviewOpenAllMax:
		return settings.Review.OpenAllThreshold
	}
	return nil
}

// apply parses value and assigns it to the setting's field.
//
//nolint:gocyclo // One case per key.
func apply(settings *domain.AppSettings, st setting, value string) error {
	value = strings.TrimSpace(value)

	var (
		i   int
		f   float64
		d   time.Duration
		l   []string
		err error
	)
	switch st.kind {
	case kindInt:
		i, err = strconv.Atoi(value)
	case kindFloat:
		f, err = strconv.ParseFloat(value, 64)
	case kindDuration:
		d, err = time.ParseDuration(value)
	case kindList:
		l = splitList(value)
	}
	if err != nil {
		return err
	}

	switch st.key {
	case keySourceMode:
		settings.Source.Mode = domain.SourceMode(value)
	case keySourceHost:
		settings.Source.Host = value
	case keySourceAPIHost:
		settings.Source.APIHost = value
	case keySourceQuery:
		settings.Source.Query = value
	case keySourceMaxPages:
		settings.Source.MaxPages = i
	case keySourcePerPage:
		settings.Source.PerPage = i
	case keySourceUserAgent:
		settings.Source.UserAgent = value
	case keySourceToken:
		settings.Source.Token = value
	case keyFetchMaxRetries:
		settings.Fetch.MaxRetries = i
	case keyFetchRetryDelay:
		settings.Fetch.RetryDelay = d
	case keyFetchPageDelay:
		settings.Fetch.PageDelay = d
	case keyFetchTimeout:
		settings.Fetch.Timeout = d
	case keyFetchRPS:
		settings.Fetch.RequestsPerSecond = f
	case keyCorpusDir:
		settings.Corpus.Dir = value
	case keyCorpusExtensions:
		settings.Corpus.Extensions = l
	case keyFilterExclude:
		settings.Filter.Exclude = l
	case keyReviewBatchSize:
		settings.Review.BatchSize = i
	case keyReviewOpenAllMax:
		settings.Review.OpenAllThreshold = i
	}
	return nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getInt treats an explicit zero as a value, since zero retries is valid.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if v, ok := s.configStore.GetInt(key); ok {
		return v
	}
	s.warnInvalid(key)
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if v, ok := s.configStore.GetFloat(key); ok {
		return v
	}
	s.warnInvalid(key)
	return defaultVal
}

// getDuration treats an explicit "0s" as a value, since no pacing is valid.
// A bare number has no unit and falls back to the default.
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	if v, ok := s.configStore.GetDuration(key); ok {
		return v
	}
	s.warnInvalid(key)
	return defaultVal
}

// warnInvalid reports a stored value that is present but unusable.
func (s *SettingsService) warnInvalid(key string) {
	if val, exists := s.configStore.Get(key); exists {
		logger.Warn("ignoring %s = %v: invalid value, using default", key, val)
	}
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	if _, exists := s.configStore.Get(key); !exists {
		return append([]string(nil), defaultVal...)
	}
	return s.configStore.GetStringSlice(key)
}

func (s *SettingsService) getSourceMode(defaultVal domain.SourceMode) domain.SourceMode {
	val := s.configStore.GetString(keySourceMode)
	if val == "" {
		return defaultVal
	}
	mode := domain.SourceMode(val)
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}
