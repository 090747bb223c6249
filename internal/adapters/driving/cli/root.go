// Package cli provides the cobra command tree for reposcout.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/reposcout/internal/adapters/driven/config/file"
	"github.com/custodia-labs/reposcout/internal/core/domain"
	"github.com/custodia-labs/reposcout/internal/core/ports/driving"
	"github.com/custodia-labs/reposcout/internal/core/services"
	"github.com/custodia-labs/reposcout/internal/logger"
)

// Environment overrides applied on top of stored settings.
const (
	envQuery = "REPOSCOUT_QUERY"
	envToken = "GITHUB_TOKEN"
)

var version = "dev"

var (
	verbose   bool
	configDir string
	envFile   string
)

// settingsService is set by SetSettingsService or opened lazily from --config-dir.
var settingsService driving.SettingsService

var rootCmd = &cobra.Command{
	Use:   "reposcout",
	Short: "Find repositories that are not yet in your curated list",
	Long: `reposcout searches GitHub for repositories matching a query, drops the
ones already recorded in a local YAML dataset, and opens the rest in your
browser for review.

Running reposcout without a subcommand is the same as "reposcout discover".`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runDiscover,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.reposcout)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load if present")
	addDiscoverFlags(rootCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetSettingsService injects the settings service used by every command.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// setup runs before every command.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if err := loadEnvFile(envFile); err != nil {
		return err
	}

	if settingsService != nil {
		return nil
	}
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService = services.NewSettingsService(store)
	logger.Debug("config: %s", store.Path())
	return nil
}

// loadEnvFile loads a dotenv file without overriding variables already set.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	logger.Debug("loaded environment from %s", path)
	return nil
}

// loadSettings reads stored settings and applies environment overrides.
func loadSettings() (*domain.AppSettings, error) {
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	applyEnv(settings)
	return settings, nil
}

// applyEnv overrides the query and token from the environment.
func applyEnv(settings *domain.AppSettings) {
	if q := os.Getenv(envQuery); q != "" {
		settings.Source.Query = q
	}
	if t := os.Getenv(envToken); t != "" {
		settings.Source.Token = t
	}
}
