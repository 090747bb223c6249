package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

const keySourceMode = "source.mode"

// secretKeys are masked by config show.
var secretKeys = map[string]bool{
	"source.token": true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application settings",
	Long: `View and change stored settings.

Settings live in config.toml under the config directory. Flags passed to
discover override them for a single run.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Parses, validates and stores a single setting.

Durations use Go syntax (5s, 1m30s). Lists are comma separated.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Long: `Writes the default value of every setting. A stored source.token is kept.`,
	Args: cobra.NoArgs,
	RunE: runConfigReset,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configResetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	for _, key := range settingsService.Keys() {
		value, err := settingsService.Value(settings, key)
		if err != nil {
			return err
		}
		if secretKeys[key] {
			if value == "" {
				value = "(not set)"
			} else {
				value = maskToken(value)
			}
		}
		if key == keySourceMode {
			value = fmt.Sprintf("%s (%s)", value, settings.Source.Mode.Description())
		}
		cmd.Printf("  %-28s %s\n", key, value)
	}
	return nil
}

func runConfigReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	defaults := settingsService.GetDefaults()
	if err := settingsService.Save(&defaults); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	cmd.Printf("Settings reset to defaults in %s\n", settingsService.Path())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if secretKeys[key] {
		value = maskToken(value)
	}
	cmd.Printf("%s = %s\n", key, value)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	cmd.Println(settingsService.Path())
	return nil
}

// maskToken masks a token for display, showing only the first and last 4 chars.
func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
