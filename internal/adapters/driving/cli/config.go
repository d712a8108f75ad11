package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errSettingsNotConfigured = errors.New("settings service not configured")

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application settings",
	Long: `View and change settings stored in config.toml.

Keys:
  site.origin                  scheme and host of search URLs
  filter.min_score             matches must score above this
  remote.search_url            remote suggestion endpoint (empty disables)
  remote.parent_lookup_url     parent tag endpoint (empty disables)
  remote.limit                 remote results per request
  remote.min_query_length      shortest query sent to the remote endpoint
  remote.debounce_ms           typing pause before a remote request
  remote.requests_per_second   remote request rate cap (0 = unlimited)
  remote.timeout_ms            remote request timeout
  ui.mode                      inline, modal or mobile
  catalog.path                 YAML catalog imported and watched at start-up`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	keys := settingsService.Keys()
	width := 0
	for _, k := range keys {
		if len(k) > width {
			width = len(k)
		}
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	for _, key := range keys {
		val, _ := settings.Value(key)
		if val == "" {
			val = "(not set)"
		}
		cmd.Printf("  %-*s  %s\n", width, key, val)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s = %s\n", args[0], args[1])
	return nil
}
