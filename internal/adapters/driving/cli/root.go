// Package cli provides the cobra command tree for tagsearch.
//
// Commands reach the core through driving ports held in package-level
// variables. They are injected with SetServices, or built lazily by the
// bootstrap function once global flags are parsed.
package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driving"
	"github.com/custodia-labs/tagsearch/internal/logger"
)

// version is set by SetVersion from the build.
var version = "dev"

// Service references injected by the composition root.
var (
	settingsService  driving.SettingsService
	catalogService   driving.CatalogService
	searchLogService driving.SearchLogService
	newPredictor     func(engine driving.TagFilter) driving.Predictor
	watchCatalog     func(ctx context.Context, onChange func(domain.Catalog, error)) error
)

var (
	bootstrap BootstrapFunc
	cleanup   func()
)

// Global flags.
var (
	verbose   bool
	configDir string
	dataDir   string
)

// errCatalogNotConfigured is returned by commands that need the catalog.
var errCatalogNotConfigured = errors.New("catalog service not configured")

// Paths holds the directories selected by global flags. Empty fields mean
// the default location.
type Paths struct {
	ConfigDir string
	DataDir   string
}

// Services bundles the driving ports the commands use.
type Services struct {
	Settings     driving.SettingsService
	Catalog      driving.CatalogService
	SearchLog    driving.SearchLogService
	NewPredictor func(engine driving.TagFilter) driving.Predictor
	WatchCatalog func(ctx context.Context, onChange func(domain.Catalog, error)) error
}

// BootstrapFunc builds services for the given paths. The returned cleanup
// releases them once the command has finished.
type BootstrapFunc func(ctx context.Context, paths Paths) (*Services, func(), error)

var rootCmd = &cobra.Command{
	Use:   "tagsearch",
	Short: "Predictive tag search and filtering",
	Long: `tagsearch filters a catalog of tags as you type, keeps an ordered
selection of tags and free text, and builds the site search URL for it.

Use the tui command for the interactive widget, or the filter and url
commands from scripts.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.tagsearch)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.tagsearch)")
}

// setup enables logging and bootstraps services before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if cmd == versionCmd || bootstrap == nil || catalogService != nil {
		return nil
	}

	logger.Section("Bootstrap")
	services, clean, err := bootstrap(cmd.Context(), Paths{ConfigDir: configDir, DataDir: dataDir})
	if err != nil {
		return err
	}
	SetServices(services)
	cleanup = clean
	return nil
}

// SetServices injects the driving ports used by the commands.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	settingsService = s.Settings
	catalogService = s.Catalog
	searchLogService = s.SearchLog
	newPredictor = s.NewPredictor
	watchCatalog = s.WatchCatalog
}

// SetBootstrap registers the function that builds services on demand.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetOut directs command output to w.
func SetOut(w io.Writer) {
	rootCmd.SetOut(w)
}

// Execute runs the root command and releases bootstrapped services.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if cleanup != nil {
		cleanup()
		cleanup = nil
	}
	return err
}

// siteOrigin returns the configured site origin, or the default one.
func siteOrigin() string {
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil && settings.Site.Origin != "" {
			return settings.Site.Origin
		}
	}
	return domain.DefaultAppSettings().Site.Origin
}

// newEngine seeds a filter engine and selects tags in order.
func newEngine(ctx context.Context, tags []string) (driving.TagFilter, error) {
	if catalogService == nil {
		return nil, errCatalogNotConfigured
	}
	engine, err := catalogService.NewEngine(ctx, domain.EngineHooks{})
	if err != nil {
		return nil, err
	}
	for _, tag := range tags {
		engine.Select(tag)
	}
	return engine, nil
}
