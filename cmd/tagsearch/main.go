// Command tagsearch is the predictive tag search CLI, TUI and MCP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/tagsearch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/tagsearch/internal/adapters/driven/remote/httpsearch"
	"github.com/custodia-labs/tagsearch/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/tagsearch/internal/adapters/driving/cli"
	"github.com/custodia-labs/tagsearch/internal/core/domain"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driven"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driving"
	"github.com/custodia-labs/tagsearch/internal/core/services"
	"github.com/custodia-labs/tagsearch/internal/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetVersion(version)
	cli.SetOut(os.Stdout)
	cli.SetBootstrap(bootstrap)

	err := cli.Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap wires the driven adapters into the core services.
func bootstrap(ctx context.Context, paths cli.Paths) (*cli.Services, func(), error) {
	configStore, err := file.NewConfigStore(paths.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening config: %w", err)
	}
	logger.Debug("Config: %s", configStore.Path())

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("reading settings: %w", err)
	}

	store, err := sqlite.NewStore(paths.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	logger.Debug("Database: %s", store.Path())

	catalogFile := file.NewCatalogFile()
	catalogService := services.NewCatalogService(store.CatalogStore(), catalogFile, settings.Filter)

	if path := settings.Catalog.Path; path != "" {
		tags, aliases, err := catalogService.Import(ctx, path)
		if err != nil {
			logger.Warn("importing %s: %v", path, err)
		} else {
			logger.Debug("Imported %d tags, %d aliases from %s", tags, aliases, path)
		}
	}

	result := &cli.Services{
		Settings:     settingsService,
		Catalog:      catalogService,
		SearchLog:    services.NewSearchLogService(store.SearchLogStore()),
		NewPredictor: predictorFactory(settings.Remote),
	}
	if path := settings.Catalog.Path; path != "" {
		result.WatchCatalog = func(ctx context.Context, onChange func(domain.Catalog, error)) error {
			return catalogFile.Watch(ctx, path, onChange)
		}
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing database: %v", err)
		}
	}
	return result, cleanup, nil
}

// predictorFactory returns a predictor constructor backed by the remote
// client. Endpoints left empty stay disabled.
func predictorFactory(remote domain.RemoteSettings) func(driving.TagFilter) driving.Predictor {
	client := httpsearch.NewClient(httpsearch.ConfigFromSettings(remote))

	var searcher driven.RemoteSearcher
	if client.HasSearch() {
		searcher = client
	}
	var lookup driven.ParentLookup
	if client.HasParentLookup() {
		lookup = client
	}
	logger.Debug("Remote search: %t, parent lookup: %t", searcher != nil, lookup != nil)

	return func(engine driving.TagFilter) driving.Predictor {
		return services.NewPredictor(engine, searcher, lookup, remote)
	}
}
