// Package tui provides the interactive tag search widget for the terminal.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"context"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Catalog builds engines from the stored catalog.
	Catalog driving.CatalogService

	// SearchLog records submitted searches and backs the history view.
	SearchLog driving.SearchLogService

	// Settings provides the widget mode and site origin.
	Settings driving.SettingsService

	// NewPredictor builds the remote predictor for an engine. Nil disables
	// remote suggestions.
	NewPredictor func(engine driving.TagFilter) driving.Predictor

	// WatchCatalog, when set, reports catalog file changes until ctx is
	// cancelled. Every change reloads the engine.
	WatchCatalog func(ctx context.Context, onChange func(domain.Catalog, error)) error
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(catalog driving.CatalogService, searchLog driving.SearchLogService) *Ports {
	return &Ports{
		Catalog:   catalog,
		SearchLog: searchLog,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Catalog == nil {
		return ErrMissingCatalogService
	}
	return nil
}
