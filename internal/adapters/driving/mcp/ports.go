package mcp

import (
	"github.com/custodia-labs/tagsearch/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Catalog seeds a fresh filter engine for every tool call.
	Catalog driving.CatalogService

	// Settings supplies the default site origin.
	Settings driving.SettingsService

	// SearchLog records URLs built with record set.
	SearchLog driving.SearchLogService

	// NewPredictor builds a predictor for an engine. Nil disables remote
	// suggestions.
	NewPredictor func(engine driving.TagFilter) driving.Predictor
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Catalog == nil {
		return ErrMissingCatalogService
	}
	// Settings, SearchLog and NewPredictor are optional
	return nil
}
