package driving

import (
	"context"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
)

// CatalogService manages the fixed candidate pool and alias map that seed
// every filter engine.
type CatalogService interface {
	// Load returns the current catalog.
	Load(ctx context.Context) (domain.Catalog, error)

	// AddTag adds a tag to the catalog.
	AddTag(ctx context.Context, text string) error

	// RemoveTag deletes a tag and any aliases pointing at it.
	RemoveTag(ctx context.Context, id string) error

	// AddAlias maps a child tag onto a parent tag.
	AddAlias(ctx context.Context, child, parent string) error

	// Import merges a catalog file into the store.
	// Returns the number of tags and aliases added.
	Import(ctx context.Context, path string) (tags int, aliases int, err error)

	// Merge writes an already-parsed catalog into the store.
	Merge(ctx context.Context, catalog domain.Catalog) (tags int, aliases int, err error)

	// Export writes the stored catalog to a file.
	Export(ctx context.Context, path string) (tags int, aliases int, err error)

	// NewEngine builds a filter engine seeded with the current catalog.
	NewEngine(ctx context.Context, hooks domain.EngineHooks) (TagFilter, error)
}
