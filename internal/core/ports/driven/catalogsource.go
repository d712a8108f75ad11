package driven

import (
	"context"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
)

// CatalogSource reads catalogs from outside the store (e.g. YAML files).
type CatalogSource interface {
	// Read parses the catalog at path.
	Read(path string) (domain.Catalog, error)

	// Write stores catalog at path, replacing any existing file.
	Write(path string, catalog domain.Catalog) error

	// Watch calls onChange with the re-read catalog every time the file at
	// path changes, until ctx is cancelled.
	Watch(ctx context.Context, path string, onChange func(domain.Catalog, error)) error
}
