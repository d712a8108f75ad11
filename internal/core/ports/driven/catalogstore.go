package driven

import (
	"context"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
)

// CatalogStore persists the candidate catalog.
type CatalogStore interface {
	// SaveTag stores or updates a tag. Pool order is insertion order.
	SaveTag(ctx context.Context, tag domain.TagCandidate) error

	// GetTag retrieves a tag by id (case-insensitive).
	GetTag(ctx context.Context, id string) (*domain.TagCandidate, error)

	// DeleteTag removes a tag and every alias whose parent or child it is.
	DeleteTag(ctx context.Context, id string) error

	// ListTags returns all tags in pool order.
	ListTags(ctx context.Context) ([]domain.TagCandidate, error)

	// SaveAlias stores or replaces the parent of child.
	SaveAlias(ctx context.Context, alias domain.Alias) error

	// ListAliases returns every child -> parent mapping.
	ListAliases(ctx context.Context) ([]domain.Alias, error)
}
