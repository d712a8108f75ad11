package driven

import (
	"context"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
)

// SearchLogStore persists submitted searches.
type SearchLogStore interface {
	// Append stores an entry.
	Append(ctx context.Context, entry domain.SearchLogEntry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.SearchLogEntry, error)
}
