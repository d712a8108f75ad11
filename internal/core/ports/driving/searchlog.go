package driving

import (
	"context"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
)

// SearchLogService records and lists submitted searches.
type SearchLogService interface {
	// Record stores a submitted search and returns the stored entry.
	Record(ctx context.Context, tags []string, query, url string) (*domain.SearchLogEntry, error)

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.SearchLogEntry, error)
}
