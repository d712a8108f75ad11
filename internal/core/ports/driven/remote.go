package driven

import (
	"context"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
)

// RemoteSearcher queries the remote tag search endpoint.
type RemoteSearcher interface {
	// Search returns up to limit results for query.
	// A non-2xx response or undecodable body is an error.
	Search(ctx context.Context, query string, limit int) ([]domain.RemoteResult, error)
}

// ParentLookup resolves the parent tag of a tag.
type ParentLookup interface {
	// LookupParent returns the parent tag of tag, or "" if it has none.
	LookupParent(ctx context.Context, tag string) (string, error)
}
