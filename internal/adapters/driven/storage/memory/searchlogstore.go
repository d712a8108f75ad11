package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driven"
)

// Ensure SearchLogStore implements the interface.
var _ driven.SearchLogStore = (*SearchLogStore)(nil)

// SearchLogStore is an in-memory implementation of driven.SearchLogStore.
type SearchLogStore struct {
	mu      sync.RWMutex
	entries []domain.SearchLogEntry
}

// NewSearchLogStore creates a new in-memory search log.
func NewSearchLogStore() *SearchLogStore {
	return &SearchLogStore{}
}

// Append stores an entry.
func (s *SearchLogStore) Append(_ context.Context, entry domain.SearchLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.Tags = append([]string(nil), entry.Tags...)
	s.entries = append(s.entries, entry)
	return nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns everything.
func (s *SearchLogStore) Recent(_ context.Context, limit int) ([]domain.SearchLogEntry, error) {
	s.mu.RLock()
	result := make([]domain.SearchLogEntry, len(s.entries))
	copy(result, s.entries)
	s.mu.RUnlock()

	// Later appends win ties on SubmittedAt.
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SubmittedAt.After(result[j].SubmittedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
