package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driven"
)

// Ensure CatalogStore implements the interface.
var _ driven.CatalogStore = (*CatalogStore)(nil)

// CatalogStore is an in-memory implementation of driven.CatalogStore.
type CatalogStore struct {
	mu      sync.RWMutex
	tags    []domain.TagCandidate
	aliases map[string]domain.Alias // folded child -> alias
}

// NewCatalogStore creates a new in-memory catalog store.
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		aliases: make(map[string]domain.Alias),
	}
}

// SaveTag stores a tag, or updates it in place if its id is already known.
func (s *CatalogStore) SaveTag(_ context.Context, tag domain.TagCandidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(tag.ID); i >= 0 {
		s.tags[i] = tag
		return nil
	}
	s.tags = append(s.tags, tag)
	return nil
}

// GetTag retrieves a tag by id, ignoring case.
func (s *CatalogStore) GetTag(_ context.Context, id string) (*domain.TagCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	tag := s.tags[i]
	return &tag, nil
}

// DeleteTag removes a tag and every alias it takes part in.
func (s *CatalogStore) DeleteTag(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	s.tags = append(s.tags[:i], s.tags[i+1:]...)

	key := domain.FoldKey(id)
	for child, alias := range s.aliases {
		if child == key || domain.FoldKey(alias.Parent) == key {
			delete(s.aliases, child)
		}
	}
	return nil
}

// ListTags returns all tags in insertion order.
func (s *CatalogStore) ListTags(_ context.Context) ([]domain.TagCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.TagCandidate, len(s.tags))
	copy(result, s.tags)
	return result, nil
}

// SaveAlias stores or replaces the parent of alias.Child.
func (s *CatalogStore) SaveAlias(_ context.Context, alias domain.Alias) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aliases[domain.FoldKey(alias.Child)] = domain.Alias{
		Child:  strings.TrimSpace(alias.Child),
		Parent: strings.TrimSpace(alias.Parent),
	}
	return nil
}

// ListAliases returns every alias, ordered by child.
func (s *CatalogStore) ListAliases(_ context.Context) ([]domain.Alias, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Alias, 0, len(s.aliases))
	for _, alias := range s.aliases {
		result = append(result, alias)
	}
	sortAliases(result)
	return result, nil
}

func (s *CatalogStore) indexLocked(id string) int {
	key := domain.FoldKey(id)
	for i, tag := range s.tags {
		if tag.Key() == key {
			return i
		}
	}
	return -1
}

func sortAliases(aliases []domain.Alias) {
	sort.Slice(aliases, func(i, j int) bool {
		return domain.FoldKey(aliases[i].Child) < domain.FoldKey(aliases[j].Child)
	})
}
