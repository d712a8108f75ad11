package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driven"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driving"
)

// Ensure SearchLogService implements the interface.
var _ driving.SearchLogService = (*SearchLogService)(nil)

// ErrSearchLogStoreNotConfigured is returned when no search log store is set.
var ErrSearchLogStoreNotConfigured = errors.New("search log store not configured")

// SearchLogService records submitted searches.
type SearchLogService struct {
	store driven.SearchLogStore
	now   func() time.Time
}

// NewSearchLogService creates a new search log service.
func NewSearchLogService(store driven.SearchLogStore) *SearchLogService {
	return &SearchLogService{
		store: store,
		now:   time.Now,
	}
}

// Record stores a submitted search.
func (s *SearchLogService) Record(ctx context.Context, tags []string, query, url string) (*domain.SearchLogEntry, error) {
	if s.store == nil {
		return nil, ErrSearchLogStoreNotConfigured
	}
	if url == "" {
		return nil, fmt.Errorf("%w: url is required", domain.ErrInvalidInput)
	}

	entry := domain.SearchLogEntry{
		ID:          uuid.NewString(),
		Tags:        append([]string{}, tags...),
		Query:       query,
		URL:         url,
		SubmittedAt: s.now().UTC(),
	}
	if err := s.store.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append search log: %w", err)
	}
	return &entry, nil
}

// Recent lists up to limit submitted searches, newest first.
func (s *SearchLogService) Recent(ctx context.Context, limit int) ([]domain.SearchLogEntry, error) {
	if s.store == nil {
		return nil, ErrSearchLogStoreNotConfigured
	}
	entries, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list search log: %w", err)
	}
	return entries, nil
}
