package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tagsearch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tagsearch/internal/core/domain"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driving"
	"github.com/custodia-labs/tagsearch/internal/core/services"
)

// mockCatalogService is a mock implementation of driving.CatalogService
// whose every call fails with err.
type mockCatalogService struct {
	err error
}

func (m *mockCatalogService) Load(_ context.Context) (domain.Catalog, error) {
	return domain.Catalog{}, m.err
}

func (m *mockCatalogService) AddTag(_ context.Context, _ string) error {
	return m.err
}

func (m *mockCatalogService) RemoveTag(_ context.Context, _ string) error {
	return m.err
}

func (m *mockCatalogService) AddAlias(_ context.Context, _, _ string) error {
	return m.err
}

func (m *mockCatalogService) Import(_ context.Context, _ string) (int, int, error) {
	return 0, 0, m.err
}

func (m *mockCatalogService) Merge(_ context.Context, _ domain.Catalog) (int, int, error) {
	return 0, 0, m.err
}

func (m *mockCatalogService) Export(_ context.Context, _ string) (int, int, error) {
	return 0, 0, m.err
}

func (m *mockCatalogService) NewEngine(_ context.Context, _ domain.EngineHooks) (driving.TagFilter, error) {
	return nil, m.err
}

// mockSearchLogService is a mock implementation of driving.SearchLogService.
type mockSearchLogService struct {
	entries  []domain.SearchLogEntry
	recorded []string
	err      error
}

func (m *mockSearchLogService) Record(_ context.Context, tags []string, query, url string) (*domain.SearchLogEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.recorded = append(m.recorded, url)
	return &domain.SearchLogEntry{Tags: tags, Query: query, URL: url}, nil
}

func (m *mockSearchLogService) Recent(_ context.Context, _ int) ([]domain.SearchLogEntry, error) {
	return m.entries, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.AppSettings
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return nil }

func (m *mockSettingsService) Set(_, _ string) error { return nil }

func (m *mockSettingsService) Keys() []string { return nil }

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// mockSearcher is a mock implementation of driven.RemoteSearcher.
type mockSearcher struct {
	results []domain.RemoteResult
}

func (m *mockSearcher) Search(_ context.Context, _ string, _ int) ([]domain.RemoteResult, error) {
	return m.results, nil
}

// newCatalogService returns a memory-backed catalog seeded with tags and
// an "Unpaid Overtime" -> "Wage & Hour" alias.
func newCatalogService(t *testing.T) *services.CatalogService {
	t.Helper()
	ctx := context.Background()
	catalog := services.NewCatalogService(memory.NewCatalogStore(), nil, domain.DefaultFilterSettings())
	for _, tag := range []string{"Wage & Hour", "Overtime", "Minimum Wage", "Retaliation"} {
		require.NoError(t, catalog.AddTag(ctx, tag))
	}
	require.NoError(t, catalog.AddAlias(ctx, "Unpaid Overtime", "Wage & Hour"))
	return catalog
}
