package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driven"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driving"
	"github.com/custodia-labs/tagsearch/internal/logger"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// ErrCatalogStoreNotConfigured is returned when no catalog store is set.
var ErrCatalogStoreNotConfigured = errors.New("catalog store not configured")

// CatalogService manages the persisted candidate catalog and builds
// filter engines seeded from it.
type CatalogService struct {
	store    driven.CatalogStore
	source   driven.CatalogSource
	settings domain.FilterSettings
}

// NewCatalogService creates a new catalog service. source may be nil,
// in which case Import is unavailable.
func NewCatalogService(store driven.CatalogStore, source driven.CatalogSource, settings domain.FilterSettings) *CatalogService {
	return &CatalogService{
		store:    store,
		source:   source,
		settings: settings,
	}
}

// Load returns the stored tags in pool order and the alias map.
func (s *CatalogService) Load(ctx context.Context) (domain.Catalog, error) {
	if s.store == nil {
		return domain.Catalog{}, ErrCatalogStoreNotConfigured
	}

	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("list tags: %w", err)
	}
	aliases, err := s.store.ListAliases(ctx)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("list aliases: %w", err)
	}

	catalog := domain.Catalog{
		Tags:    tags,
		Aliases: make(map[string]string, len(aliases)),
	}
	for _, a := range aliases {
		catalog.Aliases[a.Child] = a.Parent
	}
	return catalog, nil
}

// AddTag adds a catalog tag. Adding a tag that already exists (ignoring
// case) returns ErrAlreadyExists.
func (s *CatalogService) AddTag(ctx context.Context, text string) error {
	if s.store == nil {
		return ErrCatalogStoreNotConfigured
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%w: tag text is required", domain.ErrInvalidInput)
	}

	if _, err := s.store.GetTag(ctx, text); err == nil {
		return fmt.Errorf("tag %q: %w", text, domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get tag: %w", err)
	}

	if err := s.store.SaveTag(ctx, domain.NewTagCandidate(text)); err != nil {
		return fmt.Errorf("save tag: %w", err)
	}
	logger.Debug("catalog: added tag %q", text)
	return nil
}

// RemoveTag deletes a tag and every alias involving it.
func (s *CatalogService) RemoveTag(ctx context.Context, id string) error {
	if s.store == nil {
		return ErrCatalogStoreNotConfigured
	}
	if err := s.store.DeleteTag(ctx, id); err != nil {
		return fmt.Errorf("delete tag %q: %w", id, err)
	}
	logger.Debug("catalog: removed tag %q", id)
	return nil
}

// AddAlias maps child onto parent. The parent need not be a catalog tag;
// selecting the child then yields a free-text parent entry.
func (s *CatalogService) AddAlias(ctx context.Context, child, parent string) error {
	if s.store == nil {
		return ErrCatalogStoreNotConfigured
	}
	child = strings.TrimSpace(child)
	parent = strings.TrimSpace(parent)
	if child == "" || parent == "" {
		return fmt.Errorf("%w: alias child and parent are required", domain.ErrInvalidInput)
	}
	if domain.FoldKey(child) == domain.FoldKey(parent) {
		return fmt.Errorf("alias %q: %w", child, domain.ErrAliasCycle)
	}

	if err := s.store.SaveAlias(ctx, domain.Alias{Child: child, Parent: parent}); err != nil {
		return fmt.Errorf("save alias: %w", err)
	}
	logger.Debug("catalog: alias %q -> %q", child, parent)
	return nil
}

// Import reads a catalog file and merges it into the store. Tags already
// present are left alone; aliases are replaced.
func (s *CatalogService) Import(ctx context.Context, path string) (int, int, error) {
	if s.store == nil {
		return 0, 0, ErrCatalogStoreNotConfigured
	}
	if s.source == nil {
		return 0, 0, fmt.Errorf("%w: no catalog reader configured", domain.ErrInvalidInput)
	}

	logger.Section("Catalog Import")
	logger.Debug("Path: %s", path)

	catalog, err := s.source.Read(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read catalog: %w", err)
	}
	return s.merge(ctx, catalog)
}

// Merge writes an already-parsed catalog into the store. Used when a
// watched catalog file changes.
func (s *CatalogService) Merge(ctx context.Context, catalog domain.Catalog) (int, int, error) {
	if s.store == nil {
		return 0, 0, ErrCatalogStoreNotConfigured
	}
	return s.merge(ctx, catalog)
}

func (s *CatalogService) merge(ctx context.Context, catalog domain.Catalog) (int, int, error) {
	tags := 0
	for _, tag := range catalog.Tags {
		if strings.TrimSpace(tag.ID) == "" {
			continue
		}
		if _, err := s.store.GetTag(ctx, tag.ID); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			return tags, 0, fmt.Errorf("get tag: %w", err)
		}
		if err := s.store.SaveTag(ctx, tag); err != nil {
			return tags, 0, fmt.Errorf("save tag %q: %w", tag.ID, err)
		}
		tags++
	}

	aliases := 0
	for child, parent := range catalog.Aliases {
		if err := s.AddAlias(ctx, child, parent); err != nil {
			if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrAliasCycle) {
				logger.Warn("catalog: skipping alias %q -> %q: %v", child, parent, err)
				continue
			}
			return tags, aliases, err
		}
		aliases++
	}

	logger.Debug("Imported %d tags, %d aliases", tags, aliases)
	return tags, aliases, nil
}

// Export writes the stored catalog to path in the catalog source format.
func (s *CatalogService) Export(ctx context.Context, path string) (int, int, error) {
	if s.source == nil {
		return 0, 0, fmt.Errorf("%w: no catalog writer configured", domain.ErrInvalidInput)
	}
	catalog, err := s.Load(ctx)
	if err != nil {
		return 0, 0, err
	}
	if err := s.source.Write(path, catalog); err != nil {
		return 0, 0, fmt.Errorf("write catalog: %w", err)
	}
	return len(catalog.Tags), len(catalog.Aliases), nil
}

// NewEngine builds a filter engine over the current catalog.
func (s *CatalogService) NewEngine(ctx context.Context, hooks domain.EngineHooks) (driving.TagFilter, error) {
	engine, err := s.NewTagFilterEngine(ctx, hooks)
	if err != nil {
		return nil, err
	}
	return engine, nil
}

// NewTagFilterEngine is NewEngine returning the concrete engine, for
// adapters that also need a Predictor.
func (s *CatalogService) NewTagFilterEngine(ctx context.Context, hooks domain.EngineHooks) (*TagFilterEngine, error) {
	catalog, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	engine := NewTagFilterEngine(catalog.Tags, catalog.Aliases, s.settings)
	engine.SetHooks(hooks)
	return engine, nil
}
