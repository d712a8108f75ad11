package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driven"
	"github.com/custodia-labs/tagsearch/internal/logger"
)

// Ensure CatalogFile implements the interface.
var _ driven.CatalogSource = (*CatalogFile)(nil)

// DefaultReloadDelay batches the burst of events an editor save produces.
const DefaultReloadDelay = 100 * time.Millisecond

// catalogDocument is the on-disk YAML layout:
//
//	tags:
//	  - Wage & Hour
//	  - Overtime
//	aliases:
//	  - child: Unpaid Overtime
//	    parent: Wage & Hour
type catalogDocument struct {
	Tags    []string       `yaml:"tags"`
	Aliases []domain.Alias `yaml:"aliases,omitempty"`
}

// CatalogFile reads and watches YAML catalog files.
type CatalogFile struct {
	reloadDelay time.Duration
}

// NewCatalogFile creates a YAML catalog reader.
func NewCatalogFile() *CatalogFile {
	return &CatalogFile{reloadDelay: DefaultReloadDelay}
}

// Read parses the catalog at path. Blank and duplicate tags are skipped.
func (f *CatalogFile) Read(path string) (domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML catalog document.
func ParseCatalog(data []byte) (domain.Catalog, error) {
	var doc catalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.Catalog{}, fmt.Errorf("%w: parse catalog: %v", domain.ErrInvalidInput, err)
	}

	catalog := domain.Catalog{
		Tags:    make([]domain.TagCandidate, 0, len(doc.Tags)),
		Aliases: make(map[string]string, len(doc.Aliases)),
	}
	seen := make(map[string]bool, len(doc.Tags))
	for _, text := range doc.Tags {
		tag := domain.NewTagCandidate(text)
		if tag.ID == "" || seen[tag.Key()] {
			continue
		}
		seen[tag.Key()] = true
		catalog.Tags = append(catalog.Tags, tag)
	}
	for _, a := range doc.Aliases {
		child, parent := strings.TrimSpace(a.Child), strings.TrimSpace(a.Parent)
		if child == "" || parent == "" {
			continue
		}
		catalog.Aliases[child] = parent
	}
	return catalog, nil
}

// WriteCatalog writes catalog to path as YAML, creating parent directories.
func WriteCatalog(path string, catalog domain.Catalog) error {
	doc := catalogDocument{Tags: make([]string, 0, len(catalog.Tags))}
	for _, tag := range catalog.Tags {
		doc.Tags = append(doc.Tags, tag.Label())
	}
	for child, parent := range catalog.Aliases {
		doc.Aliases = append(doc.Aliases, domain.Alias{Child: child, Parent: parent})
	}
	sortAliases(doc.Aliases)

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// Write stores catalog at path. See WriteCatalog.
func (f *CatalogFile) Write(path string, catalog domain.Catalog) error {
	return WriteCatalog(path, catalog)
}

// Watch re-reads the catalog whenever the file at path is written, created
// or replaced, and passes the result to onChange. The parent directory is
// watched so editors that save by rename are picked up. Watch blocks until
// ctx is cancelled.
func (f *CatalogFile) Watch(ctx context.Context, path string, onChange func(domain.Catalog, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve catalog path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	logger.Debug("catalog: watching %s", abs)

	// A stopped timer whose channel is armed by relevant events.
	reload := time.NewTimer(time.Hour)
	reload.Stop()
	defer reload.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("catalog: %s %s", event.Op, event.Name)
			reload.Reset(f.reloadDelay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("catalog: watcher error: %v", err)
			onChange(domain.Catalog{}, fmt.Errorf("watch catalog: %w", err))

		case <-reload.C:
			catalog, err := f.Read(abs)
			if errors.Is(err, os.ErrNotExist) {
				// Mid-rename; the create event that follows triggers another read.
				continue
			}
			onChange(catalog, err)
		}
	}
}

func sortAliases(aliases []domain.Alias) {
	sort.Slice(aliases, func(i, j int) bool {
		return aliases[i].Child < aliases[j].Child
	})
}
