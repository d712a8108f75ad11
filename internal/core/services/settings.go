package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driven"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keySiteOrigin        = "site.origin"
	keyFilterMinScore    = "filter.min_score"
	keyRemoteSearchURL   = "remote.search_url"
	keyRemoteParentURL   = "remote.parent_lookup_url"
	keyRemoteLimit       = "remote.limit"
	keyRemoteMinQueryLen = "remote.min_query_length"
	keyRemoteDebounceMS  = "remote.debounce_ms"
	keyRemoteRPS         = "remote.requests_per_second"
	keyRemoteTimeoutMS   = "remote.timeout_ms"
	keyUIMode            = "ui.mode"
	keyCatalogPath       = "catalog.path"
)

// settingKind drives parsing in Set.
type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindMode
)

var settingKinds = map[string]settingKind{
	keySiteOrigin:        kindString,
	keyFilterMinScore:    kindFloat,
	keyRemoteSearchURL:   kindString,
	keyRemoteParentURL:   kindString,
	keyRemoteLimit:       kindInt,
	keyRemoteMinQueryLen: kindInt,
	keyRemoteDebounceMS:  kindInt,
	keyRemoteRPS:         kindFloat,
	keyRemoteTimeoutMS:   kindInt,
	keyUIMode:            kindMode,
	keyCatalogPath:       kindString,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings, falling back to defaults
// for unset or invalid values.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Site: domain.SiteSettings{
			Origin: s.getString(keySiteOrigin, defaults.Site.Origin),
		},
		Filter: domain.FilterSettings{
			MinScore: s.getFloat(keyFilterMinScore, defaults.Filter.MinScore),
		},
		Remote: domain.RemoteSettings{
			SearchURL:         s.configStore.GetString(keyRemoteSearchURL), // empty disables remote search
			ParentLookupURL:   s.configStore.GetString(keyRemoteParentURL),
			Limit:             s.getInt(keyRemoteLimit, defaults.Remote.Limit),
			MinQueryLength:    s.getInt(keyRemoteMinQueryLen, defaults.Remote.MinQueryLength),
			Debounce:          s.getMillis(keyRemoteDebounceMS, defaults.Remote.Debounce),
			RequestsPerSecond: s.getFloat(keyRemoteRPS, defaults.Remote.RequestsPerSecond),
			Timeout:           s.getMillis(keyRemoteTimeoutMS, defaults.Remote.Timeout),
		},
		UI: domain.UISettings{
			Mode: s.getMode(defaults.UI.Mode),
		},
		Catalog: domain.CatalogSettings{
			Path: s.configStore.GetString(keyCatalogPath),
		},
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings are required", domain.ErrInvalidInput)
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{keySiteOrigin, settings.Site.Origin},
		{keyFilterMinScore, settings.Filter.MinScore},
		{keyRemoteSearchURL, settings.Remote.SearchURL},
		{keyRemoteParentURL, settings.Remote.ParentLookupURL},
		{keyRemoteLimit, settings.Remote.Limit},
		{keyRemoteMinQueryLen, settings.Remote.MinQueryLength},
		{keyRemoteDebounceMS, int(settings.Remote.Debounce / time.Millisecond)},
		{keyRemoteRPS, settings.Remote.RequestsPerSecond},
		{keyRemoteTimeoutMS, int(settings.Remote.Timeout / time.Millisecond)},
		{keyUIMode, settings.UI.Mode.String()},
		{keyCatalogPath, settings.Catalog.Path},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses value for key, validates the resulting settings and persists
// the single key.
func (s *SettingsService) Set(key, value string) error {
	key = strings.TrimSpace(key)
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown key %q", domain.ErrInvalidSetting, key)
	}

	var parsed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidSetting, key)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidSetting, key)
		}
		parsed = f
	case kindMode:
		mode := domain.WidgetMode(strings.TrimSpace(value))
		if !mode.IsValid() {
			return fmt.Errorf("%w: unknown ui.mode %q", domain.ErrInvalidSetting, value)
		}
		parsed = mode.String()
	default:
		parsed = strings.TrimSpace(value)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	applySetting(settings, key, parsed)
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func applySetting(settings *domain.AppSettings, key string, value any) {
	switch key {
	case keySiteOrigin:
		settings.Site.Origin, _ = value.(string)
	case keyFilterMinScore:
		settings.Filter.MinScore, _ = value.(float64)
	case keyRemoteSearchURL:
		settings.Remote.SearchURL, _ = value.(string)
	case keyRemoteParentURL:
		settings.Remote.ParentLookupURL, _ = value.(string)
	case keyRemoteLimit:
		settings.Remote.Limit, _ = value.(int)
	case keyRemoteMinQueryLen:
		settings.Remote.MinQueryLength, _ = value.(int)
	case keyRemoteDebounceMS:
		ms, _ := value.(int)
		settings.Remote.Debounce = time.Duration(ms) * time.Millisecond
	case keyRemoteRPS:
		settings.Remote.RequestsPerSecond, _ = value.(float64)
	case keyRemoteTimeoutMS:
		ms, _ := value.(int)
		settings.Remote.Timeout = time.Duration(ms) * time.Millisecond
	case keyUIMode:
		mode, _ := value.(string)
		settings.UI.Mode = domain.WidgetMode(mode)
	case keyCatalogPath:
		settings.Catalog.Path, _ = value.(string)
	}
}

// Keys returns every settable key, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	val := s.configStore.GetInt(key)
	if val < 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	val := s.configStore.GetFloat(key)
	if val < 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getMillis(key string, defaultVal time.Duration) time.Duration {
	ms := s.getInt(key, -1)
	if ms < 0 {
		return defaultVal
	}
	return time.Duration(ms) * time.Millisecond
}

func (s *SettingsService) getMode(defaultVal domain.WidgetMode) domain.WidgetMode {
	val := s.configStore.GetString(keyUIMode)
	if val == "" {
		return defaultVal
	}
	mode := domain.WidgetMode(val)
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}
