package domain

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

const unknownDescription = "Unknown"

// WidgetMode selects how the UI adapter presents the tag search widget.
// All modes drive the same engine; only rendering differs.
type WidgetMode string

// Available widget modes.
const (
	// WidgetModeInline renders chips and candidates inline under the input.
	WidgetModeInline WidgetMode = "inline"

	// WidgetModeModal renders the widget inside a bordered overlay.
	WidgetModeModal WidgetMode = "modal"

	// WidgetModeMobile renders a compact single-column layout with fewer candidates.
	WidgetModeMobile WidgetMode = "mobile"
)

// IsValid returns true if the widget mode is recognised.
func (m WidgetMode) IsValid() bool {
	switch m {
	case WidgetModeInline, WidgetModeModal, WidgetModeMobile:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m WidgetMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m WidgetMode) Description() string {
	switch m {
	case WidgetModeInline:
		return "Inline (chips and candidates under the input)"
	case WidgetModeModal:
		return "Modal (bordered overlay)"
	case WidgetModeMobile:
		return "Mobile (compact, single column)"
	default:
		return unknownDescription
	}
}

// Threshold and debounce bounds.
const (
	// DefaultMinScore is the strict visibility threshold: a fuzzy match must
	// score above it to be shown.
	DefaultMinScore = 10.0

	// MinDebounce is the lower bound on input quiescence before a remote fetch.
	MinDebounce = 150 * time.Millisecond
)

// FilterSettings configures relevance filtering.
type FilterSettings struct {
	// MinScore is the exclusive lower bound for visible matches. Zero is
	// the lenient threshold: any match at all is shown.
	MinScore float64
}

// DefaultFilterSettings returns the default relevance filtering settings.
func DefaultFilterSettings() FilterSettings {
	return FilterSettings{MinScore: DefaultMinScore}
}

// RemoteSettings configures the optional remote search collaborators.
type RemoteSettings struct {
	// SearchURL is the remote search endpoint. Empty disables predictive fetch.
	SearchURL string

	// ParentLookupURL is the parent tag lookup endpoint. Empty disables it.
	ParentLookupURL string

	// Limit is the maximum number of remote results requested.
	Limit int

	// MinQueryLength is the shortest query that triggers a remote fetch.
	MinQueryLength int

	// Debounce is the input quiescence required before fetching.
	Debounce time.Duration

	// RequestsPerSecond caps the sustained request rate. Zero disables
	// rate limiting.
	RequestsPerSecond float64

	// Timeout bounds a single HTTP request.
	Timeout time.Duration
}

// IsConfigured returns true if the remote search endpoint is set.
func (r RemoteSettings) IsConfigured() bool {
	return r.SearchURL != ""
}

// EffectiveDebounce returns the debounce clamped to MinDebounce.
func (r RemoteSettings) EffectiveDebounce() time.Duration {
	if r.Debounce < MinDebounce {
		return MinDebounce
	}
	return r.Debounce
}

// SiteSettings describes the site search URLs are built for.
type SiteSettings struct {
	// Origin is the scheme and host prefix of submitted search URLs.
	Origin string
}

// UISettings configures the interactive adapter.
type UISettings struct {
	Mode WidgetMode
}

// CatalogSettings points at an optional YAML catalog file.
type CatalogSettings struct {
	// Path is imported at start-up and watched for changes by the TUI.
	Path string
}

// AppSettings holds all application configuration.
type AppSettings struct {
	Site    SiteSettings
	Filter  FilterSettings
	Remote  RemoteSettings
	UI      UISettings
	Catalog CatalogSettings
}

// DefaultAppSettings returns the default application settings.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Site: SiteSettings{
			Origin: "https://example.com",
		},
		Filter: DefaultFilterSettings(),
		Remote: RemoteSettings{
			Limit:             8,
			MinQueryLength:    3,
			Debounce:          250 * time.Millisecond,
			RequestsPerSecond: 5,
			Timeout:           5 * time.Second,
		},
		UI: UISettings{
			Mode: WidgetModeInline,
		},
	}
}

// Validate checks the settings for values the engine cannot use.
func (s AppSettings) Validate() error {
	if err := validateHTTPURL("site.origin", s.Site.Origin, true); err != nil {
		return err
	}
	if s.Filter.MinScore < 0 {
		return fmt.Errorf("%w: filter.min_score must not be negative", ErrInvalidSetting)
	}
	if err := validateHTTPURL("remote.search_url", s.Remote.SearchURL, false); err != nil {
		return err
	}
	if err := validateHTTPURL("remote.parent_lookup_url", s.Remote.ParentLookupURL, false); err != nil {
		return err
	}
	if s.Remote.Limit < 0 || s.Remote.MinQueryLength < 0 || s.Remote.Debounce < 0 || s.Remote.Timeout < 0 {
		return fmt.Errorf("%w: remote settings must not be negative", ErrInvalidSetting)
	}
	if s.Remote.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: remote.requests_per_second must not be negative", ErrInvalidSetting)
	}
	if !s.UI.Mode.IsValid() {
		return fmt.Errorf("%w: unknown ui.mode %q", ErrInvalidSetting, s.UI.Mode)
	}
	return nil
}

// Value returns the setting stored under the dotted config key, formatted
// the way it is written to the config file.
func (s AppSettings) Value(key string) (string, bool) {
	switch key {
	case "site.origin":
		return s.Site.Origin, true
	case "filter.min_score":
		return strconv.FormatFloat(s.Filter.MinScore, 'g', -1, 64), true
	case "remote.search_url":
		return s.Remote.SearchURL, true
	case "remote.parent_lookup_url":
		return s.Remote.ParentLookupURL, true
	case "remote.limit":
		return strconv.Itoa(s.Remote.Limit), true
	case "remote.min_query_length":
		return strconv.Itoa(s.Remote.MinQueryLength), true
	case "remote.debounce_ms":
		return strconv.FormatInt(s.Remote.Debounce.Milliseconds(), 10), true
	case "remote.requests_per_second":
		return strconv.FormatFloat(s.Remote.RequestsPerSecond, 'g', -1, 64), true
	case "remote.timeout_ms":
		return strconv.FormatInt(s.Remote.Timeout.Milliseconds(), 10), true
	case "ui.mode":
		return s.UI.Mode.String(), true
	case "catalog.path":
		return s.Catalog.Path, true
	}
	return "", false
}

func validateHTTPURL(key, raw string, required bool) error {
	if raw == "" {
		if required {
			return fmt.Errorf("%w: %s is required", ErrInvalidSetting, key)
		}
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s must be an http(s) URL", ErrInvalidSetting, key)
	}
	return nil
}
