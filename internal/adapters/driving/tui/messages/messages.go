// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/tagsearch/internal/core/domain"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driving"
)

// EngineLoaded carries a filter engine built from the stored catalog.
// Reload is set when it replaces an engine after a catalog change.
type EngineLoaded struct {
	Engine driving.TagFilter
	Reload bool
	Err    error
}

// PredictDue fires once the debounce period for a ticket has elapsed.
// Generation identifies the engine the ticket was issued for.
type PredictDue struct {
	Ticket     domain.PredictTicket
	Generation int
}

// PredictCompleted carries remote candidates for a ticket.
type PredictCompleted struct {
	Ticket     domain.PredictTicket
	Generation int
	Results    []domain.RemoteResult
}

// ParentResolved is sent once the parent of a tag about to be selected
// has been looked up. Text is selected when the message is handled; Query
// is the input value at the time the tag was picked.
type ParentResolved struct {
	Text   string
	Query  string
	Parent string
}

// CatalogChanged is sent by the catalog file watcher.
type CatalogChanged struct {
	Catalog domain.Catalog
	Err     error
}

// SearchSubmitted signals the selection was submitted and logged.
type SearchSubmitted struct {
	URL   string
	Entry *domain.SearchLogEntry
	Err   error
}

// HistoryLoaded carries recently submitted searches.
type HistoryLoaded struct {
	Entries []domain.SearchLogEntry
	Err     error
}

// SettingsLoaded carries the current settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals that one setting was written.
type SettingsSaved struct {
	Key string
	Err error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewWidget is the tag search widget.
	ViewWidget ViewType = iota
	// ViewHistory lists submitted searches.
	ViewHistory
	// ViewSettings edits the configuration.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewWidget:
		return "widget"
	case ViewHistory:
		return "history"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
