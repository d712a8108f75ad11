package driving

import "github.com/custodia-labs/tagsearch/internal/core/domain"

// TagFilter is the per-widget tag selection and filtering engine.
// One instance owns one search session: its candidate pool, selection
// and current query. Operations never fail; invalid input is a no-op.
type TagFilter interface {
	// Filter ranks unselected candidates against query and records it
	// as the current query.
	Filter(query string) domain.FilterResult

	// Select adds a candidate (or free text) to the selection, resolving
	// child tags to their parent first. The current query is consumed.
	Select(idOrText string) domain.SelectionOutcome

	// Deselect removes id from the selection. Returns whether it was present.
	Deselect(id string) bool

	// ClearAll empties the selection and query, returning the removed ids.
	ClearAll() []string

	// RemoveLast pops the most recently selected id.
	RemoveLast() (string, bool)

	// BuildSubmitURL builds the search URL for the current state.
	BuildSubmitURL(origin string) string

	// Submit builds the search URL, notifies subscribers and ends the session.
	Submit(origin string) string

	// MergeRemote adds remote results to the candidate pool.
	MergeRemote(results []domain.RemoteResult) []domain.TagCandidate

	// AddAlias registers a child -> parent mapping.
	AddAlias(child, parent string)

	// ResolveAlias returns the parent for child, if one is mapped.
	ResolveAlias(child string) (string, bool)

	// Selection returns the selected ids in insertion order.
	Selection() []string

	// Entries returns the selected entries in insertion order.
	Entries() []domain.SelectionEntry

	// Candidates returns the candidate pool in pool order.
	Candidates() []domain.TagCandidate

	// CurrentQuery returns the query of the last Filter call.
	CurrentQuery() string

	// State reports whether the session is idle or filtering.
	State() domain.EngineState
}
