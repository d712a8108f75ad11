package domain

// ScoredCandidate pairs a candidate with its relevance for the current query.
type ScoredCandidate struct {
	Candidate TagCandidate `json:"candidate"`
	Score     float64      `json:"score"`
}

// FilterResult is the relevance-ranked set of visible candidates.
// Matches are ordered by descending score; ties keep pool order.
type FilterResult struct {
	// Query is the query the result was computed for.
	Query string `json:"query"`

	// Matches are the visible candidates.
	Matches []ScoredCandidate `json:"matches"`
}

// IDs returns the candidate ids in result order.
func (r FilterResult) IDs() []string {
	ids := make([]string, len(r.Matches))
	for i, m := range r.Matches {
		ids[i] = m.Candidate.ID
	}
	return ids
}

// Top returns the best match, if any.
func (r FilterResult) Top() (ScoredCandidate, bool) {
	if len(r.Matches) == 0 {
		return ScoredCandidate{}, false
	}
	return r.Matches[0], true
}

// Contains reports whether a candidate id is visible in the result.
func (r FilterResult) Contains(id string) bool {
	key := FoldKey(id)
	for _, m := range r.Matches {
		if m.Candidate.Key() == key {
			return true
		}
	}
	return false
}

// Len returns the number of visible candidates.
func (r FilterResult) Len() int {
	return len(r.Matches)
}

// EngineState is the per-session state of the filter engine.
type EngineState string

const (
	// StateIdle means the query is empty.
	StateIdle EngineState = "idle"

	// StateFiltering means a non-empty query narrows the candidates.
	StateFiltering EngineState = "filtering"
)

// EngineHooks are the callbacks a UI adapter subscribes to.
// Any hook may be nil.
type EngineHooks struct {
	OnSelectionChanged     func(selection []string)
	OnFilterResultsChanged func(result FilterResult)
	OnTagSelected          func(entry SelectionEntry)
	OnTagDeselected        func(id string)
	OnSubmit               func(selection []string, query string)
}
