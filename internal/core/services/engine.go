package services

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driving"
	"github.com/custodia-labs/tagsearch/internal/logger"
)

// Verify interface compliance.
var _ driving.TagFilter = (*TagFilterEngine)(nil)

// TagFilterEngine owns the candidate pool, the selection and the current
// query for one search session. It is safe for concurrent use; hooks are
// invoked after the internal lock is released.
type TagFilterEngine struct {
	mu sync.RWMutex

	id    string
	pool  []domain.TagCandidate
	index map[string]int // folded id and display text -> pool position

	// aliases maps a folded child tag onto its parent's text.
	aliases map[string]string

	selection []domain.SelectionEntry
	query     string

	settings domain.FilterSettings
	hooks    domain.EngineHooks
	log      logger.Scoped
}

// NewTagFilterEngine creates an engine over a fixed candidate list.
// Duplicate candidates are dropped, first wins. settings.MinScore is used
// as given; see domain.DefaultFilterSettings for the default threshold.
func NewTagFilterEngine(candidates []domain.TagCandidate, aliases map[string]string, settings domain.FilterSettings) *TagFilterEngine {
	id := uuid.NewString()
	e := &TagFilterEngine{
		id:       id,
		pool:     make([]domain.TagCandidate, 0, len(candidates)),
		index:    make(map[string]int, len(candidates)),
		aliases:  make(map[string]string, len(aliases)),
		settings: settings,
		log:      logger.WithScope("engine " + id[:8]),
	}
	for _, c := range candidates {
		e.addCandidateLocked(c)
	}
	for child, parent := range aliases {
		e.addAliasLocked(child, parent)
	}

	e.log.Debug("created with %d candidates, %d aliases", len(e.pool), len(e.aliases))
	return e
}

// SetHooks replaces the engine's callbacks.
func (e *TagFilterEngine) SetHooks(hooks domain.EngineHooks) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hooks = hooks
}

// ID returns the session id of this engine.
func (e *TagFilterEngine) ID() string {
	return e.id
}

// Filter scores every unselected candidate against query and returns the
// visible ones, best first. The query becomes the current query.
func (e *TagFilterEngine) Filter(query string) domain.FilterResult {
	e.mu.Lock()
	e.query = query
	result := e.filterLocked(query)
	hooks := e.hooks
	e.mu.Unlock()

	e.log.Debug("filter %q: %d matches", query, result.Len())
	if hooks.OnFilterResultsChanged != nil {
		hooks.OnFilterResultsChanged(result)
	}
	return result
}

// Results recomputes the filter for the current query without firing hooks.
func (e *TagFilterEngine) Results() domain.FilterResult {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.filterLocked(e.query)
}

func (e *TagFilterEngine) filterLocked(query string) domain.FilterResult {
	result := domain.FilterResult{Query: query, Matches: []domain.ScoredCandidate{}}
	selected := e.selectedKeysLocked()
	trimmed := strings.TrimSpace(query)

	var children map[string][]string
	if trimmed != "" {
		children = e.childrenByParentLocked()
	}

	for _, c := range e.pool {
		if e.hiddenLocked(c, selected) {
			continue
		}
		if trimmed == "" {
			result.Matches = append(result.Matches, domain.ScoredCandidate{Candidate: c, Score: ScoreEmptyQuery})
			continue
		}

		score := Relevance(c.Label(), trimmed)
		for _, child := range children[c.Key()] {
			if s := ParentAliasFactor * Relevance(child, trimmed); s > score {
				score = s
			}
		}
		if score > e.settings.MinScore {
			result.Matches = append(result.Matches, domain.ScoredCandidate{Candidate: c, Score: score})
		}
	}

	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].Score > result.Matches[j].Score
	})
	return result
}

// hiddenLocked reports whether c is selected, or is a child whose parent is selected.
func (e *TagFilterEngine) hiddenLocked(c domain.TagCandidate, selected map[string]bool) bool {
	if selected[c.Key()] || selected[domain.FoldKey(c.DisplayText)] {
		return true
	}
	if parent, ok := e.aliases[c.Key()]; ok {
		return selected[e.canonicalKeyLocked(parent)]
	}
	return false
}

func (e *TagFilterEngine) childrenByParentLocked() map[string][]string {
	children := make(map[string][]string)
	for child, parent := range e.aliases {
		key := e.canonicalKeyLocked(parent)
		children[key] = append(children[key], child)
	}
	return children
}

// canonicalKeyLocked folds text to the key of the candidate it names, if any.
func (e *TagFilterEngine) canonicalKeyLocked(text string) string {
	key := domain.FoldKey(text)
	if i, ok := e.index[key]; ok {
		return e.pool[i].Key()
	}
	return key
}

func (e *TagFilterEngine) selectedKeysLocked() map[string]bool {
	selected := make(map[string]bool, len(e.selection))
	for _, s := range e.selection {
		selected[domain.FoldKey(s.ID)] = true
	}
	return selected
}

// Select adds a candidate or free text to the selection. Aliased children
// are remapped to their parent first. The current query is cleared unless
// the input is empty.
func (e *TagFilterEngine) Select(idOrText string) domain.SelectionOutcome {
	raw := strings.TrimSpace(idOrText)
	if raw == "" {
		return domain.SelectionOutcome{Kind: domain.OutcomeIgnored}
	}

	e.mu.Lock()
	entry := e.resolveLocked(raw)
	e.query = ""

	for _, s := range e.selection {
		if domain.FoldKey(s.ID) == domain.FoldKey(entry.ID) {
			e.mu.Unlock()
			e.log.Debug("select %q: already selected as %q", raw, s.ID)
			return domain.SelectionOutcome{Kind: domain.OutcomeAlreadySelected, Entry: s}
		}
	}

	e.selection = append(e.selection, entry)
	selection := e.selectionIDsLocked()
	hooks := e.hooks
	e.mu.Unlock()

	e.log.Debug("selected %q (free text: %t, alias of: %q)", entry.ID, entry.FreeText, entry.AliasOf)
	if hooks.OnTagSelected != nil {
		hooks.OnTagSelected(entry)
	}
	if hooks.OnSelectionChanged != nil {
		hooks.OnSelectionChanged(selection)
	}
	return domain.SelectionOutcome{Kind: domain.OutcomeSelected, Entry: entry}
}

func (e *TagFilterEngine) resolveLocked(raw string) domain.SelectionEntry {
	entry := domain.SelectionEntry{}
	text := raw
	if parent, ok := e.aliases[domain.FoldKey(raw)]; ok {
		text = parent
		entry.AliasOf = raw
	}

	if i, ok := e.index[domain.FoldKey(text)]; ok {
		entry.ID = e.pool[i].ID
		entry.DisplayText = e.pool[i].Label()
		return entry
	}

	entry.ID = text
	entry.DisplayText = text
	entry.FreeText = true
	return entry
}

// Deselect removes id from the selection. It reports whether it was present.
func (e *TagFilterEngine) Deselect(id string) bool {
	key := domain.FoldKey(id)
	if key == "" {
		return false
	}

	e.mu.Lock()
	removed := ""
	for i, s := range e.selection {
		if domain.FoldKey(s.ID) == key {
			removed = s.ID
			e.selection = append(e.selection[:i], e.selection[i+1:]...)
			break
		}
	}
	if removed == "" {
		e.mu.Unlock()
		return false
	}
	selection := e.selectionIDsLocked()
	hooks := e.hooks
	e.mu.Unlock()

	e.notifyDeselected(hooks, removed, selection)
	return true
}

// notifyDeselected fires the hooks for one removed entry. Call it without
// holding e.mu.
func (e *TagFilterEngine) notifyDeselected(hooks domain.EngineHooks, removed string, selection []string) {
	e.log.Debug("deselected %q", removed)
	if hooks.OnTagDeselected != nil {
		hooks.OnTagDeselected(removed)
	}
	if hooks.OnSelectionChanged != nil {
		hooks.OnSelectionChanged(selection)
	}
}

// ClearAll empties the selection and the query, returning the previous selection.
func (e *TagFilterEngine) ClearAll() []string {
	e.mu.Lock()
	previous := e.selectionIDsLocked()
	e.selection = nil
	e.query = ""
	hooks := e.hooks
	e.mu.Unlock()

	e.log.Debug("cleared %d selected tags", len(previous))
	if hooks.OnTagDeselected != nil {
		for _, id := range previous {
			hooks.OnTagDeselected(id)
		}
	}
	if hooks.OnSelectionChanged != nil {
		hooks.OnSelectionChanged([]string{})
	}
	return previous
}

// RemoveLast pops the most recently selected entry.
func (e *TagFilterEngine) RemoveLast() (string, bool) {
	e.mu.Lock()
	n := len(e.selection)
	if n == 0 {
		e.mu.Unlock()
		return "", false
	}
	last := e.selection[n-1].ID
	e.selection = e.selection[:n-1]
	selection := e.selectionIDsLocked()
	hooks := e.hooks
	e.mu.Unlock()

	e.notifyDeselected(hooks, last, selection)
	return last, true
}

// BuildSubmitURL returns the search URL for the current selection and query.
func (e *TagFilterEngine) BuildSubmitURL(origin string) string {
	e.mu.RLock()
	tags := e.selectionIDsLocked()
	query := e.query
	e.mu.RUnlock()
	return BuildSearchURL(origin, tags, query)
}

// Submit builds the search URL, fires OnSubmit and ends the session by
// clearing the selection and query.
func (e *TagFilterEngine) Submit(origin string) string {
	e.mu.Lock()
	tags := e.selectionIDsLocked()
	query := e.query
	e.selection = nil
	e.query = ""
	hooks := e.hooks
	e.mu.Unlock()

	url := BuildSearchURL(origin, tags, query)
	e.log.Info("submit %s", url)
	if hooks.OnSubmit != nil {
		hooks.OnSubmit(tags, query)
	}
	if hooks.OnSelectionChanged != nil && len(tags) > 0 {
		hooks.OnSelectionChanged([]string{})
	}
	return url
}

// MergeRemote adds unseen remote results to the pool and re-filters the
// current query. Selection and query are left untouched. Returns the
// candidates that were added.
func (e *TagFilterEngine) MergeRemote(results []domain.RemoteResult) []domain.TagCandidate {
	e.mu.Lock()
	added := make([]domain.TagCandidate, 0, len(results))
	for _, r := range results {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			continue
		}
		c := domain.TagCandidate{
			ID:          text,
			DisplayText: text,
			IsParent:    r.IsParent,
			Origin:      domain.OriginRemote,
		}
		if e.addCandidateLocked(c) {
			added = append(added, c)
		}
		if child := strings.TrimSpace(r.MatchedChild); child != "" {
			if _, aliased := e.aliases[domain.FoldKey(child)]; !aliased {
				e.addAliasLocked(child, text)
			}
		}
	}
	result := e.filterLocked(e.query)
	hooks := e.hooks
	e.mu.Unlock()

	e.log.Debug("merged %d of %d remote results", len(added), len(results))
	if hooks.OnFilterResultsChanged != nil {
		hooks.OnFilterResultsChanged(result)
	}
	return added
}

func (e *TagFilterEngine) addCandidateLocked(c domain.TagCandidate) bool {
	c.ID = strings.TrimSpace(c.ID)
	c.DisplayText = strings.TrimSpace(c.DisplayText)
	if c.ID == "" {
		c.ID = c.DisplayText
	}
	if c.ID == "" {
		return false
	}
	if _, ok := e.index[c.Key()]; ok {
		return false
	}
	if _, ok := e.index[domain.FoldKey(c.DisplayText)]; ok {
		return false
	}

	e.pool = append(e.pool, c)
	pos := len(e.pool) - 1
	e.index[c.Key()] = pos
	if dk := domain.FoldKey(c.DisplayText); dk != "" {
		e.index[dk] = pos
	}
	return true
}

// AddAlias maps child onto parent. Mapping a tag onto itself is ignored.
func (e *TagFilterEngine) AddAlias(child, parent string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.addAliasLocked(child, parent)
}

func (e *TagFilterEngine) addAliasLocked(child, parent string) {
	ck := domain.FoldKey(child)
	parent = strings.TrimSpace(parent)
	if ck == "" || parent == "" || ck == domain.FoldKey(parent) {
		return
	}
	e.aliases[ck] = parent
}

// ResolveAlias returns the parent child is mapped onto.
func (e *TagFilterEngine) ResolveAlias(child string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	parent, ok := e.aliases[domain.FoldKey(child)]
	return parent, ok
}

// Aliases returns a copy of the alias map keyed by folded child text.
func (e *TagFilterEngine) Aliases() map[string]string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]string, len(e.aliases))
	for k, v := range e.aliases {
		out[k] = v
	}
	return out
}

// Selection returns the selected ids in insertion order.
func (e *TagFilterEngine) Selection() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selectionIDsLocked()
}

func (e *TagFilterEngine) selectionIDsLocked() []string {
	ids := make([]string, len(e.selection))
	for i, s := range e.selection {
		ids[i] = s.ID
	}
	return ids
}

// Entries returns the selection entries in insertion order.
func (e *TagFilterEngine) Entries() []domain.SelectionEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]domain.SelectionEntry, len(e.selection))
	copy(out, e.selection)
	return out
}

// Candidates returns the candidate pool in pool order.
func (e *TagFilterEngine) Candidates() []domain.TagCandidate {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]domain.TagCandidate, len(e.pool))
	copy(out, e.pool)
	return out
}

// CurrentQuery returns the query of the last Filter call.
func (e *TagFilterEngine) CurrentQuery() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.query
}

// SetQuery sets the current query without filtering or firing hooks.
func (e *TagFilterEngine) SetQuery(query string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.query = query
}

// State returns StateFiltering while the query is non-empty.
func (e *TagFilterEngine) State() domain.EngineState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if strings.TrimSpace(e.query) == "" {
		return domain.StateIdle
	}
	return domain.StateFiltering
}
