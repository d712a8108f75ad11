// Package widget provides the tag search widget view for the TUI.
// The same engine drives every widget mode; only the layout differs.
package widget

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/components/chips"
	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tagsearch/internal/core/domain"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driving"
	"github.com/custodia-labs/tagsearch/internal/logger"
)

// Layout limits per widget mode.
const (
	modalMaxWidth     = 72
	mobileMaxWidth    = 40
	mobileMaxVisible  = 5
	defaultMaxVisible = list.DefaultMaxVisible
)

// Config holds the services and options of a widget view.
type Config struct {
	// Catalog builds the engine and merges reloaded catalogs. Required.
	Catalog driving.CatalogService

	// SearchLog records submitted searches. Optional.
	SearchLog driving.SearchLogService

	// NewPredictor builds the remote predictor for an engine. Optional.
	NewPredictor func(engine driving.TagFilter) driving.Predictor

	// Mode selects the layout.
	Mode domain.WidgetMode

	// Origin prefixes submitted search URLs.
	Origin string
}

// submission is what the engine reported through OnSubmit.
type submission struct {
	tags  []string
	query string
}

// View is the tag search widget: an input, the selected chips, the
// visible candidates and a status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.TagInput
	list      *list.CandidateList
	chips     *chips.Chips
	statusbar *status.Bar

	catalog      driving.CatalogService
	searchLog    driving.SearchLogService
	newPredictor func(driving.TagFilter) driving.Predictor
	ctx          context.Context

	engine     driving.TagFilter
	predictor  driving.Predictor
	generation int
	submitted  *submission

	mode    domain.WidgetMode
	origin  string
	lastURL string

	width  int
	height int
	ready  bool
	err    error

	log logger.Scoped
}

// NewView creates a new widget view.
func NewView(s *styles.Styles, km *keymap.KeyMap, cfg Config) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if !cfg.Mode.IsValid() {
		cfg.Mode = domain.WidgetModeInline
	}
	if cfg.Origin == "" {
		cfg.Origin = domain.DefaultAppSettings().Site.Origin
	}

	v := &View{
		styles:       s,
		keymap:       km,
		input:        input.NewTagInput(s),
		list:         list.NewCandidateList(s),
		chips:        chips.New(s),
		statusbar:    status.NewBar(s, km),
		catalog:      cfg.Catalog,
		searchLog:    cfg.SearchLog,
		newPredictor: cfg.NewPredictor,
		ctx:          context.Background(),
		origin:       cfg.Origin,
		width:        80,
		height:       24,
		log:          logger.WithScope("tui"),
	}
	v.SetMode(cfg.Mode)
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the engine and starts the cursor blink.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.loadEngine(false))
}

// loadEngine builds an engine from the stored catalog.
func (v *View) loadEngine(reload bool) tea.Cmd {
	catalog := v.catalog
	ctx := v.ctx
	hooks := v.hooks()
	return func() tea.Msg {
		if catalog == nil {
			return messages.EngineLoaded{Reload: reload, Err: fmt.Errorf("catalog service not configured")}
		}
		engine, err := catalog.NewEngine(ctx, hooks)
		return messages.EngineLoaded{Engine: engine, Reload: reload, Err: err}
	}
}

// hooks subscribes the view to engine events. Hooks only fire from
// engine calls made inside Update.
func (v *View) hooks() domain.EngineHooks {
	return domain.EngineHooks{
		OnFilterResultsChanged: func(result domain.FilterResult) {
			v.list.SetResult(result)
			v.statusbar.SetCounts(result.Len(), v.chips.Count())
		},
		OnSelectionChanged: func(selection []string) {
			if v.engine != nil {
				v.chips.SetEntries(v.engine.Entries())
			}
			v.statusbar.SetCounts(v.list.Count(), len(selection))
		},
		OnTagSelected: func(entry domain.SelectionEntry) {
			if entry.AliasOf != "" {
				v.statusbar.Info(fmt.Sprintf("Added %s (for %s)", entry.DisplayText, entry.AliasOf))
				return
			}
			v.statusbar.Info("Added " + entry.DisplayText)
		},
		OnTagDeselected: func(id string) {
			v.statusbar.Info("Removed " + id)
		},
		OnSubmit: func(selection []string, query string) {
			v.submitted = &submission{tags: selection, query: query}
		},
	}
}

// Update handles messages for the widget view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.EngineLoaded:
		v.handleEngineLoaded(msg)
		return v, nil

	case messages.PredictDue:
		return v, v.handlePredictDue(msg)

	case messages.PredictCompleted:
		v.handlePredictCompleted(msg)
		return v, nil

	case messages.ParentResolved:
		v.handleParentResolved(msg)
		return v, nil

	case messages.CatalogChanged:
		return v, v.handleCatalogChanged(msg)

	case messages.SearchSubmitted:
		if msg.Err != nil {
			v.setError(fmt.Errorf("recording search: %w", msg.Err))
			return v, nil
		}
		v.statusbar.SetState(status.StateSubmitted)
		v.statusbar.SetMessage(msg.URL)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func (v *View) handleEngineLoaded(msg messages.EngineLoaded) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	previous := v.engine
	if v.predictor != nil {
		v.predictor.Close()
		v.predictor = nil
	}

	v.generation++
	v.engine = msg.Engine
	if v.newPredictor != nil {
		v.predictor = v.newPredictor(v.engine)
	}

	if msg.Reload && previous != nil {
		for _, e := range previous.Entries() {
			v.engine.Select(e.ID)
		}
	}
	v.engine.Filter(v.input.Value())

	if msg.Reload {
		v.statusbar.Info(fmt.Sprintf("Catalog reloaded (%d tags)", len(v.engine.Candidates())))
	}
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	if v.engine == nil {
		if keymap.Matches(keyStr, v.keymap.Back) {
			return v, quit
		}
		return v, nil
	}

	if v.chips.Focus() != chips.NoFocus {
		if handled := v.handleChipKey(keyStr); handled {
			return v, nil
		}
		v.chips.Blur()
		v.statusbar.Clear()
	}

	query := v.input.Value()

	switch {
	case keymap.Matches(keyStr, v.keymap.History):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHistory} }

	case keymap.Matches(keyStr, v.keymap.Settings):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewSettings} }

	case keymap.Matches(keyStr, v.keymap.Up):
		v.list.MoveUp()
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Down):
		v.list.MoveDown()
		return v, nil

	case keymap.Matches(keyStr, v.keymap.SelectTop):
		if c := v.list.SelectedCandidate(); c != nil {
			return v, v.pick(c.ID, query)
		}
		if strings.TrimSpace(query) != "" {
			return v, v.pick(query, query)
		}
		return v, nil

	case keymap.Matches(keyStr, v.keymap.AddText):
		if strings.TrimSpace(query) == "" {
			return v, nil
		}
		return v, v.pick(query, query)

	case keymap.Matches(keyStr, v.keymap.Submit):
		return v, v.submit()

	case keymap.Matches(keyStr, v.keymap.ClearAll):
		v.engine.ClearAll()
		v.input.Reset()
		v.engine.Filter("")
		v.statusbar.Clear()
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Back):
		if query == "" {
			return v, quit
		}
		v.input.Reset()
		return v, v.queryChanged("")

	case keymap.Matches(keyStr, v.keymap.ChipLeft) && query == "":
		if v.chips.FocusLast() {
			v.statusbar.SetState(status.StateChips)
		}
		return v, nil

	case keymap.Matches(keyStr, v.keymap.RemoveLast) && query == "":
		if _, ok := v.engine.RemoveLast(); ok {
			v.engine.Filter("")
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	if v.input.Value() != query {
		return v, tea.Batch(cmd, v.queryChanged(v.input.Value()))
	}
	return v, cmd
}

// handleChipKey handles keys while a chip is focused. It reports false for
// keys that should leave chip focus and reach the input.
func (v *View) handleChipKey(keyStr string) bool {
	switch {
	case keymap.Matches(keyStr, v.keymap.ChipLeft):
		v.chips.Left()
	case keymap.Matches(keyStr, v.keymap.ChipRight):
		if !v.chips.Right() {
			v.statusbar.Clear()
		}
	case keymap.Matches(keyStr, v.keymap.Deselect):
		if e, ok := v.chips.Focused(); ok {
			v.engine.Deselect(e.ID)
			v.engine.Filter(v.input.Value())
		}
		if v.chips.Count() == 0 {
			v.chips.Blur()
		} else {
			v.statusbar.SetState(status.StateChips)
		}
	case keymap.Matches(keyStr, v.keymap.Back):
		v.chips.Blur()
		v.statusbar.Clear()
	default:
		return false
	}
	return true
}

// queryChanged filters the pool and schedules a debounced remote fetch.
func (v *View) queryChanged(query string) tea.Cmd {
	v.engine.Filter(query)
	if v.statusbar.State() == status.StateFetching || v.statusbar.State() == status.StateInfo {
		v.statusbar.Clear()
	}

	if v.predictor == nil {
		return nil
	}
	ticket, ok := v.predictor.Begin(query)
	if !ok {
		return nil
	}
	generation := v.generation
	return tea.Tick(v.predictor.Debounce(), func(time.Time) tea.Msg {
		return messages.PredictDue{Ticket: ticket, Generation: generation}
	})
}

func (v *View) handlePredictDue(msg messages.PredictDue) tea.Cmd {
	if msg.Generation != v.generation || v.predictor == nil || !v.predictor.IsCurrent(msg.Ticket) {
		return nil
	}
	v.statusbar.SetState(status.StateFetching)

	predictor := v.predictor
	ctx := v.ctx
	return func() tea.Msg {
		return messages.PredictCompleted{
			Ticket:     msg.Ticket,
			Generation: msg.Generation,
			Results:    predictor.Fetch(ctx, msg.Ticket),
		}
	}
}

func (v *View) handlePredictCompleted(msg messages.PredictCompleted) {
	if v.statusbar.State() == status.StateFetching {
		v.statusbar.Clear()
	}
	if msg.Generation != v.generation || v.predictor == nil || len(msg.Results) == 0 {
		return
	}
	if v.predictor.Apply(msg.Ticket, msg.Results) {
		v.log.Debug("merged %d remote results for %q", len(msg.Results), msg.Ticket.Query)
	}
}

// pick selects text, resolving its parent first when a predictor is set.
func (v *View) pick(text, query string) tea.Cmd {
	if v.predictor == nil {
		v.handleParentResolved(messages.ParentResolved{Text: text, Query: query})
		return nil
	}
	predictor := v.predictor
	ctx := v.ctx
	return func() tea.Msg {
		parent, _ := predictor.ResolveParent(ctx, text)
		return messages.ParentResolved{Text: text, Query: query, Parent: parent}
	}
}

func (v *View) handleParentResolved(msg messages.ParentResolved) {
	if v.engine == nil {
		return
	}
	outcome := v.engine.Select(msg.Text)
	if outcome.Kind == domain.OutcomeAlreadySelected {
		v.statusbar.Info(outcome.Entry.DisplayText + " is already selected")
	}

	if v.input.Value() == msg.Query {
		v.input.Reset()
		v.engine.Filter("")
		return
	}
	// The user kept typing while the parent was looked up.
	v.engine.Filter(v.input.Value())
}

// submit builds the URL, ends the session and records it.
func (v *View) submit() tea.Cmd {
	v.submitted = nil
	url := v.engine.Submit(v.origin)
	v.lastURL = url
	v.input.Reset()
	v.engine.Filter("")
	v.chips.SetEntries(nil)
	v.chips.Blur()

	v.statusbar.SetState(status.StateSubmitted)
	v.statusbar.SetMessage(url)

	if v.searchLog == nil || v.submitted == nil {
		return nil
	}
	searchLog := v.searchLog
	ctx := v.ctx
	sub := *v.submitted
	return func() tea.Msg {
		entry, err := searchLog.Record(ctx, sub.tags, sub.query, url)
		return messages.SearchSubmitted{URL: url, Entry: entry, Err: err}
	}
}

func (v *View) handleCatalogChanged(msg messages.CatalogChanged) tea.Cmd {
	if msg.Err != nil {
		v.setError(fmt.Errorf("catalog reload: %w", msg.Err))
		return nil
	}
	if v.catalog == nil {
		return nil
	}

	catalog := v.catalog
	ctx := v.ctx
	load := v.loadEngine(true)
	return func() tea.Msg {
		if _, _, err := catalog.Merge(ctx, msg.Catalog); err != nil {
			return messages.ErrorOccurred{Err: fmt.Errorf("catalog reload: %w", err)}
		}
		return load()
	}
}

func quit() tea.Msg {
	return messages.Quit{}
}

// View renders the widget in the current mode.
func (v *View) View() string {
	var sections []string

	if v.mode != domain.WidgetModeMobile {
		sections = append(sections, v.styles.Title.Render("Tag search"), "")
	}
	sections = append(sections, v.input.View())
	if chipView := v.chips.View(); chipView != "" {
		sections = append(sections, chipView)
	}
	sections = append(sections, "", v.list.View(), "", v.statusbar.View())

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if v.mode == domain.WidgetModeModal {
		box := v.styles.Modal.Render(body)
		//nolint:misspell // lipgloss.Center is the correct constant from the library
		return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, box)
	}
	return body
}

// SetMode switches the layout.
func (v *View) SetMode(mode domain.WidgetMode) {
	if !mode.IsValid() {
		return
	}
	v.mode = mode

	switch mode {
	case domain.WidgetModeMobile:
		v.list.SetMaxVisible(mobileMaxVisible)
		v.chips.SetCompact(true)
		v.input.SetLabel("")
	case domain.WidgetModeModal, domain.WidgetModeInline:
		v.list.SetMaxVisible(defaultMaxVisible)
		v.chips.SetCompact(false)
		v.input.SetLabel("Tags: ")
	}
	v.SetDimensions(v.width, v.height)
}

// SetOrigin sets the site origin used for submitted URLs.
func (v *View) SetOrigin(origin string) {
	if origin != "" {
		v.origin = origin
	}
}

// SetDimensions sets the terminal dimensions and sizes the components.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height

	contentWidth := v.contentWidth()
	v.input.SetWidth(contentWidth)
	v.list.SetWidth(contentWidth)
	v.chips.SetWidth(contentWidth)
	v.statusbar.SetWidth(contentWidth)
}

// contentWidth returns the width available inside the current layout.
func (v *View) contentWidth() int {
	switch v.mode {
	case domain.WidgetModeModal:
		// Border and padding take six columns.
		w := v.width - 6
		if w > modalMaxWidth {
			w = modalMaxWidth
		}
		return w
	case domain.WidgetModeMobile:
		if v.width > mobileMaxWidth {
			return mobileMaxWidth
		}
		return v.width
	case domain.WidgetModeInline:
	}
	return v.width
}

// Reset clears the query and selection without submitting.
func (v *View) Reset() {
	if v.engine != nil {
		v.engine.ClearAll()
		v.engine.Filter("")
	}
	v.input.Reset()
	v.chips.Blur()
	v.statusbar.Clear()
	v.err = nil
}

// Close stops the predictor.
func (v *View) Close() {
	if v.predictor != nil {
		v.predictor.Close()
		v.predictor = nil
	}
}

// Mode returns the current layout mode.
func (v *View) Mode() domain.WidgetMode {
	return v.mode
}

// Engine returns the current engine, or nil before it has loaded.
func (v *View) Engine() driving.TagFilter {
	return v.engine
}

// Query returns the current input value.
func (v *View) Query() string {
	return v.input.Value()
}

// Chips returns the selected entries as displayed.
func (v *View) Chips() []domain.SelectionEntry {
	return v.chips.Entries()
}

// Candidates returns the visible candidates as displayed.
func (v *View) Candidates() []domain.ScoredCandidate {
	return v.list.Matches()
}

// LastURL returns the most recently submitted search URL.
func (v *View) LastURL() string {
	return v.lastURL
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Ready returns whether the view has received dimensions.
func (v *View) Ready() bool {
	return v.ready
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}
