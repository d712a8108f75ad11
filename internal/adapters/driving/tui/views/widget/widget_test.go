package widget

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tagsearch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/components/chips"
	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tagsearch/internal/core/domain"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driven"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driving"
	"github.com/custodia-labs/tagsearch/internal/core/services"
)

const testOrigin = "https://example.com"

type fakeSearcher struct {
	results map[string][]domain.RemoteResult
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ int) ([]domain.RemoteResult, error) {
	return f.results[query], nil
}

type fakeLookup struct {
	parents map[string]string
}

func (f *fakeLookup) LookupParent(_ context.Context, tag string) (string, error) {
	return f.parents[tag], nil
}

func newCatalog(t *testing.T, tags ...string) *services.CatalogService {
	t.Helper()
	catalog := services.NewCatalogService(memory.NewCatalogStore(), nil, domain.DefaultFilterSettings())
	for _, tag := range tags {
		require.NoError(t, catalog.AddTag(context.Background(), tag))
	}
	return catalog
}

func defaultCatalog(t *testing.T) *services.CatalogService {
	return newCatalog(t, "Wage & Hour", "Overtime", "Minimum Wage", "Retaliation")
}

// loadedView returns a view whose engine has been loaded.
func loadedView(t *testing.T, cfg Config) *View {
	t.Helper()
	if cfg.Origin == "" {
		cfg.Origin = testOrigin
	}
	v := NewView(nil, nil, cfg)
	v.SetDimensions(80, 24)
	v.Update(v.loadEngine(false)())
	require.NoError(t, v.Err())
	require.NotNil(t, v.Engine())
	return v
}

func withPredictor(searcher *fakeSearcher, lookup *fakeLookup) func(driving.TagFilter) driving.Predictor {
	settings := domain.DefaultAppSettings().Remote
	return func(engine driving.TagFilter) driving.Predictor {
		var s driven.RemoteSearcher
		if searcher != nil {
			s = searcher
		}
		var l driven.ParentLookup
		if lookup != nil {
			l = lookup
		}
		return services.NewPredictor(engine, s, l, settings)
	}
}

func typeText(v *View, text string) tea.Cmd {
	var cmd tea.Cmd
	for _, r := range text {
		_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return cmd
}

func press(v *View, keyType tea.KeyType) tea.Cmd {
	_, cmd := v.Update(tea.KeyMsg{Type: keyType})
	return cmd
}

func chipIDs(v *View) []string {
	ids := make([]string, 0, len(v.Chips()))
	for _, e := range v.Chips() {
		ids = append(ids, e.ID)
	}
	return ids
}

func candidateIDs(v *View) []string {
	ids := make([]string, 0, len(v.Candidates()))
	for _, m := range v.Candidates() {
		ids = append(ids, m.Candidate.ID)
	}
	return ids
}

func TestNewView_Defaults(t *testing.T) {
	v := NewView(nil, nil, Config{})

	require.NotNil(t, v)
	assert.Equal(t, domain.WidgetModeInline, v.Mode())
	assert.Equal(t, domain.DefaultAppSettings().Site.Origin, v.origin)
	assert.Nil(t, v.Engine())
	assert.False(t, v.Ready())
	assert.NotNil(t, v.Init())
}

func TestView_Update_WindowSize(t *testing.T) {
	v := NewView(nil, nil, Config{})

	updated, cmd := v.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Equal(t, v, updated)
	assert.Nil(t, cmd)
	assert.True(t, v.Ready())
	assert.Equal(t, 100, v.Width())
	assert.Equal(t, 30, v.Height())
}

func TestView_EngineLoaded_ShowsAllCandidates(t *testing.T) {
	v := loadedView(t, Config{Catalog: defaultCatalog(t)})

	assert.Equal(t, []string{"Wage & Hour", "Overtime", "Minimum Wage", "Retaliation"}, candidateIDs(v))
	assert.Equal(t, 4, v.statusbar.MatchCount())
}

func TestView_EngineLoaded_Error(t *testing.T) {
	v := NewView(nil, nil, Config{})

	v.Update(v.loadEngine(false)())

	require.Error(t, v.Err())
	assert.Nil(t, v.Engine())
	assert.Equal(t, status.StateError, v.statusbar.State())

	assert.Nil(t, typeText(v, "a"), "keys are ignored without an engine")
	cmd := press(v, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.Equal(t, messages.Quit{}, cmd())
}

func TestView_Typing_Filters(t *testing.T) {
	v := loadedView(t, Config{Catalog: defaultCatalog(t)})

	typeText(v, "wage")

	assert.Equal(t, "wage", v.Query())
	assert.Equal(t, []string{"Wage & Hour", "Minimum Wage"}, candidateIDs(v))
	assert.Equal(t, "wage", v.Engine().CurrentQuery())
}

func TestView_Tab_SelectsHighlighted(t *testing.T) {
	v := loadedView(t, Config{Catalog: defaultCatalog(t)})
	typeText(v, "wage")

	press(v, tea.KeyTab)

	assert.Equal(t, []string{"Wage & Hour"}, chipIDs(v))
	assert.Equal(t, "", v.Query())
	assert.NotContains(t, candidateIDs(v), "Wage & Hour")
	assert.Len(t, v.Candidates(), 3)
	assert.Equal(t, status.StateInfo, v.statusbar.State())
	assert.Equal(t, "Added Wage & Hour", v.statusbar.Message())
}

func TestView_Tab_AfterMovingDown(t *testing.T) {
	v := loadedView(t, Config{Catalog: defaultCatalog(t)})
	typeText(v, "wage")

	press(v, tea.KeyDown)
	press(v, tea.KeyTab)

	assert.Equal(t, []string{"Minimum Wage"}, chipIDs(v))
}

func TestView_Tab_NoMatches_AddsFreeText(t *testing.T) {
	v := loadedView(t, Config{Catalog: defaultCatalog(t)})
	typeText(v, "zzz")
	require.Empty(t, v.Candidates())

	press(v, tea.KeyTab)

	require.Len(t, v.Chips(), 1)
	assert.Equal(t, "zzz", v.Chips()[0].ID)
	assert.True(t, v.Chips()[0].FreeText)
}

func TestView_Tab_EmptyQueryNoCandidates(t *testing.T) {
	v := loadedView(t, Config{Catalog: newCatalog(t)})

	assert.Nil(t, press(v, tea.KeyTab))
	assert.Empty(t, v.Chips())
}

func TestView_AddText(t *testing.T) {
	v := loadedView(t, Config{Catalog: defaultCatalog(t)})
	typeText(v, "wage")

	press(v, tea.KeyCtrlT)

	require.Len(t, v.Chips(), 1)
	assert.Equal(t, "wage", v.Chips()[0].ID)
	assert.True(t, v.Chips()[0].FreeText)
}

func TestView_Tab_AlreadySelected(t *testing.T) {
	v := loadedView(t, Config{Catalog: defaultCatalog(t)})
	typeText(v, "over")
	press(v, tea.KeyTab)

	typeText(v, "overtime")
	press(v, tea.KeyCtrlT)

	assert.Equal(t, []string{"Overtime"}, chipIDs(v))
	assert.Equal(t, "Overtime is already selected", v.statusbar.Message())
	assert.Equal(t, "", v.Query())
}

func TestView_Backspace_RemovesLastOnEmptyInput(t *testing.T) {
	v := loadedView(t, Config{Catalog: defaultCatalog(t)})
	typeText(v, "wage")
	press(v, tea.KeyTab)
	typeText(v, "over")
	press(v, tea.KeyTab)
	require.Equal(t, []string{"Wage & Hour", "Overtime"}, chipIDs(v))

	typeText(v, "ab")
	press(v, tea.KeyBackspace)
	assert.Equal(t, "a", v.Query())
	assert.Len(t, v.Chips(), 2, "backspace edits a non-empty query")

	press(v, tea.KeyBackspace)
	press(v, tea.KeyBackspace)
	assert.Equal(t, []string{"Wage & Hour"}, chipIDs(v))
	assert.Contains(t, candidateIDs(v), "Overtime")

	press(v, tea.KeyBackspace)
	press(v, tea.KeyBackspace)
	assert.Empty(t, v.Chips())
}

func TestView_Esc(t *testing.T) {
	v := loadedView(t, Config{Catalog: defaultCatalog(t)})
	typeText(v, "ov")

	cmd := press(v, tea.KeyEsc)
	assert.Nil(t, cmd)
	assert.Equal(t, "", v.Query())
	assert.Len(t, v.Candidates(), 4)

	cmd = press(v, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.Equal(t, messages.Quit{}, cmd())
}

func TestView_ClearAll(t *testing.T) {
	v := loadedView(t, Config{Catalog: defaultCatalog(t)})
	typeText(v, "wage")
	press(v, tea.KeyTab)
	typeText(v, "ret")

	press(v, tea.KeyCtrlX)

	assert.Empty(t, v.Chips())
	assert.Equal(t, "", v.Query())
	assert.Len(t, v.Candidates(), 4)
	assert.Empty(t, v.Engine().Selection())
}

func TestView_Submit(t *testing.T) {
	log := services.NewSearchLogService(memory.NewSearchLogStore())
	v := loadedView(t, Config{Catalog: defaultCatalog(t), SearchLog: log})
	typeText(v, "wage")
	press(v, tea.KeyTab)
	typeText(v, "over")
	press(v, tea.KeyTab)
	typeText(v, "pay")

	cmd := press(v, tea.KeyEnter)

	want := testOrigin + "/search/pay/tags/wage-hour+overtime"
	assert.Equal(t, want, v.LastURL())
	assert.Empty(t, v.Chips())
	assert.Equal(t, "", v.Query())
	assert.Len(t, v.Candidates(), 4)
	assert.Equal(t, status.StateSubmitted, v.statusbar.State())

	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.SearchSubmitted)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Equal(t, want, msg.URL)
	assert.Equal(t, []string{"Wage & Hour", "Overtime"}, msg.Entry.Tags)
	assert.Equal(t, "pay", msg.Entry.Query)

	v.Update(msg)
	assert.Equal(t, want, v.statusbar.Message())

	recent, err := log.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestView_Submit_Empty(t *testing.T) {
	v := loadedView(t, Config{Catalog: defaultCatalog(t)})

	cmd := press(v, tea.KeyEnter)

	assert.Nil(t, cmd, "no search log configured")
	assert.Equal(t, testOrigin+"/?s=", v.LastURL())
}

func TestView_SearchSubmitted_Error(t *testing.T) {
	v := loadedView(t, Config{Catalog: defaultCatalog(t)})

	v.Update(messages.SearchSubmitted{Err: errors.New("disk full")})

	require.Error(t, v.Err())
	assert.Contains(t, v.Err().Error(), "disk full")
}

func TestView_ChipFocus(t *testing.T) {
	v := loadedView(t, Config{Catalog: defaultCatalog(t)})
	typeText(v, "wage")
	press(v, tea.KeyTab)
	typeText(v, "over")
	press(v, tea.KeyTab)

	press(v, tea.KeyLeft)
	assert.Equal(t, 1, v.chips.Focus())
	assert.Equal(t, status.StateChips, v.statusbar.State())

	press(v, tea.KeyLeft)
	assert.Equal(t, 0, v.chips.Focus())

	press(v, tea.KeyBackspace)
	assert.Equal(t, []string{"Overtime"}, chipIDs(v))
	assert.Contains(t, candidateIDs(v), "Wage & Hour")
	assert.Equal(t, 0, v.chips.Focus())

	press(v, tea.KeyEsc)
	assert.Equal(t, chips.NoFocus, v.chips.Focus())
	assert.Equal(t, []string{"Overtime"}, chipIDs(v), "esc only leaves chip focus")
}

func TestView_ChipFocus_TypingReturnsToInput(t *testing.T) {
	v := loadedView(t, Config{Catalog: defaultCatalog(t)})
	typeText(v, "wage")
	press(v, tea.KeyTab)
	press(v, tea.KeyLeft)
	require.Equal(t, 0, v.chips.Focus())

	typeText(v, "r")

	assert.Equal(t, chips.NoFocus, v.chips.Focus())
	assert.Equal(t, "r", v.Query())
}

func TestView_ChipFocus_RightLeaves(t *testing.T) {
	v := loadedView(t, Config{Catalog: defaultCatalog(t)})
	typeText(v, "wage")
	press(v, tea.KeyTab)
	press(v, tea.KeyLeft)

	press(v, tea.KeyRight)

	assert.Equal(t, chips.NoFocus, v.chips.Focus())
	assert.Equal(t, status.StateReady, v.statusbar.State())
}

func TestView_ChipFocus_LastChipRemoved(t *testing.T) {
	v := loadedView(t, Config{Catalog: defaultCatalog(t)})
	typeText(v, "wage")
	press(v, tea.KeyTab)
	press(v, tea.KeyLeft)

	press(v, tea.KeyDelete)

	assert.Empty(t, v.Chips())
	assert.Equal(t, chips.NoFocus, v.chips.Focus())
}

func TestView_History(t *testing.T) {
	v := loadedView(t, Config{Catalog: defaultCatalog(t)})

	cmd := press(v, tea.KeyCtrlR)

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewHistory}, cmd())
}

func TestView_Settings(t *testing.T) {
	v := loadedView(t, Config{Catalog: defaultCatalog(t)})

	cmd := press(v, tea.KeyCtrlO)

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewSettings}, cmd())
}

func TestView_SetOrigin(t *testing.T) {
	v := loadedView(t, Config{Catalog: defaultCatalog(t)})

	v.SetOrigin("https://laws.example.org")
	v.SetOrigin("")
	press(v, tea.KeyEnter)

	assert.Equal(t, "https://laws.example.org/?s=", v.LastURL())
}

func TestView_Predict_MergesRemoteResults(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]domain.RemoteResult{
		"sev": {{Text: "Severance", IsParent: true}},
	}}
	v := loadedView(t, Config{Catalog: defaultCatalog(t), NewPredictor: withPredictor(searcher, nil)})
	defer v.Close()

	cmd := typeText(v, "sev")
	assert.NotNil(t, cmd, "debounce tick scheduled")

	ticket, ok := v.predictor.Begin("sev")
	require.True(t, ok)

	fetch := v.handlePredictDue(messages.PredictDue{Ticket: ticket, Generation: v.generation})
	require.NotNil(t, fetch)
	assert.Equal(t, status.StateFetching, v.statusbar.State())

	v.Update(fetch())

	assert.Equal(t, []string{"Severance"}, candidateIDs(v))
	assert.Equal(t, domain.OriginRemote, v.Candidates()[0].Candidate.Origin)
	assert.Equal(t, status.StateReady, v.statusbar.State())
}

func TestView_Predict_StaleGenerationIgnored(t *testing.T) {
	searcher := &fakeSearcher{}
	v := loadedView(t, Config{Catalog: defaultCatalog(t), NewPredictor: withPredictor(searcher, nil)})
	defer v.Close()
	typeText(v, "sev")
	ticket, ok := v.predictor.Begin("sev")
	require.True(t, ok)

	_, cmd := v.Update(messages.PredictDue{Ticket: ticket, Generation: v.generation - 1})
	assert.Nil(t, cmd)

	v.Update(messages.PredictCompleted{
		Ticket:     ticket,
		Generation: v.generation - 1,
		Results:    []domain.RemoteResult{{Text: "Severance"}},
	})
	assert.Empty(t, v.Candidates())
}

func TestView_Pick_ResolvesParent(t *testing.T) {
	lookup := &fakeLookup{parents: map[string]string{"unpaid": "Wage & Hour"}}
	v := loadedView(t, Config{Catalog: defaultCatalog(t), NewPredictor: withPredictor(nil, lookup)})
	defer v.Close()
	typeText(v, "unpaid")
	require.Empty(t, v.Candidates())

	cmd := press(v, tea.KeyTab)
	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.ParentResolved)
	require.True(t, ok)
	assert.Equal(t, "Wage & Hour", msg.Parent)

	v.Update(msg)

	require.Len(t, v.Chips(), 1)
	assert.Equal(t, "Wage & Hour", v.Chips()[0].ID)
	assert.Equal(t, "unpaid", v.Chips()[0].AliasOf)
	assert.Equal(t, "", v.Query())
	assert.Equal(t, "Added Wage & Hour (for unpaid)", v.statusbar.Message())
}

func TestView_Pick_UserKeptTyping(t *testing.T) {
	v := loadedView(t, Config{Catalog: defaultCatalog(t), NewPredictor: withPredictor(nil, &fakeLookup{})})
	defer v.Close()
	typeText(v, "over")
	cmd := press(v, tea.KeyTab)
	require.NotNil(t, cmd)
	msg := cmd()

	typeText(v, "r")
	v.Update(msg)

	assert.Equal(t, []string{"Overtime"}, chipIDs(v))
	assert.Equal(t, "overr", v.Query())
	assert.Equal(t, "overr", v.Engine().CurrentQuery())
}

func TestView_CatalogChanged_ReloadsAndKeepsSelection(t *testing.T) {
	catalog := defaultCatalog(t)
	v := loadedView(t, Config{Catalog: catalog})
	typeText(v, "over")
	press(v, tea.KeyTab)
	generation := v.generation

	cmd := v.handleCatalogChanged(messages.CatalogChanged{Catalog: domain.Catalog{
		Tags: []domain.TagCandidate{domain.NewTagCandidate("Severance")},
	}})
	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.EngineLoaded)
	require.True(t, ok)
	assert.True(t, msg.Reload)

	v.Update(msg)

	assert.Equal(t, generation+1, v.generation)
	assert.Equal(t, []string{"Overtime"}, chipIDs(v))
	assert.Contains(t, candidateIDs(v), "Severance")
	assert.NotContains(t, candidateIDs(v), "Overtime")
	assert.Equal(t, "Catalog reloaded (5 tags)", v.statusbar.Message())
}

func TestView_CatalogChanged_Error(t *testing.T) {
	v := loadedView(t, Config{Catalog: defaultCatalog(t)})

	_, cmd := v.Update(messages.CatalogChanged{Err: errors.New("yaml: bad indent")})

	assert.Nil(t, cmd)
	require.Error(t, v.Err())
	assert.Contains(t, v.Err().Error(), "catalog reload")
}

func TestView_Modes(t *testing.T) {
	tests := []struct {
		mode     domain.WidgetMode
		contains []string
		excludes []string
	}{
		{domain.WidgetModeInline, []string{"Tag search", "Tags:"}, []string{"╔"}},
		{domain.WidgetModeModal, []string{"Tag search", "╔"}, nil},
		{domain.WidgetModeMobile, nil, []string{"Tag search", "Tags:"}},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			v := loadedView(t, Config{Catalog: defaultCatalog(t), Mode: tt.mode})

			view := v.View()

			assert.Contains(t, view, "Overtime")
			for _, s := range tt.contains {
				assert.Contains(t, view, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, view, s)
			}
		})
	}
}

func TestView_SetMode(t *testing.T) {
	v := NewView(nil, nil, Config{})
	v.SetDimensions(120, 40)

	v.SetMode(domain.WidgetModeMobile)
	assert.Equal(t, mobileMaxVisible, v.list.MaxVisible())
	assert.Equal(t, mobileMaxWidth, v.contentWidth())

	v.SetMode(domain.WidgetModeModal)
	assert.Equal(t, modalMaxWidth, v.contentWidth())

	v.SetMode(domain.WidgetMode("popup"))
	assert.Equal(t, domain.WidgetModeModal, v.Mode(), "invalid mode ignored")
}

func TestView_Reset(t *testing.T) {
	v := loadedView(t, Config{Catalog: defaultCatalog(t)})
	typeText(v, "wage")
	press(v, tea.KeyTab)
	typeText(v, "ov")

	v.Reset()

	assert.Empty(t, v.Chips())
	assert.Equal(t, "", v.Query())
	assert.Len(t, v.Candidates(), 4)
	assert.NoError(t, v.Err())
}
