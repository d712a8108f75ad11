package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.MatchCount())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_InitUpdate(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Nil(t, bar.Init())

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_View_Counts(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)

	assert.Contains(t, bar.View(), "no matches")

	bar.SetCounts(1, 0)
	assert.Contains(t, bar.View(), "1 match")

	bar.SetCounts(4, 2)
	view := bar.View()
	assert.Contains(t, view, "4 matches")
	assert.Contains(t, view, "2 selected")
	assert.Contains(t, view, "tab: add tag")
}

func TestStatusBar_View_States(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		message  string
		expected string
	}{
		{"fetching", StateFetching, "", "Fetching suggestions"},
		{"error with message", StateError, "boom", "Error: boom"},
		{"error without message", StateError, "", "Error"},
		{"submitted", StateSubmitted, "https://example.com/?s=", "https://example.com/?s="},
		{"info", StateInfo, "Added Overtime", "Added Overtime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)

			assert.Contains(t, bar.View(), tt.expected)
		})
	}
}

func TestStatusBar_View_ChipHints(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)
	bar.SetState(StateChips)

	assert.Contains(t, bar.View(), "remove tag")
}

func TestStatusBar_Info(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.Info("Added Overtime")

	assert.Equal(t, StateInfo, bar.State())
	assert.Equal(t, "Added Overtime", bar.Message())
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetCounts(3, 1)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 3, bar.MatchCount(), "counts survive")
	assert.Equal(t, 1, bar.SelectedCount())
}

func TestStatusBar_SetWidth(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetWidth(100)

	assert.Equal(t, 100, bar.Width())
}
