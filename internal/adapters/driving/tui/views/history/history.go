// Package history provides the recent searches view for the TUI.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tagsearch/internal/core/domain"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driving"
)

// DefaultLimit is how many searches the view loads.
const DefaultLimit = 20

// View lists recently submitted searches.
type View struct {
	styles    *styles.Styles
	searchLog driving.SearchLogService

	entries  []domain.SearchLogEntry
	selected int
	width    int
	height   int
	ready    bool
	err      error
	loading  bool
}

// NewView creates a new history view.
func NewView(s *styles.Styles, searchLog driving.SearchLogService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:    s,
		searchLog: searchLog,
		entries:   []domain.SearchLogEntry{},
		width:     80,
	}
}

// Init loads the recent searches.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.load()
}

func (v *View) load() tea.Cmd {
	searchLog := v.searchLog
	return func() tea.Msg {
		if searchLog == nil {
			return messages.HistoryLoaded{Err: fmt.Errorf("search history not available")}
		}
		entries, err := searchLog.Recent(context.Background(), DefaultLimit)
		return messages.HistoryLoaded{Entries: entries, Err: err}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.HistoryLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.entries = msg.Entries
		v.err = nil
		if v.selected >= len(v.entries) {
			v.selected = 0
		}
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "ctrl+p":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j", "ctrl+n":
		if v.selected < len(v.entries)-1 {
			v.selected++
		}
	case "r":
		v.loading = true
		return v, v.load()
	case "esc", "q", "ctrl+r":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewWidget}
		}
	}
	return v, nil
}

// View renders the history view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Recent searches"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading history..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.entries) == 0:
		b.WriteString(v.styles.Muted.Render("No searches yet."))
	default:
		for i := range v.entries {
			b.WriteString(v.renderEntry(i, &v.entries[i]))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(v.styles.Subtitle.Render(v.truncate(v.entries[v.selected].URL)))
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] move  [r] reload  [esc] back"))
	return b.String()
}

// renderEntry renders one search as "> 2006-01-02 15:04  tags  “query”".
func (v *View) renderEntry(index int, entry *domain.SearchLogEntry) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	when := entry.SubmittedAt.Local().Format("2006-01-02 15:04")
	summary := strings.Join(entry.Tags, ", ")
	if entry.Query != "" {
		if summary != "" {
			summary += "  "
		}
		summary += fmt.Sprintf("“%s”", entry.Query)
	}
	if summary == "" {
		summary = "(empty search)"
	}
	summary = v.truncate(summary)

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%s  %s", indicator, when, summary))
	}
	return v.styles.Normal.Render(indicator) +
		v.styles.Muted.Render(when+"  ") +
		v.styles.Normal.Render(summary)
}

func (v *View) truncate(s string) string {
	maxLen := v.width - 22
	if maxLen < 10 {
		maxLen = 10
	}
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Entries returns the loaded searches.
func (v *View) Entries() []domain.SearchLogEntry {
	return v.entries
}

// SelectedIndex returns the highlighted entry index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
