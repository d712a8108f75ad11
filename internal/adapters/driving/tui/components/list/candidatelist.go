// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tagsearch/internal/core/domain"
)

// DefaultMaxVisible is the number of candidate rows shown at once.
const DefaultMaxVisible = 8

// CandidateList displays the visible candidates of a filter result in
// relevance order with a movable highlight.
type CandidateList struct {
	matches    []domain.ScoredCandidate
	query      string
	selected   int
	styles     *styles.Styles
	width      int
	maxVisible int
	showScores bool
}

// NewCandidateList creates a new candidate list component.
func NewCandidateList(s *styles.Styles) *CandidateList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &CandidateList{
		styles:     s,
		width:      60,
		maxVisible: DefaultMaxVisible,
	}
}

// Init initialises the candidate list.
func (l *CandidateList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *CandidateList) Update(msg tea.Msg) (*CandidateList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			l.MoveUp()
		case tea.KeyDown:
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the candidate list.
func (l *CandidateList) View() string {
	if len(l.matches) == 0 {
		if strings.TrimSpace(l.query) == "" {
			return l.styles.Muted.Render("No tags available")
		}
		return l.styles.Muted.Render("No matching tags. Tab adds the text as is.")
	}

	start := 0
	if l.selected >= l.maxVisible {
		start = l.selected - l.maxVisible + 1
	}
	end := start + l.maxVisible
	if end > len(l.matches) {
		end = len(l.matches)
	}

	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderRow(i, l.matches[i]))
	}
	if hidden := len(l.matches) - end; hidden > 0 {
		lines = append(lines, l.styles.Muted.Render(fmt.Sprintf("  … %d more", hidden)))
	}

	return strings.Join(lines, "\n")
}

// renderRow formats one candidate.
func (l *CandidateList) renderRow(index int, match domain.ScoredCandidate) string {
	label := match.Candidate.Label()
	maxLen := l.width - 16
	if maxLen < 10 {
		maxLen = 10
	}
	if len([]rune(label)) > maxLen {
		label = string([]rune(label)[:maxLen-1]) + "…"
	}

	var b strings.Builder
	if index == l.selected {
		b.WriteString(l.styles.Selected.Render("> " + label))
	} else {
		b.WriteString("  ")
		b.WriteString(l.highlight(label))
	}

	if match.Candidate.IsParent {
		b.WriteString(" ")
		b.WriteString(l.styles.Badge.Render("parent"))
	}
	if match.Candidate.Origin == domain.OriginRemote {
		b.WriteString(" ")
		b.WriteString(l.styles.Muted.Render("remote"))
	}
	if l.showScores {
		b.WriteString(" ")
		b.WriteString(l.styles.Muted.Render(fmt.Sprintf("%.1f", match.Score)))
	}
	return b.String()
}

// highlight emphasises the first case-insensitive occurrence of the query.
func (l *CandidateList) highlight(label string) string {
	q := strings.TrimSpace(l.query)
	lower := strings.ToLower(label)
	if q == "" || len(lower) != len(label) {
		return l.styles.Normal.Render(label)
	}
	i := strings.Index(lower, strings.ToLower(q))
	if i < 0 {
		return l.styles.Normal.Render(label)
	}
	j := i + len(q)
	return l.styles.Normal.Render(label[:i]) +
		l.styles.Match.Render(label[i:j]) +
		l.styles.Normal.Render(label[j:])
}

// SetResult replaces the rows with a filter result and resets the highlight.
func (l *CandidateList) SetResult(result domain.FilterResult) {
	l.matches = result.Matches
	l.query = result.Query
	l.selected = 0
}

// Matches returns the displayed candidates.
func (l *CandidateList) Matches() []domain.ScoredCandidate {
	return l.matches
}

// Selected returns the index of the highlighted candidate.
func (l *CandidateList) Selected() int {
	return l.selected
}

// SetSelected sets the highlighted index.
func (l *CandidateList) SetSelected(index int) {
	if index >= 0 && index < len(l.matches) {
		l.selected = index
	}
}

// SelectedCandidate returns the highlighted candidate, or nil if none.
func (l *CandidateList) SelectedCandidate() *domain.TagCandidate {
	if l.selected < 0 || l.selected >= len(l.matches) {
		return nil
	}
	return &l.matches[l.selected].Candidate
}

// MoveUp moves the highlight up.
func (l *CandidateList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves the highlight down.
func (l *CandidateList) MoveDown() {
	if l.selected < len(l.matches)-1 {
		l.selected++
	}
}

// SetWidth sets the component width.
func (l *CandidateList) SetWidth(width int) {
	l.width = width
}

// SetMaxVisible limits the number of rows shown at once.
func (l *CandidateList) SetMaxVisible(n int) {
	if n < 1 {
		n = 1
	}
	l.maxVisible = n
}

// MaxVisible returns the row limit.
func (l *CandidateList) MaxVisible() int {
	return l.maxVisible
}

// SetShowScores toggles the relevance score column.
func (l *CandidateList) SetShowScores(show bool) {
	l.showScores = show
}

// Count returns the number of candidates.
func (l *CandidateList) Count() int {
	return len(l.matches)
}

// IsEmpty returns whether the list is empty.
func (l *CandidateList) IsEmpty() bool {
	return len(l.matches) == 0
}
