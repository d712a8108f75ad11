// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/styles"
)

// State represents the current widget state for display.
type State string

const (
	StateReady     State = "ready"
	StateFetching  State = "fetching"
	StateError     State = "error"
	StateInfo      State = "info"
	StateSubmitted State = "submitted"
	StateChips     State = "chips"
)

// Bar displays widget status and keybinding hints.
type Bar struct {
	styles        *styles.Styles
	keymap        *keymap.KeyMap
	state         State
	message       string
	matchCount    int
	selectedCount int
	width         int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the state or message.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateFetching:
		return s.styles.Muted.Render("Fetching suggestions...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateSubmitted:
		return s.styles.Success.Render(s.message)
	case StateInfo:
		return s.styles.Normal.Render(s.message)
	case StateReady, StateChips:
	}
	return s.styles.Muted.Render(s.counts())
}

func (s *Bar) counts() string {
	matches := "no matches"
	if s.matchCount == 1 {
		matches = "1 match"
	} else if s.matchCount > 1 {
		matches = fmt.Sprintf("%d matches", s.matchCount)
	}
	if s.selectedCount == 0 {
		return matches
	}
	return fmt.Sprintf("%s · %d selected", matches, s.selectedCount)
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.state == StateChips {
		bindings = s.keymap.ChipHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets the message shown for the info, error and submitted states.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// Info shows message until the next state change.
func (s *Bar) Info(message string) {
	s.state = StateInfo
	s.message = message
}

// SetCounts sets the visible candidate and selected tag counts.
func (s *Bar) SetCounts(matches, selected int) {
	s.matchCount = matches
	s.selectedCount = selected
}

// MatchCount returns the visible candidate count.
func (s *Bar) MatchCount() int {
	return s.matchCount
}

// SelectedCount returns the selected tag count.
func (s *Bar) SelectedCount() int {
	return s.selectedCount
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to the ready state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
