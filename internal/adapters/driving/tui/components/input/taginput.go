// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/styles"
)

// DefaultPlaceholder is shown while the input is empty.
const DefaultPlaceholder = "Type to filter tags..."

// TagInput wraps a bubbles textinput holding the filter query.
type TagInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	width     int
}

// NewTagInput creates a new tag input component.
func NewTagInput(s *styles.Styles) *TagInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = DefaultPlaceholder
	ti.Prompt = "› "
	ti.Focus()
	ti.CharLimit = 128
	ti.Width = 50

	return &TagInput{
		textinput: ti,
		styles:    s,
		label:     "Tags: ",
		width:     50,
	}
}

// Init initialises the input.
func (t *TagInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (t *TagInput) Update(msg tea.Msg) (*TagInput, tea.Cmd) {
	var cmd tea.Cmd
	t.textinput, cmd = t.textinput.Update(msg)
	return t, cmd
}

// View renders the input. An empty label renders the bare field.
func (t *TagInput) View() string {
	field := t.styles.InputField.Render(t.textinput.View())
	if t.label == "" {
		return field
	}
	label := t.styles.Title.Render(t.label)
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current query.
func (t *TagInput) Value() string {
	return t.textinput.Value()
}

// SetValue sets the query and moves the cursor to its end.
func (t *TagInput) SetValue(value string) {
	t.textinput.SetValue(value)
	t.textinput.CursorEnd()
}

// SetLabel replaces the label shown before the field.
func (t *TagInput) SetLabel(label string) {
	t.label = label
}

// SetPlaceholder replaces the placeholder text.
func (t *TagInput) SetPlaceholder(placeholder string) {
	t.textinput.Placeholder = placeholder
}

// Focus sets focus on the input.
func (t *TagInput) Focus() tea.Cmd {
	return t.textinput.Focus()
}

// Blur removes focus from the input.
func (t *TagInput) Blur() {
	t.textinput.Blur()
}

// Focused returns whether the input is focused.
func (t *TagInput) Focused() bool {
	return t.textinput.Focused()
}

// SetWidth sets the width of the input.
func (t *TagInput) SetWidth(width int) {
	t.width = width
	// Account for label, prompt and border
	inputWidth := width - lipgloss.Width(t.label) - 6
	if inputWidth < 10 {
		inputWidth = 10
	}
	t.textinput.Width = inputWidth
}

// Width returns the current width.
func (t *TagInput) Width() int {
	return t.width
}

// Reset clears the input.
func (t *TagInput) Reset() {
	t.textinput.Reset()
}
