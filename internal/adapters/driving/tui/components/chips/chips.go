// Package chips renders the selected tags as removable chips.
package chips

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tagsearch/internal/core/domain"
)

// NoFocus is the focus index when no chip is focused.
const NoFocus = -1

// Chips displays the selection in insertion order. One chip may hold the
// focus so it can be removed individually.
type Chips struct {
	entries []domain.SelectionEntry
	focus   int
	styles  *styles.Styles
	width   int
	compact bool
}

// New creates a new chips component.
func New(s *styles.Styles) *Chips {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Chips{
		focus:  NoFocus,
		styles: s,
		width:  80,
	}
}

// View renders the chips, wrapping at the component width. In compact
// mode only the focused or most recent chip is shown next to a count.
func (c *Chips) View() string {
	if len(c.entries) == 0 {
		return ""
	}
	if c.compact {
		return c.viewCompact()
	}

	var rows []string
	var row []string
	rowWidth := 0
	for i, e := range c.entries {
		chip := c.renderChip(i, e)
		w := lipgloss.Width(chip) + 1
		if rowWidth > 0 && rowWidth+w > c.width {
			rows = append(rows, strings.Join(row, " "))
			row, rowWidth = nil, 0
		}
		row = append(row, chip)
		rowWidth += w
	}
	rows = append(rows, strings.Join(row, " "))
	return strings.Join(rows, "\n")
}

func (c *Chips) viewCompact() string {
	i := len(c.entries) - 1
	if c.focus != NoFocus {
		i = c.focus
	}
	chip := c.renderChip(i, c.entries[i])
	if len(c.entries) == 1 {
		return chip
	}
	return chip + " " + c.styles.Muted.Render(fmt.Sprintf("%d/%d tags", i+1, len(c.entries)))
}

func (c *Chips) renderChip(i int, e domain.SelectionEntry) string {
	text := e.DisplayText + " ×"
	switch {
	case i == c.focus:
		return c.styles.FocusedChip.Render(text)
	case e.FreeText:
		return c.styles.FreeChip.Render("“" + e.DisplayText + "” ×")
	default:
		return c.styles.Chip.Render(text)
	}
}

// SetEntries replaces the chips. The focus is clamped to the new entries.
func (c *Chips) SetEntries(entries []domain.SelectionEntry) {
	c.entries = entries
	if c.focus >= len(entries) {
		c.focus = len(entries) - 1
	}
}

// Entries returns the displayed entries.
func (c *Chips) Entries() []domain.SelectionEntry {
	return c.entries
}

// Count returns the number of chips.
func (c *Chips) Count() int {
	return len(c.entries)
}

// Focus returns the focused chip index, or NoFocus.
func (c *Chips) Focus() int {
	return c.focus
}

// Focused returns the focused entry, if any.
func (c *Chips) Focused() (domain.SelectionEntry, bool) {
	if c.focus == NoFocus || c.focus >= len(c.entries) {
		return domain.SelectionEntry{}, false
	}
	return c.entries[c.focus], true
}

// FocusLast focuses the most recent chip. It reports false when there are
// no chips.
func (c *Chips) FocusLast() bool {
	if len(c.entries) == 0 {
		return false
	}
	c.focus = len(c.entries) - 1
	return true
}

// Left moves the focus to the previous chip.
func (c *Chips) Left() {
	if c.focus > 0 {
		c.focus--
	}
}

// Right moves the focus to the next chip. Moving past the last chip
// drops the focus and reports false.
func (c *Chips) Right() bool {
	if c.focus == NoFocus {
		return false
	}
	if c.focus < len(c.entries)-1 {
		c.focus++
		return true
	}
	c.focus = NoFocus
	return false
}

// Blur drops the focus.
func (c *Chips) Blur() {
	c.focus = NoFocus
}

// SetWidth sets the wrap width.
func (c *Chips) SetWidth(width int) {
	c.width = width
}

// SetCompact toggles the single-chip layout.
func (c *Chips) SetCompact(compact bool) {
	c.compact = compact
}
