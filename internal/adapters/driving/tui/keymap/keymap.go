// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Back clears the query, or leaves the current view when it is empty.
	Back key.Binding

	// Submit builds the search URL from the selection and query.
	Submit key.Binding

	// SelectTop selects the highlighted candidate, or the query as free
	// text when nothing is visible.
	SelectTop key.Binding

	// AddText selects the query as free text.
	AddText key.Binding

	// RemoveLast pops the most recently selected tag when the input is empty.
	RemoveLast key.Binding

	// ClearAll empties the selection and the query.
	ClearAll key.Binding

	// Up moves the candidate highlight up.
	Up key.Binding

	// Down moves the candidate highlight down.
	Down key.Binding

	// ChipLeft moves focus onto the chips, or to the previous chip.
	ChipLeft key.Binding

	// ChipRight moves to the next chip, leaving chip focus after the last.
	ChipRight key.Binding

	// Deselect removes the focused chip.
	Deselect key.Binding

	// History opens the list of submitted searches.
	History key.Binding

	// Settings opens the settings view.
	Settings key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear/back"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		SelectTop: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "add tag"),
		),
		AddText: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "add as text"),
		),
		RemoveLast: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "remove last"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "clear all"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "down"),
		),
		ChipLeft: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "chips"),
		),
		ChipRight: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "chips"),
		),
		Deselect: key.NewBinding(
			key.WithKeys("backspace", "delete"),
			key.WithHelp("⌫", "remove tag"),
		),
		History: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "history"),
		),
		Settings: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "settings"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SelectTop, k.Submit, k.Back}
}

// ChipHelp returns keybindings shown while a chip is focused.
func (k *KeyMap) ChipHelp() []key.Binding {
	return []key.Binding{k.ChipLeft, k.Deselect, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.SelectTop, k.AddText},
		{k.Submit, k.RemoveLast, k.ClearAll, k.Back},
		{k.ChipLeft, k.ChipRight, k.Deselect},
		{k.History, k.Settings, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
