// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tagsearch/internal/core/domain"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driving"
)

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionEditing
)

const modeKey = "ui.mode"

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
)

var modes = []domain.WidgetMode{
	domain.WidgetModeInline,
	domain.WidgetModeModal,
	domain.WidgetModeMobile,
}

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	// Current settings
	settings *domain.AppSettings
	keys     []string
	err      error
	saved    string

	// Navigation state
	section  Section
	selected int

	// valueInput edits the selected key.
	valueInput textinput.Model

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	valueInput := textinput.New()
	valueInput.Prompt = "= "
	valueInput.CharLimit = 512

	var keys []string
	if settingsService != nil {
		keys = settingsService.Keys()
	}

	return &View{
		styles:          s,
		settingsService: settingsService,
		keys:            keys,
		section:         SectionOverview,
		valueInput:      valueInput,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// Reset returns to the overview.
func (v *View) Reset() {
	v.section = SectionOverview
	v.valueInput.Blur()
	v.saved = ""
	v.err = nil
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	service := v.settingsService
	return func() tea.Msg {
		if service == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		settings, err := service.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.saved = msg.Key
		v.section = SectionOverview
		v.valueInput.Blur()
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	if v.section == SectionEditing {
		var cmd tea.Cmd
		v.valueInput, cmd = v.valueInput.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		if v.section == SectionEditing {
			v.section = SectionOverview
			v.valueInput.Blur()
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewWidget}
		}
	}

	if v.section == SectionEditing {
		if msg.String() == keyEnter {
			return v, v.save(v.selectedKey(), v.valueInput.Value())
		}
		var cmd tea.Cmd
		v.valueInput, cmd = v.valueInput.Update(msg)
		return v, cmd
	}

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(v.keys)-1 {
			v.selected++
		}
	case keyEnter:
		key := v.selectedKey()
		if key == "" {
			return v, nil
		}
		if key == modeKey {
			return v, v.save(key, v.nextMode().String())
		}
		v.section = SectionEditing
		v.saved = ""
		v.valueInput.SetValue(v.value(key))
		v.valueInput.CursorEnd()
		return v, v.valueInput.Focus()
	}
	return v, nil
}

// nextMode cycles through the widget modes.
func (v *View) nextMode() domain.WidgetMode {
	current := domain.WidgetModeInline
	if v.settings != nil {
		current = v.settings.UI.Mode
	}
	for i, m := range modes {
		if m == current {
			return modes[(i+1)%len(modes)]
		}
	}
	return modes[0]
}

func (v *View) save(key, value string) tea.Cmd {
	service := v.settingsService
	return func() tea.Msg {
		if service == nil {
			return messages.SettingsSaved{Key: key, Err: fmt.Errorf("settings service not available")}
		}
		return messages.SettingsSaved{Key: key, Err: service.Set(key, value)}
	}
}

func (v *View) selectedKey() string {
	if v.selected < 0 || v.selected >= len(v.keys) {
		return ""
	}
	return v.keys[v.selected]
}

func (v *View) value(key string) string {
	if v.settings == nil {
		return ""
	}
	val, _ := v.settings.Value(key)
	return val
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.settings == nil && v.err == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	width := 0
	for _, k := range v.keys {
		if len(k) > width {
			width = len(k)
		}
	}

	for i, key := range v.keys {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}
		val := v.value(key)
		if val == "" {
			val = "(not set)"
		}
		line := fmt.Sprintf("%s%-*s  %s", indicator, width, key, val)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	if v.section == SectionEditing {
		b.WriteString("\n")
		b.WriteString(v.styles.Subtitle.Render(v.selectedKey()))
		b.WriteString("\n")
		b.WriteString(v.valueInput.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	case v.saved != "":
		b.WriteString(v.styles.Success.Render(fmt.Sprintf("Saved %s", v.saved)))
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Remote and filter changes apply on the next start."))
		b.WriteString("\n\n")
	}

	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderHelp() string {
	if v.section == SectionEditing {
		return v.styles.Help.Render("[enter] save  [esc] cancel")
	}
	return v.styles.Help.Render("[↑/↓] move  [enter] edit  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.valueInput.Width = width - 4
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
}

// SelectedKey returns the highlighted setting key.
func (v *View) SelectedKey() string {
	return v.selectedKey()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
