package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui/views/widget"
	"github.com/custodia-labs/tagsearch/internal/core/domain"
	"github.com/custodia-labs/tagsearch/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// widgetView is the tag search widget.
	widgetView *widget.View

	// historyView lists recent searches.
	historyView *history.View

	// settingsView edits the configuration.
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports. The widget
// mode and site origin are read from the settings port when present.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	appSettings := domain.DefaultAppSettings()
	if ports.Settings != nil {
		loaded, err := ports.Settings.Get()
		if err != nil {
			return nil, fmt.Errorf("creating app: %w", err)
		}
		appSettings = *loaded
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:  ports,
		ctx:    context.Background(),
		styles: s,
		widgetView: widget.NewView(s, km, widget.Config{
			Catalog:      ports.Catalog,
			SearchLog:    ports.SearchLog,
			NewPredictor: ports.NewPredictor,
			Mode:         appSettings.UI.Mode,
			Origin:       appSettings.Site.Origin,
		}),
		historyView:  history.NewView(s, ports.SearchLog),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewWidget,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.widgetView.WithContext(ctx)
	return a
}

// WithMode overrides the widget mode from settings.
func (a *App) WithMode(mode domain.WidgetMode) *App {
	a.widgetView.SetMode(mode)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("tagsearch"),
		a.widgetView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.widgetView, cmd = a.widgetView.Update(msg)
		a.historyView.SetDimensions(msg.Width, msg.Height)
		a.settingsView.SetDimensions(msg.Width, msg.Height)
		return a, cmd

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewHistory:
			a.historyView, cmd = a.historyView.Update(msg)
			return a, cmd
		case messages.ViewSettings:
			a.settingsView, cmd = a.settingsView.Update(msg)
			return a, cmd
		case messages.ViewWidget:
		}
		a.widgetView, cmd = a.widgetView.Update(msg)
		a.err = a.widgetView.Err()
		return a, cmd

	case messages.ViewChanged:
		switch msg.View {
		case messages.ViewHistory:
			a.currentView = msg.View
			return a, a.historyView.Init()
		case messages.ViewSettings:
			if a.ports.Settings == nil {
				return a, nil
			}
			a.currentView = msg.View
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewWidget:
			a.currentView = msg.View
		}
		return a, nil

	case messages.HistoryLoaded:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded:
		if msg.Err == nil && msg.Settings != nil {
			a.widgetView.SetMode(msg.Settings.UI.Mode)
			a.widgetView.SetOrigin(msg.Settings.Site.Origin)
		}
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		logger.Warn("tui: %v", msg.Err)

	case messages.Quit:
		return a, tea.Quit
	}

	// Engine, prediction and catalog messages always belong to the widget,
	// even while the history view is shown.
	a.widgetView, cmd = a.widgetView.Update(msg)
	if err := a.widgetView.Err(); err != nil {
		a.err = err
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewHistory:
		return a.historyView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewWidget:
	}
	return a.widgetView.View()
}

// Run starts the TUI application and blocks until it exits. Catalog file
// changes are fed into the running program when a watcher is configured.
func (a *App) Run() error {
	opts := []tea.ProgramOption{tea.WithContext(a.ctx)}
	if a.widgetView.Mode() == domain.WidgetModeModal {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(a, opts...)

	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()

	if a.ports.WatchCatalog != nil {
		go func() {
			err := a.ports.WatchCatalog(ctx, func(catalog domain.Catalog, err error) {
				p.Send(messages.CatalogChanged{Catalog: catalog, Err: err})
			})
			if err != nil && ctx.Err() == nil {
				p.Send(messages.ErrorOccurred{Err: fmt.Errorf("watching catalog: %w", err)})
			}
		}()
	}

	_, err := p.Run()
	a.widgetView.Close()
	return err
}

// LastURL returns the URL of the most recent submitted search.
func (a *App) LastURL() string {
	return a.widgetView.LastURL()
}

// Widget returns the tag search widget view.
func (a *App) Widget() *widget.View {
	return a.widgetView
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.widgetView.SetDimensions(width, height)
	a.historyView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
