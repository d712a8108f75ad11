package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/tagsearch/internal/adapters/driving/tui"
	"github.com/custodia-labs/tagsearch/internal/core/domain"
)

var tuiMode string

// isTerminal reports whether stdin and stdout are attached to a terminal.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// errNotTerminal is returned when the TUI is started without a terminal.
var errNotTerminal = errors.New("tui requires an interactive terminal")

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive tag search widget",
	Long: `Launch the interactive tag search widget.

Type to filter tags, Tab to select the highlighted tag, Enter to submit
the search. The submitted search URL is printed on exit.

Modes:
  inline  - compact widget in the terminal flow (default)
  modal   - full screen dialog
  mobile  - narrow single column layout

Controls:
  Tab      - Select highlighted tag
  ↑/↓      - Move highlight
  Enter    - Submit search
  Backspace on empty input - Remove last tag
  ←        - Focus tags
  ctrl+x   - Clear all tags
  ctrl+r   - History
  ctrl+o   - Settings
  Esc      - Clear input / Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVarP(&tuiMode, "mode", "m", "", "widget mode: inline, modal or mobile (default from config)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	mode := domain.WidgetMode(tuiMode)
	if tuiMode != "" && !mode.IsValid() {
		return fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidInput, tuiMode)
	}
	if catalogService == nil {
		return errCatalogNotConfigured
	}
	if !isTerminal() {
		return errNotTerminal
	}

	// Build ports from configuration
	ports := tui.NewPorts(catalogService, searchLogService)
	ports.Settings = settingsService
	ports.NewPredictor = newPredictor
	ports.WatchCatalog = watchCatalog

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())
	if tuiMode != "" {
		app.WithMode(mode)
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if url := app.LastURL(); url != "" {
		cmd.Println(url)
	}
	return nil
}
