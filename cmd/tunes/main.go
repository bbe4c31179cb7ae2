package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mmcdole/tunes/internal/adapter"
	"github.com/mmcdole/tunes/internal/state"
	"github.com/mmcdole/tunes/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

// Global flags
var (
	configPath  string
	initialTerm string
)

// rootCmd runs the interactive search when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "tunes",
	Short: "Search iTunes tracks by artist from the terminal",
	Long: `tunes is a search box for the iTunes catalog. Type an artist name and
matching tracks appear once you pause typing.

Keys:
  ↑/↓         move the selection
  pgup/pgdn   scroll results
  enter       search immediately
  ctrl+o      open the selected track in the browser
  esc         quit

Examples:
  tunes                  # Start with an empty search box
  tunes --term prince    # Start searching for "prince"`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tunes %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.config/tunes/config.yaml)")
	rootCmd.Flags().StringVarP(&initialTerm, "term", "t", "", "Artist to search for on start")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := newApp(configPath, state.WithInitialState(state.SearchState{QueryTerm: strings.TrimSpace(initialTerm)}))
	if err != nil {
		return err
	}
	defer a.Close()

	model := tui.NewModel(a.store, tui.Options{
		Debounce: a.cfg.UI.Debounce,
		Catalog:  a.catalog,
		Opener:   adapter.NewOpener(a.cfg.Open, a.logger),
		Logger:   a.logger,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())

	a.logger.Info("starting TUI", "version", Version, "term", initialTerm)

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}
