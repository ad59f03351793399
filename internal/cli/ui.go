// Package cli provides TUI launch commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cytzrs/share-sub001/internal/tui"
)

func init() {
	rootCmd.AddCommand(uiCmd)
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the ShareSub dashboard",
	Long:  "Launch the ShareSub terminal dashboard (TUI).",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func runTUI() error {
	if !hasTTY() {
		return &PreflightError{
			Message:  "the dashboard requires an interactive terminal",
			Hint:     "Run from a TTY, or use CLI subcommands",
			NextStep: "sharesub --help",
		}
	}

	database, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	tuiConfig := tui.Config{
		Database: database,
	}
	if cfg := GetConfig(); cfg != nil {
		tuiConfig.Theme = cfg.TUI.Theme
		tuiConfig.RefreshInterval = cfg.Monitor.Interval
	}

	return tui.Run(tuiConfig)
}

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
