// Package cli implements the sharesub command line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cytzrs/share-sub001/internal/config"
	"github.com/cytzrs/share-sub001/internal/db"
	"github.com/cytzrs/share-sub001/internal/logging"
)

var (
	configPath string
	dbPath     string
	logLevel   string
	jsonOutput bool

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sharesub",
	Short: "Monitor AI stock-trading agents",
	Long: `ShareSub monitors AI stock-trading agents: prompt templates with
placeholder rendering, portfolio valuations, MCP tool servers and an
event feed, served over a local HTTP API and terminal dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Database.Path = dbPath
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		appConfig = cfg

		logging.Setup(cfg.Logging.Level, cfg.Logging.Console)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/sharesub/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit JSON output")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// GetConfig returns the loaded application configuration.
func GetConfig() *config.Config {
	if appConfig == nil {
		return config.Default()
	}
	return appConfig
}

func openDatabase() (*db.DB, error) {
	return db.Open(GetConfig().Database.Path)
}

// IsJSONOutput reports whether --json was given.
func IsJSONOutput() bool {
	return jsonOutput
}

// WriteOutput encodes data as indented JSON.
func WriteOutput(out io.Writer, data any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
