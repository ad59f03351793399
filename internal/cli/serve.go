package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cytzrs/share-sub001/internal/agent"
	"github.com/cytzrs/share-sub001/internal/db"
	"github.com/cytzrs/share-sub001/internal/scheduler"
	"github.com/cytzrs/share-sub001/internal/server"
	"github.com/cytzrs/share-sub001/internal/templates"
)

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the monitoring server",
	Long: `Run the ShareSub HTTP API and the background monitor loop.

The monitor snapshots portfolios and flags stale agents on the
configured interval. Built-in templates are seeded on first start.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		if err := seedBuiltinTemplates(cmd.Context(), database); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sched := scheduler.New(
			scheduler.Config{
				TickInterval:   cfg.Monitor.Interval,
				StaleThreshold: cfg.Monitor.StaleThreshold,
			},
			agent.NewService(
				db.NewAgentRepository(database),
				db.NewTemplateRepository(database),
				db.NewEventRepository(database),
			),
			db.NewPortfolioRepository(database),
			db.NewEventRepository(database),
		)
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()

		addr := serveAddr
		if addr == "" {
			addr = cfg.Addr()
		}

		return server.New(database).Run(ctx, addr)
	},
}

func seedBuiltinTemplates(ctx context.Context, database *db.DB) error {
	builtins, err := templates.LoadBuiltinTemplates()
	if err != nil {
		return fmt.Errorf("load builtin templates: %w", err)
	}
	return db.NewTemplateRepository(database).SeedBuiltins(ctx, builtins)
}
