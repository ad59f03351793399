// Package cli provides agent management commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cytzrs/share-sub001/internal/agent"
	"github.com/cytzrs/share-sub001/internal/db"
)

var (
	// agent create flags
	agentName     string
	agentModel    string
	agentStrategy string
	agentTemplate string

	// agent pause flags
	agentPauseReason string
)

func init() {
	rootCmd.AddCommand(agentCmd)
	agentCmd.AddCommand(agentListCmd)
	agentCmd.AddCommand(agentCreateCmd)
	agentCmd.AddCommand(agentShowCmd)
	agentCmd.AddCommand(agentPauseCmd)
	agentCmd.AddCommand(agentResumeCmd)
	agentCmd.AddCommand(agentDeleteCmd)

	agentCreateCmd.Flags().StringVar(&agentName, "name", "", "agent name (required)")
	agentCreateCmd.Flags().StringVar(&agentModel, "model", "", "LLM backing the agent (required)")
	agentCreateCmd.Flags().StringVar(&agentStrategy, "strategy", "", "trading strategy label")
	agentCreateCmd.Flags().StringVar(&agentTemplate, "template", "", "prompt template id")
	agentCreateCmd.MarkFlagRequired("name")
	agentCreateCmd.MarkFlagRequired("model")

	agentPauseCmd.Flags().StringVar(&agentPauseReason, "reason", "", "why the agent is being paused")
}

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Manage trading agents",
}

func newAgentService(database *db.DB) *agent.Service {
	return agent.NewService(
		db.NewAgentRepository(database),
		db.NewTemplateRepository(database),
		db.NewEventRepository(database),
	)
}

var agentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		agents, err := newAgentService(database).List(cmd.Context())
		if err != nil {
			return err
		}

		if IsJSONOutput() {
			return WriteOutput(os.Stdout, agents)
		}

		rows := make([][]string, 0, len(agents))
		for _, a := range agents {
			lastRun := "-"
			if a.LastRunAt != nil {
				lastRun = a.LastRunAt.Format("2006-01-02 15:04")
			}
			rows = append(rows, []string{
				a.ID[:8],
				a.Name,
				a.Model,
				a.Strategy,
				formatAgentState(a.State),
				lastRun,
			})
		}
		return writeTable(os.Stdout, []string{"ID", "NAME", "MODEL", "STRATEGY", "STATE", "LAST RUN"}, rows)
	},
}

var agentCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		a, err := newAgentService(database).Create(cmd.Context(), agent.CreateOptions{
			Name:       agentName,
			Model:      agentModel,
			Strategy:   agentStrategy,
			TemplateID: agentTemplate,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created agent %s (%s)\n", a.Name, a.ID[:8])
		return nil
	},
}

var agentShowCmd = &cobra.Command{
	Use:   "show <id-or-name>",
	Short: "Show an agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		service := newAgentService(database)
		a, err := service.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if IsJSONOutput() {
			return WriteOutput(os.Stdout, a)
		}

		fmt.Printf("Name:     %s\n", a.Name)
		fmt.Printf("ID:       %s\n", a.ID)
		fmt.Printf("Model:    %s\n", a.Model)
		if a.Strategy != "" {
			fmt.Printf("Strategy: %s\n", a.Strategy)
		}
		fmt.Printf("State:    %s\n", formatAgentState(a.State))
		if a.StateReason != "" {
			fmt.Printf("Reason:   %s\n", a.StateReason)
		}
		if a.LastRunAt != nil {
			fmt.Printf("Last run: %s\n", a.LastRunAt.Format("2006-01-02 15:04:05"))
		}

		decisions, err := service.Decisions(cmd.Context(), a.ID, 5)
		if err != nil {
			return err
		}
		if len(decisions) > 0 {
			fmt.Println("\nRecent events:")
			for _, ev := range decisions {
				fmt.Printf("  %s  %s\n", ev.Timestamp.Format("2006-01-02 15:04:05"), ev.Type)
			}
		}
		return nil
	},
}

var agentDeleteCmd = &cobra.Command{
	Use:   "delete <id-or-name>",
	Short: "Delete an agent",
	Long:  "Delete an agent and its portfolios. Audit events are kept.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		if err := newAgentService(database).Remove(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Printf("Deleted agent %s\n", args[0])
		return nil
	},
}

var agentPauseCmd = &cobra.Command{
	Use:   "pause <id-or-name>",
	Short: "Pause an agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		a, err := newAgentService(database).Pause(cmd.Context(), args[0], agentPauseReason)
		if err != nil {
			return err
		}

		fmt.Printf("Paused agent %s\n", a.Name)
		return nil
	},
}

var agentResumeCmd = &cobra.Command{
	Use:   "resume <id-or-name>",
	Short: "Resume a paused agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		a, err := newAgentService(database).Resume(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Resumed agent %s\n", a.Name)
		return nil
	},
}
