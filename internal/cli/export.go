// Package cli provides export commands for ShareSub data.
package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cytzrs/share-sub001/internal/db"
	"github.com/cytzrs/share-sub001/internal/models"
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportStatusCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export ShareSub data",
	Long:  "Export ShareSub state for automation or reporting.",
}

var exportStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Export full status",
	Long:  "Export full status as JSON: templates, agents, portfolios, MCP servers and recent events.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		templateRepo := db.NewTemplateRepository(database)
		agentRepo := db.NewAgentRepository(database)
		portfolioRepo := db.NewPortfolioRepository(database)
		mcpRepo := db.NewMCPServerRepository(database)
		eventRepo := db.NewEventRepository(database)

		templateList, err := templateRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}
		agents, err := agentRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list agents: %w", err)
		}
		portfolios, err := portfolioRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list portfolios: %w", err)
		}
		servers, err := mcpRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list mcp servers: %w", err)
		}
		page, err := eventRepo.Query(ctx, db.EventQuery{Limit: 200})
		if err != nil {
			return fmt.Errorf("failed to query events: %w", err)
		}

		status := ExportStatus{
			Templates:  templateList,
			Agents:     agents,
			Portfolios: portfolios,
			MCPServers: servers,
			Events:     page.Events,
		}

		if IsJSONOutput() {
			return WriteOutput(os.Stdout, status)
		}

		writer := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintf(writer, "Templates:\t%d\n", len(templateList))
		fmt.Fprintf(writer, "Agents:\t%d\n", len(agents))
		fmt.Fprintf(writer, "Portfolios:\t%d\n", len(portfolios))
		fmt.Fprintf(writer, "MCP servers:\t%d\n", len(servers))
		fmt.Fprintf(writer, "Events:\t%d\n", len(page.Events))
		if err := writer.Flush(); err != nil {
			return err
		}

		fmt.Println("Use --json for full export output.")
		return nil
	},
}

// ExportStatus is the payload returned by `sharesub export status`.
type ExportStatus struct {
	Templates  []*models.Template  `json:"templates"`
	Agents     []*models.Agent     `json:"agents"`
	Portfolios []*models.Portfolio `json:"portfolios"`
	MCPServers []*models.MCPServer `json:"mcp_servers"`
	Events     []*models.Event     `json:"events"`
}
