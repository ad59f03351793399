// Package cli provides MCP server registry commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cytzrs/share-sub001/internal/db"
	"github.com/cytzrs/share-sub001/internal/mcp"
	"github.com/cytzrs/share-sub001/internal/models"
)

var (
	mcpAddTransport string
	mcpAddEndpoint  string
	mcpAddCommand   string
	mcpAddDisabled  bool
)

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.AddCommand(mcpListCmd)
	mcpCmd.AddCommand(mcpAddCmd)
	mcpCmd.AddCommand(mcpRemoveCmd)
	mcpCmd.AddCommand(mcpCheckCmd)
	mcpCmd.AddCommand(mcpEnableCmd)
	mcpCmd.AddCommand(mcpDisableCmd)

	mcpAddCmd.Flags().StringVar(&mcpAddTransport, "transport", "stdio", "transport: stdio, sse or http")
	mcpAddCmd.Flags().StringVar(&mcpAddEndpoint, "endpoint", "", "endpoint URL (sse/http transports)")
	mcpAddCmd.Flags().StringVar(&mcpAddCommand, "command", "", "executable command (stdio transport)")
	mcpAddCmd.Flags().BoolVar(&mcpAddDisabled, "disabled", false, "register without enabling")
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Manage MCP tool servers",
	Long: `Manage the MCP tool servers agents may use.

Servers are reached over stdio (a local command), SSE or HTTP. The
check command probes reachability and records the result.`,
}

func newMCPService(database *db.DB) *mcp.Service {
	return mcp.NewService(db.NewMCPServerRepository(database), db.NewEventRepository(database))
}

var mcpListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		servers, err := newMCPService(database).List(cmd.Context())
		if err != nil {
			return err
		}

		if IsJSONOutput() {
			return WriteOutput(os.Stdout, servers)
		}

		rows := make([][]string, 0, len(servers))
		for _, server := range servers {
			target := server.Endpoint
			if server.Transport == models.MCPTransportStdio {
				target = server.Command
			}
			checked := "-"
			if server.LastCheckedAt != nil {
				checked = server.LastCheckedAt.Format("2006-01-02 15:04")
			}
			rows = append(rows, []string{
				server.Name,
				string(server.Transport),
				target,
				formatYesNo(server.Enabled),
				formatMCPStatus(server.Status),
				checked,
			})
		}
		return writeTable(os.Stdout, []string{"NAME", "TRANSPORT", "TARGET", "ENABLED", "STATUS", "CHECKED"}, rows)
	},
}

var mcpAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register an MCP server",
	Args:  cobra.ExactArgs(1),
	Example: `  # Local stdio server
  sharesub mcp add quotes --transport stdio --command "uvx quote-server"

  # Remote HTTP server
  sharesub mcp add research --transport http --endpoint http://localhost:9000/mcp`,
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		server, err := newMCPService(database).Add(cmd.Context(), mcp.AddOptions{
			Name:      args[0],
			Transport: models.MCPTransport(mcpAddTransport),
			Endpoint:  mcpAddEndpoint,
			Command:   mcpAddCommand,
			Enabled:   !mcpAddDisabled,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Registered MCP server %s (%s)\n", server.Name, server.Transport)
		return nil
	},
}

var mcpRemoveCmd = &cobra.Command{
	Use:   "remove <id-or-name>",
	Short: "Remove an MCP server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		if err := newMCPService(database).Remove(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Printf("Removed MCP server %s\n", args[0])
		return nil
	},
}

var mcpEnableCmd = &cobra.Command{
	Use:   "enable <id-or-name>",
	Short: "Enable an MCP server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setMCPEnabled(cmd, args[0], true)
	},
}

var mcpDisableCmd = &cobra.Command{
	Use:   "disable <id-or-name>",
	Short: "Disable an MCP server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setMCPEnabled(cmd, args[0], false)
	},
}

func setMCPEnabled(cmd *cobra.Command, idOrName string, enabled bool) error {
	database, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	server, err := newMCPService(database).SetEnabled(cmd.Context(), idOrName, enabled)
	if err != nil {
		return err
	}

	fmt.Printf("%s: enabled=%s\n", server.Name, formatYesNo(server.Enabled))
	return nil
}

var mcpCheckCmd = &cobra.Command{
	Use:   "check [id-or-name]",
	Short: "Check server reachability",
	Long:  "Check reachability of one server, or of every registered server when no argument is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		service := newMCPService(database)

		var servers []*models.MCPServer
		if len(args) == 1 {
			server, err := service.Check(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			servers = append(servers, server)
		} else {
			servers, err = service.CheckAll(cmd.Context())
			if err != nil {
				return err
			}
		}

		if IsJSONOutput() {
			return WriteOutput(os.Stdout, servers)
		}

		for _, server := range servers {
			fmt.Printf("%s: %s\n", server.Name, formatMCPStatus(server.Status))
		}
		return nil
	},
}
