// Package cli provides portfolio inspection commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cytzrs/share-sub001/internal/db"
	"github.com/cytzrs/share-sub001/internal/market"
)

func init() {
	rootCmd.AddCommand(portfolioCmd)
	portfolioCmd.AddCommand(portfolioListCmd)
	portfolioCmd.AddCommand(portfolioShowCmd)
}

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Inspect agent portfolios",
}

var portfolioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List portfolios",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		repo := db.NewPortfolioRepository(database)
		portfolios, err := repo.List(cmd.Context())
		if err != nil {
			return err
		}

		if IsJSONOutput() {
			return WriteOutput(os.Stdout, portfolios)
		}

		rows := make([][]string, 0, len(portfolios))
		for _, p := range portfolios {
			positions, err := repo.ListPositions(cmd.Context(), p.ID)
			if err != nil {
				return err
			}
			snap := market.Compute(p, positions)
			rows = append(rows, []string{
				p.ID[:8],
				p.Name,
				fmt.Sprintf("%.2f", snap.Cash),
				fmt.Sprintf("%.2f", snap.MarketValue),
				fmt.Sprintf("%.2f", snap.TotalAssets),
				formatProfit(snap.ProfitLoss),
			})
		}
		return writeTable(os.Stdout, []string{"ID", "NAME", "CASH", "MARKET VALUE", "TOTAL", "P&L"}, rows)
	},
}

var portfolioShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a portfolio with its positions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		repo := db.NewPortfolioRepository(database)
		portfolio, err := repo.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		positions, err := repo.ListPositions(cmd.Context(), portfolio.ID)
		if err != nil {
			return err
		}
		snap := market.Compute(portfolio, positions)

		if IsJSONOutput() {
			return WriteOutput(os.Stdout, snap)
		}

		fmt.Printf("Portfolio:    %s (%s)\n", portfolio.Name, portfolio.ID[:8])
		fmt.Printf("Cash:         %.2f\n", snap.Cash)
		fmt.Printf("Market value: %.2f\n", snap.MarketValue)
		fmt.Printf("Total assets: %.2f\n", snap.TotalAssets)
		fmt.Printf("P&L:          %s (%.2f%%)\n", formatProfit(snap.ProfitLoss), snap.ProfitPct)

		if len(snap.Positions) == 0 {
			fmt.Println("\nNo open positions.")
			return nil
		}

		rows := make([][]string, 0, len(snap.Positions))
		for _, row := range snap.Positions {
			rows = append(rows, []string{
				row.Symbol,
				row.Name,
				fmt.Sprintf("%.0f", row.Quantity),
				fmt.Sprintf("%.2f", row.CostPrice),
				fmt.Sprintf("%.2f", row.CurrentPrice),
				fmt.Sprintf("%.2f", row.MarketValue),
				formatProfit(row.ProfitLoss),
			})
		}
		fmt.Println()
		return writeTable(os.Stdout, []string{"SYMBOL", "NAME", "QTY", "COST", "PRICE", "VALUE", "P&L"}, rows)
	},
}
