// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cytzrs/share-sub001/internal/market"
	"github.com/cytzrs/share-sub001/internal/tui/styles"
)

// PortfolioCard contains data needed to render a portfolio card.
type PortfolioCard struct {
	Name     string
	Snapshot market.Snapshot
}

// RenderPortfolioCard renders a compact portfolio valuation card.
func RenderPortfolioCard(styleSet styles.Styles, card PortfolioCard) string {
	snap := card.Snapshot

	header := styleSet.Accent.Render(defaultIfEmpty(card.Name, "Portfolio"))
	totalLine := styleSet.Text.Render(fmt.Sprintf("Total: %.2f  Cash: %.2f", snap.TotalAssets, snap.Cash))
	valueLine := styleSet.Text.Render(fmt.Sprintf("Market value: %.2f  Positions: %d", snap.MarketValue, len(snap.Positions)))
	plLine := fmt.Sprintf("P&L: %s", renderProfit(styleSet, snap.ProfitLoss, snap.ProfitPct))

	content := strings.Join([]string{
		header,
		totalLine,
		valueLine,
		plLine,
	}, "\n")

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	return cardStyle.Render(content)
}

func renderProfit(styleSet styles.Styles, value, pct float64) string {
	text := fmt.Sprintf("%+.2f (%+.2f%%)", value, pct)
	if value > 0 {
		return styleSet.Gain.Render(text)
	}
	if value < 0 {
		return styleSet.Loss.Render(text)
	}
	return styleSet.Muted.Render(text)
}
