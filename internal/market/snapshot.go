// Package market computes portfolio valuations.
package market

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cytzrs/share-sub001/internal/models"
)

// PositionRow is a valued holding inside a snapshot.
type PositionRow struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name,omitempty"`
	Quantity     float64 `json:"quantity"`
	CostPrice    float64 `json:"cost_price"`
	CurrentPrice float64 `json:"current_price"`
	MarketValue  float64 `json:"market_value"`
	ProfitLoss   float64 `json:"profit_loss"`
	ProfitPct    float64 `json:"profit_pct"`
}

// Snapshot is a point-in-time valuation of a portfolio.
type Snapshot struct {
	PortfolioID string        `json:"portfolio_id"`
	Cash        float64       `json:"cash"`
	MarketValue float64       `json:"market_value"`
	TotalAssets float64       `json:"total_assets"`
	TotalCost   float64       `json:"total_cost"`
	ProfitLoss  float64       `json:"profit_loss"`
	ProfitPct   float64       `json:"profit_pct"`
	Positions   []PositionRow `json:"positions"`
	TakenAt     time.Time     `json:"taken_at"`
}

// Compute values a portfolio against its current positions.
func Compute(portfolio *models.Portfolio, positions []*models.Position) Snapshot {
	snap := Snapshot{
		PortfolioID: portfolio.ID,
		Cash:        portfolio.Cash,
		TakenAt:     time.Now().UTC(),
	}

	for _, pos := range positions {
		row := PositionRow{
			Symbol:       pos.Symbol,
			Name:         pos.Name,
			Quantity:     pos.Quantity,
			CostPrice:    pos.CostPrice,
			CurrentPrice: pos.CurrentPrice,
			MarketValue:  pos.MarketValue(),
			ProfitLoss:   pos.ProfitLoss(),
		}
		if cost := pos.Cost(); cost != 0 {
			row.ProfitPct = row.ProfitLoss / cost * 100
		}
		snap.MarketValue += row.MarketValue
		snap.TotalCost += pos.Cost()
		snap.Positions = append(snap.Positions, row)
	}

	snap.TotalAssets = snap.Cash + snap.MarketValue
	snap.ProfitLoss = snap.MarketValue - snap.TotalCost
	if snap.TotalCost != 0 {
		snap.ProfitPct = snap.ProfitLoss / snap.TotalCost * 100
	}

	return snap
}

// Payload converts the snapshot to its event payload form.
func (s Snapshot) Payload() models.SnapshotPayload {
	return models.SnapshotPayload{
		Cash:        s.Cash,
		MarketValue: s.MarketValue,
		TotalAssets: s.TotalAssets,
		ProfitLoss:  s.ProfitLoss,
		Positions:   len(s.Positions),
	}
}

// SampleData maps the snapshot onto template placeholder values so that
// previews can use live account numbers instead of the built-in samples.
func SampleData(agent *models.Agent, snap Snapshot) map[string]string {
	now := time.Now()

	data := map[string]string{
		"cash":            formatMoney(snap.Cash),
		"market_value":    formatMoney(snap.MarketValue),
		"total_assets":    formatMoney(snap.TotalAssets),
		"available_funds": formatMoney(snap.Cash),
		"today_profit":    formatSigned(0),
		"total_profit":    formatSigned(snap.ProfitLoss),
		"positions":       formatPositions(snap.Positions),
		"position_count":  strconv.Itoa(len(snap.Positions)),
		"date":            now.Format("2006-01-02"),
		"time":            now.Format("15:04:05"),
	}

	if agent != nil {
		data["agent_name"] = agent.Name
		data["strategy"] = agent.Strategy
		data["model"] = agent.Model
	}

	return data
}

func formatPositions(rows []PositionRow) string {
	if len(rows) == 0 {
		return "(no positions)"
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		label := row.Symbol
		if row.Name != "" {
			label += " " + row.Name
		}
		lines = append(lines, fmt.Sprintf("%s x%s @%s (%s)",
			label,
			strconv.FormatFloat(row.Quantity, 'f', -1, 64),
			formatMoney(row.CurrentPrice),
			formatSigned(row.ProfitLoss),
		))
	}
	return strings.Join(lines, "\n")
}

func formatMoney(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

func formatSigned(value float64) string {
	if value >= 0 {
		return "+" + formatMoney(value)
	}
	return formatMoney(value)
}
