package templates

// CatalogEntry describes a placeholder for display purposes. The catalog
// does not affect rendering semantics; it only supplies the label used
// in undefined-placeholder errors and the editor's placeholder picker.
type CatalogEntry struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Category groups placeholders for display.
type Category struct {
	Name string   `json:"name"`
	Keys []string `json:"keys"`
}

// Catalog is the static placeholder catalog.
var Catalog = map[string]CatalogEntry{
	"cash":            {Label: "Cash", Description: "Uninvested cash balance"},
	"market_value":    {Label: "Market value", Description: "Total value of open positions"},
	"total_assets":    {Label: "Total assets", Description: "Cash plus market value"},
	"available_funds": {Label: "Available funds", Description: "Cash available for new orders"},
	"today_profit":    {Label: "Today's P&L", Description: "Profit or loss for the current session"},
	"total_profit":    {Label: "Total P&L", Description: "Unrealized profit or loss across all positions"},

	"positions":      {Label: "Positions", Description: "Formatted list of current holdings"},
	"position_count": {Label: "Position count", Description: "Number of open positions"},

	"date": {Label: "Date", Description: "Current trading date"},
	"time": {Label: "Time", Description: "Current local time"},

	"agent_name": {Label: "Agent name", Description: "Name of the trading agent"},
	"strategy":   {Label: "Strategy", Description: "Trading strategy label"},
	"model":      {Label: "Model", Description: "LLM backing the agent"},
	"risk_level": {Label: "Risk level", Description: "Configured risk appetite"},
}

// Categories lists catalog groups in display order.
var Categories = []Category{
	{Name: "Account", Keys: []string{"cash", "market_value", "total_assets", "available_funds", "today_profit", "total_profit"}},
	{Name: "Positions", Keys: []string{"positions", "position_count"}},
	{Name: "Market", Keys: []string{"date", "time"}},
	{Name: "Agent", Keys: []string{"agent_name", "strategy", "model", "risk_level"}},
}

// LabelFor returns the catalog display label for an identifier, or the
// identifier itself when it is not cataloged.
func LabelFor(id string) string {
	if entry, ok := Catalog[id]; ok && entry.Label != "" {
		return entry.Label
	}
	return id
}

// DefaultSampleData returns the built-in preview values. Every cataloged
// placeholder has an entry so that previews of catalog-only templates
// render without errors.
func DefaultSampleData() map[string]string {
	return map[string]string{
		"cash":            "15000.00",
		"market_value":    "10000.00",
		"total_assets":    "25000.00",
		"available_funds": "12000.00",
		"today_profit":    "+320.50",
		"total_profit":    "+1250.00",

		"positions":      "600519 贵州茅台 x100 @1520.00\n000001 平安银行 x500 @11.20",
		"position_count": "2",

		"date": "2025-06-30",
		"time": "14:30:00",

		"agent_name": "alpha-trader",
		"strategy":   "momentum",
		"model":      "gpt-5",
		"risk_level": "moderate",
	}
}
