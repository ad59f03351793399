package models

import (
	"strings"
	"time"
)

// Portfolio is the account an agent trades with.
type Portfolio struct {
	// ID is the unique identifier for the portfolio.
	ID string `json:"id"`

	// AgentID references the owning agent.
	AgentID string `json:"agent_id"`

	// Name is the display name.
	Name string `json:"name"`

	// Cash is the uninvested balance.
	Cash float64 `json:"cash"`

	// InitialCash is the starting balance, used for total return.
	InitialCash float64 `json:"initial_cash"`

	// Currency is the ISO currency code (default CNY).
	Currency string `json:"currency"`

	// CreatedAt is when the portfolio was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the portfolio was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks if the portfolio is valid.
func (p *Portfolio) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(p.AgentID) == "" {
		validation.AddMessage("agent_id", "agent id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		validation.AddMessage("name", "portfolio name is required")
	}
	if p.Cash < 0 {
		validation.AddMessage("cash", "cash must not be negative")
	}
	if p.InitialCash < 0 {
		validation.AddMessage("initial_cash", "initial cash must not be negative")
	}
	return validation.Err()
}

// Position is a single holding inside a portfolio.
type Position struct {
	// ID is the unique identifier for the position.
	ID string `json:"id"`

	// PortfolioID references the owning portfolio.
	PortfolioID string `json:"portfolio_id"`

	// Symbol is the exchange ticker (e.g. "600519", "AAPL").
	Symbol string `json:"symbol"`

	// Name is the human-readable security name.
	Name string `json:"name,omitempty"`

	// Quantity is the number of shares held.
	Quantity float64 `json:"quantity"`

	// CostPrice is the average acquisition price per share.
	CostPrice float64 `json:"cost_price"`

	// CurrentPrice is the latest observed price per share.
	CurrentPrice float64 `json:"current_price"`

	// UpdatedAt is when the position was last refreshed.
	UpdatedAt time.Time `json:"updated_at"`
}

// MarketValue returns the current value of the holding.
func (p *Position) MarketValue() float64 {
	return p.Quantity * p.CurrentPrice
}

// Cost returns the total acquisition cost of the holding.
func (p *Position) Cost() float64 {
	return p.Quantity * p.CostPrice
}

// ProfitLoss returns the unrealized gain or loss.
func (p *Position) ProfitLoss() float64 {
	return p.MarketValue() - p.Cost()
}

// Validate checks if the position is valid.
func (p *Position) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(p.PortfolioID) == "" {
		validation.AddMessage("portfolio_id", "portfolio id is required")
	}
	if strings.TrimSpace(p.Symbol) == "" {
		validation.AddMessage("symbol", "symbol is required")
	}
	if p.Quantity < 0 {
		validation.AddMessage("quantity", "quantity must not be negative")
	}
	return validation.Err()
}
