package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cytzrs/share-sub001/internal/models"
)

// Portfolio repository errors.
var (
	ErrPortfolioNotFound = errors.New("portfolio not found")
	ErrPositionNotFound  = errors.New("position not found")
)

// PortfolioRepository handles portfolio and position persistence.
type PortfolioRepository struct {
	db *DB
}

// NewPortfolioRepository creates a new PortfolioRepository.
func NewPortfolioRepository(db *DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// Create inserts a new portfolio.
func (r *PortfolioRepository) Create(ctx context.Context, p *models.Portfolio) error {
	if p.Currency == "" {
		p.Currency = "CNY"
	}
	if err := p.Validate(); err != nil {
		return err
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO portfolios (id, agent_id, name, cash, initial_cash, currency, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID,
		p.AgentID,
		p.Name,
		p.Cash,
		p.InitialCash,
		p.Currency,
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio: %w", err)
	}

	return nil
}

const portfolioColumns = `id, agent_id, name, cash, initial_cash, currency, created_at, updated_at`

// Get retrieves a portfolio by ID.
func (r *PortfolioRepository) Get(ctx context.Context, id string) (*models.Portfolio, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+portfolioColumns+` FROM portfolios WHERE id = ?`, id)
	return scanPortfolio(row.Scan)
}

// GetByAgent retrieves the portfolio owned by an agent.
func (r *PortfolioRepository) GetByAgent(ctx context.Context, agentID string) (*models.Portfolio, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+portfolioColumns+` FROM portfolios WHERE agent_id = ?`, agentID)
	return scanPortfolio(row.Scan)
}

// List retrieves all portfolios ordered by name.
func (r *PortfolioRepository) List(ctx context.Context) ([]*models.Portfolio, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+portfolioColumns+` FROM portfolios ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios: %w", err)
	}
	defer rows.Close()

	var portfolios []*models.Portfolio
	for rows.Next() {
		p, err := scanPortfolio(rows.Scan)
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolios: %w", err)
	}

	return portfolios, nil
}

// UpdateCash sets the uninvested balance.
func (r *PortfolioRepository) UpdateCash(ctx context.Context, id string, cash float64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE portfolios SET cash = ?, updated_at = ? WHERE id = ?
	`, cash, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("failed to update portfolio cash: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrPortfolioNotFound
	}
	return nil
}

// Delete removes a portfolio and, via foreign keys, its positions.
func (r *PortfolioRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM portfolios WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrPortfolioNotFound
	}
	return nil
}

// ListPositions retrieves the positions of a portfolio ordered by symbol.
func (r *PortfolioRepository) ListPositions(ctx context.Context, portfolioID string) ([]*models.Position, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, portfolio_id, symbol, name, quantity, cost_price, current_price, updated_at
		FROM positions WHERE portfolio_id = ? ORDER BY symbol
	`, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []*models.Position
	for rows.Next() {
		var pos models.Position
		var updatedAt string
		if err := rows.Scan(&pos.ID, &pos.PortfolioID, &pos.Symbol, &pos.Name, &pos.Quantity, &pos.CostPrice, &pos.CurrentPrice, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		pos.UpdatedAt = parseTime(updatedAt)
		positions = append(positions, &pos)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}

	return positions, nil
}

// UpsertPosition inserts or replaces the holding for a symbol.
func (r *PortfolioRepository) UpsertPosition(ctx context.Context, pos *models.Position) error {
	if err := pos.Validate(); err != nil {
		return err
	}

	if pos.ID == "" {
		pos.ID = uuid.New().String()
	}
	pos.UpdatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO positions (id, portfolio_id, symbol, name, quantity, cost_price, current_price, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(portfolio_id, symbol) DO UPDATE SET
			name = excluded.name,
			quantity = excluded.quantity,
			cost_price = excluded.cost_price,
			current_price = excluded.current_price,
			updated_at = excluded.updated_at
	`,
		pos.ID,
		pos.PortfolioID,
		pos.Symbol,
		pos.Name,
		pos.Quantity,
		pos.CostPrice,
		pos.CurrentPrice,
		pos.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert position: %w", err)
	}

	return nil
}

// DeletePosition removes a holding by portfolio and symbol.
func (r *PortfolioRepository) DeletePosition(ctx context.Context, portfolioID, symbol string) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM positions WHERE portfolio_id = ? AND symbol = ?
	`, portfolioID, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrPositionNotFound
	}
	return nil
}

func scanPortfolio(scan func(...any) error) (*models.Portfolio, error) {
	var p models.Portfolio
	var createdAt, updatedAt string

	err := scan(&p.ID, &p.AgentID, &p.Name, &p.Cash, &p.InitialCash, &p.Currency, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPortfolioNotFound
		}
		return nil, fmt.Errorf("failed to scan portfolio: %w", err)
	}

	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}
