package db

import (
	"context"
	"errors"
	"testing"

	"github.com/cytzrs/share-sub001/internal/models"
)

func TestPortfolioRepository_CreateAndGet(t *testing.T) {
	database := setupTestDB(t)
	agent := createTestAgent(t, database)
	repo := NewPortfolioRepository(database)
	ctx := context.Background()

	p := createTestPortfolio(t, database, agent.ID)

	got, err := repo.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.AgentID != agent.ID || got.Cash != 15000 {
		t.Fatalf("unexpected portfolio: %+v", got)
	}
	if got.Currency != "CNY" {
		t.Fatalf("expected default currency CNY, got %q", got.Currency)
	}

	byAgent, err := repo.GetByAgent(ctx, agent.ID)
	if err != nil {
		t.Fatalf("GetByAgent: %v", err)
	}
	if byAgent.ID != p.ID {
		t.Fatalf("expected portfolio %q, got %q", p.ID, byAgent.ID)
	}
}

func TestPortfolioRepository_Positions(t *testing.T) {
	database := setupTestDB(t)
	agent := createTestAgent(t, database)
	p := createTestPortfolio(t, database, agent.ID)
	repo := NewPortfolioRepository(database)
	ctx := context.Background()

	pos := &models.Position{
		PortfolioID:  p.ID,
		Symbol:       "600519",
		Name:         "贵州茅台",
		Quantity:     100,
		CostPrice:    1500,
		CurrentPrice: 1520,
	}
	if err := repo.UpsertPosition(ctx, pos); err != nil {
		t.Fatalf("UpsertPosition: %v", err)
	}

	// Upserting the same symbol updates in place.
	pos.CurrentPrice = 1530
	if err := repo.UpsertPosition(ctx, pos); err != nil {
		t.Fatalf("UpsertPosition (update): %v", err)
	}

	positions, err := repo.ListPositions(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListPositions: %v", err)
	}
	if len(positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(positions))
	}
	if positions[0].CurrentPrice != 1530 {
		t.Fatalf("expected updated price, got %v", positions[0].CurrentPrice)
	}
	if positions[0].MarketValue() != 153000 {
		t.Fatalf("unexpected market value: %v", positions[0].MarketValue())
	}

	if err := repo.DeletePosition(ctx, p.ID, "600519"); err != nil {
		t.Fatalf("DeletePosition: %v", err)
	}
	if err := repo.DeletePosition(ctx, p.ID, "600519"); !errors.Is(err, ErrPositionNotFound) {
		t.Fatalf("expected ErrPositionNotFound, got %v", err)
	}
}

func TestPortfolioRepository_DeleteCascadesPositions(t *testing.T) {
	database := setupTestDB(t)
	agent := createTestAgent(t, database)
	p := createTestPortfolio(t, database, agent.ID)
	repo := NewPortfolioRepository(database)
	ctx := context.Background()

	pos := &models.Position{
		PortfolioID:  p.ID,
		Symbol:       "000001",
		Quantity:     500,
		CostPrice:    11,
		CurrentPrice: 11.2,
	}
	if err := repo.UpsertPosition(ctx, pos); err != nil {
		t.Fatalf("UpsertPosition: %v", err)
	}

	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var count int
	if err := database.QueryRowContext(ctx, `SELECT COUNT(*) FROM positions WHERE portfolio_id = ?`, p.ID).Scan(&count); err != nil {
		t.Fatalf("count positions: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected cascade delete, found %d positions", count)
	}
}

func TestPortfolioRepository_UpdateCash(t *testing.T) {
	database := setupTestDB(t)
	agent := createTestAgent(t, database)
	p := createTestPortfolio(t, database, agent.ID)
	repo := NewPortfolioRepository(database)
	ctx := context.Background()

	if err := repo.UpdateCash(ctx, p.ID, 9999.5); err != nil {
		t.Fatalf("UpdateCash: %v", err)
	}
	got, err := repo.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Cash != 9999.5 {
		t.Fatalf("expected cash 9999.5, got %v", got.Cash)
	}

	if err := repo.UpdateCash(ctx, "missing", 1); !errors.Is(err, ErrPortfolioNotFound) {
		t.Fatalf("expected ErrPortfolioNotFound, got %v", err)
	}
}
