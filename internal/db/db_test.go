package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cytzrs/share-sub001/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return database
}

func createTestAgent(t *testing.T, database *DB) *models.Agent {
	t.Helper()

	agent := &models.Agent{
		Name:     "test-agent",
		Model:    "gpt-5",
		Strategy: "momentum",
	}
	if err := NewAgentRepository(database).Create(context.Background(), agent); err != nil {
		t.Fatalf("create agent: %v", err)
	}
	return agent
}

func createTestPortfolio(t *testing.T, database *DB, agentID string) *models.Portfolio {
	t.Helper()

	p := &models.Portfolio{
		AgentID:     agentID,
		Name:        "test-portfolio",
		Cash:        15000,
		InitialCash: 25000,
	}
	if err := NewPortfolioRepository(database).Create(context.Background(), p); err != nil {
		t.Fatalf("create portfolio: %v", err)
	}
	return p
}
