package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cytzrs/share-sub001/internal/models"
)

func TestAgentRepository_CreateAndGet(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAgentRepository(database)
	ctx := context.Background()

	agent := createTestAgent(t, database)
	if agent.State != models.AgentStateIdle {
		t.Fatalf("expected default idle state, got %q", agent.State)
	}

	got, err := repo.Get(ctx, agent.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "test-agent" || got.Model != "gpt-5" {
		t.Fatalf("unexpected agent: %+v", got)
	}
	if got.LastRunAt != nil {
		t.Fatalf("expected nil last_run_at, got %v", got.LastRunAt)
	}
}

func TestAgentRepository_UpdateState(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAgentRepository(database)
	ctx := context.Background()

	agent := createTestAgent(t, database)

	if err := repo.UpdateState(ctx, agent.ID, models.AgentStateRunning, "cycle started"); err != nil {
		t.Fatalf("UpdateState: %v", err)
	}
	got, err := repo.Get(ctx, agent.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.State != models.AgentStateRunning || got.StateReason != "cycle started" {
		t.Fatalf("unexpected state: %q (%q)", got.State, got.StateReason)
	}

	if err := repo.UpdateState(ctx, agent.ID, "flying", ""); err == nil {
		t.Fatal("expected error for unknown state")
	}
	if err := repo.UpdateState(ctx, "missing", models.AgentStateIdle, ""); !errors.Is(err, ErrAgentNotFound) {
		t.Fatalf("expected ErrAgentNotFound, got %v", err)
	}
}

func TestAgentRepository_TouchLastRun(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAgentRepository(database)
	ctx := context.Background()

	agent := createTestAgent(t, database)
	at := time.Date(2025, 6, 30, 15, 0, 0, 0, time.UTC)

	if err := repo.TouchLastRun(ctx, agent.ID, at); err != nil {
		t.Fatalf("TouchLastRun: %v", err)
	}
	got, err := repo.Get(ctx, agent.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.LastRunAt == nil || !got.LastRunAt.Equal(at) {
		t.Fatalf("unexpected last_run_at: %v", got.LastRunAt)
	}
}

func TestAgentRepository_DuplicateName(t *testing.T) {
	database := setupTestDB(t)
	repo := NewAgentRepository(database)
	ctx := context.Background()

	createTestAgent(t, database)
	err := repo.Create(ctx, &models.Agent{Name: "test-agent", Model: "qwen-max"})
	if !errors.Is(err, ErrAgentExists) {
		t.Fatalf("expected ErrAgentExists, got %v", err)
	}
}
