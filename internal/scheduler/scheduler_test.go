package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cytzrs/share-sub001/internal/agent"
	"github.com/cytzrs/share-sub001/internal/db"
	"github.com/cytzrs/share-sub001/internal/models"
)

func setupScheduler(t *testing.T, config Config) (*Scheduler, *agent.Service, *db.DB) {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	agentService := agent.NewService(
		db.NewAgentRepository(database),
		db.NewTemplateRepository(database),
		db.NewEventRepository(database),
	)
	sched := New(config, agentService, db.NewPortfolioRepository(database), db.NewEventRepository(database))
	return sched, agentService, database
}

func TestStartStop(t *testing.T) {
	sched, _, _ := setupScheduler(t, Config{TickInterval: time.Hour})

	if err := sched.Stop(); !errors.Is(err, ErrSchedulerNotRunning) {
		t.Fatalf("expected ErrSchedulerNotRunning, got %v", err)
	}

	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := sched.Start(context.Background()); !errors.Is(err, ErrSchedulerAlreadyRunning) {
		t.Fatalf("expected ErrSchedulerAlreadyRunning, got %v", err)
	}

	if !sched.Stats().Running {
		t.Fatal("expected running stats")
	}

	if err := sched.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if sched.Stats().Running {
		t.Fatal("expected stopped stats")
	}
}

func TestTickSnapshotsPortfolios(t *testing.T) {
	sched, agentService, database := setupScheduler(t, Config{})
	ctx := context.Background()

	a, err := agentService.Create(ctx, agent.CreateOptions{Name: "alpha", Model: "gpt-5"})
	if err != nil {
		t.Fatalf("create agent: %v", err)
	}

	portfolioRepo := db.NewPortfolioRepository(database)
	portfolio := &models.Portfolio{AgentID: a.ID, Name: "main", Cash: 10000, InitialCash: 10000}
	if err := portfolioRepo.Create(ctx, portfolio); err != nil {
		t.Fatalf("create portfolio: %v", err)
	}
	if err := portfolioRepo.UpsertPosition(ctx, &models.Position{
		PortfolioID: portfolio.ID, Symbol: "600519", Quantity: 100, CostPrice: 1500, CurrentPrice: 1520,
	}); err != nil {
		t.Fatalf("upsert position: %v", err)
	}

	sched.Tick(ctx)

	stats := sched.Stats()
	if stats.Ticks != 1 || stats.SnapshotsTaken != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	evs, err := db.NewEventRepository(database).ListByEntity(ctx, models.EntityTypePortfolio, portfolio.ID, 10)
	if err != nil {
		t.Fatalf("ListByEntity: %v", err)
	}
	if len(evs) != 1 || evs[0].Type != models.EventTypePortfolioSnapshot {
		t.Fatalf("expected one snapshot event, got %+v", evs)
	}
}

func TestStaleAgentFlaggedOnce(t *testing.T) {
	sched, agentService, database := setupScheduler(t, Config{StaleThreshold: time.Minute})
	ctx := context.Background()

	a, err := agentService.Create(ctx, agent.CreateOptions{Name: "alpha", Model: "gpt-5"})
	if err != nil {
		t.Fatalf("create agent: %v", err)
	}
	if _, err := agentService.Transition(ctx, a.ID, models.AgentStateRunning, "cycle"); err != nil {
		t.Fatalf("transition: %v", err)
	}

	// Backdate the last decision well past the threshold.
	agentRepo := db.NewAgentRepository(database)
	if err := agentRepo.TouchLastRun(ctx, a.ID, time.Now().UTC().Add(-time.Hour)); err != nil {
		t.Fatalf("touch last run: %v", err)
	}

	sched.Tick(ctx)
	sched.Tick(ctx)

	if got := sched.Stats().StaleAgents; got != 1 {
		t.Fatalf("expected 1 stale agent, got %d", got)
	}

	evs, err := db.NewEventRepository(database).ListByEntity(ctx, models.EntityTypeAgent, a.ID, 20)
	if err != nil {
		t.Fatalf("ListByEntity: %v", err)
	}
	staleEvents := 0
	for _, ev := range evs {
		if ev.Type == models.EventTypeAgentStale {
			staleEvents++
		}
	}
	if staleEvents != 1 {
		t.Fatalf("expected a single stale event across ticks, got %d", staleEvents)
	}
}

func TestFreshAgentNotFlagged(t *testing.T) {
	sched, agentService, _ := setupScheduler(t, Config{StaleThreshold: time.Hour})
	ctx := context.Background()

	a, err := agentService.Create(ctx, agent.CreateOptions{Name: "alpha", Model: "gpt-5"})
	if err != nil {
		t.Fatalf("create agent: %v", err)
	}
	if _, err := agentService.Transition(ctx, a.ID, models.AgentStateRunning, "cycle"); err != nil {
		t.Fatalf("transition: %v", err)
	}

	sched.Tick(ctx)

	if got := sched.Stats().StaleAgents; got != 0 {
		t.Fatalf("expected no stale agents, got %d", got)
	}
}
