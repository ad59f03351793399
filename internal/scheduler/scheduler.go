// Package scheduler provides the periodic monitoring loop for ShareSub.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cytzrs/share-sub001/internal/agent"
	"github.com/cytzrs/share-sub001/internal/db"
	"github.com/cytzrs/share-sub001/internal/events"
	"github.com/cytzrs/share-sub001/internal/logging"
	"github.com/cytzrs/share-sub001/internal/market"
	"github.com/cytzrs/share-sub001/internal/models"
)

// Scheduler errors.
var (
	ErrSchedulerAlreadyRunning = errors.New("scheduler already running")
	ErrSchedulerNotRunning     = errors.New("scheduler not running")
)

// Config contains scheduler configuration.
type Config struct {
	// TickInterval is how often the monitor cycle runs.
	// Default: 1 minute.
	TickInterval time.Duration

	// StaleThreshold is how long a running agent may go without a
	// decision before it is flagged as stale. Default: 15 minutes.
	StaleThreshold time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		TickInterval:   1 * time.Minute,
		StaleThreshold: 15 * time.Minute,
	}
}

// Stats contains scheduler statistics.
type Stats struct {
	// Running indicates if the scheduler is active.
	Running bool

	// StartedAt is when the scheduler was started.
	StartedAt *time.Time

	// Ticks is the number of completed monitor cycles.
	Ticks int64

	// LastTickAt is when the last cycle ran.
	LastTickAt *time.Time

	// SnapshotsTaken is the total number of portfolio snapshots recorded.
	SnapshotsTaken int64

	// StaleAgents is the count of agents flagged stale on the last cycle.
	StaleAgents int
}

// Scheduler runs the periodic portfolio snapshot and agent staleness checks.
type Scheduler struct {
	config        Config
	agentService  *agent.Service
	portfolioRepo *db.PortfolioRepository
	eventRepo     *db.EventRepository
	logger        zerolog.Logger

	// Runtime state
	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	// Stats
	statsMu sync.RWMutex
	stats   Stats

	// flagged tracks agents already reported stale so the event is
	// emitted once per stall, not once per tick.
	flagged map[string]struct{}
}

// New creates a new Scheduler.
func New(config Config, agentService *agent.Service, portfolioRepo *db.PortfolioRepository, eventRepo *db.EventRepository) *Scheduler {
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultConfig().TickInterval
	}
	if config.StaleThreshold <= 0 {
		config.StaleThreshold = DefaultConfig().StaleThreshold
	}

	return &Scheduler{
		config:        config,
		agentService:  agentService,
		portfolioRepo: portfolioRepo,
		eventRepo:     eventRepo,
		logger:        logging.Component("scheduler"),
		flagged:       make(map[string]struct{}),
	}
}

// Start begins the scheduler's background monitoring loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrSchedulerAlreadyRunning
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.running = true

	now := time.Now().UTC()
	s.statsMu.Lock()
	s.stats.Running = true
	s.stats.StartedAt = &now
	s.statsMu.Unlock()

	s.logger.Info().
		Dur("tick_interval", s.config.TickInterval).
		Dur("stale_threshold", s.config.StaleThreshold).
		Msg("scheduler starting")

	s.wg.Add(1)
	go s.runLoop(ctx)

	return nil
}

// Stop halts the scheduler and waits for the loop to exit.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}

	s.logger.Info().Msg("scheduler stopping")
	s.cancel()
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()

	s.statsMu.Lock()
	s.stats.Running = false
	s.statsMu.Unlock()

	s.logger.Info().Msg("scheduler stopped")
	return nil
}

// Stats returns current scheduler statistics.
func (s *Scheduler) Stats() Stats {
	s.statsMu.RLock()
	defer s.statsMu.RUnlock()
	return s.stats
}

// runLoop is the main monitoring loop.
func (s *Scheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick performs one monitor cycle: snapshot every portfolio and flag
// running agents that have gone quiet. Exposed so the serve command can
// run an immediate cycle at startup.
func (s *Scheduler) Tick(ctx context.Context) {
	snapshots := s.snapshotPortfolios(ctx)
	stale := s.checkStaleAgents(ctx)

	now := time.Now().UTC()
	s.statsMu.Lock()
	s.stats.Ticks++
	s.stats.LastTickAt = &now
	s.stats.SnapshotsTaken += int64(snapshots)
	s.stats.StaleAgents = stale
	s.statsMu.Unlock()
}

// snapshotPortfolios values every portfolio and records snapshot events.
func (s *Scheduler) snapshotPortfolios(ctx context.Context) int {
	portfolios, err := s.portfolioRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list portfolios")
		return 0
	}

	taken := 0
	for _, portfolio := range portfolios {
		positions, err := s.portfolioRepo.ListPositions(ctx, portfolio.ID)
		if err != nil {
			s.logger.Error().Err(err).Str("portfolio_id", portfolio.ID).Msg("failed to list positions")
			continue
		}

		snap := market.Compute(portfolio, positions)
		if err := events.LogPortfolioSnapshot(ctx, s.eventRepo, portfolio.ID, snap.Payload()); err != nil {
			s.logger.Error().Err(err).Str("portfolio_id", portfolio.ID).Msg("failed to record snapshot")
			continue
		}
		taken++

		s.logger.Debug().
			Str("portfolio_id", portfolio.ID).
			Float64("total_assets", snap.TotalAssets).
			Float64("profit_loss", snap.ProfitLoss).
			Msg("portfolio snapshot taken")
	}

	return taken
}

// checkStaleAgents flags running agents whose last decision is older
// than the stale threshold. Returns the number of currently stale agents.
func (s *Scheduler) checkStaleAgents(ctx context.Context) int {
	agents, err := s.agentService.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list agents")
		return 0
	}

	now := time.Now().UTC()
	stale := 0
	for _, a := range agents {
		if !s.isStale(a, now) {
			delete(s.flagged, a.ID)
			continue
		}
		stale++

		if _, seen := s.flagged[a.ID]; seen {
			continue
		}
		s.flagged[a.ID] = struct{}{}

		if err := s.eventRepo.Create(ctx, &models.Event{
			Type:       models.EventTypeAgentStale,
			EntityType: models.EntityTypeAgent,
			EntityID:   a.ID,
		}); err != nil {
			s.logger.Error().Err(err).Str("agent_id", a.ID).Msg("failed to record stale event")
			continue
		}

		s.logger.Warn().
			Str("agent_id", a.ID).
			Str("name", a.Name).
			Msg("agent has gone stale")
	}

	return stale
}

func (s *Scheduler) isStale(a *models.Agent, now time.Time) bool {
	if a.State != models.AgentStateRunning {
		return false
	}
	last := a.CreatedAt
	if a.LastRunAt != nil {
		last = *a.LastRunAt
	}
	return now.Sub(last) > s.config.StaleThreshold
}
