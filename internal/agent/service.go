// Package agent provides trading-agent lifecycle management.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cytzrs/share-sub001/internal/db"
	"github.com/cytzrs/share-sub001/internal/events"
	"github.com/cytzrs/share-sub001/internal/logging"
	"github.com/cytzrs/share-sub001/internal/models"
)

// Service errors.
var (
	ErrAgentNotFound      = errors.New("agent not found")
	ErrInvalidTransition  = errors.New("invalid state transition")
	ErrTemplateNotFound   = errors.New("template not found")
	ErrAgentNotPaused     = errors.New("agent is not paused")
	ErrAgentAlreadyPaused = errors.New("agent is already paused")
)

// Service manages agent lifecycle operations.
type Service struct {
	repo         *db.AgentRepository
	templateRepo *db.TemplateRepository
	eventRepo    *db.EventRepository
	logger       zerolog.Logger
}

// NewService creates a new agent Service.
func NewService(repo *db.AgentRepository, templateRepo *db.TemplateRepository, eventRepo *db.EventRepository) *Service {
	return &Service{
		repo:         repo,
		templateRepo: templateRepo,
		eventRepo:    eventRepo,
		logger:       logging.Component("agent"),
	}
}

// CreateOptions contains options for registering a new agent.
type CreateOptions struct {
	// Name is the unique display name.
	Name string

	// Model is the LLM backing the agent.
	Model string

	// Strategy is the trading strategy label.
	Strategy string

	// TemplateID optionally references the prompt template to use.
	TemplateID string
}

// Create registers a new agent in the idle state.
func (s *Service) Create(ctx context.Context, opts CreateOptions) (*models.Agent, error) {
	if opts.TemplateID != "" {
		if _, err := s.templateRepo.Get(ctx, opts.TemplateID); err != nil {
			if errors.Is(err, db.ErrTemplateNotFound) {
				return nil, ErrTemplateNotFound
			}
			return nil, err
		}
	}

	agent := &models.Agent{
		Name:       opts.Name,
		Model:      opts.Model,
		Strategy:   opts.Strategy,
		TemplateID: opts.TemplateID,
		State:      models.AgentStateIdle,
	}
	if err := s.repo.Create(ctx, agent); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, &models.Event{
		Type:       models.EventTypeAgentCreated,
		EntityType: models.EntityTypeAgent,
		EntityID:   agent.ID,
	}); err != nil {
		s.logger.Warn().Err(err).Str("agent_id", agent.ID).Msg("failed to log agent creation")
	}

	s.logger.Info().Str("agent_id", agent.ID).Str("name", agent.Name).Msg("agent registered")
	return agent, nil
}

// Get retrieves an agent by ID or name.
func (s *Service) Get(ctx context.Context, idOrName string) (*models.Agent, error) {
	agent, err := s.repo.Get(ctx, idOrName)
	if err == nil {
		return agent, nil
	}
	if !errors.Is(err, db.ErrAgentNotFound) {
		return nil, err
	}

	agent, err = s.repo.GetByName(ctx, idOrName)
	if errors.Is(err, db.ErrAgentNotFound) {
		return nil, ErrAgentNotFound
	}
	return agent, err
}

// List retrieves all agents.
func (s *Service) List(ctx context.Context) ([]*models.Agent, error) {
	return s.repo.List(ctx)
}

// Remove deletes an agent by ID or name. Portfolios owned by the agent
// are removed by the schema cascade; its events remain.
func (s *Service) Remove(ctx context.Context, idOrName string) error {
	agent, err := s.Get(ctx, idOrName)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, agent.ID); err != nil {
		return err
	}

	if err := s.eventRepo.Create(ctx, &models.Event{
		Type:       models.EventTypeAgentRemoved,
		EntityType: models.EntityTypeAgent,
		EntityID:   agent.ID,
	}); err != nil {
		s.logger.Warn().Err(err).Str("agent_id", agent.ID).Msg("failed to log agent removal")
	}

	s.logger.Info().Str("agent_id", agent.ID).Str("name", agent.Name).Msg("agent removed")
	return nil
}

// Transition moves an agent to a new state, enforcing the transition
// table and recording a state-change event.
func (s *Service) Transition(ctx context.Context, id string, to models.AgentState, reason string) (*models.Agent, error) {
	agent, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if agent.State == to {
		return agent, nil
	}
	if !CanTransition(agent.State, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, agent.State, to)
	}

	from := agent.State
	if err := s.repo.UpdateState(ctx, agent.ID, to, reason); err != nil {
		return nil, err
	}
	agent.State = to
	agent.StateReason = reason

	if err := events.LogAgentStateChanged(ctx, s.eventRepo, agent.ID, from, to, reason); err != nil {
		s.logger.Warn().Err(err).Str("agent_id", agent.ID).Msg("failed to log state change")
	}

	s.logger.Info().
		Str("agent_id", agent.ID).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("agent state changed")

	return agent, nil
}

// Pause suspends an agent's trading.
func (s *Service) Pause(ctx context.Context, id, reason string) (*models.Agent, error) {
	agent, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if agent.State == models.AgentStatePaused {
		return nil, ErrAgentAlreadyPaused
	}
	if reason == "" {
		reason = "paused by operator"
	}

	agent, err = s.Transition(ctx, agent.ID, models.AgentStatePaused, reason)
	if err != nil {
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, &models.Event{
		Type:       models.EventTypeAgentPaused,
		EntityType: models.EntityTypeAgent,
		EntityID:   agent.ID,
	}); err != nil {
		s.logger.Warn().Err(err).Str("agent_id", agent.ID).Msg("failed to log pause")
	}

	return agent, nil
}

// Resume returns a paused agent to idle.
func (s *Service) Resume(ctx context.Context, id string) (*models.Agent, error) {
	agent, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if agent.State != models.AgentStatePaused {
		return nil, ErrAgentNotPaused
	}

	agent, err = s.Transition(ctx, agent.ID, models.AgentStateIdle, "resumed by operator")
	if err != nil {
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, &models.Event{
		Type:       models.EventTypeAgentResumed,
		EntityType: models.EntityTypeAgent,
		EntityID:   agent.ID,
	}); err != nil {
		s.logger.Warn().Err(err).Str("agent_id", agent.ID).Msg("failed to log resume")
	}

	return agent, nil
}

// RecordDecision stores a trading decision reported by an agent and
// marks the agent's run time.
func (s *Service) RecordDecision(ctx context.Context, id string, decision models.DecisionPayload) error {
	agent, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := events.LogAgentDecision(ctx, s.eventRepo, agent.ID, decision); err != nil {
		return err
	}
	if err := s.repo.TouchLastRun(ctx, agent.ID, time.Now().UTC()); err != nil {
		return err
	}

	s.logger.Info().
		Str("agent_id", agent.ID).
		Str("symbol", decision.Symbol).
		Str("action", decision.Action).
		Msg("decision recorded")

	return nil
}

// Decisions retrieves the most recent decision events for an agent.
func (s *Service) Decisions(ctx context.Context, id string, limit int) ([]*models.Event, error) {
	agent, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.ListByEntity(ctx, models.EntityTypeAgent, agent.ID, limit)
}
