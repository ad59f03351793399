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

// Agent repository errors.
var (
	ErrAgentNotFound = errors.New("agent not found")
	ErrAgentExists   = errors.New("agent name already exists")
)

// AgentRepository handles agent persistence.
type AgentRepository struct {
	db *DB
}

// NewAgentRepository creates a new AgentRepository.
func NewAgentRepository(db *DB) *AgentRepository {
	return &AgentRepository{db: db}
}

// Create inserts a new agent.
func (r *AgentRepository) Create(ctx context.Context, agent *models.Agent) error {
	if agent.State == "" {
		agent.State = models.AgentStateIdle
	}
	if err := agent.Validate(); err != nil {
		return err
	}

	if agent.ID == "" {
		agent.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	agent.CreatedAt = now
	agent.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO agents (
			id, name, model, strategy, state, state_reason, template_id,
			last_run_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		agent.ID,
		agent.Name,
		agent.Model,
		agent.Strategy,
		string(agent.State),
		nullString(agent.StateReason),
		nullString(agent.TemplateID),
		nullTime(agent.LastRunAt),
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAgentExists
		}
		return fmt.Errorf("failed to insert agent: %w", err)
	}

	return nil
}

const agentColumns = `id, name, model, strategy, state, state_reason, template_id, last_run_at, created_at, updated_at`

// Get retrieves an agent by ID.
func (r *AgentRepository) Get(ctx context.Context, id string) (*models.Agent, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+agentColumns+` FROM agents WHERE id = ?`, id)
	return scanAgent(row.Scan)
}

// GetByName retrieves an agent by its unique name.
func (r *AgentRepository) GetByName(ctx context.Context, name string) (*models.Agent, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+agentColumns+` FROM agents WHERE name = ?`, name)
	return scanAgent(row.Scan)
}

// List retrieves all agents ordered by name.
func (r *AgentRepository) List(ctx context.Context) ([]*models.Agent, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+agentColumns+` FROM agents ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query agents: %w", err)
	}
	defer rows.Close()

	var agents []*models.Agent
	for rows.Next() {
		agent, err := scanAgent(rows.Scan)
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating agents: %w", err)
	}

	return agents, nil
}

// Update persists agent field changes.
func (r *AgentRepository) Update(ctx context.Context, agent *models.Agent) error {
	if err := agent.Validate(); err != nil {
		return err
	}

	agent.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE agents SET name = ?, model = ?, strategy = ?, state = ?,
			state_reason = ?, template_id = ?, last_run_at = ?, updated_at = ?
		WHERE id = ?
	`,
		agent.Name,
		agent.Model,
		agent.Strategy,
		string(agent.State),
		nullString(agent.StateReason),
		nullString(agent.TemplateID),
		nullTime(agent.LastRunAt),
		agent.UpdatedAt.Format(time.RFC3339),
		agent.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAgentExists
		}
		return fmt.Errorf("failed to update agent: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrAgentNotFound
	}

	return nil
}

// UpdateState transitions an agent to a new state with a reason.
func (r *AgentRepository) UpdateState(ctx context.Context, id string, state models.AgentState, reason string) error {
	if !models.IsValidAgentState(state) {
		return fmt.Errorf("unknown agent state %q", state)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE agents SET state = ?, state_reason = ?, updated_at = ? WHERE id = ?
	`,
		string(state),
		nullString(reason),
		time.Now().UTC().Format(time.RFC3339),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update agent state: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrAgentNotFound
	}

	return nil
}

// TouchLastRun records the completion time of a trading cycle.
func (r *AgentRepository) TouchLastRun(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE agents SET last_run_at = ?, updated_at = ? WHERE id = ?
	`,
		at.UTC().Format(time.RFC3339),
		time.Now().UTC().Format(time.RFC3339),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to touch agent: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrAgentNotFound
	}
	return nil
}

// Delete removes an agent by ID.
func (r *AgentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM agents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete agent: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrAgentNotFound
	}
	return nil
}

func scanAgent(scan func(...any) error) (*models.Agent, error) {
	var agent models.Agent
	var state, createdAt, updatedAt string
	var stateReason, templateID, lastRunAt sql.NullString

	err := scan(
		&agent.ID,
		&agent.Name,
		&agent.Model,
		&agent.Strategy,
		&state,
		&stateReason,
		&templateID,
		&lastRunAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAgentNotFound
		}
		return nil, fmt.Errorf("failed to scan agent: %w", err)
	}

	agent.State = models.AgentState(state)
	agent.StateReason = stateReason.String
	agent.TemplateID = templateID.String
	if lastRunAt.Valid {
		if t, err := time.Parse(time.RFC3339, lastRunAt.String); err == nil {
			agent.LastRunAt = &t
		}
	}
	agent.CreatedAt = parseTime(createdAt)
	agent.UpdatedAt = parseTime(updatedAt)

	return &agent, nil
}

func nullString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func nullTime(value *time.Time) *string {
	if value == nil || value.IsZero() {
		return nil
	}
	s := value.UTC().Format(time.RFC3339)
	return &s
}
