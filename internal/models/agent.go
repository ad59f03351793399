package models

import (
	"strings"
	"time"
)

// AgentState represents the lifecycle state of a trading agent.
type AgentState string

const (
	AgentStateIdle    AgentState = "idle"
	AgentStateRunning AgentState = "running"
	AgentStatePaused  AgentState = "paused"
	AgentStateError   AgentState = "error"
	AgentStateStopped AgentState = "stopped"
)

// ValidAgentStates lists all recognized agent states.
var ValidAgentStates = []AgentState{
	AgentStateIdle,
	AgentStateRunning,
	AgentStatePaused,
	AgentStateError,
	AgentStateStopped,
}

// IsValidAgentState reports whether the state is one of the known states.
func IsValidAgentState(state AgentState) bool {
	for _, s := range ValidAgentStates {
		if s == state {
			return true
		}
	}
	return false
}

// Agent represents an AI trading agent under observation.
type Agent struct {
	// ID is the unique identifier for the agent.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Model is the LLM backing the agent (e.g. "gpt-5", "qwen-max").
	Model string `json:"model"`

	// Strategy is a short label for the trading strategy.
	Strategy string `json:"strategy,omitempty"`

	// State is the current lifecycle state.
	State AgentState `json:"state"`

	// StateReason explains the last state change.
	StateReason string `json:"state_reason,omitempty"`

	// TemplateID references the prompt template driving this agent.
	TemplateID string `json:"template_id,omitempty"`

	// LastRunAt is when the agent last completed a trading cycle.
	LastRunAt *time.Time `json:"last_run_at,omitempty"`

	// CreatedAt is when the agent was registered.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the agent record was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks if the agent is valid.
func (a *Agent) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(a.Name) == "" {
		validation.AddMessage("name", "agent name is required")
	}
	if strings.TrimSpace(a.Model) == "" {
		validation.AddMessage("model", "agent model is required")
	}
	if a.State != "" && !IsValidAgentState(a.State) {
		validation.AddMessage("state", "unknown agent state")
	}
	return validation.Err()
}
