package models

import (
	"encoding/json"
	"strings"
	"time"
)

// EventType categorizes events in the system.
type EventType string

const (
	// Template events
	EventTypeTemplateCreated EventType = "template.created"
	EventTypeTemplateUpdated EventType = "template.updated"
	EventTypeTemplateDeleted EventType = "template.deleted"

	// Agent events
	EventTypeAgentCreated      EventType = "agent.created"
	EventTypeAgentRemoved      EventType = "agent.removed"
	EventTypeAgentStateChanged EventType = "agent.state_changed"
	EventTypeAgentPaused       EventType = "agent.paused"
	EventTypeAgentResumed      EventType = "agent.resumed"
	EventTypeAgentDecision     EventType = "agent.decision"
	EventTypeAgentStale        EventType = "agent.stale"

	// Portfolio events
	EventTypePortfolioSnapshot EventType = "portfolio.snapshot"

	// MCP server events
	EventTypeMCPServerAdded   EventType = "mcp.added"
	EventTypeMCPServerRemoved EventType = "mcp.removed"
	EventTypeMCPCheckPassed   EventType = "mcp.check_passed"
	EventTypeMCPCheckFailed   EventType = "mcp.check_failed"

	// System events
	EventTypeError   EventType = "error"
	EventTypeWarning EventType = "warning"
)

// EntityType identifies the type of entity an event relates to.
type EntityType string

const (
	EntityTypeTemplate  EntityType = "template"
	EntityTypeAgent     EntityType = "agent"
	EntityTypePortfolio EntityType = "portfolio"
	EntityTypeMCPServer EntityType = "mcp_server"
	EntityTypeSystem    EntityType = "system"
)

// Event represents an append-only log entry.
type Event struct {
	// ID is the unique identifier for the event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type categorizes the event.
	Type EventType `json:"type"`

	// EntityType identifies what kind of entity this event relates to.
	EntityType EntityType `json:"entity_type"`

	// EntityID is the ID of the related entity.
	EntityID string `json:"entity_id"`

	// Payload contains event-specific data.
	Payload json.RawMessage `json:"payload,omitempty"`

	// Metadata contains additional context.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate checks if the event is valid.
func (e *Event) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(string(e.Type)) == "" {
		validation.AddMessage("type", "event type is required")
	}
	if strings.TrimSpace(string(e.EntityType)) == "" {
		validation.AddMessage("entity_type", "entity_type is required")
	}
	if strings.TrimSpace(e.EntityID) == "" {
		validation.AddMessage("entity_id", "entity_id is required")
	}
	return validation.Err()
}

// StateChangedPayload is the payload for agent.state_changed events.
type StateChangedPayload struct {
	OldState AgentState `json:"old_state"`
	NewState AgentState `json:"new_state"`
	Reason   string     `json:"reason,omitempty"`
}

// TemplateChangedPayload is the payload for template.* events.
type TemplateChangedPayload struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
}

// DecisionPayload is the payload for agent.decision events.
type DecisionPayload struct {
	Symbol   string  `json:"symbol"`
	Action   string  `json:"action"` // buy, sell, hold
	Quantity float64 `json:"quantity,omitempty"`
	Price    float64 `json:"price,omitempty"`
	Reason   string  `json:"reason,omitempty"`
}

// SnapshotPayload is the payload for portfolio.snapshot events.
type SnapshotPayload struct {
	Cash        float64 `json:"cash"`
	MarketValue float64 `json:"market_value"`
	TotalAssets float64 `json:"total_assets"`
	ProfitLoss  float64 `json:"profit_loss"`
	Positions   int     `json:"positions"`
}

// MCPCheckPayload is the payload for mcp.check_* events.
type MCPCheckPayload struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Duration string `json:"duration,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ErrorPayload is the payload for error events.
type ErrorPayload struct {
	Error   string `json:"error"`
	Context string `json:"context,omitempty"`
}
