// Package events provides helper functions for logging ShareSub events.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cytzrs/share-sub001/internal/models"
)

// Repository is the minimal interface needed to write events.
type Repository interface {
	Create(ctx context.Context, event *models.Event) error
}

// LogTemplateChanged records a template lifecycle event.
func LogTemplateChanged(ctx context.Context, repo Repository, eventType models.EventType, tmpl *models.Template) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if tmpl == nil || tmpl.ID == "" {
		return fmt.Errorf("template with id is required")
	}

	payload, err := json.Marshal(models.TemplateChangedPayload{
		Name:    tmpl.Name,
		Version: tmpl.Version,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal template payload: %w", err)
	}

	return repo.Create(ctx, &models.Event{
		Type:       eventType,
		EntityType: models.EntityTypeTemplate,
		EntityID:   tmpl.ID,
		Payload:    payload,
	})
}

// LogAgentStateChanged records a state transition for an agent.
func LogAgentStateChanged(ctx context.Context, repo Repository, agentID string, oldState, newState models.AgentState, reason string) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if agentID == "" {
		return fmt.Errorf("agent id is required")
	}

	payload, err := json.Marshal(models.StateChangedPayload{
		OldState: oldState,
		NewState: newState,
		Reason:   reason,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal state payload: %w", err)
	}

	return repo.Create(ctx, &models.Event{
		Type:       models.EventTypeAgentStateChanged,
		EntityType: models.EntityTypeAgent,
		EntityID:   agentID,
		Payload:    payload,
	})
}

// LogAgentDecision records a trading decision made by an agent.
func LogAgentDecision(ctx context.Context, repo Repository, agentID string, decision models.DecisionPayload) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if agentID == "" {
		return fmt.Errorf("agent id is required")
	}

	payload, err := json.Marshal(decision)
	if err != nil {
		return fmt.Errorf("failed to marshal decision payload: %w", err)
	}

	return repo.Create(ctx, &models.Event{
		Type:       models.EventTypeAgentDecision,
		EntityType: models.EntityTypeAgent,
		EntityID:   agentID,
		Payload:    payload,
	})
}

// LogPortfolioSnapshot records a point-in-time portfolio valuation.
func LogPortfolioSnapshot(ctx context.Context, repo Repository, portfolioID string, snapshot models.SnapshotPayload) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if portfolioID == "" {
		return fmt.Errorf("portfolio id is required")
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot payload: %w", err)
	}

	return repo.Create(ctx, &models.Event{
		Type:       models.EventTypePortfolioSnapshot,
		EntityType: models.EntityTypePortfolio,
		EntityID:   portfolioID,
		Payload:    payload,
	})
}

// LogMCPCheck records the outcome of an MCP server reachability check.
func LogMCPCheck(ctx context.Context, repo Repository, serverID string, check models.MCPCheckPayload) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if serverID == "" {
		return fmt.Errorf("server id is required")
	}

	eventType := models.EventTypeMCPCheckPassed
	if check.Error != "" {
		eventType = models.EventTypeMCPCheckFailed
	}

	payload, err := json.Marshal(check)
	if err != nil {
		return fmt.Errorf("failed to marshal check payload: %w", err)
	}

	return repo.Create(ctx, &models.Event{
		Type:       eventType,
		EntityType: models.EntityTypeMCPServer,
		EntityID:   serverID,
		Payload:    payload,
	})
}
