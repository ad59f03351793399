// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/cytzrs/share-sub001/internal/models"
	"github.com/cytzrs/share-sub001/internal/tui/styles"
)

const maxReasonLength = 44

// AgentCard contains data needed to render an agent card.
type AgentCard struct {
	Name      string
	Model     string
	Strategy  string
	State     models.AgentState
	Reason    string
	LastRunAt *time.Time
}

// RenderAgentCard renders a compact agent summary card.
func RenderAgentCard(styleSet styles.Styles, card AgentCard) string {
	header := styleSet.Accent.Render(defaultIfEmpty(card.Name, "Agent"))
	modelLine := styleSet.Text.Render(fmt.Sprintf("Model: %s  Strategy: %s",
		defaultIfEmpty(card.Model, "--"), defaultIfEmpty(card.Strategy, "--")))

	reason := strings.TrimSpace(card.Reason)
	if reason == "" {
		reason = "No reason reported"
	}
	reason = truncate(reason, maxReasonLength)
	stateBadge := RenderAgentStateBadge(styleSet, card.State)
	stateLine := fmt.Sprintf("State: %s %s", stateBadge, styleSet.Muted.Render(reason))

	lastLine := styleSet.Text.Render(fmt.Sprintf("Last run: %s", formatLastRun(card.LastRunAt)))

	content := strings.Join([]string{
		header,
		modelLine,
		stateLine,
		lastLine,
	}, "\n")

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	return cardStyle.Render(content)
}

func formatLastRun(ts *time.Time) string {
	if ts == nil || ts.IsZero() {
		return "--"
	}
	return ts.Format("15:04:05")
}

func defaultIfEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func truncate(value string, limit int) string {
	if limit <= 0 || len(value) <= limit {
		return value
	}
	if limit <= 3 {
		return value[:limit]
	}
	return value[:limit-3] + "..."
}
