// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/cytzrs/share-sub001/internal/tui/styles"
)

// EmptyState represents an empty state message with optional suggestions.
type EmptyState struct {
	// Icon is an optional icon to display (e.g., "📭", "📈").
	Icon string
	// Title is the main empty state message.
	Title string
	// Subtitle is an optional secondary message.
	Subtitle string
	// Suggestions are actionable commands the user can run.
	Suggestions []Suggestion
}

// Suggestion represents a suggested command with description.
type Suggestion struct {
	// Command is the CLI command to run (e.g., "sharesub agent create").
	Command string
	// Description explains what the command does.
	Description string
}

// Render renders the empty state with the given styles.
func (e EmptyState) Render(styleSet styles.Styles) string {
	var lines []string

	titleLine := e.Title
	if e.Icon != "" {
		titleLine = e.Icon + "  " + titleLine
	}
	lines = append(lines, styleSet.Muted.Render(titleLine))

	if e.Subtitle != "" {
		lines = append(lines, styleSet.Muted.Render(e.Subtitle))
	}

	if len(e.Suggestions) > 0 {
		lines = append(lines, "")
		lines = append(lines, styleSet.Text.Render("Get started:"))
		for _, s := range e.Suggestions {
			cmdLine := fmt.Sprintf("  %s", styleSet.Accent.Render(s.Command))
			if s.Description != "" {
				cmdLine += styleSet.Muted.Render(fmt.Sprintf("  # %s", s.Description))
			}
			lines = append(lines, cmdLine)
		}
	}

	return strings.Join(lines, "\n")
}

// RenderCompact renders a compact single-line empty state.
func (e EmptyState) RenderCompact(styleSet styles.Styles) string {
	line := e.Title
	if e.Icon != "" {
		line = e.Icon + " " + line
	}
	if len(e.Suggestions) > 0 {
		line += fmt.Sprintf(" Try: %s", e.Suggestions[0].Command)
	}
	return styleSet.Muted.Render(line)
}

// Common empty states for reuse across views.

// EmptyAgents returns an empty state for when no agents are registered.
func EmptyAgents() EmptyState {
	return EmptyState{
		Icon:     "🤖",
		Title:    "No agents registered",
		Subtitle: "Register a trading agent to start monitoring.",
		Suggestions: []Suggestion{
			{Command: "sharesub agent create --name alpha --model gpt-5", Description: "register an agent"},
		},
	}
}

// EmptyPortfolios returns an empty state for when no portfolios exist.
func EmptyPortfolios() EmptyState {
	return EmptyState{
		Icon:     "📈",
		Title:    "No portfolios",
		Subtitle: "Portfolios appear once agents report their accounts.",
	}
}

// EmptyEvents returns an empty state for the event feed.
func EmptyEvents() EmptyState {
	return EmptyState{
		Icon:  "📭",
		Title: "No events yet",
		Suggestions: []Suggestion{
			{Command: "sharesub serve", Description: "start the monitor loop"},
		},
	}
}
