// Package cli provides status formatting helpers.
package cli

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/cytzrs/share-sub001/internal/models"
)

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

func formatAgentState(state models.AgentState) string {
	label, color := statusLabelForAgent(state)
	return colorize(formatStatusLabel(label, string(state)), color)
}

func formatMCPStatus(status models.MCPServerStatus) string {
	label, color := statusLabelForMCP(status)
	return colorize(formatStatusLabel(label, string(status)), color)
}

func formatProfit(value float64) string {
	text := fmt.Sprintf("%+.2f", value)
	if value > 0 {
		return colorize(text, colorGreen)
	}
	if value < 0 {
		return colorize(text, colorRed)
	}
	return text
}

func statusLabelForAgent(state models.AgentState) (string, string) {
	switch state {
	case models.AgentStateIdle:
		return "OK", colorGreen
	case models.AgentStateRunning:
		return "BUSY", colorCyan
	case models.AgentStatePaused:
		return "WAIT", colorYellow
	case models.AgentStateStopped:
		return "WARN", colorMagenta
	case models.AgentStateError:
		return "ERR", colorRed
	default:
		return "WARN", colorYellow
	}
}

func statusLabelForMCP(status models.MCPServerStatus) (string, string) {
	switch status {
	case models.MCPServerStatusReachable:
		return "OK", colorGreen
	case models.MCPServerStatusUnreachable:
		return "ERR", colorRed
	default:
		return "WARN", colorYellow
	}
}

func formatStatusLabel(label, status string) string {
	normalized := strings.TrimSpace(status)
	if normalized != "" {
		normalized = strings.ReplaceAll(normalized, "_", " ")
	}
	if normalized == "" {
		return label
	}
	return fmt.Sprintf("%s %s", label, normalized)
}

func colorize(text, color string) string {
	if !colorEnabled() {
		return text
	}
	return color + text + colorReset
}

func colorEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
