package components

import (
	"strings"
	"testing"
	"time"

	"github.com/cytzrs/share-sub001/internal/market"
	"github.com/cytzrs/share-sub001/internal/models"
	"github.com/cytzrs/share-sub001/internal/tui/styles"
)

func TestRenderAgentCard(t *testing.T) {
	styleSet := styles.DefaultStyles()
	last := time.Date(2026, 8, 25, 9, 30, 0, 0, time.UTC)

	out := RenderAgentCard(styleSet, AgentCard{
		Name:      "alpha",
		Model:     "gpt-5",
		Strategy:  "momentum",
		State:     models.AgentStateRunning,
		LastRunAt: &last,
	})

	for _, want := range []string{"alpha", "gpt-5", "momentum", "Running", "09:30:00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("card missing %q:\n%s", want, out)
		}
	}
}

func TestRenderAgentCardDefaults(t *testing.T) {
	out := RenderAgentCard(styles.DefaultStyles(), AgentCard{State: models.AgentStateIdle})

	if !strings.Contains(out, "Agent") || !strings.Contains(out, "--") {
		t.Fatalf("expected fallbacks in card:\n%s", out)
	}
	if !strings.Contains(out, "No reason reported") {
		t.Fatalf("expected reason fallback:\n%s", out)
	}
}

func TestRenderPortfolioCard(t *testing.T) {
	styleSet := styles.DefaultStyles()
	snap := market.Compute(&models.Portfolio{ID: "p-1", Cash: 15000}, []*models.Position{
		{Symbol: "600519", Quantity: 100, CostPrice: 1500, CurrentPrice: 1520},
	})

	out := RenderPortfolioCard(styleSet, PortfolioCard{Name: "main", Snapshot: snap})
	for _, want := range []string{"main", "167000.00", "152000.00", "+2000.00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("card missing %q:\n%s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello world", 8); got != "hello..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := truncate("short", 44); got != "short" {
		t.Fatalf("unexpected truncation: %q", got)
	}
}
