package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cytzrs/share-sub001/internal/db"
	"github.com/cytzrs/share-sub001/internal/models"
)

func setupModel(t *testing.T) (model, *db.DB) {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return initialModel(Config{Database: database, RefreshInterval: time.Minute}), database
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestViewSwitching(t *testing.T) {
	m, _ := setupModel(t)

	if m.view != viewAgents {
		t.Fatalf("expected initial view agents, got %d", m.view)
	}

	updated, _ := m.Update(keyRune('2'))
	m = updated.(model)
	if m.view != viewPortfolios {
		t.Fatalf("expected portfolios view, got %d", m.view)
	}

	updated, _ = m.Update(keyRune('3'))
	m = updated.(model)
	if m.view != viewEvents {
		t.Fatalf("expected events view, got %d", m.view)
	}
}

func TestQuitKeys(t *testing.T) {
	m, _ := setupModel(t)

	for _, key := range []tea.KeyMsg{keyRune('q'), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("expected quit command for %s", key.String())
		}
	}
}

func TestSmallTerminalView(t *testing.T) {
	m, _ := setupModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	m = updated.(model)

	out := m.View()
	if !strings.Contains(out, "Terminal too small") {
		t.Fatalf("expected small terminal notice, got:\n%s", out)
	}
}

func TestEmptyStatesRendered(t *testing.T) {
	m, _ := setupModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(model)

	if out := m.View(); !strings.Contains(out, "No agents registered") {
		t.Fatalf("expected agents empty state, got:\n%s", out)
	}

	updated, _ = m.Update(keyRune('2'))
	m = updated.(model)
	if out := m.View(); !strings.Contains(out, "No portfolios") {
		t.Fatalf("expected portfolios empty state, got:\n%s", out)
	}
}

func TestLoadCmdReadsData(t *testing.T) {
	m, database := setupModel(t)
	ctx := context.Background()

	agent := &models.Agent{Name: "alpha", Model: "gpt-5", State: models.AgentStateRunning}
	if err := db.NewAgentRepository(database).Create(ctx, agent); err != nil {
		t.Fatalf("create agent: %v", err)
	}
	portfolio := &models.Portfolio{AgentID: agent.ID, Name: "main", Cash: 10000, InitialCash: 10000}
	if err := db.NewPortfolioRepository(database).Create(ctx, portfolio); err != nil {
		t.Fatalf("create portfolio: %v", err)
	}

	msg := m.loadCmd()()
	data, ok := msg.(dataMsg)
	if !ok {
		t.Fatalf("expected dataMsg, got %T", msg)
	}
	if data.err != nil {
		t.Fatalf("load failed: %v", data.err)
	}
	if len(data.agents) != 1 || data.agents[0].Name != "alpha" {
		t.Fatalf("unexpected agents: %+v", data.agents)
	}
	if len(data.portfolios) != 1 || data.portfolios[0].snapshot.TotalAssets != 10000 {
		t.Fatalf("unexpected portfolios: %+v", data.portfolios)
	}

	updated, _ := m.Update(data)
	m = updated.(model)
	updated, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(model)

	out := m.View()
	if !strings.Contains(out, "alpha") || !strings.Contains(out, "gpt-5") {
		t.Fatalf("expected agent card in view:\n%s", out)
	}
}
