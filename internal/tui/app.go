// Package tui implements the interactive dashboard.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cytzrs/share-sub001/internal/db"
	"github.com/cytzrs/share-sub001/internal/market"
	"github.com/cytzrs/share-sub001/internal/models"
	"github.com/cytzrs/share-sub001/internal/tui/components"
	"github.com/cytzrs/share-sub001/internal/tui/styles"
)

const (
	minWidth  = 60
	minHeight = 15

	defaultRefreshInterval = 5 * time.Second
	loadTimeout            = 5 * time.Second
	eventFeedLimit         = 12
)

// Config configures the dashboard.
type Config struct {
	// Database is the opened store the dashboard reads from.
	Database *db.DB

	// Theme selects the color theme by name.
	Theme string

	// RefreshInterval controls how often data is reloaded.
	RefreshInterval time.Duration
}

// Run starts the dashboard and blocks until the user quits.
func Run(config Config) error {
	if config.Database == nil {
		return fmt.Errorf("tui: database is required")
	}
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = defaultRefreshInterval
	}

	program := tea.NewProgram(initialModel(config), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

type viewID int

const (
	viewAgents viewID = iota
	viewPortfolios
	viewEvents
)

type tickMsg time.Time

type dataMsg struct {
	agents     []*models.Agent
	portfolios []portfolioEntry
	events     []*models.Event
	err        error
}

type portfolioEntry struct {
	portfolio *models.Portfolio
	snapshot  market.Snapshot
}

type model struct {
	config Config
	styles styles.Styles

	agentRepo     *db.AgentRepository
	portfolioRepo *db.PortfolioRepository
	eventRepo     *db.EventRepository

	width  int
	height int
	view   viewID

	agents      []*models.Agent
	portfolios  []portfolioEntry
	events      []*models.Event
	lastUpdated time.Time
	loadErr     error
}

func initialModel(config Config) model {
	theme := styles.ThemeByName(config.Theme)

	return model{
		config:        config,
		styles:        styles.BuildStyles(theme),
		agentRepo:     db.NewAgentRepository(config.Database),
		portfolioRepo: db.NewPortfolioRepository(config.Database),
		eventRepo:     db.NewEventRepository(config.Database),
		view:          viewAgents,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.tickCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "1":
			m.view = viewAgents
		case "2":
			m.view = viewPortfolios
		case "3":
			m.view = viewEvents
		case "r":
			return m, m.loadCmd()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		return m, tea.Batch(m.loadCmd(), m.tickCmd())

	case dataMsg:
		m.loadErr = msg.err
		if msg.err == nil {
			m.agents = msg.agents
			m.portfolios = msg.portfolios
			m.events = msg.events
			m.lastUpdated = time.Now()
		}
	}

	return m, nil
}

func (m model) tickCmd() tea.Cmd {
	return tea.Tick(m.config.RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) loadCmd() tea.Cmd {
	agentRepo := m.agentRepo
	portfolioRepo := m.portfolioRepo
	eventRepo := m.eventRepo

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		agents, err := agentRepo.List(ctx)
		if err != nil {
			return dataMsg{err: err}
		}

		portfolios, err := portfolioRepo.List(ctx)
		if err != nil {
			return dataMsg{err: err}
		}
		entries := make([]portfolioEntry, 0, len(portfolios))
		for _, p := range portfolios {
			positions, err := portfolioRepo.ListPositions(ctx, p.ID)
			if err != nil {
				return dataMsg{err: err}
			}
			entries = append(entries, portfolioEntry{
				portfolio: p,
				snapshot:  market.Compute(p, positions),
			})
		}

		page, err := eventRepo.Query(ctx, db.EventQuery{Limit: eventFeedLimit})
		if err != nil {
			return dataMsg{err: err}
		}

		return dataMsg{agents: agents, portfolios: entries, events: page.Events}
	}
}

func (m model) View() string {
	if m.width > 0 && (m.width < minWidth || m.height < minHeight) {
		return strings.Join(m.smallViewLines(), "\n")
	}

	sections := []string{
		m.renderHeader(),
		"",
		m.renderBody(),
		"",
		m.renderFooter(),
	}
	return strings.Join(sections, "\n")
}

func (m model) smallViewLines() []string {
	return []string{
		m.styles.Title.Render("ShareSub"),
		m.styles.Muted.Render(fmt.Sprintf("Terminal too small (need %dx%d).", minWidth, minHeight)),
		m.styles.Muted.Render("Resize the window or press q to quit."),
	}
}

func (m model) renderHeader() string {
	tabs := []struct {
		id    viewID
		label string
	}{
		{viewAgents, "1 Agents"},
		{viewPortfolios, "2 Portfolios"},
		{viewEvents, "3 Events"},
	}

	parts := make([]string, 0, len(tabs)+1)
	parts = append(parts, m.styles.Title.Render("ShareSub"))
	for _, tab := range tabs {
		if tab.id == m.view {
			parts = append(parts, m.styles.Focus.Render("["+tab.label+"]"))
		} else {
			parts = append(parts, m.styles.Muted.Render(" "+tab.label+" "))
		}
	}
	return strings.Join(parts, "  ")
}

func (m model) renderBody() string {
	if m.loadErr != nil {
		return m.styles.Error.Render(fmt.Sprintf("Load failed: %v", m.loadErr))
	}

	switch m.view {
	case viewPortfolios:
		return m.renderPortfolios()
	case viewEvents:
		return m.renderEvents()
	default:
		return m.renderAgents()
	}
}

func (m model) renderAgents() string {
	if len(m.agents) == 0 {
		return components.EmptyAgents().Render(m.styles)
	}

	cards := make([]string, 0, len(m.agents))
	for _, agent := range m.agents {
		cards = append(cards, components.RenderAgentCard(m.styles, components.AgentCard{
			Name:      agent.Name,
			Model:     agent.Model,
			Strategy:  agent.Strategy,
			State:     agent.State,
			Reason:    agent.StateReason,
			LastRunAt: agent.LastRunAt,
		}))
	}
	return joinCards(cards, m.width)
}

func (m model) renderPortfolios() string {
	if len(m.portfolios) == 0 {
		return components.EmptyPortfolios().Render(m.styles)
	}

	cards := make([]string, 0, len(m.portfolios))
	for _, entry := range m.portfolios {
		cards = append(cards, components.RenderPortfolioCard(m.styles, components.PortfolioCard{
			Name:     entry.portfolio.Name,
			Snapshot: entry.snapshot,
		}))
	}
	return joinCards(cards, m.width)
}

func (m model) renderEvents() string {
	if len(m.events) == 0 {
		return components.EmptyEvents().Render(m.styles)
	}

	lines := make([]string, 0, len(m.events))
	for _, event := range m.events {
		ts := m.styles.Muted.Render(event.Timestamp.Local().Format("15:04:05"))
		kind := m.styles.Accent.Render(string(event.Type))
		entity := m.styles.Text.Render(fmt.Sprintf("%s/%s", event.EntityType, shortID(event.EntityID)))
		lines = append(lines, fmt.Sprintf("%s  %s  %s", ts, kind, entity))
	}
	return strings.Join(lines, "\n")
}

func (m model) renderFooter() string {
	updated := "never"
	if !m.lastUpdated.IsZero() {
		updated = m.lastUpdated.Format("15:04:05")
	}
	return m.styles.Muted.Render(fmt.Sprintf("1-3 switch view  r refresh  q quit  |  updated %s", updated))
}

// joinCards lays cards out in rows, packing as many as fit the width.
func joinCards(cards []string, width int) string {
	if width <= 0 {
		return strings.Join(cards, "\n")
	}

	var rows []string
	var row []string
	rowWidth := 0
	for _, card := range cards {
		cardWidth := lipgloss.Width(card)
		if len(row) > 0 && rowWidth+cardWidth > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
			rowWidth = 0
		}
		row = append(row, card)
		rowWidth += cardWidth
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(rows, "\n")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
