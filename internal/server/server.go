// Package server exposes the ShareSub monitoring API over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/cytzrs/share-sub001/internal/agent"
	"github.com/cytzrs/share-sub001/internal/db"
	"github.com/cytzrs/share-sub001/internal/logging"
	"github.com/cytzrs/share-sub001/internal/mcp"
)

// Server holds the API server dependencies.
type Server struct {
	templateRepo  *db.TemplateRepository
	portfolioRepo *db.PortfolioRepository
	eventRepo     *db.EventRepository
	agentService  *agent.Service
	mcpService    *mcp.Service
	logger        zerolog.Logger

	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex
	upgrader  websocket.Upgrader

	startedAt time.Time
}

// New creates a new API server.
func New(database *db.DB) *Server {
	templateRepo := db.NewTemplateRepository(database)
	eventRepo := db.NewEventRepository(database)

	return &Server{
		templateRepo:  templateRepo,
		portfolioRepo: db.NewPortfolioRepository(database),
		eventRepo:     eventRepo,
		agentService:  agent.NewService(db.NewAgentRepository(database), templateRepo, eventRepo),
		mcpService:    mcp.NewService(db.NewMCPServerRepository(database), eventRepo),
		logger:        logging.Component("server"),
		clients:       make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		startedAt: time.Now().UTC(),
	}
}

// Routes builds the API route table.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("GET /api/templates", s.handleTemplateList)
	mux.HandleFunc("POST /api/templates", s.handleTemplateCreate)
	mux.HandleFunc("GET /api/templates/{id}", s.handleTemplateGet)
	mux.HandleFunc("PUT /api/templates/{id}", s.handleTemplateUpdate)
	mux.HandleFunc("DELETE /api/templates/{id}", s.handleTemplateDelete)
	mux.HandleFunc("POST /api/templates/preview", s.handleTemplatePreview)
	mux.HandleFunc("GET /api/placeholders", s.handlePlaceholders)

	mux.HandleFunc("GET /api/agents", s.handleAgentList)
	mux.HandleFunc("POST /api/agents", s.handleAgentCreate)
	mux.HandleFunc("GET /api/agents/{id}", s.handleAgentGet)
	mux.HandleFunc("DELETE /api/agents/{id}", s.handleAgentRemove)
	mux.HandleFunc("POST /api/agents/{id}/pause", s.handleAgentPause)
	mux.HandleFunc("POST /api/agents/{id}/resume", s.handleAgentResume)
	mux.HandleFunc("POST /api/agents/{id}/decisions", s.handleAgentDecision)
	mux.HandleFunc("GET /api/agents/{id}/decisions", s.handleAgentDecisions)

	mux.HandleFunc("GET /api/portfolios", s.handlePortfolioList)
	mux.HandleFunc("GET /api/portfolios/{id}", s.handlePortfolioGet)
	mux.HandleFunc("GET /api/portfolios/{id}/snapshot", s.handlePortfolioSnapshot)

	mux.HandleFunc("GET /api/mcp-servers", s.handleMCPList)
	mux.HandleFunc("POST /api/mcp-servers", s.handleMCPAdd)
	mux.HandleFunc("DELETE /api/mcp-servers/{id}", s.handleMCPRemove)
	mux.HandleFunc("POST /api/mcp-servers/{id}/check", s.handleMCPCheck)

	mux.HandleFunc("GET /api/events", s.handleEvents)

	mux.HandleFunc("GET /api/ws", s.handleWebSocket)

	return mux
}

// Run serves the API until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("api server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("api server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.closeClients()
	return httpServer.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"started_at": s.startedAt.Format(time.RFC3339),
		"time":       time.Now().UTC().Format(time.RFC3339),
	})
}
