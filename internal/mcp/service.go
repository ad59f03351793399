// Package mcp manages the registry of MCP tool servers agents may use.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cytzrs/share-sub001/internal/db"
	"github.com/cytzrs/share-sub001/internal/events"
	"github.com/cytzrs/share-sub001/internal/logging"
	"github.com/cytzrs/share-sub001/internal/models"
)

// Service errors.
var (
	ErrServerNotFound = errors.New("mcp server not found")
	ErrServerExists   = errors.New("mcp server already exists")
)

// checkTimeout bounds a single reachability probe.
const checkTimeout = 5 * time.Second

// Service manages MCP server records and reachability checks.
type Service struct {
	repo      *db.MCPServerRepository
	eventRepo *db.EventRepository
	client    *http.Client
	logger    zerolog.Logger
}

// NewService creates a new MCP Service.
func NewService(repo *db.MCPServerRepository, eventRepo *db.EventRepository) *Service {
	return &Service{
		repo:      repo,
		eventRepo: eventRepo,
		client:    &http.Client{Timeout: checkTimeout},
		logger:    logging.Component("mcp"),
	}
}

// AddOptions contains options for registering an MCP server.
type AddOptions struct {
	Name      string
	Transport models.MCPTransport
	Endpoint  string
	Command   string
	Enabled   bool
}

// Add registers a new MCP server record with unknown status.
func (s *Service) Add(ctx context.Context, opts AddOptions) (*models.MCPServer, error) {
	server := &models.MCPServer{
		Name:      opts.Name,
		Transport: opts.Transport,
		Endpoint:  opts.Endpoint,
		Command:   opts.Command,
		Enabled:   opts.Enabled,
		Status:    models.MCPServerStatusUnknown,
	}
	if err := s.repo.Create(ctx, server); err != nil {
		if errors.Is(err, db.ErrMCPServerExists) {
			return nil, ErrServerExists
		}
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, &models.Event{
		Type:       models.EventTypeMCPServerAdded,
		EntityType: models.EntityTypeMCPServer,
		EntityID:   server.ID,
	}); err != nil {
		s.logger.Warn().Err(err).Str("server_id", server.ID).Msg("failed to log server add")
	}

	s.logger.Info().
		Str("server_id", server.ID).
		Str("name", server.Name).
		Str("transport", string(server.Transport)).
		Msg("mcp server registered")

	return server, nil
}

// Get retrieves a server record by ID or name.
func (s *Service) Get(ctx context.Context, idOrName string) (*models.MCPServer, error) {
	server, err := s.repo.Get(ctx, idOrName)
	if err == nil {
		return server, nil
	}
	if !errors.Is(err, db.ErrMCPServerNotFound) {
		return nil, err
	}

	server, err = s.repo.GetByName(ctx, idOrName)
	if errors.Is(err, db.ErrMCPServerNotFound) {
		return nil, ErrServerNotFound
	}
	return server, err
}

// List retrieves all registered servers.
func (s *Service) List(ctx context.Context) ([]*models.MCPServer, error) {
	return s.repo.List(ctx)
}

// Remove deletes a server record by ID or name.
func (s *Service) Remove(ctx context.Context, idOrName string) error {
	server, err := s.Get(ctx, idOrName)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, server.ID); err != nil {
		return err
	}

	if err := s.eventRepo.Create(ctx, &models.Event{
		Type:       models.EventTypeMCPServerRemoved,
		EntityType: models.EntityTypeMCPServer,
		EntityID:   server.ID,
	}); err != nil {
		s.logger.Warn().Err(err).Str("server_id", server.ID).Msg("failed to log server removal")
	}

	s.logger.Info().Str("server_id", server.ID).Str("name", server.Name).Msg("mcp server removed")
	return nil
}

// SetEnabled toggles whether agents may use the server.
func (s *Service) SetEnabled(ctx context.Context, idOrName string, enabled bool) (*models.MCPServer, error) {
	server, err := s.Get(ctx, idOrName)
	if err != nil {
		return nil, err
	}
	if server.Enabled == enabled {
		return server, nil
	}
	server.Enabled = enabled
	if err := s.repo.Update(ctx, server); err != nil {
		return nil, err
	}
	return server, nil
}

// Check probes a server for reachability, persists the new status and
// records a check event. The returned server reflects the check result.
func (s *Service) Check(ctx context.Context, idOrName string) (*models.MCPServer, error) {
	server, err := s.Get(ctx, idOrName)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	probeErr := s.probe(ctx, server)
	elapsed := time.Since(start)

	status := models.MCPServerStatusReachable
	check := models.MCPCheckPayload{
		Name:     server.Name,
		Status:   string(models.MCPServerStatusReachable),
		Duration: elapsed.Round(time.Millisecond).String(),
	}
	if probeErr != nil {
		status = models.MCPServerStatusUnreachable
		check.Status = string(models.MCPServerStatusUnreachable)
		check.Error = probeErr.Error()
	}

	checkedAt := time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, server.ID, status, checkedAt); err != nil {
		return nil, err
	}
	server.Status = status
	server.LastCheckedAt = &checkedAt

	if err := events.LogMCPCheck(ctx, s.eventRepo, server.ID, check); err != nil {
		s.logger.Warn().Err(err).Str("server_id", server.ID).Msg("failed to log mcp check")
	}

	event := s.logger.Info()
	if probeErr != nil {
		event = s.logger.Warn().Err(probeErr)
	}
	event.Str("server_id", server.ID).
		Str("name", server.Name).
		Str("status", string(status)).
		Dur("elapsed", elapsed).
		Msg("mcp check completed")

	return server, nil
}

// CheckAll probes every registered server and returns the updated records.
func (s *Service) CheckAll(ctx context.Context) ([]*models.MCPServer, error) {
	servers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	checked := make([]*models.MCPServer, 0, len(servers))
	for _, server := range servers {
		updated, err := s.Check(ctx, server.ID)
		if err != nil {
			return nil, err
		}
		checked = append(checked, updated)
	}
	return checked, nil
}

// probe tests reachability according to the server's transport. Stdio
// servers are reachable when their command resolves on PATH; url
// transports must answer an HTTP request with a non-5xx status.
func (s *Service) probe(ctx context.Context, server *models.MCPServer) error {
	switch server.Transport {
	case models.MCPTransportStdio:
		command := strings.Fields(server.Command)
		if len(command) == 0 {
			return fmt.Errorf("empty command")
		}
		if _, err := exec.LookPath(command[0]); err != nil {
			return fmt.Errorf("command %q not found on PATH", command[0])
		}
		return nil
	case models.MCPTransportSSE, models.MCPTransportHTTP:
		ctx, cancel := context.WithTimeout(ctx, checkTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.Endpoint, nil)
		if err != nil {
			return fmt.Errorf("invalid endpoint: %w", err)
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("endpoint unreachable: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("endpoint returned status %d", resp.StatusCode)
		}
		return nil
	default:
		return fmt.Errorf("unsupported transport %q", server.Transport)
	}
}
