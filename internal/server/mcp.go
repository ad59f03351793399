package server

import (
	"net/http"

	"github.com/cytzrs/share-sub001/internal/mcp"
	"github.com/cytzrs/share-sub001/internal/models"
)

func (s *Server) handleMCPList(w http.ResponseWriter, r *http.Request) {
	servers, err := s.mcpService.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, servers)
}

func (s *Server) handleMCPAdd(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name      string `json:"name"`
		Transport string `json:"transport"`
		Endpoint  string `json:"endpoint"`
		Command   string `json:"command"`
		Enabled   bool   `json:"enabled"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}

	server, err := s.mcpService.Add(r.Context(), mcp.AddOptions{
		Name:      input.Name,
		Transport: models.MCPTransport(input.Transport),
		Endpoint:  input.Endpoint,
		Command:   input.Command,
		Enabled:   input.Enabled,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.broadcastEvent(models.EventTypeMCPServerAdded, server)
	writeJSON(w, http.StatusCreated, server)
}

func (s *Server) handleMCPRemove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.mcpService.Remove(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	s.broadcastEvent(models.EventTypeMCPServerRemoved, map[string]string{"id": id})
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleMCPCheck(w http.ResponseWriter, r *http.Request) {
	server, err := s.mcpService.Check(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	eventType := models.EventTypeMCPCheckPassed
	if server.Status != models.MCPServerStatusReachable {
		eventType = models.EventTypeMCPCheckFailed
	}
	s.broadcastEvent(eventType, server)

	writeJSON(w, http.StatusOK, server)
}
