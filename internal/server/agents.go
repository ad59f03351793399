package server

import (
	"net/http"
	"strconv"

	"github.com/cytzrs/share-sub001/internal/agent"
	"github.com/cytzrs/share-sub001/internal/models"
)

func (s *Server) handleAgentList(w http.ResponseWriter, r *http.Request) {
	agents, err := s.agentService.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agents)
}

func (s *Server) handleAgentGet(w http.ResponseWriter, r *http.Request) {
	a, err := s.agentService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleAgentCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name       string `json:"name"`
		Model      string `json:"model"`
		Strategy   string `json:"strategy"`
		TemplateID string `json:"template_id"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}

	a, err := s.agentService.Create(r.Context(), agent.CreateOptions{
		Name:       input.Name,
		Model:      input.Model,
		Strategy:   input.Strategy,
		TemplateID: input.TemplateID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.broadcastEvent(models.EventTypeAgentCreated, a)
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleAgentRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.agentService.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}

	s.broadcastEvent(models.EventTypeAgentRemoved, map[string]string{"id": r.PathValue("id")})
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleAgentPause(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Reason string `json:"reason"`
	}
	// An empty body is a bare pause request.
	_ = decodeBody(r, &input)

	a, err := s.agentService.Pause(r.Context(), r.PathValue("id"), input.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.broadcastEvent(models.EventTypeAgentPaused, a)
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleAgentResume(w http.ResponseWriter, r *http.Request) {
	a, err := s.agentService.Resume(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.broadcastEvent(models.EventTypeAgentResumed, a)
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleAgentDecision(w http.ResponseWriter, r *http.Request) {
	var decision models.DecisionPayload
	if !decodeJSON(w, r, &decision) {
		return
	}

	id := r.PathValue("id")
	if err := s.agentService.RecordDecision(r.Context(), id, decision); err != nil {
		writeServiceError(w, err)
		return
	}

	s.broadcastEvent(models.EventTypeAgentDecision, decision)
	writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

func (s *Server) handleAgentDecisions(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 50)
	decisions, err := s.agentService.Decisions(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, decisions)
}

func queryLimit(r *http.Request, fallback int) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
