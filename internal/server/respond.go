package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/cytzrs/share-sub001/internal/agent"
	"github.com/cytzrs/share-sub001/internal/db"
	"github.com/cytzrs/share-sub001/internal/mcp"
	"github.com/cytzrs/share-sub001/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service and repository errors onto HTTP status
// codes. Unknown errors become 500s.
func writeServiceError(w http.ResponseWriter, err error) {
	var validation *models.ValidationErrors
	if errors.As(err, &validation) {
		writeJSON(w, http.StatusBadRequest, validation)
		return
	}

	switch {
	case errors.Is(err, db.ErrTemplateNotFound),
		errors.Is(err, db.ErrAgentNotFound),
		errors.Is(err, db.ErrPortfolioNotFound),
		errors.Is(err, db.ErrMCPServerNotFound),
		errors.Is(err, agent.ErrAgentNotFound),
		errors.Is(err, agent.ErrTemplateNotFound),
		errors.Is(err, mcp.ErrServerNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, db.ErrTemplateExists),
		errors.Is(err, db.ErrAgentExists),
		errors.Is(err, db.ErrMCPServerExists),
		errors.Is(err, mcp.ErrServerExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, agent.ErrInvalidTransition),
		errors.Is(err, agent.ErrAgentNotPaused),
		errors.Is(err, agent.ErrAgentAlreadyPaused):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// decodeBody decodes a JSON body, tolerating an empty one.
func decodeBody(r *http.Request, into any) error {
	err := json.NewDecoder(r.Body).Decode(into)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
