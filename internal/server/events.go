package server

import (
	"net/http"
	"time"

	"github.com/cytzrs/share-sub001/internal/db"
	"github.com/cytzrs/share-sub001/internal/models"
)

// handleEvents serves the cursor-paginated event feed. Supported query
// parameters: type, entity_type, entity_id, since, until (RFC3339),
// cursor and limit.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	query := db.EventQuery{
		Cursor: r.URL.Query().Get("cursor"),
		Limit:  queryLimit(r, 100),
	}

	if raw := r.URL.Query().Get("type"); raw != "" {
		eventType := models.EventType(raw)
		query.Type = &eventType
	}
	if raw := r.URL.Query().Get("entity_type"); raw != "" {
		entityType := models.EntityType(raw)
		query.EntityType = &entityType
	}
	if raw := r.URL.Query().Get("entity_id"); raw != "" {
		query.EntityID = &raw
	}
	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid since timestamp")
			return
		}
		query.Since = &since
	}
	if raw := r.URL.Query().Get("until"); raw != "" {
		until, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid until timestamp")
			return
		}
		query.Until = &until
	}

	page, err := s.eventRepo.Query(r.Context(), query)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events":      page.Events,
		"next_cursor": page.NextCursor,
	})
}
