package server

import (
	"net/http"

	"github.com/cytzrs/share-sub001/internal/events"
	"github.com/cytzrs/share-sub001/internal/models"
	"github.com/cytzrs/share-sub001/internal/templates"
)

func (s *Server) handleTemplateList(w http.ResponseWriter, r *http.Request) {
	list, err := s.templateRepo.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleTemplateGet(w http.ResponseWriter, r *http.Request) {
	tmpl, err := s.templateRepo.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

type templateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

func (s *Server) handleTemplateCreate(w http.ResponseWriter, r *http.Request) {
	var input templateInput
	if !decodeJSON(w, r, &input) {
		return
	}

	tmpl := &models.Template{
		Name:        input.Name,
		Description: input.Description,
		Content:     input.Content,
	}
	if err := s.templateRepo.Create(r.Context(), tmpl); err != nil {
		writeServiceError(w, err)
		return
	}

	if err := events.LogTemplateChanged(r.Context(), s.eventRepo, models.EventTypeTemplateCreated, tmpl); err != nil {
		s.logger.Warn().Err(err).Str("template_id", tmpl.ID).Msg("failed to log template creation")
	}
	s.broadcastEvent(models.EventTypeTemplateCreated, tmpl)

	writeJSON(w, http.StatusCreated, tmpl)
}

func (s *Server) handleTemplateUpdate(w http.ResponseWriter, r *http.Request) {
	var input templateInput
	if !decodeJSON(w, r, &input) {
		return
	}

	tmpl, err := s.templateRepo.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if input.Name != "" {
		tmpl.Name = input.Name
	}
	if input.Description != "" {
		tmpl.Description = input.Description
	}
	if input.Content != "" {
		tmpl.Content = input.Content
	}

	if err := s.templateRepo.Update(r.Context(), tmpl); err != nil {
		writeServiceError(w, err)
		return
	}

	if err := events.LogTemplateChanged(r.Context(), s.eventRepo, models.EventTypeTemplateUpdated, tmpl); err != nil {
		s.logger.Warn().Err(err).Str("template_id", tmpl.ID).Msg("failed to log template update")
	}
	s.broadcastEvent(models.EventTypeTemplateUpdated, tmpl)

	writeJSON(w, http.StatusOK, tmpl)
}

func (s *Server) handleTemplateDelete(w http.ResponseWriter, r *http.Request) {
	tmpl, err := s.templateRepo.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := s.templateRepo.Delete(r.Context(), tmpl.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	if err := events.LogTemplateChanged(r.Context(), s.eventRepo, models.EventTypeTemplateDeleted, tmpl); err != nil {
		s.logger.Warn().Err(err).Str("template_id", tmpl.ID).Msg("failed to log template delete")
	}
	s.broadcastEvent(models.EventTypeTemplateDeleted, tmpl)

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleTemplatePreview renders template content against sample data.
// Either raw content or a stored template id may be given; supplied
// sample values override the built-in ones.
func (s *Server) handleTemplatePreview(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TemplateID string            `json:"template_id"`
		Content    string            `json:"content"`
		SampleData map[string]string `json:"sample_data"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}

	content := input.Content
	if input.TemplateID != "" {
		tmpl, err := s.templateRepo.Get(r.Context(), input.TemplateID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		content = tmpl.Content
	}

	data := templates.DefaultSampleData()
	for key, value := range input.SampleData {
		data[key] = value
	}

	writeJSON(w, http.StatusOK, templates.Render(content, data))
}

func (s *Server) handlePlaceholders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"catalog":     templates.Catalog,
		"categories":  templates.Categories,
		"sample_data": templates.DefaultSampleData(),
	})
}
