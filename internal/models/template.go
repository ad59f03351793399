// Package models defines the core data types for ShareSub.
package models

import (
	"strings"
	"time"
)

// Template is a prompt template handed to trading agents.
// Content is free text containing zero or more {{identifier}} markers.
type Template struct {
	// ID is the unique identifier for the template.
	ID string `json:"id"`

	// Name is the display name. Unique across templates.
	Name string `json:"name"`

	// Description explains what the template is for.
	Description string `json:"description,omitempty"`

	// Content is the template body with {{placeholder}} markers.
	Content string `json:"content"`

	// Version starts at 1 and increments on every content change.
	Version int `json:"version"`

	// CreatedAt is when the template was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the template was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks if the template is valid.
func (t *Template) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(t.Name) == "" {
		validation.AddMessage("name", "template name is required")
	}
	if strings.TrimSpace(t.Content) == "" {
		validation.AddMessage("content", "template content is required")
	}
	if t.Version < 0 {
		validation.AddMessage("version", "version must not be negative")
	}
	return validation.Err()
}
