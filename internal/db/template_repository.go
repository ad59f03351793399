package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cytzrs/share-sub001/internal/models"
)

// Template repository errors.
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrTemplateExists   = errors.New("template name already exists")
)

// TemplateRepository handles template persistence.
type TemplateRepository struct {
	db *DB
}

// NewTemplateRepository creates a new TemplateRepository.
func NewTemplateRepository(db *DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create inserts a new template with version 1.
func (r *TemplateRepository) Create(ctx context.Context, tmpl *models.Template) error {
	if err := tmpl.Validate(); err != nil {
		return err
	}

	if tmpl.ID == "" {
		tmpl.ID = uuid.New().String()
	}
	if tmpl.Version == 0 {
		tmpl.Version = 1
	}
	now := time.Now().UTC()
	tmpl.CreatedAt = now
	tmpl.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO templates (id, name, description, content, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		tmpl.ID,
		tmpl.Name,
		tmpl.Description,
		tmpl.Content,
		tmpl.Version,
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTemplateExists
		}
		return fmt.Errorf("failed to insert template: %w", err)
	}

	return nil
}

// Get retrieves a template by ID.
func (r *TemplateRepository) Get(ctx context.Context, id string) (*models.Template, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, content, version, created_at, updated_at
		FROM templates WHERE id = ?
	`, id)
	return scanTemplate(row)
}

// GetByName retrieves a template by its unique name.
func (r *TemplateRepository) GetByName(ctx context.Context, name string) (*models.Template, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, content, version, created_at, updated_at
		FROM templates WHERE name = ?
	`, name)
	return scanTemplate(row)
}

// List retrieves all templates ordered by name.
func (r *TemplateRepository) List(ctx context.Context) ([]*models.Template, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, content, version, created_at, updated_at
		FROM templates ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var templates []*models.Template
	for rows.Next() {
		tmpl, err := scanTemplateFromRows(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating templates: %w", err)
	}

	return templates, nil
}

// Update persists name, description and content changes. The version
// increments only when the content actually changed.
func (r *TemplateRepository) Update(ctx context.Context, tmpl *models.Template) error {
	if err := tmpl.Validate(); err != nil {
		return err
	}

	current, err := r.Get(ctx, tmpl.ID)
	if err != nil {
		return err
	}

	tmpl.Version = current.Version
	if tmpl.Content != current.Content {
		tmpl.Version = current.Version + 1
	}
	tmpl.CreatedAt = current.CreatedAt
	tmpl.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE templates SET name = ?, description = ?, content = ?, version = ?, updated_at = ?
		WHERE id = ?
	`,
		tmpl.Name,
		tmpl.Description,
		tmpl.Content,
		tmpl.Version,
		tmpl.UpdatedAt.Format(time.RFC3339),
		tmpl.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTemplateExists
		}
		return fmt.Errorf("failed to update template: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}

// Delete removes a template by ID.
func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// SeedBuiltins inserts the given templates when their names are absent.
// Existing templates are never overwritten.
func (r *TemplateRepository) SeedBuiltins(ctx context.Context, templates []*models.Template) error {
	for _, tmpl := range templates {
		_, err := r.GetByName(ctx, tmpl.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrTemplateNotFound) {
			return err
		}
		seeded := *tmpl
		seeded.ID = ""
		if err := r.Create(ctx, &seeded); err != nil {
			return fmt.Errorf("seed builtin template %q: %w", tmpl.Name, err)
		}
	}
	return nil
}

func scanTemplate(row *sql.Row) (*models.Template, error) {
	var tmpl models.Template
	var createdAt, updatedAt string

	err := row.Scan(&tmpl.ID, &tmpl.Name, &tmpl.Description, &tmpl.Content, &tmpl.Version, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to scan template: %w", err)
	}

	tmpl.CreatedAt = parseTime(createdAt)
	tmpl.UpdatedAt = parseTime(updatedAt)
	return &tmpl, nil
}

func scanTemplateFromRows(rows *sql.Rows) (*models.Template, error) {
	var tmpl models.Template
	var createdAt, updatedAt string

	if err := rows.Scan(&tmpl.ID, &tmpl.Name, &tmpl.Description, &tmpl.Content, &tmpl.Version, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan template: %w", err)
	}

	tmpl.CreatedAt = parseTime(createdAt)
	tmpl.UpdatedAt = parseTime(updatedAt)
	return &tmpl, nil
}

func parseTime(value string) time.Time {
	t, _ := time.Parse(time.RFC3339, value)
	return t
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
