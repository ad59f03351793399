package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cytzrs/share-sub001/internal/models"
)

// MCP server repository errors.
var (
	ErrMCPServerNotFound = errors.New("mcp server not found")
	ErrMCPServerExists   = errors.New("mcp server name already exists")
)

// MCPServerRepository handles MCP tool-server record persistence.
type MCPServerRepository struct {
	db *DB
}

// NewMCPServerRepository creates a new MCPServerRepository.
func NewMCPServerRepository(db *DB) *MCPServerRepository {
	return &MCPServerRepository{db: db}
}

// Create inserts a new MCP server record.
func (r *MCPServerRepository) Create(ctx context.Context, server *models.MCPServer) error {
	if server.Status == "" {
		server.Status = models.MCPServerStatusUnknown
	}
	if err := server.Validate(); err != nil {
		return err
	}

	if server.ID == "" {
		server.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	server.CreatedAt = now
	server.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO mcp_servers (
			id, name, transport, endpoint, command, enabled, status,
			last_checked_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		server.ID,
		server.Name,
		string(server.Transport),
		nullString(server.Endpoint),
		nullString(server.Command),
		boolToInt(server.Enabled),
		string(server.Status),
		nullTime(server.LastCheckedAt),
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrMCPServerExists
		}
		return fmt.Errorf("failed to insert mcp server: %w", err)
	}

	return nil
}

const mcpColumns = `id, name, transport, endpoint, command, enabled, status, last_checked_at, created_at, updated_at`

// Get retrieves an MCP server record by ID.
func (r *MCPServerRepository) Get(ctx context.Context, id string) (*models.MCPServer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+mcpColumns+` FROM mcp_servers WHERE id = ?`, id)
	return scanMCPServer(row.Scan)
}

// GetByName retrieves an MCP server record by its unique name.
func (r *MCPServerRepository) GetByName(ctx context.Context, name string) (*models.MCPServer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+mcpColumns+` FROM mcp_servers WHERE name = ?`, name)
	return scanMCPServer(row.Scan)
}

// List retrieves all MCP server records ordered by name.
func (r *MCPServerRepository) List(ctx context.Context) ([]*models.MCPServer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+mcpColumns+` FROM mcp_servers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query mcp servers: %w", err)
	}
	defer rows.Close()

	var servers []*models.MCPServer
	for rows.Next() {
		server, err := scanMCPServer(rows.Scan)
		if err != nil {
			return nil, err
		}
		servers = append(servers, server)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mcp servers: %w", err)
	}

	return servers, nil
}

// Update persists record changes.
func (r *MCPServerRepository) Update(ctx context.Context, server *models.MCPServer) error {
	if err := server.Validate(); err != nil {
		return err
	}

	server.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE mcp_servers SET name = ?, transport = ?, endpoint = ?, command = ?,
			enabled = ?, status = ?, last_checked_at = ?, updated_at = ?
		WHERE id = ?
	`,
		server.Name,
		string(server.Transport),
		nullString(server.Endpoint),
		nullString(server.Command),
		boolToInt(server.Enabled),
		string(server.Status),
		nullTime(server.LastCheckedAt),
		server.UpdatedAt.Format(time.RFC3339),
		server.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrMCPServerExists
		}
		return fmt.Errorf("failed to update mcp server: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrMCPServerNotFound
	}

	return nil
}

// UpdateStatus records the outcome of a reachability check.
func (r *MCPServerRepository) UpdateStatus(ctx context.Context, id string, status models.MCPServerStatus, checkedAt time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE mcp_servers SET status = ?, last_checked_at = ?, updated_at = ? WHERE id = ?
	`,
		string(status),
		checkedAt.UTC().Format(time.RFC3339),
		time.Now().UTC().Format(time.RFC3339),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update mcp server status: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrMCPServerNotFound
	}
	return nil
}

// Delete removes an MCP server record by ID.
func (r *MCPServerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM mcp_servers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete mcp server: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrMCPServerNotFound
	}
	return nil
}

func scanMCPServer(scan func(...any) error) (*models.MCPServer, error) {
	var server models.MCPServer
	var transport, status, createdAt, updatedAt string
	var endpoint, command, lastCheckedAt sql.NullString
	var enabled int

	err := scan(
		&server.ID,
		&server.Name,
		&transport,
		&endpoint,
		&command,
		&enabled,
		&status,
		&lastCheckedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMCPServerNotFound
		}
		return nil, fmt.Errorf("failed to scan mcp server: %w", err)
	}

	server.Transport = models.MCPTransport(transport)
	server.Status = models.MCPServerStatus(status)
	server.Endpoint = endpoint.String
	server.Command = command.String
	server.Enabled = enabled != 0
	if lastCheckedAt.Valid {
		if t, err := time.Parse(time.RFC3339, lastCheckedAt.String); err == nil {
			server.LastCheckedAt = &t
		}
	}
	server.CreatedAt = parseTime(createdAt)
	server.UpdatedAt = parseTime(updatedAt)

	return &server, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
