package models

import (
	"strings"
	"time"
)

// MCPTransport identifies how an MCP tool server is reached.
type MCPTransport string

const (
	MCPTransportStdio MCPTransport = "stdio"
	MCPTransportSSE   MCPTransport = "sse"
	MCPTransportHTTP  MCPTransport = "http"
)

// MCPServerStatus is the last known reachability of an MCP server.
type MCPServerStatus string

const (
	MCPServerStatusUnknown     MCPServerStatus = "unknown"
	MCPServerStatusReachable   MCPServerStatus = "reachable"
	MCPServerStatusUnreachable MCPServerStatus = "unreachable"
)

// MCPServer is a registered MCP tool server record.
type MCPServer struct {
	// ID is the unique identifier for the server record.
	ID string `json:"id"`

	// Name is the display name. Unique across servers.
	Name string `json:"name"`

	// Transport is how agents connect to the server.
	Transport MCPTransport `json:"transport"`

	// Endpoint is the URL for sse/http transports.
	Endpoint string `json:"endpoint,omitempty"`

	// Command is the executable for stdio transport.
	Command string `json:"command,omitempty"`

	// Enabled marks whether agents may use this server.
	Enabled bool `json:"enabled"`

	// Status is the last reachability check result.
	Status MCPServerStatus `json:"status"`

	// LastCheckedAt is when the reachability check last ran.
	LastCheckedAt *time.Time `json:"last_checked_at,omitempty"`

	// CreatedAt is when the record was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the record was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks if the server record is valid.
func (s *MCPServer) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(s.Name) == "" {
		validation.AddMessage("name", "server name is required")
	}
	switch s.Transport {
	case MCPTransportStdio:
		if strings.TrimSpace(s.Command) == "" {
			validation.AddMessage("command", "command is required for stdio transport")
		}
	case MCPTransportSSE, MCPTransportHTTP:
		if strings.TrimSpace(s.Endpoint) == "" {
			validation.AddMessage("endpoint", "endpoint is required for url transports")
		} else if !strings.HasPrefix(s.Endpoint, "http://") && !strings.HasPrefix(s.Endpoint, "https://") {
			validation.AddMessage("endpoint", "endpoint must be an http(s) URL")
		}
	default:
		validation.AddMessage("transport", "transport must be stdio, sse or http")
	}
	return validation.Err()
}
