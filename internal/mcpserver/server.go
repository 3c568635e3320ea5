// Package mcpserver exposes DeepSeek translation as MCP tools so an
// assistant can translate strings on a user's behalf.
package mcpserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"gp-deepseek-translate/internal/translate"
)

// Version is the MCP server version.
const Version = "0.1.0"

// ErrMissingClients is returned when no client source is provided.
var ErrMissingClients = errors.New("mcpserver: client source is required")

// ClientSource hands out a translation client configured for a user.
type ClientSource interface {
	ForUser(userID string) *translate.Client
}

type Server struct {
	clients ClientSource
	userID  string
	server  *mcp.Server
}

// NewServer creates a server whose tools translate with userID's settings.
// An empty userID uses the site settings.
func NewServer(clients ClientSource, userID string) (*Server, error) {
	if clients == nil {
		return nil, ErrMissingClients
	}

	impl := &mcp.Implementation{
		Name:    "deepseek-translate",
		Version: Version,
	}

	s := &Server{
		clients: clients,
		userID:  userID,
		server:  mcp.NewServer(impl, nil),
	}
	s.registerTools()
	return s, nil
}

// Run serves over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
