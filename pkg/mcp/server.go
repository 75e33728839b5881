package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/urmzd/relayctl/pkg/device/schema"
	"github.com/urmzd/relayctl/pkg/panel"
)

// Server wraps the MCP server with relay board control functionality
type Server struct {
	mcpServer *server.MCPServer
	panel     *panel.Panel
	validator *schema.Validator
}

// NewServer creates a new MCP server for relay board control
func NewServer(p *panel.Panel, validator *schema.Validator) *Server {
	s := &Server{
		panel:     p,
		validator: validator,
	}

	s.mcpServer = server.NewMCPServer(
		"relayctl",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// ServeStdio starts the MCP server using stdio transport
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
