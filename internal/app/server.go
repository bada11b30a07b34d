package app

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ijzereen/askpg/internal/core/service"
)

// NewServer assembles the MCP stdio server exposing the schema and query
// capabilities as tools.
func NewServer(agent *service.AgentService, queries *service.QueryService) *server.MCPServer {
	s := server.NewMCPServer(
		"askpg",
		"0.1.0",
	)

	RegisterTools(s, agent, queries)

	return s
}
