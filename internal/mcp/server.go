package mcp

import (
	"context"
	"encoding/json"

	"vizr-mcp/internal/chart"
	"vizr-mcp/internal/config"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Server holds the state for the MCP server.
type Server struct {
	cfg     *config.AppConfig
	version string
	builder *chart.Builder
}

// NewServer creates a new MCP server. The chart builder follows the configured defaults.
func NewServer(cfg *config.AppConfig, version string) *Server {
	return &Server{
		cfg:     cfg,
		version: version,
		builder: chart.NewBuilder(
			chart.WithDefaultInterval(cfg.DefaultInterval),
			chart.WithMermaid(cfg.EnableMermaidCharts),
			chart.WithConcurrency(cfg.BuildConcurrency),
		),
	}
}

// MCPServer returns an SDK server with every tool registered.
func (s *Server) MCPServer() *sdk.Server {
	server := sdk.NewServer(&sdk.Implementation{
		Name:    "vizr-mcp",
		Title:   "Vizr cumulative charts",
		Version: s.version,
	}, nil)
	s.registerTools(server)
	return server
}

// Start serves MCP over stdin/stdout until the client disconnects or ctx ends.
func (s *Server) Start(ctx context.Context) error {
	log.Info().Str("version", s.version).Msg("MCP Server starting Stdio loop")
	err := s.MCPServer().Run(ctx, &sdk.StdioTransport{})
	if err != nil {
		log.Error().Err(err).Msg("MCP Server stopped")
		return err
	}
	log.Info().Msg("MCP Server stopped")
	return nil
}

func (s *Server) formatResult(data interface{}) string {
	out, _ := json.MarshalIndent(data, "", "  ")
	return string(out)
}
