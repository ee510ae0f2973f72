package mcp

import (
	"fmt"
	"strings"

	"vizr-mcp/internal/bucket"
	"vizr-mcp/internal/calendar"
	"vizr-mcp/internal/chart"
	"vizr-mcp/internal/records"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// resolveRecords returns inline records, or loads records_file, or the configured
// RECORDS_FILE. With none of them set the record set is empty.
func (s *Server) resolveRecords(src RecordSource) ([]bucket.Record, error) {
	if len(src.Records) > 0 {
		return src.Records, nil
	}

	path := src.RecordsFile
	if path == "" {
		path = s.cfg.RecordsFile
	}
	if path == "" {
		log.Debug().Msg("No records supplied and no RECORDS_FILE configured")
		return nil, nil
	}
	return records.Load(path)
}

func (s *Server) resolveInterval(raw string) (calendar.Interval, error) {
	if strings.TrimSpace(raw) == "" {
		return s.cfg.DefaultInterval, nil
	}
	return calendar.ParseInterval(raw)
}

func (s *Server) loadDefinitions() ([]chart.Definition, error) {
	if s.cfg.ChartsFile == "" {
		return nil, fmt.Errorf("no saved charts: CHARTS_FILE is not configured")
	}
	return chart.LoadDefinitions(s.cfg.ChartsFile)
}

// textResult carries the indented JSON as text content; the SDK adds the structured copy.
func (s *Server) textResult(data interface{}) *sdk.CallToolResult {
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: s.formatResult(data)}},
	}
}
