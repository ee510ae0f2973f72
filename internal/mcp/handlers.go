package mcp

import (
	"context"
	"fmt"
	"strings"

	"vizr-mcp/internal/bucket"
	"vizr-mcp/internal/chart"
	"vizr-mcp/internal/visuals"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// RecordSource selects the records a tool works on. Inline records win over a file.
type RecordSource struct {
	Records     []bucket.Record `json:"records,omitempty" jsonschema:"Inline records, each a flat object of field values"`
	RecordsFile string          `json:"records_file,omitempty" jsonschema:"Path to a .json, .jsonl or .csv records file; defaults to RECORDS_FILE"`
}

type BuildChartInput struct {
	RecordSource
	ChartID      string         `json:"chart_id,omitempty" jsonschema:"Id of a saved chart definition"`
	Title        string         `json:"title,omitempty"`
	Field        string         `json:"field,omitempty" jsonschema:"Date field of the records"`
	Group        string         `json:"group,omitempty" jsonschema:"Optional group field"`
	Start        string         `json:"start,omitempty" jsonschema:"Start date (YYYY-MM-DD); blank derives it from the earliest record"`
	End          string         `json:"end,omitempty" jsonschema:"Date the targets should be met by (YYYY-MM-DD); defaults to the chart end"`
	ChartEnd     string         `json:"chart_end,omitempty" jsonschema:"Last date shown on the chart (YYYY-MM-DD); defaults to today"`
	DateInterval string         `json:"date_interval,omitempty" jsonschema:"day, week, month or year"`
	Targets      map[string]any `json:"targets,omitempty" jsonschema:"Target per group label; use 'No Groups' for an ungrouped chart"`
}

type ChartOutput struct {
	Chart     chart.Result `json:"chart"`
	TotalHTML string       `json:"total_html"`
	GroupHTML string       `json:"group_html,omitempty"`
}

func (s *Server) handleBuildChart(ctx context.Context, _ *sdk.CallToolRequest, in BuildChartInput) (*sdk.CallToolResult, ChartOutput, error) {
	def, err := s.resolveDefinition(in)
	if err != nil {
		return nil, ChartOutput{}, err
	}

	recs, err := s.resolveRecords(in.RecordSource)
	if err != nil {
		return nil, ChartOutput{}, err
	}

	res, err := s.builder.Build(def, recs)
	if err != nil {
		return nil, ChartOutput{}, err
	}

	out := ChartOutput{
		Chart:     *res,
		TotalHTML: res.TotalHTML(),
		GroupHTML: res.GroupHTML(),
	}
	log.Info().Str("tool", toolBuildChart).Str("chart", def.ID).Int("records", len(recs)).Msg("Tool call completed")
	return s.textResult(out), out, nil
}

// resolveDefinition loads a saved chart or assembles one from the inline fields. Inline
// fields override the saved ones.
func (s *Server) resolveDefinition(in BuildChartInput) (chart.Definition, error) {
	def := chart.NewDefinition()
	if in.ChartID != "" {
		defs, err := s.loadDefinitions()
		if err != nil {
			return chart.Definition{}, err
		}
		saved, ok := chart.Find(defs, in.ChartID)
		if !ok {
			return chart.Definition{}, fmt.Errorf("chart %q not found in %s", in.ChartID, s.cfg.ChartsFile)
		}
		def = saved
	}

	override(&def.Title, in.Title)
	override(&def.Field, in.Field)
	override(&def.Group, in.Group)
	override(&def.Start, in.Start)
	override(&def.End, in.End)
	override(&def.ChartEnd, in.ChartEnd)
	override(&def.DateInterval, in.DateInterval)
	if in.Targets != nil {
		def.Targets = in.Targets
	}
	if def.Title == "" {
		def.Title = chart.Title(def.Field)
	}
	return def, nil
}

func override(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}

type ChartInfo struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Field        string `json:"field"`
	Group        string `json:"group,omitempty"`
	DateInterval string `json:"date_interval,omitempty"`
}

type ListChartsOutput struct {
	ChartsFile string      `json:"charts_file"`
	Charts     []ChartInfo `json:"charts"`
}

func (s *Server) handleListCharts(ctx context.Context, _ *sdk.CallToolRequest, _ struct{}) (*sdk.CallToolResult, ListChartsOutput, error) {
	defs, err := s.loadDefinitions()
	if err != nil {
		return nil, ListChartsOutput{}, err
	}

	out := ListChartsOutput{ChartsFile: s.cfg.ChartsFile, Charts: make([]ChartInfo, 0, len(defs))}
	for _, d := range defs {
		out.Charts = append(out.Charts, ChartInfo{
			ID:           d.ID,
			Title:        d.Title,
			Description:  d.Description,
			Field:        d.Field,
			Group:        d.Group,
			DateInterval: d.DateInterval,
		})
	}
	return s.textResult(out), out, nil
}

type BucketRecordsInput struct {
	RecordSource
	Field    string `json:"field" jsonschema:"Date field of the records"`
	Group    string `json:"group,omitempty" jsonschema:"Optional group field"`
	Start    string `json:"start,omitempty" jsonschema:"Start date (YYYY-MM-DD); blank derives it from the earliest record"`
	End      string `json:"end" jsonschema:"End date (YYYY-MM-DD), inclusive"`
	Interval string `json:"interval,omitempty" jsonschema:"day, week, month or year; defaults to DEFAULT_INTERVAL"`
}

func (s *Server) handleBucketRecords(ctx context.Context, _ *sdk.CallToolRequest, in BucketRecordsInput) (*sdk.CallToolResult, bucket.GroupedBuckets, error) {
	interval, err := s.resolveInterval(in.Interval)
	if err != nil {
		return nil, bucket.GroupedBuckets{}, err
	}
	recs, err := s.resolveRecords(in.RecordSource)
	if err != nil {
		return nil, bucket.GroupedBuckets{}, err
	}

	grouped, err := bucket.GroupedByInterval(recs, in.Field, in.Start, in.End, interval, in.Group)
	if err != nil {
		return nil, bucket.GroupedBuckets{}, err
	}

	log.Info().Str("tool", toolBucketRecords).Str("field", in.Field).Str("interval", interval.String()).Int("records", len(recs)).Msg("Tool call completed")
	return s.textResult(grouped), grouped, nil
}

type TrendPointsInput struct {
	Start    string  `json:"start" jsonschema:"Start date (YYYY-MM-DD)"`
	End      string  `json:"end" jsonschema:"Date the target is reached (YYYY-MM-DD)"`
	Interval string  `json:"interval,omitempty" jsonschema:"day, week, month or year; defaults to DEFAULT_INTERVAL"`
	Target   float64 `json:"target" jsonschema:"Value of the line at the end interval"`
}

type TrendPointsOutput struct {
	Points []bucket.TrendPoint `json:"points"`
}

func (s *Server) handleTrendPoints(ctx context.Context, _ *sdk.CallToolRequest, in TrendPointsInput) (*sdk.CallToolResult, TrendPointsOutput, error) {
	interval, err := s.resolveInterval(in.Interval)
	if err != nil {
		return nil, TrendPointsOutput{}, err
	}

	points, err := bucket.TrendPoints(in.Start, in.End, interval, in.Target)
	if err != nil {
		return nil, TrendPointsOutput{}, err
	}

	out := TrendPointsOutput{Points: points}
	return s.textResult(out), out, nil
}

type GroupEntry struct {
	Label  string   `json:"label" jsonschema:"Group label; blank means the group field was not answered"`
	Count  int      `json:"count"`
	Target *float64 `json:"target,omitempty"`
}

type GroupStatisticsInput struct {
	Groups      []GroupEntry `json:"groups"`
	GroupHeader string       `json:"group_header,omitempty" jsonschema:"Header of the group column, e.g. 'Study Clinic'"`
}

type GroupStatisticsOutput struct {
	Table     bucket.StatisticsTable `json:"table"`
	Total     bucket.TotalRow        `json:"total"`
	TableHTML string                 `json:"table_html"`
	TotalHTML string                 `json:"total_html"`
}

func (s *Server) handleGroupStatistics(ctx context.Context, _ *sdk.CallToolRequest, in GroupStatisticsInput) (*sdk.CallToolResult, GroupStatisticsOutput, error) {
	summaries := make([]bucket.GroupSummary, 0, len(in.Groups))
	for _, g := range in.Groups {
		if g.Count < 0 {
			return nil, GroupStatisticsOutput{}, fmt.Errorf("group %q: count must not be negative", g.Label)
		}
		summaries = append(summaries, bucket.GroupSummary{Label: g.Label, Count: g.Count, Target: g.Target})
	}

	header := in.GroupHeader
	if header == "" {
		header = "Group"
	}

	table := bucket.Statistics(summaries, header)
	total := bucket.Totals(summaries)
	out := GroupStatisticsOutput{
		Table:     table,
		Total:     total,
		TableHTML: visuals.RenderStatistics(table),
		TotalHTML: visuals.RenderTotal(total),
	}
	return s.textResult(out), out, nil
}
