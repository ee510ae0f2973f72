package mcp

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	toolBuildChart      = "build_chart"
	toolListCharts      = "list_charts"
	toolBucketRecords   = "bucket_records"
	toolTrendPoints     = "trend_points"
	toolGroupStatistics = "group_statistics"
)

// datePattern accepts a calendar date optionally followed by a time, which is ignored.
const datePattern = `^\d{4}-\d{2}-\d{2}`

var dateArguments = []string{"start", "end", "chart_end"}

// inputSchema infers the argument schema of In and constrains its date arguments.
func inputSchema[In any]() *jsonschema.Schema {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		panic(fmt.Sprintf("mcp: input schema for %T: %v", *new(In), err))
	}
	for _, name := range dateArguments {
		if prop, ok := schema.Properties[name]; ok {
			prop.Pattern = datePattern
		}
	}
	return schema
}

func (s *Server) registerTools(server *sdk.Server) {
	sdk.AddTool(server, &sdk.Tool{
		Name: toolBuildChart,
		Description: "Build a cumulative chart: per-group cumulative counts per interval, the linear target trend, " +
			"the total and per-group statistics tables (JSON and HTML) and warnings. " +
			"Pass either 'chart_id' of a saved chart (see 'list_charts') or an inline definition with at least 'field'. " +
			"Records come from 'records', 'records_file' or the configured RECORDS_FILE.\n\n" +
			"Counts are cumulative: the value at an interval is the number of records dated up to the end of that interval. " +
			"Do NOT read them as per-interval counts.",
		InputSchema: inputSchema[BuildChartInput](),
	}, s.handleBuildChart)

	sdk.AddTool(server, &sdk.Tool{
		Name:        toolListCharts,
		Description: "List the saved chart definitions from the configured CHARTS_FILE (id, title, date field, group field, interval).",
	}, s.handleListCharts)

	sdk.AddTool(server, &sdk.Tool{
		Name: toolBucketRecords,
		Description: "Bucket records into cumulative counts per interval start (day, week starting Sunday, month, year). " +
			"With 'group' set, one series is returned per distinct group value, all sharing the same keys. " +
			"When 'start' is blank it is derived from the earliest record date.",
		InputSchema: inputSchema[BucketRecordsInput](),
	}, s.handleBucketRecords)

	sdk.AddTool(server, &sdk.Tool{
		Name: toolTrendPoints,
		Description: "Compute the straight target line from 0 at the start interval to 'target' at the end interval, " +
			"one point per interval start. Fails when start and end fall in the same interval.",
		InputSchema: inputSchema[TrendPointsInput](),
	}, s.handleTrendPoints)

	sdk.AddTool(server, &sdk.Tool{
		Name: toolGroupStatistics,
		Description: "Render per-group statistics (count, target, percent of target, percent of total) and the overall total " +
			"from final group counts and optional targets. Blank group labels are shown as 'Not Answered'.",
	}, s.handleGroupStatistics)
}
