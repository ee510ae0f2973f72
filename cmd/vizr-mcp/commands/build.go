package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"vizr-mcp/internal/chart"
	"vizr-mcp/internal/records"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	recordsFile string
	chartsFile  string
	chartIDs    []string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build saved charts and print the results as JSON",
	Long: `Loads the records and chart definitions, builds every selected chart and writes
the results to stdout as a JSON array.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		results, _, err := buildCharts(cmd)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), results)
	},
}

// buildCharts resolves inputs from flags or configuration and builds the selected charts.
func buildCharts(cmd *cobra.Command) ([]*chart.Result, []chart.Definition, error) {
	recPath := firstNonEmpty(recordsFile, cfg.RecordsFile)
	defsPath := firstNonEmpty(chartsFile, cfg.ChartsFile)
	if recPath == "" || defsPath == "" {
		return nil, nil, fmt.Errorf("records and charts files are required (--records/--charts or RECORDS_FILE/CHARTS_FILE)")
	}

	recs, err := records.Load(recPath)
	if err != nil {
		return nil, nil, err
	}
	defs, err := chart.LoadDefinitions(defsPath)
	if err != nil {
		return nil, nil, err
	}
	defs, err = selectCharts(defs, chartIDs)
	if err != nil {
		return nil, nil, err
	}

	builder := chart.NewBuilder(
		chart.WithDefaultInterval(cfg.DefaultInterval),
		chart.WithMermaid(cfg.EnableMermaidCharts),
		chart.WithConcurrency(cfg.BuildConcurrency),
	)
	results, err := builder.BuildAll(cmd.Context(), defs, recs)
	if err != nil {
		return nil, nil, err
	}
	for _, res := range results {
		for _, w := range res.Warnings {
			log.Warn().Str("chart", res.ID).Msg(w)
		}
	}
	return results, defs, nil
}

func selectCharts(defs []chart.Definition, ids []string) ([]chart.Definition, error) {
	if len(ids) == 0 {
		return defs, nil
	}
	selected := make([]chart.Definition, 0, len(ids))
	for _, id := range ids {
		def, ok := chart.Find(defs, id)
		if !ok {
			return nil, fmt.Errorf("chart %q not found", id)
		}
		selected = append(selected, def)
	}
	return selected, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	for _, c := range []*cobra.Command{buildCmd, previewCmd} {
		c.Flags().StringVar(&recordsFile, "records", "", "records file (.json, .jsonl, .csv); defaults to RECORDS_FILE")
		c.Flags().StringVar(&chartsFile, "charts", "", "chart definitions file (.yaml, .json); defaults to CHARTS_FILE")
		c.Flags().StringSliceVar(&chartIDs, "chart", nil, "chart id to build (repeatable); defaults to all")
	}
	rootCmd.AddCommand(buildCmd)
}
