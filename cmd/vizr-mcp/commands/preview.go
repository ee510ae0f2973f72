package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vizr-mcp/internal/chart"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	previewTitle string
	noBrowser    bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render saved charts to a standalone HTML page and open it",
	Long: `Builds the selected charts, writes an HTML page with the cumulative charts and
their summary tables into the preview directory and opens it in the default browser.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		results, defs, err := buildCharts(cmd)
		if err != nil {
			return err
		}

		page, err := chart.PreviewPage(previewTitle, defs, results)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(cfg.PreviewDir, 0755); err != nil {
			return fmt.Errorf("failed to create preview directory: %w", err)
		}
		path := filepath.Join(cfg.PreviewDir, fmt.Sprintf("preview-%s.html", time.Now().Format("20060102-150405")))
		if err := os.WriteFile(path, []byte(page), 0644); err != nil {
			return fmt.Errorf("failed to write preview: %w", err)
		}

		log.Info().Str("path", path).Int("charts", len(results)).Msg("Preview written")
		fmt.Fprintln(cmd.OutOrStdout(), path)

		if noBrowser {
			return nil
		}
		if err := browser.OpenFile(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to open browser")
		}
		return nil
	},
}

func init() {
	previewCmd.Flags().StringVar(&previewTitle, "title", "Vizr Preview", "page title")
	previewCmd.Flags().BoolVar(&noBrowser, "no-browser", false, "only write the HTML file")
	rootCmd.AddCommand(previewCmd)
}
