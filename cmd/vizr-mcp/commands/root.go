package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"vizr-mcp/internal/config"
	"vizr-mcp/internal/logging"
	"vizr-mcp/internal/mcp"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "vizr-mcp",
	Short: "Vizr-MCP turns dated records into cumulative progress charts",
	Long: `An MCP Server that buckets dated records into cumulative counts per day, week, month or year,
optionally split by a group field, and compares them against a linear target trend.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		// Load configuration
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("Vizr-MCP starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		server := mcp.NewServer(cfg, Version)
		return server.Start(cmd.Context())
	},
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
