package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lorrc/service-desk-analytics/internal/app"
	"github.com/lorrc/service-desk-analytics/internal/config"
	"github.com/lorrc/service-desk-analytics/internal/core/services"
	"github.com/lorrc/service-desk-analytics/internal/infrastructure/logging"
)

// cli carries the state shared by every subcommand.
type cli struct {
	format  string
	verbose bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "ticketstats",
		Short:         "Support-desk export analytics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(c.format); err != nil {
				return err
			}
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			c.cfg = cfg

			logCfg := logging.DefaultConfig()
			logCfg.Level = "warn"
			if c.verbose {
				logCfg.Level = "debug"
			}
			logCfg.Format = "text"
			logCfg.Output = cmd.ErrOrStderr()
			logCfg.ServiceName = "ticketstats"
			logCfg.Environment = cfg.App.Environment
			c.logger = logging.NewLogger(logCfg)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&c.format, "format", "f", formatTable, "Output format: table, json or yaml")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log ingestion details to stderr")

	root.AddCommand(
		newAnalyzeCmd(c),
		newTicketsCmd(c),
		newTokenCmd(c),
	)
	return root
}

func (c *cli) service() (*services.AnalyticsService, error) {
	svc, err := app.NewAnalyticsService(c.cfg, nil, c.logger)
	if err != nil {
		return nil, fmt.Errorf("build service: %w", err)
	}
	return svc, nil
}

// write renders v in the selected format, or calls table for the table format.
func (c *cli) write(w io.Writer, v any, table func(io.Writer) error) error {
	switch c.format {
	case formatJSON:
		return writeJSON(w, v)
	case formatYAML:
		return writeYAML(w, v)
	default:
		return table(w)
	}
}
