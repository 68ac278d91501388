package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/lorrc/service-desk-analytics/internal/adapters/primary/validation"
	"github.com/lorrc/service-desk-analytics/internal/adapters/secondary/spreadsheet"
	"github.com/lorrc/service-desk-analytics/internal/core/domain"
	"github.com/lorrc/service-desk-analytics/internal/core/filter"
	"github.com/lorrc/service-desk-analytics/internal/core/ports"
)

type analyzeFlags struct {
	from, to string
	client   string
	author   string
	priority string
	status   string
	assignee string

	segmentField string
	segmentValue string

	slaHours       float64
	now            string
	includeTickets bool
	export         string
}

func newAnalyzeCmd(c *cli) *cobra.Command {
	var f analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Compute the dashboard overview for an .xlsx or .csv export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := c.cfg.Location()
			if err != nil {
				return err
			}
			params, err := f.params(loc)
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()
			params.FileName = filepath.Base(args[0])
			params.Source = file
			if f.export != "" {
				params.IncludeTickets = true
			}

			svc, err := c.service()
			if err != nil {
				return err
			}
			overview, err := svc.Analyze(cmd.Context(), params)
			if err != nil {
				return err
			}

			if f.export != "" {
				if err := exportTickets(cmd.Context(), f.export, overview.Tickets); err != nil {
					return err
				}
				c.logger.Info("tickets exported", "path", f.export, "tickets", len(overview.Tickets))
				if !f.includeTickets {
					overview.Tickets = nil
				}
			}

			out := cmd.OutOrStdout()
			return c.write(out, overview, func(w io.Writer) error {
				return writeOverviewTable(w, overview)
			})
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.from, "from", "", "First creation day, YYYY-MM-DD")
	fl.StringVar(&f.to, "to", "", "Last creation day, YYYY-MM-DD")
	fl.StringVar(&f.client, "client", "", "Only this client")
	fl.StringVar(&f.author, "author", "", "Only this author")
	fl.StringVar(&f.priority, "priority", "", "Only this priority")
	fl.StringVar(&f.status, "status", "", "Only this status")
	fl.StringVar(&f.assignee, "assignee", "", "Only this assignee")
	fl.StringVar(&f.segmentField, "segment-field", "", "Drill into one bar: field name")
	fl.StringVar(&f.segmentValue, "segment-value", "", "Drill into one bar: group label")
	fl.Float64Var(&f.slaHours, "sla-hours", 0, "SLA target in hours (default from SLA_TARGET_HOURS)")
	fl.StringVar(&f.now, "now", "", "Evaluation time for backlog age, RFC 3339")
	fl.BoolVar(&f.includeTickets, "include-tickets", false, "Append the filtered ticket list")
	fl.StringVar(&f.export, "export", "", "Also write the filtered ticket list to this .xlsx path")

	return cmd
}

func (f analyzeFlags) params(loc *time.Location) (ports.AnalyzeParams, error) {
	from, err := parseDay("from", f.from, loc)
	if err != nil {
		return ports.AnalyzeParams{}, err
	}
	to, err := parseDay("to", f.to, loc)
	if err != nil {
		return ports.AnalyzeParams{}, err
	}

	var now time.Time
	if f.now != "" {
		if now, err = time.Parse(time.RFC3339, f.now); err != nil {
			return ports.AnalyzeParams{}, fmt.Errorf("--now: %w", err)
		}
	}

	return ports.AnalyzeParams{
		Criteria: filter.Criteria{
			From:     from,
			To:       to,
			Client:   f.client,
			Author:   f.author,
			Priority: f.priority,
			Status:   f.status,
			Assignee: f.assignee,
			Location: loc,
		},
		Segment: filter.Segment{
			Field: domain.Field(f.segmentField),
			Value: f.segmentValue,
		},
		SLATargetHours: f.slaHours,
		Now:            now,
		IncludeTickets: f.includeTickets,
	}, nil
}

// exportTickets writes tickets as a workbook at path. A failed write removes
// the partial file.
func exportTickets(ctx context.Context, path string, tickets []domain.Ticket) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := spreadsheet.NewWriter().WriteTickets(ctx, file, tickets); err != nil {
		return fmt.Errorf("--export: %w", err)
	}
	return nil
}

func parseDay(flag, raw string, loc *time.Location) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(validation.DateLayout, raw, loc)
	if err != nil {
		return nil, fmt.Errorf("--%s must be YYYY-MM-DD: %w", flag, err)
	}
	return &t, nil
}
