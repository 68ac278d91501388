package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/lorrc/service-desk-analytics/internal/core/domain"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func checkFormat(f string) error {
	switch f {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown format %q (want table, json or yaml)", f)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
}

func writeOverviewTable(w io.Writer, o *domain.Overview) error {
	tw := newTable(w)

	fmt.Fprintf(tw, "Tickets\t%d\n", o.TotalTickets)
	fmt.Fprintf(tw, "Closed\t%d\n", o.ClosedTickets)
	fmt.Fprintf(tw, "Open\t%d\n", o.OpenTickets)
	fmt.Fprintf(tw, "Urgent\t%d\n", o.UrgentTickets)
	fmt.Fprintf(tw, "Clients\t%d\n", o.DistinctClients)
	fmt.Fprintf(tw, "TTR (h)\t%s\n", formatFloat(o.TTRHours))
	fmt.Fprintf(tw, "SLA <= %gh\t%s\n", o.SLATargetHours, formatPct(o.SLACompliancePct))
	fmt.Fprintf(tw, "Open age (d)\t%s\n", formatFloat(o.AvgOpenAgeDays))
	if o.CreationBounds != nil {
		fmt.Fprintf(tw, "Created\t%s .. %s\n",
			o.CreationBounds.From.Format("2006-01-02"), o.CreationBounds.To.Format("2006-01-02"))
	}
	fmt.Fprintf(tw, "Rows\t%d parsed, %d blank, %d invalid ID\n",
		o.Parse.Parsed, o.Parse.SkippedBlank, o.Parse.RejectedInvalidID)

	sections := []struct {
		title  string
		counts []domain.NamedCount
	}{
		{"By client", o.ByClient},
		{"By priority", o.ByPriority},
		{"By status", o.ByStatus},
		{"By type", o.ByType},
		{"By assignee", o.ByAssignee},
		{"Open by client", o.OpenByClient},
		{"Created by month", o.CreatedByMonth},
	}
	for _, s := range sections {
		if len(s.counts) == 0 {
			continue
		}
		fmt.Fprintf(tw, "\n%s\t\n", s.title)
		for _, nc := range s.counts {
			fmt.Fprintf(tw, "  %s\t%d\n", nc.Name, nc.Value)
		}
	}

	for _, hw := range o.HeaderWarnings {
		fmt.Fprintf(tw, "\nwarning\tcolumn %d: expected %q, found %q\n", hw.Column, hw.Expected, hw.Found)
	}

	if len(o.Tickets) > 0 {
		fmt.Fprintln(tw)
		if err := tw.Flush(); err != nil {
			return err
		}
		return writeTicketTable(w, o.Tickets)
	}
	return tw.Flush()
}

func writeTicketTable(w io.Writer, tickets []domain.Ticket) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tCLIENT\tPRIORITY\tSTATUS\tASSIGNEE\tCREATED\tTITLE")
	for _, t := range tickets {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Client, t.Priority, t.Status, t.Assignee, t.CreatedAt, t.Title)
	}
	return tw.Flush()
}

func formatFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatPct(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v) + "%"
}
