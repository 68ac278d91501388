package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lorrc/service-desk-analytics/internal/core/domain"
)

// ticketsOutput is the structured form of the tickets command.
type ticketsOutput struct {
	Tickets        []domain.Ticket        `json:"tickets" yaml:"tickets"`
	Stats          domain.ParseStats      `json:"stats" yaml:"stats"`
	HeaderWarnings []domain.HeaderWarning `json:"headerWarnings,omitempty" yaml:"headerWarnings,omitempty"`
}

func newTicketsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tickets <file>",
		Short: "Print the tickets parsed from an export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			svc, err := c.service()
			if err != nil {
				return err
			}
			result, err := svc.ParseTickets(cmd.Context(), filepath.Base(args[0]), file)
			if err != nil {
				return err
			}

			out := ticketsOutput{
				Tickets:        result.Tickets,
				Stats:          result.Stats,
				HeaderWarnings: result.HeaderWarnings,
			}
			return c.write(cmd.OutOrStdout(), out, func(w io.Writer) error {
				return writeTicketTable(w, result.Tickets)
			})
		},
	}
}
