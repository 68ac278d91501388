package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lorrc/service-desk-analytics/internal/auth"
)

func newTokenCmd(c *cli) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the HTTP API (uses AUTH_SECRET)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !c.cfg.AuthEnabled() {
				return errors.New("AUTH_SECRET is not set")
			}
			if ttl <= 0 {
				ttl = c.cfg.Auth.TokenTTL
			}

			tm := auth.NewTokenManager(c.cfg.Auth.Secret, ttl)
			token, err := tm.GenerateToken(subject)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Token subject, e.g. the dashboard name")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default from AUTH_TOKEN_TTL)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
