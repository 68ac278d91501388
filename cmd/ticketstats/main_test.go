package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/service-desk-analytics/internal/adapters/secondary/spreadsheet"
	"github.com/lorrc/service-desk-analytics/internal/auth"
	"github.com/lorrc/service-desk-analytics/internal/core/domain"
	"github.com/lorrc/service-desk-analytics/internal/core/ingest"
)

const exportCSV = "Bandeja de entrada\n" +
	",,,,,,,,,\n" +
	"ID,Cliente,Título,Tipo,Autor,Asignado,Prioridad,Estado,Creación,Modificación\n" +
	"1,ACME,VPN caida,Incidente,ana,luis,Alta,Cerrado,2024-01-01T00:00,2024-01-01T10:00\n" +
	"2,Beta,Alta usuario,Solicitud,eva,,Media,Abierto,2024-01-05T00:00,2024-01-05T00:00\n"

func writeExport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(exportCSV), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("TIMEZONE", "UTC")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAnalyze(t *testing.T) {
	path := writeExport(t)

	t.Run("json", func(t *testing.T) {
		out, err := run(t, "analyze", path, "--format", "json", "--now", "2024-01-11T00:00:00Z")
		require.NoError(t, err)

		var o domain.Overview
		require.NoError(t, json.Unmarshal([]byte(out), &o))
		assert.Equal(t, 2, o.TotalTickets)
		assert.Equal(t, 1, o.ClosedTickets)
		assert.Equal(t, 1, o.OpenTickets)
		assert.Equal(t, 0, o.UrgentTickets)
		assert.Equal(t, 2, o.DistinctClients)
		require.NotNil(t, o.TTRHours)
		assert.Equal(t, 10.0, *o.TTRHours)
		require.NotNil(t, o.SLACompliancePct)
		assert.Equal(t, 100, *o.SLACompliancePct)
		require.NotNil(t, o.AvgOpenAgeDays)
		assert.Equal(t, 6.0, *o.AvgOpenAgeDays)
		assert.Empty(t, o.Tickets)
	})

	t.Run("filtered yaml", func(t *testing.T) {
		out, err := run(t, "analyze", path, "-f", "yaml", "--client", "Beta", "--include-tickets")
		require.NoError(t, err)
		assert.Contains(t, out, "totalTickets: 1")
		assert.Contains(t, out, "client: Beta")
	})

	t.Run("table", func(t *testing.T) {
		out, err := run(t, "analyze", path)
		require.NoError(t, err)
		assert.Contains(t, out, "By client")
		assert.Contains(t, out, "Clients")
		assert.Contains(t, out, "ACME")
		assert.Contains(t, out, "2 parsed, 0 blank, 0 invalid ID")
	})

	t.Run("export", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "filtrados.xlsx")
		out, err := run(t, "analyze", path, "--format", "json", "--export", target)
		require.NoError(t, err)

		var o domain.Overview
		require.NoError(t, json.Unmarshal([]byte(out), &o))
		assert.Empty(t, o.Tickets)

		file, err := os.Open(target)
		require.NoError(t, err)
		defer file.Close()

		grid, err := spreadsheet.NewReader(spreadsheet.Config{}).ReadGrid(context.Background(), "filtrados.xlsx", file)
		require.NoError(t, err)
		tickets := ingest.RowsToTickets(grid)
		require.Len(t, tickets, 2)
		assert.Equal(t, int64(2), tickets[0].ID)
		assert.Equal(t, int64(1), tickets[1].ID)
		assert.Equal(t, "VPN caida", tickets[1].Title)
	})

	t.Run("export of a segment", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "segmento.xlsx")
		_, err := run(t, "analyze", path, "--export", target,
			"--segment-field", "client", "--segment-value", "ACME")
		require.NoError(t, err)

		file, err := os.Open(target)
		require.NoError(t, err)
		defer file.Close()

		grid, err := spreadsheet.NewReader(spreadsheet.Config{}).ReadGrid(context.Background(), "segmento.xlsx", file)
		require.NoError(t, err)
		tickets := ingest.RowsToTickets(grid)
		require.Len(t, tickets, 1)
		assert.Equal(t, "ACME", tickets[0].Client)
	})

	t.Run("bad day", func(t *testing.T) {
		_, err := run(t, "analyze", path, "--from", "01/02/2024")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--from")
	})

	t.Run("sla out of range", func(t *testing.T) {
		_, err := run(t, "analyze", path, "--sla-hours", "5000")
		require.Error(t, err)
	})

	t.Run("unsupported file", func(t *testing.T) {
		other := filepath.Join(t.TempDir(), "export.txt")
		require.NoError(t, os.WriteFile(other, []byte(exportCSV), 0o600))
		_, err := run(t, "analyze", other)
		require.Error(t, err)
	})
}

func TestTickets(t *testing.T) {
	path := writeExport(t)

	out, err := run(t, "tickets", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "VPN caida")

	out, err = run(t, "tickets", path, "--format", "json")
	require.NoError(t, err)
	var decoded ticketsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Len(t, decoded.Tickets, 2)
	assert.Equal(t, 2, decoded.Stats.Parsed)
}

func TestToken(t *testing.T) {
	t.Run("mints a valid token", func(t *testing.T) {
		t.Setenv("AUTH_SECRET", "cli-test-secret")

		out, err := run(t, "token", "--subject", "wallboard", "--ttl", "5m")
		require.NoError(t, err)

		claims, err := auth.NewTokenManager("cli-test-secret", 0).ValidateToken(strings.TrimSpace(out))
		require.NoError(t, err)
		assert.Equal(t, "wallboard", claims.Subject)
	})

	t.Run("requires a secret", func(t *testing.T) {
		t.Setenv("AUTH_SECRET", "")
		_, err := run(t, "token", "--subject", "wallboard")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "AUTH_SECRET")
	})
}

func TestUnknownFormat(t *testing.T) {
	_, err := run(t, "tickets", writeExport(t), "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
