package spreadsheet

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/lorrc/service-desk-analytics/internal/core/domain"
	apperrors "github.com/lorrc/service-desk-analytics/internal/core/errors"
	"github.com/lorrc/service-desk-analytics/internal/core/ingest"
)

func TestReadGrid_Dispatch(t *testing.T) {
	r := NewReader(Config{})
	ctx := context.Background()

	_, err := r.ReadGrid(ctx, "report.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)

	_, err = r.ReadGrid(ctx, "noext", strings.NewReader("x"))
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)

	_, err = r.ReadGrid(ctx, "export.csv", nil)
	assert.ErrorIs(t, err, apperrors.ErrFileRequired)

	grid, err := r.ReadGrid(ctx, "EXPORT.CSV", strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"a", "b"}}, grid)

	assert.True(t, Supported("x.XLSX"))
	assert.False(t, Supported("x.xls"))
}

func TestReadGrid_CSV(t *testing.T) {
	ctx := context.Background()

	t.Run("bom, quotes and ragged rows", func(t *testing.T) {
		input := "\xEF\xBB\xBFTitle\n" +
			",,\n" +
			"ID,Cliente,Título\n" +
			"1,\"ACME, Inc\",VPN \"down\"\n" +
			"2,Globex\n"

		grid, err := NewReader(Config{}).ReadGrid(ctx, "export.csv", strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, grid, 5)
		assert.Equal(t, []any{"Title"}, grid[0])
		assert.Equal(t, []any{"1", "ACME, Inc", "VPN \"down\""}, grid[3])
		assert.Equal(t, []any{"2", "Globex"}, grid[4])
	})

	t.Run("custom delimiter", func(t *testing.T) {
		grid, err := NewReader(Config{CSVDelimiter: ';'}).ReadGrid(ctx, "export.csv", strings.NewReader("1;ACME;VPN\n"))

		require.NoError(t, err)
		assert.Equal(t, [][]any{{"1", "ACME", "VPN"}}, grid)
	})

	t.Run("invalid delimiter falls back to comma", func(t *testing.T) {
		grid, err := NewReader(Config{CSVDelimiter: '\n'}).ReadGrid(ctx, "export.csv", strings.NewReader("1,ACME\n"))

		require.NoError(t, err)
		assert.Equal(t, [][]any{{"1", "ACME"}}, grid)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := NewReader(Config{}).ReadGrid(cancelled, "export.csv", strings.NewReader("1\n"))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("parses into tickets", func(t *testing.T) {
		input := "Export\n,\n" +
			"ID,Cliente,Título,Tipo,Autor,Asignado,Prioridad,Estado,Creación,Modificación\n" +
			"7,ACME,VPN,Incidente,ana,luis,Alta,Cerrado,2024-01-01T00:00,2024-01-02T00:00\n"

		grid, err := NewReader(Config{}).ReadGrid(ctx, "export.csv", strings.NewReader(input))
		require.NoError(t, err)

		res := ingest.NewParser(ingest.DefaultOptions()).Parse(grid)
		assert.Empty(t, res.HeaderWarnings)
		require.Len(t, res.Tickets, 1)
		assert.Equal(t, int64(7), res.Tickets[0].ID)
		assert.Equal(t, "Cerrado", res.Tickets[0].Status)
	})
}

func buildWorkbook(t *testing.T, sheetName string, created time.Time) []byte {
	t.Helper()

	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	require.NoError(t, err)

	sheet.AddRow().AddCell().SetString("Bandeja")
	sheet.AddRow()
	header := sheet.AddRow()
	for _, label := range domain.ColumnLabels {
		header.AddCell().SetString(label)
	}

	row := sheet.AddRow()
	row.AddCell().SetFloat(42)
	for _, v := range []string{"ACME", "VPN", "Incidente", "ana", "luis", "Alta", "Resuelto"} {
		row.AddCell().SetString(v)
	}
	row.AddCell().SetDateTime(created)
	row.AddCell().SetString("")

	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))
	return buf.Bytes()
}

func TestReadGrid_XLSX(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	data := buildWorkbook(t, "Tickets", created)

	t.Run("first sheet", func(t *testing.T) {
		r := NewReader(Config{Location: time.UTC})

		grid, err := r.ReadGrid(ctx, "export.xlsx", bytes.NewReader(data))
		require.NoError(t, err)

		res := ingest.NewParser(ingest.DefaultOptions()).Parse(grid)
		assert.Empty(t, res.HeaderWarnings)
		require.Len(t, res.Tickets, 1)

		ticket := res.Tickets[0]
		assert.Equal(t, int64(42), ticket.ID)
		assert.Equal(t, "ACME", ticket.Client)
		assert.Equal(t, "Resuelto", ticket.Status)

		at, ok := ticket.Created(time.UTC)
		require.True(t, ok)
		assert.True(t, created.Equal(at), "got %s", at)
	})

	t.Run("named sheet", func(t *testing.T) {
		r := NewReader(Config{SheetName: "Tickets"})
		grid, err := r.ReadGrid(ctx, "export.xlsx", bytes.NewReader(data))
		require.NoError(t, err)
		assert.NotEmpty(t, grid)
	})

	t.Run("missing sheet", func(t *testing.T) {
		r := NewReader(Config{SheetName: "Other"})
		_, err := r.ReadGrid(ctx, "export.xlsx", bytes.NewReader(data))
		assert.ErrorIs(t, err, apperrors.ErrSheetNotFound)
	})

	t.Run("not a workbook", func(t *testing.T) {
		_, err := NewReader(Config{}).ReadGrid(ctx, "export.xlsx", strings.NewReader("plain text"))
		assert.ErrorIs(t, err, apperrors.ErrUnreadableSpreadsheet)
	})
}

func TestIsDateFormat(t *testing.T) {
	tests := []struct {
		format string
		want   bool
	}{
		{"", false},
		{"General", false},
		{"0.00", false},
		{"#,##0", false},
		{"0.00E+00", false},
		{"@", false},
		{`0.0" days"`, false},
		{"[Red]0.00", false},
		{"mm-dd-yy", true},
		{"m/d/yy h:mm", true},
		{"dd/mm/yyyy", true},
		{"[$-409]d-mmm-yy;@", true},
		{"h:mm:ss", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.Equal(t, tt.want, isDateFormat(tt.format))
		})
	}
}
