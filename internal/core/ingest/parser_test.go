package ingest_test

import (
	"testing"
	"time"

	"github.com/lorrc/service-desk-analytics/internal/core/domain"
	apperrors "github.com/lorrc/service-desk-analytics/internal/core/errors"
	"github.com/lorrc/service-desk-analytics/internal/core/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headerRows() [][]any {
	return [][]any{
		{"Bandeja de equipo"},
		{"Exportado el", "2024-05-01"},
		{"ID", "Cliente", "Título", "Tipo", "Autor", "Asignado", "Prioridad", "Estado", "Creación", "Modificación"},
	}
}

func TestParseRow(t *testing.T) {
	tests := []struct {
		name    string
		row     []any
		want    *domain.Ticket
		wantErr error
	}{
		{
			name: "full row is trimmed",
			row:  []any{"12", " ACME ", "VPN", "Incidente", "ana", "luis", "Alta", " Nuevo ", "2024-01-01T09:00", "2024-01-01T10:00"},
			want: &domain.Ticket{
				ID: 12, Client: "ACME", Title: "VPN", Type: "Incidente", Author: "ana", Assignee: "luis",
				Priority: "Alta", Status: "Nuevo", CreatedAt: "2024-01-01T09:00", ModifiedAt: "2024-01-01T10:00",
			},
		},
		{
			name: "numeric id cell",
			row:  []any{float64(42), "ACME"},
			want: &domain.Ticket{ID: 42, Client: "ACME"},
		},
		{
			name: "short row pads with empty strings",
			row:  []any{int64(5)},
			want: &domain.Ticket{ID: 5},
		},
		{
			name: "nil cells become empty",
			row:  []any{"9", nil, nil, nil, nil, nil, nil, nil, nil, nil},
			want: &domain.Ticket{ID: 9},
		},
		{
			name: "non string cells are coerced",
			row:  []any{"1", 123, 4.5, true},
			want: &domain.Ticket{ID: 1, Client: "123", Title: "4.5", Type: "true"},
		},
		{
			name: "time cell becomes RFC3339",
			row:  []any{"1", "", "", "", "", "", "", "", time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)},
			want: &domain.Ticket{ID: 1, CreatedAt: "2024-02-03T04:05:06Z"},
		},
		{
			name: "exponent id",
			row:  []any{"1e3"},
			want: &domain.Ticket{ID: 1000},
		},
		{name: "empty row", row: []any{}},
		{name: "nil id", row: []any{nil, "ACME"}},
		{name: "empty id", row: []any{"", "ACME"}},
		{name: "whitespace id", row: []any{"   ", "ACME"}},
		{name: "text id", row: []any{"abc", "ACME"}, wantErr: apperrors.ErrInvalidTicketID},
		{name: "fractional id", row: []any{"12.5"}, wantErr: apperrors.ErrInvalidTicketID},
		{name: "NaN id", row: []any{"NaN"}, wantErr: apperrors.ErrInvalidTicketID},
		{name: "bool id", row: []any{true}, wantErr: apperrors.ErrInvalidTicketID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ingest.ParseRow(tt.row)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRowsToTickets(t *testing.T) {
	grid := append(headerRows(),
		[]any{"1", "ACME", "a"},
		[]any{"", "ignored"},
		nil,
		[]any{"x", "BAD"},
		[]any{"2", "Globex", "b"},
		[]any{"1", "ACME", "duplicate id kept"},
		[]any{},
	)

	tickets := ingest.RowsToTickets(grid)

	require.Len(t, tickets, 3)
	assert.Equal(t, int64(1), tickets[0].ID)
	assert.Equal(t, int64(2), tickets[1].ID)
	assert.Equal(t, int64(1), tickets[2].ID)
	assert.Equal(t, "duplicate id kept", tickets[2].Title)
}

func TestRowsToTickets_EmptyAndShortGrids(t *testing.T) {
	assert.Empty(t, ingest.RowsToTickets(nil))
	assert.Empty(t, ingest.RowsToTickets(headerRows()))
	// Data before the header offset is never read.
	assert.Empty(t, ingest.RowsToTickets([][]any{{"1"}, {"2"}, {"3"}}))
}

func TestRowsToTickets_Properties(t *testing.T) {
	grid := append(headerRows(),
		[]any{"10", "a"},
		[]any{nil, "blank id with data", "x", "y", "z"},
		[]any{"  ", "whitespace id"},
		[]any{"11.0", "b"},
		[]any{"oops", "c"},
	)

	tickets := ingest.RowsToTickets(grid)

	assert.LessOrEqual(t, len(tickets), len(grid)-(ingest.DefaultHeaderRowIndex+1))
	for _, ticket := range tickets {
		assert.NotEqual(t, "blank id with data", ticket.Client)
		assert.NotEqual(t, "whitespace id", ticket.Client)
	}
	require.Len(t, tickets, 2)
	assert.Equal(t, int64(11), tickets[1].ID)
}

func TestRowsToTickets_RoundTrip(t *testing.T) {
	original := []domain.Ticket{
		{ID: 1, Client: "ACME", Title: "VPN", Type: "Incidente", Author: "ana", Assignee: "luis", Priority: "Alta", Status: "Resuelto", CreatedAt: "2024-01-01T09:00", ModifiedAt: "2024-01-02T09:00"},
		{ID: 2, Client: "Globex", Title: "Printer", Type: "Consulta", Author: "bea", Assignee: "", Priority: "Baja", Status: "Nuevo", CreatedAt: "2024-02-10 08:30", ModifiedAt: ""},
		{ID: 2, Client: "", Title: "", Type: "", Author: "", Assignee: "", Priority: "", Status: "", CreatedAt: "", ModifiedAt: ""},
	}

	grid := headerRows()
	for _, ticket := range original {
		grid = append(grid, ticket.Row())
	}

	assert.Equal(t, original, ingest.RowsToTickets(grid))
}

func TestParser_Stats(t *testing.T) {
	grid := append(headerRows(),
		[]any{"1"},
		[]any{""},
		[]any{"bad"},
		nil,
		[]any{"2"},
	)

	res := ingest.NewParser(ingest.DefaultOptions()).Parse(grid)

	assert.Equal(t, domain.ParseStats{DataRows: 4, Parsed: 2, SkippedBlank: 1, RejectedInvalidID: 1}, res.Stats)
	assert.Empty(t, res.HeaderWarnings)
}

func TestParser_CustomHeaderRow(t *testing.T) {
	grid := [][]any{
		{"ID", "Cliente"},
		{"1", "ACME"},
	}

	res := ingest.NewParser(ingest.Options{HeaderRowIndex: 0}).Parse(grid)
	require.Len(t, res.Tickets, 1)
	assert.Equal(t, "ACME", res.Tickets[0].Client)

	res = ingest.NewParser(ingest.Options{HeaderRowIndex: -1}).Parse([][]any{{"7"}})
	require.Len(t, res.Tickets, 1)
	assert.Equal(t, int64(7), res.Tickets[0].ID)
}

func TestCheckHeader(t *testing.T) {
	t.Run("matching labels ignore case and space", func(t *testing.T) {
		header := []any{" id ", "CLIENTE", "título", "Tipo", "Autor", "Asignado", "Prioridad", "Estado", "Creación", "Modificación"}
		assert.Empty(t, ingest.CheckHeader(header))
	})

	t.Run("mismatches are reported per column", func(t *testing.T) {
		header := []any{"ID", "Customer", "Título", "Tipo", "Autor", "Asignado", "Prioridad", "Estado", "Creación"}
		warnings := ingest.CheckHeader(header)

		require.Len(t, warnings, 2)
		assert.Equal(t, domain.HeaderWarning{Column: domain.ColumnClient, Expected: "Cliente", Found: "Customer"}, warnings[0])
		assert.Equal(t, domain.HeaderWarning{Column: domain.ColumnModifiedAt, Expected: "Modificación", Found: ""}, warnings[1])
	})

	t.Run("parser surfaces warnings without failing", func(t *testing.T) {
		grid := [][]any{{}, {}, {"Numero"}, {"1"}}
		res := ingest.NewParser(ingest.DefaultOptions()).Parse(grid)

		assert.Len(t, res.Tickets, 1)
		assert.Len(t, res.HeaderWarnings, domain.ColumnCount)
	})
}
