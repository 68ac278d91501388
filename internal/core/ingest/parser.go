// Package ingest turns the raw cell grid of a ticket export into Ticket records.
package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/lorrc/service-desk-analytics/internal/core/domain"
	apperrors "github.com/lorrc/service-desk-analytics/internal/core/errors"
)

// DefaultHeaderRowIndex is the 0-based row holding the column headers in the
// standard export. The title and metadata rows above it are not data.
const DefaultHeaderRowIndex = 2

// ParseRow converts one row of untyped cells into a Ticket.
//
// A row whose ID cell is missing, nil or blank yields (nil, nil): blank
// trailing rows are expected and are not an error. An ID that does not
// coerce to an integer yields ErrInvalidTicketID.
func ParseRow(row []any) (*domain.Ticket, error) {
	idCell := cellText(row, domain.ColumnID)
	if idCell == "" {
		return nil, nil
	}

	id, err := parseID(idCell)
	if err != nil {
		return nil, err
	}

	return &domain.Ticket{
		ID:         id,
		Client:     cellText(row, domain.ColumnClient),
		Title:      cellText(row, domain.ColumnTitle),
		Type:       cellText(row, domain.ColumnType),
		Author:     cellText(row, domain.ColumnAuthor),
		Assignee:   cellText(row, domain.ColumnAssignee),
		Priority:   cellText(row, domain.ColumnPriority),
		Status:     cellText(row, domain.ColumnStatus),
		CreatedAt:  cellText(row, domain.ColumnCreatedAt),
		ModifiedAt: cellText(row, domain.ColumnModifiedAt),
	}, nil
}

// RowsToTickets parses every data row of grid using the default header
// position. Malformed rows are dropped; it never fails.
func RowsToTickets(grid [][]any) []domain.Ticket {
	return NewParser(DefaultOptions()).Parse(grid).Tickets
}

// parseID accepts integral numbers only, in any notation strconv understands.
func parseID(text string) (int64, error) {
	if id, err := strconv.ParseInt(text, 10, 64); err == nil {
		return id, nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidTicketID, text)
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidTicketID, text)
	}
	return int64(f), nil
}

// cellText returns the trimmed string form of row[i], or "" when absent.
func cellText(row []any, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(CellString(row[i]))
}

// CellString coerces a single untyped cell to text.
func CellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case int:
		return strconv.Itoa(c)
	case int32:
		return strconv.FormatInt(int64(c), 10)
	case int64:
		return strconv.FormatInt(c, 10)
	case uint:
		return strconv.FormatUint(uint64(c), 10)
	case uint64:
		return strconv.FormatUint(c, 10)
	case float32:
		return strconv.FormatFloat(float64(c), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(c)
	case time.Time:
		if c.IsZero() {
			return ""
		}
		return c.Format(time.RFC3339)
	case fmt.Stringer:
		return c.String()
	default:
		return fmt.Sprint(c)
	}
}
