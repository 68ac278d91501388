package ingest

import (
	"errors"
	"strings"

	"github.com/lorrc/service-desk-analytics/internal/core/domain"
	apperrors "github.com/lorrc/service-desk-analytics/internal/core/errors"
)

// Options controls how a grid is walked.
type Options struct {
	// HeaderRowIndex is the 0-based row holding the column labels.
	// Data starts on the row after it.
	HeaderRowIndex int
	// ValidateHeaders compares the header row against domain.ColumnLabels
	// and reports mismatches as warnings.
	ValidateHeaders bool
}

// DefaultOptions matches the standard help-desk export.
func DefaultOptions() Options {
	return Options{
		HeaderRowIndex:  DefaultHeaderRowIndex,
		ValidateHeaders: true,
	}
}

// Result is the outcome of parsing one grid.
type Result struct {
	Tickets        []domain.Ticket
	Stats          domain.ParseStats
	HeaderWarnings []domain.HeaderWarning
}

// Parser walks a grid with fixed options. The zero value parses with a
// header row at index 0; use NewParser(DefaultOptions()) for the export.
type Parser struct {
	opts Options
}

// NewParser creates a parser. A negative header index means "no header rows".
func NewParser(opts Options) *Parser {
	if opts.HeaderRowIndex < -1 {
		opts.HeaderRowIndex = -1
	}
	return &Parser{opts: opts}
}

// Parse converts every data row of grid. It never fails: rows with a blank
// ID are skipped, rows with a non-numeric ID are rejected, and both are
// only counted in Stats.
func (p *Parser) Parse(grid [][]any) *Result {
	res := &Result{Tickets: make([]domain.Ticket, 0)}

	if p.opts.ValidateHeaders && p.opts.HeaderRowIndex >= 0 && p.opts.HeaderRowIndex < len(grid) {
		res.HeaderWarnings = CheckHeader(grid[p.opts.HeaderRowIndex])
	}

	for i := p.opts.HeaderRowIndex + 1; i < len(grid); i++ {
		row := grid[i]
		if row == nil {
			continue
		}
		res.Stats.DataRows++

		ticket, err := ParseRow(row)
		switch {
		case errors.Is(err, apperrors.ErrInvalidTicketID):
			res.Stats.RejectedInvalidID++
		case ticket == nil:
			res.Stats.SkippedBlank++
		default:
			res.Tickets = append(res.Tickets, *ticket)
			res.Stats.Parsed++
		}
	}

	return res
}

// CheckHeader compares a header row with the expected export labels.
// Comparison ignores surrounding space and letter case.
func CheckHeader(header []any) []domain.HeaderWarning {
	var warnings []domain.HeaderWarning
	for col, expected := range domain.ColumnLabels {
		found := cellText(header, col)
		if !strings.EqualFold(found, expected) {
			warnings = append(warnings, domain.HeaderWarning{
				Column:   col,
				Expected: expected,
				Found:    found,
			})
		}
	}
	return warnings
}
