package spreadsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tealeg/xlsx"

	apperrors "github.com/lorrc/service-desk-analytics/internal/core/errors"
)

func (r *Reader) readXLSX(src io.Reader) ([][]any, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnreadableSpreadsheet, err)
	}

	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx: %v", apperrors.ErrUnreadableSpreadsheet, err)
	}

	sheet, err := r.pickSheet(file)
	if err != nil {
		return nil, err
	}

	grid := make([][]any, len(sheet.Rows))
	for i, row := range sheet.Rows {
		if row == nil {
			grid[i] = []any{}
			continue
		}
		cells := make([]any, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = r.cellValue(cell, file.Date1904)
		}
		grid[i] = cells
	}

	return grid, nil
}

func (r *Reader) pickSheet(file *xlsx.File) (*xlsx.Sheet, error) {
	if len(file.Sheets) == 0 {
		return nil, apperrors.ErrEmptySpreadsheet
	}
	if r.cfg.SheetName == "" {
		return file.Sheets[0], nil
	}
	if sheet, ok := file.Sheet[r.cfg.SheetName]; ok {
		return sheet, nil
	}
	return nil, fmt.Errorf("%w: %q", apperrors.ErrSheetNotFound, r.cfg.SheetName)
}

// cellValue maps a cell to string, float64 or time.Time.
func (r *Reader) cellValue(cell *xlsx.Cell, date1904 bool) any {
	if cell == nil {
		return nil
	}

	raw := cell.Value
	switch cell.Type() {
	case xlsx.CellTypeNumeric:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return raw
		}
		if isDateFormat(cell.NumFmt) {
			return r.excelTime(f, date1904)
		}
		return f
	case xlsx.CellTypeBool:
		return raw == "1"
	default:
		return raw
	}
}

// excelTime converts an Excel serial date to wall-clock time in the
// configured location. Sub-second noise from the float is rounded away.
func (r *Reader) excelTime(serial float64, date1904 bool) time.Time {
	t := xlsx.TimeFromExcelTime(serial, date1904).Round(time.Second)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, r.cfg.Location)
}

// isDateFormat reports whether an Excel number format renders a date or time.
func isDateFormat(format string) bool {
	f := strings.ToLower(format)
	if f == "" || f == "general" {
		return false
	}

	var b strings.Builder
	inQuote, inBracket, escaped := false, false, false
	for _, c := range f {
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '[':
			inBracket = true
		case c == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(c)
		}
	}

	return strings.ContainsAny(b.String(), "ydmhs")
}
