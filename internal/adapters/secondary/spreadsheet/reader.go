// Package spreadsheet turns uploaded help-desk exports into raw cell grids.
package spreadsheet

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/lorrc/service-desk-analytics/internal/core/errors"
	"github.com/lorrc/service-desk-analytics/internal/core/ports"
)

// Supported file extensions.
const (
	ExtXLSX = ".xlsx"
	ExtCSV  = ".csv"
)

// Config controls sheet selection and CSV dialect.
type Config struct {
	// SheetName selects an XLSX sheet by name. Empty means the first sheet.
	SheetName string
	// CSVDelimiter is the field separator for CSV files. Zero means ','.
	CSVDelimiter rune
	// Location is the calendar for XLSX date cells, which carry no zone.
	// Nil means time.Local.
	Location *time.Location
}

// Reader implements ports.SpreadsheetReader for XLSX and CSV exports.
type Reader struct {
	cfg Config
}

var _ ports.SpreadsheetReader = (*Reader)(nil)

// NewReader creates a reader. An invalid delimiter falls back to ','.
func NewReader(cfg Config) *Reader {
	if cfg.CSVDelimiter == 0 || cfg.CSVDelimiter == '"' || cfg.CSVDelimiter == '\r' ||
		cfg.CSVDelimiter == '\n' || cfg.CSVDelimiter == utf8.RuneError {
		cfg.CSVDelimiter = ','
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Reader{cfg: cfg}
}

// ReadGrid dispatches on the extension of name.
func (r *Reader) ReadGrid(ctx context.Context, name string, src io.Reader) ([][]any, error) {
	if src == nil {
		return nil, apperrors.ErrFileRequired
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ExtXLSX:
		return r.readXLSX(src)
	case ExtCSV:
		return r.readCSV(ctx, src)
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFormat, ext)
	}
}

// Supported reports whether name has an extension the reader understands.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ExtXLSX, ExtCSV:
		return true
	}
	return false
}
