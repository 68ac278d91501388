package spreadsheet

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	apperrors "github.com/lorrc/service-desk-analytics/internal/core/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func (r *Reader) readCSV(ctx context.Context, src io.Reader) ([][]any, error) {
	br := bufio.NewReader(src)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.Comma = r.cfg.CSVDelimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	grid := make([][]any, 0, 64)
	for {
		if len(grid)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: csv: %v", apperrors.ErrUnreadableSpreadsheet, err)
		}

		row := make([]any, len(record))
		for i, field := range record {
			row[i] = field
		}
		grid = append(grid, row)
	}

	return grid, nil
}
