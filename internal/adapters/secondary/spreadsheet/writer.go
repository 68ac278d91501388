package spreadsheet

import (
	"context"
	"fmt"
	"io"

	"github.com/tealeg/xlsx"

	"github.com/lorrc/service-desk-analytics/internal/core/domain"
	"github.com/lorrc/service-desk-analytics/internal/core/ports"
)

// ExportSheetName is the sheet holding exported tickets.
const ExportSheetName = "Tickets"

const exportTitle = "Tickets filtrados"

// Writer implements ports.TicketExporter. The sheet repeats the help-desk
// layout (title row, blank row, header, data) so an export can be
// uploaded again with the default header row.
type Writer struct{}

var _ ports.TicketExporter = (*Writer)(nil)

// NewWriter creates an XLSX ticket writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteTickets writes tickets in order as an .xlsx workbook.
func (wr *Writer) WriteTickets(ctx context.Context, w io.Writer, tickets []domain.Ticket) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(ExportSheetName)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	sheet.AddRow().AddCell().SetString(exportTitle)
	sheet.AddRow()
	header := sheet.AddRow()
	for _, label := range domain.ColumnLabels {
		header.AddCell().SetString(label)
	}

	for i, t := range tickets {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		row := sheet.AddRow()
		row.AddCell().SetInt64(t.ID)
		for _, f := range domain.Fields {
			row.AddCell().SetString(t.Value(f))
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
