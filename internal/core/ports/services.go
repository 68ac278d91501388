package ports

import (
	"context"
	"io"
	"time"

	"github.com/lorrc/service-desk-analytics/internal/core/domain"
	"github.com/lorrc/service-desk-analytics/internal/core/filter"
	"github.com/lorrc/service-desk-analytics/internal/core/ingest"
)

// SpreadsheetReader defines the port for turning an uploaded export into a
// raw cell grid. name is the original file name; its extension picks the format.
type SpreadsheetReader interface {
	ReadGrid(ctx context.Context, name string, r io.Reader) ([][]any, error)
}

// MetricsRecorder defines the port for ingestion and analysis telemetry.
type MetricsRecorder interface {
	ObserveParse(stats domain.ParseStats, headerWarnings int)
	ObserveAnalysis(outcome string, duration time.Duration)
}

// TicketExporter defines the port for writing a ticket list as a
// downloadable spreadsheet.
type TicketExporter interface {
	WriteTickets(ctx context.Context, w io.Writer, tickets []domain.Ticket) error
}

// AnalyzeParams defines the input for building a dashboard overview.
type AnalyzeParams struct {
	FileName string
	Source   io.Reader

	Criteria       filter.Criteria
	Segment        filter.Segment
	SLATargetHours float64
	// Now is the evaluation time for backlog age. Zero means the service clock.
	Now            time.Time
	IncludeTickets bool
}

// AnalyticsService defines the core operations behind the dashboard.
type AnalyticsService interface {
	Analyze(ctx context.Context, params AnalyzeParams) (*domain.Overview, error)
	ParseTickets(ctx context.Context, fileName string, source io.Reader) (*ingest.Result, error)
	// SelectTickets returns the detail-table tickets: filtered, newest
	// first, narrowed to the segment.
	SelectTickets(ctx context.Context, params AnalyzeParams) ([]domain.Ticket, error)
}
