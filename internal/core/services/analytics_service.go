package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lorrc/service-desk-analytics/internal/core/analytics"
	"github.com/lorrc/service-desk-analytics/internal/core/domain"
	apperrors "github.com/lorrc/service-desk-analytics/internal/core/errors"
	"github.com/lorrc/service-desk-analytics/internal/core/filter"
	"github.com/lorrc/service-desk-analytics/internal/core/ingest"
	"github.com/lorrc/service-desk-analytics/internal/core/ports"
)

// Analysis outcomes reported to the metrics recorder.
const (
	OutcomeOK            = "ok"
	OutcomeInvalidInput  = "invalid_input"
	OutcomeUnreadable    = "unreadable"
	OutcomeInternalError = "error"
)

// AnalyticsConfig holds the tunables of the dashboard computation.
type AnalyticsConfig struct {
	Ingest ingest.Options

	DefaultSLAHours float64
	MinSLAHours     float64
	MaxSLAHours     float64

	TopClients   int
	TopAssignees int

	// Location is the calendar for timestamps without a zone. Nil means time.Local.
	Location *time.Location
}

// DefaultAnalyticsConfig mirrors the dashboard defaults.
func DefaultAnalyticsConfig() AnalyticsConfig {
	return AnalyticsConfig{
		Ingest:          ingest.DefaultOptions(),
		DefaultSLAHours: 24,
		MinSLAHours:     1,
		MaxSLAHours:     720,
		TopClients:      12,
		TopAssignees:    10,
	}
}

// AnalyticsService reads an export, filters it and computes the dashboard.
type AnalyticsService struct {
	reader  ports.SpreadsheetReader
	metrics ports.MetricsRecorder
	engine  *analytics.Engine
	parser  *ingest.Parser
	cfg     AnalyticsConfig
	logger  *slog.Logger
	now     func() time.Time
}

var _ ports.AnalyticsService = (*AnalyticsService)(nil)

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	reader ports.SpreadsheetReader,
	metrics ports.MetricsRecorder,
	engine *analytics.Engine,
	cfg AnalyticsConfig,
	logger *slog.Logger,
) *AnalyticsService {
	if engine == nil {
		engine = analytics.Default
	}
	return &AnalyticsService{
		reader:  reader,
		metrics: metrics,
		engine:  engine,
		parser:  ingest.NewParser(cfg.Ingest),
		cfg:     cfg,
		logger:  logger.With("component", "analytics_service"),
		now:     time.Now,
	}
}

// WithClock replaces the clock used when a request carries no evaluation time.
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

// ParseTickets reads and parses an export without computing aggregates.
func (s *AnalyticsService) ParseTickets(ctx context.Context, fileName string, source io.Reader) (*ingest.Result, error) {
	if source == nil {
		return nil, apperrors.ErrFileRequired
	}

	// 1. Read the raw grid (format problems surface here)
	grid, err := s.reader.ReadGrid(ctx, fileName, source)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", fileName, err)
	}

	// 2. Parse rows into tickets
	res := s.parser.Parse(grid)

	if len(res.HeaderWarnings) > 0 {
		s.logger.WarnContext(ctx, "export header does not match expected columns",
			"file", fileName,
			"mismatches", len(res.HeaderWarnings),
			"first_column", res.HeaderWarnings[0].Column,
			"first_expected", res.HeaderWarnings[0].Expected,
			"first_found", res.HeaderWarnings[0].Found,
		)
	}
	s.logger.InfoContext(ctx, "export parsed",
		"file", fileName,
		"data_rows", res.Stats.DataRows,
		"parsed", res.Stats.Parsed,
		"skipped_blank", res.Stats.SkippedBlank,
		"rejected_invalid_id", res.Stats.RejectedInvalidID,
	)
	if s.metrics != nil {
		s.metrics.ObserveParse(res.Stats, len(res.HeaderWarnings))
	}

	return res, nil
}

// Analyze handles the dashboard use case: read, parse, filter, aggregate.
func (s *AnalyticsService) Analyze(ctx context.Context, params ports.AnalyzeParams) (overview *domain.Overview, err error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveAnalysis(outcomeOf(err), time.Since(start))
		}
	}()

	// 1. Validate request parameters
	target, err := s.validate(&params)
	if err != nil {
		return nil, err
	}

	now := params.Now
	if now.IsZero() {
		now = s.now()
	}
	if params.Criteria.Location == nil {
		params.Criteria.Location = s.cfg.Location
	}

	// 2. Read and parse the export
	res, err := s.ParseTickets(ctx, params.FileName, params.Source)
	if err != nil {
		return nil, err
	}
	all := res.Tickets

	overview = &domain.Overview{
		GeneratedAt:    now,
		SLATargetHours: target,
		Parse:          res.Stats,
		HeaderWarnings: res.HeaderWarnings,
		Filters:        filter.Options(all),
	}
	if earliest, latest, ok := filter.CreationBounds(all, s.cfg.Location); ok {
		overview.CreationBounds = &domain.DateBounds{From: earliest, To: latest}
	}

	// 3. Narrow to the requested subset
	tickets := filter.Apply(all, params.Criteria)
	overview.TotalTickets = len(tickets)

	// 4. Compute the independent aggregates concurrently over the read-only slice
	if err := s.aggregate(ctx, tickets, target, now, overview); err != nil {
		return nil, err
	}

	// 5. Optional ticket list for the detail table
	if params.IncludeTickets {
		overview.Tickets = s.detailList(tickets, params.Segment)
	}

	s.logger.InfoContext(ctx, "overview computed",
		"file", params.FileName,
		"tickets", len(all),
		"filtered", len(tickets),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return overview, nil
}

// SelectTickets reads an export and returns the tickets of the detail table.
func (s *AnalyticsService) SelectTickets(ctx context.Context, params ports.AnalyzeParams) ([]domain.Ticket, error) {
	if _, err := s.validate(&params); err != nil {
		return nil, err
	}
	if params.Criteria.Location == nil {
		params.Criteria.Location = s.cfg.Location
	}

	res, err := s.ParseTickets(ctx, params.FileName, params.Source)
	if err != nil {
		return nil, err
	}

	tickets := s.detailList(filter.Apply(res.Tickets, params.Criteria), params.Segment)
	s.logger.InfoContext(ctx, "tickets selected",
		"file", params.FileName,
		"tickets", len(res.Tickets),
		"selected", len(tickets),
	)
	return tickets, nil
}

// detailList orders tickets newest first and keeps the segment.
func (s *AnalyticsService) detailList(tickets []domain.Ticket, segment filter.Segment) []domain.Ticket {
	return filter.ApplySegment(filter.SortByCreatedDesc(tickets, s.cfg.Location), segment)
}

func (s *AnalyticsService) aggregate(ctx context.Context, tickets []domain.Ticket, target float64, now time.Time, o *domain.Overview) error {
	e := s.engine
	g, ctx := errgroup.WithContext(ctx)

	run := func(fn func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}

	run(func() { o.ByClient = analytics.SortByCount(e.GroupBy(tickets, domain.FieldClient), s.cfg.TopClients) })
	run(func() { o.ByPriority = analytics.SortByCount(e.GroupBy(tickets, domain.FieldPriority), 0) })
	run(func() { o.ByStatus = analytics.SortByCount(e.GroupBy(tickets, domain.FieldStatus), 0) })
	run(func() { o.ByType = analytics.SortByCount(e.GroupBy(tickets, domain.FieldType), 0) })
	run(func() { o.ByAssignee = analytics.SortByCount(e.GroupBy(tickets, domain.FieldAssignee), s.cfg.TopAssignees) })
	run(func() { o.CreatedByMonth = e.ByMonth(tickets, domain.DateCreated) })
	run(func() { o.OpenByClient = e.OpenByClient(tickets) })
	run(func() {
		o.UrgentTickets = e.UrgentCount(tickets)
		o.DistinctClients = e.DistinctCount(tickets, domain.FieldClient)
	})
	run(func() {
		o.ClosedTickets = len(e.ClosedTickets(tickets))
		if h, ok := e.AverageTTRHours(tickets); ok {
			o.TTRHours = &h
		}
		if pct, ok := e.SLACompliancePct(tickets, target); ok {
			o.SLACompliancePct = &pct
		}
	})
	run(func() {
		o.OpenTickets = len(e.OpenTickets(tickets))
		if days, ok := e.AverageOpenAgeDays(tickets, now); ok {
			o.AvgOpenAgeDays = &days
		}
	})

	return g.Wait()
}

func (s *AnalyticsService) validate(params *ports.AnalyzeParams) (float64, error) {
	if params.Source == nil {
		return 0, apperrors.ErrFileRequired
	}

	v := apperrors.NewValidationErrors()

	target := params.SLATargetHours
	if target == 0 {
		target = s.cfg.DefaultSLAHours
	}
	if target < s.cfg.MinSLAHours || target > s.cfg.MaxSLAHours {
		v.AddCause("slaHours", apperrors.ErrInvalidSLATarget, fmt.Sprintf("Must be between %g and %g", s.cfg.MinSLAHours, s.cfg.MaxSLAHours))
	}

	c := params.Criteria
	if c.From != nil && c.To != nil && c.From.After(*c.To) {
		v.AddCause("from", apperrors.ErrInvalidDateRange, "Must not be after 'to'")
	}

	if math.IsNaN(target) {
		v.AddCause("slaHours", apperrors.ErrInvalidSLATarget, "Must be a number")
	}

	if params.Segment.Field != "" && !params.Segment.Field.IsValid() {
		v.AddCause("segmentField", apperrors.ErrInvalidField, "Unknown ticket field")
	}

	if v.HasErrors() {
		return 0, v
	}
	return target, nil
}

func outcomeOf(err error) string {
	var validationErrs *apperrors.ValidationErrors
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &validationErrs), errors.Is(err, apperrors.ErrFileRequired):
		return OutcomeInvalidInput
	case errors.Is(err, apperrors.ErrUnsupportedFormat),
		errors.Is(err, apperrors.ErrUnreadableSpreadsheet),
		errors.Is(err, apperrors.ErrEmptySpreadsheet),
		errors.Is(err, apperrors.ErrSheetNotFound):
		return OutcomeUnreadable
	default:
		return OutcomeInternalError
	}
}
