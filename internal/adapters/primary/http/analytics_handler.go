package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/service-desk-analytics/internal/adapters/primary/validation"
	"github.com/lorrc/service-desk-analytics/internal/core/domain"
	apperrors "github.com/lorrc/service-desk-analytics/internal/core/errors"
	"github.com/lorrc/service-desk-analytics/internal/core/filter"
	"github.com/lorrc/service-desk-analytics/internal/core/ports"
)

const (
	// UploadField is the multipart form field carrying the export.
	UploadField = "file"

	// DefaultMaxUploadBytes caps an upload when no limit is configured.
	DefaultMaxUploadBytes int64 = 32 << 20

	multipartMemory  int64 = 8 << 20
	multipartOverage int64 = 1 << 20
)

const maxFilterValue = 256

// exportContentType is the media type of the ticket download.
const exportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AnalyticsHandlerConfig holds upload and calendar settings for the handler.
type AnalyticsHandlerConfig struct {
	MaxUploadBytes int64
	// Location is the calendar for from/to query dates. Nil means time.Local.
	Location *time.Location
	// Exporter writes the ticket download. Nil disables POST /export.
	Exporter ports.TicketExporter
}

// AnalyticsHandler handles HTTP requests for export analysis
type AnalyticsHandler struct {
	service      ports.AnalyticsService
	cfg          AnalyticsHandlerConfig
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(
	service ports.AnalyticsService,
	cfg AnalyticsHandlerConfig,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *AnalyticsHandler {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &AnalyticsHandler{
		service:      service,
		cfg:          cfg,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "analytics"),
	}
}

// Router sets up a new chi Router for all analytics routes.
func (h *AnalyticsHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all analytics endpoints.
func (h *AnalyticsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/fields", h.HandleListFields)
	r.Post("/overview", h.HandleOverview)
	r.Post("/tickets", h.HandleListTickets)
	if h.cfg.Exporter != nil {
		r.Post("/export", h.HandleExport)
	}
}

// --- Response DTOs ---

// FieldDTO describes a groupable ticket field.
type FieldDTO struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// TicketListResponse is the body of the tickets endpoint.
type TicketListResponse struct {
	Data           []domain.Ticket        `json:"data"`
	Count          int                    `json:"count"`
	Stats          domain.ParseStats      `json:"stats"`
	HeaderWarnings []domain.HeaderWarning `json:"headerWarnings,omitempty"`
}

// --- Handlers ---

// HandleListFields lists the fields accepted by segmentField.
func (h *AnalyticsHandler) HandleListFields(w http.ResponseWriter, r *http.Request) {
	fields := make([]FieldDTO, 0, len(domain.Fields))
	for _, f := range domain.Fields {
		fields = append(fields, FieldDTO{Name: string(f), Label: f.Label()})
	}
	WriteList(w, fields)
}

// HandleOverview computes the dashboard overview of an uploaded export.
func (h *AnalyticsHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	params, err := h.parseAnalyzeParams(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	file, name, err := h.openUpload(w, r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	defer file.Close()

	params.FileName = name
	params.Source = file

	overview, err := h.service.Analyze(r.Context(), params)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	h.logger.InfoContext(r.Context(), "overview served",
		"file", name,
		"tickets", overview.TotalTickets,
	)

	WriteSuccess(w, overview)
}

// HandleListTickets returns the parsed tickets of an uploaded export in file order.
func (h *AnalyticsHandler) HandleListTickets(w http.ResponseWriter, r *http.Request) {
	file, name, err := h.openUpload(w, r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	defer file.Close()

	res, err := h.service.ParseTickets(r.Context(), name, file)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, TicketListResponse{
		Data:           res.Tickets,
		Count:          len(res.Tickets),
		Stats:          res.Stats,
		HeaderWarnings: res.HeaderWarnings,
	})
}

// HandleExport downloads the detail-table tickets of an uploaded export as
// tickets-filtrados-YYYY-MM-DD.xlsx.
func (h *AnalyticsHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	params, err := h.parseAnalyzeParams(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	file, name, err := h.openUpload(w, r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	defer file.Close()

	params.FileName = name
	params.Source = file

	tickets, err := h.service.SelectTickets(r.Context(), params)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	var buf bytes.Buffer
	if err := h.cfg.Exporter.WriteTickets(r.Context(), &buf, tickets); HandleError(w, r, err, h.errorHandler) {
		return
	}

	day := params.Now
	if day.IsZero() {
		day = time.Now()
	}
	fileName := ExportFileName(day.In(h.cfg.Location))

	h.logger.InfoContext(r.Context(), "tickets exported",
		"file", name,
		"export", fileName,
		"tickets", len(tickets),
	)

	w.Header().Set("Content-Type", exportContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// ExportFileName names a ticket download made on day.
func ExportFileName(day time.Time) string {
	return "tickets-filtrados-" + day.Format(validation.DateLayout) + ".xlsx"
}

// --- Helper Methods ---

// parseAnalyzeParams reads the filter, segment and SLA query parameters.
func (h *AnalyticsHandler) parseAnalyzeParams(r *http.Request) (ports.AnalyzeParams, error) {
	v := validation.NewValidator()
	q := validation.NewQuery(r, v)
	loc := h.cfg.Location

	criteria := filter.Criteria{
		From:     q.Date("from", loc, apperrors.ErrInvalidDateRange),
		To:       q.Date("to", loc, apperrors.ErrInvalidDateRange),
		Client:   q.String("client"),
		Author:   q.String("author"),
		Priority: q.String("priority"),
		Status:   q.String("status"),
		Assignee: q.String("assignee"),
		Location: loc,
	}

	v.MaxLength("client", criteria.Client, maxFilterValue).
		MaxLength("author", criteria.Author, maxFilterValue).
		MaxLength("priority", criteria.Priority, maxFilterValue).
		MaxLength("status", criteria.Status, maxFilterValue).
		MaxLength("assignee", criteria.Assignee, maxFilterValue)

	segment := filter.Segment{
		Field: domain.Field(q.String("segmentField")),
		Value: q.String("segmentValue"),
	}
	v.CustomCause("segmentField", segment.Field == "" || segment.Field.IsValid(),
		apperrors.ErrInvalidField, "Unknown ticket field")
	v.RequiredIf("segmentField", string(segment.Field), segment.Value != "",
		"Required when segmentValue is set")

	params := ports.AnalyzeParams{
		Criteria:       criteria,
		Segment:        segment,
		SLATargetHours: q.Float("slaHours", 0, apperrors.ErrInvalidSLATarget),
		Now:            q.Time("now"),
		IncludeTickets: q.Bool("includeTickets", false),
	}

	return params, v.Err()
}

// openUpload enforces the size limit and returns the uploaded export.
func (h *AnalyticsHandler) openUpload(w http.ResponseWriter, r *http.Request) (multipart.File, string, error) {
	limit := h.cfg.MaxUploadBytes
	if r.ContentLength > limit+multipartOverage {
		return nil, "", apperrors.NewPayloadTooLargeError(limit)
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverage)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return nil, "", apperrors.NewPayloadTooLargeError(limit)
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			return nil, "", apperrors.ErrFileRequired
		default:
			return nil, "", apperrors.NewBadRequestError(err, "Malformed multipart body")
		}
	}

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", apperrors.ErrFileRequired
		}
		return nil, "", apperrors.NewBadRequestError(err, "Could not read uploaded file")
	}

	if header.Size > limit {
		file.Close()
		return nil, "", apperrors.NewPayloadTooLargeError(limit)
	}

	return cleanupFile{File: file, form: r.MultipartForm}, header.Filename, nil
}

// cleanupFile removes the multipart temp files when the upload is closed.
type cleanupFile struct {
	multipart.File
	form *multipart.Form
}

func (f cleanupFile) Close() error {
	err := f.File.Close()
	if f.form != nil {
		if rmErr := f.form.RemoveAll(); err == nil {
			err = rmErr
		}
	}
	return err
}

var _ multipart.File = cleanupFile{}
