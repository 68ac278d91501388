package mocks

import (
	"context"
	"io"
	"time"

	"github.com/lorrc/service-desk-analytics/internal/core/domain"
	"github.com/lorrc/service-desk-analytics/internal/core/ingest"
	"github.com/lorrc/service-desk-analytics/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// MockSpreadsheetReader is a mock implementation of ports.SpreadsheetReader
type MockSpreadsheetReader struct {
	mock.Mock
}

var _ ports.SpreadsheetReader = (*MockSpreadsheetReader)(nil)

func NewMockSpreadsheetReader() *MockSpreadsheetReader {
	return &MockSpreadsheetReader{}
}

func (m *MockSpreadsheetReader) ReadGrid(ctx context.Context, name string, r io.Reader) ([][]any, error) {
	args := m.Called(ctx, name, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]any), args.Error(1)
}

// MockMetricsRecorder is a mock implementation of ports.MetricsRecorder
type MockMetricsRecorder struct {
	mock.Mock
}

var _ ports.MetricsRecorder = (*MockMetricsRecorder)(nil)

func NewMockMetricsRecorder() *MockMetricsRecorder {
	return &MockMetricsRecorder{}
}

func (m *MockMetricsRecorder) ObserveParse(stats domain.ParseStats, headerWarnings int) {
	m.Called(stats, headerWarnings)
}

func (m *MockMetricsRecorder) ObserveAnalysis(outcome string, duration time.Duration) {
	m.Called(outcome, duration)
}

// MockAnalyticsService is a mock implementation of ports.AnalyticsService
type MockAnalyticsService struct {
	mock.Mock
}

var _ ports.AnalyticsService = (*MockAnalyticsService)(nil)

func NewMockAnalyticsService() *MockAnalyticsService {
	return &MockAnalyticsService{}
}

func (m *MockAnalyticsService) Analyze(ctx context.Context, params ports.AnalyzeParams) (*domain.Overview, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Overview), args.Error(1)
}

func (m *MockAnalyticsService) ParseTickets(ctx context.Context, fileName string, source io.Reader) (*ingest.Result, error) {
	args := m.Called(ctx, fileName, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ingest.Result), args.Error(1)
}

func (m *MockAnalyticsService) SelectTickets(ctx context.Context, params ports.AnalyzeParams) ([]domain.Ticket, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

// MockTicketExporter is a mock implementation of ports.TicketExporter
type MockTicketExporter struct {
	mock.Mock
}

var _ ports.TicketExporter = (*MockTicketExporter)(nil)

func NewMockTicketExporter() *MockTicketExporter {
	return &MockTicketExporter{}
}

func (m *MockTicketExporter) WriteTickets(ctx context.Context, w io.Writer, tickets []domain.Ticket) error {
	args := m.Called(ctx, w, tickets)
	return args.Error(0)
}
