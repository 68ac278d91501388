// Package app wires configuration into the core analytics service.
package app

import (
	"fmt"
	"log/slog"

	"github.com/lorrc/service-desk-analytics/internal/adapters/secondary/spreadsheet"
	"github.com/lorrc/service-desk-analytics/internal/config"
	"github.com/lorrc/service-desk-analytics/internal/core/analytics"
	"github.com/lorrc/service-desk-analytics/internal/core/ingest"
	"github.com/lorrc/service-desk-analytics/internal/core/ports"
	"github.com/lorrc/service-desk-analytics/internal/core/services"
)

// NewAnalyticsService builds the spreadsheet reader, the engine and the
// service from cfg. metrics may be nil.
func NewAnalyticsService(cfg *config.Config, metrics ports.MetricsRecorder, logger *slog.Logger) (*services.AnalyticsService, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("resolve timezone: %w", err)
	}

	reader := spreadsheet.NewReader(spreadsheet.Config{
		SheetName:    cfg.Ingest.SheetName,
		CSVDelimiter: cfg.Ingest.CSVDelimiter,
		Location:     loc,
	})

	var classifierOpts []analytics.ClassifierOption
	if cfg.Analytics.StatusNormalize {
		classifierOpts = append(classifierOpts, analytics.WithStatusNormalization())
	}
	engine := analytics.New(
		analytics.WithClassifier(analytics.NewClassifier(classifierOpts...)),
		analytics.WithLocation(loc),
	)

	svcCfg := services.AnalyticsConfig{
		Ingest: ingest.Options{
			HeaderRowIndex:  cfg.Ingest.HeaderRowIndex,
			ValidateHeaders: cfg.Ingest.ValidateHeaders,
		},
		DefaultSLAHours: cfg.Analytics.SLATargetHours,
		MinSLAHours:     cfg.Analytics.SLAMinHours,
		MaxSLAHours:     cfg.Analytics.SLAMaxHours,
		TopClients:      cfg.Analytics.TopClients,
		TopAssignees:    cfg.Analytics.TopAssignees,
		Location:        loc,
	}

	return services.NewAnalyticsService(reader, metrics, engine, svcCfg, logger), nil
}
