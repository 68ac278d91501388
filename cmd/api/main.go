package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	httpAdapter "github.com/lorrc/service-desk-analytics/internal/adapters/primary/http"
	mw "github.com/lorrc/service-desk-analytics/internal/adapters/primary/http/middleware"
	"github.com/lorrc/service-desk-analytics/internal/adapters/secondary/metrics"
	"github.com/lorrc/service-desk-analytics/internal/adapters/secondary/spreadsheet"
	"github.com/lorrc/service-desk-analytics/internal/app"
	"github.com/lorrc/service-desk-analytics/internal/auth"
	"github.com/lorrc/service-desk-analytics/internal/config"
	"github.com/lorrc/service-desk-analytics/internal/core/ports"
	"github.com/lorrc/service-desk-analytics/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"config", cfg.String(),
	)

	// 3. Initialize Metrics
	var recorder *metrics.Recorder
	var metricsPort ports.MetricsRecorder
	if cfg.Metrics.Enabled {
		recorder = metrics.NewRecorder(cfg.Metrics.Namespace, cfg.Metrics.Runtime)
		metricsPort = recorder
	}

	// 4. Dependency Injection (Wiring the Hexagon)
	analyticsService, err := app.NewAnalyticsService(cfg, metricsPort, logger)
	if err != nil {
		logger.Error("failed to build analytics service", "error", err)
		os.Exit(1)
	}

	loc, _ := cfg.Location()
	errorHandler := httpAdapter.NewErrorHandler(logger)
	analyticsHandler := httpAdapter.NewAnalyticsHandler(analyticsService, httpAdapter.AnalyticsHandlerConfig{
		MaxUploadBytes: cfg.Ingest.MaxUploadBytes,
		Location:       loc,
		Exporter:       spreadsheet.NewWriter(),
	}, errorHandler, logger)

	drain := &httpAdapter.Drain{}
	healthHandler := httpAdapter.NewHealthHandler(cfg.App.Version).AddCheck("intake", drain)

	var tokenManager *auth.TokenManager
	if cfg.AuthEnabled() {
		tokenManager = auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	} else {
		logger.Warn("AUTH_SECRET not set, API routes are unauthenticated")
	}

	// 5. Initialize Rate Limiter
	var rateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		rlCfg := mw.DefaultRateLimiterConfig()
		rlCfg.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rlCfg.BurstSize = cfg.RateLimit.BurstSize
		rateLimiter = mw.NewRateLimiter(rlCfg)
		defer rateLimiter.Stop()
	}

	// 6. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	if recorder != nil {
		r.Use(mw.Metrics(recorder))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", mw.RequestIDHeader},
		ExposedHeaders:   []string{mw.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	// Health check endpoints (outside /api/v1 for standard probe paths)
	healthHandler.RegisterRoutes(r)

	if recorder != nil {
		r.Method(http.MethodGet, cfg.Metrics.Path, recorder.Handler())
	}

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		if rateLimiter != nil {
			r.Use(rateLimiter.Middleware)
		}
		if tokenManager != nil {
			r.Use(mw.JWTMiddleware(tokenManager))
		}
		r.Mount("/analytics", analyticsHandler.Router())
	})

	// 7. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	// Fail readiness first so new uploads go elsewhere
	drain.Start()
	time.Sleep(cfg.Server.DrainDelay)

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout-cfg.Server.DrainDelay)
	defer cancel()

	// Graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}
