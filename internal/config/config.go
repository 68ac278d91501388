package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// CORS configuration for the browser dashboard
	CORS CORSConfig

	// API token configuration
	Auth AuthConfig

	// Export ingestion configuration
	Ingest IngestConfig

	// Dashboard computation configuration
	Analytics AnalyticsConfig

	// Logging configuration
	Logging LoggingConfig

	// Prometheus configuration
	Metrics MetricsConfig

	// Application metadata
	App AppConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	// DrainDelay is how long readiness reports unhealthy before the
	// listener is closed.
	DrainDelay time.Duration
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
}

// CORSConfig holds cross-origin settings
type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         int
}

// AuthConfig holds API token configuration. An empty secret disables
// authentication on /api/v1.
type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// IngestConfig holds spreadsheet reading settings
type IngestConfig struct {
	HeaderRowIndex  int
	ValidateHeaders bool
	SheetName       string
	CSVDelimiter    rune
	MaxUploadBytes  int64
}

// AnalyticsConfig holds dashboard computation settings
type AnalyticsConfig struct {
	SLATargetHours  float64
	SLAMinHours     float64
	SLAMaxHours     float64
	TopClients      int
	TopAssignees    int
	StatusNormalize bool
	Timezone        string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// MetricsConfig holds Prometheus exposition settings
type MetricsConfig struct {
	Enabled   bool
	Path      string
	Namespace string
	Runtime   bool
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return FromEnv()
}

// FromEnv builds and validates the configuration from the process environment.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", ":8080"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:     getDurationOrDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			DrainDelay:      getDurationOrDefault("SERVER_DRAIN_DELAY", 5*time.Second),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getBoolOrDefault("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getFloatOrDefault("RATE_LIMIT_RPS", 5),
			BurstSize:         getIntOrDefault("RATE_LIMIT_BURST", 10),
		},
		CORS: CORSConfig{
			AllowedOrigins: getStringSliceOrDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			MaxAge:         getIntOrDefault("CORS_MAX_AGE", 300),
		},
		Auth: AuthConfig{
			Secret:   os.Getenv("AUTH_SECRET"),
			TokenTTL: getDurationOrDefault("AUTH_TOKEN_TTL", 24*time.Hour),
		},
		Ingest: IngestConfig{
			HeaderRowIndex:  getIntOrDefault("INGEST_HEADER_ROW_INDEX", 2),
			ValidateHeaders: getBoolOrDefault("INGEST_VALIDATE_HEADERS", true),
			SheetName:       os.Getenv("INGEST_SHEET_NAME"),
			CSVDelimiter:    getRuneOrDefault("INGEST_CSV_DELIMITER", ','),
			MaxUploadBytes:  getInt64OrDefault("INGEST_MAX_UPLOAD_BYTES", 32<<20),
		},
		Analytics: AnalyticsConfig{
			SLATargetHours:  getFloatOrDefault("SLA_TARGET_HOURS", 24),
			SLAMinHours:     getFloatOrDefault("SLA_MIN_HOURS", 1),
			SLAMaxHours:     getFloatOrDefault("SLA_MAX_HOURS", 720),
			TopClients:      getIntOrDefault("TOP_CLIENTS", 12),
			TopAssignees:    getIntOrDefault("TOP_ASSIGNEES", 10),
			StatusNormalize: getBoolOrDefault("STATUS_NORMALIZE", false),
			Timezone:        getEnvOrDefault("TIMEZONE", "Local"),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled:   getBoolOrDefault("METRICS_ENABLED", true),
			Path:      getEnvOrDefault("METRICS_PATH", "/metrics"),
			Namespace: getEnvOrDefault("METRICS_NAMESPACE", "ticket_analytics"),
			Runtime:   getBoolOrDefault("METRICS_RUNTIME", true),
		},
		App: AppConfig{
			Name:        getEnvOrDefault("APP_NAME", "ticket-analytics"),
			Version:     getEnvOrDefault("APP_VERSION", "dev"),
			Environment: getEnvOrDefault("APP_ENV", "development"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []string

	// Security validations
	if c.IsProduction() {
		if c.Auth.Secret == "" {
			errs = append(errs, "AUTH_SECRET is required in production")
		} else if len(c.Auth.Secret) < 32 {
			errs = append(errs, "AUTH_SECRET must be at least 32 characters in production")
		}

		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				errs = append(errs, "CORS_ALLOWED_ORIGINS must not contain * in production")
			}
		}
	}

	// Ingestion
	if c.Ingest.HeaderRowIndex < -1 {
		errs = append(errs, "INGEST_HEADER_ROW_INDEX must be -1 or greater")
	}
	if c.Ingest.MaxUploadBytes <= 0 {
		errs = append(errs, "INGEST_MAX_UPLOAD_BYTES must be positive")
	}
	switch c.Ingest.CSVDelimiter {
	case 0, '"', '\r', '\n', utf8.RuneError:
		errs = append(errs, "INGEST_CSV_DELIMITER must be a single printable character")
	}

	// Analytics
	if c.Analytics.SLAMinHours <= 0 {
		errs = append(errs, "SLA_MIN_HOURS must be positive")
	}
	if c.Analytics.SLAMinHours > c.Analytics.SLAMaxHours {
		errs = append(errs, "SLA_MIN_HOURS cannot be greater than SLA_MAX_HOURS")
	}
	if c.Analytics.SLATargetHours < c.Analytics.SLAMinHours || c.Analytics.SLATargetHours > c.Analytics.SLAMaxHours {
		errs = append(errs, "SLA_TARGET_HOURS must lie between SLA_MIN_HOURS and SLA_MAX_HOURS")
	}
	if c.Analytics.TopClients < 0 || c.Analytics.TopAssignees < 0 {
		errs = append(errs, "TOP_CLIENTS and TOP_ASSIGNEES cannot be negative")
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Sprintf("TIMEZONE is not a known zone: %v", err))
	}

	// Server
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.BurstSize <= 0) {
		errs = append(errs, "RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive when rate limiting is enabled")
	}
	if c.Server.DrainDelay >= c.Server.ShutdownTimeout {
		errs = append(errs, "SERVER_DRAIN_DELAY must be shorter than SERVER_SHUTDOWN_TIMEOUT")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, "METRICS_PATH must start with /")
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}

	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Analytics.Timezone {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	default:
		return time.LoadLocation(c.Analytics.Timezone)
	}
}

// AuthEnabled reports whether /api/v1 requires a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.Auth.Secret != ""
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getRuneOrDefault reads a single character. "\t" and "tab" mean a tab.
func getRuneOrDefault(key string, defaultValue rune) rune {
	value := os.Getenv(key)
	switch value {
	case "":
		return defaultValue
	case `\t`, "tab":
		return '\t'
	}
	r, size := utf8.DecodeRuneInString(value)
	if size != len(value) {
		return utf8.RuneError
	}
	return r
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// String returns a redacted string representation of the config (safe for logging)
func (c *Config) String() string {
	auth := "disabled"
	if c.AuthEnabled() {
		auth = "[REDACTED]"
	}
	return fmt.Sprintf(
		"Config{Server: %s, Auth: %s, RateLimit: %v, MaxUpload: %d, HeaderRow: %d, SLA: %g, TZ: %s, Environment: %s}",
		c.Server.Port,
		auth,
		c.RateLimit.Enabled,
		c.Ingest.MaxUploadBytes,
		c.Ingest.HeaderRowIndex,
		c.Analytics.SLATargetHours,
		c.Analytics.Timezone,
		c.App.Environment,
	)
}
