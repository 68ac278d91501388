// Package metrics exposes ingestion, analysis and HTTP telemetry through
// a private Prometheus registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lorrc/service-desk-analytics/internal/core/domain"
	"github.com/lorrc/service-desk-analytics/internal/core/ports"
)

// Row outcomes for the rows counter.
const (
	RowParsed       = "parsed"
	RowSkippedBlank = "skipped_blank"
	RowRejectedID   = "rejected_invalid_id"
)

// Recorder implements ports.MetricsRecorder on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	rowsTotal         *prometheus.CounterVec
	headerMismatches  prometheus.Counter
	exportsTotal      prometheus.Counter
	analysesTotal     *prometheus.CounterVec
	analysisDuration  *prometheus.HistogramVec
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

var _ ports.MetricsRecorder = (*Recorder)(nil)

// NewRecorder creates and registers all collectors. namespace prefixes
// every metric name; withRuntime adds the Go and process collectors.
func NewRecorder(namespace string, withRuntime bool) *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.rowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_rows_total",
			Help:      "Data rows seen in uploaded exports, by outcome",
		},
		[]string{"outcome"},
	)

	r.headerMismatches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_header_mismatches_total",
			Help:      "Header cells that did not match the expected column label",
		},
	)

	r.exportsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_exports_total",
			Help:      "Exports parsed",
		},
	)

	r.analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Overview computations, by outcome",
		},
		[]string{"outcome"},
	)

	r.analysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent reading, parsing and aggregating one export",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		},
		[]string{"outcome"},
	)

	r.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	r.httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	r.registry.MustRegister(
		r.rowsTotal,
		r.headerMismatches,
		r.exportsTotal,
		r.analysesTotal,
		r.analysisDuration,
		r.httpRequestsTotal,
		r.httpDuration,
	)

	if withRuntime {
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return r
}

// ObserveParse records the row outcomes of one parsed export.
func (r *Recorder) ObserveParse(stats domain.ParseStats, headerWarnings int) {
	r.exportsTotal.Inc()
	r.rowsTotal.WithLabelValues(RowParsed).Add(float64(stats.Parsed))
	r.rowsTotal.WithLabelValues(RowSkippedBlank).Add(float64(stats.SkippedBlank))
	r.rowsTotal.WithLabelValues(RowRejectedID).Add(float64(stats.RejectedInvalidID))
	r.headerMismatches.Add(float64(headerWarnings))
}

// ObserveAnalysis records one overview computation.
func (r *Recorder) ObserveAnalysis(outcome string, duration time.Duration) {
	r.analysesTotal.WithLabelValues(outcome).Inc()
	r.analysisDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveHTTP records one served request. route should be the matched
// route pattern, not the raw path.
func (r *Recorder) ObserveHTTP(method, route string, status int, duration time.Duration) {
	r.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(
		r.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			Registry:          r.registry,
		},
	)
}
