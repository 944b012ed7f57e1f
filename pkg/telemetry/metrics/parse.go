package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"drools-graph/drlx/pkg/config"
)

// File outcome labels.
const (
	StatusClean     = "clean"     // Parsed without recorded errors
	StatusRecovered = "recovered" // Parsed with construct-level errors
	StatusFailed    = "failed"    // Could not be read
)

// ParseMetrics tracks rule file parsing.
//
// Metrics:
//   - drlx_parser_files_total: Files processed by outcome
//   - drlx_parser_file_duration_seconds: Per-file parse duration
//   - drlx_parser_constructs_total: Parsed constructs by kind
//   - drlx_parser_errors_total: Recorded parse errors by kind and category
//   - drlx_parser_directory_duration_seconds: Whole-directory parse duration
//   - drlx_parser_directory_files: Files found by the last directory parse
type ParseMetrics struct {
	filesTotal        *prometheus.CounterVec
	fileDuration      *prometheus.HistogramVec
	constructsTotal   *prometheus.CounterVec
	errorsTotal       *prometheus.CounterVec
	directoryDuration prometheus.Histogram
	directoryFiles    prometheus.Gauge
}

// NewParseMetrics creates and registers parse metrics with the provided registry.
func NewParseMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ParseMetrics {
	pm := &ParseMetrics{
		filesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "files_total",
				Help:      "Total number of rule files processed",
			},
			[]string{"status"},
		),

		fileDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "file_duration_seconds",
				Help:      "Duration of parsing one rule file in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"status"},
		),

		constructsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "constructs_total",
				Help:      "Total number of parsed rules, queries, functions and declared types",
			},
			[]string{"kind"},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "errors_total",
				Help:      "Total number of recorded parse errors",
			},
			[]string{"kind", "category"},
		),

		directoryDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "directory_duration_seconds",
				Help:      "Duration of parsing a rule directory in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4min
			},
		),

		directoryFiles: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "directory_files",
				Help:      "Number of rule files found by the last directory parse",
			},
		),
	}

	registry.MustRegister(
		pm.filesTotal,
		pm.fileDuration,
		pm.constructsTotal,
		pm.errorsTotal,
		pm.directoryDuration,
		pm.directoryFiles,
	)

	return pm
}

// RecordFile records a processed file and its parse duration.
func (pm *ParseMetrics) RecordFile(status string, duration time.Duration) {
	pm.filesTotal.WithLabelValues(status).Inc()
	pm.fileDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordConstructs adds n constructs of kind.
func (pm *ParseMetrics) RecordConstructs(kind string, n int) {
	pm.constructsTotal.WithLabelValues(kind).Add(float64(n))
}

// RecordError counts one parse error.
func (pm *ParseMetrics) RecordError(kind, category string) {
	pm.errorsTotal.WithLabelValues(kind, category).Inc()
}

// RecordDirectory records a directory parse.
func (pm *ParseMetrics) RecordDirectory(duration time.Duration, files int) {
	pm.directoryDuration.Observe(duration.Seconds())
	pm.directoryFiles.Set(float64(files))
}
