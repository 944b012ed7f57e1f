package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"drools-graph/drlx/pkg/config"
)

// WatchMetrics tracks `drlx watch`.
//
// Metrics:
//   - drlx_parser_reparses_total: Re-parses by trigger (fsnotify, schedule) and result
//   - drlx_parser_reparse_duration_seconds: Re-parse duration
//   - drlx_parser_watched_files: Rule files in the watched tree
type WatchMetrics struct {
	reparsesTotal   *prometheus.CounterVec
	reparseDuration prometheus.Histogram
	watchedFiles    prometheus.Gauge
}

// NewWatchMetrics creates and registers watch metrics with the provided registry.
func NewWatchMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *WatchMetrics {
	wm := &WatchMetrics{
		reparsesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "reparses_total",
				Help:      "Total number of watch-triggered re-parses",
			},
			[]string{"trigger", "result"},
		),
		reparseDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "reparse_duration_seconds",
				Help:      "Duration of watch-triggered re-parses in seconds",
				Buckets:   cfg.DurationBuckets,
			},
		),
		watchedFiles: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "watched_files",
				Help:      "Number of rule files in the watched tree",
			},
		),
	}

	registry.MustRegister(wm.reparsesTotal, wm.reparseDuration, wm.watchedFiles)
	return wm
}

// RecordReparse records one re-parse.
func (wm *WatchMetrics) RecordReparse(trigger string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	wm.reparsesTotal.WithLabelValues(trigger, result).Inc()
	wm.reparseDuration.Observe(duration.Seconds())
}

// SetWatchedFiles sets the watched file gauge.
func (wm *WatchMetrics) SetWatchedFiles(n int) {
	wm.watchedFiles.Set(float64(n))
}
