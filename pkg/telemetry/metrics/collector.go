package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"drools-graph/drlx/pkg/config"
)

// Collector owns the Prometheus metrics of drlx.
//
// All methods are safe on a nil *Collector and do nothing, so components
// can take an optional collector without checking it.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	parseMetrics *ParseMetrics
	watchMetrics *WatchMetrics
}

// NewCollector creates a collector registered with registry. If registry is
// nil a new one is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{Enabled: true}
//	collector := metrics.NewCollector(cfg, nil)
//	p := parser.NewParser().WithMetrics(collector)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	return &Collector{
		config:       cfg,
		registry:     registry,
		parseMetrics: NewParseMetrics(cfg, registry),
		watchMetrics: NewWatchMetrics(cfg, registry),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordFile records one parsed file.
func (c *Collector) RecordFile(duration time.Duration, hadErrors bool) {
	if !c.enabled() {
		return
	}
	status := StatusClean
	if hadErrors {
		status = StatusRecovered
	}
	c.parseMetrics.RecordFile(status, duration)
}

// RecordFileFailure records a file that could not be read.
func (c *Collector) RecordFileFailure(duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.parseMetrics.RecordFile(StatusFailed, duration)
}

// RecordConstructs adds n parsed constructs of kind (rule, query,
// function, declared_type).
func (c *Collector) RecordConstructs(kind string, n int) {
	if !c.enabled() || n == 0 {
		return
	}
	c.parseMetrics.RecordConstructs(kind, n)
}

// RecordParseError counts one recorded parse error.
func (c *Collector) RecordParseError(kind, category string) {
	if !c.enabled() {
		return
	}
	c.parseMetrics.RecordError(kind, category)
}

// RecordDirectory records one directory parse.
func (c *Collector) RecordDirectory(duration time.Duration, files int) {
	if !c.enabled() {
		return
	}
	c.parseMetrics.RecordDirectory(duration, files)
}

// RecordReparse counts a watch-triggered re-parse.
func (c *Collector) RecordReparse(trigger string, duration time.Duration, err error) {
	if !c.enabled() {
		return
	}
	c.watchMetrics.RecordReparse(trigger, duration, err)
}

// SetWatchedFiles sets the number of rule files currently watched.
func (c *Collector) SetWatchedFiles(n int) {
	if !c.enabled() {
		return
	}
	c.watchMetrics.SetWatchedFiles(n)
}

// Registry returns the Prometheus registry backing the collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
