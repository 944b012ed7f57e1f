// Package metrics exposes Prometheus metrics for rule parsing and watching.
//
// A Collector is created once and handed to the parser and the watcher.
// All metric names carry the configured namespace and subsystem, by
// default drlx_parser_*.
package metrics
