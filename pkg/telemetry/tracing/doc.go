// Package tracing sets up OpenTelemetry tracing for drlx.
//
// Parse runs, directory walks and single files each get a span. With
// tracing disabled a noop tracer is used and spans cost close to nothing.
package tracing
