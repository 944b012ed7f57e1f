// Package telemetry groups the observability packages of drlx.
//
//   - logging: slog based structured logging with secret redaction
//   - metrics: Prometheus parse metrics
//   - tracing: OpenTelemetry spans around file and directory parses
//   - health: status endpoints of drlx watch
package telemetry
