// Package observability wires OpenTelemetry tracing and metrics. When
// telemetry is disabled the global no-op providers stay in place and every
// helper here is safe to call.
package observability
