// Package observe provides observability primitives for the fetch layer.
//
// It is a pure instrumentation library: a JSON structured logger, an
// OpenTelemetry tracer and meter, fetch-level instruments and a middleware
// that wraps a fetch with all three. Exporters are selected by name through
// the exporters subpackage.
package observe
