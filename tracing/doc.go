// Package tracing wraps OpenTelemetry so compilation stages can be traced
// without importing the SDK directly. Spans are no-ops until Init or
// InitWithExporter installs a provider.
package tracing
