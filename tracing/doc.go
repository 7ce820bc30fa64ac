// Package tracing is a thin OpenTelemetry wrapper instrumenting the solving
// pipeline. It lives in its own package so that hosts which do not need
// tracing never initialise an exporter; uninitialised spans are no-ops.
package tracing
