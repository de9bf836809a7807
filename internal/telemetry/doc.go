// Package telemetry wires OpenTelemetry for creativechef: traces, logs and
// metrics are exported over OTLP/HTTP to a single collector endpoint.
//
// With no endpoint configured only the W3C propagators are installed and the
// global providers stay no-op.
package telemetry
