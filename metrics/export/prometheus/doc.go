// Package prometheus renders goGate metrics in Prometheus text
// exposition format.
//
// [NewPrometheusExporter] accepts a [goGate.Gate] and exposes an
// http.Handler that renders all gateway counters and histograms.
// Counter names are prefixed gogate_*_total; the single histogram is
// gogate_auth_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount
//     the Handler.
//   - Mutate gate state.
package prometheus
