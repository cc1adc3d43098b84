package internaldefs

import (
	goGate "github.com/hirewire/goGate"
)

// CounterDef names one exported counter.
type CounterDef struct {
	ID   goGate.MetricID
	Name string
	Help string
}

// HistogramDef names one exported histogram.
type HistogramDef struct {
	ID   goGate.MetricID
	Name string
	Help string
}

// CounterDefs lists every gateway counter in export order.
var CounterDefs = []CounterDef{
	{ID: goGate.MetricAuthSuccess, Name: "gogate_auth_success_total", Help: "Requests accepted by the access gate."},
	{ID: goGate.MetricAuthFailure, Name: "gogate_auth_failure_total", Help: "Requests rejected by the access gate."},
	{ID: goGate.MetricAdminRejected, Name: "gogate_admin_rejected_total", Help: "Non-admin users refused by the admin gate."},
	{ID: goGate.MetricPermissionDenied, Name: "gogate_permission_denied_total", Help: "Failed resource:action permission checks."},
	{ID: goGate.MetricRateLimitHit, Name: "gogate_rate_limit_hit_total", Help: "Requests refused by the rate limiter."},
	{ID: goGate.MetricSQLRejected, Name: "gogate_sql_rejected_total", Help: "Requests refused by the SQL pattern filter."},
	{ID: goGate.MetricXSSSanitized, Name: "gogate_xss_sanitized_total", Help: "Requests whose values were HTML-escaped."},
	{ID: goGate.MetricSessionMiss, Name: "gogate_session_miss_total", Help: "Credentials whose session no longer validates."},
	{ID: goGate.MetricStoreUnavailable, Name: "gogate_store_unavailable_total", Help: "Record store and counter backend failures."},
	{ID: goGate.MetricCredentialIssued, Name: "gogate_credential_issued_total", Help: "Signed credentials produced."},
}

// HistogramDefs lists every gateway histogram in export order.
var HistogramDefs = []HistogramDef{
	{ID: goGate.MetricAuthLatency, Name: "gogate_auth_latency_seconds", Help: "Authenticate latency distribution."},
}

// HistogramBounds are the upper bounds, in seconds, of the fixed latency
// buckets, as Prometheus le label values.
var HistogramBounds = [8]string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds with characters legal in
// OTel instrument names.
var HistogramBoundSuffix = [8]string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to cumulative counts.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
