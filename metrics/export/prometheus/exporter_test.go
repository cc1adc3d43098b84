package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goGate "github.com/hirewire/goGate"
)

type fakeSource struct {
	snapshot goGate.MetricsSnapshot
	dropped  uint64
}

func (f *fakeSource) MetricsSnapshot() goGate.MetricsSnapshot { return f.snapshot }
func (f *fakeSource) AuditDropped() uint64                    { return f.dropped }

func TestRenderCounters(t *testing.T) {
	src := &fakeSource{
		snapshot: goGate.MetricsSnapshot{
			Counters: map[goGate.MetricID]uint64{
				goGate.MetricAuthSuccess:  7,
				goGate.MetricRateLimitHit: 2,
			},
			Histograms: map[goGate.MetricID][]uint64{},
		},
		dropped: 3,
	}

	out := NewPrometheusExporterFromSource(src).Render()

	if !strings.Contains(out, "gogate_auth_success_total 7") {
		t.Fatalf("missing auth success counter:\n%s", out)
	}
	if !strings.Contains(out, "gogate_rate_limit_hit_total 2") {
		t.Fatalf("missing rate limit counter:\n%s", out)
	}
	if !strings.Contains(out, "gogate_audit_dropped_total 3") {
		t.Fatalf("missing audit dropped counter:\n%s", out)
	}
	if !strings.Contains(out, "# TYPE gogate_auth_success_total counter") {
		t.Fatal("missing TYPE line")
	}
}

func TestRenderHistogramCumulative(t *testing.T) {
	src := &fakeSource{
		snapshot: goGate.MetricsSnapshot{
			Counters: map[goGate.MetricID]uint64{},
			Histograms: map[goGate.MetricID][]uint64{
				goGate.MetricAuthLatency: {1, 0, 2, 0, 0, 0, 0, 1},
			},
		},
	}

	out := NewPrometheusExporterFromSource(src).Render()

	if !strings.Contains(out, `gogate_auth_latency_seconds_bucket{le="0.005"} 1`) {
		t.Fatalf("first bucket wrong:\n%s", out)
	}
	if !strings.Contains(out, `gogate_auth_latency_seconds_bucket{le="0.025"} 3`) {
		t.Fatalf("cumulative bucket wrong:\n%s", out)
	}
	if !strings.Contains(out, `gogate_auth_latency_seconds_bucket{le="+Inf"} 4`) {
		t.Fatalf("inf bucket wrong:\n%s", out)
	}
	if !strings.Contains(out, "gogate_auth_latency_seconds_count 4") {
		t.Fatalf("count wrong:\n%s", out)
	}
}

func TestRenderEmptySource(t *testing.T) {
	src := &fakeSource{snapshot: goGate.MetricsSnapshot{
		Counters:   map[goGate.MetricID]uint64{},
		Histograms: map[goGate.MetricID][]uint64{},
	}}

	if out := NewPrometheusExporterFromSource(src).Render(); out != "" {
		t.Fatalf("expected empty render, got:\n%s", out)
	}

	var nilExporter *PrometheusExporter
	if out := nilExporter.Render(); out != "" {
		t.Fatal("nil exporter rendered output")
	}
}

func TestHandlerServesTextFormat(t *testing.T) {
	src := &fakeSource{
		snapshot: goGate.MetricsSnapshot{
			Counters:   map[goGate.MetricID]uint64{goGate.MetricAuthSuccess: 1},
			Histograms: map[goGate.MetricID][]uint64{},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	NewPrometheusExporterFromSource(src).Handler().ServeHTTP(rec, req)

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "gogate_auth_success_total 1") {
		t.Fatalf("body missing counter:\n%s", rec.Body.String())
	}
}
