package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	goGate "github.com/hirewire/goGate"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitCeiling(t *testing.T) {
	gate, mr, done := newTestGate(t, nil)
	defer done()

	handler := RateLimit(gate, goGate.ClassLogin)(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = "10.0.0.1:40000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d within ceiling: status = %d", i+1, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.RemoteAddr = "10.0.0.1:40000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("over ceiling: status = %d", rec.Code)
	}
	decodeError(t, rec)

	// Another IP still gets through.
	req = httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.RemoteAddr = "10.0.0.2:40000"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("independent IP: status = %d", rec.Code)
	}

	// Window expiry frees the original IP.
	mr.FastForward(2 * time.Minute)
	req = httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.RemoteAddr = "10.0.0.1:40000"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("after window reset: status = %d", rec.Code)
	}
}

func TestRateLimitUsesForwardedFor(t *testing.T) {
	gate, _, done := newTestGate(t, nil)
	defer done()

	handler := RateLimit(gate, goGate.ClassLogin)(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = "192.0.2.1:40000" // proxy
		req.Header.Set("X-Forwarded-For", "203.0.113.5, 192.0.2.1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if i < 2 && rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
		if i == 2 && rec.Code != http.StatusTooManyRequests {
			t.Fatalf("forwarded client not limited: status = %d", rec.Code)
		}
	}
}

func TestSecurityHeadersStamped(t *testing.T) {
	gate, _, done := newTestGate(t, nil)
	defer done()

	req := httptest.NewRequest(http.MethodGet, "/api/gigs", nil)
	rec := httptest.NewRecorder()
	SecurityHeaders(gate)(okHandler()).ServeHTTP(rec, req)

	h := rec.Header()
	if h.Get("Content-Security-Policy") != "default-src 'self'" {
		t.Fatalf("CSP = %q", h.Get("Content-Security-Policy"))
	}
	if !strings.HasPrefix(h.Get("Strict-Transport-Security"), "max-age=31536000") {
		t.Fatalf("HSTS = %q", h.Get("Strict-Transport-Security"))
	}
	if h.Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("nosniff missing")
	}
	if h.Get("X-Frame-Options") != "DENY" {
		t.Fatal("frame deny missing")
	}
	if h.Get("Referrer-Policy") != "no-referrer" {
		t.Fatalf("referrer policy = %q", h.Get("Referrer-Policy"))
	}
}

func TestSecurityHeadersDisabled(t *testing.T) {
	gate, _, done := newTestGate(t, func(cfg *goGate.Config) {
		cfg.Headers.Enabled = false
	})
	defer done()

	req := httptest.NewRequest(http.MethodGet, "/api/gigs", nil)
	rec := httptest.NewRecorder()
	SecurityHeaders(gate)(okHandler()).ServeHTTP(rec, req)

	if rec.Header().Get("X-Frame-Options") != "" {
		t.Fatal("headers stamped while disabled")
	}
}

func TestCORSAllowedOrigin(t *testing.T) {
	gate, _, done := newTestGate(t, nil)
	defer done()

	handler := CORS(gate)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/gigs", nil)
	req.Header.Set("Origin", "https://app.hirewire.dev")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.hirewire.dev" {
		t.Fatalf("allow-origin = %q", got)
	}
}

func TestCORSWildcardSuffix(t *testing.T) {
	gate, _, done := newTestGate(t, nil)
	defer done()

	handler := CORS(gate)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/gigs", nil)
	req.Header.Set("Origin", "https://staging.hirewire.dev")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://staging.hirewire.dev" {
		t.Fatalf("wildcard origin not allowed, allow-origin = %q", got)
	}
}

func TestCORSUnlistedOrigin(t *testing.T) {
	gate, _, done := newTestGate(t, nil)
	defer done()

	handler := CORS(gate)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/gigs", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("unlisted origin received CORS headers")
	}

	// Preflight from an unlisted origin is refused outright.
	req = httptest.NewRequest(http.MethodOptions, "/api/gigs", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("preflight status = %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	gate, _, done := newTestGate(t, nil)
	defer done()

	handler := CORS(gate)(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/gigs", nil)
	req.Header.Set("Origin", "https://app.hirewire.dev")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Fatal("preflight missing allow-methods")
	}
	if rec.Header().Get("Access-Control-Max-Age") != "60" {
		t.Fatalf("max-age = %q", rec.Header().Get("Access-Control-Max-Age"))
	}
}

func TestHardenInputRejectsSQLInQuery(t *testing.T) {
	gate, _, done := newTestGate(t, nil)
	defer done()

	handler := HardenInput(gate)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=SELECT+%2A+FROM+users", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	decodeError(t, rec)
}

func TestHardenInputAllowsEmbeddedWords(t *testing.T) {
	gate, _, done := newTestGate(t, nil)
	defer done()

	handler := HardenInput(gate)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=selection+committee", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHardenInputRejectsSQLInBody(t *testing.T) {
	gate, _, done := newTestGate(t, nil)
	defer done()

	handler := HardenInput(gate)(okHandler())

	body := `{"title":"handyman","notes":{"text":"1; DROP TABLE gigs"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/gigs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHardenInputEscapesBody(t *testing.T) {
	gate, _, done := newTestGate(t, nil)
	defer done()

	var seen map[string]interface{}
	handler := HardenInput(gate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &seen)
		w.WriteHeader(http.StatusOK)
	}))

	body := `{"bio":"<script>alert(1)</script>"}`
	req := httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if seen["bio"] != "&lt;script&gt;alert(1)&lt;/script&gt;" {
		t.Fatalf("bio = %q", seen["bio"])
	}
}

func TestHardenInputEscapesQuery(t *testing.T) {
	gate, _, done := newTestGate(t, nil)
	defer done()

	var seenQ string
	handler := HardenInput(gate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenQ = r.URL.Query().Get("q")
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=%3Cb%3Ehi%3C%2Fb%3E", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seenQ != "&lt;b&gt;hi&lt;/b&gt;" {
		t.Fatalf("escaped query = %q", seenQ)
	}
}

func TestFingerprintAttached(t *testing.T) {
	gate, _, done := newTestGate(t, nil)
	defer done()

	var info DeviceInfo
	var fp string
	handler := Fingerprint(gate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, _ = DeviceInfoFromContext(r.Context())
		fp, _ = FingerprintFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148 Safari/604.1")
	req.RemoteAddr = "10.0.0.1:40000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if info.Device != "Mobile" || info.OS != "iOS" {
		t.Fatalf("classification = %+v", info)
	}
	if len(fp) != 64 {
		t.Fatalf("fingerprint length = %d", len(fp))
	}

	// Same agent and IP yield the same fingerprint.
	var fp2 string
	handler = Fingerprint(gate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fp2, _ = FingerprintFromContext(r.Context())
	}))
	req2 := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req2.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148 Safari/604.1")
	req2.RemoteAddr = "10.0.0.1:40001"
	handler.ServeHTTP(httptest.NewRecorder(), req2)

	if fp != fp2 {
		t.Fatal("fingerprint not stable across ports")
	}
}
