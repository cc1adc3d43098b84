package middleware

import (
	"net/http"
	"strconv"
	"strings"

	goGate "github.com/hirewire/goGate"
)

// CORS applies the gate's origin allow-list. Requests from unlisted
// origins pass through without any CORS headers, so browsers refuse the
// response; their preflights are not acknowledged. An empty allow-list
// disables cross-origin access entirely.
func CORS(gate *goGate.Gate) func(http.Handler) http.Handler {
	cfg := gate.Config().CORS

	methodsHeader := strings.Join(cfg.AllowedMethods, ", ")
	headersHeader := strings.Join(cfg.AllowedHeaders, ", ")
	maxAgeHeader := strconv.Itoa(int(cfg.MaxAge.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || !originAllowed(origin, cfg.AllowedOrigins) {
				if r.Method == http.MethodOptions && origin != "" {
					// Unacknowledged preflight from an unlisted origin.
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Methods", methodsHeader)
			h.Set("Access-Control-Allow-Headers", headersHeader)
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if cfg.MaxAge > 0 {
				h.Set("Access-Control-Max-Age", maxAgeHeader)
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed matches exactly, or by suffix for "*.example.com" entries.
func originAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		if a == origin {
			return true
		}
		if strings.HasPrefix(a, "*.") {
			suffix := a[1:]
			if strings.HasSuffix(origin, suffix) {
				return true
			}
		}
	}
	return false
}
