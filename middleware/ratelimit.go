package middleware

import (
	"net/http"

	goGate "github.com/hirewire/goGate"
)

// RateLimit enforces the route class ceiling, keyed by client IP. Place
// it in front of the gates so limit accounting happens even for
// unauthenticated requests.
func RateLimit(gate *goGate.Gate, class string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate == nil {
				next.ServeHTTP(w, r)
				return
			}

			r = withClientContext(r)

			if err := gate.AllowRate(r.Context(), class, goGate.ClientIPFromContext(r.Context())); err != nil {
				rejected(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
