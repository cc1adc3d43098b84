package middleware

import (
	"context"
	"net/http"
	"strings"

	goGate "github.com/hirewire/goGate"
)

type authResultContextKey struct{}

// AuthResultFromContext returns the authentication result injected by
// [Guard], [RequireAdmin] or [RequirePermission].
func AuthResultFromContext(ctx context.Context) (*goGate.AuthResult, bool) {
	res, ok := ctx.Value(authResultContextKey{}).(*goGate.AuthResult)
	return res, ok
}

// Guard authenticates every request through the gate and injects the
// [goGate.AuthResult] into the request context.
func Guard(gate *goGate.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate == nil {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			r = withClientContext(r)

			credential, _ := bearerToken(r.Header.Get("Authorization"))

			res, err := gate.Authenticate(r.Context(), credential)
			if err != nil {
				rejected(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), authResultContextKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin authenticates the request and admits only admin users.
func RequireAdmin(gate *goGate.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate == nil {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			r = withClientContext(r)

			credential, _ := bearerToken(r.Header.Get("Authorization"))

			res, err := gate.AuthenticateAdmin(r.Context(), credential)
			if err != nil {
				rejected(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), authResultContextKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission authenticates the request and requires the
// resource:action grant. Admin users hold every grant implicitly.
func RequirePermission(gate *goGate.Gate, resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate == nil {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			r = withClientContext(r)

			credential, _ := bearerToken(r.Header.Get("Authorization"))

			res, err := gate.Authorize(r.Context(), credential, resource, action)
			if err != nil {
				rejected(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), authResultContextKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
