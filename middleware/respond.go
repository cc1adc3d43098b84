package middleware

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	goGate "github.com/hirewire/goGate"
)

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Success: false, Message: message})
}

// rejected maps a gate error to its HTTP status and generic client
// message. The mapping deliberately says no more than it must: all
// credential failures look alike from outside.
func rejected(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, goGate.ErrMissingToken):
		writeError(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, goGate.ErrSessionNotFound), errors.Is(err, goGate.ErrSessionExpired):
		writeError(w, http.StatusUnauthorized, "Session expired, please log in again")
	case errors.Is(err, goGate.ErrTokenInvalid), errors.Is(err, goGate.ErrForbiddenRole),
		errors.Is(err, goGate.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, "Access denied")
	case errors.Is(err, goGate.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "Too many requests, please try again later")
	case errors.Is(err, goGate.ErrMalformedInput):
		writeError(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, goGate.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
	default:
		writeError(w, http.StatusUnauthorized, "Authentication required")
	}
}

// clientIP resolves the caller's address, trusting X-Forwarded-For when
// present (first hop), then X-Real-IP, then the socket peer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return strings.TrimSpace(real)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// withClientContext attaches IP and user agent to the request context so
// the gate can use them for rate keys, fingerprints and audit events.
func withClientContext(r *http.Request) *http.Request {
	ctx := goGate.WithClientIP(r.Context(), clientIP(r))
	ctx = goGate.WithUserAgent(ctx, r.UserAgent())
	return r.WithContext(ctx)
}
