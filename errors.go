package goGate

import "errors"

var (
	// ErrMissingToken is returned when a request carries no bearer credential.
	ErrMissingToken = errors.New("missing token")
	// ErrTokenInvalid is returned for any credential verification failure.
	// Signature, expiry and encoding failures are collapsed into this one
	// error so clients cannot distinguish them.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrSessionNotFound is returned when no security record exists for the
	// credential's user.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when the credential's session is no
	// longer valid: unlisted, revoked, expired, or token mismatch.
	ErrSessionExpired = errors.New("session expired")
	// ErrForbiddenRole is returned when an admin gate rejects a non-admin user.
	ErrForbiddenRole = errors.New("forbidden role")
	// ErrPermissionDenied is returned when the user's grant set lacks the
	// required resource:action permission.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrRateLimited is returned when a route class counter is exhausted.
	ErrRateLimited = errors.New("rate limited")
	// ErrMalformedInput is returned when request values trip the SQL
	// pattern filter.
	ErrMalformedInput = errors.New("malformed input")
	// ErrStoreUnavailable is returned when the record store cannot be reached.
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrGateNotReady is returned when a nil or unbuilt Gate is used.
	ErrGateNotReady = errors.New("gate not initialized")
)
