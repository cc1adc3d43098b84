package goGate

import (
	"context"

	"github.com/hirewire/goGate/record"
)

// UserTypeAdmin is the user type that bypasses permission checks and is
// the only type admitted by the admin gate.
const UserTypeAdmin = "admin"

// Route classes for the rate limiter. Each class carries its own window
// and ceiling in [RateLimitConfig].
const (
	// ClassLogin covers credential-issuing endpoints.
	ClassLogin = "login"
	// ClassRegistration covers account-creation endpoints.
	ClassRegistration = "registration"
	// ClassGeneral covers everything else.
	ClassGeneral = "general"
)

// AuthResult is returned by [Gate.Authenticate] and attached to the
// request context by the middleware package. It carries the
// authenticated identity and the security record the decision was made
// against.
type AuthResult struct {
	UserID    string
	UserType  string
	SessionID string

	Record *record.SecurityRecord
}

// RecordProvider is the persistence interface the Gate reads security
// records through. It is the only store call the Gate makes; session
// creation and removal happen outside the gateway (at login/logout).
//
// Implementations return [record.ErrNotFound] when no record exists for
// the user, and [record.ErrRedisUnavailable] (or a wrapped equivalent)
// when the backend cannot be reached. [record.Store] is the stock
// Redis-backed implementation.
type RecordProvider interface {
	GetByUser(ctx context.Context, userID, userType string) (*record.SecurityRecord, error)
}
