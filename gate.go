package goGate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hirewire/goGate/internal/rate"
	"github.com/hirewire/goGate/permission"
	"github.com/hirewire/goGate/record"
	"github.com/hirewire/goGate/token"
)

// Gate is the security gateway engine. It is immutable after Build and
// safe for concurrent use.
type Gate struct {
	config   Config
	codec    *token.Codec
	registry *permission.Registry
	provider RecordProvider
	store    *record.Store
	limiter  *rate.Limiter
	audit    *auditDispatcher
	metrics  *Metrics
}

// Authenticate runs the per-request pipeline: verify the credential,
// load the user's security record, and validate the embedded session
// against it. On success the returned [AuthResult] carries the
// authenticated identity; on failure exactly one of the package's
// sentinel errors is returned.
//
// A structurally valid credential whose session has been removed or
// revoked fails with [ErrSessionExpired]: logout is effective
// immediately, regardless of credential expiry.
func (g *Gate) Authenticate(ctx context.Context, credential string) (*AuthResult, error) {
	if g == nil || g.codec == nil {
		return nil, ErrGateNotReady
	}

	start := time.Now()
	res, err := g.authenticate(ctx, credential)
	g.metrics.Observe(MetricAuthLatency, time.Since(start))

	if err != nil {
		g.metrics.Inc(MetricAuthFailure)
		return nil, err
	}

	g.metrics.Inc(MetricAuthSuccess)
	return res, nil
}

func (g *Gate) authenticate(ctx context.Context, credential string) (*AuthResult, error) {
	if credential == "" {
		g.emit(ctx, "auth.missing_token", "", "", "", false, ErrMissingToken)
		return nil, ErrMissingToken
	}

	claims, err := g.codec.Parse(credential)
	if err != nil {
		// Signature, expiry and malformed failures all collapse to one
		// outward error; the audit event keeps the internal cause.
		g.emit(ctx, "auth.token_invalid", "", "", "", false, err)
		return nil, ErrTokenInvalid
	}

	rec, err := g.provider.GetByUser(ctx, claims.UserID, claims.UserType)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			g.emit(ctx, "auth.session_not_found", claims.UserID, claims.UserType, claims.SessionID, false, err)
			return nil, ErrSessionNotFound
		}
		g.metrics.Inc(MetricStoreUnavailable)
		g.emit(ctx, "auth.store_unavailable", claims.UserID, claims.UserType, claims.SessionID, false, err)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if !rec.ValidateSession(claims.SessionID, claims.SessionToken, time.Now()) {
		g.metrics.Inc(MetricSessionMiss)
		g.emit(ctx, "auth.session_expired", claims.UserID, claims.UserType, claims.SessionID, false, ErrSessionExpired)
		return nil, ErrSessionExpired
	}

	g.emit(ctx, "auth.success", claims.UserID, claims.UserType, claims.SessionID, true, nil)

	return &AuthResult{
		UserID:    claims.UserID,
		UserType:  claims.UserType,
		SessionID: claims.SessionID,
		Record:    rec,
	}, nil
}

// AuthenticateAdmin is Authenticate plus an admin-only role gate.
func (g *Gate) AuthenticateAdmin(ctx context.Context, credential string) (*AuthResult, error) {
	res, err := g.Authenticate(ctx, credential)
	if err != nil {
		return nil, err
	}

	if res.UserType != UserTypeAdmin {
		g.metrics.Inc(MetricAdminRejected)
		g.emit(ctx, "auth.admin_rejected", res.UserID, res.UserType, res.SessionID, false, ErrForbiddenRole)
		return nil, ErrForbiddenRole
	}

	return res, nil
}

// Authorize is Authenticate plus a resource:action permission check.
func (g *Gate) Authorize(ctx context.Context, credential, resource, action string) (*AuthResult, error) {
	res, err := g.Authenticate(ctx, credential)
	if err != nil {
		return nil, err
	}

	if !g.HasPermission(res, resource, action) {
		g.metrics.Inc(MetricPermissionDenied)
		g.emit(ctx, "auth.permission_denied", res.UserID, res.UserType, res.SessionID, false, ErrPermissionDenied)
		return nil, ErrPermissionDenied
	}

	return res, nil
}

// HasPermission reports whether an authenticated user holds the
// resource:action grant. Admin users hold every grant implicitly;
// unregistered permission names are never granted.
func (g *Gate) HasPermission(res *AuthResult, resource, action string) bool {
	if g == nil || res == nil {
		return false
	}
	if res.UserType == UserTypeAdmin {
		return true
	}
	if res.Record == nil {
		return false
	}

	bit, ok := g.registry.Bit(permission.Key(resource, action))
	if !ok {
		return false
	}

	return permission.MaskHas(res.Record.Mask, bit)
}

// Issue produces a signed credential binding the user to an existing
// session. The caller (a login service) mints sessionID and the opaque
// sessionToken, stores the session in the user's security record, and
// hands the credential to the client.
func (g *Gate) Issue(userID, userType, sessionID, sessionToken string) (string, error) {
	if g == nil || g.codec == nil {
		return "", ErrGateNotReady
	}

	credential, err := g.codec.Issue(userID, userType, sessionID, sessionToken)
	if err != nil {
		return "", err
	}

	g.metrics.Inc(MetricCredentialIssued)
	g.emit(context.Background(), "credential.issued", userID, userType, sessionID, true, nil)

	return credential, nil
}

// AllowRate records one request for (class, key) against the class's
// fixed window and returns [ErrRateLimited] once the ceiling is hit.
// Key is normally the client IP. A gate built without rate limiting
// allows everything.
func (g *Gate) AllowRate(ctx context.Context, class, key string) error {
	if g == nil {
		return ErrGateNotReady
	}
	if g.limiter == nil {
		return nil
	}

	err := g.limiter.Allow(ctx, class, key)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, rate.ErrRateLimited):
		g.metrics.Inc(MetricRateLimitHit)
		g.emit(ctx, "rate.limited", "", "", "", false, err)
		return ErrRateLimited
	default:
		g.metrics.Inc(MetricStoreUnavailable)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

// ReportInputRejected records a SQL pattern filter rejection for the
// named route. Called by the middleware package.
func (g *Gate) ReportInputRejected(ctx context.Context, route string) {
	if g == nil {
		return
	}
	g.metrics.Inc(MetricSQLRejected)
	g.emitRoute(ctx, "input.sql_rejected", route, false, ErrMalformedInput)
}

// ReportInputSanitized records that a request's values were HTML-escaped.
func (g *Gate) ReportInputSanitized(ctx context.Context, route string) {
	if g == nil {
		return
	}
	g.metrics.Inc(MetricXSSSanitized)
	g.emitRoute(ctx, "input.xss_sanitized", route, true, nil)
}

// Config returns a copy of the gate's effective configuration.
func (g *Gate) Config() Config {
	if g == nil {
		return Config{}
	}
	return cloneConfig(g.config)
}

// Registry exposes the frozen permission registry.
func (g *Gate) Registry() *permission.Registry {
	if g == nil {
		return nil
	}
	return g.registry
}

// RecordStore returns the Redis-backed record store, or nil when the
// gate was built with a custom RecordProvider. Login and logout services
// use its write surface (Save, AddSession, RemoveSession, DeleteUser).
func (g *Gate) RecordStore() *record.Store {
	if g == nil {
		return nil
	}
	return g.store
}

// MetricsSnapshot copies the current counters and histograms.
func (g *Gate) MetricsSnapshot() MetricsSnapshot {
	if g == nil {
		return MetricsSnapshot{}
	}
	return g.metrics.Snapshot()
}

// AuditDropped reports how many audit events were discarded because the
// dispatcher buffer was full.
func (g *Gate) AuditDropped() uint64 {
	if g == nil {
		return 0
	}
	return g.audit.Dropped()
}

// Close stops the audit dispatcher after draining buffered events.
func (g *Gate) Close() {
	if g == nil {
		return
	}
	g.audit.Close()
}

func (g *Gate) emit(ctx context.Context, eventType, userID, userType, sessionID string, success bool, cause error) {
	if g.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		UserID:    userID,
		UserType:  userType,
		SessionID: sessionID,
		IP:        ClientIPFromContext(ctx),
		Success:   success,
	}
	if cause != nil {
		event.Error = cause.Error()
	}

	g.audit.Emit(ctx, event)
}

func (g *Gate) emitRoute(ctx context.Context, eventType, route string, success bool, cause error) {
	if g.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		Route:     route,
		IP:        ClientIPFromContext(ctx),
		Success:   success,
	}
	if cause != nil {
		event.Error = cause.Error()
	}

	g.audit.Emit(ctx, event)
}
