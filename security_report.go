package goGate

import "time"

// SecurityReport is a read-only snapshot of the gate's security posture.
type SecurityReport struct {
	ProductionMode     bool
	SigningAlgorithm   string
	CredentialTTL      time.Duration
	ExplicitSecret     bool
	RateLimitingActive bool
	HeadersActive      bool
	SQLFilterActive    bool
	XSSEscapeActive    bool
	FingerprintActive  bool
	CORSRestricted     bool
	AuditActive        bool
	MetricsActive      bool
	PermissionBits     int
}

// SecurityReport summarizes the active hardening measures. ExplicitSecret
// is false when the gate is running on the dev fallback key.
func (g *Gate) SecurityReport() SecurityReport {
	if g == nil {
		return SecurityReport{}
	}

	return SecurityReport{
		ProductionMode:     g.config.Security.ProductionMode,
		SigningAlgorithm:   "HS256",
		CredentialTTL:      g.config.Token.TTL,
		ExplicitSecret:     string(g.config.Token.Secret) != string(devFallbackSecret),
		RateLimitingActive: g.config.RateLimit.Enabled,
		HeadersActive:      g.config.Headers.Enabled,
		SQLFilterActive:    g.config.Sanitize.RejectSQLPatterns,
		XSSEscapeActive:    g.config.Sanitize.EscapeHTML,
		FingerprintActive:  g.config.Device.Enabled,
		CORSRestricted:     len(g.config.CORS.AllowedOrigins) > 0,
		AuditActive:        g.config.Audit.Enabled,
		MetricsActive:      g.config.Metrics.Enabled,
		PermissionBits:     g.config.Permission.MaxBits,
	}
}
