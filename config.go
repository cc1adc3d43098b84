package goGate

import (
	"errors"
	"time"
)

// Config defines a public type used by goGate APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Token      TokenConfig
	Record     RecordConfig
	RateLimit  RateLimitConfig
	Headers    HeadersConfig
	CORS       CORSConfig
	Sanitize   SanitizeConfig
	Device     DeviceConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
	Permission PermissionConfig
	Security   SecurityConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig holds the credential signing parameters. Secret is the
// shared HS256 key; it must be supplied explicitly in production mode.
type TokenConfig struct {
	Secret   []byte
	TTL      time.Duration
	Issuer   string
	Audience string
	Leeway   time.Duration
}

// RecordConfig controls the Redis-backed security record store built by
// the Builder when no custom RecordProvider is supplied.
type RecordConfig struct {
	RedisPrefix string
	TTL         time.Duration
}

// RateWindow is one fixed-window ceiling: at most Max requests per Span.
type RateWindow struct {
	Max  int
	Span time.Duration
}

// RateLimitConfig carries one window per route class, keyed by client IP.
type RateLimitConfig struct {
	Enabled      bool
	Login        RateWindow
	Registration RateWindow
	General      RateWindow
}

// HeadersConfig controls the fixed security response headers.
type HeadersConfig struct {
	Enabled               bool
	ContentSecurityPolicy string
	HSTSMaxAge            int
	ReferrerPolicy        string
}

// CORSConfig is the cross-origin allow-list. Origins are matched exactly
// or, for entries of the form "*.example.com", by suffix.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// SanitizeConfig toggles the request value filters.
type SanitizeConfig struct {
	RejectSQLPatterns bool
	EscapeHTML        bool
	MaxBodyBytes      int64
}

// DeviceConfig toggles fingerprint derivation. Observational only; no
// request is ever rejected on fingerprint grounds.
type DeviceConfig struct {
	Enabled bool
}

// AuditConfig defines a public type used by goGate APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by goGate APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// PermissionConfig sets the grant mask width. MaxBits must be 64 or 128.
type PermissionConfig struct {
	MaxBits int
}

// SecurityConfig defines a public type used by goGate APIs.
//
// SecurityConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SecurityConfig struct {
	ProductionMode bool
}

// devFallbackSecret is used only when ProductionMode is false and no
// secret was supplied. Never valid in production; Validate enforces that.
var devFallbackSecret = []byte("gogate-dev-secret-do-not-deploy!")

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the library defaults: 24h credentials, the
// standard route class ceilings, and every hardening filter enabled.
// Supply a Token.Secret before production use.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			TTL:    24 * time.Hour,
			Leeway: 30 * time.Second,
		},
		Record: RecordConfig{
			RedisPrefix: "gaterec",
			TTL:         30 * 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Enabled:      true,
			Login:        RateWindow{Max: 5, Span: 15 * time.Minute},
			Registration: RateWindow{Max: 3, Span: time.Hour},
			General:      RateWindow{Max: 100, Span: 15 * time.Minute},
		},
		Headers: HeadersConfig{
			Enabled:               true,
			ContentSecurityPolicy: "default-src 'self'",
			HSTSMaxAge:            31536000,
			ReferrerPolicy:        "strict-origin-when-cross-origin",
		},
		CORS: CORSConfig{
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         10 * time.Minute,
		},
		Sanitize: SanitizeConfig{
			RejectSQLPatterns: true,
			EscapeHTML:        true,
			MaxBodyBytes:      1 << 20,
		},
		Device: DeviceConfig{
			Enabled: true,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
		Permission: PermissionConfig{
			MaxBits: 64,
		},
		Security: SecurityConfig{
			ProductionMode: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.Secret = cloneBytes(cfg.Token.Secret)
	out.CORS.AllowedOrigins = cloneStrings(cfg.CORS.AllowedOrigins)
	out.CORS.AllowedMethods = cloneStrings(cfg.CORS.AllowedMethods)
	out.CORS.AllowedHeaders = cloneStrings(cfg.CORS.AllowedHeaders)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func cloneStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Token
	if c.Token.TTL <= 0 {
		return errors.New("Token TTL must be > 0")
	}
	if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
		return errors.New("Token Leeway must be between 0 and 2m")
	}

	// Record
	if c.Record.RedisPrefix == "" {
		return errors.New("Record RedisPrefix must not be empty")
	}
	if c.Record.TTL < 0 {
		return errors.New("Record TTL must be >= 0")
	}

	// Rate limiting
	if c.RateLimit.Enabled {
		for _, w := range []struct {
			name   string
			window RateWindow
		}{
			{ClassLogin, c.RateLimit.Login},
			{ClassRegistration, c.RateLimit.Registration},
			{ClassGeneral, c.RateLimit.General},
		} {
			if w.window.Max <= 0 {
				return errors.New("RateLimit " + w.name + " Max must be > 0")
			}
			if w.window.Span <= 0 {
				return errors.New("RateLimit " + w.name + " Span must be > 0")
			}
		}
	}

	// Headers
	if c.Headers.Enabled && c.Headers.HSTSMaxAge < 0 {
		return errors.New("Headers HSTSMaxAge must be >= 0")
	}

	// CORS
	if c.CORS.MaxAge < 0 {
		return errors.New("CORS MaxAge must be >= 0")
	}

	// Sanitize
	if c.Sanitize.MaxBodyBytes <= 0 {
		return errors.New("Sanitize MaxBodyBytes must be > 0")
	}

	// Audit
	if c.Audit.Enabled {
		if c.Audit.BufferSize <= 0 {
			return errors.New("Audit BufferSize must be > 0 when audit is enabled")
		}
	}

	// Permission
	switch c.Permission.MaxBits {
	case 64, 128:
		// valid
	default:
		return errors.New("Permission MaxBits must be 64 or 128")
	}

	if c.Security.ProductionMode {
		if len(c.Token.Secret) == 0 {
			return errors.New("ProductionMode requires an explicit Token Secret")
		}
		if len(c.Token.Secret) < 32 {
			return errors.New("ProductionMode requires Token Secret length >= 256 bits")
		}
		if c.Token.TTL > 24*time.Hour {
			return errors.New("ProductionMode requires Token TTL <= 24h")
		}
		if !c.Headers.Enabled {
			return errors.New("ProductionMode requires security headers")
		}
		if !c.RateLimit.Enabled {
			return errors.New("ProductionMode requires rate limiting")
		}
	}

	return nil
}
