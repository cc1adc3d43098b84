package goGate

import (
	"errors"

	"github.com/hirewire/goGate/internal/rate"
	"github.com/hirewire/goGate/permission"
	"github.com/hirewire/goGate/record"
	"github.com/hirewire/goGate/token"
	"github.com/redis/go-redis/v9"
)

// Builder assembles a [Gate]. Configure it with the With* methods and
// call Build once; the resulting Gate is immutable and safe for
// concurrent use.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	permissions []string

	provider  RecordProvider
	auditSink AuditSink

	built bool
}

// New returns a Builder seeded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the Redis client backing the record store and the
// rate limiter.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithPermissions registers the permission names. Each must be a
// "resource:action" pair; bit order follows registration order.
func (b *Builder) WithPermissions(perms []string) *Builder {
	b.permissions = perms
	return b
}

// WithRecordProvider overrides the Redis-backed record store with a
// custom provider. When set, WithRedis is still required if rate
// limiting is enabled.
func (b *Builder) WithRecordProvider(p RecordProvider) *Builder {
	b.provider = p
	return b
}

// WithAuditSink sets the sink receiving audit events. Ignored unless
// Config.Audit.Enabled is true.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process metrics counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the Authenticate latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration, wires the components and returns
// the Gate. A builder can only be used once.
func (b *Builder) Build() (*Gate, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if len(cfg.Token.Secret) == 0 {
		// Validate already rejected this in production mode.
		cfg.Token.Secret = cloneBytes(devFallbackSecret)
	}

	if b.redis == nil {
		if b.provider == nil {
			return nil, errors.New("redis client required")
		}
		if cfg.RateLimit.Enabled {
			return nil, errors.New("RateLimit requires redis client")
		}
	}

	// -------- PERMISSION REGISTRY --------
	registry, err := permission.NewRegistry(cfg.Permission.MaxBits)
	if err != nil {
		return nil, err
	}

	for _, p := range b.permissions {
		if _, err := registry.Register(p); err != nil {
			return nil, err
		}
	}

	registry.Freeze()

	// -------- RECORD PROVIDER --------
	provider := b.provider
	var store *record.Store
	if provider == nil {
		store = record.NewStore(b.redis, cfg.Record.RedisPrefix, cfg.Record.TTL)
		provider = store
	}

	codec, err := token.NewCodec(token.Config{
		Secret:   cfg.Token.Secret,
		TTL:      cfg.Token.TTL,
		Issuer:   cfg.Token.Issuer,
		Audience: cfg.Token.Audience,
		Leeway:   cfg.Token.Leeway,
	})
	if err != nil {
		return nil, err
	}

	gate := &Gate{
		config:   cfg,
		codec:    codec,
		registry: registry,
		provider: provider,
		store:    store,
	}

	if cfg.RateLimit.Enabled {
		gate.limiter = rate.New(b.redis, rate.Config{
			Classes: map[string]rate.Window{
				ClassLogin:        {Max: cfg.RateLimit.Login.Max, Span: cfg.RateLimit.Login.Span},
				ClassRegistration: {Max: cfg.RateLimit.Registration.Max, Span: cfg.RateLimit.Registration.Span},
				ClassGeneral:      {Max: cfg.RateLimit.General.Max, Span: cfg.RateLimit.General.Span},
			},
		})
	}

	gate.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	gate.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	return gate, nil
}
