package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Config holds the signing parameters for the credential codec.
//
// Secret is the shared HS256 key. TTL bounds every issued credential;
// Leeway is applied during verification to absorb clock drift between
// the issuer and verifiers.
type Config struct {
	Secret   []byte
	TTL      time.Duration
	Issuer   string
	Audience string
	Leeway   time.Duration
}

// Claims is the decoded body of a signed credential.
type Claims struct {
	UserID       string `json:"uid"`
	UserType     string `json:"utype"`
	SessionID    string `json:"sid"`
	SessionToken string `json:"stk"`
	jwt.RegisteredClaims
}

// Codec issues and parses signed credentials. Immutable after NewCodec.
type Codec struct {
	config Config
}

var (
	// ErrMalformed is returned when the credential cannot be decoded at all.
	ErrMalformed = errors.New("credential malformed")
	// ErrExpired is returned when the credential is outside its validity window.
	ErrExpired = errors.New("credential expired")
	// ErrSignature is returned when the signature does not verify.
	ErrSignature = errors.New("credential signature invalid")
)

// NewCodec validates cfg and returns a ready [Codec].
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("codec requires a signing secret")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	cfg.Issuer = strings.TrimSpace(cfg.Issuer)
	cfg.Audience = strings.TrimSpace(cfg.Audience)

	return &Codec{config: cfg}, nil
}

// TTL returns the configured credential validity window.
func (c *Codec) TTL() time.Duration {
	return c.config.TTL
}

// Issue produces a signed, time-bounded credential for the given session.
// sessionToken is the opaque per-session secret the gateway cross-checks
// against the stored security record on every request.
func (c *Codec) Issue(userID, userType, sessionID, sessionToken string) (string, error) {
	if userID == "" || userType == "" || sessionID == "" || sessionToken == "" {
		return "", errors.New("issue requires userID, userType, sessionID and sessionToken")
	}

	now := time.Now()
	claims := Claims{
		UserID:       userID,
		UserType:     userType,
		SessionID:    sessionID,
		SessionToken: sessionToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.config.TTL)),
			Issuer:    c.config.Issuer,
		},
	}
	if c.config.Audience != "" {
		claims.Audience = jwt.ClaimStrings{c.config.Audience}
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(c.config.Secret)
}

// Parse verifies a credential and returns its claims. Failures are
// classified as [ErrSignature], [ErrExpired], or [ErrMalformed]; callers
// exposed to clients must report all three uniformly.
func (c *Codec) Parse(credential string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if c.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(c.config.Leeway))
	}
	if c.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(c.config.Issuer))
	}
	if c.config.Audience != "" {
		options = append(options, jwt.WithAudience(c.config.Audience))
	}

	parser := jwt.NewParser(options...)
	tok, err := parser.ParseWithClaims(credential, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return c.config.Secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrMalformed
	}
	if claims.UserID == "" || claims.SessionID == "" {
		return nil, ErrMalformed
	}

	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrSignature
	default:
		return ErrMalformed
	}
}
