//go:build integration
// +build integration

package test

import (
	"errors"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
	"github.com/hirewire/goGate/token"
)

func TestCredentialIntegrationHardeningChecks(t *testing.T) {
	secret := []byte("integration-secret-0123456789abc")

	codec, err := token.NewCodec(token.Config{
		Secret:   secret,
		TTL:      time.Minute,
		Issuer:   "gogate",
		Audience: "api",
		Leeway:   30 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	credential, err := codec.Issue("u1", "worker", "s1", "tok-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := codec.Parse(credential); err != nil {
		t.Fatalf("Parse valid credential failed: %v", err)
	}

	// Same claim shape, signed with a different key.
	foreignClaims := token.Claims{
		UserID:    "u1",
		SessionID: "s1",
		RegisteredClaims: gjwt.RegisteredClaims{
			Issuer:    "gogate",
			Audience:  gjwt.ClaimStrings{"api"},
			ExpiresAt: gjwt.NewNumericDate(time.Now().Add(time.Minute)),
			IssuedAt:  gjwt.NewNumericDate(time.Now()),
		},
	}
	foreign := gjwt.NewWithClaims(gjwt.SigningMethodHS256, foreignClaims)
	signedForeign, err := foreign.SignedString([]byte("another-secret-entirely-32-bytes"))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	if _, err := codec.Parse(signedForeign); !errors.Is(err, token.ErrSignature) {
		t.Fatalf("expected ErrSignature for foreign key, got %v", err)
	}

	// Unsigned token must never pass, regardless of claims.
	unsigned := gjwt.NewWithClaims(gjwt.SigningMethodNone, foreignClaims)
	signedNone, err := unsigned.SignedString(gjwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString none failed: %v", err)
	}
	if _, err := codec.Parse(signedNone); err == nil {
		t.Fatal("expected alg=none credential to fail")
	}
}

func TestCredentialIntegrationIssuerMismatch(t *testing.T) {
	secret := []byte("integration-secret-0123456789abc")

	issuerA, err := token.NewCodec(token.Config{Secret: secret, TTL: time.Minute, Issuer: "gateway-a"})
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	issuerB, err := token.NewCodec(token.Config{Secret: secret, TTL: time.Minute, Issuer: "gateway-b"})
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	credential, err := issuerA.Issue("u1", "worker", "s1", "tok-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := issuerB.Parse(credential); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}
}
