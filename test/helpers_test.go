//go:build integration
// +build integration

package test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hirewire/goGate/record"
	"github.com/redis/go-redis/v9"
)

func newIntegrationStore(t *testing.T) (*record.Store, *redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := record.NewStore(rdb, "gaterec", time.Hour)

	return store, rdb, func() {
		_ = rdb.Close()
		mr.Close()
	}
}

func makeRecord(userID, userType, sessionID, sessionToken string) *record.SecurityRecord {
	now := time.Now()

	return &record.SecurityRecord{
		UserID:   userID,
		UserType: userType,
		Sessions: []record.Session{{
			ID:        sessionID,
			TokenHash: record.HashSessionToken(sessionToken),
			CreatedAt: now.Unix(),
			ExpiresAt: now.Add(time.Hour).Unix(),
		}},
		UpdatedAt: now.Unix(),
	}
}
