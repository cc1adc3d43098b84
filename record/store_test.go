package record

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewStore(rdb, "rec", time.Hour), mr
}

func TestStoreSaveAndGetByUser(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	rec := &SecurityRecord{UserID: "u1", UserType: "worker"}
	rec.AddSession(testSession("s1", "tok", time.Hour))

	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.GetByUser(ctx, "u1", "worker")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UserID != "u1" || got.UserType != "worker" || len(got.Sessions) != 1 {
		t.Fatalf("unexpected record: %+v", got)
	}
	if !got.ValidateSession("s1", "tok", time.Now()) {
		t.Fatal("persisted session failed validation")
	}

	// Same user ID under a different type is a different record.
	if _, err := store.GetByUser(ctx, "u1", "admin"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user type, got %v", err)
	}
}

func TestStoreGetByUserMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.GetByUser(context.Background(), "ghost", "worker")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreAddSessionCreatesRecord(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.AddSession(ctx, "u2", "employer", testSession("s1", "tok", time.Hour)); err != nil {
		t.Fatalf("add session: %v", err)
	}

	got, err := store.GetByUser(ctx, "u2", "employer")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Sessions) != 1 || got.Sessions[0].ID != "s1" {
		t.Fatalf("unexpected sessions: %+v", got.Sessions)
	}
}

func TestStoreRemoveSessionKillsCredential(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.AddSession(ctx, "u3", "worker", testSession("s1", "tok", time.Hour)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.RemoveSession(ctx, "u3", "worker", "s1"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	got, err := store.GetByUser(ctx, "u3", "worker")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ValidateSession("s1", "tok", time.Now()) {
		t.Fatal("session validated after removal")
	}
}

func TestStoreRemoveSessionMissingRecord(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.RemoveSession(context.Background(), "ghost", "worker", "s1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreRevokeSessionKeepsEntry(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.AddSession(ctx, "u4", "worker", testSession("s1", "tok", time.Hour)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.RevokeSession(ctx, "u4", "worker", "s1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	got, err := store.GetByUser(ctx, "u4", "worker")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	sess, ok := got.FindSession("s1")
	if !ok || !sess.Revoked {
		t.Fatalf("expected revoked entry to remain: %+v", got.Sessions)
	}
	if got.ValidateSession("s1", "tok", time.Now()) {
		t.Fatal("revoked session validated")
	}
}

func TestStoreDeleteUserRemovesAllSessions(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_ = store.AddSession(ctx, "u5", "worker", testSession("s1", "a", time.Hour))
	_ = store.AddSession(ctx, "u5", "worker", testSession("s2", "b", time.Hour))

	if err := store.DeleteUser(ctx, "u5", "worker"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetByUser(ctx, "u5", "worker"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStoreAddSessionPrunesDeadEntries(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_ = store.AddSession(ctx, "u6", "worker", testSession("old", "a", -time.Minute))
	_ = store.AddSession(ctx, "u6", "worker", testSession("new", "b", time.Hour))

	got, err := store.GetByUser(ctx, "u6", "worker")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Sessions) != 1 || got.Sessions[0].ID != "new" {
		t.Fatalf("expected expired session pruned on write: %+v", got.Sessions)
	}
}

func TestStorePing(t *testing.T) {
	store, mr := newTestStore(t)

	if _, err := store.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}

	mr.Close()
	if _, err := store.Ping(context.Background()); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
}
