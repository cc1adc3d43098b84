package record

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps transport-level Redis failures.
var ErrRedisUnavailable = errors.New("redis unavailable")

// ErrNotFound is returned when no security record exists for a user.
var ErrNotFound = errors.New("security record not found")

const updateRetries = 3

// Store is a Redis-backed security record store. It implements the
// gateway's RecordProvider interface and adds the write surface that
// login/logout services need.
type Store struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewStore creates a record [Store]. prefix namespaces all keys; ttl
// bounds how long an untouched record survives (0 disables expiry).
func NewStore(client redis.UniversalClient, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "gaterec"
	}
	return &Store{
		redis:  client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *Store) key(userID, userType string) string {
	return s.prefix + ":" + userType + ":" + userID
}

// GetByUser fetches and decodes the security record for (userID, userType).
// Returns [ErrNotFound] when the user has no record.
func (s *Store) GetByUser(ctx context.Context, userID, userType string) (*SecurityRecord, error) {
	data, err := s.redis.Get(ctx, s.key(userID, userType)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return Decode(data)
}

// Save persists the record, stamping UpdatedAt.
func (s *Store) Save(ctx context.Context, rec *SecurityRecord) error {
	rec.UpdatedAt = time.Now().Unix()
	data, err := Encode(rec)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.key(rec.UserID, rec.UserType), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// AddSession appends (or replaces) a session on the user's record,
// creating the record if absent. The update runs under WATCH so two
// concurrent logins cannot drop each other's session.
func (s *Store) AddSession(ctx context.Context, userID, userType string, sess Session) error {
	return s.update(ctx, userID, userType, true, func(rec *SecurityRecord) bool {
		rec.PruneExpired(time.Now())
		rec.AddSession(sess)
		return true
	})
}

// RemoveSession deletes one session from the user's record (logout).
func (s *Store) RemoveSession(ctx context.Context, userID, userType, sessionID string) error {
	return s.update(ctx, userID, userType, false, func(rec *SecurityRecord) bool {
		return rec.RemoveSession(sessionID)
	})
}

// RevokeSession marks one session invalid without removing it.
func (s *Store) RevokeSession(ctx context.Context, userID, userType, sessionID string) error {
	return s.update(ctx, userID, userType, false, func(rec *SecurityRecord) bool {
		return rec.RevokeSession(sessionID)
	})
}

// DeleteUser removes the whole record, killing every session (logout-all).
func (s *Store) DeleteUser(ctx context.Context, userID, userType string) error {
	if err := s.redis.Del(ctx, s.key(userID, userType)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}

// update applies mutate to the record under an optimistic WATCH
// transaction. When createIfMissing is false and no record exists, it
// returns ErrNotFound. mutate reports whether anything changed; an
// unchanged record is not rewritten.
func (s *Store) update(
	ctx context.Context,
	userID, userType string,
	createIfMissing bool,
	mutate func(*SecurityRecord) bool,
) error {
	key := s.key(userID, userType)

	txn := func(tx *redis.Tx) error {
		var rec *SecurityRecord

		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			if !createIfMissing {
				return ErrNotFound
			}
			rec = &SecurityRecord{UserID: userID, UserType: userType}
		case err != nil:
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		default:
			if rec, err = Decode(data); err != nil {
				return err
			}
		}

		if !mutate(rec) {
			return nil
		}

		rec.UpdatedAt = time.Now().Unix()
		encoded, err := Encode(rec)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < updateRetries; i++ {
		err = s.redis.Watch(ctx, txn, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrCorruptRecord) || errors.Is(err, ErrRedisUnavailable) {
			return err
		}
		if errors.Is(err, redis.TxFailedErr) {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		return err
	}
	return nil
}
