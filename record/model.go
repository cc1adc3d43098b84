package record

import (
	"crypto/sha256"
	"crypto/subtle"
	"time"
)

// Session is one live, revocable entry in a security record. TokenHash is
// the SHA-256 of the opaque session token minted at login; the plaintext
// token travels only inside the signed credential.
type Session struct {
	ID        string
	TokenHash [32]byte
	CreatedAt int64
	ExpiresAt int64
	Revoked   bool
}

// SecurityRecord is the persisted authentication/authorization state for
// one user of a given type.
type SecurityRecord struct {
	UserID   string
	UserType string

	// Mask is the user's grant bitmask (*permission.Mask64 or
	// *permission.Mask128), aligned with the gateway's grant registry.
	Mask interface{}

	Sessions []Session

	UpdatedAt int64
}

// HashSessionToken derives the stored form of an opaque session token.
func HashSessionToken(token string) [32]byte {
	return sha256.Sum256([]byte(token))
}

// Active reports whether the session is live at the given instant.
func (s *Session) Active(now time.Time) bool {
	if s.Revoked {
		return false
	}
	return now.Unix() < s.ExpiresAt
}

// FindSession returns the session with the given ID, or false.
func (r *SecurityRecord) FindSession(sessionID string) (*Session, bool) {
	for i := range r.Sessions {
		if r.Sessions[i].ID == sessionID {
			return &r.Sessions[i], true
		}
	}
	return nil, false
}

// ValidateSession reports whether the record currently lists a live
// session with the given ID whose stored token hash matches the presented
// token. The hash comparison is constant-time.
func (r *SecurityRecord) ValidateSession(sessionID, sessionToken string, now time.Time) bool {
	sess, ok := r.FindSession(sessionID)
	if !ok {
		return false
	}
	if !sess.Active(now) {
		return false
	}

	presented := HashSessionToken(sessionToken)
	return subtle.ConstantTimeCompare(sess.TokenHash[:], presented[:]) == 1
}

// AddSession appends a session, replacing any existing session with the
// same ID.
func (r *SecurityRecord) AddSession(sess Session) {
	for i := range r.Sessions {
		if r.Sessions[i].ID == sess.ID {
			r.Sessions[i] = sess
			return
		}
	}
	r.Sessions = append(r.Sessions, sess)
}

// RemoveSession deletes the session with the given ID. Removing a missing
// session is a no-op; it reports whether anything was removed.
func (r *SecurityRecord) RemoveSession(sessionID string) bool {
	for i := range r.Sessions {
		if r.Sessions[i].ID == sessionID {
			r.Sessions = append(r.Sessions[:i], r.Sessions[i+1:]...)
			return true
		}
	}
	return false
}

// RevokeSession marks the session invalid without removing it, preserving
// the entry for audit until the next prune.
func (r *SecurityRecord) RevokeSession(sessionID string) bool {
	sess, ok := r.FindSession(sessionID)
	if !ok {
		return false
	}
	sess.Revoked = true
	return true
}

// PruneExpired drops revoked and expired sessions. Returns the number
// removed.
func (r *SecurityRecord) PruneExpired(now time.Time) int {
	kept := r.Sessions[:0]
	removed := 0
	for i := range r.Sessions {
		if r.Sessions[i].Active(now) {
			kept = append(kept, r.Sessions[i])
		} else {
			removed++
		}
	}
	r.Sessions = kept
	return removed
}
