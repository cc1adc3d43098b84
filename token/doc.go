// Package token issues and verifies the signed credentials that carry a
// marketplace user's session claims between requests.
//
// # Design
//
// A credential is an HS256 JWT binding {userID, userType, sessionID,
// sessionToken} to a fixed validity window. The sessionToken claim is the
// opaque per-session secret minted at login; on every request the gate
// cross-checks it against the live security record, so a stolen credential
// dies with its server-side session even before the signature expires.
//
// # What this package must NOT do
//
//   - Touch Redis or any store; it is pure CPU.
//   - Collapse error categories; the caller decides what leaks outward.
package token
