// Package record models the per-user security record: the server-side
// session list and grant mask a signed credential must match to stay valid.
//
// # Design
//
// A SecurityRecord is keyed by (userID, userType) and holds zero or more
// live sessions. Sessions store only the SHA-256 hash of the opaque
// session token, never the token itself, and validation compares hashes in
// constant time. Records are serialized with a compact length-prefixed
// binary codec and persisted in Redis by [Store]; any other backend can be
// substituted by implementing the gateway's RecordProvider interface.
//
// # What this package must NOT do
//
//   - Issue or parse signed credentials (that is token/'s job).
//   - Decide authorization outcomes; it only reports session validity and
//     exposes the grant mask.
package record
