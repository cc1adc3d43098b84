// Package permission maps (resource, action) grants to bit positions in a
// fixed-width bitmask.
//
// # Design
//
// A Registry is populated once at startup with every grant the application
// knows about ("jobs:post", "wallet:withdraw", ...) and then frozen. A
// user's grant set is a Mask64 or Mask128 whose bits line up with the
// registry. Checking a grant is a single bit test; no allocation and no
// locking on the read path after Freeze.
//
// # What this package must NOT do
//
//   - Perform I/O or touch Redis.
//   - Know about user types; the admin bypass is the gate's concern.
package permission
