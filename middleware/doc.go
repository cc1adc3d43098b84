// Package middleware exposes net/http adapters for the goGate security
// gateway: access gates and request hardening filters.
//
// # Gates
//
//   - [Guard] — authenticate every request, inject the result into context.
//   - [RequireAdmin] — Guard plus admin-only role enforcement.
//   - [RequirePermission] — Guard plus a resource:action grant check.
//
// # Hardening filters
//
//   - [RateLimit] — per-IP fixed-window ceilings per route class.
//   - [SecurityHeaders] — fixed hardening headers on every response.
//   - [CORS] — origin allow-list with "*.suffix" wildcard support.
//   - [HardenInput] — SQL pattern rejection and HTML escaping of request
//     values.
//   - [Fingerprint] — device classification attached to context.
//
// Every rejection is a JSON body {"success":false,"message":...} with a
// generic message; the internal cause goes to the gate's audit sink only.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Gate calls. It does NOT
// implement authentication logic itself — all decisions are delegated to
// the Gate.
package middleware
