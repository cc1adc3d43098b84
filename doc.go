// Package goGate is a security gateway library for multi-role REST
// backends. It authenticates signed credentials against live session
// records, enforces role and permission checks, and supplies request
// hardening middleware (rate limiting, security headers, CORS, input
// filtering, device fingerprinting).
//
// The entry point is the [Gate], constructed through the [Builder]:
//
//	gate, err := goGate.New().
//		WithConfig(cfg).
//		WithRedis(client).
//		WithPermissions([]string{"wallet:withdraw", "gig:post"}).
//		Build()
//
// Handlers wire it in through the middleware subpackage. A credential
// is only accepted while its session is still listed, unrevoked and
// unexpired in the user's stored security record, so logout and
// revocation take effect immediately regardless of credential expiry.
package goGate
