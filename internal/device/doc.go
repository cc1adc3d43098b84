// Package device derives client device identity from request metadata.
//
// Fingerprint hashes the user agent together with the client IP into a
// stable 32-byte identifier. Classify inspects the user agent string
// and reports device class, browser family and operating system. Both
// are pure functions over their inputs; nothing in this package touches
// the request.
package device
