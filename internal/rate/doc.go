// Package rate enforces fixed-window request ceilings per route class
// using atomic Redis counters.
//
// Counters are INCR+EXPIRE pairs keyed by (class, client key); the TTL is
// set only on the first hit in a window, which gives fixed-window
// semantics and keeps concurrent bursts race-free without a Lua script.
package rate
