package rate

import "errors"

var (
	// ErrRateLimited is returned when a counter exceeds its window ceiling.
	ErrRateLimited = errors.New("rate limited")
	// ErrRedisUnavailable wraps transport-level Redis failures.
	ErrRedisUnavailable = errors.New("redis unavailable")
)
