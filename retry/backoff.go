package retry

import (
	"math"
	"time"
)

// Delay returns the wait inserted after the given failed attempt, before
// the next one starts. Attempts are counted from 1; Delay(1, c) is exactly
// the configured initial interval. The result grows geometrically with the
// configured multiplier and is capped at the configured max interval.
//
// Delay is a pure function of its inputs, so backoff schedules can be
// verified without waiting for them.
func Delay(attempt int, c Config) time.Duration {
	d := float64(c.BackOffInitialInterval) * math.Pow(c.BackOffMultiplier, float64(attempt-1))

	if d > float64(c.BackOffMaxInterval) {
		d = float64(c.BackOffMaxInterval)
	}

	return time.Duration(d)
}

// ShouldRetry reports whether another delivery attempt is permitted after
// the given attempt failed. Eligibility depends only on the attempt count:
// every failure is treated the same, regardless of the error. A handler
// that wants to distinguish fatal from transient failures has to do so
// itself, before returning an error.
func ShouldRetry(attempt int, err error, c Config) bool {
	return attempt < c.MaxAttempts
}
