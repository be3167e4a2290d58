package algorithms

import "time"

// BackoffStrategy computes how long a worker sleeps before re-executing a
// task whose previous attempt failed.
type BackoffStrategy interface {
	// NextDelay returns the pause before retry number attempt (0 = first retry).
	NextDelay(attempt int, lastErr error) time.Duration

	// Reset clears any per-task state kept between attempts.
	Reset()
}
