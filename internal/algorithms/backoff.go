package algorithms

import (
	"math/rand"
	"sync"
	"time"
)

// shifting past this overflows int64 nanoseconds
const maxShift = 62

// exponentialBackoff waits initialDelay * 2^attempt, capped at maxDelay.
type exponentialBackoff struct {
	initialDelay time.Duration
	maxDelay     time.Duration
}

func (b *exponentialBackoff) NextDelay(attempt int, _ error) time.Duration {
	return exponentialDelay(attempt, b.initialDelay, b.maxDelay)
}

func (b *exponentialBackoff) Reset() {}

// jitteredBackoff scales the exponential delay by a factor drawn from
// [1-jitter, 1+jitter] so that bands failing together do not retry in lockstep.
type jitteredBackoff struct {
	initialDelay time.Duration
	maxDelay     time.Duration
	jitter       float64

	mu  sync.Mutex
	rng *rand.Rand
}

func newJitteredBackoff(initialDelay, maxDelay time.Duration, jitter float64) *jitteredBackoff {
	return &jitteredBackoff{
		initialDelay: initialDelay,
		maxDelay:     maxDelay,
		jitter:       clamp(jitter, 0, 1),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- jitter does not need crypto randomness
	}
}

func (b *jitteredBackoff) NextDelay(attempt int, _ error) time.Duration {
	if attempt < 0 {
		return 0
	}

	base := exponentialDelay(attempt, b.initialDelay, b.maxDelay)

	b.mu.Lock()
	factor := 1 + (b.rng.Float64()*2-1)*b.jitter
	b.mu.Unlock()

	return clamp(time.Duration(float64(base)*factor), 0, b.maxDelay)
}

func (b *jitteredBackoff) Reset() {}

// decorrelatedBackoff draws each delay from [initialDelay, 3*previous],
// capped at maxDelay. The previous delay is the only state.
type decorrelatedBackoff struct {
	initialDelay time.Duration
	maxDelay     time.Duration

	mu   sync.Mutex
	prev time.Duration
	rng  *rand.Rand
}

func newDecorrelatedBackoff(initialDelay, maxDelay time.Duration) *decorrelatedBackoff {
	return &decorrelatedBackoff{
		initialDelay: initialDelay,
		maxDelay:     maxDelay,
		prev:         initialDelay,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- jitter does not need crypto randomness
	}
}

func (b *decorrelatedBackoff) NextDelay(attempt int, _ error) time.Duration {
	if attempt < 0 {
		return 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if attempt == 0 {
		b.prev = b.initialDelay
		return b.initialDelay
	}

	upper := min(3*b.prev, b.maxDelay)
	span := upper - b.initialDelay
	if span <= 0 {
		b.prev = b.initialDelay
		return b.initialDelay
	}

	b.prev = b.initialDelay + time.Duration(b.rng.Int63n(int64(span)))
	return b.prev
}

func (b *decorrelatedBackoff) Reset() {
	b.mu.Lock()
	b.prev = b.initialDelay
	b.mu.Unlock()
}

func exponentialDelay(attempt int, initialDelay, maxDelay time.Duration) time.Duration {
	if attempt < 0 {
		return 0
	}
	if attempt >= maxShift {
		return maxDelay
	}

	delay := initialDelay << uint(attempt)
	if delay > maxDelay || delay < 0 {
		return maxDelay
	}
	return delay
}

func clamp[T int | float64 | time.Duration](v, lo, hi T) T {
	return max(lo, min(v, hi))
}
