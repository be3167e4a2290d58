package algorithms

import "time"

// BackoffType selects the retry delay curve.
type BackoffType int

const (
	// BackoffExponential doubles the delay on every retry (default).
	BackoffExponential BackoffType = iota
	// BackoffJittered spreads the exponential delay by a random factor.
	BackoffJittered
	// BackoffDecorrelated picks each delay from [initial, 3*previous].
	BackoffDecorrelated
)

func (b BackoffType) String() string {
	switch b {
	case BackoffJittered:
		return "jittered"
	case BackoffDecorrelated:
		return "decorrelated"
	default:
		return "exponential"
	}
}

// NewBackoffStrategy builds the strategy for backoffType. Delays never exceed maxDelay.
func NewBackoffStrategy(backoffType BackoffType, initialDelay, maxDelay time.Duration, jitterFactor float64) BackoffStrategy {
	if maxDelay < initialDelay {
		maxDelay = initialDelay
	}

	switch backoffType {
	case BackoffJittered:
		return newJitteredBackoff(initialDelay, maxDelay, jitterFactor)
	case BackoffDecorrelated:
		return newDecorrelatedBackoff(initialDelay, maxDelay)
	default:
		return &exponentialBackoff{initialDelay: initialDelay, maxDelay: maxDelay}
	}
}
