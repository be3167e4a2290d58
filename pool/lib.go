package pool

import (
	"errors"
	"runtime"
	"time"

	"github.com/utkarsh5026/gridpool/internal/algorithms"
)

var (
	ErrShutdownTimeout    = errors.New("error in shutting down: timeout reached")
	ErrPoolNotStarted     = errors.New("pool not started")
	ErrPoolAlreadyStarted = errors.New("pool already started")
	ErrPoolShutdown       = errors.New("pool shut down")

	// ErrBatchInFlight is returned by ResetCounters while tasks of the
	// current batch are still pending or executing.
	ErrBatchInFlight = errors.New("batch still has tasks in flight")

	// ErrQueueCleared is reported to Wait callers whose batch was dropped by Clear.
	ErrQueueCleared = errors.New("queue cleared before batch completed")
)

// waitUntil blocks until d is closed or the timeout elapses. A non-positive
// timeout waits forever.
func waitUntil(d <-chan struct{}, timeout time.Duration) error {
	if timeout <= 0 {
		<-d
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-d:
		return nil
	case <-timer.C:
		return ErrShutdownTimeout
	}
}

func createConfig(opts ...WorkerPoolOption) *workerPoolConfig {
	cfg := &workerPoolConfig{
		workerCount:         runtime.GOMAXPROCS(0),
		maxAttempts:         1,
		backoffType:         BackoffExponential,
		backoffInitialDelay: 10 * time.Millisecond,
		backoffMaxDelay:     time.Second,
		backoffJitterFactor: 0.1,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	cfg.backoffStrategy = algorithms.NewBackoffStrategy(
		cfg.backoffType,
		cfg.backoffInitialDelay,
		cfg.backoffMaxDelay,
		cfg.backoffJitterFactor,
	)

	return cfg
}
