package pool

import (
	"time"

	"github.com/utkarsh5026/gridpool/internal/algorithms"
	"golang.org/x/time/rate"
)

// BackoffType selects the delay curve between retries of a failed task.
type BackoffType = algorithms.BackoffType

const (
	BackoffExponential  = algorithms.BackoffExponential
	BackoffJittered     = algorithms.BackoffJittered
	BackoffDecorrelated = algorithms.BackoffDecorrelated
)

// WorkerPoolOption is a functional option for configuring a Pool or Worker.
type WorkerPoolOption func(*workerPoolConfig)

type workerPoolConfig struct {
	workerCount int
	maxAttempts int

	backoffType         BackoffType
	backoffInitialDelay time.Duration
	backoffMaxDelay     time.Duration
	backoffJitterFactor float64
	backoffStrategy     algorithms.BackoffStrategy

	rateLimiter *rate.Limiter
	cpuAffinity bool

	beforeTaskStart func(Task)
	onTaskEnd       func(Task, error)
	onRetry         func(Task, int, error)
	onAffinityError func(workerID int, err error)
}

// WithWorkerCount sets the number of workers.
// If not specified, defaults to runtime.GOMAXPROCS(0).
func WithWorkerCount(count int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if count > 0 {
			cfg.workerCount = count
		}
	}
}

// WithRetryPolicy re-executes a failing task up to maxAttempts times in total,
// waiting initialDelay before the first retry and backing off after that.
// Only idempotent tasks should be retried; grid band tasks are, since they
// overwrite the same cells from the same inputs.
func WithRetryPolicy(maxAttempts int, initialDelay time.Duration) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if maxAttempts > 0 {
			cfg.maxAttempts = maxAttempts
		}
		if initialDelay > 0 {
			cfg.backoffInitialDelay = initialDelay
		}
	}
}

// WithBackoff selects the retry delay curve and its ceiling.
// jitterFactor only applies to BackoffJittered.
func WithBackoff(backoffType BackoffType, maxDelay time.Duration, jitterFactor float64) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.backoffType = backoffType
		if maxDelay > 0 {
			cfg.backoffMaxDelay = maxDelay
		}
		if jitterFactor >= 0 {
			cfg.backoffJitterFactor = jitterFactor
		}
	}
}

// WithRateLimit caps how many tasks per second the workers start, shared
// across the whole pool. Useful to leave headroom on a busy machine.
//
// Example:
//
//	WithRateLimit(200, 16) // 200 tasks/sec, bursts of 16
func WithRateLimit(tasksPerSecond float64, burst int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithCPUAffinity locks every worker goroutine to an OS thread pinned to
// its own core (Linux only; elsewhere the thread is locked but not pinned).
func WithCPUAffinity(enabled bool) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.cpuAffinity = enabled
	}
}

// WithOnAffinityError registers a hook called on the worker goroutine when
// WithCPUAffinity is on and the worker could not be pinned. The worker keeps
// running unpinned.
func WithOnAffinityError(fn func(workerID int, err error)) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.onAffinityError = fn
	}
}

// WithBeforeTaskStart registers a hook called on the worker goroutine right
// before a task executes.
func WithBeforeTaskStart(fn func(Task)) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.beforeTaskStart = fn
	}
}

// WithOnTaskEnd registers a hook called after a task's final attempt, with
// the error it ended with.
func WithOnTaskEnd(fn func(Task, error)) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.onTaskEnd = fn
	}
}

// WithOnRetry registers a hook called before each retry with the attempt
// number that just failed (1-based) and its error.
func WithOnRetry(fn func(Task, int, error)) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.onRetry = fn
	}
}
