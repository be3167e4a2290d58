package pool

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// executor runs a single task with the pool's rate limit, hooks, retry
// policy and panic recovery. It is shared by all workers of a pool.
type executor struct {
	conf *workerPoolConfig
}

func newExecutor(conf *workerPoolConfig) *executor {
	return &executor{conf: conf}
}

// execute runs t and returns the error of its last attempt.
func (e *executor) execute(ctx context.Context, t Task) error {
	if e.conf.rateLimiter != nil {
		if err := e.conf.rateLimiter.Wait(ctx); err != nil {
			// the limiter's error does not wrap ctx.Err()
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return err
		}
	}

	if e.conf.beforeTaskStart != nil {
		e.conf.beforeTaskStart(t)
	}

	err := e.processWithRetry(ctx, t)

	if e.conf.onTaskEnd != nil {
		e.conf.onTaskEnd(t, err)
	}

	return err
}

// processWithRetry executes t up to maxAttempts times, sleeping according to
// the backoff strategy between attempts. Cancellation of ctx aborts the wait
// between attempts but never an attempt in progress.
func (e *executor) processWithRetry(ctx context.Context, t Task) error {
	var err error
	maxAttempts := max(e.conf.maxAttempts, 1)

	for attempt := range maxAttempts {
		if attempt > 0 && e.conf.backoffStrategy != nil {
			if delay := e.conf.backoffStrategy.NextDelay(attempt-1, err); delay > 0 {
				timer := time.NewTimer(delay)
				select {
				case <-timer.C:
				case <-ctx.Done():
					timer.Stop()
					return err
				}
			}
		}

		err = processWithRecovery(ctx, t)
		if err == nil {
			return nil
		}

		debugLog("task %d attempt %d failed: %v", t.ID(), attempt+1, err)
		if e.conf.onRetry != nil && attempt < maxAttempts-1 {
			e.conf.onRetry(t, attempt+1, err)
		}
	}

	return err
}

// processWithRecovery converts a panic inside Execute into an error so a
// misbehaving task cannot take its worker down with it.
func processWithRecovery(ctx context.Context, t Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("worker panic: %v\nstack trace:\n%s", r, buf[:n])
		}
	}()

	return t.Execute(ctx)
}
