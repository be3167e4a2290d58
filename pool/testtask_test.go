package pool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

// testTask counts its executions in a shared counter and optionally sleeps
// or fails.
type testTask struct {
	id    int64
	runs  *atomic.Int64
	sleep time.Duration
	err   error
}

func (t *testTask) ID() int64 { return t.id }

func (t *testTask) Execute(ctx context.Context) error {
	if t.sleep > 0 {
		time.Sleep(t.sleep)
	}
	t.runs.Add(1)
	return t.err
}

func newTestTasks(n int, runs *atomic.Int64, sleep time.Duration) []Task {
	tasks := make([]Task, n)
	for i := range n {
		tasks[i] = &testTask{id: int64(i), runs: runs, sleep: sleep}
	}
	return tasks
}

// startPool starts a pool and shuts it down when the test ends.
func startPool(t *testing.T, opts ...WorkerPoolOption) *Pool {
	t.Helper()

	p := NewPool(opts...)
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("failed to start pool: %v", err)
	}
	t.Cleanup(func() {
		_ = p.Shutdown(5 * time.Second)
	})
	return p
}

// within fails the test if fn does not return before timeout.
func within(t *testing.T, timeout time.Duration, what string, fn func()) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatalf("%s did not finish within %v", what, timeout)
	}
}
