package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_Start(t *testing.T) {
	t.Run("double start fails", func(t *testing.T) {
		p := startPool(t, WithWorkerCount(2))

		if err := p.Start(context.Background()); !errors.Is(err, ErrPoolAlreadyStarted) {
			t.Errorf("expected ErrPoolAlreadyStarted, got %v", err)
		}
	})

	t.Run("start after shutdown fails", func(t *testing.T) {
		p := NewPool(WithWorkerCount(2))
		if err := p.Start(context.Background()); err != nil {
			t.Fatal(err)
		}
		if err := p.Shutdown(time.Second); err != nil {
			t.Fatal(err)
		}
		if err := p.Start(context.Background()); !errors.Is(err, ErrPoolShutdown) {
			t.Errorf("expected ErrPoolShutdown, got %v", err)
		}
	})

	t.Run("submit before start fails", func(t *testing.T) {
		p := NewPool(WithWorkerCount(2))
		var runs atomic.Int64
		if err := p.Submit(newTestTasks(1, &runs, 0)...); !errors.Is(err, ErrPoolNotStarted) {
			t.Errorf("expected ErrPoolNotStarted, got %v", err)
		}
		if err := p.RunBatch(context.Background(), nil); !errors.Is(err, ErrPoolNotStarted) {
			t.Errorf("expected ErrPoolNotStarted, got %v", err)
		}
	})
}

func TestPool_Shutdown(t *testing.T) {
	t.Run("joins idle workers", func(t *testing.T) {
		p := NewPool(WithWorkerCount(8))
		if err := p.Start(context.Background()); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)

		if err := p.Shutdown(time.Second); err != nil {
			t.Fatalf("shutdown: %v", err)
		}
		for _, w := range p.workers {
			select {
			case <-w.Done():
			default:
				t.Errorf("worker %d still running after shutdown", w.ID())
			}
		}
	})

	t.Run("shutdown without start fails", func(t *testing.T) {
		p := NewPool()
		if err := p.Shutdown(time.Second); !errors.Is(err, ErrPoolNotStarted) {
			t.Errorf("expected ErrPoolNotStarted, got %v", err)
		}
	})

	t.Run("double shutdown fails", func(t *testing.T) {
		p := NewPool(WithWorkerCount(1))
		_ = p.Start(context.Background())
		_ = p.Shutdown(time.Second)

		if err := p.Shutdown(time.Second); !errors.Is(err, ErrPoolShutdown) {
			t.Errorf("expected ErrPoolShutdown, got %v", err)
		}

		var runs atomic.Int64
		if err := p.Submit(newTestTasks(1, &runs, 0)...); !errors.Is(err, ErrPoolShutdown) {
			t.Errorf("expected ErrPoolShutdown on submit, got %v", err)
		}
	})

	t.Run("drains pending tasks", func(t *testing.T) {
		p := NewPool(WithWorkerCount(2))
		_ = p.Start(context.Background())

		var runs atomic.Int64
		_ = p.Submit(newTestTasks(10, &runs, 5*time.Millisecond)...)

		if err := p.Shutdown(0); err != nil {
			t.Fatal(err)
		}
		if runs.Load() != 10 {
			t.Errorf("expected pending tasks to run before exit, got %d", runs.Load())
		}
		for _, w := range p.workers {
			if !w.stop.Load() {
				t.Errorf("worker %d was not exited", w.ID())
			}
			select {
			case <-w.Done():
			default:
				t.Errorf("worker %d still running", w.ID())
			}
		}
	})

	t.Run("timeout", func(t *testing.T) {
		p := NewPool(WithWorkerCount(1))
		_ = p.Start(context.Background())

		var runs atomic.Int64
		_ = p.Submit(&testTask{id: 1, runs: &runs, sleep: 200 * time.Millisecond})
		time.Sleep(10 * time.Millisecond)

		if err := p.Shutdown(20 * time.Millisecond); !errors.Is(err, ErrShutdownTimeout) {
			t.Errorf("expected ErrShutdownTimeout, got %v", err)
		}
	})
}
