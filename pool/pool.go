package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Pool is a fixed set of workers draining one TaskQueue. It owns the queue's
// lifecycle: Start launches the workers, RunBatch submits a batch and blocks
// until it completed, Shutdown signals the queue and joins every worker.
type Pool struct {
	conf  *workerPoolConfig
	queue *TaskQueue
	exec  *executor

	mu       sync.Mutex
	workers  []*Worker
	started  atomic.Bool
	shutdown atomic.Bool
	nextID   atomic.Int64
}

// NewPool creates a pool with the given options. No goroutine is started
// until Start.
//
// Default configuration:
//   - workerCount: runtime.GOMAXPROCS(0)
//   - maxAttempts: 1 (no retries)
//   - no rate limit, no CPU pinning
//
// Example:
//
//	p := pool.NewPool(pool.WithWorkerCount(4))
//	if err := p.Start(ctx); err != nil {
//	    return err
//	}
//	defer p.Shutdown(5 * time.Second)
//	err := p.RunBatch(ctx, tasks)
func NewPool(opts ...WorkerPoolOption) *Pool {
	conf := createConfig(opts...)
	return &Pool{
		conf:  conf,
		queue: NewTaskQueue(),
		exec:  newExecutor(conf),
	}
}

// Start launches the workers. ctx is handed to every task they execute.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.shutdown.Load() {
		return ErrPoolShutdown
	}
	if !p.started.CompareAndSwap(false, true) {
		return ErrPoolAlreadyStarted
	}

	p.workers = make([]*Worker, p.conf.workerCount)
	for i := range p.workers {
		p.workers[i] = startWorker(ctx, i, p.queue, p.conf, p.exec)
	}
	return nil
}

// Queue returns the pool's task queue, for progress counters and for callers
// that drive batches themselves.
func (p *Pool) Queue() *TaskQueue {
	return p.queue
}

// WorkerCount returns the configured number of workers.
func (p *Pool) WorkerCount() int {
	return p.conf.workerCount
}

// NextID returns a task id unique for the lifetime of the pool.
func (p *Pool) NextID() int64 {
	return p.nextID.Add(1) - 1
}

// Submit enqueues tasks into the current batch without waiting for them.
func (p *Pool) Submit(tasks ...Task) error {
	if err := p.ready(); err != nil {
		return err
	}
	for _, t := range tasks {
		p.queue.Enqueue(t)
	}
	return nil
}

// RunBatch enqueues tasks as one batch, waits until every one of them has
// completed and resets the counters for the next batch. It returns the
// batch's task failures joined together. If ctx ends before the batch
// completed the counters are left untouched, since tasks are still in flight.
func (p *Pool) RunBatch(ctx context.Context, tasks []Task) error {
	if err := p.Submit(tasks...); err != nil {
		return err
	}

	err := p.queue.Wait(ctx)
	if !p.queue.IsComplete() {
		return err
	}

	if resetErr := p.queue.ResetCounters(); resetErr != nil {
		return resetErr
	}
	return err
}

// Shutdown signals the queue and exits every worker. Workers finish the task
// they are running and drain whatever is still pending before they stop.
//
// A non-positive timeout waits forever.
func (p *Pool) Shutdown(timeout time.Duration) error {
	p.mu.Lock()
	if !p.started.Load() {
		p.mu.Unlock()
		return ErrPoolNotStarted
	}
	if !p.shutdown.CompareAndSwap(false, true) {
		p.mu.Unlock()
		return ErrPoolShutdown
	}
	workers := p.workers
	p.mu.Unlock()

	p.queue.SignalShutdown()

	done := make(chan struct{})
	go func() {
		var g errgroup.Group
		for _, w := range workers {
			g.Go(func() error {
				w.Exit()
				return nil
			})
		}
		_ = g.Wait()
		close(done)
	}()

	return waitUntil(done, timeout)
}

func (p *Pool) ready() error {
	if !p.started.Load() {
		return ErrPoolNotStarted
	}
	if p.shutdown.Load() {
		return ErrPoolShutdown
	}
	return nil
}
