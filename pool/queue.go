package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// TaskQueue is an unbounded FIFO of pending tasks shared by a fixed set of
// workers. Besides the list it tracks the current batch: how many tasks were
// submitted since the last ResetCounters and how many of them completed.
//
// Insertion order is dispatch order. Workers race for the head, so the order
// in which tasks finish is unspecified.
//
// Invariant: CompletedTasks() <= TotalTasks().
type TaskQueue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	pending  []Task
	inFlight int // dequeued but not yet marked complete
	batch    *batch

	// counters are atomics so progress can be read without the lock
	submitted atomic.Int64
	completed atomic.Int64
	sealed    atomic.Bool
	shutdown  atomic.Bool
}

// batch is the completion state of the tasks submitted since the last reset.
type batch struct {
	done   chan struct{} // closed once sealed and every task completed
	closed bool
	errs   []error
}

func newBatch() *batch {
	return &batch{done: make(chan struct{})}
}

// NewTaskQueue creates an empty queue with an open batch.
func NewTaskQueue() *TaskQueue {
	q := &TaskQueue{batch: newBatch()}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends t to the tail and wakes one waiting worker. It never blocks
// on consumers. A nil task is ignored.
//
// Enqueueing into a batch that Wait has already released reopens it, so a
// later Wait accounts for the new task.
func (q *TaskQueue) Enqueue(t Task) {
	if t == nil {
		return
	}

	q.mu.Lock()
	q.pending = append(q.pending, t)
	q.submitted.Add(1)
	if q.batch.closed {
		q.reopen()
	}
	q.mu.Unlock()

	q.cond.Signal()
}

// Dequeue blocks until a task is available or shutdown is signaled. It
// returns (nil, false) only when the queue is shut down and empty; pending
// tasks are still handed out after shutdown.
func (q *TaskQueue) Dequeue() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.pending) == 0 && !q.shutdown.Load() {
		q.cond.Wait()
	}

	if len(q.pending) == 0 {
		return nil, false
	}

	t := q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]
	if len(q.pending) == 0 {
		q.pending = nil
	}
	q.inFlight++

	return t, true
}

// MarkComplete records that t finished executing. Workers call it exactly
// once per dequeued task, after Execute returned. A non-nil err is kept as a
// *TaskError and reported by Wait.
func (q *TaskQueue) MarkComplete(t Task, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err != nil {
		var id int64 = -1
		if t != nil {
			id = t.ID()
		}
		q.batch.errs = append(q.batch.errs, &TaskError{ID: id, Err: err})
	}

	if q.inFlight > 0 {
		q.inFlight--
	}
	if q.completed.Load() < q.submitted.Load() {
		q.completed.Add(1)
	}
	q.finishIfDone()
}

// IsComplete reports whether every task of the current batch completed. It
// reads only the counters and is therefore a snapshot: it says nothing about
// the memory effects of individual tasks. Use Wait when the caller needs to
// observe the tasks' writes.
//
// A batch with nothing submitted is complete only after Wait sealed it, so
// checking before the first Enqueue does not report a vacuous success.
func (q *TaskQueue) IsComplete() bool {
	completed := q.completed.Load()
	submitted := q.submitted.Load()
	return completed == submitted && (submitted > 0 || q.sealed.Load())
}

// Wait seals the current batch and blocks until all of its tasks completed
// or ctx is done. It returns the batch's task failures joined together.
func (q *TaskQueue) Wait(ctx context.Context) error {
	q.mu.Lock()
	q.sealed.Store(true)
	q.finishIfDone()
	b := q.batch
	q.mu.Unlock()

	select {
	case <-b.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	return errors.Join(b.errs...)
}

// Poll checks IsComplete every interval until it holds or ctx is done,
// reporting progress between checks when progress is non-nil. Unlike Wait
// it does not seal the batch, so it must only be called after the batch's
// tasks were enqueued. Task failures are returned the same way as by Wait.
func (q *TaskQueue) Poll(ctx context.Context, interval time.Duration, progress func(completed, total int64)) error {
	if interval <= 0 {
		interval = time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for !q.IsComplete() {
		if progress != nil {
			progress(q.completed.Load(), q.submitted.Load())
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	return errors.Join(q.batch.errs...)
}

// ResetCounters zeroes both counters and opens a new batch. It fails with
// ErrBatchInFlight while tasks of the previous batch are pending or being
// executed, since resetting then would count them against the next batch.
func (q *TaskQueue) ResetCounters() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) > 0 || q.inFlight > 0 {
		return ErrBatchInFlight
	}

	q.submitted.Store(0)
	q.completed.Store(0)
	q.sealed.Store(false)
	q.batch = newBatch()
	return nil
}

// Clear drops every pending task, resets the counters and the shutdown flag,
// and returns the number of tasks dropped. Tasks currently executing stay
// counted as submitted so their completions keep the invariant. Anyone
// blocked in Wait is released with ErrQueueCleared.
//
// Clear is meant for hard resets, not for moving between batches.
func (q *TaskQueue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	dropped := len(q.pending)
	clear(q.pending)
	q.pending = nil

	if !q.batch.closed {
		q.batch.errs = append(q.batch.errs, ErrQueueCleared)
		q.batch.closed = true
		close(q.batch.done)
	}

	q.submitted.Store(int64(q.inFlight))
	q.completed.Store(0)
	q.sealed.Store(false)
	q.shutdown.Store(false)
	q.batch = newBatch()

	return dropped
}

// SignalShutdown wakes every blocked consumer; once the queue is empty,
// Dequeue returns the shutdown sentinel.
func (q *TaskQueue) SignalShutdown() {
	q.mu.Lock()
	q.shutdown.Store(true)
	q.mu.Unlock()

	q.cond.Broadcast()
}

// IsShutdown reports whether SignalShutdown was called since the last Clear.
func (q *TaskQueue) IsShutdown() bool {
	return q.shutdown.Load()
}

// TotalTasks returns the number of tasks submitted in the current batch.
func (q *TaskQueue) TotalTasks() int64 {
	return q.submitted.Load()
}

// CompletedTasks returns the number of tasks of the current batch that completed.
func (q *TaskQueue) CompletedTasks() int64 {
	return q.completed.Load()
}

// Len returns the number of tasks waiting to be dequeued.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// finishIfDone releases waiters once a sealed batch has no outstanding task.
// Must be called with q.mu held.
func (q *TaskQueue) finishIfDone() {
	b := q.batch
	if b.closed || !q.sealed.Load() {
		return
	}
	if q.completed.Load() == q.submitted.Load() {
		b.closed = true
		close(b.done)
	}
}

// reopen replaces a released batch with a fresh one that keeps its errors.
// Must be called with q.mu held.
func (q *TaskQueue) reopen() {
	next := newBatch()
	next.errs = q.batch.errs
	q.batch = next
	q.sealed.Store(false)
}
