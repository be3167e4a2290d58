package pool

import (
	"context"
	"sync/atomic"

	"github.com/utkarsh5026/gridpool/internal/cpu"
)

// pinWorker is swapped out by tests.
var pinWorker = cpu.Pin

// Worker owns one background goroutine that drains a TaskQueue: dequeue,
// execute, mark complete, repeat. It exits when the queue hands it the
// shutdown sentinel or, after Exit, once no task is left pending.
//
// A Worker only talks to the queue through its exported methods.
type Worker struct {
	id    int
	queue *TaskQueue
	exec  *executor
	conf  *workerPoolConfig

	stop atomic.Bool
	done chan struct{}
}

// NewWorker starts a worker bound to q. ctx is passed to every task it
// executes; cancelling it does not stop the worker, SignalShutdown does.
func NewWorker(ctx context.Context, id int, q *TaskQueue, opts ...WorkerPoolOption) *Worker {
	conf := createConfig(opts...)
	return startWorker(ctx, id, q, conf, newExecutor(conf))
}

func startWorker(ctx context.Context, id int, q *TaskQueue, conf *workerPoolConfig, exec *executor) *Worker {
	w := &Worker{
		id:    id,
		queue: q,
		exec:  exec,
		conf:  conf,
		done:  make(chan struct{}),
	}
	go w.run(ctx)
	return w
}

// ID returns the worker's index within its pool.
func (w *Worker) ID() int {
	return w.id
}

// Done is closed when the worker's goroutine has returned.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Exit sets the stop flag and waits for the goroutine to return. The worker
// finishes its current task and keeps taking pending ones until the queue is
// empty. A worker blocked in Dequeue only returns once the queue is shut down
// or hands it a task, so callers signal shutdown on the queue first.
func (w *Worker) Exit() {
	w.stop.Store(true)
	<-w.done
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)

	if w.conf.cpuAffinity {
		release, err := pinWorker(w.id)
		if err != nil {
			debugLog("worker %d: cpu pinning failed: %v", w.id, err)
			if w.conf.onAffinityError != nil {
				w.conf.onAffinityError(w.id, err)
			}
		}
		defer release()
	}

	for {
		if w.stop.Load() && w.queue.Len() == 0 {
			return
		}

		t, ok := w.queue.Dequeue()
		if !ok {
			debugLog("worker %d: shutdown", w.id)
			return
		}

		err := w.exec.execute(ctx, t)
		w.queue.MarkComplete(t, err)
	}
}
