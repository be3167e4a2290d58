// Package pool provides a fixed pool of worker goroutines draining a shared
// FIFO task queue, with completion accounting per batch.
//
// The engine is built for step-driven grid computations: every time step is
// a batch of independent tasks (typically one per row band of the grid), and
// no task of step s+1 may start before all tasks of step s have finished.
// The same queue and the same workers serve every step.
//
// # Basic Usage
//
//	ctx := context.Background()
//	p := pool.NewPool(pool.WithWorkerCount(4))
//	if err := p.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Shutdown(5 * time.Second)
//
//	for step := range steps {
//	    tasks := make([]pool.Task, 0, bands)
//	    for _, b := range bandsFor(step) {
//	        tasks = append(tasks, pool.NewTask(p.NextID(), func(ctx context.Context) error {
//	            return compute(step, b)
//	        }))
//	    }
//	    if err := p.RunBatch(ctx, tasks); err != nil {
//	        return err
//	    }
//	}
//
// # Driving the Queue Directly
//
// TaskQueue and Worker can be used without Pool:
//
//	q := pool.NewTaskQueue()
//	w := pool.NewWorker(ctx, 0, q)
//	q.Enqueue(task)
//	err := q.Wait(ctx)     // seal the batch and block until it completed
//	_ = q.ResetCounters()  // open the next batch
//	q.SignalShutdown()
//	w.Exit()
//
// Wait is the batch barrier. Poll is the sleep-poll alternative that also
// reports progress; it must only be called after the batch was enqueued.
//
// # Configuration Options
//
//   - WithWorkerCount(n): number of workers (default: GOMAXPROCS)
//   - WithRetryPolicy(maxAttempts, initialDelay): re-execute failing tasks
//   - WithBackoff(type, maxDelay, jitter): delay curve between retries
//   - WithRateLimit(tasksPerSecond, burst): throttle task starts
//   - WithCPUAffinity(true): pin each worker to its own core
//   - WithBeforeTaskStart / WithOnTaskEnd / WithOnRetry: hooks
//
// # Error Handling
//
// A task reports failure by returning an error from Execute. Panics are
// recovered and converted to errors with a stack trace. Failures do not stop
// the batch; they are collected as *TaskError values and returned joined by
// Wait, Poll and RunBatch once every task of the batch has finished.
package pool
