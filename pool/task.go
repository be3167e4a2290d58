package pool

import (
	"context"
	"fmt"
)

// Task is one self-contained unit of work. Execute runs to completion before
// returning; there is no partial progress. A Task is handed to the queue by
// its creator and executed by exactly one worker.
type Task interface {
	// ID identifies the task within a run.
	ID() int64

	// Execute performs the work. A non-nil error is recorded against the
	// batch the task belongs to.
	Execute(ctx context.Context) error
}

// TaskFunc is the body of a closure-backed Task.
type TaskFunc func(ctx context.Context) error

type funcTask struct {
	id int64
	fn TaskFunc
}

// NewTask wraps fn as a Task with the given id.
//
// Example:
//
//	t := pool.NewTask(7, func(ctx context.Context) error {
//	    return kernel(ctx, band)
//	})
func NewTask(id int64, fn TaskFunc) Task {
	return &funcTask{id: id, fn: fn}
}

func (t *funcTask) ID() int64 { return t.id }

func (t *funcTask) Execute(ctx context.Context) error {
	return t.fn(ctx)
}

// TaskError records the failure of a single task.
type TaskError struct {
	ID  int64
	Err error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %d: %v", e.ID, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}
