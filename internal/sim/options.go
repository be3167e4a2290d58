package sim

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/utkarsh5026/gridpool/pool"
)

// Barrier selects how the orchestrator waits for a step's batch.
type Barrier int

const (
	// BarrierSignal blocks on the batch's completion signal.
	BarrierSignal Barrier = iota
	// BarrierPoll checks the completion counters on a fixed interval.
	BarrierPoll
)

func (b Barrier) String() string {
	switch b {
	case BarrierSignal:
		return "signal"
	case BarrierPoll:
		return "poll"
	default:
		return fmt.Sprintf("Barrier(%d)", int(b))
	}
}

// ParseBarrier is the inverse of Barrier.String.
func ParseBarrier(s string) (Barrier, error) {
	switch s {
	case "signal":
		return BarrierSignal, nil
	case "poll":
		return BarrierPoll, nil
	}
	return 0, fmt.Errorf("unknown barrier %q", s)
}

// StepStats describes one completed step.
type StepStats struct {
	Step    int
	Tasks   int
	Elapsed time.Duration
}

// Observer is notified after every finished step.
type Observer func(StepStats)

type Option func(*config)

type config struct {
	tasksPerWorker  int
	poolOpts        []pool.WorkerPoolOption
	logger          zerolog.Logger
	observer        Observer
	barrier         Barrier
	pollInterval    time.Duration
	shutdownTimeout time.Duration
}

func newConfig(opts ...Option) *config {
	c := &config{
		tasksPerWorker:  4,
		logger:          zerolog.Nop(),
		barrier:         BarrierSignal,
		pollInterval:    2 * time.Millisecond,
		shutdownTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithTasksPerWorker sets how many row bands each worker gets per step.
// Values below 1 are ignored.
func WithTasksPerWorker(k int) Option {
	return func(c *config) {
		if k >= 1 {
			c.tasksPerWorker = k
		}
	}
}

// WithPoolOptions configures the worker pool the simulation runs on.
func WithPoolOptions(opts ...pool.WorkerPoolOption) Option {
	return func(c *config) {
		c.poolOpts = append(c.poolOpts, opts...)
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

func WithObserver(o Observer) Option {
	return func(c *config) {
		c.observer = o
	}
}

// WithPolling replaces the completion signal with counter polling every
// interval.
func WithPolling(interval time.Duration) Option {
	return func(c *config) {
		c.barrier = BarrierPoll
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// WithShutdownTimeout bounds how long teardown waits for workers. A
// non-positive timeout waits forever.
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *config) {
		c.shutdownTimeout = d
	}
}
