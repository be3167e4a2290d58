package sim

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/utkarsh5026/gridpool/internal/grid"
	"github.com/utkarsh5026/gridpool/pool"
)

var (
	ErrEmptyGrid = errors.New("model has no rows")
	ErrNotIdle   = errors.New("simulation already ran")
	ErrBadSteps  = errors.New("step count must not be negative")
)

// State is the orchestrator's position in a run.
type State int32

const (
	StateIdle State = iota
	StateDispatching
	StateAwaitingCompletion
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatching:
		return "dispatching"
	case StateAwaitingCompletion:
		return "awaiting-completion"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Stats summarizes a finished run.
type Stats struct {
	Model   string
	Mode    string
	Steps   int
	Workers int
	Tasks   int64 // tasks executed over the whole run
	Elapsed time.Duration
}

// Simulation drives a Model on a worker pool, one batch of row-band tasks
// per step. Step s+1 is not dispatched until every task of step s has
// completed, so bands never observe a half-written step.
type Simulation struct {
	model Model
	conf  *config
	log   zerolog.Logger

	state atomic.Int32
	step  atomic.Int64
}

func New(model Model, opts ...Option) *Simulation {
	conf := newConfig(opts...)
	log := conf.logger.With().Str("model", model.Name()).Str("mode", "pool").Logger()

	onPinErr := pool.WithOnAffinityError(func(id int, err error) {
		log.Warn().Err(err).Int("worker", id).Msg("cpu pinning failed, worker runs unpinned")
	})
	conf.poolOpts = append([]pool.WorkerPoolOption{onPinErr}, conf.poolOpts...)

	return &Simulation{model: model, conf: conf, log: log}
}

func (s *Simulation) State() State { return State(s.state.Load()) }

// Step returns the step being dispatched or awaited.
func (s *Simulation) Step() int { return int(s.step.Load()) }

func (s *Simulation) setState(st State) {
	s.state.Store(int32(st))
}

// Run starts a pool, advances the model by steps and tears the pool down.
// A Simulation runs once.
func (s *Simulation) Run(ctx context.Context, steps int) (stats Stats, err error) {
	if steps < 0 {
		return Stats{}, ErrBadSteps
	}
	rows, _ := s.model.Dims()
	if rows <= 0 {
		return Stats{}, ErrEmptyGrid
	}
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateDispatching)) {
		return Stats{}, ErrNotIdle
	}
	defer s.setState(StateDone)

	p := pool.NewPool(s.conf.poolOpts...)
	if err := p.Start(ctx); err != nil {
		return Stats{}, err
	}
	defer func() {
		if dropped := p.Queue().Clear(); dropped > 0 {
			s.log.Warn().Int("dropped", dropped).Msg("dropped pending tasks")
		}
		if serr := p.Shutdown(s.conf.shutdownTimeout); serr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown: %w", serr))
		}
	}()

	ranges := grid.Partition(rows, p.WorkerCount()*s.conf.tasksPerWorker)
	stats = Stats{Model: s.model.Name(), Mode: "pool", Workers: p.WorkerCount()}

	s.log.Info().
		Int("workers", p.WorkerCount()).
		Int("tasks_per_step", len(ranges)).
		Str("barrier", s.conf.barrier.String()).
		Int("steps", steps).
		Msg("simulation started")

	start := time.Now()
	for step := range steps {
		stepStart := time.Now()
		if err := s.runStep(ctx, p, step, ranges); err != nil {
			s.log.Error().Err(err).Int("step", step).Msg("step failed")
			return stats, fmt.Errorf("step %d: %w", step, err)
		}

		if step == steps-1 {
			s.setState(StateDone)
		} else {
			s.setState(StateDispatching)
		}
		s.model.Commit(step)
		stats.Steps++
		stats.Tasks += int64(len(ranges))

		elapsed := time.Since(stepStart)
		s.log.Debug().Int("step", step).Dur("elapsed", elapsed).Msg("step completed")
		if s.conf.observer != nil {
			s.conf.observer(StepStats{Step: step, Tasks: len(ranges), Elapsed: elapsed})
		}
	}
	stats.Elapsed = time.Since(start)

	s.log.Info().Dur("elapsed", stats.Elapsed).Int64("tasks", stats.Tasks).Msg("simulation finished")
	return stats, nil
}

func (s *Simulation) runStep(ctx context.Context, p *pool.Pool, step int, ranges []grid.RowRange) error {
	s.setState(StateDispatching)
	s.step.Store(int64(step))

	bands, err := s.model.Target(step).Bands(ranges)
	if err != nil {
		return err
	}

	base := int64(step) * int64(len(bands))
	tasks := make([]pool.Task, len(bands))
	for i, b := range bands {
		tasks[i] = &bandTask{id: base + int64(i), step: step, band: b, model: s.model}
	}
	s.log.Debug().Int("step", step).Int("tasks", len(tasks)).Msg("dispatching step")

	if s.conf.barrier == BarrierSignal {
		s.setState(StateAwaitingCompletion)
		return p.RunBatch(ctx, tasks)
	}

	if err := p.Submit(tasks...); err != nil {
		return err
	}
	s.setState(StateAwaitingCompletion)

	q := p.Queue()
	err = q.Poll(ctx, s.conf.pollInterval, func(completed, total int64) {
		s.log.Trace().Int("step", step).Int64("completed", completed).Int64("total", total).Msg("waiting")
	})
	if !q.IsComplete() {
		return err
	}
	if rerr := q.ResetCounters(); rerr != nil {
		return errors.Join(err, rerr)
	}
	return err
}
