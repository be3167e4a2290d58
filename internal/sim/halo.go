package sim

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/gridpool/internal/grid"
)

// RunHalo advances m by steps with one goroutine per row band and no global
// barrier. Each band only waits for its two neighbours: before computing
// step s it needs both of them to have finished step s-1, which is when the
// rows it reads across the band edge are final and nobody still reads the
// rows it is about to overwrite. Neighbours announce finished steps over
// channels.
//
// parts is clamped the same way as grid.Partition. The observer is called
// each time the first band finishes a step; the other bands are at most one
// step behind or ahead of it.
func RunHalo(ctx context.Context, m Model, steps, parts int, opts ...Option) (Stats, error) {
	if steps < 0 {
		return Stats{}, ErrBadSteps
	}
	rows, _ := m.Dims()
	if rows <= 0 {
		return Stats{}, ErrEmptyGrid
	}

	conf := newConfig(opts...)
	ranges := grid.Partition(rows, parts)
	n := len(ranges)
	log := conf.logger.With().Str("model", m.Name()).Str("mode", "halo").Int("bands", n).Logger()

	// down[i] carries band i's finished steps to band i+1, up[i] carries
	// band i+1's to band i. A band is never more than one step ahead of a
	// neighbour, so two slots are enough for sends never to block.
	down := make([]chan int, max(n-1, 0))
	up := make([]chan int, max(n-1, 0))
	for i := range down {
		down[i] = make(chan int, 2)
		up[i] = make(chan int, 2)
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for i := range n {
		var fromPrev, fromNext, toPrev, toNext chan int
		if i > 0 {
			fromPrev, toPrev = down[i-1], up[i-1]
		}
		if i < n-1 {
			fromNext, toNext = up[i], down[i]
		}

		g.Go(func() error {
			for step := range steps {
				stepStart := time.Now()
				if step > 0 {
					for _, ch := range []chan int{fromPrev, fromNext} {
						if err := await(gctx, ch, step-1); err != nil {
							return err
						}
					}
				}

				bands, err := m.Target(step).Bands(ranges)
				if err != nil {
					return err
				}
				if err := m.Compute(gctx, step, bands[i]); err != nil {
					return fmt.Errorf("step %d band %v: %w", step, ranges[i], err)
				}

				for _, ch := range []chan int{toPrev, toNext} {
					if err := announce(gctx, ch, step); err != nil {
						return err
					}
				}

				if i == 0 && conf.observer != nil {
					conf.observer(StepStats{Step: step, Tasks: n, Elapsed: time.Since(stepStart)})
				}
			}
			return nil
		})
	}

	stats := Stats{Model: m.Name(), Mode: "halo", Workers: n}
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("simulation failed")
		return stats, err
	}

	for step := range steps {
		m.Commit(step)
	}
	stats.Steps = steps
	stats.Tasks = int64(steps) * int64(n)
	stats.Elapsed = time.Since(start)

	log.Info().Dur("elapsed", stats.Elapsed).Msg("simulation finished")
	return stats, nil
}

// await receives the neighbour's announcement of step. A nil channel means
// there is no neighbour on that side.
func await(ctx context.Context, ch <-chan int, step int) error {
	if ch == nil {
		return nil
	}
	select {
	case got := <-ch:
		if got != step {
			return fmt.Errorf("neighbour announced step %d, expected %d", got, step)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func announce(ctx context.Context, ch chan<- int, step int) error {
	if ch == nil {
		return nil
	}
	select {
	case ch <- step:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
