package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/utkarsh5026/gridpool/internal/grid"
)

// RunSequential advances m by steps on the calling goroutine, one band
// covering the whole grid per step. It is the reference the parallel
// runners are checked against.
func RunSequential(ctx context.Context, m Model, steps int, opts ...Option) (Stats, error) {
	if steps < 0 {
		return Stats{}, ErrBadSteps
	}
	rows, _ := m.Dims()
	if rows <= 0 {
		return Stats{}, ErrEmptyGrid
	}

	conf := newConfig(opts...)
	log := conf.logger.With().Str("model", m.Name()).Str("mode", "sequential").Logger()
	whole := []grid.RowRange{{Start: 0, End: rows}}

	stats := Stats{Model: m.Name(), Mode: "sequential", Workers: 1}
	start := time.Now()
	for step := range steps {
		stepStart := time.Now()

		bands, err := m.Target(step).Bands(whole)
		if err != nil {
			return stats, fmt.Errorf("step %d: %w", step, err)
		}
		if err := m.Compute(ctx, step, bands[0]); err != nil {
			return stats, fmt.Errorf("step %d: %w", step, err)
		}
		m.Commit(step)
		stats.Steps++
		stats.Tasks++

		elapsed := time.Since(stepStart)
		log.Debug().Int("step", step).Dur("elapsed", elapsed).Msg("step completed")
		if conf.observer != nil {
			conf.observer(StepStats{Step: step, Tasks: 1, Elapsed: elapsed})
		}
	}
	stats.Elapsed = time.Since(start)

	log.Info().Dur("elapsed", stats.Elapsed).Msg("simulation finished")
	return stats, nil
}
