// Command gridsim runs a grid workload with the sequential, pool and halo
// runners and compares their timings and results.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/utkarsh5026/gridpool/internal/grid"
	"github.com/utkarsh5026/gridpool/internal/sim"
	"github.com/utkarsh5026/gridpool/pool"
)

// result is one runner's outcome.
type result struct {
	stats  sim.Stats
	grid   *grid.Grid
	err    error
	output string
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		_, _ = red.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(o.logLevel).
		With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, o, log); err != nil {
		_, _ = red.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o *options, log zerolog.Logger) error {
	factory, err := newModelFactory(o, log)
	if err != nil {
		return err
	}
	if !o.noOutput {
		if err := os.MkdirAll(o.outputDir, 0o755); err != nil {
			return err
		}
	}

	rows, cols := factory().Dims()
	printConfig(os.Stdout, o, rows, cols)

	results := make(map[string]*result, len(o.modes))
	for _, mode := range o.modes {
		res := runMode(ctx, o, mode, factory, log)
		results[mode] = res
		if res.err != nil {
			log.Error().Err(res.err).Str("mode", mode).Msg("run failed")
			continue
		}
		if !o.noOutput {
			res.output = filepath.Join(o.outputDir, fmt.Sprintf("%s_%s.csv", o.model, mode))
			if err := grid.SaveFile(res.output, res.grid); err != nil {
				return fmt.Errorf("save %s: %w", res.output, err)
			}
			log.Debug().Str("file", res.output).Msg("result written")
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	renderTimings(o, results)

	if o.validate {
		ref := results["sequential"]
		if ref == nil {
			ref = runMode(ctx, o, "sequential", factory, log)
		}
		if ref.err != nil {
			return fmt.Errorf("sequential reference: %w", ref.err)
		}
		return renderValidation(o, ref, results)
	}
	return nil
}

func runMode(ctx context.Context, o *options, mode string, factory modelFactory, log zerolog.Logger) *result {
	m := factory()
	bar := makeProgressBar(mode, o.steps)
	defer func() { _ = bar.Finish() }()

	opts := []sim.Option{
		sim.WithLogger(log),
		sim.WithObserver(func(sim.StepStats) { _ = bar.Add(1) }),
	}

	var (
		stats sim.Stats
		err   error
	)
	switch mode {
	case "sequential":
		stats, err = sim.RunSequential(ctx, m, o.steps, opts...)
	case "halo":
		stats, err = sim.RunHalo(ctx, m, o.steps, o.workers, opts...)
	default:
		opts = append(opts,
			sim.WithTasksPerWorker(o.tasksPerWorker),
			sim.WithPoolOptions(
				pool.WithWorkerCount(o.workers),
				pool.WithCPUAffinity(o.affinity),
			))
		if o.barrier == sim.BarrierPoll {
			opts = append(opts, sim.WithPolling(o.pollInterval))
		}
		stats, err = sim.New(m, opts...).Run(ctx, o.steps)
	}

	return &result{stats: stats, grid: m.Result(), err: err}
}

func makeProgressBar(mode string, steps int) *progressbar.ProgressBar {
	return progressbar.NewOptions(steps,
		progressbar.OptionSetDescription(fmt.Sprintf("%-10s", mode)),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
