package main

import (
	"flag"
	"fmt"
	"runtime"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/utkarsh5026/gridpool/internal/sim"
)

var (
	allModels = []string{"blast", "heat", "contaminant"}
	allModes  = []string{"sequential", "pool", "halo"}
)

type options struct {
	model          string
	modes          []string
	size           int
	steps          int
	workers        int
	tasksPerWorker int
	barrier        sim.Barrier
	pollInterval   time.Duration
	affinity       bool
	input          string
	outputDir      string
	noOutput       bool
	validate       bool
	logLevel       zerolog.Level
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("gridsim", flag.ContinueOnError)

	modelFlag := fs.String("model", "blast", "Workload to run: blast, heat or contaminant")
	modeFlag := fs.String("mode", "all", "Runner: sequential, pool, halo or all")
	sizeFlag := fs.Int("size", 1000, "Grid edge length in cells")
	stepsFlag := fs.Int("steps", 100, "Number of time steps")
	workersFlag := fs.Int("workers", runtime.GOMAXPROCS(0), "Worker goroutines (pool) or bands (halo)")
	tasksFlag := fs.Int("tasks-per-worker", 4, "Row bands per worker and step in pool mode")
	barrierFlag := fs.String("barrier", "signal", "How pool mode waits for a step: signal or poll")
	pollFlag := fs.Duration("poll-interval", 2*time.Millisecond, "Polling interval for -barrier poll")
	affinityFlag := fs.Bool("affinity", false, "Pin pool workers to CPU cores")
	inputFlag := fs.String("input", "", "CSV file with the initial map (heat and contaminant)")
	outputFlag := fs.String("output-dir", ".", "Directory for result CSV files")
	noOutputFlag := fs.Bool("no-output", false, "Do not write result CSV files")
	validateFlag := fs.Bool("validate", false, "Compare every parallel result with the sequential one")
	logFlag := fs.String("log-level", "info", "Log level: trace, debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	o := &options{
		model:          *modelFlag,
		size:           *sizeFlag,
		steps:          *stepsFlag,
		workers:        *workersFlag,
		tasksPerWorker: *tasksFlag,
		pollInterval:   *pollFlag,
		affinity:       *affinityFlag,
		input:          *inputFlag,
		outputDir:      *outputFlag,
		noOutput:       *noOutputFlag,
		validate:       *validateFlag,
	}

	if !slices.Contains(allModels, o.model) {
		return nil, fmt.Errorf("unknown model %q", o.model)
	}
	switch {
	case *modeFlag == "all":
		o.modes = allModes
	case slices.Contains(allModes, *modeFlag):
		o.modes = []string{*modeFlag}
	default:
		return nil, fmt.Errorf("unknown mode %q", *modeFlag)
	}
	if o.size < 1 || o.steps < 0 || o.workers < 1 || o.tasksPerWorker < 1 {
		return nil, fmt.Errorf("size, workers and tasks-per-worker must be positive and steps not negative")
	}

	barrier, err := sim.ParseBarrier(*barrierFlag)
	if err != nil {
		return nil, err
	}
	o.barrier = barrier

	level, err := zerolog.ParseLevel(*logFlag)
	if err != nil {
		return nil, err
	}
	o.logLevel = level

	return o, nil
}
