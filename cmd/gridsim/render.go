package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/utkarsh5026/gridpool/internal/grid"
)

// validationEpsilon is the deviation above which a cell counts as different.
const validationEpsilon = 1e-9

var (
	bold  = color.New(color.Bold)
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
	cyan  = color.New(color.FgCyan)
)

func printSectionHeader(w io.Writer, title string) {
	_, _ = fmt.Fprintln(w)
	_, _ = bold.Fprintln(w, "═══════════════════════════════════════════════════════════")
	_, _ = bold.Fprintln(w, title)
	_, _ = bold.Fprintln(w, "═══════════════════════════════════════════════════════════")
	_, _ = fmt.Fprintln(w)
}

// printConfig describes the run. rows and cols come from the model, since an
// input map may not match -size.
func printConfig(w io.Writer, o *options, rows, cols int) {
	printSectionHeader(w, "GRID SIMULATION")
	_, _ = cyan.Fprintf(w, "  Model:     %s\n", o.model)
	_, _ = cyan.Fprintf(w, "  Grid:      %d x %d\n", rows, cols)
	_, _ = cyan.Fprintf(w, "  Steps:     %d\n", o.steps)
	_, _ = cyan.Fprintf(w, "  Workers:   %d (%d bands per worker, %s barrier)\n", o.workers, o.tasksPerWorker, o.barrier)
	_, _ = fmt.Fprintln(w)
}

func renderTimings(o *options, results map[string]*result) {
	printSectionHeader(os.Stdout, "TIMINGS")

	var baseline time.Duration
	if seq := results["sequential"]; seq != nil && seq.err == nil {
		baseline = seq.stats.Elapsed
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Mode", "Workers", "Tasks", "Time", "Per Step", "Speedup", "Output")

	var failed []string
	for _, mode := range o.modes {
		r := results[mode]
		if r.err != nil {
			failed = append(failed, mode)
			continue
		}

		perStep := "-"
		if r.stats.Steps > 0 {
			perStep = (r.stats.Elapsed / time.Duration(r.stats.Steps)).Round(time.Microsecond).String()
		}
		speedup := "-"
		if baseline > 0 && r.stats.Elapsed > 0 {
			speedup = fmt.Sprintf("%.2fx", float64(baseline)/float64(r.stats.Elapsed))
		}
		output := r.output
		if output == "" {
			output = "-"
		}

		_ = table.Append(
			mode,
			fmt.Sprint(r.stats.Workers),
			fmt.Sprint(r.stats.Tasks),
			r.stats.Elapsed.Round(time.Millisecond).String(),
			perStep,
			speedup,
			output,
		)
	}

	if err := table.Render(); err != nil {
		_, _ = red.Println("Error rendering timings table")
	}

	if len(failed) > 0 {
		fmt.Println()
		_, _ = red.Println("⚠️  Failed runs:")
		for _, mode := range failed {
			_, _ = red.Printf("  • %s: %v\n", mode, results[mode].err)
		}
	}
	fmt.Println()
}

func renderValidation(o *options, ref *result, results map[string]*result) error {
	printSectionHeader(os.Stdout, "VALIDATION (against sequential)")

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Mode", "Max Deviation", "Cells > ε", "Identical")

	mismatched := 0
	for _, mode := range o.modes {
		r := results[mode]
		if mode == "sequential" || r.err != nil {
			continue
		}
		d, err := grid.Compare(ref.grid, r.grid, validationEpsilon)
		if err != nil {
			return fmt.Errorf("%s: %w", mode, err)
		}

		identical := ref.grid.Equal(r.grid)
		if d.Count > 0 {
			mismatched++
		}
		_ = table.Append(mode, fmt.Sprintf("%.3g", d.MaxAbs), fmt.Sprint(d.Count), fmt.Sprint(identical))
	}

	if err := table.Render(); err != nil {
		_, _ = red.Println("Error rendering validation table")
	}
	fmt.Println()

	if mismatched > 0 {
		return fmt.Errorf("%d runner(s) deviate from the sequential result", mismatched)
	}
	if slices.ContainsFunc(o.modes, func(m string) bool { return m != "sequential" }) {
		_, _ = green.Println("✅ Parallel results match the sequential result")
	}
	return nil
}
