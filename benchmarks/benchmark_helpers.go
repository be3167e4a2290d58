package benchmarks

import (
	"context"
	"testing"
	"time"

	"github.com/utkarsh5026/gridpool/internal/physics"
	"github.com/utkarsh5026/gridpool/internal/sim"
	"github.com/utkarsh5026/gridpool/pool"
)

// cpuBoundWork burns iterations of arithmetic per task.
func cpuBoundWork(iterations int) pool.TaskFunc {
	return func(ctx context.Context) error {
		result := 0
		for i := range iterations {
			result += i * i
		}
		sink = result
		return nil
	}
}

// ioBoundWork waits delay per task.
func ioBoundWork(delay time.Duration) pool.TaskFunc {
	return func(ctx context.Context) error {
		select {
		case <-time.After(delay):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

var sink int

func makeTasks(p *pool.Pool, n int, fn pool.TaskFunc) []pool.Task {
	tasks := make([]pool.Task, n)
	for i := range tasks {
		tasks[i] = pool.NewTask(p.NextID(), fn)
	}
	return tasks
}

func startPool(b testing.TB, opts ...pool.WorkerPoolOption) *pool.Pool {
	p := pool.NewPool(opts...)
	if err := p.Start(context.Background()); err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = p.Shutdown(10 * time.Second) })
	return p
}

type modelCase struct {
	name string
	new  func(n int) sim.Model
}

var models = []modelCase{
	{"blast", func(n int) sim.Model { return physics.NewBlast(n, n, physics.DefaultBlastParams()) }},
	{"heat", func(n int) sim.Model { return physics.NewHeat(physics.HeatSource(n)) }},
	{"contaminant", func(n int) sim.Model {
		p := physics.DefaultContaminantParams()
		p.Diffusion = 1
		return physics.NewContaminant(n, n, p)
	}},
}
