package sim

import (
	"context"

	"github.com/utkarsh5026/gridpool/internal/grid"
	"github.com/utkarsh5026/gridpool/pool"
)

// Model is a stencil computation advanced one step at a time.
//
// Compute writes step into dst, a band of Target(step). It may read anything
// produced by step-1 but must not read rows of Target(step) outside dst, so
// bands of the same step can run concurrently. Commit is called once every
// band of step has been computed.
type Model interface {
	Name() string
	Dims() (rows, cols int)
	Target(step int) *grid.Grid
	Compute(ctx context.Context, step int, dst grid.Band) error
	Commit(step int)
	Result() *grid.Grid
}

// bandTask computes one row band of one step.
type bandTask struct {
	id    int64
	step  int
	band  grid.Band
	model Model
}

var _ pool.Task = (*bandTask)(nil)

func (t *bandTask) ID() int64 { return t.id }

func (t *bandTask) Execute(ctx context.Context) error {
	return t.model.Compute(ctx, t.step, t.band)
}
