package physics

import (
	"errors"

	"github.com/utkarsh5026/gridpool/internal/grid"
)

var ErrNonFinite = errors.New("non-finite value")

// doubleBuffer alternates between two grids: step s reads bufs[s%2] and
// writes bufs[(s+1)%2], so bands of one step never read what a sibling band
// is writing.
type doubleBuffer struct {
	bufs  [2]*grid.Grid
	steps int
}

func newDoubleBuffer(initial *grid.Grid) doubleBuffer {
	return doubleBuffer{bufs: [2]*grid.Grid{initial.Clone(), initial.Clone()}}
}

func (d *doubleBuffer) Dims() (int, int) { return d.bufs[0].Rows(), d.bufs[0].Cols() }

func (d *doubleBuffer) source(step int) *grid.Grid { return d.bufs[step%2] }

func (d *doubleBuffer) Target(step int) *grid.Grid { return d.bufs[(step+1)%2] }

// Commit records that every band of step has been written.
func (d *doubleBuffer) Commit(step int) { d.steps = step + 1 }

// Result returns the grid holding the latest committed step.
func (d *doubleBuffer) Result() *grid.Grid { return d.bufs[d.steps%2] }

// Steps returns the number of committed steps.
func (d *doubleBuffer) Steps() int { return d.steps }
