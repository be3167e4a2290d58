// Package grid holds the flat row-major buffers the simulations write to and
// the row partitioning used to split them between concurrent writers.
package grid

import (
	"errors"
	"fmt"
	"math"
)

var ErrDimensionMismatch = errors.New("grid dimensions do not match")

// Grid is a rows x cols matrix stored row-major in one flat slice.
type Grid struct {
	rows, cols int
	data       []float64
}

// New allocates a zeroed rows x cols grid.
func New(rows, cols int) *Grid {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("grid: negative dimensions %dx%d", rows, cols))
	}
	return &Grid{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// FromSlice wraps data as a rows x cols grid without copying it.
func FromSlice(rows, cols int, data []float64) (*Grid, error) {
	if rows < 0 || cols < 0 || len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for %dx%d", ErrDimensionMismatch, len(data), rows, cols)
	}
	return &Grid{rows: rows, cols: cols, data: data}, nil
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// Data returns the underlying row-major slice.
func (g *Grid) Data() []float64 { return g.data }

func (g *Grid) At(r, c int) float64 { return g.data[r*g.cols+c] }

func (g *Grid) Set(r, c int, v float64) { g.data[r*g.cols+c] = v }

// Row returns row r as a slice aliasing the grid.
func (g *Grid) Row(r int) []float64 {
	return g.data[r*g.cols : (r+1)*g.cols]
}

// Fill sets every cell to v.
func (g *Grid) Fill(v float64) {
	for i := range g.data {
		g.data[i] = v
	}
}

func (g *Grid) Clone() *Grid {
	c := New(g.rows, g.cols)
	copy(c.data, g.data)
	return c
}

// CopyFrom overwrites g with src.
func (g *Grid) CopyFrom(src *Grid) error {
	if g.rows != src.rows || g.cols != src.cols {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, g.rows, g.cols, src.rows, src.cols)
	}
	copy(g.data, src.data)
	return nil
}

// Equal reports whether both grids have the same shape and bit-identical cells.
func (g *Grid) Equal(o *Grid) bool {
	if g.rows != o.rows || g.cols != o.cols {
		return false
	}
	for i, v := range g.data {
		if math.Float64bits(v) != math.Float64bits(o.data[i]) {
			return false
		}
	}
	return true
}

// Diff summarizes how far two grids deviate.
type Diff struct {
	MaxAbs float64 // largest absolute cell difference
	Count  int     // cells differing by more than the tolerance
}

// Compare returns the cell-wise deviation of b from a, counting cells that
// differ by more than eps.
func Compare(a, b *Grid, eps float64) (Diff, error) {
	if a.rows != b.rows || a.cols != b.cols {
		return Diff{}, fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, a.rows, a.cols, b.rows, b.cols)
	}

	var d Diff
	for i, v := range a.data {
		diff := math.Abs(v - b.data[i])
		if diff > d.MaxAbs || math.IsNaN(diff) {
			d.MaxAbs = diff
		}
		if diff > eps || math.IsNaN(diff) {
			d.Count++
		}
	}
	return d, nil
}
