package physics

import (
	"context"
	"math"

	"github.com/utkarsh5026/gridpool/internal/grid"
)

// BaselineTemp is read for neighbours outside the grid.
const BaselineTemp = 30.0

var heatKernel = [3][3]float64{
	{0.05, 0.1, 0.05},
	{0.1, 0.4, 0.1},
	{0.05, 0.1, 0.05},
}

// Heat diffuses temperature with a 3x3 convolution per step.
type Heat struct {
	doubleBuffer
}

// NewHeat starts a diffusion from a copy of initial.
func NewHeat(initial *grid.Grid) *Heat {
	return &Heat{doubleBuffer: newDoubleBuffer(initial)}
}

// HeatSource returns an n x n map at the baseline temperature with a
// Gaussian hot spot of 1000 degrees at the centre.
func HeatSource(n int) *grid.Grid {
	g := grid.New(n, n)
	sigma := 0.1 * float64(n)
	centre := float64(n) / 2
	for r := range n {
		for c := range n {
			dr, dc := float64(r)-centre, float64(c)-centre
			g.Set(r, c, BaselineTemp+1000*math.Exp(-(dr*dr+dc*dc)/(2*sigma*sigma)))
		}
	}
	return g
}

func (h *Heat) Name() string { return "heat" }

func (h *Heat) Compute(ctx context.Context, step int, dst grid.Band) error {
	src := h.source(step)
	rows, cols := src.Rows(), src.Cols()

	band := dst.Rows()
	for r := band.Start; r < band.End; r++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		out := dst.Row(r)
		for c := range cols {
			var sum float64
			for ki := range 3 {
				in := r + ki - 1
				for kj := range 3 {
					jn := c + kj - 1
					v := BaselineTemp
					if in >= 0 && in < rows && jn >= 0 && jn < cols {
						v = src.At(in, jn)
					}
					sum += v * heatKernel[ki][kj]
				}
			}
			out[c] = sum
		}
	}
	return nil
}
