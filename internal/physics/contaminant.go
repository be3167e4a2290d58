package physics

import (
	"context"
	"fmt"
	"math"

	"github.com/utkarsh5026/gridpool/internal/grid"
)

// ContaminantParams configures the advection-diffusion-decay model.
type ContaminantParams struct {
	WindX, WindY float64 // m/s, upwind differenced
	Diffusion    float64 // m^2/s
	Decay        float64 // 1/s, decay plus deposition
	DX, DY       float64 // m
	DT           float64 // s
	Source       float64 // initial concentration at the centre cell
	Threshold    float64 // below this a cell counts as uncontaminated
}

func DefaultContaminantParams() ContaminantParams {
	return ContaminantParams{
		WindX:     3.3,
		WindY:     1.4,
		Diffusion: 1000,
		Decay:     3e-5 + 1e-4,
		DX:        10,
		DY:        10,
		DT:        1,
		Source:    1000,
		Threshold: 1e-10,
	}
}

// DiffusionNumber is D*dt*(1/dx^2 + 1/dy^2). The explicit scheme is only
// stable while it stays at or below 0.5.
func (p ContaminantParams) DiffusionNumber() float64 {
	return p.Diffusion * p.DT * (1/(p.DX*p.DX) + 1/(p.DY*p.DY))
}

// Contaminant integrates a point release with forward Euler. Border cells
// are held at zero and concentrations are clamped at zero.
type Contaminant struct {
	doubleBuffer
	params ContaminantParams
}

func NewContaminant(rows, cols int, params ContaminantParams) *Contaminant {
	g := grid.New(rows, cols)
	if rows > 2 && cols > 2 {
		g.Set(rows/2, cols/2, params.Source)
	}
	return NewContaminantFrom(g, params)
}

// NewContaminantFrom starts from a copy of initial with the border zeroed.
func NewContaminantFrom(initial *grid.Grid, params ContaminantParams) *Contaminant {
	g := initial.Clone()
	rows, cols := g.Rows(), g.Cols()
	for r := range rows {
		if r == 0 || r == rows-1 {
			clear(g.Row(r))
			continue
		}
		g.Set(r, 0, 0)
		g.Set(r, cols-1, 0)
	}
	return &Contaminant{doubleBuffer: newDoubleBuffer(g), params: params}
}

func (m *Contaminant) Name() string { return "contaminant" }

func (m *Contaminant) Params() ContaminantParams { return m.params }

func (m *Contaminant) Compute(ctx context.Context, step int, dst grid.Band) error {
	src := m.source(step)
	rows, cols := src.Rows(), src.Cols()
	p := m.params

	band := dst.Rows()
	for r := band.Start; r < band.End; r++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		out := dst.Row(r)
		if r == 0 || r == rows-1 || cols < 3 {
			clear(out)
			continue
		}

		up, cur, down := src.Row(r-1), src.Row(r), src.Row(r+1)
		out[0], out[cols-1] = 0, 0
		for c := 1; c < cols-1; c++ {
			v := cur[c]
			advection := p.WindX*(v-up[c])/p.DX + p.WindY*(v-cur[c-1])/p.DY
			diffusion := p.Diffusion*(down[c]-2*v+up[c])/(p.DX*p.DX) +
				p.Diffusion*(cur[c+1]-2*v+cur[c-1])/(p.DY*p.DY)

			next := v + p.DT*(-advection+diffusion-p.Decay*v)
			if math.IsNaN(next) || math.IsInf(next, 0) {
				return fmt.Errorf("%w at (%d,%d) in step %d", ErrNonFinite, r, c, step)
			}
			out[c] = max(0, next)
		}
	}
	return nil
}

// Uncontaminated counts cells of the latest committed step below the
// threshold.
func (m *Contaminant) Uncontaminated() int {
	n := 0
	for _, v := range m.Result().Data() {
		if v < m.params.Threshold {
			n++
		}
	}
	return n
}

// Total returns the summed concentration of the latest committed step.
func (m *Contaminant) Total() float64 {
	var sum float64
	for _, v := range m.Result().Data() {
		sum += v
	}
	return sum
}
