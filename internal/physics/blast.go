package physics

import (
	"context"
	"math"

	"github.com/utkarsh5026/gridpool/internal/grid"
)

// Kingery-Bulmash polynomial for peak incident overpressure of a surface
// burst, in kPa.
var kbCoeffs = [...]float64{
	2.611369, -1.690128, 0.00805, 0.336743, -0.005162,
	-0.080923, -0.004785, 0.007930, 0.000768,
}

const speedOfSound = 343.0 // m/s

type BlastParams struct {
	YieldKT  float64 // kilotons TNT
	CellSize float64 // metres per cell
}

func DefaultBlastParams() BlastParams {
	return BlastParams{YieldKT: 5000, CellSize: 10}
}

// Blast maps the peak overpressure of a detonation at the grid centre. At
// step t every cell the shock front has reached holds its peak overpressure;
// cells not yet reached stay zero. It keeps a single buffer and each step
// rewrites reached cells with the same value, so steps are idempotent.
type Blast struct {
	params BlastParams
	g      *grid.Grid
	steps  int
}

func NewBlast(rows, cols int, params BlastParams) *Blast {
	return &Blast{params: params, g: grid.New(rows, cols)}
}

func (b *Blast) Name() string { return "blast" }

func (b *Blast) Dims() (int, int) { return b.g.Rows(), b.g.Cols() }

func (b *Blast) Target(int) *grid.Grid { return b.g }

func (b *Blast) Compute(ctx context.Context, step int, dst grid.Band) error {
	rows := dst.Rows()
	for r := rows.Start; r < rows.End; r++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := dst.Row(r)
		for c := range row {
			d := b.distance(r, c)
			if float64(step) >= ArrivalTime(d) {
				row[c] = PeakOverpressure(max(d, b.params.CellSize/2), b.params.YieldKT)
			}
		}
	}
	return nil
}

func (b *Blast) Commit(step int) { b.steps = step + 1 }

func (b *Blast) Result() *grid.Grid { return b.g }

// distance from the grid centre in metres. The overpressure of the centre
// cell is evaluated half a cell out so the scaled distance stays positive.
func (b *Blast) distance(r, c int) float64 {
	dr := float64(r) - float64(b.g.Rows())/2
	dc := float64(c) - float64(b.g.Cols())/2
	return math.Sqrt(dr*dr+dc*dc) * b.params.CellSize
}

// PeakOverpressure returns the Kingery-Bulmash peak overpressure in kPa at
// distance metres from a burst of yieldKT kilotons.
func PeakOverpressure(distance, yieldKT float64) float64 {
	z := distance * math.Pow(yieldKT*1e6, -1.0/3.0)
	u := -0.21436 + 1.35034*math.Log10(z)

	var logP, pow float64 = 0, 1
	for _, k := range kbCoeffs {
		logP += k * pow
		pow *= u
	}
	return math.Pow(10, logP)
}

// ArrivalTime is when the shock front reaches distance metres, in seconds.
func ArrivalTime(distance float64) float64 {
	return distance / speedOfSound
}
