package grid

import "fmt"

// Band is an exclusive write handle on a contiguous range of a grid's rows.
// Bands handed out by one Bands call never share a cell, so each can be
// given to a different goroutine without locking. Writes outside the band
// panic instead of silently racing with a neighbour.
type Band struct {
	rows  RowRange
	cols  int
	cells []float64
}

// Bands validates that ranges partition g's rows and returns one Band per
// range, in the order given.
func (g *Grid) Bands(ranges []RowRange) ([]Band, error) {
	if err := ValidatePartition(ranges, g.rows); err != nil {
		return nil, err
	}

	bands := make([]Band, len(ranges))
	for i, r := range ranges {
		bands[i] = Band{
			rows:  r,
			cols:  g.cols,
			cells: g.data[r.Start*g.cols : r.End*g.cols : r.End*g.cols],
		}
	}
	return bands, nil
}

// Rows returns the band's row range in grid coordinates.
func (b Band) Rows() RowRange { return b.rows }

func (b Band) Cols() int { return b.cols }

// Row returns grid row r, which must lie inside the band.
func (b Band) Row(r int) []float64 {
	off := b.offset(r)
	return b.cells[off : off+b.cols]
}

// Set writes cell (r, c) in grid coordinates.
func (b Band) Set(r, c int, v float64) {
	b.Row(r)[c] = v
}

func (b Band) At(r, c int) float64 {
	return b.Row(r)[c]
}

func (b Band) offset(r int) int {
	if !b.rows.Contains(r) {
		panic(fmt.Sprintf("grid: row %d outside band %v", r, b.rows))
	}
	return (r - b.rows.Start) * b.cols
}
