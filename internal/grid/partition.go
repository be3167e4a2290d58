package grid

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrOverlap    = errors.New("row ranges overlap")
	ErrGap        = errors.New("row ranges leave rows uncovered")
	ErrOutOfRange = errors.New("row range outside the grid")
)

// RowRange is the half-open row interval [Start, End).
type RowRange struct {
	Start, End int
}

func (r RowRange) Len() int { return r.End - r.Start }

func (r RowRange) Contains(row int) bool { return row >= r.Start && row < r.End }

func (r RowRange) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End) }

// Partition splits rows into parts contiguous ranges of rows/parts rows each;
// the last range absorbs the remainder. parts is clamped to [1, rows] so no
// range is empty. Zero rows yield no ranges.
func Partition(rows, parts int) []RowRange {
	if rows <= 0 {
		return nil
	}
	parts = max(1, min(parts, rows))

	per := rows / parts
	ranges := make([]RowRange, parts)
	for i := range ranges {
		end := (i + 1) * per
		if i == parts-1 {
			end = rows
		}
		ranges[i] = RowRange{Start: i * per, End: end}
	}
	return ranges
}

// ValidatePartition checks that ranges cover [0, rows) exactly once, in any order.
func ValidatePartition(ranges []RowRange, rows int) error {
	sorted := slices.Clone(ranges)
	slices.SortFunc(sorted, func(a, b RowRange) int { return a.Start - b.Start })

	next := 0
	for _, r := range sorted {
		switch {
		case r.Start < 0 || r.End > rows || r.Start > r.End:
			return fmt.Errorf("%w: %v in %d rows", ErrOutOfRange, r, rows)
		case r.Start < next:
			return fmt.Errorf("%w: %v starts before row %d", ErrOverlap, r, next)
		case r.Start > next:
			return fmt.Errorf("%w: rows [%d,%d)", ErrGap, next, r.Start)
		}
		next = r.End
	}

	if next != rows {
		return fmt.Errorf("%w: rows [%d,%d)", ErrGap, next, rows)
	}
	return nil
}
