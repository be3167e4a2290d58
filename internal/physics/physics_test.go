package physics

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/utkarsh5026/gridpool/internal/grid"
)

type model interface {
	Dims() (int, int)
	Target(step int) *grid.Grid
	Compute(ctx context.Context, step int, dst grid.Band) error
	Commit(step int)
	Result() *grid.Grid
}

// run advances m by steps, splitting every step into parts bands computed
// in reverse order.
func run(t *testing.T, m model, steps, parts int) *grid.Grid {
	t.Helper()
	rows, _ := m.Dims()
	ranges := grid.Partition(rows, parts)

	for s := range steps {
		bands, err := m.Target(s).Bands(ranges)
		if err != nil {
			t.Fatal(err)
		}
		for i := len(bands) - 1; i >= 0; i-- {
			if err := m.Compute(context.Background(), s, bands[i]); err != nil {
				t.Fatalf("step %d band %v: %v", s, bands[i].Rows(), err)
			}
		}
		m.Commit(s)
	}
	return m.Result()
}

func TestPeakOverpressure(t *testing.T) {
	near := PeakOverpressure(1000, 5000)
	far := PeakOverpressure(5000, 5000)
	if !(near > far && far > 0) {
		t.Fatalf("overpressure should fall with distance: near=%v far=%v", near, far)
	}
	if math.IsNaN(near) || math.IsInf(near, 0) {
		t.Fatalf("non-finite overpressure %v", near)
	}

	if got := ArrivalTime(343); got != 1 {
		t.Fatalf("ArrivalTime(343) = %v, want 1", got)
	}
}

func TestBlast(t *testing.T) {
	t.Run("front spreads one step at a time", func(t *testing.T) {
		const n = 100
		b := NewBlast(n, n, DefaultBlastParams())
		res := run(t, b, 1, 4)

		// 343 m/s over 10 m cells reaches 34 cells in one second.
		if res.At(n/2, n/2) == 0 {
			t.Fatal("centre should be reached at step 0")
		}
		if res.At(n/2, n/2+10) != 0 {
			t.Fatal("cell 100 m out should not be reached at step 0")
		}

		run(t, b, 2, 4)
		if res.At(n/2, n/2+10) == 0 {
			t.Fatal("cell 100 m out should be reached at step 1")
		}
		if res.At(0, 0) != 0 {
			t.Fatal("corner should not be reached at step 1")
		}
	})

	t.Run("banding does not change the result", func(t *testing.T) {
		a := run(t, NewBlast(64, 48, DefaultBlastParams()), 3, 1)
		b := run(t, NewBlast(64, 48, DefaultBlastParams()), 3, 7)
		if !a.Equal(b) {
			t.Fatal("banded result differs")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		b := NewBlast(8, 8, DefaultBlastParams())
		bands, _ := b.Target(0).Bands(grid.Partition(8, 1))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := b.Compute(ctx, 0, bands[0]); !errors.Is(err, context.Canceled) {
			t.Fatalf("got %v, want context.Canceled", err)
		}
	})
}

func TestHeat(t *testing.T) {
	t.Run("uniform baseline is steady", func(t *testing.T) {
		g := grid.New(10, 10)
		g.Fill(BaselineTemp)
		res := run(t, NewHeat(g), 5, 3)
		for _, v := range res.Data() {
			if math.Abs(v-BaselineTemp) > 1e-9 {
				t.Fatalf("cell drifted to %v", v)
			}
		}
	})

	t.Run("hot spot cools and spreads", func(t *testing.T) {
		const n = 32
		src := HeatSource(n)
		peak := src.At(n/2, n/2)
		edge := src.At(n/2, n/2+8)

		h := NewHeat(src)
		res := run(t, h, 4, 4)
		if res.At(n/2, n/2) >= peak {
			t.Fatalf("centre did not cool: %v >= %v", res.At(n/2, n/2), peak)
		}
		if res.At(n/2, n/2+8) <= edge {
			t.Fatalf("heat did not spread: %v <= %v", res.At(n/2, n/2+8), edge)
		}
		if h.Steps() != 4 {
			t.Fatalf("Steps() = %d, want 4", h.Steps())
		}
		if src.At(n/2, n/2) != peak {
			t.Fatal("initial map was modified")
		}
	})

	t.Run("banding does not change the result", func(t *testing.T) {
		a := run(t, NewHeat(HeatSource(40)), 6, 1)
		b := run(t, NewHeat(HeatSource(40)), 6, 9)
		if !a.Equal(b) {
			t.Fatal("banded result differs")
		}
	})
}

func TestContaminant(t *testing.T) {
	stable := DefaultContaminantParams()
	stable.Diffusion = 1

	t.Run("diffusion number", func(t *testing.T) {
		if got := DefaultContaminantParams().DiffusionNumber(); math.Abs(got-20) > 1e-12 {
			t.Fatalf("DiffusionNumber() = %v, want 20", got)
		}
		if got := stable.DiffusionNumber(); got > 0.5 {
			t.Fatalf("DiffusionNumber() = %v, want <= 0.5", got)
		}
	})

	t.Run("plume decays and stays bounded", func(t *testing.T) {
		m := NewContaminant(21, 21, stable)
		if m.Total() != stable.Source {
			t.Fatalf("initial total %v, want %v", m.Total(), stable.Source)
		}
		before := m.Uncontaminated()

		res := run(t, m, 10, 4)
		if total := m.Total(); total <= 0 || total >= stable.Source {
			t.Fatalf("total %v out of (0, %v)", total, stable.Source)
		}
		if m.Uncontaminated() >= before {
			t.Fatal("plume did not spread")
		}
		for r := range res.Rows() {
			for c := range res.Cols() {
				v := res.At(r, c)
				if v < 0 {
					t.Fatalf("negative concentration %v at (%d,%d)", v, r, c)
				}
				border := r == 0 || c == 0 || r == res.Rows()-1 || c == res.Cols()-1
				if border && v != 0 {
					t.Fatalf("border cell (%d,%d) = %v", r, c, v)
				}
			}
		}
	})

	t.Run("non-finite values fail the step", func(t *testing.T) {
		g := grid.New(5, 5)
		g.Set(2, 2, math.MaxFloat64)
		p := stable
		p.Diffusion = 1e6
		m := NewContaminantFrom(g, p)

		bands, _ := m.Target(0).Bands(grid.Partition(5, 1))
		if err := m.Compute(context.Background(), 0, bands[0]); !errors.Is(err, ErrNonFinite) {
			t.Fatalf("got %v, want ErrNonFinite", err)
		}
	})

	t.Run("banding does not change the result", func(t *testing.T) {
		a := run(t, NewContaminant(30, 25, stable), 8, 1)
		b := run(t, NewContaminant(30, 25, stable), 8, 6)
		if !a.Equal(b) {
			t.Fatal("banded result differs")
		}
	})
}
