package grid

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		name  string
		rows  int
		parts int
		want  []RowRange
	}{
		{"even", 8, 4, []RowRange{{0, 2}, {2, 4}, {4, 6}, {6, 8}}},
		{"remainder to last", 10, 4, []RowRange{{0, 2}, {2, 4}, {4, 6}, {6, 10}}},
		{"more parts than rows", 3, 8, []RowRange{{0, 1}, {1, 2}, {2, 3}}},
		{"zero parts", 5, 0, []RowRange{{0, 5}}},
		{"no rows", 0, 4, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Partition(tt.rows, tt.parts)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("range %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
			if tt.rows > 0 {
				if err := ValidatePartition(got, tt.rows); err != nil {
					t.Fatalf("partition does not validate: %v", err)
				}
			}
		})
	}
}

func TestValidatePartition(t *testing.T) {
	tests := []struct {
		name   string
		ranges []RowRange
		want   error
	}{
		{"exact", []RowRange{{0, 3}, {3, 6}}, nil},
		{"unordered", []RowRange{{3, 6}, {0, 3}}, nil},
		{"overlap", []RowRange{{0, 4}, {3, 6}}, ErrOverlap},
		{"duplicate", []RowRange{{0, 3}, {0, 3}, {3, 6}}, ErrOverlap},
		{"interior gap", []RowRange{{0, 2}, {3, 6}}, ErrGap},
		{"short", []RowRange{{0, 3}}, ErrGap},
		{"past end", []RowRange{{0, 3}, {3, 7}}, ErrOutOfRange},
		{"inverted", []RowRange{{0, 3}, {6, 3}}, ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePartition(tt.ranges, 6)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBands(t *testing.T) {
	t.Run("concurrent writers cover the grid", func(t *testing.T) {
		g := New(37, 11)
		bands, err := g.Bands(Partition(g.Rows(), 5))
		if err != nil {
			t.Fatal(err)
		}

		var wg sync.WaitGroup
		for _, b := range bands {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for r := b.Rows().Start; r < b.Rows().End; r++ {
					for c := range b.Cols() {
						b.Set(r, c, float64(r*100+c))
					}
				}
			}()
		}
		wg.Wait()

		for r := range g.Rows() {
			for c := range g.Cols() {
				if got := g.At(r, c); got != float64(r*100+c) {
					t.Fatalf("cell (%d,%d) = %v", r, c, got)
				}
			}
		}
	})

	t.Run("write outside band panics", func(t *testing.T) {
		g := New(4, 2)
		bands, err := g.Bands([]RowRange{{0, 2}, {2, 4}})
		if err != nil {
			t.Fatal(err)
		}

		defer func() {
			if recover() == nil {
				t.Fatal("expected panic")
			}
		}()
		bands[0].Set(2, 0, 1)
	})

	t.Run("rejects overlapping ranges", func(t *testing.T) {
		g := New(4, 2)
		if _, err := g.Bands([]RowRange{{0, 3}, {2, 4}}); !errors.Is(err, ErrOverlap) {
			t.Fatalf("got %v, want ErrOverlap", err)
		}
	})
}

func TestCompare(t *testing.T) {
	a := New(2, 2)
	b := a.Clone()
	if !a.Equal(b) {
		t.Fatal("clone should be equal")
	}

	b.Set(0, 1, 0.5)
	b.Set(1, 1, 1e-12)
	d, err := Compare(a, b, 1e-9)
	if err != nil {
		t.Fatal(err)
	}
	if d.MaxAbs != 0.5 || d.Count != 1 {
		t.Fatalf("got %+v, want MaxAbs 0.5 Count 1", d)
	}
	if a.Equal(b) {
		t.Fatal("grids should differ")
	}

	if _, err := Compare(a, New(3, 2), 0); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("got %v, want ErrDimensionMismatch", err)
	}
}

func TestCSV(t *testing.T) {
	t.Run("round trip keeps every bit", func(t *testing.T) {
		g := New(3, 4)
		for i := range g.Data() {
			g.Data()[i] = math.Pi * float64(i) / 7
		}
		g.Set(2, 3, 1e-300)

		var buf bytes.Buffer
		if err := Save(&buf, g); err != nil {
			t.Fatal(err)
		}
		got, err := Load(&buf)
		if err != nil {
			t.Fatal(err)
		}
		if !g.Equal(got) {
			t.Fatal("loaded grid differs from saved grid")
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "g.csv")
		g := New(2, 2)
		g.Fill(30)
		if err := SaveFile(path, g); err != nil {
			t.Fatal(err)
		}
		got, err := LoadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !g.Equal(got) {
			t.Fatal("loaded grid differs from saved grid")
		}
	})

	t.Run("ragged rows", func(t *testing.T) {
		if _, err := Load(strings.NewReader("1,2\n3\n")); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("bad number", func(t *testing.T) {
		if _, err := Load(strings.NewReader("1,x\n")); err == nil {
			t.Fatal("expected error")
		}
	})
}
