package grid

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Save writes g as CSV, one grid row per line.
func Save(w io.Writer, g *Grid) error {
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)

	record := make([]string, g.cols)
	for r := range g.rows {
		for c, v := range g.Row(r) {
			record[c] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", r, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}

// Load reads a CSV matrix. Every line must have the same number of fields.
func Load(r io.Reader) (*Grid, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true

	var (
		data []float64
		cols = -1
		rows int
	)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rows, err)
		}

		if cols < 0 {
			cols = len(record)
		}
		for c, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", rows, c, err)
			}
			data = append(data, v)
		}
		rows++
	}

	if cols < 0 {
		cols = 0
	}
	return FromSlice(rows, cols, data)
}

// SaveFile writes g to path as CSV.
func SaveFile(path string, g *Grid) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Save(f, g)
}

// LoadFile reads a CSV matrix from path.
func LoadFile(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}
