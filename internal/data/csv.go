package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"tech-envelope/internal/model"
)

// LoadSamplesCSV reads historical performance observations. The header
// names the columns: the first must be "input" (main-carrier input as a
// fraction of rated capacity), every further column is one output carrier.
//
//	input,heat,electricity
//	0.0,0.0,0.0
//	0.5,0.42,0.18
func LoadSamplesCSV(path string) ([]model.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: need a header row and at least one sample", path)
	}
	header := rows[0]
	if len(header) < 2 || header[0] != "input" {
		return nil, fmt.Errorf("%s: header must be input,<output carrier>...", path)
	}
	carriers := header[1:]

	samples := make([]model.Sample, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("%s: row %d has %d fields, header has %d", path, i+2, len(row), len(header))
		}
		x, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: bad input value %q", path, i+2, row[0])
		}
		s := model.Sample{Input: x, Outputs: make(map[string]float64, len(carriers))}
		for j, car := range carriers {
			y, err := strconv.ParseFloat(row[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d: bad %s value %q", path, i+2, car, row[j+1])
			}
			s.Outputs[car] = y
		}
		samples = append(samples, s)
	}
	return samples, nil
}
