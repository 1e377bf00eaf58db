package data

import (
	"encoding/csv"
	"os"
	"sort"
	"strconv"

	"tech-envelope/internal/model"
)

// WriteCoefficientsCSV exports a fitted performance function, one row per
// (segment, carrier). Linear fits write a single segment spanning [0,1].
func WriteCoefficientsCSV(path string, c *model.Coefficients) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"segment", "bp_lo", "bp_hi", "carrier", "alpha1", "alpha2"}
	if err := w.Write(header); err != nil {
		return err
	}

	bp := c.Breakpoints
	if bp == nil {
		bp = model.Breakpoints{0, 1}
	}
	carriers := make([]string, 0, len(c.Alpha1))
	for car := range c.Alpha1 {
		carriers = append(carriers, car)
	}
	sort.Strings(carriers)

	for seg := 0; seg < bp.Segments(); seg++ {
		for _, car := range carriers {
			row := []string{
				strconv.Itoa(seg),
				formatFloat(bp[seg]),
				formatFloat(bp[seg+1]),
				car,
				formatFloat(c.Alpha1[car][seg]),
				formatFloat(c.Alpha2[car][seg]),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
