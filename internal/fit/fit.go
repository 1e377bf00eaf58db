// Package fit turns historical (input, output) performance samples into
// the linear or piecewise-linear coefficients the envelope builder needs,
// and derives the variable bounds that keep the big-M relaxation tight.
package fit

import (
	"fmt"

	"tech-envelope/internal/model"
)

// Performance fits the samples according to the function type and returns
// the per-carrier coefficients (plus breakpoints for piecewise types).
// Inputs are fractions of rated capacity; one output value per carrier and
// sample is required.
func Performance(p *model.Parameters, ft model.FunctionType, samples []model.Sample) (*model.Coefficients, error) {
	if p.SizeBasedOn != "input" {
		return nil, &model.ConfigurationError{Tech: p.Name, Field: "size_based_on", Reason: "output-based sizing is not supported for this technology family"}
	}
	if len(samples) == 0 {
		return nil, &model.FitError{Tech: p.Name, Reason: "no performance samples"}
	}
	for i, s := range samples {
		for _, car := range p.OutputCarriers {
			if _, ok := s.Outputs[car]; !ok {
				return nil, &model.FitError{Tech: p.Name, Reason: fmt.Sprintf("sample %d has no value for output carrier %q", i, car)}
			}
		}
	}

	switch ft {
	case model.Linear:
		return fitThroughOrigin(p, samples)
	case model.LinearMinPartLoad:
		return fitSlopeIntercept(p, samples)
	case model.PiecewiseLinear, model.PiecewiseLinearWithTrajectories:
		return fitPiecewise(p, samples)
	default:
		return nil, &model.ConfigurationError{Tech: p.Name, Field: "performance_function_type", Reason: fmt.Sprintf("unsupported value %d", int(ft))}
	}
}

// fitThroughOrigin fits output = alpha1 * input per carrier, the closed
// form least-squares slope through the origin.
func fitThroughOrigin(p *model.Parameters, samples []model.Sample) (*model.Coefficients, error) {
	c := newCoefficients(p)
	for _, car := range p.OutputCarriers {
		var sxy, sxx float64
		for _, s := range samples {
			sxy += s.Input * s.Outputs[car]
			sxx += s.Input * s.Input
		}
		if sxx == 0 {
			return nil, &model.FitError{Tech: p.Name, Reason: "all samples sit at zero input, slope through origin is undetermined"}
		}
		c.Alpha1[car] = []float64{sxy / sxx}
		c.Alpha2[car] = []float64{0}
	}
	return c, nil
}

// fitSlopeIntercept fits output = alpha1*input + alpha2 per carrier by
// ordinary least squares, restricted to samples in the operating range
// (input >= min part load): below-part-load observations describe
// transients the on-branch never visits.
func fitSlopeIntercept(p *model.Parameters, samples []model.Sample) (*model.Coefficients, error) {
	operating := samples[:0:0]
	for _, s := range samples {
		if s.Input >= p.MinPartLoad {
			operating = append(operating, s)
		}
	}
	if len(operating) < 2 {
		return nil, &model.FitError{Tech: p.Name, Reason: fmt.Sprintf("need at least 2 samples at or above min part load %g, got %d", p.MinPartLoad, len(operating))}
	}

	c := newCoefficients(p)
	n := float64(len(operating))
	var sx, sxx float64
	for _, s := range operating {
		sx += s.Input
		sxx += s.Input * s.Input
	}
	det := n*sxx - sx*sx
	if det == 0 {
		return nil, &model.FitError{Tech: p.Name, Reason: "operating samples share a single input level, slope is undetermined"}
	}
	for _, car := range p.OutputCarriers {
		var sy, sxy float64
		for _, s := range operating {
			sy += s.Outputs[car]
			sxy += s.Input * s.Outputs[car]
		}
		a1 := (n*sxy - sx*sy) / det
		a2 := (sy - a1*sx) / n
		c.Alpha1[car] = []float64{a1}
		c.Alpha2[car] = []float64{a2}
	}
	return c, nil
}

// fitPiecewise fits a continuous piecewise-linear function over equal-width
// breakpoints spanning [0,1]. The unknowns are the ordinates at the
// breakpoints; each sample contributes through the two hat basis functions
// of its segment, and the small normal-equation system is solved directly.
// Continuity at breakpoints is exact by construction.
func fitPiecewise(p *model.Parameters, samples []model.Sample) (*model.Coefficients, error) {
	k := p.Segments
	if len(samples) < k+1 {
		return nil, &model.FitError{Tech: p.Name, Reason: fmt.Sprintf("piecewise fit with %d segments needs at least %d samples, got %d", k, k+1, len(samples))}
	}

	bp := make(model.Breakpoints, k+1)
	for i := range bp {
		bp[i] = float64(i) / float64(k)
	}
	if err := bp.Validate(); err != nil {
		return nil, err
	}

	// Every segment needs data, otherwise its slope is unconstrained and
	// the normal equations go singular.
	covered := make([]bool, k)
	for _, s := range samples {
		if s.Input < 0 || s.Input > 1 {
			return nil, &model.FitError{Tech: p.Name, Reason: fmt.Sprintf("sample input %g outside [0,1]", s.Input)}
		}
		covered[segmentOf(bp, s.Input)] = true
	}
	for i, ok := range covered {
		if !ok {
			return nil, &model.FitError{Tech: p.Name, Reason: fmt.Sprintf("no samples in segment %d (%g..%g)", i+1, bp[i], bp[i+1])}
		}
	}

	c := newCoefficients(p)
	c.Breakpoints = bp
	for _, car := range p.OutputCarriers {
		y, err := solveHatBasis(bp, samples, car)
		if err != nil {
			return nil, &model.FitError{Tech: p.Name, Reason: err.Error()}
		}
		a1 := make([]float64, k)
		a2 := make([]float64, k)
		for i := 0; i < k; i++ {
			a1[i] = (y[i+1] - y[i]) / (bp[i+1] - bp[i])
			a2[i] = y[i] - a1[i]*bp[i]
		}
		c.Alpha1[car] = a1
		c.Alpha2[car] = a2
	}
	return c, nil
}

func newCoefficients(p *model.Parameters) *model.Coefficients {
	return &model.Coefficients{
		Alpha1: make(map[string][]float64, len(p.OutputCarriers)),
		Alpha2: make(map[string][]float64, len(p.OutputCarriers)),
	}
}

func segmentOf(bp model.Breakpoints, x float64) int {
	for i := 0; i < bp.Segments(); i++ {
		if x <= bp[i+1] {
			return i
		}
	}
	return bp.Segments() - 1
}

// solveHatBasis assembles and solves the normal equations for the
// breakpoint ordinates of one carrier.
func solveHatBasis(bp model.Breakpoints, samples []model.Sample, car string) ([]float64, error) {
	n := len(bp)
	ata := make([][]float64, n)
	for i := range ata {
		ata[i] = make([]float64, n)
	}
	atb := make([]float64, n)

	for _, s := range samples {
		seg := segmentOf(bp, s.Input)
		u := (s.Input - bp[seg]) / (bp[seg+1] - bp[seg])
		// Row of the design matrix: (1-u) on ordinate seg, u on seg+1.
		w := [2]float64{1 - u, u}
		idx := [2]int{seg, seg + 1}
		for a := 0; a < 2; a++ {
			for b := 0; b < 2; b++ {
				ata[idx[a]][idx[b]] += w[a] * w[b]
			}
			atb[idx[a]] += w[a] * s.Outputs[car]
		}
	}
	y, ok := solveDense(ata, atb)
	if !ok {
		return nil, fmt.Errorf("normal equations for carrier %q are singular", car)
	}
	return y, nil
}

// solveDense is Gaussian elimination with partial pivoting, sized for the
// (segments+1)-square systems the piecewise fit produces.
func solveDense(a [][]float64, b []float64) ([]float64, bool) {
	n := len(b)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if abs(a[r][col]) > abs(a[pivot][col]) {
				pivot = r
			}
		}
		if abs(a[pivot][col]) < 1e-12 {
			return nil, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]
		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			for cc := col; cc < n; cc++ {
				a[r][cc] -= f * a[col][cc]
			}
			b[r] -= f * b[col]
		}
	}
	x := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		s := b[r]
		for cc := r + 1; cc < n; cc++ {
			s -= a[r][cc] * x[cc]
		}
		x[r] = s / a[r][r]
	}
	return x, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
