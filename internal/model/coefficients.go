package model

import "fmt"

// Breakpoints are the x-coordinates (fractions of rated capacity) that
// bound the piecewise segments. N points define N-1 segments.
type Breakpoints []float64

// Validate enforces the breakpoint invariants: strictly increasing, first
// >= 0, last <= 1, at least one segment.
func (bp Breakpoints) Validate() error {
	if len(bp) < 2 {
		return &FitError{Reason: "breakpoints must define at least one segment"}
	}
	if bp[0] < 0 || bp[len(bp)-1] > 1 {
		return &FitError{Reason: "breakpoints must lie within [0,1]"}
	}
	for i := 1; i < len(bp); i++ {
		if bp[i] <= bp[i-1] {
			return &FitError{Reason: fmt.Sprintf("breakpoints must be strictly increasing, got %g after %g", bp[i], bp[i-1])}
		}
	}
	return nil
}

// Segments returns the number of piecewise segments.
func (bp Breakpoints) Segments() int { return len(bp) - 1 }

// Coefficients is the fitted performance function: slope/intercept per
// output carrier, one pair for linear types or one pair per segment for
// piecewise types (aligned with Breakpoints). Read-only after fitting.
type Coefficients struct {
	Alpha1 map[string][]float64
	Alpha2 map[string][]float64

	// Breakpoints is nil for the linear function types.
	Breakpoints Breakpoints
}

// Eval evaluates the fitted function for one output carrier at input
// fraction x. For piecewise fits x is located in its segment; values at a
// shared breakpoint agree between neighbors because the fit is continuous.
func (c *Coefficients) Eval(car string, x float64) float64 {
	a1 := c.Alpha1[car]
	a2 := c.Alpha2[car]
	if c.Breakpoints == nil {
		return a1[0]*x + a2[0]
	}
	seg := len(c.Breakpoints) - 2
	for i := 0; i < c.Breakpoints.Segments(); i++ {
		if x <= c.Breakpoints[i+1] {
			seg = i
			break
		}
	}
	return a1[seg]*x + a2[seg]
}
