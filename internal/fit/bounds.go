package fit

import "tech-envelope/internal/model"

// Interval is a closed [Lo, Hi] range, in fractions of rated capacity.
type Interval struct {
	Lo, Hi float64
}

// Scale converts a fractional interval into absolute variable bounds.
func (iv Interval) Scale(f float64) Interval { return Interval{Lo: iv.Lo * f, Hi: iv.Hi * f} }

// InputBounds derives fractional bounds per input carrier. The main
// carrier spans [0,1] of rated capacity; every other carrier is that
// interval scaled by its input ratio. Standby power below the ratio-implied
// level is already inside [0, hi], so no widening is needed.
func InputBounds(p *model.Parameters) map[string]Interval {
	out := make(map[string]Interval, len(p.InputCarriers))
	for _, car := range p.InputCarriers {
		if car == p.MainInputCarrier {
			out[car] = Interval{0, 1}
			continue
		}
		out[car] = Interval{0, p.InputRatios[car]}
	}
	return out
}

// OutputBounds derives fractional bounds per output carrier by evaluating
// the fitted function at every breakpoint (or at the [0,1] endpoints for
// linear types) and keeping the envelope. Bounds exist to tighten the
// relaxation: they are widened, never narrowed, so no feasible point is cut.
func OutputBounds(p *model.Parameters, c *model.Coefficients) map[string]Interval {
	xs := []float64{0, 1}
	if c.Breakpoints != nil {
		xs = c.Breakpoints
	}
	out := make(map[string]Interval, len(p.OutputCarriers))
	for _, car := range p.OutputCarriers {
		lo, hi := 0.0, 0.0
		for _, x := range xs {
			v := c.Eval(car, x)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		out[car] = Interval{Lo: lo, Hi: hi}
	}
	return out
}
