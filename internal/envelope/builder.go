// Package envelope synthesizes the operating-envelope fragment of one
// conversion technology: the variables and (disjunctive) constraints that
// bind input, output, size and mode indicators per timestep, ready for
// big-M transformation and a MILP solver.
package envelope

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"tech-envelope/internal/algebra"
	"tech-envelope/internal/fit"
	"tech-envelope/internal/model"
	"tech-envelope/internal/timegrid"
)

// TimeSettings describes the time index the fragment is built on.
// PerformanceSteps is the index actually optimized; when Sequence is set
// the optimization is aggregated and FullSteps/Sequence describe the true
// chronology each optimized step stands in for.
type TimeSettings struct {
	PerformanceSteps int
	FullSteps        int
	Sequence         timegrid.Sequence
}

// Aggregated reports whether representative-period aggregation is active.
func (ts TimeSettings) Aggregated() bool { return len(ts.Sequence) > 0 }

func (ts *TimeSettings) validate() error {
	if ts.PerformanceSteps < 1 {
		return fmt.Errorf("time settings: need at least 1 timestep")
	}
	if ts.Aggregated() {
		if ts.FullSteps == 0 {
			ts.FullSteps = len(ts.Sequence)
		}
		if ts.FullSteps != len(ts.Sequence) {
			return fmt.Errorf("time settings: full_steps %d does not match sequence length %d", ts.FullSteps, len(ts.Sequence))
		}
		if err := ts.Sequence.Validate(ts.PerformanceSteps); err != nil {
			return fmt.Errorf("time settings: %w", err)
		}
	} else {
		ts.FullSteps = ts.PerformanceSteps
	}
	return nil
}

// Builder emits the constraint fragment for one technology. It is built
// once per technology per model build from validated, immutable inputs;
// independent technologies can be built concurrently since a builder
// touches no shared state.
type Builder struct {
	p      *model.Parameters
	ftype  model.FunctionType
	coeffs *model.Coefficients
	log    *logrus.Entry
}

// New validates the configuration and fitted coefficients eagerly.
// Degenerate but legal configurations are logged as warnings here so they
// surface once per technology, not once per timestep.
func New(p *model.Parameters, ft model.FunctionType, coeffs *model.Coefficients, log *logrus.Logger) (*Builder, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := p.Validate(ft); err != nil {
		return nil, err
	}
	if p.HasStandby() && ft != model.LinearMinPartLoad && ft != model.PiecewiseLinear {
		return nil, &model.ConfigurationError{Tech: p.Name, Field: "standby_power",
			Reason: fmt.Sprintf("standby power requires performance_function_type 2 or 3, got %d", int(ft))}
	}
	if err := checkCoefficients(p, ft, coeffs); err != nil {
		return nil, err
	}

	entry := log.WithFields(logrus.Fields{
		"technology":    p.Name,
		"function_type": ft.String(),
	})
	if ft == model.LinearMinPartLoad && p.MinPartLoad == 0 {
		entry.Warn("function type 2 with min_part_load = 0 usually indicates a modeling mistake")
	}
	if ft == model.PiecewiseLinearWithTrajectories && p.SUTime <= 0 && p.SDTime <= 0 {
		entry.Warn("function type 4 without slow startup or shutdown usually indicates a modeling mistake")
	}
	return &Builder{p: p, ftype: ft, coeffs: coeffs, log: entry}, nil
}

func checkCoefficients(p *model.Parameters, ft model.FunctionType, c *model.Coefficients) error {
	want := 1
	if ft.Piecewise() {
		if c.Breakpoints == nil {
			return &model.FitError{Tech: p.Name, Reason: "piecewise function type without breakpoints"}
		}
		if err := c.Breakpoints.Validate(); err != nil {
			return &model.FitError{Tech: p.Name, Reason: err.Error()}
		}
		want = c.Breakpoints.Segments()
	}
	for _, car := range p.OutputCarriers {
		if len(c.Alpha1[car]) != want || len(c.Alpha2[car]) != want {
			return &model.FitError{Tech: p.Name, Reason: fmt.Sprintf("carrier %q: expected %d coefficient segment(s)", car, want)}
		}
	}
	return nil
}

// varSet holds the decision-variable handles of one fragment.
type varSet struct {
	size   *algebra.Var
	input  map[string][]*algebra.Var
	output map[string][]*algebra.Var
	x      []*algebra.Var
	y, z   []*algebra.Var

	// steps is the time index length the mode constraints run over: the
	// performance index, except for trajectory technologies which must be
	// modelled on the full chronology.
	steps int
}

// Build runs the construction pipeline for this technology: variables,
// mode constraints, ratio and size constraints, then ramping. The stages
// are strictly sequential; each consumes the previous stage's output.
func (b *Builder) Build(ts TimeSettings) (*algebra.Fragment, error) {
	if err := ts.validate(); err != nil {
		return nil, err
	}
	// Startup/shutdown trajectories must be temporally contiguous, which
	// representative periods cannot guarantee, so trajectory technologies
	// are built on the full chronological index.
	if b.ftype == model.PiecewiseLinearWithTrajectories && ts.Aggregated() {
		b.log.WithField("full_steps", ts.FullSteps).Info("trajectory technology forced to full time resolution")
		ts = TimeSettings{PerformanceSteps: ts.FullSteps, FullSteps: ts.FullSteps}
	}

	frag := algebra.NewFragment(b.p.Name)
	vs := b.declareVariables(frag, ts)

	switch b.ftype {
	case model.Linear:
		b.buildLinear(frag, vs)
	case model.LinearMinPartLoad:
		b.buildLinearMinPartLoad(frag, vs)
	case model.PiecewiseLinear:
		b.buildPiecewise(frag, vs)
	case model.PiecewiseLinearWithTrajectories:
		b.buildTrajectories(frag, vs)
	}

	b.buildInputRatios(frag, vs)
	b.buildSizeLimit(frag, vs)

	if b.p.RampingTime != model.Disabled {
		if err := b.buildRamping(frag, vs, ts); err != nil {
			return nil, err
		}
	}
	return frag, nil
}

func (b *Builder) declareVariables(frag *algebra.Fragment, ts TimeSettings) *varSet {
	vs := &varSet{steps: ts.PerformanceSteps}

	vs.size = frag.NewVar(frag.Scoped("size"), algebra.Continuous, b.p.SizeMin, b.p.SizeMax)
	capacity := b.p.SizeMax * b.p.RatedPower

	inB := fit.InputBounds(b.p)
	outB := fit.OutputBounds(b.p, b.coeffs)

	vs.input = make(map[string][]*algebra.Var, len(b.p.InputCarriers))
	for _, car := range b.p.InputCarriers {
		iv := inB[car].Scale(capacity)
		vars := make([]*algebra.Var, vs.steps)
		for t := range vars {
			vars[t] = frag.NewVar(frag.Scoped("input", t, car), algebra.Continuous, iv.Lo, iv.Hi)
		}
		vs.input[car] = vars
	}
	vs.output = make(map[string][]*algebra.Var, len(b.p.OutputCarriers))
	for _, car := range b.p.OutputCarriers {
		iv := outB[car].Scale(capacity)
		vars := make([]*algebra.Var, vs.steps)
		for t := range vars {
			vars[t] = frag.NewVar(frag.Scoped("output", t, car), algebra.Continuous, iv.Lo, iv.Hi)
		}
		vs.output[car] = vars
	}

	// Mode indicators are pinned to {0,1} by the disjunction branches; the
	// branch indicators carry the integrality after transformation.
	if b.ftype != model.Linear {
		vs.x = make([]*algebra.Var, vs.steps)
		for t := range vs.x {
			vs.x[t] = frag.NewVar(frag.Scoped("x", t), algebra.Continuous, 0, 1)
		}
	}
	if b.ftype == model.PiecewiseLinearWithTrajectories {
		vs.y = make([]*algebra.Var, vs.steps)
		vs.z = make([]*algebra.Var, vs.steps)
		for t := 0; t < vs.steps; t++ {
			vs.y[t] = frag.NewVar(frag.Scoped("y", t), algebra.Continuous, 0, 1)
			vs.z[t] = frag.NewVar(frag.Scoped("z", t), algebra.Continuous, 0, 1)
		}
	}
	return vs
}

// buildInputRatios fixes every non-main input to phi * main input. Without
// standby power the ratio holds uniformly (including input 0), so a plain
// equality suffices; with standby the off state draws standby power on one
// carrier while the others are zero, so the ratio moves into an on/off
// disjunction.
func (b *Builder) buildInputRatios(frag *algebra.Fragment, vs *varSet) {
	main := b.p.MainInputCarrier
	if !b.p.HasStandby() {
		for _, car := range b.p.InputCarriers {
			if car == main {
				continue
			}
			phi := b.p.InputRatios[car]
			for t := 0; t < vs.steps; t++ {
				frag.AddConstraint(algebra.NewConstraint(
					frag.Scoped("input_ratio", t, car),
					algebra.VarExpr(vs.input[car][t]),
					algebra.EQ,
					algebra.Sum(algebra.T(phi, vs.input[main][t])),
				))
			}
		}
		return
	}

	standbyCar := b.p.StandbyCarrier()
	for t := 0; t < vs.steps; t++ {
		name := frag.Scoped("ratio_mode", t)

		off := algebra.Branch{Name: "off"}
		off.Cons = append(off.Cons, pin(name+".off.x", vs.x[t], 0))
		for _, car := range b.p.InputCarriers {
			if car == standbyCar {
				continue
			}
			off.Cons = append(off.Cons, pin(fmt.Sprintf("%s.off.input[%s]", name, car), vs.input[car][t], 0))
		}

		on := algebra.Branch{Name: "on"}
		on.Cons = append(on.Cons, pin(name+".on.x", vs.x[t], 1))
		for _, car := range b.p.InputCarriers {
			if car == main {
				continue
			}
			on.Cons = append(on.Cons, algebra.NewConstraint(
				fmt.Sprintf("%s.on.ratio[%s]", name, car),
				algebra.VarExpr(vs.input[car][t]),
				algebra.EQ,
				algebra.Sum(algebra.T(b.p.InputRatios[car], vs.input[main][t])),
			))
		}

		frag.AddDisjunction(algebra.Disjunction{Name: name, Branches: []algebra.Branch{off, on}})
	}
}

// buildSizeLimit caps the main input at size * rated power in every mode.
func (b *Builder) buildSizeLimit(frag *algebra.Fragment, vs *varSet) {
	main := b.p.MainInputCarrier
	for t := 0; t < vs.steps; t++ {
		frag.AddConstraint(algebra.NewConstraint(
			frag.Scoped("size_limit", t),
			algebra.VarExpr(vs.input[main][t]),
			algebra.LE,
			algebra.Sum(algebra.T(b.p.RatedPower, vs.size)),
		))
	}
}

// pin builds the equality v == value.
func pin(name string, v *algebra.Var, value float64) algebra.Constraint {
	return algebra.NewConstraint(name, algebra.VarExpr(v), algebra.EQ, algebra.Const(value))
}
