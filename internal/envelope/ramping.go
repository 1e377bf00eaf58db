package envelope

import (
	"tech-envelope/internal/algebra"
	"tech-envelope/internal/fit"
	"tech-envelope/internal/model"
	"tech-envelope/internal/timegrid"
)

// buildRamping bounds the step-to-step change of the main input. The rate
// is ref_size/ramping_time when a fixed reference size is configured,
// otherwise size/ramping_time — still linear, since ramping_time is a
// constant divisor of the size variable.
func (b *Builder) buildRamping(frag *algebra.Fragment, vs *varSet, ts TimeSettings) error {
	var rate algebra.Expr
	if b.p.RefSize != model.Disabled {
		rate = algebra.Const(b.p.RefSize / b.p.RampingTime)
	} else {
		rate = algebra.Sum(algebra.T(1/b.p.RampingTime, vs.size))
	}

	if b.ftype != model.Linear && b.p.RampingConstInt {
		b.buildRampingIntegerCoupled(frag, vs, rate)
		return nil
	}

	main := vs.input[b.p.MainInputCarrier]
	if ts.Aggregated() {
		// Representative periods need not be chronologically adjacent, so
		// the rate bound is checked on an auxiliary full-resolution series
		// tied to the optimized one.
		full, err := b.linkFullResolution(frag, vs, ts)
		if err != nil {
			return err
		}
		main = full[b.p.MainInputCarrier]
	}

	for t := 1; t < len(main); t++ {
		step := algebra.VarExpr(main[t]).Minus(algebra.VarExpr(main[t-1]))
		frag.AddConstraint(algebra.NewConstraint(frag.Scoped("ramp_up", t), step, algebra.LE, rate))
		frag.AddConstraint(algebra.NewConstraint(frag.Scoped("ramp_down", t), step, algebra.GE, rate.Scale(-1)))
	}
	return nil
}

// buildRampingIntegerCoupled enforces the rate bound only while the on
// indicator is unchanged: a 3-way disjunction per timestep pair where the
// startup (+1) and shutdown (-1) branches are exempt from the bound.
func (b *Builder) buildRampingIntegerCoupled(frag *algebra.Fragment, vs *varSet, rate algebra.Expr) {
	main := vs.input[b.p.MainInputCarrier]
	for t := 1; t < vs.steps; t++ {
		name := frag.Scoped("ramp_mode", t)
		dx := algebra.VarExpr(vs.x[t]).Minus(algebra.VarExpr(vs.x[t-1]))
		step := algebra.VarExpr(main[t]).Minus(algebra.VarExpr(main[t-1]))

		steady := algebra.Branch{Name: "steady", Cons: []algebra.Constraint{
			algebra.NewConstraint(name+".steady.x", dx, algebra.EQ, algebra.Const(0)),
			algebra.NewConstraint(name+".steady.ramp_up", step, algebra.LE, rate),
			algebra.NewConstraint(name+".steady.ramp_down", step, algebra.GE, rate.Scale(-1)),
		}}
		startup := algebra.Branch{Name: "startup", Cons: []algebra.Constraint{
			algebra.NewConstraint(name+".startup.x", dx, algebra.EQ, algebra.Const(1)),
		}}
		shutdown := algebra.Branch{Name: "shutdown", Cons: []algebra.Constraint{
			algebra.NewConstraint(name+".shutdown.x", dx, algebra.EQ, algebra.Const(-1)),
		}}
		frag.AddDisjunction(algebra.Disjunction{Name: name, Branches: []algebra.Branch{steady, startup, shutdown}})
	}
}

// linkFullResolution declares the auxiliary full-resolution input series
// and ties it to the representative-period inputs.
func (b *Builder) linkFullResolution(frag *algebra.Fragment, vs *varSet, ts TimeSettings) (map[string][]*algebra.Var, error) {
	capacity := b.p.SizeMax * b.p.RatedPower
	inB := fit.InputBounds(b.p)

	full := make(map[string][]*algebra.Var, len(b.p.InputCarriers))
	for _, car := range b.p.InputCarriers {
		iv := inB[car].Scale(capacity)
		vars := make([]*algebra.Var, ts.FullSteps)
		for t := range vars {
			vars[t] = frag.NewVar(frag.Scoped("input_full", t, car), algebra.Continuous, iv.Lo, iv.Hi)
		}
		full[car] = vars
	}
	if _, err := timegrid.Link(frag, "link_full_res", vs.input, full, ts.Sequence); err != nil {
		return nil, err
	}
	return full, nil
}
