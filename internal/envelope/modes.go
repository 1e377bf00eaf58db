package envelope

import (
	"fmt"

	"tech-envelope/internal/algebra"
	"tech-envelope/internal/model"
)

// buildLinear emits function type 1: output = alpha1 * input through the
// origin. With min_part_load > 0 the input floor applies at every
// timestep, so the technology can never be fully off; that is the
// documented behavior of this type, not a defect.
func (b *Builder) buildLinear(frag *algebra.Fragment, vs *varSet) {
	main := vs.input[b.p.MainInputCarrier]
	for t := 0; t < vs.steps; t++ {
		for _, car := range b.p.OutputCarriers {
			frag.AddConstraint(algebra.NewConstraint(
				frag.Scoped("performance", t, car),
				algebra.VarExpr(vs.output[car][t]),
				algebra.EQ,
				algebra.Sum(algebra.T(b.coeffs.Alpha1[car][0], main[t])),
			))
		}
		if b.p.MinPartLoad > 0 {
			frag.AddConstraint(b.minPartLoadCons(frag.Scoped("min_part_load", t), main[t], vs.size))
		}
	}
}

// buildLinearMinPartLoad emits function type 2: a two-branch disjunction
// per timestep. Off pins inputs (up to standby power) and outputs to zero;
// on applies the affine performance function and the part-load floor.
func (b *Builder) buildLinearMinPartLoad(frag *algebra.Fragment, vs *varSet) {
	for t := 0; t < vs.steps; t++ {
		name := frag.Scoped("mode", t)
		on := algebra.Branch{Name: "on"}
		on.Cons = append(on.Cons, pin(name+".on.x", vs.x[t], 1))
		on.Cons = append(on.Cons, b.performanceCons(vs, name+".on", t, 0)...)
		on.Cons = append(on.Cons, b.minPartLoadCons(name+".on.min_part_load", vs.input[b.p.MainInputCarrier][t], vs.size))

		frag.AddDisjunction(algebra.Disjunction{
			Name:     name,
			Branches: []algebra.Branch{b.offBranch(name, vs, t, true), on},
		})
	}
}

// buildPiecewise emits function type 3: the off branch of type 2 plus one
// branch per fitted segment, each confining the input to its breakpoint
// interval and applying that segment's affine fit.
func (b *Builder) buildPiecewise(frag *algebra.Fragment, vs *varSet) {
	for t := 0; t < vs.steps; t++ {
		name := frag.Scoped("mode", t)
		branches := []algebra.Branch{b.offBranch(name, vs, t, true)}
		for seg := 0; seg < b.coeffs.Breakpoints.Segments(); seg++ {
			branches = append(branches, b.segmentBranch(vs, name, t, seg))
		}
		frag.AddDisjunction(algebra.Disjunction{Name: name, Branches: branches})
	}
}

// buildTrajectories emits function type 4 over the full chronological
// index: off, one branch per startup offset, one per shutdown offset, and
// the piecewise on branches. y[tau]=1 marks the timestep at which the unit
// reaches the on state after a full startup; z[tau]=1 marks the first
// shutdown timestep. Offsets wrap modulo the series length so trajectories
// may span the sequence boundary (annual/periodic scheduling).
func (b *Builder) buildTrajectories(frag *algebra.Fragment, vs *varSet) {
	su, sd := b.p.SUTime, b.p.SDTime
	if su < 0 {
		su = 0
	}
	if sd < 0 {
		sd = 0
	}
	suTraj := model.StartupTrajectory(b.p.MinPartLoad, su)
	sdTraj := model.ShutdownTrajectory(b.p.MinPartLoad, sd)

	n := vs.steps
	wrap := func(i int) int { return ((i % n) + n) % n }
	main := vs.input[b.p.MainInputCarrier]

	for t := 0; t < n; t++ {
		name := frag.Scoped("mode", t)

		// Off: nothing flows, and no startup may complete within the next
		// su steps, nor may a shutdown have begun within the last sd steps.
		off := b.offBranch(name, vs, t, false)
		for k := 1; k <= su; k++ {
			off.Cons = append(off.Cons, pin(fmt.Sprintf("%s.off.y[%d]", name, k), vs.y[wrap(t+k)], 0))
		}
		for k := 0; k < sd; k++ {
			off.Cons = append(off.Cons, pin(fmt.Sprintf("%s.off.z[%d]", name, k), vs.z[wrap(t-k)], 0))
		}
		branches := []algebra.Branch{off}

		// Startup offsets climb the trajectory; the matching y is anchored
		// at the timestep the unit will reach the on state.
		for s := 1; s <= su; s++ {
			br := algebra.Branch{Name: fmt.Sprintf("startup[%d]", s)}
			bn := fmt.Sprintf("%s.startup[%d]", name, s)
			anchor := wrap(t + su - s + 1)
			br.Cons = append(br.Cons,
				pin(bn+".x", vs.x[t], 0),
				pin(bn+".y", vs.y[anchor], 1),
				pin(bn+".z", vs.z[anchor], 0),
				algebra.NewConstraint(bn+".input",
					algebra.VarExpr(main[t]),
					algebra.EQ,
					algebra.Sum(algebra.T(suTraj[s-1], vs.size)),
				),
			)
			br.Cons = append(br.Cons, b.performanceCons(vs, bn, t, 0)...)
			branches = append(branches, br)
		}

		// Shutdown offsets descend; z is anchored at the first shutdown
		// timestep.
		for d := 1; d <= sd; d++ {
			br := algebra.Branch{Name: fmt.Sprintf("shutdown[%d]", d)}
			bn := fmt.Sprintf("%s.shutdown[%d]", name, d)
			anchor := wrap(t - d + 1)
			br.Cons = append(br.Cons,
				pin(bn+".x", vs.x[t], 0),
				pin(bn+".z", vs.z[anchor], 1),
				pin(bn+".y", vs.y[anchor], 0),
				algebra.NewConstraint(bn+".input",
					algebra.VarExpr(main[t]),
					algebra.EQ,
					algebra.Sum(algebra.T(sdTraj[d-1], vs.size)),
				),
			)
			br.Cons = append(br.Cons, b.performanceCons(vs, bn, t, 0)...)
			branches = append(branches, br)
		}

		for seg := 0; seg < b.coeffs.Breakpoints.Segments(); seg++ {
			branches = append(branches, b.segmentBranch(vs, name, t, seg))
		}
		frag.AddDisjunction(algebra.Disjunction{Name: name, Branches: branches})
	}
}

// offBranch pins x to 0 and all outputs to 0. Inputs go to 0 as well,
// except that with standby configured (withStandby) the standby carrier is
// held at standby_power * size * rated_power instead.
func (b *Builder) offBranch(name string, vs *varSet, t int, withStandby bool) algebra.Branch {
	br := algebra.Branch{Name: "off"}
	if vs.x != nil {
		br.Cons = append(br.Cons, pin(name+".off.x", vs.x[t], 0))
	}
	standby := withStandby && b.p.HasStandby()
	for _, car := range b.p.InputCarriers {
		cn := fmt.Sprintf("%s.off.input[%s]", name, car)
		if standby && car == b.p.StandbyCarrier() {
			br.Cons = append(br.Cons, algebra.NewConstraint(cn,
				algebra.VarExpr(vs.input[car][t]),
				algebra.EQ,
				algebra.Sum(algebra.T(b.p.StandbyPower*b.p.RatedPower, vs.size)),
			))
			continue
		}
		br.Cons = append(br.Cons, pin(cn, vs.input[car][t], 0))
	}
	for _, car := range b.p.OutputCarriers {
		br.Cons = append(br.Cons, pin(fmt.Sprintf("%s.off.output[%s]", name, car), vs.output[car][t], 0))
	}
	return br
}

// segmentBranch is one piecewise on branch: x pinned to 1, input confined
// between the segment's breakpoints, that segment's affine fit, and the
// part-load floor.
func (b *Builder) segmentBranch(vs *varSet, name string, t, seg int) algebra.Branch {
	bp := b.coeffs.Breakpoints
	main := vs.input[b.p.MainInputCarrier][t]
	bn := fmt.Sprintf("%s.on[%d]", name, seg)

	br := algebra.Branch{Name: fmt.Sprintf("on[%d]", seg)}
	br.Cons = append(br.Cons,
		pin(bn+".x", vs.x[t], 1),
		algebra.NewConstraint(bn+".input_lo",
			algebra.VarExpr(main),
			algebra.GE,
			algebra.Sum(algebra.T(bp[seg]*b.p.RatedPower, vs.size)),
		),
		algebra.NewConstraint(bn+".input_hi",
			algebra.VarExpr(main),
			algebra.LE,
			algebra.Sum(algebra.T(bp[seg+1]*b.p.RatedPower, vs.size)),
		),
	)
	br.Cons = append(br.Cons, b.performanceCons(vs, bn, t, seg)...)
	br.Cons = append(br.Cons, b.minPartLoadCons(bn+".min_part_load", main, vs.size))
	return br
}

// performanceCons emits output[car] = alpha1[seg]*input_main +
// alpha2[seg]*size*rated_power for every output carrier.
func (b *Builder) performanceCons(vs *varSet, prefix string, t, seg int) []algebra.Constraint {
	main := vs.input[b.p.MainInputCarrier][t]
	out := make([]algebra.Constraint, 0, len(b.p.OutputCarriers))
	for _, car := range b.p.OutputCarriers {
		out = append(out, algebra.NewConstraint(
			fmt.Sprintf("%s.output[%s]", prefix, car),
			algebra.VarExpr(vs.output[car][t]),
			algebra.EQ,
			algebra.Sum(
				algebra.T(b.coeffs.Alpha1[car][seg], main),
				algebra.T(b.coeffs.Alpha2[car][seg]*b.p.RatedPower, vs.size),
			),
		))
	}
	return out
}

// minPartLoadCons is input_main >= min_part_load * size * rated_power.
func (b *Builder) minPartLoadCons(name string, main, size *algebra.Var) algebra.Constraint {
	return algebra.NewConstraint(name,
		algebra.VarExpr(main),
		algebra.GE,
		algebra.Sum(algebra.T(b.p.MinPartLoad*b.p.RatedPower, size)),
	)
}
