// Package timegrid ties a full chronological time index to a reduced set
// of representative (clustered) periods. Ramping and startup/shutdown
// trajectories are only meaningful against the true chronology, so when
// the optimization runs on representative periods an auxiliary
// full-resolution series is linked back to the optimized one here.
package timegrid

import (
	"fmt"

	"tech-envelope/internal/algebra"
)

// Sequence maps each full-resolution timestep to the representative
// timestep standing in for it.
type Sequence []int

// Validate checks every entry addresses a representative step within range.
func (s Sequence) Validate(repSteps int) error {
	if len(s) == 0 {
		return fmt.Errorf("sequence is empty")
	}
	for t, r := range s {
		if r < 0 || r >= repSteps {
			return fmt.Errorf("sequence[%d] = %d outside representative range [0,%d)", t, r, repSteps)
		}
	}
	return nil
}

// Link emits one equality per (full timestep, carrier) binding the
// full-resolution variable to its representative counterpart:
// full[t] == clustered[sequence[t]]. Stateless: the constraints are added
// to the fragment and also returned for callers that index them.
func Link(f *algebra.Fragment, family string, clustered, full map[string][]*algebra.Var, seq Sequence) ([]algebra.Constraint, error) {
	var out []algebra.Constraint
	for car, fullVars := range full {
		repVars, ok := clustered[car]
		if !ok {
			return nil, fmt.Errorf("no clustered series for carrier %q", car)
		}
		if err := seq.Validate(len(repVars)); err != nil {
			return nil, err
		}
		if len(fullVars) != len(seq) {
			return nil, fmt.Errorf("carrier %q: full series has %d steps, sequence has %d", car, len(fullVars), len(seq))
		}
		for t, fv := range fullVars {
			c := algebra.NewConstraint(
				f.Scoped(family, t, car),
				algebra.VarExpr(fv),
				algebra.EQ,
				algebra.VarExpr(repVars[seq[t]]),
			)
			f.AddConstraint(c)
			out = append(out, c)
		}
	}
	return out, nil
}
