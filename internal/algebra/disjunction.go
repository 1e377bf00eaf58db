package algebra

import (
	"fmt"
	"math"
)

// Branch is one alternative of a disjunction: a named set of constraints
// that must all hold when the branch is selected.
type Branch struct {
	Name string
	Cons []Constraint
}

// Disjunction is an exactly-one-of-N choice between constraint sets.
// The mode state machine (off / startup / on-segment / shutdown) is one
// disjunction per timestep.
type Disjunction struct {
	Name     string
	Branches []Branch
}

// transformBigM compiles the disjunction into plain linear constraints on
// the fragment: one fresh binary indicator per branch, a convexity row
// forcing exactly one indicator to 1, and each branch constraint relaxed by
// a big-M derived from variable bounds. Equalities are split into the two
// one-sided inequalities. The relaxation is exact: with indicator b at 1
// the branch-b rows reduce to the original constraints, and with it at 0
// they are implied by the variable bounds.
func (d Disjunction) transformBigM(f *Fragment) error {
	inds := make([]*Var, len(d.Branches))
	convexity := Expr{}
	for b := range d.Branches {
		inds[b] = f.NewVar(fmt.Sprintf("%s.ind[%d]", d.Name, b), Binary, 0, 1)
		convexity = convexity.Plus(VarExpr(inds[b]))
	}
	f.AddConstraint(NewConstraint(d.Name+".xor", convexity, EQ, Const(1)))

	for b, br := range d.Branches {
		for _, c := range br.Cons {
			if c.Rel == LE || c.Rel == EQ {
				if err := emitBigM(f, c, inds[b], LE); err != nil {
					return err
				}
			}
			if c.Rel == GE || c.Rel == EQ {
				if err := emitBigM(f, c, inds[b], GE); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// emitBigM adds the one-sided big-M relaxation of c guarded by the
// indicator: body <= rhs + M*(1-ind) for LE, body >= rhs - M*(1-ind) for GE.
func emitBigM(f *Fragment, c Constraint, ind *Var, side Relation) error {
	lo, hi := c.Body.Bounds()
	var m float64
	var suffix string
	if side == LE {
		m = hi - c.RHS
		suffix = "ub"
	} else {
		m = c.RHS - lo
		suffix = "lb"
	}
	if math.IsInf(m, 0) || math.IsNaN(m) {
		return fmt.Errorf("constraint %s: unbounded big-M, all variables must carry finite bounds", c.Name)
	}
	if m < 0 {
		// Constraint is implied by the variable bounds on this side.
		m = 0
	}
	name := c.Name + "." + suffix
	if side == LE {
		// body + M*ind <= rhs + M
		f.AddConstraint(NewConstraint(name, c.Body.Plus(Sum(T(m, ind))), LE, Const(c.RHS+m)))
	} else {
		// body - M*ind >= rhs - M
		f.AddConstraint(NewConstraint(name, c.Body.Minus(Sum(T(m, ind))), GE, Const(c.RHS-m)))
	}
	return nil
}
