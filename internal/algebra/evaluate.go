package algebra

import "fmt"

// Point is a candidate assignment of variable values, keyed by variable
// name. Variables not present evaluate to 0.
type Point map[string]float64

// DefaultTol is the feasibility tolerance used by checks that do not need
// a custom one.
const DefaultTol = 1e-9

// Violations reports every plain constraint the point breaks, plus every
// disjunction for which no branch is satisfied. A disjunction selects
// exactly one branch, but neighboring branches may overlap at their shared
// boundary (e.g. an input sitting exactly on a breakpoint), so feasibility
// only requires that some branch holds.
func (f *Fragment) Violations(p Point, tol float64) []string {
	var out []string
	for _, c := range f.Constraints {
		if !c.Satisfied(p, tol) {
			out = append(out, fmt.Sprintf("%s violated (body=%g, want %s %g)", c.Name, c.Body.Eval(p), c.Rel, c.RHS))
		}
	}
	for _, d := range f.Disjunctions {
		if len(d.HoldingBranches(p, tol)) == 0 {
			out = append(out, fmt.Sprintf("%s: no branch satisfied", d.Name))
		}
	}
	return out
}

// Feasible reports whether the point satisfies the whole fragment.
func (f *Fragment) Feasible(p Point, tol float64) bool {
	return len(f.Violations(p, tol)) == 0
}

// HoldingBranches returns the indices of every branch whose constraints
// all hold at the point.
func (d Disjunction) HoldingBranches(p Point, tol float64) []int {
	var out []int
	for i, b := range d.Branches {
		holds := true
		for _, c := range b.Cons {
			if !c.Satisfied(p, tol) {
				holds = false
				break
			}
		}
		if holds {
			out = append(out, i)
		}
	}
	return out
}
