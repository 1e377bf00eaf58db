package algebra

import "fmt"

// Relation is the sense of a constraint.
type Relation int

const (
	LE Relation = iota // body <= rhs
	EQ                 // body == rhs
	GE                 // body >= rhs
)

func (r Relation) String() string {
	switch r {
	case LE:
		return "<="
	case EQ:
		return "=="
	case GE:
		return ">="
	default:
		return fmt.Sprintf("Relation(%d)", int(r))
	}
}

// Constraint is a normalized linear constraint: Body Rel RHS, where Body
// holds all variable terms and RHS is a constant. Names encode
// (technology, family, timestep, branch) so the outer assembly can compose
// fragments and trace rows back to their origin.
type Constraint struct {
	Name string
	Body Expr
	Rel  Relation
	RHS  float64
}

// NewConstraint normalizes lhs Rel rhs by moving all terms to the body and
// all constants to the right-hand side.
func NewConstraint(name string, lhs Expr, rel Relation, rhs Expr) Constraint {
	body := lhs.Minus(rhs)
	c := Constraint{Name: name, Body: Expr{Terms: body.Terms}, Rel: rel, RHS: -body.Const}
	return c
}

// Satisfied reports whether the constraint holds at the point within tol.
func (c Constraint) Satisfied(p Point, tol float64) bool {
	v := c.Body.Eval(p)
	switch c.Rel {
	case LE:
		return v <= c.RHS+tol
	case GE:
		return v >= c.RHS-tol
	default:
		return v >= c.RHS-tol && v <= c.RHS+tol
	}
}

func (c Constraint) String() string {
	return fmt.Sprintf("%s: body %s %g", c.Name, c.Rel, c.RHS)
}
