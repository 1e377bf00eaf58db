package algebra

import "fmt"

// VarKind distinguishes continuous decision variables from binary ones.
// Mode indicators (x/y/z) are declared Continuous with bounds [0,1]; the
// integrality of operating modes comes from the branch indicators that the
// big-M transformation introduces, not from the pinned variables themselves.
type VarKind int

const (
	Continuous VarKind = iota
	Binary
)

func (k VarKind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Binary:
		return "binary"
	default:
		return fmt.Sprintf("VarKind(%d)", int(k))
	}
}

// Var is a single decision variable owned by a Fragment.
// Names are technology-scoped ("boiler1.input[3,gas]") so fragments from
// multiple technologies can be merged into one model without collisions.
type Var struct {
	ID   int
	Name string
	Kind VarKind

	// Lo/Hi are the variable bounds. Every variable must be bounded:
	// the big-M transformation derives its constants from these.
	Lo, Hi float64
}

func (v *Var) String() string { return v.Name }
