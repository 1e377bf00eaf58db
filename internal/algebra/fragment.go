package algebra

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Fragment is the self-contained piece of algebraic structure one
// technology contributes to the outer model: its variables, plain
// constraints, and (until transformation) its disjunctions.
type Fragment struct {
	Tech    string
	BuildID uuid.UUID

	Vars         []*Var
	Constraints  []Constraint
	Disjunctions []Disjunction

	byName map[string]*Var
}

func NewFragment(tech string) *Fragment {
	return &Fragment{
		Tech:    tech,
		BuildID: uuid.New(),
		byName:  make(map[string]*Var),
	}
}

// NewVar declares a variable. Declaring the same name twice is a
// programming error and panics: names key the merge into the outer model.
func (f *Fragment) NewVar(name string, kind VarKind, lo, hi float64) *Var {
	if _, ok := f.byName[name]; ok {
		panic(fmt.Sprintf("fragment %s: duplicate variable %s", f.Tech, name))
	}
	v := &Var{ID: len(f.Vars), Name: name, Kind: kind, Lo: lo, Hi: hi}
	f.Vars = append(f.Vars, v)
	f.byName[name] = v
	return v
}

// Lookup returns a declared variable by name, or nil.
func (f *Fragment) Lookup(name string) *Var { return f.byName[name] }

func (f *Fragment) AddConstraint(c Constraint) { f.Constraints = append(f.Constraints, c) }

func (f *Fragment) AddDisjunction(d Disjunction) { f.Disjunctions = append(f.Disjunctions, d) }

// Scoped builds a technology-scoped name: "<tech>.<family>[idx...]".
func (f *Fragment) Scoped(family string, idx ...any) string {
	name := f.Tech + "." + family
	if len(idx) > 0 {
		name += "["
		for i, ix := range idx {
			if i > 0 {
				name += ","
			}
			name += fmt.Sprint(ix)
		}
		name += "]"
	}
	return name
}

// TransformBigM compiles every disjunction into big-M constraints and
// indicator binaries. After it returns the fragment contains only linear
// rows and is ready for a MILP solver.
func (f *Fragment) TransformBigM() error {
	for _, d := range f.Disjunctions {
		if err := d.transformBigM(f); err != nil {
			return err
		}
	}
	f.Disjunctions = nil
	return nil
}

// Stats summarizes fragment size, reported by the CLI and API.
type Stats struct {
	Variables    int `json:"variables"`
	Binaries     int `json:"binaries"`
	Constraints  int `json:"constraints"`
	Disjunctions int `json:"disjunctions"`
	Branches     int `json:"branches"`
}

func (f *Fragment) Stats() Stats {
	s := Stats{
		Variables:    len(f.Vars),
		Constraints:  len(f.Constraints),
		Disjunctions: len(f.Disjunctions),
	}
	for _, v := range f.Vars {
		if v.Kind == Binary {
			s.Binaries++
		}
	}
	for _, d := range f.Disjunctions {
		s.Branches += len(d.Branches)
	}
	return s
}

type varJSON struct {
	Name string  `json:"name"`
	Kind string  `json:"kind"`
	Lo   float64 `json:"lo"`
	Hi   float64 `json:"hi"`
}

type constraintJSON struct {
	Name  string  `json:"name"`
	Terms []Term  `json:"terms"`
	Rel   string  `json:"rel"`
	RHS   float64 `json:"rhs"`
}

type branchJSON struct {
	Name string           `json:"name"`
	Cons []constraintJSON `json:"constraints"`
}

type disjunctionJSON struct {
	Name     string       `json:"name"`
	Branches []branchJSON `json:"branches"`
}

type fragmentJSON struct {
	Tech         string            `json:"technology"`
	BuildID      string            `json:"build_id"`
	Vars         []varJSON         `json:"variables"`
	Constraints  []constraintJSON  `json:"constraints"`
	Disjunctions []disjunctionJSON `json:"disjunctions,omitempty"`
}

func constraintToJSON(c Constraint) constraintJSON {
	return constraintJSON{Name: c.Name, Terms: c.Body.Terms, Rel: c.Rel.String(), RHS: c.RHS}
}

func (f *Fragment) MarshalJSON() ([]byte, error) {
	out := fragmentJSON{Tech: f.Tech, BuildID: f.BuildID.String()}
	for _, v := range f.Vars {
		out.Vars = append(out.Vars, varJSON{Name: v.Name, Kind: v.Kind.String(), Lo: v.Lo, Hi: v.Hi})
	}
	for _, c := range f.Constraints {
		out.Constraints = append(out.Constraints, constraintToJSON(c))
	}
	for _, d := range f.Disjunctions {
		dj := disjunctionJSON{Name: d.Name}
		for _, b := range d.Branches {
			bj := branchJSON{Name: b.Name}
			for _, c := range b.Cons {
				bj.Cons = append(bj.Cons, constraintToJSON(c))
			}
			dj.Branches = append(dj.Branches, bj)
		}
		out.Disjunctions = append(out.Disjunctions, dj)
	}
	return json.Marshal(out)
}
