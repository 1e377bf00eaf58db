package algebra

import "encoding/json"

// Term is one coefficient*variable product inside a linear expression.
type Term struct {
	Coef float64
	Var  *Var
}

// T is shorthand for building a Term.
func T(coef float64, v *Var) Term { return Term{Coef: coef, Var: v} }

// Expr is a linear expression: sum of terms plus a constant.
type Expr struct {
	Terms []Term
	Const float64
}

// Sum builds an expression from terms.
func Sum(terms ...Term) Expr { return Expr{Terms: terms} }

// Const builds a constant expression.
func Const(c float64) Expr { return Expr{Const: c} }

// VarExpr builds the expression 1*v.
func VarExpr(v *Var) Expr { return Expr{Terms: []Term{{Coef: 1, Var: v}}} }

// Plus returns e + o without mutating either.
func (e Expr) Plus(o Expr) Expr {
	terms := make([]Term, 0, len(e.Terms)+len(o.Terms))
	terms = append(terms, e.Terms...)
	terms = append(terms, o.Terms...)
	return Expr{Terms: terms, Const: e.Const + o.Const}
}

// Minus returns e - o.
func (e Expr) Minus(o Expr) Expr { return e.Plus(o.Scale(-1)) }

// Scale returns f*e.
func (e Expr) Scale(f float64) Expr {
	terms := make([]Term, len(e.Terms))
	for i, t := range e.Terms {
		terms[i] = Term{Coef: t.Coef * f, Var: t.Var}
	}
	return Expr{Terms: terms, Const: e.Const * f}
}

// Bounds computes the interval the expression can take given the bounds of
// its variables. Used to derive big-M constants.
func (e Expr) Bounds() (lo, hi float64) {
	lo, hi = e.Const, e.Const
	for _, t := range e.Terms {
		if t.Coef >= 0 {
			lo += t.Coef * t.Var.Lo
			hi += t.Coef * t.Var.Hi
		} else {
			lo += t.Coef * t.Var.Hi
			hi += t.Coef * t.Var.Lo
		}
	}
	return lo, hi
}

// Eval evaluates the expression at a point. Variables absent from the point
// are taken as 0.
func (e Expr) Eval(p Point) float64 {
	v := e.Const
	for _, t := range e.Terms {
		v += t.Coef * p[t.Var.Name]
	}
	return v
}

func (t Term) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Coef float64 `json:"coef"`
		Var  string  `json:"var"`
	}{t.Coef, t.Var.Name})
}
