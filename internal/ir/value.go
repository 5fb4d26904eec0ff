package ir

import (
	"fmt"
	"strconv"
)

// Value is a gate argument: a literal number, a constant reference, a qubit
// reference, a whole-register reference, or a macro parameter reference.
// The sum is closed; passes switch over it exhaustively.
type Value interface {
	isValue()
	// ValueKind classifies the value for parameter checking.
	ValueKind() ParamKind
	// Text renders the value in canonical source form.
	Text() string
}

// Number is a literal integer or float.
type Number struct {
	IsFloat bool
	Int     int64
	Float   float64
}

func IntNumber(v int64) Number     { return Number{Int: v} }
func FloatNumber(v float64) Number { return Number{IsFloat: true, Float: v} }

func (n Number) isValue() {}

func (n Number) ValueKind() ParamKind {
	if n.IsFloat {
		return KindFloat
	}
	return KindInt
}

func (n Number) Text() string {
	if n.IsFloat {
		return strconv.FormatFloat(n.Float, 'g', -1, 64)
	}
	return strconv.FormatInt(n.Int, 10)
}

// AsFloat widens the literal to float64.
func (n Number) AsFloat() float64 {
	if n.IsFloat {
		return n.Float
	}
	return float64(n.Int)
}

// Constant is a named numeric binding declared with `let`.
type Constant struct {
	Name  string
	Value Number
}

// ConstRef is a reference to a declared constant, pending substitution.
type ConstRef struct {
	Const *Constant
}

func (ConstRef) isValue() {}

func (r ConstRef) ValueKind() ParamKind { return r.Const.Value.ValueKind() }

func (r ConstRef) Text() string { return r.Const.Name }

// QubitRef is a (register, index) pair naming one qubit, possibly through an
// alias register that a later pass resolves to the fundamental register.
type QubitRef struct {
	Reg   *Register
	Index IntExpr
}

func (QubitRef) isValue() {}

func (QubitRef) ValueKind() ParamKind { return KindQubit }

func (q QubitRef) Text() string {
	return fmt.Sprintf("%s[%s]", q.Reg.Name, q.Index.Text())
}

// RegRef is a whole-register argument.
type RegRef struct {
	Reg *Register
}

func (RegRef) isValue() {}

func (RegRef) ValueKind() ParamKind { return KindRegister }

func (r RegRef) Text() string { return r.Reg.Name }

// ParamRef is a reference to an enclosing macro's formal parameter. It only
// appears inside macro bodies and disappears during expansion.
type ParamRef struct {
	Name string
	Pos  int
}

func (ParamRef) isValue() {}

func (ParamRef) ValueKind() ParamKind { return KindUntyped }

func (p ParamRef) Text() string { return p.Name }

// IntExpr is an integer that may still be a constant reference.
// Ref == nil means the literal Lit is authoritative.
type IntExpr struct {
	Ref *Constant
	Lit int64
}

func LitInt(v int64) IntExpr { return IntExpr{Lit: v} }

// Resolved reports whether the value no longer depends on a constant.
func (e IntExpr) Resolved() bool { return e.Ref == nil }

// Value returns the literal; only meaningful when Resolved.
func (e IntExpr) Value() int64 {
	if e.Ref != nil {
		if e.Ref.Value.IsFloat {
			return int64(e.Ref.Value.Float)
		}
		return e.Ref.Value.Int
	}
	return e.Lit
}

func (e IntExpr) Text() string {
	if e.Ref != nil {
		return e.Ref.Name
	}
	return strconv.FormatInt(e.Lit, 10)
}
