package ir

// Equal reports structural equality of two circuits. Node identity does not
// matter: registers and constants compare by name and shape, statements
// recursively. Memoized (shared) gate statements therefore compare equal to
// their unshared counterparts.
func Equal(a, b *Circuit) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Constants) != len(b.Constants) ||
		len(a.Registers) != len(b.Registers) ||
		len(a.Macros) != len(b.Macros) ||
		len(a.Usepulses) != len(b.Usepulses) {
		return false
	}
	for i, k := range a.Constants {
		if k.Name != b.Constants[i].Name || k.Value != b.Constants[i].Value {
			return false
		}
	}
	for i, r := range a.Registers {
		if !equalRegister(r, b.Registers[i]) {
			return false
		}
	}
	for i, m := range a.Macros {
		if !equalMacro(m, b.Macros[i]) {
			return false
		}
	}
	for i, u := range a.Usepulses {
		if u != b.Usepulses[i] {
			return false
		}
	}
	return EqualStatement(a.Body, b.Body)
}

func equalRegister(a, b *Register) bool {
	if a.Name != b.Name {
		return false
	}
	if (a.Alias == nil) != (b.Alias == nil) {
		return false
	}
	if a.Alias == nil {
		return equalIntExpr(a.Size, b.Size)
	}
	x, y := a.Alias, b.Alias
	return x.Kind == y.Kind &&
		x.Source.Name == y.Source.Name &&
		equalIntExpr(x.Index, y.Index) &&
		equalIntExpr(x.Start, y.Start) &&
		equalIntExpr(x.Stop, y.Stop) &&
		equalIntExpr(x.Step, y.Step)
}

func equalIntExpr(a, b IntExpr) bool {
	if (a.Ref == nil) != (b.Ref == nil) {
		return false
	}
	if a.Ref != nil {
		return a.Ref.Name == b.Ref.Name
	}
	return a.Lit == b.Lit
}

func equalMacro(a, b *Macro) bool {
	if a.Name != b.Name || len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	return EqualStatement(a.Body, b.Body)
}

// EqualStatement reports structural equality of two statements.
func EqualStatement(a, b Statement) bool {
	switch x := a.(type) {
	case *GateStatement:
		y, ok := b.(*GateStatement)
		if !ok || x.Name() != y.Name() || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !EqualValue(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true

	case *BlockStatement:
		y, ok := b.(*BlockStatement)
		if !ok || x.Order != y.Order || len(x.Stmts) != len(y.Stmts) {
			return false
		}
		for i := range x.Stmts {
			if !EqualStatement(x.Stmts[i], y.Stmts[i]) {
				return false
			}
		}
		return true

	case *LoopStatement:
		y, ok := b.(*LoopStatement)
		return ok && equalIntExpr(x.Count, y.Count) && EqualStatement(x.Body, y.Body)

	case *BranchStatement:
		y, ok := b.(*BranchStatement)
		if !ok || len(x.Cases) != len(y.Cases) {
			return false
		}
		for i := range x.Cases {
			if x.Cases[i].State != y.Cases[i].State ||
				!EqualStatement(x.Cases[i].Body, y.Cases[i].Body) {
				return false
			}
		}
		return true

	case nil:
		return b == nil
	}
	return false
}

// EqualValue reports structural equality of two argument values.
func EqualValue(a, b Value) bool {
	switch x := a.(type) {
	case Number:
		y, ok := b.(Number)
		return ok && x == y
	case ConstRef:
		y, ok := b.(ConstRef)
		return ok && x.Const.Name == y.Const.Name && x.Const.Value == y.Const.Value
	case QubitRef:
		y, ok := b.(QubitRef)
		return ok && x.Reg.Name == y.Reg.Name && equalIntExpr(x.Index, y.Index)
	case RegRef:
		y, ok := b.(RegRef)
		return ok && x.Reg.Name == y.Reg.Name
	case ParamRef:
		y, ok := b.(ParamRef)
		return ok && x.Name == y.Name && x.Pos == y.Pos
	}
	return false
}
