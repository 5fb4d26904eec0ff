package ir

// ParamKind classifies a gate or macro parameter.
type ParamKind uint8

const (
	// KindUntyped accepts any value. Macro formals carry no static type.
	KindUntyped ParamKind = iota
	KindQubit
	KindFloat
	KindRegister
	KindInt
)

func (k ParamKind) String() string {
	switch k {
	case KindUntyped:
		return "untyped"
	case KindQubit:
		return "qubit"
	case KindFloat:
		return "float"
	case KindRegister:
		return "register"
	case KindInt:
		return "int"
	}
	return "unknown"
}

// Accepts reports whether a value classified as got may bind a parameter of
// this kind. Int literals are acceptable floats; everything binds untyped.
func (k ParamKind) Accepts(got ParamKind) bool {
	if k == KindUntyped || got == KindUntyped {
		return true
	}
	if k == got {
		return true
	}
	return k == KindFloat && got == KindInt
}

// Parameter is a named, optionally typed formal parameter.
type Parameter struct {
	Name string
	Kind ParamKind
}
