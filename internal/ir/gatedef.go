package ir

// GateRole classifies what a native gate does to the subcircuit protocol.
type GateRole uint8

const (
	// RoleStandard is an ordinary pulse gate.
	RoleStandard GateRole = iota
	// RolePrepare is a whole-register state preparation; it opens a trace.
	RolePrepare
	// RoleMeasure is a whole-register measurement; it closes a trace.
	RoleMeasure
)

// IdealAction is an opaque descriptor of a gate's ideal unitary action.
// The core never interprets it; numeric backends may.
type IdealAction any

// Callable is anything a gate statement can invoke: a native gate definition
// or a user-defined macro.
type Callable interface {
	GateName() string
	Parameters() []Parameter
}

// GateDef is a native (hardware-defined) gate.
type GateDef struct {
	Name   string
	Params []Parameter
	Role   GateRole
	Ideal  IdealAction
	// Synthetic marks definitions invented for unknown gate names when no
	// gate table was injected (header-only inspection).
	Synthetic bool
}

func (g *GateDef) GateName() string        { return g.Name }
func (g *GateDef) Parameters() []Parameter { return g.Params }

// QubitArity counts the declared qubit parameters. Synthetic definitions
// declare none; callers fall back to counting qubit-shaped arguments.
func (g *GateDef) QubitArity() int {
	n := 0
	for _, p := range g.Params {
		if p.Kind == KindQubit {
			n++
		}
	}
	return n
}

// WholeRegister reports whether the gate acts on every qubit at once.
func (g *GateDef) WholeRegister() bool {
	return g.Role == RolePrepare || g.Role == RoleMeasure
}

// Macro is a user-defined callable gate. Its formals are untyped.
type Macro struct {
	Name   string
	Params []Parameter
	Body   *BlockStatement
}

func (m *Macro) GateName() string        { return m.Name }
func (m *Macro) Parameters() []Parameter { return m.Params }
