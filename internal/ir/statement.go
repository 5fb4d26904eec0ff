package ir

// Statement is the closed sum of circuit body statements.
type Statement interface {
	isStatement()
}

// GateStatement is an immutable binding of a callable gate to argument
// values, in the callee's parameter declaration order.
type GateStatement struct {
	Callee Callable
	Args   []Value
}

func (*GateStatement) isStatement() {}

// Name is the invoked gate's name.
func (g *GateStatement) Name() string { return g.Callee.GateName() }

// IsMacroCall reports whether the callee is a user-defined macro.
func (g *GateStatement) IsMacroCall() bool {
	_, ok := g.Callee.(*Macro)
	return ok
}

// Def returns the native definition, or nil for macro calls.
func (g *GateStatement) Def() *GateDef {
	d, _ := g.Callee.(*GateDef)
	return d
}

// ArgByName finds the argument bound to the named parameter.
func (g *GateStatement) ArgByName(name string) (Value, bool) {
	for i, p := range g.Callee.Parameters() {
		if p.Name == name && i < len(g.Args) {
			return g.Args[i], true
		}
	}
	return nil, false
}

// Ordering tags a block's execution discipline.
type Ordering uint8

const (
	// Sequential statements run one after another.
	Sequential Ordering = iota
	// Parallel statements issue their pulses simultaneously.
	Parallel
	// Unscheduled is a transient tag: contained statements have no fixed
	// order yet and are input to the scheduler. A fully compiled circuit
	// contains no unscheduled blocks.
	Unscheduled
)

func (o Ordering) String() string {
	switch o {
	case Sequential:
		return "sequential"
	case Parallel:
		return "parallel"
	case Unscheduled:
		return "unscheduled"
	}
	return "unknown"
}

// BlockStatement is an ordered sequence of statements under one ordering.
// Invariant: a sequential block never directly contains another sequential
// block as a statement, and symmetrically for parallel blocks. Rewrite
// passes and the scheduler maintain this by flattening.
type BlockStatement struct {
	Order Ordering
	Stmts []Statement
}

func (*BlockStatement) isStatement() {}

// LoopStatement repeats its body a fixed number of times. The count may be a
// constant reference until substitution runs.
type LoopStatement struct {
	Count IntExpr
	Body  *BlockStatement
}

func (*LoopStatement) isStatement() {}

// CaseStatement is one state-labelled arm of a branch.
type CaseStatement struct {
	State string // measured bit pattern, e.g. "01"
	Body  *BlockStatement
}

// BranchStatement is an experimental set of mutually exclusive cases,
// selected by a measured state.
type BranchStatement struct {
	Cases []*CaseStatement
}

func (*BranchStatement) isStatement() {}
