package sched

import (
	"fmt"

	"ionasm/internal/ir"
)

// footprint is the set of qubits a statement touches. Whole marks statements
// that touch every qubit: whole-register operations, references through a
// register whose extent cannot be pinned down, and anything else the
// scheduler must order conservatively.
type footprint struct {
	whole  bool
	qubits map[string]bool
}

func newFootprint() *footprint {
	return &footprint{qubits: make(map[string]bool)}
}

// add records one physical qubit. The index is local to reg, so alias
// references map through the alias chain first; a reference that cannot be
// pinned to a physical qubit widens the footprint to the whole register.
func (f *footprint) add(reg *ir.Register, index int64) {
	root, physical, err := reg.MapQubit(index)
	if err != nil {
		f.whole = true
		return
	}
	f.qubits[fmt.Sprintf("%s:%d", root.Name, physical)] = true
}

func (f *footprint) merge(other *footprint) {
	if other.whole {
		f.whole = true
	}
	for k := range other.qubits {
		f.qubits[k] = true
	}
}

// statementFootprint computes the qubits touched by stmt, recursing through
// loops, blocks, branches, and unexpanded macro bodies.
func statementFootprint(stmt ir.Statement) *footprint {
	f := newFootprint()
	collectFootprint(stmt, f)
	return f
}

func collectFootprint(stmt ir.Statement, f *footprint) {
	switch st := stmt.(type) {
	case *ir.GateStatement:
		if def := st.Def(); def != nil && def.WholeRegister() {
			f.whole = true
			return
		}
		for _, a := range st.Args {
			collectValueFootprint(a, f)
		}
		if m, ok := st.Callee.(*ir.Macro); ok {
			// Formals are covered by the argument footprints above; the
			// body contributes whatever fixed qubits it names directly.
			collectFootprint(m.Body, f)
		}

	case *ir.BlockStatement:
		for _, kid := range st.Stmts {
			collectFootprint(kid, f)
		}

	case *ir.LoopStatement:
		collectFootprint(st.Body, f)

	case *ir.BranchStatement:
		for _, cs := range st.Cases {
			collectFootprint(cs.Body, f)
		}
	}
}

func collectValueFootprint(v ir.Value, f *footprint) {
	switch val := v.(type) {
	case ir.QubitRef:
		if !val.Index.Resolved() {
			f.whole = true
			return
		}
		f.add(val.Reg, val.Index.Value())

	case ir.RegRef:
		size, ok := val.Reg.ResolvedSize()
		if !ok {
			f.whole = true
			return
		}
		for i := int64(0); i < size; i++ {
			f.add(val.Reg, i)
		}
	}
}

// qubitArity counts the qubit-shaped arguments of a gate call; for catalog
// gates the declaration is authoritative, synthetic definitions fall back to
// counting the actual arguments.
func qubitArity(g *ir.GateStatement) int {
	if def := g.Def(); def != nil && !def.Synthetic {
		return def.QubitArity()
	}
	n := 0
	for _, a := range g.Args {
		if _, ok := a.(ir.QubitRef); ok {
			n++
		}
	}
	return n
}
