// Package trace discovers subcircuit boundaries and replays them against an
// execution backend.
//
// A subcircuit (trace) is the span between a whole-register prepare and the
// matching whole-register measure. Discovery walks the circuit body once in
// program order and enforces the hardware protocol: every gate runs inside a
// trace, every measure closes one, and no trace straddles a loop-iteration
// boundary. Replay walks the body a second time and fires once per loop
// iteration each trace passes through, which is how one statically
// discovered trace correlates with many externally produced outcomes.
package trace

import (
	"fmt"
	"sort"

	"ionasm/internal/diag"
	"ionasm/internal/ir"
	"ionasm/internal/source"
)

// Trace is one discovered subcircuit.
type Trace struct {
	// Start addresses the opening prepare statement, End the closing
	// measure.
	Start Address
	End   Address
	// UsedQubits lists the qubits touched between the boundaries, as
	// "register:index" keys on the fundamental register, sorted.
	UsedQubits []string
}

// Discover walks the circuit body in program order and returns the traces in
// the order their measures occur.
func Discover(c *ir.Circuit) ([]*Trace, error) {
	d := &discoverer{}
	if err := d.walkBlock(c.Body, nil, nil); err != nil {
		return nil, err
	}
	if d.open != nil {
		return nil, diag.Errorf(diag.ProtoUnterminatedTrace, source.Span{},
			"subcircuit opened at %s is never measured", d.open.Start)
	}
	return d.traces, nil
}

type discoverer struct {
	traces []*Trace
	// open is the trace currently accepting gates, with the loop chain in
	// force when it opened and its qubit-usage accounting.
	open      *Trace
	openLoops []*ir.LoopStatement
	used      map[string]bool
}

func (d *discoverer) walkBlock(b *ir.BlockStatement, addr Address, loops []*ir.LoopStatement) error {
	for i, stmt := range b.Stmts {
		if err := d.walkStatement(stmt, append(addr, i), loops); err != nil {
			return err
		}
	}
	return nil
}

func (d *discoverer) walkStatement(stmt ir.Statement, addr Address, loops []*ir.LoopStatement) error {
	switch st := stmt.(type) {
	case *ir.GateStatement:
		return d.visitGate(st, addr, loops)

	case *ir.BlockStatement:
		return d.walkBlock(st, addr, loops)

	case *ir.LoopStatement:
		if err := d.walkBlock(st.Body, addr, append(loops, st)); err != nil {
			return err
		}
		// A trace opened inside this loop body and still open when the body
		// ends would be closed by a later iteration's measure.
		if d.open != nil && containsLoop(d.openLoops, st) {
			return diag.Errorf(diag.ProtoTraceAcrossLoop, source.Span{},
				"subcircuit opened at %s crosses a loop iteration boundary", d.open.Start)
		}
		return nil

	case *ir.BranchStatement:
		// Branch arms are mutually exclusive, so trace boundaries inside
		// them have no single static answer; the whole branch must sit
		// inside an open trace.
		if d.open == nil {
			return diag.Errorf(diag.ProtoGateOutsideTrace, source.Span{},
				"branch at %s outside any subcircuit", addr)
		}
		for _, cs := range st.Cases {
			d.recordQubits(cs.Body)
		}
		return nil
	}
	return nil
}

func (d *discoverer) visitGate(g *ir.GateStatement, addr Address, loops []*ir.LoopStatement) error {
	def := g.Def()
	switch {
	case def != nil && def.Role == ir.RolePrepare:
		// Re-opening an open trace is allowed: it resets the boundary and
		// the qubit accounting.
		d.open = &Trace{Start: addr.Clone()}
		d.openLoops = append([]*ir.LoopStatement(nil), loops...)
		d.used = make(map[string]bool)
		return nil

	case def != nil && def.Role == ir.RoleMeasure:
		if d.open == nil {
			return diag.Errorf(diag.ProtoMeasureNoTrace, source.Span{},
				"measure at %s without an open subcircuit", addr)
		}
		if !sameLoops(d.openLoops, loops) {
			return diag.Errorf(diag.ProtoTraceAcrossLoop, source.Span{},
				"subcircuit opened at %s is measured at %s across a loop boundary",
				d.open.Start, addr)
		}
		t := d.open
		t.End = addr.Clone()
		t.UsedQubits = sortedKeys(d.used)
		d.traces = append(d.traces, t)
		d.open, d.openLoops, d.used = nil, nil, nil
		return nil
	}

	if d.open == nil {
		return diag.Errorf(diag.ProtoGateOutsideTrace, source.Span{},
			"gate %s at %s outside any subcircuit", g.Name(), addr)
	}
	d.recordQubits(g)
	return nil
}

// recordQubits accumulates the qubits a statement touches into the open
// trace's accounting.
func (d *discoverer) recordQubits(stmt ir.Statement) {
	switch st := stmt.(type) {
	case *ir.GateStatement:
		for _, a := range st.Args {
			if q, ok := a.(ir.QubitRef); ok && q.Index.Resolved() {
				// Alias-local indices map through the alias chain, so the
				// accounting names physical qubits.
				if root, idx, err := q.Reg.MapQubit(q.Index.Value()); err == nil {
					d.used[fmt.Sprintf("%s:%d", root.Name, idx)] = true
				}
			}
		}
	case *ir.BlockStatement:
		for _, kid := range st.Stmts {
			d.recordQubits(kid)
		}
	case *ir.LoopStatement:
		d.recordQubits(st.Body)
	case *ir.BranchStatement:
		for _, cs := range st.Cases {
			d.recordQubits(cs.Body)
		}
	}
}

func containsLoop(chain []*ir.LoopStatement, l *ir.LoopStatement) bool {
	for _, c := range chain {
		if c == l {
			return true
		}
	}
	return false
}

func sameLoops(a, b []*ir.LoopStatement) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
