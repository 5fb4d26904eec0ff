package sched

import "ionasm/internal/ir"

// Schedule resolves every unscheduled block in the circuit body and in macro
// bodies, rewriting them in place. Already-ordered blocks are untouched, so
// scheduling twice is a no-op.
func Schedule(c *ir.Circuit) {
	for _, m := range c.Macros {
		scheduleStatement(m.Body)
	}
	scheduleStatement(c.Body)
}

// ScheduleBlock schedules one block tree in place, innermost blocks first.
func ScheduleBlock(b *ir.BlockStatement) {
	scheduleStatement(b)
}

func scheduleStatement(stmt ir.Statement) {
	switch st := stmt.(type) {
	case *ir.BlockStatement:
		for _, kid := range st.Stmts {
			scheduleStatement(kid)
		}
		if st.Order == ir.Unscheduled {
			packBlock(st)
		}
		flattenInPlace(st)

	case *ir.LoopStatement:
		scheduleStatement(st.Body)

	case *ir.BranchStatement:
		for _, cs := range st.Cases {
			scheduleStatement(cs.Body)
		}
	}
}

// slot is one parallel group under construction.
type slot struct {
	stmts []ir.Statement
	// twoQubit records whether the group already hosts a two-qubit gate;
	// exclusive marks a group that admits no further members.
	twoQubit  bool
	exclusive bool
}

// packBlock runs the greedy list scheduling over one unscheduled block and
// rewrites it to a sequential block of parallel groups.
//
// Per qubit the scheduler tracks a freeze timestamp: the index of the last
// slot that touched it. A statement's candidate slot is one past the maximum
// freeze over its footprint, which by construction keeps the footprints of
// co-resident statements disjoint; the forward scan then only has to check
// the hosting rules (single native gates only, at most one two-qubit gate,
// whole-register operations alone).
func packBlock(b *ir.BlockStatement) {
	var slots []*slot
	freeze := make(map[string]int)
	// wholeFreeze is the last slot that touched every qubit.
	wholeFreeze := -1

	maxFreeze := func(f *footprint) int {
		m := wholeFreeze
		if f.whole {
			for _, t := range freeze {
				if t > m {
					m = t
				}
			}
			return m
		}
		for k := range f.qubits {
			if t, ok := freeze[k]; ok && t > m {
				m = t
			}
		}
		return m
	}

	for _, stmt := range b.Stmts {
		f := statementFootprint(stmt)
		eligible, twoQubit := classify(stmt)
		candidate := maxFreeze(f) + 1

		chosen := -1
		if eligible {
			for i := candidate; i < len(slots); i++ {
				s := slots[i]
				if s.exclusive {
					continue
				}
				if twoQubit && s.twoQubit {
					continue
				}
				chosen = i
				break
			}
		}
		if chosen < 0 {
			slots = append(slots, &slot{exclusive: !eligible})
			chosen = len(slots) - 1
		}

		s := slots[chosen]
		s.stmts = append(s.stmts, stmt)
		if twoQubit {
			s.twoQubit = true
		}

		if f.whole {
			wholeFreeze = chosen
		}
		for k := range f.qubits {
			if freeze[k] < chosen {
				freeze[k] = chosen
			}
		}
	}

	out := make([]ir.Statement, 0, len(slots))
	for _, s := range slots {
		if len(s.stmts) == 1 {
			out = append(out, s.stmts[0])
			continue
		}
		out = append(out, &ir.BlockStatement{Order: ir.Parallel, Stmts: s.stmts})
	}
	b.Order = ir.Sequential
	b.Stmts = out
}

// classify decides whether a statement may share a parallel group, and
// whether it counts as a two-qubit gate for the one-per-group rule.
func classify(stmt ir.Statement) (eligible, twoQubit bool) {
	g, ok := stmt.(*ir.GateStatement)
	if !ok {
		return false, false
	}
	if g.IsMacroCall() {
		return false, false
	}
	if def := g.Def(); def != nil && def.WholeRegister() {
		return false, false
	}
	return true, qubitArity(g) >= 2
}

// flattenInPlace re-applies the same-kind nesting invariant after packing.
func flattenInPlace(b *ir.BlockStatement) {
	if b.Order == ir.Unscheduled {
		return
	}
	changed := false
	for _, s := range b.Stmts {
		if inner, ok := s.(*ir.BlockStatement); ok && inner.Order == b.Order {
			changed = true
			break
		}
	}
	if !changed {
		return
	}
	out := make([]ir.Statement, 0, len(b.Stmts))
	for _, s := range b.Stmts {
		if inner, ok := s.(*ir.BlockStatement); ok && inner.Order == b.Order {
			out = append(out, inner.Stmts...)
			continue
		}
		out = append(out, s)
	}
	b.Stmts = out
}
