package passes

import (
	"ionasm/internal/diag"
	"ionasm/internal/ir"
	"ionasm/internal/source"
)

// ExpandMacros inlines every macro call in the circuit body, substituting
// actual arguments for formal parameter references by position. Expansion is
// transitive: macros calling earlier macros inline all the way down. Same-
// kind blocks produced by inlining splice into their parents, so the result
// obeys the block-nesting invariant.
//
// Macro definitions stay in the circuit; only call sites change. A body with
// no macro calls comes back as the same pointer.
func ExpandMacros(c *ir.Circuit) (*ir.Circuit, error) {
	e := &expander{}
	body, err := e.rewriteBlock(c.Body, nil)
	if err != nil {
		return nil, err
	}
	if body == c.Body {
		return c, nil
	}
	out := c.Shallow()
	out.Body = body
	return out.Reindex(), nil
}

type expander struct{}

// rewriteBlock expands macro calls within one block under the given argument
// substitution (nil outside macro bodies). Inlined bodies arrive as
// sequential blocks, so the result is normalized to splice them.
func (e *expander) rewriteBlock(b *ir.BlockStatement, args []ir.Value) (*ir.BlockStatement, error) {
	changed := false
	out := make([]ir.Statement, 0, len(b.Stmts))
	for _, kid := range b.Stmts {
		nk, err := e.rewriteStatement(kid, args)
		if err != nil {
			return nil, err
		}
		if nk != kid {
			changed = true
		}
		out = append(out, nk)
	}
	if !changed {
		return b, nil
	}
	return ir.NormalizeBlock(&ir.BlockStatement{Order: b.Order, Stmts: out}), nil
}

func (e *expander) rewriteStatement(stmt ir.Statement, args []ir.Value) (ir.Statement, error) {
	switch st := stmt.(type) {
	case *ir.GateStatement:
		return e.rewriteGate(st, args)

	case *ir.BlockStatement:
		return e.rewriteBlock(st, args)

	case *ir.LoopStatement:
		body, err := e.rewriteBlock(st.Body, args)
		if err != nil {
			return nil, err
		}
		if body == st.Body {
			return st, nil
		}
		return &ir.LoopStatement{Count: st.Count, Body: body}, nil

	case *ir.BranchStatement:
		changed := false
		cases := make([]*ir.CaseStatement, len(st.Cases))
		for i, cs := range st.Cases {
			body, err := e.rewriteBlock(cs.Body, args)
			if err != nil {
				return nil, err
			}
			if body == cs.Body {
				cases[i] = cs
				continue
			}
			cases[i] = &ir.CaseStatement{State: cs.State, Body: body}
			changed = true
		}
		if !changed {
			return st, nil
		}
		return &ir.BranchStatement{Cases: cases}, nil
	}
	return stmt, nil
}

// rewriteGate substitutes parameter references in the arguments, then inlines
// the callee when it is a macro. The inlined body is a fresh copy: every call
// site binds its own arguments.
func (e *expander) rewriteGate(g *ir.GateStatement, args []ir.Value) (ir.Statement, error) {
	changed := false
	actual := make([]ir.Value, len(g.Args))
	for i, a := range g.Args {
		p, ok := a.(ir.ParamRef)
		if !ok {
			actual[i] = a
			continue
		}
		if p.Pos >= len(args) {
			return nil, diag.Errorf(diag.NameUndefined, source.Span{},
				"macro parameter %q used outside a macro body", p.Name)
		}
		actual[i] = args[p.Pos]
		changed = true
	}

	m, ok := g.Callee.(*ir.Macro)
	if !ok {
		if !changed {
			return g, nil
		}
		return &ir.GateStatement{Callee: g.Callee, Args: actual}, nil
	}

	if len(actual) != len(m.Params) {
		return nil, diag.Errorf(diag.StructArgCount, source.Span{},
			"macro %s takes %d arguments, got %d", m.Name, len(m.Params), len(actual))
	}
	return e.rewriteBlock(m.Body, actual)
}
