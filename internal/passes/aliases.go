package passes

import (
	"ionasm/internal/diag"
	"ionasm/internal/ir"
	"ionasm/internal/source"
)

// ResolveAliases rewrites every qubit reference onto the fundamental register
// with a literal index, following alias chains declared with `map`. Whole-
// register references through whole-copy aliases resolve to the fundamental
// register; a sliced or indexed alias cannot stand in for a whole register.
//
// The pass requires literal bounds everywhere, so it runs after
// SubstituteConstants. Alias declarations stay in the circuit; only uses
// change. Running the pass twice is a no-op.
func ResolveAliases(c *ir.Circuit) (*ir.Circuit, error) {
	r := &aliasResolver{
		stmts:  make(map[ir.Statement]ir.Statement),
		macros: make(map[*ir.Macro]*ir.Macro),
	}

	changed := false
	macros := make([]*ir.Macro, len(c.Macros))
	for i, m := range c.Macros {
		body, err := r.rewriteBlock(m.Body)
		if err != nil {
			return nil, err
		}
		if body == m.Body {
			macros[i] = m
			continue
		}
		nm := &ir.Macro{Name: m.Name, Params: m.Params, Body: body}
		macros[i] = nm
		r.macros[m] = nm
		changed = true
	}

	body, err := r.rewriteBlock(c.Body)
	if err != nil {
		return nil, err
	}

	if !changed && body == c.Body {
		return c, nil
	}
	out := c.Shallow()
	out.Macros = macros
	out.Body = body
	return out.Reindex(), nil
}

type aliasResolver struct {
	stmts  map[ir.Statement]ir.Statement
	macros map[*ir.Macro]*ir.Macro
}

func (r *aliasResolver) rewriteBlock(b *ir.BlockStatement) (*ir.BlockStatement, error) {
	ns, err := r.rewriteStatement(b)
	if err != nil {
		return nil, err
	}
	return ns.(*ir.BlockStatement), nil
}

func (r *aliasResolver) rewriteStatement(stmt ir.Statement) (ir.Statement, error) {
	if cached, ok := r.stmts[stmt]; ok {
		return cached, nil
	}
	ns, err := r.rewrite(stmt)
	if err != nil {
		return nil, err
	}
	r.stmts[stmt] = ns
	return ns, nil
}

func (r *aliasResolver) rewrite(stmt ir.Statement) (ir.Statement, error) {
	switch st := stmt.(type) {
	case *ir.GateStatement:
		return r.rewriteGate(st)

	case *ir.BlockStatement:
		changed := false
		out := make([]ir.Statement, len(st.Stmts))
		for i, kid := range st.Stmts {
			nk, err := r.rewriteStatement(kid)
			if err != nil {
				return nil, err
			}
			out[i] = nk
			if nk != kid {
				changed = true
			}
		}
		if !changed {
			return st, nil
		}
		return &ir.BlockStatement{Order: st.Order, Stmts: out}, nil

	case *ir.LoopStatement:
		body, err := r.rewriteBlock(st.Body)
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
			body, err := r.rewriteBlock(cs.Body)
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

func (r *aliasResolver) rewriteGate(g *ir.GateStatement) (ir.Statement, error) {
	callee := g.Callee
	if m, ok := callee.(*ir.Macro); ok {
		if nm, hit := r.macros[m]; hit {
			callee = nm
		}
	}

	changed := callee != g.Callee
	args := make([]ir.Value, len(g.Args))
	for i, a := range g.Args {
		na, err := r.rewriteValue(a, g.IsMacroCall())
		if err != nil {
			return nil, err
		}
		args[i] = na
		if na != a {
			changed = true
		}
	}
	if !changed {
		return g, nil
	}
	return &ir.GateStatement{Callee: callee, Args: args}, nil
}

func (r *aliasResolver) rewriteValue(v ir.Value, macroCall bool) (ir.Value, error) {
	switch val := v.(type) {
	case ir.QubitRef:
		if !val.Index.Resolved() {
			return nil, diag.Errorf(diag.StructUnresolvedConst, source.Span{},
				"qubit index %q is an unresolved constant; substitute constants first",
				val.Index.Text())
		}
		if val.Reg.Alias == nil {
			return v, nil
		}
		root, idx, err := val.Reg.MapQubit(val.Index.Value())
		if err != nil {
			return nil, diag.Errorf(diag.TypeIndexRange, source.Span{}, "%v", err)
		}
		return ir.QubitRef{Reg: root, Index: ir.LitInt(idx)}, nil

	case ir.RegRef:
		if val.Reg.Alias == nil {
			return v, nil
		}
		if macroCall {
			// A macro formal stands for a single value; the expansion pass
			// cannot index into it, so a whole alias has no meaning there.
			return nil, diag.Errorf(diag.TypeWholeAliasArg, source.Span{},
				"alias register %q cannot be passed whole to a macro", val.Reg.Name)
		}
		root, err := wholeRoot(val.Reg)
		if err != nil {
			return nil, err
		}
		if root == val.Reg {
			return v, nil
		}
		return ir.RegRef{Reg: root}, nil
	}
	return v, nil
}

// wholeRoot follows whole-copy alias hops. An indexed or sliced alias is a
// strict subset of its source and cannot be used where a whole register is
// expected.
func wholeRoot(reg *ir.Register) (*ir.Register, error) {
	cur := reg
	for cur.Alias != nil {
		if cur.Alias.Kind != ir.AliasWhole {
			return nil, diag.Errorf(diag.TypeWholeAliasArg, source.Span{},
				"alias register %q does not cover a whole register", reg.Name)
		}
		cur = cur.Alias.Source
	}
	return cur, nil
}
