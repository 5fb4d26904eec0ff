package passes

import (
	"ionasm/internal/diag"
	"ionasm/internal/ir"
	"ionasm/internal/source"
)

// Overrides maps constant names to replacement values. Every key must name a
// declared constant.
type Overrides map[string]ir.Number

// SubstituteConstants replaces every constant reference in the circuit with
// its literal value, applying overrides on top of the declared values. The
// declarations themselves survive with their effective values so the circuit
// still round-trips through the generator.
//
// Because registers are rewritten when their sizes or alias bounds resolve,
// the pass also remaps every qubit and register reference onto the rewritten
// declarations. Running the pass twice is a no-op.
func SubstituteConstants(c *ir.Circuit, overrides Overrides) (*ir.Circuit, error) {
	for name := range overrides {
		if _, ok := c.LookupConstant(name); !ok {
			return nil, diag.Errorf(diag.NameUnknownOverride, source.Span{},
				"override %q does not name a declared constant", name)
		}
	}

	s := &substituter{
		values: make(map[*ir.Constant]ir.Number, len(c.Constants)),
		regs:   make(map[*ir.Register]*ir.Register),
		macros: make(map[*ir.Macro]*ir.Macro),
		stmts:  make(map[ir.Statement]ir.Statement),
	}

	changed := false
	constants := make([]*ir.Constant, len(c.Constants))
	for i, k := range c.Constants {
		value := k.Value
		if ov, ok := overrides[k.Name]; ok {
			value = ov
		}
		s.values[k] = value
		if value == k.Value {
			constants[i] = k
			continue
		}
		constants[i] = &ir.Constant{Name: k.Name, Value: value}
		changed = true
	}

	registers := make([]*ir.Register, len(c.Registers))
	for i, r := range c.Registers {
		nr, err := s.rewriteRegister(r)
		if err != nil {
			return nil, err
		}
		registers[i] = nr
		if nr != r {
			s.regs[r] = nr
			changed = true
		}
	}

	macros := make([]*ir.Macro, len(c.Macros))
	for i, m := range c.Macros {
		body, err := s.rewriteBlock(m.Body)
		if err != nil {
			return nil, err
		}
		if body == m.Body {
			macros[i] = m
			continue
		}
		nm := &ir.Macro{Name: m.Name, Params: m.Params, Body: body}
		macros[i] = nm
		s.macros[m] = nm
		changed = true
	}

	body, err := s.rewriteBlock(c.Body)
	if err != nil {
		return nil, err
	}

	if !changed && body == c.Body {
		return c, nil
	}
	out := c.Shallow()
	out.Constants = constants
	out.Registers = registers
	out.Macros = macros
	out.Body = body
	return out.Reindex(), nil
}

type substituter struct {
	values map[*ir.Constant]ir.Number
	regs   map[*ir.Register]*ir.Register
	macros map[*ir.Macro]*ir.Macro
	// stmts preserves sharing: a gate statement the builder folded to one
	// node stays one node after rewriting.
	stmts map[ir.Statement]ir.Statement
}

func (s *substituter) reg(r *ir.Register) *ir.Register {
	if nr, ok := s.regs[r]; ok {
		return nr
	}
	return r
}

// resolve turns a constant-referencing IntExpr into a literal one. The
// constant must hold an integer; code classifies the failure for the caller's
// context.
func (s *substituter) resolve(e ir.IntExpr, code diag.Code, what string) (ir.IntExpr, error) {
	if e.Ref == nil {
		return e, nil
	}
	v := s.values[e.Ref]
	if v.IsFloat {
		return e, diag.Errorf(code, source.Span{},
			"%s constant %q is not an integer", what, e.Ref.Name)
	}
	return ir.LitInt(v.Int), nil
}

func (s *substituter) rewriteRegister(r *ir.Register) (*ir.Register, error) {
	if r.Alias == nil {
		size, err := s.resolve(r.Size, diag.TypeRegisterSize, "register size")
		if err != nil {
			return nil, err
		}
		if size.Value() <= 0 {
			return nil, diag.Errorf(diag.TypeRegisterSize, source.Span{},
				"register %s size must be positive, got %d", r.Name, size.Value())
		}
		if size == r.Size {
			return r, nil
		}
		return &ir.Register{Name: r.Name, Size: size}, nil
	}

	a := r.Alias
	src := s.reg(a.Source)
	na := &ir.Alias{Kind: a.Kind, Source: src}
	var err error
	switch a.Kind {
	case ir.AliasIndex:
		if na.Index, err = s.resolve(a.Index, diag.TypeIndexNotInt, "alias index"); err != nil {
			return nil, err
		}
	case ir.AliasSlice:
		if na.Start, err = s.resolve(a.Start, diag.TypeSliceBound, "slice start"); err != nil {
			return nil, err
		}
		if na.Stop, err = s.resolve(a.Stop, diag.TypeSliceBound, "slice stop"); err != nil {
			return nil, err
		}
		if na.Step, err = s.resolve(a.Step, diag.TypeSliceBound, "slice step"); err != nil {
			return nil, err
		}
	}
	if err := checkAliasBounds(r.Name, na); err != nil {
		return nil, err
	}

	if src == a.Source && na.Index == a.Index &&
		na.Start == a.Start && na.Stop == a.Stop && na.Step == a.Step {
		return r, nil
	}
	return &ir.Register{Name: r.Name, Alias: na}, nil
}

// checkAliasBounds re-runs the builder's static bounds checks now that every
// bound is literal.
func checkAliasBounds(name string, a *ir.Alias) error {
	srcSize, sizeKnown := a.Source.ResolvedSize()
	switch a.Kind {
	case ir.AliasIndex:
		if sizeKnown {
			if idx := a.Index.Value(); idx < 0 || idx >= srcSize {
				return diag.Errorf(diag.TypeIndexRange, source.Span{},
					"alias %s index %d out of bounds for register %s[%d]",
					name, idx, a.Source.Name, srcSize)
			}
		}
	case ir.AliasSlice:
		if a.Step.Value() <= 0 {
			return diag.Errorf(diag.TypeSliceBound, source.Span{},
				"alias %s slice step must be positive, got %d", name, a.Step.Value())
		}
		if a.Start.Value() < 0 {
			return diag.Errorf(diag.TypeSliceBound, source.Span{},
				"alias %s slice start must be non-negative, got %d", name, a.Start.Value())
		}
		if sizeKnown && a.Stop.Value() > srcSize {
			return diag.Errorf(diag.TypeIndexRange, source.Span{},
				"alias %s slice stop %d out of bounds for register %s[%d]",
				name, a.Stop.Value(), a.Source.Name, srcSize)
		}
	}
	return nil
}

func (s *substituter) rewriteBlock(b *ir.BlockStatement) (*ir.BlockStatement, error) {
	ns, err := s.rewriteStatement(b)
	if err != nil {
		return nil, err
	}
	return ns.(*ir.BlockStatement), nil
}

func (s *substituter) rewriteStatement(stmt ir.Statement) (ir.Statement, error) {
	if cached, ok := s.stmts[stmt]; ok {
		return cached, nil
	}
	ns, err := s.rewrite(stmt)
	if err != nil {
		return nil, err
	}
	s.stmts[stmt] = ns
	return ns, nil
}

func (s *substituter) rewrite(stmt ir.Statement) (ir.Statement, error) {
	switch st := stmt.(type) {
	case *ir.GateStatement:
		return s.rewriteGate(st)

	case *ir.BlockStatement:
		changed := false
		out := make([]ir.Statement, len(st.Stmts))
		for i, kid := range st.Stmts {
			nk, err := s.rewriteStatement(kid)
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
		count, err := s.resolve(st.Count, diag.TypeLoopCount, "loop count")
		if err != nil {
			return nil, err
		}
		if count.Value() < 0 {
			return nil, diag.Errorf(diag.TypeLoopCount, source.Span{},
				"loop count must be non-negative, got %d", count.Value())
		}
		body, err := s.rewriteBlock(st.Body)
		if err != nil {
			return nil, err
		}
		if count == st.Count && body == st.Body {
			return st, nil
		}
		return &ir.LoopStatement{Count: count, Body: body}, nil

	case *ir.BranchStatement:
		changed := false
		cases := make([]*ir.CaseStatement, len(st.Cases))
		for i, cs := range st.Cases {
			body, err := s.rewriteBlock(cs.Body)
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

func (s *substituter) rewriteGate(g *ir.GateStatement) (ir.Statement, error) {
	callee := g.Callee
	if m, ok := callee.(*ir.Macro); ok {
		if nm, hit := s.macros[m]; hit {
			callee = nm
		}
	}

	changed := callee != g.Callee
	args := make([]ir.Value, len(g.Args))
	for i, a := range g.Args {
		na, err := s.rewriteValue(a)
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

func (s *substituter) rewriteValue(v ir.Value) (ir.Value, error) {
	switch val := v.(type) {
	case ir.ConstRef:
		return s.values[val.Const], nil

	case ir.QubitRef:
		reg := s.reg(val.Reg)
		index, err := s.resolve(val.Index, diag.TypeIndexNotInt, "qubit index")
		if err != nil {
			return nil, err
		}
		if size, ok := reg.ResolvedSize(); ok {
			if idx := index.Value(); idx < 0 || idx >= size {
				return nil, diag.Errorf(diag.TypeIndexRange, source.Span{},
					"qubit index %d out of bounds for register %s[%d]", idx, reg.Name, size)
			}
		}
		if reg == val.Reg && index == val.Index {
			return v, nil
		}
		return ir.QubitRef{Reg: reg, Index: index}, nil

	case ir.RegRef:
		if reg := s.reg(val.Reg); reg != val.Reg {
			return ir.RegRef{Reg: reg}, nil
		}
		return v, nil
	}
	// Literal numbers and macro parameter references pass through.
	return v, nil
}
