package build

import (
	"ionasm/internal/ast"
	"ionasm/internal/diag"
	"ionasm/internal/ir"
)

func (b *builder) buildStatement(id ast.NodeID) (ir.Statement, error) {
	node := b.tree.Get(id)
	switch node.Tag {
	case ast.TagGate:
		return b.buildGate(id)
	case ast.TagLoop:
		return b.buildLoop(id)
	case ast.TagSeqBlock:
		return b.buildBlock(id, ir.Sequential)
	case ast.TagParBlock:
		return b.buildBlock(id, ir.Parallel)
	case ast.TagSubcircuit:
		return b.buildSubcircuit(id)
	case ast.TagBranch:
		return b.buildBranch(id)
	}
	return nil, diag.Errorf(diag.UnknownCode, node.Span, "unexpected statement node %s", node.Tag)
}

func (b *builder) buildBlock(id ast.NodeID, order ir.Ordering) (*ir.BlockStatement, error) {
	block := &ir.BlockStatement{Order: order}
	for _, kid := range b.tree.Kids(id) {
		stmt, err := b.buildStatement(kid)
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	return ir.NormalizeBlock(block), nil
}

func (b *builder) buildLoop(id ast.NodeID) (ir.Statement, error) {
	kids := b.tree.Kids(id)
	countNode := b.tree.Get(kids[0])

	count, err := b.intExprFrom(countNode)
	if err != nil {
		if diag.CodeOf(err) == diag.TypeIndexNotInt {
			return nil, diag.Errorf(diag.TypeLoopCount, countNode.Span,
				"loop count must be an integer or integer constant")
		}
		return nil, err
	}
	if count.Resolved() && count.Value() < 0 {
		return nil, diag.Errorf(diag.TypeLoopCount, countNode.Span,
			"loop count must be non-negative, got %d", count.Value())
	}
	if !count.Resolved() && count.Ref.Value.IsFloat {
		return nil, diag.Errorf(diag.TypeLoopCount, countNode.Span,
			"loop count constant %q is not an integer", count.Ref.Name)
	}

	body, err := b.buildBlock(kids[1], ir.Sequential)
	if err != nil {
		return nil, err
	}
	return &ir.LoopStatement{Count: count, Body: body}, nil
}

// buildSubcircuit lowers `subcircuit [n] { body }` into the prepare/measure
// form the rest of the pipeline understands: a sequential block bracketed by
// the whole-register prepare and measure gates, wrapped in a loop when the
// repeat count exceeds one.
func (b *builder) buildSubcircuit(id ast.NodeID) (ir.Statement, error) {
	kids := b.tree.Kids(id)
	countNode := b.tree.Get(kids[0])

	count, err := b.intExprFrom(countNode)
	if err != nil {
		return nil, err
	}
	if count.Resolved() && count.Value() <= 0 {
		return nil, diag.Errorf(diag.TypeLoopCount, countNode.Span,
			"subcircuit count must be positive, got %d", count.Value())
	}

	prepare, err := b.buildCall("prepare_all", nil, countNode.Span)
	if err != nil {
		return nil, err
	}
	measure, err := b.buildCall("measure_all", nil, countNode.Span)
	if err != nil {
		return nil, err
	}

	inner, err := b.buildBlock(kids[1], ir.Sequential)
	if err != nil {
		return nil, err
	}

	stmts := make([]ir.Statement, 0, len(inner.Stmts)+2)
	stmts = append(stmts, prepare)
	stmts = append(stmts, inner.Stmts...)
	stmts = append(stmts, measure)
	block := &ir.BlockStatement{Order: ir.Sequential, Stmts: stmts}

	if count.Resolved() && count.Value() == 1 {
		return block, nil
	}
	return &ir.LoopStatement{Count: count, Body: block}, nil
}

func (b *builder) buildBranch(id ast.NodeID) (ir.Statement, error) {
	branch := &ir.BranchStatement{}
	seen := make(map[string]bool)
	for _, kid := range b.tree.Kids(id) {
		caseKids := b.tree.Kids(kid)
		stateNode := b.tree.Get(caseKids[0])
		if seen[stateNode.Text] {
			return nil, diag.Errorf(diag.NameRedefined, stateNode.Span,
				"duplicate branch case '%s'", stateNode.Text)
		}
		seen[stateNode.Text] = true

		body, err := b.buildBlock(caseKids[1], ir.Sequential)
		if err != nil {
			return nil, err
		}
		branch.Cases = append(branch.Cases, &ir.CaseStatement{State: stateNode.Text, Body: body})
	}
	return branch, nil
}

// buildMacro declares a user macro. The body builds under child value and
// gate scopes; the macro only becomes visible after its body is complete, so
// it can never call itself.
func (b *builder) buildMacro(id ast.NodeID) error {
	kids := b.tree.Kids(id)
	nameNode := b.tree.Get(kids[0])
	name := nameNode.Text

	if b.gates.defined(name) || b.tableHas(name) {
		return diag.Errorf(diag.NameRedefined, nameNode.Span,
			"gate %q is already defined", name)
	}

	paramKids := kids[1 : len(kids)-1]
	params := make([]ir.Parameter, 0, len(paramKids))
	bodyValues := newValueScope(b.values)
	for pos, pk := range paramKids {
		pn := b.tree.Get(pk)
		if b.values.defined(pn.Text) || bodyValues.defined(pn.Text) {
			return diag.Errorf(diag.NameRedefined, pn.Span,
				"macro parameter %q collides with an existing name", pn.Text)
		}
		params = append(params, ir.Parameter{Name: pn.Text, Kind: ir.KindUntyped})
		bodyValues.bind(pn.Text, valueEntry{param: &ir.ParamRef{Name: pn.Text, Pos: pos}})
	}

	outerValues, outerGates, outerMacro := b.values, b.gates, b.macroName
	b.values = bodyValues
	b.gates = newGateScope(outerGates)
	b.macroName = name
	body, err := b.buildBlock(kids[len(kids)-1], ir.Sequential)
	b.values, b.gates, b.macroName = outerValues, outerGates, outerMacro
	if err != nil {
		return err
	}

	mac := &ir.Macro{Name: name, Params: params, Body: body}
	b.circuit.Macros = append(b.circuit.Macros, mac)
	b.gates.bind(name, mac)
	return nil
}

func (b *builder) tableHas(name string) bool {
	if b.table == nil {
		return false
	}
	_, ok := b.table[name]
	return ok
}
