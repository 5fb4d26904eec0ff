// Package build interprets the tagged parse tree into the typed circuit IR.
//
// The builder runs one left-to-right traversal over the tree, maintaining a
// value context (constants, registers, macro formals) and a gate context
// (native gates plus macros), each re-scoped per macro body. All static
// validation lives here: identifier collisions, argument count and kind
// checks, register arity, slice well-formedness. Identical gate invocations
// fold to one shared statement node through a per-Build memo cache.
package build

import (
	"ionasm/internal/ast"
	"ionasm/internal/diag"
	"ionasm/internal/gates"
	"ionasm/internal/ir"
)

type builder struct {
	tree    *ast.Tree
	opts    Options
	circuit *ir.Circuit
	table   gates.Table
	values  *valueScope
	gates   *gateScope
	memo    map[string]*ir.GateStatement
	// macroName scopes memo keys to the macro body under construction.
	macroName string
	// injected reports whether a real gate table is in force; without one,
	// unknown gate names get synthetic untyped definitions.
	injected bool
}

// Build interprets the parse tree rooted at root into an ir.Circuit.
// It fails fast: the first violation aborts with a *diag.Error.
func Build(tree *ast.Tree, root ast.NodeID, opts Options) (*ir.Circuit, error) {
	b := &builder{
		tree:     tree,
		opts:     opts,
		circuit:  &ir.Circuit{},
		table:    opts.Gates,
		values:   newValueScope(nil),
		gates:    newGateScope(nil),
		memo:     make(map[string]*ir.GateStatement),
		injected: opts.Gates != nil,
	}

	rootNode := tree.Get(root)
	body := &ir.BlockStatement{Order: ir.Sequential}

	for _, kid := range rootNode.Kids {
		node := tree.Get(kid)
		if node.Tag.IsHeader() {
			if err := b.buildHeader(kid); err != nil {
				return nil, err
			}
			continue
		}
		if node.Tag == ast.TagMacro {
			if err := b.buildMacro(kid); err != nil {
				return nil, err
			}
			continue
		}
		stmt, err := b.buildStatement(kid)
		if err != nil {
			return nil, err
		}
		body.Stmts = append(body.Stmts, stmt)
	}

	b.circuit.Body = ir.NormalizeBlock(body)
	for _, def := range b.table.Defs() {
		b.circuit.Gates = append(b.circuit.Gates, def)
	}
	return b.circuit.Reindex(), nil
}

func (b *builder) buildHeader(id ast.NodeID) error {
	node := b.tree.Get(id)
	switch node.Tag {
	case ast.TagRegister:
		return b.buildRegister(id)
	case ast.TagLet:
		return b.buildLet(id)
	case ast.TagMap:
		return b.buildAlias(id)
	case ast.TagUsepulses:
		return b.buildUsepulses(id)
	}
	return diag.Errorf(diag.UnknownCode, node.Span, "unexpected header node %s", node.Tag)
}

// register q[N]: the single fundamental register.
func (b *builder) buildRegister(id ast.NodeID) error {
	kids := b.tree.Kids(id)
	nameNode, sizeNode := b.tree.Get(kids[0]), b.tree.Get(kids[1])
	name := nameNode.Text

	if b.values.defined(name) {
		return diag.Errorf(diag.NameRedefined, nameNode.Span, "name %q is already defined", name)
	}
	if b.circuit.FundamentalRegister() != nil {
		return diag.Errorf(diag.StructManyFundamental, b.tree.Get(id).Span,
			"only one fundamental register is permitted")
	}

	size, err := b.intExprFrom(sizeNode)
	if err != nil {
		return err
	}
	if size.Resolved() && size.Value() <= 0 {
		return diag.Errorf(diag.TypeRegisterSize, sizeNode.Span,
			"register size must be positive, got %d", size.Value())
	}
	if !size.Resolved() && size.Ref.Value.IsFloat {
		return diag.Errorf(diag.TypeRegisterSize, sizeNode.Span,
			"register size constant %q is not an integer", size.Ref.Name)
	}

	reg := &ir.Register{Name: name, Size: size}
	b.circuit.Registers = append(b.circuit.Registers, reg)
	b.values.bind(name, valueEntry{register: reg})
	return nil
}

// let name value: a named numeric constant.
func (b *builder) buildLet(id ast.NodeID) error {
	kids := b.tree.Kids(id)
	nameNode, valueNode := b.tree.Get(kids[0]), b.tree.Get(kids[1])
	name := nameNode.Text

	if b.values.defined(name) {
		return diag.Errorf(diag.NameRedefined, nameNode.Span, "name %q is already defined", name)
	}

	var value ir.Number
	switch valueNode.Tag {
	case ast.TagInt:
		value = ir.IntNumber(valueNode.Int)
	case ast.TagFloat:
		value = ir.FloatNumber(valueNode.Float)
	default:
		return diag.Errorf(diag.TypeConstValue, valueNode.Span, "constant value must be a number")
	}

	k := &ir.Constant{Name: name, Value: value}
	b.circuit.Constants = append(b.circuit.Constants, k)
	b.values.bind(name, valueEntry{constant: k})
	return nil
}

// map name src | map name src[idx] | map name src[start:stop:step]
func (b *builder) buildAlias(id ast.NodeID) error {
	kids := b.tree.Kids(id)
	nameNode := b.tree.Get(kids[0])
	name := nameNode.Text

	if b.values.defined(name) {
		return diag.Errorf(diag.NameRedefined, nameNode.Span, "name %q is already defined", name)
	}

	shape := b.tree.Get(kids[1])
	var alias *ir.Alias
	switch shape.Tag {
	case ast.TagIdent:
		src, err := b.lookupRegister(shape)
		if err != nil {
			return err
		}
		alias = &ir.Alias{Kind: ir.AliasWhole, Source: src}

	case ast.TagArrayItem:
		itemKids := b.tree.Kids(kids[1])
		src, err := b.lookupRegister(b.tree.Get(itemKids[0]))
		if err != nil {
			return err
		}
		index, err := b.intExprFrom(b.tree.Get(itemKids[1]))
		if err != nil {
			return err
		}
		alias = &ir.Alias{Kind: ir.AliasIndex, Source: src, Index: index}
		if err := b.checkAliasBounds(alias, shape); err != nil {
			return err
		}

	case ast.TagSlice:
		sliceKids := b.tree.Kids(kids[1])
		src, err := b.lookupRegister(b.tree.Get(sliceKids[0]))
		if err != nil {
			return err
		}
		start, err := b.intExprFrom(b.tree.Get(sliceKids[1]))
		if err != nil {
			return err
		}
		stop, err := b.intExprFrom(b.tree.Get(sliceKids[2]))
		if err != nil {
			return err
		}
		step, err := b.intExprFrom(b.tree.Get(sliceKids[3]))
		if err != nil {
			return err
		}
		alias = &ir.Alias{Kind: ir.AliasSlice, Source: src, Start: start, Stop: stop, Step: step}
		if err := b.checkAliasBounds(alias, shape); err != nil {
			return err
		}
	}

	reg := &ir.Register{Name: name, Alias: alias}
	b.circuit.Registers = append(b.circuit.Registers, reg)
	b.values.bind(name, valueEntry{register: reg})
	return nil
}

// checkAliasBounds validates whatever is statically resolvable; bounds that
// still depend on constants are re-checked by the alias-resolution pass.
func (b *builder) checkAliasBounds(a *ir.Alias, node *ast.Node) error {
	srcSize, sizeKnown := a.Source.ResolvedSize()
	switch a.Kind {
	case ir.AliasIndex:
		if a.Index.Resolved() && sizeKnown {
			if idx := a.Index.Value(); idx < 0 || idx >= srcSize {
				return diag.Errorf(diag.TypeIndexRange, node.Span,
					"index %d out of bounds for register %s[%d]", idx, a.Source.Name, srcSize)
			}
		}
	case ir.AliasSlice:
		if a.Step.Resolved() && a.Step.Value() <= 0 {
			return diag.Errorf(diag.TypeSliceBound, node.Span,
				"slice step must be positive, got %d", a.Step.Value())
		}
		if a.Start.Resolved() && a.Start.Value() < 0 {
			return diag.Errorf(diag.TypeSliceBound, node.Span,
				"slice start must be non-negative, got %d", a.Start.Value())
		}
		if a.Stop.Resolved() && sizeKnown && a.Stop.Value() > srcSize {
			return diag.Errorf(diag.TypeIndexRange, node.Span,
				"slice stop %d out of bounds for register %s[%d]", a.Stop.Value(), a.Source.Name, srcSize)
		}
	}
	return nil
}

// from module usepulses *
func (b *builder) buildUsepulses(id ast.NodeID) error {
	moduleNode := b.tree.Get(b.tree.Kids(id)[0])
	module := moduleNode.Text

	b.circuit.Usepulses = append(b.circuit.Usepulses, ir.Import{Module: module, All: true})
	if b.opts.Resolver == nil {
		return nil
	}
	table, err := b.opts.Resolver(module)
	if err != nil {
		return diag.Errorf(diag.UnknownCode, moduleNode.Span,
			"failed to load pulse module %q: %v", module, err)
	}
	if table != nil {
		if b.table == nil {
			b.table = table
		} else {
			b.table = b.table.Merge(table)
		}
		b.injected = true
	}
	return nil
}

func (b *builder) lookupRegister(node *ast.Node) (*ir.Register, error) {
	entry, ok := b.values.lookup(node.Text)
	if !ok {
		return nil, diag.Errorf(diag.NameUndefined, node.Span, "name %q is not defined", node.Text)
	}
	if entry.register == nil {
		return nil, diag.Errorf(diag.NameNotARegister, node.Span,
			"%q does not refer to a register", node.Text)
	}
	return entry.register, nil
}

// intExprFrom reads an integer-or-constant atom.
func (b *builder) intExprFrom(node *ast.Node) (ir.IntExpr, error) {
	switch node.Tag {
	case ast.TagInt:
		return ir.LitInt(node.Int), nil
	case ast.TagIdent:
		entry, ok := b.values.lookup(node.Text)
		if !ok {
			return ir.IntExpr{}, diag.Errorf(diag.NameUndefined, node.Span,
				"name %q is not defined", node.Text)
		}
		if entry.constant == nil {
			return ir.IntExpr{}, diag.Errorf(diag.TypeIndexNotInt, node.Span,
				"%q is not a constant", node.Text)
		}
		return ir.IntExpr{Ref: entry.constant}, nil
	case ast.TagFloat:
		return ir.IntExpr{}, diag.Errorf(diag.TypeIndexNotInt, node.Span,
			"expected an integer, found float literal")
	}
	return ir.IntExpr{}, diag.Errorf(diag.TypeIndexNotInt, node.Span, "expected an integer")
}
