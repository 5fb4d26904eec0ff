package build

import (
	"fmt"
	"strings"

	"ionasm/internal/ast"
	"ionasm/internal/diag"
	"ionasm/internal/gates"
	"ionasm/internal/ir"
	"ionasm/internal/source"
)

func (b *builder) buildGate(id ast.NodeID) (ir.Statement, error) {
	kids := b.tree.Kids(id)
	nameNode := b.tree.Get(kids[0])

	args := make([]ir.Value, 0, len(kids)-1)
	for _, argID := range kids[1:] {
		v, err := b.buildArg(argID)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return b.buildCall(nameNode.Text, args, nameNode.Span)
}

// buildCall resolves the callee, validates the arguments, and folds
// identical invocations through the memo cache.
func (b *builder) buildCall(name string, args []ir.Value, span source.Span) (*ir.GateStatement, error) {
	callee, err := b.resolveCallee(name, span)
	if err != nil {
		return nil, err
	}

	if def, ok := callee.(*ir.GateDef); !ok || !def.Synthetic {
		params := callee.Parameters()
		if len(args) != len(params) {
			return nil, diag.Errorf(diag.StructArgCount, span,
				"gate %s takes %d arguments, got %d", name, len(params), len(args))
		}
		for i, p := range params {
			if !p.Kind.Accepts(args[i].ValueKind()) {
				return nil, diag.Errorf(diag.TypeArgKind, span,
					"gate %s parameter %s expects %s, got %s",
					name, p.Name, p.Kind, args[i].ValueKind())
			}
		}
	}

	key := b.memoKey(name, args)
	if stmt, ok := b.memo[key]; ok {
		return stmt, nil
	}
	stmt := &ir.GateStatement{Callee: callee, Args: args}
	b.memo[key] = stmt
	return stmt, nil
}

// resolveCallee looks the name up in the gate context (macros shadow native
// gates). Without any injected or usepulses-loaded table, unknown names get
// a synthetic untyped definition so header-only and catalog-free runs work.
func (b *builder) resolveCallee(name string, span source.Span) (ir.Callable, error) {
	if callee, ok := b.gates.lookup(name); ok {
		return callee, nil
	}
	if def, ok := b.table[name]; ok {
		return def, nil
	}
	if b.injected {
		return nil, diag.Errorf(diag.NameUndefined, span, "gate %q is not defined", name)
	}

	def := &ir.GateDef{
		Name:      name,
		Role:      syntheticRole(name),
		Synthetic: true,
	}
	if b.table == nil {
		b.table = make(gates.Table)
	}
	b.table[name] = def
	return def, nil
}

// syntheticRole classifies catalog-less gates by their conventional names so
// subcircuit discovery still works without an injected table.
func syntheticRole(name string) ir.GateRole {
	switch name {
	case "prepare_all":
		return ir.RolePrepare
	case "measure_all":
		return ir.RoleMeasure
	}
	return ir.RoleStandard
}

func (b *builder) buildArg(id ast.NodeID) (ir.Value, error) {
	node := b.tree.Get(id)
	switch node.Tag {
	case ast.TagInt:
		return ir.IntNumber(node.Int), nil
	case ast.TagFloat:
		return ir.FloatNumber(node.Float), nil

	case ast.TagIdent:
		entry, ok := b.values.lookup(node.Text)
		if !ok {
			return nil, diag.Errorf(diag.NameUndefined, node.Span,
				"name %q is not defined", node.Text)
		}
		switch {
		case entry.constant != nil:
			return ir.ConstRef{Const: entry.constant}, nil
		case entry.register != nil:
			return ir.RegRef{Reg: entry.register}, nil
		case entry.param != nil:
			return *entry.param, nil
		}
		return nil, diag.Errorf(diag.NameUndefined, node.Span,
			"name %q is not usable as an argument", node.Text)

	case ast.TagArrayItem:
		kids := b.tree.Kids(id)
		srcNode := b.tree.Get(kids[0])
		reg, err := b.lookupRegister(srcNode)
		if err != nil {
			return nil, err
		}
		index, err := b.intExprFrom(b.tree.Get(kids[1]))
		if err != nil {
			return nil, err
		}
		if index.Resolved() {
			if size, ok := reg.ResolvedSize(); ok {
				if idx := index.Value(); idx < 0 || idx >= size {
					return nil, diag.Errorf(diag.TypeIndexRange, node.Span,
						"qubit index %d out of bounds for register %s[%d]", idx, reg.Name, size)
				}
			}
		}
		return ir.QubitRef{Reg: reg, Index: index}, nil
	}
	return nil, diag.Errorf(diag.UnknownCode, node.Span, "unexpected argument node %s", node.Tag)
}

// memoKey derives the cache key from the gate name, the literal arguments,
// and the resolved contextual bindings of identifier arguments. Keys are
// additionally scoped by the macro body under construction, so formals of
// different macros never collide.
func (b *builder) memoKey(name string, args []ir.Value) string {
	var sb strings.Builder
	sb.WriteString(b.macroName)
	sb.WriteByte('/')
	sb.WriteString(name)
	for _, a := range args {
		sb.WriteByte('\x00')
		switch v := a.(type) {
		case ir.Number:
			sb.WriteString(v.Text())
		case ir.ConstRef:
			fmt.Fprintf(&sb, "c:%s=%s", v.Const.Name, v.Const.Value.Text())
		case ir.QubitRef:
			fmt.Fprintf(&sb, "q:%s[%s]", v.Reg.Name, v.Index.Text())
		case ir.RegRef:
			fmt.Fprintf(&sb, "r:%s", v.Reg.Name)
		case ir.ParamRef:
			fmt.Fprintf(&sb, "p:%s#%d", v.Name, v.Pos)
		}
	}
	return sb.String()
}
