// Package gen renders a circuit back to canonical source text. Parsing the
// generated text reproduces the circuit structurally, so the text form is the
// toolchain's only persisted format.
package gen

import (
	"fmt"
	"strings"

	"ionasm/internal/ir"
)

// Generate renders the whole circuit: usepulses first, then constants, then
// registers and aliases in declaration order (aliases may reference earlier
// ones), then macros, then the body.
func Generate(c *ir.Circuit) string {
	g := &generator{}

	for _, u := range c.Usepulses {
		g.linef("from %s usepulses *", u.Module)
	}
	for _, k := range c.Constants {
		g.linef("let %s %s", k.Name, k.Value.Text())
	}
	for _, r := range c.Registers {
		g.register(r)
	}
	for _, m := range c.Macros {
		g.macro(m)
	}
	if c.Body != nil {
		for _, stmt := range c.Body.Stmts {
			g.statement(stmt, 0)
		}
	}
	return g.sb.String()
}

type generator struct {
	sb strings.Builder
}

func (g *generator) linef(format string, args ...any) {
	fmt.Fprintf(&g.sb, format, args...)
	g.sb.WriteByte('\n')
}

func (g *generator) indent(level int) {
	for i := 0; i < level; i++ {
		g.sb.WriteString("    ")
	}
}

func (g *generator) register(r *ir.Register) {
	if r.Alias == nil {
		g.linef("register %s[%s]", r.Name, r.Size.Text())
		return
	}
	a := r.Alias
	switch a.Kind {
	case ir.AliasWhole:
		g.linef("map %s %s", r.Name, a.Source.Name)
	case ir.AliasIndex:
		g.linef("map %s %s[%s]", r.Name, a.Source.Name, a.Index.Text())
	case ir.AliasSlice:
		g.linef("map %s %s[%s:%s:%s]", r.Name, a.Source.Name,
			a.Start.Text(), a.Stop.Text(), a.Step.Text())
	}
}

func (g *generator) macro(m *ir.Macro) {
	g.sb.WriteString("macro ")
	g.sb.WriteString(m.Name)
	for _, p := range m.Params {
		g.sb.WriteByte(' ')
		g.sb.WriteString(p.Name)
	}
	g.sb.WriteString(" {\n")
	for _, stmt := range m.Body.Stmts {
		g.statement(stmt, 1)
	}
	g.sb.WriteString("}\n")
}

// statement renders one body statement at the given indent level, one line
// per statement. Parallel groups render inline between angle brackets.
func (g *generator) statement(stmt ir.Statement, level int) {
	switch st := stmt.(type) {
	case *ir.GateStatement:
		g.indent(level)
		g.sb.WriteString(inlineGate(st))
		g.sb.WriteByte('\n')

	case *ir.BlockStatement:
		if st.Order == ir.Parallel {
			g.indent(level)
			g.sb.WriteString(inlineStatement(st))
			g.sb.WriteByte('\n')
			return
		}
		// Unscheduled groups render as plain braces: the text form has no
		// way to say "order me later".
		g.indent(level)
		g.sb.WriteString("{\n")
		for _, kid := range st.Stmts {
			g.statement(kid, level+1)
		}
		g.indent(level)
		g.sb.WriteString("}\n")

	case *ir.LoopStatement:
		g.indent(level)
		g.linef("loop %s {", st.Count.Text())
		for _, kid := range st.Body.Stmts {
			g.statement(kid, level+1)
		}
		g.indent(level)
		g.sb.WriteString("}\n")

	case *ir.BranchStatement:
		g.indent(level)
		g.sb.WriteString("branch {\n")
		for _, cs := range st.Cases {
			g.indent(level + 1)
			g.linef("'%s': {", cs.State)
			for _, kid := range cs.Body.Stmts {
				g.statement(kid, level+2)
			}
			g.indent(level + 1)
			g.sb.WriteString("}\n")
		}
		g.indent(level)
		g.sb.WriteString("}\n")
	}
}

func inlineGate(g *ir.GateStatement) string {
	var sb strings.Builder
	sb.WriteString(g.Name())
	for _, a := range g.Args {
		sb.WriteByte(' ')
		sb.WriteString(a.Text())
	}
	return sb.String()
}

// inlineStatement renders a statement on one line, for members of parallel
// groups.
func inlineStatement(stmt ir.Statement) string {
	switch st := stmt.(type) {
	case *ir.GateStatement:
		return inlineGate(st)

	case *ir.BlockStatement:
		parts := make([]string, len(st.Stmts))
		for i, kid := range st.Stmts {
			parts[i] = inlineStatement(kid)
		}
		if st.Order == ir.Parallel {
			return "<" + strings.Join(parts, " | ") + ">"
		}
		return "{" + strings.Join(parts, "; ") + "}"

	case *ir.LoopStatement:
		return fmt.Sprintf("loop %s %s", st.Count.Text(), inlineStatement(st.Body))
	}
	return ""
}
