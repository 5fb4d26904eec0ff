package passes_test

import (
	"testing"

	"ionasm/internal/ast"
	"ionasm/internal/build"
	"ionasm/internal/diag"
	"ionasm/internal/ir"
	"ionasm/internal/lexer"
	"ionasm/internal/parser"
	"ionasm/internal/passes"
	"ionasm/internal/source"
)

// compile builds a circuit without a gate catalog, so arbitrary gate names
// resolve to synthetic definitions.
func compile(t *testing.T, input string) *ir.Circuit {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.ion", []byte(input))
	bag := diag.NewBag(16)
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	tree := ast.NewTree(64)
	result := parser.ParseFile(fs, lx, tree, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if result.Err != nil {
		t.Fatalf("parse failed: %v", result.Err)
	}
	c, err := build.Build(tree, result.Root, build.Options{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return c
}

func firstGate(t *testing.T, c *ir.Circuit) *ir.GateStatement {
	t.Helper()
	g, ok := c.Body.Stmts[0].(*ir.GateStatement)
	if !ok {
		t.Fatalf("first statement is %T", c.Body.Stmts[0])
	}
	return g
}

func TestSubstituteConstantsOverride(t *testing.T) {
	c := compile(t, "let a 1\nregister r[3]\nfoo r[a]")

	out, err := passes.SubstituteConstants(c, passes.Overrides{"a": ir.IntNumber(0)})
	if err != nil {
		t.Fatalf("substitute failed: %v", err)
	}
	if out == c {
		t.Fatal("override must produce a new circuit")
	}
	k, ok := out.LookupConstant("a")
	if !ok || k.Value.Int != 0 {
		t.Errorf("constant a: %+v", k)
	}
	arg := firstGate(t, out).Args[0].(ir.QubitRef)
	if !arg.Index.Resolved() || arg.Index.Value() != 0 {
		t.Errorf("index: %+v", arg.Index)
	}
	// The input circuit is untouched.
	if in := firstGate(t, c).Args[0].(ir.QubitRef); in.Index.Resolved() {
		t.Error("input circuit was mutated")
	}
}

func TestSubstituteDeclaredValues(t *testing.T) {
	c := compile(t, "let n 3\nregister q[n]\nfoo q[2] n")
	out, err := passes.SubstituteConstants(c, nil)
	if err != nil {
		t.Fatalf("substitute failed: %v", err)
	}
	reg := out.FundamentalRegister()
	if size, ok := reg.ResolvedSize(); !ok || size != 3 {
		t.Errorf("register size: %d resolved=%v", size, ok)
	}
	g := firstGate(t, out)
	if q := g.Args[0].(ir.QubitRef); q.Reg != reg {
		t.Error("qubit reference not remapped onto the rewritten register")
	}
	if n, ok := g.Args[1].(ir.Number); !ok || n.Int != 3 {
		t.Errorf("scalar arg: %+v", g.Args[1])
	}
}

func TestSubstituteIsConfluent(t *testing.T) {
	c := compile(t, "let a 1\nregister r[3]\nfoo r[a]")
	once, err := passes.SubstituteConstants(c, nil)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	twice, err := passes.SubstituteConstants(once, nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if twice != once {
		t.Error("second run must be a no-op")
	}
}

func TestSubstitutePreservesSharing(t *testing.T) {
	c := compile(t, "let a 1\nregister r[3]\nfoo r[a]\nfoo r[a]")
	if c.Body.Stmts[0] != c.Body.Stmts[1] {
		t.Fatal("builder did not fold identical statements")
	}
	out, err := passes.SubstituteConstants(c, nil)
	if err != nil {
		t.Fatalf("substitute failed: %v", err)
	}
	if out.Body.Stmts[0] != out.Body.Stmts[1] {
		t.Error("rewriting broke statement sharing")
	}
}

func TestSubstituteErrors(t *testing.T) {
	c := compile(t, "let a 1\nregister r[3]\nfoo r[a]")
	_, err := passes.SubstituteConstants(c, passes.Overrides{"nope": ir.IntNumber(1)})
	if got := diag.CodeOf(err); got != diag.NameUnknownOverride {
		t.Errorf("unknown override: got %s", got.ID())
	}

	_, err = passes.SubstituteConstants(c, passes.Overrides{"a": ir.IntNumber(7)})
	if got := diag.CodeOf(err); got != diag.TypeIndexRange {
		t.Errorf("out-of-range override: got %s", got.ID())
	}

	sized := compile(t, "let n 3\nregister q[n]\nfoo q[0]")
	_, err = passes.SubstituteConstants(sized, passes.Overrides{"n": ir.IntNumber(0)})
	if got := diag.CodeOf(err); got != diag.TypeRegisterSize {
		t.Errorf("zero register size: got %s", got.ID())
	}
	_, err = passes.SubstituteConstants(sized, passes.Overrides{"n": ir.FloatNumber(2.5)})
	if got := diag.CodeOf(err); got != diag.TypeRegisterSize {
		t.Errorf("float register size: got %s", got.ID())
	}
}

func TestResolveAliasesSlice(t *testing.T) {
	c := compile(t, "register q[4]\nmap s q[1:4:2]\nfoo s[1]")
	out, err := passes.ResolveAliases(c)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	arg := firstGate(t, out).Args[0].(ir.QubitRef)
	if arg.Reg != out.FundamentalRegister() {
		t.Errorf("resolved onto %q", arg.Reg.Name)
	}
	if arg.Index.Value() != 3 {
		t.Errorf("index: %d, want 3", arg.Index.Value())
	}
	// Alias declarations survive; only uses change.
	if _, ok := out.LookupRegister("s"); !ok {
		t.Error("alias declaration dropped")
	}
}

func TestResolveAliasesChain(t *testing.T) {
	c := compile(t, "register q[4]\nmap w q\nmap w2 w\nfoo w2[2]\nbar w2")
	out, err := passes.ResolveAliases(c)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	root := out.FundamentalRegister()
	q := firstGate(t, out).Args[0].(ir.QubitRef)
	if q.Reg != root || q.Index.Value() != 2 {
		t.Errorf("qubit: %s[%d]", q.Reg.Name, q.Index.Value())
	}
	whole := out.Body.Stmts[1].(*ir.GateStatement).Args[0].(ir.RegRef)
	if whole.Reg != root {
		t.Errorf("whole reference resolved onto %q", whole.Reg.Name)
	}
}

func TestResolveAliasesIsConfluent(t *testing.T) {
	c := compile(t, "register q[4]\nmap s q[1:4:2]\nfoo s[1]")
	once, err := passes.ResolveAliases(c)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	twice, err := passes.ResolveAliases(once)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if twice != once {
		t.Error("second run must be a no-op")
	}
}

func TestResolveAliasesErrors(t *testing.T) {
	partial := compile(t, "register q[4]\nmap s q[0:2]\nfoo s")
	if _, err := passes.ResolveAliases(partial); diag.CodeOf(err) != diag.TypeWholeAliasArg {
		t.Errorf("sliced alias passed whole: got %v", err)
	}

	toMacro := compile(t, "register q[2]\nmap w q\nmacro m a {\n  foo a\n}\nm w")
	if _, err := passes.ResolveAliases(toMacro); diag.CodeOf(err) != diag.TypeWholeAliasArg {
		t.Errorf("alias passed whole to macro: got %v", err)
	}

	unresolved := compile(t, "let i 0\nregister q[2]\nmap w q\nfoo w[i]")
	if _, err := passes.ResolveAliases(unresolved); diag.CodeOf(err) != diag.StructUnresolvedConst {
		t.Errorf("unresolved index: got %v", err)
	}
}

func TestExpandMacrosInline(t *testing.T) {
	c := compile(t, "register q[1]\nmacro foo a {\n  <bar a | x>\n}\nfoo 5")
	out, err := passes.ExpandMacros(c)
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	if len(out.Body.Stmts) != 1 {
		t.Fatalf("body: %d statements", len(out.Body.Stmts))
	}
	par, ok := out.Body.Stmts[0].(*ir.BlockStatement)
	if !ok || par.Order != ir.Parallel {
		t.Fatalf("got %+v", out.Body.Stmts[0])
	}
	bar := par.Stmts[0].(*ir.GateStatement)
	if n, ok := bar.Args[0].(ir.Number); !ok || n.Int != 5 {
		t.Errorf("substituted arg: %+v", bar.Args[0])
	}
	// Definitions stay for regeneration.
	if _, ok := out.LookupMacro("foo"); !ok {
		t.Error("macro definition dropped")
	}
}

func TestExpandMacrosTransitive(t *testing.T) {
	c := compile(t, "register q[2]\nmacro inner a {\n  foo a\n}\nmacro outer b {\n  inner b\n  bar b\n}\nouter q[1]")
	out, err := passes.ExpandMacros(c)
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	if len(out.Body.Stmts) != 2 {
		t.Fatalf("body: %d statements", len(out.Body.Stmts))
	}
	for _, s := range out.Body.Stmts {
		g := s.(*ir.GateStatement)
		if g.IsMacroCall() {
			t.Fatalf("macro call survived expansion: %s", g.Name())
		}
		q := g.Args[0].(ir.QubitRef)
		if q.Index.Value() != 1 {
			t.Errorf("%s arg: %s", g.Name(), q.Text())
		}
	}
}

func TestExpandMacrosIsConfluent(t *testing.T) {
	c := compile(t, "register q[1]\nmacro foo a {\n  bar a\n}\nfoo q[0]")
	once, err := passes.ExpandMacros(c)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	twice, err := passes.ExpandMacros(once)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if twice != once {
		t.Error("second run must be a no-op")
	}
}

func TestExpandLeavesPlainCircuitAlone(t *testing.T) {
	c := compile(t, "register q[1]\nfoo q[0]\nloop 2 {\n  bar q[0]\n}")
	out, err := passes.ExpandMacros(c)
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	if out != c {
		t.Error("macro-free circuit must pass through unchanged")
	}
}
