package gen_test

import (
	"strings"
	"testing"

	"ionasm/internal/ast"
	"ionasm/internal/build"
	"ionasm/internal/diag"
	"ionasm/internal/gen"
	"ionasm/internal/ir"
	"ionasm/internal/lexer"
	"ionasm/internal/parser"
	"ionasm/internal/sched"
	"ionasm/internal/source"
)

func compile(t *testing.T, input string, branch bool) *ir.Circuit {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.ion", []byte(input))
	bag := diag.NewBag(16)
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	tree := ast.NewTree(64)
	result := parser.ParseFile(fs, lx, tree, parser.Options{
		Reporter:     diag.BagReporter{Bag: bag},
		EnableBranch: branch,
	})
	if result.Err != nil {
		t.Fatalf("parse failed: %v\nsource:\n%s", result.Err, input)
	}
	c, err := build.Build(tree, result.Root, build.Options{})
	if err != nil {
		t.Fatalf("build failed: %v\nsource:\n%s", err, input)
	}
	return c
}

// roundTrip generates text from the circuit, recompiles it, and requires the
// result to be structurally identical.
func roundTrip(t *testing.T, c *ir.Circuit, branch bool) {
	t.Helper()
	text := gen.Generate(c)
	again := compile(t, text, branch)
	if !ir.Equal(c, again) {
		t.Errorf("round trip diverged\ngenerated:\n%s\nregenerated:\n%s", text, gen.Generate(again))
	}
}

func TestRoundTripHeader(t *testing.T) {
	c := compile(t, strings.Join([]string{
		"from qscout.v1.std usepulses *",
		"let n 2",
		"let theta 1.57",
		"register q[4]",
		"map whole q",
		"map one q[3]",
		"map evens q[0:4:2]",
		"map front q[0:n]",
		"Px q[0]",
	}, "\n"), false)
	roundTrip(t, c, false)
}

func TestRoundTripBody(t *testing.T) {
	c := compile(t, strings.Join([]string{
		"let n 3",
		"register q[3]",
		"macro flip a b {",
		"    Sx a",
		"    <Sy b | Sx a>",
		"}",
		"prepare_all",
		"loop n {",
		"    Px q[0]",
		"    <Rz q[1] 0.5 | Px q[2]>",
		"}",
		"flip q[0] q[1]",
		"measure_all",
	}, "\n"), false)
	roundTrip(t, c, false)
}

func TestRoundTripSubcircuitLowering(t *testing.T) {
	c := compile(t, "register q[2]\nsubcircuit 30 {\n    Px q[0]\n    Py q[1]\n}", false)
	roundTrip(t, c, false)
}

func TestRoundTripBranch(t *testing.T) {
	c := compile(t, strings.Join([]string{
		"register q[2]",
		"branch {",
		"    '00': {Px q[0]}",
		"    '11': {Py q[1]}",
		"}",
	}, "\n"), true)
	roundTrip(t, c, true)
}

func TestRoundTripScheduled(t *testing.T) {
	c := compile(t, strings.Join([]string{
		"register q[3]",
		"prepare_all",
		"Px q[0]",
		"Py q[1]",
		"measure_all",
	}, "\n"), false)
	// Rewrap the body for scheduling, then check the scheduled form survives
	// the text format.
	c.Body.Order = ir.Unscheduled
	sched.Schedule(c)
	roundTrip(t, c, false)
}

func TestGenerateText(t *testing.T) {
	c := compile(t, "let n 2\nregister q[4]\nmap evens q[0:4:2]\nloop n {\n    Px q[0]\n}", false)
	got := gen.Generate(c)
	want := strings.Join([]string{
		"let n 2",
		"register q[4]",
		"map evens q[0:4:2]",
		"loop n {",
		"    Px q[0]",
		"}",
		"",
	}, "\n")
	if got != want {
		t.Errorf("generated text:\n%s\nwant:\n%s", got, want)
	}
}

func TestGenerateParallelInline(t *testing.T) {
	c := compile(t, "register q[3]\n<Px q[0] | {Py q[1]; Px q[2]}>", false)
	got := gen.Generate(c)
	if !strings.Contains(got, "<Px q[0] | {Py q[1]; Px q[2]}>") {
		t.Errorf("parallel group not inlined:\n%s", got)
	}
}

func TestGenerateUnscheduledAsBraces(t *testing.T) {
	reg := &ir.Register{Name: "q", Size: ir.LitInt(1)}
	px := &ir.GateDef{Name: "Px", Params: []ir.Parameter{{Name: "q", Kind: ir.KindQubit}}}
	c := (&ir.Circuit{
		Registers: []*ir.Register{reg},
		Body: &ir.BlockStatement{Order: ir.Sequential, Stmts: []ir.Statement{
			&ir.BlockStatement{Order: ir.Unscheduled, Stmts: []ir.Statement{
				&ir.GateStatement{Callee: px, Args: []ir.Value{
					ir.QubitRef{Reg: reg, Index: ir.LitInt(0)},
				}},
			}},
		}},
	}).Reindex()

	got := gen.Generate(c)
	want := "register q[1]\n{\n    Px q[0]\n}\n"
	if got != want {
		t.Errorf("unscheduled rendering:\n%q\nwant:\n%q", got, want)
	}
}
