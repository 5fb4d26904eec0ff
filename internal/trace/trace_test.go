package trace_test

import (
	"fmt"
	"testing"

	"ionasm/internal/ast"
	"ionasm/internal/build"
	"ionasm/internal/diag"
	"ionasm/internal/ir"
	"ionasm/internal/lexer"
	"ionasm/internal/parser"
	"ionasm/internal/source"
	"ionasm/internal/trace"
)

// compile builds without a catalog; prepare_all and measure_all get their
// roles from the synthetic-name convention.
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

func expectDiscoverError(t *testing.T, input string, code diag.Code) {
	t.Helper()
	_, err := trace.Discover(compile(t, input))
	if err == nil {
		t.Fatalf("input %q: expected a discovery error", input)
	}
	if got := diag.CodeOf(err); got != code {
		t.Errorf("input %q: got %s, want %s", input, got.ID(), code.ID())
	}
}

func TestDiscoverSingleTrace(t *testing.T) {
	c := compile(t, "register q[2]\nprepare_all\nPx q[0]\nPy q[1]\nmeasure_all")
	traces, err := trace.Discover(c)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if len(traces) != 1 {
		t.Fatalf("traces: %d", len(traces))
	}
	tr := traces[0]
	if tr.Start.String() != "0" || tr.End.String() != "3" {
		t.Errorf("boundaries: %s .. %s", tr.Start, tr.End)
	}
	if len(tr.UsedQubits) != 2 || tr.UsedQubits[0] != "q:0" || tr.UsedQubits[1] != "q:1" {
		t.Errorf("used qubits: %v", tr.UsedQubits)
	}
}

func TestDiscoverInsideLoop(t *testing.T) {
	c := compile(t, "register q[1]\nloop 2 {\n  prepare_all\n  Px q[0]\n  measure_all\n}")
	traces, err := trace.Discover(c)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if len(traces) != 1 {
		t.Fatalf("traces: %d", len(traces))
	}
	if traces[0].Start.String() != "0.0" || traces[0].End.String() != "0.2" {
		t.Errorf("boundaries: %s .. %s", traces[0].Start, traces[0].End)
	}
}

func TestDiscoverMapsAliasedQubits(t *testing.T) {
	c := compile(t, "register q[4]\nmap b q[1:3]\nprepare_all\nPx b[0]\nPy q[1]\nmeasure_all")
	traces, err := trace.Discover(c)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if len(traces) != 1 {
		t.Fatalf("traces: %d", len(traces))
	}
	// b[0] is physically q[1], so the two gates name one qubit.
	if used := traces[0].UsedQubits; len(used) != 1 || used[0] != "q:1" {
		t.Errorf("used qubits: %v", used)
	}
}

func TestPrepareReopensTrace(t *testing.T) {
	c := compile(t, "register q[1]\nprepare_all\nPx q[0]\nprepare_all\nmeasure_all")
	traces, err := trace.Discover(c)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if len(traces) != 1 {
		t.Fatalf("traces: %d", len(traces))
	}
	// The second prepare resets the boundary and the qubit accounting.
	if traces[0].Start.String() != "2" {
		t.Errorf("start: %s", traces[0].Start)
	}
	if len(traces[0].UsedQubits) != 0 {
		t.Errorf("used qubits: %v", traces[0].UsedQubits)
	}
}

func TestDiscoverErrors(t *testing.T) {
	expectDiscoverError(t, "register q[1]\nmeasure_all", diag.ProtoMeasureNoTrace)
	expectDiscoverError(t, "register q[1]\nPx q[0]", diag.ProtoGateOutsideTrace)
	expectDiscoverError(t, "register q[1]\nprepare_all\nPx q[0]", diag.ProtoUnterminatedTrace)
}

func TestDiscoverRejectsTracesAcrossLoops(t *testing.T) {
	// Opened outside, measured inside.
	expectDiscoverError(t,
		"register q[1]\nprepare_all\nloop 2 {\n  measure_all\n  prepare_all\n}",
		diag.ProtoTraceAcrossLoop)
	// Opened inside, still open when the body ends.
	expectDiscoverError(t,
		"register q[1]\nloop 2 {\n  prepare_all\n  Px q[0]\n}",
		diag.ProtoTraceAcrossLoop)
}

func TestReplayCountsLoopIterations(t *testing.T) {
	c := compile(t, "register q[1]\nloop 2 {\n  prepare_all\n  Px q[0]\n  measure_all\n}")
	traces, err := trace.Discover(c)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}

	var got []string
	err = trace.Replay(c, traces, func(tr *trace.Trace, iteration int) error {
		got = append(got, fmt.Sprintf("%s#%d", tr.Start, iteration))
		return nil
	})
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	want := []string{"0.0#0", "0.0#1"}
	if len(got) != len(want) {
		t.Fatalf("invocations: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("invocation %d: %s, want %s", i, got[i], want[i])
		}
	}
}

func TestReplayInterleavesTracesInOneLoop(t *testing.T) {
	c := compile(t, "register q[1]\nloop 2 {\n"+
		"  prepare_all\n  Px q[0]\n  measure_all\n"+
		"  prepare_all\n  Py q[0]\n  measure_all\n}")
	traces, err := trace.Discover(c)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if len(traces) != 2 {
		t.Fatalf("traces: %d", len(traces))
	}

	var order []string
	err = trace.Replay(c, traces, func(tr *trace.Trace, iteration int) error {
		order = append(order, fmt.Sprintf("%s#%d", tr.Start, iteration))
		return nil
	})
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	// Execution order alternates the two traces across iterations.
	want := []string{"0.0#0", "0.3#0", "0.0#1", "0.3#1"}
	for i := range want {
		if i >= len(order) || order[i] != want[i] {
			t.Fatalf("order: %v, want %v", order, want)
		}
	}
}

// fakeBackend returns a fixed outcome sequence.
type fakeBackend struct {
	outcomes []trace.Outcome
	err      error
}

func (b *fakeBackend) Execute(c *ir.Circuit, traces []*trace.Trace) ([]trace.Outcome, error) {
	return b.outcomes, b.err
}

func TestRunCorrelatesOutcomes(t *testing.T) {
	c := compile(t, "register q[1]\nloop 2 {\n  prepare_all\n  Px q[0]\n  measure_all\n}")
	backend := &fakeBackend{outcomes: []trace.Outcome{{Bits: "0"}, {Bits: "1"}}}

	results, err := trace.Run(c, backend)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results: %d", len(results))
	}
	for i, r := range results {
		if r.Iteration != i {
			t.Errorf("result %d iteration: %d", i, r.Iteration)
		}
		if r.Trace != results[0].Trace {
			t.Errorf("result %d trace differs", i)
		}
	}
	if results[0].Outcome.Bits != "0" || results[1].Outcome.Bits != "1" {
		t.Errorf("outcomes out of order: %+v", results)
	}
}

func TestRunChecksOutcomeCount(t *testing.T) {
	c := compile(t, "register q[1]\nloop 2 {\n  prepare_all\n  Px q[0]\n  measure_all\n}")

	short := &fakeBackend{outcomes: []trace.Outcome{{Bits: "0"}}}
	if _, err := trace.Run(c, short); diag.CodeOf(err) != diag.ProtoOutcomeCount {
		t.Errorf("short: got %v", err)
	}

	long := &fakeBackend{outcomes: []trace.Outcome{{Bits: "0"}, {Bits: "1"}, {Bits: "0"}}}
	if _, err := trace.Run(c, long); diag.CodeOf(err) != diag.ProtoOutcomeCount {
		t.Errorf("long: got %v", err)
	}
}
