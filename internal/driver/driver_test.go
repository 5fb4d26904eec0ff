package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"ionasm/internal/diag"
	"ionasm/internal/driver"
	"ionasm/internal/ir"
	"ionasm/internal/passes"
	"ionasm/internal/token"
)

func TestCompileSourcePipeline(t *testing.T) {
	src := []byte("let a 1\nregister q[2]\nloop 2 {\n  prepare_all\n  Px q[a]\n  measure_all\n}\n")
	res, err := driver.CompileSource("test.ion", src, driver.Options{
		Overrides:      passes.Overrides{"a": ir.IntNumber(0)},
		DiscoverTraces: true,
	})
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("diagnostics: %v", res.Bag.Items())
	}
	if len(res.Traces) != 1 {
		t.Fatalf("traces: %d", len(res.Traces))
	}

	loop := res.Circuit.Body.Stmts[0].(*ir.LoopStatement)
	gate := loop.Body.Stmts[1].(*ir.GateStatement)
	q := gate.Args[0].(ir.QubitRef)
	if !q.Index.Resolved() || q.Index.Value() != 0 {
		t.Errorf("override not applied: %+v", q.Index)
	}
}

func TestCompileParseOnly(t *testing.T) {
	res, err := driver.CompileSource("test.ion", []byte("register q[1]\nPx q[0]"),
		driver.Options{ParseOnly: true})
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if res.Circuit != nil {
		t.Error("parse-only run built a circuit")
	}
	if res.Tree == nil || res.Tree.Len() == 0 {
		t.Error("no parse tree")
	}
}

func TestCompileHeaderOnly(t *testing.T) {
	src := []byte("let n 2\nregister q[4]\nmap s q[0:n]\nthis is not even parsed {{{")
	res, err := driver.CompileSource("test.ion", src, driver.Options{HeaderOnly: true})
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	c := res.Circuit
	if len(c.Constants) != 1 || len(c.Registers) != 2 {
		t.Fatalf("header: %d constants, %d registers", len(c.Constants), len(c.Registers))
	}
	if len(c.Body.Stmts) != 0 {
		t.Errorf("header-only body: %d statements", len(c.Body.Stmts))
	}
}

func TestCompileErrorsLandInBag(t *testing.T) {
	// Build failure: the diagnostic is added to the bag alongside the error.
	res, err := driver.CompileSource("test.ion", []byte("register q[2]\nPx q[5]"), driver.Options{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if diag.CodeOf(err) != diag.TypeIndexRange {
		t.Errorf("got %v", err)
	}
	if res.Bag.Len() != 1 {
		t.Errorf("bag: %d diagnostics", res.Bag.Len())
	}

	// Parse failure: the parser reports through the bag itself; the driver
	// must not duplicate it.
	res, err = driver.CompileSource("test.ion", []byte("register q[2\n"), driver.Options{})
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if res.Bag.Len() != 1 {
		t.Errorf("bag: %d diagnostics", res.Bag.Len())
	}
}

func TestCompileDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, text string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("a.ion", "register q[1]\nPx q[0]\n")
	write("b.ion", "register q[2]\nPx q[7]\n")
	write("c.ion", "register q[1]\nPy q[0]\n")
	write("notes.txt", "ignored")

	results, err := driver.CompileDir(context.Background(), dir, driver.Options{}, 2)
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results: %d", len(results))
	}
	// Deterministic path order.
	for i, want := range []string{"a.ion", "b.ion", "c.ion"} {
		if filepath.Base(results[i].Path) != want {
			t.Errorf("result %d: %s", i, results[i].Path)
		}
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("good files failed: %v, %v", results[0].Err, results[2].Err)
	}
	if results[1].Err == nil {
		t.Error("out-of-range index compiled")
	}
	if !results[1].Result.Bag.HasErrors() {
		t.Error("failure produced no diagnostics")
	}
}

func TestTokenizeSource(t *testing.T) {
	res := driver.TokenizeSource("test.ion", []byte("register q[2] @"), 10)
	last := res.Tokens[len(res.Tokens)-1]
	if last.Kind != token.EOF {
		t.Errorf("last token: %s", last.Kind)
	}
	if !res.Bag.HasErrors() {
		t.Error("unknown character produced no diagnostic")
	}
}

func TestHeaderCachePutGet(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := driver.OpenHeaderCache("ionasm-test")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	key := driver.Digest{1, 2, 3}
	in := &driver.HeaderPayload{
		Schema:       1,
		Path:         "x.ion",
		RegisterName: "q",
		RegisterSize: 4,
		ConstNames:   []string{"n"},
		ConstValues:  []string{"2"},
	}
	if err := cache.Put(key, in); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	out := &driver.HeaderPayload{}
	hit, err := cache.Get(key, out)
	if err != nil || !hit {
		t.Fatalf("get: hit=%v err=%v", hit, err)
	}
	if out.RegisterName != "q" || out.RegisterSize != 4 || out.ConstNames[0] != "n" {
		t.Errorf("payload: %+v", out)
	}

	if hit, err := cache.Get(driver.Digest{9}, out); err != nil || hit {
		t.Errorf("missing key: hit=%v err=%v", hit, err)
	}

	// Stale schema reads as a miss.
	if err := cache.Put(key, &driver.HeaderPayload{Schema: 0}); err != nil {
		t.Fatal(err)
	}
	if hit, _ := cache.Get(key, &driver.HeaderPayload{}); hit {
		t.Error("stale schema treated as a hit")
	}
}

func TestHeaderCacheDropAll(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := driver.OpenHeaderCache("ionasm-test")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	key := driver.Digest{42}
	if err := cache.Put(key, &driver.HeaderPayload{Schema: 1}); err != nil {
		t.Fatal(err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("drop failed: %v", err)
	}
	if hit, _ := cache.Get(key, &driver.HeaderPayload{}); hit {
		t.Error("entry survived the drop")
	}
}

func TestInspect(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "circ.ion")
	src := "from qscout.v1.std usepulses *\nlet n 2\nregister q[4]\nmap s q[0:2]\nmacro m a {\n  Px a\n}\nPx q[0]\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	cache, err := driver.OpenHeaderCache("ionasm-test")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	check := func(p *driver.HeaderPayload) {
		t.Helper()
		if p.RegisterName != "q" || p.RegisterSize != 4 {
			t.Errorf("register: %s[%d]", p.RegisterName, p.RegisterSize)
		}
		if len(p.ConstNames) != 1 || p.ConstNames[0] != "n" || p.ConstValues[0] != "2" {
			t.Errorf("constants: %v = %v", p.ConstNames, p.ConstValues)
		}
		if len(p.AliasNames) != 1 || p.AliasNames[0] != "s" {
			t.Errorf("aliases: %v", p.AliasNames)
		}
		if len(p.Usepulses) != 1 || p.Usepulses[0] != "qscout.v1.std" {
			t.Errorf("usepulses: %v", p.Usepulses)
		}
		if len(p.MacroNames) != 1 || p.MacroNames[0] != "m" {
			t.Errorf("macros: %v", p.MacroNames)
		}
	}

	first, err := driver.Inspect(path, cache)
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	check(first)

	// Second run is served from the cache.
	second, err := driver.Inspect(path, cache)
	if err != nil {
		t.Fatalf("cached inspect failed: %v", err)
	}
	check(second)

	// A nil cache still works.
	third, err := driver.Inspect(path, nil)
	if err != nil {
		t.Fatalf("uncached inspect failed: %v", err)
	}
	check(third)
}
