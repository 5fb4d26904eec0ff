// Package driver orchestrates the compilation pipeline for the CLI: lexing,
// parsing, circuit building, the rewrite passes, scheduling, and subcircuit
// discovery, with diagnostics collected into a Bag along the way.
package driver

import (
	"ionasm/internal/ast"
	"ionasm/internal/build"
	"ionasm/internal/diag"
	"ionasm/internal/gates"
	"ionasm/internal/ir"
	"ionasm/internal/lexer"
	"ionasm/internal/parser"
	"ionasm/internal/passes"
	"ionasm/internal/sched"
	"ionasm/internal/source"
	"ionasm/internal/trace"
)

const defaultMaxDiagnostics = 20

// Options selects which pipeline stages run after building. Constant and
// alias substitution always run: the scheduler and discovery need literal
// indices.
type Options struct {
	// Gates is an injected native-gate table; Resolver loads tables for
	// usepulses modules. Both may be nil, in which case unknown gates get
	// synthetic definitions.
	Gates    gates.Table
	Resolver gates.Resolver

	// Overrides replaces declared constant values before substitution.
	Overrides passes.Overrides

	ExpandMacros   bool
	Schedule       bool
	DiscoverTraces bool
	EnableBranch   bool

	// ParseOnly stops after parsing; HeaderOnly additionally restricts the
	// parse to the header declarations.
	ParseOnly  bool
	HeaderOnly bool

	MaxDiagnostics int
}

// Result is everything one compilation produced. Circuit is nil when
// compilation failed before building; Bag always holds the diagnostics.
type Result struct {
	FileSet *source.FileSet
	FileID  source.FileID
	Tree    *ast.Tree
	Root    ast.NodeID
	Circuit *ir.Circuit
	Traces  []*trace.Trace
	Bag     *diag.Bag
}

// CompileFile loads path and runs the pipeline over it.
func CompileFile(path string, opts Options) (*Result, error) {
	fileSet := source.NewFileSet()
	fileID, err := fileSet.Load(path)
	if err != nil {
		return nil, err
	}
	return compile(fileSet, fileID, opts)
}

// CompileSource runs the pipeline over in-memory text, for tests and stdin.
func CompileSource(name string, src []byte, opts Options) (*Result, error) {
	fileSet := source.NewFileSet()
	fileID := fileSet.AddVirtual(name, src)
	return compile(fileSet, fileID, opts)
}

func compile(fileSet *source.FileSet, fileID source.FileID, opts Options) (*Result, error) {
	maxDiags := opts.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = defaultMaxDiagnostics
	}
	bag := diag.NewBag(maxDiags)
	res := &Result{
		FileSet: fileSet,
		FileID:  fileID,
		Bag:     bag,
	}

	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(fileSet.Get(fileID), lexer.Options{Reporter: reporter})

	res.Tree = ast.NewTree(256)
	parsed := parser.ParseFile(fileSet, lx, res.Tree, parser.Options{
		Reporter:     reporter,
		HeaderOnly:   opts.HeaderOnly,
		EnableBranch: opts.EnableBranch,
	})
	res.Root = parsed.Root
	if parsed.Err != nil {
		return res, parsed.Err
	}
	if opts.ParseOnly {
		return res, nil
	}

	circuit, err := build.Build(res.Tree, res.Root, build.Options{
		Gates:    opts.Gates,
		Resolver: opts.Resolver,
	})
	if err != nil {
		return res, res.fail(err)
	}
	res.Circuit = circuit
	if opts.HeaderOnly {
		return res, nil
	}

	if circuit, err = passes.SubstituteConstants(circuit, opts.Overrides); err != nil {
		return res, res.fail(err)
	}
	if circuit, err = passes.ResolveAliases(circuit); err != nil {
		return res, res.fail(err)
	}
	if opts.ExpandMacros {
		if circuit, err = passes.ExpandMacros(circuit); err != nil {
			return res, res.fail(err)
		}
	}
	res.Circuit = circuit

	if opts.Schedule {
		sched.Schedule(circuit)
	}

	if opts.DiscoverTraces {
		traces, err := trace.Discover(circuit)
		if err != nil {
			return res, res.fail(err)
		}
		res.Traces = traces
	}
	return res, nil
}

// fail records err in the bag (when it carries a diagnostic) and passes it
// through, so callers get both the error and the renderable Bag.
func (r *Result) fail(err error) error {
	if de, ok := diag.AsError(err); ok {
		r.Bag.Add(de.Diag)
	}
	return err
}
