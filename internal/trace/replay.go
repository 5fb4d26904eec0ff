package trace

import (
	"ionasm/internal/diag"
	"ionasm/internal/ir"
	"ionasm/internal/source"
)

// Visit is called once per loop iteration a trace passes through, in the
// order the hardware would execute them. iteration counts invocations of the
// same trace from zero.
type Visit func(t *Trace, iteration int) error

// Replay walks the circuit body in execution order and fires visit at every
// trace start. Loop bodies replay once per iteration with the walk cursor
// restored in between, so a single discovered trace inside `loop n` yields n
// invocations. Loop counts must be literal by now.
func Replay(c *ir.Circuit, traces []*Trace, visit Visit) error {
	r := &replayer{
		starts: make(map[string]*Trace, len(traces)),
		counts: make(map[*Trace]int, len(traces)),
		visit:  visit,
	}
	for _, t := range traces {
		r.starts[t.Start.String()] = t
	}
	return r.walkBlock(c.Body, nil)
}

type replayer struct {
	starts map[string]*Trace
	counts map[*Trace]int
	visit  Visit
}

func (r *replayer) walkBlock(b *ir.BlockStatement, addr Address) error {
	for i, stmt := range b.Stmts {
		if err := r.walkStatement(stmt, append(addr, i)); err != nil {
			return err
		}
	}
	return nil
}

func (r *replayer) walkStatement(stmt ir.Statement, addr Address) error {
	if t, ok := r.starts[addr.String()]; ok {
		iter := r.counts[t]
		r.counts[t] = iter + 1
		if err := r.visit(t, iter); err != nil {
			return err
		}
	}

	switch st := stmt.(type) {
	case *ir.BlockStatement:
		return r.walkBlock(st, addr)

	case *ir.LoopStatement:
		if !st.Count.Resolved() {
			return diag.Errorf(diag.StructUnresolvedConst, source.Span{},
				"loop count %q is an unresolved constant", st.Count.Text())
		}
		for i := int64(0); i < st.Count.Value(); i++ {
			if err := r.walkBlock(st.Body, addr); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

// Outcome is one backend-produced result for one trace invocation: either a
// sampled bit pattern or a full distribution over patterns.
type Outcome struct {
	Bits          string
	Probabilities map[string]float64
}

// Backend executes a flattened circuit and returns outcomes in replay order,
// one per trace invocation.
type Backend interface {
	Execute(c *ir.Circuit, traces []*Trace) ([]Outcome, error)
}

// Result ties one backend outcome back to its source trace and iteration.
type Result struct {
	Trace     *Trace
	Iteration int
	Outcome   Outcome
}

// Run discovers the circuit's traces, executes them on the backend, and
// correlates the flat outcome sequence with trace invocations. The backend
// must return exactly one outcome per invocation.
func Run(c *ir.Circuit, backend Backend) ([]Result, error) {
	traces, err := Discover(c)
	if err != nil {
		return nil, err
	}
	outcomes, err := backend.Execute(c, traces)
	if err != nil {
		return nil, err
	}

	var results []Result
	err = Replay(c, traces, func(t *Trace, iteration int) error {
		if len(results) >= len(outcomes) {
			return diag.Errorf(diag.ProtoOutcomeCount, source.Span{},
				"backend returned %d outcomes for more trace invocations", len(outcomes))
		}
		results = append(results, Result{
			Trace:     t,
			Iteration: iteration,
			Outcome:   outcomes[len(results)],
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(results) != len(outcomes) {
		return nil, diag.Errorf(diag.ProtoOutcomeCount, source.Span{},
			"backend returned %d outcomes for %d trace invocations",
			len(outcomes), len(results))
	}
	return results, nil
}
