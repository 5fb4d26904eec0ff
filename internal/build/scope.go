package build

import (
	"ionasm/internal/ir"
)

// valueEntry is one binding in the value context: a constant, a register, or
// a macro formal parameter.
type valueEntry struct {
	constant *ir.Constant
	register *ir.Register
	param    *ir.ParamRef
}

// valueScope is the lexical value context. The builder re-scopes it per macro
// body: formals live in a child frame over the file-level frame.
type valueScope struct {
	parent  *valueScope
	entries map[string]valueEntry
}

func newValueScope(parent *valueScope) *valueScope {
	return &valueScope{parent: parent, entries: make(map[string]valueEntry)}
}

func (s *valueScope) lookup(name string) (valueEntry, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if e, ok := cur.entries[name]; ok {
			return e, true
		}
	}
	return valueEntry{}, false
}

// defined reports whether name is active anywhere in the context; declaring
// such a name again is a name error.
func (s *valueScope) defined(name string) bool {
	_, ok := s.lookup(name)
	return ok
}

func (s *valueScope) bind(name string, e valueEntry) {
	s.entries[name] = e
}

// gateScope is the gate context: native gates plus declared macros.
type gateScope struct {
	parent  *gateScope
	entries map[string]ir.Callable
}

func newGateScope(parent *gateScope) *gateScope {
	return &gateScope{parent: parent, entries: make(map[string]ir.Callable)}
}

func (s *gateScope) lookup(name string) (ir.Callable, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if c, ok := cur.entries[name]; ok {
			return c, true
		}
	}
	return nil, false
}

func (s *gateScope) defined(name string) bool {
	_, ok := s.lookup(name)
	return ok
}

func (s *gateScope) bind(name string, c ir.Callable) {
	s.entries[name] = c
}
