package ir

import "fmt"

// AliasKind distinguishes the three alias forms `map` can declare.
type AliasKind uint8

const (
	// AliasWhole copies the source register wholesale.
	AliasWhole AliasKind = iota
	// AliasIndex names a single qubit of the source.
	AliasIndex
	// AliasSlice names a start:stop:step view of the source.
	AliasSlice
)

// Alias describes how an alias register derives from its source.
// Index and the slice bounds may still be constant references until the
// constant-substitution pass runs.
type Alias struct {
	Kind   AliasKind
	Source *Register
	Index  IntExpr // AliasIndex
	Start  IntExpr // AliasSlice
	Stop   IntExpr
	Step   IntExpr
}

// Register is a qubit register: fundamental when Alias is nil (explicit
// size, exactly one per circuit), an alias otherwise.
type Register struct {
	Name  string
	Size  IntExpr // fundamental only
	Alias *Alias
}

// Fundamental reports whether the register carries its own storage.
func (r *Register) Fundamental() bool { return r.Alias == nil }

// Root follows alias hops to the fundamental register.
func (r *Register) Root() *Register {
	cur := r
	for cur.Alias != nil {
		cur = cur.Alias.Source
	}
	return cur
}

// ResolvedSize computes the register's effective size. It requires every
// involved bound to be resolved; ok is false otherwise.
func (r *Register) ResolvedSize() (int64, bool) {
	if r.Alias == nil {
		if !r.Size.Resolved() {
			return 0, false
		}
		return r.Size.Value(), true
	}
	a := r.Alias
	switch a.Kind {
	case AliasWhole:
		return a.Source.ResolvedSize()
	case AliasIndex:
		return 1, true
	case AliasSlice:
		if !a.Start.Resolved() || !a.Stop.Resolved() || !a.Step.Resolved() {
			return 0, false
		}
		step := a.Step.Value()
		if step <= 0 {
			return 0, false
		}
		span := a.Stop.Value() - a.Start.Value()
		if span <= 0 {
			return 0, true
		}
		return (span + step - 1) / step, true
	}
	return 0, false
}

// MapQubit translates an index within this register into the same qubit
// addressed on the fundamental register. All bounds must be resolved.
func (r *Register) MapQubit(index int64) (*Register, int64, error) {
	cur := r
	for cur.Alias != nil {
		a := cur.Alias
		switch a.Kind {
		case AliasWhole:
			// index carries over unchanged
		case AliasIndex:
			if !a.Index.Resolved() {
				return nil, 0, fmt.Errorf("alias %s has an unresolved index", cur.Name)
			}
			if index != 0 {
				return nil, 0, fmt.Errorf("index %d out of bounds for single-qubit alias %s", index, cur.Name)
			}
			index = a.Index.Value()
		case AliasSlice:
			if !a.Start.Resolved() || !a.Step.Resolved() {
				return nil, 0, fmt.Errorf("alias %s has unresolved slice bounds", cur.Name)
			}
			index = a.Start.Value() + index*a.Step.Value()
		}
		cur = a.Source
	}
	size, ok := cur.ResolvedSize()
	if !ok {
		return nil, 0, fmt.Errorf("register %s has an unresolved size", cur.Name)
	}
	if index < 0 || index >= size {
		return nil, 0, fmt.Errorf("qubit index %d out of bounds for register %s[%d]", index, cur.Name, size)
	}
	return cur, index, nil
}
