// Package gates supplies injectable native-gate tables. The catalog of real
// hardware gates lives outside the compiler; this package only defines the
// table shape and loads user-supplied TOML catalogs.
package gates

import (
	"sort"

	"ionasm/internal/ir"
)

// Table maps gate names to native definitions. It is the injection point the
// circuit builder consumes; the compiler core never hardcodes a catalog.
type Table map[string]*ir.GateDef

// Resolver maps a usepulses module name to its gate table.
type Resolver func(module string) (Table, error)

// Merge returns a new table containing the receiver's entries overlaid with
// other's. Neither input is modified.
func (t Table) Merge(other Table) Table {
	out := make(Table, len(t)+len(other))
	for name, def := range t {
		out[name] = def
	}
	for name, def := range other {
		out[name] = def
	}
	return out
}

// Names returns the gate names in sorted order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Defs returns the definitions ordered by name, for deterministic output.
func (t Table) Defs() []*ir.GateDef {
	defs := make([]*ir.GateDef, 0, len(t))
	for _, name := range t.Names() {
		defs = append(defs, t[name])
	}
	return defs
}
