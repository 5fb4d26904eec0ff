package ir

// Import records one `from <module> usepulses *` declaration.
type Import struct {
	Module string
	All    bool
}

// Circuit is the top-level immutable container. Slices hold declaration
// order; the name-keyed maps are rebuilt by Reindex and never own anything.
type Circuit struct {
	Constants []*Constant
	Registers []*Register // fundamental and aliases, in declaration order
	Macros    []*Macro
	Gates     []*GateDef
	Usepulses []Import
	Body      *BlockStatement

	constByName map[string]*Constant
	regByName   map[string]*Register
	macroByName map[string]*Macro
	gateByName  map[string]*GateDef
}

// Reindex rebuilds the name lookups from the declaration slices. Call it
// after constructing or rewriting a Circuit.
func (c *Circuit) Reindex() *Circuit {
	c.constByName = make(map[string]*Constant, len(c.Constants))
	for _, k := range c.Constants {
		c.constByName[k.Name] = k
	}
	c.regByName = make(map[string]*Register, len(c.Registers))
	for _, r := range c.Registers {
		c.regByName[r.Name] = r
	}
	c.macroByName = make(map[string]*Macro, len(c.Macros))
	for _, m := range c.Macros {
		c.macroByName[m.Name] = m
	}
	c.gateByName = make(map[string]*GateDef, len(c.Gates))
	for _, g := range c.Gates {
		c.gateByName[g.Name] = g
	}
	return c
}

// Shallow returns a copy sharing every slice and node with the receiver.
// Passes start from a Shallow copy and replace only what they change.
func (c *Circuit) Shallow() *Circuit {
	out := &Circuit{
		Constants: c.Constants,
		Registers: c.Registers,
		Macros:    c.Macros,
		Gates:     c.Gates,
		Usepulses: c.Usepulses,
		Body:      c.Body,
	}
	return out.Reindex()
}

func (c *Circuit) LookupConstant(name string) (*Constant, bool) {
	k, ok := c.constByName[name]
	return k, ok
}

func (c *Circuit) LookupRegister(name string) (*Register, bool) {
	r, ok := c.regByName[name]
	return r, ok
}

func (c *Circuit) LookupMacro(name string) (*Macro, bool) {
	m, ok := c.macroByName[name]
	return m, ok
}

func (c *Circuit) LookupGate(name string) (*GateDef, bool) {
	g, ok := c.gateByName[name]
	return g, ok
}

// FundamentalRegister returns the circuit's single fundamental register,
// or nil when none was declared (header-only parses).
func (c *Circuit) FundamentalRegister() *Register {
	for _, r := range c.Registers {
		if r.Fundamental() {
			return r
		}
	}
	return nil
}
