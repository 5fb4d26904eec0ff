package build

import (
	"ionasm/internal/gates"
)

// Options configures one Build call.
type Options struct {
	// Gates is the injected native-gate table. When nil and nothing resolves
	// through usepulses, unknown gate names get synthetic untyped
	// definitions, which keeps header-only inspection working without a
	// catalog.
	Gates gates.Table
	// Resolver maps usepulses module names to additional gate tables.
	Resolver gates.Resolver
}
