package token

var keywords = map[string]Kind{
	"register":   KwRegister,
	"map":        KwMap,
	"let":        KwLet,
	"macro":      KwMacro,
	"loop":       KwLoop,
	"from":       KwFrom,
	"usepulses":  KwUsepulses,
	"branch":     KwBranch,
	"subcircuit": KwSubcircuit,
}

// LookupKeyword returns the keyword kind for ident, if it is one.
// Keywords are case-sensitive; only lowercase forms are recognized.
// Dot-qualified identifiers are never keywords.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
