package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
	// SourceLine controls whether the offending line and a caret underline
	// are printed below each diagnostic.
	SourceLine bool
}
