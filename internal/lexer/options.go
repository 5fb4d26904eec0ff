package lexer

import (
	"ionasm/internal/diag"
	"ionasm/internal/source"
)

// Options configures a Lexer. Reporter may be nil: lexical errors are then
// dropped, but lexing continues either way.
type Options struct {
	Reporter diag.Reporter
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}
