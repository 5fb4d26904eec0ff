package token

import (
	"ionasm/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric or bit-string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, BitLit:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwRegister, KwMap, KwLet, KwMacro, KwLoop, KwFrom, KwUsepulses, KwBranch, KwSubcircuit:
		return true
	default:
		return false
	}
}

// IsSeparator reports whether the token separates sequential statements.
func (t Token) IsSeparator() bool {
	return t.Kind == Newline || t.Kind == Semicolon
}

// IsParallelSeparator reports whether the token separates parallel statements.
func (t Token) IsParallelSeparator() bool {
	return t.Kind == Newline || t.Kind == Pipe
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
