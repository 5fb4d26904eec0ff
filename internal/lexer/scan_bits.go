package lexer

import (
	"ionasm/internal/diag"
	"ionasm/internal/token"
)

// scanBits scans a quoted bit-string literal, e.g. '01'. These label branch
// cases with measurement outcomes. Token.Text keeps the quotes.
func (lx *Lexer) scanBits() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote

	bad := false
	for {
		b := lx.cursor.Peek()
		if b == '\'' {
			lx.cursor.Bump()
			break
		}
		if lx.cursor.EOF() || b == '\n' {
			sp := lx.cursor.SpanFrom(start)
			lx.report(diag.LexUnterminatedBits, sp, "bit string is never closed")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		if b != '0' && b != '1' {
			bad = true
		}
		lx.cursor.Bump()
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	if bad {
		lx.report(diag.LexBadBits, sp, "bit string may only contain 0 and 1")
		return token.Token{Kind: token.Invalid, Span: sp, Text: text}
	}
	return token.Token{Kind: token.BitLit, Span: sp, Text: text}
}
