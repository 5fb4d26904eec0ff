package lexer

import (
	"strings"

	"ionasm/internal/token"
)

// scanIdentOrKeyword scans an identifier, following dot-qualified segments
// (`mypulses.gates`), and classifies plain identifiers through LookupKeyword.
// Token.Text is exactly the source slice.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	lx.cursor.Bump()
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	// Qualified segments: '.' must be directly followed by an ident start,
	// otherwise the dot is not ours.
	for {
		b0, b1, ok := lx.cursor.Peek2()
		if !ok || b0 != '.' || !isIdentStartByte(b1) {
			break
		}
		lx.cursor.Bump() // '.'
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])

	if !strings.Contains(text, ".") {
		if k, ok := token.LookupKeyword(text); ok {
			return token.Token{Kind: k, Span: sp, Text: text}
		}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}
