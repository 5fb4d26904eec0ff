package lexer

import (
	"fmt"

	"ionasm/internal/diag"
	"ionasm/internal/token"
)

var punctKinds = map[byte]token.Kind{
	'{': token.LBrace,
	'}': token.RBrace,
	'<': token.LAngle,
	'>': token.RAngle,
	'|': token.Pipe,
	';': token.Semicolon,
	':': token.Colon,
	'[': token.LBracket,
	']': token.RBracket,
	'*': token.Star,
}

// scanPunct scans single-byte punctuation. Anything unrecognized is reported
// and consumed as an Invalid token so the lexer keeps making progress.
func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])

	if kind, ok := punctKinds[b]; ok {
		return token.Token{Kind: kind, Span: sp, Text: text}
	}

	lx.report(diag.LexUnknownChar, sp, fmt.Sprintf("unknown character %q", b))
	return token.Token{Kind: token.Invalid, Span: sp, Text: text}
}
