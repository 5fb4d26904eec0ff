package lexer

import (
	"ionasm/internal/diag"
	"ionasm/internal/token"
)

// scanNumber scans integer and float literals, with an optional sign:
//
//	[+-]? digits
//	[+-]? digits '.' digits? ( [eE] [+-]? digits )?
//	[+-]? '.' digits ( [eE] [+-]? digits )?
//
// There are no arithmetic operators in this grammar, so a sign always belongs
// to the literal. Malformed forms are reported and yield an Invalid token.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if b := lx.cursor.Peek(); b == '-' || b == '+' {
		lx.cursor.Bump()
	}

	sawDigits := false
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
		sawDigits = true
	}

	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		kind = token.FloatLit
		sawFrac := false
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
			sawFrac = true
		}
		if !sawDigits && !sawFrac {
			sp := lx.cursor.SpanFrom(start)
			lx.report(diag.LexBadNumber, sp, "expected digits around '.'")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
	} else if !sawDigits {
		// A bare sign with no digits at all.
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.LexBadNumber, sp, "expected digits after sign")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		kind = token.FloatLit
		lx.cursor.Bump()
		if b2 := lx.cursor.Peek(); b2 == '+' || b2 == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			sp := lx.cursor.SpanFrom(start)
			lx.report(diag.LexBadNumber, sp, "expected digits in exponent")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	// A number glued to an identifier ("1q") is one malformed token, not two.
	if isIdentStartByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.LexBadNumber, sp, "identifier characters directly after number")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
