package lexer

import (
	"ionasm/internal/source"
	"ionasm/internal/token"
)

// Lexer turns one source file into a stream of tokens. Line breaks are
// significant in this grammar (they separate statements), so a run of blank
// lines becomes one Newline token rather than trivia.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // one-token lookahead buffer
	hold   []token.Trivia // accumulated leading trivia
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		look:   nil,
		hold:   nil,
	}
}

// Next returns the next significant token with its Leading trivia attached.
// After EOF it always returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.EmptySpan(),
			Text: "",
		}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '\n':
		tok = lx.scanNewlineRun()

	case isIdentStartByte(ch):
		tok = lx.scanIdentOrKeyword()

	case isDec(ch):
		tok = lx.scanNumber()

	case ch == '-' || ch == '+':
		// Signed numbers only: this grammar has no arithmetic operators.
		tok = lx.scanNumber()

	case ch == '.' && lx.isNumberAfterDot():
		tok = lx.scanNumber()

	case ch == '\'':
		tok = lx.scanBits()

	default:
		tok = lx.scanPunct()
	}

	tok.Leading = lx.hold
	lx.hold = nil

	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// EmptySpan is a zero-length span at the current cursor position.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

// File returns the file this lexer reads from.
func (lx *Lexer) File() *source.File {
	return lx.file
}

// scanNewlineRun coalesces consecutive line breaks (and the indentation of
// blank lines between them) into one Newline token.
func (lx *Lexer) scanNewlineRun() token.Token {
	start := lx.cursor.Mark()
	for {
		b := lx.cursor.Peek()
		if b == '\n' {
			lx.cursor.Bump()
			continue
		}
		if b == ' ' || b == '\t' {
			// Only swallow whitespace that is followed by more line breaks;
			// trailing indentation belongs to the next token's trivia.
			if !lx.blankLineAhead() {
				break
			}
			lx.cursor.Bump()
			continue
		}
		break
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind: token.Newline,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	}
}

// blankLineAhead reports whether only spaces and tabs sit between the cursor
// and the next line break.
func (lx *Lexer) blankLineAhead() bool {
	for off := lx.cursor.Off; off < lx.cursor.Limit; off++ {
		switch lx.file.Content[off] {
		case ' ', '\t':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return false
}
