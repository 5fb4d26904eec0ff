package lexer

import (
	"ionasm/internal/diag"
	"ionasm/internal/token"
)

// collectLeadingTrivia gathers consecutive trivia before a significant token:
//   - runs of ' ' and '\t' coalesce into one TriviaSpace
//   - //... up to (not including) the line break -> TriviaLineComment
//   - /* ... */ -> TriviaBlockComment, nestable; unterminated comments are
//     reported and cut off at EOF
//
// Line breaks stop the collection: they are Newline tokens, not trivia.
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		if b == ' ' || b == '\t' {
			for {
				b2 := lx.cursor.Peek()
				if b2 != ' ' && b2 != '\t' {
					break
				}
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaSpace,
				Span: sp,
				Text: string(lx.file.Content[sp.Start:sp.End]),
			})
			continue
		}

		if b == '/' {
			if lx.scanCommentIntoHold() {
				continue
			}
		}

		break
	}
}

// scanCommentIntoHold scans // and /* */ comments into lx.hold.
// Returns false when the cursor does not sit on a comment.
func (lx *Lexer) scanCommentIntoHold() bool {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' {
		return false
	}

	start := lx.cursor.Mark()
	switch b1 {
	case '/':
		lx.cursor.Bump()
		lx.cursor.Bump()
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.hold = append(lx.hold, token.Trivia{
			Kind: token.TriviaLineComment,
			Span: sp,
			Text: string(lx.file.Content[sp.Start:sp.End]),
		})
		return true

	case '*':
		lx.cursor.Bump()
		lx.cursor.Bump()
		depth := 1
		for depth > 0 && !lx.cursor.EOF() {
			c0, c1, ok2 := lx.cursor.Peek2()
			switch {
			case ok2 && c0 == '/' && c1 == '*':
				lx.cursor.Bump()
				lx.cursor.Bump()
				depth++
			case ok2 && c0 == '*' && c1 == '/':
				lx.cursor.Bump()
				lx.cursor.Bump()
				depth--
			default:
				lx.cursor.Bump()
			}
		}
		sp := lx.cursor.SpanFrom(start)
		if depth > 0 {
			lx.report(diag.LexUnterminatedComment, sp, "block comment is never closed")
		}
		lx.hold = append(lx.hold, token.Trivia{
			Kind: token.TriviaBlockComment,
			Span: sp,
			Text: string(lx.file.Content[sp.Start:sp.End]),
		})
		return true
	}
	return false
}
