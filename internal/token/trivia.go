package token

import "ionasm/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaLineComment
	TriviaBlockComment
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "space"
	case TriviaLineComment:
		return "line-comment"
	case TriviaBlockComment:
		return "block-comment"
	}
	return "trivia?"
}

// Trivia is non-semantic source text attached to the following token.
// Line breaks are not trivia: they are Newline tokens, because they act as
// statement separators.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
