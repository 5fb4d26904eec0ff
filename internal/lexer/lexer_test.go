package lexer_test

import (
	"testing"

	"ionasm/internal/diag"
	"ionasm/internal/lexer"
	"ionasm/internal/source"
	"ionasm/internal/token"
)

// testReporter collects every diagnostic the lexer emits.
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func (r *testReporter) hasCode(code diag.Code) bool {
	for _, d := range r.diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}

func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.ion", []byte(input))
	reporter := &testReporter{}
	return lexer.New(fs.Get(fileID), lexer.Options{Reporter: reporter}), reporter
}

func collectAllTokens(lx *lexer.Lexer) []token.Token {
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens
}

func expectKinds(t *testing.T, input string, expected []token.Kind) {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tokens := collectAllTokens(lx)

	if len(tokens) != len(expected) {
		t.Fatalf("input %q: got %d tokens, want %d\ntokens: %v", input, len(tokens), len(expected), tokens)
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("input %q: token %d is %s, want %s", input, i, tok.Kind, expected[i])
		}
	}
	if len(reporter.diagnostics) != 0 {
		t.Errorf("input %q: unexpected diagnostics: %v", input, reporter.diagnostics)
	}
}

func TestKeywordsAndIdents(t *testing.T) {
	expectKinds(t, "register q", []token.Kind{token.KwRegister, token.Ident, token.EOF})
	expectKinds(t, "let map loop from usepulses macro subcircuit branch",
		[]token.Kind{token.KwLet, token.KwMap, token.KwLoop, token.KwFrom,
			token.KwUsepulses, token.KwMacro, token.KwSubcircuit, token.KwBranch, token.EOF})
	// Names that merely start with a keyword stay identifiers.
	expectKinds(t, "register1 maps", []token.Kind{token.Ident, token.Ident, token.EOF})
}

func TestDottedIdentIsOneToken(t *testing.T) {
	lx, _ := makeTestLexer("qscout.v1.std")
	tok := lx.Next()
	if tok.Kind != token.Ident || tok.Text != "qscout.v1.std" {
		t.Fatalf("got %s %q, want Ident \"qscout.v1.std\"", tok.Kind, tok.Text)
	}
}

func TestDottedKeywordStaysIdent(t *testing.T) {
	// A qualified name is never a keyword, even when a segment matches one.
	lx, _ := makeTestLexer("loop.x")
	tok := lx.Next()
	if tok.Kind != token.Ident {
		t.Fatalf("got %s, want Ident", tok.Kind)
	}
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		input string
		kind  token.Kind
		text  string
	}{
		{"42", token.IntLit, "42"},
		{"-7", token.IntLit, "-7"},
		{"+3", token.IntLit, "+3"},
		{"1.5", token.FloatLit, "1.5"},
		{"-0.25", token.FloatLit, "-0.25"},
		{".5", token.FloatLit, ".5"},
		{"2e3", token.FloatLit, "2e3"},
		{"1.5e-2", token.FloatLit, "1.5e-2"},
	}
	for _, tc := range cases {
		lx, reporter := makeTestLexer(tc.input)
		tok := lx.Next()
		if tok.Kind != tc.kind || tok.Text != tc.text {
			t.Errorf("input %q: got %s %q, want %s %q", tc.input, tok.Kind, tok.Text, tc.kind, tc.text)
		}
		if len(reporter.diagnostics) != 0 {
			t.Errorf("input %q: unexpected diagnostics: %v", tc.input, reporter.diagnostics)
		}
	}
}

func TestNumberGluedToIdentIsInvalid(t *testing.T) {
	lx, reporter := makeTestLexer("1x")
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Fatalf("got %s, want Invalid", tok.Kind)
	}
	if !reporter.hasCode(diag.LexBadNumber) {
		t.Errorf("expected %s, got %v", diag.LexBadNumber.ID(), reporter.diagnostics)
	}
}

func TestBitLiteral(t *testing.T) {
	lx, _ := makeTestLexer("'01'")
	tok := lx.Next()
	if tok.Kind != token.BitLit || tok.Text != "'01'" {
		t.Fatalf("got %s %q, want BitLit \"'01'\"", tok.Kind, tok.Text)
	}
}

func TestBitLiteralErrors(t *testing.T) {
	lx, reporter := makeTestLexer("'01")
	collectAllTokens(lx)
	if !reporter.hasCode(diag.LexUnterminatedBits) {
		t.Errorf("unterminated: expected %s, got %v", diag.LexUnterminatedBits.ID(), reporter.diagnostics)
	}

	lx, reporter = makeTestLexer("'02'")
	collectAllTokens(lx)
	if !reporter.hasCode(diag.LexBadBits) {
		t.Errorf("bad digit: expected %s, got %v", diag.LexBadBits.ID(), reporter.diagnostics)
	}
}

func TestNewlineRunCoalesces(t *testing.T) {
	expectKinds(t, "a\n\n\nb", []token.Kind{token.Ident, token.Newline, token.Ident, token.EOF})
	expectKinds(t, "a\n   \n\t\nb", []token.Kind{token.Ident, token.Newline, token.Ident, token.EOF})
}

func TestCommentsAreTrivia(t *testing.T) {
	lx, _ := makeTestLexer("// leading\nSx /* mid */ q")
	tokens := collectAllTokens(lx)

	kinds := []token.Kind{token.Newline, token.Ident, token.Ident, token.EOF}
	if len(tokens) != len(kinds) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(kinds), tokens)
	}
	for i, k := range kinds {
		if tokens[i].Kind != k {
			t.Errorf("token %d is %s, want %s", i, tokens[i].Kind, k)
		}
	}

	// The line comment leads the Newline token, the block comment leads "q".
	if len(tokens[0].Leading) == 0 || tokens[0].Leading[0].Kind != token.TriviaLineComment {
		t.Errorf("newline leading trivia: %v", tokens[0].Leading)
	}
	var sawBlock bool
	for _, tr := range tokens[2].Leading {
		if tr.Kind == token.TriviaBlockComment {
			sawBlock = true
		}
	}
	if !sawBlock {
		t.Errorf("ident leading trivia: %v", tokens[2].Leading)
	}
}

func TestNestedBlockComment(t *testing.T) {
	lx, reporter := makeTestLexer("/* a /* b */ c */ x")
	tok := lx.Next()
	if tok.Kind != token.Ident || tok.Text != "x" {
		t.Fatalf("got %s %q, want Ident \"x\"", tok.Kind, tok.Text)
	}
	if len(reporter.diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", reporter.diagnostics)
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	lx, reporter := makeTestLexer("/* never closed")
	collectAllTokens(lx)
	if !reporter.hasCode(diag.LexUnterminatedComment) {
		t.Errorf("expected %s, got %v", diag.LexUnterminatedComment.ID(), reporter.diagnostics)
	}
}

func TestPunctuation(t *testing.T) {
	expectKinds(t, "{ } < > | ; : [ ] *",
		[]token.Kind{token.LBrace, token.RBrace, token.LAngle, token.RAngle,
			token.Pipe, token.Semicolon, token.Colon, token.LBracket,
			token.RBracket, token.Star, token.EOF})
}

func TestUnknownCharacter(t *testing.T) {
	lx, reporter := makeTestLexer("@")
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Fatalf("got %s, want Invalid", tok.Kind)
	}
	if !reporter.hasCode(diag.LexUnknownChar) {
		t.Errorf("expected %s, got %v", diag.LexUnknownChar.ID(), reporter.diagnostics)
	}
}

func TestGateLine(t *testing.T) {
	expectKinds(t, "MS q[0] q[1] 0 1.57",
		[]token.Kind{token.Ident, token.Ident, token.LBracket, token.IntLit, token.RBracket,
			token.Ident, token.LBracket, token.IntLit, token.RBracket,
			token.IntLit, token.FloatLit, token.EOF})
}
