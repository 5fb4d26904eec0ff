package parser

import (
	"ionasm/internal/ast"
	"ionasm/internal/diag"
	"ionasm/internal/lexer"
	"ionasm/internal/source"
	"ionasm/internal/token"
)

// Options configures one ParseFile call.
type Options struct {
	Reporter diag.Reporter
	// HeaderOnly stops cleanly once the header (register/let/map/usepulses)
	// has been fully read, without touching the body. Used for cheap
	// metadata inspection.
	HeaderOnly bool
	// EnableBranch allows the experimental branch/case statements.
	EnableBranch bool
}

// Result carries the parsed tree root and the first syntax error, if any.
// The compiler is fail-fast: Err != nil means Root is incomplete.
type Result struct {
	Root ast.NodeID
	Err  error
}

// Parser holds the state for parsing one file.
type Parser struct {
	lx       *lexer.Lexer
	tree     *ast.Tree
	fs       *source.FileSet
	opts     Options
	lastSpan source.Span
	err      error
	seenBody bool
}

// ParseFile is the entry point for one file. It requires an already
// constructed lexer over a source.File.
func ParseFile(fs *source.FileSet, lx *lexer.Lexer, tree *ast.Tree, opts Options) Result {
	p := Parser{
		lx:       lx,
		tree:     tree,
		fs:       fs,
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}

	root := tree.New(ast.TagCircuit, lx.Peek().Span)
	p.parseCircuit(root)
	if tree.Root == ast.NoNodeID {
		tree.Root = root
	}
	return Result{Root: root, Err: p.err}
}

// parseCircuit reads the two program phases: header statements, then body
// statements, then EOF. Header keywords reappearing after the first body
// statement are a syntax error.
func (p *Parser) parseCircuit(root ast.NodeID) {
	p.skipSeparators()
	for p.err == nil && !p.at(token.EOF) {
		if !p.atHeaderKeyword() {
			break
		}
		id, ok := p.parseHeaderStatement()
		if !ok {
			return
		}
		p.tree.AddKid(root, id)
		if !p.expectSeparator() {
			return
		}
	}

	if p.opts.HeaderOnly || p.err != nil {
		return
	}

	for p.err == nil && !p.at(token.EOF) {
		if p.atHeaderKeyword() {
			p.errf(diag.SynHeaderAfterBody, p.lx.Peek().Span,
				"%s statements must precede all body statements", p.lx.Peek().Kind)
			return
		}
		id, ok := p.parseBodyStatement()
		if !ok {
			return
		}
		p.seenBody = true
		p.tree.AddKid(root, id)
		if !p.expectSeparator() {
			return
		}
	}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atHeaderKeyword() bool {
	switch p.lx.Peek().Kind {
	case token.KwRegister, token.KwLet, token.KwMap, token.KwFrom:
		return true
	default:
		return false
	}
}

// advance consumes the next token and tracks lastSpan for diagnostics.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// diagSpan picks the best span for a diagnostic: at EOF, point just past the
// last consumed token rather than at offset zero.
func (p *Parser) diagSpan() source.Span {
	peek := p.lx.Peek()
	if (peek.Kind == token.EOF || peek.Kind == token.Invalid) && peek.Span.Empty() {
		if p.lastSpan.End > 0 {
			return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
		}
	}
	return peek.Span
}

// errf records the first error and forwards it to the reporter. Parsing is
// fail-fast: callers unwind as soon as errf has fired.
func (p *Parser) errf(code diag.Code, span source.Span, format string, args ...any) {
	if p.err != nil {
		return
	}
	e := diag.Errorf(code, span, format, args...)
	p.err = e
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(code, diag.SevError, span, e.Diag.Message, nil)
	}
}

// expect consumes a token of kind k or reports code.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.errf(code, p.diagSpan(), "%s, found %q", msg, p.lx.Peek().Text)
	return token.Token{Kind: token.Invalid, Span: p.diagSpan()}, false
}

// skipSeparators eats any run of newline/semicolon separators.
// Runs of separators collapse: one or many are equivalent.
func (p *Parser) skipSeparators() {
	for {
		if t := p.lx.Peek(); t.IsSeparator() {
			p.advance()
			continue
		}
		return
	}
}

// expectSeparator requires at least one separator (or EOF / a closing
// delimiter, which terminate the statement list without one).
func (p *Parser) expectSeparator() bool {
	t := p.lx.Peek()
	if t.IsSeparator() {
		p.skipSeparators()
		return true
	}
	switch t.Kind {
	case token.EOF, token.RBrace, token.RAngle:
		return true
	}
	p.errf(diag.SynExpectSeparator, p.diagSpan(),
		"expected newline or ';' between statements, found %q", t.Text)
	return false
}
