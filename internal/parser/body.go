package parser

import (
	"strings"

	"ionasm/internal/ast"
	"ionasm/internal/diag"
	"ionasm/internal/token"
)

func (p *Parser) parseBodyStatement() (ast.NodeID, bool) {
	switch p.lx.Peek().Kind {
	case token.Ident:
		return p.parseGate()
	case token.KwLoop:
		return p.parseLoop()
	case token.KwMacro:
		return p.parseMacro()
	case token.LBrace:
		return p.parseSequentialBlock()
	case token.LAngle:
		return p.parseParallelBlock()
	case token.KwSubcircuit:
		return p.parseSubcircuit()
	case token.KwBranch:
		return p.parseBranch()
	default:
		p.errf(diag.SynExpectStatement, p.diagSpan(),
			"expected gate, loop, macro, block, or subcircuit, found %q", p.lx.Peek().Text)
		return ast.NoNodeID, false
	}
}

// parseBlockStatement parses the statements legal inside blocks: everything
// except macro definitions and branches, which are top-level only.
func (p *Parser) parseBlockStatement() (ast.NodeID, bool) {
	switch p.lx.Peek().Kind {
	case token.Ident:
		return p.parseGate()
	case token.KwLoop:
		return p.parseLoop()
	case token.LBrace:
		return p.parseSequentialBlock()
	case token.LAngle:
		return p.parseParallelBlock()
	default:
		p.errf(diag.SynExpectStatement, p.diagSpan(),
			"expected gate, loop, or block, found %q", p.lx.Peek().Text)
		return ast.NoNodeID, false
	}
}

// <gate-name> <arg>...
func (p *Parser) parseGate() (ast.NodeID, bool) {
	name, ok := p.parseIdentAtom("expected gate name")
	if !ok {
		return ast.NoNodeID, false
	}
	node := p.tree.New(ast.TagGate, p.tree.Get(name).Span)
	p.tree.AddKid(node, name)

	for {
		t := p.lx.Peek()
		switch t.Kind {
		case token.IntLit, token.FloatLit, token.Ident:
			arg, ok := p.parseGateArg()
			if !ok {
				return ast.NoNodeID, false
			}
			p.tree.AddKid(node, arg)
		default:
			return node, true
		}
	}
}

// loop <count> { ... }
func (p *Parser) parseLoop() (ast.NodeID, bool) {
	kw := p.advance()
	node := p.tree.New(ast.TagLoop, kw.Span)

	count, ok := p.parseIntOrIdent("expected loop count")
	if !ok {
		return ast.NoNodeID, false
	}
	p.tree.AddKid(node, count)

	body, ok := p.parseSequentialBlock()
	if !ok {
		return ast.NoNodeID, false
	}
	p.tree.AddKid(node, body)
	return node, true
}

// macro <name> <param>... { ... }
func (p *Parser) parseMacro() (ast.NodeID, bool) {
	kw := p.advance()
	node := p.tree.New(ast.TagMacro, kw.Span)

	name, ok := p.parseIdentAtom("expected macro name")
	if !ok {
		return ast.NoNodeID, false
	}
	p.tree.AddKid(node, name)

	for p.at(token.Ident) {
		param, ok := p.parseIdentAtom("expected macro parameter")
		if !ok {
			return ast.NoNodeID, false
		}
		p.tree.AddKid(node, param)
	}

	body, ok := p.parseSequentialBlock()
	if !ok {
		return ast.NoNodeID, false
	}
	p.tree.AddKid(node, body)
	return node, true
}

// { <seq-stmt>; ... }
func (p *Parser) parseSequentialBlock() (ast.NodeID, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return ast.NoNodeID, false
	}
	node := p.tree.New(ast.TagSeqBlock, open.Span)

	p.skipSeparators()
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.errf(diag.SynUnclosedBlock, p.diagSpan(), "expected '}' before end of file")
			return ast.NoNodeID, false
		}
		stmt, ok := p.parseBlockStatement()
		if !ok {
			return ast.NoNodeID, false
		}
		p.tree.AddKid(node, stmt)
		if !p.expectSeparator() {
			return ast.NoNodeID, false
		}
	}
	closing := p.advance()
	p.tree.Get(node).Span = p.tree.Get(node).Span.Cover(closing.Span)
	return node, true
}

// < <par-stmt> | ... >
func (p *Parser) parseParallelBlock() (ast.NodeID, bool) {
	open, ok := p.expect(token.LAngle, diag.SynUnexpectedToken, "expected '<'")
	if !ok {
		return ast.NoNodeID, false
	}
	node := p.tree.New(ast.TagParBlock, open.Span)

	p.skipParallelSeparators()
	for !p.at(token.RAngle) {
		if p.at(token.EOF) {
			p.errf(diag.SynUnclosedBlock, p.diagSpan(), "expected '>' before end of file")
			return ast.NoNodeID, false
		}
		stmt, ok := p.parseBlockStatement()
		if !ok {
			return ast.NoNodeID, false
		}
		p.tree.AddKid(node, stmt)
		if !p.expectParallelSeparator() {
			return ast.NoNodeID, false
		}
	}
	closing := p.advance()
	p.tree.Get(node).Span = p.tree.Get(node).Span.Cover(closing.Span)
	return node, true
}

// subcircuit [<count>] { ... }
func (p *Parser) parseSubcircuit() (ast.NodeID, bool) {
	kw := p.advance()
	node := p.tree.New(ast.TagSubcircuit, kw.Span)

	var count ast.NodeID
	if p.at(token.IntLit) || p.at(token.Ident) {
		var ok bool
		count, ok = p.parseIntOrIdent("expected subcircuit count")
		if !ok {
			return ast.NoNodeID, false
		}
	} else {
		count = p.tree.NewInt(p.lx.EmptySpan(), 1)
	}
	p.tree.AddKid(node, count)

	body, ok := p.parseSequentialBlock()
	if !ok {
		return ast.NoNodeID, false
	}
	p.tree.AddKid(node, body)
	return node, true
}

// branch { '<bits>': { ... } ... } (experimental; behind an enable flag)
func (p *Parser) parseBranch() (ast.NodeID, bool) {
	kw := p.advance()
	if !p.opts.EnableBranch {
		p.errf(diag.SynBranchDisabled, kw.Span,
			"branch statements are experimental; enable them explicitly")
		return ast.NoNodeID, false
	}
	node := p.tree.New(ast.TagBranch, kw.Span)

	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after 'branch'"); !ok {
		return ast.NoNodeID, false
	}
	p.skipSeparators()
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.errf(diag.SynUnclosedBlock, p.diagSpan(), "expected '}' before end of file")
			return ast.NoNodeID, false
		}
		caseNode, ok := p.parseCase()
		if !ok {
			return ast.NoNodeID, false
		}
		p.tree.AddKid(node, caseNode)
		if !p.expectSeparator() {
			return ast.NoNodeID, false
		}
	}
	closing := p.advance()
	p.tree.Get(node).Span = p.tree.Get(node).Span.Cover(closing.Span)
	return node, true
}

// '<bits>': { ... }
func (p *Parser) parseCase() (ast.NodeID, bool) {
	bits, ok := p.expect(token.BitLit, diag.SynExpectBits, "expected bit-string case label")
	if !ok {
		return ast.NoNodeID, false
	}
	node := p.tree.New(ast.TagCase, bits.Span)
	label := strings.Trim(bits.Text, "'")
	p.tree.AddKid(node, p.tree.NewBits(bits.Span, label))

	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after case label"); !ok {
		return ast.NoNodeID, false
	}
	body, ok := p.parseSequentialBlock()
	if !ok {
		return ast.NoNodeID, false
	}
	p.tree.AddKid(node, body)
	return node, true
}

// skipParallelSeparators eats any run of newline/pipe separators.
func (p *Parser) skipParallelSeparators() {
	for p.lx.Peek().IsParallelSeparator() {
		p.advance()
	}
}

func (p *Parser) expectParallelSeparator() bool {
	t := p.lx.Peek()
	if t.IsParallelSeparator() {
		p.skipParallelSeparators()
		return true
	}
	if t.Kind == token.RAngle {
		return true
	}
	p.errf(diag.SynExpectSeparator, p.diagSpan(),
		"expected newline or '|' between parallel statements, found %q", t.Text)
	return false
}
