package parser

import (
	"ionasm/internal/ast"
	"ionasm/internal/diag"
	"ionasm/internal/token"
)

func (p *Parser) parseHeaderStatement() (ast.NodeID, bool) {
	switch p.lx.Peek().Kind {
	case token.KwRegister:
		return p.parseRegister()
	case token.KwLet:
		return p.parseLet()
	case token.KwMap:
		return p.parseMap()
	case token.KwFrom:
		return p.parseUsepulses()
	default:
		p.errf(diag.SynUnexpectedToken, p.diagSpan(),
			"expected header statement, found %q", p.lx.Peek().Text)
		return ast.NoNodeID, false
	}
}

// register <name>[<int-or-const>]
func (p *Parser) parseRegister() (ast.NodeID, bool) {
	kw := p.advance()
	node := p.tree.New(ast.TagRegister, kw.Span)

	name, ok := p.parseIdentAtom("expected register name")
	if !ok {
		return ast.NoNodeID, false
	}
	p.tree.AddKid(node, name)

	if _, ok := p.expect(token.LBracket, diag.SynUnexpectedToken, "expected '[' after register name"); !ok {
		return ast.NoNodeID, false
	}
	size, ok := p.parseIntOrIdent("expected register size")
	if !ok {
		return ast.NoNodeID, false
	}
	p.tree.AddKid(node, size)
	closing, ok := p.expect(token.RBracket, diag.SynUnexpectedToken, "expected ']' after register size")
	if !ok {
		return ast.NoNodeID, false
	}
	p.tree.Get(node).Span = p.tree.Get(node).Span.Cover(closing.Span)
	return node, true
}

// let <name> <number>
func (p *Parser) parseLet() (ast.NodeID, bool) {
	kw := p.advance()
	node := p.tree.New(ast.TagLet, kw.Span)

	name, ok := p.parseIdentAtom("expected constant name")
	if !ok {
		return ast.NoNodeID, false
	}
	p.tree.AddKid(node, name)

	value, ok := p.parseNumberAtom()
	if !ok {
		return ast.NoNodeID, false
	}
	p.tree.AddKid(node, value)
	return node, true
}

// map <name> <source> | map <name> <source>[<idx>] |
// map <name> <source>[<start>:<stop>(:<step>)?]
func (p *Parser) parseMap() (ast.NodeID, bool) {
	kw := p.advance()
	node := p.tree.New(ast.TagMap, kw.Span)

	name, ok := p.parseIdentAtom("expected alias name")
	if !ok {
		return ast.NoNodeID, false
	}
	p.tree.AddKid(node, name)

	src, ok := p.parseIdentAtom("expected source register name")
	if !ok {
		return ast.NoNodeID, false
	}

	if !p.at(token.LBracket) {
		// Whole-register alias.
		p.tree.AddKid(node, src)
		return node, true
	}

	open := p.advance()
	first, ok := p.parseIntOrIdent("expected index or slice start")
	if !ok {
		return ast.NoNodeID, false
	}

	if !p.at(token.Colon) {
		// Single index: map name src[idx]
		item := p.tree.New(ast.TagArrayItem, p.tree.Get(src).Span.Cover(open.Span))
		p.tree.AddKid(item, src)
		p.tree.AddKid(item, first)
		closing, ok := p.expect(token.RBracket, diag.SynUnexpectedToken, "expected ']' after index")
		if !ok {
			return ast.NoNodeID, false
		}
		p.tree.Get(item).Span = p.tree.Get(item).Span.Cover(closing.Span)
		p.tree.AddKid(node, item)
		return node, true
	}

	// Slice: src[start:stop] or src[start:stop:step]. A slice node always
	// carries all four kids; an omitted step defaults to 1.
	p.advance() // ':'
	slice := p.tree.New(ast.TagSlice, p.tree.Get(src).Span.Cover(open.Span))
	p.tree.AddKid(slice, src)
	p.tree.AddKid(slice, first)

	stop, ok := p.parseIntOrIdent("expected slice stop")
	if !ok {
		return ast.NoNodeID, false
	}
	p.tree.AddKid(slice, stop)

	var step ast.NodeID
	if p.at(token.Colon) {
		p.advance()
		step, ok = p.parseIntOrIdent("expected slice step")
		if !ok {
			return ast.NoNodeID, false
		}
	} else {
		step = p.tree.NewInt(p.lx.EmptySpan(), 1)
	}
	p.tree.AddKid(slice, step)

	closing, ok := p.expect(token.RBracket, diag.SynUnexpectedToken, "expected ']' after slice")
	if !ok {
		return ast.NoNodeID, false
	}
	p.tree.Get(slice).Span = p.tree.Get(slice).Span.Cover(closing.Span)
	p.tree.AddKid(node, slice)
	return node, true
}

// from <module> usepulses *
func (p *Parser) parseUsepulses() (ast.NodeID, bool) {
	kw := p.advance()
	node := p.tree.New(ast.TagUsepulses, kw.Span)

	module, ok := p.parseIdentAtom("expected module name after 'from'")
	if !ok {
		return ast.NoNodeID, false
	}
	p.tree.AddKid(node, module)

	if _, ok := p.expect(token.KwUsepulses, diag.SynExpectUsepulses, "expected 'usepulses'"); !ok {
		return ast.NoNodeID, false
	}
	star, ok := p.expect(token.Star, diag.SynExpectUsepulses, "expected '*' after 'usepulses'")
	if !ok {
		return ast.NoNodeID, false
	}
	p.tree.Get(node).Span = p.tree.Get(node).Span.Cover(star.Span)
	return node, true
}
