package parser

import (
	"strconv"

	"ionasm/internal/ast"
	"ionasm/internal/diag"
	"ionasm/internal/token"
)

// parseIdentAtom consumes an identifier into a TagIdent leaf.
func (p *Parser) parseIdentAtom(msg string) (ast.NodeID, bool) {
	tok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, msg)
	if !ok {
		return ast.NoNodeID, false
	}
	return p.tree.NewIdent(tok.Span, tok.Text), true
}

// parseNumberAtom consumes an integer or float literal.
func (p *Parser) parseNumberAtom() (ast.NodeID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			p.errf(diag.SynExpectNumber, tok.Span, "integer literal %q out of range", tok.Text)
			return ast.NoNodeID, false
		}
		return p.tree.NewInt(tok.Span, v), true
	case token.FloatLit:
		p.advance()
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			p.errf(diag.SynExpectNumber, tok.Span, "float literal %q out of range", tok.Text)
			return ast.NoNodeID, false
		}
		return p.tree.NewFloat(tok.Span, v), true
	default:
		p.errf(diag.SynExpectNumber, p.diagSpan(), "expected number, found %q", tok.Text)
		return ast.NoNodeID, false
	}
}

// parseIntOrIdent consumes an integer literal or an identifier (a constant
// reference resolved later). Register sizes, indices, slice bounds, and loop
// counts all take this form.
func (p *Parser) parseIntOrIdent(msg string) (ast.NodeID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.IntLit:
		return p.parseNumberAtom()
	case token.Ident:
		return p.parseIdentAtom(msg)
	default:
		p.errf(diag.SynExpectInteger, p.diagSpan(), "%s, found %q", msg, tok.Text)
		return ast.NoNodeID, false
	}
}

// parseGateArg consumes one gate argument: a number, an identifier, or an
// indexed identifier `name[idx]`.
func (p *Parser) parseGateArg() (ast.NodeID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.IntLit, token.FloatLit:
		return p.parseNumberAtom()
	case token.Ident:
		ident, ok := p.parseIdentAtom("expected argument")
		if !ok {
			return ast.NoNodeID, false
		}
		if !p.at(token.LBracket) {
			return ident, true
		}
		return p.parseIndexSuffix(ident)
	default:
		p.errf(diag.SynExpectGateArg, p.diagSpan(),
			"expected number, identifier, or indexed register, found %q", tok.Text)
		return ast.NoNodeID, false
	}
}

// parseIndexSuffix wraps an already-parsed identifier into an array_item node
// for `name[idx]`.
func (p *Parser) parseIndexSuffix(ident ast.NodeID) (ast.NodeID, bool) {
	open, ok := p.expect(token.LBracket, diag.SynUnexpectedToken, "expected '['")
	if !ok {
		return ast.NoNodeID, false
	}
	item := p.tree.New(ast.TagArrayItem, p.tree.Get(ident).Span.Cover(open.Span))
	p.tree.AddKid(item, ident)

	idx, ok := p.parseIntOrIdent("expected index")
	if !ok {
		return ast.NoNodeID, false
	}
	p.tree.AddKid(item, idx)

	close_, ok := p.expect(token.RBracket, diag.SynUnexpectedToken, "expected ']'")
	if !ok {
		return ast.NoNodeID, false
	}
	p.tree.Get(item).Span = p.tree.Get(item).Span.Cover(close_.Span)
	return item, true
}
