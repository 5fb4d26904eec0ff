package ast

import (
	"ionasm/internal/source"
)

// Tree owns the arena of parse-tree nodes for one source file.
// Root is a TagCircuit node whose kids are the top-level statements,
// header first.
type Tree struct {
	nodes *Arena[Node]
	Root  NodeID
}

func NewTree(capHint uint) *Tree {
	return &Tree{
		nodes: NewArena[Node](capHint),
	}
}

// New allocates a node and returns its ID.
func (t *Tree) New(tag Tag, span source.Span) NodeID {
	return NodeID(t.nodes.Allocate(Node{Tag: tag, Span: span}))
}

// NewIdent allocates an identifier atom.
func (t *Tree) NewIdent(span source.Span, name string) NodeID {
	return NodeID(t.nodes.Allocate(Node{Tag: TagIdent, Span: span, Text: name}))
}

// NewInt allocates an integer atom.
func (t *Tree) NewInt(span source.Span, v int64) NodeID {
	return NodeID(t.nodes.Allocate(Node{Tag: TagInt, Span: span, Int: v}))
}

// NewFloat allocates a float atom.
func (t *Tree) NewFloat(span source.Span, v float64) NodeID {
	return NodeID(t.nodes.Allocate(Node{Tag: TagFloat, Span: span, Float: v}))
}

// NewBits allocates a bit-string atom; text excludes the quotes.
func (t *Tree) NewBits(span source.Span, bits string) NodeID {
	return NodeID(t.nodes.Allocate(Node{Tag: TagBits, Span: span, Text: bits}))
}

func (t *Tree) Get(id NodeID) *Node {
	return t.nodes.Get(uint32(id))
}

// AddKid appends kid to the parent's child list and widens the parent span.
func (t *Tree) AddKid(parent, kid NodeID) {
	p := t.Get(parent)
	p.Kids = append(p.Kids, kid)
	p.Span = p.Span.Cover(t.Get(kid).Span)
}

// Kids returns the parent's child IDs. Read-only.
func (t *Tree) Kids(id NodeID) []NodeID {
	return t.Get(id).Kids
}

func (t *Tree) Len() uint32 {
	return t.nodes.Len()
}
