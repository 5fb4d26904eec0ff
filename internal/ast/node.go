package ast

import (
	"ionasm/internal/source"
)

// NodeID addresses a node inside a Tree's arena.
type NodeID uint32

// NoNodeID is the absent node.
const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// Node is one parse-tree node. Interior nodes carry Kids; atoms carry the
// payload field matching their tag (Text for idents and bit strings, Int or
// Float for numbers).
type Node struct {
	Tag   Tag
	Span  source.Span
	Text  string
	Int   int64
	Float float64
	Kids  []NodeID
}
