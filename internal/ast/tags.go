package ast

// Tag classifies a parse-tree node. The grammar produces a nested tree where
// every interior node leads with its statement keyword; leaves are atoms.
type Tag uint8

const (
	TagInvalid Tag = iota

	// Leaf atoms.
	TagIdent
	TagInt
	TagFloat
	TagBits

	// Header statements.
	TagRegister
	TagLet
	TagMap
	TagUsepulses

	// Body statements.
	TagGate
	TagLoop
	TagMacro
	TagSeqBlock
	TagParBlock
	TagSubcircuit
	TagBranch
	TagCase

	// Argument shapes.
	TagArrayItem // name[idx]
	TagSlice     // name[start:stop:step]

	// TagCircuit is the root: header kids first, then body kids.
	TagCircuit
)

var tagNames = map[Tag]string{
	TagInvalid:    "invalid",
	TagIdent:      "ident",
	TagInt:        "int",
	TagFloat:      "float",
	TagBits:       "bits",
	TagRegister:   "register",
	TagLet:        "let",
	TagMap:        "map",
	TagUsepulses:  "usepulses",
	TagGate:       "gate",
	TagLoop:       "loop",
	TagMacro:      "macro",
	TagSeqBlock:   "sequential_block",
	TagParBlock:   "parallel_block",
	TagSubcircuit: "subcircuit_block",
	TagBranch:     "branch",
	TagCase:       "case",
	TagArrayItem:  "array_item",
	TagSlice:      "slice",
	TagCircuit:    "circuit",
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "unknown"
}

// IsAtom reports whether the tag is a leaf literal or identifier.
func (t Tag) IsAtom() bool {
	switch t {
	case TagIdent, TagInt, TagFloat, TagBits:
		return true
	default:
		return false
	}
}

// IsHeader reports whether the tag is a header statement: the grammar is
// two-phase, and all of these must precede the first body statement.
func (t Tag) IsHeader() bool {
	switch t {
	case TagRegister, TagLet, TagMap, TagUsepulses:
		return true
	default:
		return false
	}
}
