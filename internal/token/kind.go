package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline is a significant line break (one per run of blank lines).
	Newline

	// Ident represents an identifier, possibly dot-qualified.
	Ident

	// KwRegister represents the 'register' keyword.
	KwRegister // register
	// KwMap represents the 'map' keyword.
	KwMap // map
	// KwLet represents the 'let' keyword.
	KwLet // let
	// KwMacro represents the 'macro' keyword.
	KwMacro // macro
	// KwLoop represents the 'loop' keyword.
	KwLoop // loop
	// KwFrom represents the 'from' keyword.
	KwFrom // from
	// KwUsepulses represents the 'usepulses' keyword.
	KwUsepulses // usepulses
	// KwBranch represents the 'branch' keyword.
	KwBranch // branch
	// KwSubcircuit represents the 'subcircuit' keyword.
	KwSubcircuit // subcircuit

	// IntLit represents an integer literal.
	IntLit
	// FloatLit represents a float literal.
	FloatLit
	// BitLit represents a quoted bit-string literal ('01').
	BitLit

	// LBrace represents '{'.
	LBrace // {
	// RBrace represents '}'.
	RBrace // }
	// LAngle represents '<'.
	LAngle // <
	// RAngle represents '>'.
	RAngle // >
	// Pipe represents '|'.
	Pipe // |
	// Semicolon represents ';'.
	Semicolon // ;
	// Colon represents ':'.
	Colon // :
	// LBracket represents '['.
	LBracket // [
	// RBracket represents ']'.
	RBracket // ]
	// Star represents '*'.
	Star // *
)

var kindNames = map[Kind]string{
	Invalid:      "Invalid",
	EOF:          "EOF",
	Newline:      "Newline",
	Ident:        "Ident",
	KwRegister:   "register",
	KwMap:        "map",
	KwLet:        "let",
	KwMacro:      "macro",
	KwLoop:       "loop",
	KwFrom:       "from",
	KwUsepulses:  "usepulses",
	KwBranch:     "branch",
	KwSubcircuit: "subcircuit",
	IntLit:       "IntLit",
	FloatLit:     "FloatLit",
	BitLit:       "BitLit",
	LBrace:       "{",
	RBrace:       "}",
	LAngle:       "<",
	RAngle:       ">",
	Pipe:         "|",
	Semicolon:    ";",
	Colon:        ":",
	LBracket:     "[",
	RBracket:     "]",
	Star:         "*",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}
