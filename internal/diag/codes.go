package diag

import (
	"fmt"
)

type Code uint16

const (
	// UnknownCode is the catch-all for unclassified failures.
	UnknownCode Code = 0

	// Lexical errors.
	LexUnknownChar         Code = 1001
	LexBadNumber           Code = 1002
	LexUnterminatedComment Code = 1003
	LexUnterminatedBits    Code = 1004
	LexBadBits             Code = 1005

	// Grammar errors.
	SynUnexpectedToken   Code = 2001
	SynExpectIdentifier  Code = 2002
	SynExpectNumber      Code = 2003
	SynExpectInteger     Code = 2004
	SynExpectSeparator   Code = 2005
	SynUnclosedBlock     Code = 2006
	SynHeaderAfterBody   Code = 2007
	SynExpectGateArg     Code = 2008
	SynExpectBits        Code = 2009
	SynBranchDisabled    Code = 2010
	SynExpectUsepulses   Code = 2011
	SynEmptyIndex        Code = 2012
	SynExpectStatement   Code = 2013

	// Name resolution errors.
	NameRedefined       Code = 3001
	NameUndefined       Code = 3002
	NameUnknownOverride Code = 3003
	NameNotARegister    Code = 3004
	NameNotAGate        Code = 3005

	// Type errors.
	TypeArgKind       Code = 4001
	TypeLoopCount     Code = 4002
	TypeRegisterSize  Code = 4003
	TypeIndexNotInt   Code = 4004
	TypeIndexRange    Code = 4005
	TypeSliceBound    Code = 4006
	TypeWholeAliasArg Code = 4007
	TypeConstValue    Code = 4008

	// Structure errors.
	StructArgCount        Code = 5001
	StructNestedBlock     Code = 5002
	StructManyFundamental Code = 5003
	StructNoFundamental   Code = 5004
	StructUnresolvedConst Code = 5005
	StructUnscheduled     Code = 5006

	// Subcircuit protocol errors.
	ProtoMeasureNoTrace     Code = 6001
	ProtoGateOutsideTrace   Code = 6002
	ProtoTraceAcrossLoop    Code = 6003
	ProtoUnterminatedTrace  Code = 6004
	ProtoOutcomeCount       Code = 6005
)

var codeDescription = map[Code]string{
	UnknownCode: "unknown error",

	LexUnknownChar:         "unknown character",
	LexBadNumber:           "malformed number literal",
	LexUnterminatedComment: "unterminated block comment",
	LexUnterminatedBits:    "unterminated bit-string literal",
	LexBadBits:             "malformed bit-string literal",

	SynUnexpectedToken:  "unexpected token",
	SynExpectIdentifier: "expected identifier",
	SynExpectNumber:     "expected number",
	SynExpectInteger:    "expected integer",
	SynExpectSeparator:  "expected statement separator",
	SynUnclosedBlock:    "unclosed block",
	SynHeaderAfterBody:  "header statement after first body statement",
	SynExpectGateArg:    "expected gate argument",
	SynExpectBits:       "expected bit-string case label",
	SynBranchDisabled:   "branch statements are not enabled",
	SynExpectUsepulses:  "expected usepulses clause",
	SynEmptyIndex:       "expected index expression",
	SynExpectStatement:  "expected statement",

	NameRedefined:       "name already defined",
	NameUndefined:       "name is not defined",
	NameUnknownOverride: "override key is not a declared constant",
	NameNotARegister:    "name does not refer to a register",
	NameNotAGate:        "name does not refer to a gate or macro",

	TypeArgKind:       "argument kind mismatch",
	TypeLoopCount:     "loop count must be a non-negative integer",
	TypeRegisterSize:  "register size must be a positive integer",
	TypeIndexNotInt:   "index must be an integer",
	TypeIndexRange:    "index out of register bounds",
	TypeSliceBound:    "malformed slice bound",
	TypeWholeAliasArg: "whole alias register passed where a qubit is required",
	TypeConstValue:    "constant value has the wrong kind",

	StructArgCount:        "wrong number of arguments",
	StructNestedBlock:     "illegal same-kind block nesting",
	StructManyFundamental: "more than one fundamental register",
	StructNoFundamental:   "no fundamental register declared",
	StructUnresolvedConst: "unresolved constant reference",
	StructUnscheduled:     "unscheduled block in compiled circuit",

	ProtoMeasureNoTrace:    "measure_all without an open subcircuit",
	ProtoGateOutsideTrace:  "gate outside any subcircuit",
	ProtoTraceAcrossLoop:   "subcircuit boundaries straddle a loop iteration",
	ProtoUnterminatedTrace: "subcircuit is never measured",
	ProtoOutcomeCount:      "backend outcome count does not match traces",
}

// ID renders the stable machine-readable identifier, e.g. "NAME3001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("NAME%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("TYPE%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("STRUCT%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("PROTO%04d", ic)
	}
	return "E0000"
}

// Category names the error family from the compiler's taxonomy.
func (c Code) Category() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 3000:
		return "syntax error"
	case ic >= 3000 && ic < 4000:
		return "name error"
	case ic >= 4000 && ic < 5000:
		return "type error"
	case ic >= 5000 && ic < 6000:
		return "structure error"
	case ic >= 6000 && ic < 7000:
		return "subcircuit protocol error"
	}
	return "error"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
