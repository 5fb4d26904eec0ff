// Package ir defines the immutable intermediate representation of a circuit.
//
// A Circuit owns its whole tree by composition: constants, registers, macros,
// native gate definitions, and the body block. Name-keyed lookups are
// non-owning indexes into the same tree.
//
// Everything here is immutable by convention once built. Rewrite passes never
// modify a node they received; they build replacement nodes and reuse (share)
// every unchanged subtree by pointer. The single sanctioned exception is the
// scheduler, which rewrites BlockStatement contents in place as the final
// compilation step.
//
// Statements form a closed sum type (GateStatement, BlockStatement,
// LoopStatement, BranchStatement); passes switch over it exhaustively.
// Values (gate arguments) are a second closed sum: literals, constant
// references, qubit references, whole-register references, and macro
// parameter references.
package ir
