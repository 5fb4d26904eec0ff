// Package passes holds the semantics-preserving circuit rewrites: constant
// substitution, alias resolution, and macro expansion.
//
// Every pass is a pure Circuit -> Circuit transform. Inputs are never
// mutated; outputs share every unchanged subtree with the input by pointer.
// The legal composition order is constants, then aliases, then macros
// (constants and aliases commute when slice bounds are literal).
//
// The circuit IR carries no source positions, so pass errors name the
// offending entity rather than a location; the driver attaches file context.
package passes
