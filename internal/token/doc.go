// Package token defines lexical token kinds and trivia for the ionasm compiler.
// Invariants:
//   - Token.Text is a copy of the original source slice it was scanned from.
//   - Token.Span matches Text exactly (Start..End).
//   - Line breaks are significant (statement/parallel separators) and are
//     emitted as Newline tokens, one per run of consecutive blank lines.
//   - Gate names (Sx, MS, prepare_all, ...) are identifiers. They are
//     recognized by the circuit builder, not the lexer.
package token
