// Package diag defines the diagnostic model shared by all compiler phases.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture findings
//     produced by the lexer / parser / builder / rewrite passes.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//   - Carry the compiler's fail-fast error taxonomy (syntax, name, type,
//     structure, subcircuit protocol) as stable numeric Code ranges.
//
// # Scope
//
// Package diag does not perform any formatting, IO, or CLI integration.
// Rendering responsibilities live in internal/diagfmt; orchestration lives in
// the driver layer.
//
// # Data model
//
// Diagnostic is the central record: Severity, Code, Message, the primary
// source.Span, and optional Notes. Notes should add new context ("declared
// here") rather than repeating the message.
//
// Error wraps a single Diagnostic as a Go error. Compiler phases are
// fail-fast: the first error aborts the phase and propagates as *Error.
// Tooling surfaces that want to keep going (tokenize dumps, batch diagnose)
// collect into a Bag through a Reporter instead.
//
// Keep the data model deterministic: identical input must produce identical
// diagnostics, so the CLI and tests can rely on stable output.
package diag
