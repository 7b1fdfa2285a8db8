// Package diag defines the diagnostic model shared by all compiler phases.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error.
//   - Code – compact numeric identifier (see codes.go) with a stable string
//     form. Ranges map to classes: LEX 1xxx, SYN 2xxx, SEM 3xxx, IO 4xxx. The
//     driver derives the process exit code from the class of the first error.
//   - Message – short, human oriented text.
//   - Primary – the source.Span the problem points at.
//   - Notes – optional secondary spans, e.g. "previously declared here".
//
// # Accumulation
//
// Semantic analysis never stops at the first problem. Phases return
// Result[T], which is either a value or an ordered list of diagnostics, and
// combine independent sub-results with Map2, Map3, Bind2 and All. Those
// combinators concatenate the diagnostics of every failed operand, so one run
// reports every independent problem. A node with any invalid child is itself
// invalid: no partial value is produced.
//
// Lexer and parser report through a Reporter instead, because they recover
// and keep going token by token. BagReporter stores into a capped Bag.
//
// # Internal errors
//
// InternalError marks broken compiler invariants (for example asking for a
// nested array level the type does not have). They are raised with Invariantf
// and converted back into an error at the driver boundary with
// RecoverInternal; they are never mixed with user diagnostics.
//
// Package diag does no formatting beyond the single-line FormatShort used by
// tests and the CLI "short" mode; rendering lives in internal/diagfmt.
package diag
