// Package token defines lexical token kinds for WACC source.
// Invariants:
//   - Token.Text is the exact source text of the token (escapes not decoded).
//   - Token.Span matches Text exactly.
//   - Base type names (int, bool, char, string) and 'pair' are keywords.
//   - Comments ('#' to end of line) and whitespace never reach the token stream.
package token
