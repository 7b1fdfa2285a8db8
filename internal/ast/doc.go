// Package ast holds the validated, type-resolved program produced by sema.
//
// Node families are sealed interfaces (Expr, AssLHS, AssRHS, Stat) with one
// concrete struct per construct; consumers switch over the concrete types.
// Nodes own their children and refer to scopes and variables by ID into the
// program's symbols.Table.
package ast
