package ast

import (
	"waccc/internal/source"
	"waccc/internal/symbols"
	"waccc/internal/types"
)

// Func is a compiled function. Params live in Scope (the function scope);
// Body.Inner is the block scope of the body.
type Func struct {
	ID     symbols.FuncID
	Name   string
	Return *types.Type
	Params []symbols.VarID
	Scope  symbols.ScopeID
	Body   *Block
	Pos    source.Span
}

// Prog is a whole validated program. Main's statement runs directly in the
// global scope.
type Prog struct {
	Funcs  []*Func
	Body   Stat
	Global symbols.ScopeID
	Table  *symbols.Table
	Pos    source.Span
}
