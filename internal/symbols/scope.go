package symbols

import (
	"waccc/internal/source"
	"waccc/internal/types"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeGlobal             // функции и переменные main
	ScopeFunction           // параметры функции
	ScopeBlock              // if/while/for/begin-end и тела функций
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// Scope is one symbol table node. Variables are kept in declaration order;
// Footprint only grows.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Func      FuncID // owner of a function scope
	Span      source.Span
	Vars      []VarID
	Children  []ScopeID
	Footprint uint32 // sum of variable sizes in bytes

	names map[string]VarID
}

// Variable is a declared name with its stack placement. Offset is the
// scope's footprint right after the variable was added, so the variable
// occupies bytes [Footprint-Offset, Footprint-Offset+size) above the scope
// base once the scope is complete.
type Variable struct {
	Name   string
	Type   *types.Type
	Scope  ScopeID
	Offset uint32
	Span   source.Span
	Param  bool
}

// FuncIdent is a registered function signature.
type FuncIdent struct {
	Name   string
	Return *types.Type
	Params []VarID
	Scope  ScopeID // function scope holding the parameters
	Span   source.Span
}
