package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"waccc/internal/source"
	"waccc/internal/types"
)

// Table aggregates the scope, variable and function arenas of one
// compilation. It must not be shared between compilations.
type Table struct {
	Scopes *Scopes
	Vars   *Vars
	Global ScopeID

	funcs     []FuncIdent
	funcNames map[string]FuncID
}

// NewTable builds a fresh table with an allocated global scope.
func NewTable() *Table {
	t := &Table{
		Scopes:    NewScopes(),
		Vars:      NewVars(),
		funcs:     make([]FuncIdent, 1, 8), // 0 зарезервирован под main
		funcNames: make(map[string]FuncID),
	}
	t.Global = t.Scopes.New(ScopeGlobal, NoScopeID, source.Span{})
	return t
}

// Scope returns the scope or nil.
func (t *Table) Scope(id ScopeID) *Scope { return t.Scopes.Get(id) }

// Var returns the variable or nil.
func (t *Table) Var(id VarID) *Variable { return t.Vars.Get(id) }

// Func returns the function signature or nil.
func (t *Table) Func(id FuncID) *FuncIdent {
	if !id.IsValid() || int(id) >= len(t.funcs) {
		return nil
	}
	return &t.funcs[id]
}

// Funcs lists registered function IDs in registration order.
func (t *Table) Funcs() []FuncID {
	out := make([]FuncID, 0, len(t.funcs)-1)
	for i := 1; i < len(t.funcs); i++ {
		out = append(out, FuncID(i)) //nolint:gosec // bounded by DeclareFunc
	}
	return out
}

// NewBlock opens a nested block scope.
func (t *Table) NewBlock(parent ScopeID, span source.Span) ScopeID {
	return t.Scopes.New(ScopeBlock, parent, span)
}

// Declare adds a variable to scope. It fails, returning the existing
// variable, when the name is already declared in this very scope.
func (t *Table) Declare(scope ScopeID, name string, typ *types.Type, span source.Span) (VarID, bool) {
	s := t.Scopes.Get(scope)
	if s == nil {
		panic(fmt.Errorf("symbols.Declare: invalid scope %d", scope))
	}
	if prev, ok := s.names[name]; ok {
		return prev, false
	}
	s.Footprint += types.Size(typ)
	id := t.Vars.New(Variable{
		Name:   name,
		Type:   typ,
		Scope:  scope,
		Offset: s.Footprint,
		Span:   span,
	})
	s.names[name] = id
	s.Vars = append(s.Vars, id)
	return id, true
}

// DeclareFunc registers a signature in the global scope together with its
// function scope. It fails, returning the existing function, on a duplicate
// name.
func (t *Table) DeclareFunc(name string, ret *types.Type, span source.Span) (FuncID, bool) {
	if prev, ok := t.funcNames[name]; ok {
		return prev, false
	}
	value, err := safecast.Conv[uint32](len(t.funcs))
	if err != nil {
		panic(fmt.Errorf("functions arena overflow: %w", err))
	}
	id := FuncID(value)
	scope := t.Scopes.New(ScopeFunction, t.Global, span)
	t.Scopes.Get(scope).Func = id
	t.funcs = append(t.funcs, FuncIdent{Name: name, Return: ret, Scope: scope, Span: span})
	t.funcNames[name] = id
	return id, true
}

// BindParam declares a parameter in the function scope of fn. A repeated
// parameter name fails.
func (t *Table) BindParam(fn FuncID, name string, typ *types.Type, span source.Span) (VarID, bool) {
	f := t.Func(fn)
	if f == nil {
		panic(fmt.Errorf("symbols.BindParam: invalid function %d", fn))
	}
	id, ok := t.Declare(f.Scope, name, typ, span)
	if !ok {
		return id, false
	}
	t.Vars.Get(id).Param = true
	f.Params = append(f.Params, id)
	return id, true
}

// Lookup resolves a variable name from scope outwards. Function scopes do not
// delegate to the global scope, so functions never see main's variables.
func (t *Table) Lookup(scope ScopeID, name string) (VarID, bool) {
	for id := scope; id.IsValid(); {
		s := t.Scopes.Get(id)
		if v, ok := s.names[name]; ok {
			return v, true
		}
		if s.Kind == ScopeFunction {
			break
		}
		id = s.Parent
	}
	return NoVarID, false
}

// LookupLocal finds name in scope only.
func (t *Table) LookupLocal(scope ScopeID, name string) (VarID, bool) {
	s := t.Scopes.Get(scope)
	if s == nil {
		return NoVarID, false
	}
	v, ok := s.names[name]
	return v, ok
}

// LookupFunc finds a function by name; functions always live in Global.
func (t *Table) LookupFunc(name string) (FuncID, bool) {
	id, ok := t.funcNames[name]
	return id, ok
}

// EnclosingFunc returns the function owning scope, or NoFuncID for main.
func (t *Table) EnclosingFunc(scope ScopeID) FuncID {
	for id := scope; id.IsValid(); {
		s := t.Scopes.Get(id)
		if s.Kind == ScopeFunction {
			return s.Func
		}
		id = s.Parent
	}
	return NoFuncID
}

// FrameChain lists scope and its ancestors up to (and including) the nearest
// function or global scope, innermost first.
func (t *Table) FrameChain(scope ScopeID) []ScopeID {
	var chain []ScopeID
	for id := scope; id.IsValid(); {
		s := t.Scopes.Get(id)
		chain = append(chain, id)
		if s.Kind == ScopeFunction || s.Kind == ScopeGlobal {
			break
		}
		id = s.Parent
	}
	return chain
}
