package symbols

// ScopeID identifies a scope in the table arena.
type ScopeID uint32

// NoScopeID marks the absence of a scope reference.
const NoScopeID ScopeID = 0

// IsValid reports whether the scope ID refers to an allocated scope.
func (id ScopeID) IsValid() bool { return id != NoScopeID }

// VarID identifies a variable inside the table arena.
type VarID uint32

// NoVarID marks the absence of a variable.
const NoVarID VarID = 0

// IsValid reports whether the variable ID refers to an allocated variable.
func (id VarID) IsValid() bool { return id != NoVarID }

// FuncID identifies a function signature.
type FuncID uint32

// NoFuncID marks the main program, which has no signature.
const NoFuncID FuncID = 0

// IsValid reports whether the function ID refers to a registered function.
func (id FuncID) IsValid() bool { return id != NoFuncID }
