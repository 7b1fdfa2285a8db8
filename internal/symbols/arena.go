package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"waccc/internal/source"
)

// Scopes stores all allocated scopes in a compact slice-based arena.
type Scopes struct {
	data []Scope
}

// NewScopes creates an arena; index 0 is reserved for NoScopeID.
func NewScopes() *Scopes {
	return &Scopes{data: make([]Scope, 1, 32)}
}

// New allocates a new scope and returns its ID.
func (s *Scopes) New(kind ScopeKind, parent ScopeID, span source.Span) ScopeID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("scopes arena overflow: %w", err))
	}
	id := ScopeID(value)
	s.data = append(s.data, Scope{
		Kind:   kind,
		Parent: parent,
		Span:   span,
		names:  make(map[string]VarID),
	})
	if parentScope := s.Get(parent); parentScope != nil {
		parentScope.Children = append(parentScope.Children, id)
	}
	return id
}

// Get returns the scope pointer or nil if ID is invalid.
func (s *Scopes) Get(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports total number of scopes excluding the sentinel.
func (s *Scopes) Len() int { return len(s.data) - 1 }

// Vars stores declared variables.
type Vars struct {
	data []Variable
}

// NewVars creates a variable arena; index 0 is reserved for NoVarID.
func NewVars() *Vars {
	return &Vars{data: make([]Variable, 1, 64)}
}

// New appends v and returns its ID.
func (s *Vars) New(v Variable) VarID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("variables arena overflow: %w", err))
	}
	s.data = append(s.data, v)
	return VarID(value)
}

// Get returns a variable pointer or nil for invalid ID.
func (s *Vars) Get(id VarID) *Variable {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports number of stored variables excluding sentinel.
func (s *Vars) Len() int { return len(s.data) - 1 }
