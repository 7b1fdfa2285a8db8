package symbols

import (
	"errors"
	"fmt"

	"waccc/internal/types"
)

// Validate walks internal arenas checking structural invariants. Returns nil if
// everything is consistent; otherwise aggregates all detected issues.
func (t *Table) Validate() error {
	var errs []error

	for idx := 1; idx < len(t.Scopes.data); idx++ {
		scopeID := ScopeID(idx) //nolint:gosec // arena length checked on allocation
		scope := &t.Scopes.data[idx]
		if scope.Kind == ScopeInvalid {
			errs = append(errs, fmt.Errorf("scope %d has invalid kind", scopeID))
		}
		if scope.Parent.IsValid() {
			if int(scope.Parent) >= len(t.Scopes.data) || scope.Parent == scopeID {
				errs = append(errs, fmt.Errorf("scope %d has invalid parent %d", scopeID, scope.Parent))
			}
		} else if scope.Kind != ScopeGlobal {
			errs = append(errs, fmt.Errorf("%s scope %d has no parent", scope.Kind, scopeID))
		}

		// сумма размеров и накопительные смещения
		var sum uint32
		seen := make(map[string]struct{}, len(scope.Vars))
		for _, id := range scope.Vars {
			v := t.Vars.Get(id)
			if v == nil {
				errs = append(errs, fmt.Errorf("scope %d lists invalid variable %d", scopeID, id))
				continue
			}
			if _, dup := seen[v.Name]; dup {
				errs = append(errs, fmt.Errorf("scope %d declares %q twice", scopeID, v.Name))
			}
			seen[v.Name] = struct{}{}
			sum += types.Size(v.Type)
			if v.Offset != sum {
				errs = append(errs, fmt.Errorf("variable %q in scope %d has offset %d, want %d", v.Name, scopeID, v.Offset, sum))
			}
			if v.Scope != scopeID {
				errs = append(errs, fmt.Errorf("variable %q owned by scope %d but listed in %d", v.Name, v.Scope, scopeID))
			}
		}
		if sum != scope.Footprint {
			errs = append(errs, fmt.Errorf("scope %d footprint %d, variables sum to %d", scopeID, scope.Footprint, sum))
		}
	}

	for i := 1; i < len(t.funcs); i++ {
		f := &t.funcs[i]
		s := t.Scopes.Get(f.Scope)
		if s == nil || s.Kind != ScopeFunction || s.Func != FuncID(i) { //nolint:gosec // bounded
			errs = append(errs, fmt.Errorf("function %q has broken scope %d", f.Name, f.Scope))
		}
	}

	return errors.Join(errs...)
}
