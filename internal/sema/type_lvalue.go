package sema

import (
	"waccc/internal/ast"
	"waccc/internal/diag"
	"waccc/internal/parsetree"
	"waccc/internal/symbols"
	"waccc/internal/types"
)

func (b *builder) lhs(n *parsetree.Node, scope symbols.ScopeID) diag.Result[ast.AssLHS] {
	switch n.Kind {
	case parsetree.Ident:
		return diag.Map(b.ident(n, scope), func(id *ast.Ident) ast.AssLHS { return id })
	case parsetree.ArrayElem:
		return diag.Map(b.arrayElem(n, scope), func(e *ast.ArrayElem) ast.AssLHS { return e })
	case parsetree.PairElem:
		return diag.Map(b.pairElem(n, scope), func(e *ast.PairElem) ast.AssLHS { return e })
	}
	diag.Invariantf("sema.lhs", "unexpected assignment target %s", n.Kind)
	return diag.Result[ast.AssLHS]{}
}

// pairElem: the inner target must be a pair whose slot types are known.
func (b *builder) pairElem(n *parsetree.Node, scope symbols.ScopeID) diag.Result[*ast.PairElem] {
	snd := n.Text == "snd"
	return diag.Bind(b.lhs(n.Child(0), scope), func(inner ast.AssLHS) diag.Result[*ast.PairElem] {
		t := inner.Type()
		switch t.Kind {
		case types.KindPair:
			slot := t.Fst
			if snd {
				slot = t.Snd
			}
			return diag.Ok(ast.NewPairElem(n.Span, slot, snd, inner))
		case types.KindAnyPair:
			return fail[*ast.PairElem](diag.SemaUntypedPairElem, n.Span,
				"cannot take %s of a pair whose element types are unknown", n.Text)
		}
		return fail[*ast.PairElem](diag.SemaTypeMismatch, inner.Span(),
			"%s expects a pair, got %s", n.Text, t)
	})
}

func (b *builder) rhs(n *parsetree.Node, scope symbols.ScopeID) diag.Result[ast.AssRHS] {
	switch n.Kind {
	case parsetree.ArrayLit:
		return b.arrayLit(n, scope)
	case parsetree.NewPair:
		fst := b.expr(n.Child(0), scope)
		snd := b.expr(n.Child(1), scope)
		return diag.Map2(fst, snd, func(f, s ast.Expr) ast.AssRHS {
			return ast.NewNewPair(n.Span, f, s)
		})
	case parsetree.PairElem:
		return diag.Map(b.pairElem(n, scope), func(e *ast.PairElem) ast.AssRHS { return e })
	case parsetree.Call:
		return b.call(n, scope)
	}
	return diag.Map(b.expr(n, scope), func(e ast.Expr) ast.AssRHS { return e })
}

// arrayLit types the literal after its most specific element: [[], [1]] is
// int[][] and ["a", chars] is string[].
func (b *builder) arrayLit(n *parsetree.Node, scope symbols.ScopeID) diag.Result[ast.AssRHS] {
	elems := make([]diag.Result[ast.AssRHS], len(n.Children))
	for i, c := range n.Children {
		if c.Kind == parsetree.ArrayLit {
			elems[i] = b.arrayLit(c, scope)
			continue
		}
		elems[i] = diag.Map(b.expr(c, scope), func(e ast.Expr) ast.AssRHS { return e })
	}
	return diag.Bind(diag.All(elems), func(es []ast.AssRHS) diag.Result[ast.AssRHS] {
		if len(es) == 0 {
			return diag.Ok[ast.AssRHS](ast.NewArrayLit(n.Span, types.EmptyArray, nil))
		}
		elem := es[0].Type()
		var errs []diag.Diagnostic
		for _, e := range es[1:] {
			t := e.Type()
			switch {
			case types.Matches(elem, t):
				if untyped(elem) && !untyped(t) {
					elem = t
				}
			case types.Matches(t, elem):
				elem = t
			default:
				errs = append(errs, diag.Errorf(diag.SemaTypeMismatch, e.Span(),
					"array literal element has type %s, expected %s", t, elem))
			}
		}
		if len(errs) > 0 {
			return diag.Fail[ast.AssRHS](errs...)
		}
		return diag.Ok[ast.AssRHS](ast.NewArrayLit(n.Span, types.MakeArray(elem), es))
	})
}

func untyped(t *types.Type) bool {
	return t.Kind == types.KindEmptyArray || t.Kind == types.KindAnyPair
}

// call: arity first; with the right arity every argument is checked and
// all mismatches are reported.
func (b *builder) call(n *parsetree.Node, scope symbols.ScopeID) diag.Result[ast.AssRHS] {
	name := n.Child(0)
	argNodes := n.Child(1).Children
	args := make([]diag.Result[ast.Expr], len(argNodes))
	for i, a := range argNodes {
		args[i] = b.expr(a, scope)
	}
	fnID, ok := b.table.LookupFunc(name.Text)
	if !ok {
		undefined := diag.Errorf(diag.SemaUndefinedFunction, name.Span, "undefined function '%s'", name.Text)
		return diag.Fail[ast.AssRHS](diag.Merge(diag.All(args).Errors(), []diag.Diagnostic{undefined})...)
	}
	fn := b.table.Func(fnID)
	if len(args) != len(fn.Params) {
		arity := diag.Errorf(diag.SemaArgCount, n.Span, "function '%s' takes %d arguments, got %d",
			fn.Name, len(fn.Params), len(args))
		return diag.Fail[ast.AssRHS](diag.Merge(diag.All(args).Errors(), []diag.Diagnostic{arity})...)
	}
	for i := range args {
		param := b.table.Var(fn.Params[i])
		args[i] = b.expectType(args[i], param.Type, "argument '"+param.Name+"' of '"+fn.Name+"'")
	}
	return diag.Map(diag.All(args), func(as []ast.Expr) ast.AssRHS {
		return ast.NewCall(n.Span, fn.Return, fnID, fn.Name, as)
	})
}
