package sema

import (
	"waccc/internal/ast"
	"waccc/internal/diag"
	"waccc/internal/parsetree"
	"waccc/internal/symbols"
	"waccc/internal/types"
)

func (b *builder) stat(n *parsetree.Node, scope symbols.ScopeID) diag.Result[ast.Stat] {
	switch n.Kind {
	case parsetree.Skip:
		return diag.Ok[ast.Stat](ast.NewSkip(n.Span, scope))
	case parsetree.Declare:
		return b.declare(n, scope)
	case parsetree.Assign:
		return b.assign(n, scope)
	case parsetree.Read:
		return b.read(n, scope)
	case parsetree.Free:
		value := check(b.expr(n.Child(0), scope), func(e ast.Expr) *diag.Diagnostic {
			t := e.Type()
			if t.IsPair() || t.Kind == types.KindArray {
				return nil
			}
			return errorf(diag.SemaTypeMismatch, e.Span(), "free expects a pair or an array, got %s", t)
		})
		return diag.Map(value, func(e ast.Expr) ast.Stat { return ast.NewFree(n.Span, scope, e) })
	case parsetree.Return:
		return b.ret(n, scope)
	case parsetree.Exit:
		code := b.expectType(b.expr(n.Child(0), scope), types.Int, "exit code")
		return diag.Map(code, func(e ast.Expr) ast.Stat { return ast.NewExit(n.Span, scope, e) })
	case parsetree.Print, parsetree.Println:
		newline := n.Kind == parsetree.Println
		return diag.Map(b.expr(n.Child(0), scope), func(e ast.Expr) ast.Stat {
			return ast.NewPrint(n.Span, scope, e, newline)
		})
	case parsetree.If:
		return b.ifStat(n, scope)
	case parsetree.While:
		cond := b.cond(n.Child(0), scope)
		body := b.block(n.Child(1), scope)
		return diag.Map2(cond, body, func(c ast.Expr, blk *ast.Block) ast.Stat {
			return ast.NewWhile(n.Span, scope, c, blk)
		})
	case parsetree.For:
		return b.forStat(n, scope)
	case parsetree.Block:
		return diag.Map(b.block(n.Child(0), scope), func(blk *ast.Block) ast.Stat { return blk })
	case parsetree.Seq:
		return b.seq(n, scope)
	}
	diag.Invariantf("sema.stat", "unexpected statement node %s", n.Kind)
	return diag.Result[ast.Stat]{}
}

// declare evaluates the right-hand side before the name exists. The variable
// is registered even when the right-hand side is invalid so later uses do not
// cascade into undefined-identifier errors.
func (b *builder) declare(n *parsetree.Node, scope symbols.ScopeID) diag.Result[ast.Stat] {
	declared := resolveType(n.Child(0))
	name := n.Child(1)
	rhs := b.rhs(n.Child(2), scope)

	typ := declared
	if rhs.OK() {
		typ = types.Refine(declared, rhs.Value().Type())
	}
	id, ok := b.table.Declare(scope, name.Text, typ, name.Span)
	var errs []diag.Diagnostic
	if !ok {
		prev := b.table.Var(id)
		errs = append(errs, diag.Errorf(diag.SemaRedeclaration, name.Span,
			"'%s' is already declared in this scope", name.Text).
			WithNote(prev.Span, "previous declaration is here"))
	}
	if rhs.OK() && !types.Matches(typ, rhs.Value().Type()) {
		errs = append(errs, diag.Errorf(diag.SemaTypeMismatch, rhs.Value().Span(),
			"cannot initialise '%s' of type %s with %s", name.Text, typ, rhs.Value().Type()))
	}
	return diag.Check(diag.Map(rhs, func(r ast.AssRHS) ast.Stat {
		return ast.NewDeclare(n.Span, scope, id, name.Text, typ, r)
	}), errs...)
}

func (b *builder) assign(n *parsetree.Node, scope symbols.ScopeID) diag.Result[ast.Stat] {
	lhs := b.lhs(n.Child(0), scope)
	rhs := b.rhs(n.Child(1), scope)
	return diag.Bind2(lhs, rhs, func(l ast.AssLHS, r ast.AssRHS) diag.Result[ast.Stat] {
		if !types.Matches(l.Type(), r.Type()) {
			return fail[ast.Stat](diag.SemaTypeMismatch, n.Span,
				"cannot assign %s to a target of type %s", r.Type(), l.Type())
		}
		return diag.Ok[ast.Stat](ast.NewAssign(n.Span, scope, l, r))
	})
}

func (b *builder) read(n *parsetree.Node, scope symbols.ScopeID) diag.Result[ast.Stat] {
	return diag.Bind(b.lhs(n.Child(0), scope), func(target ast.AssLHS) diag.Result[ast.Stat] {
		t := target.Type()
		switch {
		case t.Kind == types.KindInt, t.Kind == types.KindChar, t.Kind == types.KindString, t.IsCharArray():
			return diag.Ok[ast.Stat](ast.NewRead(n.Span, scope, target))
		}
		return fail[ast.Stat](diag.SemaTypeMismatch, target.Span(),
			"read expects int, char, string or char[], got %s", t)
	})
}

func (b *builder) ret(n *parsetree.Node, scope symbols.ScopeID) diag.Result[ast.Stat] {
	value := b.expr(n.Child(0), scope)
	if !b.table.EnclosingFunc(scope).IsValid() {
		invalid := diag.Errorf(diag.SemaInvalidReturn, n.Span, "return outside of a function")
		return diag.Fail[ast.Stat](diag.Merge(value.Errors(), []diag.Diagnostic{invalid})...)
	}
	return diag.Map(value, func(e ast.Expr) ast.Stat { return ast.NewReturn(n.Span, scope, e) })
}

func (b *builder) cond(n *parsetree.Node, scope symbols.ScopeID) diag.Result[ast.Expr] {
	return b.expectType(b.expr(n, scope), types.Bool, "condition")
}

// block compiles body in a fresh child scope of parent.
func (b *builder) block(body *parsetree.Node, parent symbols.ScopeID) diag.Result[*ast.Block] {
	inner := b.table.NewBlock(parent, body.Span)
	return diag.Map(b.stat(body, inner), func(st ast.Stat) *ast.Block {
		return ast.NewBlock(body.Span, parent, inner, st)
	})
}

func (b *builder) ifStat(n *parsetree.Node, scope symbols.ScopeID) diag.Result[ast.Stat] {
	cond := b.cond(n.Child(0), scope)
	then := b.block(n.Child(1), scope)
	els := diag.Ok[*ast.Block](nil)
	if n.Len() == 3 {
		els = b.block(n.Child(2), scope)
	}
	return diag.Map3(cond, then, els, func(c ast.Expr, t, e *ast.Block) ast.Stat {
		return ast.NewIf(n.Span, scope, c, t, e)
	})
}

// forStat: the header scope holds the loop variable; the body is nested in it.
func (b *builder) forStat(n *parsetree.Node, scope symbols.ScopeID) diag.Result[ast.Stat] {
	header := b.table.NewBlock(scope, n.Span)
	init := b.stat(n.Child(0), header)
	cond := b.cond(n.Child(1), header)
	step := b.stat(n.Child(2), header)
	body := b.block(n.Child(3), header)
	parts := diag.Map3(init, cond, step, func(i ast.Stat, c ast.Expr, s ast.Stat) *ast.For {
		return &ast.For{Init: i, Cond: c, Step: s}
	})
	return diag.Map2(parts, body, func(f *ast.For, blk *ast.Block) ast.Stat {
		return ast.NewFor(n.Span, scope, header, f.Init, f.Cond, f.Step, blk)
	})
}

// seq compiles statements in order; a return, or an exit outside any
// function, must be the last statement of its sequence.
func (b *builder) seq(n *parsetree.Node, scope symbols.ScopeID) diag.Result[ast.Stat] {
	inFunc := b.table.EnclosingFunc(scope).IsValid()
	stats := make([]diag.Result[ast.Stat], 0, n.Len())
	var flow []diag.Diagnostic
	for i, c := range n.Children {
		stats = append(stats, b.stat(c, scope))
		if i+1 == n.Len() {
			break
		}
		terminal := c.Kind == parsetree.Return || (c.Kind == parsetree.Exit && !inFunc)
		if terminal && flow == nil {
			next := n.Child(i + 1)
			flow = append(flow, diag.Errorf(diag.SemaUnreachableCode, next.Span,
				"unreachable code after %s", describeTerminal(c)))
		}
	}
	return diag.Check(diag.Map(diag.All(stats), func(ss []ast.Stat) ast.Stat {
		return ast.NewSeq(n.Span, scope, ss...)
	}), flow...)
}

func describeTerminal(n *parsetree.Node) string {
	if n.Kind == parsetree.Return {
		return "return"
	}
	return "exit"
}
