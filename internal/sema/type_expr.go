package sema

import (
	"strconv"

	"fortio.org/safecast"

	"waccc/internal/ast"
	"waccc/internal/diag"
	"waccc/internal/lexer"
	"waccc/internal/parsetree"
	"waccc/internal/symbols"
	"waccc/internal/types"
)

func (b *builder) expr(n *parsetree.Node, scope symbols.ScopeID) diag.Result[ast.Expr] {
	switch n.Kind {
	case parsetree.IntLit:
		return b.intLit(n)
	case parsetree.BoolLit:
		return diag.Ok[ast.Expr](ast.NewBoolLit(n.Span, n.Text == "true"))
	case parsetree.CharLit:
		c, err := lexer.UnquoteChar(n.Text)
		if err != nil {
			diag.Invariantf("sema.expr", "lexer accepted bad char literal %s: %v", n.Text, err)
		}
		return diag.Ok[ast.Expr](ast.NewCharLit(n.Span, c))
	case parsetree.StrLit:
		s, err := lexer.UnquoteString(n.Text)
		if err != nil {
			diag.Invariantf("sema.expr", "lexer accepted bad string literal %s: %v", n.Text, err)
		}
		return diag.Ok[ast.Expr](ast.NewStrLit(n.Span, s))
	case parsetree.PairLit:
		return diag.Ok[ast.Expr](ast.NewPairLit(n.Span))
	case parsetree.Ident:
		return diag.Map(b.ident(n, scope), func(id *ast.Ident) ast.Expr { return id })
	case parsetree.ArrayElem:
		return diag.Map(b.arrayElem(n, scope), func(e *ast.ArrayElem) ast.Expr { return e })
	case parsetree.Paren:
		return b.expr(n.Child(0), scope)
	case parsetree.Unary:
		return b.unary(n, scope)
	case parsetree.Binary:
		return b.binary(n, scope)
	}
	diag.Invariantf("sema.expr", "unexpected expression node %s", n.Kind)
	return diag.Result[ast.Expr]{}
}

// intLit checks the literal against the int32 range; this is independent of
// any runtime overflow check on the surrounding arithmetic.
func (b *builder) intLit(n *parsetree.Node) diag.Result[ast.Expr] {
	v, err := strconv.ParseInt(n.Text, 10, 64)
	if err == nil {
		var narrow int32
		if narrow, err = safecast.Conv[int32](v); err == nil {
			return diag.Ok[ast.Expr](ast.NewIntLit(n.Span, narrow))
		}
	}
	return fail[ast.Expr](diag.SemaIntLiteralOutOfRange, n.Span,
		"integer literal %s does not fit in a 32-bit int", n.Text)
}

func (b *builder) ident(n *parsetree.Node, scope symbols.ScopeID) diag.Result[*ast.Ident] {
	id, ok := b.table.Lookup(scope, n.Text)
	if !ok {
		return fail[*ast.Ident](diag.SemaUndefinedIdent, n.Span, "undefined identifier '%s'", n.Text)
	}
	return diag.Ok(ast.NewIdent(n.Span, b.table.Var(id).Type, n.Text, id))
}

// arrayElem: every index must be an int and there may be no more indices
// than the array has dimensions.
func (b *builder) arrayElem(n *parsetree.Node, scope symbols.ScopeID) diag.Result[*ast.ArrayElem] {
	arr := b.ident(n.Child(0), scope)
	idxNodes := n.Children[1:]
	indices := make([]diag.Result[ast.Expr], len(idxNodes))
	for i, idx := range idxNodes {
		indices[i] = b.expectType(b.expr(idx, scope), types.Int, "array index")
	}
	return diag.Bind2(arr, diag.All(indices), func(id *ast.Ident, idx []ast.Expr) diag.Result[*ast.ArrayElem] {
		t := id.Type()
		if t.Kind != types.KindArray {
			return fail[*ast.ArrayElem](diag.SemaIllegalArrayAccess, n.Span,
				"cannot index '%s' of type %s", id.Name, t)
		}
		depth, err := safecast.Conv[uint32](len(idx))
		if err != nil || depth > t.Depth {
			return fail[*ast.ArrayElem](diag.SemaIllegalArrayAccess, n.Span,
				"'%s' of type %s indexed %d times", id.Name, t, len(idx))
		}
		return diag.Ok(ast.NewArrayElem(n.Span, types.Nested(t, depth), id, idx))
	})
}

func (b *builder) unary(n *parsetree.Node, scope symbols.ScopeID) diag.Result[ast.Expr] {
	op, ok := ast.LookupUnaryOp(n.Text)
	if !ok {
		diag.Invariantf("sema.unary", "unknown unary operator %q", n.Text)
	}
	spec, _ := UnarySpecFor(op)
	return diag.Bind(b.expr(n.Child(0), scope), func(operand ast.Expr) diag.Result[ast.Expr] {
		if !spec.Operand.accepts(operand.Type()) {
			return fail[ast.Expr](diag.SemaInvalidOperand, operand.Span(),
				"operator %s expects %s, got %s", op, spec.Operand, operand.Type())
		}
		return diag.Ok[ast.Expr](ast.NewUnary(n.Span, spec.Result, op, operand))
	})
}

func (b *builder) binary(n *parsetree.Node, scope symbols.ScopeID) diag.Result[ast.Expr] {
	op, ok := ast.LookupBinaryOp(n.Text)
	if !ok {
		diag.Invariantf("sema.binary", "unknown binary operator %q", n.Text)
	}
	spec, _ := BinarySpecFor(op)
	left := b.operand(b.expr(n.Child(0), scope), op, spec)
	right := b.operand(b.expr(n.Child(1), scope), op, spec)
	return diag.Bind2(left, right, func(l, r ast.Expr) diag.Result[ast.Expr] {
		if spec.Flags&BinaryFlagSameType != 0 &&
			!types.Matches(l.Type(), r.Type()) && !types.Matches(r.Type(), l.Type()) {
			return fail[ast.Expr](diag.SemaTypeMismatch, n.Span,
				"operands of %s have different types %s and %s", op, l.Type(), r.Type())
		}
		return diag.Ok[ast.Expr](ast.NewBinary(n.Span, spec.Result, op, l, r))
	})
}

// operand validates one side of a binary operator on its own, so a bad left
// operand does not hide a bad right one.
func (b *builder) operand(r diag.Result[ast.Expr], op ast.ExprBinaryOp, spec BinarySpec) diag.Result[ast.Expr] {
	return check(r, func(e ast.Expr) *diag.Diagnostic {
		if spec.Operands.accepts(e.Type()) {
			return nil
		}
		return errorf(diag.SemaInvalidOperand, e.Span(),
			"operator %s expects %s operands, got %s", op, spec.Operands, e.Type())
	})
}

// expectType requires a valid expression to match want.
func (b *builder) expectType(r diag.Result[ast.Expr], want *types.Type, what string) diag.Result[ast.Expr] {
	return check(r, func(e ast.Expr) *diag.Diagnostic {
		if types.Matches(want, e.Type()) {
			return nil
		}
		return errorf(diag.SemaTypeMismatch, e.Span(), "%s must be %s, got %s", what, want, e.Type())
	})
}
