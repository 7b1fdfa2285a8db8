package sema

import (
	"waccc/internal/ast"
	"waccc/internal/diag"
	"waccc/internal/parsetree"
	"waccc/internal/symbols"
)

// funcHeader registers the signature and binds the parameters in the new
// function scope. A duplicated function yields NoFuncID and gets no body;
// duplicate parameters are reported but the body is still compiled.
func (b *builder) funcHeader(n *parsetree.Node) (symbols.FuncID, []diag.Diagnostic) {
	ret := resolveType(n.Child(0))
	name := n.Child(1)
	id, ok := b.table.DeclareFunc(name.Text, ret, name.Span)
	if !ok {
		prev := b.table.Func(id)
		return symbols.NoFuncID, []diag.Diagnostic{diag.Errorf(diag.SemaDuplicateFunction, name.Span,
			"function '%s' is already defined", name.Text).
			WithNote(prev.Span, "previous definition is here")}
	}
	var errs []diag.Diagnostic
	for _, p := range n.Child(2).Children {
		pname := p.Child(1)
		if _, ok := b.table.BindParam(id, pname.Text, resolveType(p.Child(0)), pname.Span); !ok {
			errs = append(errs, diag.Errorf(diag.SemaDuplicateParam, pname.Span,
				"duplicate parameter '%s' in function '%s'", pname.Text, name.Text))
		}
	}
	return id, errs
}

// funcBody compiles the body in a block nested in the function scope, so
// locals may shadow parameters.
func (b *builder) funcBody(n *parsetree.Node, id symbols.FuncID) diag.Result[*ast.Func] {
	fn := b.table.Func(id)
	return diag.Map(b.block(n.Child(3), fn.Scope), func(body *ast.Block) *ast.Func {
		return &ast.Func{
			ID:     id,
			Name:   fn.Name,
			Return: fn.Return,
			Params: fn.Params,
			Scope:  fn.Scope,
			Body:   body,
			Pos:    n.Span,
		}
	})
}
