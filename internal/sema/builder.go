// Package sema turns the parse tree into a validated, type-resolved AST.
//
// Every construct validates its own children and merges their diagnostics
// (diag.Map2/Map3/All) instead of stopping at the first problem, so a single
// run reports every independent error. A construct with an invalid child
// yields no node.
package sema

import (
	"waccc/internal/ast"
	"waccc/internal/diag"
	"waccc/internal/parsetree"
	"waccc/internal/source"
	"waccc/internal/symbols"
)

// Options configure a semantic pass.
type Options struct {
	// Table receives the scopes of the program; a fresh one is used when nil.
	Table *symbols.Table
}

// builder holds the per-compilation state; it is not reused.
type builder struct {
	table *symbols.Table
}

// Build validates a whole program tree. Function headers are registered
// before any body is compiled, so functions may call each other in any order.
func Build(tree *parsetree.Node, opts Options) diag.Result[*ast.Prog] {
	if tree == nil || tree.Kind != parsetree.Program {
		diag.Invariantf("sema.Build", "expected a program tree")
	}
	b := &builder{table: opts.Table}
	if b.table == nil {
		b.table = symbols.NewTable()
	}
	return b.program(tree)
}

func (b *builder) program(tree *parsetree.Node) diag.Result[*ast.Prog] {
	funcNodes := tree.Children[:len(tree.Children)-1]
	mainNode := tree.Children[len(tree.Children)-1]

	ids := make([]symbols.FuncID, len(funcNodes))
	headerErrs := make([][]diag.Diagnostic, len(funcNodes))
	for i, fn := range funcNodes {
		ids[i], headerErrs[i] = b.funcHeader(fn)
	}

	funcs := make([]diag.Result[*ast.Func], 0, len(funcNodes))
	for i, fn := range funcNodes {
		if !ids[i].IsValid() {
			funcs = append(funcs, diag.Fail[*ast.Func](headerErrs[i]...))
			continue
		}
		funcs = append(funcs, diag.Check(b.funcBody(fn, ids[i]), headerErrs[i]...))
	}

	body := b.stat(mainNode, b.table.Global)
	return diag.Map2(diag.All(funcs), body, func(fs []*ast.Func, st ast.Stat) *ast.Prog {
		return &ast.Prog{
			Funcs:  fs,
			Body:   st,
			Global: b.table.Global,
			Table:  b.table,
			Pos:    tree.Span,
		}
	})
}

func fail[T any](code diag.Code, sp source.Span, format string, args ...any) diag.Result[T] {
	return diag.Fail[T](diag.Errorf(code, sp, format, args...))
}

// check wraps the common case of a single validation on a valid value.
func check[T any](r diag.Result[T], pred func(T) *diag.Diagnostic) diag.Result[T] {
	if !r.OK() {
		return r
	}
	if d := pred(r.Value()); d != nil {
		return diag.Fail[T](*d)
	}
	return r
}

func errorf(code diag.Code, sp source.Span, format string, args ...any) *diag.Diagnostic {
	d := diag.Errorf(code, sp, format, args...)
	return &d
}
