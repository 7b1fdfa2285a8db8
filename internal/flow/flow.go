// Package flow proves that every control path through a function body ends
// in a return of one consistent type (or an exit) before code generation.
//
// A body is turned into a small graph: sequence, return/exit leaves,
// branches, blocks and loops, all continuing into the code that follows
// them. Every node is resolved once (memoised), so the shared continuation
// of both branches of an if is not re-explored.
package flow

import (
	"waccc/internal/ast"
	"waccc/internal/diag"
	"waccc/internal/source"
	"waccc/internal/types"
)

type nodeKind uint8

const (
	nodeEnd      nodeKind = iota // конец тела функции
	nodeLoopBack                 // возврат к условию цикла
	nodeSeq
	nodeReturn
	nodeExit
	nodeBranch
	nodeBlock
	nodeLoop
)

type node struct {
	kind nodeKind
	span source.Span
	typ  *types.Type // nodeReturn

	next *node
	then *node // nodeBranch
	els  *node // nodeBranch
	body *node // nodeBlock, nodeLoop

	resolved bool
	out      outcome
}

// outcome summarises every path leaving a node. The zero value means "no
// path", the identity of union.
type outcome struct {
	falls    bool // some path reaches the end of the body
	exits    bool
	ret      *types.Type
	retSpan  source.Span
	conflict bool // already reported
}

type checker struct {
	fn       *ast.Func
	end      *node
	loopBack *node
	returns  []*node
	diags    []diag.Diagnostic
}

// CheckProg checks every function of prog; main has no declared return type
// and is not checked.
func CheckProg(prog *ast.Prog) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, fn := range prog.Funcs {
		out = append(out, CheckFunc(fn)...)
	}
	return out
}

// CheckFunc validates the return paths of one function against its declared
// return type.
func CheckFunc(fn *ast.Func) []diag.Diagnostic {
	c := &checker{
		fn:       fn,
		end:      &node{kind: nodeEnd},
		loopBack: &node{kind: nodeLoopBack},
	}
	head := c.block(fn.Body, c.end)
	out := c.resolve(head)
	switch {
	case out.conflict:
	case out.falls:
		c.diags = append(c.diags, diag.Errorf(diag.SemaMissingReturn, fn.Pos,
			"function '%s' does not return a value on every path", fn.Name))
	default:
		for _, r := range c.returns {
			if !types.Matches(fn.Return, r.typ) {
				c.diags = append(c.diags, diag.Errorf(diag.SemaReturnTypeMismatch, r.span,
					"function '%s' is declared to return %s but returns %s", fn.Name, fn.Return, r.typ))
			}
		}
	}
	return c.diags
}

func (c *checker) graph(stats []ast.Stat, next *node) *node {
	for i := len(stats) - 1; i >= 0; i-- {
		next = c.stat(stats[i], next)
	}
	return next
}

func (c *checker) stat(s ast.Stat, next *node) *node {
	switch s := s.(type) {
	case *ast.Return:
		n := &node{kind: nodeReturn, span: s.Span(), typ: s.Value.Type()}
		c.returns = append(c.returns, n)
		return n
	case *ast.Exit:
		return &node{kind: nodeExit, span: s.Span()}
	case *ast.If:
		els := next
		if s.Else != nil {
			els = c.block(s.Else, next)
		}
		return &node{kind: nodeBranch, span: s.Span(), then: c.block(s.Then, next), els: els, next: next}
	case *ast.Block:
		return c.block(s, next)
	case *ast.While:
		return &node{kind: nodeLoop, span: s.Span(), body: c.block(s.Body, c.loopBack), next: next}
	case *ast.For:
		step := c.stat(s.Step, c.loopBack)
		loop := &node{kind: nodeLoop, span: s.Span(), body: c.block(s.Body, step), next: next}
		return c.stat(s.Init, loop)
	case *ast.Seq:
		return c.graph(s.Stats, next)
	}
	return &node{kind: nodeSeq, span: s.Span(), next: next}
}

func (c *checker) block(b *ast.Block, next *node) *node {
	return &node{kind: nodeBlock, span: b.Span(), body: c.graph(ast.Flatten(b.Body), next), next: next}
}

func (c *checker) resolve(n *node) outcome {
	if n.resolved {
		return n.out
	}
	var out outcome
	switch n.kind {
	case nodeEnd:
		out = outcome{falls: true}
	case nodeLoopBack:
		// путь продолжается в условие цикла, его учитывает сам цикл
	case nodeSeq:
		out = c.resolve(n.next)
	case nodeReturn:
		out = outcome{ret: n.typ, retSpan: n.span}
	case nodeExit:
		out = outcome{exits: true}
	case nodeBranch:
		out = c.union(c.resolve(n.then), c.resolve(n.els))
	case nodeBlock:
		out = c.resolve(n.body)
	case nodeLoop:
		// тело может не выполниться ни разу
		out = c.union(c.resolve(n.body), c.resolve(n.next))
	}
	n.resolved = true
	n.out = out
	return out
}

// union merges the outcomes of two alternative paths. Two returns must
// agree; an exit agrees with anything.
func (c *checker) union(a, b outcome) outcome {
	out := outcome{
		falls:    a.falls || b.falls,
		exits:    a.exits || b.exits,
		conflict: a.conflict || b.conflict,
		ret:      a.ret,
		retSpan:  a.retSpan,
	}
	switch {
	case a.ret == nil:
		out.ret, out.retSpan = b.ret, b.retSpan
	case b.ret == nil:
	case !types.Matches(a.ret, b.ret) && !types.Matches(b.ret, a.ret):
		if !out.conflict {
			c.diags = append(c.diags, diag.Errorf(diag.SemaInconsistentReturn, b.retSpan,
				"function '%s' returns %s here but %s on another path", c.fn.Name, b.ret, a.ret).
				WithNote(a.retSpan, "other return is here"))
		}
		out.conflict = true
	case a.ret.Kind == types.KindAnyPair:
		out.ret, out.retSpan = b.ret, b.retSpan
	}
	return out
}
