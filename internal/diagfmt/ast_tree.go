package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"waccc/internal/ast"
	"waccc/internal/symbols"
)

type treeNode struct {
	label    string
	children []*treeNode
}

func leaf(format string, args ...any) *treeNode {
	return &treeNode{label: fmt.Sprintf(format, args...)}
}

func (n *treeNode) add(children ...*treeNode) *treeNode {
	n.children = append(n.children, children...)
	return n
}

// FormatAST prints the validated program as an indented tree: functions with
// their frames first, then the main statement. Every expression carries its
// type.
func FormatAST(w io.Writer, prog *ast.Prog) error {
	root := leaf("Program (global frame: %d bytes)", prog.Table.Scope(prog.Global).Footprint)
	for _, fn := range prog.Funcs {
		root.add(buildFuncTreeNode(prog.Table, fn))
	}
	root.add((&treeNode{label: "Main"}).add(buildStmtTreeNodes(prog.Table, prog.Body)...))

	var sb strings.Builder
	sb.WriteString(root.label)
	sb.WriteByte('\n')
	writeTreeChildren(&sb, root, "")
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeTreeChildren(sb *strings.Builder, n *treeNode, prefix string) {
	for i, child := range n.children {
		marker, next := "├─ ", "│  "
		if i == len(n.children)-1 {
			marker, next = "└─ ", "   "
		}
		sb.WriteString(prefix + marker + child.label + "\n")
		writeTreeChildren(sb, child, prefix+next)
	}
}

func buildFuncTreeNode(table *symbols.Table, fn *ast.Func) *treeNode {
	params := make([]string, len(fn.Params))
	for i, id := range fn.Params {
		v := table.Var(id)
		params[i] = fmt.Sprintf("%s %s", v.Type, v.Name)
	}
	node := leaf("Func %s(%s) %s (params: %d bytes)", fn.Name, strings.Join(params, ", "), fn.Return, table.Scope(fn.Scope).Footprint)
	return node.add(buildStmtTreeNodes(table, fn.Body.Body)...)
}

// buildStmtTreeNodes flattens sequences so that a block lists its statements
// directly.
func buildStmtTreeNodes(table *symbols.Table, s ast.Stat) []*treeNode {
	stats := ast.Flatten(s)
	out := make([]*treeNode, 0, len(stats))
	for _, st := range stats {
		out = append(out, buildStmtTreeNode(table, st))
	}
	return out
}

func buildStmtTreeNode(table *symbols.Table, s ast.Stat) *treeNode {
	switch s := s.(type) {
	case *ast.Skip:
		return leaf("Skip")
	case *ast.Declare:
		return leaf("Declare %s %s", s.Type, s.Name).add(buildRHSTreeNode(s.RHS))
	case *ast.Assign:
		return leaf("Assign").add(buildRHSTreeNode(s.LHS.(ast.AssRHS)), buildRHSTreeNode(s.RHS))
	case *ast.Read:
		return leaf("Read").add(buildRHSTreeNode(s.Target.(ast.AssRHS)))
	case *ast.Free:
		return leaf("Free").add(buildExprTreeNode(s.Value))
	case *ast.Return:
		return leaf("Return").add(buildExprTreeNode(s.Value))
	case *ast.Exit:
		return leaf("Exit").add(buildExprTreeNode(s.Code))
	case *ast.Print:
		name := "Print"
		if s.Newline {
			name = "Println"
		}
		return leaf("%s", name).add(buildExprTreeNode(s.Value))
	case *ast.Block:
		return buildBlockTreeNode(table, "Block", s)
	case *ast.If:
		node := leaf("If").add(
			leaf("Cond").add(buildExprTreeNode(s.Cond)),
			buildBlockTreeNode(table, "Then", s.Then),
		)
		if s.Else != nil {
			node.add(buildBlockTreeNode(table, "Else", s.Else))
		}
		return node
	case *ast.While:
		return leaf("While").add(
			leaf("Cond").add(buildExprTreeNode(s.Cond)),
			buildBlockTreeNode(table, "Body", s.Body),
		)
	case *ast.For:
		return leaf("For (header frame: %d bytes)", table.Scope(s.Header).Footprint).add(
			leaf("Init").add(buildStmtTreeNodes(table, s.Init)...),
			leaf("Cond").add(buildExprTreeNode(s.Cond)),
			leaf("Step").add(buildStmtTreeNodes(table, s.Step)...),
			buildBlockTreeNode(table, "Body", s.Body),
		)
	case *ast.Seq:
		return leaf("Seq").add(buildStmtTreeNodes(table, s)...)
	default:
		return leaf("<unknown statement %T>", s)
	}
}

func buildBlockTreeNode(table *symbols.Table, name string, b *ast.Block) *treeNode {
	return leaf("%s (frame: %d bytes)", name, table.Scope(b.Inner).Footprint).add(buildStmtTreeNodes(table, b.Body)...)
}

func buildRHSTreeNode(r ast.AssRHS) *treeNode {
	switch r := r.(type) {
	case ast.Expr:
		return buildExprTreeNode(r)
	case *ast.ArrayLit:
		node := leaf("ArrayLit : %s", r.Type())
		for _, el := range r.Elems {
			node.add(buildRHSTreeNode(el))
		}
		return node
	case *ast.NewPair:
		return leaf("NewPair : %s", r.Type()).add(buildExprTreeNode(r.Fst), buildExprTreeNode(r.Snd))
	case *ast.PairElem:
		which := "fst"
		if r.Snd {
			which = "snd"
		}
		return leaf("PairElem %s : %s", which, r.Type()).add(buildRHSTreeNode(r.Pair.(ast.AssRHS)))
	case *ast.Call:
		node := leaf("Call %s : %s", r.Name, r.Type())
		for _, a := range r.Args {
			node.add(buildExprTreeNode(a))
		}
		return node
	default:
		return leaf("<unknown rhs %T>", r)
	}
}

func buildExprTreeNode(e ast.Expr) *treeNode {
	switch e := e.(type) {
	case *ast.IntLit:
		return leaf("IntLit %d : int", e.Value)
	case *ast.BoolLit:
		return leaf("BoolLit %t : bool", e.Value)
	case *ast.CharLit:
		return leaf("CharLit %s : char", strconv.QuoteRune(rune(e.Value)))
	case *ast.StrLit:
		return leaf("StrLit %s : string", strconv.Quote(e.Value))
	case *ast.PairLit:
		return leaf("PairLit null : pair")
	case *ast.Ident:
		return leaf("Ident %s : %s", e.Name, e.Type())
	case *ast.ArrayElem:
		node := leaf("ArrayElem %s : %s", e.Array.Name, e.Type())
		for _, idx := range e.Indices {
			node.add(buildExprTreeNode(idx))
		}
		return node
	case *ast.Unary:
		return leaf("Unary %s : %s", e.Op, e.Type()).add(buildExprTreeNode(e.Operand))
	case *ast.Binary:
		return leaf("Binary %s : %s", e.Op, e.Type()).add(buildExprTreeNode(e.Left), buildExprTreeNode(e.Right))
	default:
		return leaf("<unknown expression %T>", e)
	}
}
