// Package parsetree is the read-only concrete syntax tree handed from the
// parser to the semantic builder. A node exposes its kind, its terminal text
// (identifier name, literal text, operator), its span and its children; the
// builder queries it once and never keeps it.
package parsetree

import (
	"fmt"
	"strings"

	"waccc/internal/source"
)

// Kind enumerates the constructs of the concrete syntax.
type Kind uint8

const (
	Invalid Kind = iota

	Program // children: Func..., body Stat
	Func    // children: Type, Ident, ParamList, Stat
	ParamList
	Param // children: Type, Ident

	// types
	BaseType  // Text: int|bool|char|string
	ArrayType // children: element Type
	PairType  // children: fst Type, snd Type
	BarePair  // 'pair' inside a pair type

	// statements
	Skip
	Declare // children: Type, Ident, rhs
	Assign  // children: lhs, rhs
	Read    // children: lhs
	Free    // children: Expr
	Return  // children: Expr
	Exit    // children: Expr
	Print   // children: Expr
	Println // children: Expr
	If      // children: cond, then Stat, [else Stat]
	While   // children: cond, body Stat
	For     // children: init Stat, cond, step Stat, body Stat
	Block   // children: Stat
	Seq     // children: Stat, Stat, ...

	// l-values and r-values
	Ident     // Text: name
	ArrayElem // children: Ident, index Expr...
	PairElem  // Text: fst|snd, children: lhs
	ArrayLit  // children: Expr or ArrayLit...
	NewPair   // children: Expr, Expr
	Call      // children: Ident, ArgList
	ArgList   // children: Expr...

	// expressions
	IntLit  // Text: optional '-' and digits
	BoolLit // Text: true|false
	CharLit // Text: quoted source text
	StrLit  // Text: quoted source text
	PairLit // null
	Unary   // Text: operator, children: Expr
	Binary  // Text: operator, children: Expr, Expr
	Paren   // children: Expr
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	Program:   "Program",
	Func:      "Func",
	ParamList: "ParamList",
	Param:     "Param",
	BaseType:  "BaseType",
	ArrayType: "ArrayType",
	PairType:  "PairType",
	BarePair:  "BarePair",
	Skip:      "Skip",
	Declare:   "Declare",
	Assign:    "Assign",
	Read:      "Read",
	Free:      "Free",
	Return:    "Return",
	Exit:      "Exit",
	Print:     "Print",
	Println:   "Println",
	If:        "If",
	While:     "While",
	For:       "For",
	Block:     "Block",
	Seq:       "Seq",
	Ident:     "Ident",
	ArrayElem: "ArrayElem",
	PairElem:  "PairElem",
	ArrayLit:  "ArrayLit",
	NewPair:   "NewPair",
	Call:      "Call",
	ArgList:   "ArgList",
	IntLit:    "IntLit",
	BoolLit:   "BoolLit",
	CharLit:   "CharLit",
	StrLit:    "StrLit",
	PairLit:   "PairLit",
	Unary:     "Unary",
	Binary:    "Binary",
	Paren:     "Paren",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Node is one construct of the concrete syntax tree.
type Node struct {
	Kind     Kind
	Text     string
	Span     source.Span
	Children []*Node
}

// New builds a node whose span covers span and every child's span. An empty
// span is replaced by the children's cover.
func New(kind Kind, text string, span source.Span, children ...*Node) *Node {
	n := &Node{Kind: kind, Text: text, Span: span, Children: children}
	for _, c := range children {
		if c == nil {
			continue
		}
		if n.Span.Empty() {
			n.Span = c.Span
			continue
		}
		n.Span = n.Span.Cover(c.Span)
	}
	return n
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Len is the number of children.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return len(n.Children)
}

// String renders the tree as an S-expression; used in tests and debugging.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n == nil {
		b.WriteString("nil")
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Kind.String())
	if n.Text != "" {
		b.WriteByte(' ')
		b.WriteString(n.Text)
	}
	for _, c := range n.Children {
		b.WriteByte(' ')
		c.write(b)
	}
	b.WriteByte(')')
}
