package ast

import (
	"waccc/internal/source"
	"waccc/internal/symbols"
	"waccc/internal/types"
)

// Expr is a typed expression.
type Expr interface {
	AssRHS
	exprNode()
}

// AssLHS is an assignable location.
type AssLHS interface {
	Type() *types.Type
	Span() source.Span
	lhsNode()
}

// AssRHS produces the value of a declaration or assignment.
type AssRHS interface {
	Type() *types.Type
	Span() source.Span
	rhsNode()
}

type node struct {
	Pos source.Span
	Typ *types.Type
}

func (n node) Type() *types.Type { return n.Typ }
func (n node) Span() source.Span { return n.Pos }

type exprMarker struct{}

func (exprMarker) exprNode() {}
func (exprMarker) rhsNode()  {}

type IntLit struct {
	node
	exprMarker
	Value int32
}

type BoolLit struct {
	node
	exprMarker
	Value bool
}

type CharLit struct {
	node
	exprMarker
	Value byte
}

type StrLit struct {
	node
	exprMarker
	Value string
}

// PairLit is null; its type is types.AnyPair.
type PairLit struct {
	node
	exprMarker
}

// Ident reads or writes a variable.
type Ident struct {
	node
	exprMarker
	Name string
	Var  symbols.VarID
}

func (*Ident) lhsNode() {}

// ArrayElem indexes an array variable once per index.
type ArrayElem struct {
	node
	exprMarker
	Array   *Ident
	Indices []Expr
}

func (*ArrayElem) lhsNode() {}

type Unary struct {
	node
	exprMarker
	Op      ExprUnaryOp
	Operand Expr
}

type Binary struct {
	node
	exprMarker
	Op          ExprBinaryOp
	Left, Right Expr
}

// PairElem is fst/snd of an assignable pair.
type PairElem struct {
	node
	Snd  bool
	Pair AssLHS
}

func (*PairElem) lhsNode() {}
func (*PairElem) rhsNode() {}

// ArrayLit elements are expressions or nested array literals.
type ArrayLit struct {
	node
	Elems []AssRHS
}

func (*ArrayLit) rhsNode() {}

type NewPair struct {
	node
	Fst, Snd Expr
}

func (*NewPair) rhsNode() {}

type Call struct {
	node
	Func symbols.FuncID
	Name string
	Args []Expr
}

func (*Call) rhsNode() {}

// Constructors keep the embedded node private to this package.

func NewIntLit(pos source.Span, v int32) *IntLit {
	return &IntLit{node: node{pos, types.Int}, Value: v}
}

func NewBoolLit(pos source.Span, v bool) *BoolLit {
	return &BoolLit{node: node{pos, types.Bool}, Value: v}
}

func NewCharLit(pos source.Span, v byte) *CharLit {
	return &CharLit{node: node{pos, types.Char}, Value: v}
}

func NewStrLit(pos source.Span, v string) *StrLit {
	return &StrLit{node: node{pos, types.String}, Value: v}
}

func NewPairLit(pos source.Span) *PairLit {
	return &PairLit{node: node{pos, types.AnyPair}}
}

func NewIdent(pos source.Span, typ *types.Type, name string, v symbols.VarID) *Ident {
	return &Ident{node: node{pos, typ}, Name: name, Var: v}
}

func NewArrayElem(pos source.Span, typ *types.Type, arr *Ident, indices []Expr) *ArrayElem {
	return &ArrayElem{node: node{pos, typ}, Array: arr, Indices: indices}
}

func NewUnary(pos source.Span, typ *types.Type, op ExprUnaryOp, operand Expr) *Unary {
	return &Unary{node: node{pos, typ}, Op: op, Operand: operand}
}

func NewBinary(pos source.Span, typ *types.Type, op ExprBinaryOp, left, right Expr) *Binary {
	return &Binary{node: node{pos, typ}, Op: op, Left: left, Right: right}
}

func NewPairElem(pos source.Span, typ *types.Type, snd bool, pair AssLHS) *PairElem {
	return &PairElem{node: node{pos, typ}, Snd: snd, Pair: pair}
}

func NewArrayLit(pos source.Span, typ *types.Type, elems []AssRHS) *ArrayLit {
	return &ArrayLit{node: node{pos, typ}, Elems: elems}
}

func NewNewPair(pos source.Span, fst, snd Expr) *NewPair {
	return &NewPair{node: node{pos, types.MakePair(fst.Type(), snd.Type())}, Fst: fst, Snd: snd}
}

func NewCall(pos source.Span, typ *types.Type, fn symbols.FuncID, name string, args []Expr) *Call {
	return &Call{node: node{pos, typ}, Func: fn, Name: name, Args: args}
}
