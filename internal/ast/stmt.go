package ast

import (
	"waccc/internal/source"
	"waccc/internal/symbols"
	"waccc/internal/types"
)

// Stat is a statement; Scope is the scope it executes in.
type Stat interface {
	Span() source.Span
	Scope() symbols.ScopeID
	statNode()
}

type stat struct {
	Pos source.Span
	In  symbols.ScopeID
}

func (s stat) Span() source.Span      { return s.Pos }
func (s stat) Scope() symbols.ScopeID { return s.In }
func (stat) statNode()                {}

func at(pos source.Span, in symbols.ScopeID) stat { return stat{Pos: pos, In: in} }

type Skip struct{ stat }

// Declare introduces Var initialised from RHS.
type Declare struct {
	stat
	Var  symbols.VarID
	Name string
	Type *types.Type
	RHS  AssRHS
}

type Assign struct {
	stat
	LHS AssLHS
	RHS AssRHS
}

type Read struct {
	stat
	Target AssLHS
}

type Free struct {
	stat
	Value Expr
}

type Return struct {
	stat
	Value Expr
}

type Exit struct {
	stat
	Code Expr
}

type Print struct {
	stat
	Value   Expr
	Newline bool
}

// Block runs Body in its own scope Inner, a child of the enclosing scope.
type Block struct {
	stat
	Inner symbols.ScopeID
	Body  Stat
}

// If has no Else block when the source omitted 'else'.
type If struct {
	stat
	Cond Expr
	Then *Block
	Else *Block
}

type While struct {
	stat
	Cond Expr
	Body *Block
}

// For declares Init in the Header scope; Cond and Step see it, Body is a
// nested block.
type For struct {
	stat
	Header symbols.ScopeID
	Init   Stat
	Cond   Expr
	Step   Stat
	Body   *Block
}

type Seq struct {
	stat
	Stats []Stat
}

func NewSkip(pos source.Span, in symbols.ScopeID) *Skip { return &Skip{at(pos, in)} }

func NewDeclare(pos source.Span, in symbols.ScopeID, v symbols.VarID, name string, typ *types.Type, rhs AssRHS) *Declare {
	return &Declare{stat: at(pos, in), Var: v, Name: name, Type: typ, RHS: rhs}
}

func NewAssign(pos source.Span, in symbols.ScopeID, lhs AssLHS, rhs AssRHS) *Assign {
	return &Assign{stat: at(pos, in), LHS: lhs, RHS: rhs}
}

func NewRead(pos source.Span, in symbols.ScopeID, target AssLHS) *Read {
	return &Read{stat: at(pos, in), Target: target}
}

func NewFree(pos source.Span, in symbols.ScopeID, v Expr) *Free {
	return &Free{stat: at(pos, in), Value: v}
}

func NewReturn(pos source.Span, in symbols.ScopeID, v Expr) *Return {
	return &Return{stat: at(pos, in), Value: v}
}

func NewExit(pos source.Span, in symbols.ScopeID, code Expr) *Exit {
	return &Exit{stat: at(pos, in), Code: code}
}

func NewPrint(pos source.Span, in symbols.ScopeID, v Expr, newline bool) *Print {
	return &Print{stat: at(pos, in), Value: v, Newline: newline}
}

func NewBlock(pos source.Span, in, inner symbols.ScopeID, body Stat) *Block {
	return &Block{stat: at(pos, in), Inner: inner, Body: body}
}

func NewIf(pos source.Span, in symbols.ScopeID, cond Expr, then, els *Block) *If {
	return &If{stat: at(pos, in), Cond: cond, Then: then, Else: els}
}

func NewWhile(pos source.Span, in symbols.ScopeID, cond Expr, body *Block) *While {
	return &While{stat: at(pos, in), Cond: cond, Body: body}
}

func NewFor(pos source.Span, in, header symbols.ScopeID, init Stat, cond Expr, step Stat, body *Block) *For {
	return &For{stat: at(pos, in), Header: header, Init: init, Cond: cond, Step: step, Body: body}
}

// NewSeq flattens nested sequences.
func NewSeq(pos source.Span, in symbols.ScopeID, stats ...Stat) *Seq {
	seq := &Seq{stat: at(pos, in)}
	for _, s := range stats {
		if inner, ok := s.(*Seq); ok {
			seq.Stats = append(seq.Stats, inner.Stats...)
			continue
		}
		seq.Stats = append(seq.Stats, s)
	}
	return seq
}

// Flatten returns the statements of s in execution order.
func Flatten(s Stat) []Stat {
	if seq, ok := s.(*Seq); ok {
		return seq.Stats
	}
	return []Stat{s}
}
