package sema

import (
	"waccc/internal/ast"
	"waccc/internal/types"
)

// FamilyMask describes broad categories of types an operator accepts.
type FamilyMask uint8

const (
	FamilyNone FamilyMask = 0
	FamilyInt  FamilyMask = 1 << iota
	FamilyBool
	FamilyChar
	FamilyArray
	FamilyAny
)

func familyOf(t *types.Type) FamilyMask {
	switch t.Kind {
	case types.KindInt:
		return FamilyInt
	case types.KindBool:
		return FamilyBool
	case types.KindChar:
		return FamilyChar
	case types.KindArray, types.KindEmptyArray:
		return FamilyArray
	}
	return FamilyNone
}

func (m FamilyMask) accepts(t *types.Type) bool {
	return m&FamilyAny != 0 || m&familyOf(t) != 0
}

func (m FamilyMask) String() string {
	switch m {
	case FamilyInt:
		return "int"
	case FamilyBool:
		return "bool"
	case FamilyChar:
		return "char"
	case FamilyArray:
		return "an array"
	case FamilyInt | FamilyChar:
		return "int or char"
	}
	return "any type"
}

// BinaryFlags annotate special handling for binary operators.
type BinaryFlags uint8

const (
	BinaryFlagNone BinaryFlags = 0
	// operands must have matching types
	BinaryFlagSameType BinaryFlags = 1 << iota
)

// BinarySpec lists operand families and the result type of an operator.
type BinarySpec struct {
	Operands FamilyMask
	Result   *types.Type
	Flags    BinaryFlags
}

// UnarySpec describes operand expectations for unary operators.
type UnarySpec struct {
	Operand FamilyMask
	Result  *types.Type
}

var binarySpecTable = map[ast.ExprBinaryOp]BinarySpec{
	ast.ExprBinaryMul:        {Operands: FamilyInt, Result: types.Int},
	ast.ExprBinaryDiv:        {Operands: FamilyInt, Result: types.Int},
	ast.ExprBinaryMod:        {Operands: FamilyInt, Result: types.Int},
	ast.ExprBinaryAdd:        {Operands: FamilyInt, Result: types.Int},
	ast.ExprBinarySub:        {Operands: FamilyInt, Result: types.Int},
	ast.ExprBinaryGreater:    {Operands: FamilyInt | FamilyChar, Result: types.Bool, Flags: BinaryFlagSameType},
	ast.ExprBinaryGreaterEq:  {Operands: FamilyInt | FamilyChar, Result: types.Bool, Flags: BinaryFlagSameType},
	ast.ExprBinaryLess:       {Operands: FamilyInt | FamilyChar, Result: types.Bool, Flags: BinaryFlagSameType},
	ast.ExprBinaryLessEq:     {Operands: FamilyInt | FamilyChar, Result: types.Bool, Flags: BinaryFlagSameType},
	ast.ExprBinaryEq:         {Operands: FamilyAny, Result: types.Bool, Flags: BinaryFlagSameType},
	ast.ExprBinaryNotEq:      {Operands: FamilyAny, Result: types.Bool, Flags: BinaryFlagSameType},
	ast.ExprBinaryLogicalAnd: {Operands: FamilyBool, Result: types.Bool},
	ast.ExprBinaryLogicalOr:  {Operands: FamilyBool, Result: types.Bool},
}

var unarySpecTable = map[ast.ExprUnaryOp]UnarySpec{
	ast.ExprUnaryNot:   {Operand: FamilyBool, Result: types.Bool},
	ast.ExprUnaryMinus: {Operand: FamilyInt, Result: types.Int},
	ast.ExprUnaryLen:   {Operand: FamilyArray, Result: types.Int},
	ast.ExprUnaryOrd:   {Operand: FamilyChar, Result: types.Int},
	ast.ExprUnaryChr:   {Operand: FamilyInt, Result: types.Char},
}

// BinarySpecFor returns the typing rule of op.
func BinarySpecFor(op ast.ExprBinaryOp) (BinarySpec, bool) {
	spec, ok := binarySpecTable[op]
	return spec, ok
}

// UnarySpecFor returns the typing rule of op.
func UnarySpecFor(op ast.ExprUnaryOp) (UnarySpec, bool) {
	spec, ok := unarySpecTable[op]
	return spec, ok
}
