package ast

import "fmt"

// ExprBinaryOp enumerates binary operators.
type ExprBinaryOp uint8

const (
	ExprBinaryInvalid ExprBinaryOp = iota
	ExprBinaryMul
	ExprBinaryDiv
	ExprBinaryMod
	ExprBinaryAdd
	ExprBinarySub
	ExprBinaryGreater
	ExprBinaryGreaterEq
	ExprBinaryLess
	ExprBinaryLessEq
	ExprBinaryEq
	ExprBinaryNotEq
	ExprBinaryLogicalAnd
	ExprBinaryLogicalOr
)

var binarySymbols = map[string]ExprBinaryOp{
	"*":  ExprBinaryMul,
	"/":  ExprBinaryDiv,
	"%":  ExprBinaryMod,
	"+":  ExprBinaryAdd,
	"-":  ExprBinarySub,
	">":  ExprBinaryGreater,
	">=": ExprBinaryGreaterEq,
	"<":  ExprBinaryLess,
	"<=": ExprBinaryLessEq,
	"==": ExprBinaryEq,
	"!=": ExprBinaryNotEq,
	"&&": ExprBinaryLogicalAnd,
	"||": ExprBinaryLogicalOr,
}

// LookupBinaryOp maps operator text to the operator.
func LookupBinaryOp(text string) (ExprBinaryOp, bool) {
	op, ok := binarySymbols[text]
	return op, ok
}

// String returns the symbol representation of a binary operator.
func (op ExprBinaryOp) String() string {
	for sym, o := range binarySymbols {
		if o == op {
			return sym
		}
	}
	return fmt.Sprintf("ExprBinaryOp(%d)", op)
}

// IsComparison reports operators that produce bool from a CMP.
func (op ExprBinaryOp) IsComparison() bool {
	return op >= ExprBinaryGreater && op <= ExprBinaryNotEq
}

// ExprUnaryOp enumerates unary operators.
type ExprUnaryOp uint8

const (
	ExprUnaryInvalid ExprUnaryOp = iota
	ExprUnaryNot
	ExprUnaryMinus
	ExprUnaryLen
	ExprUnaryOrd
	ExprUnaryChr
)

// LookupUnaryOp maps operator text to the operator.
func LookupUnaryOp(text string) (ExprUnaryOp, bool) {
	switch text {
	case "!":
		return ExprUnaryNot, true
	case "-":
		return ExprUnaryMinus, true
	case "len":
		return ExprUnaryLen, true
	case "ord":
		return ExprUnaryOrd, true
	case "chr":
		return ExprUnaryChr, true
	}
	return ExprUnaryInvalid, false
}

func (op ExprUnaryOp) String() string {
	switch op {
	case ExprUnaryNot:
		return "!"
	case ExprUnaryMinus:
		return "-"
	case ExprUnaryLen:
		return "len"
	case ExprUnaryOrd:
		return "ord"
	case ExprUnaryChr:
		return "chr"
	default:
		return fmt.Sprintf("ExprUnaryOp(%d)", op)
	}
}
