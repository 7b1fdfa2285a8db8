package arm

import (
	"waccc/internal/ast"
	"waccc/internal/diag"
	"waccc/internal/types"
)

// Weight is the number of pool registers expr needs to be evaluated without
// spilling to the stack.
func Weight(expr ast.Expr) int {
	switch e := expr.(type) {
	case *ast.ArrayElem:
		w := 0
		for _, idx := range e.Indices {
			w = max(w, Weight(idx))
		}
		return 1 + w
	case *ast.Unary:
		return Weight(e.Operand)
	case *ast.Binary:
		l, r := Weight(e.Left), Weight(e.Right)
		return min(max(l+1, r), max(l, r+1))
	default:
		return 1
	}
}

// expr evaluates e into pool.head().
func (f *fnEmitter) expr(e ast.Expr, pool Regs) {
	if len(pool) == 0 {
		diag.Invariantf("arm.expr", "empty register pool")
	}
	dst := pool.head()
	switch e := e.(type) {
	case *ast.IntLit:
		f.emit(ins("LDR", dst.String(), lit(int(e.Value))))
	case *ast.BoolLit:
		v := 0
		if e.Value {
			v = 1
		}
		f.emit(ins("MOV", dst.String(), imm(v)))
	case *ast.CharLit:
		f.emit(ins("MOV", dst.String(), imm(int(e.Value))))
	case *ast.StrLit:
		f.emit(ins("LDR", dst.String(), sym(f.e.stringConst(e.Value))))
	case *ast.PairLit:
		f.emit(ins("LDR", dst.String(), lit(0)))
	case *ast.Ident:
		f.loadVar(dst, e.Var)
	case *ast.ArrayElem:
		f.elemAddr(e, pool)
		f.loadMem(dst, dst, 0, e.Type())
	case *ast.Unary:
		f.unary(e, pool)
	case *ast.Binary:
		f.binary(e, pool)
	default:
		diag.Invariantf("arm.expr", "unexpected expression %T", e)
	}
}

// elemAddr leaves the address of an array element in pool.head(). Every
// dimension is bounds-checked before it is dereferenced.
func (f *fnEmitter) elemAddr(e *ast.ArrayElem, pool Regs) {
	arr := pool.head()
	f.loadVar(arr, e.Array.Var)
	arrType := e.Array.Type()
	for i, idx := range e.Indices {
		index := f.index(idx, pool)
		f.emit(
			ins("MOV", "r0", index.String()),
			ins("MOV", "r1", arr.String()),
		)
		f.call(CheckArrayBounds)
		f.emit(ins("ADD", arr.String(), arr.String(), imm(4)))
		elem := types.Nested(arrType, uint32(i+1)) //nolint:gosec // indices are bounded by the array depth
		if types.Size(elem) == 4 {
			f.emit(ins("ADD", arr.String(), arr.String(), lsl(index, 2)))
		} else {
			f.emit(ins("ADD", arr.String(), arr.String(), index.String()))
		}
		if i < len(e.Indices)-1 {
			f.emit(ins("LDR", arr.String(), mem(arr, 0)))
		}
	}
}

// index evaluates an index while the array pointer stays in pool.head(),
// spilling the pointer when no other register is free.
func (f *fnEmitter) index(idx ast.Expr, pool Regs) Reg {
	if len(pool) >= 2 {
		f.expr(idx, pool.rest())
		return pool[1]
	}
	arr := pool.head()
	f.pushReg(arr)
	f.expr(idx, pool)
	f.emit(ins("MOV", Scratch.String(), arr.String()))
	f.popReg(arr)
	return Scratch
}

func (f *fnEmitter) unary(e *ast.Unary, pool Regs) {
	f.expr(e.Operand, pool)
	dst := pool.head().String()
	switch e.Op {
	case ast.ExprUnaryNot:
		f.emit(ins("EOR", dst, dst, imm(1)))
	case ast.ExprUnaryMinus:
		f.emit(ins("RSBS", dst, dst, imm(0)))
		f.callCond("BLVS", ThrowOverflowError)
	case ast.ExprUnaryLen:
		f.emit(ins("LDR", dst, "["+dst+"]"))
	case ast.ExprUnaryOrd, ast.ExprUnaryChr:
		// int и char уже лежат в регистре одинаково
	default:
		diag.Invariantf("arm.unary", "unexpected operator %s", e.Op)
	}
}

func (f *fnEmitter) binary(e *ast.Binary, pool Regs) {
	dst := pool.head()
	var l, r Reg
	switch {
	case len(pool) >= 2 && Weight(e.Left) >= Weight(e.Right):
		f.expr(e.Left, pool)
		f.expr(e.Right, pool.rest())
		l, r = pool[0], pool[1]
	case len(pool) >= 2:
		f.expr(e.Right, pool)
		f.expr(e.Left, pool.rest())
		l, r = pool[1], pool[0]
	default:
		f.expr(e.Right, pool)
		f.pushReg(dst)
		f.expr(e.Left, pool)
		f.popReg(Scratch)
		l, r = dst, Scratch
	}
	f.apply(e.Op, dst, l, r)
}

var compareConds = map[ast.ExprBinaryOp][2]string{
	ast.ExprBinaryGreater:   {"GT", "LE"},
	ast.ExprBinaryGreaterEq: {"GE", "LT"},
	ast.ExprBinaryLess:      {"LT", "GE"},
	ast.ExprBinaryLessEq:    {"LE", "GT"},
	ast.ExprBinaryEq:        {"EQ", "NE"},
	ast.ExprBinaryNotEq:     {"NE", "EQ"},
}

// apply computes dst = l op r.
func (f *fnEmitter) apply(op ast.ExprBinaryOp, dst, l, r Reg) {
	d, a, b := dst.String(), l.String(), r.String()
	switch op {
	case ast.ExprBinaryAdd:
		f.emit(ins("ADDS", d, a, b))
		f.callCond("BLVS", ThrowOverflowError)
	case ast.ExprBinarySub:
		f.emit(ins("SUBS", d, a, b))
		f.callCond("BLVS", ThrowOverflowError)
	case ast.ExprBinaryMul:
		hi := r
		if hi == dst {
			hi = l
		}
		f.emit(
			ins("SMULL", d, hi.String(), a, b),
			ins("CMP", hi.String(), asr(dst, 31)),
		)
		f.callCond("BLNE", ThrowOverflowError)
	case ast.ExprBinaryDiv, ast.ExprBinaryMod:
		f.emit(
			ins("MOV", "r0", a),
			ins("MOV", "r1", b),
		)
		f.call(CheckDivideByZero)
		if op == ast.ExprBinaryDiv {
			f.callOut(ins("BL", "__aeabi_idiv"))
			f.emit(ins("MOV", d, "r0"))
		} else {
			f.callOut(ins("BL", "__aeabi_idivmod"))
			f.emit(ins("MOV", d, "r1"))
		}
	case ast.ExprBinaryLogicalAnd:
		f.emit(ins("AND", d, a, b))
	case ast.ExprBinaryLogicalOr:
		f.emit(ins("ORR", d, a, b))
	default:
		conds, ok := compareConds[op]
		if !ok {
			diag.Invariantf("arm.apply", "unexpected operator %s", op)
		}
		f.emit(
			ins("CMP", a, b),
			ins("MOV"+conds[0], d, imm(1)),
			ins("MOV"+conds[1], d, imm(0)),
		)
	}
}

// callCond emits a conditional branch-with-link to a runtime routine.
func (f *fnEmitter) callCond(op string, r Routine) {
	f.e.rt.use(r)
	f.callOut(ins(op, r.Name()))
}
