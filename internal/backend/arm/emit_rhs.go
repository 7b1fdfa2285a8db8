package arm

import (
	"waccc/internal/ast"
	"waccc/internal/diag"
	"waccc/internal/types"
)

// rhs evaluates the right-hand side of a declaration or assignment into
// pool.head().
func (f *fnEmitter) rhs(r ast.AssRHS, pool Regs) {
	switch r := r.(type) {
	case ast.Expr:
		f.expr(r, pool)
	case *ast.ArrayLit:
		f.arrayLit(r, pool)
	case *ast.NewPair:
		f.newPair(r, pool)
	case *ast.PairElem:
		f.lvalueLoad(r, pool)
	case *ast.Call:
		f.callFunc(r, pool)
	default:
		diag.Invariantf("arm.rhs", "unexpected right-hand side %T", r)
	}
}

// malloc allocates size bytes and keeps the pointer in dst.
func (f *fnEmitter) malloc(dst Reg, size int) {
	f.emit(ins("LDR", "r0", lit(size)))
	f.callOut(ins("BL", "malloc"))
	f.emit(ins("MOV", dst.String(), "r0"))
}

// arrayLit builds a length word followed by the elements. Elements that are
// array literals themselves are built first and stored as pointers.
func (f *fnEmitter) arrayLit(a *ast.ArrayLit, pool Regs) {
	if len(pool) < 2 {
		diag.Invariantf("arm.arrayLit", "array literal needs two registers")
	}
	elemSize := 0
	if a.Type().Kind == types.KindArray {
		elemSize = toInt(types.Size(types.Peel(a.Type())))
	}
	arr, tmp := pool.head(), pool[1]
	f.malloc(arr, 4+len(a.Elems)*elemSize)
	for i, el := range a.Elems {
		f.arrayLitElem(el, pool)
		f.storeMem(tmp, arr, 4+i*elemSize, el.Type())
	}
	f.emit(
		ins("LDR", tmp.String(), lit(len(a.Elems))),
		ins("STR", tmp.String(), mem(arr, 0)),
	)
}

// arrayLitElem leaves the value of one element in pool[1] while the array
// being built stays in pool.head(). A nested literal that does not fit the
// remaining registers is built in the whole pool with the outer pointer
// pushed.
func (f *fnEmitter) arrayLitElem(el ast.AssRHS, pool Regs) {
	nested, ok := el.(*ast.ArrayLit)
	if !ok || len(pool.rest()) >= 2 {
		f.rhs(el, pool.rest())
		return
	}
	arr, tmp := pool.head(), pool[1]
	f.pushReg(arr)
	f.arrayLit(nested, pool)
	f.emit(ins("MOV", tmp.String(), arr.String()))
	f.popReg(arr)
}

// newPair allocates both slots of a pair and stores the values inline.
func (f *fnEmitter) newPair(p *ast.NewPair, pool Regs) {
	if len(pool) < 2 {
		diag.Invariantf("arm.newPair", "newpair needs two registers")
	}
	cell, tmp := pool.head(), pool[1]
	f.malloc(cell, 2*pairCellSize)
	f.expr(p.Fst, pool.rest())
	f.storeMem(tmp, cell, 0, p.Fst.Type())
	f.expr(p.Snd, pool.rest())
	f.storeMem(tmp, cell, pairCellSize, p.Snd.Type())
}

// callFunc pushes the arguments left to right, calls the function and pops
// the argument bytes again. sp is aligned at the call.
func (f *fnEmitter) callFunc(c *ast.Call, pool Regs) {
	dst := pool.head()
	size := 0
	for _, arg := range c.Args {
		size += toInt(types.Size(arg.Type()))
	}
	// паддинг кладётся над аргументами, параметры остаются у sp
	pad := alignPad(f.depth, size)
	f.grow(pad)
	pushed := pad
	for _, arg := range c.Args {
		f.expr(arg, pool)
		before := f.depth
		f.pushValue(dst, arg.Type())
		pushed += f.depth - before
	}
	f.emit(ins("BL", funcLabel(c.Name)))
	f.shrink(pushed)
	f.emit(ins("MOV", dst.String(), "r0"))
}

func funcLabel(name string) string { return "f_" + name }
