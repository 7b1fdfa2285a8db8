package arm

import (
	"waccc/internal/ast"
	"waccc/internal/diag"
	"waccc/internal/symbols"
	"waccc/internal/types"
)

func (f *fnEmitter) stat(s ast.Stat) {
	switch s := s.(type) {
	case *ast.Skip:
	case *ast.Seq:
		for _, inner := range s.Stats {
			f.stat(inner)
		}
	case *ast.Declare:
		f.rhs(s.RHS, FullPool)
		f.storeVar(FullPool.head(), s.Var)
	case *ast.Assign:
		f.rhs(s.RHS, FullPool)
		f.assign(s.LHS, FullPool.head(), FullPool.rest())
	case *ast.Read:
		f.read(s)
	case *ast.Free:
		f.free(s)
	case *ast.Return:
		f.ret(s)
	case *ast.Exit:
		f.expr(s.Code, FullPool)
		f.emit(ins("MOV", "r0", FullPool.head().String()))
		f.callOut(ins("BL", "exit"))
	case *ast.Print:
		f.print(s)
	case *ast.Block:
		f.block(s)
	case *ast.If:
		f.ifStat(s)
	case *ast.While:
		f.whileStat(s)
	case *ast.For:
		f.forStat(s)
	default:
		diag.Invariantf("arm.stat", "unexpected statement %T", s)
	}
}

func (f *fnEmitter) block(b *ast.Block) {
	f.enter(b.Inner)
	f.stat(b.Body)
	f.leave(b.Inner)
}

// assign stores value into target; the target address is computed in pool.
func (f *fnEmitter) assign(target ast.AssLHS, value Reg, pool Regs) {
	switch t := target.(type) {
	case *ast.Ident:
		f.storeVar(value, t.Var)
	default:
		f.lvalueAddr(target, pool)
		f.storeMem(value, pool.head(), 0, target.Type())
	}
}

// lvalueAddr leaves the address of an assignable location in pool.head().
func (f *fnEmitter) lvalueAddr(target ast.AssLHS, pool Regs) {
	switch t := target.(type) {
	case *ast.Ident:
		f.addrOfVar(pool.head(), t.Var)
	case *ast.ArrayElem:
		f.elemAddr(t, pool)
	case *ast.PairElem:
		f.pairElemAddr(t, pool)
	default:
		diag.Invariantf("arm.lvalue", "unexpected target %T", target)
	}
}

// lvalueLoad reads the current value of an assignable location.
func (f *fnEmitter) lvalueLoad(target ast.AssLHS, pool Regs) {
	switch t := target.(type) {
	case *ast.Ident:
		f.loadVar(pool.head(), t.Var)
	default:
		f.lvalueAddr(target, pool)
		f.loadMem(pool.head(), pool.head(), 0, target.Type())
	}
}

// pairElemAddr null-checks the pair and addresses its fst or snd cell.
func (f *fnEmitter) pairElemAddr(e *ast.PairElem, pool Regs) {
	dst := pool.head()
	f.lvalueLoad(e.Pair, pool)
	f.emit(ins("MOV", "r0", dst.String()))
	f.call(CheckNullPointer)
	if e.Snd {
		f.emit(ins("ADD", dst.String(), dst.String(), imm(pairCellSize)))
	}
}

// pairCellSize is the size of one pair slot; a pair is two slots on the heap.
const pairCellSize = 4

func (f *fnEmitter) read(s *ast.Read) {
	var r Routine
	switch t := s.Target.Type(); {
	case t.Kind == types.KindInt:
		r = ReadInt
	case t.Kind == types.KindChar:
		r = ReadChar
	case t.Kind == types.KindString || t.IsCharArray():
		r = ReadString
	default:
		diag.Invariantf("arm.read", "cannot read into %s", t)
	}
	f.lvalueAddr(s.Target, FullPool)
	f.emit(ins("MOV", "r0", FullPool.head().String()))
	f.call(r)
}

func (f *fnEmitter) free(s *ast.Free) {
	f.expr(s.Value, FullPool)
	f.emit(ins("MOV", "r0", FullPool.head().String()))
	if s.Value.Type().IsPair() {
		f.call(FreePair)
		return
	}
	f.callOut(ins("BL", "free"))
}

// ret unwinds every frame of the function before returning. Code after it
// stays on the fall-through path of the enclosing blocks.
func (f *fnEmitter) ret(s *ast.Return) {
	f.expr(s.Value, FullPool)
	f.emit(ins("MOV", "r0", FullPool.head().String()))
	unwind := 0
	for _, scope := range f.e.table.FrameChain(s.Scope()) {
		if f.e.table.Scope(scope).Kind == symbols.ScopeBlock {
			unwind += f.footprint(scope)
		}
	}
	if unwind != f.depth-4 {
		diag.Invariantf("arm.ret", "frames hold %d bytes, stack depth is %d", unwind, f.depth)
	}
	f.adjustSP("ADD", unwind)
	f.emit(ins("POP", "{pc}"))
}

func (f *fnEmitter) print(s *ast.Print) {
	f.expr(s.Value, FullPool)
	f.emit(ins("MOV", "r0", FullPool.head().String()))
	f.call(printRoutine(s.Value.Type()))
	if s.Newline {
		f.call(PrintLn)
	}
}

func printRoutine(t *types.Type) Routine {
	switch {
	case t.Kind == types.KindInt:
		return PrintInt
	case t.Kind == types.KindBool:
		return PrintBool
	case t.Kind == types.KindChar:
		return PrintChar
	case t.Kind == types.KindString || t.IsCharArray():
		return PrintString
	default:
		return PrintReference
	}
}

// branchIfFalse evaluates cond and jumps to target when it is zero.
func (f *fnEmitter) branchIfFalse(cond ast.Expr, target string) {
	f.expr(cond, FullPool)
	f.emit(
		ins("CMP", FullPool.head().String(), imm(0)),
		ins("BEQ", target),
	)
}

func (f *fnEmitter) ifStat(s *ast.If) {
	end := f.newLabel()
	if s.Else == nil {
		f.branchIfFalse(s.Cond, end)
		f.block(s.Then)
		f.emit(label(end))
		return
	}
	els := f.newLabel()
	f.branchIfFalse(s.Cond, els)
	f.block(s.Then)
	f.emit(ins("B", end), label(els))
	f.block(s.Else)
	f.emit(label(end))
}

func (f *fnEmitter) whileStat(s *ast.While) {
	top, end := f.newLabel(), f.newLabel()
	f.emit(label(top))
	f.branchIfFalse(s.Cond, end)
	f.block(s.Body)
	f.emit(ins("B", top), label(end))
}

// forStat runs init once in the header frame, then loops like while with
// step after the body.
func (f *fnEmitter) forStat(s *ast.For) {
	f.enter(s.Header)
	f.stat(s.Init)
	top, end := f.newLabel(), f.newLabel()
	f.emit(label(top))
	f.branchIfFalse(s.Cond, end)
	f.block(s.Body)
	f.stat(s.Step)
	f.emit(ins("B", top), label(end))
	f.leave(s.Header)
}
