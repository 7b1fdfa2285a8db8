package arm

import (
	"fmt"

	"fortio.org/safecast"

	"waccc/internal/diag"
	"waccc/internal/symbols"
	"waccc/internal/types"
)

// fnEmitter generates the body of main or of one function.
type fnEmitter struct {
	e     *Emitter
	out   []Instr
	depth int                     // bytes pushed since entry, lr included
	entry map[symbols.ScopeID]int // depth right before each live scope was allocated
}

func (e *Emitter) newFunc() *fnEmitter {
	return &fnEmitter{e: e, entry: make(map[symbols.ScopeID]int)}
}

func (f *fnEmitter) emit(lines ...Instr) { f.out = append(f.out, lines...) }

func (f *fnEmitter) footprint(scope symbols.ScopeID) int {
	return toInt(f.e.table.Scope(scope).Footprint)
}

// enter allocates scope's frame.
func (f *fnEmitter) enter(scope symbols.ScopeID) {
	f.entry[scope] = f.depth
	f.grow(f.footprint(scope))
}

// leave releases scope's frame on the fall-through path.
func (f *fnEmitter) leave(scope symbols.ScopeID) {
	f.shrink(f.footprint(scope))
	if f.depth != f.entry[scope] {
		diag.Invariantf("arm.leave", "scope %d left at depth %d, entered at %d", scope, f.depth, f.entry[scope])
	}
	delete(f.entry, scope)
}

func (f *fnEmitter) grow(n int) {
	f.adjustSP("SUB", n)
	f.depth += n
}

func (f *fnEmitter) shrink(n int) {
	f.adjustSP("ADD", n)
	f.depth -= n
}

// adjustSP moves sp by n bytes in chunks that always encode as immediates.
func (f *fnEmitter) adjustSP(op string, n int) {
	for n > 0 {
		step := min(n, maxFrameChunk)
		f.emit(ins(op, "sp", "sp", imm(step)))
		n -= step
	}
}

func (f *fnEmitter) pushReg(r Reg) {
	f.emit(ins("PUSH", regList(r)))
	f.depth += 4
}

func (f *fnEmitter) popReg(r Reg) {
	f.emit(ins("POP", regList(r)))
	f.depth -= 4
}

// slot returns the sp-relative offset of a variable at the current depth.
func (f *fnEmitter) slot(id symbols.VarID) (int, *types.Type) {
	v := f.e.table.Var(id)
	base, ok := f.entry[v.Scope]
	if !ok {
		diag.Invariantf("arm.slot", "variable %q used outside its frame", v.Name)
	}
	off := f.depth - base - toInt(v.Offset)
	if off < 0 {
		diag.Invariantf("arm.slot", "variable %q at negative offset %d", v.Name, off)
	}
	return off, v.Type
}

func (f *fnEmitter) loadVar(dst Reg, id symbols.VarID) {
	off, typ := f.slot(id)
	f.loadMem(dst, SP, off, typ)
}

func (f *fnEmitter) storeVar(src Reg, id symbols.VarID) {
	off, typ := f.slot(id)
	f.storeMem(src, SP, off, typ)
}

// addrOfVar puts the address of a variable's slot in dst.
func (f *fnEmitter) addrOfVar(dst Reg, id symbols.VarID) {
	off, _ := f.slot(id)
	f.addImm(dst, SP, off)
}

func (f *fnEmitter) addImm(dst, base Reg, n int) {
	if n >= 0 && encodableImm(uint32(n)) {
		f.emit(ins("ADD", dst.String(), base.String(), imm(n)))
		return
	}
	f.emit(
		ins("LDR", Scratch.String(), lit(n)),
		ins("ADD", dst.String(), base.String(), Scratch.String()),
	)
}

// loadMem reads a value of type t from [base, #off]; bytes are sign-extended.
func (f *fnEmitter) loadMem(dst, base Reg, off int, t *types.Type) {
	op, limit := "LDR", maxWordOffset
	if types.Size(t) == 1 {
		op, limit = "LDRSB", maxHalfOffset
	}
	f.memOp(op, limit, dst, base, off)
}

func (f *fnEmitter) storeMem(src, base Reg, off int, t *types.Type) {
	op := "STR"
	if types.Size(t) == 1 {
		op = "STRB"
	}
	f.memOp(op, maxWordOffset, src, base, off)
}

// memOp falls back to a register offset in the scratch register when off
// does not fit the addressing mode.
func (f *fnEmitter) memOp(op string, limit int, r, base Reg, off int) {
	if off <= limit {
		f.emit(ins(op, r.String(), mem(base, off)))
		return
	}
	f.emit(
		ins("LDR", Scratch.String(), lit(off)),
		ins(op, r.String(), "["+base.String()+", "+Scratch.String()+"]"),
	)
}

// pushValue stores r below sp with a pre-indexed write, as a call argument.
func (f *fnEmitter) pushValue(r Reg, t *types.Type) {
	size := toInt(types.Size(t))
	op := "STR"
	if size == 1 {
		op = "STRB"
	}
	f.emit(ins(op, r.String(), push(size)))
	f.depth += size
}

func (f *fnEmitter) newLabel() string { return f.e.newLabel() }

func (f *fnEmitter) call(r Routine) {
	f.e.rt.use(r)
	f.callOut(ins("BL", r.Name()))
}

// callAlign is the sp alignment every call is made with. main and each
// function are entered with an aligned sp, so sp is aligned exactly when
// depth is a multiple of callAlign.
const callAlign = 8

// callOut emits a branch-with-link, padding sp so the callee sees an
// aligned stack. Frame sizes themselves stay byte-exact.
func (f *fnEmitter) callOut(call Instr) {
	pad := alignPad(f.depth, 0)
	f.grow(pad)
	f.emit(call)
	f.shrink(pad)
}

// alignPad is the padding that makes depth+extra a multiple of callAlign.
func alignPad(depth, extra int) int {
	return (callAlign - (depth+extra)%callAlign) % callAlign
}

func toInt(v uint32) int {
	n, err := safecast.Conv[int](v)
	if err != nil {
		panic(fmt.Errorf("frame size overflow: %w", err))
	}
	return n
}
