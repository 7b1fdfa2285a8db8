package arm

import (
	"fmt"
	"strings"
)

// Reg is a machine register.
type Reg uint8

const (
	R0 Reg = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	R8
	R9
	R10
	R11
	R12
	SP
	LR
	PC
)

// Scratch is never handed out in a pool; the stack fallback pops into it.
const Scratch = R11

func (r Reg) String() string {
	switch r {
	case SP:
		return "sp"
	case LR:
		return "lr"
	case PC:
		return "pc"
	}
	return fmt.Sprintf("r%d", uint8(r))
}

// Regs is an ordered register pool; the head receives results.
type Regs []Reg

// FullPool is the pool available to a statement.
var FullPool = Regs{R4, R5, R6, R7, R8, R9, R10}

func (p Regs) head() Reg  { return p[0] }
func (p Regs) rest() Regs { return p[1:] }

// Instr is one line of assembly: a label, a directive or an instruction.
type Instr struct {
	Label string // "name" for "name:"; Op is empty then
	Op    string
	Args  []string
}

func (i Instr) String() string {
	if i.Label != "" {
		return i.Label + ":"
	}
	if len(i.Args) == 0 {
		return "\t" + i.Op
	}
	return "\t" + i.Op + " " + strings.Join(i.Args, ", ")
}

// IsLabel reports whether the line declares a label.
func (i Instr) IsLabel() bool { return i.Label != "" }

func ins(op string, args ...string) Instr { return Instr{Op: op, Args: args} }

func label(name string) Instr { return Instr{Label: name} }

// Operand helpers ------------------------------------------------------------

func imm(v int) string { return fmt.Sprintf("#%d", v) }

func lit(v int) string { return fmt.Sprintf("=%d", v) }

func sym(name string) string { return "=" + name }

// mem renders [base] or [base, #off].
func mem(base Reg, off int) string {
	if off == 0 {
		return "[" + base.String() + "]"
	}
	return fmt.Sprintf("[%s, #%d]", base, off)
}

// push renders the pre-indexed [sp, #-n]! operand.
func push(n int) string { return fmt.Sprintf("[sp, #-%d]!", n) }

func regList(rs ...Reg) string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.String()
	}
	return "{" + strings.Join(names, ", ") + "}"
}

func lsl(r Reg, n int) string { return fmt.Sprintf("%s, LSL #%d", r, n) }

func asr(r Reg, n int) string { return fmt.Sprintf("%s, ASR #%d", r, n) }

// Encoding limits ------------------------------------------------------------

const (
	maxWordOffset = 4095 // LDR/STR/STRB immediate offset
	maxHalfOffset = 255  // LDRSB/LDRSH immediate offset
	maxFrameChunk = 1024 // largest stack adjustment emitted at once
)

// encodableImm reports whether v fits an ARM data-processing immediate: an
// 8-bit value rotated right by an even amount.
func encodableImm(v uint32) bool {
	for rot := 0; rot < 32; rot += 2 {
		if (v<<rot|v>>(32-rot))&^0xff == 0 {
			return true
		}
	}
	return false
}
