package arm

import (
	"errors"
	"fmt"
	"strings"

	"waccc/internal/ast"
	"waccc/internal/diag"
	"waccc/internal/symbols"
)

// Emitter accumulates the assembly of one program. It is not safe for
// concurrent use; each compilation owns its own.
type Emitter struct {
	prog   *ast.Prog
	table  *symbols.Table
	consts []constant
	byText map[string]string // string constant deduplication
	labels int
	rt     runtimeSet
}

type constant struct {
	label string
	value string
}

// Program is generated assembly together with what it references.
type Program struct {
	Lines   []Instr
	Runtime []Routine
	Consts  int
}

// String renders the program as assembler input.
func (p *Program) String() string {
	var sb strings.Builder
	for _, line := range p.Lines {
		sb.WriteString(line.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// EmitProgram generates the program in layout order: data segment, main,
// functions, then the runtime routines referenced by any of them.
func EmitProgram(prog *ast.Prog) (out *Program, err error) {
	if prog == nil || prog.Table == nil {
		return nil, errors.New("arm: nil program")
	}
	defer diag.RecoverInternal(&err)

	e := &Emitter{
		prog:   prog,
		table:  prog.Table,
		byText: make(map[string]string),
		rt:     newRuntimeSet(),
	}
	text := e.emitMain()
	for _, fn := range prog.Funcs {
		text = append(text, e.emitFunc(fn)...)
	}
	text = append(text, e.emitRuntime()...)

	lines := make([]Instr, 0, len(text)+3*len(e.consts)+4)
	lines = append(lines, ins(".data"))
	for _, c := range e.consts {
		lines = append(lines,
			label(c.label),
			ins(".word", fmt.Sprint(len(c.value))),
			ins(".ascii", quoteASCII(c.value)),
		)
	}
	lines = append(lines, ins(".text"), ins(".global", "main"))
	lines = append(lines, text...)
	return &Program{Lines: lines, Runtime: e.rt.Used(), Consts: len(e.consts)}, nil
}

func (e *Emitter) emitMain() []Instr {
	f := e.newFunc()
	f.emit(label("main"))
	f.pushReg(LR)
	f.enter(e.prog.Global)
	f.stat(e.prog.Body)
	f.leave(e.prog.Global)
	f.emit(ins("LDR", "r0", lit(0)))
	f.popPC()
	f.emit(ins(".ltorg"))
	return f.out
}

// emitFunc generates f_<name>. The caller pushed the arguments, so the
// parameter frame sits above the saved lr.
func (e *Emitter) emitFunc(fn *ast.Func) []Instr {
	f := e.newFunc()
	f.entry[fn.Scope] = -f.footprint(fn.Scope)
	f.emit(label(funcLabel(fn.Name)))
	f.pushReg(LR)
	f.block(fn.Body)
	f.emit(ins(".ltorg"))
	return f.out
}

func (f *fnEmitter) popPC() {
	if f.depth != 4 {
		diag.Invariantf("arm.popPC", "returning with %d bytes on the stack", f.depth)
	}
	f.emit(ins("POP", "{pc}"))
}

// emitRuntime emits every referenced routine once. Routines are only
// marked used, never emitted, while code is generated, so the set is final
// here.
func (e *Emitter) emitRuntime() []Instr {
	var out []Instr
	for _, r := range e.rt.Used() {
		def := r.def()
		labels := make([]string, len(def.msgs))
		for i, m := range def.msgs {
			labels[i] = e.newConst(m)
		}
		out = append(out, label(def.name))
		out = append(out, def.body(labels)...)
	}
	return out
}

// stringConst returns the label of a program string, reusing an existing
// constant with the same text.
func (e *Emitter) stringConst(text string) string {
	if l, ok := e.byText[text]; ok {
		return l
	}
	l := e.newConst(text)
	e.byText[text] = l
	return l
}

func (e *Emitter) newConst(text string) string {
	l := fmt.Sprintf("msg_%d", len(e.consts))
	e.consts = append(e.consts, constant{label: l, value: text})
	return l
}

func (e *Emitter) newLabel() string {
	l := fmt.Sprintf("L%d", e.labels)
	e.labels++
	return l
}

// quoteASCII escapes s for the GNU assembler's .ascii directive.
func quoteASCII(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			if c < 0x20 || c > 0x7e {
				fmt.Fprintf(&sb, `\%03o`, c)
			} else {
				sb.WriteByte(c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
