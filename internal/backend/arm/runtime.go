package arm

import "fmt"

// Routine identifies a runtime support routine.
type Routine uint8

const (
	RoutineInvalid Routine = iota
	ThrowOverflowError
	CheckDivideByZero
	CheckArrayBounds
	CheckNullPointer
	ThrowRuntimeError
	PrintString
	PrintInt
	PrintBool
	PrintChar
	PrintReference
	PrintLn
	ReadInt
	ReadChar
	ReadString
	FreePair
)

// runtimeExitCode is the process status after a runtime error.
const runtimeExitCode = 255

// Routines are entered with an aligned sp and save an even number of
// registers, so the C library sees an 8-byte aligned stack.
type routineDef struct {
	name string
	deps []Routine
	// body receives the labels of the routine's own string constants, in
	// the order of msgs.
	msgs []string
	body func(msgs []string) []Instr
}

var routines = [...]routineDef{
	ThrowOverflowError: {
		name: "p_throw_overflow_error",
		deps: []Routine{ThrowRuntimeError},
		msgs: []string{"OverflowError: the result is too small/large to store in a 4-byte signed-integer.\n\x00"},
		body: func(m []string) []Instr {
			return []Instr{
				ins("LDR", "r0", sym(m[0])),
				ins("BL", "p_throw_runtime_error"),
			}
		},
	},
	CheckDivideByZero: {
		name: "p_check_divide_by_zero",
		deps: []Routine{ThrowRuntimeError},
		msgs: []string{"DivideByZeroError: divide or modulo by zero\n\x00"},
		body: func(m []string) []Instr {
			return []Instr{
				ins("PUSH", "{r4, lr}"),
				ins("CMP", "r1", imm(0)),
				ins("LDREQ", "r0", sym(m[0])),
				ins("BLEQ", "p_throw_runtime_error"),
				ins("POP", "{r4, pc}"),
			}
		},
	},
	CheckArrayBounds: {
		name: "p_check_array_bounds",
		deps: []Routine{ThrowRuntimeError},
		msgs: []string{
			"ArrayIndexOutOfBoundsError: negative index\n\x00",
			"ArrayIndexOutOfBoundsError: index too large\n\x00",
		},
		body: func(m []string) []Instr {
			return []Instr{
				ins("PUSH", "{r4, lr}"),
				ins("CMP", "r0", imm(0)),
				ins("LDRLT", "r0", sym(m[0])),
				ins("BLLT", "p_throw_runtime_error"),
				ins("LDR", "r1", "[r1]"),
				ins("CMP", "r0", "r1"),
				ins("LDRCS", "r0", sym(m[1])),
				ins("BLCS", "p_throw_runtime_error"),
				ins("POP", "{r4, pc}"),
			}
		},
	},
	CheckNullPointer: {
		name: "p_check_null_pointer",
		deps: []Routine{ThrowRuntimeError},
		msgs: []string{"NullReferenceError: dereference a null reference\n\x00"},
		body: func(m []string) []Instr {
			return []Instr{
				ins("PUSH", "{r4, lr}"),
				ins("CMP", "r0", imm(0)),
				ins("LDREQ", "r0", sym(m[0])),
				ins("BLEQ", "p_throw_runtime_error"),
				ins("POP", "{r4, pc}"),
			}
		},
	},
	ThrowRuntimeError: {
		name: "p_throw_runtime_error",
		deps: []Routine{PrintString},
		body: func([]string) []Instr {
			return []Instr{
				ins("BL", "p_print_string"),
				ins("MOV", "r0", imm(runtimeExitCode)),
				ins("BL", "exit"),
			}
		},
	},
	PrintString: {
		name: "p_print_string",
		msgs: []string{"%.*s\x00"},
		body: func(m []string) []Instr {
			return []Instr{
				ins("PUSH", "{r4, lr}"),
				ins("LDR", "r1", "[r0]"),
				ins("ADD", "r2", "r0", imm(4)),
				ins("LDR", "r0", sym(m[0])),
				ins("ADD", "r0", "r0", imm(4)),
				ins("BL", "printf"),
				ins("MOV", "r0", imm(0)),
				ins("BL", "fflush"),
				ins("POP", "{r4, pc}"),
			}
		},
	},
	PrintInt: {
		name: "p_print_int",
		msgs: []string{"%d\x00"},
		body: func(m []string) []Instr { return printf(m[0]) },
	},
	PrintBool: {
		name: "p_print_bool",
		msgs: []string{"true\x00", "false\x00"},
		body: func(m []string) []Instr {
			return []Instr{
				ins("PUSH", "{r4, lr}"),
				ins("CMP", "r0", imm(0)),
				ins("LDRNE", "r0", sym(m[0])),
				ins("LDREQ", "r0", sym(m[1])),
				ins("ADD", "r0", "r0", imm(4)),
				ins("BL", "printf"),
				ins("MOV", "r0", imm(0)),
				ins("BL", "fflush"),
				ins("POP", "{r4, pc}"),
			}
		},
	},
	PrintChar: {
		name: "p_print_char",
		body: func([]string) []Instr {
			return []Instr{
				ins("PUSH", "{r4, lr}"),
				ins("BL", "putchar"),
				ins("POP", "{r4, pc}"),
			}
		},
	},
	PrintReference: {
		name: "p_print_reference",
		msgs: []string{"%p\x00"},
		body: func(m []string) []Instr { return printf(m[0]) },
	},
	PrintLn: {
		name: "p_print_ln",
		msgs: []string{"\x00"},
		body: func(m []string) []Instr {
			return []Instr{
				ins("PUSH", "{r4, lr}"),
				ins("LDR", "r0", sym(m[0])),
				ins("ADD", "r0", "r0", imm(4)),
				ins("BL", "puts"),
				ins("MOV", "r0", imm(0)),
				ins("BL", "fflush"),
				ins("POP", "{r4, pc}"),
			}
		},
	},
	ReadInt: {
		name: "p_read_int",
		msgs: []string{" %d\x00"},
		body: func(m []string) []Instr { return scanf(m[0]) },
	},
	ReadChar: {
		name: "p_read_char",
		msgs: []string{" %c\x00"},
		body: func(m []string) []Instr { return scanf(m[0]) },
	},
	// r0 holds the address of the slot receiving the new string.
	ReadString: {
		name: "p_read_string",
		msgs: []string{" %255s\x00"},
		body: func(m []string) []Instr {
			return []Instr{
				ins("PUSH", "{r4, lr}"),
				ins("MOV", "r4", "r0"),
				ins("LDR", "r0", lit(readStringCell)),
				ins("BL", "malloc"),
				ins("STR", "r0", "[r4]"),
				ins("ADD", "r1", "r0", imm(4)),
				ins("LDR", "r0", sym(m[0])),
				ins("ADD", "r0", "r0", imm(4)),
				ins("BL", "scanf"),
				ins("LDR", "r4", "[r4]"),
				ins("ADD", "r0", "r4", imm(4)),
				ins("BL", "strlen"),
				ins("STR", "r0", "[r4]"),
				ins("POP", "{r4, pc}"),
			}
		},
	},
	FreePair: {
		name: "p_free_pair",
		deps: []Routine{ThrowRuntimeError},
		msgs: []string{"NullReferenceError: dereference a null reference\n\x00"},
		body: func(m []string) []Instr {
			return []Instr{
				ins("PUSH", "{r4, lr}"),
				ins("CMP", "r0", imm(0)),
				ins("LDREQ", "r0", sym(m[0])),
				ins("BEQ", "p_throw_runtime_error"),
				ins("BL", "free"),
				ins("POP", "{r4, pc}"),
			}
		},
	},
}

// readStringCell is the heap cell for one read word: length word, 255 bytes
// and the terminator.
const readStringCell = 260

func printf(format string) []Instr {
	return []Instr{
		ins("PUSH", "{r4, lr}"),
		ins("MOV", "r1", "r0"),
		ins("LDR", "r0", sym(format)),
		ins("ADD", "r0", "r0", imm(4)),
		ins("BL", "printf"),
		ins("MOV", "r0", imm(0)),
		ins("BL", "fflush"),
		ins("POP", "{r4, pc}"),
	}
}

func scanf(format string) []Instr {
	return []Instr{
		ins("PUSH", "{r4, lr}"),
		ins("MOV", "r1", "r0"),
		ins("LDR", "r0", sym(format)),
		ins("ADD", "r0", "r0", imm(4)),
		ins("BL", "scanf"),
		ins("POP", "{r4, pc}"),
	}
}

func (r Routine) def() *routineDef {
	if r == RoutineInvalid || int(r) >= len(routines) {
		panic(fmt.Errorf("arm: unknown runtime routine %d", r))
	}
	return &routines[r]
}

// Name is the routine's assembly label.
func (r Routine) Name() string { return r.def().name }

func (r Routine) String() string { return r.Name() }

// runtimeSet records the routines a program references, in first-use order,
// closed over dependencies.
type runtimeSet struct {
	seen  map[Routine]bool
	order []Routine
}

func newRuntimeSet() runtimeSet {
	return runtimeSet{seen: make(map[Routine]bool)}
}

// use marks r and everything it depends on as referenced.
func (s *runtimeSet) use(r Routine) {
	work := []Routine{r}
	for len(work) > 0 {
		next := work[0]
		work = work[1:]
		if s.seen[next] {
			continue
		}
		s.seen[next] = true
		s.order = append(s.order, next)
		work = append(work, next.def().deps...)
	}
}

// Used lists referenced routines in emission order.
func (s *runtimeSet) Used() []Routine { return s.order }
