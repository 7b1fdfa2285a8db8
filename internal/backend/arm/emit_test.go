package arm

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"waccc/internal/ast"
	"waccc/internal/diag"
	"waccc/internal/flow"
	"waccc/internal/parser"
	"waccc/internal/sema"
	"waccc/internal/source"
	"waccc/internal/symbols"
	"waccc/internal/testkit"
	"waccc/internal/types"
)

func compile(t *testing.T, src string) *Program {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.wacc", []byte(src))
	rep := &diag.SliceReporter{}
	res := parser.ParseFile(fs.Get(id), parser.Options{Reporter: rep})
	if res.Tree == nil {
		t.Fatalf("parse failed: %v", rep.Items)
	}
	built := sema.Build(res.Tree, sema.Options{})
	if !built.OK() {
		t.Fatalf("sema failed: %v", built.Errors())
	}
	if errs := flow.CheckProg(built.Value()); len(errs) > 0 {
		t.Fatalf("return check failed: %v", errs)
	}
	out, err := EmitProgram(built.Value())
	if err != nil {
		t.Fatalf("EmitProgram: %v", err)
	}
	return out
}

func lines(code []Instr) []string {
	out := make([]string, len(code))
	for i, in := range code {
		out[i] = strings.TrimSpace(in.String())
	}
	return out
}

func newTestFunc() *fnEmitter {
	e := &Emitter{table: symbols.NewTable(), byText: make(map[string]string), rt: newRuntimeSet()}
	return e.newFunc()
}

var pos source.Span

func intLit(v int32) ast.Expr { return ast.NewIntLit(pos, v) }

func bin(op ast.ExprBinaryOp, l, r ast.Expr) ast.Expr {
	typ := types.Int
	if op.IsComparison() || op == ast.ExprBinaryLogicalAnd || op == ast.ExprBinaryLogicalOr {
		typ = types.Bool
	}
	return ast.NewBinary(pos, typ, op, l, r)
}

func TestWeight(t *testing.T) {
	add := func(l, r ast.Expr) ast.Expr { return bin(ast.ExprBinaryAdd, l, r) }
	one := intLit(1)
	tests := []struct {
		name string
		expr ast.Expr
		want int
	}{
		{"literal", one, 1},
		{"flat sum", add(one, one), 2},
		{"left chain", add(add(add(one, one), one), one), 2},
		{"balanced", add(add(one, one), add(one, one)), 3},
		{"unary keeps weight", ast.NewUnary(pos, types.Int, ast.ExprUnaryMinus, add(one, one)), 2},
		{"right heavy", add(one, add(one, add(one, one))), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Weight(tt.expr); got != tt.want {
				t.Fatalf("Weight = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExprRegisterAllocation(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expr
		pool Regs
		want []string
	}{
		{
			name: "two registers",
			expr: bin(ast.ExprBinaryAdd, intLit(1), intLit(2)),
			pool: Regs{R4, R5},
			want: []string{
				"LDR r4, =1",
				"LDR r5, =2",
				"ADDS r4, r4, r5",
				"BLVS p_throw_overflow_error",
			},
		},
		{
			name: "stack fallback",
			expr: bin(ast.ExprBinarySub, intLit(1), intLit(2)),
			pool: Regs{R4},
			want: []string{
				"LDR r4, =2",
				"PUSH {r4}",
				"LDR r4, =1",
				"POP {r11}",
				"SUBS r4, r4, r11",
				"BLVS p_throw_overflow_error",
			},
		},
		{
			name: "heavier right operand first",
			expr: bin(ast.ExprBinarySub, intLit(1), bin(ast.ExprBinaryMul, intLit(2), intLit(3))),
			pool: Regs{R4, R5, R6},
			want: []string{
				"LDR r4, =2",
				"LDR r5, =3",
				"SMULL r4, r5, r4, r5",
				"CMP r5, r4, ASR #31",
				"BLNE p_throw_overflow_error",
				"LDR r5, =1",
				"SUBS r4, r5, r4",
				"BLVS p_throw_overflow_error",
			},
		},
		{
			name: "comparison",
			expr: bin(ast.ExprBinaryLessEq, intLit(1), intLit(2)),
			pool: FullPool,
			want: []string{
				"LDR r4, =1",
				"LDR r5, =2",
				"CMP r4, r5",
				"MOVLE r4, #1",
				"MOVGT r4, #0",
			},
		},
		{
			name: "modulo",
			expr: bin(ast.ExprBinaryMod, intLit(7), intLit(2)),
			pool: FullPool,
			want: []string{
				"LDR r4, =7",
				"LDR r5, =2",
				"MOV r0, r4",
				"MOV r1, r5",
				"BL p_check_divide_by_zero",
				"BL __aeabi_idivmod",
				"MOV r4, r1",
			},
		},
		{
			name: "not",
			expr: ast.NewUnary(pos, types.Bool, ast.ExprUnaryNot, ast.NewBoolLit(pos, true)),
			pool: FullPool,
			want: []string{"MOV r4, #1", "EOR r4, r4, #1"},
		},
		{
			name: "ord is free",
			expr: ast.NewUnary(pos, types.Int, ast.ExprUnaryOrd, ast.NewCharLit(pos, 'a')),
			pool: FullPool,
			want: []string{"MOV r4, #97"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFunc()
			f.expr(tt.expr, tt.pool)
			if diff := cmp.Diff(tt.want, lines(f.out)); diff != "" {
				t.Fatalf("code mismatch (-want +got):\n%s", diff)
			}
			if f.depth != 0 {
				t.Fatalf("depth after expression = %d, want 0", f.depth)
			}
		})
	}
}

func TestEmitSmallProgram(t *testing.T) {
	got := compile(t, `begin int x = 5 ; println x end`)
	want := []string{
		".data",
		"msg_0:",
		".word 3",
		`.ascii "%d\000"`,
		"msg_1:",
		".word 1",
		`.ascii "\000"`,
		".text",
		".global main",
		"main:",
		"PUSH {lr}",
		"SUB sp, sp, #4",
		"LDR r4, =5",
		"STR r4, [sp]",
		"LDR r4, [sp]",
		"MOV r0, r4",
		"BL p_print_int",
		"BL p_print_ln",
		"ADD sp, sp, #4",
		"LDR r0, =0",
		"POP {pc}",
		".ltorg",
		"p_print_int:",
		"PUSH {r4, lr}",
		"MOV r1, r0",
		"LDR r0, =msg_0",
		"ADD r0, r0, #4",
		"BL printf",
		"MOV r0, #0",
		"BL fflush",
		"POP {r4, pc}",
		"p_print_ln:",
		"PUSH {r4, lr}",
		"LDR r0, =msg_1",
		"ADD r0, r0, #4",
		"BL puts",
		"MOV r0, #0",
		"BL fflush",
		"POP {r4, pc}",
	}
	if diff := cmp.Diff(want, lines(got.Lines)); diff != "" {
		t.Fatalf("program mismatch (-want +got):\n%s", diff)
	}
}

func TestVariablesAddressedFromScopeEntry(t *testing.T) {
	got := lines(compile(t, `begin int x = 1 ; char c = 'a' ; begin int y = x ; print c end end`).Lines)
	// global frame: x at sp+1, c at sp+0; the block adds 4 bytes on top.
	for _, want := range []string{
		"SUB sp, sp, #5",
		"STR r4, [sp, #1]",
		"STRB r4, [sp]",
		"LDR r4, [sp, #5]",
		"LDRSB r4, [sp, #4]",
		"ADD sp, sp, #5",
	} {
		if !contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, strings.Join(got, "\n"))
		}
	}
}

func TestReturnUnwindsEnclosingBlocks(t *testing.T) {
	src := `begin
	  int f() is
	    int a = 1 ;
	    if true then int b = 2 ; return b else return a fi
	  end
	  int r = call f() ;
	  exit r
	end`
	got := lines(compile(t, src).Lines)
	start := index(got, "f_f:")
	if start < 0 {
		t.Fatalf("no f_f in:\n%s", strings.Join(got, "\n"))
	}
	var rets []string
	for i := start; i < len(got); i++ {
		if got[i] == "POP {pc}" {
			rets = append(rets, got[i-1])
		}
		if got[i] == ".ltorg" {
			break
		}
	}
	if diff := cmp.Diff([]string{"ADD sp, sp, #8", "ADD sp, sp, #4"}, rets); diff != "" {
		t.Fatalf("unwinding before returns (-want +got):\n%s", diff)
	}
}

func TestCallPushesArgumentsLeftToRight(t *testing.T) {
	src := `begin
	  int f(int a, char b) is return a end
	  int r = call f(7, 'z') ;
	  exit r
	end`
	got := lines(compile(t, src).Lines)
	// 8 bytes pushed before the call plus 5 argument bytes: 3 bytes of
	// padding go above the arguments.
	want := []string{
		"SUB sp, sp, #3",
		"LDR r4, =7",
		"STR r4, [sp, #-4]!",
		"MOV r4, #122",
		"STRB r4, [sp, #-1]!",
		"BL f_f",
		"ADD sp, sp, #8",
		"MOV r4, r0",
	}
	i := index(got, want[0])
	if i < 0 || i+len(want) > len(got) {
		t.Fatalf("call sequence not found in:\n%s", strings.Join(got, "\n"))
	}
	if diff := cmp.Diff(want, got[i:i+len(want)]); diff != "" {
		t.Fatalf("call sequence (-want +got):\n%s", diff)
	}
	// a: first pushed, highest address: above lr and b.
	if !contains(got, "LDR r4, [sp, #5]") {
		t.Fatalf("parameter a not read from [sp, #5]:\n%s", strings.Join(got, "\n"))
	}
}

func TestRuntimeDependencyClosure(t *testing.T) {
	got := compile(t, `begin int x = 10 / 2 end`)
	want := []Routine{CheckDivideByZero, ThrowRuntimeError, PrintString}
	if diff := cmp.Diff(want, got.Runtime); diff != "" {
		t.Fatalf("runtime routines (-want +got):\n%s", diff)
	}
	seen := map[string]int{}
	for _, l := range lines(got.Lines) {
		if strings.HasPrefix(l, "p_") && strings.HasSuffix(l, ":") {
			seen[l]++
		}
	}
	for name, n := range seen {
		if n != 1 {
			t.Errorf("%s emitted %d times", name, n)
		}
	}
}

func TestStringConstantsAreDeduplicated(t *testing.T) {
	got := compile(t, `begin print "hi" ; print "hi" ; print "ho" end`)
	// two program strings plus the print_string format
	if got.Consts != 3 {
		t.Fatalf("Consts = %d, want 3\n%s", got.Consts, got)
	}
}

func TestLargeFramesAreSplit(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("begin char c = 'a' ; ")
	for i := 0; i < 300; i++ {
		fmt.Fprintf(&sb, "int v%d = %d ; ", i, i)
	}
	sb.WriteString("print c end")
	got := lines(compile(t, sb.String()).Lines)
	for _, want := range []string{
		"SUB sp, sp, #1024",
		"SUB sp, sp, #177",
		"LDR r11, =1200",
		"LDRSB r4, [sp, r11]",
		"ADD sp, sp, #1024",
		"ADD sp, sp, #177",
	} {
		if !contains(got, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestCallsPadUnalignedFrames(t *testing.T) {
	got := lines(compile(t, `begin char c = 'a' ; print c ; exit 1 end`).Lines)
	// lr and c: calls are made at depth 5
	want := []string{
		"LDRSB r4, [sp]",
		"MOV r0, r4",
		"SUB sp, sp, #3",
		"BL p_print_char",
		"ADD sp, sp, #3",
	}
	i := index(got, want[0])
	if i < 0 || i+len(want) > len(got) {
		t.Fatalf("print sequence not found in:\n%s", strings.Join(got, "\n"))
	}
	if diff := cmp.Diff(want, got[i:i+len(want)]); diff != "" {
		t.Fatalf("print sequence (-want +got):\n%s", diff)
	}
	j := index(got, "BL exit")
	if j < 1 || got[j-1] != "SUB sp, sp, #3" {
		t.Fatalf("exit is not padded:\n%s", strings.Join(got, "\n"))
	}
}

func TestNestedArrayLiterals(t *testing.T) {
	got := compile(t, `begin int[] a = [1] ; int[][] m = [[], a] ; int[][] n = [[1, 2], [3]] ; println m[1][0] + n[0][1] end`)
	asm := lines(got.Lines)
	for _, want := range []string{
		"LDR r0, =12", // m: length word and two pointers
		"LDR r0, =4",  // []
		"STR r5, [r4, #4]",
		"STR r5, [r4, #8]",
	} {
		if !contains(asm, want) {
			t.Errorf("missing %q in:\n%s", want, strings.Join(asm, "\n"))
		}
	}
	if err := testkit.CheckCallAlignment(got.String()); err != nil {
		t.Fatal(err)
	}
}

func TestNestedArrayLiteralSpillsOuterPointer(t *testing.T) {
	inner := ast.NewArrayLit(pos, types.MakeArray(types.Int), []ast.AssRHS{intLit(1)})
	outer := ast.NewArrayLit(pos, types.MakeArrayN(types.Int, 2), []ast.AssRHS{inner})
	f := newTestFunc()
	f.arrayLit(outer, Regs{R4, R5})
	want := []string{
		"LDR r0, =8",
		"BL malloc",
		"MOV r4, r0",
		"PUSH {r4}",
		"LDR r0, =8",
		"SUB sp, sp, #4",
		"BL malloc",
		"ADD sp, sp, #4",
		"MOV r4, r0",
		"LDR r5, =1",
		"STR r5, [r4, #4]",
		"LDR r5, =1",
		"STR r5, [r4]",
		"MOV r5, r4",
		"POP {r4}",
		"STR r5, [r4, #4]",
		"LDR r5, =1",
		"STR r5, [r4]",
	}
	if diff := cmp.Diff(want, lines(f.out)); diff != "" {
		t.Fatalf("code mismatch (-want +got):\n%s", diff)
	}
	if f.depth != 0 {
		t.Fatalf("depth after literal = %d, want 0", f.depth)
	}
}

func TestNestedArrayAccess(t *testing.T) {
	got := lines(compile(t, `begin int[] a = [1, 2] ; int[][] m = [a] ; m[0][1] = 5 ; print m[0][1] end`).Lines)
	for _, want := range []string{
		"BL p_check_array_bounds",
		"ADD r5, r5, #4",
		"ADD r5, r5, r6, LSL #2",
		"LDR r5, [r5]",
		"STR r4, [r5]",
	} {
		if !contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, strings.Join(got, "\n"))
		}
	}
}

func TestGeneratedCodeKeepsFramesBalancedAndCallsAligned(t *testing.T) {
	programs := map[string]string{
		"loops": `begin int s = 0 ; for (int i = 0 ; i < 10 ; i = i + 1) do int sq = i * i ; s = s + sq done ;
			while s > 0 do s = s - 1 done ; println s end`,
		"pairs": `begin pair(int, char) p = newpair(1, 'a') ; fst p = 2 ; char c = snd p ; print p ; free p ;
			pair(pair, int) q = newpair(null, 3) ; println q end`,
		"arrays": `begin char[] cs = ['a', 'b'] ; println cs ; int[] a = [] ; read cs ; free a ; println len cs end`,
		"recursion": `begin
			int fact(int n) is if n <= 1 then return 1 else int r = call fact(n - 1) ; return n * r fi end
			bool choose(bool b, char c, int i) is begin if b then return c == 'x' else skip fi end ; while true do return i > 0 done ; return false end
			int x = call fact(5) ; bool y = call choose(true, 'x', 3) ; println x ; println y end`,
		"exit paths": `begin int f() is if true then exit 3 else return 1 fi end int r = call f() ; if r == 1 then exit 2 else skip fi ; exit 0 end`,
		"nested arrays": `begin int[] a = [1, 2] ; char[][] w = [['h', 'i'], [], ['!']] ; int[][] m = [[], a, [3]] ;
			println w[0] ; println m[2][0] end`,
		"deep spill": `begin int x = 1 ; int y = ((((x + 1) * (x + 2)) - ((x + 3) / (x + 4))) + (((x + 5) % (x + 6)) * ((x + 7) - (x + 8)))) ;
			y = y + (((x - 1) * (x - 2)) + ((x - 3) * (x - 4))) * (((x - 5) * (x - 6)) + ((x - 7) * (x - 8))) ; println y end`,
	}
	for name, src := range programs {
		t.Run(name, func(t *testing.T) {
			asm := compile(t, src).String()
			if err := testkit.CheckCallAlignment(asm); err != nil {
				t.Fatalf("%v\n%s", err, asm)
			}
		})
	}
}

func TestDeepExpressionSpillsToStack(t *testing.T) {
	// a balanced tree of depth 8 needs more registers than the pool has
	leaf := func() ast.Expr { return intLit(1) }
	var tree func(d int) ast.Expr
	tree = func(d int) ast.Expr {
		if d == 0 {
			return leaf()
		}
		return bin(ast.ExprBinaryAdd, tree(d-1), tree(d-1))
	}
	f := newTestFunc()
	e := tree(8)
	if Weight(e) <= len(FullPool) {
		t.Fatalf("Weight = %d, expected more than the pool", Weight(e))
	}
	f.expr(e, FullPool)
	got := lines(f.out)
	if !contains(got, "POP {r11}") {
		t.Fatalf("expected a stack spill")
	}
	if f.depth != 0 {
		t.Fatalf("depth after expression = %d", f.depth)
	}
}

func TestEmitProgramReportsInternalErrors(t *testing.T) {
	table := symbols.NewTable()
	fn, _ := table.DeclareFunc("f", types.Int, pos)
	v, _ := table.BindParam(fn, "x", types.Int, pos)
	prog := &ast.Prog{
		Global: table.Global,
		Table:  table,
		Body:   ast.NewPrint(pos, table.Global, ast.NewIdent(pos, types.Int, "x", v), false),
	}
	_, err := EmitProgram(prog)
	var ie *diag.InternalError
	if err == nil || !errors.As(err, &ie) {
		t.Fatalf("want internal error, got %v", err)
	}
}

func TestEncodableImm(t *testing.T) {
	for v, want := range map[uint32]bool{0: true, 255: true, 256: true, 257: false, 1024: true, 1200: true, 1201: false, 0x102: false, 0xff000000: true, 0xf000000f: true} {
		if got := encodableImm(v); got != want {
			t.Errorf("encodableImm(%#x) = %v, want %v", v, got, want)
		}
	}
}

func TestQuoteASCII(t *testing.T) {
	got := quoteASCII("a\"b\\c\n\x00\x7f")
	want := `"a\"b\\c\n\000\177"`
	if got != want {
		t.Fatalf("quoteASCII = %s, want %s", got, want)
	}
}

func contains(list []string, s string) bool { return index(list, s) >= 0 }

func index(list []string, s string) int {
	for i, l := range list {
		if l == s {
			return i
		}
	}
	return -1
}
