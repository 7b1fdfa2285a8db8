package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"waccc/internal/diag"
	"waccc/internal/source"
)

func parseSrc(t *testing.T, src string) (Result, []diag.Diagnostic) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.wacc", []byte(src))
	rep := &diag.SliceReporter{}
	res := ParseFile(fs.Get(id), Options{Reporter: rep})
	return res, rep.Items
}

func mustParse(t *testing.T, src string) string {
	t.Helper()
	res, errs := parseSrc(t, src)
	if len(errs) != 0 || res.Tree == nil {
		t.Fatalf("unexpected diagnostics for %q: %v", src, errs)
	}
	return res.Tree.String()
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "skip",
			src:  "begin skip end",
			want: "(Program (Skip))",
		},
		{
			name: "declare and print",
			src:  "begin int x = 1 ; println x end",
			want: "(Program (Seq (Declare (BaseType int) (Ident x) (IntLit 1)) (Println (Ident x))))",
		},
		{
			name: "negative literal folds",
			src:  "begin int x = -2147483648 end",
			want: "(Program (Declare (BaseType int) (Ident x) (IntLit -2147483648)))",
		},
		{
			name: "precedence",
			src:  "begin int x = 1 + 2 * 3 - 4 end",
			want: "(Program (Declare (BaseType int) (Ident x) (Binary - (Binary + (IntLit 1) (Binary * (IntLit 2) (IntLit 3))) (IntLit 4))))",
		},
		{
			name: "logic below comparison",
			src:  "begin bool b = 1 < 2 && !false || true end",
			want: "(Program (Declare (BaseType bool) (Ident b) (Binary || (Binary && (Binary < (IntLit 1) (IntLit 2)) (Unary ! (BoolLit false))) (BoolLit true))))",
		},
		{
			name: "unary minus on identifier",
			src:  "begin int y = 1 ; int x = -y end",
			want: "(Program (Seq (Declare (BaseType int) (Ident y) (IntLit 1)) (Declare (BaseType int) (Ident x) (Unary - (Ident y)))))",
		},
		{
			name: "arrays",
			src:  "begin int[][] a = [[1], []] ; a[0][0] = len a end",
			want: "(Program (Seq (Declare (ArrayType (ArrayType (BaseType int))) (Ident a) (ArrayLit (ArrayLit (IntLit 1)) (ArrayLit))) (Assign (ArrayElem (Ident a) (IntLit 0) (IntLit 0)) (Unary len (Ident a)))))",
		},
		{
			name: "pairs",
			src:  "begin pair(int, pair) p = newpair(1, null) ; fst p = 2 ; int x = fst p end",
			want: "(Program (Seq (Declare (PairType (BaseType int) (BarePair pair)) (Ident p) (NewPair (IntLit 1) (PairLit null))) (Assign (PairElem fst (Ident p)) (IntLit 2)) (Declare (BaseType int) (Ident x) (PairElem fst (Ident p)))))",
		},
		{
			name: "if without else",
			src:  "begin if true then skip fi end",
			want: "(Program (If (BoolLit true) (Skip)))",
		},
		{
			name: "if else while block",
			src:  "begin if true then skip else while false do begin skip end done fi end",
			want: "(Program (If (BoolLit true) (Skip) (While (BoolLit false) (Block (Skip)))))",
		},
		{
			name: "for",
			src:  "begin for (int i = 0; i < 3; i = i + 1) do print i done end",
			want: "(Program (For (Declare (BaseType int) (Ident i) (IntLit 0)) (Binary < (Ident i) (IntLit 3)) (Assign (Ident i) (Binary + (Ident i) (IntLit 1))) (Print (Ident i))))",
		},
		{
			name: "read free exit",
			src:  "begin read x ; free p ; exit (1) end",
			want: "(Program (Seq (Read (Ident x)) (Free (Ident p)) (Exit (Paren (IntLit 1)))))",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.src)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFunctions(t *testing.T) {
	src := `begin
  int f(int x, char[] s) is
    return x
  end
  pair(int, int)[] g() is
    return null
  end
  int y = call f(1, "a") ;
  skip
end`
	want := "(Program " +
		"(Func (BaseType int) (Ident f) (ParamList (Param (BaseType int) (Ident x)) (Param (ArrayType (BaseType char)) (Ident s))) (Return (Ident x))) " +
		"(Func (ArrayType (PairType (BaseType int) (BaseType int))) (Ident g) (ParamList) (Return (PairLit null))) " +
		"(Seq (Declare (BaseType int) (Ident y) (Call (Ident f) (ArgList (IntLit 1) (StrLit \"a\")))) (Skip)))"
	if diff := cmp.Diff(want, mustParse(t, src)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"missing begin", "skip end", diag.SynExpectKeyword},
		{"missing end", "begin skip", diag.SynExpectKeyword},
		{"trailing", "begin skip end skip", diag.SynTrailingInput},
		{"bad statement", "begin + end", diag.SynExpectStatement},
		{"bad expression", "begin int x = ; skip end", diag.SynExpectExpression},
		{"missing fi", "begin if true then skip end", diag.SynExpectKeyword},
		{"bad read target", "begin read 1 end", diag.SynBadAssignTarget},
		{"nested pair type", "begin pair(pair(int, int), int) p = null end", diag.SynExpectType},
		{"lexer error", "begin char c = 'ab' end", diag.LexBadCharLiteral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, errs := parseSrc(t, tt.src)
			if res.Tree != nil {
				t.Fatalf("expected no tree, got %s", res.Tree)
			}
			if len(errs) == 0 {
				t.Fatal("expected diagnostics")
			}
			if errs[0].Code != tt.code {
				t.Fatalf("first code = %s, want %s (all: %v)", errs[0].Code.ID(), tt.code.ID(), diag.Codes(errs))
			}
			if res.Errors == 0 {
				t.Fatal("error count not propagated")
			}
		})
	}
}

func TestParseRecoversAfterBadStatement(t *testing.T) {
	_, errs := parseSrc(t, "begin int x = ; bool b = 1 + ; skip end")
	if len(errs) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %v", len(errs), errs)
	}
}

func TestParseMaxErrors(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.wacc", []byte("begin int x = ; int y = ; int z = ; skip end"))
	rep := &diag.SliceReporter{}
	res := ParseFile(fs.Get(id), Options{Reporter: rep, MaxErrors: 1})
	if len(rep.Items) != 1 {
		t.Fatalf("reported %d diagnostics, want 1", len(rep.Items))
	}
	if res.Errors != 3 {
		t.Fatalf("counted %d errors, want 3", res.Errors)
	}
}
