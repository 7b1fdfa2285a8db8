package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"waccc/internal/diag"
	"waccc/internal/source"
	"waccc/internal/token"
)

func lexAll(t *testing.T, src string) ([]token.Token, []diag.Diagnostic) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.wacc", []byte(src))
	rep := &diag.SliceReporter{}
	lx := New(fs.Get(id), Options{Reporter: rep})
	return lx.All(), rep.Items
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexProgram(t *testing.T) {
	toks, errs := lexAll(t, "begin # comment\n  int x = -12 ;\n  println x >= 3 && !true\nend")
	if len(errs) != 0 {
		t.Fatalf("unexpected diagnostics: %v", errs)
	}
	want := []token.Kind{
		token.KwBegin,
		token.KwInt, token.Ident, token.Assign, token.Minus, token.IntLit, token.Semicolon,
		token.KwPrintln, token.Ident, token.GtEq, token.IntLit, token.AndAnd, token.Bang, token.KwTrue,
		token.KwEnd, token.EOF,
	}
	if diff := cmp.Diff(want, kinds(toks)); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	if toks[2].Text != "x" || toks[5].Text != "12" {
		t.Fatalf("texts: %q %q", toks[2].Text, toks[5].Text)
	}
}

func TestLexLiterals(t *testing.T) {
	toks, errs := lexAll(t, `'a' '\n' "hi\t\"there\"" null`)
	if len(errs) != 0 {
		t.Fatalf("unexpected diagnostics: %v", errs)
	}
	want := []token.Kind{token.CharLit, token.CharLit, token.StringLit, token.KwNull, token.EOF}
	if diff := cmp.Diff(want, kinds(toks)); diff != "" {
		t.Fatal(diff)
	}
	c, err := UnquoteChar(toks[1].Text)
	if err != nil || c != '\n' {
		t.Fatalf("UnquoteChar = %q, %v", c, err)
	}
	s, err := UnquoteString(toks[2].Text)
	if err != nil || s != "hi\t\"there\"" {
		t.Fatalf("UnquoteString = %q, %v", s, err)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
	}{
		{`"open`, diag.LexUnterminatedString},
		{"\"line\nbreak\"", diag.LexUnterminatedString},
		{`'ab'`, diag.LexBadCharLiteral},
		{`''`, diag.LexBadCharLiteral},
		{`'\q'`, diag.LexBadEscape},
		{`x @ y`, diag.LexUnknownChar},
		{`a & b`, diag.LexUnknownChar},
	}
	for _, tt := range tests {
		_, errs := lexAll(t, tt.src)
		if len(errs) == 0 || errs[0].Code != tt.code {
			t.Errorf("%q: got %v, want first code %v", tt.src, diag.Codes(errs), tt.code)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	lx := New(fs.Get(fs.AddVirtual("p.wacc", []byte("skip end"))), Options{})
	if lx.Peek().Kind != token.KwSkip || lx.Peek().Kind != token.KwSkip {
		t.Fatal("peek must be idempotent")
	}
	if lx.Next().Kind != token.KwSkip || lx.Next().Kind != token.KwEnd || lx.Next().Kind != token.EOF {
		t.Fatal("unexpected token order")
	}
	if lx.Next().Kind != token.EOF {
		t.Fatal("EOF must be sticky")
	}
}
