package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"waccc/internal/diag"
	"waccc/internal/parser"
	"waccc/internal/sema"
	"waccc/internal/source"
)

func TestFormatAST(t *testing.T) {
	src := `begin
  int inc(int x) is return x + 1 end
  int y = call inc(41) ;
  if y > 0 then println "pos" else skip fi
end`
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.wacc", []byte(src))
	rep := &diag.SliceReporter{}
	res := parser.ParseFile(fs.Get(id), parser.Options{Reporter: rep})
	if res.Tree == nil {
		t.Fatalf("parse: %v", rep.Items)
	}
	built := sema.Build(res.Tree, sema.Options{})
	if !built.OK() {
		t.Fatalf("sema: %v", built.Errors())
	}
	var buf bytes.Buffer
	if err := FormatAST(&buf, built.Value()); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"Program (global frame: 4 bytes)",
		"├─ Func inc(int x) int (params: 4 bytes)",
		"│  └─ Return",
		"│     └─ Binary + : int",
		"│        ├─ Ident x : int",
		"│        └─ IntLit 1 : int",
		"└─ Main",
		"   ├─ Declare int y",
		"   │  └─ Call inc : int",
		"   │     └─ IntLit 41 : int",
		"   └─ If",
		"      ├─ Cond",
		"      │  └─ Binary > : bool",
		"      │     ├─ Ident y : int",
		"      │     └─ IntLit 0 : int",
		"      ├─ Then (frame: 0 bytes)",
		"      │  └─ Println",
		"      │     └─ StrLit \"pos\" : string",
		"      └─ Else (frame: 0 bytes)",
		"         └─ Skip",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}
