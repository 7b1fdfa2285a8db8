package testkit

import (
	"testing"

	"waccc/internal/diag"
	"waccc/internal/parser"
	"waccc/internal/parsetree"
	"waccc/internal/source"
)

func TestParsedTreesKeepSpanInvariants(t *testing.T) {
	srcs := []string{
		`begin skip end`,
		`begin int f(int x) is return x * 2 end int y = call f(3) ; println y end`,
		`begin pair(int, string) p = newpair(1, "a") ; fst p = 2 ; string s = snd p ; if len s > 0 then print "ok" fi end`,
	}
	for _, src := range srcs {
		fs := source.NewFileSet()
		id := fs.AddVirtual("t.wacc", []byte(src))
		rep := &diag.SliceReporter{}
		res := parser.ParseFile(fs.Get(id), parser.Options{Reporter: rep})
		if res.Tree == nil {
			t.Fatalf("%q: parse failed: %v", src, rep.Items)
		}
		if err := CheckSpanInvariants(res.Tree, fs.Get(id)); err != nil {
			t.Fatalf("%q: %v", src, err)
		}
	}
}

func TestCheckSpanInvariantsRejectsEscapingChild(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.wacc", []byte("begin skip end"))
	child := &parsetree.Node{Kind: parsetree.Skip, Span: source.Span{File: id, Start: 6, End: 20}}
	root := &parsetree.Node{Kind: parsetree.Program, Span: source.Span{File: id, Start: 0, End: 14}, Children: []*parsetree.Node{child}}
	if err := CheckSpanInvariants(root, fs.Get(id)); err == nil {
		t.Fatal("expected an error for a child outside its parent")
	}
}
