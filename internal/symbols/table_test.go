package symbols

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"waccc/internal/source"
	"waccc/internal/types"
)

func TestDeclareOffsetsAreCumulative(t *testing.T) {
	table := NewTable()
	g := table.Global
	var offsets []uint32
	for _, d := range []struct {
		name string
		typ  *types.Type
	}{
		{"a", types.Int},
		{"b", types.Char},
		{"c", types.Bool},
		{"d", types.MakeArray(types.Int)},
	} {
		id, ok := table.Declare(g, d.name, d.typ, source.Span{})
		if !ok {
			t.Fatalf("declare %s failed", d.name)
		}
		offsets = append(offsets, table.Var(id).Offset)
	}
	if diff := cmp.Diff([]uint32{4, 5, 6, 10}, offsets); diff != "" {
		t.Fatalf("offsets (-want +got):\n%s", diff)
	}
	if fp := table.Scope(g).Footprint; fp != 10 {
		t.Fatalf("footprint = %d, want 10", fp)
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestRedeclarationOnlyInSameScope(t *testing.T) {
	table := NewTable()
	first, _ := table.Declare(table.Global, "x", types.Int, source.Span{})
	if prev, ok := table.Declare(table.Global, "x", types.Char, source.Span{}); ok || prev != first {
		t.Fatalf("redeclaration accepted: %v %v", prev, ok)
	}
	block := table.NewBlock(table.Global, source.Span{})
	inner, ok := table.Declare(block, "x", types.Char, source.Span{})
	if !ok {
		t.Fatal("shadowing in nested block rejected")
	}
	if got, _ := table.Lookup(block, "x"); got != inner {
		t.Fatalf("lookup found %d, want inner %d", got, inner)
	}
	if got, _ := table.Lookup(table.Global, "x"); got != first {
		t.Fatalf("lookup in global found %d", got)
	}
	if table.Scope(table.Global).Footprint != 4 {
		t.Fatal("failed redeclaration changed the footprint")
	}
}

func TestFunctionScopeHidesGlobals(t *testing.T) {
	table := NewTable()
	table.Declare(table.Global, "g", types.Int, source.Span{})
	fn, ok := table.DeclareFunc("f", types.Int, source.Span{})
	if !ok {
		t.Fatal("declare func failed")
	}
	if _, ok := table.BindParam(fn, "p", types.Int, source.Span{}); !ok {
		t.Fatal("bind param failed")
	}
	if _, ok := table.BindParam(fn, "p", types.Char, source.Span{}); ok {
		t.Fatal("duplicate parameter accepted")
	}
	body := table.NewBlock(table.Func(fn).Scope, source.Span{})
	if _, ok := table.Lookup(body, "g"); ok {
		t.Fatal("function body sees a global variable")
	}
	if _, ok := table.Lookup(body, "p"); !ok {
		t.Fatal("function body does not see its parameter")
	}
	if got, ok := table.LookupFunc("f"); !ok || got != fn {
		t.Fatal("function lookup failed")
	}
	if table.EnclosingFunc(body) != fn {
		t.Fatal("EnclosingFunc of body")
	}
	if table.EnclosingFunc(table.NewBlock(table.Global, source.Span{})) != NoFuncID {
		t.Fatal("main block reports an enclosing function")
	}
	if _, ok := table.DeclareFunc("f", types.Bool, source.Span{}); ok {
		t.Fatal("duplicate function accepted")
	}
	if diff := cmp.Diff([]FuncID{fn}, table.Funcs()); diff != "" {
		t.Fatal(diff)
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestFrameChain(t *testing.T) {
	table := NewTable()
	fn, _ := table.DeclareFunc("f", types.Int, source.Span{})
	fscope := table.Func(fn).Scope
	body := table.NewBlock(fscope, source.Span{})
	inner := table.NewBlock(body, source.Span{})
	if diff := cmp.Diff([]ScopeID{inner, body, fscope}, table.FrameChain(inner)); diff != "" {
		t.Fatal(diff)
	}
	mainBlock := table.NewBlock(table.Global, source.Span{})
	if diff := cmp.Diff([]ScopeID{mainBlock, table.Global}, table.FrameChain(mainBlock)); diff != "" {
		t.Fatal(diff)
	}
}

func TestValidateDetectsBrokenFootprint(t *testing.T) {
	table := NewTable()
	table.Declare(table.Global, "x", types.Int, source.Span{})
	table.Scope(table.Global).Footprint = 7
	if err := table.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}
