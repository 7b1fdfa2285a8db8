package diag

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"waccc/internal/source"
)

func errAt(code Code, start uint32) Diagnostic {
	return New(SevError, code, source.Span{Start: start, End: start + 1}, code.Title())
}

func TestMap2ConcatenatesBothSides(t *testing.T) {
	left := Fail[int](errAt(SemaTypeMismatch, 1))
	right := Fail[int](errAt(SemaUndefinedIdent, 5), errAt(SemaTypeMismatch, 7))

	got := Map2(left, right, func(a, b int) int { return a + b })
	if got.OK() {
		t.Fatal("expected failure")
	}
	want := []Code{SemaTypeMismatch, SemaUndefinedIdent, SemaTypeMismatch}
	if diff := cmp.Diff(want, Codes(got.Errors())); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
}

func TestMap2Valid(t *testing.T) {
	got := Map2(Ok(2), Ok(3), func(a, b int) int { return a * b })
	if !got.OK() || got.Value() != 6 {
		t.Fatalf("got %v %v", got.Value(), got.Errors())
	}
}

func TestAllKeepsEveryError(t *testing.T) {
	rs := []Result[string]{
		Ok("a"),
		Fail[string](errAt(SemaArgCount, 1)),
		Ok("c"),
		Fail[string](errAt(SemaTypeMismatch, 2)),
	}
	got := All(rs)
	if diff := cmp.Diff([]Code{SemaArgCount, SemaTypeMismatch}, Codes(got.Errors())); diff != "" {
		t.Fatal(diff)
	}

	ok := All([]Result[string]{Ok("x"), Ok("y")})
	if diff := cmp.Diff([]string{"x", "y"}, ok.Value()); diff != "" {
		t.Fatal(diff)
	}
}

func TestBindSkipsStepOnFailure(t *testing.T) {
	called := false
	r := Bind(Fail[int](errAt(SemaTypeMismatch, 0)), func(int) Result[int] {
		called = true
		return Ok(1)
	})
	if called || r.OK() {
		t.Fatal("step must not run on a failed result")
	}
}

func TestCheckAddsDiagnostics(t *testing.T) {
	r := Check(Ok(1), errAt(SemaRedeclaration, 3))
	if r.OK() {
		t.Fatal("extra diagnostics must invalidate result")
	}
	if r := Check(Ok(1)); !r.OK() {
		t.Fatal("no extra diagnostics keeps value")
	}
}

func TestFailWithoutDiagnosticsIsInternal(t *testing.T) {
	var err error
	func() {
		defer RecoverInternal(&err)
		_ = Fail[int]()
	}()
	var ie *InternalError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InternalError, got %v", err)
	}
}

func TestBagLimitAndClass(t *testing.T) {
	bag := NewBag(2)
	bag.Add(errAt(SynUnexpectedToken, 9))
	bag.Add(errAt(SemaTypeMismatch, 1))
	if bag.Add(errAt(SemaTypeMismatch, 2)) {
		t.Fatal("bag must respect its limit")
	}
	if bag.FirstClass() != ClassSyntactic {
		t.Fatalf("first class = %v", bag.FirstClass())
	}
	bag.Sort()
	if bag.Items()[0].Code != SemaTypeMismatch {
		t.Fatalf("sort by position failed: %v", Codes(bag.Items()))
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.wacc", []byte("begin\n  x = 1\nend\n"))
	d := Errorf(SemaUndefinedIdent, source.Span{File: id, Start: 8, End: 9}, "undefined variable %q", "x").
		WithNote(source.Span{File: id, Start: 0, End: 5}, "in main\nprogram")
	want := "error SEM3001 t.wacc:2:3 undefined variable \"x\"\n" +
		"note SEM3001 t.wacc:1:1 in main program"
	if got := FormatShort([]Diagnostic{d}, fs, true); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}
