package types

import (
	"errors"
	"testing"

	"waccc/internal/diag"
)

func allTypes() []*Type {
	intArr := MakeArray(Int)
	return []*Type{
		Int, Bool, Char, String, EmptyArray, AnyPair,
		intArr,
		MakeArrayN(Char, 2),
		MakePair(Int, Char),
		MakePair(AnyPair, MakeArray(Bool)),
		MakeArray(MakePair(Int, Int)),
	}
}

func TestMatchesIsReflexive(t *testing.T) {
	for _, typ := range allTypes() {
		if !Matches(typ, typ) {
			t.Errorf("%s does not match itself", typ)
		}
	}
}

func TestAnyPairMatchesEveryPair(t *testing.T) {
	for _, typ := range allTypes() {
		if typ.Kind != KindPair {
			continue
		}
		if !Matches(AnyPair, typ) || !Matches(typ, AnyPair) {
			t.Errorf("AnyPair and %s do not match both ways", typ)
		}
	}
}

func TestArrayMatchesEmptyArray(t *testing.T) {
	for _, elem := range []*Type{Int, Bool, Char, String, MakePair(Int, Int), MakeArray(Int)} {
		arr := MakeArray(elem)
		if !Matches(arr, EmptyArray) {
			t.Errorf("%s does not accept []", arr)
		}
	}
}

func TestMatchesTable(t *testing.T) {
	tests := []struct {
		declared, actual *Type
		want             bool
	}{
		{Int, Char, false},
		{String, MakeArray(Char), true},
		{MakeArray(Char), String, false},
		{MakeArray(Int), MakeArrayN(Int, 2), false},
		{MakeArrayN(Int, 2), MakeArray(EmptyArray), true},
		{MakeArray(String), MakeArray(MakeArray(Char)), true},
		{MakePair(Int, Char), MakePair(Int, Bool), false},
		{MakePair(Int, AnyPair), MakePair(Int, MakePair(Bool, Bool)), true},
		{MakePair(Int, MakePair(Bool, Bool)), MakePair(Int, AnyPair), true},
		{MakePair(Int, Int), Int, false},
		{AnyPair, MakeArray(Int), false},
		{Int, nil, false},
	}
	for _, tt := range tests {
		if got := Matches(tt.declared, tt.actual); got != tt.want {
			t.Errorf("Matches(%s, %s) = %v, want %v", tt.declared, tt.actual, got, tt.want)
		}
	}
}

func TestRefineKeepsDeclaredSlots(t *testing.T) {
	declared := MakePair(Int, Char)
	if got := Refine(declared, AnyPair); got != declared {
		t.Fatalf("Refine with null changed the declared type to %s", got)
	}
	inner := MakePair(Bool, Bool)
	got := Refine(MakePair(Int, AnyPair), MakePair(Int, inner))
	if !Equal(got, MakePair(Int, inner)) {
		t.Fatalf("Refine = %s", got)
	}
	// объявленный слот не расширяется
	got = Refine(MakePair(Int, Char), MakePair(Int, Bool))
	if !Equal(got, MakePair(Int, Char)) {
		t.Fatalf("Refine widened to %s", got)
	}
}

func TestEqualIsStructural(t *testing.T) {
	if !Equal(MakeArrayN(Int, 2), MakeArray(MakeArray(Int))) {
		t.Fatal("equal arrays reported different")
	}
	if Equal(MakePair(Int, AnyPair), MakePair(Int, MakePair(Int, Int))) {
		t.Fatal("Equal must not use wildcard matching")
	}
}

func TestSize(t *testing.T) {
	tests := map[*Type]uint32{Int: 4, Bool: 1, Char: 1, String: 4, AnyPair: 4, MakeArray(Char): 4}
	for typ, want := range tests {
		if got := Size(typ); got != want {
			t.Errorf("Size(%s) = %d, want %d", typ, got, want)
		}
	}
}

func TestNested(t *testing.T) {
	arr := MakeArrayN(Char, 3)
	if got := Nested(arr, 1); !Equal(got, MakeArrayN(Char, 2)) {
		t.Fatalf("Nested(1) = %s", got)
	}
	if got := Nested(arr, 3); got != Char {
		t.Fatalf("Nested(3) = %s", got)
	}
}

func TestNestedTooDeepIsInternalError(t *testing.T) {
	var err error
	func() {
		defer diag.RecoverInternal(&err)
		Nested(MakeArray(Int), 2)
	}()
	var ie *diag.InternalError
	if !errors.As(err, &ie) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestString(t *testing.T) {
	tests := map[string]*Type{
		"int":                  Int,
		"char[][]":             MakeArrayN(Char, 2),
		"pair(int, pair)":      MakePair(Int, MakePair(Int, Int)),
		"pair(int[], bool)[]":  MakeArray(MakePair(MakeArray(Int), Bool)),
		"pair(pair, char)[][]": MakeArrayN(MakePair(MakePair(Int, Int), Char), 2),
		"pair":                 AnyPair,
	}
	for want, typ := range tests {
		if got := typ.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
