// Package types describes the semantic types of the language and the
// directional compatibility relation between them.
package types

import (
	"fmt"
	"strings"

	"waccc/internal/diag"
)

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindBool
	KindChar
	KindString
	KindArray
	KindEmptyArray // тип литерала []
	KindPair
	KindAnyPair // null и стёртые вложенные пары
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindEmptyArray:
		return "empty array"
	case KindPair:
		return "pair"
	case KindAnyPair:
		return "any pair"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is an immutable descriptor. Arrays store their innermost non-array
// element and the number of dimensions; pairs store both slot types.
type Type struct {
	Kind  Kind
	Elem  *Type  // for arrays: never an array itself
	Depth uint32 // for arrays: >= 1
	Fst   *Type  // for pairs
	Snd   *Type  // for pairs
}

// Shared descriptors for the types without components.
var (
	Int        = &Type{Kind: KindInt}
	Bool       = &Type{Kind: KindBool}
	Char       = &Type{Kind: KindChar}
	String     = &Type{Kind: KindString}
	EmptyArray = &Type{Kind: KindEmptyArray}
	AnyPair    = &Type{Kind: KindAnyPair}
)

// Descriptor helpers ---------------------------------------------------------

// MakeArray describes an array with one more dimension than elem.
func MakeArray(elem *Type) *Type {
	if elem.Kind == KindArray {
		return &Type{Kind: KindArray, Elem: elem.Elem, Depth: elem.Depth + 1}
	}
	return &Type{Kind: KindArray, Elem: elem, Depth: 1}
}

// MakeArrayN describes elem[] repeated depth times.
func MakeArrayN(elem *Type, depth uint32) *Type {
	t := elem
	for range depth {
		t = MakeArray(t)
	}
	return t
}

// MakePair describes pair(fst, snd).
func MakePair(fst, snd *Type) *Type {
	return &Type{Kind: KindPair, Fst: fst, Snd: snd}
}

// IsArray reports whether t is an array or the empty array literal type.
func (t *Type) IsArray() bool {
	return t.Kind == KindArray || t.Kind == KindEmptyArray
}

// IsPair reports whether t is a pair, typed or not.
func (t *Type) IsPair() bool {
	return t.Kind == KindPair || t.Kind == KindAnyPair
}

// IsCharArray reports whether t is char[]; such arrays share the string layout.
func (t *Type) IsCharArray() bool {
	return t.Kind == KindArray && t.Depth == 1 && t.Elem.Kind == KindChar
}

// Size returns the number of bytes a value of t occupies on the stack.
func Size(t *Type) uint32 {
	switch t.Kind {
	case KindChar, KindBool:
		return 1
	default:
		return 4
	}
}

// Peel removes one array dimension.
func Peel(arr *Type) *Type {
	if arr.Kind != KindArray {
		diag.Invariantf("types.Peel", "%s is not an array", arr)
	}
	if arr.Depth == 1 {
		return arr.Elem
	}
	return &Type{Kind: KindArray, Elem: arr.Elem, Depth: arr.Depth - 1}
}

// Nested returns the type reached after indexing arr depth times. Asking for
// more dimensions than arr has is a compiler defect.
func Nested(arr *Type, depth uint32) *Type {
	if depth == 0 {
		return arr
	}
	if arr.Kind != KindArray || depth > arr.Depth {
		diag.Invariantf("types.Nested", "cannot index %s %d times", arr, depth)
	}
	if depth == arr.Depth {
		return arr.Elem
	}
	return &Type{Kind: KindArray, Elem: arr.Elem, Depth: arr.Depth - depth}
}

// Equal is structural equality.
func Equal(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindArray:
		return a.Depth == b.Depth && Equal(a.Elem, b.Elem)
	case KindPair:
		return Equal(a.Fst, b.Fst) && Equal(a.Snd, b.Snd)
	default:
		return true
	}
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindArray:
		return t.Elem.String() + strings.Repeat("[]", int(t.Depth))
	case KindEmptyArray:
		return "[]"
	case KindPair:
		return fmt.Sprintf("pair(%s, %s)", t.Fst.slotString(), t.Snd.slotString())
	case KindAnyPair:
		return "pair"
	default:
		return t.Kind.String()
	}
}

// slotString prints a pair nested in a pair the way it is written in
// source: as bare 'pair'.
func (t *Type) slotString() string {
	if t.Kind == KindPair {
		return "pair"
	}
	return t.String()
}
