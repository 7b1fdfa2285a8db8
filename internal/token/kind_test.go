package token

import "testing"

func TestKeywordsRoundTrip(t *testing.T) {
	for k := KwBegin; k <= KwChr; k++ {
		got, ok := LookupKeyword(k.String())
		if !ok || got != k {
			t.Errorf("LookupKeyword(%q) = %v,%v", k.String(), got, ok)
		}
		if !k.IsKeyword() {
			t.Errorf("%v must be a keyword", k)
		}
	}
	if _, ok := LookupKeyword("Begin"); ok {
		t.Error("keywords are case sensitive")
	}
	if Plus.IsKeyword() || Ident.IsKeyword() {
		t.Error("operators and identifiers are not keywords")
	}
}

func TestBaseTypes(t *testing.T) {
	for _, k := range []Kind{KwInt, KwBool, KwChar, KwString} {
		if !k.IsBaseType() {
			t.Errorf("%v should be a base type", k)
		}
	}
	if KwPair.IsBaseType() {
		t.Error("pair is not a base type")
	}
}
