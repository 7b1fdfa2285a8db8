package types

// Matches reports whether a location of type declared accepts a value of type
// actual. The relation is directional: string accepts char[] but char[] does
// not accept string. It is reflexive for every concrete type.
func Matches(declared, actual *Type) bool {
	if declared == nil || actual == nil {
		return false
	}
	switch declared.Kind {
	case KindInt, KindBool, KindChar:
		return actual.Kind == declared.Kind
	case KindString:
		return actual.Kind == KindString || actual.IsCharArray()
	case KindArray:
		switch actual.Kind {
		case KindEmptyArray:
			return true
		case KindArray:
			return Matches(Peel(declared), Peel(actual))
		}
		return false
	case KindEmptyArray:
		return actual.IsArray()
	case KindPair:
		switch actual.Kind {
		case KindAnyPair:
			return true
		case KindPair:
			return Matches(declared.Fst, actual.Fst) && Matches(declared.Snd, actual.Snd)
		}
		return false
	case KindAnyPair:
		return actual.IsPair()
	}
	return false
}

// Refine fills the untyped pair slots of declared from a concrete actual
// pair type. Everything else keeps the declared shape, so a later
// declaration cannot widen what was written.
func Refine(declared, actual *Type) *Type {
	switch {
	case declared.Kind == KindAnyPair && actual.Kind == KindPair:
		return actual
	case declared.Kind == KindPair && actual.Kind == KindPair:
		fst := refineSlot(declared.Fst, actual.Fst)
		snd := refineSlot(declared.Snd, actual.Snd)
		if fst == declared.Fst && snd == declared.Snd {
			return declared
		}
		return MakePair(fst, snd)
	}
	return declared
}

func refineSlot(declared, actual *Type) *Type {
	if declared.Kind == KindAnyPair && actual.Kind == KindPair {
		return actual
	}
	return declared
}
