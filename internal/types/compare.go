package types

import "reflect"

// IsContainedBy is the subtype test: every inhabitant of a is also an
// inhabitant of b (spec.md §4.1). It is conservative: atoms it cannot
// prove related return false rather than guessing.
func IsContainedBy(a, b Union) bool {
	if a.IsNever() {
		return true
	}
	if b.IsMixed() {
		return true
	}
	for _, av := range a.Atoms {
		if !atomContainedByUnion(av, b) {
			return false
		}
	}
	return true
}

func atomContainedByUnion(a Atom, b Union) bool {
	for _, bv := range b.Atoms {
		if atomContainedByAtom(a, bv) {
			return true
		}
	}
	return false
}

func atomContainedByAtom(a, b Atom) bool {
	if _, ok := b.(Mixed); ok {
		return true
	}
	switch av := a.(type) {
	case Bool:
		if bv, ok := b.(Bool); ok {
			return bv.Value == TriEither || av.Value == bv.Value
		}
		return false
	case Integer:
		if bv, ok := b.(Integer); ok {
			aMin, aMax, aOK := integerBounds(av)
			bMin, bMax, bOK := integerBounds(bv)
			if aOK && bOK {
				return aMin >= bMin && aMax <= bMax
			}
			if bv.Shape == IntAny {
				return true
			}
			return reflect.DeepEqual(av, bv)
		}
		return false
	case Str:
		if bv, ok := b.(Str); ok {
			if bv.LiteralShape == StrLiteralValue {
				return av.LiteralShape == StrLiteralValue && av.Value == bv.Value
			}
			if bv.IsTruthy && !av.IsTruthy {
				return false
			}
			if bv.IsNonEmpty && !av.IsNonEmpty {
				return false
			}
			if bv.IsNumeric && !av.IsNumeric {
				return false
			}
			return true
		}
		return false
	case ObjectEnum:
		if bv, ok := b.(ObjectEnum); ok {
			return av.Name == bv.Name && (bv.CaseName == "" || av.CaseName == bv.CaseName)
		}
		return false
	case Resource:
		if bv, ok := b.(Resource); ok {
			return bv.State == TriEither || av.State == bv.State
		}
		return false
	case ObjectNamed:
		if bv, ok := b.(ObjectNamed); ok {
			return av.Name == bv.Name
		}
		return false
	default:
		return reflect.DeepEqual(a, b)
	}
}

// IsIdenticalTo reports whether a and b are both single and their atoms are
// structurally equal (spec.md §3.1 "is_identical_to"). For an atom with more
// than one inhabitant (int, string, mixed, a bare enum) this is type
// equality, not value identity; IsAlwaysIdenticalTo adds the
// single-inhabitant check that backs `===`.
func IsIdenticalTo(a, b Union) bool {
	if !a.IsSingle() || !b.IsSingle() {
		return false
	}
	return reflect.DeepEqual(a.Atoms[0], b.Atoms[0])
}

// AreDefinitelyNotIdentical reports whether the inhabited intersection of
// a and b is provably empty (spec.md §3.1): neither `===` comparison
// could ever be true.
func AreDefinitelyNotIdentical(a, b Union) bool {
	for _, av := range a.Atoms {
		for _, bv := range b.Atoms {
			if !atomsDefinitelyDisjoint(av, bv) {
				return false
			}
		}
	}
	return true
}

func atomsDefinitelyDisjoint(a, b Atom) bool {
	if _, ok := a.(Mixed); ok {
		return false
	}
	if _, ok := b.(Mixed); ok {
		return false
	}
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return !ok
	case Bool:
		bv, ok := b.(Bool)
		if !ok {
			return true
		}
		if av.Value == TriEither || bv.Value == TriEither {
			return false
		}
		return av.Value != bv.Value
	case Integer:
		bv, ok := b.(Integer)
		if !ok {
			return true
		}
		aMin, aMax, aOK := integerBounds(av)
		bMin, bMax, bOK := integerBounds(bv)
		if aOK && bOK {
			return aMax < bMin || bMax < aMin
		}
		return false
	case Str:
		bv, ok := b.(Str)
		if !ok {
			return true
		}
		if av.LiteralShape == StrLiteralValue && bv.LiteralShape == StrLiteralValue {
			return av.Value != bv.Value
		}
		return false
	case ObjectEnum:
		bv, ok := b.(ObjectEnum)
		if !ok {
			return true
		}
		if av.Name != bv.Name {
			return true
		}
		if av.CaseName == "" || bv.CaseName == "" {
			return false
		}
		return av.CaseName != bv.CaseName
	case ObjectNamed:
		bv, ok := b.(ObjectNamed)
		if !ok {
			return true
		}
		return av.Name != bv.Name
	default:
		switch b.(type) {
		case Mixed:
			return false
		}
		return !sameKind(a, b)
	}
}

func sameKind(a, b Atom) bool {
	return reflect.TypeOf(a) == reflect.TypeOf(b)
}

// IsAlwaysIdenticalTo is the conservative oracle behind redundant-`===`
// comparisons (spec.md §4.1): true only when every inhabitant of a is
// identical to the single inhabitant of b (and vice versa).
func IsAlwaysIdenticalTo(a, b Union) bool {
	return a.IsSingle() && b.IsSingle() && isSingleValueAtom(a.Atoms[0]) && IsIdenticalTo(a, b)
}

// isSingleValueAtom reports whether a has exactly one inhabitant.
func isSingleValueAtom(a Atom) bool {
	switch v := a.(type) {
	case Null:
		return true
	case Bool:
		return v.Value != TriEither
	case Integer:
		return v.Shape == IntLiteral
	case Str:
		return v.LiteralShape == StrLiteralValue
	case ObjectEnum:
		return v.CaseName != ""
	}
	return false
}

// IsAlwaysLessThan, IsAlwaysGreaterThan, IsAlwaysLessThanOrEqual,
// IsAlwaysGreaterThanOrEqual are the conservative comparison oracles from
// spec.md §4.1: they return true only when provably so, for two
// single-Integer unions.
func IsAlwaysLessThan(a, b Union) bool {
	aMax, bMin, ok := integerExtremes(a, b)
	return ok && aMax < bMin
}

func IsAlwaysGreaterThan(a, b Union) bool {
	return IsAlwaysLessThan(b, a)
}

func IsAlwaysLessThanOrEqual(a, b Union) bool {
	aMax, bMin, ok := integerExtremes(a, b)
	return ok && aMax <= bMin
}

func IsAlwaysGreaterThanOrEqual(a, b Union) bool {
	return IsAlwaysLessThanOrEqual(b, a)
}

func integerExtremes(a, b Union) (aMax, bMin int64, ok bool) {
	if !a.IsSingle() || !b.IsSingle() {
		return 0, 0, false
	}
	ai, aok := a.Atoms[0].(Integer)
	bi, bok := b.Atoms[0].(Integer)
	if !aok || !bok {
		return 0, 0, false
	}
	_, aMax, aOK := integerBounds(ai)
	bMin, _, bOK := integerBounds(bi)
	if !aOK || !bOK {
		return 0, 0, false
	}
	return aMax, bMin, true
}
