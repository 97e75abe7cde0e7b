package types

import "reflect"

// Subtract removes from a every inhabitant also covered by b (spec.md
// §4.1 "subtract(a, b)"). Subtract(a, never) == a and Subtract(a, a) ==
// never hold for every a (spec.md §8 property 2).
func Subtract(a, b Union) Union {
	if b.IsNever() {
		return a
	}
	if a.IsNever() {
		return a
	}

	atoms := append([]Atom{}, a.Atoms...)
	for _, bAtom := range b.Atoms {
		atoms = subtractAtomFromList(atoms, bAtom)
	}
	if len(atoms) == 0 {
		na := Never()
		na.PossiblyUndefined = a.PossiblyUndefined
		return na
	}
	out := Union{Atoms: combineAtomList(atoms)}
	out.PossiblyUndefined = a.PossiblyUndefined
	out.PossiblyUndefinedFromTry = a.PossiblyUndefinedFromTry
	return out
}

func subtractAtomFromList(atoms []Atom, b Atom) []Atom {
	var out []Atom
	for _, a := range atoms {
		out = append(out, subtractSingle(a, b)...)
	}
	return out
}

// subtractSingle removes b's inhabitants from a, returning zero, one, or
// (for a range split in the middle) two replacement atoms.
func subtractSingle(a, b Atom) []Atom {
	switch av := a.(type) {
	case Bool:
		if bv, ok := b.(Bool); ok {
			return subtractBool(av, bv)
		}
	case Integer:
		if bv, ok := b.(Integer); ok {
			return subtractInteger(av, bv)
		}
	case Resource:
		if bv, ok := b.(Resource); ok {
			return subtractTri(av.State, bv.State, func(t Tri) Atom { return Resource{State: t} })
		}
	case ObjectEnum:
		if bv, ok := b.(ObjectEnum); ok && av.Name == bv.Name {
			if bv.CaseName == "" {
				return nil // b covers every case of this enum
			}
			if av.CaseName == bv.CaseName {
				return nil
			}
			// av is a bare enum (any case) and b names one case: without
			// the full case list (owned by the codebase index, not this
			// package) we cannot precisely split av into "every case but
			// bv.CaseName". Match (internal/analyzer) performs the
			// cap-bounded expansion itself via ExpandEnumCases and calls
			// Subtract per-case instead of relying on this fallback.
			return []Atom{av}
		}
	case Mixed:
		// Top minus anything stays top unless b is also vanilla mixed,
		// handled by the equality fallback below.
	}
	if reflect.DeepEqual(a, b) {
		return nil
	}
	return []Atom{a}
}

func subtractBool(a, b Bool) []Atom {
	if a.Value != TriEither {
		if a.Value == b.Value || b.Value == TriEither {
			return nil
		}
		return []Atom{a}
	}
	switch b.Value {
	case TriTrue:
		return []Atom{Bool{Value: TriFalse}}
	case TriFalse:
		return []Atom{Bool{Value: TriTrue}}
	default:
		return nil
	}
}

func subtractTri(a, b Tri, wrap func(Tri) Atom) []Atom {
	if a != TriEither {
		if a == b || b == TriEither {
			return nil
		}
		return []Atom{wrap(a)}
	}
	switch b {
	case TriTrue:
		return []Atom{wrap(TriFalse)}
	case TriFalse:
		return []Atom{wrap(TriTrue)}
	default:
		return nil
	}
}

func subtractInteger(a, b Integer) []Atom {
	aMin, aMax, aOK := integerBounds(a)
	bMin, bMax, bOK := integerBounds(b)
	if !aOK || !bOK {
		// An Unspecified/Positive/NonNegative/Any shape can't be split
		// precisely; keep it (conservative).
		if reflect.DeepEqual(a, b) {
			return nil
		}
		return []Atom{a}
	}
	if bMax < aMin || bMin > aMax {
		return []Atom{a} // disjoint, nothing removed
	}
	var out []Atom
	if bMin > aMin {
		out = append(out, rangeAtom(aMin, bMin-1))
	}
	if bMax < aMax {
		out = append(out, rangeAtom(bMax+1, aMax))
	}
	return out
}

func integerBounds(i Integer) (int64, int64, bool) {
	switch i.Shape {
	case IntLiteral:
		return i.Literal, i.Literal, true
	case IntRange:
		return i.Min, i.Max, true
	default:
		return 0, 0, false
	}
}

func rangeAtom(min, max int64) Atom {
	if min == max {
		return NewIntLiteral(min)
	}
	return NewIntRange(min, max)
}
