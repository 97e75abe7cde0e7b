package types

// Truthy projects u to the sub-union implied by a truthy assertion
// (spec.md §4.1 "truthy(u)").
func Truthy(u Union) Union { return project(u, true) }

// Falsy projects u to the sub-union implied by a falsy assertion.
func Falsy(u Union) Union { return project(u, false) }

func project(u Union, wantTruthy bool) Union {
	var atoms []Atom
	for _, a := range u.Atoms {
		if p, ok := projectAtom(a, wantTruthy); ok {
			atoms = append(atoms, p)
		}
	}
	out := u
	out.Atoms = atoms
	if len(out.Atoms) == 0 {
		return Never()
	}
	return out
}

// projectAtom returns the truthy/falsy-narrowed form of a, and false if a
// has no inhabitant satisfying the requested truthiness at all.
func projectAtom(a Atom, wantTruthy bool) (Atom, bool) {
	switch av := a.(type) {
	case Null:
		return a, !wantTruthy
	case Void:
		return a, !wantTruthy
	case Bool:
		switch av.Value {
		case TriTrue:
			return a, wantTruthy
		case TriFalse:
			return a, !wantTruthy
		default:
			if wantTruthy {
				return Bool{Value: TriTrue}, true
			}
			return Bool{Value: TriFalse}, true
		}
	case Integer:
		if av.Shape == IntLiteral {
			isTruthy := av.Literal != 0
			return a, isTruthy == wantTruthy
		}
		if av.Shape == IntPositive {
			return a, wantTruthy
		}
		return a, true // Range/Unspecified/NonNegative/Any may straddle zero
	case Float:
		if av.HasLiteral {
			isTruthy := av.Literal != 0
			return a, isTruthy == wantTruthy
		}
		return a, true
	case Str:
		if av.LiteralShape == StrLiteralValue {
			isTruthy := av.Value != "" && av.Value != "0"
			return a, isTruthy == wantTruthy
		}
		if av.IsTruthy {
			return a, wantTruthy
		}
		out := av
		if wantTruthy {
			out.IsTruthy = true
		}
		return out, true
	case List:
		if av.NonEmpty {
			return a, wantTruthy
		}
		return a, true
	case Keyed:
		if av.NonEmpty {
			return a, wantTruthy
		}
		return a, true
	case Mixed:
		switch av.Shape {
		case MixedTruthy:
			return a, wantTruthy
		case MixedFalsy:
			return a, !wantTruthy
		default:
			if wantTruthy {
				return Mixed{Shape: MixedTruthy}, true
			}
			return Mixed{Shape: MixedFalsy}, true
		}
	default:
		// Objects, callables, resources, class-strings, generics,
		// references are always truthy.
		return a, wantTruthy
	}
}

// NonNullable projects u to the sub-union with Null removed (spec.md
// §4.1 "non_nullable(u)").
func NonNullable(u Union) Union {
	var atoms []Atom
	for _, a := range u.Atoms {
		if _, ok := a.(Null); ok {
			continue
		}
		atoms = append(atoms, a)
	}
	out := u
	out.Atoms = atoms
	if len(out.Atoms) == 0 {
		return Never()
	}
	return out
}

// HasNull reports whether u's atoms include the Null atom.
func HasNull(u Union) bool {
	for _, a := range u.Atoms {
		if _, ok := a.(Null); ok {
			return true
		}
	}
	return false
}

// ToNumeric projects u to the sub-union of int/float-shaped atoms plus
// numeric strings (spec.md §4.1 "to_numeric(u)").
func ToNumeric(u Union) Union {
	var atoms []Atom
	for _, a := range u.Atoms {
		switch av := a.(type) {
		case Integer, Float, Number:
			atoms = append(atoms, av)
		case Str:
			if av.IsNumeric {
				atoms = append(atoms, av)
			}
		}
	}
	out := u
	out.Atoms = atoms
	if len(out.Atoms) == 0 {
		return Never()
	}
	return out
}
