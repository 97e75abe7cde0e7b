package types

// Combine computes the least upper bound of a and b (spec.md §4.1
// "combine(a, b)"). It is a total function: there is no input pair for
// which Combine panics.
func Combine(a, b Union) Union {
	if a.IsMixed() {
		return mergeFlags(a, b, a.Atoms)
	}
	if b.IsMixed() {
		return mergeFlags(a, b, b.Atoms)
	}
	if a.IsNever() {
		return mergeFlags(a, b, b.Atoms)
	}
	if b.IsNever() {
		return mergeFlags(a, b, a.Atoms)
	}

	atoms := append(append([]Atom{}, a.Atoms...), b.Atoms...)
	return mergeFlags(a, b, combineAtomList(atoms))
}

func mergeFlags(a, b Union, atoms []Atom) Union {
	out := Union{
		Atoms:                    atoms,
		PossiblyUndefined:        a.PossiblyUndefined || b.PossiblyUndefined,
		PossiblyUndefinedFromTry: a.PossiblyUndefinedFromTry || b.PossiblyUndefinedFromTry,
		IgnoreNullableIssues:     a.IgnoreNullableIssues || b.IgnoreNullableIssues,
		IgnoreFalsableIssues:     a.IgnoreFalsableIssues || b.IgnoreFalsableIssues,
	}
	out.DataflowParents = append(append([]DataflowNodeID{}, a.DataflowParents...), b.DataflowParents...)
	if len(out.Atoms) == 0 {
		out.Atoms = []Atom{NeverAtom{}}
	}
	return out
}

// combineAtomList merges every pair of compatible atoms in the list,
// repeating until no further merge is possible, and drops duplicate
// NeverAtoms that snuck in alongside real atoms (invariant 2).
func combineAtomList(atoms []Atom) []Atom {
	// Drop Never when any other atom is present.
	if len(atoms) > 1 {
		filtered := atoms[:0:0]
		for _, a := range atoms {
			if _, ok := a.(NeverAtom); ok {
				continue
			}
			filtered = append(filtered, a)
		}
		if len(filtered) > 0 {
			atoms = filtered
		}
	}

	changed := true
	for changed {
		changed = false
		for i := 0; i < len(atoms); i++ {
			for j := i + 1; j < len(atoms); j++ {
				if merged, ok := combineAtomPair(atoms[i], atoms[j]); ok {
					atoms[i] = merged
					atoms = append(atoms[:j], atoms[j+1:]...)
					changed = true
					break
				}
			}
			if changed {
				break
			}
		}
	}
	return atoms
}

// combineAtomPair attempts to merge two atoms of the same kind into one.
// ok == false means the pair must stay as two distinct set members (e.g.
// two literals of different classes, or atoms of incompatible kinds).
func combineAtomPair(a, b Atom) (Atom, bool) {
	switch av := a.(type) {
	case Null:
		if _, ok := b.(Null); ok {
			return Null{}, true
		}
	case Void:
		if _, ok := b.(Void); ok {
			return Void{}, true
		}
	case Bool:
		if bv, ok := b.(Bool); ok {
			if av.Value == bv.Value {
				return av, true
			}
			return Bool{Value: TriEither}, true
		}
	case Integer:
		if bv, ok := b.(Integer); ok {
			return combineIntegers(av, bv)
		}
	case Float:
		if bv, ok := b.(Float); ok {
			if av.HasLiteral && bv.HasLiteral {
				if av.Literal == bv.Literal {
					return av, true
				}
				return Atom(nil), false
			}
			return Float{}, true
		}
	case Str:
		if bv, ok := b.(Str); ok {
			return combineStrings(av, bv)
		}
	case ClassLikeStr:
		if bv, ok := b.(ClassLikeStr); ok {
			if av.HasLiteral && bv.HasLiteral {
				if av.ClassID == bv.ClassID {
					return av, true
				}
				return Atom(nil), false
			}
			return ClassLikeStr{}, true
		}
	case Number:
		if _, ok := b.(Number); ok {
			return Number{}, true
		}
	case Resource:
		if bv, ok := b.(Resource); ok {
			if av.State == bv.State {
				return av, true
			}
			return Resource{State: TriEither}, true
		}
	case List:
		if bv, ok := b.(List); ok {
			return combineLists(av, bv), true
		}
	case Keyed:
		if bv, ok := b.(Keyed); ok {
			return combineKeyed(av, bv), true
		}
	case ObjectNamed:
		if bv, ok := b.(ObjectNamed); ok && av.Name == bv.Name {
			return combineObjectNamed(av, bv), true
		}
	case ObjectEnum:
		if bv, ok := b.(ObjectEnum); ok && av.Name == bv.Name {
			if av.CaseName == bv.CaseName {
				return av, true
			}
			return ObjectEnum{Name: av.Name}, true
		}
	case ObjectGeneric:
		if bv, ok := b.(ObjectGeneric); ok && av.Name == bv.Name {
			return av, true
		}
	case GenericParam:
		if bv, ok := b.(GenericParam); ok && av.Name == bv.Name {
			return GenericParam{Name: av.Name, Constraint: Combine(av.Constraint, bv.Constraint), DefiningEntity: av.DefiningEntity}, true
		}
	case Reference:
		if bv, ok := b.(Reference); ok && av == bv {
			return av, true
		}
	case Callable:
		if bv, ok := b.(Callable); ok {
			return combineCallables(av, bv)
		}
	case Mixed:
		if bv, ok := b.(Mixed); ok {
			if av.Shape == bv.Shape {
				return av, true
			}
			return Mixed{Shape: MixedVanilla}, true
		}
	}
	return nil, false
}

func combineIntegers(a, b Integer) (Atom, bool) {
	if a.Shape == IntAny || b.Shape == IntAny {
		return Integer{Shape: IntAny}, true
	}
	asRange := func(i Integer) (int64, int64, bool) {
		switch i.Shape {
		case IntLiteral:
			return i.Literal, i.Literal, true
		case IntRange:
			return i.Min, i.Max, true
		default:
			return 0, 0, false
		}
	}
	aMin, aMax, aOK := asRange(a)
	bMin, bMax, bOK := asRange(b)
	if aOK && bOK {
		// Two distinct literals stay distinct set members. Otherwise merge
		// only when overlapping or adjacent; disjoint ranges stay distinct
		// set members (spec.md §4.1).
		if a.Shape == IntLiteral && b.Shape == IntLiteral && a.Literal != b.Literal {
			return nil, false
		}
		if aMin > bMax+1 || bMin > aMax+1 {
			return nil, false
		}
		min, max := aMin, aMax
		if bMin < min {
			min = bMin
		}
		if bMax > max {
			max = bMax
		}
		if min == max {
			return NewIntLiteral(min), true
		}
		return NewIntRange(min, max), true
	}
	if a.Shape == b.Shape {
		return a, true
	}
	return nil, false
}

func combineStrings(a, b Str) (Atom, bool) {
	if a.LiteralShape == StrLiteralValue && b.LiteralShape == StrLiteralValue {
		if a.Value == b.Value {
			return a, true
		}
		return nil, false
	}
	return Str{
		IsNumeric:  a.IsNumeric && b.IsNumeric,
		IsTruthy:   a.IsTruthy && b.IsTruthy,
		IsNonEmpty: a.IsNonEmpty && b.IsNonEmpty,
	}, true
}

func combineLists(a, b List) List {
	out := List{
		ElementType: Combine(a.ElementType, b.ElementType),
		NonEmpty:    a.NonEmpty && b.NonEmpty,
	}
	if a.HasKnownCount && b.HasKnownCount && a.KnownCount == b.KnownCount {
		out.HasKnownCount = true
		out.KnownCount = a.KnownCount
	}
	if a.KnownElements != nil && b.KnownElements != nil {
		merged := make(map[int]ListElement)
		for idx, el := range a.KnownElements {
			if other, ok := b.KnownElements[idx]; ok {
				merged[idx] = ListElement{
					PossiblyUndefined: el.PossiblyUndefined || other.PossiblyUndefined,
					Type:              Combine(el.Type, other.Type),
				}
			} else {
				merged[idx] = ListElement{PossiblyUndefined: true, Type: el.Type}
			}
		}
		for idx, el := range b.KnownElements {
			if _, ok := a.KnownElements[idx]; !ok {
				merged[idx] = ListElement{PossiblyUndefined: true, Type: el.Type}
			}
		}
		out.KnownElements = merged
		return out
	}
	// Once either side is widened, the whole result is widened
	// (invariant 4): derive ElementType from whichever side had known
	// elements so precision degrades gracefully instead of disappearing.
	out.ElementType = Combine(out.ElementType, listElementTypeOf(a))
	out.ElementType = Combine(out.ElementType, listElementTypeOf(b))
	return out
}

func listElementTypeOf(l List) Union {
	if l.KnownElements == nil {
		return l.ElementType
	}
	result := Never()
	for _, el := range l.KnownElements {
		result = Combine(result, el.Type)
	}
	return result
}

func combineKeyed(a, b Keyed) Keyed {
	out := Keyed{NonEmpty: a.NonEmpty && b.NonEmpty}
	if a.KnownItems != nil && b.KnownItems != nil {
		merged := make(map[ArrayKey]KeyedElement)
		for k, el := range a.KnownItems {
			if other, ok := b.KnownItems[k]; ok {
				merged[k] = KeyedElement{
					PossiblyUndefined: el.PossiblyUndefined || other.PossiblyUndefined,
					Type:              Combine(el.Type, other.Type),
				}
			} else {
				merged[k] = KeyedElement{PossiblyUndefined: true, Type: el.Type}
			}
		}
		for k, el := range b.KnownItems {
			if _, ok := a.KnownItems[k]; !ok {
				merged[k] = KeyedElement{PossiblyUndefined: true, Type: el.Type}
			}
		}
		out.KnownItems = merged
		return out
	}
	keyU, valU := keyedParamsOf(a)
	bKey, bVal := keyedParamsOf(b)
	kU := Combine(keyU, bKey)
	vU := Combine(valU, bVal)
	out.Parameters = &KeyedParams{Key: kU, Value: vU}
	return out
}

func keyedParamsOf(k Keyed) (Union, Union) {
	if k.Parameters != nil {
		return k.Parameters.Key, k.Parameters.Value
	}
	key, val := Never(), Never()
	for ak, el := range k.KnownItems {
		if ak.IsString {
			key = Combine(key, Single(Str{LiteralShape: StrLiteralValue, Value: ak.StrKey}))
		} else {
			key = Combine(key, Single(NewIntLiteral(ak.IntKey)))
		}
		val = Combine(val, el.Type)
	}
	return key, val
}

func combineObjectNamed(a, b ObjectNamed) ObjectNamed {
	out := ObjectNamed{Name: a.Name, IsThisContext: a.IsThisContext && b.IsThisContext}
	if len(a.GenericParameters) == len(b.GenericParameters) && len(a.GenericParameters) > 0 {
		out.GenericParameters = make([]Union, len(a.GenericParameters))
		for i := range a.GenericParameters {
			out.GenericParameters[i] = Combine(a.GenericParameters[i], b.GenericParameters[i])
		}
	}
	return out
}

func combineCallables(a, b Callable) (Atom, bool) {
	if a.AliasOf != "" && a.AliasOf == b.AliasOf {
		return a, true
	}
	if a.Sig != nil && b.Sig != nil && len(a.Sig.Params) == len(b.Sig.Params) {
		params := make([]Param, len(a.Sig.Params))
		for i := range a.Sig.Params {
			params[i] = Param{
				Name:     a.Sig.Params[i].Name,
				Type:     Combine(a.Sig.Params[i].Type, b.Sig.Params[i].Type),
				ByRef:    a.Sig.Params[i].ByRef && b.Sig.Params[i].ByRef,
				Variadic: a.Sig.Params[i].Variadic || b.Sig.Params[i].Variadic,
				Optional: a.Sig.Params[i].Optional || b.Sig.Params[i].Optional,
			}
		}
		return Callable{Sig: &Signature{Params: params, Return: Combine(a.Sig.Return, b.Sig.Return)}}, true
	}
	return nil, false
}
