package config

// SpecialFunction names a closed set of standard-library predicates the
// Assertion Extractor recognizes by resolved name (spec.md §4.2 item 2).
// AssertedAtomKind is the Atom variant the predicate proves true about its
// single argument when it returns a truthy value.
type SpecialFunction struct {
	Name             string
	AssertedAtomKind string
}

// SpecialFunctions is the closed predicate table. It is intentionally a
// fixed list, not extensible at runtime: the assertion extractor only ever
// consults it by resolved name.
var SpecialFunctions = []SpecialFunction{
	{Name: "is_countable", AssertedAtomKind: "Countable"},
	{Name: "is_array", AssertedAtomKind: "Array"},
	{Name: "is_string", AssertedAtomKind: "Scalar.String"},
	{Name: "is_int", AssertedAtomKind: "Scalar.Integer"},
	{Name: "is_float", AssertedAtomKind: "Scalar.Float"},
	{Name: "is_bool", AssertedAtomKind: "Scalar.Bool"},
	{Name: "is_numeric", AssertedAtomKind: "Scalar.Number"},
	{Name: "is_object", AssertedAtomKind: "Object"},
	{Name: "is_callable", AssertedAtomKind: "Callable"},
	{Name: "is_null", AssertedAtomKind: "Null"},
	{Name: "ctype_digit", AssertedAtomKind: "Scalar.String.Numeric"},
	{Name: "ctype_lower", AssertedAtomKind: "Scalar.String.Lower"},
	{Name: "ctype_upper", AssertedAtomKind: "Scalar.String.Upper"},
}

// LookupSpecialFunction returns the table entry for name, if any.
func LookupSpecialFunction(name string) (SpecialFunction, bool) {
	for _, f := range SpecialFunctions {
		if f.Name == name {
			return f, true
		}
	}
	return SpecialFunction{}, false
}
