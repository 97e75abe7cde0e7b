package types

import "fmt"

// ArrayKey is a literal array key, int or string (spec.md §3.1 GLOSSARY).
type ArrayKey struct {
	IsString bool
	IntKey   int64
	StrKey   string
}

func IntKey(v int64) ArrayKey    { return ArrayKey{IntKey: v} }
func StrKey(v string) ArrayKey   { return ArrayKey{IsString: true, StrKey: v} }

func (k ArrayKey) String() string {
	if k.IsString {
		return fmt.Sprintf("%q", k.StrKey)
	}
	return fmt.Sprintf("%d", k.IntKey)
}

func (k ArrayKey) Equal(o ArrayKey) bool {
	return k.IsString == o.IsString && k.IntKey == o.IntKey && k.StrKey == o.StrKey
}

// ListElement is one tracked slot of a List atom's known_elements map.
type ListElement struct {
	PossiblyUndefined bool
	Type              Union
}

// List is an Array.List atom (spec.md §3.1 table). KnownElements is nil
// once the list has been widened past the literal stage (invariant 4).
type List struct {
	ElementType   Union
	KnownElements map[int]ListElement // nil => widened
	KnownCount    int
	HasKnownCount bool
	NonEmpty      bool
}

func (List) atomNode() {}
func (l List) String() string {
	if l.KnownElements != nil {
		return "list<literal>"
	}
	return fmt.Sprintf("list<%s>", l.ElementType.String())
}

// KeyedElement is one tracked slot of a Keyed atom's known_items map.
type KeyedElement struct {
	PossiblyUndefined bool
	Type              Union
}

// KeyedParams describes the unstructured (key,value) shape of a Keyed
// atom once its known_items map has been widened away.
type KeyedParams struct {
	Key   Union
	Value Union
}

// Keyed is an Array.Keyed atom (spec.md §3.1 table).
type Keyed struct {
	Parameters  *KeyedParams // nil if no general shape is known
	KnownItems  map[ArrayKey]KeyedElement // nil => widened / never had literal keys
	NonEmpty    bool
}

func (Keyed) atomNode() {}
func (k Keyed) String() string {
	if k.KnownItems != nil {
		return "array<literal>"
	}
	if k.Parameters != nil {
		return fmt.Sprintf("array<%s, %s>", k.Parameters.Key.String(), k.Parameters.Value.String())
	}
	return "array"
}

// ObjectNamed is an Object.Named atom: an instance of a concrete class.
type ObjectNamed struct {
	Name              string
	IsThisContext     bool
	GenericParameters []Union // nil if the class isn't generic / args unknown
}

func (ObjectNamed) atomNode() {}
func (o ObjectNamed) String() string {
	if len(o.GenericParameters) == 0 {
		return o.Name
	}
	s := o.Name + "<"
	for i, p := range o.GenericParameters {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ">"
}

// ObjectEnum is an Object.Enum atom; CaseName == "" means "any case of
// this enum" (spec.md §4.8's bare-enum subtraction expands this form).
type ObjectEnum struct {
	Name     string
	CaseName string
}

func (ObjectEnum) atomNode() {}
func (o ObjectEnum) String() string {
	if o.CaseName == "" {
		return o.Name
	}
	return o.Name + "::" + o.CaseName
}

// ObjectGeneric is a transient lookup type produced mid-inference; it is
// never the final type of a user-visible expression.
type ObjectGeneric struct {
	Name string
}

func (ObjectGeneric) atomNode()     {}
func (o ObjectGeneric) String() string { return "<generic " + o.Name + ">" }

// Param is one callable signature parameter.
type Param struct {
	Name     string
	Type     Union
	ByRef    bool
	Variadic bool
	Optional bool
}

// Signature is a concrete callable shape.
type Signature struct {
	Params []Param
	Return Union
}

// Callable is a Callable atom: either a concrete Signature or an alias to
// a named function (resolved lazily through the codebase index).
type Callable struct {
	Sig         *Signature // nil if Alias != ""
	AliasOf     string
}

func (Callable) atomNode() {}
func (c Callable) String() string {
	if c.AliasOf != "" {
		return "callable(" + c.AliasOf + ")"
	}
	if c.Sig == nil {
		return "callable"
	}
	s := "callable("
	for i, p := range c.Sig.Params {
		if i > 0 {
			s += ", "
		}
		s += p.Type.String()
	}
	return s + "): " + c.Sig.Return.String()
}
