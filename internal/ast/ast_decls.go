package ast

// TypeHintAtom is one alternative of a declared (syntactic) union type
// hint, e.g. "int|string". Name is a class/interface/enum name for
// Object-shaped hints and empty for scalar hints (Kind carries those).
type TypeHintAtom struct {
	Kind     string // "int", "string", "float", "bool", "array", "mixed", "object", "null", or "" for Object
	Name     string // class/interface/enum name when Kind == ""
	Nullable bool
}

// TypeHint is a declared parameter/return/property type, a syntactic
// union of TypeHintAtoms resolved to a lattice Union by the expression
// analyzer at declaration time.
type TypeHint struct {
	Atoms []TypeHintAtom
}

// Param is one function/method parameter.
type Param struct {
	Name         string
	Hint         *TypeHint // nil if untyped
	DefaultValue Expression // nil if required
	ByRef        bool
	Variadic     bool
}

// FunctionDecl is a top-level or method function declaration. Body is nil
// for an abstract/interface method signature.
type FunctionDecl struct {
	Sp         Span
	Name       string
	Params     []Param
	ReturnHint *TypeHint // nil if untyped (inferred)
	Body       *BlockStatement
	IsStatic   bool
	IsPure     bool // spec.md §7 "Purity" family
}

func (f *FunctionDecl) Span() Span     { return f.Sp }
func (f *FunctionDecl) String() string { return "function " + f.Name + "(...) {...}" }
func (f *FunctionDecl) statementNode() {}

// PropertyDecl is one class property declaration.
type PropertyDecl struct {
	Name         string
	Hint         *TypeHint
	DefaultValue Expression // nil if uninitialized
	IsStatic     bool
}

// ClassDecl is a class declaration; Parent is "" for no explicit parent.
type ClassDecl struct {
	Sp         Span
	Name       string
	Parent     string
	Interfaces []string
	Traits     []string
	IsFinal    bool
	IsAbstract bool
	Properties []PropertyDecl
	Methods    []*FunctionDecl
}

func (c *ClassDecl) Span() Span     { return c.Sp }
func (c *ClassDecl) String() string { return "class " + c.Name + " {...}" }
func (c *ClassDecl) statementNode() {}

// EnumCase is one "case Name;" or "case Name = value;" member.
type EnumCase struct {
	Name  string
	Value Expression // nil for a pure (non-backed) case
}

// EnumDecl is an enum declaration (spec.md §3.1 Object.Enum, §4.8 enum-aware
// match exhaustiveness).
type EnumDecl struct {
	Sp    Span
	Name  string
	Cases []EnumCase
}

func (e *EnumDecl) Span() Span     { return e.Sp }
func (e *EnumDecl) String() string { return "enum " + e.Name + " {...}" }
func (e *EnumDecl) statementNode() {}
