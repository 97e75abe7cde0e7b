package assertion

import (
	"github.com/glyphlang/glint/internal/ast"
	"github.com/glyphlang/glint/internal/config"
	"github.com/glyphlang/glint/internal/types"
)

// Possibility maps a place-key to the assertions that must ALL hold at
// this place for this OR-branch of the surface condition to hold.
type Possibility map[string][]Assertion

// Possibilities is "a vector of maps (one per OR-branch in the surface
// condition)" (spec.md §4.2 Output).
type Possibilities []Possibility

// ClassContext resolves self/static/parent for instanceof narrowing
// (spec.md §4.2 item 3); supplied by the current class-like scope.
type ClassContext interface {
	ResolveSelf() (string, bool)
	ResolveStatic() (string, bool)
	ResolveParent() (string, bool)
}

// CustomAssertions looks up per-call-span assertions left behind by
// special function handlers (spec.md §4.2 item 2). internal/artifacts's
// Artifacts type implements this.
type CustomAssertions interface {
	IfTrue(span ast.Span) (Possibilities, bool)
	IfFalse(span ast.Span) (Possibilities, bool)
}

// Extractor converts a boolean-valued AST expression into Possibilities
// (spec.md §4.2).
type Extractor struct {
	Custom CustomAssertions // may be nil
	Class  ClassContext     // may be nil
}

// Extract is the top-level entry point, used for the "if-true" reading of
// cond. ExtractFalse gives the "if-false" reading.
func (e *Extractor) Extract(cond ast.Expression) Possibilities {
	switch c := cond.(type) {
	case *ast.UnaryExpr:
		if c.Op == ast.OpNot {
			// spec.md §4.2 item 5: negation at top level returns the
			// empty vector; the caller negates instead.
			return nil
		}
	case *ast.BinaryExpr:
		switch c.Op {
		case ast.OpAnd:
			return mergeAnd(e.Extract(c.Left), e.Extract(c.Right))
		case ast.OpOr:
			return append(append(Possibilities{}, e.Extract(c.Left)...), e.Extract(c.Right)...)
		}
		return e.extractBinary(c)
	case *ast.InstanceofExpr:
		return e.extractInstanceof(c)
	case *ast.CallExpr:
		return e.extractCall(c)
	case *ast.CoalesceExpr:
		return e.extractLeafPossibility(c.Left, Assertion{Kind: IsIsset})
	}
	return e.extractLeafPossibility(cond, Assertion{Kind: Truthy})
}

// ExtractFalse is the "if-false" reading of cond (spec.md: the false side
// is "negating for the if-false side").
func (e *Extractor) ExtractFalse(cond ast.Expression) Possibilities {
	if neg, ok := negateSurface(cond); ok {
		return e.Extract(neg)
	}
	return negatePossibilities(e.Extract(cond))
}

func (e *Extractor) extractLeafPossibility(expr ast.Expression, a Assertion) Possibilities {
	key, ok := PlaceKey(expr)
	if !ok {
		return nil
	}
	return Possibilities{{key: []Assertion{a}}}
}

func mergeAnd(a, b Possibilities) Possibilities {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(Possibilities, 0, len(a)*len(b))
	for _, ap := range a {
		for _, bp := range b {
			out = append(out, mergePossibility(ap, bp))
		}
	}
	return out
}

func mergePossibility(a, b Possibility) Possibility {
	out := make(Possibility, len(a)+len(b))
	for k, v := range a {
		out[k] = append(out[k], v...)
	}
	for k, v := range b {
		out[k] = append(out[k], v...)
	}
	return out
}

func negatePossibilities(ps Possibilities) Possibilities {
	out := make(Possibilities, len(ps))
	for i, p := range ps {
		np := make(Possibility, len(p))
		for k, list := range p {
			negList := make([]Assertion, len(list))
			for j, a := range list {
				negList[j] = a.Negation()
			}
			np[k] = negList
		}
		out[i] = np
	}
	return out
}

// negateSurface handles the cases where "not cond" has a cleaner surface
// form than blanket assertion-negation (De Morgan for && / ||, double
// negation, != for ==).
func negateSurface(cond ast.Expression) (ast.Expression, bool) {
	switch c := cond.(type) {
	case *ast.UnaryExpr:
		if c.Op == ast.OpNot {
			return c.Operand, true
		}
	case *ast.BinaryExpr:
		switch c.Op {
		case ast.OpAnd:
			return &ast.BinaryExpr{Sp: c.Sp, Op: ast.OpOr, Left: negatedOrSelf(c.Left), Right: negatedOrSelf(c.Right)}, true
		case ast.OpOr:
			return &ast.BinaryExpr{Sp: c.Sp, Op: ast.OpAnd, Left: negatedOrSelf(c.Left), Right: negatedOrSelf(c.Right)}, true
		}
	}
	return nil, false
}

func negatedOrSelf(e ast.Expression) ast.Expression {
	if n, ok := negateSurface(e); ok {
		return n
	}
	return &ast.UnaryExpr{Sp: e.Span(), Op: ast.OpNot, Operand: e}
}

func (e *Extractor) extractBinary(c *ast.BinaryExpr) Possibilities {
	switch c.Op {
	case ast.OpEq, ast.OpIdentical:
		return e.extractEquality(c, true)
	case ast.OpNotEq, ast.OpNotIdentical:
		return e.extractEquality(c, false)
	case ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		return e.extractRelational(c)
	}
	return nil
}

func (e *Extractor) extractEquality(c *ast.BinaryExpr, positive bool) Possibilities {
	strict := c.Op == ast.OpIdentical || c.Op == ast.OpNotIdentical
	place, lit, ok := splitPlaceAndLiteral(c.Left, c.Right)
	if !ok {
		return nil
	}
	if cnt, ok := asCountCall(place.other); ok {
		return e.extractCountEquality(cnt, lit, positive)
	}
	key, ok := PlaceKey(place.placeExpr)
	if !ok {
		return nil
	}
	a := literalToAssertion(lit, strict, positive)
	return Possibilities{{key: []Assertion{a}}}
}

func literalToAssertion(lit ast.Expression, strict, positive bool) Assertion {
	atom := literalAtom(lit)
	switch {
	case strict && positive:
		return Assertion{Kind: IsIdentical, Atom: atom}
	case strict && !positive:
		return Assertion{Kind: IsNotIdentical, Atom: atom}
	case !strict && positive:
		return Assertion{Kind: IsEqual, Atom: atom}
	default:
		return Assertion{Kind: IsNotEqual, Atom: atom}
	}
}

func literalAtom(lit ast.Expression) types.Atom {
	switch l := lit.(type) {
	case *ast.NullLiteral:
		return types.Null{}
	case *ast.BoolLiteral:
		if l.Value {
			return types.Bool{Value: types.TriTrue}
		}
		return types.Bool{Value: types.TriFalse}
	case *ast.IntegerLiteral:
		return types.NewIntLiteral(l.Value)
	case *ast.FloatLiteral:
		return types.Float{HasLiteral: true, Literal: l.Value}
	case *ast.StringLiteral:
		return types.Str{LiteralShape: types.StrLiteralValue, Value: l.Value}
	case *ast.ArrayLiteral:
		if len(l.Items) == 0 {
			return types.Keyed{NonEmpty: false, KnownItems: map[types.ArrayKey]types.KeyedElement{}}
		}
	}
	return types.Mixed{Shape: types.MixedVanilla}
}

type placeAndOther struct {
	placeExpr ast.Expression
	other     ast.Expression
}

// splitPlaceAndLiteral recognizes "place == literal" or "literal == place"
// (spec.md §4.2 item 3 "==/===: recognise operand pair ... placing the
// assertion on the other side's place-key").
func splitPlaceAndLiteral(left, right ast.Expression) (placeAndOther, ast.Expression, bool) {
	if isLiteral(right) {
		return placeAndOther{placeExpr: left, other: right}, right, true
	}
	if isLiteral(left) {
		return placeAndOther{placeExpr: right, other: left}, left, true
	}
	return placeAndOther{}, nil, false
}

func isLiteral(e ast.Expression) bool {
	switch e.(type) {
	case *ast.NullLiteral, *ast.BoolLiteral, *ast.IntegerLiteral, *ast.FloatLiteral, *ast.StringLiteral, *ast.ArrayLiteral:
		return true
	}
	return false
}

func asCountCall(e ast.Expression) (*ast.CallExpr, bool) {
	call, ok := e.(*ast.CallExpr)
	if !ok {
		return nil, false
	}
	ident, ok := call.Callee.(*ast.Identifier)
	if !ok || ident.Name != config.CountableMethod || len(call.Args) != 1 {
		return nil, false
	}
	return call, true
}

func (e *Extractor) extractCountEquality(call *ast.CallExpr, lit ast.Expression, positive bool) Possibilities {
	key, ok := PlaceKey(call.Args[0])
	if !ok {
		return nil
	}
	n, ok := intLiteralValue(lit)
	if !ok {
		return nil
	}
	if positive {
		if n == 0 {
			return Possibilities{{key: []Assertion{{Kind: EmptyCountable}}}}
		}
		return Possibilities{{key: []Assertion{{Kind: HasAtLeastCount, Int: n}, {Kind: DoesNotHaveAtLeastCount, Int: n + 1}}}}
	}
	if n == 0 {
		return Possibilities{{key: []Assertion{{Kind: NonEmptyCountable}}}}
	}
	return nil
}

func intLiteralValue(e ast.Expression) (int64, bool) {
	if i, ok := e.(*ast.IntegerLiteral); ok {
		return i.Value, true
	}
	return 0, false
}

func (e *Extractor) extractRelational(c *ast.BinaryExpr) Possibilities {
	if cnt, ok := asCountCall(c.Left); ok {
		if n, ok := intLiteralValue(c.Right); ok {
			return e.extractCountRelational(cnt, c.Op, n, false)
		}
	}
	if cnt, ok := asCountCall(c.Right); ok {
		if n, ok := intLiteralValue(c.Left); ok {
			return e.extractCountRelational(cnt, c.Op, n, true)
		}
	}

	var place ast.Expression
	var n int64
	var literalOnRight bool
	if lit, ok := c.Right.(*ast.IntegerLiteral); ok {
		place, n, literalOnRight = c.Left, lit.Value, true
	} else if lit, ok := c.Left.(*ast.IntegerLiteral); ok {
		place, n, literalOnRight = c.Right, lit.Value, false
	} else {
		return nil
	}
	key, ok := PlaceKey(place)
	if !ok {
		return nil
	}
	op := c.Op
	if !literalOnRight {
		op = flipComparator(op)
	}
	var a Assertion
	switch op {
	case ast.OpLt:
		a = Assertion{Kind: IsLessThan, Int: n}
	case ast.OpLte:
		a = Assertion{Kind: IsLessThanOrEqual, Int: n}
	case ast.OpGt:
		a = Assertion{Kind: IsGreaterThan, Int: n}
	case ast.OpGte:
		a = Assertion{Kind: IsGreaterThanOrEqual, Int: n}
	}
	return Possibilities{{key: []Assertion{a}}}
}

func flipComparator(op ast.BinaryOp) ast.BinaryOp {
	switch op {
	case ast.OpLt:
		return ast.OpGt
	case ast.OpLte:
		return ast.OpGte
	case ast.OpGt:
		return ast.OpLt
	case ast.OpGte:
		return ast.OpLte
	}
	return op
}

func (e *Extractor) extractCountRelational(call *ast.CallExpr, op ast.BinaryOp, n int64, flipped bool) Possibilities {
	key, ok := PlaceKey(call.Args[0])
	if !ok {
		return nil
	}
	if flipped {
		op = flipComparator(op)
	}
	switch op {
	case ast.OpGt:
		return Possibilities{{key: []Assertion{{Kind: HasAtLeastCount, Int: n + 1}}}}
	case ast.OpGte:
		if n <= 0 {
			return Possibilities{{key: []Assertion{{Kind: Countable}}}}
		}
		return Possibilities{{key: []Assertion{{Kind: HasAtLeastCount, Int: n}}}}
	case ast.OpLt:
		return Possibilities{{key: []Assertion{{Kind: DoesNotHaveAtLeastCount, Int: n}}}}
	case ast.OpLte:
		return Possibilities{{key: []Assertion{{Kind: DoesNotHaveAtLeastCount, Int: n + 1}}}}
	}
	return nil
}

func (e *Extractor) extractInstanceof(c *ast.InstanceofExpr) Possibilities {
	key, ok := PlaceKey(c.Object)
	if !ok {
		return nil
	}
	className := c.ClassName.Name
	switch className {
	case "static":
		if e.Class != nil {
			if name, ok := e.Class.ResolveStatic(); ok {
				return Possibilities{{key: []Assertion{{Kind: IsIdentical, Atom: types.ObjectNamed{Name: name, IsThisContext: true}}}}}
			}
		}
	case "self":
		if e.Class != nil {
			if name, ok := e.Class.ResolveSelf(); ok {
				className = name
			}
		}
	case "parent":
		if e.Class != nil {
			if name, ok := e.Class.ResolveParent(); ok {
				className = name
			}
		}
	}
	return Possibilities{{key: []Assertion{{Kind: IsType, Atom: types.ObjectNamed{Name: className}}}}}
}

func (e *Extractor) extractCall(c *ast.CallExpr) Possibilities {
	if e.Custom != nil {
		if ps, ok := e.Custom.IfTrue(c.Sp); ok {
			return ps
		}
	}
	ident, ok := c.Callee.(*ast.Identifier)
	if !ok || len(c.Args) != 1 {
		return e.extractLeafPossibility(c, Assertion{Kind: Truthy})
	}
	if sf, ok := config.LookupSpecialFunction(ident.Name); ok {
		key, ok := PlaceKey(c.Args[0])
		if !ok {
			return nil
		}
		if sf.AssertedAtomKind == "Countable" {
			return Possibilities{{key: []Assertion{{Kind: Countable}}}}
		}
		return Possibilities{{key: []Assertion{{Kind: IsType, Atom: specialFunctionAtom(sf.AssertedAtomKind)}}}}
	}
	return e.extractLeafPossibility(c, Assertion{Kind: Truthy})
}

// specialFunctionAtom maps a SpecialFunction's AssertedAtomKind to the Atom
// it proves. The ctype_* predicates narrow to a plain string atom (no
// numeric or case flag is set); is_object and any unlisted kind degrade to
// Mixed (no narrowing, but still a recognized place — the call stays out of
// the Truthy fallback).
func specialFunctionAtom(kind string) types.Atom {
	switch kind {
	case "Scalar.String", "Scalar.String.Numeric", "Scalar.String.Lower", "Scalar.String.Upper":
		return types.Str{}
	case "Scalar.Integer":
		return types.Integer{Shape: types.IntAny}
	case "Scalar.Float":
		return types.Float{}
	case "Scalar.Bool":
		return types.Bool{Value: types.TriEither}
	case "Scalar.Number":
		return types.Number{}
	case "Callable":
		return types.Callable{}
	case "Null":
		return types.Null{}
	case "Array":
		return types.Keyed{}
	default:
		return types.Mixed{Shape: types.MixedVanilla}
	}
}
