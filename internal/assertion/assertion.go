// Package assertion implements spec.md §3.2/§4.2, component C2: abstract
// predicates about one named place, and the extractor that reads them off
// a boolean-valued AST expression.
package assertion

import "github.com/glyphlang/glint/internal/types"

// Kind is the closed Assertion variant set from spec.md §3.2.
type Kind int

const (
	Truthy Kind = iota
	Falsy
	IsIsset
	IsType
	IsNotType
	IsIdentical
	IsNotIdentical
	IsEqual
	IsNotEqual
	IsGreaterThan
	IsGreaterThanOrEqual
	IsLessThan
	IsLessThanOrEqual
	EmptyCountable
	NonEmptyCountable
	HasAtLeastCount
	DoesNotHaveAtLeastCount
	Countable
)

// Assertion is a single abstract predicate about one place (spec.md §3.2).
// Exactly one of Atom/Int/Strict is meaningful, depending on Kind.
type Assertion struct {
	Kind   Kind
	Atom   types.Atom // IsType, IsNotType, IsIdentical, IsNotIdentical, IsEqual, IsNotEqual
	Int    int64       // IsGreaterThan.../IsLessThan.../HasAtLeastCount/DoesNotHaveAtLeastCount
	Strict bool        // NonEmptyCountable(strict)
}

// Negation returns the logical negation of a. Negation is an involution
// (a.Negation().Negation() == a) for every Kind except the documented
// asymmetric EmptyCountable/NonEmptyCountable pair (spec.md §3.2): negating
// EmptyCountable yields NonEmptyCountable(strict=false), but negating that
// back yields NonEmptyCountable(strict=false) again's logical complement,
// which is EmptyCountable only when strict was false to begin with — a
// strict NonEmptyCountable has no clean single-assertion negation, so its
// round trip is intentionally not an involution.
func (a Assertion) Negation() Assertion {
	switch a.Kind {
	case Truthy:
		return Assertion{Kind: Falsy}
	case Falsy:
		return Assertion{Kind: Truthy}
	case IsIsset:
		return Assertion{Kind: IsIsset} // negation handled by caller via "not isset" context; isset itself has no opposite atom family
	case IsType:
		return Assertion{Kind: IsNotType, Atom: a.Atom}
	case IsNotType:
		return Assertion{Kind: IsType, Atom: a.Atom}
	case IsIdentical:
		return Assertion{Kind: IsNotIdentical, Atom: a.Atom}
	case IsNotIdentical:
		return Assertion{Kind: IsIdentical, Atom: a.Atom}
	case IsEqual:
		return Assertion{Kind: IsNotEqual, Atom: a.Atom}
	case IsNotEqual:
		return Assertion{Kind: IsEqual, Atom: a.Atom}
	case IsGreaterThan:
		return Assertion{Kind: IsLessThanOrEqual, Int: a.Int}
	case IsLessThanOrEqual:
		return Assertion{Kind: IsGreaterThan, Int: a.Int}
	case IsGreaterThanOrEqual:
		return Assertion{Kind: IsLessThan, Int: a.Int}
	case IsLessThan:
		return Assertion{Kind: IsGreaterThanOrEqual, Int: a.Int}
	case EmptyCountable:
		return Assertion{Kind: NonEmptyCountable, Strict: false}
	case NonEmptyCountable:
		if a.Strict {
			return Assertion{Kind: NonEmptyCountable, Strict: false} // documented asymmetry
		}
		return Assertion{Kind: EmptyCountable}
	case HasAtLeastCount:
		return Assertion{Kind: DoesNotHaveAtLeastCount, Int: a.Int}
	case DoesNotHaveAtLeastCount:
		return Assertion{Kind: HasAtLeastCount, Int: a.Int}
	case Countable:
		return Assertion{Kind: Countable}
	}
	return a
}
