// Package reconciler implements spec.md §4.4, component C4: applying a
// Formula's per-place assertions to narrow a Block Context's locals,
// reporting impossible/redundant diagnostics as it goes.
//
// This package imports both internal/types and internal/assertion (the
// narrow-by-assertion dispatch spec.md §3.1 describes lives here, not in
// internal/types, so that internal/types never depends on
// internal/assertion — see DESIGN.md).
package reconciler

import (
	"fmt"

	"github.com/glyphlang/glint/internal/assertion"
	"github.com/glyphlang/glint/internal/diagnostic"
	"github.com/glyphlang/glint/internal/formula"
	"github.com/glyphlang/glint/internal/types"
)

// Locals is the subset of Block Context the Reconciler mutates: a
// shared-handle map from place-key to its current Union (spec.md §3.4
// "locals: place-key → shared Union handle").
type Locals interface {
	Get(key string) (types.Union, bool)
	Set(key string, u types.Union)
}

// Result reports which places changed and accumulates diagnostics for one
// Reconcile call (spec.md §4.4 Output: "mutates locals, populates a
// changed_var_ids set, and emits diagnostics").
type Result struct {
	ChangedVarIDs map[string]bool
	Issues        []diagnostic.Issue
}

// Reconcile applies f to locals in clause order (spec.md §4.4). Each
// single-place clause's list is OR-narrowed against the place's current
// union; clauses apply in sequence, so narrowing from an earlier clause is
// visible to a later one about the same place. BuildFormula puts all of a
// place's assertions from a condition without a top-level "||" into one
// clause, so same-place conjuncts (e.g. "$x > 0 && $x < 10") are
// OR-narrowed as well, and their combined narrowing is no tighter than the
// looser of them.
func Reconcile(locals Locals, f formula.Formula, span diagnostic.Span) Result {
	res := Result{ChangedVarIDs: map[string]bool{}}
	for _, clause := range f {
		key, disjunction, ok := clause.SinglePlace()
		if !ok {
			continue // wedge or cross-variable OR: no place to narrow (spec.md §4.3)
		}
		reconcileOne(locals, key, disjunction, clause.Active, span, &res)
	}
	return res
}

func reconcileOne(locals Locals, key string, disjunction []assertion.Assertion, active bool, span diagnostic.Span, res *Result) {
	current, had := locals.Get(key)
	if !had {
		// spec.md §4.4 item 1: synthesise the most-general union compatible
		// with the first assertion, mark possibly-undefined from outside
		// the flow.
		current = mostGeneralFor(disjunction)
		current.PossiblyUndefined = true
	}

	var narrowed types.Union
	first := true
	for _, a := range disjunction {
		n := narrow(current, a, active, span, res)
		if first {
			narrowed = n
			first = false
		} else {
			narrowed = types.Combine(narrowed, n)
		}
	}
	if len(disjunction) == 0 {
		narrowed = current
	}

	if narrowed.IsNever() && !current.IsNever() {
		code := diagnostic.CodeImpossibleCondition
		if !active {
			code = diagnostic.CodeRedundantCondition
		}
		res.Issues = append(res.Issues, diagnostic.Issue{
			Code:     code,
			Severity: severityFor(code),
			Message:  fmt.Sprintf("%s can never satisfy this condition", key),
			Primary:  span,
		})
	}

	locals.Set(key, narrowed)
	res.ChangedVarIDs[key] = true
}

func severityFor(code diagnostic.Code) diagnostic.Severity {
	if code == diagnostic.CodeRedundantCondition {
		return diagnostic.SeverityHelp
	}
	return diagnostic.SeverityError
}

// narrow applies one Assertion to current (spec.md §4.4 item 2).
func narrow(current types.Union, a assertion.Assertion, active bool, span diagnostic.Span, res *Result) types.Union {
	switch a.Kind {
	case assertion.Truthy:
		return types.Truthy(current)
	case assertion.Falsy:
		return types.Falsy(current)
	case assertion.IsIsset:
		return types.NonNullable(current)
	case assertion.IsType:
		return narrowIsType(current, a.Atom, active, span, res)
	case assertion.IsNotType:
		return types.Subtract(current, types.Single(a.Atom))
	case assertion.IsIdentical, assertion.IsEqual:
		target := types.Single(a.Atom)
		if types.IsContainedBy(current, target) {
			return current
		}
		if !intersects(current, target) {
			return types.Never() // current provably excludes target: the assertion can never hold
		}
		return target
	case assertion.IsNotIdentical, assertion.IsNotEqual:
		return types.Subtract(current, types.Single(a.Atom))
	case assertion.IsGreaterThan:
		return narrowIntegerBound(current, a.Int+1, maxInt64)
	case assertion.IsGreaterThanOrEqual:
		return narrowIntegerBound(current, a.Int, maxInt64)
	case assertion.IsLessThan:
		return narrowIntegerBound(current, minInt64, a.Int-1)
	case assertion.IsLessThanOrEqual:
		return narrowIntegerBound(current, minInt64, a.Int)
	case assertion.EmptyCountable, assertion.NonEmptyCountable, assertion.HasAtLeastCount, assertion.DoesNotHaveAtLeastCount, assertion.Countable:
		return narrowCountable(current, a)
	}
	return current
}

const (
	maxInt64 = int64(1)<<63 - 1
	minInt64 = -maxInt64 - 1
)

func narrowIsType(current types.Union, target types.Atom, active bool, span diagnostic.Span, res *Result) types.Union {
	targetUnion := types.Single(target)
	intersection := intersect(current, targetUnion)
	if intersection.IsNever() {
		code := diagnostic.CodeImpossibleTypeCheck
		if !active {
			code = diagnostic.CodeRedundantTypeCheck
		}
		res.Issues = append(res.Issues, diagnostic.Issue{
			Code:     code,
			Severity: diagnostic.SeverityError,
			Message:  fmt.Sprintf("type check against %s cannot hold for %s", target, current),
			Primary:  span,
		})
		return intersection
	}
	if intersection.String() == current.String() && !active {
		res.Issues = append(res.Issues, diagnostic.Issue{
			Code:     diagnostic.CodeRedundantTypeCheck,
			Severity: diagnostic.SeverityHelp,
			Message:  fmt.Sprintf("%s is always %s", current, target),
			Primary:  span,
		})
	}
	return intersection
}

// intersect approximates a ∩ b using the lattice's containment oracle: an
// atom from a survives if it could also inhabit b, computed conservatively
// via is_contained_by in both directions. This
// keeps intersect total without adding a new lattice primitive beyond
// spec.md §4.1's listed contract.
func intersect(a, b types.Union) types.Union {
	var atoms []types.Atom
	for _, av := range a.Atoms {
		single := types.Single(av)
		if types.IsContainedBy(single, b) {
			atoms = append(atoms, av)
			continue
		}
		for _, bv := range b.Atoms {
			bsingle := types.Single(bv)
			if types.IsContainedBy(bsingle, single) {
				atoms = append(atoms, bv)
			}
		}
	}
	if len(atoms) == 0 {
		return types.Never()
	}
	return types.FromAtoms(atoms...)
}

func intersects(a, b types.Union) bool {
	return !intersect(a, b).IsNever()
}

func narrowIntegerBound(current types.Union, lo, hi int64) types.Union {
	var atoms []types.Atom
	for _, a := range current.Atoms {
		i, ok := a.(types.Integer)
		if !ok {
			atoms = append(atoms, a) // non-integer atoms pass through unnarrowed
			continue
		}
		switch i.Shape {
		case types.IntLiteral:
			if i.Literal >= lo && i.Literal <= hi {
				atoms = append(atoms, a)
			}
		case types.IntRange:
			nlo, nhi := maxI(i.Min, lo), minI(i.Max, hi)
			if n := types.NormalizeInteger(types.Integer{Shape: types.IntRange, Min: nlo, Max: nhi}); !isNeverAtom(n) {
				atoms = append(atoms, n)
			}
		default:
			atoms = append(atoms, a)
		}
	}
	if len(atoms) == 0 {
		return types.Never()
	}
	return types.FromAtoms(atoms...)
}

func isNeverAtom(a types.Atom) bool {
	_, ok := a.(types.NeverAtom)
	return ok
}

func maxI(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minI(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func narrowCountable(current types.Union, a assertion.Assertion) types.Union {
	var atoms []types.Atom
	for _, atom := range current.Atoms {
		switch v := atom.(type) {
		case types.List:
			if keepCountable(v.NonEmpty, v.HasKnownCount, v.KnownCount, a) {
				atoms = append(atoms, v)
			}
		case types.Keyed:
			cnt, known := len(v.KnownItems), v.KnownItems != nil
			if keepCountable(v.NonEmpty, known, cnt, a) {
				atoms = append(atoms, v)
			}
		default:
			atoms = append(atoms, atom)
		}
	}
	if len(atoms) == 0 {
		return types.Never()
	}
	return types.FromAtoms(atoms...)
}

func keepCountable(nonEmpty, hasKnownCount bool, knownCount int, a assertion.Assertion) bool {
	switch a.Kind {
	case assertion.EmptyCountable:
		return !nonEmpty
	case assertion.NonEmptyCountable:
		return nonEmpty || !hasKnownCount
	case assertion.HasAtLeastCount:
		return !hasKnownCount || int64(knownCount) >= a.Int
	case assertion.DoesNotHaveAtLeastCount:
		return !hasKnownCount || int64(knownCount) < a.Int
	case assertion.Countable:
		return true
	}
	return true
}

// mostGeneralFor synthesises the most-general Union compatible with the
// first assertion in a fresh disjunction (spec.md §4.4 item 1).
func mostGeneralFor(disjunction []assertion.Assertion) types.Union {
	if len(disjunction) == 0 {
		return types.MixedUnion()
	}
	a := disjunction[0]
	switch a.Kind {
	case assertion.IsType, assertion.IsIdentical, assertion.IsEqual:
		return types.Single(a.Atom)
	case assertion.IsGreaterThan, assertion.IsGreaterThanOrEqual, assertion.IsLessThan, assertion.IsLessThanOrEqual:
		return types.Single(types.Integer{Shape: types.IntAny})
	}
	return types.MixedUnion()
}
