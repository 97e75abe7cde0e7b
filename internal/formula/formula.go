// Package formula implements spec.md §3.3/§4.3, component C3: the Clause /
// Formula representation the Reconciler consumes, built from the vector of
// Possibilities the Assertion Extractor produces.
package formula

import (
	"sort"
	"strconv"

	"github.com/glyphlang/glint/internal/assertion"
	"github.com/glyphlang/glint/internal/config"
	"github.com/glyphlang/glint/internal/diagnostic"
)

// Clause is "a mapping from a place expression to a disjunction of
// Assertions" (spec.md §3.3). A Clause whose Possibilities spans more than
// one place-key represents a cross-variable OR (e.g. "$a === null || $b ===
// null"); narrowing a single place from such a clause would be unsound, so
// the Reconciler skips multi-place clauses entirely rather than guess
// (see BuildFormula's "cross-variable OR" branch below).
type Clause struct {
	Possibilities map[string][]assertion.Assertion
	Wedge         bool // "no information" (spec.md §3.3); carries no constraint
	Active        bool // true if grounded in the condition under analysis, not inherited
}

// SinglePlace returns the clause's lone place-key and its disjunction when
// the clause constrains exactly one place; ok is false for wedge clauses and
// genuine cross-variable OR clauses.
func (c Clause) SinglePlace() (key string, disjunction []assertion.Assertion, ok bool) {
	if c.Wedge || len(c.Possibilities) != 1 {
		return "", nil, false
	}
	for k, v := range c.Possibilities {
		return k, v, true
	}
	return "", nil, false
}

// Formula is a conjunction of Clauses (spec.md §3.3).
type Formula []Clause

// BuildFormula walks the Possibilities the Assertion Extractor produced for
// one condition and assembles the Formula the Reconciler will apply,
// clause-by-clause, in order (spec.md §4.3: "&& nests conjunctions, ||
// emits multiple clauses"). Each resulting Clause is marked Active since it
// is grounded in the condition under analysis.
func BuildFormula(ps assertion.Possibilities) Formula {
	if len(ps) == 0 {
		return nil
	}
	if len(ps) == 1 {
		return singleBranchFormula(ps[0])
	}
	return orBranchFormula(ps)
}

// singleBranchFormula handles the no-top-level-OR case: every (place,
// disjunction) pair in the lone branch becomes its own single-place clause,
// so the Formula's conjunction-of-clauses directly models the "&&" of
// per-place constraints (spec.md §4.3 "&& nests conjunctions").
func singleBranchFormula(p assertion.Possibility) Formula {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(Formula, 0, len(keys))
	for _, k := range keys {
		out = append(out, Clause{Possibilities: map[string][]assertion.Assertion{k: p[k]}, Active: true})
	}
	return out
}

// orBranchFormula handles a top-level "||": when every branch constrains
// the exact same single place, the branches' disjunctions merge into one
// genuine single-place OR clause (e.g. "$x === null || $x === false"
// becomes one clause for $x with both assertions). Any other shape is a
// cross-variable OR this engine does not attempt to narrow precisely; it
// degrades to a wedge clause rather than narrow unsoundly (spec.md §4.3's
// complexity-cap philosophy, generalized to structural irreducibility
// rather than just clause count).
func orBranchFormula(ps assertion.Possibilities) Formula {
	commonKey, ok := commonSinglePlace(ps)
	if !ok {
		return Formula{{Wedge: true}}
	}
	merged := make([]assertion.Assertion, 0, len(ps))
	for _, p := range ps {
		merged = append(merged, p[commonKey]...)
	}
	return Formula{{Possibilities: map[string][]assertion.Assertion{commonKey: merged}, Active: true}}
}

func commonSinglePlace(ps assertion.Possibilities) (string, bool) {
	var key string
	for i, p := range ps {
		if len(p) != 1 {
			return "", false
		}
		var k string
		for kk := range p {
			k = kk
		}
		if i == 0 {
			key = k
		} else if k != key {
			return "", false
		}
	}
	return key, true
}

// Negate flips the polarity of every assertion in every clause (spec.md
// §4.3 "! flips the polarity of contained assertions"). It does not
// redistribute AND/OR shape changes beyond what the per-assertion negation
// already encodes, since BuildFormula already resolved && / || structure
// before Negate is ever applied to the result.
func Negate(f Formula) Formula {
	out := make(Formula, len(f))
	for i, c := range f {
		if c.Wedge {
			out[i] = c
			continue
		}
		np := make(map[string][]assertion.Assertion, len(c.Possibilities))
		for k, list := range c.Possibilities {
			neg := make([]assertion.Assertion, len(list))
			for j, a := range list {
				neg[j] = a.Negation()
			}
			np[k] = neg
		}
		out[i] = Clause{Possibilities: np, Active: c.Active}
	}
	return out
}

// MarkPassive returns a copy of f with every clause's Active flag cleared,
// used when a formula computed for one scope is inherited into an enclosing
// one (spec.md §4.3: "active" vs "passive" assertions).
func MarkPassive(f Formula) Formula {
	out := make(Formula, len(f))
	for i, c := range f {
		c.Active = false
		out[i] = c
	}
	return out
}

// Saturate enforces the clause-count cost cap (spec.md §4.3: "if the clause
// count would exceed a fixed bound (~50 × number of operands) ... reports
// condition too complex and returns a wedge clause"). operandCount is the
// number of distinct place-keys referenced by the pre-saturation formula.
func Saturate(f Formula, caps config.Caps, span diagnostic.Span, operandCount int) (Formula, *diagnostic.Issue) {
	capN := caps.ClauseSaturationFactor * max(operandCount, 1)
	if len(f) > capN {
		issue := diagnostic.Issue{
			Code:     diagnostic.CodeConditionTooComplex,
			Severity: diagnostic.SeverityWarning,
			Message:  config.DescribeCapHit("clause count", len(f), capN),
			Primary:  span,
		}
		return Formula{{Wedge: true}}, &issue
	}
	return absorbAndSubsume(f), nil
}

// absorbAndSubsume drops every clause whose signature (its place-keys in
// sorted order, each with its assertions in list order) repeats an earlier
// clause. A clause that is only implied by a different clause (A ⇒ B) is
// kept.
func absorbAndSubsume(f Formula) Formula {
	out := make(Formula, 0, len(f))
	seen := map[string]bool{}
	for _, c := range f {
		sig := clauseSignature(c)
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out = append(out, c)
	}
	return out
}

func clauseSignature(c Clause) string {
	if c.Wedge {
		return "#wedge"
	}
	keys := make([]string, 0, len(c.Possibilities))
	for k := range c.Possibilities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sig := ""
	for _, k := range keys {
		sig += k + ":"
		for _, a := range c.Possibilities[k] {
			sig += assertionSig(a) + ","
		}
		sig += ";"
	}
	return sig
}

func assertionSig(a assertion.Assertion) string {
	sig := string(rune(a.Kind)) + strconv.FormatInt(a.Int, 10) + strconv.FormatBool(a.Strict)
	if a.Atom != nil {
		sig += a.Atom.String()
	}
	return sig
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// HasContradiction reports whether any clause's disjunction is provably
// empty (spec.md §4.3 "detects contradictions (empty possibility set) which
// are reported upstream as paradoxes"). A clause with an empty assertion
// list for a place is the degenerate contradiction case this engine can
// detect structurally, without consulting the type lattice; callers that
// can narrow (the Reconciler) detect the richer "narrows to never" case
// themselves.
func HasContradiction(f Formula) bool {
	for _, c := range f {
		if c.Wedge {
			continue
		}
		for _, list := range c.Possibilities {
			if len(list) == 0 {
				return true
			}
		}
	}
	return false
}
