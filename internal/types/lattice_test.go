package types

import "testing"

// TestCombineIdempotent checks spec.md §8 property 2: combine(a, a) == a
// up to dataflow metadata.
func TestCombineIdempotent(t *testing.T) {
	cases := []Union{
		Single(NewIntLiteral(1)),
		Single(Bool{Value: TriTrue}),
		Single(Str{LiteralShape: StrLiteralValue, Value: "hi"}),
		MixedUnion(),
		Never(),
	}
	for _, u := range cases {
		got := Combine(u, u)
		if got.String() != u.String() {
			t.Errorf("Combine(%s, %s) = %s, want %s", u, u, got, u)
		}
	}
}

// TestCombineCommutative checks spec.md §8 property 2.
func TestCombineCommutative(t *testing.T) {
	a := Single(NewIntLiteral(1))
	b := Single(Str{LiteralShape: StrLiteralValue, Value: "x"})
	ab := Combine(a, b)
	ba := Combine(b, a)
	if len(ab.Atoms) != len(ba.Atoms) {
		t.Fatalf("Combine not commutative: %s vs %s", ab, ba)
	}
}

// TestSubtractNeverIdentity checks spec.md §8 property 2:
// subtract(a, never) == a.
func TestSubtractNeverIdentity(t *testing.T) {
	a := Single(NewIntLiteral(5))
	got := Subtract(a, Never())
	if got.String() != a.String() {
		t.Errorf("Subtract(a, never) = %s, want %s", got, a)
	}
}

// TestSubtractSelfIsNever checks spec.md §8 property 2: subtract(a, a) == never.
func TestSubtractSelfIsNever(t *testing.T) {
	a := Single(NewIntLiteral(5))
	got := Subtract(a, a)
	if !got.IsNever() {
		t.Errorf("Subtract(a, a) = %s, want never", got)
	}
}

// TestSubtractIntegerRangeSplit exercises the "Range(a,b) minus Literal(k)
// splits into two ranges" rule implied by spec.md §4.1.
func TestSubtractIntegerRangeSplit(t *testing.T) {
	a := Single(NewIntRange(1, 10))
	b := Single(NewIntLiteral(5))
	got := Subtract(a, b)
	if len(got.Atoms) != 2 {
		t.Fatalf("Subtract(1..10, 5) = %s, want two atoms", got)
	}
}

// TestIsContainedByAntisymmetry checks spec.md §8 property 2:
// is_contained_by(a,b) && is_contained_by(b,a) => a == b (ignoring metadata).
func TestIsContainedByAntisymmetry(t *testing.T) {
	a := Single(NewIntLiteral(3))
	b := Single(NewIntLiteral(3))
	if !IsContainedBy(a, b) || !IsContainedBy(b, a) {
		t.Fatalf("expected mutual containment for identical literals")
	}
	c := Single(NewIntLiteral(4))
	if IsContainedBy(a, c) && IsContainedBy(c, a) {
		t.Fatalf("distinct literals should not be mutually contained")
	}
}

func TestIntegerRangeWidensOnCombine(t *testing.T) {
	a := Single(NewIntRange(1, 5))
	b := Single(NewIntLiteral(6))
	got := Combine(a, b)
	if len(got.Atoms) != 1 {
		t.Fatalf("expected adjacent range+literal to merge, got %s", got)
	}
	ri, ok := got.Atoms[0].(Integer)
	if !ok || ri.Shape != IntRange || ri.Min != 1 || ri.Max != 6 {
		t.Fatalf("got %s, want int<1,6>", got)
	}
}

func TestDisjointIntegerRangesStaySeparate(t *testing.T) {
	a := Single(NewIntRange(1, 2))
	b := Single(NewIntRange(10, 20))
	got := Combine(a, b)
	if len(got.Atoms) != 2 {
		t.Fatalf("disjoint ranges should stay distinct, got %s", got)
	}
}

func TestNormalizeIntegerIllegalRange(t *testing.T) {
	got := NormalizeInteger(Integer{Shape: IntRange, Min: 10, Max: 1})
	if _, ok := got.(NeverAtom); !ok {
		t.Fatalf("illegal range should normalize to never, got %v", got)
	}
}

func TestMixedAbsorbsCombine(t *testing.T) {
	got := Combine(MixedUnion(), Single(NewIntLiteral(1)))
	if !got.IsMixed() {
		t.Fatalf("mixed should absorb combine, got %s", got)
	}
}

func TestTruthyFalsyProjection(t *testing.T) {
	u := Combine(Single(NewIntLiteral(0)), Single(NewIntLiteral(1)))
	truthy := Truthy(u)
	if truthy.IsNever() {
		t.Fatalf("truthy projection of {0,1} should keep 1")
	}
	falsy := Falsy(u)
	if falsy.IsNever() {
		t.Fatalf("falsy projection of {0,1} should keep 0")
	}
}

func TestConcatPreservesLiteral(t *testing.T) {
	a := Str{LiteralShape: StrLiteralValue, Value: "foo"}
	b := Str{LiteralShape: StrLiteralValue, Value: "bar"}
	got, issue := ConcatAtomPair(a, b, 1000)
	if issue != IssueNone {
		t.Fatalf("unexpected issue %v", issue)
	}
	s, ok := got.(Str)
	if !ok || s.Value != "foobar" {
		t.Fatalf("got %v, want literal foobar", got)
	}
}

func TestArithmeticNullOperandIsError(t *testing.T) {
	_, issue := ArithmeticAtomPair(ArithAdd, Null{}, NewIntLiteral(1))
	if issue != IssueNullOperand {
		t.Fatalf("expected IssueNullOperand, got %v", issue)
	}
}

func TestArithmeticExactDivision(t *testing.T) {
	got, _ := ArithmeticAtomPair(ArithDiv, NewIntLiteral(10), NewIntLiteral(2))
	i, ok := got.(Integer)
	if !ok || i.Shape != IntLiteral || i.Literal != 5 {
		t.Fatalf("got %v, want literal 5", got)
	}
}

func TestArithmeticModByZeroIsNever(t *testing.T) {
	got, _ := ArithmeticAtomPair(ArithMod, NewIntLiteral(10), NewIntLiteral(0))
	if _, ok := got.(NeverAtom); !ok {
		t.Fatalf("got %v, want never", got)
	}
}
