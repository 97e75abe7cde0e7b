package types

// ArithOp is the closed set of binary arithmetic operators (spec.md §4.1).
type ArithOp int

const (
	ArithAdd ArithOp = iota
	ArithSub
	ArithMul
	ArithDiv
	ArithMod
	ArithPow
)

// OperandIssueKind names the operand-kind diagnostic family from spec.md
// §7: "null, possibly-null, false, possibly-false, mixed, array-to-string,
// implicit-stringable-cast".
type OperandIssueKind int

const (
	IssueNone OperandIssueKind = iota
	IssueNullOperand
	IssuePossiblyNullOperand
	IssueFalseOperand
	IssuePossiblyFalseOperand
	IssueMixedOperand
	IssueArrayOperand
)

// ArithmeticAtomPair computes one (left-atom, right-atom) result for an
// arithmetic operator (spec.md §4.1/§4.7 "Binary arithmetic": "iterate
// Cartesian product of lhs × rhs atoms ... for each pair, compute the
// per-pair result"). The caller (internal/analyzer) owns the Cartesian
// product over a Union's atoms and the issue-severity degradation: it
// reports one issue per expression, degraded to a warning when some pair
// is valid.
func ArithmeticAtomPair(op ArithOp, a, b Atom) (Atom, OperandIssueKind) {
	ai, aIsInt := a.(Integer)
	bi, bIsInt := b.(Integer)
	_, aIsFloat := a.(Float)
	_, bIsFloat := b.(Float)

	switch {
	case aIsInt && bIsInt:
		return arithIntInt(op, ai, bi)
	case (aIsInt || aIsFloat) && (bIsInt || bIsFloat):
		// At least one float operand: literal-preserving when both
		// sides carry a literal value, otherwise plain float.
		av, aOK := numericLiteral(a)
		bv, bOK := numericLiteral(b)
		if aOK && bOK {
			if r, ok := arithFloatLiteral(op, av, bv); ok {
				return Float{HasLiteral: true, Literal: r}, IssueNone
			}
		}
		return Float{}, IssueNone
	}

	if issue, ok := operandIssueFor(a); ok {
		return Mixed{Shape: MixedVanilla}, issue
	}
	if issue, ok := operandIssueFor(b); ok {
		return Mixed{Shape: MixedVanilla}, issue
	}
	return Mixed{Shape: MixedVanilla}, IssueMixedOperand
}

func numericLiteral(a Atom) (float64, bool) {
	switch v := a.(type) {
	case Integer:
		if v.Shape == IntLiteral {
			return float64(v.Literal), true
		}
	case Float:
		if v.HasLiteral {
			return v.Literal, true
		}
	}
	return 0, false
}

func arithFloatLiteral(op ArithOp, a, b float64) (float64, bool) {
	switch op {
	case ArithAdd:
		return a + b, true
	case ArithSub:
		return a - b, true
	case ArithMul:
		return a * b, true
	case ArithDiv:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case ArithMod:
		return 0, false // modulo is integer-only in this lattice
	case ArithPow:
		return pow(a, b), true
	}
	return 0, false
}

func pow(base, exp float64) float64 {
	if exp == 0 {
		return 1
	}
	result := 1.0
	neg := exp < 0
	n := exp
	if neg {
		n = -n
	}
	for i := 0; i < int(n); i++ {
		result *= base
	}
	if neg {
		if result == 0 {
			return 0
		}
		return 1 / result
	}
	return result
}

func arithIntInt(op ArithOp, a, b Integer) (Atom, OperandIssueKind) {
	aLit, aIsLit := a.Literal, a.Shape == IntLiteral
	bLit, bIsLit := b.Literal, b.Shape == IntLiteral
	if !aIsLit || !bIsLit {
		return Integer{Shape: IntUnspecified}, IssueNone
	}
	switch op {
	case ArithAdd:
		return NewIntLiteral(aLit + bLit), IssueNone
	case ArithSub:
		return NewIntLiteral(aLit - bLit), IssueNone
	case ArithMul:
		return NewIntLiteral(aLit * bLit), IssueNone
	case ArithDiv:
		if bLit == 0 {
			return Integer{Shape: IntUnspecified}, IssueNone
		}
		if aLit%bLit == 0 {
			return NewIntLiteral(aLit / bLit), IssueNone
		}
		return Number{}, IssueNone
	case ArithMod:
		if bLit == 0 {
			return NeverAtom{}, IssueNone
		}
		return NewIntLiteral(aLit % bLit), IssueNone
	case ArithPow:
		if bLit < 0 {
			return Integer{Shape: IntUnspecified}, IssueNone
		}
		result := int64(1)
		overflowed := false
		for i := int64(0); i < bLit; i++ {
			next := result * aLit
			if aLit != 0 && next/aLit != result {
				overflowed = true
				break
			}
			result = next
		}
		if overflowed {
			return Integer{Shape: IntUnspecified}, IssueNone
		}
		return NewIntLiteral(result), IssueNone
	}
	return Integer{Shape: IntUnspecified}, IssueNone
}

func operandIssueFor(a Atom) (OperandIssueKind, bool) {
	switch v := a.(type) {
	case Null:
		return IssueNullOperand, true
	case Bool:
		if v.Value == TriFalse {
			return IssueFalseOperand, true
		}
		if v.Value == TriEither {
			return IssuePossiblyFalseOperand, true
		}
		return IssueNone, false
	case List, Keyed:
		return IssueArrayOperand, true
	}
	return IssueNone, false
}

// ConcatAtomPair computes the result atom for the `.` concatenation
// operator (spec.md §4.1 "String concat"). issue is IssueArrayOperand for
// an array operand (a hard error, per spec), IssueNone otherwise
// (resource/object stringification is a softer warning the analyzer
// layer decides how to report).
func ConcatAtomPair(a, b Atom, maxLiteralBytes int) (Atom, OperandIssueKind) {
	if isArrayAtom(a) || isArrayAtom(b) {
		return Mixed{Shape: MixedVanilla}, IssueArrayOperand
	}
	as, aStr := stringify(a)
	bs, bStr := stringify(b)
	truthy := (aStr.IsTruthy || aStr.literalTruthy) && (bStr.IsTruthy || bStr.literalTruthy)
	nonEmpty := aStr.IsNonEmpty || aStr.literalNonEmpty || bStr.IsNonEmpty || bStr.literalNonEmpty
	if as != "" || bs != "" {
		// fallthrough to literal path below when both are literal-known
	}
	if aStr.literal && bStr.literal {
		combined := as + bs
		if len(combined) <= maxLiteralBytes {
			return Str{LiteralShape: StrLiteralValue, Value: combined, IsTruthy: combined != "" && combined != "0", IsNonEmpty: combined != ""}, IssueNone
		}
	}
	return Str{IsTruthy: truthy, IsNonEmpty: nonEmpty}, IssueNone
}

func isArrayAtom(a Atom) bool {
	switch a.(type) {
	case List, Keyed:
		return true
	}
	return false
}

type stringShape struct {
	IsTruthy        bool
	IsNonEmpty      bool
	literal         bool
	literalTruthy   bool
	literalNonEmpty bool
}

func stringify(a Atom) (string, stringShape) {
	switch v := a.(type) {
	case Str:
		if v.LiteralShape == StrLiteralValue {
			return v.Value, stringShape{literal: true, literalTruthy: v.Value != "" && v.Value != "0", literalNonEmpty: v.Value != ""}
		}
		return "", stringShape{IsTruthy: v.IsTruthy, IsNonEmpty: v.IsNonEmpty}
	case Integer:
		if v.Shape == IntLiteral {
			return itoa(v.Literal), stringShape{literal: true, literalTruthy: v.Literal != 0, literalNonEmpty: true}
		}
	case Bool:
		if v.Value == TriTrue {
			return "1", stringShape{literal: true, literalTruthy: true, literalNonEmpty: true}
		}
		if v.Value == TriFalse {
			return "", stringShape{literal: true}
		}
	case Null:
		return "", stringShape{literal: true}
	}
	return "", stringShape{}
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// ExpandEnumCases builds the bare "any case" Union for name from the
// supplied case list, capped at capN entries (spec.md §3.1 invariant and
// §4.8 item 4: "expand a bare enum into its cases up to a fixed cap").
// Returns ok == false when len(cases) > capN, signaling the caller to
// leave the bare enum atom unexpanded rather than blow up combinatorially.
func ExpandEnumCases(name string, cases []string, capN int) (Union, bool) {
	if len(cases) > capN {
		return Single(ObjectEnum{Name: name}), false
	}
	atoms := make([]Atom, 0, len(cases))
	for _, c := range cases {
		atoms = append(atoms, ObjectEnum{Name: name, CaseName: c})
	}
	if len(atoms) == 0 {
		return Single(ObjectEnum{Name: name}), true
	}
	return Union{Atoms: atoms}, true
}
