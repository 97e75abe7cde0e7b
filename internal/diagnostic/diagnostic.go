// Package diagnostic implements spec.md §7's two error families: internal
// errors that halt analysis of a file, and diagnostic issues, which are the
// analyzer's normal output and never halt anything.
//
// This is grounded on the *usage* of funxy's own (pruned from the retrieval
// pack) internal/diagnostics package, observed from internal/analyzer/analyzer.go:
// a *DiagnosticError accumulator, deduplicated by a "line:col:code" style key.
package diagnostic

import "fmt"

// Span identifies a half-open byte range inside one file, per spec.md §6.1.
type Span struct {
	File  string
	Start int
	End   int
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Start, s.End)
}

// Severity is the closed severity taxonomy from spec.md §6.2.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityHelp
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityHelp:
		return "help"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Code is the closed diagnostic taxonomy from spec.md §7.
type Code string

const (
	// Operand kind family.
	CodeNullOperand                Code = "null-operand"
	CodePossiblyNullOperand        Code = "possibly-null-operand"
	CodeFalseOperand               Code = "false-operand"
	CodePossiblyFalseOperand       Code = "possibly-false-operand"
	CodeMixedOperand               Code = "mixed-operand"
	CodeArrayToString              Code = "array-to-string"
	CodeImplicitStringableCast     Code = "implicit-stringable-cast"

	// Impossible / redundant family.
	CodeImpossibleTypeCheck    Code = "impossible-type-check"
	CodeRedundantTypeCheck     Code = "redundant-type-check"
	CodeRedundantComparison    Code = "redundant-comparison"
	CodeRedundantLogicalOp     Code = "redundant-logical-operation"
	CodeRedundantNullCoalesce  Code = "redundant-null-coalesce"
	CodeRedundantElvis         Code = "redundant-elvis"
	CodeParadoxicalCondition   Code = "paradoxical-condition"
	CodeParadoxicalCase        Code = "paradoxical-case"
	CodeUnreachableArm         Code = "unreachable-arm"
	CodeUnreachableArmCond     Code = "unreachable-arm-condition"
	CodeUnreachableDefault     Code = "unreachable-default"
	CodeMatchNotExhaustive     Code = "match-not-exhaustive"
	CodeMatchArmAlwaysTrue     Code = "match-arm-always-true"
	CodeRedundantCondition     Code = "redundant-condition"
	CodeImpossibleCondition    Code = "impossible-condition"

	// Flow family.
	CodeImpossibleAssignment    Code = "impossible-assignment"
	CodeUndefinedVariable       Code = "undefined-variable"
	CodePossiblyUndefinedVar    Code = "possibly-undefined-variable"

	// Purity family.
	CodeImpureCallInPureContext Code = "impure-call-in-pure-context"

	// Complexity cap family.
	CodeConditionTooComplex Code = "condition-too-complex"
)

// FixHint is an optional, severity-keyed suggestion attached to an Issue.
type FixHint struct {
	Severity    Severity
	Description string
	Replacement string
}

// Issue is a single diagnostic: the analyzer's normal output. Issues never
// halt analysis (spec.md §7 propagation policy).
type Issue struct {
	Code      Code
	Severity  Severity
	Message   string
	Primary   Span
	Secondary []Span
	Fix       *FixHint
}

func (i Issue) key() string {
	return fmt.Sprintf("%s:%d:%d:%s", i.Primary.File, i.Primary.Start, i.Primary.End, i.Code)
}

// InternalError is the other §7 family: an invariant violation or a failed
// codebase lookup. It halts analysis of the enclosing file; the driver
// still emits whatever Issues had already accumulated.
type InternalError struct {
	Message string
	Span    Span
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Span, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Span, e.Message)
}

func (e *InternalError) Unwrap() error { return e.Cause }

// NewInvariantViolation builds the InternalError variant for a violated
// analyzer invariant (spec.md §7 family 1, "InternalError").
func NewInvariantViolation(span Span, format string, args ...any) *InternalError {
	return &InternalError{Message: fmt.Sprintf(format, args...), Span: span}
}

// NewMissingMetadata builds the InternalError variant for a failed
// codebase lookup (spec.md §7 family 1, "MissingMetadata").
func NewMissingMetadata(span Span, name string) *InternalError {
	return &InternalError{Message: fmt.Sprintf("missing metadata for %q", name), Span: span}
}
