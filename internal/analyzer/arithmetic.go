package analyzer

import (
	"fmt"

	"github.com/glyphlang/glint/internal/artifacts"
	"github.com/glyphlang/glint/internal/ast"
	"github.com/glyphlang/glint/internal/blockctx"
	"github.com/glyphlang/glint/internal/config"
	"github.com/glyphlang/glint/internal/diagnostic"
	"github.com/glyphlang/glint/internal/types"
)

var arithOps = map[ast.BinaryOp]types.ArithOp{
	ast.OpAdd: types.ArithAdd,
	ast.OpSub: types.ArithSub,
	ast.OpMul: types.ArithMul,
	ast.OpDiv: types.ArithDiv,
	ast.OpMod: types.ArithMod,
	ast.OpPow: types.ArithPow,
}

func (a *Analyzer) analyzeBinary(b *ast.BinaryExpr, ctx *blockctx.Context, art *artifacts.Artifacts) (types.Union, *diagnostic.InternalError) {
	switch b.Op {
	case ast.OpAnd:
		return a.analyzeLogicalAnd(b, ctx, art)
	case ast.OpOr:
		return a.analyzeLogicalOr(b, ctx, art)
	}

	lhs, err := a.AnalyzeExpression(b.Left, ctx, art)
	if err != nil {
		return types.MixedUnion(), err
	}
	rhs, err := a.AnalyzeExpression(b.Right, ctx, art)
	if err != nil {
		return types.MixedUnion(), err
	}

	if op, ok := arithOps[b.Op]; ok {
		return a.evalArithmetic(op, lhs, rhs, b, ctx, art), nil
	}
	if b.Op == ast.OpConcat {
		return a.evalConcat(lhs, rhs, b, ctx, art), nil
	}
	return a.evalComparison(b.Op, lhs, rhs, b, ctx, art), nil
}

// evalArithmetic implements spec.md §4.7's Binary-arithmetic highlight: the
// Cartesian product of lhs × rhs atoms, combined. It reports one
// operand-kind issue for the whole expression: the most severe one seen
// across all pairs, degraded to a warning if any pair was valid. Issues are
// not reported separately for the left and right sides.
func (a *Analyzer) evalArithmetic(op types.ArithOp, lhs, rhs types.Union, b *ast.BinaryExpr, ctx *blockctx.Context, art *artifacts.Artifacts) types.Union {
	var result types.Union
	first := true
	sawValidPair := false
	var worstIssue types.OperandIssueKind

	for _, la := range lhs.Atoms {
		for _, ra := range rhs.Atoms {
			r, issue := types.ArithmeticAtomPair(op, la, ra)
			if issue == types.IssueNone {
				sawValidPair = true
			} else if issue > worstIssue {
				worstIssue = issue
			}
			if first {
				result = types.Single(r)
				first = false
			} else {
				result = types.Combine(result, types.Single(r))
			}
		}
	}
	if worstIssue != types.IssueNone {
		art.Report(operandIssue(worstIssue, b.Sp, sawValidPair))
	}
	if first {
		return types.MixedUnion()
	}
	return result
}

func operandIssue(kind types.OperandIssueKind, span diagnostic.Span, degraded bool) diagnostic.Issue {
	code, sev := operandIssueCode(kind)
	if degraded && sev == diagnostic.SeverityError {
		sev = diagnostic.SeverityWarning
	}
	return diagnostic.Issue{Code: code, Severity: sev, Message: string(code), Primary: span}
}

func operandIssueCode(kind types.OperandIssueKind) (diagnostic.Code, diagnostic.Severity) {
	switch kind {
	case types.IssueNullOperand:
		return diagnostic.CodeNullOperand, diagnostic.SeverityError
	case types.IssuePossiblyNullOperand:
		return diagnostic.CodePossiblyNullOperand, diagnostic.SeverityWarning
	case types.IssueFalseOperand:
		return diagnostic.CodeFalseOperand, diagnostic.SeverityError
	case types.IssuePossiblyFalseOperand:
		return diagnostic.CodePossiblyFalseOperand, diagnostic.SeverityWarning
	case types.IssueArrayOperand:
		return diagnostic.CodeArrayToString, diagnostic.SeverityError
	default:
		return diagnostic.CodeMixedOperand, diagnostic.SeverityError
	}
}

// evalConcat implements spec.md §4.1's string-concat rules, including the
// object rule: "objects require a stringable method on the referenced
// class" (checked against the codebase index before combining, since
// types.ConcatAtomPair itself has no codebase access).
func (a *Analyzer) evalConcat(lhs, rhs types.Union, b *ast.BinaryExpr, ctx *blockctx.Context, art *artifacts.Artifacts) types.Union {
	a.checkStringableOperands(lhs, b.Sp, art)
	a.checkStringableOperands(rhs, b.Sp, art)

	var result types.Union
	first := true
	for _, la := range lhs.Atoms {
		for _, ra := range rhs.Atoms {
			r, issue := types.ConcatAtomPair(la, ra, a.Caps.MaxStringLiteralBytes)
			if issue == types.IssueArrayOperand {
				art.Report(diagnostic.Issue{
					Code:     diagnostic.CodeArrayToString,
					Severity: diagnostic.SeverityError,
					Message:  "array operand in string concatenation",
					Primary:  b.Sp,
				})
			}
			if first {
				result = types.Single(r)
				first = false
			} else {
				result = types.Combine(result, types.Single(r))
			}
		}
	}
	if first {
		return types.MixedUnion()
	}
	return result
}

// checkStringableOperands implements spec.md §4.1's object-operand rule
// for "."/concat: a class implementing config.StringableTrait (or simply
// declaring a config.StringableMethod method) casts implicitly — reported
// as a note, not an error; any other object operand cannot stringify.
func (a *Analyzer) checkStringableOperands(u types.Union, span diagnostic.Span, art *artifacts.Artifacts) {
	for _, atom := range u.Atoms {
		obj, ok := atom.(types.ObjectNamed)
		if !ok {
			continue
		}
		if a.classIsStringable(obj.Name) {
			art.Report(diagnostic.Issue{
				Code:     diagnostic.CodeImplicitStringableCast,
				Severity: diagnostic.SeverityNote,
				Message:  fmt.Sprintf("%s is implicitly cast to string via its %s method", obj.Name, config.StringableMethod),
				Primary:  span,
			})
			continue
		}
		art.Report(diagnostic.Issue{
			Code:     diagnostic.CodeMixedOperand,
			Severity: diagnostic.SeverityError,
			Message:  fmt.Sprintf("%s has no %s method and cannot be converted to string", obj.Name, config.StringableMethod),
			Primary:  span,
		})
	}
}

// classIsStringable reports whether name implements config.StringableTrait
// or declares a config.StringableMethod method (spec.md §4.1).
func (a *Analyzer) classIsStringable(name string) bool {
	info, ok := a.Codebase.Class(name)
	if !ok {
		return false
	}
	for _, iface := range info.Interfaces {
		if iface == config.StringableTrait {
			return true
		}
	}
	_, hasMethod := info.Methods[config.StringableMethod]
	return hasMethod
}

// evalComparison implements spec.md §4.7's Binary-comparison highlight:
// always bool unless an is_always_* oracle fires.
func (a *Analyzer) evalComparison(op ast.BinaryOp, lhs, rhs types.Union, b *ast.BinaryExpr, ctx *blockctx.Context, art *artifacts.Artifacts) types.Union {
	if literal, always, ok := comparisonOracle(op, lhs, rhs); ok {
		if !ctx.InsideLoopExpressions {
			art.Report(diagnostic.Issue{
				Code:     diagnostic.CodeRedundantComparison,
				Severity: diagnostic.SeverityHelp,
				Message:  fmt.Sprintf("comparison is always %v", always),
				Primary:  b.Sp,
			})
		}
		return types.Single(types.Bool{Value: literal})
	}
	return types.Single(types.Bool{Value: types.TriEither})
}

func comparisonOracle(op ast.BinaryOp, lhs, rhs types.Union) (types.Tri, bool, bool) {
	switch op {
	case ast.OpIdentical:
		if types.IsAlwaysIdenticalTo(lhs, rhs) {
			return types.TriTrue, true, true
		}
		if types.AreDefinitelyNotIdentical(lhs, rhs) {
			return types.TriFalse, false, true
		}
	case ast.OpNotIdentical:
		if types.IsAlwaysIdenticalTo(lhs, rhs) {
			return types.TriFalse, false, true
		}
		if types.AreDefinitelyNotIdentical(lhs, rhs) {
			return types.TriTrue, true, true
		}
	case ast.OpEq:
		if types.IsAlwaysIdenticalTo(lhs, rhs) {
			return types.TriTrue, true, true
		}
	case ast.OpNotEq:
		if types.IsAlwaysIdenticalTo(lhs, rhs) {
			return types.TriFalse, false, true
		}
	case ast.OpLt:
		if types.IsAlwaysLessThan(lhs, rhs) {
			return types.TriTrue, true, true
		}
		if types.IsAlwaysGreaterThanOrEqual(lhs, rhs) {
			return types.TriFalse, false, true
		}
	case ast.OpLte:
		if types.IsAlwaysLessThanOrEqual(lhs, rhs) {
			return types.TriTrue, true, true
		}
		if types.IsAlwaysGreaterThan(lhs, rhs) {
			return types.TriFalse, false, true
		}
	case ast.OpGt:
		if types.IsAlwaysGreaterThan(lhs, rhs) {
			return types.TriTrue, true, true
		}
		if types.IsAlwaysLessThanOrEqual(lhs, rhs) {
			return types.TriFalse, false, true
		}
	case ast.OpGte:
		if types.IsAlwaysGreaterThanOrEqual(lhs, rhs) {
			return types.TriTrue, true, true
		}
		if types.IsAlwaysLessThan(lhs, rhs) {
			return types.TriFalse, false, true
		}
	}
	return types.TriEither, false, false
}

func (a *Analyzer) analyzeUnary(u *ast.UnaryExpr, ctx *blockctx.Context, art *artifacts.Artifacts) (types.Union, *diagnostic.InternalError) {
	operand, err := a.AnalyzeExpression(u.Operand, ctx, art)
	if err != nil {
		return types.MixedUnion(), err
	}
	switch u.Op {
	case ast.OpNot:
		return boolNegate(operand), nil
	case ast.OpNeg:
		return negateNumeric(operand), nil
	}
	return types.MixedUnion(), nil
}

func boolNegate(u types.Union) types.Union {
	var result types.Union
	first := true
	for _, atom := range u.Atoms {
		var negated types.Atom
		if _, ok := projectTruthy(atom); ok {
			negated = types.Bool{Value: types.TriFalse}
		} else {
			negated = types.Bool{Value: types.TriTrue}
		}
		if first {
			result = types.Single(negated)
			first = false
		} else {
			result = types.Combine(result, types.Single(negated))
		}
	}
	if first {
		return types.Single(types.Bool{Value: types.TriEither})
	}
	return result
}

func projectTruthy(a types.Atom) (types.Atom, bool) {
	truthy := types.Truthy(types.Single(a))
	return a, !truthy.IsNever()
}

func negateNumeric(u types.Union) types.Union {
	var result types.Union
	first := true
	for _, atom := range u.Atoms {
		var negated types.Atom
		switch v := atom.(type) {
		case types.Integer:
			if v.Shape == types.IntLiteral {
				negated = types.NewIntLiteral(-v.Literal)
				break
			}
			negated = types.Number{}
		case types.Float:
			if v.HasLiteral {
				negated = types.Float{HasLiteral: true, Literal: -v.Literal}
				break
			}
			negated = types.Number{}
		default:
			negated = types.Number{}
		}
		if first {
			result = types.Single(negated)
			first = false
		} else {
			result = types.Combine(result, types.Single(negated))
		}
	}
	if first {
		return types.MixedUnion()
	}
	return result
}
