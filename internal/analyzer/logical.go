package analyzer

import (
	"github.com/glyphlang/glint/internal/artifacts"
	"github.com/glyphlang/glint/internal/ast"
	"github.com/glyphlang/glint/internal/blockctx"
	"github.com/glyphlang/glint/internal/diagnostic"
	"github.com/glyphlang/glint/internal/reconciler"
	"github.com/glyphlang/glint/internal/types"
)

// analyzeLogicalAnd implements spec.md §4.7's "&&" highlight: analyze lhs,
// extract its satisfying assignments, reconcile them onto a right-hand
// context clone, analyze rhs there, combine.
func (a *Analyzer) analyzeLogicalAnd(b *ast.BinaryExpr, ctx *blockctx.Context, art *artifacts.Artifacts) (types.Union, *diagnostic.InternalError) {
	if _, err := a.AnalyzeExpression(b.Left, ctx, art); err != nil {
		return types.MixedUnion(), err
	}
	ifTrue, _ := a.assertionsFor(b.Left, ctx, art)
	rhsCtx := ctx.Fork()
	res := reconciler.Reconcile(rhsCtx, ifTrue, b.Left.Span())
	art.ReportAll(res.Issues)
	rhsCtx.RemoveReconciledClauseRefs(res.ChangedVarIDs)

	if _, err := a.AnalyzeExpression(b.Right, rhsCtx, art); err != nil {
		return types.MixedUnion(), err
	}
	// only && propagates its narrowed context to the enclosing if_body_context;
	// || narrows for the false side, which isn't what an enclosing "if" wants.
	ctx.IfBodyContext = rhsCtx
	return boolResult(), nil
}

// analyzeLogicalOr is the "||" mirror: the right-hand clone is reconciled
// against the negated (if-false) assertions of lhs.
func (a *Analyzer) analyzeLogicalOr(b *ast.BinaryExpr, ctx *blockctx.Context, art *artifacts.Artifacts) (types.Union, *diagnostic.InternalError) {
	if _, err := a.AnalyzeExpression(b.Left, ctx, art); err != nil {
		return types.MixedUnion(), err
	}
	_, ifFalse := a.assertionsFor(b.Left, ctx, art)
	rhsCtx := ctx.Fork()
	res := reconciler.Reconcile(rhsCtx, ifFalse, b.Left.Span())
	art.ReportAll(res.Issues)
	rhsCtx.RemoveReconciledClauseRefs(res.ChangedVarIDs)

	if _, err := a.AnalyzeExpression(b.Right, rhsCtx, art); err != nil {
		return types.MixedUnion(), err
	}
	return boolResult(), nil
}

// boolResult is the static type of && and ||: both are always bool
// regardless of operand types, per spec.md §4.7.
func boolResult() types.Union {
	return types.Single(types.Bool{Value: types.TriEither})
}

// analyzeCoalesce implements spec.md §4.7's "??" highlight.
func (a *Analyzer) analyzeCoalesce(c *ast.CoalesceExpr, ctx *blockctx.Context, art *artifacts.Artifacts) (types.Union, *diagnostic.InternalError) {
	wasCoalescing := ctx.InsideCoalescing
	ctx.InsideCoalescing = true
	lhs, err := a.AnalyzeExpression(c.Left, ctx, art)
	ctx.InsideCoalescing = wasCoalescing
	if err != nil {
		return types.MixedUnion(), err
	}
	rhs, err := a.AnalyzeExpression(c.Right, ctx, art)
	if err != nil {
		return types.MixedUnion(), err
	}

	if lhs.IsSingle() {
		if _, isNull := lhs.Atoms[0].(types.Null); isNull {
			art.Report(diagnostic.Issue{
				Code:     diagnostic.CodeRedundantNullCoalesce,
				Severity: diagnostic.SeverityHelp,
				Message:  "left side of ?? is always null",
				Primary:  c.Sp,
			})
			return rhs, nil
		}
	}
	if !types.HasNull(lhs) && !lhs.PossiblyUndefined {
		art.Report(diagnostic.Issue{
			Code:     diagnostic.CodeRedundantNullCoalesce,
			Severity: diagnostic.SeverityHelp,
			Message:  "left side of ?? is never null",
			Primary:  c.Sp,
		})
		return types.NonNullable(lhs), nil
	}
	return types.Combine(types.NonNullable(lhs), rhs), nil
}

// analyzeElvis implements spec.md §4.7's "?:" highlight: identical
// structure to coalesce but keyed on truthiness rather than nullness.
func (a *Analyzer) analyzeElvis(e *ast.ElvisExpr, ctx *blockctx.Context, art *artifacts.Artifacts) (types.Union, *diagnostic.InternalError) {
	lhs, err := a.AnalyzeExpression(e.Left, ctx, art)
	if err != nil {
		return types.MixedUnion(), err
	}
	rhs, err := a.AnalyzeExpression(e.Right, ctx, art)
	if err != nil {
		return types.MixedUnion(), err
	}
	truthy := types.Truthy(lhs)
	if truthy.IsNever() {
		art.Report(diagnostic.Issue{
			Code:     diagnostic.CodeRedundantElvis,
			Severity: diagnostic.SeverityHelp,
			Message:  "left side of ?: is never truthy",
			Primary:  e.Sp,
		})
		return rhs, nil
	}
	falsy := types.Falsy(lhs)
	if falsy.IsNever() {
		art.Report(diagnostic.Issue{
			Code:     diagnostic.CodeRedundantElvis,
			Severity: diagnostic.SeverityHelp,
			Message:  "left side of ?: is always truthy",
			Primary:  e.Sp,
		})
		return truthy, nil
	}
	return types.Combine(truthy, rhs), nil
}

// analyzeConditional implements spec.md §4.7's "a ? b : c" highlight.
func (a *Analyzer) analyzeConditional(c *ast.ConditionalExpr, ctx *blockctx.Context, art *artifacts.Artifacts) (types.Union, *diagnostic.InternalError) {
	condType, err := a.AnalyzeExpression(c.Condition, ctx, art)
	if err != nil {
		return types.MixedUnion(), err
	}
	ifTrue, ifFalse := a.assertionsFor(c.Condition, ctx, art)

	thenCtx := ctx.Fork()
	res := reconciler.Reconcile(thenCtx, ifTrue, c.Condition.Span())
	art.ReportAll(res.Issues)
	thenType, err := a.AnalyzeExpression(c.Then, thenCtx, art)
	if err != nil {
		return types.MixedUnion(), err
	}

	elseCtx := ctx.Fork()
	res2 := reconciler.Reconcile(elseCtx, ifFalse, c.Condition.Span())
	art.ReportAll(res2.Issues)
	elseType, err := a.AnalyzeExpression(c.Else, elseCtx, art)
	if err != nil {
		return types.MixedUnion(), err
	}

	truthy := types.Truthy(condType)
	falsy := types.Falsy(condType)
	if truthy.IsNever() {
		art.Report(redundantCondition(c.Sp, "condition is always false"))
		return elseType, nil
	}
	if falsy.IsNever() {
		art.Report(redundantCondition(c.Sp, "condition is always true"))
		return thenType, nil
	}
	return types.Combine(thenType, elseType), nil
}

func redundantCondition(span diagnostic.Span, msg string) diagnostic.Issue {
	return diagnostic.Issue{Code: diagnostic.CodeRedundantCondition, Severity: diagnostic.SeverityHelp, Message: msg, Primary: span}
}

// isComparisonExpr reports whether e is a binary comparison whose evaluator
// (evalComparison) already reports its own RedundantComparison when the
// result is statically known, so callers like analyzeIf don't double-report
// the same always-true/always-false verdict under a different code.
func isComparisonExpr(e ast.Expression) bool {
	b, ok := e.(*ast.BinaryExpr)
	if !ok {
		return false
	}
	switch b.Op {
	case ast.OpEq, ast.OpNotEq, ast.OpIdentical, ast.OpNotIdentical, ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		return true
	}
	return false
}
