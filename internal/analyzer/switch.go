package analyzer

import (
	"github.com/glyphlang/glint/internal/artifacts"
	"github.com/glyphlang/glint/internal/assertion"
	"github.com/glyphlang/glint/internal/ast"
	"github.com/glyphlang/glint/internal/blockctx"
	"github.com/glyphlang/glint/internal/diagnostic"
	"github.com/glyphlang/glint/internal/reconciler"
)

// analyzeSwitch implements spec.md §4.10: cases are transformed into a
// synthetic chain of equality tests against the subject and analyzed with
// the if/else reconciliation infrastructure; empty cases accumulate their
// conditions into the next non-empty case's disjunction, and a case whose
// body doesn't end in a terminating statement falls through into the next
// case's statement list.
func (a *Analyzer) analyzeSwitch(s *ast.SwitchStatement, ctx *blockctx.Context, art *artifacts.Artifacts) *diagnostic.InternalError {
	if _, err := a.AnalyzeExpression(s.Subject, ctx, art); err != nil {
		return err
	}

	var branches []*blockctx.Context
	hasDefault := false
	var pendingConds []ast.Expression

	i := 0
	for i < len(s.Cases) {
		c := s.Cases[i]
		if c.IsDefault {
			hasDefault = true
		}
		pendingConds = append(pendingConds, c.Conditions...)
		if len(c.Body) == 0 {
			i++
			continue
		}

		var synthCond ast.Expression
		if len(pendingConds) > 0 {
			synthCond = buildEqualityDisjunction(s.Subject, pendingConds)
		}
		pendingConds = nil

		branchCtx := ctx.Fork()
		if synthCond != nil {
			ifTrue, _ := a.assertionsFor(synthCond, branchCtx, art)
			res := reconciler.Reconcile(branchCtx, ifTrue, c.Sp)
			art.ReportAll(res.Issues)
		}

		if subjectKey, ok := assertion.PlaceKey(s.Subject); ok && synthCond != nil {
			if u, ok := branchCtx.Get(subjectKey); ok && u.IsNever() {
				art.Report(diagnostic.Issue{
					Code:     diagnostic.CodeParadoxicalCase,
					Severity: diagnostic.SeverityWarning,
					Message:  "this case can never match the subject",
					Primary:  c.Sp,
				})
				i++
				continue
			}
		}

		// Concatenate fallthrough bodies: a case whose body doesn't end in
		// Return/Break/Continue/Throw falls into the next case's statements.
		stmts := append([]ast.Statement{}, c.Body...)
		j := i
		for !endsInTerminator(stmts) && j+1 < len(s.Cases) {
			j++
			next := s.Cases[j]
			if next.IsDefault {
				hasDefault = true
			}
			stmts = append(stmts, next.Body...)
		}
		branchCtx.PushBreak(blockctx.BreakSwitch)
		synthetic := &ast.BlockStatement{Sp: c.Sp, Statements: stmts}
		if err := a.AnalyzeBlock(synthetic, branchCtx, art); err != nil {
			return err
		}
		branches = append(branches, branchCtx)
		i = j + 1
	}

	if !hasDefault {
		// no case may match at all; the pre-switch locals survive unchanged
		// as one more branch so assigned-in-some-but-not-all variables are
		// correctly marked possibly_undefined rather than definite.
		branches = append(branches, ctx.Fork())
	}

	merged := blockctx.Merge(ctx, branches)
	*ctx = *merged
	return nil
}

// buildEqualityDisjunction builds `subject == c0 || subject == c1 || ...`
// as a synthetic AST so the existing assertion extractor / reconciler can
// narrow the subject's place the same way an explicit if-chain would.
func buildEqualityDisjunction(subject ast.Expression, conds []ast.Expression) ast.Expression {
	var out ast.Expression
	for _, c := range conds {
		eq := &ast.BinaryExpr{Sp: c.Span(), Op: ast.OpEq, Left: subject, Right: c}
		if out == nil {
			out = eq
			continue
		}
		out = &ast.BinaryExpr{Sp: c.Span(), Op: ast.OpOr, Left: out, Right: eq}
	}
	return out
}

func endsInTerminator(stmts []ast.Statement) bool {
	if len(stmts) == 0 {
		return false
	}
	switch stmts[len(stmts)-1].(type) {
	case *ast.ReturnStatement, *ast.BreakStatement, *ast.ContinueStatement, *ast.ThrowStatement:
		return true
	}
	return false
}
