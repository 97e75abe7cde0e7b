// Package analyzer: Statement Analyzer (C8), spec.md §4.9/§4.10.
package analyzer

import (
	"github.com/glyphlang/glint/internal/artifacts"
	"github.com/glyphlang/glint/internal/ast"
	"github.com/glyphlang/glint/internal/blockctx"
	"github.com/glyphlang/glint/internal/config"
	"github.com/glyphlang/glint/internal/diagnostic"
	"github.com/glyphlang/glint/internal/reconciler"
	"github.com/glyphlang/glint/internal/types"
)

// AnalyzeBlock analyzes each statement of b in sequence, short-circuiting
// (without further side effects) once ctx.HasReturned is set by an earlier
// statement, mirroring an unreachable tail.
func (a *Analyzer) AnalyzeBlock(b *ast.BlockStatement, ctx *blockctx.Context, art *artifacts.Artifacts) *diagnostic.InternalError {
	for _, stmt := range b.Statements {
		if ctx.HasReturned {
			break
		}
		if err := a.AnalyzeStatement(stmt, ctx, art); err != nil {
			return err
		}
	}
	return nil
}

// AnalyzeStatement dispatches on statement kind (spec.md §4.9).
func (a *Analyzer) AnalyzeStatement(stmt ast.Statement, ctx *blockctx.Context, art *artifacts.Artifacts) *diagnostic.InternalError {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		_, err := a.AnalyzeExpression(s.Expr, ctx, art)
		return err
	case *ast.BlockStatement:
		return a.AnalyzeBlock(s, ctx, art)
	case *ast.IfStatement:
		return a.analyzeIf(s, ctx, art)
	case *ast.WhileStatement:
		return a.analyzeWhile(s, ctx, art)
	case *ast.DoWhileStatement:
		return a.analyzeDoWhile(s, ctx, art)
	case *ast.ForStatement:
		return a.analyzeFor(s, ctx, art)
	case *ast.ForeachStatement:
		return a.analyzeForeach(s, ctx, art)
	case *ast.SwitchStatement:
		return a.analyzeSwitch(s, ctx, art)
	case *ast.TryStatement:
		return a.analyzeTry(s, ctx, art)
	case *ast.ReturnStatement:
		return a.analyzeReturn(s, ctx, art)
	case *ast.ThrowStatement:
		ctx.HasReturned = true
		if s.Value != nil {
			_, err := a.AnalyzeExpression(s.Value, ctx, art)
			return err
		}
		return nil
	case *ast.BreakStatement:
		ctx.PopBreak()
		return nil
	case *ast.ContinueStatement:
		ctx.PopBreak()
		return nil
	case *ast.GlobalStatement:
		return a.analyzeGlobal(s, ctx, art)
	}
	return nil
}

// analyzeIf implements spec.md §4.9's If/elseif/else highlight, generalized
// over the elseif chain by recursing into it as a nested if.
func (a *Analyzer) analyzeIf(s *ast.IfStatement, ctx *blockctx.Context, art *artifacts.Artifacts) *diagnostic.InternalError {
	condType, err := a.AnalyzeExpression(s.Condition, ctx, art)
	if err != nil {
		return err
	}
	// A comparison operator at the top of the condition already reports its
	// own RedundantComparison via evalComparison; only fall back to the
	// generic truthy/falsy check (spec.md §8 S1) when it didn't.
	if !isComparisonExpr(s.Condition) {
		if types.Truthy(condType).IsNever() {
			art.Report(redundantCondition(s.Condition.Span(), "condition is always false"))
		} else if types.Falsy(condType).IsNever() {
			art.Report(redundantCondition(s.Condition.Span(), "condition is always true"))
		}
	}
	ifTrue, ifFalse := a.assertionsFor(s.Condition, ctx, art)

	thenCtx := ctx.Fork()
	res := reconciler.Reconcile(thenCtx, ifTrue, s.Condition.Span())
	art.ReportAll(res.Issues)
	if err := a.AnalyzeBlock(s.Then, thenCtx, art); err != nil {
		return err
	}

	elseCtx := ctx.Fork()
	res2 := reconciler.Reconcile(elseCtx, ifFalse, s.Condition.Span())
	art.ReportAll(res2.Issues)

	switch {
	case len(s.ElseIfs) > 0:
		head, rest := s.ElseIfs[0], s.ElseIfs[1:]
		synthetic := &ast.IfStatement{
			Sp:        head.Body.Sp,
			Condition: head.Condition,
			Then:      head.Body,
			ElseIfs:   rest,
			Else:      s.Else,
		}
		if err := a.analyzeIf(synthetic, elseCtx, art); err != nil {
			return err
		}
	case s.Else != nil:
		if err := a.AnalyzeBlock(s.Else, elseCtx, art); err != nil {
			return err
		}
	}

	merged := blockctx.Merge(ctx, []*blockctx.Context{thenCtx, elseCtx})
	*ctx = *merged
	return nil
}

// analyzeWhile implements spec.md §4.9's While highlight: the body runs
// under the pre-condition's narrowing, with a small bounded fixed-point
// re-analysis if any local widens across an iteration.
func (a *Analyzer) analyzeWhile(s *ast.WhileStatement, ctx *blockctx.Context, art *artifacts.Artifacts) *diagnostic.InternalError {
	return a.analyzeLoop(ctx, art, s.Condition, nil, s.Body)
}

func (a *Analyzer) analyzeDoWhile(s *ast.DoWhileStatement, ctx *blockctx.Context, art *artifacts.Artifacts) *diagnostic.InternalError {
	return a.analyzeLoop(ctx, art, s.Condition, nil, s.Body)
}

func (a *Analyzer) analyzeFor(s *ast.ForStatement, ctx *blockctx.Context, art *artifacts.Artifacts) *diagnostic.InternalError {
	if s.Init != nil {
		if err := a.AnalyzeStatement(s.Init, ctx, art); err != nil {
			return err
		}
	}
	return a.analyzeLoop(ctx, art, s.Condition, s.Increment, s.Body)
}

// analyzeLoop is the shared While/Do-While/For engine (spec.md §4.9):
// inside_loop and inside_loop_expressions are set while the condition and
// increment are analyzed; the body is re-analyzed up to LoopFixedPointCap
// times, each time starting from the combine of the pre-loop locals and the
// previous iteration's exit locals, until no local's type changes further.
func (a *Analyzer) analyzeLoop(ctx *blockctx.Context, art *artifacts.Artifacts, cond, incr ast.Expression, body *ast.BlockStatement) *diagnostic.InternalError {
	wasLoop, wasLoopExpr := ctx.InsideLoop, ctx.InsideLoopExpressions
	ctx.InsideLoop = true

	bodyCtx := ctx.Fork()
	for iter := 0; iter <= a.Caps.LoopFixedPointCap; iter++ {
		bodyCtx.InsideLoopExpressions = true
		if cond != nil {
			if _, err := a.AnalyzeExpression(cond, bodyCtx, art); err != nil {
				ctx.InsideLoop, ctx.InsideLoopExpressions = wasLoop, wasLoopExpr
				return err
			}
		}
		bodyCtx.InsideLoopExpressions = wasLoopExpr

		iterCtx := bodyCtx.Fork()
		iterCtx.PushBreak(blockctx.BreakLoop)
		if err := a.AnalyzeBlock(body, iterCtx, art); err != nil {
			ctx.InsideLoop, ctx.InsideLoopExpressions = wasLoop, wasLoopExpr
			return err
		}

		if incr != nil {
			iterCtx.InsideLoopExpressions = true
			if _, err := a.AnalyzeExpression(incr, iterCtx, art); err != nil {
				ctx.InsideLoop, ctx.InsideLoopExpressions = wasLoop, wasLoopExpr
				return err
			}
			iterCtx.InsideLoopExpressions = wasLoopExpr
		}

		merged := blockctx.Merge(bodyCtx, []*blockctx.Context{bodyCtx, iterCtx})
		merged.HasReturned = false
		if loopReachedFixedPoint(bodyCtx, merged) {
			bodyCtx = merged
			break
		}
		bodyCtx = merged
	}

	ctx.InsideLoop, ctx.InsideLoopExpressions = wasLoop, wasLoopExpr
	*ctx = *blockctx.Merge(ctx, []*blockctx.Context{bodyCtx})
	ctx.HasReturned = false
	return nil
}

// loopReachedFixedPoint reports whether every local shared between before
// and after has an identical type, meaning another iteration would widen
// nothing further.
func loopReachedFixedPoint(before, after *blockctx.Context) bool {
	for _, k := range after.Keys() {
		bu, ok := before.Get(k)
		if !ok {
			return false
		}
		au, _ := after.Get(k)
		if !types.IsIdenticalTo(bu, au) {
			return false
		}
	}
	return true
}

// analyzeForeach implements spec.md §4.9's Foreach highlight.
func (a *Analyzer) analyzeForeach(s *ast.ForeachStatement, ctx *blockctx.Context, art *artifacts.Artifacts) *diagnostic.InternalError {
	iterable, err := a.AnalyzeExpression(s.Iterable, ctx, art)
	if err != nil {
		return err
	}
	keyType, valType := a.iterableKeyValue(iterable)

	bodyCtx := ctx.Fork()
	bodyCtx.InsideLoop = true
	if s.KeyVar != nil {
		bodyCtx.Set("$"+s.KeyVar.Name, keyType)
	}
	bodyCtx.Set("$"+s.ValueVar.Name, valType)
	bodyCtx.PushBreak(blockctx.BreakLoop)

	if err := a.AnalyzeBlock(s.Body, bodyCtx, art); err != nil {
		return err
	}
	merged := blockctx.Merge(ctx, []*blockctx.Context{ctx, bodyCtx})
	merged.HasReturned = false
	*ctx = *merged
	return nil
}

// iterableKeyValue implements spec.md §4.9's get_iterable_parameters:
// List/Keyed array atoms resolve directly; an ObjectNamed implementing the
// config.IterTraitName trait resolves through its config.IterMethodName
// method's declared return type (an array shape, by the same resolution);
// any other shape (mixed, an unresolved object) widens to mixed for both
// the key and the value.
func (a *Analyzer) iterableKeyValue(u types.Union) (key, value types.Union) {
	var keys, values []types.Union
	for _, atom := range u.Atoms {
		switch v := atom.(type) {
		case types.List:
			keys = append(keys, types.Single(types.Integer{Shape: types.IntAny}))
			values = append(values, v.ElementType)
		case types.Keyed:
			if v.Parameters != nil {
				keys = append(keys, v.Parameters.Key)
				values = append(values, v.Parameters.Value)
			} else {
				keys = append(keys, types.MixedUnion())
				values = append(values, types.MixedUnion())
			}
		case types.ObjectNamed:
			k, val, ok := a.iterTraitKeyValue(v.Name)
			if !ok {
				k, val = types.MixedUnion(), types.MixedUnion()
			}
			keys = append(keys, k)
			values = append(values, val)
		default:
			keys = append(keys, types.MixedUnion())
			values = append(values, types.MixedUnion())
		}
	}
	if len(keys) == 0 {
		return types.MixedUnion(), types.MixedUnion()
	}
	key, value = keys[0], values[0]
	for i := 1; i < len(keys); i++ {
		key = types.Combine(key, keys[i])
		value = types.Combine(value, values[i])
	}
	return key, value
}

// iterTraitKeyValue resolves the (key, value) shape a class implementing
// config.IterTraitName's config.IterMethodName method returns, by
// re-running the List/Keyed half of the same resolution on its declared
// return type (spec.md §4.9 "foreach over a user Iterator resolves through
// its iterator method's declared return array shape").
func (a *Analyzer) iterTraitKeyValue(className string) (key, value types.Union, ok bool) {
	info, found := a.Codebase.Class(className)
	if !found {
		return types.Union{}, types.Union{}, false
	}
	implementsIter := false
	for _, iface := range info.Interfaces {
		if iface == config.IterTraitName {
			implementsIter = true
			break
		}
	}
	if !implementsIter {
		return types.Union{}, types.Union{}, false
	}
	method, found := info.Methods[config.IterMethodName]
	if !found {
		return types.Union{}, types.Union{}, false
	}
	for _, atom := range method.Signature.Return.Atoms {
		switch v := atom.(type) {
		case types.List:
			return types.Single(types.Integer{Shape: types.IntAny}), v.ElementType, true
		case types.Keyed:
			if v.Parameters != nil {
				return v.Parameters.Key, v.Parameters.Value, true
			}
		}
	}
	return types.MixedUnion(), types.MixedUnion(), true
}

// analyzeTry implements spec.md §4.9's Try/Catch/Finally highlight.
func (a *Analyzer) analyzeTry(s *ast.TryStatement, ctx *blockctx.Context, art *artifacts.Artifacts) *diagnostic.InternalError {
	tryCtx := ctx.Fork()
	if err := a.AnalyzeBlock(s.Try, tryCtx, art); err != nil {
		return err
	}

	branches := []*blockctx.Context{tryCtx}
	for _, catch := range s.Catches {
		catchCtx := ctx.Fork()
		if catch.Var != nil {
			declared := types.MixedUnion()
			if info, ok := a.Codebase.Class(catch.ExceptionType.Name); ok {
				declared = types.Single(types.ObjectNamed{Name: info.Name})
			}
			catchCtx.Set("$"+catch.Var.Name, declared)
		}
		if err := a.AnalyzeBlock(catch.Body, catchCtx, art); err != nil {
			return err
		}
		branches = append(branches, catchCtx)
	}

	merged := blockctx.Merge(ctx, branches)
	for _, k := range tryCtx.Keys() {
		if u, ok := merged.Get(k); ok {
			u.PossiblyUndefinedFromTry = true
			merged.Set(k, u)
		}
	}
	*ctx = *merged

	if s.Finally != nil {
		if err := a.AnalyzeBlock(s.Finally, ctx, art); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) analyzeReturn(s *ast.ReturnStatement, ctx *blockctx.Context, art *artifacts.Artifacts) *diagnostic.InternalError {
	if s.Value == nil {
		art.RecordReturnType(types.Single(types.Null{}))
		ctx.HasReturned = true
		return nil
	}
	u, err := a.AnalyzeExpression(s.Value, ctx, art)
	if err != nil {
		return err
	}
	art.RecordReturnType(u)
	ctx.HasReturned = true
	return nil
}

// analyzeGlobal implements spec.md §4.9's Global highlight.
func (a *Analyzer) analyzeGlobal(s *ast.GlobalStatement, ctx *blockctx.Context, art *artifacts.Artifacts) *diagnostic.InternalError {
	for _, v := range s.Vars {
		key := "$" + v.Name
		u, ok := a.Codebase.Global(v.Name)
		if !ok {
			u = types.MixedUnion()
		}
		ctx.Set(key, u)
		ctx.ReferencesToExternalScope[key] = true
	}
	return nil
}
