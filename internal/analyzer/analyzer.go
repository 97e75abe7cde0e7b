// Package analyzer implements spec.md §4.7/§4.9, components C7 (Expression
// Analyzer) and C8 (Statement Analyzer): the recursive, flow-sensitive walk
// that produces a Union for every expression and updates a Block Context's
// locals as it goes.
//
// Grounded on funxy's internal/analyzer/analyzer.go shape (a single
// Analyzer struct holding shared read-only collaborators, dispatching on
// AST node kind, accumulating into a diagnostics sink) but replacing its
// Hindley-Milner unification with spec.md's union-lattice narrowing.
package analyzer

import (
	"fmt"

	"github.com/glyphlang/glint/internal/artifacts"
	"github.com/glyphlang/glint/internal/assertion"
	"github.com/glyphlang/glint/internal/ast"
	"github.com/glyphlang/glint/internal/blockctx"
	"github.com/glyphlang/glint/internal/codebase"
	"github.com/glyphlang/glint/internal/config"
	"github.com/glyphlang/glint/internal/diagnostic"
	"github.com/glyphlang/glint/internal/formula"
	"github.com/glyphlang/glint/internal/resolver"
	"github.com/glyphlang/glint/internal/types"
)

// Analyzer holds the shared, read-only collaborators spec.md §6 names as
// the core's external interfaces. One Analyzer is reused across every file
// a driver task analyzes (spec.md §5: these must be thread-safe for read).
type Analyzer struct {
	Codebase codebase.Index
	Names    resolver.ResolvedNames
	Caps     config.Caps
}

// New builds an Analyzer from its external collaborators.
func New(idx codebase.Index, names resolver.ResolvedNames, caps config.Caps) *Analyzer {
	return &Analyzer{Codebase: idx, Names: names, Caps: caps}
}

func (a *Analyzer) classContext(ctx *blockctx.Context) assertion.ClassContext {
	return classCtxAdapter{a: a, scope: ctx.Scope}
}

type classCtxAdapter struct {
	a     *Analyzer
	scope blockctx.Scope
}

func (c classCtxAdapter) ResolveSelf() (string, bool) {
	if c.scope.ClassName == "" {
		return "", false
	}
	return c.scope.ClassName, true
}

func (c classCtxAdapter) ResolveStatic() (string, bool) { return c.ResolveSelf() }

func (c classCtxAdapter) ResolveParent() (string, bool) {
	if c.scope.ClassName == "" {
		return "", false
	}
	info, ok := c.a.Codebase.Class(c.scope.ClassName)
	if !ok || info.Parent == "" {
		return "", false
	}
	return info.Parent, true
}

func (a *Analyzer) extractor(ctx *blockctx.Context, art *artifacts.Artifacts) *assertion.Extractor {
	return &assertion.Extractor{Custom: art, Class: a.classContext(ctx)}
}

// AnalyzeExpression computes the Union for expr, recording it into art at
// expr's span (spec.md §4.7: "write the result into Artifacts at the
// expression's span").
func (a *Analyzer) AnalyzeExpression(expr ast.Expression, ctx *blockctx.Context, art *artifacts.Artifacts) (types.Union, *diagnostic.InternalError) {
	u, err := a.analyzeExpression(expr, ctx, art)
	if err != nil {
		return u, err
	}
	art.RecordExpressionType(expr.Span(), u)
	return u, nil
}

func (a *Analyzer) analyzeExpression(expr ast.Expression, ctx *blockctx.Context, art *artifacts.Artifacts) (types.Union, *diagnostic.InternalError) {
	switch e := expr.(type) {
	case *ast.NullLiteral:
		return types.Single(types.Null{}), nil
	case *ast.BoolLiteral:
		v := types.TriFalse
		if e.Value {
			v = types.TriTrue
		}
		return types.Single(types.Bool{Value: v}), nil
	case *ast.IntegerLiteral:
		return types.Single(types.NewIntLiteral(e.Value)), nil
	case *ast.FloatLiteral:
		return types.Single(types.Float{HasLiteral: true, Literal: e.Value}), nil
	case *ast.StringLiteral:
		return a.analyzeStringLiteral(e), nil
	case *ast.Variable:
		return a.analyzeVariableRead(e, ctx, art), nil
	case *ast.PropertyAccess:
		return a.analyzePropertyAccess(e, ctx, art)
	case *ast.ClassConstAccess:
		return a.analyzeClassConstAccess(e), nil
	case *ast.ArrayAccess:
		return a.analyzeArrayAccess(e, ctx, art)
	case *ast.ArrayLiteral:
		return a.analyzeArrayLiteral(e, ctx, art)
	case *ast.AssignExpr:
		return a.analyzeAssign(e, ctx, art)
	case *ast.UnaryExpr:
		return a.analyzeUnary(e, ctx, art)
	case *ast.BinaryExpr:
		return a.analyzeBinary(e, ctx, art)
	case *ast.CoalesceExpr:
		return a.analyzeCoalesce(e, ctx, art)
	case *ast.ElvisExpr:
		return a.analyzeElvis(e, ctx, art)
	case *ast.ConditionalExpr:
		return a.analyzeConditional(e, ctx, art)
	case *ast.CallExpr:
		return a.analyzeCall(e, ctx, art)
	case *ast.InstanceofExpr:
		return a.analyzeInstanceof(e, ctx, art)
	case *ast.MatchExpr:
		return a.analyzeMatch(e, ctx, art)
	}
	return types.MixedUnion(), nil
}

// analyzeStringLiteral implements spec.md §4.7's Literal highlight: strings
// of at most Caps.MaxStringLiteralBytes (1000 by default) are Known(Value);
// larger become an unspecified literal
// with derived truthy/non-empty flags.
func (a *Analyzer) analyzeStringLiteral(s *ast.StringLiteral) types.Union {
	if len(s.Value) <= a.Caps.MaxStringLiteralBytes {
		return types.Single(types.Str{LiteralShape: types.StrLiteralValue, Value: s.Value})
	}
	return types.Single(types.Str{
		LiteralShape: types.StrLiteralUnspecified,
		IsTruthy:     true,
		IsNonEmpty:   true,
	})
}

// analyzeVariableRead implements spec.md §4.7's Variable-read highlight.
func (a *Analyzer) analyzeVariableRead(v *ast.Variable, ctx *blockctx.Context, art *artifacts.Artifacts) types.Union {
	key := "$" + v.Name
	ctx.ConditionallyReferencedVariableIDs[key] = true
	u, ok := ctx.Get(key)
	if ok {
		return u
	}
	if ctx.InsideIsset || ctx.InsideCoalescing {
		pu := types.MixedUnion()
		pu.PossiblyUndefined = true
		return pu
	}
	art.Report(diagnostic.Issue{
		Code:     diagnostic.CodeUndefinedVariable,
		Severity: diagnostic.SeverityError,
		Message:  fmt.Sprintf("undefined variable %s", key),
		Primary:  v.Sp,
	})
	return types.MixedUnion()
}

func (a *Analyzer) analyzePropertyAccess(p *ast.PropertyAccess, ctx *blockctx.Context, art *artifacts.Artifacts) (types.Union, *diagnostic.InternalError) {
	objType, err := a.AnalyzeExpression(p.Object, ctx, art)
	if err != nil {
		return types.MixedUnion(), err
	}
	if key, ok := assertion.PlaceKey(p); ok {
		if u, ok := ctx.Get(key); ok {
			return u, nil
		}
	}
	for _, atom := range objType.Atoms {
		named, ok := atom.(types.ObjectNamed)
		if !ok {
			continue
		}
		info, ok := a.Codebase.Class(named.Name)
		if !ok {
			continue
		}
		if t, ok := info.Properties[p.Property]; ok {
			return t, nil
		}
	}
	return types.MixedUnion(), nil
}

func (a *Analyzer) analyzeArrayAccess(ac *ast.ArrayAccess, ctx *blockctx.Context, art *artifacts.Artifacts) (types.Union, *diagnostic.InternalError) {
	arrType, err := a.AnalyzeExpression(ac.Array, ctx, art)
	if err != nil {
		return types.MixedUnion(), err
	}
	if ac.Key == nil {
		return types.MixedUnion(), nil // append-form, only legal as an assignment target
	}
	keyType, err := a.AnalyzeExpression(ac.Key, ctx, art)
	if err != nil {
		return types.MixedUnion(), err
	}
	return indexInto(arrType, keyType), nil
}

// indexInto implements the read half of spec.md §4.7.1's array model: look
// up a literal key in known_elements/known_items, otherwise fall back to
// the widened element/value type.
func indexInto(arr types.Union, key types.Union) types.Union {
	var out types.Union
	first := true
	for _, atom := range arr.Atoms {
		var part types.Union
		switch v := atom.(type) {
		case types.List:
			if lit, ok := literalIntKey(key); ok && v.KnownElements != nil {
				if el, ok := v.KnownElements[int(lit)]; ok {
					part = el.Type
					break
				}
			}
			part = v.ElementType
		case types.Keyed:
			if lit, ok := literalArrayKey(key); ok && v.KnownItems != nil {
				if el, ok := v.KnownItems[lit]; ok {
					part = el.Type
					break
				}
			}
			if v.Parameters != nil {
				part = v.Parameters.Value
			} else {
				part = types.MixedUnion()
			}
		default:
			part = types.MixedUnion()
		}
		if first {
			out = part
			first = false
		} else {
			out = types.Combine(out, part)
		}
	}
	if first {
		return types.MixedUnion()
	}
	return out
}

func literalIntKey(u types.Union) (int64, bool) {
	if !u.IsSingle() {
		return 0, false
	}
	i, ok := u.Atoms[0].(types.Integer)
	if !ok || i.Shape != types.IntLiteral {
		return 0, false
	}
	return i.Literal, true
}

func literalArrayKey(u types.Union) (types.ArrayKey, bool) {
	if !u.IsSingle() {
		return types.ArrayKey{}, false
	}
	switch v := u.Atoms[0].(type) {
	case types.Integer:
		if v.Shape == types.IntLiteral {
			return types.IntKey(v.Literal), true
		}
	case types.Str:
		if v.LiteralShape == types.StrLiteralValue {
			return types.StrKey(v.Value), true
		}
	}
	return types.ArrayKey{}, false
}

// analyzeArrayLiteral implements spec.md §4.7's Array-literal highlight.
func (a *Analyzer) analyzeArrayLiteral(lit *ast.ArrayLiteral, ctx *blockctx.Context, art *artifacts.Artifacts) (types.Union, *diagnostic.InternalError) {
	allPositional, allKeyed := true, true
	for _, item := range lit.Items {
		if item.Key == nil {
			allKeyed = false
		} else {
			allPositional = false
		}
	}
	if len(lit.Items) == 0 {
		return types.Single(types.Keyed{KnownItems: map[types.ArrayKey]types.KeyedElement{}}), nil
	}
	if allPositional {
		return a.analyzeListLiteral(lit, ctx, art)
	}
	_ = allKeyed
	return a.analyzeKeyedLiteral(lit, ctx, art)
}

func (a *Analyzer) analyzeListLiteral(lit *ast.ArrayLiteral, ctx *blockctx.Context, art *artifacts.Artifacts) (types.Union, *diagnostic.InternalError) {
	elements := map[int]types.ListElement{}
	var elemType types.Union
	first := true
	for i, item := range lit.Items {
		vt, err := a.AnalyzeExpression(item.Value, ctx, art)
		if err != nil {
			return types.MixedUnion(), err
		}
		if i < a.Caps.KnownItemsCap {
			elements[i] = types.ListElement{Type: vt}
		}
		if first {
			elemType = vt
			first = false
		} else {
			elemType = types.Combine(elemType, vt)
		}
	}
	if len(lit.Items) > a.Caps.KnownItemsCap {
		elements = nil
	}
	return types.Single(types.List{
		ElementType:   elemType,
		KnownElements: elements,
		KnownCount:    len(lit.Items),
		HasKnownCount: true,
		NonEmpty:      len(lit.Items) > 0,
	}), nil
}

func (a *Analyzer) analyzeKeyedLiteral(lit *ast.ArrayLiteral, ctx *blockctx.Context, art *artifacts.Artifacts) (types.Union, *diagnostic.InternalError) {
	items := map[types.ArrayKey]types.KeyedElement{}
	var keyType, valType types.Union
	first := true
	widened := len(lit.Items) > a.Caps.KnownItemsCap
	for _, item := range lit.Items {
		kt, err := a.AnalyzeExpression(item.Key, ctx, art)
		if err != nil {
			return types.MixedUnion(), err
		}
		vt, err := a.AnalyzeExpression(item.Value, ctx, art)
		if err != nil {
			return types.MixedUnion(), err
		}
		if first {
			keyType, valType = kt, vt
			first = false
		} else {
			keyType, valType = types.Combine(keyType, kt), types.Combine(valType, vt)
		}
		if !widened {
			if lk, ok := literalArrayKey(kt); ok {
				items[lk] = types.KeyedElement{Type: vt}
			} else {
				widened = true
			}
		}
	}
	var params *types.KeyedParams
	if widened {
		items = nil
		params = &types.KeyedParams{Key: keyType, Value: valType}
	}
	return types.Single(types.Keyed{Parameters: params, KnownItems: items, NonEmpty: len(lit.Items) > 0}), nil
}

func (a *Analyzer) analyzeInstanceof(e *ast.InstanceofExpr, ctx *blockctx.Context, art *artifacts.Artifacts) (types.Union, *diagnostic.InternalError) {
	if _, err := a.AnalyzeExpression(e.Object, ctx, art); err != nil {
		return types.MixedUnion(), err
	}
	return types.Single(types.Bool{Value: types.TriEither}), nil
}

// analyzeCall is a minimal call-site handler: spec.md scopes the full call
// surface outside the core analyzer (§1's codebase-index-driven signature
// resolution is a driver/codebase concern), but every call still yields a
// best-effort type so downstream expressions stay analyzable.
func (a *Analyzer) analyzeCall(c *ast.CallExpr, ctx *blockctx.Context, art *artifacts.Artifacts) (types.Union, *diagnostic.InternalError) {
	for _, arg := range c.Args {
		if _, err := a.AnalyzeExpression(arg, ctx, art); err != nil {
			return types.MixedUnion(), err
		}
	}
	if ident, ok := c.Callee.(*ast.Identifier); ok {
		if info, ok := a.Codebase.Function(ident.Name); ok {
			return info.Signature.Return, nil
		}
	}
	return types.MixedUnion(), nil
}

func (a *Analyzer) assertionsFor(cond ast.Expression, ctx *blockctx.Context, art *artifacts.Artifacts) (ifTrue, ifFalse formula.Formula) {
	ext := a.extractor(ctx, art)
	return formula.BuildFormula(ext.Extract(cond)), formula.BuildFormula(ext.ExtractFalse(cond))
}
