package analyzer

import (
	"github.com/glyphlang/glint/internal/artifacts"
	"github.com/glyphlang/glint/internal/ast"
	"github.com/glyphlang/glint/internal/blockctx"
	"github.com/glyphlang/glint/internal/diagnostic"
	"github.com/glyphlang/glint/internal/types"
)

// analyzeClassConstAccess resolves "ClassName::member" (spec.md §3.1
// Object.Enum): an enum case becomes a tagged ObjectEnum atom so match/switch
// subtraction can narrow it case-by-case; any other class constant falls
// back to its declared type, or mixed if the class or member is unresolved.
func (a *Analyzer) analyzeClassConstAccess(e *ast.ClassConstAccess) types.Union {
	info, ok := a.Codebase.Class(e.ClassName)
	if !ok {
		return types.MixedUnion()
	}
	if info.IsEnum {
		for _, c := range info.EnumCases {
			if c == e.MemberName {
				return types.Single(types.ObjectEnum{Name: e.ClassName, CaseName: e.MemberName})
			}
		}
	}
	if u, ok := info.Constants[e.MemberName]; ok {
		return u
	}
	return types.MixedUnion()
}

// analyzeMatch implements spec.md §4.8, the central correctness case.
func (a *Analyzer) analyzeMatch(m *ast.MatchExpr, ctx *blockctx.Context, art *artifacts.Artifacts) (types.Union, *diagnostic.InternalError) {
	subject, err := a.AnalyzeExpression(m.Subject, ctx, art)
	if err != nil {
		return types.MixedUnion(), err
	}
	if subject.IsNever() {
		art.Report(diagnostic.Issue{
			Code:     diagnostic.CodeImpossibleCondition,
			Severity: diagnostic.SeverityError,
			Message:  "match subject is never",
			Primary:  m.Sp,
		})
		return types.Never(), nil
	}

	var defaultArm *ast.MatchArm
	var conditionArms []ast.MatchArm
	for i := range m.Arms {
		arm := m.Arms[i]
		if arm.IsDefault {
			if defaultArm != nil {
				art.Report(diagnostic.Issue{
					Code:     diagnostic.CodeUnreachableArm,
					Severity: diagnostic.SeverityError,
					Message:  "duplicate default arm",
					Primary:  arm.Sp,
				})
				continue
			}
			defaultArm = &arm
			continue
		}
		conditionArms = append(conditionArms, arm)
	}

	remaining := subject
	definiteMatchTagged := false
	var armResults []types.Union
	allReturned := true
	anyLive := false

	for _, arm := range conditionArms {
		armCtx := ctx.Fork()
		anyReachable := false
		for _, cond := range arm.Conditions {
			c, err := a.AnalyzeExpression(cond, armCtx, art)
			if err != nil {
				return types.MixedUnion(), err
			}
			if types.AreDefinitelyNotIdentical(c, remaining) {
				art.Report(diagnostic.Issue{
					Code:     diagnostic.CodeUnreachableArmCond,
					Severity: diagnostic.SeverityWarning,
					Message:  "this condition can never match the remaining subject type",
					Primary:  cond.Span(),
				})
				continue
			}
			anyReachable = true
			if !definiteMatchTagged && types.IsAlwaysIdenticalTo(subject, c) {
				definiteMatchTagged = true
				art.Report(diagnostic.Issue{
					Code:     diagnostic.CodeMatchArmAlwaysTrue,
					Severity: diagnostic.SeverityHelp,
					Message:  "this arm always matches",
					Primary:  cond.Span(),
				})
			}
			remaining = a.subtractCondition(remaining, c)
		}
		if !anyReachable {
			art.Report(diagnostic.Issue{
				Code:     diagnostic.CodeUnreachableArm,
				Severity: diagnostic.SeverityWarning,
				Message:  "this arm is unreachable",
				Primary:  arm.Sp,
			})
			continue
		}
		anyLive = true
		res, err := a.AnalyzeExpression(arm.Result, armCtx, art)
		if err != nil {
			return types.MixedUnion(), err
		}
		armResults = append(armResults, res)
		if !armCtx.HasReturned {
			allReturned = false
		}
	}

	if defaultArm != nil {
		if remaining.IsNever() {
			art.Report(diagnostic.Issue{
				Code:     diagnostic.CodeUnreachableDefault,
				Severity: diagnostic.SeverityWarning,
				Message:  "default arm is unreachable: every case is already covered",
				Primary:  defaultArm.Sp,
			})
		} else {
			defCtx := ctx.Fork()
			res, err := a.AnalyzeExpression(defaultArm.Result, defCtx, art)
			if err != nil {
				return types.MixedUnion(), err
			}
			armResults = append(armResults, res)
			anyLive = true
			if !defCtx.HasReturned {
				allReturned = false
			}
			art.MarkFullyMatchedSwitch(m.Sp.Start)
		}
	} else if !remaining.IsNever() && !a.isUncappedBareEnum(remaining) {
		art.Report(diagnostic.Issue{
			Code:     diagnostic.CodeMatchNotExhaustive,
			Severity: diagnostic.SeverityError,
			Message:  "match is not exhaustive",
			Primary:  m.Sp,
		})
	} else if remaining.IsNever() {
		art.MarkFullyMatchedSwitch(m.Sp.Start)
	}

	if !anyLive {
		allReturned = false
	}
	ctx.HasReturned = ctx.HasReturned || allReturned

	if len(armResults) == 0 {
		return types.Never(), nil
	}
	out := armResults[0]
	for _, r := range armResults[1:] {
		out = types.Combine(out, r)
	}
	return out, nil
}

// subtractCondition implements spec.md §4.8 item 4: enum-aware subtraction.
// When c is a single bare enum case and remaining contains that enum's
// generic atom, expand the enum (resolved via Codebase) up to the cap and
// remove the matched case; otherwise fall back to the lattice's ordinary
// Subtract.
func (a *Analyzer) subtractCondition(remaining, c types.Union) types.Union {
	if !c.IsSingle() {
		return types.Subtract(remaining, c)
	}
	ce, ok := c.Atoms[0].(types.ObjectEnum)
	if !ok || ce.CaseName == "" {
		return types.Subtract(remaining, c)
	}

	var out types.Union
	first := true
	emit := func(u types.Union) {
		if first {
			out, first = u, false
		} else {
			out = types.Combine(out, u)
		}
	}

	for _, atom := range remaining.Atoms {
		re, ok := atom.(types.ObjectEnum)
		if !ok || re.Name != ce.Name {
			emit(types.Single(atom))
			continue
		}
		if re.CaseName != "" {
			// Already split to a concrete case (e.g. by an earlier arm):
			// ordinary subtraction removes it if it's exactly c's case.
			emit(types.Subtract(types.Single(re), c))
			continue
		}
		info, ok := a.Codebase.Class(re.Name)
		if !ok || len(info.EnumCases) == 0 {
			emit(types.Single(re)) // unresolved: leave the bare enum unchanged
			continue
		}
		expanded, capped := types.ExpandEnumCases(re.Name, info.EnumCases, a.Caps.EnumExpansionCap)
		if !capped {
			emit(types.Single(re))
			continue
		}
		emit(types.Subtract(expanded, c))
	}
	if first {
		return types.Subtract(remaining, c)
	}
	return out
}

// isUncappedBareEnum reports whether u is a single bare enum atom whose
// case count exceeds the expansion cap (spec.md §4.8 item 6's exemption
// from "match not exhaustive" when the subject is such an enum).
func (a *Analyzer) isUncappedBareEnum(u types.Union) bool {
	if !u.IsSingle() {
		return false
	}
	e, ok := u.Atoms[0].(types.ObjectEnum)
	if !ok || e.CaseName != "" {
		return false
	}
	info, ok := a.Codebase.Class(e.Name)
	if !ok {
		return true // unresolved enum: treat conservatively as opaque
	}
	return len(info.EnumCases) > a.Caps.EnumExpansionCap
}
