// Package blockctx implements spec.md §3.4/§4.5, component C5: the
// per-flow mutable Block Context the expression and statement analyzers
// thread through a function body, plus its fork/merge algebra.
package blockctx

import (
	"github.com/glyphlang/glint/internal/formula"
	"github.com/glyphlang/glint/internal/types"
)

// BreakKind distinguishes the two kinds of breakable enclosing context
// (spec.md §3.4 "break_types: stack of Loop, Switch").
type BreakKind int

const (
	BreakLoop BreakKind = iota
	BreakSwitch
)

// Scope is the current class-like / function-like scope a Context runs in
// (spec.md §3.4 "scope"). Kept minimal; the resolver/codebase packages
// supply richer lookups through it.
type Scope struct {
	ClassName    string
	FunctionName string
	IsStatic     bool
}

// Context is spec.md §3.4's Block Context. locals uses a shared *Union
// handle per place so that fork() is a cheap shallow copy (spec.md §4.5
// "cheap to clone: variable maps share handles") while Set still gives each
// forked branch its own independent binding once it writes.
type Context struct {
	locals map[string]*types.Union

	VariablesPossiblyInScope           map[string]bool
	ConditionallyReferencedVariableIDs map[string]bool
	AssignedVariableIDs                map[string]int
	PossiblyAssignedVariableIDs        map[string]bool

	Clauses                     formula.Formula
	ReconciledExpressionClauses formula.Formula

	BreakTypes []BreakKind

	HasReturned           bool
	InsideLoop            bool
	InsideLoopExpressions bool
	InsideConditional     bool
	InsideIsset           bool
	InsideCoalescing      bool
	InsideGeneralUse      bool
	InsideAssignment      bool
	InsideNegation        bool

	ByReferenceConstraints    map[string]bool
	ReferencesToExternalScope map[string]bool
	ReferencesInScope         map[string]int

	Scope Scope

	// IfBodyContext back-points to the enclosing conditional's "then"
	// context (spec.md §3.4), used by short-circuit operator analysis to
	// propagate assertions outward on the non-negated path.
	IfBodyContext *Context
}

// New creates an empty root Context for one function-like body.
func New(scope Scope) *Context {
	return &Context{
		locals:                              map[string]*types.Union{},
		VariablesPossiblyInScope:            map[string]bool{},
		ConditionallyReferencedVariableIDs:  map[string]bool{},
		AssignedVariableIDs:                 map[string]int{},
		PossiblyAssignedVariableIDs:         map[string]bool{},
		ByReferenceConstraints:              map[string]bool{},
		ReferencesToExternalScope:           map[string]bool{},
		ReferencesInScope:                   map[string]int{},
		Scope:                               scope,
	}
}

// Get implements reconciler.Locals.
func (c *Context) Get(key string) (types.Union, bool) {
	u, ok := c.locals[key]
	if !ok {
		return types.Union{}, false
	}
	return *u, true
}

// Set implements reconciler.Locals: writes always allocate a fresh handle
// so that a forked sibling Context sharing the old handle is unaffected.
func (c *Context) Set(key string, u types.Union) {
	cp := u
	c.locals[key] = &cp
	c.RemoveVariableFromConflictingClauses(key)
}

// Keys returns every place-key currently bound in locals.
func (c *Context) Keys() []string {
	keys := make([]string, 0, len(c.locals))
	for k := range c.locals {
		keys = append(keys, k)
	}
	return keys
}

// Fork clones c for a branch (spec.md §4.5 "fork()"): the locals map is
// copied shallowly (handles shared, spec.md §4.5 "cheap to clone"), but the
// set fields get independent copies so a branch's writes don't leak back.
func (c *Context) Fork() *Context {
	cp := &Context{
		locals:                              make(map[string]*types.Union, len(c.locals)),
		VariablesPossiblyInScope:            copySet(c.VariablesPossiblyInScope),
		ConditionallyReferencedVariableIDs:  copySet(c.ConditionallyReferencedVariableIDs),
		AssignedVariableIDs:                 copyCounts(c.AssignedVariableIDs),
		PossiblyAssignedVariableIDs:         copySet(c.PossiblyAssignedVariableIDs),
		Clauses:                             append(formula.Formula{}, c.Clauses...),
		ReconciledExpressionClauses:         append(formula.Formula{}, c.ReconciledExpressionClauses...),
		BreakTypes:                          append([]BreakKind{}, c.BreakTypes...),
		HasReturned:                         c.HasReturned,
		InsideLoop:                          c.InsideLoop,
		InsideLoopExpressions:               c.InsideLoopExpressions,
		InsideConditional:                   c.InsideConditional,
		InsideIsset:                         c.InsideIsset,
		InsideCoalescing:                    c.InsideCoalescing,
		InsideGeneralUse:                    c.InsideGeneralUse,
		InsideAssignment:                    c.InsideAssignment,
		InsideNegation:                      c.InsideNegation,
		ByReferenceConstraints:              copySet(c.ByReferenceConstraints),
		ReferencesToExternalScope:           copySet(c.ReferencesToExternalScope),
		ReferencesInScope:                   copyCounts(c.ReferencesInScope),
		Scope:                               c.Scope,
		IfBodyContext:                       c.IfBodyContext,
	}
	for k, v := range c.locals {
		cp.locals[k] = v
	}
	return cp
}

func copySet(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Merge applies spec.md §4.5 "merge(branches, lattice)" and returns the
// result as a new fork of pre: for each place present in every branch,
// store the combine of their types; for places present in only some,
// combine with pre's own (pre-merge) type and mark possibly-undefined.
func Merge(pre *Context, branches []*Context) *Context {
	out := pre.Fork()
	present := map[string]int{}
	combined := map[string]types.Union{}
	for _, br := range branches {
		for _, k := range br.Keys() {
			u, _ := br.Get(k)
			present[k]++
			if existing, ok := combined[k]; ok {
				combined[k] = types.Combine(existing, u)
			} else {
				combined[k] = u
			}
		}
		for k := range br.VariablesPossiblyInScope {
			out.VariablesPossiblyInScope[k] = true
		}
		for k := range br.ConditionallyReferencedVariableIDs {
			out.ConditionallyReferencedVariableIDs[k] = true
		}
	}
	for k, u := range combined {
		if present[k] == len(branches) {
			out.Set(k, u)
			continue
		}
		preType, hadPre := pre.Get(k)
		merged := u
		if hadPre {
			merged = types.Combine(u, preType)
		}
		merged.PossiblyUndefined = true
		out.Set(k, merged)
	}
	out.HasReturned = len(branches) > 0
	for _, br := range branches {
		if !br.HasReturned {
			out.HasReturned = false
			break
		}
	}
	return out
}

// RemoveReconciledClauseRefs partitions c.Clauses into retained and
// reconciled-out clauses for the keys in changedKeys (spec.md §4.5).
func (c *Context) RemoveReconciledClauseRefs(changedKeys map[string]bool) {
	var retained, reconciled formula.Formula
	for _, cl := range c.Clauses {
		if key, _, ok := cl.SinglePlace(); ok && changedKeys[key] {
			reconciled = append(reconciled, cl)
			continue
		}
		retained = append(retained, cl)
	}
	c.Clauses = retained
	c.ReconciledExpressionClauses = append(c.ReconciledExpressionClauses, reconciled...)
}

// RemoveVariableFromConflictingClauses drops any clause solely about key
// from c.Clauses, called when key is reassigned so stale narrowings don't
// leak past the write (spec.md §4.5).
func (c *Context) RemoveVariableFromConflictingClauses(key string) {
	var retained formula.Formula
	for _, cl := range c.Clauses {
		if k, _, ok := cl.SinglePlace(); ok && k == key {
			continue
		}
		retained = append(retained, cl)
	}
	c.Clauses = retained
}

// PushBreak / PopBreak manage break_types (spec.md §3.4).
func (c *Context) PushBreak(k BreakKind) { c.BreakTypes = append(c.BreakTypes, k) }
func (c *Context) PopBreak() {
	if len(c.BreakTypes) == 0 {
		return
	}
	c.BreakTypes = c.BreakTypes[:len(c.BreakTypes)-1]
}

// CurrentBreak reports the innermost enclosing breakable context, if any.
func (c *Context) CurrentBreak() (BreakKind, bool) {
	if len(c.BreakTypes) == 0 {
		return 0, false
	}
	return c.BreakTypes[len(c.BreakTypes)-1], true
}
