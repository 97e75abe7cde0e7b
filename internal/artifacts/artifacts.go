// Package artifacts implements spec.md §3.5/§4.6, component C6: the
// per-file accumulator the expression and statement analyzers write into as
// they walk a file, plus the append-only dataflow graph.
package artifacts

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/glyphlang/glint/internal/assertion"
	"github.com/glyphlang/glint/internal/config"
	"github.com/glyphlang/glint/internal/diagnostic"
	"github.com/glyphlang/glint/internal/types"
)

// EdgeKind is the closed set of dataflow edge shapes (spec.md §4.6).
type EdgeKind int

const (
	EdgeDefault EdgeKind = iota
	EdgeArrayAssignment
	EdgeUnknownArrayAssignment
)

// ArrayValueKind names what sort of array slot an ArrayAssignment /
// UnknownArrayAssignment edge targets (spec.md §4.6).
type ArrayValueKind int

const (
	ArrayValueList ArrayValueKind = iota
	ArrayValueKeyed
)

// Node is one dataflow graph node, identified by a generated UUID so
// multiple synthetic composition nodes at the same span never collide
// (spec.md §4.6 "nodes keyed by (place-identifier, span) or by synthetic
// composition IDs").
type Node struct {
	ID    types.DataflowNodeID
	Place string
	Span  diagnostic.Span
}

// Edge is one directed, typed dataflow edge (spec.md §4.6).
type Edge struct {
	From    types.DataflowNodeID
	To      types.DataflowNodeID
	Kind    EdgeKind
	ValueOf ArrayValueKind // meaningful only for the ArrayAssignment kinds
	Key     string          // literal key string, meaningful only for EdgeArrayAssignment
}

// Graph is the append-only dataflow multigraph (spec.md §4.6: "The graph is
// append-only during analysis ... The lattice never consults the graph;
// equality of types ignores parent-node lists").
type Graph struct {
	nodes   []Node
	edges   []Edge
	nextID  int // only used under config.IsTestMode or config.IsLSPMode
}

// NewNode allocates and appends a fresh node, returning its ID. Under
// config.IsTestMode, ids are stable small counters instead of random
// UUIDs, so golden fixtures can compare dataflow graphs byte-for-byte
// without depending on uuid's randomness. config.IsLSPMode gets the same
// stable counters, since an editor client re-requesting diagnostics on an
// unchanged file needs identical node ids to diff against its last result.
func (g *Graph) NewNode(place string, span diagnostic.Span) types.DataflowNodeID {
	var id types.DataflowNodeID
	if config.IsTestMode || config.IsLSPMode {
		id = types.DataflowNodeID(fmt.Sprintf("n%d", g.nextID))
		g.nextID++
	} else {
		id = types.DataflowNodeID(uuid.NewString())
	}
	g.nodes = append(g.nodes, Node{ID: id, Place: place, Span: span})
	return id
}

// AddEdge appends a typed edge to the graph.
func (g *Graph) AddEdge(from, to types.DataflowNodeID, kind EdgeKind) {
	g.edges = append(g.edges, Edge{From: from, To: to, Kind: kind})
}

// AddArrayEdge appends an ArrayAssignment edge with its literal key.
func (g *Graph) AddArrayEdge(from, to types.DataflowNodeID, valueOf ArrayValueKind, key string) {
	g.edges = append(g.edges, Edge{From: from, To: to, Kind: EdgeArrayAssignment, ValueOf: valueOf, Key: key})
}

// AddUnknownArrayEdge appends an UnknownArrayAssignment edge (slot unknown).
func (g *Graph) AddUnknownArrayEdge(from, to types.DataflowNodeID, valueOf ArrayValueKind) {
	g.edges = append(g.edges, Edge{From: from, To: to, Kind: EdgeUnknownArrayAssignment, ValueOf: valueOf})
}

// Parents returns every node with a Default or array edge into target,
// walked one hop (callers recurse for deeper origin tracking).
func (g *Graph) Parents(target types.DataflowNodeID) []types.DataflowNodeID {
	var out []types.DataflowNodeID
	for _, e := range g.edges {
		if e.To == target {
			out = append(out, e.From)
		}
	}
	return out
}

// Nodes exposes the node list read-only, for drivers rendering the graph.
func (g *Graph) Nodes() []Node { return append([]Node{}, g.nodes...) }

// Edges exposes the edge list read-only.
func (g *Graph) Edges() []Edge { return append([]Edge{}, g.edges...) }

// CaseScope is one entry of the case_scopes stack used by switch analysis
// to collect per-case exit locals and break/fall-through behavior.
type CaseScope struct {
	Offset      int
	Returned    bool
	BrokeOrCont bool
}

// Artifacts is spec.md §3.5's per-file accumulator.
type Artifacts struct {
	File string

	expressionTypes map[diagnostic.Span]types.Union

	ifTrueAssertions  map[diagnostic.Span]assertion.Possibilities
	ifFalseAssertions map[diagnostic.Span]assertion.Possibilities

	Graph Graph

	CaseScopes []CaseScope

	FullyMatchedSwitchOffsets map[int]bool

	InferredReturnTypes []types.Union

	issues *diagnostic.Collector
}

// New creates an empty Artifacts accumulator for one file.
func New(file string) *Artifacts {
	return &Artifacts{
		File:                      file,
		expressionTypes:           map[diagnostic.Span]types.Union{},
		ifTrueAssertions:          map[diagnostic.Span]assertion.Possibilities{},
		ifFalseAssertions:         map[diagnostic.Span]assertion.Possibilities{},
		FullyMatchedSwitchOffsets: map[int]bool{},
		issues:                    diagnostic.NewCollector(),
	}
}

// RecordExpressionType writes the inferred type for the expression at span
// (spec.md §3.5 "expression_types").
func (a *Artifacts) RecordExpressionType(span diagnostic.Span, u types.Union) {
	a.expressionTypes[span] = u
}

// ExpressionType looks up a previously recorded expression type.
func (a *Artifacts) ExpressionType(span diagnostic.Span) (types.Union, bool) {
	u, ok := a.expressionTypes[span]
	return u, ok
}

// SetCustomAssertions records the if-true/if-false Possibilities a special
// function handler (or other call-site analysis) derived for the call at
// span, so the Assertion Extractor's CustomAssertions lookup can find them.
func (a *Artifacts) SetCustomAssertions(span diagnostic.Span, ifTrue, ifFalse assertion.Possibilities) {
	a.ifTrueAssertions[span] = ifTrue
	a.ifFalseAssertions[span] = ifFalse
}

// IfTrue implements assertion.CustomAssertions.
func (a *Artifacts) IfTrue(span diagnostic.Span) (assertion.Possibilities, bool) {
	p, ok := a.ifTrueAssertions[span]
	return p, ok
}

// IfFalse implements assertion.CustomAssertions.
func (a *Artifacts) IfFalse(span diagnostic.Span) (assertion.Possibilities, bool) {
	p, ok := a.ifFalseAssertions[span]
	return p, ok
}

// PushCaseScope / PopCaseScope manage the case_scopes stack (spec.md §3.5).
func (a *Artifacts) PushCaseScope(offset int) { a.CaseScopes = append(a.CaseScopes, CaseScope{Offset: offset}) }
func (a *Artifacts) PopCaseScope() (CaseScope, bool) {
	if len(a.CaseScopes) == 0 {
		return CaseScope{}, false
	}
	top := a.CaseScopes[len(a.CaseScopes)-1]
	a.CaseScopes = a.CaseScopes[:len(a.CaseScopes)-1]
	return top, true
}

// RecordReturnType appends a return statement's type to inferred_return_types.
func (a *Artifacts) RecordReturnType(u types.Union) {
	a.InferredReturnTypes = append(a.InferredReturnTypes, u)
}

// MarkFullyMatchedSwitch records offset as a proven-exhaustive switch/match.
func (a *Artifacts) MarkFullyMatchedSwitch(offset int) {
	a.FullyMatchedSwitchOffsets[offset] = true
}

// Report records one diagnostic Issue, deduplicating against any
// equivalent issue already recorded (spec.md §7: Issues never halt
// analysis).
func (a *Artifacts) Report(issue diagnostic.Issue) {
	a.issues.Add(issue)
}

// ReportAll records a batch of issues, e.g. those a reconciler.Reconcile
// call returned.
func (a *Artifacts) ReportAll(issues []diagnostic.Issue) {
	for _, issue := range issues {
		a.issues.Add(issue)
	}
}

// Issues returns every recorded issue for the file, in source order
// (spec.md §5: "diagnostics are emitted in source order within a single
// file").
func (a *Artifacts) Issues() []diagnostic.Issue {
	return a.issues.Issues()
}
