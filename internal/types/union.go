package types

import "strings"

// DataflowNodeID identifies a node in the per-file dataflow graph
// (internal/artifacts). Kept here, not a pointer to the graph itself, so
// that the lattice never depends on the graph package (spec.md §3.1
// invariant 5: "Dataflow parent-node lists are structural metadata: they
// must NOT affect combine, is_identical_to, or type equality").
type DataflowNodeID string

// Union is an unordered set of one or more Atoms plus flags (spec.md
// §3.1). The zero Union is "never" (len(Atoms) == 0).
type Union struct {
	Atoms                       []Atom
	PossiblyUndefined           bool
	PossiblyUndefinedFromTry    bool
	IgnoreNullableIssues        bool
	IgnoreFalsableIssues        bool
	DataflowParents             []DataflowNodeID
}

// Never is the bottom of the lattice: a Union with a single NeverAtom.
func Never() Union { return Union{Atoms: []Atom{NeverAtom{}}} }

// MixedUnion is the vanilla top of the lattice.
func MixedUnion() Union { return Union{Atoms: []Atom{Mixed{Shape: MixedVanilla}}} }

// Single wraps one Atom in a Union.
func Single(a Atom) Union { return Union{Atoms: []Atom{a}} }

// FromAtoms builds a Union from already-deduplicated atoms. Callers that
// cannot guarantee dedup should go through Combine repeatedly instead.
func FromAtoms(atoms ...Atom) Union {
	if len(atoms) == 0 {
		return Never()
	}
	return Union{Atoms: atoms}
}

// IsSingle reports whether u has exactly one Atom (spec.md §3.1: "A Union
// is single if it has exactly one Atom").
func (u Union) IsSingle() bool { return len(u.Atoms) == 1 }

// IsNever reports whether u is exactly the bottom type. A Union mixing
// Never with other atoms is not "never" (invariant 2: never is dropped
// when paired with any other atom, so a well-formed Union never contains
// both; IsNever only needs to check the single-never case). The zero Union,
// with no atoms, is never as well.
func (u Union) IsNever() bool {
	if len(u.Atoms) == 0 {
		return true
	}
	if len(u.Atoms) != 1 {
		return false
	}
	_, ok := u.Atoms[0].(NeverAtom)
	return ok
}

// IsMixed reports whether u is exactly the vanilla top type.
func (u Union) IsMixed() bool {
	if len(u.Atoms) != 1 {
		return false
	}
	m, ok := u.Atoms[0].(Mixed)
	return ok && m.Shape == MixedVanilla
}

// WithParent returns a copy of u with node appended to DataflowParents.
// Metadata-only: never changes type identity.
func (u Union) WithParent(node DataflowNodeID) Union {
	cp := u
	cp.DataflowParents = append(append([]DataflowNodeID{}, u.DataflowParents...), node)
	return cp
}

// String renders a human-readable, stable form. Interner-qualified
// rendering for user-facing diagnostics is layered on top by callers that
// hold an interner handle; the lattice itself never needs one (atoms
// carry plain strings for class/enum/function names already).
func (u Union) String() string {
	if len(u.Atoms) == 0 {
		return "never"
	}
	parts := make([]string, len(u.Atoms))
	for i, a := range u.Atoms {
		parts[i] = a.String()
	}
	s := strings.Join(parts, "|")
	if u.PossiblyUndefined {
		s += "?"
	}
	return s
}
