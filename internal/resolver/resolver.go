// Package resolver implements spec.md §6 item 2, the ResolvedNames external
// collaborator: a stable NameId for every Identifier node, computed once
// ahead of analysis (scope resolution itself is out of the core's scope per
// spec.md §1).
package resolver

import "github.com/glyphlang/glint/internal/ast"

// ResolvedNames exposes per-Identifier resolution results (spec.md §6
// "get(node) -> NameId, is_imported(node) -> bool").
type ResolvedNames interface {
	Get(node *ast.Identifier) (uint64, bool)
	IsImported(node *ast.Identifier) bool
}

// Table is a minimal in-memory ResolvedNames, keyed by node identity.
// cmd/glintcheck and the tests build one and hand it to driver.New.
type Table struct {
	ids      map[*ast.Identifier]uint64
	imported map[*ast.Identifier]bool
}

// NewTable creates an empty resolution table.
func NewTable() *Table {
	return &Table{ids: map[*ast.Identifier]uint64{}, imported: map[*ast.Identifier]bool{}}
}

// Bind records node's resolved NameId.
func (t *Table) Bind(node *ast.Identifier, id uint64) { t.ids[node] = id }

// MarkImported flags node as resolving to an imported (cross-file) name.
func (t *Table) MarkImported(node *ast.Identifier) { t.imported[node] = true }

// Get implements ResolvedNames.
func (t *Table) Get(node *ast.Identifier) (uint64, bool) {
	id, ok := t.ids[node]
	return id, ok
}

// IsImported implements ResolvedNames.
func (t *Table) IsImported(node *ast.Identifier) bool { return t.imported[node] }
