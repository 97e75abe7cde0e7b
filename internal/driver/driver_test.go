package driver

import (
	"context"
	"testing"

	"github.com/glyphlang/glint/internal/ast"
	"github.com/glyphlang/glint/internal/codebase"
	"github.com/glyphlang/glint/internal/config"
	"github.com/glyphlang/glint/internal/diagnostic"
	"github.com/glyphlang/glint/internal/resolver"
	"github.com/glyphlang/glint/internal/types"
)

func sp(file string, n int) ast.Span { return ast.Span{File: file, Start: n, End: n + 1} }

// narrowedCoalesceProgram builds: function f($x) { if ($x !== null) { $y =
// $x ?? 0; } } — the redundant-null-coalesce fixture (spec.md §8
// property tied to the null-coalesce rule).
func narrowedCoalesceProgram(file string) *ast.Program {
	x := &ast.Variable{Sp: sp(file, 1), Name: "x"}
	cond := &ast.BinaryExpr{Sp: sp(file, 2), Op: ast.OpNotIdentical, Left: x, Right: &ast.NullLiteral{Sp: sp(file, 3)}}
	assign := &ast.AssignExpr{
		Sp:  sp(file, 4),
		Lhs: &ast.Variable{Sp: sp(file, 5), Name: "y"},
		Rhs: &ast.CoalesceExpr{Sp: sp(file, 6), Left: x, Right: &ast.IntegerLiteral{Sp: sp(file, 7), Value: 0}},
	}
	body := &ast.BlockStatement{Sp: sp(file, 8), Statements: []ast.Statement{
		&ast.IfStatement{
			Sp:        sp(file, 9),
			Condition: cond,
			Then: &ast.BlockStatement{Sp: sp(file, 10), Statements: []ast.Statement{
				&ast.ExpressionStatement{Sp: sp(file, 11), Expr: assign},
			}},
		},
	}}
	fn := &ast.FunctionDecl{Sp: sp(file, 0), Name: "f", Params: []ast.Param{{Name: "x"}}, Body: body}
	return &ast.Program{File: file, Statements: []ast.Statement{fn}}
}

func newDriver() *Driver {
	return New(codebase.NewMapStore(), resolver.NewTable(), config.DefaultCaps())
}

func TestAnalyzeProgramFlagsRedundantCoalesce(t *testing.T) {
	d := newDriver()
	art, err := d.AnalyzeProgram(narrowedCoalesceProgram("a.glint"))
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	found := false
	for _, issue := range art.Issues() {
		if issue.Code == diagnostic.CodeRedundantNullCoalesce {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a redundant-null-coalesce issue, got %+v", art.Issues())
	}
}

func TestAnalyzeFilesPreservesInputOrder(t *testing.T) {
	d := newDriver()
	programs := []*ast.Program{
		narrowedCoalesceProgram("a.glint"),
		narrowedCoalesceProgram("b.glint"),
		narrowedCoalesceProgram("c.glint"),
	}
	results := d.AnalyzeFiles(context.Background(), programs)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []string{"a.glint", "b.glint", "c.glint"} {
		if results[i].File != want {
			t.Errorf("result[%d].File = %s, want %s", i, results[i].File, want)
		}
		if results[i].Err != nil {
			t.Errorf("result[%d] unexpected error: %v", i, results[i].Err)
		}
	}
}

func TestTypeHintUnionNullable(t *testing.T) {
	d := newDriver()
	hint := &ast.TypeHint{Atoms: []ast.TypeHintAtom{{Kind: "int", Nullable: true}}}
	u := d.typeHintUnion(hint)
	if !types.HasNull(u) {
		t.Errorf("nullable int hint should include null, got %s", u)
	}
}

func TestTypeHintUnionResolvesEnum(t *testing.T) {
	store := codebase.NewMapStore()
	store.PutClass(codebase.ClassInfo{Name: "Suit", IsEnum: true, EnumCases: []string{"Hearts", "Spades"}})
	d := New(store, resolver.NewTable(), config.DefaultCaps())

	hint := &ast.TypeHint{Atoms: []ast.TypeHintAtom{{Kind: "", Name: "Suit"}}}
	u := d.typeHintUnion(hint)
	if !u.IsSingle() {
		t.Fatalf("expected single atom, got %s", u)
	}
	if _, ok := u.Atoms[0].(types.ObjectEnum); !ok {
		t.Errorf("expected ObjectEnum atom for a registered enum class, got %T", u.Atoms[0])
	}
}
