package driver

import (
	"testing"

	"github.com/glyphlang/glint/internal/ast"
	"github.com/glyphlang/glint/internal/codebase"
	"github.com/glyphlang/glint/internal/config"
	"github.com/glyphlang/glint/internal/diagnostic"
	"github.com/glyphlang/glint/internal/resolver"
	"github.com/glyphlang/glint/internal/types"
)

// The tests below are the literal end-to-end fixtures from spec.md §8,
// S1 through S6: each specifies exact source and an exact diagnostic set.
// Since this core has no lexer/parser (spec.md §1), each fixture's "source"
// is hand-built as an *ast.Program, the same way cmd/glintcheck/demo.go
// demonstrates the pipeline.

func hasCode(issues []diagnostic.Issue, code diagnostic.Code) bool {
	for _, i := range issues {
		if i.Code == code {
			return true
		}
	}
	return false
}

// S1: $x = 1; if ($x) { ... } — must emit RedundantCondition (or
// RedundantComparison) on the if.
func TestScenarioS1RedundantTruthiness(t *testing.T) {
	d := newDriver()
	file := "s1.glint"
	x := &ast.Variable{Sp: sp(file, 1), Name: "x"}
	assign := &ast.ExpressionStatement{Sp: sp(file, 2), Expr: &ast.AssignExpr{
		Sp: sp(file, 2), Lhs: x, Rhs: &ast.IntegerLiteral{Sp: sp(file, 3), Value: 1},
	}}
	ifStmt := &ast.IfStatement{
		Sp:        sp(file, 4),
		Condition: &ast.Variable{Sp: sp(file, 5), Name: "x"},
		Then: &ast.BlockStatement{Sp: sp(file, 6), Statements: []ast.Statement{
			&ast.ExpressionStatement{Sp: sp(file, 7), Expr: &ast.IntegerLiteral{Sp: sp(file, 8), Value: 1}},
		}},
	}
	prog := &ast.Program{File: file, Statements: []ast.Statement{assign, ifStmt}}

	art, err := d.AnalyzeProgram(prog)
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	issues := art.Issues()
	if !hasCode(issues, diagnostic.CodeRedundantCondition) && !hasCode(issues, diagnostic.CodeRedundantComparison) {
		t.Errorf("expected RedundantCondition or RedundantComparison, got %+v", issues)
	}
}

// S2: $x = 1; $y = $x ?? 2; — must emit RedundantNullCoalesce, and
// T($y) = Integer.Literal(1) after the statement.
func TestScenarioS2RedundantNullCoalesce(t *testing.T) {
	d := newDriver()
	file := "s2.glint"
	x := &ast.Variable{Sp: sp(file, 1), Name: "x"}
	assignX := &ast.ExpressionStatement{Sp: sp(file, 2), Expr: &ast.AssignExpr{
		Sp: sp(file, 2), Lhs: x, Rhs: &ast.IntegerLiteral{Sp: sp(file, 3), Value: 1},
	}}
	coalesce := &ast.CoalesceExpr{
		Sp:    sp(file, 5),
		Left:  &ast.Variable{Sp: sp(file, 4), Name: "x"},
		Right: &ast.IntegerLiteral{Sp: sp(file, 6), Value: 2},
	}
	assignYExpr := &ast.AssignExpr{Sp: sp(file, 7), Lhs: &ast.Variable{Sp: sp(file, 8), Name: "y"}, Rhs: coalesce}
	assignY := &ast.ExpressionStatement{Sp: sp(file, 7), Expr: assignYExpr}
	prog := &ast.Program{File: file, Statements: []ast.Statement{assignX, assignY}}

	art, err := d.AnalyzeProgram(prog)
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if !hasCode(art.Issues(), diagnostic.CodeRedundantNullCoalesce) {
		t.Errorf("expected RedundantNullCoalesce, got %+v", art.Issues())
	}
	u, ok := art.ExpressionType(assignYExpr.Span())
	if !ok {
		t.Fatalf("no recorded type for $y assignment")
	}
	if !u.IsSingle() {
		t.Fatalf("expected a single atom for $y, got %s", u)
	}
	i, ok := u.Atoms[0].(types.Integer)
	if !ok || i.Shape != types.IntLiteral || i.Literal != 1 {
		t.Errorf("expected Integer.Literal(1), got %#v", u.Atoms[0])
	}
}

// S3: function f(int|string $x): string { return match ($x) { 1 => "a", "b" => "c" }; }
// must emit MatchNotExhaustive (no default, and int|string isn't fully covered).
func TestScenarioS3MatchNotExhaustive(t *testing.T) {
	d := newDriver()
	file := "s3.glint"
	subject := &ast.Variable{Sp: sp(file, 1), Name: "x"}
	match := &ast.MatchExpr{
		Sp:      sp(file, 2),
		Subject: subject,
		Arms: []ast.MatchArm{
			{Sp: sp(file, 3), Conditions: []ast.Expression{&ast.IntegerLiteral{Sp: sp(file, 4), Value: 1}}, Result: &ast.StringLiteral{Sp: sp(file, 5), Value: "a"}},
			{Sp: sp(file, 6), Conditions: []ast.Expression{&ast.StringLiteral{Sp: sp(file, 7), Value: "b"}}, Result: &ast.StringLiteral{Sp: sp(file, 8), Value: "c"}},
		},
	}
	body := &ast.BlockStatement{Sp: sp(file, 9), Statements: []ast.Statement{
		&ast.ReturnStatement{Sp: sp(file, 10), Value: match},
	}}
	fn := &ast.FunctionDecl{
		Sp:   sp(file, 0),
		Name: "f",
		Params: []ast.Param{{
			Name: "x",
			Hint: &ast.TypeHint{Atoms: []ast.TypeHintAtom{{Kind: "int"}, {Kind: "string"}}},
		}},
		Body: body,
	}
	prog := &ast.Program{File: file, Statements: []ast.Statement{fn}}

	art, err := d.AnalyzeProgram(prog)
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if !hasCode(art.Issues(), diagnostic.CodeMatchNotExhaustive) {
		t.Errorf("expected MatchNotExhaustive, got %+v", art.Issues())
	}
}

// S4: enum E { case A; case B; } function g(E $e): int { return match ($e) {
// E::A => 1, E::B => 2 }; } — must emit no diagnostics; the return type is
// Integer.Literal(1) | Integer.Literal(2).
func TestScenarioS4EnumExhaustiveness(t *testing.T) {
	store := codebase.NewMapStore()
	store.PutClass(codebase.ClassInfo{Name: "E", IsEnum: true, EnumCases: []string{"A", "B"}})
	d := New(store, resolver.NewTable(), config.DefaultCaps())

	file := "s4.glint"
	subject := &ast.Variable{Sp: sp(file, 1), Name: "e"}
	match := &ast.MatchExpr{
		Sp:      sp(file, 2),
		Subject: subject,
		Arms: []ast.MatchArm{
			{Sp: sp(file, 3), Conditions: []ast.Expression{&ast.ClassConstAccess{Sp: sp(file, 4), ClassName: "E", MemberName: "A"}}, Result: &ast.IntegerLiteral{Sp: sp(file, 5), Value: 1}},
			{Sp: sp(file, 6), Conditions: []ast.Expression{&ast.ClassConstAccess{Sp: sp(file, 7), ClassName: "E", MemberName: "B"}}, Result: &ast.IntegerLiteral{Sp: sp(file, 8), Value: 2}},
		},
	}
	body := &ast.BlockStatement{Sp: sp(file, 9), Statements: []ast.Statement{
		&ast.ReturnStatement{Sp: sp(file, 10), Value: match},
	}}
	fn := &ast.FunctionDecl{
		Sp:   sp(file, 0),
		Name: "g",
		Params: []ast.Param{{
			Name: "e",
			Hint: &ast.TypeHint{Atoms: []ast.TypeHintAtom{{Kind: "", Name: "E"}}},
		}},
		Body: body,
	}
	prog := &ast.Program{File: file, Statements: []ast.Statement{fn}}

	art, err := d.AnalyzeProgram(prog)
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if issues := art.Issues(); len(issues) != 0 {
		t.Errorf("expected no diagnostics, got %+v", issues)
	}
	if len(art.InferredReturnTypes) != 1 {
		t.Fatalf("expected one recorded return type, got %d", len(art.InferredReturnTypes))
	}
	ret := art.InferredReturnTypes[0]
	// 1 and 2 are distinct integer literals, so Combine keeps them as two
	// set members rather than widening them to a range.
	if len(ret.Atoms) != 2 {
		t.Fatalf("expected Integer.Literal(1) | Integer.Literal(2), got %s", ret)
	}
	for idx, want := range []int64{1, 2} {
		i, ok := ret.Atoms[idx].(types.Integer)
		if !ok || i.Shape != types.IntLiteral || i.Literal != want {
			t.Errorf("expected Integer.Literal(%d) at position %d, got %#v", want, idx, ret.Atoms[idx])
		}
	}
}

// S5: function h(object $o): void { if ($o instanceof X) { /* T($o) here is
// Object.Named(X) */ } } — must emit no diagnostics, and T($o) inside the
// then-branch must narrow to exactly Object.Named(X).
func TestScenarioS5InstanceofNarrowing(t *testing.T) {
	d := newDriver()
	file := "s5.glint"
	o := &ast.Variable{Sp: sp(file, 1), Name: "o"}
	innerRead := &ast.Variable{Sp: sp(file, 5), Name: "o"}
	ifStmt := &ast.IfStatement{
		Sp: sp(file, 2),
		Condition: &ast.InstanceofExpr{
			Sp:        sp(file, 3),
			Object:    o,
			ClassName: &ast.Identifier{Sp: sp(file, 4), Name: "X"},
		},
		Then: &ast.BlockStatement{Sp: sp(file, 6), Statements: []ast.Statement{
			&ast.ExpressionStatement{Sp: sp(file, 5), Expr: innerRead},
		}},
	}
	body := &ast.BlockStatement{Sp: sp(file, 7), Statements: []ast.Statement{ifStmt}}
	fn := &ast.FunctionDecl{
		Sp:   sp(file, 0),
		Name: "h",
		Params: []ast.Param{{
			Name: "o",
			Hint: &ast.TypeHint{Atoms: []ast.TypeHintAtom{{Kind: "object"}}},
		}},
		Body: body,
	}
	prog := &ast.Program{File: file, Statements: []ast.Statement{fn}}

	art, err := d.AnalyzeProgram(prog)
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if issues := art.Issues(); len(issues) != 0 {
		t.Errorf("expected no diagnostics, got %+v", issues)
	}
	u, ok := art.ExpressionType(innerRead.Span())
	if !ok || !u.IsSingle() {
		t.Fatalf("expected a single recorded type for $o inside the if, got %v ok=%v", u, ok)
	}
	obj, ok := u.Atoms[0].(types.ObjectNamed)
	if !ok || obj.Name != "X" {
		t.Errorf("expected Object.Named(X), got %#v", u.Atoms[0])
	}
}

// S6: $x = 1; if ($x === "1") { ... } — must emit RedundantComparison
// (always false) and ImpossibleCondition on the if body.
func TestScenarioS6ImpossibleComparison(t *testing.T) {
	d := newDriver()
	file := "s6.glint"
	x := &ast.Variable{Sp: sp(file, 1), Name: "x"}
	assign := &ast.ExpressionStatement{Sp: sp(file, 2), Expr: &ast.AssignExpr{
		Sp: sp(file, 2), Lhs: x, Rhs: &ast.IntegerLiteral{Sp: sp(file, 3), Value: 1},
	}}
	cond := &ast.BinaryExpr{
		Sp:   sp(file, 4),
		Op:   ast.OpIdentical,
		Left: &ast.Variable{Sp: sp(file, 5), Name: "x"},
		Right: &ast.StringLiteral{Sp: sp(file, 6), Value: "1"},
	}
	ifStmt := &ast.IfStatement{
		Sp:        sp(file, 7),
		Condition: cond,
		Then: &ast.BlockStatement{Sp: sp(file, 8), Statements: []ast.Statement{
			&ast.ExpressionStatement{Sp: sp(file, 9), Expr: &ast.IntegerLiteral{Sp: sp(file, 10), Value: 1}},
		}},
	}
	prog := &ast.Program{File: file, Statements: []ast.Statement{assign, ifStmt}}

	art, err := d.AnalyzeProgram(prog)
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	issues := art.Issues()
	if !hasCode(issues, diagnostic.CodeRedundantComparison) {
		t.Errorf("expected RedundantComparison, got %+v", issues)
	}
	if !hasCode(issues, diagnostic.CodeImpossibleCondition) {
		t.Errorf("expected ImpossibleCondition, got %+v", issues)
	}
}
