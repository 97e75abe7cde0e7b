package main

import "github.com/glyphlang/glint/internal/ast"

const demoFile = "demo.glint"

// demoProgram builds a small hand-written AST exercising enough of the
// analyzer to produce a couple of the diagnostic families from spec.md
// §7: a redundant null-coalesce inside a narrowed branch, and a
// non-exhaustive match.
//
//	function describe($x) {
//	    if ($x !== null) {
//	        $y = $x ?? 0;
//	    }
//	    $status = match ($x) {
//	        1 => "one",
//	        2 => "two",
//	    };
//	    return $status;
//	}
func demoProgram() *ast.Program {
	n := 0
	sp := func() ast.Span {
		n++
		return ast.Span{File: demoFile, Start: n, End: n + 1}
	}

	x := &ast.Variable{Sp: sp(), Name: "x"}
	notNull := &ast.BinaryExpr{Sp: sp(), Op: ast.OpNotIdentical, Left: x, Right: &ast.NullLiteral{Sp: sp()}}
	coalesce := &ast.CoalesceExpr{Sp: sp(), Left: x, Right: &ast.IntegerLiteral{Sp: sp(), Value: 0}}
	assignY := &ast.AssignExpr{Sp: sp(), Lhs: &ast.Variable{Sp: sp(), Name: "y"}, Rhs: coalesce}

	ifStmt := &ast.IfStatement{
		Sp:        sp(),
		Condition: notNull,
		Then: &ast.BlockStatement{Sp: sp(), Statements: []ast.Statement{
			&ast.ExpressionStatement{Sp: sp(), Expr: assignY},
		}},
	}

	match := &ast.MatchExpr{
		Sp:      sp(),
		Subject: x,
		Arms: []ast.MatchArm{
			{Sp: sp(), Conditions: []ast.Expression{&ast.IntegerLiteral{Sp: sp(), Value: 1}}, Result: &ast.StringLiteral{Sp: sp(), Value: "one"}},
			{Sp: sp(), Conditions: []ast.Expression{&ast.IntegerLiteral{Sp: sp(), Value: 2}}, Result: &ast.StringLiteral{Sp: sp(), Value: "two"}},
		},
	}
	assignStatus := &ast.AssignExpr{Sp: sp(), Lhs: &ast.Variable{Sp: sp(), Name: "status"}, Rhs: match}

	body := &ast.BlockStatement{Sp: sp(), Statements: []ast.Statement{
		ifStmt,
		&ast.ExpressionStatement{Sp: sp(), Expr: assignStatus},
		&ast.ReturnStatement{Sp: sp(), Value: &ast.Variable{Sp: sp(), Name: "status"}},
	}}

	fn := &ast.FunctionDecl{
		Sp:     sp(),
		Name:   "describe",
		Params: []ast.Param{{Name: "x"}},
		Body:   body,
	}

	return &ast.Program{File: demoFile, Statements: []ast.Statement{fn}}
}
