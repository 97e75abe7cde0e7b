// Package ast is the minimal AST the core analyzer consumes. spec.md §1
// scopes the lexer/parser out of the core entirely ("produces the AST;
// each node carries a source span" is a fixed external contract) — this
// package is that contract's concrete shape, built directly by tests and
// by internal/driver, never by a parser.
//
// Style follows funxy's internal/ast package (node kinds as small structs,
// a GetToken-style span accessor) but dispatch is a Go type switch rather
// than funxy's Visitor double-dispatch: spec.md §4.7 specifies the
// expression analyzer as "a recursive visitor computing the type of every
// expression, dispatching by AST shape", which a type switch expresses
// more directly than an N-method Visitor interface.
package ast

import "github.com/glyphlang/glint/internal/diagnostic"

// Span is a source span, per spec.md §6.1: (file_id, start_offset, end_offset).
type Span = diagnostic.Span

// Node is the base interface for all AST nodes.
type Node interface {
	Span() Span
	String() string
}

// Expression is a Node that yields a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is a Node that does not itself yield a value.
type Statement interface {
	Node
	statementNode()
}

// Program is the root node for one file's AST.
type Program struct {
	File       string
	Statements []Statement
}

func (p *Program) Span() Span {
	if len(p.Statements) == 0 {
		return Span{File: p.File}
	}
	return Span{File: p.File, Start: p.Statements[0].Span().Start, End: p.Statements[len(p.Statements)-1].Span().End}
}
func (p *Program) String() string { return "Program(" + p.File + ")" }

// Identifier is a name reference: a variable, a property name, a class
// name, a function name. NameID is populated by the external name
// resolver (spec.md §6.2); zero means "not yet resolved" (e.g. a property
// name, which resolves against a class, not the lexical scope).
type Identifier struct {
	Sp     Span
	Name   string
	NameID uint64
}

func (i *Identifier) Span() Span     { return i.Sp }
func (i *Identifier) String() string { return i.Name }
func (i *Identifier) expressionNode() {}
