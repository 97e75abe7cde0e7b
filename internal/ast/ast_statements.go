package ast

// ExpressionStatement wraps an expression used for its side effect.
type ExpressionStatement struct {
	Sp   Span
	Expr Expression
}

func (e *ExpressionStatement) Span() Span     { return e.Sp }
func (e *ExpressionStatement) String() string { return e.Expr.String() + ";" }
func (e *ExpressionStatement) statementNode() {}

// BlockStatement is a brace-delimited statement list.
type BlockStatement struct {
	Sp         Span
	Statements []Statement
}

func (b *BlockStatement) Span() Span     { return b.Sp }
func (b *BlockStatement) String() string { return "{...}" }
func (b *BlockStatement) statementNode() {}

// ElseIf is one "elseif" branch of an IfStatement.
type ElseIf struct {
	Condition Expression
	Body      *BlockStatement
}

// IfStatement covers if/elseif/else (spec.md §4.9).
type IfStatement struct {
	Sp        Span
	Condition Expression
	Then      *BlockStatement
	ElseIfs   []ElseIf
	Else      *BlockStatement // nil if absent
}

func (i *IfStatement) Span() Span     { return i.Sp }
func (i *IfStatement) String() string { return "if (" + i.Condition.String() + ") {...}" }
func (i *IfStatement) statementNode() {}

// WhileStatement is "while (cond) body" (spec.md §4.9).
type WhileStatement struct {
	Sp        Span
	Condition Expression
	Body      *BlockStatement
}

func (w *WhileStatement) Span() Span     { return w.Sp }
func (w *WhileStatement) String() string { return "while (...) {...}" }
func (w *WhileStatement) statementNode() {}

// DoWhileStatement is "do body while (cond);".
type DoWhileStatement struct {
	Sp        Span
	Body      *BlockStatement
	Condition Expression
}

func (d *DoWhileStatement) Span() Span     { return d.Sp }
func (d *DoWhileStatement) String() string { return "do {...} while (...)" }
func (d *DoWhileStatement) statementNode() {}

// ForStatement is "for (init; cond; incr) body".
type ForStatement struct {
	Sp        Span
	Init      Statement // may be nil
	Condition Expression // may be nil
	Increment Expression // may be nil
	Body      *BlockStatement
}

func (f *ForStatement) Span() Span     { return f.Sp }
func (f *ForStatement) String() string { return "for (...) {...}" }
func (f *ForStatement) statementNode() {}

// ForeachStatement is "foreach (iterable as key => value) body"; KeyVar is
// nil when no key binding is present (spec.md §4.9 "Foreach").
type ForeachStatement struct {
	Sp        Span
	Iterable  Expression
	KeyVar    *Variable // nil if absent
	ValueVar  *Variable
	ByRef     bool
	Body      *BlockStatement
}

func (f *ForeachStatement) Span() Span     { return f.Sp }
func (f *ForeachStatement) String() string { return "foreach (...) {...}" }
func (f *ForeachStatement) statementNode() {}

// SwitchCase is one "case" (Conditions empty + IsDefault means "default";
// Body empty means fallthrough to the next non-empty case, spec.md §4.10).
type SwitchCase struct {
	Conditions []Expression
	IsDefault  bool
	Body       []Statement
	Sp         Span
}

// SwitchStatement is "switch (subject) { cases... }" (spec.md §4.10).
type SwitchStatement struct {
	Sp      Span
	Subject Expression
	Cases   []SwitchCase
}

func (s *SwitchStatement) Span() Span     { return s.Sp }
func (s *SwitchStatement) String() string { return "switch (...) {...}" }
func (s *SwitchStatement) statementNode() {}

// CatchClause is one "catch (TypeName $var) body" clause.
type CatchClause struct {
	ExceptionType *Identifier
	Var           *Variable // nil if the exception isn't bound
	Body          *BlockStatement
}

// TryStatement is "try body catch(...)... finally body" (spec.md §4.9).
type TryStatement struct {
	Sp      Span
	Try     *BlockStatement
	Catches []CatchClause
	Finally *BlockStatement // nil if absent
}

func (t *TryStatement) Span() Span     { return t.Sp }
func (t *TryStatement) String() string { return "try {...}" }
func (t *TryStatement) statementNode() {}

// ReturnStatement is "return expr;"; Value is nil for a bare "return;".
type ReturnStatement struct {
	Sp    Span
	Value Expression // nil if absent
}

func (r *ReturnStatement) Span() Span     { return r.Sp }
func (r *ReturnStatement) String() string { return "return ...;" }
func (r *ReturnStatement) statementNode() {}

// ThrowStatement is "throw expr;".
type ThrowStatement struct {
	Sp    Span
	Value Expression
}

func (t *ThrowStatement) Span() Span     { return t.Sp }
func (t *ThrowStatement) String() string { return "throw ...;" }
func (t *ThrowStatement) statementNode() {}

// BreakStatement is "break;" or "break N;" (Level == 1 for a bare break).
type BreakStatement struct {
	Sp    Span
	Level int
}

func (b *BreakStatement) Span() Span     { return b.Sp }
func (b *BreakStatement) String() string { return "break;" }
func (b *BreakStatement) statementNode() {}

// ContinueStatement is "continue;" or "continue N;".
type ContinueStatement struct {
	Sp    Span
	Level int
}

func (c *ContinueStatement) Span() Span     { return c.Sp }
func (c *ContinueStatement) String() string { return "continue;" }
func (c *ContinueStatement) statementNode() {}

// GlobalStatement is "global $a, $b;" (spec.md §4.9 "Global").
type GlobalStatement struct {
	Sp   Span
	Vars []*Variable
}

func (g *GlobalStatement) Span() Span     { return g.Sp }
func (g *GlobalStatement) String() string { return "global ...;" }
func (g *GlobalStatement) statementNode() {}
