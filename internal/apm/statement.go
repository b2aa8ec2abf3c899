package apm

import "github.com/TheIttyBittyGalaxy/gambit-sub000/internal/source"

// Statement is any node that appears in a CodeBlock's statement list.
// CodeBlock itself also satisfies stmtTag() (definition.go), since a
// nested `{ ... }` is itself a statement.
type Statement interface {
	Node
	stmtTag()
}

// ExpressionStatement is a bare expression used for its side effects,
// e.g. a procedure call written as a statement.
type ExpressionStatement struct {
	Expr  Expr
	Span_ source.Span
}

func (n *ExpressionStatement) Span() source.Span { return n.Span_ }
func (n *ExpressionStatement) stmtTag() {}

// IfStatementRule is one `if condition code_block` or `else if ...` arm.
type IfStatementRule struct {
	Condition Expr
	Body      *CodeBlock
	Span_     source.Span
}

func (r IfStatementRule) Span() source.Span { return r.Span_ }

// IfStatement is the statement-position form of `if`, with an optional
// final unconditional `else` block.
type IfStatement struct {
	Rules []IfStatementRule
	Else  *CodeBlock // nil if there is no trailing else
	Span_ source.Span
}

func (n *IfStatement) Span() source.Span { return n.Span_ }
func (n *IfStatement) stmtTag() {}

// ForStatement is `for variable in range body`, iterating Variable over
// every value Range's pattern admits (enum values, entity instances, or
// intrinsic ranges).
type ForStatement struct {
	Variable *Variable
	Range    Pattern
	Own      *Scope
	Body     *CodeBlock
	Span_    source.Span
}

func (n *ForStatement) Span() source.Span { return n.Span_ }
func (n *ForStatement) stmtTag() {}

// AssignmentStatement is `subject = value`, e.g. writing to a state
// property lookup or a mutable local Variable.
type AssignmentStatement struct {
	Subject Expr
	Value   Expr
	Span_   source.Span
}

func (n *AssignmentStatement) Span() source.Span { return n.Span_ }
func (n *AssignmentStatement) stmtTag() {}

// VariableDeclaration is `let`/`var` introducing a new local Variable,
// optionally with an initial Value (nil if omitted, in which case the
// pattern must have been given explicitly so the checker has something
// to validate future assignments against).
type VariableDeclaration struct {
	Variable *Variable
	Value    Expr // nil if declared without an initialiser
	Span_    source.Span
}

func (n *VariableDeclaration) Span() source.Span { return n.Span_ }
func (n *VariableDeclaration) stmtTag() {}

// InvalidStatement substitutes for a statement the parser could not
// construct at all, mirroring InvalidExpression/InvalidPattern.
type InvalidStatement struct {
	Span_ source.Span
}

func (n *InvalidStatement) Span() source.Span { return n.Span_ }
func (n *InvalidStatement) stmtTag() {}
