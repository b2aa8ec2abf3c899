package apm

import "github.com/TheIttyBittyGalaxy/gambit-sub000/internal/source"

// Expr is any node that produces a value. One concrete type per variant,
// mirroring the Pattern/LookupValue/Statement families.
type Expr interface {
	Node
	exprTag()
}

// ListValue is a literal list expression `[a, b, c]`.
type ListValue struct {
	Values []Expr
	Span_  source.Span
}

func (n *ListValue) Span() source.Span { return n.Span_ }
func (n *ListValue) exprTag() {}

// InstanceList is a parenthesised, comma-separated argument list `(a, b)`
// matched positionally against a property's or procedure's parameters.
// Despite the shared shape with ListValue, it is a distinct variant: a
// list literal is itself a value, an instance list only ever appears as
// the operand of a property lookup or procedure call.
type InstanceList struct {
	Values []Expr
	Span_  source.Span
}

func (n *InstanceList) Span() source.Span { return n.Span_ }
func (n *InstanceList) exprTag() {}

// Unary is a prefix operator expression, e.g. `-x`, `not x`.
type Unary struct {
	Op    string
	Value Expr
	Span_ source.Span
}

func (n *Unary) Span() source.Span { return n.Span_ }
func (n *Unary) exprTag() {}

// Binary is an infix operator expression, e.g. `a + b`, `a and b`.
type Binary struct {
	Op    string
	LHS   Expr
	RHS   Expr
	Span_ source.Span
}

func (n *Binary) Span() source.Span { return n.Span_ }
func (n *Binary) exprTag() {}

// ExpressionIndex is `subject[index]`, e.g. list element access.
type ExpressionIndex struct {
	Subject Expr
	Index   Expr
	Span_   source.Span
}

func (n *ExpressionIndex) Span() source.Span { return n.Span_ }
func (n *ExpressionIndex) exprTag() {}

// PropertyIndex is `expr.property`; `expr.property(args)` parses as a Call
// whose Callee is the PropertyIndex. Property is the raw identifier text
// until the resolver fills in Resolved with the overload it selects (a
// single StateProperty or FunctionProperty) — mirroring how UnresolvedIdentity
// is replaced in place elsewhere in the tree, except here the raw name
// must be kept alongside the resolution since PropertyIndex is not itself
// a standalone scope entry.
type PropertyIndex struct {
	Expr     Expr
	Property string
	Resolved LookupValue
	Span_    source.Span
}

func (n *PropertyIndex) Span() source.Span { return n.Span_ }
func (n *PropertyIndex) exprTag() {}

// CallArgument is one argument to a Call, optionally named: `name: value`
// is permitted alongside bare positional arguments.
type CallArgument struct {
	Named bool
	Name  string
	Value Expr
	Span_ source.Span
}

func (a CallArgument) Span() source.Span { return a.Span_ }

// Call is `callee(args)`: any expression followed by a parenthesised
// argument list. A property lookup followed by `(...)` is a Call whose
// Callee is the PropertyIndex, and its pattern is that property's result.
type Call struct {
	Callee    Expr
	Arguments []CallArgument
	Span_     source.Span
}

func (n *Call) Span() source.Span { return n.Span_ }
func (n *Call) exprTag() {}

// IfExpressionRule is one `condition -> result` arm of an IfExpression.
type IfExpressionRule struct {
	Condition Expr
	Result    Expr
	Span_     source.Span
}

func (r IfExpressionRule) Span() source.Span { return r.Span_ }

// IfExpression is the expression-position form of `if`: a sequence of
// condition/result rules, optionally closed by a final unconditional
// `else` rule (HasElse, whose Result is the last entry in Rules with a
// nil Condition). Without HasElse, DeterminePattern adds none to this
// expression's pattern.
type IfExpression struct {
	Rules   []IfExpressionRule
	HasElse bool
	Span_   source.Span
}

func (n *IfExpression) Span() source.Span { return n.Span_ }
func (n *IfExpression) exprTag() {}

// MatchRule is one `pattern -> result` arm of a Match expression.
type MatchRule struct {
	Pattern Pattern
	Result  Expr
	Span_   source.Span
}

func (r MatchRule) Span() source.Span { return r.Span_ }

// Match dispatches on Subject's runtime pattern against Rules in order;
// HasElse marks a final catch-all rule (Pattern nil, matches AnyPattern).
// The checker reports a rule that cannot overlap Subject's pattern or is
// already covered by earlier rules and, absent HasElse, a match that is
// not exhaustive over Subject's pattern.
type Match struct {
	Subject Expr
	Rules   []MatchRule
	HasElse bool
	Span_   source.Span
}

func (n *Match) Span() source.Span { return n.Span_ }
func (n *Match) exprTag() {}

// InvalidValue substitutes for an expression the resolver could not
// resolve (e.g. an identifier naming a type where a value is required).
type InvalidValue struct {
	Span_ source.Span
}

func (n *InvalidValue) Span() source.Span { return n.Span_ }
func (n *InvalidValue) exprTag() {}

// InvalidExpression substitutes for an expression the parser could not
// construct at all, so the resolver and checker can still walk the tree
// without special-casing a hole.
type InvalidExpression struct {
	Span_ source.Span
}

func (n *InvalidExpression) Span() source.Span { return n.Span_ }
func (n *InvalidExpression) exprTag() {}
