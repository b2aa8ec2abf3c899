// Package checker's Check entry point walks a resolved Program looking
// for user diagnostics: a state's default value of the wrong pattern, an
// if-condition that can never be true/false/none, a match rule that can
// never fire or a match that isn't exhaustive, and two properties
// overloaded with the same parameter signature.
package checker

import (
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/apm"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/diag"
)

// Check walks every top-level declaration in program's global scope,
// reporting diagnostics into sink. It never mutates the APM.
func Check(program *apm.Program, sink *diag.Sink) {
	c := &checker{sink: sink}

	for _, entry := range program.Global.Entries() {
		c.checkLookupValue(entry)
	}
}

type checker struct {
	sink *diag.Sink
}

func (c *checker) checkLookupValue(v apm.LookupValue) {
	switch n := v.(type) {
	case *apm.StateProperty:
		c.checkStateProperty(n)
	case *apm.FunctionProperty:
		c.checkFunctionProperty(n)
	case *apm.Procedure:
		c.checkCodeBlock(n.Body)
	case *apm.OverloadedIdentity:
		c.checkOverloadDuplicates(n)

		for _, m := range n.Members {
			c.checkLookupValue(m)
		}
	}
}

// checkStateProperty verifies a declared default value is admitted by the
// property's own result pattern.
func (c *checker) checkStateProperty(p *apm.StateProperty) {
	if p.Initial == nil {
		return
	}

	c.checkExpr(p.Initial)

	initial := apm.DeterminePattern(p.Initial)
	if isInvalid(initial) || isInvalid(p.Result) {
		return
	}

	if !IsSubset(initial, p.Result) {
		c.sink.Reportf(p.Initial.Span(), "Default value for state is the incorrect type.")
	}
}

func (c *checker) checkFunctionProperty(p *apm.FunctionProperty) {
	c.checkCodeBlock(p.Body)
}

func (c *checker) checkCodeBlock(b *apm.CodeBlock) {
	if b == nil {
		return
	}

	for _, stmt := range b.Statements {
		c.checkStatement(stmt)
	}
}

func (c *checker) checkStatement(stmt apm.Statement) {
	switch n := stmt.(type) {
	case *apm.ExpressionStatement:
		c.checkExpr(n.Expr)
	case *apm.IfStatement:
		for _, r := range n.Rules {
			c.checkExpr(r.Condition)
			c.checkCondition(r.Condition)
			c.checkCodeBlock(r.Body)
		}

		c.checkCodeBlock(n.Else)
	case *apm.ForStatement:
		c.checkCodeBlock(n.Body)
	case *apm.AssignmentStatement:
		c.checkExpr(n.Subject)
		c.checkExpr(n.Value)
	case *apm.VariableDeclaration:
		if n.Value != nil {
			c.checkExpr(n.Value)
		}
	case *apm.CodeBlock:
		c.checkCodeBlock(n)
	}
}

// checkCondition reports a condition that can never be true, false, or
// none: its pattern must be a subset of bool, or be optional (an
// optional of any inner type may still evaluate to none).
func (c *checker) checkCondition(cond apm.Expr) {
	p := apm.DeterminePattern(cond)
	if isInvalid(p) {
		return
	}

	isBool := IsSubset(p, &apm.IntrinsicType{Name_: "bool"})
	_, isOptional := p.(*apm.OptionalPattern)

	if !isBool && !isOptional {
		c.sink.Reportf(cond.Span(), "If statement conditions must evaluate either to true or false, or potentially to none. This condition will never be true, false, or none.")
	}
}

func (c *checker) checkExpr(e apm.Expr) {
	switch n := e.(type) {
	case *apm.Unary:
		c.checkExpr(n.Value)
	case *apm.Binary:
		c.checkExpr(n.LHS)
		c.checkExpr(n.RHS)
	case *apm.ExpressionIndex:
		c.checkExpr(n.Subject)
		c.checkExpr(n.Index)
	case *apm.ListValue:
		for _, v := range n.Values {
			c.checkExpr(v)
		}
	case *apm.InstanceList:
		for _, v := range n.Values {
			c.checkExpr(v)
		}
	case *apm.PropertyIndex:
		c.checkExpr(n.Expr)
	case *apm.Call:
		c.checkExpr(n.Callee)

		for _, a := range n.Arguments {
			c.checkExpr(a.Value)
		}
	case *apm.IfExpression:
		for _, r := range n.Rules {
			c.checkExpr(r.Condition)
			c.checkCondition(r.Condition)
			c.checkExpr(r.Result)
		}
	case *apm.Match:
		c.checkMatch(n)
	}
}

// checkMatch reports an unreachable rule (one disjoint from the subject,
// or already fully covered by earlier rules) and a match with neither a
// catch-all else nor full coverage of its subject's pattern.
func (c *checker) checkMatch(m *apm.Match) {
	c.checkExpr(m.Subject)

	subject := apm.DeterminePattern(m.Subject)
	var covered apm.Pattern

	opaque := isInvalid(subject)

	for _, r := range m.Rules {
		c.checkExpr(r.Result)

		if r.Pattern == nil {
			continue // the catch-all else rule
		}

		// A rule whose pattern failed to resolve is opaque: the resolver
		// already diagnosed it, and its coverage is unknowable, so both
		// the reachability and the exhaustiveness verdicts are off.
		if isInvalid(r.Pattern) {
			opaque = true
			continue
		}

		if opaque {
			continue
		}

		if !Overlaps(r.Pattern, subject) {
			c.sink.Reportf(r.Pattern.Span(), "This rule's pattern will never match.")
			continue
		}

		if covered != nil && IsSubset(r.Pattern, covered) {
			c.sink.Reportf(r.Pattern.Span(), "This rule's pattern will never match.")
			continue
		}

		if covered == nil {
			covered = r.Pattern
		} else {
			covered = apm.CreateUnion(covered, r.Pattern)
		}
	}

	if m.HasElse || opaque {
		return
	}

	if covered == nil || !IsSubset(subject, covered) {
		c.sink.Reportf(m.Span(), "This match is not exhaustive.")
	}
}

// checkOverloadDuplicates reports the second of any two overloads in
// group whose parameter patterns are identical.
func (c *checker) checkOverloadDuplicates(group *apm.OverloadedIdentity) {
	for i := 1; i < len(group.Members); i++ {
		cur := params(group.Members[i])

		for j := 0; j < i; j++ {
			if sameSignature(cur, params(group.Members[j])) {
				c.sink.Reportf(group.Members[i].Span(), "'"+group.Name_+"' is already declared with this parameter signature.")
				break
			}
		}
	}
}

func params(v apm.Overloadable) []*apm.Variable {
	switch p := v.(type) {
	case *apm.StateProperty:
		return p.Params
	case *apm.FunctionProperty:
		return p.Params
	default:
		return nil
	}
}

// sameSignature compares parameter lists positionally, each pair under
// subset-both-ways: two patterns that admit exactly the same values
// collide even when they are spelled as different variants (e.g. an enum
// type versus the union of all its values).
func sameSignature(a, b []*apm.Variable) bool {
	if len(a) != len(b) {
		return false
	}

	for i, v := range a {
		if !IsSubset(v.Pattern, b[i].Pattern) || !IsSubset(b[i].Pattern, v.Pattern) {
			return false
		}
	}

	return true
}
