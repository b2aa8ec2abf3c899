// Package resolver implements the single walk that replaces every
// apm.UnresolvedIdentity with the concrete node it names, using the
// scope/overload table built up by the parser as it declared each
// top-level name. Because resolution runs only after the whole source has
// been parsed, every top-level identifier is already declared in
// program.Global, so forward references resolve correctly in one pass.
package resolver

import (
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/apm"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/bug"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/checker"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/diag"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/scope"
)

// Resolve walks every top-level declaration in program's global scope,
// replacing unresolved nodes in place and reporting diagnostics into
// sink. It is idempotent only by convention — callers run it exactly once
// per compilation, after the intrinsics table has been seeded and the
// whole source has been parsed.
func Resolve(program *apm.Program, sink *diag.Sink) {
	r := &resolver{sink: sink}

	for _, entry := range program.Global.Entries() {
		r.resolveLookupValue(program.Global, entry)
	}
}

type resolver struct {
	sink *diag.Sink
}

func (r *resolver) resolveLookupValue(sc *apm.Scope, v apm.LookupValue) {
	switch n := v.(type) {
	case *apm.StateProperty:
		for _, param := range n.Params {
			param.Pattern = r.resolvePattern(n.Own, param.Pattern, nil)
		}

		n.Result = r.resolvePattern(sc, n.Result, nil)

		if n.Initial != nil {
			n.Initial = r.resolveExpr(n.Own, n.Initial)
		}
	case *apm.FunctionProperty:
		for _, param := range n.Params {
			param.Pattern = r.resolvePattern(n.Own, param.Pattern, nil)
		}

		n.Result = r.resolvePattern(sc, n.Result, nil)
		r.resolveCodeBlock(n.Body)
	case *apm.Procedure:
		for _, param := range n.Params {
			param.Pattern = r.resolvePattern(n.Own, param.Pattern, nil)
		}

		r.resolveCodeBlock(n.Body)
	case *apm.OverloadedIdentity:
		for _, m := range n.Members {
			r.resolveLookupValue(sc, m)
		}
	case *apm.EnumType, *apm.EnumValue, *apm.Entity, *apm.IntrinsicType, *apm.IntrinsicValue, *apm.Variable, *apm.UnionPattern:
		// Nothing to resolve: these are already fully concrete once
		// seeded or parsed.
	default:
		bug.Raise("resolver: unhandled lookup value variant %T", v)
	}
}

// resolvePattern replaces an UnresolvedIdentity pattern (and recurses into
// the few pattern variants that nest another pattern) with its resolved
// form. hint is the expected pattern this position sits under (for a
// match rule's pattern, the subject's own resolved pattern), threaded
// down so a bare identifier that names one of the hint's enum values
// resolves to that value ahead of an unrelated scope binding of the same
// name. hint is nil wherever no such expectation exists (e.g. a declared
// parameter's own pattern), in which case identity resolution falls back
// to a plain scope lookup.
func (r *resolver) resolvePattern(sc *apm.Scope, p apm.Pattern, hint apm.Pattern) apm.Pattern {
	switch n := p.(type) {
	case *apm.UnresolvedIdentity:
		return r.resolvePatternIdentity(sc, n, hint)
	case *apm.OptionalPattern:
		innerHint := hint
		if h, ok := hint.(*apm.OptionalPattern); ok {
			innerHint = h.Inner
		}

		n.Inner = r.resolvePattern(sc, n.Inner, innerHint)

		// Optional is never nested: Optional(Optional(X))
		// collapses to Optional(X).
		if inner, ok := n.Inner.(*apm.OptionalPattern); ok {
			n.Inner = inner.Inner
		}

		return n
	case *apm.ListPattern:
		n.Element = r.resolvePattern(sc, n.Element, nil)
		return n
	case *apm.UnionPattern:
		// Rebuilding through CreateUnion flattens any union a member
		// resolved into and drops duplicate members, keeping every union
		// flat with at least two distinct members.
		var merged apm.Pattern

		for _, m := range n.Members {
			rm := r.resolvePattern(sc, m, hint)

			if merged == nil {
				merged = rm
			} else {
				merged = apm.CreateUnion(merged, rm)
			}
		}

		if merged == nil {
			return &apm.InvalidPattern{Span_: n.Span_}
		}

		if u, ok := merged.(*apm.UnionPattern); ok {
			u.Identity_ = n.Identity_
			u.Span_ = n.Span_
		}

		return merged
	default:
		return p
	}
}

func (r *resolver) resolvePatternIdentity(sc *apm.Scope, n *apm.UnresolvedIdentity, hint apm.Pattern) apm.Pattern {
	if hint != nil {
		if ev, ok := enumValueNamed(hint, n.Name); ok {
			return ev
		}
	}

	v := scope.Fetch(sc, n.Name)
	if v == nil {
		r.sink.Reportf(n.Span_, "'"+n.Name+"' is not defined.")
		return &apm.InvalidPattern{Span_: n.Span_}
	}

	pat, ok := v.(apm.Pattern)
	if !ok {
		r.sink.Reportf(n.Span_, "'"+n.Name+"' is not a type.")
		return &apm.InvalidPattern{Span_: n.Span_}
	}

	return pat
}

// enumValueNamed searches hint (unwrapping Optional and Union) for an
// EnumValue called name. A plain EnumType hint searches its own Values;
// an EnumValue hint (a singleton pattern) matches only itself.
func enumValueNamed(hint apm.Pattern, name string) (*apm.EnumValue, bool) {
	switch h := hint.(type) {
	case *apm.OptionalPattern:
		return enumValueNamed(h.Inner, name)
	case *apm.UnionPattern:
		for _, m := range h.Members {
			if ev, ok := enumValueNamed(m, name); ok {
				return ev, true
			}
		}
	case *apm.EnumType:
		for _, v := range h.Values {
			if v.Name_ == name {
				return v, true
			}
		}
	case *apm.EnumValue:
		if h.Name_ == name {
			return h, true
		}
	}

	return nil, false
}

func (r *resolver) resolveCodeBlock(b *apm.CodeBlock) {
	if b == nil {
		return
	}

	for i := range b.Statements {
		b.Statements[i] = r.resolveStatement(b.Own, b.Statements[i])
	}
}

func (r *resolver) resolveStatement(sc *apm.Scope, stmt apm.Statement) apm.Statement {
	switch n := stmt.(type) {
	case *apm.ExpressionStatement:
		n.Expr = r.resolveExpr(sc, n.Expr)
		return n
	case *apm.IfStatement:
		for i := range n.Rules {
			n.Rules[i].Condition = r.resolveExpr(sc, n.Rules[i].Condition)
			r.resolveCodeBlock(n.Rules[i].Body)
		}

		r.resolveCodeBlock(n.Else)

		return n
	case *apm.ForStatement:
		n.Variable.Pattern = r.resolvePattern(n.Own, n.Variable.Pattern, nil)
		n.Range = r.resolvePattern(n.Own, n.Range, nil)
		r.resolveCodeBlock(n.Body)

		return n
	case *apm.AssignmentStatement:
		n.Subject = r.resolveExpr(sc, n.Subject)
		n.Value = r.resolveExpr(sc, n.Value)

		return n
	case *apm.VariableDeclaration:
		n.Variable.Pattern = r.resolvePattern(sc, n.Variable.Pattern, nil)

		if n.Value != nil {
			n.Value = r.resolveExpr(sc, n.Value)
		}

		// An omitted explicit pattern (`let x = 1`) is inferred from the
		// initialiser rather than left uninferred.
		if _, uninferred := n.Variable.Pattern.(*apm.UninferredPattern); uninferred && n.Value != nil {
			n.Variable.Pattern = apm.DeterminePattern(n.Value)
		}

		return n
	case *apm.CodeBlock:
		r.resolveCodeBlock(n)
		return n
	case *apm.InvalidStatement:
		return n
	default:
		bug.Raise("resolver: unhandled statement variant %T", stmt)
		return n
	}
}

func (r *resolver) resolveExpr(sc *apm.Scope, e apm.Expr) apm.Expr {
	switch n := e.(type) {
	case *apm.UnresolvedIdentity:
		return r.resolveExprIdentity(sc, n)
	case *apm.ListValue:
		for i := range n.Values {
			n.Values[i] = r.resolveExpr(sc, n.Values[i])
		}

		return n
	case *apm.InstanceList:
		for i := range n.Values {
			n.Values[i] = r.resolveExpr(sc, n.Values[i])
		}

		return n
	case *apm.Unary:
		n.Value = r.resolveExpr(sc, n.Value)
		return n
	case *apm.Binary:
		n.LHS = r.resolveExpr(sc, n.LHS)
		n.RHS = r.resolveExpr(sc, n.RHS)

		return n
	case *apm.ExpressionIndex:
		n.Subject = r.resolveExpr(sc, n.Subject)
		n.Index = r.resolveExpr(sc, n.Index)

		return n
	case *apm.PropertyIndex:
		n.Expr = r.resolveExpr(sc, n.Expr)
		return r.resolvePropertyIndex(sc, n)
	case *apm.Call:
		n.Callee = r.resolveExpr(sc, n.Callee)

		for i := range n.Arguments {
			n.Arguments[i].Value = r.resolveExpr(sc, n.Arguments[i].Value)
		}

		return n
	case *apm.IfExpression:
		for i := range n.Rules {
			n.Rules[i].Condition = r.resolveExpr(sc, n.Rules[i].Condition)
			n.Rules[i].Result = r.resolveExpr(sc, n.Rules[i].Result)
		}

		return n
	case *apm.Match:
		n.Subject = r.resolveExpr(sc, n.Subject)
		hint := apm.DeterminePattern(n.Subject)

		for i := range n.Rules {
			if n.Rules[i].Pattern != nil {
				n.Rules[i].Pattern = r.resolvePattern(sc, n.Rules[i].Pattern, hint)
			}

			n.Rules[i].Result = r.resolveExpr(sc, n.Rules[i].Result)
		}

		return n
	case *apm.IntrinsicValue, *apm.EnumValue, *apm.Variable, *apm.Procedure, *apm.InvalidExpression, *apm.InvalidValue:
		return n
	default:
		bug.Raise("resolver: unhandled expression variant %T", e)
		return n
	}
}

// resolveExprIdentity resolves a bare identifier used as a value. A name
// bound to a property is reinterpreted as that property looked up
// against an empty instance list: this lets a zero-parameter property be
// referenced by name alone, and otherwise surfaces the same "no matching
// overload" diagnostic resolvePropertyIndex already raises for an
// explicit `().property`.
func (r *resolver) resolveExprIdentity(sc *apm.Scope, n *apm.UnresolvedIdentity) apm.Expr {
	v := scope.Fetch(sc, n.Name)
	if v == nil {
		r.sink.Reportf(n.Span_, "'"+n.Name+"' is not defined.")
		return &apm.InvalidExpression{Span_: n.Span_}
	}

	switch v.(type) {
	case *apm.StateProperty, *apm.FunctionProperty, *apm.OverloadedIdentity:
		pi := &apm.PropertyIndex{
			Expr:     &apm.InstanceList{Span_: n.Span_},
			Property: n.Name,
			Span_:    n.Span_,
		}

		return r.resolvePropertyIndex(sc, pi)
	}

	if expr, ok := v.(apm.Expr); ok {
		return expr
	}

	r.sink.Reportf(n.Span_, "'"+n.Name+"' is a type, not a value.")

	return &apm.InvalidValue{Span_: n.Span_}
}

// resolvePropertyIndex picks the unique overload of n.Property whose
// parameters admit n.Expr's (already-resolved) instance arguments,
// recording it on n.Resolved.
func (r *resolver) resolvePropertyIndex(sc *apm.Scope, n *apm.PropertyIndex) apm.Expr {
	overloads := scope.FetchAllOverloads(sc, n.Property)
	if len(overloads) == 0 {
		r.sink.Reportf(n.Span_, "'"+n.Property+"' is not defined.")
		return &apm.InvalidValue{Span_: n.Span_}
	}

	args := instanceArgumentPatterns(n.Expr)

	opaque := false
	for _, a := range args {
		if _, ok := a.(*apm.InvalidPattern); ok {
			opaque = true
		}
	}

	var matches []apm.Overloadable

	for _, ov := range overloads {
		if checker.InstanceListMatchesParameters(args, overloadParams(ov)) {
			matches = append(matches, ov)
		}
	}

	switch len(matches) {
	case 0:
		// With an already-invalid argument in play, the failure was
		// diagnosed where the argument went wrong; re-reporting it here
		// as a missing overload would just cascade.
		if !opaque {
			r.sink.Reportf(n.Span_, "No overload of '"+n.Property+"' matches these arguments.")
		}

		return &apm.InvalidValue{Span_: n.Span_}
	case 1:
		n.Resolved = matches[0]
		return n
	default:
		if !opaque {
			r.sink.Reportf(n.Span_, "Call to '"+n.Property+"' is ambiguous between multiple overloads.")
		}

		n.Resolved = matches[0]

		return n
	}
}

func instanceArgumentPatterns(e apm.Expr) []apm.Pattern {
	if il, ok := e.(*apm.InstanceList); ok {
		out := make([]apm.Pattern, len(il.Values))
		for i, v := range il.Values {
			out[i] = apm.DeterminePattern(v)
		}

		return out
	}

	return []apm.Pattern{apm.DeterminePattern(e)}
}

func overloadParams(v apm.Overloadable) []*apm.Variable {
	switch p := v.(type) {
	case *apm.StateProperty:
		return p.Params
	case *apm.FunctionProperty:
		return p.Params
	default:
		return nil
	}
}
