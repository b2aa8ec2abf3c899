package apm

import (
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/bug"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/source"
)

// Every resolved Expr carries an implicit pattern derived from its shape;
// DeterminePattern and CreateUnion are what the checker uses to validate
// state initial values, if-conditions, and match rules without a separate
// type-annotation pass.

// DeterminePattern returns the pattern an already-resolved expression
// produces. It never runs before resolution: an UnresolvedIdentity or
// UninferredPattern reaching this function is a compiler bug, not a user
// diagnostic, since resolution is responsible for replacing every such
// placeholder.
func DeterminePattern(e Expr) Pattern {
	switch n := e.(type) {
	case *IntrinsicValue:
		if n.Of == nil {
			return n
		}

		return n.Of
	case *EnumValue:
		return n.Of
	case *Variable:
		return n.Pattern
	case *ListValue:
		return determineListPattern(n)
	case *InstanceList:
		return determineInstanceListPattern(n)
	case *Unary:
		return determineUnaryPattern(n)
	case *Binary:
		return determineBinaryPattern(n)
	case *ExpressionIndex:
		return determineIndexPattern(n)
	case *PropertyIndex:
		if n.Resolved != nil {
			return propertyResultPattern(n.Resolved)
		}

		return &InvalidPattern{Span_: n.Span_}
	case *Call:
		return determineCallPattern(n)
	case *IfExpression:
		return determineIfExpressionPattern(n)
	case *Match:
		return determineMatchPattern(n)
	case *Procedure:
		// Procedures are void: referencing one directly has no pattern.
		return &InvalidPattern{Span_: e.Span()}
	case *InvalidValue, *InvalidExpression:
		return &InvalidPattern{Span_: e.Span()}
	default:
		bug.Raise("cannot determine pattern of expression variant %T", e)
		return &InvalidPattern{Span_: e.Span()}
	}
}

// determineListPattern gives a ListValue the pattern [union of elements],
// fixed at the literal's length.
func determineListPattern(n *ListValue) Pattern {
	if len(n.Values) == 0 {
		return &ListPattern{Element: &AnyPattern{Span_: n.Span_}, Span_: n.Span_}
	}

	elem := DeterminePattern(n.Values[0])
	for _, v := range n.Values[1:] {
		elem = CreateUnion(elem, DeterminePattern(v))
	}

	size := len(n.Values)

	return &ListPattern{Element: elem, Size: &size, Span_: n.Span_}
}

// determineInstanceListPattern gives an InstanceList the pattern [union of
// elements], unconstrained in size: InstanceList models a call's instance
// arguments, not a list literal.
func determineInstanceListPattern(n *InstanceList) Pattern {
	if len(n.Values) == 0 {
		return &ListPattern{Element: &AnyPattern{Span_: n.Span_}, Span_: n.Span_}
	}

	elem := DeterminePattern(n.Values[0])
	for _, v := range n.Values[1:] {
		elem = CreateUnion(elem, DeterminePattern(v))
	}

	return &ListPattern{Element: elem, Span_: n.Span_}
}

// determineUnaryPattern gives `not` result "bool" and `+`/`-` the operand's
// own pattern unchanged.
func determineUnaryPattern(n *Unary) Pattern {
	if n.Op == "not" {
		return &IntrinsicType{Name_: "bool", Span_: n.Span_}
	}

	return DeterminePattern(n.Value)
}

// determineBinaryPattern gives comparison/logical operators "bool" and
// arithmetic operators the union of both operand patterns. Neither pattern
// inference nor the checker validates that arithmetic operands are
// numeric.
func determineBinaryPattern(n *Binary) Pattern {
	switch n.Op {
	case "and", "or", "==", "!=", "<", "<=", ">", ">=":
		return &IntrinsicType{Name_: "bool", Span_: n.Span_}
	default:
		return CreateUnion(DeterminePattern(n.LHS), DeterminePattern(n.RHS))
	}
}

// determineIndexPattern gives `list[i]` the list's element pattern.
func determineIndexPattern(n *ExpressionIndex) Pattern {
	subject := DeterminePattern(n.Subject)

	if lp, ok := subject.(*ListPattern); ok {
		return lp.Element
	}

	return &InvalidPattern{Span_: n.Span_}
}

// propertyResultPattern returns the pattern a resolved property lookup
// produces, independent of how many overloads it was resolved from.
func propertyResultPattern(v LookupValue) Pattern {
	switch p := v.(type) {
	case *StateProperty:
		return p.Result
	case *FunctionProperty:
		return p.Result
	default:
		bug.Raise("property lookup resolved to non-property variant %T", v)
		return &InvalidPattern{}
	}
}

// determineCallPattern gives a Call its callee's result pattern.
func determineCallPattern(n *Call) Pattern {
	switch callee := n.Callee.(type) {
	case *PropertyIndex:
		return DeterminePattern(callee)
	default:
		return &InvalidPattern{Span_: n.Span_}
	}
}

// determineIfExpressionPattern is the union of every rule's result
// pattern, plus "none" if the expression has no trailing else: a
// non-exhaustive if-expression may evaluate to none.
func determineIfExpressionPattern(n *IfExpression) Pattern {
	if len(n.Rules) == 0 {
		return &InvalidPattern{Span_: n.Span_}
	}

	result := DeterminePattern(n.Rules[0].Result)
	for _, r := range n.Rules[1:] {
		result = CreateUnion(result, DeterminePattern(r.Result))
	}

	if !n.HasElse {
		result = CreateUnion(result, &IntrinsicValue{Name_: "none", Span_: n.Span_})
	}

	return result
}

// determineMatchPattern is the union of every rule's result pattern, plus
// "none" if the match has no catch-all else rule.
func determineMatchPattern(n *Match) Pattern {
	if len(n.Rules) == 0 {
		return &InvalidPattern{Span_: n.Span_}
	}

	result := DeterminePattern(n.Rules[0].Result)
	for _, r := range n.Rules[1:] {
		result = CreateUnion(result, DeterminePattern(r.Result))
	}

	if !n.HasElse {
		result = CreateUnion(result, &IntrinsicValue{Name_: "none", Span_: n.Span_})
	}

	return result
}

// CreateUnion folds b into a, flattening nested unions and skipping
// members already present by PatternEqual, so a union pattern is always
// flat and duplicate-free. Constructing a union whose members all turn
// out equal collapses back to that single pattern rather than a
// one-member UnionPattern.
func CreateUnion(a, b Pattern) Pattern {
	var members []Pattern

	members = appendFlat(members, a)
	members = appendFlat(members, b)

	deduped := members[:0:0]
	for _, m := range members {
		dup := false

		for _, existing := range deduped {
			if PatternEqual(m, existing) {
				dup = true
				break
			}
		}

		if !dup {
			deduped = append(deduped, m)
		}
	}

	if len(deduped) == 1 {
		return deduped[0]
	}

	return &UnionPattern{Members: deduped, Span_: mergeSpans(deduped)}
}

func appendFlat(into []Pattern, p Pattern) []Pattern {
	if u, ok := p.(*UnionPattern); ok {
		return append(into, u.Members...)
	}

	return append(into, p)
}

func mergeSpans(members []Pattern) (s source.Span) {
	for i, m := range members {
		if i == 0 {
			s = m.Span()
			continue
		}

		s = source.Merge(s, m.Span())
	}

	return s
}

// PatternEqual reports whether a and b denote the same pattern.
// IntrinsicTypes compare by name; EnumType, Entity and EnumValue compare
// by pointer identity, so two distinct `entity` declarations never compare
// equal; UnionPatterns compare as member sets, whatever their Identity.
func PatternEqual(a, b Pattern) bool {
	switch x := a.(type) {
	case *IntrinsicType:
		y, ok := b.(*IntrinsicType)
		return ok && x.Name_ == y.Name_
	case *EnumType:
		y, ok := b.(*EnumType)
		return ok && x == y
	case *Entity:
		y, ok := b.(*Entity)
		return ok && x == y
	case *IntrinsicValue:
		y, ok := b.(*IntrinsicValue)
		return ok && x.Name_ == y.Name_ && x.Of == y.Of
	case *EnumValue:
		y, ok := b.(*EnumValue)
		return ok && x == y
	case *AnyPattern:
		_, ok := b.(*AnyPattern)
		return ok
	case *ListPattern:
		y, ok := b.(*ListPattern)
		if !ok || !PatternEqual(x.Element, y.Element) {
			return false
		}

		if (x.Size == nil) != (y.Size == nil) {
			return false
		}

		return x.Size == nil || *x.Size == *y.Size
	case *OptionalPattern:
		y, ok := b.(*OptionalPattern)
		return ok && PatternEqual(x.Inner, y.Inner)
	case *UnionPattern:
		y, ok := b.(*UnionPattern)
		if !ok || len(x.Members) != len(y.Members) {
			return false
		}

		for _, xm := range x.Members {
			found := false

			for _, ym := range y.Members {
				if PatternEqual(xm, ym) {
					found = true
					break
				}
			}

			if !found {
				return false
			}
		}

		return true
	case *InvalidPattern, *UninferredPattern, *UnresolvedIdentity:
		return false
	default:
		bug.Raise("PatternEqual: unhandled pattern variant %T", a)
		return false
	}
}
