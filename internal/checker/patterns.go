// Package checker implements the pattern algebra and the diagnostic
// rules built on it. Every rule here runs after resolution, reading the
// APM without mutating it. IsSubset and Overlaps are standalone functions
// rather than interface methods, since the optional/union special cases
// need to see both operands' concrete shapes at once.
package checker

import (
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/apm"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/bug"
)

// IsSubset reports whether every value matched by a is also matched by b.
// Beyond plain equality/union-membership it special-cases the amt ≤ int ≤
// num numeric ladder, an AnyPattern operand, the asymmetric Optional triad
// (Optional(B) ⊆ Optional(B), B ⊆ Optional(B), but Optional(B) ⊄ B), an
// enum type's expansion into the union of its values, and list patterns.
func IsSubset(a, b apm.Pattern) bool {
	requireResolved(a)
	requireResolved(b)

	if isInvalid(a) || isInvalid(b) {
		return false
	}

	if apm.PatternEqual(a, b) {
		return true
	}

	if aNum, ok := a.(*apm.IntrinsicType); ok {
		if bNum, ok := b.(*apm.IntrinsicType); ok && numericSubset(aNum.Name_, bNum.Name_) {
			return true
		}
	}

	if _, ok := b.(*apm.AnyPattern); ok {
		return true
	}

	if _, ok := a.(*apm.AnyPattern); ok {
		// Any is only a subset of itself, already handled above.
		return false
	}

	if bOpt, ok := b.(*apm.OptionalPattern); ok {
		if isNonePattern(a) {
			return true
		}

		if aOpt, ok := a.(*apm.OptionalPattern); ok {
			return IsSubset(aOpt.Inner, bOpt.Inner)
		}

		return IsSubset(a, bOpt.Inner)
	}

	// a is Optional(X) here: it is a subset of b only if b is itself
	// the none-admitting pattern already handled above, never of a
	// plain (non-optional) b.
	if _, ok := a.(*apm.OptionalPattern); ok {
		return false
	}

	if aEnum, ok := a.(*apm.EnumType); ok {
		return IsSubset(enumExtension(aEnum), b)
	}

	if bUnion, ok := b.(*apm.UnionPattern); ok {
		if aUnion, ok := a.(*apm.UnionPattern); ok {
			for _, am := range aUnion.Members {
				if !memberOfUnion(am, bUnion) {
					return false
				}
			}

			return true
		}

		return memberOfUnion(a, bUnion)
	}

	if aList, ok := a.(*apm.ListPattern); ok {
		bList, ok := b.(*apm.ListPattern)
		if !ok {
			return false
		}

		if bList.Size != nil && (aList.Size == nil || *aList.Size != *bList.Size) {
			return false
		}

		return IsSubset(aList.Element, bList.Element)
	}

	return false
}

func memberOfUnion(p apm.Pattern, u *apm.UnionPattern) bool {
	for _, m := range u.Members {
		if IsSubset(p, m) {
			return true
		}
	}

	return false
}

// enumExtension returns the union of t's own values, the pattern an
// EnumType denotes extensionally. A bare enum type name used as a match
// pattern (rather than one of its values) means "any value of this
// enum", so comparing it against a union of specific values needs this
// expansion rather than identity comparison.
func enumExtension(t *apm.EnumType) apm.Pattern {
	if len(t.Values) == 0 {
		return &apm.InvalidPattern{Span_: t.Span_}
	}

	var u apm.Pattern = t.Values[0]
	for _, v := range t.Values[1:] {
		u = apm.CreateUnion(u, v)
	}

	return u
}

// numericSubset reports whether the intrinsic type named sub is, by the
// ordering its glossary description implies (amt non-negative ⊆ int
// signed ⊆ num real), a subset of the intrinsic type named sup. str,
// bool and none never participate: each is its own singleton type with
// no numeric relation to the others.
//
// The parser gives an integer literal without a decimal point its own
// amt identity, so the checker needs this rule explicitly for a
// declaration like `state num(...).score: 0` to check clean. The rule
// lives here rather than in PatternEqual, which backs union
// deduplication and must keep amt and num distinct; the subset itself is
// one-directional, so amt and num overload signatures also stay
// distinguishable.
func numericSubset(sub, sup string) bool {
	rank := map[string]int{"amt": 0, "int": 1, "num": 2}

	subRank, ok := rank[sub]
	if !ok {
		return false
	}

	supRank, ok := rank[sup]
	if !ok {
		return false
	}

	return subRank <= supRank
}

// isNonePattern reports whether p denotes only the unique none value,
// which is its own pattern rather than a member of a dedicated type.
func isNonePattern(p apm.Pattern) bool {
	v, ok := p.(*apm.IntrinsicValue)
	return ok && v.Of == nil && v.Name_ == "none"
}

// Overlaps reports whether a and b share at least one matchable value,
// used by the checker to flag match rules that can never fire.
func Overlaps(a, b apm.Pattern) bool {
	requireResolved(a)
	requireResolved(b)

	if isInvalid(a) || isInvalid(b) {
		return false
	}

	if _, ok := a.(*apm.AnyPattern); ok {
		return true
	}

	if _, ok := b.(*apm.AnyPattern); ok {
		return true
	}

	if aEnum, ok := a.(*apm.EnumType); ok {
		return Overlaps(enumExtension(aEnum), b)
	}

	if bEnum, ok := b.(*apm.EnumType); ok {
		return Overlaps(a, enumExtension(bEnum))
	}

	if aNum, ok := a.(*apm.IntrinsicType); ok {
		if bNum, ok := b.(*apm.IntrinsicType); ok {
			if numericSubset(aNum.Name_, bNum.Name_) || numericSubset(bNum.Name_, aNum.Name_) {
				return true
			}
		}
	}

	if aOpt, ok := a.(*apm.OptionalPattern); ok {
		return isNonePattern(b) || Overlaps(aOpt.Inner, b)
	}

	if bOpt, ok := b.(*apm.OptionalPattern); ok {
		return isNonePattern(a) || Overlaps(a, bOpt.Inner)
	}

	if aUnion, ok := a.(*apm.UnionPattern); ok {
		for _, am := range aUnion.Members {
			if Overlaps(am, b) {
				return true
			}
		}

		return false
	}

	if bUnion, ok := b.(*apm.UnionPattern); ok {
		for _, bm := range bUnion.Members {
			if Overlaps(a, bm) {
				return true
			}
		}

		return false
	}

	if aList, ok := a.(*apm.ListPattern); ok {
		bList, ok := b.(*apm.ListPattern)
		if !ok {
			return false
		}

		if aList.Size != nil && bList.Size != nil && *aList.Size != *bList.Size {
			return false
		}

		return Overlaps(aList.Element, bList.Element)
	}

	return apm.PatternEqual(a, b)
}

// InstanceListMatchesParameters reports whether args (an InstanceList's
// already-determined element patterns) can be bound positionally against
// params, the Variable list of a candidate overload: overload resolution
// picks the unique member whose parameters admit the call's arguments.
// args may be fewer than params only if every parameter past
// the supplied arguments is itself an OptionalPattern — a trailing
// optional parameter may be omitted entirely, it is not required to be
// explicitly passed `none`.
func InstanceListMatchesParameters(args []apm.Pattern, params []*apm.Variable) bool {
	if len(args) > len(params) {
		return false
	}

	for i, param := range params {
		if i >= len(args) {
			if _, ok := param.Pattern.(*apm.OptionalPattern); !ok {
				return false
			}

			continue
		}

		// An argument that already failed resolution is opaque: it
		// neither matches nor mismatches, so it never disqualifies an
		// overload on its own.
		if isInvalid(args[i]) {
			continue
		}

		if !IsSubset(args[i], param.Pattern) {
			return false
		}
	}

	return true
}

// isInvalid reports whether p is the opaque marker a failed resolution
// leaves behind. Invalid short-circuits both relations to false, and the
// checker's rules skip reporting against it entirely: the resolver
// already diagnosed whatever made it invalid.
func isInvalid(p apm.Pattern) bool {
	_, ok := p.(*apm.InvalidPattern)
	return ok
}

// requireResolved panics with a compiler bug if p is a placeholder that
// should never reach the checker: resolution is responsible for replacing
// every UnresolvedIdentity and leaving no UninferredPattern in a checked
// position.
func requireResolved(p apm.Pattern) {
	switch p.(type) {
	case *apm.UnresolvedIdentity, *apm.UninferredPattern:
		bug.Raise("pattern reached the checker unresolved: %s", p.String())
	}
}
