package apm

import (
	"fmt"

	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/source"
)

// Pattern is both "type" and "value": the set-of-values specifier the
// checker reasons about with IsSubset/Overlaps. Singleton values
// (IntrinsicValue, EnumValue) are Patterns too, which is what lets a
// single value appear where a type is expected.
type Pattern interface {
	Node
	patternTag()
	String() string
}

// UnresolvedIdentity is a bare name awaiting resolution. It is a Pattern
// when it appears where a pattern is expected, and an Expr when it appears
// where a value is expected; no UnresolvedIdentity survives resolution.
type UnresolvedIdentity struct {
	Name  string
	Span_ source.Span
}

func (n *UnresolvedIdentity) Span() source.Span { return n.Span_ }
func (n *UnresolvedIdentity) patternTag() {}
func (n *UnresolvedIdentity) exprTag() {}
func (n *UnresolvedIdentity) String() string { return n.Name }

// UninferredPattern marks a position whose pattern has not yet (or cannot
// yet) be inferred; it is never itself a resolution error.
type UninferredPattern struct {
	Span_ source.Span
}

func (n *UninferredPattern) Span() source.Span { return n.Span_ }
func (n *UninferredPattern) patternTag() {}
func (n *UninferredPattern) String() string { return "<uninferred>" }

// InvalidPattern substitutes for a pattern the resolver or parser could
// not construct, so later stages can treat it as opaque rather than
// cascading further diagnostics.
type InvalidPattern struct {
	Span_ source.Span
}

func (n *InvalidPattern) Span() source.Span { return n.Span_ }
func (n *InvalidPattern) patternTag() {}
func (n *InvalidPattern) String() string { return "<invalid>" }

// AnyPattern is the universal pattern: every value, including `none`,
// belongs to it.
type AnyPattern struct {
	Span_ source.Span
}

func (n *AnyPattern) Span() source.Span { return n.Span_ }
func (n *AnyPattern) patternTag() {}
func (n *AnyPattern) String() string { return "any" }

// UnionPattern is the set-union of two or more member patterns. It is
// always flat (no member is itself a UnionPattern) and, after resolution,
// has at least two distinct members. Identity_ is non-empty only when the
// union was constructed from a named declaration (e.g. an enum mixing
// values of multiple intrinsic types); anonymous unions leave it empty.
type UnionPattern struct {
	Identity_ string
	Members   []Pattern
	Span_     source.Span
}

func (n *UnionPattern) Span() source.Span { return n.Span_ }
func (n *UnionPattern) patternTag() {}
func (n *UnionPattern) lookupTag() {}

func (n *UnionPattern) String() string {
	s := ""

	for i, m := range n.Members {
		if i > 0 {
			s += " | "
		}

		s += m.String()
	}

	return s
}

// Identity returns the LookupValue identity of this pattern alias. Union
// patterns have no dedicated declaration syntax, so this is only
// reachable when a union was seeded directly into a scope.
func (n *UnionPattern) Identity() string { return n.Identity_ }

// ListPattern is a homogeneous list pattern, optionally of a fixed size.
// Size is nil for an unbounded list.
type ListPattern struct {
	Element Pattern
	Size    *int
	Span_   source.Span
}

func (n *ListPattern) Span() source.Span { return n.Span_ }
func (n *ListPattern) patternTag() {}

func (n *ListPattern) String() string {
	if n.Size != nil {
		return fmt.Sprintf("[%s; %d]", n.Element.String(), *n.Size)
	}

	return fmt.Sprintf("[%s]", n.Element.String())
}

// OptionalPattern is P or "none". Its inner pattern is never itself
// OptionalPattern.
type OptionalPattern struct {
	Inner Pattern
	Span_ source.Span
}

func (n *OptionalPattern) Span() source.Span { return n.Span_ }
func (n *OptionalPattern) patternTag() {}
func (n *OptionalPattern) String() string { return n.Inner.String() + "?" }
