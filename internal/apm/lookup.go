package apm

import "github.com/TheIttyBittyGalaxy/gambit-sub000/internal/source"

// LookupValue is whatever a Scope entry can be bound to. Concrete
// variants: Variable, UnionPattern, IntrinsicType, EnumType, Entity,
// StateProperty, FunctionProperty, Procedure, OverloadedIdentity, and
// IntrinsicValue — the last so the single `none` value is resolvable as
// a bare identifier like every other name.
type LookupValue interface {
	Node
	Identity() string
	lookupTag()
}

// Overloadable is implemented by the two LookupValue kinds the scope table
// permits to coexist under one identifier: StateProperty and
// FunctionProperty.
type Overloadable interface {
	LookupValue
	overloadableTag()
}

// OverloadedIdentity groups every overload declared against one identifier
// in a single scope. Overloads are kept in declaration order (not as an
// unordered set) because the checker's duplicate-signature diagnostic
// must point at the second conflicting declaration.
type OverloadedIdentity struct {
	Name_   string
	Members []Overloadable
	Span_   source.Span
}

func (o *OverloadedIdentity) Span() source.Span { return o.Span_ }
func (o *OverloadedIdentity) Identity() string { return o.Name_ }
func (o *OverloadedIdentity) lookupTag() {}

// Append adds a new overload to this identity, extending its span to cover
// the new member's declaration.
func (o *OverloadedIdentity) Append(v Overloadable) {
	o.Members = append(o.Members, v)
	o.Span_ = source.Merge(o.Span_, v.Span())
}
