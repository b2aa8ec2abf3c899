package apm

import "github.com/TheIttyBittyGalaxy/gambit-sub000/internal/source"

// ============================================================================
// Variable
// ============================================================================

// Variable is a named, typed binding: a function/state/procedure parameter
// or a local declared with `let`/`var`.
type Variable struct {
	Name_   string
	Pattern Pattern
	Mutable bool
	Span_   source.Span
}

func (v *Variable) Span() source.Span { return v.Span_ }
func (v *Variable) Identity() string { return v.Name_ }
func (v *Variable) lookupTag() {}
func (v *Variable) exprTag() {}

// ============================================================================
// Entity
// ============================================================================

// Entity is an opaque handle type with no field storage of its own;
// entities exist so state/function properties can be parameterised over
// "instances of Player", etc.
type Entity struct {
	Name_ string
	Span_ source.Span
}

func (e *Entity) Span() source.Span { return e.Span_ }
func (e *Entity) Identity() string { return e.Name_ }
func (e *Entity) lookupTag() {}
func (e *Entity) patternTag() {}
func (e *Entity) String() string { return e.Name_ }

// ============================================================================
// IntrinsicType / IntrinsicValue
// ============================================================================

// IntrinsicType is one of the language's built-in types (str, num, int,
// amt, bool) seeded by the intrinsics table.
type IntrinsicType struct {
	Name_ string
	Span_ source.Span
}

func (t *IntrinsicType) Span() source.Span { return t.Span_ }
func (t *IntrinsicType) Identity() string { return t.Name_ }
func (t *IntrinsicType) lookupTag() {}
func (t *IntrinsicType) patternTag() {}
func (t *IntrinsicType) String() string { return t.Name_ }

// IntrinsicValue makes a single intrinsic value usable as both a Pattern
// (a singleton set) and an Expr (a literal). Literals carry the
// IntrinsicType they belong to in Of; the unique `none` value leaves Of
// nil, since it is its own pattern.
type IntrinsicValue struct {
	Of    *IntrinsicType
	Name_ string
	Span_ source.Span
}

func (v *IntrinsicValue) Span() source.Span { return v.Span_ }
func (v *IntrinsicValue) Identity() string { return v.Name_ }
func (v *IntrinsicValue) lookupTag() {}
func (v *IntrinsicValue) patternTag() {}
func (v *IntrinsicValue) exprTag() {}
func (v *IntrinsicValue) String() string { return v.Name_ }

// ============================================================================
// EnumType / EnumValue
// ============================================================================

// EnumType declares a closed set of named values, kept in declaration
// order.
type EnumType struct {
	Name_  string
	Values []*EnumValue
	Span_  source.Span
}

func (t *EnumType) Span() source.Span { return t.Span_ }
func (t *EnumType) Identity() string { return t.Name_ }
func (t *EnumType) lookupTag() {}
func (t *EnumType) patternTag() {}
func (t *EnumType) String() string { return t.Name_ }

// Ordinal returns the zero-based declaration index of value within this
// enum, or -1 if value does not belong to it. The checker does not call
// it: its non-exhaustive match diagnostic does not list missing cases.
func (t *EnumType) Ordinal(value *EnumValue) int {
	for i, v := range t.Values {
		if v == value {
			return i
		}
	}

	return -1
}

// EnumValue is one member of an EnumType, back-referencing its type
// through a plain, non-owning pointer: the EnumType slice owns the
// EnumValue, not the other way around.
type EnumValue struct {
	Of    *EnumType
	Name_ string
	Span_ source.Span
}

func (v *EnumValue) Span() source.Span { return v.Span_ }
func (v *EnumValue) Identity() string { return v.Name_ }
func (v *EnumValue) lookupTag() {}
func (v *EnumValue) patternTag() {}
func (v *EnumValue) exprTag() {}
func (v *EnumValue) String() string { return v.Of.Name_ + "." + v.Name_ }

// ============================================================================
// StateProperty / FunctionProperty
// ============================================================================

// StateProperty declares `state P(params).id[: initial]`.
type StateProperty struct {
	Name_   string
	Result  Pattern
	Own     *Scope
	Params  []*Variable
	Initial Expr // nil if declared without a definition
	Span_   source.Span
}

func (p *StateProperty) Span() source.Span { return p.Span_ }
func (p *StateProperty) Identity() string { return p.Name_ }
func (p *StateProperty) lookupTag() {}
func (p *StateProperty) overloadableTag() {}

// FunctionProperty declares `fn P(params).id { body }` or `fn P(params).id: stmt`.
type FunctionProperty struct {
	Name_  string
	Result Pattern
	Own    *Scope
	Params []*Variable
	Body   *CodeBlock // nil if declared without a definition
	Span_  source.Span
}

func (p *FunctionProperty) Span() source.Span { return p.Span_ }
func (p *FunctionProperty) Identity() string { return p.Name_ }
func (p *FunctionProperty) lookupTag() {}
func (p *FunctionProperty) overloadableTag() {}

// ============================================================================
// Procedure
// ============================================================================

// Procedure is a named, parameterised block of statements. It also
// satisfies Expr (exprTag) so a bare identifier naming one resolves
// directly to a Call's Callee, the same way Variable and IntrinsicValue
// double as both LookupValue and Expr.
type Procedure struct {
	Name_  string
	Own    *Scope
	Params []*Variable
	Body   *CodeBlock
	Span_  source.Span
}

func (p *Procedure) Span() source.Span { return p.Span_ }
func (p *Procedure) Identity() string { return p.Name_ }
func (p *Procedure) lookupTag() {}
func (p *Procedure) exprTag() {}

// ============================================================================
// CodeBlock
// ============================================================================

// CodeBlock is `{ statements }` or, in singleton form (Singleton == true),
// `: single_statement`. A singleton block's one statement is never itself
// a CodeBlock; the parser rejects `: { ... }`.
type CodeBlock struct {
	Own        *Scope
	Statements []Statement
	Singleton  bool
	Span_      source.Span
}

func (b *CodeBlock) Span() source.Span { return b.Span_ }
func (b *CodeBlock) stmtTag() {}
