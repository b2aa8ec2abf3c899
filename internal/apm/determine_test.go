package apm

import "testing"

func TestCreateUnionFlattensNestedUnions(t *testing.T) {
	a := &IntrinsicType{Name_: "num"}
	b := &IntrinsicType{Name_: "str"}
	c := &IntrinsicType{Name_: "bool"}

	ab := CreateUnion(a, b)
	abc := CreateUnion(ab, c)

	u, ok := abc.(*UnionPattern)
	if !ok {
		t.Fatalf("expected a UnionPattern, got %T", abc)
	}

	if len(u.Members) != 3 {
		t.Fatalf("expected a flat 3-member union, got %d members: %v", len(u.Members), u.Members)
	}

	for _, m := range u.Members {
		if _, nested := m.(*UnionPattern); nested {
			t.Fatal("a UnionPattern must never contain a nested UnionPattern")
		}
	}
}

func TestCreateUnionDeduplicatesEqualMembers(t *testing.T) {
	a := &IntrinsicType{Name_: "num"}
	b := &IntrinsicType{Name_: "num"}

	got := CreateUnion(a, b)

	if _, isUnion := got.(*UnionPattern); isUnion {
		t.Fatalf("a union of two equal patterns should collapse to a single pattern, got %T", got)
	}

	if !PatternEqual(got, a) {
		t.Fatalf("collapsed union should equal its single distinct member")
	}
}

func TestPatternEqualComparesIntrinsicTypesByName(t *testing.T) {
	a := &IntrinsicType{Name_: "num"}
	b := &IntrinsicType{Name_: "num"}
	c := &IntrinsicType{Name_: "str"}

	if !PatternEqual(a, b) {
		t.Error("two IntrinsicTypes with the same name should be equal")
	}

	if PatternEqual(a, c) {
		t.Error("IntrinsicTypes with different names should not be equal")
	}
}

func TestPatternEqualComparesEntitiesByIdentityNotName(t *testing.T) {
	a := &Entity{Name_: "Player"}
	b := &Entity{Name_: "Player"}

	if PatternEqual(a, b) {
		t.Error("two distinct Entity declarations sharing a name should not compare equal")
	}

	if !PatternEqual(a, a) {
		t.Error("an Entity should equal itself")
	}
}

func TestDeterminePatternOfIntrinsicValueIsItsIntrinsicType(t *testing.T) {
	num := &IntrinsicType{Name_: "num"}
	v := &IntrinsicValue{Name_: "3.14", Of: num}

	if got := DeterminePattern(v); got != Pattern(num) {
		t.Fatalf("DeterminePattern(%v) = %v, want %v", v, got, num)
	}
}

func TestDeterminePatternOfNotExpressionIsBool(t *testing.T) {
	amt := &IntrinsicType{Name_: "amt"}
	lit := &IntrinsicValue{Name_: "5", Of: amt}
	notExpr := &Unary{Op: "not", Value: lit}

	got := DeterminePattern(notExpr)

	bl, ok := got.(*IntrinsicType)
	if !ok || bl.Name_ != "bool" {
		t.Fatalf("DeterminePattern(not ...) = %v, want bool", got)
	}
}

func TestDeterminePatternOfNonExhaustiveMatchIncludesNone(t *testing.T) {
	bl := &IntrinsicType{Name_: "bool"}
	result := &IntrinsicValue{Name_: "true", Of: bl}

	m := &Match{
		Rules:   []MatchRule{{Result: result}},
		HasElse: false,
	}

	got := DeterminePattern(m)

	u, ok := got.(*UnionPattern)
	if !ok {
		t.Fatalf("expected a union including none, got %T", got)
	}

	foundNone := false
	for _, mem := range u.Members {
		if nv, ok := mem.(*IntrinsicValue); ok && nv.Name_ == "none" {
			foundNone = true
		}
	}

	if !foundNone {
		t.Fatal("a non-exhaustive match's pattern should include none")
	}
}

func TestDeterminePatternOfExhaustiveMatchExcludesNone(t *testing.T) {
	bl := &IntrinsicType{Name_: "bool"}
	result := &IntrinsicValue{Name_: "true", Of: bl}

	m := &Match{
		Rules:   []MatchRule{{Result: result}},
		HasElse: true,
	}

	got := DeterminePattern(m)

	if _, ok := got.(*UnionPattern); ok {
		t.Fatalf("an exhaustive single-rule match should not gain a none member, got %T", got)
	}

	if !PatternEqual(got, bl) {
		t.Fatalf("expected the match's pattern to be bool, got %v", got)
	}
}
