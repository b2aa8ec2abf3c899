package scope

import (
	"testing"

	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/apm"
)

func TestDeclareMergesOverloadableBindingsOfTheSameName(t *testing.T) {
	s := apm.NewScope(nil)

	a := &apm.StateProperty{Name_: "x", Result: &apm.IntrinsicType{Name_: "num"}}
	b := &apm.StateProperty{Name_: "x", Result: &apm.IntrinsicType{Name_: "str"}}

	if !Declare(s, a) {
		t.Fatal("first declaration of x should succeed")
	}

	if !Declare(s, b) {
		t.Fatal("second overloadable declaration of x should succeed by merging")
	}

	v, ok := s.Raw("x")
	if !ok {
		t.Fatal("x should be declared")
	}

	group, ok := v.(*apm.OverloadedIdentity)
	if !ok {
		t.Fatalf("x resolved to %T, want *apm.OverloadedIdentity", v)
	}

	if len(group.Members) != 2 {
		t.Fatalf("expected 2 overload members, got %d", len(group.Members))
	}
}

func TestDeclareRejectsIncompatibleRedeclaration(t *testing.T) {
	s := apm.NewScope(nil)

	e := &apm.Entity{Name_: "Player"}
	if !Declare(s, e) {
		t.Fatal("first declaration of Player should succeed")
	}

	other := &apm.Entity{Name_: "Player"}
	if Declare(s, other) {
		t.Error("a second, non-overloadable Player should not be allowed to replace the first")
	}
}

func TestFetchSearchesAncestorsInnermostFirst(t *testing.T) {
	global := apm.NewScope(nil)
	inner := apm.NewScope(global)

	outer := &apm.Entity{Name_: "Shared"}
	Declare(global, outer)

	if Fetch(inner, "Shared") != outer {
		t.Fatal("Fetch should find a binding declared in an ancestor scope")
	}

	shadow := &apm.Entity{Name_: "Shared"}
	Declare(inner, shadow)

	if Fetch(inner, "Shared") != shadow {
		t.Error("Fetch should prefer the innermost binding")
	}
}

func TestFetchAllOverloadsGathersAcrossTheWholeScopeChain(t *testing.T) {
	global := apm.NewScope(nil)
	inner := apm.NewScope(global)

	g := &apm.FunctionProperty{Name_: "f", Result: &apm.IntrinsicType{Name_: "bool"}}
	Declare(global, g)

	i := &apm.FunctionProperty{Name_: "f", Result: &apm.IntrinsicType{Name_: "bool"}, Params: []*apm.Variable{{Name_: "n", Pattern: &apm.IntrinsicType{Name_: "num"}}}}
	Declare(inner, i)

	overloads := FetchAllOverloads(inner, "f")
	if len(overloads) != 2 {
		t.Fatalf("expected overloads from both scopes, got %d", len(overloads))
	}
}

func TestDirectlyDeclaredDoesNotConsultParent(t *testing.T) {
	global := apm.NewScope(nil)
	inner := apm.NewScope(global)

	Declare(global, &apm.Entity{Name_: "Player"})

	if DirectlyDeclared(inner, "Player") {
		t.Error("DirectlyDeclared should not see a parent scope's bindings")
	}

	if !Declared(inner, "Player") {
		t.Error("Declared should see a parent scope's bindings")
	}
}
