// Package scope implements the lookup, declaration and overload-discovery
// algorithms that operate over apm.Scope, kept separate from the apm
// package's pure data model.
package scope

import "github.com/TheIttyBittyGalaxy/gambit-sub000/internal/apm"

// IdentityOf returns the name a LookupValue is bound under. For an
// OverloadedIdentity this is the shared identifier all of its members
// were declared against.
func IdentityOf(value apm.LookupValue) string {
	return value.Identity()
}

// DirectlyDeclared reports whether identity is bound in s itself,
// without consulting any parent scope.
func DirectlyDeclared(s *apm.Scope, identity string) bool {
	_, ok := s.Raw(identity)
	return ok
}

// Declared reports whether identity is bound in s or any ancestor of s.
func Declared(s *apm.Scope, identity string) bool {
	for cur := s; cur != nil; cur = cur.Parent() {
		if _, ok := cur.Raw(identity); ok {
			return true
		}
	}

	return false
}

// Fetch returns the binding for identity, searching s and then its
// ancestors innermost first. It returns nil if identity is not declared
// anywhere in the chain.
func Fetch(s *apm.Scope, identity string) apm.LookupValue {
	for cur := s; cur != nil; cur = cur.Parent() {
		if v, ok := cur.Raw(identity); ok {
			return v
		}
	}

	return nil
}

// IsOverloadable reports whether value is one of the LookupValue kinds
// the scope table permits to coexist under a shared identifier
// (StateProperty, FunctionProperty).
func IsOverloadable(value apm.LookupValue) bool {
	_, ok := value.(apm.Overloadable)
	return ok
}

// FetchAllOverloads concatenates every overload set bound to identity
// across the entire scope chain, innermost scope first. Unlike Fetch,
// this does not stop at the first scope that binds identity: a
// non-overloadable binding in an inner scope shadows an outer
// overloadable one for ordinary lookup, but declaring a new overload in
// an inner scope is additive across the whole chain — this is an
// explicit, intentional design choice (not a bug) so that, e.g., a
// locally-scoped `fn` can extend rather than hide overloads declared at
// the global scope.
func FetchAllOverloads(s *apm.Scope, identity string) []apm.Overloadable {
	var out []apm.Overloadable

	for cur := s; cur != nil; cur = cur.Parent() {
		v, ok := cur.Raw(identity)
		if !ok {
			continue
		}

		switch t := v.(type) {
		case *apm.OverloadedIdentity:
			out = append(out, t.Members...)
		case apm.Overloadable:
			out = append(out, t)
		}
	}

	return out
}

// Declare binds value under its own identity in s. If an overloadable
// binding of the same name already exists directly in s, the two are
// merged into (or extended within) an OverloadedIdentity rather than one
// replacing the other; any other kind of clash returns false and leaves
// s untouched, letting the caller raise a redeclaration diagnostic.
func Declare(s *apm.Scope, value apm.LookupValue) bool {
	identity := value.Identity()

	existing, ok := s.Raw(identity)
	if !ok {
		s.Put(identity, value)
		return true
	}

	newOverloadable, newOK := value.(apm.Overloadable)
	if !newOK {
		return false
	}

	switch old := existing.(type) {
	case *apm.OverloadedIdentity:
		old.Append(newOverloadable)
		return true
	case apm.Overloadable:
		group := &apm.OverloadedIdentity{Name_: identity, Members: []apm.Overloadable{old}, Span_: old.Span()}
		group.Append(newOverloadable)
		s.Put(identity, group)

		return true
	default:
		return false
	}
}
