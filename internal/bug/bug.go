// Package bug implements the compiler-bug error taxonomy: an invariant
// violation in the compiler itself, as opposed to a user diagnostic. A
// compiler bug is fatal for the current compilation and unwinds to the
// driver via panic/recover at the stage boundary in internal/compiler,
// never surfaced as a normal user outcome.
package bug

import "fmt"

// Error is the panic value raised for an internal invariant violation,
// e.g. an unhandled variant in a type switch.
type Error struct {
	Msg string
}

func (e Error) Error() string {
	return e.Msg
}

// Raise panics with a compiler-bug Error. Callers never recover from
// this directly; only the stage boundary in internal/compiler does.
func Raise(format string, args ...any) {
	panic(Error{Msg: fmt.Sprintf(format, args...)})
}
