// Package compiler orchestrates the pipeline stages (lexer, parser,
// resolver, checker) over a single source file and converts a recovered
// compiler-bug panic into a returned error at the stage boundary.
package compiler

import (
	"fmt"
	"os"

	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/apm"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/bug"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/checker"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/diag"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/intrinsics"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/lexer"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/parser"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/resolver"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/source"
)

// BugError is the Go error a compiler bug surfaces as once recovered at
// the Compile boundary: an invariant violation in the compiler itself,
// never a user diagnostic. It is a thin alias over the lower-level
// internal/bug package so apm and checker, which Compile depends on,
// can raise one without importing this package back.
type BugError = bug.Error

// Bug panics with a BugError, for call sites inside this package that
// need to raise one directly rather than through apm/checker.
func Bug(format string, args ...any) {
	bug.Raise(format, args...)
}

// Compile reads path, runs it through lexing, parsing, resolution and
// checking, and returns the resulting program and the diagnostics every
// stage reported into a shared sink. A non-nil error is returned only when
// path cannot be read or for a compiler bug; user mistakes are reported
// through sink, never error.
// A nil error with a non-empty sink is the ordinary "your program has
// mistakes" outcome.
func Compile(path string) (program *apm.Program, sink *diag.Sink, err error) {
	bytes, readErr := os.ReadFile(path)
	if readErr != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, readErr)
	}

	return CompileSource(source.New(path, bytes))
}

// CompileSource is Compile minus the file read, for callers that already
// have source text in memory (e.g. tests).
func CompileSource(src *source.Source) (program *apm.Program, sink *diag.Sink, err error) {
	defer func() {
		if r := recover(); r != nil {
			if be, ok := r.(bug.Error); ok {
				err = fmt.Errorf("internal compiler error: %w", be)
				return
			}

			panic(r)
		}
	}()

	sink = diag.NewSink()

	program = apm.NewProgram()
	intrinsics.Seed(program)

	tokens := lexer.Tokenize(src, sink)
	program = parser.NewWithProgram(tokens, sink, program).Parse()

	resolver.Resolve(program, sink)
	checker.Check(program, sink)

	return program, sink, nil
}
