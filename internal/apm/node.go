// Package apm implements the Abstract Program Model: the in-memory
// program representation produced by the parser, mutated only by the
// resolver, and read only by the checker.
//
// Each tagged-variant family (Pattern, Expr, Statement, LookupValue) is
// modelled as a Go interface with one concrete type per variant. Go does
// not check type switches for exhaustiveness, so a switch that must cover
// every variant raises a compiler bug from its default case.
package apm

import "github.com/TheIttyBittyGalaxy/gambit-sub000/internal/source"

// Node is satisfied by every APM value that may be named in a diagnostic.
// Dispatch is just an interface method call, since every concrete variant
// implements Span itself; there is no separate "span of any node" switch
// to maintain.
type Node interface {
	Span() source.Span
}
