// Package source owns source text and the positional information
// (spans) that diagnostics and the APM attach to it.
package source

import "fmt"

// Source owns the path and content of a single compilation unit. Gambit
// compiles one source text at a time (see Non-goals: no multi-file
// compilation units), so there is exactly one Source per compilation.
type Source struct {
	path    string
	content []rune
}

// New constructs a Source from a file path and its raw bytes. Bytes are
// decoded as UTF-8 text, per the source-file syntax contract.
func New(path string, bytes []byte) *Source {
	return &Source{path, []rune(string(bytes))}
}

// Path returns the file path this source was loaded from.
func (s *Source) Path() string {
	return s.path
}

// Content returns the full decoded source text.
func (s *Source) Content() []rune {
	return s.content
}

// Len returns the number of runes in this source.
func (s *Source) Len() int {
	return len(s.content)
}

// Substr returns the verbatim text covered by a span of this source. It
// panics if the span belongs to a different Source, since merging or
// substringing across sources is a compiler bug.
func (s *Source) Substr(span Span) string {
	if span.source != s {
		panic("span does not belong to this source")
	}
	return string(s.content[span.position : span.position+span.length])
}

// Span identifies a contiguous, possibly multi-line, slice of a Source.
// Line and Column are 1-based; Position is the 0-based byte (rune) offset
// from the start of the source.
type Span struct {
	source    *Source
	line      int
	column    int
	position  int
	length    int
	multiline bool
}

// NewSpan constructs a span at the given line/column/byte-position,
// covering `length` runes of `src`.
func NewSpan(src *Source, line, column, position, length int) Span {
	return Span{src, line, column, position, length, false}
}

// Source returns the Source this span belongs to.
func (s Span) Source() *Source {
	return s.source
}

// Line returns the 1-based line on which this span starts.
func (s Span) Line() int {
	return s.line
}

// Column returns the 1-based column at which this span starts.
func (s Span) Column() int {
	return s.column
}

// Position returns the 0-based byte/rune offset at which this span starts.
func (s Span) Position() int {
	return s.position
}

// Length returns the number of runes covered by this span.
func (s Span) Length() int {
	return s.length
}

// Multiline indicates whether this span's text contains a newline.
func (s Span) Multiline() bool {
	return s.multiline
}

// End returns one past the last rune offset covered by this span.
func (s Span) End() int {
	return s.position + s.length
}

// WithMultiline returns a copy of this span with the multiline flag set.
// Used by the lexer when the scanned text crossed at least one newline.
func (s Span) WithMultiline(multiline bool) Span {
	s.multiline = multiline
	return s
}

// Text returns the verbatim source substring covered by this span.
func (s Span) Text() string {
	return s.source.Substr(s)
}

// Merge computes the union of two spans: from the earlier start to the
// later end. Merging spans from different Sources is a compiler bug, since
// a single diagnostic or AST node can never straddle two compilations.
func Merge(a, b Span) Span {
	if a.source != b.source {
		panic("cannot merge spans from different sources")
	}

	lo, hi := a, b
	if hi.position < lo.position {
		lo, hi = hi, lo
	}

	end := max(a.End(), b.End())
	multiline := a.multiline || b.multiline || lo.line != hi.line

	return Span{lo.source, lo.line, lo.column, lo.position, end - lo.position, multiline}
}

// String renders the span as "path  L:C", the prefix multi-source
// diagnostics display before each span.
func (s Span) String() string {
	return fmt.Sprintf("%s  %d:%d", s.source.Path(), s.line, s.column)
}
