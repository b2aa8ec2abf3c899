package diag

import (
	"fmt"
	"io"

	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/source"
)

// Sink collects diagnostics over the course of a single compilation. It is
// append-only: nothing removes a diagnostic once reported, and every
// pipeline stage (lexer, parser, resolver, checker) shares the same sink
// so later stages still run when earlier ones reported errors.
type Sink struct {
	bySource map[*source.Source][]Diagnostic
	order    []*source.Source
}

// NewSink constructs an empty diagnostic sink.
func NewSink() *Sink {
	return &Sink{bySource: make(map[*source.Source][]Diagnostic)}
}

// Report appends a diagnostic to the sink, grouped by the source of its
// primary span.
func (s *Sink) Report(d Diagnostic) {
	src := d.Primary.Source()
	if _, ok := s.bySource[src]; !ok {
		s.order = append(s.order, src)
	}

	s.bySource[src] = append(s.bySource[src], d)
}

// Reportf is a convenience wrapper that formats a message and reports it.
func (s *Sink) Reportf(primary source.Span, format string, args ...any) {
	s.Report(New(primary, fmt.Sprintf(format, args...)))
}

// Empty returns true if no diagnostics have been reported.
func (s *Sink) Empty() bool {
	return len(s.order) == 0
}

// Count returns the total number of diagnostics reported across all
// sources.
func (s *Sink) Count() int {
	n := 0
	for _, ds := range s.bySource {
		n += len(ds)
	}

	return n
}

// All returns every diagnostic reported, grouped by source in the order
// sources were first seen, and in report order within each source.
func (s *Sink) All() []Diagnostic {
	var out []Diagnostic
	for _, src := range s.order {
		out = append(out, s.bySource[src]...)
	}

	return out
}

// Format writes every diagnostic in this sink to w, separated by blank
// lines.
func (s *Sink) Format(w io.Writer) {
	for i, d := range s.All() {
		if i > 0 {
			fmt.Fprint(w, "\n\n")
		}

		fmt.Fprint(w, d.Format())
	}
}
