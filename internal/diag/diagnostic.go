// Package diag implements the compiler's user-diagnostic machinery: the
// Diagnostic type and the append-only Sink every stage reports into.
package diag

import (
	"fmt"
	"strings"

	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/source"
)

// Diagnostic is a single user-visible compile error: a message, a primary
// position and zero or more additional spans to display as context.
type Diagnostic struct {
	Message string
	Primary source.Span
	Extra   []source.Span
}

// New constructs a diagnostic whose primary span is also its only
// displayed span.
func New(primary source.Span, message string) Diagnostic {
	return Diagnostic{message, primary, nil}
}

// WithSpan returns a copy of this diagnostic with an additional span
// attached for display.
func (d Diagnostic) WithSpan(span source.Span) Diagnostic {
	d.Extra = append(append([]source.Span{}, d.Extra...), span)
	return d
}

// Spans returns every span attached to this diagnostic, primary first.
func (d Diagnostic) Spans() []source.Span {
	return append([]source.Span{d.Primary}, d.Extra...)
}

// Format renders this diagnostic as "[L:C] msg" followed by one blank
// line per attached span, each rendered as the span's source substring.
// When the attached spans cross more than one source file, each span is
// prefixed with "path  L:C\n".
func (d Diagnostic) Format() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%d:%d] %s", d.Primary.Line(), d.Primary.Column(), d.Message)

	spans := d.Spans()
	multiSource := false

	for _, s := range spans[1:] {
		if s.Source() != spans[0].Source() {
			multiSource = true
			break
		}
	}

	for _, s := range spans {
		b.WriteString("\n\n")

		if multiSource {
			fmt.Fprintf(&b, "%s\n", s.String())
		}

		b.WriteString(s.Text())
	}

	return b.String()
}
