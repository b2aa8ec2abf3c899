// Package lexer tokenises Gambit source text, producing the ordered,
// non-restartable token stream the parser consumes: significant Line
// tokens, nested block comments, keyword reclassification and
// single-character panic-mode recovery.
package lexer

import (
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/diag"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/source"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/token"
)

// Lexer scans a single Source into tokens.
type Lexer struct {
	src   *source.Source
	runes []rune
	sink  *diag.Sink

	pos    int
	line   int
	column int

	panicMode bool
}

// New constructs a Lexer over src, reporting any unrecognised-character
// diagnostics into sink.
func New(src *source.Source, sink *diag.Sink) *Lexer {
	return &Lexer{
		src:    src,
		runes:  src.Content(),
		sink:   sink,
		line:   1,
		column: 1,
	}
}

// Tokenize consumes the source once, left to right, and returns the full
// token stream, always ending in a single EndOfFile token. Any token
// emitted resets panic mode.
func Tokenize(src *source.Source, sink *diag.Sink) []token.Token {
	return New(src, sink).Tokenize()
}

// Tokenize runs this lexer to completion.
func (l *Lexer) Tokenize() []token.Token {
	var out []token.Token

	for {
		tok, emit := l.scanOne()
		if emit {
			out = append(out, tok)
			l.panicMode = false
		}

		if tok.Kind == token.EndOfFile {
			return out
		}
	}
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.runes)
}

func (l *Lexer) peek(offset int) rune {
	i := l.pos + offset
	if i < 0 || i >= len(l.runes) {
		return 0
	}

	return l.runes[i]
}

// advance consumes one rune, tracking line/column as it goes.
func (l *Lexer) advance() rune {
	c := l.runes[l.pos]
	l.pos++

	if c == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}

	return c
}

func (l *Lexer) here() (line, column, pos int) {
	return l.line, l.column, l.pos
}

func (l *Lexer) spanFrom(line, column, pos int) source.Span {
	s := source.NewSpan(l.src, line, column, pos, l.pos-pos)
	if l.line > line {
		s = s.WithMultiline(true)
	}

	return s
}

func (l *Lexer) scanOne() (token.Token, bool) {
	if l.eof() {
		return l.makeEOF(), true
	}

	c := l.peek(0)

	switch {
	case c == ' ' || c == '\t':
		l.advance()
		return token.Token{}, false
	case c == '\n':
		return l.scanNewline()
	case c == '/' && l.peek(1) == '/':
		return l.scanLineComment()
	case c == '/' && l.peek(1) == '*':
		return l.scanBlockComment()
	case isIdentStart(c):
		return l.scanIdentifier(), true
	case isDigit(c):
		return l.scanNumber(), true
	case c == '"':
		return l.scanString()
	}

	if tok, ok := l.scanOperator(); ok {
		return tok, true
	}

	return l.scanInvalid()
}

func (l *Lexer) makeEOF() token.Token {
	line, column, pos := l.here()
	return token.Token{Kind: token.EndOfFile, Span: l.spanFrom(line, column, pos)}
}

// scanNewline emits the Line token that terminates the statement or
// top-level definition on the preceding physical line.
func (l *Lexer) scanNewline() (token.Token, bool) {
	line, column, pos := l.here()
	l.advance()

	return token.Token{Kind: token.Line, Text: "\n", Span: l.spanFrom(line, column, pos)}, true
}

// scanLineComment emits a Line token *before* consuming the comment body,
// so the comment doesn't swallow the statement terminator, then skips to
// (and including) the terminating newline.
func (l *Lexer) scanLineComment() (token.Token, bool) {
	line, column, pos := l.here()
	tok := token.Token{Kind: token.Line, Span: source.NewSpan(l.src, line, column, pos, 0)}

	for !l.eof() && l.peek(0) != '\n' {
		l.advance()
	}

	if !l.eof() {
		l.advance() // consume the terminating newline itself
	}

	return tok, true
}

// scanBlockComment skips a (possibly nested) block comment. If it spans at
// least one newline, a phantom Line token is emitted, timed at the
// position where the block opened; a single-line block comment emits
// nothing.
func (l *Lexer) scanBlockComment() (token.Token, bool) {
	line, column, pos := l.here()
	l.advance() // '/'
	l.advance() // '*'

	depth := 1
	multiline := false

	for depth > 0 && !l.eof() {
		switch {
		case l.peek(0) == '*' && l.peek(1) == '/':
			l.advance()
			l.advance()

			depth--
		case l.peek(0) == '/' && l.peek(1) == '*':
			l.advance()
			l.advance()

			depth++
		case l.peek(0) == '\n':
			multiline = true

			l.advance()
		default:
			l.advance()
		}
	}

	if depth > 0 {
		l.report(source.NewSpan(l.src, line, column, pos, l.pos-pos), "unterminated block comment")
	}

	if multiline {
		return token.Token{Kind: token.Line, Span: source.NewSpan(l.src, line, column, pos, 0)}, true
	}

	return token.Token{}, false
}

func (l *Lexer) scanIdentifier() token.Token {
	line, column, pos := l.here()

	for !l.eof() && isIdentMiddle(l.peek(0)) {
		l.advance()
	}

	span := l.spanFrom(line, column, pos)
	text := span.Text()
	kind := token.Identifier

	if kw, ok := token.Keywords[text]; ok {
		kind = kw
	}

	return token.Token{Kind: kind, Text: text, Span: span}
}

// scanNumber consumes [0-9]+(\.[0-9]+)? — no sign, no exponent. A trailing
// '.' not followed by a digit is left alone (so `.` can still lead into a
// property index, e.g. `5.foo` is two tokens, not a malformed number).
func (l *Lexer) scanNumber() token.Token {
	line, column, pos := l.here()

	for !l.eof() && isDigit(l.peek(0)) {
		l.advance()
	}

	if l.peek(0) == '.' && isDigit(l.peek(1)) {
		l.advance()

		for !l.eof() && isDigit(l.peek(0)) {
			l.advance()
		}
	}

	span := l.spanFrom(line, column, pos)

	return token.Token{Kind: token.Number, Text: span.Text(), Span: span}
}

// scanString consumes a double-quoted literal with `\`-escapes. The raw
// text (quotes and escapes included, undecoded) is kept on the token so
// the lexer never loses the byte-identical source substring invariant;
// the parser is responsible for decoding escapes into a literal value.
func (l *Lexer) scanString() (token.Token, bool) {
	line, column, pos := l.here()
	l.advance() // opening quote

	closed := false

	for !l.eof() {
		c := l.peek(0)

		if c == '"' {
			l.advance()

			closed = true

			break
		}

		if c == '\n' {
			break
		}

		if c == '\\' && !l.eof() {
			l.advance()

			if !l.eof() {
				l.advance()
			}

			continue
		}

		l.advance()
	}

	span := l.spanFrom(line, column, pos)

	if !closed {
		l.report(span, "unterminated string literal")
	}

	return token.Token{Kind: token.String, Text: span.Text(), Span: span}, true
}

// operator lexemes, longest match first within each starting character.
var operators = []struct {
	text string
	kind token.Kind
}{
	{"==", token.EqualEqual},
	{"!=", token.NotEqual},
	{"<=", token.LessEqual},
	{">=", token.GreaterEqual},
	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Star},
	{"/", token.Slash},
	{"<", token.Less},
	{">", token.Greater},
	{"=", token.Equal},
	{"(", token.LParen},
	{")", token.RParen},
	{"{", token.LBrace},
	{"}", token.RBrace},
	{"[", token.LBracket},
	{"]", token.RBracket},
	{",", token.Comma},
	{".", token.Dot},
	{":", token.Colon},
	{"?", token.Question},
}

func (l *Lexer) scanOperator() (token.Token, bool) {
	for _, op := range operators {
		if l.matchesHere(op.text) {
			line, column, pos := l.here()

			for range op.text {
				l.advance()
			}

			span := l.spanFrom(line, column, pos)

			return token.Token{Kind: op.kind, Text: op.text, Span: span}, true
		}
	}

	return token.Token{}, false
}

func (l *Lexer) matchesHere(text string) bool {
	for i, r := range text {
		if l.peek(i) != r {
			return false
		}
	}

	return true
}

// scanInvalid implements panic-mode recovery for an unrecognised
// character: log one diagnostic, skip one character, and suppress further
// diagnostics until a valid token is produced.
func (l *Lexer) scanInvalid() (token.Token, bool) {
	line, column, pos := l.here()
	c := l.advance()

	if !l.panicMode {
		l.panicMode = true

		l.report(l.spanFrom(line, column, pos), "unrecognised character '"+string(c)+"'")
	}

	return token.Token{}, false
}

func (l *Lexer) report(span source.Span, msg string) {
	if l.sink != nil {
		l.sink.Reportf(span, "%s", msg)
	}
}

// isIdentStart matches the identifier grammar's leading character,
// [A-Za-z]: a leading underscore is not an identifier.
func isIdentStart(c rune) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isIdentMiddle(c rune) bool {
	return isIdentStart(c) || c == '_' || isDigit(c)
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}
