// Package parser builds the Abstract Program Model from a token stream:
// recursive-descent over top-level definitions and statements, with a
// Pratt-style precedence ladder for expressions, over a
// significant-newline token stream.
package parser

import (
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/apm"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/diag"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/lexer"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/scope"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/source"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/token"
)

// precedence is the Pratt ladder, lowest to highest.
type precedence int

const (
	precNone precedence = iota
	precLogicalOr
	precLogicalAnd
	precTerm
	precFactor
	precUnary
	precIndex
	precMatch
)

// Parser consumes a finite token stream and builds an *apm.Program.
type Parser struct {
	tokens []token.Token
	pos    int
	sink   *diag.Sink

	program *apm.Program

	panicMode bool
}

// New constructs a Parser over an already-tokenised source, with a fresh,
// empty global scope.
func New(tokens []token.Token, sink *diag.Sink) *Parser {
	return NewWithProgram(tokens, sink, apm.NewProgram())
}

// NewWithProgram is like New, but parses top-level definitions into an
// already-constructed Program — used by internal/compiler so intrinsics
// can be seeded (into the scope enclosing program.Global) before any
// source-level declaration is parsed.
func NewWithProgram(tokens []token.Token, sink *diag.Sink, program *apm.Program) *Parser {
	return &Parser{
		tokens:  tokens,
		sink:    sink,
		program: program,
	}
}

// Parse tokenises src and parses it into a fresh Program.
func Parse(src *source.Source, sink *diag.Sink) *apm.Program {
	tokens := lexer.Tokenize(src, sink)
	return New(tokens, sink).Parse()
}

// Parse runs this parser to completion, returning the resulting Program.
// The caller may seed intrinsics into the scope enclosing the global scope
// before Parse is invoked, so top-level declarations can shadow them, and
// scope.FetchAllOverloads finds intrinsic overloads alongside the ones
// declared here.
func (p *Parser) Parse() *apm.Program {
	for !p.check(token.EndOfFile) {
		p.skipBlankLines()

		if p.check(token.EndOfFile) {
			break
		}

		p.parseTopLevelDefinition(p.program.Global)
	}

	return p.program
}

// ============================================================================
// Token stream primitives
// ============================================================================

// current returns the token at the cursor without skipping Line tokens.
func (p *Parser) current() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EndOfFile}
	}

	return p.tokens[p.pos]
}

// advance consumes and returns the current token.
func (p *Parser) advance() token.Token {
	t := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}

	return t
}

// skipBlankLines consumes any run of Line tokens (blank statements between
// definitions, or blank lines at the top of the file).
func (p *Parser) skipBlankLines() {
	for p.current().Kind == token.Line {
		p.advance()
	}
}

// peek reports whether the next significant token is k. For any kind
// other than Line or EndOfFile, intervening Line tokens are skipped
// through first.
func (p *Parser) peek(k token.Kind) bool {
	if k == token.Line || k == token.EndOfFile {
		return p.current().Kind == k
	}

	save := p.pos
	p.skipBlankLines()
	found := p.current().Kind == k
	p.pos = save

	return found
}

// check is like peek but never skips Line tokens, used where the
// presence of Line itself is significant (e.g. end-of-statement).
func (p *Parser) check(k token.Kind) bool {
	return p.current().Kind == k
}

// match consumes and returns (token, true) if the next significant token
// is k, skipping intervening Line tokens first; otherwise it leaves the
// cursor untouched and returns (_, false).
func (p *Parser) match(k token.Kind) (token.Token, bool) {
	if !p.peek(k) {
		return token.Token{}, false
	}

	if k != token.Line && k != token.EndOfFile {
		p.skipBlankLines()
	}

	return p.advance(), true
}

// eat consumes the next significant token, requiring it to be k; on
// mismatch it reports a diagnostic (subject to panic mode) and returns
// the unexpected token without advancing.
func (p *Parser) eat(k token.Kind) token.Token {
	if t, ok := p.match(k); ok {
		return t
	}

	got := p.current()
	p.report(got.Span, "Expected "+k.String()+", found "+got.Kind.String()+".")

	return got
}

// report logs msg at span unless the parser is already in panic mode for
// the current statement/definition.
func (p *Parser) report(span source.Span, msg string) {
	if p.panicMode {
		return
	}

	p.panicMode = true
	p.sink.Reportf(span, msg)
}

// recover skips tokens until the next Line at the current block depth (or
// EndOfFile), then clears panic mode. Curly nesting is tracked as it
// skips, so recovery never escapes past the end of the current block: an
// unmatched closing brace stops recovery without being consumed, leaving
// it for the enclosing block parse.
func (p *Parser) recover() {
	depth := 0

	for {
		switch p.current().Kind {
		case token.EndOfFile:
			p.panicMode = false
			return
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth == 0 {
				p.panicMode = false
				return
			}

			depth--
		case token.Line:
			if depth == 0 {
				p.advance()
				p.panicMode = false
				return
			}
		}

		p.advance()
	}
}

// ============================================================================
// Top-level definitions
// ============================================================================

func (p *Parser) parseTopLevelDefinition(sc *apm.Scope) {
	switch {
	case p.peek(token.KwEnum):
		p.parseEnumDefinition(sc)
	case p.peek(token.KwEntity):
		p.parseEntityDefinition(sc)
	case p.peek(token.KwState):
		p.parsePropertyDefinition(sc, false)
	case p.peek(token.KwFn):
		p.parsePropertyDefinition(sc, true)
	case p.peek(token.KwProcedure):
		p.parseProcedureDefinition(sc)
	default:
		got := p.current()
		p.report(got.Span, "Expected a top-level definition, found "+got.Kind.String()+".")
		p.recover()
	}
}

// parseEnumDefinition parses `enum Id { v1, v2, … }`.
func (p *Parser) parseEnumDefinition(sc *apm.Scope) {
	kw := p.eat(token.KwEnum)
	name := p.eat(token.Identifier)

	enum := &apm.EnumType{Name_: name.Text, Span_: source.Merge(kw.Span, name.Span)}

	p.eat(token.LBrace)

	for !p.peek(token.RBrace) && !p.peek(token.EndOfFile) {
		valueTok := p.eat(token.Identifier)
		enum.Values = append(enum.Values, &apm.EnumValue{Of: enum, Name_: valueTok.Text, Span_: valueTok.Span})

		if _, ok := p.match(token.Comma); !ok {
			break
		}
	}

	closeBrace := p.eat(token.RBrace)
	enum.Span_ = source.Merge(enum.Span_, closeBrace.Span)

	if !scope.Declare(sc, enum) {
		p.report(enum.Span_, "'"+enum.Name_+"' already exists in this scope.")
	}

	for _, ev := range enum.Values {
		if !scope.Declare(sc, ev) {
			p.report(ev.Span_, "'"+ev.Name_+"' already exists in this scope.")
		}
	}

	p.endDefinition()
}

// parseEntityDefinition parses `entity Id`.
func (p *Parser) parseEntityDefinition(sc *apm.Scope) {
	kw := p.eat(token.KwEntity)
	name := p.eat(token.Identifier)

	entity := &apm.Entity{Name_: name.Text, Span_: source.Merge(kw.Span, name.Span)}

	if !scope.Declare(sc, entity) {
		p.report(entity.Span_, "'"+entity.Name_+"' already exists in this scope.")
	}

	p.endDefinition()
}

// parsePropertyDefinition parses `state P(p1, …).id[: expr]` or
// `fn P(p1, …).id[ { body } | : stmt ]`.
func (p *Parser) parsePropertyDefinition(sc *apm.Scope, isFunction bool) {
	kw := p.advance() // KwState or KwFn

	pattern := p.parsePattern(sc)

	own := apm.NewScope(sc)

	p.eat(token.LParen)

	var params []*apm.Variable

	for !p.peek(token.RParen) && !p.peek(token.EndOfFile) {
		param := p.parseParameter(own)
		params = append(params, param)

		if _, ok := p.match(token.Comma); !ok {
			break
		}
	}

	p.eat(token.RParen)
	p.eat(token.Dot)

	identity := p.eat(token.Identifier)

	if isFunction {
		fn := &apm.FunctionProperty{
			Name_:  identity.Text,
			Result: pattern,
			Own:    own,
			Params: params,
			Span_:  source.Merge(kw.Span, identity.Span),
		}

		singleton := false

		if p.peek(token.LBrace) {
			fn.Body = p.parseCodeBlock(own)
			fn.Span_ = source.Merge(fn.Span_, fn.Body.Span())
		} else if _, ok := p.match(token.Colon); ok {
			fn.Body = p.parseSingletonCodeBlock(own)
			fn.Span_ = source.Merge(fn.Span_, fn.Body.Span())
			singleton = true
		}

		if !scope.Declare(sc, fn) {
			p.report(fn.Span_, "'"+fn.Name_+"' cannot be declared: an incompatible binding already exists.")
		}

		// A singleton body's statement consumed the terminating Line
		// itself; eating another here would swallow the next definition's
		// opening token.
		if singleton {
			if p.panicMode {
				p.recover()
			}

			return
		}
	} else {
		st := &apm.StateProperty{
			Name_:  identity.Text,
			Result: pattern,
			Own:    own,
			Params: params,
			Span_:  source.Merge(kw.Span, identity.Span),
		}

		if _, ok := p.match(token.Colon); ok {
			st.Initial = p.parseExpression(precNone)
			st.Span_ = source.Merge(st.Span_, st.Initial.Span())
		}

		if !scope.Declare(sc, st) {
			p.report(st.Span_, "'"+st.Name_+"' cannot be declared: an incompatible binding already exists.")
		}
	}

	p.endDefinition()
}

// parseProcedureDefinition parses `procedure Id(p1, …) { body }`.
func (p *Parser) parseProcedureDefinition(sc *apm.Scope) {
	kw := p.eat(token.KwProcedure)
	name := p.eat(token.Identifier)

	own := apm.NewScope(sc)

	p.eat(token.LParen)

	var params []*apm.Variable

	for !p.peek(token.RParen) && !p.peek(token.EndOfFile) {
		param := p.parseParameter(own)
		params = append(params, param)

		if _, ok := p.match(token.Comma); !ok {
			break
		}
	}

	p.eat(token.RParen)

	proc := &apm.Procedure{
		Name_:  name.Text,
		Own:    own,
		Params: params,
		Span_:  source.Merge(kw.Span, name.Span),
	}

	proc.Body = p.parseCodeBlock(own)
	proc.Span_ = source.Merge(proc.Span_, proc.Body.Span())

	if !scope.Declare(sc, proc) {
		p.report(proc.Span_, "'"+proc.Name_+"' already exists in this scope.")
	}

	p.endDefinition()
}

// parseParameter parses one `Pattern identity` property parameter,
// declaring it directly into own.
func (p *Parser) parseParameter(own *apm.Scope) *apm.Variable {
	pattern := p.parsePattern(own)
	name := p.eat(token.Identifier)

	v := &apm.Variable{Name_: name.Text, Pattern: pattern, Span_: source.Merge(pattern.Span(), name.Span)}

	if !scope.Declare(own, v) {
		p.report(v.Span_, "'"+v.Name_+"' already exists in this scope.")
	}

	return v
}

// endDefinition terminates a top-level definition on Line or EndOfFile,
// matching parseStatement's own terminator handling but without entering
// recovery on a merely missing terminator (the definition itself already
// parsed).
func (p *Parser) endDefinition() {
	if p.panicMode {
		p.recover()
		return
	}

	if !p.check(token.EndOfFile) {
		p.eat(token.Line)
	}
}

// ============================================================================
// Patterns
// ============================================================================

// parsePattern parses an unresolved identity optionally followed by `?`.
// Declaration side effects never occur here; the resolver is what turns
// the identity into a concrete Pattern.
func (p *Parser) parsePattern(sc *apm.Scope) apm.Pattern {
	if !p.peek(token.Identifier) {
		got := p.current()
		p.report(got.Span, "Expected a pattern, found "+got.Kind.String()+".")

		return &apm.InvalidPattern{Span_: got.Span}
	}

	name := p.eat(token.Identifier)

	var pat apm.Pattern = &apm.UnresolvedIdentity{Name: name.Text, Span_: name.Span}

	if q, ok := p.match(token.Question); ok {
		pat = &apm.OptionalPattern{Inner: pat, Span_: source.Merge(pat.Span(), q.Span)}
	}

	return pat
}

// ============================================================================
// Code blocks & statements
// ============================================================================

// parseCodeBlock parses `{ statements }`.
func (p *Parser) parseCodeBlock(parent *apm.Scope) *apm.CodeBlock {
	open := p.eat(token.LBrace)

	own := apm.NewScope(parent)
	block := &apm.CodeBlock{Own: own, Span_: open.Span}

	p.skipBlankLines()

	for !p.peek(token.RBrace) && !p.peek(token.EndOfFile) {
		block.Statements = append(block.Statements, p.parseStatement(own))
		p.skipBlankLines()
	}

	close := p.eat(token.RBrace)
	block.Span_ = source.Merge(block.Span_, close.Span)

	return block
}

// parseSingletonCodeBlock parses `: single_statement`. The statement
// inside may not itself be a code block (`: { … }` is invalid) — this is
// diagnosed here rather than left to parseStatement, since parseStatement
// itself accepts `{` as a nested code block.
func (p *Parser) parseSingletonCodeBlock(parent *apm.Scope) *apm.CodeBlock {
	own := apm.NewScope(parent)

	if p.peek(token.LBrace) {
		got := p.current()
		p.report(got.Span, "A singleton block (`: stmt`) may not itself be a code block.")
		p.recover()

		return &apm.CodeBlock{Own: own, Singleton: true, Span_: got.Span}
	}

	stmt := p.parseStatement(own)

	return &apm.CodeBlock{Own: own, Statements: []apm.Statement{stmt}, Singleton: true, Span_: stmt.Span()}
}

// parseStatement parses a single statement: a code block, an if/for
// statement, a let/var declaration, an assignment, or a bare expression,
// terminated by end-of-line or end-of-file.
func (p *Parser) parseStatement(sc *apm.Scope) apm.Statement {
	var stmt apm.Statement

	switch {
	case p.peek(token.LBrace):
		stmt = p.parseCodeBlock(sc)
	case p.peek(token.KwIf):
		stmt = p.parseIfStatement(sc)
	case p.peek(token.KwFor):
		stmt = p.parseForStatement(sc)
	case p.peek(token.KwLet), p.peek(token.KwVar):
		stmt = p.parseVariableDeclaration(sc)
	case isExpressionStart(p.current().Kind):
		expr := p.parseExpression(precNone)

		if _, ok := p.match(token.Equal); ok {
			value := p.parseExpression(precNone)
			stmt = &apm.AssignmentStatement{Subject: expr, Value: value, Span_: source.Merge(expr.Span(), value.Span())}
		} else {
			stmt = &apm.ExpressionStatement{Expr: expr, Span_: expr.Span()}
		}
	default:
		got := p.current()
		p.report(got.Span, "Expected statement, found "+got.Kind.String()+".")

		stmt = &apm.InvalidStatement{Span_: got.Span}
	}

	if p.panicMode {
		p.recover()
		return stmt
	}

	// A closing brace also terminates the statement, left unconsumed for
	// the enclosing block parse; `{ match c { ... } }` is valid on one
	// line.
	if !p.check(token.EndOfFile) && !p.check(token.RBrace) {
		p.eat(token.Line)
	}

	return stmt
}

// parseIfStatement parses `if cond { } else if cond { } … [else { }]`.
func (p *Parser) parseIfStatement(sc *apm.Scope) *apm.IfStatement {
	stmt := &apm.IfStatement{}

	kw := p.eat(token.KwIf)
	stmt.Span_ = kw.Span

	for {
		cond := p.parseExpression(precNone)
		body := p.parseCodeBlock(sc)

		stmt.Rules = append(stmt.Rules, apm.IfStatementRule{
			Condition: cond,
			Body:      body,
			Span_:     source.Merge(cond.Span(), body.Span()),
		})
		stmt.Span_ = source.Merge(stmt.Span_, body.Span())

		if _, ok := p.match(token.KwElse); !ok {
			break
		}

		if _, ok := p.match(token.KwIf); ok {
			continue
		}

		stmt.Else = p.parseCodeBlock(sc)
		stmt.Span_ = source.Merge(stmt.Span_, stmt.Else.Span())

		break
	}

	return stmt
}

// parseForStatement parses `for Pattern identity in range { body }`.
func (p *Parser) parseForStatement(sc *apm.Scope) *apm.ForStatement {
	kw := p.eat(token.KwFor)

	own := apm.NewScope(sc)

	rangePattern := p.parsePattern(own)
	name := p.eat(token.Identifier)

	v := &apm.Variable{Name_: name.Text, Pattern: rangePattern, Span_: source.Merge(rangePattern.Span(), name.Span)}
	scope.Declare(own, v)

	p.eat(token.KwIn)

	rangeOf := p.parsePattern(own)

	body := p.parseCodeBlock(own)

	return &apm.ForStatement{
		Variable: v,
		Range:    rangeOf,
		Own:      own,
		Body:     body,
		Span_:    source.Merge(kw.Span, body.Span()),
	}
}

// parseVariableDeclaration parses `let Pattern? identity [= expr]` /
// `var Pattern? identity [= expr]`; `var` declares a mutable Variable,
// `let` an immutable one.
func (p *Parser) parseVariableDeclaration(sc *apm.Scope) *apm.VariableDeclaration {
	kw := p.advance() // KwLet or KwVar
	mutable := kw.Kind == token.KwVar

	var pattern apm.Pattern = &apm.UninferredPattern{Span_: kw.Span}

	save := p.pos
	if p.peek(token.Identifier) {
		candidate := p.parsePattern(sc)

		if p.peek(token.Identifier) {
			pattern = candidate
		} else {
			p.pos = save
		}
	}

	name := p.eat(token.Identifier)

	v := &apm.Variable{Name_: name.Text, Pattern: pattern, Mutable: mutable, Span_: source.Merge(kw.Span, name.Span)}

	decl := &apm.VariableDeclaration{Variable: v, Span_: v.Span_}

	if _, ok := p.match(token.Equal); ok {
		decl.Value = p.parseExpression(precNone)
		decl.Span_ = source.Merge(decl.Span_, decl.Value.Span())
	}

	if !scope.Declare(sc, v) {
		p.report(v.Span_, "'"+v.Name_+"' already exists in this scope.")
	}

	return decl
}
