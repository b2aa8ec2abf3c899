package parser

import (
	"strings"

	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/apm"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/scope"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/source"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/token"
)

// isExpressionStart reports whether k can begin a nud production, used by
// parseStatement to decide between an expression-statement and a parse
// error without committing to a full parse.
func isExpressionStart(k token.Kind) bool {
	switch k {
	case token.Identifier, token.Number, token.String, token.Boolean,
		token.LParen, token.LBracket, token.KwMatch,
		token.Plus, token.Minus, token.KwNot:
		return true
	default:
		return false
	}
}

// unaryOps maps a unary operator token to its literal operator text.
var unaryOps = map[token.Kind]string{
	token.Plus:  "+",
	token.Minus: "-",
	token.KwNot: "not",
}

// factorOps / termOps map the Factor/Term precedence-level binary
// operators to their literal text.
var factorOps = map[token.Kind]string{token.Star: "*", token.Slash: "/"}
var termOps = map[token.Kind]string{token.Plus: "+", token.Minus: "-"}

// parseExpression is the Pratt entry point: parse a nud, then greedily
// fold in led productions whose precedence binds against callerPrec.
func (p *Parser) parseExpression(callerPrec precedence) apm.Expr {
	lhs := p.parseNud(callerPrec)

	for {
		switch {
		case p.peekAny(factorOps) && opShouldBind(precFactor, callerPrec, true):
			lhs = p.parseInfixBinary(lhs, factorOps, precFactor)
		case p.peekAny(termOps) && opShouldBind(precTerm, callerPrec, true):
			lhs = p.parseInfixBinary(lhs, termOps, precTerm)
		case p.peek(token.Dot) && opShouldBind(precIndex, callerPrec, true):
			lhs = p.parsePropertyIndex(lhs)
		case p.peek(token.KwAnd) && opShouldBind(precLogicalAnd, callerPrec, true):
			lhs = p.parseInfixKeyword(lhs, token.KwAnd, "and", precLogicalAnd)
		case p.peek(token.KwOr) && opShouldBind(precLogicalOr, callerPrec, true):
			lhs = p.parseInfixKeyword(lhs, token.KwOr, "or", precLogicalOr)
		case p.peek(token.LParen) && opShouldBind(precIndex, callerPrec, true):
			lhs = p.parseCall(lhs)
		default:
			return lhs
		}
	}
}

// opShouldBind decides whether an infix operator binds: strictly greater
// for left-associative operators, greater-or-equal for right-associative
// ones.
func opShouldBind(opPrec, callerPrec precedence, leftAssoc bool) bool {
	if leftAssoc {
		return opPrec > callerPrec
	}

	return opPrec >= callerPrec
}

func (p *Parser) peekAny(ops map[token.Kind]string) bool {
	for k := range ops {
		if p.peek(k) {
			return true
		}
	}

	return false
}

// parseNud dispatches the prefix/atom productions.
func (p *Parser) parseNud(callerPrec precedence) apm.Expr {
	switch {
	case p.peekAny(unaryOps) && opShouldBind(precUnary, callerPrec, false):
		return p.parseUnary()
	case p.peek(token.KwMatch):
		return p.parseMatch()
	case p.peek(token.Identifier):
		tok := p.eat(token.Identifier)
		return &apm.UnresolvedIdentity{Name: tok.Text, Span_: tok.Span}
	case p.peek(token.LParen):
		return p.parseParenOrInstanceList()
	case p.peek(token.Number), p.peek(token.String), p.peek(token.Boolean):
		return p.parseLiteral()
	case p.peek(token.LBracket):
		return p.parseListValue()
	default:
		got := p.current()
		p.report(got.Span, "Expected expression, found "+got.Kind.String()+".")

		return &apm.InvalidExpression{Span_: got.Span}
	}
}

// parseUnary parses a prefix `+`, `-`, or `not` expression. Unary is
// right-associative, so `not not x` nests as not(not(x)).
func (p *Parser) parseUnary() apm.Expr {
	opTok := p.advance()
	op := unaryOps[opTok.Kind]

	value := p.parseExpression(precUnary)

	return &apm.Unary{Op: op, Value: value, Span_: source.Merge(opTok.Span, value.Span())}
}

// parseInfixBinary parses a left-associative binary operator at the
// given precedence level.
func (p *Parser) parseInfixBinary(lhs apm.Expr, ops map[token.Kind]string, prec precedence) apm.Expr {
	opTok := p.advance()
	op := ops[opTok.Kind]

	rhs := p.parseExpression(prec)

	return &apm.Binary{Op: op, LHS: lhs, RHS: rhs, Span_: source.Merge(lhs.Span(), rhs.Span())}
}

// parseInfixKeyword parses a keyword-spelled binary operator (`and`,
// `or`).
func (p *Parser) parseInfixKeyword(lhs apm.Expr, k token.Kind, op string, prec precedence) apm.Expr {
	p.eat(k)

	rhs := p.parseExpression(prec)

	return &apm.Binary{Op: op, LHS: lhs, RHS: rhs, Span_: source.Merge(lhs.Span(), rhs.Span())}
}

// parsePropertyIndex parses `. Identity`, auto-wrapping lhs into a
// singleton InstanceList if it isn't already one.
func (p *Parser) parsePropertyIndex(lhs apm.Expr) apm.Expr {
	p.eat(token.Dot)

	name := p.eat(token.Identifier)

	subject := lhs
	if _, ok := lhs.(*apm.InstanceList); !ok {
		subject = &apm.InstanceList{Values: []apm.Expr{lhs}, Span_: lhs.Span()}
	}

	return &apm.PropertyIndex{
		Expr:     subject,
		Property: name.Text,
		Span_:    source.Merge(subject.Span(), name.Span),
	}
}

// parseCall parses `(args)` after any callee expression, a property
// lookup included: `p.score(1)` becomes a Call whose Callee is the
// PropertyIndex.
func (p *Parser) parseCall(callee apm.Expr) apm.Expr {
	p.eat(token.LParen)

	var args []apm.CallArgument

	for !p.peek(token.RParen) && !p.peek(token.EndOfFile) {
		args = append(args, p.parseCallArgument())

		if _, ok := p.match(token.Comma); !ok {
			break
		}
	}

	close := p.eat(token.RParen)

	return &apm.Call{Callee: callee, Arguments: args, Span_: source.Merge(callee.Span(), close.Span)}
}

func (p *Parser) parseCallArgument() apm.CallArgument {
	if p.peek(token.Identifier) {
		save := p.pos
		name := p.advance()

		if _, ok := p.match(token.Colon); ok {
			value := p.parseExpression(precNone)
			return apm.CallArgument{
				Named: true,
				Name:  name.Text,
				Value: value,
				Span_: source.Merge(name.Span, value.Span()),
			}
		}

		p.pos = save
	}

	value := p.parseExpression(precNone)

	return apm.CallArgument{Value: value, Span_: value.Span()}
}

// parseParenOrInstanceList parses `( e )` (a parenthesised expression) or,
// if commas follow, an InstanceList, which is then greedily
// followed by an infix property index by the enclosing parseExpression
// loop.
func (p *Parser) parseParenOrInstanceList() apm.Expr {
	open := p.eat(token.LParen)

	first := p.parseExpression(precNone)

	if !p.peek(token.Comma) {
		p.eat(token.RParen)

		return first
	}

	values := []apm.Expr{first}

	for {
		if _, ok := p.match(token.Comma); !ok {
			break
		}

		values = append(values, p.parseExpression(precNone))
	}

	close := p.eat(token.RParen)

	return &apm.InstanceList{Values: values, Span_: source.Merge(open.Span, close.Span)}
}

// parseLiteral parses a Number, String, or Boolean token into its
// intrinsic-value expression: a Number containing `.` is `num`,
// otherwise `amt`; String is `str`; Boolean is `bool`.
func (p *Parser) parseLiteral() apm.Expr {
	tok := p.advance()

	switch tok.Kind {
	case token.Number:
		name := "amt"
		if strings.Contains(tok.Text, ".") {
			name = "num"
		}

		return &apm.IntrinsicValue{Name_: tok.Text, Span_: tok.Span, Of: p.intrinsicType(name)}
	case token.String:
		return &apm.IntrinsicValue{Name_: tok.Text, Span_: tok.Span, Of: p.intrinsicType("str")}
	case token.Boolean:
		return &apm.IntrinsicValue{Name_: tok.Text, Span_: tok.Span, Of: p.intrinsicType("bool")}
	default:
		return &apm.InvalidExpression{Span_: tok.Span}
	}
}

// intrinsicType looks up a seeded intrinsic type by name from the global
// scope (the intrinsics live in its enclosing scope), used to tag literal
// expressions at parse time. Literals are always well-typed by
// construction, so this never fails once the intrinsics table has been
// seeded.
func (p *Parser) intrinsicType(name string) *apm.IntrinsicType {
	if v := scope.Fetch(p.program.Global, name); v != nil {
		if t, ok := v.(*apm.IntrinsicType); ok {
			return t
		}
	}

	return &apm.IntrinsicType{Name_: name}
}

// parseListValue parses `[ e, … ]`.
func (p *Parser) parseListValue() apm.Expr {
	open := p.eat(token.LBracket)

	var values []apm.Expr

	for !p.peek(token.RBracket) && !p.peek(token.EndOfFile) {
		values = append(values, p.parseExpression(precNone))

		if _, ok := p.match(token.Comma); !ok {
			break
		}
	}

	close := p.eat(token.RBracket)

	return &apm.ListValue{Values: values, Span_: source.Merge(open.Span, close.Span)}
}

// parseMatch parses `match subj { pattern : result … }`. A bare
// `else` in place of a pattern marks the catch-all rule.
func (p *Parser) parseMatch() apm.Expr {
	kw := p.eat(token.KwMatch)

	subject := p.parseExpression(precNone)

	p.eat(token.LBrace)
	p.skipBlankLines()

	m := &apm.Match{Subject: subject, Span_: kw.Span}

	for !p.peek(token.RBrace) && !p.peek(token.EndOfFile) {
		ruleStart := p.current()

		if _, ok := p.match(token.KwElse); ok {
			p.eat(token.Colon)
			result := p.parseExpression(precNone)
			m.HasElse = true
			m.Rules = append(m.Rules, apm.MatchRule{
				Result: result,
				Span_:  source.Merge(ruleStart.Span, result.Span()),
			})
		} else {
			pattern := p.parsePattern(nil)
			p.eat(token.Colon)
			result := p.parseExpression(precNone)
			m.Rules = append(m.Rules, apm.MatchRule{
				Pattern: pattern,
				Result:  result,
				Span_:   source.Merge(pattern.Span(), result.Span()),
			})
		}

		p.skipBlankLines()
	}

	close := p.eat(token.RBrace)
	m.Span_ = source.Merge(m.Span_, close.Span)

	return m
}
