// Package token defines the lexeme kinds produced by the lexer: a Kind
// tag, the literal text, and a span carrying full line/column/offset
// position.
package token

import "github.com/TheIttyBittyGalaxy/gambit-sub000/internal/source"

// Kind tags a Token with its lexical category.
type Kind uint8

// Token kinds. EndOfFile always terminates the stream.
const (
	Invalid Kind = iota
	EndOfFile
	Line

	Identifier
	Number
	String
	Boolean

	// Punctuation & operators, longest-match over the fixed lexeme table.
	Plus
	Minus
	Star
	Slash
	EqualEqual
	NotEqual
	Less
	Greater
	LessEqual
	GreaterEqual
	Equal
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Dot
	Colon
	Question

	// Keywords.
	KwEntity
	KwEnum
	KwFn
	KwState
	KwProcedure
	KwLet
	KwVar
	KwIf
	KwElse
	KwFor
	KwIn
	KwLoop
	KwMatch
	KwBreak
	KwContinue
	KwReturn
	KwUntil
	KwChoose
	KwFilter
	KwInsert
	KwMap
	KwAnd
	KwOr
	KwNot
)

var names = map[Kind]string{
	Invalid:      "invalid",
	EndOfFile:    "end-of-file",
	Line:         "end-of-line",
	Identifier:   "identifier",
	Number:       "number",
	String:       "string",
	Boolean:      "boolean",
	Plus:         "+",
	Minus:        "-",
	Star:         "*",
	Slash:        "/",
	EqualEqual:   "==",
	NotEqual:     "!=",
	Less:         "<",
	Greater:      ">",
	LessEqual:    "<=",
	GreaterEqual: ">=",
	Equal:        "=",
	LParen:       "(",
	RParen:       ")",
	LBrace:       "{",
	RBrace:       "}",
	LBracket:     "[",
	RBracket:     "]",
	Comma:        ",",
	Dot:          ".",
	Colon:        ":",
	Question:     "?",
	KwEntity:     "entity",
	KwEnum:       "enum",
	KwFn:         "fn",
	KwState:      "state",
	KwProcedure:  "procedure",
	KwLet:        "let",
	KwVar:        "var",
	KwIf:         "if",
	KwElse:       "else",
	KwFor:        "for",
	KwIn:         "in",
	KwLoop:       "loop",
	KwMatch:      "match",
	KwBreak:      "break",
	KwContinue:   "continue",
	KwReturn:     "return",
	KwUntil:      "until",
	KwChoose:     "choose",
	KwFilter:     "filter",
	KwInsert:     "insert",
	KwMap:        "map",
	KwAnd:        "and",
	KwOr:         "or",
	KwNot:        "not",
}

// String renders a human-readable name for this kind, used in diagnostics.
func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}

	return "?"
}

// Keywords maps every reserved lexeme to its keyword Kind. Identifiers
// matching one of these are reclassified during lexing.
var Keywords = map[string]Kind{
	"entity":    KwEntity,
	"enum":      KwEnum,
	"fn":        KwFn,
	"state":     KwState,
	"procedure": KwProcedure,
	"let":       KwLet,
	"var":       KwVar,
	"if":        KwIf,
	"else":      KwElse,
	"for":       KwFor,
	"in":        KwIn,
	"loop":      KwLoop,
	"match":     KwMatch,
	"break":     KwBreak,
	"continue":  KwContinue,
	"return":    KwReturn,
	"until":     KwUntil,
	"choose":    KwChoose,
	"filter":    KwFilter,
	"insert":    KwInsert,
	"map":       KwMap,
	"and":       KwAnd,
	"or":        KwOr,
	"not":       KwNot,
	"true":      Boolean,
	"false":     Boolean,
}

// Token is a single lexeme: its kind, the literal text it covers, and the
// span locating it in the source.
type Token struct {
	Kind Kind
	Text string
	Span source.Span
}
