// Package apmjson implements the JSON debug dump: for every APM variant,
// a JSON object with a `node` discriminator and one field per semantic
// attribute, indented two spaces per level with arrays and objects
// opening on the same line as their key and closing at a matching
// indent.
package apmjson

import (
	"fmt"
	"io"
	"strings"

	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/apm"
)

// Encode writes program's full JSON debug dump to w.
func Encode(w io.Writer, program *apm.Program) error {
	e := &encoder{}
	e.writeProgram(program)
	e.b.WriteByte('\n')

	_, err := w.Write([]byte(e.b.String()))

	return err
}

type encoder struct {
	b      strings.Builder
	indent int
}

func (e *encoder) nl() {
	e.b.WriteByte('\n')

	for i := 0; i < e.indent; i++ {
		e.b.WriteString("  ")
	}
}

// field is one key/value pair of an object, written lazily so object()
// can place the separating comma and newline uniformly.
type field struct {
	key   string
	write func(*encoder)
}

func strField(key, value string) field {
	return field{key, func(e *encoder) { e.writeString(value) }}
}

func boolField(key string, value bool) field {
	return field{key, func(e *encoder) {
		if value {
			e.b.WriteString("true")
		} else {
			e.b.WriteString("false")
		}
	}}
}

func intField(key string, value int) field {
	return field{key, func(e *encoder) { fmt.Fprintf(&e.b, "%d", value) }}
}

func nodeField(key string, write func(*encoder)) field {
	return field{key, write}
}

// object writes `{ fields... }`, each field on its own line at indent+1,
// closing on a fresh line at the opening indent.
func (e *encoder) object(fields []field) {
	e.b.WriteByte('{')
	e.indent++

	for i, f := range fields {
		if i > 0 {
			e.b.WriteByte(',')
		}

		e.nl()
		e.writeString(f.key)
		e.b.WriteString(": ")
		f.write(e)
	}

	e.indent--
	e.nl()
	e.b.WriteByte('}')
}

// array writes `[ items... ]` via a slice of write callbacks, one per
// item, each on its own line.
func (e *encoder) array(items []func(*encoder)) {
	if len(items) == 0 {
		e.b.WriteString("[]")
		return
	}

	e.b.WriteByte('[')
	e.indent++

	for i, item := range items {
		if i > 0 {
			e.b.WriteByte(',')
		}

		e.nl()
		item(e)
	}

	e.indent--
	e.nl()
	e.b.WriteByte(']')
}

// writeString emits a quoted, escaped JSON string: `" \ \b \f \n \r \t`
// and any codepoint below 0x20 escape; everything else passes through
// verbatim.
func (e *encoder) writeString(s string) {
	e.b.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			e.b.WriteString(`\"`)
		case '\\':
			e.b.WriteString(`\\`)
		case '\b':
			e.b.WriteString(`\b`)
		case '\f':
			e.b.WriteString(`\f`)
		case '\n':
			e.b.WriteString(`\n`)
		case '\r':
			e.b.WriteString(`\r`)
		case '\t':
			e.b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&e.b, `\u%04x`, r)
			} else {
				e.b.WriteRune(r)
			}
		}
	}

	e.b.WriteByte('"')
}

// nodeKind returns the unqualified Go type name of n, used verbatim as
// the `node` discriminator field.
func nodeKind(n any) string {
	t := fmt.Sprintf("%T", n)
	if i := strings.LastIndex(t, "."); i >= 0 {
		t = t[i+1:]
	}

	return strings.TrimPrefix(t, "*")
}

func (e *encoder) writeProgram(program *apm.Program) {
	entries := program.Global.Entries()

	declarations := make([]func(*encoder), len(entries))
	for i, entry := range entries {
		v := entry

		declarations[i] = func(e *encoder) { e.writeLookupValueFull(v) }
	}

	e.object([]field{
		{"node", func(e *encoder) { e.writeString("Program") }},
		{"declarations", func(e *encoder) { e.array(declarations) }},
	})
}

// writeLookupValueFull dumps v's own substructure in full: used for
// every top-level declaration, and for the members of an
// OverloadedIdentity, which the group owns directly.
func (e *encoder) writeLookupValueFull(v apm.LookupValue) {
	switch n := v.(type) {
	case *apm.EnumType:
		values := make([]func(*encoder), len(n.Values))
		for i, ev := range n.Values {
			val := ev
			values[i] = func(e *encoder) { e.writeString(val.Name_) }
		}

		e.object([]field{
			{"node", func(e *encoder) { e.writeString("EnumType") }},
			strField("identity", n.Name_),
			{"values", func(e *encoder) { e.array(values) }},
		})
	case *apm.Entity:
		e.object([]field{
			{"node", func(e *encoder) { e.writeString("Entity") }},
			strField("identity", n.Name_),
		})
	case *apm.IntrinsicType:
		e.object([]field{
			{"node", func(e *encoder) { e.writeString("IntrinsicType") }},
			strField("identity", n.Name_),
		})
	case *apm.IntrinsicValue:
		e.writeIntrinsicValue(n)
	case *apm.StateProperty:
		e.object([]field{
			{"node", func(e *encoder) { e.writeString("StateProperty") }},
			strField("identity", n.Name_),
			nodeField("result", func(e *encoder) { e.writePattern(n.Result) }),
			nodeField("parameters", func(e *encoder) { e.writeParams(n.Params) }),
			nodeField("initial", func(e *encoder) { e.writeOptionalExpr(n.Initial) }),
		})
	case *apm.FunctionProperty:
		e.object([]field{
			{"node", func(e *encoder) { e.writeString("FunctionProperty") }},
			strField("identity", n.Name_),
			nodeField("result", func(e *encoder) { e.writePattern(n.Result) }),
			nodeField("parameters", func(e *encoder) { e.writeParams(n.Params) }),
			nodeField("body", func(e *encoder) { e.writeOptionalCodeBlock(n.Body) }),
		})
	case *apm.Procedure:
		e.object([]field{
			{"node", func(e *encoder) { e.writeString("Procedure") }},
			strField("identity", n.Name_),
			nodeField("parameters", func(e *encoder) { e.writeParams(n.Params) }),
			nodeField("body", func(e *encoder) { e.writeCodeBlock(n.Body) }),
		})
	case *apm.OverloadedIdentity:
		members := make([]func(*encoder), len(n.Members))
		for i, m := range n.Members {
			mem := m
			members[i] = func(e *encoder) { e.writeLookupValueFull(mem) }
		}

		e.object([]field{
			{"node", func(e *encoder) { e.writeString("OverloadedIdentity") }},
			strField("identity", n.Name_),
			{"members", func(e *encoder) { e.array(members) }},
		})
	case *apm.EnumValue:
		e.writeEnumValue(n)
	case *apm.Variable:
		e.writeVariable(n)
	case *apm.UnionPattern:
		e.writeUnionPattern(n)
	default:
		e.object([]field{{"node", func(e *encoder) { e.writeString(nodeKind(n)) }}})
	}
}

// writeLookupValueRef dumps a compact reference to a separately-declared
// LookupValue — a `{node, identity}` pair — instead of recursing into its
// full substructure, both to keep the dump finite (StateProperty and
// FunctionProperty bodies can be arbitrarily large) and to avoid ever
// re-entering a cycle (EnumValue <-> EnumType).
func (e *encoder) writeLookupValueRef(v apm.LookupValue) {
	e.object([]field{
		{"node", func(e *encoder) { e.writeString(nodeKind(v) + "Ref") }},
		strField("identity", v.Identity()),
	})
}

func (e *encoder) writeEnumValue(n *apm.EnumValue) {
	e.object([]field{
		{"node", func(e *encoder) { e.writeString("EnumValue") }},
		strField("identity", n.Name_),
		nodeField("of", func(e *encoder) { e.writeLookupValueRef(n.Of) }),
	})
}

func (e *encoder) writeIntrinsicValue(n *apm.IntrinsicValue) {
	fields := []field{
		{"node", func(e *encoder) { e.writeString("IntrinsicValue") }},
		strField("identity", n.Name_),
	}

	if n.Of != nil {
		fields = append(fields, nodeField("of", func(e *encoder) { e.writeLookupValueRef(n.Of) }))
	}

	e.object(fields)
}

func (e *encoder) writeVariable(n *apm.Variable) {
	e.object([]field{
		{"node", func(e *encoder) { e.writeString("Variable") }},
		strField("identity", n.Name_),
		boolField("mutable", n.Mutable),
		nodeField("pattern", func(e *encoder) { e.writePattern(n.Pattern) }),
	})
}

func (e *encoder) writeParams(params []*apm.Variable) {
	items := make([]func(*encoder), len(params))
	for i, p := range params {
		v := p
		items[i] = func(e *encoder) { e.writeVariable(v) }
	}

	e.array(items)
}

func (e *encoder) writeOptionalExpr(expr apm.Expr) {
	if expr == nil {
		e.b.WriteString("null")
		return
	}

	e.writeExpr(expr)
}

func (e *encoder) writeOptionalCodeBlock(b *apm.CodeBlock) {
	if b == nil {
		e.b.WriteString("null")
		return
	}

	e.writeCodeBlock(b)
}

func (e *encoder) writeUnionPattern(n *apm.UnionPattern) {
	members := make([]func(*encoder), len(n.Members))
	for i, m := range n.Members {
		mem := m
		members[i] = func(e *encoder) { e.writePattern(mem) }
	}

	e.object([]field{
		{"node", func(e *encoder) { e.writeString("UnionPattern") }},
		strField("identity", n.Identity()),
		{"members", func(e *encoder) { e.array(members) }},
	})
}

// writePattern dumps a Pattern. EnumType, Entity and IntrinsicType are
// reference types even here, to match writeLookupValueFull's rule; every
// other Pattern variant is owned substructure and recurses in full.
func (e *encoder) writePattern(p apm.Pattern) {
	switch n := p.(type) {
	case *apm.EnumType, *apm.Entity, *apm.IntrinsicType:
		e.writeLookupValueRef(p.(apm.LookupValue))
	case *apm.IntrinsicValue:
		e.writeIntrinsicValue(n)
	case *apm.EnumValue:
		e.writeEnumValue(n)
	case *apm.UnionPattern:
		e.writeUnionPattern(n)
	case *apm.ListPattern:
		size := -1
		if n.Size != nil {
			size = *n.Size
		}

		fields := []field{
			{"node", func(e *encoder) { e.writeString("ListPattern") }},
			nodeField("element", func(e *encoder) { e.writePattern(n.Element) }),
		}

		if size >= 0 {
			fields = append(fields, intField("size", size))
		}

		e.object(fields)
	case *apm.OptionalPattern:
		e.object([]field{
			{"node", func(e *encoder) { e.writeString("OptionalPattern") }},
			nodeField("inner", func(e *encoder) { e.writePattern(n.Inner) }),
		})
	case *apm.AnyPattern:
		e.object([]field{{"node", func(e *encoder) { e.writeString("AnyPattern") }}})
	case *apm.UnresolvedIdentity:
		e.object([]field{
			{"node", func(e *encoder) { e.writeString("UnresolvedIdentity") }},
			strField("name", n.Name),
		})
	case *apm.UninferredPattern:
		e.object([]field{{"node", func(e *encoder) { e.writeString("UninferredPattern") }}})
	case *apm.InvalidPattern:
		e.object([]field{{"node", func(e *encoder) { e.writeString("InvalidPattern") }}})
	default:
		e.object([]field{{"node", func(e *encoder) { e.writeString(nodeKind(n)) }}})
	}
}

func (e *encoder) writeCodeBlock(b *apm.CodeBlock) {
	stmts := make([]func(*encoder), len(b.Statements))
	for i, s := range b.Statements {
		stmt := s
		stmts[i] = func(e *encoder) { e.writeStatement(stmt) }
	}

	e.object([]field{
		{"node", func(e *encoder) { e.writeString("CodeBlock") }},
		boolField("singleton", b.Singleton),
		{"statements", func(e *encoder) { e.array(stmts) }},
	})
}

func (e *encoder) writeStatement(stmt apm.Statement) {
	switch n := stmt.(type) {
	case *apm.ExpressionStatement:
		e.object([]field{
			{"node", func(e *encoder) { e.writeString("ExpressionStatement") }},
			nodeField("expr", func(e *encoder) { e.writeExpr(n.Expr) }),
		})
	case *apm.IfStatement:
		rules := make([]func(*encoder), len(n.Rules))
		for i, r := range n.Rules {
			rule := r
			rules[i] = func(e *encoder) {
				e.object([]field{
					{"node", func(e *encoder) { e.writeString("IfStatementRule") }},
					nodeField("condition", func(e *encoder) { e.writeExpr(rule.Condition) }),
					nodeField("body", func(e *encoder) { e.writeCodeBlock(rule.Body) }),
				})
			}
		}

		e.object([]field{
			{"node", func(e *encoder) { e.writeString("IfStatement") }},
			{"rules", func(e *encoder) { e.array(rules) }},
			nodeField("else", func(e *encoder) { e.writeOptionalCodeBlock(n.Else) }),
		})
	case *apm.ForStatement:
		e.object([]field{
			{"node", func(e *encoder) { e.writeString("ForStatement") }},
			nodeField("variable", func(e *encoder) { e.writeVariable(n.Variable) }),
			nodeField("range", func(e *encoder) { e.writePattern(n.Range) }),
			nodeField("body", func(e *encoder) { e.writeCodeBlock(n.Body) }),
		})
	case *apm.AssignmentStatement:
		e.object([]field{
			{"node", func(e *encoder) { e.writeString("AssignmentStatement") }},
			nodeField("subject", func(e *encoder) { e.writeExpr(n.Subject) }),
			nodeField("value", func(e *encoder) { e.writeExpr(n.Value) }),
		})
	case *apm.VariableDeclaration:
		e.object([]field{
			{"node", func(e *encoder) { e.writeString("VariableDeclaration") }},
			nodeField("variable", func(e *encoder) { e.writeVariable(n.Variable) }),
			nodeField("value", func(e *encoder) { e.writeOptionalExpr(n.Value) }),
		})
	case *apm.CodeBlock:
		e.writeCodeBlock(n)
	case *apm.InvalidStatement:
		e.object([]field{{"node", func(e *encoder) { e.writeString("InvalidStatement") }}})
	default:
		e.object([]field{{"node", func(e *encoder) { e.writeString(nodeKind(n)) }}})
	}
}

func (e *encoder) writeExpr(expr apm.Expr) {
	switch n := expr.(type) {
	case *apm.IntrinsicValue:
		e.writeIntrinsicValue(n)
	case *apm.EnumValue:
		e.writeEnumValue(n)
	case *apm.Variable:
		e.writeVariable(n)
	case *apm.Procedure:
		e.writeLookupValueRef(n)
	case *apm.ListValue:
		e.writeExprList("ListValue", n.Values)
	case *apm.InstanceList:
		e.writeExprList("InstanceList", n.Values)
	case *apm.Unary:
		e.object([]field{
			{"node", func(e *encoder) { e.writeString("Unary") }},
			strField("op", n.Op),
			nodeField("value", func(e *encoder) { e.writeExpr(n.Value) }),
		})
	case *apm.Binary:
		e.object([]field{
			{"node", func(e *encoder) { e.writeString("Binary") }},
			strField("op", n.Op),
			nodeField("lhs", func(e *encoder) { e.writeExpr(n.LHS) }),
			nodeField("rhs", func(e *encoder) { e.writeExpr(n.RHS) }),
		})
	case *apm.ExpressionIndex:
		e.object([]field{
			{"node", func(e *encoder) { e.writeString("ExpressionIndex") }},
			nodeField("subject", func(e *encoder) { e.writeExpr(n.Subject) }),
			nodeField("index", func(e *encoder) { e.writeExpr(n.Index) }),
		})
	case *apm.PropertyIndex:
		fields := []field{
			{"node", func(e *encoder) { e.writeString("PropertyIndex") }},
			nodeField("expr", func(e *encoder) { e.writeExpr(n.Expr) }),
			strField("property", n.Property),
		}

		if n.Resolved != nil {
			fields = append(fields, nodeField("resolved", func(e *encoder) { e.writeLookupValueRef(n.Resolved) }))
		}

		e.object(fields)
	case *apm.Call:
		args := make([]func(*encoder), len(n.Arguments))
		for i, a := range n.Arguments {
			arg := a
			args[i] = func(e *encoder) {
				fields := []field{
					{"node", func(e *encoder) { e.writeString("CallArgument") }},
					boolField("named", arg.Named),
				}

				if arg.Named {
					fields = append(fields, strField("name", arg.Name))
				}

				fields = append(fields, nodeField("value", func(e *encoder) { e.writeExpr(arg.Value) }))

				e.object(fields)
			}
		}

		e.object([]field{
			{"node", func(e *encoder) { e.writeString("Call") }},
			nodeField("callee", func(e *encoder) { e.writeExpr(n.Callee) }),
			{"arguments", func(e *encoder) { e.array(args) }},
		})
	case *apm.IfExpression:
		rules := make([]func(*encoder), len(n.Rules))
		for i, r := range n.Rules {
			rule := r
			rules[i] = func(e *encoder) {
				e.object([]field{
					{"node", func(e *encoder) { e.writeString("IfExpressionRule") }},
					nodeField("condition", func(e *encoder) { e.writeExpr(rule.Condition) }),
					nodeField("result", func(e *encoder) { e.writeExpr(rule.Result) }),
				})
			}
		}

		e.object([]field{
			{"node", func(e *encoder) { e.writeString("IfExpression") }},
			boolField("hasElse", n.HasElse),
			{"rules", func(e *encoder) { e.array(rules) }},
		})
	case *apm.Match:
		rules := make([]func(*encoder), len(n.Rules))
		for i, r := range n.Rules {
			rule := r
			rules[i] = func(e *encoder) {
				fields := []field{{"node", func(e *encoder) { e.writeString("MatchRule") }}}

				if rule.Pattern != nil {
					fields = append(fields, nodeField("pattern", func(e *encoder) { e.writePattern(rule.Pattern) }))
				}

				fields = append(fields, nodeField("result", func(e *encoder) { e.writeExpr(rule.Result) }))

				e.object(fields)
			}
		}

		e.object([]field{
			{"node", func(e *encoder) { e.writeString("Match") }},
			nodeField("subject", func(e *encoder) { e.writeExpr(n.Subject) }),
			boolField("hasElse", n.HasElse),
			{"rules", func(e *encoder) { e.array(rules) }},
		})
	case *apm.InvalidValue:
		e.object([]field{{"node", func(e *encoder) { e.writeString("InvalidValue") }}})
	case *apm.InvalidExpression:
		e.object([]field{{"node", func(e *encoder) { e.writeString("InvalidExpression") }}})
	default:
		e.object([]field{{"node", func(e *encoder) { e.writeString(nodeKind(n)) }}})
	}
}

func (e *encoder) writeExprList(kind string, values []apm.Expr) {
	items := make([]func(*encoder), len(values))
	for i, v := range values {
		val := v
		items[i] = func(e *encoder) { e.writeExpr(val) }
	}

	e.object([]field{
		{"node", func(e *encoder) { e.writeString(kind) }},
		{"values", func(e *encoder) { e.array(items) }},
	})
}
