package resolver

import (
	"testing"

	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/apm"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/diag"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/intrinsics"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/lexer"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/parser"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/source"
)

func resolve(t *testing.T, text string) (*apm.Program, *diag.Sink) {
	t.Helper()

	sink := diag.NewSink()
	program := apm.NewProgram()
	intrinsics.Seed(program)

	tokens := lexer.Tokenize(source.New("test.gambit", []byte(text)), sink)
	program = parser.NewWithProgram(tokens, sink, program).Parse()

	Resolve(program, sink)

	return program, sink
}

// walkForUnresolved recurses into every pattern/expr/statement reachable
// from program's declarations, failing the test the moment an
// UnresolvedIdentity survives resolution.
func walkForUnresolved(t *testing.T, program *apm.Program) {
	t.Helper()

	for _, entry := range program.Global.Entries() {
		walkLookupValue(t, entry)
	}
}

func walkLookupValue(t *testing.T, v apm.LookupValue) {
	t.Helper()

	switch n := v.(type) {
	case *apm.StateProperty:
		for _, p := range n.Params {
			walkPattern(t, p.Pattern)
		}

		walkPattern(t, n.Result)

		if n.Initial != nil {
			walkExpr(t, n.Initial)
		}
	case *apm.FunctionProperty:
		for _, p := range n.Params {
			walkPattern(t, p.Pattern)
		}

		walkPattern(t, n.Result)
		walkCodeBlock(t, n.Body)
	case *apm.Procedure:
		for _, p := range n.Params {
			walkPattern(t, p.Pattern)
		}

		walkCodeBlock(t, n.Body)
	case *apm.OverloadedIdentity:
		for _, m := range n.Members {
			walkLookupValue(t, m)
		}
	}
}

func walkPattern(t *testing.T, p apm.Pattern) {
	t.Helper()

	if p == nil {
		return
	}

	if _, ok := p.(*apm.UnresolvedIdentity); ok {
		t.Fatalf("found an UnresolvedIdentity pattern after resolution: %v", p)
	}

	switch n := p.(type) {
	case *apm.OptionalPattern:
		walkPattern(t, n.Inner)
	case *apm.ListPattern:
		walkPattern(t, n.Element)
	case *apm.UnionPattern:
		for _, m := range n.Members {
			walkPattern(t, m)
		}
	}
}

func walkCodeBlock(t *testing.T, b *apm.CodeBlock) {
	t.Helper()

	if b == nil {
		return
	}

	for _, s := range b.Statements {
		walkStatement(t, s)
	}
}

func walkStatement(t *testing.T, stmt apm.Statement) {
	t.Helper()

	switch n := stmt.(type) {
	case *apm.ExpressionStatement:
		walkExpr(t, n.Expr)
	case *apm.IfStatement:
		for _, r := range n.Rules {
			walkExpr(t, r.Condition)
			walkCodeBlock(t, r.Body)
		}

		walkCodeBlock(t, n.Else)
	case *apm.ForStatement:
		walkPattern(t, n.Variable.Pattern)
		walkPattern(t, n.Range)
		walkCodeBlock(t, n.Body)
	case *apm.AssignmentStatement:
		walkExpr(t, n.Subject)
		walkExpr(t, n.Value)
	case *apm.VariableDeclaration:
		walkPattern(t, n.Variable.Pattern)

		if n.Value != nil {
			walkExpr(t, n.Value)
		}
	case *apm.CodeBlock:
		walkCodeBlock(t, n)
	}
}

func walkExpr(t *testing.T, e apm.Expr) {
	t.Helper()

	if e == nil {
		return
	}

	if _, ok := e.(*apm.UnresolvedIdentity); ok {
		t.Fatalf("found an UnresolvedIdentity expression after resolution: %v", e)
	}

	switch n := e.(type) {
	case *apm.ListValue:
		for _, v := range n.Values {
			walkExpr(t, v)
		}
	case *apm.InstanceList:
		for _, v := range n.Values {
			walkExpr(t, v)
		}
	case *apm.Unary:
		walkExpr(t, n.Value)
	case *apm.Binary:
		walkExpr(t, n.LHS)
		walkExpr(t, n.RHS)
	case *apm.ExpressionIndex:
		walkExpr(t, n.Subject)
		walkExpr(t, n.Index)
	case *apm.PropertyIndex:
		walkExpr(t, n.Expr)
	case *apm.Call:
		walkExpr(t, n.Callee)

		for _, a := range n.Arguments {
			walkExpr(t, a.Value)
		}
	case *apm.IfExpression:
		for _, r := range n.Rules {
			walkExpr(t, r.Condition)
			walkExpr(t, r.Result)
		}
	case *apm.Match:
		walkExpr(t, n.Subject)

		for _, r := range n.Rules {
			if r.Pattern != nil {
				walkPattern(t, r.Pattern)
			}

			walkExpr(t, r.Result)
		}
	}
}

func TestNoUnresolvedIdentitySurvivesResolution(t *testing.T) {
	program, sink := resolve(t, "enum C { A, B }\nfn bool(C c).ok { match c { A: true  B: false } }\n")
	if sink.Count() != 0 {
		t.Fatalf("expected no diagnostics, got %v", sink.All())
	}

	walkForUnresolved(t, program)
}

func TestResolvingAnEntityAsAPatternWorks(t *testing.T) {
	program, sink := resolve(t, "entity Player\nstate num(Player player).score: 0\n")
	if sink.Count() != 0 {
		t.Fatalf("expected no diagnostics, got %v", sink.All())
	}

	v, _ := program.Global.Raw("score")
	st := v.(*apm.StateProperty)

	if _, ok := st.Params[0].Pattern.(*apm.Entity); !ok {
		t.Fatalf("expected the player parameter's pattern to resolve to *apm.Entity, got %T", st.Params[0].Pattern)
	}
}

func TestUndefinedPatternIdentityIsDiagnosed(t *testing.T) {
	_, sink := resolve(t, "state Nope(Nope n).x\n")

	found := false
	for _, m := range sink.All() {
		if m.Message == "'Nope' is not defined." {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected a 'not defined' diagnostic, got %v", sink.All())
	}
}

func TestValueUsedAsPatternIsDiagnosedAsWrongKind(t *testing.T) {
	_, sink := resolve(t, "entity Player\nstate num(Player player).score: 0\nstate score(Player player).other\n")

	found := false
	for _, m := range sink.All() {
		if m.Message == "'score' is not a type." {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected a 'not a type' diagnostic, got %v", sink.All())
	}
}

func TestOptionalParameterPatternResolvesToOptionalWrappingTheEntity(t *testing.T) {
	program, sink := resolve(t, "entity Player\nstate num(Player? p).x\n")
	if sink.Count() != 0 {
		t.Fatalf("expected no diagnostics, got %v", sink.All())
	}

	v, _ := program.Global.Raw("x")
	st := v.(*apm.StateProperty)

	opt, ok := st.Params[0].Pattern.(*apm.OptionalPattern)
	if !ok {
		t.Fatalf("expected an OptionalPattern, got %T", st.Params[0].Pattern)
	}

	if _, ok := opt.Inner.(*apm.Entity); !ok {
		t.Fatalf("expected the optional's inner pattern to resolve to *apm.Entity, got %T", opt.Inner)
	}
}
