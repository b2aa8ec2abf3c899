package parser

import (
	"testing"

	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/apm"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/diag"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/intrinsics"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/lexer"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/scope"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/source"
)

func parse(t *testing.T, text string) (*apm.Program, *diag.Sink) {
	t.Helper()

	sink := diag.NewSink()
	program := apm.NewProgram()
	intrinsics.Seed(program)

	tokens := lexer.Tokenize(source.New("test.gambit", []byte(text)), sink)
	program = NewWithProgram(tokens, sink, program).Parse()

	return program, sink
}

func TestEnumDefinitionDeclaresTypeAndValuesDirectlyInScope(t *testing.T) {
	program, sink := parse(t, "enum Color { Red, Green, Blue }\n")

	if sink.Count() != 0 {
		t.Fatalf("expected no diagnostics, got %v", sink.All())
	}

	v, ok := program.Global.Raw("Color")
	if !ok {
		t.Fatal("Color was not declared")
	}

	enum, ok := v.(*apm.EnumType)
	if !ok {
		t.Fatalf("Color resolved to %T, want *apm.EnumType", v)
	}

	if len(enum.Values) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(enum.Values))
	}

	if !scope.DirectlyDeclared(program.Global, "Red") {
		t.Error("Red should be declared directly in the enclosing scope")
	}
}

func TestEntityDefinitionDeclaresEntity(t *testing.T) {
	program, sink := parse(t, "entity Player\n")
	if sink.Count() != 0 {
		t.Fatalf("expected no diagnostics, got %v", sink.All())
	}

	if _, ok := program.Global.Raw("Player"); !ok {
		t.Fatal("Player was not declared")
	}
}

func TestStatePropertyParsesParametersAndInitialValue(t *testing.T) {
	program, sink := parse(t, "entity Player\nstate num(Player player).score: 0\n")
	if sink.Count() != 0 {
		t.Fatalf("expected no diagnostics, got %v", sink.All())
	}

	v, ok := program.Global.Raw("score")
	if !ok {
		t.Fatal("score was not declared")
	}

	st, ok := v.(*apm.StateProperty)
	if !ok {
		t.Fatalf("score resolved to %T, want *apm.StateProperty", v)
	}

	if len(st.Params) != 1 || st.Params[0].Name_ != "player" {
		t.Fatalf("unexpected parameter list: %+v", st.Params)
	}

	if st.Initial == nil {
		t.Fatal("expected an initial value expression")
	}
}

func TestFunctionPropertyAcceptsBraceBody(t *testing.T) {
	program, sink := parse(t, "enum C { A, B }\nfn bool(C c).ok { match c { A: true  B: false } }\n")
	if sink.Count() != 0 {
		t.Fatalf("expected no diagnostics, got %v", sink.All())
	}

	v, _ := program.Global.Raw("ok")
	fn, ok := v.(*apm.FunctionProperty)
	if !ok {
		t.Fatalf("ok resolved to %T, want *apm.FunctionProperty", v)
	}

	if fn.Body == nil || fn.Body.Singleton {
		t.Fatal("expected a non-singleton code block body")
	}
}

func TestFunctionPropertyAcceptsSingletonBody(t *testing.T) {
	program, sink := parse(t, "enum C { A, B }\nfn bool(C c).ok: true\n")
	if sink.Count() != 0 {
		t.Fatalf("expected no diagnostics, got %v", sink.All())
	}

	v, _ := program.Global.Raw("ok")
	fn := v.(*apm.FunctionProperty)

	if fn.Body == nil || !fn.Body.Singleton {
		t.Fatal("expected a singleton code block body")
	}

	if len(fn.Body.Statements) != 1 {
		t.Fatalf("singleton body should have exactly one statement, got %d", len(fn.Body.Statements))
	}
}

func TestDefinitionFollowingASingletonBodyStillParses(t *testing.T) {
	program, sink := parse(t, "enum C { A, B }\nfn bool(C c).ok: true\nentity Player\n")
	if sink.Count() != 0 {
		t.Fatalf("expected no diagnostics, got %v", sink.All())
	}

	if _, ok := program.Global.Raw("Player"); !ok {
		t.Fatal("the entity after the singleton-bodied function was not declared")
	}
}

func TestSingletonBlockContainingBraceBlockIsDiagnosed(t *testing.T) {
	_, sink := parse(t, "enum C { A, B }\nfn bool(C c).ok: { true }\n")

	if sink.Count() == 0 {
		t.Fatal("expected a diagnostic for `: { ... }`")
	}
}

func TestPropertyIndexAutoWrapsBareSubjectIntoInstanceList(t *testing.T) {
	program, sink := parse(t, "entity Player\nstate num(Player player).score: 0\nprocedure Check() { score.x }\n")
	if sink.Count() != 0 {
		t.Fatalf("expected no diagnostics, got %v", sink.All())
	}

	v, _ := program.Global.Raw("Check")
	proc := v.(*apm.Procedure)

	stmt, ok := proc.Body.Statements[0].(*apm.ExpressionStatement)
	if !ok {
		t.Fatalf("expected an expression statement, got %T", proc.Body.Statements[0])
	}

	idx, ok := stmt.Expr.(*apm.PropertyIndex)
	if !ok {
		t.Fatalf("expected a PropertyIndex, got %T", stmt.Expr)
	}

	if _, ok := idx.Expr.(*apm.InstanceList); !ok {
		t.Fatalf("property index subject should be auto-wrapped into an InstanceList, got %T", idx.Expr)
	}
}

func TestParenthesisedExpressionWithoutCommaIsUnwrapped(t *testing.T) {
	program, sink := parse(t, "procedure Check() { (1 + 2) }\n")
	if sink.Count() != 0 {
		t.Fatalf("expected no diagnostics, got %v", sink.All())
	}

	v, _ := program.Global.Raw("Check")
	proc := v.(*apm.Procedure)

	stmt := proc.Body.Statements[0].(*apm.ExpressionStatement)

	if _, ok := stmt.Expr.(*apm.Binary); !ok {
		t.Fatalf("expected the parens to unwrap to a Binary, got %T", stmt.Expr)
	}
}

func TestParenthesisedExpressionWithCommaProducesInstanceList(t *testing.T) {
	program, sink := parse(t, "procedure Check() { (1, 2) }\n")
	if sink.Count() != 0 {
		t.Fatalf("expected no diagnostics, got %v", sink.All())
	}

	v, _ := program.Global.Raw("Check")
	proc := v.(*apm.Procedure)

	stmt := proc.Body.Statements[0].(*apm.ExpressionStatement)

	list, ok := stmt.Expr.(*apm.InstanceList)
	if !ok {
		t.Fatalf("expected an InstanceList, got %T", stmt.Expr)
	}

	if len(list.Values) != 2 {
		t.Fatalf("expected 2 values, got %d", len(list.Values))
	}
}

func TestBinaryOperatorPrecedenceBindsFactorTighterThanTerm(t *testing.T) {
	program, sink := parse(t, "procedure Check() { 1 + 2 * 3 }\n")
	if sink.Count() != 0 {
		t.Fatalf("expected no diagnostics, got %v", sink.All())
	}

	v, _ := program.Global.Raw("Check")
	proc := v.(*apm.Procedure)

	stmt := proc.Body.Statements[0].(*apm.ExpressionStatement)

	top, ok := stmt.Expr.(*apm.Binary)
	if !ok || top.Op != "+" {
		t.Fatalf("expected top-level '+' binary, got %#v", stmt.Expr)
	}

	rhs, ok := top.RHS.(*apm.Binary)
	if !ok || rhs.Op != "*" {
		t.Fatalf("expected '*' to bind tighter and sit on the rhs of '+', got %#v", top.RHS)
	}
}

func TestNumberLiteralWithDotBecomesNumOtherwiseAmt(t *testing.T) {
	program, sink := parse(t, "procedure Check() { 1 }\n")
	if sink.Count() != 0 {
		t.Fatalf("expected no diagnostics, got %v", sink.All())
	}

	v, _ := program.Global.Raw("Check")
	proc := v.(*apm.Procedure)
	stmt := proc.Body.Statements[0].(*apm.ExpressionStatement)

	lit, ok := stmt.Expr.(*apm.IntrinsicValue)
	if !ok || lit.Of.Name_ != "amt" {
		t.Fatalf("expected an amt literal, got %#v", stmt.Expr)
	}
}

func TestOptionalPatternParsesTrailingQuestionMark(t *testing.T) {
	program, sink := parse(t, "entity Player\nstate num(Player? player).score\n")
	if sink.Count() != 0 {
		t.Fatalf("expected no diagnostics, got %v", sink.All())
	}

	v, _ := program.Global.Raw("score")
	st := v.(*apm.StateProperty)

	if _, ok := st.Params[0].Pattern.(*apm.OptionalPattern); !ok {
		t.Fatalf("expected an OptionalPattern parameter, got %T", st.Params[0].Pattern)
	}
}

func TestMatchSubjectMayBeACompoundExpression(t *testing.T) {
	program, sink := parse(t,
		"entity Player\n"+
			"state num(Player player).score: 0\n"+
			"fn bool(Player p).rich { match p.score { else: true } }\n")
	if sink.Count() != 0 {
		t.Fatalf("expected no diagnostics, got %v", sink.All())
	}

	v, _ := program.Global.Raw("rich")
	fn := v.(*apm.FunctionProperty)

	stmt, ok := fn.Body.Statements[0].(*apm.ExpressionStatement)
	if !ok {
		t.Fatalf("expected an expression statement, got %T", fn.Body.Statements[0])
	}

	m, ok := stmt.Expr.(*apm.Match)
	if !ok {
		t.Fatalf("expected a Match, got %T", stmt.Expr)
	}

	if _, ok := m.Subject.(*apm.PropertyIndex); !ok {
		t.Fatalf("the match subject should parse as a full property index, got %T", m.Subject)
	}
}

func TestMatchSubjectMayBeAUnaryExpression(t *testing.T) {
	program, sink := parse(t, "procedure Check() { match -1 { else: true } }\n")
	if sink.Count() != 0 {
		t.Fatalf("expected no diagnostics, got %v", sink.All())
	}

	v, _ := program.Global.Raw("Check")
	proc := v.(*apm.Procedure)

	stmt := proc.Body.Statements[0].(*apm.ExpressionStatement)

	m, ok := stmt.Expr.(*apm.Match)
	if !ok {
		t.Fatalf("expected a Match, got %T", stmt.Expr)
	}

	if _, ok := m.Subject.(*apm.Unary); !ok {
		t.Fatalf("the match subject should parse as a unary expression, got %T", m.Subject)
	}
}

func TestMalformedTopLevelDefinitionRecoversAtNextLine(t *testing.T) {
	program, sink := parse(t, ")\nentity Player\n")

	if sink.Count() == 0 {
		t.Fatal("expected a diagnostic for the malformed definition")
	}

	if _, ok := program.Global.Raw("Player"); !ok {
		t.Fatal("parser should have recovered and still parsed the Player entity")
	}
}
