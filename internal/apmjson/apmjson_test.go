package apmjson

import (
	"bytes"
	"strings"
	"testing"

	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/apm"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/diag"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/intrinsics"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/lexer"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/parser"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/resolver"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/source"
)

func dump(t *testing.T, text string) string {
	t.Helper()

	sink := diag.NewSink()
	program := apm.NewProgram()
	intrinsics.Seed(program)

	tokens := lexer.Tokenize(source.New("test.gambit", []byte(text)), sink)
	program = parser.NewWithProgram(tokens, sink, program).Parse()

	resolver.Resolve(program, sink)

	var b bytes.Buffer
	if err := Encode(&b, program); err != nil {
		t.Fatalf("Encode returned an error: %v", err)
	}

	return b.String()
}

func TestTwoParsesOfTheSameSourceProduceByteIdenticalDumps(t *testing.T) {
	text := "enum Color { Red, Green, Blue }\nentity Player\nstate num(Player p).score: 0\n"

	a := dump(t, text)
	b := dump(t, text)

	if a != b {
		t.Fatalf("dumps differ between two parses of the same source:\n--- a ---\n%s\n--- b ---\n%s", a, b)
	}
}

func TestDumpIncludesANodeDiscriminatorPerDeclaration(t *testing.T) {
	out := dump(t, "enum Color { Red, Green, Blue }\n")

	if !strings.Contains(out, `"node": "EnumType"`) {
		t.Fatalf("expected an EnumType node in the dump, got:\n%s", out)
	}

	if !strings.Contains(out, `"identity": "Color"`) {
		t.Fatalf("expected Color's identity to be dumped, got:\n%s", out)
	}
}

func TestDumpEscapesQuotesInRawStringLiteralText(t *testing.T) {
	out := dump(t, `entity Player
state str(Player p).tag: "hi"
`)

	// The lexer keeps a string token's surrounding quotes as part of its raw
	// text, so the literal's identity dumped here is the 4-character string
	// `"hi"`; both of its quote characters must come out backslash-escaped
	// in the JSON dump.
	if !strings.Contains(out, `\"hi\"`) {
		t.Fatalf(`expected the literal's quotes to be escaped as \"hi\" in the dump, got:%s`, out)
	}
}

func TestDumpIsTwoSpaceIndentedWithSameLineOpeners(t *testing.T) {
	out := dump(t, "entity Player\n")

	lines := strings.Split(out, "\n")

	if !strings.HasPrefix(lines[0], "{") {
		t.Fatalf("expected the dump to open on the first line, got %q", lines[0])
	}

	foundIndented := false
	for _, line := range lines {
		if strings.HasPrefix(line, "  \"") {
			foundIndented = true
			break
		}
	}

	if !foundIndented {
		t.Fatalf("expected at least one field indented by exactly two spaces, got:\n%s", out)
	}
}
