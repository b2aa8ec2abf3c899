package diag

import (
	"strings"
	"testing"

	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/source"
)

func TestFormatRendersLineColumnAndMessage(t *testing.T) {
	src := source.New("test.gambit", []byte("abc"))
	span := source.NewSpan(src, 1, 1, 0, 3)

	d := New(span, "something went wrong")

	got := d.Format()

	if !strings.HasPrefix(got, "[1:1] something went wrong") {
		t.Fatalf("Format() = %q, want a [L:C] msg prefix", got)
	}

	if !strings.Contains(got, "abc") {
		t.Fatalf("Format() = %q, want the span's source substring", got)
	}
}

func TestFormatOmitsPathPrefixWhenAllSpansShareOneSource(t *testing.T) {
	src := source.New("test.gambit", []byte("abcdef"))
	primary := source.NewSpan(src, 1, 1, 0, 3)
	extra := source.NewSpan(src, 1, 4, 3, 3)

	d := New(primary, "msg").WithSpan(extra)

	if strings.Contains(d.Format(), "test.gambit") {
		t.Fatalf("Format() should not prefix spans with a path when every span shares one source, got %q", d.Format())
	}
}

func TestFormatPrefixesPathWhenSpansCrossSources(t *testing.T) {
	srcA := source.New("a.gambit", []byte("abc"))
	srcB := source.New("b.gambit", []byte("xyz"))

	primary := source.NewSpan(srcA, 1, 1, 0, 3)
	extra := source.NewSpan(srcB, 1, 1, 0, 3)

	d := New(primary, "msg").WithSpan(extra)

	got := d.Format()

	if !strings.Contains(got, "a.gambit") || !strings.Contains(got, "b.gambit") {
		t.Fatalf("Format() should prefix every span with its path when sources differ, got %q", got)
	}
}

func TestSinkGroupsDiagnosticsBySourceInFirstSeenOrder(t *testing.T) {
	srcA := source.New("a.gambit", []byte("abc"))
	srcB := source.New("b.gambit", []byte("xyz"))

	sink := NewSink()
	sink.Report(New(source.NewSpan(srcB, 1, 1, 0, 1), "from b"))
	sink.Report(New(source.NewSpan(srcA, 1, 1, 0, 1), "from a"))
	sink.Report(New(source.NewSpan(srcB, 1, 2, 1, 1), "from b again"))

	all := sink.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", len(all))
	}

	want := []string{"from b", "from b again", "from a"}
	for i, w := range want {
		if all[i].Message != w {
			t.Fatalf("diagnostic %d = %q, want %q", i, all[i].Message, w)
		}
	}
}

func TestSinkEmptyAndCount(t *testing.T) {
	sink := NewSink()

	if !sink.Empty() {
		t.Fatal("a fresh sink should be empty")
	}

	src := source.New("test.gambit", []byte("a"))
	sink.Reportf(source.NewSpan(src, 1, 1, 0, 1), "oops: %d", 1)

	if sink.Empty() {
		t.Fatal("sink should no longer be empty after Report")
	}

	if sink.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", sink.Count())
	}
}
