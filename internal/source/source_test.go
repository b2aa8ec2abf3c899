package source

import "testing"

func TestSpanTextRecoversTheVerbatimSubstring(t *testing.T) {
	src := New("test.gambit", []byte("entity Player\n"))

	span := NewSpan(src, 1, 1, 0, 6)

	if got := span.Text(); got != "entity" {
		t.Fatalf("span.Text() = %q, want %q", got, "entity")
	}
}

func TestMergeSpansTheEarlierStartToTheLaterEnd(t *testing.T) {
	src := New("test.gambit", []byte("entity Player"))

	a := NewSpan(src, 1, 1, 0, 6)  // "entity"
	b := NewSpan(src, 1, 8, 7, 6)  // "Player"

	merged := Merge(a, b)

	if merged.Position() != 0 || merged.Length() != 13 {
		t.Fatalf("Merge() = {pos: %d, len: %d}, want {pos: 0, len: 13}", merged.Position(), merged.Length())
	}

	if got := merged.Text(); got != "entity Player" {
		t.Fatalf("merged span text = %q, want %q", got, "entity Player")
	}
}

func TestMergeIsOrderIndependent(t *testing.T) {
	src := New("test.gambit", []byte("entity Player"))

	a := NewSpan(src, 1, 1, 0, 6)
	b := NewSpan(src, 1, 8, 7, 6)

	if Merge(a, b) != Merge(b, a) {
		t.Fatal("Merge(a, b) should equal Merge(b, a)")
	}
}

func TestMergeAcrossDifferentSourcesPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("merging spans from different sources should panic")
		}
	}()

	a := NewSpan(New("a.gambit", []byte("abc")), 1, 1, 0, 1)
	b := NewSpan(New("b.gambit", []byte("xyz")), 1, 1, 0, 1)

	Merge(a, b)
}

func TestMergeSetsMultilineWhenSpansCrossLines(t *testing.T) {
	src := New("test.gambit", []byte("a\nb"))

	a := NewSpan(src, 1, 1, 0, 1)
	b := NewSpan(src, 2, 1, 2, 1)

	if !Merge(a, b).Multiline() {
		t.Fatal("a merge spanning two lines should be flagged multiline")
	}
}

func TestSubstrOfASpanFromAnotherSourcePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("reading a span against a foreign source should panic")
		}
	}()

	srcA := New("a.gambit", []byte("abc"))
	srcB := New("b.gambit", []byte("xyz"))

	span := NewSpan(srcA, 1, 1, 0, 1)
	srcB.Substr(span)
}
