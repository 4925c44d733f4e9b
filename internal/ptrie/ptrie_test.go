package ptrie

import (
	"testing"

	"github.com/bastiangx/gboard-decode/internal/logger"
	"github.com/bastiangx/gboard-decode/pkg/dict"
)

func cps(s string) []dict.CodePoint { return []dict.CodePoint(s) }

func buildTestMirror() *Mirror {
	tr := dict.NewTrie(logger.New("ptrie-test"))
	tr.AddUnigram(cps("cat"), 200)
	tr.AddUnigram(cps("car"), 180)
	tr.AddUnigram(cps("card"), 160)
	tr.AddUnigram(cps("cart"), 140)
	tr.AddUnigram(cps("dog"), 100)
	return Build(tr)
}

func TestWordsWithPrefixFindsAllMatches(t *testing.T) {
	m := buildTestMirror()
	got := m.WordsWithPrefix("car", 0)
	want := map[string]bool{"car": true, "card": true, "cart": true}
	if len(got) != len(want) {
		t.Fatalf("WordsWithPrefix(car) = %+v, want %d entries", got, len(want))
	}
	for _, e := range got {
		if !want[e.Word] {
			t.Errorf("unexpected word %q under prefix car", e.Word)
		}
	}
}

func TestWordsWithPrefixIsCaseInsensitive(t *testing.T) {
	m := buildTestMirror()
	got := m.WordsWithPrefix("CAR", 0)
	if len(got) != 3 {
		t.Fatalf("WordsWithPrefix(CAR) = %+v, want 3 entries", got)
	}
}

func TestWordsWithPrefixRespectsLimit(t *testing.T) {
	m := buildTestMirror()
	got := m.WordsWithPrefix("car", 1)
	if len(got) != 1 {
		t.Fatalf("WordsWithPrefix(car, limit=1) returned %d entries, want 1", len(got))
	}
}

func TestWordsWithPrefixNoMatches(t *testing.T) {
	m := buildTestMirror()
	got := m.WordsWithPrefix("zzz", 0)
	if len(got) != 0 {
		t.Errorf("WordsWithPrefix(zzz) = %+v, want empty", got)
	}
}

func TestHasWord(t *testing.T) {
	m := buildTestMirror()
	if !m.HasWord("cat") {
		t.Error("HasWord(cat) = false, want true")
	}
	if m.HasWord("ca") {
		t.Error("HasWord(ca) = true, want false (not a stored word)")
	}
}
