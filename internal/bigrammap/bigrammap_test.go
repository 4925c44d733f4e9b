package bigrammap

import (
	"testing"

	"github.com/bastiangx/gboard-decode/internal/codec"
	"github.com/bastiangx/gboard-decode/internal/logger"
	"github.com/bastiangx/gboard-decode/pkg/dict"
)

func cps(s string) []dict.CodePoint { return []dict.CodePoint(s) }

func newTestTrie() *dict.Trie {
	return dict.NewTrie(logger.New("bigrammap-test"))
}

func TestBigramProbabilityComposesCachedHit(t *testing.T) {
	tr := newTestTrie()
	tr.AddUnigram(cps("cat"), 200)
	tr.AddUnigram(cps("nap"), 8)
	tr.AddBigram(cps("cat"), cps("nap"), 10)

	catPos := tr.Lookup(cps("cat"), false)
	napPos := tr.Lookup(cps("nap"), false)

	m := New(tr)
	got := m.BigramProbability(catPos, napPos, 200)
	want := codec.Bigram(200, 10)
	if got != want {
		t.Errorf("BigramProbability = %d, want %d", got, want)
	}
}

func TestBigramProbabilityBacksOffOnMiss(t *testing.T) {
	tr := newTestTrie()
	tr.AddUnigram(cps("cat"), 200)
	tr.AddUnigram(cps("dog"), 150)
	catPos := tr.Lookup(cps("cat"), false)
	dogPos := tr.Lookup(cps("dog"), false)

	m := New(tr)
	got := m.BigramProbability(catPos, dogPos, 200)
	want := codec.Backoff(200)
	if got != want {
		t.Errorf("BigramProbability (no bigram) = %d, want backoff %d", got, want)
	}
}

func TestBigramProbabilityFallsThroughPastCacheBound(t *testing.T) {
	tr := newTestTrie()
	prevPositions := make([]int, 0, MaxCachedPrevWordsInBigramMap+1)
	for i := 0; i < MaxCachedPrevWordsInBigramMap+1; i++ {
		word := cps(string(rune('a'+i)) + "x")
		tr.AddUnigram(word, 100)
		prevPositions = append(prevPositions, tr.Lookup(word, false))
	}
	tr.AddUnigram(cps("nap"), 8)
	napPos := tr.Lookup(cps("nap"), false)
	for _, p := range prevPositions {
		_, word := p, ""
		_ = word
		tr.AddBigram(wordAt(tr, p), cps("nap"), 5)
	}

	m := New(tr)
	for _, p := range prevPositions {
		got := m.BigramProbability(p, napPos, 100)
		want := codec.Bigram(100, 5)
		if got != want {
			t.Errorf("BigramProbability(%d) = %d, want %d", p, got, want)
		}
	}
	if len(m.perWord) != MaxCachedPrevWordsInBigramMap {
		t.Errorf("cached prev-word count = %d, want exactly %d", len(m.perWord), MaxCachedPrevWordsInBigramMap)
	}
}

func wordAt(tr *dict.Trie, pos int) []dict.CodePoint {
	word, _ := tr.FetchWord(pos)
	return word
}

func TestClearEmptiesCache(t *testing.T) {
	tr := newTestTrie()
	tr.AddUnigram(cps("cat"), 200)
	tr.AddUnigram(cps("nap"), 8)
	tr.AddBigram(cps("cat"), cps("nap"), 10)
	catPos := tr.Lookup(cps("cat"), false)
	napPos := tr.Lookup(cps("nap"), false)

	m := New(tr)
	m.BigramProbability(catPos, napPos, 200)
	if len(m.perWord) != 1 {
		t.Fatalf("expected one cached entry before Clear, got %d", len(m.perWord))
	}
	m.Clear()
	if len(m.perWord) != 0 {
		t.Errorf("perWord not empty after Clear: %d", len(m.perWord))
	}
}
