package suggest

import (
	"testing"

	"github.com/bastiangx/gboard-decode/internal/codec"
	"github.com/bastiangx/gboard-decode/internal/logger"
	"github.com/bastiangx/gboard-decode/internal/proximity"
	"github.com/bastiangx/gboard-decode/pkg/config"
	"github.com/bastiangx/gboard-decode/pkg/dict"
)

func newTestTrie() *dict.Trie {
	return dict.NewTrie(logger.New("suggest-test"))
}

// testKeyboard lays out keys ten units apart on a line, far enough that no
// two keys are accidental neighbors, except 'q' which sits beside 'a' to
// exercise proximity demotion.
func testKeyboard() *proximity.GridInfo {
	layout := []struct {
		CodePoint rune
		X, Y      float64
		NearSpace bool
	}{
		{'c', 0, 0, false},
		{'a', 10, 0, false},
		{'q', 10.5, 0, false},
		{'t', 20, 0, false},
		{'r', 30, 0, false},
		{'d', 40, 0, false},
		{'n', 50, 0, false},
		{'p', 60, 0, false},
	}
	return proximity.NewGridInfo(layout, 1)
}

func sample(cp dict.CodePoint) InputSample {
	return InputSample{PrimaryCodePoint: cp}
}

func word(c Candidate) string {
	return string(c.CodePoints)
}

func TestSuggestExactMatchRanksFullMatchBonusFirst(t *testing.T) {
	trie := newTestTrie()
	trie.AddUnigram([]dict.CodePoint("cat"), 200)
	trie.AddUnigram([]dict.CodePoint("car"), 180)
	trie.AddUnigram([]dict.CodePoint("card"), 160)

	s := New(trie, testKeyboard(), config.DefaultConfig().Decoder)
	results := s.Suggest(Request{
		Input:               []InputSample{sample('c'), sample('a'), sample('t')},
		PrevWordTerminalPos: dict.NotADictPos,
		MaxResults:          10,
	})

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3: %+v", len(results), results)
	}
	// A word just added via AddUnigram starts at forgetting-curve level 0,
	// so its effective probability at zero elapsed time is the curve's
	// level-0 bucket (30), not the raw stored probability.
	if word(results[0]) != "cat" || results[0].Score != 36 {
		t.Errorf("results[0] = %q/%d, want cat/36 (30 * 1.2 full-match bonus)", word(results[0]), results[0].Score)
	}
	if word(results[1]) != "car" || results[1].Score != 24 {
		t.Errorf("results[1] = %q/%d, want car/24 (30 * 0.8 missing-char)", word(results[1]), results[1].Score)
	}
	if word(results[2]) != "card" {
		t.Errorf("results[2] = %q, want card", word(results[2]))
	}
	if results[0].Type != Prediction {
		t.Errorf("exact match should classify as Prediction, got %v", results[0].Type)
	}
}

func TestSuggestProximityNeighborDemotesWithoutFullMatchBonus(t *testing.T) {
	trie := newTestTrie()
	trie.AddUnigram([]dict.CodePoint("cat"), 200)

	s := New(trie, testKeyboard(), config.DefaultConfig().Decoder)
	results := s.Suggest(Request{
		Input:      []InputSample{sample('c'), sample('q'), sample('t')},
		MaxResults: 10,
	})

	if len(results) == 0 || word(results[0]) != "cat" {
		t.Fatalf("want cat as top result, got %+v", results)
	}
	// Fresh AddUnigram entries start at forgetting-curve level 0, so the
	// effective probability at zero elapsed time is the curve's level-0
	// bucket (30) rather than the raw stored probability (200).
	if results[0].Score != 27 {
		t.Errorf("cat score = %d, want 27 (30 * 0.90, no full-match stacking)", results[0].Score)
	}
	if results[0].Type != Correction {
		t.Errorf("demoted match should classify as Correction, got %v", results[0].Type)
	}
}

func TestSuggestRespectsMaxResults(t *testing.T) {
	trie := newTestTrie()
	trie.AddUnigram([]dict.CodePoint("cat"), 200)
	trie.AddUnigram([]dict.CodePoint("car"), 180)
	trie.AddUnigram([]dict.CodePoint("card"), 160)

	s := New(trie, testKeyboard(), config.DefaultConfig().Decoder)
	results := s.Suggest(Request{
		Input:      []InputSample{sample('c'), sample('a'), sample('t')},
		MaxResults: 2,
	})

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if word(results[0]) != "cat" || word(results[1]) != "car" {
		t.Errorf("got %q, %q; want cat, car", word(results[0]), word(results[1]))
	}
}

func TestSuggestPredictionModeUsesComposedBigram(t *testing.T) {
	trie := newTestTrie()
	trie.AddUnigram([]dict.CodePoint("cat"), 200)
	trie.AddUnigram([]dict.CodePoint("nap"), 8)
	if !trie.AddBigram([]dict.CodePoint("cat"), []dict.CodePoint("nap"), 10) {
		t.Fatal("AddBigram failed")
	}
	catPos := trie.Lookup([]dict.CodePoint("cat"), false)

	s := New(trie, testKeyboard(), config.DefaultConfig().Decoder)
	results := s.Suggest(Request{PrevWordTerminalPos: catPos, MaxResults: 10})

	if len(results) != 1 || word(results[0]) != "nap" {
		t.Fatalf("got %+v, want single candidate nap", results)
	}
	want := codec.Bigram(8, 10)
	if results[0].Score != want {
		t.Errorf("nap score = %d, want %d", results[0].Score, want)
	}
}

func TestSuggestRemovedBigramExcludedFromPrediction(t *testing.T) {
	trie := newTestTrie()
	trie.AddUnigram([]dict.CodePoint("cat"), 200)
	trie.AddUnigram([]dict.CodePoint("nap"), 8)
	trie.AddBigram([]dict.CodePoint("cat"), []dict.CodePoint("nap"), 10)
	catPos := trie.Lookup([]dict.CodePoint("cat"), false)

	if !trie.RemoveBigram([]dict.CodePoint("cat"), []dict.CodePoint("nap")) {
		t.Fatal("RemoveBigram failed")
	}

	s := New(trie, testKeyboard(), config.DefaultConfig().Decoder)
	results := s.Suggest(Request{PrevWordTerminalPos: catPos, MaxResults: 10})
	if len(results) != 0 {
		t.Errorf("got %+v, want no predictions after bigram removal", results)
	}
}

func TestSuggestPredictionModeWithNoPrevWordReturnsNothing(t *testing.T) {
	trie := newTestTrie()
	trie.AddUnigram([]dict.CodePoint("cat"), 200)

	s := New(trie, testKeyboard(), config.DefaultConfig().Decoder)
	results := s.Suggest(Request{PrevWordTerminalPos: dict.NotADictPos, MaxResults: 10})
	if len(results) != 0 {
		t.Errorf("got %+v, want no predictions with no previous word", results)
	}
}

func TestSuggestEmitsAttachedShortcut(t *testing.T) {
	trie := newTestTrie()
	trie.AddUnigram([]dict.CodePoint("cat"), 200)
	if !trie.AddShortcut([]dict.CodePoint("cat"), []dict.CodePoint("🐱"), 230) {
		t.Fatal("AddShortcut failed")
	}

	s := New(trie, testKeyboard(), config.DefaultConfig().Decoder)
	results := s.Suggest(Request{
		Input:      []InputSample{sample('c'), sample('a'), sample('t')},
		MaxResults: 10,
	})

	var sawShortcut bool
	for _, c := range results {
		if c.Type == Shortcut && word(c) == "🐱" {
			sawShortcut = true
			if c.Score != 276 { // 230 * 1.20 full-match bonus
				t.Errorf("shortcut score = %d, want 276", c.Score)
			}
		}
	}
	if !sawShortcut {
		t.Errorf("got %+v, want a shortcut candidate among results", results)
	}
}
