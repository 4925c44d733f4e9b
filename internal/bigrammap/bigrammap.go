// Package bigrammap caches per-previous-word bigram lookups for a single
// suggestion search. Walking the trie's bigram list is cheap once, but a
// multi-word suggestion may revisit the same previous-word terminal many
// times across competing DicNode branches, so the first lookup for a given
// position is cached for the rest of the search. Grounded on
// original_source/native/src/suggest/core/dictionary/multi_bigram_map.h.
package bigrammap

import (
	"github.com/bastiangx/gboard-decode/internal/codec"
	"github.com/bastiangx/gboard-decode/pkg/dict"
	"github.com/bits-and-blooms/bitset"
)

// MaxCachedPrevWordsInBigramMap bounds how many distinct previous-word
// positions get a cached BigramMap before the search falls back to an
// uncached linear scan per lookup.
const MaxCachedPrevWordsInBigramMap = 12

// filterBits sizes the per-entry bloom filter at 256 bits, as the lookup
// needs only a cheap pre-check before a real map probe, not a tight
// false-positive bound.
const filterBits = 256

// MultiBigramMap is owned by one search call and discarded at its end; it
// retains no state across separate getSuggestions invocations.
type MultiBigramMap struct {
	trie    *dict.Trie
	perWord map[int]*bigramMap
}

// New creates an empty cache over trie's bigram lists.
func New(trie *dict.Trie) *MultiBigramMap {
	return &MultiBigramMap{trie: trie, perWord: make(map[int]*bigramMap)}
}

// Clear drops every cached per-word map, returning the MultiBigramMap to its
// post-New state for reuse across searches without reallocating.
func (m *MultiBigramMap) Clear() {
	for k := range m.perWord {
		delete(m.perWord, k)
	}
}

// BigramProbability returns the composed probability for the successor at
// nextWordPos following wordPos, backing off to codec.Backoff(unigramProb)
// when no live bigram connects them. The first lookup for a given wordPos
// fills and caches its bigram map, provided the cache has not yet reached
// MaxCachedPrevWordsInBigramMap; beyond that bound, lookups fall through to
// an uncached scan of the trie's live bigram list every time.
func (m *MultiBigramMap) BigramProbability(wordPos, nextWordPos, unigramProb int) int {
	if bm, ok := m.perWord[wordPos]; ok {
		return bm.probability(nextWordPos, unigramProb)
	}
	if len(m.perWord) < MaxCachedPrevWordsInBigramMap {
		bm := newBigramMap(m.trie, wordPos)
		m.perWord[wordPos] = bm
		return bm.probability(nextWordPos, unigramProb)
	}
	return scanForProbability(m.trie, wordPos, nextWordPos, unigramProb)
}

// bigramMap is the per-previous-word cache: an exact position->probability
// map gated by a bloom filter so a miss never pays for the real map probe.
type bigramMap struct {
	probs  map[int]int
	filter *bitset.BitSet
}

func newBigramMap(trie *dict.Trie, wordPos int) *bigramMap {
	bm := &bigramMap{
		probs:  make(map[int]int),
		filter: bitset.New(filterBits),
	}
	for _, e := range trie.Bigrams(wordPos) {
		bm.probs[e.TargetPos] = e.Probability
		bm.filter.Set(filterIndex(e.TargetPos))
	}
	return bm
}

func (bm *bigramMap) probability(nextWordPos, unigramProb int) int {
	if bm.filter.Test(filterIndex(nextWordPos)) {
		if bigramProb, ok := bm.probs[nextWordPos]; ok {
			return codec.Bigram(unigramProb, bigramProb)
		}
	}
	return codec.Backoff(unigramProb)
}

func scanForProbability(trie *dict.Trie, wordPos, nextWordPos, unigramProb int) int {
	for _, e := range trie.Bigrams(wordPos) {
		if e.TargetPos == nextWordPos {
			return codec.Bigram(unigramProb, e.Probability)
		}
	}
	return codec.Backoff(unigramProb)
}

func filterIndex(pos int) uint {
	h := uint(pos)
	h ^= h >> 15
	h *= 2654435761
	return h % filterBits
}
