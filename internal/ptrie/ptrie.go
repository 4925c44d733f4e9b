// Package ptrie maintains a read-only mirror of a dictionary's words in a
// github.com/tchap/go-patricia/v2/patricia trie, keyed by lowercased word
// with the trie terminal position as its stored item. The PtTrie itself
// supports exact lookup and child-by-child walks, but neither is cheap for
// "every word starting with this prefix", which the CLI debug command needs
// to list words under a prefix. Suggest does not use this mirror. Adapted from the deleted pkg/suggest/trie.go's SearchTrie /
// VisitSubtree pattern.
package ptrie

import (
	"sort"

	"github.com/bastiangx/gboard-decode/pkg/dict"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Entry is one word reachable under a queried prefix, alongside the
// position of its terminal in the owning dict.Trie.
type Entry struct {
	Word string
	Pos  int
}

// Mirror wraps a patricia.Trie built from a dict.Trie's live words. It is
// built once after a dictionary load or mutation batch and is stale the
// moment the underlying dict.Trie mutates again; callers rebuild via Build
// when that matters.
type Mirror struct {
	pt *patricia.Trie
}

// Build walks every live word in trie and inserts it (lowercased) into a
// fresh patricia trie, grounded on original_source's approach of keeping a
// flat word list trie alongside the binary dictionary for fast prefix scans.
func Build(trie *dict.Trie) *Mirror {
	pt := patricia.NewTrie()
	var walk func(arrayPos int)
	walk = func(arrayPos int) {
		for _, child := range trie.EnumerateChildren(arrayPos) {
			node, resolvedPos := trie.Node(child.Pos)
			if node == nil {
				continue
			}
			if node.Flags.IsTerminal {
				word, _ := trie.FetchWord(resolvedPos)
				if word != nil {
					pt.Insert(patricia.Prefix(lowerCodePoints(word)), resolvedPos)
				}
			}
			if node.Flags.HasChildren && node.ChildrenPos != dict.NotADictPos {
				walk(node.ChildrenPos)
			}
		}
	}
	walk(trie.RootArrayPos())
	return &Mirror{pt: pt}
}

func lowerCodePoints(word []dict.CodePoint) []byte {
	out := make([]byte, 0, len(word))
	for _, cp := range word {
		if cp >= 'A' && cp <= 'Z' {
			cp = cp - 'A' + 'a'
		}
		out = append(out, []byte(string(cp))...)
	}
	return out
}

// WordsWithPrefix returns every word stored under prefix (lowercased before
// matching), sorted lexicographically and capped at limit entries (0 means
// unlimited). The prefix itself is included only if it is itself a stored
// word.
func (m *Mirror) WordsWithPrefix(prefix string, limit int) []Entry {
	if m == nil || m.pt == nil {
		return nil
	}
	var out []Entry
	lower := make([]byte, 0, len(prefix))
	for _, r := range prefix {
		if r >= 'A' && r <= 'Z' {
			r = r - 'A' + 'a'
		}
		lower = append(lower, []byte(string(r))...)
	}

	_ = m.pt.VisitSubtree(patricia.Prefix(lower), func(p patricia.Prefix, item patricia.Item) error {
		pos, ok := item.(int)
		if !ok {
			return nil
		}
		out = append(out, Entry{Word: string(p), Pos: pos})
		return nil
	})

	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// HasWord reports whether word is present in the mirror exactly.
func (m *Mirror) HasWord(word string) bool {
	if m == nil || m.pt == nil {
		return false
	}
	return m.pt.Get(patricia.Prefix(word)) != nil
}
