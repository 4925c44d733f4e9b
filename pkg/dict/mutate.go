package dict

import (
	"time"

	"github.com/bastiangx/gboard-decode/internal/decay"
)

// Mutations keep existing positions stable: a node's content is either
// overwritten in place (case 1) or replaced by a node at a new position,
// with the old one marked moved and redirecting to it (cases 2 and 3).
// Existing records are also patched in place in these spots: the moved
// flag and redirect of a replaced node, a childless node's HasChildren and
// ChildrenPos when its first child array is created, the forward link of
// the last array in a sibling chain (case 4), and the sibling slot that a
// label split points at the new prefix node (case 3).

// AddUnigram inserts or updates a word's unigram probability, implementing
// the four cases of spec.md §4.4. Every terminal it touches is stamped (or
// re-stamped) with historical info, so the forgetting curve has something
// to age once the word stops being reinforced.
func (t *Trie) AddUnigram(word []CodePoint, probability int) bool {
	if len(word) == 0 || len(word) > MaxWordLength {
		return false
	}
	return t.addUnigramRec(t.rootArrayPos, word, 0, NotADictPos, probability, time.Now().Unix())
}

// freshHistoricalInfo stamps a word that has just become a terminal for the
// first time: level 0, never yet reinforced. A word that sits at level 0
// long enough without being typed again becomes eligible for GC's decay
// check (decay.NeedsToKeep).
func freshHistoricalInfo(now int64) *decay.HistoricalInfo {
	return &decay.HistoricalInfo{Level: 0, Timestamp: now, Count: 1}
}

// bumpHistoricalInfo reinforces an already-terminal word's decay state:
// its level climbs (capped at decay.MaxLevel) and its timestamp resets, per
// decay.CreateUpdatedHistoricalInfo. Used only on case 1 (overwrite of an
// existing terminal), never when a node becomes terminal for the first
// time.
func bumpHistoricalInfo(prev *decay.HistoricalInfo, now int64) *decay.HistoricalInfo {
	var base decay.HistoricalInfo
	if prev != nil {
		base = *prev
	}
	updated := decay.CreateUpdatedHistoricalInfo(base, now)
	return &updated
}

func (t *Trie) addUnigramRec(arrayPos int, word []CodePoint, matched int, parentPos int, probability int, now int64) bool {
	searchArrayPos := arrayPos
	for searchArrayPos != NotADictPos {
		arr := t.arrays[searchArrayPos]
		if arr == nil {
			return false
		}
		for idx, nodePos := range arr.Nodes {
			node, resolvedPos := t.resolveNode(nodePos)
			if node == nil || node.Flags.IsDeleted {
				continue
			}
			if matched >= len(word) || node.CodePoints[0] != word[matched] {
				continue
			}

			n := len(node.CodePoints)
			k := 0
			for k < n && matched+k < len(word) && node.CodePoints[k] == word[matched+k] {
				k++
			}

			if k == n {
				newMatched := matched + n
				if newMatched == len(word) {
					return t.finishExactMatch(node, probability, now)
				}
				if !node.Flags.HasChildren || node.ChildrenPos == NotADictPos {
					childArrayPos := t.allocArrayPos()
					t.arrays[childArrayPos] = &PtNodeArray{ForwardLinkPos: NotADictPos}
					node.Flags.HasChildren = true
					node.ChildrenPos = childArrayPos
					return t.addUnigramRec(childArrayPos, word, newMatched, resolvedPos, probability, now)
				}
				return t.addUnigramRec(node.ChildrenPos, word, newMatched, resolvedPos, probability, now)
			}

			// k < n, k > 0 (first code point always matched above): split.
			return t.splitNode(searchArrayPos, idx, resolvedPos, node, k, word, matched, probability, parentPos, now)
		}
		if arr.ForwardLinkPos == NotADictPos {
			return t.appendNewChild(searchArrayPos, word, matched, parentPos, probability, now)
		}
		searchArrayPos = arr.ForwardLinkPos
	}
	return false
}

// finishExactMatch handles cases 1 (overwrite) and 2 (promote to terminal).
func (t *Trie) finishExactMatch(node *PtNode, probability int, now int64) bool {
	if node.Flags.IsTerminal {
		node.Probability = probability
		node.HistoricalInfo = bumpHistoricalInfo(node.HistoricalInfo, now)
		return true
	}
	newPos := t.allocNodePos()
	copyNode := *node
	copyNode.Flags.IsTerminal = true
	copyNode.Flags.IsMoved = false
	copyNode.Probability = probability
	copyNode.HistoricalInfo = freshHistoricalInfo(now)
	t.nodes[newPos] = &copyNode

	node.Flags.IsMoved = true
	node.ChildrenPos = newPos
	return true
}

// appendNewChild implements case 4: no matching child exists, so append a
// fresh PtNode in a fresh PtNodeArray and patch the forward-link of the
// last array in the sibling chain to point to it.
func (t *Trie) appendNewChild(lastArrayPos int, word []CodePoint, matched int, parentPos int, probability int, now int64) bool {
	newNodePos := t.allocNodePos()
	suffix := append([]CodePoint{}, word[matched:]...)
	t.nodes[newNodePos] = &PtNode{
		ParentPos:      parentPos,
		CodePoints:     suffix,
		Flags:          Flags{IsTerminal: true, HasMultipleChars: len(suffix) > 1},
		Probability:    probability,
		ChildrenPos:    NotADictPos,
		HistoricalInfo: freshHistoricalInfo(now),
	}
	newArrayPos := t.allocArrayPos()
	t.arrays[newArrayPos] = &PtNodeArray{Nodes: []int{newNodePos}, ForwardLinkPos: NotADictPos}
	t.arrays[lastArrayPos].ForwardLinkPos = newArrayPos
	return true
}

// splitNode implements case 3: word diverges from node's merged label at
// code point k (0 < k < len(node.CodePoints)).
//
// The original node's position becomes a forwarding stub whose redirect
// target (oldSuffixPos) carries the *same* content and children as before —
// this is what keeps existing grandchildren's ParentPos back-edges valid
// through a single hop. The sibling array slot, which must now describe a
// shorter shared-prefix label, is patched in place to point at the new
// prefix node instead.
func (t *Trie) splitNode(arrayPos, index, oldResolvedPos int, oldNode *PtNode, k int, word []CodePoint, matched int, probability int, parentPos int, now int64) bool {
	oldSuffixPos := t.allocNodePos()
	oldSuffix := &PtNode{
		ParentPos:      0, // filled in once newPrefixPos is known
		CodePoints:     append([]CodePoint{}, oldNode.CodePoints[k:]...),
		Flags:          oldNode.Flags,
		Probability:    oldNode.Probability,
		ChildrenPos:    oldNode.ChildrenPos,
		BigramsPos:     oldNode.BigramsPos,
		ShortcutsPos:   oldNode.ShortcutsPos,
		HistoricalInfo: oldNode.HistoricalInfo,
	}
	oldSuffix.Flags.IsMoved = false
	oldSuffix.Flags.HasMultipleChars = len(oldSuffix.CodePoints) > 1

	newPrefixPos := t.allocNodePos()
	oldSuffix.ParentPos = newPrefixPos
	t.nodes[oldSuffixPos] = oldSuffix

	if bigrams, ok := t.bigrams[oldResolvedPos]; ok {
		t.bigrams[oldSuffixPos] = bigrams
		delete(t.bigrams, oldResolvedPos)
	}
	if shortcuts, ok := t.shortcuts[oldResolvedPos]; ok {
		t.shortcuts[oldSuffixPos] = shortcuts
		delete(t.shortcuts, oldResolvedPos)
	}

	childArray := &PtNodeArray{Nodes: []int{oldSuffixPos}, ForwardLinkPos: NotADictPos}

	newPrefix := &PtNode{
		ParentPos:  parentPos,
		CodePoints: append([]CodePoint{}, oldNode.CodePoints[:k]...),
		Flags:      Flags{HasMultipleChars: k > 1, HasChildren: true},
	}

	remainderStart := matched + k
	if remainderStart == len(word) {
		newPrefix.Flags.IsTerminal = true
		newPrefix.Probability = probability
		newPrefix.HistoricalInfo = freshHistoricalInfo(now)
	} else {
		newSuffixPos := t.allocNodePos()
		suffix := append([]CodePoint{}, word[remainderStart:]...)
		t.nodes[newSuffixPos] = &PtNode{
			ParentPos:      newPrefixPos,
			CodePoints:     suffix,
			Flags:          Flags{IsTerminal: true, HasMultipleChars: len(suffix) > 1},
			Probability:    probability,
			ChildrenPos:    NotADictPos,
			HistoricalInfo: freshHistoricalInfo(now),
		}
		childArray.Nodes = append(childArray.Nodes, newSuffixPos)
	}

	childArrayPos := t.allocArrayPos()
	t.arrays[childArrayPos] = childArray
	newPrefix.ChildrenPos = childArrayPos
	t.nodes[newPrefixPos] = newPrefix

	oldNode.Flags.IsMoved = true
	oldNode.ChildrenPos = oldSuffixPos

	t.arrays[arrayPos].Nodes[index] = newPrefixPos
	return true
}


// AddBigram records (or updates) a bigram from src to tgt with the given
// probability. Fails if either word is not a terminal, per spec.md §4.4.
func (t *Trie) AddBigram(src, tgt []CodePoint, probability int) bool {
	srcPos := t.Lookup(src, false)
	tgtPos := t.Lookup(tgt, false)
	if srcPos == NotADictPos || tgtPos == NotADictPos {
		return false
	}
	return t.addBigramAt(srcPos, tgtPos, probability)
}

func (t *Trie) addBigramAt(srcPos, tgtPos, probability int) bool {
	node, resolvedPos := t.resolveNode(srcPos)
	if node == nil {
		return false
	}

	if node.Flags.HasBigrams {
		list := t.bigrams[resolvedPos]
		for i := range list {
			if list[i].TargetPos == tgtPos && !list[i].Deleted {
				list[i].Probability = probability
				return true
			}
		}
		list = append(list, BigramEntry{TargetPos: tgtPos, Probability: probability, Next: -1})
		t.bigrams[resolvedPos] = list
		return true
	}

	newPos := t.allocNodePos()
	copyNode := *node
	copyNode.Flags.IsMoved = false
	copyNode.Flags.HasBigrams = true
	t.nodes[newPos] = &copyNode
	t.bigrams[newPos] = []BigramEntry{{TargetPos: tgtPos, Probability: probability, Next: -1}}

	node.Flags.IsMoved = true
	node.ChildrenPos = newPos
	return true
}

// RemoveBigram marks the matching bigram entry deleted without rewriting
// siblings, per spec.md §4.4.
func (t *Trie) RemoveBigram(src, tgt []CodePoint) bool {
	srcPos := t.Lookup(src, false)
	tgtPos := t.Lookup(tgt, false)
	if srcPos == NotADictPos || tgtPos == NotADictPos {
		return false
	}
	_, resolvedPos := t.resolveNode(srcPos)
	list := t.bigrams[resolvedPos]
	for i := range list {
		if list[i].TargetPos == tgtPos && !list[i].Deleted {
			list[i].Deleted = true
			return true
		}
	}
	return false
}

// IsValidBigram reports whether src has a live (non-deleted) bigram to tgt.
func (t *Trie) IsValidBigram(src, tgt []CodePoint) bool {
	srcPos := t.Lookup(src, false)
	tgtPos := t.Lookup(tgt, false)
	if srcPos == NotADictPos || tgtPos == NotADictPos {
		return false
	}
	_, resolvedPos := t.resolveNode(srcPos)
	for _, e := range t.bigrams[resolvedPos] {
		if e.TargetPos == tgtPos && !e.Deleted {
			return true
		}
	}
	return false
}

// Bigrams returns the live bigram successors of a terminal position.
func (t *Trie) Bigrams(terminalPos int) []BigramEntry {
	_, resolvedPos := t.resolveNode(terminalPos)
	var out []BigramEntry
	for _, e := range t.bigrams[resolvedPos] {
		if !e.Deleted {
			out = append(out, e)
		}
	}
	return out
}

// Shortcuts returns the shortcut targets attached to a terminal position.
func (t *Trie) Shortcuts(terminalPos int) []ShortcutEntry {
	_, resolvedPos := t.resolveNode(terminalPos)
	return t.shortcuts[resolvedPos]
}

// AddShortcut attaches a shortcut target to an existing terminal.
func (t *Trie) AddShortcut(word []CodePoint, target []CodePoint, probability int) bool {
	pos := t.Lookup(word, false)
	if pos == NotADictPos {
		return false
	}
	node, resolvedPos := t.resolveNode(pos)
	node.Flags.HasShortcuts = true
	t.shortcuts[resolvedPos] = append(t.shortcuts[resolvedPos], ShortcutEntry{
		CodePoints:  append([]CodePoint{}, target...),
		Probability: probability,
	})
	return true
}
