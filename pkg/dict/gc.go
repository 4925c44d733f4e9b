package dict

import (
	"time"

	"github.com/bastiangx/gboard-decode/internal/decay"
)

// GC performs the mark/copy/fixup compaction spec.md §4.4 describes:
// moved stubs, deleted nodes, deleted bigram entries, and terminals the
// forgetting curve has decided to forget are dropped, and every surviving
// node/array/bigram is rewritten into a fresh, densely packed position
// space. The rebuild is atomic from callers' point of view — t is only
// swapped to the new content once the whole pass succeeds — so a GC that
// panicked partway (it never does, but the shape matters) would leave t
// untouched rather than half-compacted.
type CompactionStats struct {
	LiveNodes         int
	MovedStubsDropped int
	DeletedDropped    int
	BigramsDropped    int
	DecayedDropped    int
}

type gcPass struct {
	old            *Trie
	next           *Trie
	nodeMap        map[int]int // old resolved position -> new position
	pendingBigrams map[int][]BigramEntry
	stats          CompactionStats
	now            int64
}

// GC compacts t in place and reports what it reclaimed. A terminal carrying
// HistoricalInfo is marked useless (and dropped, same as an IsDeleted node)
// once decay.NeedsToKeep says the forgetting curve has aged it out. A
// decayed terminal that still has children is kept as a non-terminal
// prefix node, so the words below it survive.
func (t *Trie) GC() CompactionStats {
	next := &Trie{
		nodes:     make(map[int]*PtNode),
		arrays:    make(map[int]*PtNodeArray),
		bigrams:   make(map[int][]BigramEntry),
		shortcuts: make(map[int][]ShortcutEntry),
		log:       t.log,
	}
	next.rootArrayPos = next.allocArrayPos()
	next.arrays[next.rootArrayPos] = &PtNodeArray{ForwardLinkPos: NotADictPos}

	pass := &gcPass{
		old:            t,
		next:           next,
		nodeMap:        make(map[int]int),
		pendingBigrams: make(map[int][]BigramEntry),
		now:            time.Now().Unix(),
	}
	pass.copyArrayChain(t.rootArrayPos, next.rootArrayPos, NotADictPos)
	pass.fixupBigrams()

	*t = *next
	return pass.stats
}

func (p *gcPass) copyArrayChain(oldArrayPos, newArrayPos, newParentPos int) {
	arrayPos := oldArrayPos
	for arrayPos != NotADictPos {
		arr, ok := p.old.arrays[arrayPos]
		if !ok {
			break
		}
		for _, nodePos := range arr.Nodes {
			node, resolvedPos := p.old.resolveNode(nodePos)
			if node == nil {
				continue
			}
			if node.Flags.IsDeleted {
				p.stats.DeletedDropped++
				continue
			}
			if node.Flags.IsTerminal && node.HistoricalInfo != nil && !decay.NeedsToKeep(*node.HistoricalInfo, p.now, 0) {
				p.stats.DecayedDropped++
				if !node.Flags.HasChildren || node.ChildrenPos == NotADictPos {
					continue
				}
				kept := *node
				kept.Flags.IsTerminal = false
				kept.Flags.HasBigrams = false
				kept.Flags.HasShortcuts = false
				kept.Probability = NotAProbability
				kept.HistoricalInfo = nil
				node = &kept
			}
			if nodePos != resolvedPos {
				p.stats.MovedStubsDropped++
			}
			p.copyNode(node, resolvedPos, newArrayPos, newParentPos)
		}
		arrayPos = arr.ForwardLinkPos
	}
}

func (p *gcPass) copyNode(node *PtNode, resolvedPos, newArrayPos, newParentPos int) {
	newPos, already := p.nodeMap[resolvedPos]
	if already {
		p.next.arrays[newArrayPos].Nodes = append(p.next.arrays[newArrayPos].Nodes, newPos)
		return
	}
	newPos = p.next.allocNodePos()
	p.nodeMap[resolvedPos] = newPos
	p.stats.LiveNodes++

	newNode := &PtNode{
		ParentPos:      newParentPos,
		CodePoints:     append([]CodePoint{}, node.CodePoints...),
		Flags:          node.Flags,
		Probability:    node.Probability,
		ChildrenPos:    NotADictPos,
		HistoricalInfo: node.HistoricalInfo,
	}
	newNode.Flags.IsMoved = false
	p.next.nodes[newPos] = newNode
	p.next.arrays[newArrayPos].Nodes = append(p.next.arrays[newArrayPos].Nodes, newPos)

	if node.Flags.HasShortcuts {
		if entries := p.old.shortcuts[resolvedPos]; len(entries) > 0 {
			p.next.shortcuts[newPos] = append([]ShortcutEntry{}, entries...)
		} else {
			newNode.Flags.HasShortcuts = false
		}
	}
	if node.Flags.HasBigrams {
		if live := p.old.Bigrams(resolvedPos); len(live) > 0 {
			p.pendingBigrams[newPos] = live
		} else {
			newNode.Flags.HasBigrams = false
		}
	}

	if node.Flags.HasChildren && node.ChildrenPos != NotADictPos {
		newChildArrayPos := p.next.allocArrayPos()
		p.next.arrays[newChildArrayPos] = &PtNodeArray{ForwardLinkPos: NotADictPos}
		newNode.ChildrenPos = newChildArrayPos
		p.copyArrayChain(node.ChildrenPos, newChildArrayPos, newPos)
	} else {
		newNode.Flags.HasChildren = false
	}
}

// fixupBigrams remaps bigram targets now that every live node has a final
// position. A target that no longer maps (its word was deleted) is simply
// dropped; there is nothing for the suggestion path to do with a bigram
// pointing at nothing.
func (p *gcPass) fixupBigrams() {
	for newPos, entries := range p.pendingBigrams {
		var kept []BigramEntry
		for _, e := range entries {
			_, oldResolvedTarget := p.old.resolveNode(e.TargetPos)
			newTarget, ok := p.nodeMap[oldResolvedTarget]
			if !ok {
				p.stats.BigramsDropped++
				continue
			}
			kept = append(kept, BigramEntry{TargetPos: newTarget, Probability: e.Probability, Next: -1})
		}
		if len(kept) == 0 {
			p.next.nodes[newPos].Flags.HasBigrams = false
			continue
		}
		p.next.bigrams[newPos] = kept
	}
}
