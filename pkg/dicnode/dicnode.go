// Package dicnode implements the traversal frontier record Suggest walks
// during best-first search: a partial decoding hypothesis pinned to a
// trie position, the input index it has consumed up to, the output word
// built so far, and its accumulated cost. Grounded on
// original_source/native/src/dic_node.h and dic_node_vector.h.
package dicnode

import "github.com/bastiangx/gboard-decode/pkg/dict"

// Flags marks the shape of a DicNode's current position in the search.
type Flags struct {
	IsLeavingNode bool // true once the node has completed a word at a terminal
	IsRoot        bool
}

// DicNode is one hypothesis in the decoder's best-first search frontier.
type DicNode struct {
	PtNodePos  int // current position in the trie
	Depth      int // trie depth reached (code points consumed from the node's own label)
	InputIndex int // number of input touch points consumed
	Word       []dict.CodePoint

	// Cost is an accumulated match-quality score: it starts at 1.0 at the
	// root and is multiplied down by each edit demotion Suggest applies
	// (see the matchCost table), so a higher Cost is a better match — the
	// opposite sense of a classic edit-distance cost.
	Cost float64

	// PrevWordTerminalPos is the previous word's terminal position, used to
	// look up bigram probabilities when this node later completes a word.
	// dict.NotADictPos when this is the first word of the composing span.
	PrevWordTerminalPos int

	Flags Flags
}

// Root builds the initial frontier node: no input consumed, sitting at the
// trie's root array, Cost 1.0 (no demotion applied yet).
func Root(prevWordTerminalPos int) DicNode {
	return DicNode{
		PtNodePos:           dict.NotADictPos,
		Cost:                1.0,
		PrevWordTerminalPos: prevWordTerminalPos,
		Flags:               Flags{IsRoot: true},
	}
}

// MaxArenaSize bounds how many live DicNodes a single Suggest call will
// track at once, independent of MAX_RESULTS (the output bound); this is
// the search-frontier bound, not the result-list bound.
const MaxArenaSize = 4096

// Vector is a bounded pool of live DicNodes for one Suggest traversal. It
// is not priority-ordered: Suggest keeps its own best-first queue of
// (DicNode, trie array position) pairs to decide expansion order; Vector
// is the admission gate those queue entries must pass through first, so a
// pathological input (one that would otherwise spawn unbounded frontier
// growth) stops producing new hypotheses once the arena fills rather than
// exhausting memory.
type Vector struct {
	nodes []DicNode
	cap   int
}

// NewVector creates an empty arena bounded at cap entries (MaxArenaSize if
// cap <= 0).
func NewVector(cap int) *Vector {
	if cap <= 0 {
		cap = MaxArenaSize
	}
	return &Vector{cap: cap}
}

// Len reports how many nodes are currently live in the arena.
func (v *Vector) Len() int { return len(v.nodes) }

// At returns the node at index i.
func (v *Vector) At(i int) DicNode { return v.nodes[i] }

// Reset empties the arena for reuse across Suggest calls without
// reallocating its backing array.
func (v *Vector) Reset() { v.nodes = v.nodes[:0] }

// PushPassingChild derives a child hypothesis that continues matching
// within the same word: it advances past label (a Patricia node's label,
// often more than one code point) without completing a terminal.
// consumedInput and matchMultiplier are the totals the caller's own
// edit-distance matching (proximity/transposed/excessive/missing
// demotions, see pkg/suggest) already worked out for this step; Vector's
// job is only to build the resulting node and admit it if the arena has
// room, not to re-derive the match.
func (v *Vector) PushPassingChild(parent DicNode, childPos int, label []dict.CodePoint, consumedInput int, matchMultiplier float64) (DicNode, bool) {
	if len(v.nodes) >= v.cap {
		return DicNode{}, false
	}
	child := DicNode{
		PtNodePos:           childPos,
		Depth:               parent.Depth + len(label),
		InputIndex:          consumedInput,
		Word:                appendCodePoints(parent.Word, label),
		Cost:                parent.Cost * matchMultiplier,
		PrevWordTerminalPos: parent.PrevWordTerminalPos,
		Flags:               Flags{},
	}
	v.nodes = append(v.nodes, child)
	return child, true
}

// PushLeavingChild derives the hypothesis that begins a new word right
// after completing the one at terminalPos: delimiter (a space, when
// composing a multi-word suggestion) is appended to the word built so
// far, and PrevWordTerminalPos is set to terminalPos so the new word can
// later be scored against this one via the bigram table. matchMultiplier
// is the transition's demotion (e.g. the missing-space cost).
func (v *Vector) PushLeavingChild(parent DicNode, delimiter dict.CodePoint, terminalPos int, matchMultiplier float64) (DicNode, bool) {
	if len(v.nodes) >= v.cap {
		return DicNode{}, false
	}
	child := DicNode{
		PtNodePos:           terminalPos,
		Depth:               parent.Depth + 1,
		InputIndex:          parent.InputIndex,
		Word:                appendCodePoints(parent.Word, []dict.CodePoint{delimiter}),
		Cost:                parent.Cost * matchMultiplier,
		PrevWordTerminalPos: terminalPos,
		Flags:               Flags{IsLeavingNode: true},
	}
	v.nodes = append(v.nodes, child)
	return child, true
}

func appendCodePoints(word, label []dict.CodePoint) []dict.CodePoint {
	out := make([]dict.CodePoint, len(word)+len(label))
	copy(out, word)
	copy(out[len(word):], label)
	return out
}
