// Package dict implements the binary dictionary representation: an
// append-only, dynamically-updatable Patricia trie ("PtTrie") whose nodes
// are identified by their byte offset into a logical buffer, carrying
// unigram probabilities, bigram successor lists, and shortcut targets.
package dict

import "github.com/bastiangx/gboard-decode/internal/decay"

// NotADictPos is the sentinel "no position" value. The dictionary header
// occupies offsets [0, headerSize), so no real node ever starts at 0 —
// spec.md's open question about this collision is resolved by that
// invariant, not by reserving a bit.
const NotADictPos = 0

// AddressMask caps addressable offsets at 22 bits (4 MiB), matching the
// on-disk 3-byte address fields.
const AddressMask = 0x3FFFFF

// MaxWordLength bounds the code points in a single word/terminal path.
const MaxWordLength = 48

// NotAProbability marks the absence of a probability (non-terminal nodes).
const NotAProbability = -1

// MaxProbability is the top of the unigram probability scale.
const MaxProbability = 255

// CodePoint is a single Unicode scalar value. Per spec.md §3, 0 terminates
// a word buffer and negative values are reserved as sentinels.
type CodePoint = rune

// Flags captures the PtNode attribute bits of spec.md §3.
type Flags struct {
	IsTerminal       bool
	IsDeleted        bool
	IsMoved          bool
	IsBlacklisted    bool
	IsNotAWord       bool
	HasChildren      bool
	HasMultipleChars bool
	HasBigrams       bool
	HasShortcuts     bool
}

// PtNode is the unit of the trie: a merged Patricia label plus whatever
// terminal/child/list pointers apply. headPos is this node's own identity;
// it is never stored on the node itself (the position is the map key in
// Trie.nodes) so that moving a node cannot accidentally duplicate its
// identity.
type PtNode struct {
	Flags        Flags
	ParentPos    int // 0 == root
	CodePoints   []CodePoint
	Probability  int // NotAProbability unless Flags.IsTerminal
	ChildrenPos  int // NotADictPos, or (if IsMoved) the redirect target
	BigramsPos   int
	ShortcutsPos int

	// HistoricalInfo is non-nil only for v4 (decaying) dictionaries.
	HistoricalInfo *decay.HistoricalInfo
}

// PtNodeArray is a contiguous sibling list: an ordered set of PtNode
// positions, optionally chained to an overflow array via ForwardLinkPos
// when later mutations appended siblings after the array was written.
type PtNodeArray struct {
	Nodes          []int // positions of PtNodes in this array, in order
	ForwardLinkPos int   // NotADictPos, or position of overflow PtNodeArray
}

// BigramEntry is one successor in a terminal's bigram list. A list is a
// plain slice kept in insertion order; removal marks an entry Deleted, and
// GC drops deleted entries.
type BigramEntry struct {
	TargetPos   int
	Probability int // 0..15 (codec.MaxBigramProbability)
	Deleted     bool
	Next        int // always -1; list order is the slice order
}

// ShortcutEntry maps a terminal to an alternate output, e.g. an emoji or
// auto-correct target.
type ShortcutEntry struct {
	CodePoints  []CodePoint
	Probability int
}
