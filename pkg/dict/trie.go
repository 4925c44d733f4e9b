package dict

import (
	"github.com/bastiangx/gboard-decode/internal/utils"
	"github.com/charmbracelet/log"
)

// Trie is the in-memory Patricia trie. Nodes and arrays are identified by
// an integer position, matching the append-only byte-offset scheme of
// spec.md §3-4: a PtNode is a non-owning view keyed by that position, never
// an owning object, so "moving" a node is just rewriting pointers plus
// appending a new entry at a fresh position.
//
// The position counter only grows; GC is the only operation that ever
// compacts positions, and it does so atomically by rebuilding the maps from
// scratch (see gc.go).
type Trie struct {
	nodes  map[int]*PtNode
	arrays map[int]*PtNodeArray

	bigrams   map[int][]BigramEntry   // keyed by PtNode position
	shortcuts map[int][]ShortcutEntry // keyed by PtNode position

	rootArrayPos int
	nextPos      int // next position to hand out on append

	log *log.Logger
}

// NewTrie creates an empty trie with just a root PtNodeArray.
func NewTrie(logger *log.Logger) *Trie {
	t := &Trie{
		nodes:     make(map[int]*PtNode),
		arrays:    make(map[int]*PtNodeArray),
		bigrams:   make(map[int][]BigramEntry),
		shortcuts: make(map[int][]ShortcutEntry),
		log:       logger,
	}
	t.rootArrayPos = t.allocArrayPos()
	t.arrays[t.rootArrayPos] = &PtNodeArray{ForwardLinkPos: NotADictPos}
	return t
}

func (t *Trie) allocArrayPos() int {
	t.nextPos++
	return t.nextPos
}

func (t *Trie) allocNodePos() int {
	t.nextPos++
	return t.nextPos
}

func (t *Trie) debugf(format string, args ...any) {
	if t.log != nil {
		t.log.Debugf(format, args...)
	}
}

// resolveNode follows isMoved redirects, per spec.md §3: "A PtNode marked
// isMoved stores in its childrenPos field the new position of its
// replacement; readers must follow the forward." A single mutation only
// ever introduces one hop, but two mutations touching the same terminal
// between GC cycles (e.g. promote-to-terminal, then later split) can chain
// a stub through an intermediate stub; the loop compensates so readers
// never observe a moved node, bounded by the position counter so a corrupt
// cycle can never spin forever.
func (t *Trie) resolveNode(pos int) (*PtNode, int) {
	n, ok := t.nodes[pos]
	if !ok {
		return nil, NotADictPos
	}
	hops := 0
	for n.Flags.IsMoved {
		hops++
		if hops > t.nextPos+1 {
			t.debugf("trie: moved-pointer cycle detected at %d", pos)
			return nil, NotADictPos
		}
		next, ok := t.nodes[n.ChildrenPos]
		if !ok {
			t.debugf("trie: dangling moved pointer from %d to %d", pos, n.ChildrenPos)
			return nil, NotADictPos
		}
		pos, n = n.ChildrenPos, next
	}
	return n, pos
}

// Lookup walks the trie matching word exactly, returning the terminal's
// position or NotADictPos when absent. When forceLowerCase is set, each
// code point of word is compared case-insensitively against stored labels.
func (t *Trie) Lookup(word []CodePoint, forceLowerCase bool) int {
	pos := t.lookupRec(t.rootArrayPos, word, 0, forceLowerCase)
	return pos
}

func (t *Trie) lookupRec(arrayPos int, word []CodePoint, matched int, forceLowerCase bool) int {
	for arrayPos != NotADictPos {
		arr, ok := t.arrays[arrayPos]
		if !ok {
			return NotADictPos
		}
		for _, nodePos := range arr.Nodes {
			node, resolvedPos := t.resolveNode(nodePos)
			if node == nil || node.Flags.IsDeleted {
				continue
			}
			n := len(node.CodePoints)
			if matched+n > len(word) {
				continue
			}
			if !codePointsEqual(node.CodePoints, word[matched:matched+n], forceLowerCase) {
				continue
			}
			newMatched := matched + n
			if newMatched == len(word) {
				if node.Flags.IsTerminal {
					return resolvedPos
				}
				return NotADictPos
			}
			if !node.Flags.HasChildren || node.ChildrenPos == NotADictPos {
				return NotADictPos
			}
			return t.lookupRec(node.ChildrenPos, word, newMatched, forceLowerCase)
		}
		arrayPos = arr.ForwardLinkPos
	}
	return NotADictPos
}

func codePointsEqual(a, b []CodePoint, forceLowerCase bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if forceLowerCase {
			if !utils.EqualFoldRune(a[i], b[i]) {
				return false
			}
			continue
		}
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsValidWord is a direct membership predicate distinct from the fuzzy
// Suggest search, grounded on original_source's
// Dictionary::isValidWord/isValidWordRec.
func (t *Trie) IsValidWord(word []CodePoint) bool {
	return t.Lookup(word, false) != NotADictPos
}

// ChildRef describes one child reported by EnumerateChildren.
type ChildRef struct {
	Pos        int
	CodePoints []CodePoint
}

// EnumerateChildren walks the child array of parentPos, following
// forward-link chains, skipping deleted nodes, and resolving moved nodes to
// their replacement — exactly the contract spec.md §4.3 describes.
func (t *Trie) EnumerateChildren(parentArrayPos int) []ChildRef {
	var out []ChildRef
	arrayPos := parentArrayPos
	for arrayPos != NotADictPos {
		arr, ok := t.arrays[arrayPos]
		if !ok {
			break
		}
		for _, nodePos := range arr.Nodes {
			node, resolvedPos := t.resolveNode(nodePos)
			if node == nil || node.Flags.IsDeleted {
				continue
			}
			out = append(out, ChildRef{Pos: resolvedPos, CodePoints: node.CodePoints})
		}
		arrayPos = arr.ForwardLinkPos
	}
	return out
}

// ChildrenOf resolves a PtNode's ChildrenPos (the array holding its
// children) and enumerates it, a convenience wrapper over EnumerateChildren
// used by Suggest when descending from a trie position rather than a raw
// array position.
func (t *Trie) ChildrenOf(nodePos int) []ChildRef {
	node, _ := t.resolveNode(nodePos)
	if node == nil || !node.Flags.HasChildren || node.ChildrenPos == NotADictPos {
		return nil
	}
	return t.EnumerateChildren(node.ChildrenPos)
}

// RootArrayPos exposes the root sibling array for callers (Suggest) that
// need to seed a traversal there.
func (t *Trie) RootArrayPos() int { return t.rootArrayPos }

// Node returns a read-only view of the node at pos, following isMoved
// redirects (including chains of them) via resolveNode.
func (t *Trie) Node(pos int) (*PtNode, int) { return t.resolveNode(pos) }

// FetchWord walks parent offsets from terminalPos to the root, accumulating
// code points in reverse, then reverses the buffer. Fails (returns nil,
// NotAProbability) if the path exceeds MaxWordLength or hits a dangling
// pointer — malformed-dictionary errors never propagate per spec.md §7.
func (t *Trie) FetchWord(terminalPos int) ([]CodePoint, int) {
	node, _ := t.resolveNode(terminalPos)
	if node == nil || !node.Flags.IsTerminal {
		return nil, NotAProbability
	}

	var reversed []CodePoint
	cur := node
	pos := terminalPos
	depth := 0
	for {
		for i := len(cur.CodePoints) - 1; i >= 0; i-- {
			reversed = append(reversed, cur.CodePoints[i])
		}
		depth++
		if depth > MaxWordLength {
			t.debugf("trie: FetchWord exceeded MaxWordLength from pos %d", terminalPos)
			return nil, NotAProbability
		}
		if cur.ParentPos == NotADictPos {
			break
		}
		next, nextPos := t.resolveNode(cur.ParentPos)
		if next == nil {
			t.debugf("trie: FetchWord hit dangling parent from pos %d", pos)
			return nil, NotAProbability
		}
		cur, pos = next, nextPos
	}

	word := make([]CodePoint, len(reversed))
	for i, cp := range reversed {
		word[len(reversed)-1-i] = cp
	}
	return word, node.Probability
}
