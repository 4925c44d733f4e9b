package dict

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
)

// Magic identifies a dictionary file written by this package. Version 4
// is the only format this package writes or reads; it is not meant to be
// byte-compatible with any platform's shipped dictionaries, only internally
// self-consistent per spec.md §6.
const (
	magic         uint32 = 0x9BC13AFE
	formatVersion uint8  = 4
)

// Header carries the fixed metadata block at the start of a dictionary
// file. Attributes is an open TLV map for anything a caller wants to stamp
// on the file (locale, build date, …) without changing the format.
type Header struct {
	Version    uint8
	OptionsFlags uint16
	Attributes map[string]string
}

// NewHeader builds a Header stamped with this package's format version.
func NewHeader(attributes map[string]string) Header {
	return Header{Version: formatVersion, Attributes: attributes}
}

// node flag bits (wire format). HasMultipleChars is deliberately not a wire
// bit: it is a pure fast-path hint recomputed from CodePoints after decode.
const (
	wireFlagTerminal     = 1 << 0
	wireFlagDeleted      = 1 << 1
	wireFlagMoved        = 1 << 2
	wireFlagBlacklisted  = 1 << 3
	wireFlagNotAWord     = 1 << 4
	wireFlagHasChildren  = 1 << 5
	wireFlagHasBigrams   = 1 << 6
	wireFlagHasShortcuts = 1 << 7
)

func flagsToWire(f Flags) byte {
	var b byte
	if f.IsTerminal {
		b |= wireFlagTerminal
	}
	if f.IsDeleted {
		b |= wireFlagDeleted
	}
	if f.IsMoved {
		b |= wireFlagMoved
	}
	if f.IsBlacklisted {
		b |= wireFlagBlacklisted
	}
	if f.IsNotAWord {
		b |= wireFlagNotAWord
	}
	if f.HasChildren {
		b |= wireFlagHasChildren
	}
	if f.HasBigrams {
		b |= wireFlagHasBigrams
	}
	if f.HasShortcuts {
		b |= wireFlagHasShortcuts
	}
	return b
}

func wireToFlags(b byte) Flags {
	f := Flags{
		IsTerminal:    b&wireFlagTerminal != 0,
		IsDeleted:     b&wireFlagDeleted != 0,
		IsMoved:       b&wireFlagMoved != 0,
		IsBlacklisted: b&wireFlagBlacklisted != 0,
		IsNotAWord:    b&wireFlagNotAWord != 0,
		HasChildren:   b&wireFlagHasChildren != 0,
		HasBigrams:    b&wireFlagHasBigrams != 0,
		HasShortcuts:  b&wireFlagHasShortcuts != 0,
	}
	return f
}

func putVarUint(buf *bytes.Buffer, v uint64) {
	for v >= 0x80 {
		buf.WriteByte(byte(v) | 0x80)
		v >>= 7
	}
	buf.WriteByte(byte(v))
}

func getVarUint(data []byte, off int) (uint64, int) {
	var v uint64
	var shift uint
	for {
		b := data[off]
		off++
		v |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}
	return v, off
}

func putAddr3(buf *bytes.Buffer, v int) {
	buf.WriteByte(byte(v >> 16))
	buf.WriteByte(byte(v >> 8))
	buf.WriteByte(byte(v))
}

func getAddr3(data []byte, off int) (int, int) {
	v := int(data[off])<<16 | int(data[off+1])<<8 | int(data[off+2])
	return v, off + 3
}

func putSignedAddr3(buf *bytes.Buffer, delta int) {
	putAddr3(buf, delta&0xFFFFFF)
}

func getSignedAddr3(data []byte, off int) (int, int) {
	v, next := getAddr3(data, off)
	if v&0x800000 != 0 {
		v -= 0x1000000
	}
	return v, next
}

// layoutJob is one unit of work in the BFS that assigns fresh byte offsets
// to everything Flush needs to write: proper sibling arrays, the
// "floating" replacement nodes a moved stub points at (never members of
// any array's Nodes slice), and bigram/shortcut lists.
type layoutKind int

const (
	layoutArray layoutKind = iota
	layoutNode
	layoutBigramList
	layoutShortcutList
)

type layoutJob struct {
	kind layoutKind
	pos  int // abstract in-memory position (map key into t.nodes/arrays/bigrams/shortcuts)
}

// Flush serializes t exactly as it stands, moved stubs and deleted
// tombstones included. Use FlushWithGC first to compact before writing a
// dictionary meant to be reloaded repeatedly.
func (t *Trie) Flush(w io.Writer, h Header) error {
	offsets := make(map[int]int64) // abstract pos -> file byte offset
	inline := make(map[int]bool)   // node positions written inside their sibling array
	var order []layoutJob
	seen := make(map[layoutJob]bool)

	enqueue := func(j layoutJob) {
		if !seen[j] {
			seen[j] = true
			order = append(order, j)
		}
	}
	enqueue(layoutJob{layoutArray, t.rootArrayPos})

	headerBytes := encodeHeader(h)
	cursor := int64(len(headerBytes))

	// Pass 1: size everything in discovery order, assigning offsets as we
	// go (sizes never depend on offsets, only on content already fixed).
	for i := 0; i < len(order); i++ {
		job := order[i]
		switch job.kind {
		case layoutArray:
			arr := t.arrays[job.pos]
			if arr == nil {
				return fmt.Errorf("dict: flush found dangling array position %d", job.pos)
			}
			offsets[job.pos] = cursor
			cursor += int64(arrayHeaderSize(len(arr.Nodes)))
			for _, nodePos := range arr.Nodes {
				node := t.nodes[nodePos]
				if node == nil {
					return fmt.Errorf("dict: flush found dangling node position %d", nodePos)
				}
				offsets[nodePos] = cursor
				inline[nodePos] = true
				cursor += int64(nodeSize(node))
				enqueue(layoutJob{layoutNode, nodePos})
			}
			cursor += 3 // forward link
			if arr.ForwardLinkPos != NotADictPos {
				enqueue(layoutJob{layoutArray, arr.ForwardLinkPos})
			}
		case layoutNode:
			node := t.nodes[job.pos]
			if node == nil {
				return fmt.Errorf("dict: flush found dangling node position %d", job.pos)
			}
			if !inline[job.pos] {
				offsets[job.pos] = cursor
				cursor += int64(nodeSize(node))
			}
			if node.Flags.IsMoved {
				enqueue(layoutJob{layoutNode, node.ChildrenPos})
				continue
			}
			if node.Flags.HasChildren && node.ChildrenPos != NotADictPos {
				enqueue(layoutJob{layoutArray, node.ChildrenPos})
			}
			if node.Flags.HasBigrams {
				enqueue(layoutJob{layoutBigramList, job.pos})
			}
			if node.Flags.HasShortcuts {
				enqueue(layoutJob{layoutShortcutList, job.pos})
			}
		case layoutBigramList:
			list := t.bigrams[job.pos]
			offsets[bigramListKey(job.pos)] = cursor
			cursor += int64(bigramListSize(list))
		case layoutShortcutList:
			list := t.shortcuts[job.pos]
			offsets[shortcutListKey(job.pos)] = cursor
			cursor += int64(shortcutListSize(list))
		}
	}

	// A stub that a split took out of its sibling array is not written, but
	// its old children still name it as their parent: give it the offset of
	// the node it redirects to.
	for pos := range t.nodes {
		if _, ok := offsets[pos]; ok {
			continue
		}
		if _, resolved := t.resolveNode(pos); resolved != NotADictPos {
			if off, ok := offsets[resolved]; ok {
				offsets[pos] = off
			}
		}
	}

	// Pass 2: write header, then every job in the same order, now that
	// every position involved has a final absolute offset.
	if _, err := w.Write(headerBytes); err != nil {
		return err
	}
	for _, job := range order {
		switch job.kind {
		case layoutArray:
			arr := t.arrays[job.pos]
			buf := new(bytes.Buffer)
			writeArrayCount(buf, len(arr.Nodes))
			for _, nodePos := range arr.Nodes {
				buf.Write(encodeNodeBytes(t.nodes[nodePos], nodePos, offsets))
			}
			if arr.ForwardLinkPos == NotADictPos {
				putAddr3(buf, NotADictPos)
			} else {
				putAddr3(buf, int(offsets[arr.ForwardLinkPos]))
			}
			if _, err := w.Write(buf.Bytes()); err != nil {
				return err
			}
		case layoutNode:
			if inline[job.pos] {
				continue
			}
			node := t.nodes[job.pos]
			if _, err := w.Write(encodeNodeBytes(node, job.pos, offsets)); err != nil {
				return err
			}
		case layoutBigramList:
			if _, err := w.Write(encodeBigramList(t.bigrams[job.pos], offsets)); err != nil {
				return err
			}
		case layoutShortcutList:
			if _, err := w.Write(encodeShortcutList(t.shortcuts[job.pos])); err != nil {
				return err
			}
		}
	}
	return nil
}

// FlushWithGC compacts t (dropping moved stubs, deleted nodes, and deleted
// bigram entries) and then writes the result, per spec.md §4.4.
func (t *Trie) FlushWithGC(w io.Writer, h Header) (CompactionStats, error) {
	stats := t.GC()
	return stats, t.Flush(w, h)
}

func bigramListKey(nodePos int) int   { return -(nodePos*2 + 1) }  // disjoint fake keys so one map
func shortcutListKey(nodePos int) int { return -(nodePos*2 + 2) } // can hold array/node/list offsets

func arrayHeaderSize(count int) int {
	if count < 0xFF {
		return 1
	}
	return 3
}

func writeArrayCount(buf *bytes.Buffer, count int) {
	if count < 0xFF {
		buf.WriteByte(byte(count))
		return
	}
	buf.WriteByte(0xFF)
	binary.Write(buf, binary.BigEndian, uint16(count))
}

func readArrayCount(data []byte, off int) (int, int) {
	b := data[off]
	if b != 0xFF {
		return int(b), off + 1
	}
	count := int(binary.BigEndian.Uint16(data[off+1 : off+3]))
	return count, off + 3
}

func nodeSize(node *PtNode) int {
	size := 1 + 3 // flags + parentOffset
	cpBuf := new(bytes.Buffer)
	putVarUint(cpBuf, uint64(len(node.CodePoints)))
	for _, cp := range node.CodePoints {
		putVarUint(cpBuf, uint64(cp))
	}
	size += cpBuf.Len()
	if node.Flags.IsTerminal {
		size++
	}
	if node.Flags.HasChildren || node.Flags.IsMoved {
		size += 3
	}
	if node.Flags.HasBigrams {
		size += 3
	}
	if node.Flags.HasShortcuts {
		size += 3
	}
	return size
}

func encodeNodeBytes(node *PtNode, selfPos int, offsets map[int]int64) []byte {
	buf := new(bytes.Buffer)
	buf.WriteByte(flagsToWire(node.Flags))

	selfOffset := offsets[selfPos]
	var parentAbs int64
	if node.ParentPos == NotADictPos {
		parentAbs = 0
	} else {
		parentAbs = offsets[node.ParentPos]
	}
	putSignedAddr3(buf, int(parentAbs-selfOffset))

	putVarUint(buf, uint64(len(node.CodePoints)))
	for _, cp := range node.CodePoints {
		putVarUint(buf, uint64(cp))
	}
	if node.Flags.IsTerminal {
		buf.WriteByte(byte(node.Probability))
	}
	if node.Flags.IsMoved {
		putAddr3(buf, int(offsets[node.ChildrenPos]))
	} else if node.Flags.HasChildren {
		putAddr3(buf, int(offsets[node.ChildrenPos]))
	}
	if node.Flags.HasBigrams {
		putAddr3(buf, int(offsets[bigramListKey(selfPos)]))
	}
	if node.Flags.HasShortcuts {
		putAddr3(buf, int(offsets[shortcutListKey(selfPos)]))
	}
	return buf.Bytes()
}

func bigramListSize(list []BigramEntry) int {
	live := liveBigrams(list)
	return 1 + len(live)*4 // count(1) + per-entry: targetPos(3) + probability(1)
}

func liveBigrams(list []BigramEntry) []BigramEntry {
	var out []BigramEntry
	for _, e := range list {
		if !e.Deleted {
			out = append(out, e)
		}
	}
	return out
}

func encodeBigramList(list []BigramEntry, offsets map[int]int64) []byte {
	live := liveBigrams(list)
	buf := new(bytes.Buffer)
	buf.WriteByte(byte(len(live)))
	for _, e := range live {
		putAddr3(buf, int(offsets[e.TargetPos]))
		buf.WriteByte(byte(e.Probability))
	}
	return buf.Bytes()
}

func shortcutListSize(list []ShortcutEntry) int {
	size := 1
	for _, e := range list {
		cpBuf := new(bytes.Buffer)
		putVarUint(cpBuf, uint64(len(e.CodePoints)))
		for _, cp := range e.CodePoints {
			putVarUint(cpBuf, uint64(cp))
		}
		size += cpBuf.Len() + 1
	}
	return size
}

func encodeShortcutList(list []ShortcutEntry) []byte {
	buf := new(bytes.Buffer)
	buf.WriteByte(byte(len(list)))
	for _, e := range list {
		putVarUint(buf, uint64(len(e.CodePoints)))
		for _, cp := range e.CodePoints {
			putVarUint(buf, uint64(cp))
		}
		buf.WriteByte(byte(e.Probability))
	}
	return buf.Bytes()
}

func encodeHeader(h Header) []byte {
	attrBuf := new(bytes.Buffer)
	keys := make([]string, 0, len(h.Attributes))
	for k := range h.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys) // deterministic output, easier to diff/test against
	for _, k := range keys {
		v := h.Attributes[k]
		attrBuf.WriteByte(byte(len(k)))
		attrBuf.WriteString(k)
		binary.Write(attrBuf, binary.BigEndian, uint16(len(v)))
		attrBuf.WriteString(v)
	}

	fixedSize := 4 + 1 + 4 + 2 + 2 // magic, version, headerSize, optionsFlags, attributeCount
	headerSize := fixedSize + attrBuf.Len()

	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, magic)
	buf.WriteByte(h.Version)
	binary.Write(buf, binary.BigEndian, uint32(headerSize))
	binary.Write(buf, binary.BigEndian, h.OptionsFlags)
	binary.Write(buf, binary.BigEndian, uint16(len(keys)))
	buf.Write(attrBuf.Bytes())
	return buf.Bytes()
}

// ErrBadMagic reports a file that does not start with this format's magic.
var ErrBadMagic = errors.New("dict: not a recognized dictionary file")

func decodeHeader(data []byte) (Header, int, error) {
	if len(data) < 13 {
		return Header{}, 0, ErrBadMagic
	}
	if binary.BigEndian.Uint32(data[0:4]) != magic {
		return Header{}, 0, ErrBadMagic
	}
	h := Header{Version: data[4], Attributes: map[string]string{}}
	headerSize := int(binary.BigEndian.Uint32(data[5:9]))
	h.OptionsFlags = binary.BigEndian.Uint16(data[9:11])
	attrCount := int(binary.BigEndian.Uint16(data[11:13]))
	off := 13
	for i := 0; i < attrCount; i++ {
		klen := int(data[off])
		off++
		key := string(data[off : off+klen])
		off += klen
		vlen := int(binary.BigEndian.Uint16(data[off : off+2]))
		off += 2
		val := string(data[off : off+vlen])
		off += vlen
		h.Attributes[key] = val
	}
	return h, headerSize, nil
}

// Load reconstructs a Trie from a full in-memory dictionary image. File
// byte offsets become this Trie's abstract positions directly: whatever a
// pointer in the file refers to (a sibling array, a moved stub's
// redirect target, a bigram/shortcut list) is decoded the first time
// something reaches it, so one recursive walk rebuilds the whole trie
// with no separate relocation pass.
func Load(r io.Reader, logger logFunc) (*Trie, Header, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Header{}, err
	}
	h, headerSize, err := decodeHeader(data)
	if err != nil {
		return nil, Header{}, err
	}

	t := &Trie{
		nodes:        make(map[int]*PtNode),
		arrays:       make(map[int]*PtNodeArray),
		bigrams:      make(map[int][]BigramEntry),
		shortcuts:    make(map[int][]ShortcutEntry),
		rootArrayPos: headerSize,
	}
	if logger != nil {
		t.log = logger()
	}

	d := &decoder{data: data, t: t, maxPos: headerSize}
	if err := d.decodeArray(headerSize); err != nil {
		return nil, Header{}, err
	}
	t.nextPos = d.maxPos + 64 // headroom past the file so fresh allocations never collide
	return t, h, nil
}

// logFunc lazily builds the *log.Logger Load attaches to its Trie. Load
// accepts nil when a caller has no logger to offer.
type logFunc func() *log.Logger

// decoder carries the small bits of shared state a recursive dictionary
// decode needs: the raw bytes, the trie being built, visited-position sets
// (a malformed or adversarial file could otherwise cause infinite
// recursion through a cyclic forward-link or children pointer), and the
// running high-water mark used to size fresh position allocations after
// load.
type decoder struct {
	data          []byte
	t             *Trie
	maxPos        int
	visitedArrays map[int]bool
}

func (d *decoder) touch(pos int) {
	if pos > d.maxPos {
		d.maxPos = pos
	}
}

// decodeArray decodes a sibling chain starting at pos, recursing into
// child arrays, moved-stub redirect targets, and bigram/shortcut lists as
// each node's flags demand.
func (d *decoder) decodeArray(pos int) error {
	if d.visitedArrays == nil {
		d.visitedArrays = make(map[int]bool)
	}
	for pos != NotADictPos {
		if d.visitedArrays[pos] {
			return nil
		}
		d.visitedArrays[pos] = true
		d.touch(pos)
		if pos >= len(d.data) {
			return fmt.Errorf("dict: array offset %d out of range", pos)
		}
		count, off := readArrayCount(d.data, pos)
		arr := &PtNodeArray{}
		for i := 0; i < count; i++ {
			nodePos := off
			node, next, err := decodeNodeAt(d.data, off)
			if err != nil {
				return err
			}
			off = next
			d.touch(nodePos)
			if err := d.decodeNodeBody(nodePos, node); err != nil {
				return err
			}
			arr.Nodes = append(arr.Nodes, nodePos)
		}
		forward, _ := getAddr3(d.data, off)
		arr.ForwardLinkPos = forward
		d.t.arrays[pos] = arr
		if forward == NotADictPos {
			return nil
		}
		pos = forward
	}
	return nil
}

// decodeNodeBody stores a decoded node and recursively pulls in whatever
// it points at: a moved stub's replacement, a real node's children array,
// or its bigram/shortcut lists.
func (d *decoder) decodeNodeBody(nodePos int, node *PtNode) error {
	d.t.nodes[nodePos] = node

	if node.Flags.IsMoved {
		return d.decodeFloatingNode(node.ChildrenPos)
	}
	if node.Flags.HasChildren && node.ChildrenPos != NotADictPos {
		if err := d.decodeArray(node.ChildrenPos); err != nil {
			return err
		}
	}
	if node.Flags.HasBigrams {
		list, err := decodeBigramListAt(d.data, node.BigramsPos)
		if err != nil {
			return err
		}
		d.t.bigrams[nodePos] = list
		d.touch(node.BigramsPos)
	}
	if node.Flags.HasShortcuts {
		list, err := decodeShortcutListAt(d.data, node.ShortcutsPos)
		if err != nil {
			return err
		}
		d.t.shortcuts[nodePos] = list
		d.touch(node.ShortcutsPos)
	}
	return nil
}

// decodeFloatingNode decodes a replacement node that a moved stub points
// at. It is never a member of any PtNodeArray's Nodes slice (Flush writes
// it as a record of its own, wherever its job falls in the breadth-first
// layout order), so it is decoded directly rather than via decodeArray.
func (d *decoder) decodeFloatingNode(pos int) error {
	if _, ok := d.t.nodes[pos]; ok {
		return nil
	}
	node, _, err := decodeNodeAt(d.data, pos)
	if err != nil {
		return err
	}
	d.touch(pos)
	return d.decodeNodeBody(pos, node)
}

// decodeNodeAt parses one PtNode record and returns it plus the offset of
// the byte immediately following it.
func decodeNodeAt(data []byte, off int) (*PtNode, int, error) {
	if off >= len(data) {
		return nil, 0, fmt.Errorf("dict: node offset %d out of range", off)
	}
	selfOffset := off
	flags := wireToFlags(data[off])
	off++
	delta, next := getSignedAddr3(data, off)
	off = next
	parentAbs := int64(selfOffset) + int64(delta)

	count, next2 := getVarUint(data, off)
	off = next2
	cps := make([]CodePoint, count)
	for i := range cps {
		v, n := getVarUint(data, off)
		cps[i] = CodePoint(v)
		off = n
	}

	node := &PtNode{
		Flags:      flags,
		CodePoints: cps,
	}
	node.Flags.HasMultipleChars = len(cps) > 1
	if parentAbs == 0 {
		node.ParentPos = NotADictPos
	} else {
		node.ParentPos = int(parentAbs)
	}

	if flags.IsTerminal {
		node.Probability = int(data[off])
		off++
	} else {
		node.Probability = NotAProbability
	}
	if flags.HasChildren || flags.IsMoved {
		v, n := getAddr3(data, off)
		node.ChildrenPos = v
		off = n
	} else {
		node.ChildrenPos = NotADictPos
	}
	if flags.HasBigrams {
		v, n := getAddr3(data, off)
		node.BigramsPos = v
		off = n
	}
	if flags.HasShortcuts {
		v, n := getAddr3(data, off)
		node.ShortcutsPos = v
		off = n
	}
	return node, off, nil
}

func decodeBigramListAt(data []byte, pos int) ([]BigramEntry, error) {
	if pos <= 0 || pos >= len(data) {
		return nil, fmt.Errorf("dict: bigram list offset %d out of range", pos)
	}
	count := int(data[pos])
	off := pos + 1
	list := make([]BigramEntry, count)
	for i := 0; i < count; i++ {
		target, next := getAddr3(data, off)
		prob := int(data[next])
		list[i] = BigramEntry{TargetPos: target, Probability: prob, Next: -1}
		off = next + 1
	}
	return list, nil
}

func decodeShortcutListAt(data []byte, pos int) ([]ShortcutEntry, error) {
	if pos <= 0 || pos >= len(data) {
		return nil, fmt.Errorf("dict: shortcut list offset %d out of range", pos)
	}
	count := int(data[pos])
	off := pos + 1
	list := make([]ShortcutEntry, count)
	for i := 0; i < count; i++ {
		n, next := getVarUint(data, off)
		off = next
		cps := make([]CodePoint, n)
		for j := range cps {
			v, nn := getVarUint(data, off)
			cps[j] = CodePoint(v)
			off = nn
		}
		prob := int(data[off])
		off++
		list[i] = ShortcutEntry{CodePoints: cps, Probability: prob}
	}
	return list, nil
}

// SaveFile writes t to path atomically: the dictionary is written into a
// temp file alongside path, fsynced, then renamed over path, so a reader
// never observes a half-written dictionary.
func (t *Trie) SaveFile(path string, h Header) error {
	return atomicWriteFile(path, func(f *os.File) error {
		return t.Flush(f, h)
	})
}

// FlushWithGCFile compacts t and writes the result to path with the same
// write-temp/fsync/rename atomicity as SaveFile.
func (t *Trie) FlushWithGCFile(path string, h Header) (CompactionStats, error) {
	var stats CompactionStats
	err := atomicWriteFile(path, func(f *os.File) error {
		var err error
		stats, err = t.FlushWithGC(f, h)
		return err
	})
	return stats, err
}

// atomicWriteFile runs write against a temp file created alongside path,
// fsyncs it, and renames it over path only on success; a failed write
// leaves path untouched.
func atomicWriteFile(path string, write func(f *os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".gboard-decode-tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// LoadFile reads a dictionary previously written by SaveFile.
func LoadFile(path string, logger logFunc) (*Trie, Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Header{}, err
	}
	defer f.Close()
	return Load(f, logger)
}
