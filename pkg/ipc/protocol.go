// Package ipc implements the management-operation wire protocol spec.md §6
// describes abstractly: addUnigramWord, addBigramWords, removeBigramWords,
// flush, flushWithGC, and getSuggestions, framed as MessagePack request/
// response structs over a stream. Grounded on the teacher's
// pkg/server/server.go (stdin/stdout command loop), with the wire codec
// swapped from line-delimited JSON to github.com/vmihailenco/msgpack/v5,
// which is self-delimiting and needs no newline framing.
package ipc

import "github.com/bastiangx/gboard-decode/pkg/dict"

// Command names, one per spec.md §6 management operation plus the decoder
// entry point.
const (
	CmdAddUnigramWord    = "addUnigramWord"
	CmdAddBigramWords    = "addBigramWords"
	CmdRemoveBigramWords = "removeBigramWords"
	CmdFlush             = "flush"
	CmdFlushWithGC       = "flushWithGC"
	CmdGetSuggestions    = "getSuggestions"
)

// InputSampleWire is the wire shape of one typed touch point, mirroring
// suggest.InputSample field-for-field so the ipc package doesn't need to
// import suggest's InputSample directly into the protocol (keeping the wire
// format decoupled from the decoder's internal struct layout).
type InputSampleWire struct {
	X, Y             float64
	Time             int64
	PointerID        int `msgpack:"pointerId"`
	PrimaryCodePoint rune `msgpack:"primaryCodePoint"`
}

// Request is one client call. Only the fields relevant to Command are
// populated; the rest are left zero. ID correlates a Response back to its
// Request; the server fills one in with uuid.NewString() when the caller
// leaves it blank.
type Request struct {
	ID      string `msgpack:"id,omitempty"`
	Command string `msgpack:"command"`

	// addUnigramWord
	Word        []rune `msgpack:"word,omitempty"`
	Probability int    `msgpack:"probability,omitempty"`

	// addBigramWords / removeBigramWords
	Prev []rune `msgpack:"prev,omitempty"`
	Next []rune `msgpack:"next,omitempty"`

	// flush / flushWithGC
	Path string `msgpack:"path,omitempty"`

	// getSuggestions
	Input               []InputSampleWire `msgpack:"input,omitempty"`
	PrevWordTerminalPos int               `msgpack:"prevWordTerminalPos,omitempty"`
	MaxResults          int               `msgpack:"maxResults,omitempty"`
}

// CandidateWire is one ranked suggestion on the wire: CodePoints rendered
// as a string, since msgpack round-trips []rune as an array of ints and the
// caller almost always wants text.
type CandidateWire struct {
	Word  string `msgpack:"word"`
	Score int    `msgpack:"score"`
	Type  string `msgpack:"type"`
}

// Response answers one Request. Error is non-empty and OK is false on
// failure; Results/Stats are only set by their respective commands.
type Response struct {
	ID    string `msgpack:"id"`
	OK    bool   `msgpack:"ok"`
	Error string `msgpack:"error,omitempty"`

	Results []CandidateWire       `msgpack:"results,omitempty"`
	Stats   *dict.CompactionStats `msgpack:"stats,omitempty"`
}
