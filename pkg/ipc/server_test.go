package ipc

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/gboard-decode/internal/logger"
	"github.com/bastiangx/gboard-decode/internal/proximity"
	"github.com/bastiangx/gboard-decode/pkg/config"
	"github.com/bastiangx/gboard-decode/pkg/dict"
	"github.com/bastiangx/gboard-decode/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

func testServer(t *testing.T) (*Server, *dict.Trie) {
	t.Helper()
	trie := dict.NewTrie(logger.New("ipc-test"))
	prox := proximity.NewGridInfo(nil, 1)
	suggester := suggest.New(trie, prox, config.DefaultConfig().Decoder)
	return NewServer(trie, suggester, dict.NewHeader(nil), logger.New("ipc-test")), trie
}

// roundTrip encodes each request in order, runs Serve once over the whole
// batch, and decodes one Response per Request in the same order.
func roundTrip(t *testing.T, s *Server, reqs ...Request) []Response {
	t.Helper()
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, req := range reqs {
		if err := enc.Encode(req); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}

	var out bytes.Buffer
	if err := s.Serve(&in, &out); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	dec := msgpack.NewDecoder(&out)
	resps := make([]Response, 0, len(reqs))
	for range reqs {
		var resp Response
		if err := dec.Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		resps = append(resps, resp)
	}
	return resps
}

func TestAddUnigramWordThenGetSuggestions(t *testing.T) {
	s, _ := testServer(t)

	resps := roundTrip(t, s,
		Request{Command: CmdAddUnigramWord, Word: []rune("cat"), Probability: 200},
		Request{
			Command: CmdGetSuggestions,
			Input: []InputSampleWire{
				{PrimaryCodePoint: 'c'},
				{PrimaryCodePoint: 'a'},
				{PrimaryCodePoint: 't'},
			},
			MaxResults: 10,
		},
	)

	if !resps[0].OK {
		t.Fatalf("addUnigramWord failed: %+v", resps[0])
	}
	if !resps[1].OK || len(resps[1].Results) != 1 || resps[1].Results[0].Word != "cat" {
		t.Fatalf("getSuggestions = %+v, want single cat result", resps[1])
	}
}

func TestAddAndRemoveBigramWords(t *testing.T) {
	s, _ := testServer(t)

	resps := roundTrip(t, s,
		Request{Command: CmdAddUnigramWord, Word: []rune("cat"), Probability: 200},
		Request{Command: CmdAddUnigramWord, Word: []rune("nap"), Probability: 8},
		Request{Command: CmdAddBigramWords, Prev: []rune("cat"), Next: []rune("nap"), Probability: 10},
		Request{Command: CmdRemoveBigramWords, Prev: []rune("cat"), Next: []rune("nap")},
	)
	for i, r := range resps {
		if !r.OK {
			t.Fatalf("request %d failed: %+v", i, r)
		}
	}
}

func TestMissingFieldsReturnError(t *testing.T) {
	s, _ := testServer(t)

	resps := roundTrip(t, s, Request{Command: CmdAddUnigramWord})
	if resps[0].OK || resps[0].Error == "" {
		t.Errorf("want error for missing word, got %+v", resps[0])
	}
}

func TestUnknownCommandReturnsError(t *testing.T) {
	s, _ := testServer(t)

	resps := roundTrip(t, s, Request{Command: "bogus"})
	if resps[0].OK || resps[0].Error == "" {
		t.Errorf("want error for unknown command, got %+v", resps[0])
	}
}

func TestRequestIDIsEchoedOrGenerated(t *testing.T) {
	s, _ := testServer(t)

	resps := roundTrip(t, s,
		Request{ID: "client-1", Command: CmdAddUnigramWord, Word: []rune("cat"), Probability: 200},
		Request{Command: CmdAddUnigramWord, Word: []rune("car"), Probability: 180},
	)
	if resps[0].ID != "client-1" {
		t.Errorf("ID = %q, want client-1 echoed back", resps[0].ID)
	}
	if resps[1].ID == "" {
		t.Errorf("expected a server-generated ID when the caller omits one")
	}
}

func TestFlushThenLoadRoundTrips(t *testing.T) {
	s, trie := testServer(t)
	trie.AddUnigram([]dict.CodePoint("cat"), 200)

	path := filepath.Join(t.TempDir(), "dict.bin")
	resps := roundTrip(t, s, Request{Command: CmdFlush, Path: path})
	if !resps[0].OK {
		t.Fatalf("flush failed: %+v", resps[0])
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("flush did not create file: %v", err)
	}

	loaded, _, err := dict.LoadFile(path, func() *log.Logger { return logger.New("ipc-test") })
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !loaded.IsValidWord([]dict.CodePoint("cat")) {
		t.Error("loaded dictionary is missing the flushed word")
	}
}

func TestFlushWithGCReturnsStats(t *testing.T) {
	s, trie := testServer(t)
	trie.AddUnigram([]dict.CodePoint("cat"), 200)
	trie.AddUnigram([]dict.CodePoint("card"), 160)
	trie.AddUnigram([]dict.CodePoint("car"), 180) // splits card's node, leaving a moved stub

	path := filepath.Join(t.TempDir(), "dict.bin")
	resps := roundTrip(t, s, Request{Command: CmdFlushWithGC, Path: path})
	if !resps[0].OK {
		t.Fatalf("flushWithGC failed: %+v", resps[0])
	}
	if resps[0].Stats == nil {
		t.Fatal("want compaction stats on flushWithGC response")
	}
}
