package ipc

import (
	"errors"
	"io"

	"github.com/bastiangx/gboard-decode/pkg/dict"
	"github.com/bastiangx/gboard-decode/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// Server dispatches ipc.Request values against one trie/suggester pair,
// the management-operation surface of spec.md §6. It owns no transport:
// Serve is handed a reader/writer pair so the same Server can run over
// stdin/stdout (the CLI harness) or any other stream a caller wires up.
type Server struct {
	trie      *dict.Trie
	suggester *suggest.Suggester
	header    dict.Header
	log       *log.Logger
}

// NewServer builds a Server over trie, scoring getSuggestions calls with
// suggester and stamping flush/flushWithGC output with header.
func NewServer(trie *dict.Trie, suggester *suggest.Suggester, header dict.Header, logger *log.Logger) *Server {
	return &Server{trie: trie, suggester: suggester, header: header, log: logger}
}

// Serve reads Requests from r and writes one Response per Request to w
// until r is exhausted. A malformed message ends the loop with an error;
// everything else (invalid command, failed mutation) is reported back to
// the caller as a Response with OK=false rather than terminating the loop,
// matching spec.md §7's "no panics, no propagated errors" policy for the
// core — only transport-level decode failure is fatal to Serve itself.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	dec := msgpack.NewDecoder(r)
	enc := msgpack.NewEncoder(w)

	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if req.ID == "" {
			req.ID = uuid.NewString()
		}

		resp := s.dispatch(req)
		resp.ID = req.ID
		if err := enc.Encode(resp); err != nil {
			return err
		}
	}
}

func (s *Server) dispatch(req Request) Response {
	switch req.Command {
	case CmdAddUnigramWord:
		return s.handleAddUnigramWord(req)
	case CmdAddBigramWords:
		return s.handleAddBigramWords(req)
	case CmdRemoveBigramWords:
		return s.handleRemoveBigramWords(req)
	case CmdFlush:
		return s.handleFlush(req)
	case CmdFlushWithGC:
		return s.handleFlushWithGC(req)
	case CmdGetSuggestions:
		return s.handleGetSuggestions(req)
	default:
		s.debugf("ipc: unknown command %q", req.Command)
		return Response{Error: "unknown command: " + req.Command}
	}
}

func (s *Server) handleAddUnigramWord(req Request) Response {
	if len(req.Word) == 0 {
		return Response{Error: "word is required"}
	}
	if !s.trie.AddUnigram(req.Word, req.Probability) {
		s.debugf("ipc: addUnigramWord failed for %q", string(req.Word))
		return Response{Error: "addUnigramWord failed"}
	}
	return Response{OK: true}
}

func (s *Server) handleAddBigramWords(req Request) Response {
	if len(req.Prev) == 0 || len(req.Next) == 0 {
		return Response{Error: "prev and next are required"}
	}
	if !s.trie.AddBigram(req.Prev, req.Next, req.Probability) {
		s.debugf("ipc: addBigramWords failed for %q -> %q", string(req.Prev), string(req.Next))
		return Response{Error: "addBigramWords failed"}
	}
	return Response{OK: true}
}

func (s *Server) handleRemoveBigramWords(req Request) Response {
	if len(req.Prev) == 0 || len(req.Next) == 0 {
		return Response{Error: "prev and next are required"}
	}
	if !s.trie.RemoveBigram(req.Prev, req.Next) {
		s.debugf("ipc: removeBigramWords failed for %q -> %q", string(req.Prev), string(req.Next))
		return Response{Error: "removeBigramWords failed"}
	}
	return Response{OK: true}
}

func (s *Server) handleFlush(req Request) Response {
	if req.Path == "" {
		return Response{Error: "path is required"}
	}
	if err := s.trie.SaveFile(req.Path, s.header); err != nil {
		s.debugf("ipc: flush to %q failed: %v", req.Path, err)
		return Response{Error: err.Error()}
	}
	return Response{OK: true}
}

func (s *Server) handleFlushWithGC(req Request) Response {
	if req.Path == "" {
		return Response{Error: "path is required"}
	}
	stats, err := s.trie.FlushWithGCFile(req.Path, s.header)
	if err != nil {
		s.debugf("ipc: flushWithGC to %q failed: %v", req.Path, err)
		return Response{Error: err.Error()}
	}
	return Response{OK: true, Stats: &stats}
}

func (s *Server) handleGetSuggestions(req Request) Response {
	input := make([]suggest.InputSample, len(req.Input))
	for i, sample := range req.Input {
		input[i] = suggest.InputSample{
			X:                sample.X,
			Y:                sample.Y,
			Time:             sample.Time,
			PointerID:        sample.PointerID,
			PrimaryCodePoint: sample.PrimaryCodePoint,
		}
	}

	candidates := s.suggester.Suggest(suggest.Request{
		Input:               input,
		PrevWordTerminalPos: req.PrevWordTerminalPos,
		MaxResults:          req.MaxResults,
	})

	results := make([]CandidateWire, len(candidates))
	for i, c := range candidates {
		results[i] = CandidateWire{
			Word:  string(c.CodePoints),
			Score: c.Score,
			Type:  c.Type.String(),
		}
	}
	return Response{OK: true, Results: results}
}

func (s *Server) debugf(format string, args ...any) {
	if s.log != nil {
		s.log.Debugf(format, args...)
	}
}
