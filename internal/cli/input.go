// Package cli provides an interactive input loop for exercising the
// decoder from a terminal, for debugging and manual testing.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/gboard-decode/internal/ptrie"
	"github.com/bastiangx/gboard-decode/pkg/dict"
	"github.com/bastiangx/gboard-decode/pkg/suggest"
	"github.com/charmbracelet/log"
)

// InputHandler reads lines from stdin and prints the decoder's ranked
// suggestions for each. A trailing space on the line switches it to
// prediction mode: the rest of the line is looked up as the previous word
// and its bigram successors are shown instead of a decode. A line starting
// with '?' lists every dictionary word under that prefix via the mirror
// index instead of running a decode.
type InputHandler struct {
	suggester    *suggest.Suggester
	trie         *dict.Trie
	mirror       *ptrie.Mirror
	maxResults   int
	requestCount int
}

// NewInputHandler builds an InputHandler over suggester, looking up
// previous-word context in trie and prefix listings in mirror, returning at
// most maxResults suggestions per line.
func NewInputHandler(suggester *suggest.Suggester, trie *dict.Trie, mirror *ptrie.Mirror, maxResults int) *InputHandler {
	return &InputHandler{suggester: suggester, trie: trie, mirror: mirror, maxResults: maxResults}
}

// Start begins the input loop; it returns when stdin is closed.
func (h *InputHandler) Start() error {
	log.Print("gboard-decode CLI [BETA]")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a word to decode, trail with a space to predict the next word,")
	log.Print("or prefix with '?' to list dictionary words under a prefix (Ctrl+C to exit):")

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		h.handleInput(line)
	}
}

// handleInput decodes or predicts depending on whether line ends in a
// space, and prints the ranked results.
func (h *InputHandler) handleInput(line string) {
	h.requestCount++
	if h.requestCount%50 == 0 {
		stats := h.trie.GC()
		log.Debugf("periodic GC: %+v", stats)
	}

	trimmed := strings.TrimRight(line, "\n")
	if prefix, ok := strings.CutPrefix(strings.TrimSpace(trimmed), "?"); ok {
		h.handlePrefixQuery(prefix)
		return
	}

	predicting := strings.HasSuffix(trimmed, " ")
	word := strings.TrimSpace(trimmed)
	if word == "" {
		return
	}

	var req suggest.Request
	req.MaxResults = h.maxResults
	req.PrevWordTerminalPos = dict.NotADictPos

	if predicting {
		pos := h.trie.Lookup([]dict.CodePoint(word), false)
		if pos == dict.NotADictPos {
			log.Warnf("'%s' is not in the dictionary, nothing to predict from", word)
			return
		}
		req.PrevWordTerminalPos = pos
	} else {
		req.Input = toInputSamples(word)
	}

	start := time.Now()
	results := h.suggester.Suggest(req)
	elapsed := time.Since(start)
	log.Debugf("took %v for '%s'", elapsed, word)

	if len(results) == 0 {
		log.Warnf("no suggestions for '%s'", word)
		return
	}

	log.Printf("found %d suggestions for '%s':", len(results), word)
	for i, c := range results {
		clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", string(c.CodePoints))
		log.Printf("%2d. %-30s (score: %6d, type: %s)", i+1, clWord, c.Score, c.Type)
	}
}

// handlePrefixQuery lists every dictionary word under prefix via the
// mirror index, for inspecting what is actually loaded.
func (h *InputHandler) handlePrefixQuery(prefix string) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return
	}
	entries := h.mirror.WordsWithPrefix(prefix, h.maxResults)
	if len(entries) == 0 {
		log.Warnf("no dictionary words under prefix '%s'", prefix)
		return
	}
	log.Printf("%d words under prefix '%s':", len(entries), prefix)
	for i, e := range entries {
		log.Printf("%2d. %s", i+1, e.Word)
	}
}

func toInputSamples(word string) []suggest.InputSample {
	runes := []rune(word)
	samples := make([]suggest.InputSample, len(runes))
	for i, r := range runes {
		samples[i] = suggest.InputSample{PrimaryCodePoint: dict.CodePoint(r)}
	}
	return samples
}
