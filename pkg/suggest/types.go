// Package suggest implements the best-first decoder: it expands DicNodes
// across input touch positions, scores candidates with proximity plus
// (uni/bi)gram probability, and returns the top-scoring words. Grounded on
// original_source/native/src/suggest/core/suggest.h and suggest.cpp.
package suggest

import "github.com/bastiangx/gboard-decode/pkg/dict"

// InputSample is one touch/tap position in the caller's input sequence.
type InputSample struct {
	X, Y             float64
	Time             int64
	PointerID        int
	PrimaryCodePoint dict.CodePoint
}

// Request bundles one getSuggestions call's arguments (spec.md §6), minus
// the ProximityInfo and dictionary, which the Suggester already owns.
type Request struct {
	Input []InputSample

	// PrevWordTerminalPos seeds multi-word composition: the terminal
	// position of the word preceding this input span, or
	// dict.NotADictPos for the first word.
	PrevWordTerminalPos int

	// MaxResults overrides the decoder's configured default when > 0.
	MaxResults int
}

// ResultType classifies how a candidate was produced, per spec.md §4.8.
type ResultType int

const (
	Prediction ResultType = iota
	Correction
	Whitelist
	Shortcut
)

func (t ResultType) String() string {
	switch t {
	case Prediction:
		return "prediction"
	case Correction:
		return "correction"
	case Whitelist:
		return "whitelist"
	case Shortcut:
		return "shortcut"
	default:
		return "unknown"
	}
}

// Candidate is one ranked suggestion.
type Candidate struct {
	CodePoints []dict.CodePoint
	Score      int
	Type       ResultType
}
