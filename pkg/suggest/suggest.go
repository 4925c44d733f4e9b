package suggest

import (
	"time"

	"github.com/bastiangx/gboard-decode/internal/bigrammap"
	"github.com/bastiangx/gboard-decode/internal/codec"
	"github.com/bastiangx/gboard-decode/internal/decay"
	"github.com/bastiangx/gboard-decode/internal/proximity"
	"github.com/bastiangx/gboard-decode/pkg/config"
	"github.com/bastiangx/gboard-decode/pkg/dicnode"
	"github.com/bastiangx/gboard-decode/pkg/dict"
)

// enableBigramFirstLetterFilterInPrediction names the bigram-only
// prediction mode's first-letter restriction, which the source this is
// grounded on notes is probably wrong once the user has typed beyond one
// letter. No code reads this flag: predictFromBigrams applies no
// first-letter filter.
const enableBigramFirstLetterFilterInPrediction = false

// Suggester is the best-first decoder over one dictionary. It is safe for
// concurrent read-only Suggest calls provided no writer mutates the
// underlying trie concurrently (spec.md §5).
type Suggester struct {
	trie *dict.Trie
	prox proximity.Info
	cfg  config.DecoderConfig
}

// New builds a Suggester over trie, scoring candidates with prox's
// keyboard geometry and cfg's search budget and demotion table.
func New(trie *dict.Trie, prox proximity.Info, cfg config.DecoderConfig) *Suggester {
	return &Suggester{trie: trie, prox: prox, cfg: cfg}
}

// frontierNode pairs a DicNode with the sibling array its children should
// be enumerated from; this bookkeeping is search-local and doesn't belong
// on the general-purpose dicnode.DicNode.
type frontierNode struct {
	dic      dicnode.DicNode
	arrayPos int
}

// Suggest runs one getSuggestions call (spec.md §6): best-first search
// when input is present, or direct bigram-successor enumeration when
// req.Input is empty (prediction mode, spec.md §4.7 last paragraph).
func (s *Suggester) Suggest(req Request) []Candidate {
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = s.cfg.MaxResults
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	if len(req.Input) == 0 {
		return s.predictFromBigrams(req.PrevWordTerminalPos, maxResults)
	}

	bigrams := bigrammap.New(s.trie)
	results := NewResultSet(maxResults)

	// arena bounds the total number of hypotheses this call can spawn
	// (dicnode.MaxArenaSize), independent of the best-first queue below,
	// which only decides expansion order among whatever the arena admits.
	arena := dicnode.NewVector(0)

	frontier := []frontierNode{{
		dic:      dicnode.Root(req.PrevWordTerminalPos),
		arrayPos: s.trie.RootArrayPos(),
	}}

	budget := s.cfg.MaxDepthMultiplier * len(req.Input)
	if budget <= 0 {
		budget = 3 * len(req.Input)
	}

	for expansions := 0; len(frontier) > 0 && expansions < budget; expansions++ {
		bestIdx := bestFrontierIndex(frontier)
		cur := frontier[bestIdx]
		frontier[bestIdx] = frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]

		for _, child := range s.trie.EnumerateChildren(cur.arrayPos) {
			node, resolvedPos := s.trie.Node(child.Pos)
			if node == nil || node.Flags.IsNotAWord || node.Flags.IsBlacklisted {
				continue
			}

			stepMultiplier, consumedInput, ok := s.extend(cur.dic, child.CodePoints, req.Input)
			if !ok {
				continue
			}
			newDic, admitted := arena.PushPassingChild(cur.dic, resolvedPos, child.CodePoints, consumedInput, stepMultiplier)
			if !admitted {
				continue
			}

			if node.Flags.HasChildren && node.ChildrenPos != dict.NotADictPos {
				frontier = append(frontier, frontierNode{dic: newDic, arrayPos: node.ChildrenPos})
			}

			if node.Flags.IsTerminal {
				s.emitTerminal(results, newDic, node, resolvedPos, consumedInput, len(req.Input), bigrams)

				if consumedInput < len(req.Input) && len(req.Input) >= 3 &&
					s.prox.HasSpaceProximity(s.prox.GetKeyIndex(req.Input[consumedInput].PrimaryCodePoint)) {
					if next, ok := arena.PushLeavingChild(newDic, ' ', resolvedPos, s.cfg.Demotion.MissingSpace); ok {
						frontier = append(frontier, frontierNode{dic: next, arrayPos: s.trie.RootArrayPos()})
					}
				}
			}
		}
	}

	return results.Results()
}

// bestFrontierIndex returns the index of the highest-Cost (best-matching)
// frontier entry; ties break toward the first found. The frontier is kept
// as a flat slice and scanned linearly rather than heap-ordered, matching
// the small, short-lived working sets this search produces per call.
func bestFrontierIndex(frontier []frontierNode) int {
	best := 0
	for i := 1; i < len(frontier); i++ {
		if frontier[i].dic.Cost > frontier[best].dic.Cost {
			best = i
		}
	}
	return best
}

// extend matches label against the remaining input starting at
// parent.InputIndex, applying the matchCost demotion table of spec.md
// §4.7 code point by code point. It returns the accumulated step
// multiplier (the factor arena.PushPassingChild will compound onto the
// parent's Cost) and how many input positions were consumed, or false if
// no accommodation (exact, proximity, transposed, excessive, or missing)
// lets this label continue matching. The caller, not extend, builds the
// resulting DicNode, since admitting it into the search is the arena's
// job (dicnode.Vector.PushPassingChild).
func (s *Suggester) extend(parent dicnode.DicNode, label []dict.CodePoint, input []InputSample) (float64, int, bool) {
	multiplier := 1.0
	consumed := parent.InputIndex
	rates := s.cfg.Demotion

	for i := 0; i < len(label); i++ {
		cp := label[i]

		if consumed >= len(input) {
			// Input exhausted but the label continues: accommodate as a
			// trailing missing character rather than fail outright.
			multiplier *= rates.MissingChar
			continue
		}

		sample := input[consumed]
		if cp == sample.PrimaryCodePoint {
			consumed++
			continue
		}

		keyIdx := s.prox.GetKeyIndex(sample.PrimaryCodePoint)
		if isNeighbor(s.prox, keyIdx, cp) {
			multiplier *= rates.Proximity
			consumed++
			continue
		}

		if len(input) >= 3 && consumed+1 < len(input) && i+1 < len(label) &&
			input[consumed].PrimaryCodePoint == label[i+1] &&
			input[consumed+1].PrimaryCodePoint == cp {
			multiplier *= rates.Transposed
			consumed += 2
			i++
			continue
		}

		if len(input) >= 3 && consumed+1 < len(input) {
			next := input[consumed+1]
			nextKeyIdx := s.prox.GetKeyIndex(next.PrimaryCodePoint)
			if next.PrimaryCodePoint == cp || isNeighbor(s.prox, nextKeyIdx, cp) {
				multiplier *= rates.ExcessiveChar
				consumed += 2
				continue
			}
		}

		if consumed > 0 {
			multiplier *= rates.MissingChar
			continue
		}

		return 0, 0, false
	}

	return multiplier, consumed, true
}

func isNeighbor(prox proximity.Info, keyIdx int, cp dict.CodePoint) bool {
	for _, n := range prox.Neighbors(keyIdx) {
		if n == cp {
			return true
		}
	}
	return false
}

// emitTerminal scores a completed word and inserts it (and any attached
// shortcuts) into results. The terminal's stored probability is first aged
// through the forgetting curve (decay.Apply is a no-op for static terminals,
// whose HistoricalInfo is nil); compositeProb then folds in bigram
// continuation probability when this span follows a previous word. Full
// input consumption earns the full-match bonus multiplier.
func (s *Suggester) emitTerminal(results *ResultSet, dic dicnode.DicNode, node *dict.PtNode, pos int, consumedInput int, inputSize int, bigrams *bigrammap.MultiBigramMap) {
	effectiveProb := decay.Apply(decay.UnigramTable, node.Probability, node.HistoricalInfo, time.Now().Unix(), s.cfg.DecayIntervalSeconds)

	compositeProb := effectiveProb
	if dic.PrevWordTerminalPos != dict.NotADictPos {
		compositeProb = bigrams.BigramProbability(dic.PrevWordTerminalPos, pos, effectiveProb)
	}

	multiplier := dic.Cost
	if consumedInput == inputSize && dic.Cost == 1.0 {
		// Full-match bonus applies only when every input position was
		// consumed AND no edit demotion was needed to get there; consuming
		// every position via a correction (proximity, excessive, etc.)
		// does not also earn the exact-match bonus on top.
		multiplier *= s.cfg.Demotion.FullMatch
	}

	resultType := Prediction
	if dic.Cost < 1.0 {
		resultType = Correction
	}

	results.Insert(Candidate{
		CodePoints: dic.Word,
		Score:      roundToInt(multiplier * float64(compositeProb)),
		Type:       resultType,
	})

	for _, sc := range s.trie.Shortcuts(pos) {
		results.Insert(Candidate{
			CodePoints: sc.CodePoints,
			Score:      roundToInt(multiplier * float64(sc.Probability)),
			Type:       Shortcut,
		})
	}
}

// predictFromBigrams implements spec.md §4.7's bigram-only prediction
// mode: enumerate the previous word's bigram successors directly, compose
// each with ProbabilityCodec.Bigram, and return the top maxResults.
func (s *Suggester) predictFromBigrams(prevPos int, maxResults int) []Candidate {
	if prevPos == dict.NotADictPos {
		return nil
	}
	results := NewResultSet(maxResults)
	for _, e := range s.trie.Bigrams(prevPos) {
		word, unigramProb := s.trie.FetchWord(e.TargetPos)
		if word == nil {
			continue
		}
		results.Insert(Candidate{
			CodePoints: word,
			Score:      codec.Bigram(unigramProb, e.Probability),
			Type:       Prediction,
		})
	}
	return results.Results()
}

func roundToInt(f float64) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}
