// Package decay implements the forgetting-curve model that ages
// user-contributed unigram and bigram probabilities. It is a pure,
// table-driven mapping from (usage level, elapsed time) to an effective
// probability; nothing in this package runs implicitly during read-only
// queries, matching spec.md's "never runs decay implicitly" constraint.
package decay

import "github.com/bastiangx/gboard-decode/internal/codec"

// MaxLevel caps the usage level historicalInfo.Level can reach.
const MaxLevel = 3

// DecayIntervalSeconds is the duration of one "elapsed time step" in the
// forgetting curve tables (~2 days), matching the native constant.
const DecayIntervalSeconds = 2 * 24 * 60 * 60

// TableID selects which probability table a terminal's decay belongs to:
// a unigram entry or a bigram successor entry, since the two age at
// different rates.
type TableID int

const (
	UnigramTable TableID = iota
	BigramTable
)

// HistoricalInfo tracks how a dynamically-added entry has aged, per
// spec.md §3 PtNode.historicalInfo (v4 dictionaries only).
type HistoricalInfo struct {
	Level     int
	Timestamp int64 // unix seconds of last update
	Count     int   // number of times used/observed
}

// curve[tableId][level][elapsed] -> effective probability, clamped to
// the table's maximum bucket once elapsed exceeds its span. Values are
// illustrative of the native dictionary's decay shape: probability falls
// off with time and recovers with level.
var curve = [2][MaxLevel + 1][]int{
	UnigramTable: {
		0: {30, 20, 10, 5, 0},
		1: {60, 50, 40, 30, 20},
		2: {120, 110, 100, 90, 80},
		3: {180, 170, 160, 150, 140},
	},
	BigramTable: {
		0: {15, 10, 5, 2, 0},
		1: {30, 25, 20, 15, 10},
		2: {60, 55, 50, 45, 40},
		3: {90, 85, 80, 75, 70},
	},
}

// discardThreshold is the elapsed-step count at which a level-0 entry
// becomes eligible for garbage collection.
const discardThreshold = 4

// EffectiveProbability looks up (tableId, level, elapsed) in the static
// decay table, clamping elapsed to the table's last bucket.
func EffectiveProbability(table TableID, level, elapsed int) int {
	if level < 0 {
		level = 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	row := curve[table][level]
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed >= len(row) {
		elapsed = len(row) - 1
	}
	return row[elapsed]
}

// CreateUpdatedHistoricalInfo bumps level on use (capped at MaxLevel),
// refreshes the timestamp, and increments the observation count.
func CreateUpdatedHistoricalInfo(prev HistoricalInfo, now int64) HistoricalInfo {
	level := prev.Level + 1
	if level > MaxLevel {
		level = MaxLevel
	}
	return HistoricalInfo{
		Level:     level,
		Timestamp: now,
		Count:     prev.Count + 1,
	}
}

// ElapsedSteps converts a timestamp delta into forgetting-curve time steps,
// sized by intervalSeconds (DecayIntervalSeconds when intervalSeconds <= 0),
// so a caller holding a configured decay interval can override the package
// default without this package reaching back into pkg/config itself.
func ElapsedSteps(info HistoricalInfo, now, intervalSeconds int64) int {
	if intervalSeconds <= 0 {
		intervalSeconds = DecayIntervalSeconds
	}
	delta := now - info.Timestamp
	if delta < 0 {
		return 0
	}
	return int(delta / intervalSeconds)
}

// NeedsToKeep reports whether an entry at this historical state should
// survive garbage collection. False iff level==0 and elapsed has reached
// the discard threshold.
func NeedsToKeep(info HistoricalInfo, now, intervalSeconds int64) bool {
	if info.Level != 0 {
		return true
	}
	return ElapsedSteps(info, now, intervalSeconds) < discardThreshold
}

// NeedsToDecay reports whether the active unigram or bigram count exceeds
// the dictionary header's configured maxima, signalling that a GC pass
// should run before further mutation.
func NeedsToDecay(activeUnigrams, maxUnigrams, activeBigrams, maxBigrams int) bool {
	if maxUnigrams > 0 && activeUnigrams > maxUnigrams {
		return true
	}
	if maxBigrams > 0 && activeBigrams > maxBigrams {
		return true
	}
	return false
}

// Apply returns the effective probability for a terminal given its stored
// (static) probability and its historical info, falling back to the raw
// probability when no historical info is tracked (v3 / static dictionaries
// never carry one). intervalSeconds overrides the package's default decay
// interval when positive, letting a caller honor its own configured
// DecayIntervalSeconds.
func Apply(table TableID, stored int, info *HistoricalInfo, now, intervalSeconds int64) int {
	if info == nil {
		return stored
	}
	if stored == codec.NotAProbability {
		return codec.NotAProbability
	}
	elapsed := ElapsedSteps(*info, now, intervalSeconds)
	decayed := EffectiveProbability(table, info.Level, elapsed)
	if decayed > stored {
		return stored
	}
	return decayed
}
