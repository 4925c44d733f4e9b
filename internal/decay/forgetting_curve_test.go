package decay

import "testing"

func TestCreateUpdatedHistoricalInfoCapsAtMaxLevel(t *testing.T) {
	info := HistoricalInfo{Level: MaxLevel, Timestamp: 0, Count: 2}
	updated := CreateUpdatedHistoricalInfo(info, 100)
	if updated.Level != MaxLevel {
		t.Errorf("Level = %d, want capped at %d", updated.Level, MaxLevel)
	}
	if updated.Count != 3 {
		t.Errorf("Count = %d, want 3", updated.Count)
	}
	if updated.Timestamp != 100 {
		t.Errorf("Timestamp = %d, want 100", updated.Timestamp)
	}
}

func TestNeedsToKeep(t *testing.T) {
	now := int64(discardThreshold) * DecayIntervalSeconds
	stale := HistoricalInfo{Level: 0, Timestamp: 0}
	if NeedsToKeep(stale, now, 0) {
		t.Errorf("level-0 entry past discard threshold should not be kept")
	}
	fresh := HistoricalInfo{Level: 0, Timestamp: now - 1}
	if !NeedsToKeep(fresh, now, 0) {
		t.Errorf("level-0 entry before discard threshold should be kept")
	}
	leveled := HistoricalInfo{Level: 1, Timestamp: 0}
	if !NeedsToKeep(leveled, now, 0) {
		t.Errorf("any level > 0 entry should always be kept")
	}
}

func TestNeedsToKeepHonorsConfiguredInterval(t *testing.T) {
	const shortInterval = int64(60)
	now := int64(discardThreshold) * shortInterval
	stale := HistoricalInfo{Level: 0, Timestamp: 0}
	if NeedsToKeep(stale, now, shortInterval) {
		t.Errorf("level-0 entry past discard threshold under a short interval should not be kept")
	}
	if !NeedsToKeep(stale, now, 0) {
		t.Errorf("same entry under the default (much longer) interval should still be kept")
	}
}

func TestNeedsToDecay(t *testing.T) {
	if !NeedsToDecay(101, 100, 0, 0) {
		t.Errorf("unigram count over max should need decay")
	}
	if !NeedsToDecay(0, 0, 101, 100) {
		t.Errorf("bigram count over max should need decay")
	}
	if NeedsToDecay(50, 100, 50, 100) {
		t.Errorf("counts under max should not need decay")
	}
}

func TestApplyNeverExceedsStoredProbability(t *testing.T) {
	info := HistoricalInfo{Level: 3, Timestamp: 0}
	got := Apply(UnigramTable, 50, &info, 0, 0)
	if got > 50 {
		t.Errorf("Apply() = %d, decay must never exceed stored probability 50", got)
	}
}

func TestApplyWithNilInfoReturnsStored(t *testing.T) {
	if got := Apply(UnigramTable, 77, nil, 0, 0); got != 77 {
		t.Errorf("Apply() with nil info = %d, want 77 unchanged", got)
	}
}
