package codec

import "testing"

func TestBackoff(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{100, 92},
		{5, 0},
		{8, 0},
		{NotAProbability, NotAProbability},
	}
	for _, c := range cases {
		if got := Backoff(c.in); got != c.want {
			t.Errorf("Backoff(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestBigramFallsBackWhenMissing(t *testing.T) {
	if got := Bigram(100, NotAProbability); got != Backoff(100) {
		t.Errorf("Bigram with missing bi = %d, want %d", got, Backoff(100))
	}
	if got := Bigram(NotAProbability, 10); got != NotAProbability {
		t.Errorf("Bigram with missing uni = %d, want NotAProbability", got)
	}
}

func TestBigramMonotonicInBi(t *testing.T) {
	prev := -1
	for bi := 0; bi <= MaxBigramProbability; bi++ {
		got := Bigram(100, bi)
		if got < prev {
			t.Fatalf("Bigram(100, %d) = %d is not monotonic (prev %d)", bi, got, prev)
		}
		prev = got
	}
	if prev > MaxProbability {
		t.Errorf("Bigram composite %d exceeds MaxProbability", prev)
	}
}

func TestBigramZeroWeightApproachesUnigram(t *testing.T) {
	got := Bigram(200, 0)
	// w(0) = 1/16, so composite should be just above the unigram floor.
	if got <= 200 || got > 204 {
		t.Errorf("Bigram(200, 0) = %d, want a small nudge above 200", got)
	}
}

func TestBigramMaxWeightApproachesCertainty(t *testing.T) {
	got := Bigram(100, MaxBigramProbability)
	if got < 240 {
		t.Errorf("Bigram(100, 15) = %d, want close to MaxProbability", got)
	}
}
