package suggest

import "sort"

// ResultSet is the bounded priority structure of spec.md §4.8: insertion is
// a binary search keyed on descending score, ties broken by shorter word,
// and the set never grows past capacity — the lowest-scoring candidate is
// dropped on overflow.
type ResultSet struct {
	capacity int
	items    []Candidate
}

// NewResultSet creates an empty set bounded at capacity entries.
func NewResultSet(capacity int) *ResultSet {
	if capacity <= 0 {
		capacity = 1
	}
	return &ResultSet{capacity: capacity}
}

// Insert places c in score-descending order (ties: fewer code points wins),
// dropping the lowest-ranked entry if the set is already at capacity and c
// doesn't displace anything.
func (r *ResultSet) Insert(c Candidate) {
	idx := sort.Search(len(r.items), func(i int) bool {
		if r.items[i].Score != c.Score {
			return r.items[i].Score < c.Score
		}
		return len(r.items[i].CodePoints) > len(c.CodePoints)
	})
	if idx >= r.capacity {
		return
	}
	r.items = append(r.items, Candidate{})
	copy(r.items[idx+1:], r.items[idx:])
	r.items[idx] = c
	if len(r.items) > r.capacity {
		r.items = r.items[:r.capacity]
	}
}

// Results returns the current ranked candidates, best first.
func (r *ResultSet) Results() []Candidate {
	out := make([]Candidate, len(r.items))
	copy(out, r.items)
	return out
}

// Len reports how many candidates are currently held.
func (r *ResultSet) Len() int { return len(r.items) }
