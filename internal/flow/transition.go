package flow

import (
	"sort"
	"time"
)

// Transition is a single observed status change as reported by the source
// system. Status labels are free text with arbitrary case and whitespace;
// the timestamp is the textual form handed over by the changelog and is
// parsed on demand via ParseTimestamp.
type Transition struct {
	Timestamp  string `json:"timestamp"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	Author     string `json:"author"`
}

// SortTransitions returns a copy of transitions stable-sorted by parsed
// timestamp (ties keep their original relative order). Any unparseable
// timestamp fails the whole call with a *MalformedTimestampError.
func SortTransitions(transitions []Transition) ([]Transition, error) {
	instants := make([]time.Time, len(transitions))
	for i, t := range transitions {
		parsed, err := ParseTimestamp(t.Timestamp)
		if err != nil {
			return nil, err
		}
		instants[i] = parsed
	}

	indices := make([]int, len(transitions))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return instants[indices[a]].Before(instants[indices[b]])
	})

	sorted := make([]Transition, len(transitions))
	for i, idx := range indices {
		sorted[i] = transitions[idx]
	}
	return sorted, nil
}
