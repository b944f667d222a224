package flow

import (
	"math"
	"time"
)

// StatePeriod is a reconstructed occupancy interval: the ticket held
// Status from Entered until Exited. For the currently occupied status,
// Exited is the reference instant the reconstruction ran at.
type StatePeriod struct {
	Status        string    `json:"status"`
	Entered       time.Time `json:"entered"`
	Exited        time.Time `json:"exited"`
	DurationHours float64   `json:"duration_hours"`
}

// ReconstructPeriods derives the full time-in-state history from a
// chronologically sorted transition list, using the current wall clock as
// the end of the open period. created is the ticket's textual creation
// timestamp; pass "" when unknown.
func ReconstructPeriods(transitions []Transition, created string) ([]StatePeriod, error) {
	return ReconstructPeriodsAt(transitions, created, time.Now().UTC())
}

// ReconstructPeriodsAt is ReconstructPeriods with an explicit reference
// instant for the open period, captured once so the produced periods tile
// [origin, reference] exactly regardless of how long the call takes.
//
// An empty transition list yields an empty result: there is no history to
// reconstruct from, which is not an error. A leading period covering
// creation to the first transition is emitted only when created parses to
// an instant strictly earlier than the first transition. Zero-duration
// periods from identical timestamps are kept; they are evidence of bulk
// field updates.
func ReconstructPeriodsAt(transitions []Transition, created string, reference time.Time) ([]StatePeriod, error) {
	if len(transitions) == 0 {
		return nil, nil
	}

	instants := make([]time.Time, len(transitions))
	for i, t := range transitions {
		parsed, err := ParseTimestamp(t.Timestamp)
		if err != nil {
			return nil, err
		}
		instants[i] = parsed
	}

	var periods []StatePeriod

	if created != "" {
		creationTime, err := ParseTimestamp(created)
		if err != nil {
			return nil, err
		}
		if creationTime.Before(instants[0]) {
			periods = append(periods, newStatePeriod(transitions[0].FromStatus, creationTime, instants[0]))
		}
	}

	for i, t := range transitions {
		exited := reference
		if i+1 < len(transitions) {
			exited = instants[i+1]
		}
		periods = append(periods, newStatePeriod(t.ToStatus, instants[i], exited))
	}

	return periods, nil
}

func newStatePeriod(status string, entered, exited time.Time) StatePeriod {
	hours := exited.Sub(entered).Hours()
	return StatePeriod{
		Status:        status,
		Entered:       entered,
		Exited:        exited,
		DurationHours: math.Round(hours*100) / 100,
	}
}
