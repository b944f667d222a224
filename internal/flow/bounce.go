package flow

// BounceBackEvent is a transition flagged as either a backward movement
// through the workflow or an entry into a blocked status. When IsBlocked
// is true the event marks blocked-state entry; blocked entry is reported
// independently of direction, so a single transition that both moves
// backward and lands in a blocked status yields two events.
type BounceBackEvent struct {
	Transition
	IsBlocked bool `json:"is_blocked"`
}

// DetectBounceBacks scans a chronologically sorted transition list and
// returns the transitions that move the ticket to an earlier workflow
// stage, plus every entry into a blocked status. Input order is preserved
// and no deduplication happens across distinct transitions.
//
// A transition only counts as a bounce-back when both sides classify as
// forward stages: there is nothing to bounce back from below the first
// stage, and unknown-vocabulary labels never generate bounce-back signals.
func DetectBounceBacks(transitions []Transition, workflow *Workflow) []BounceBackEvent {
	var events []BounceBackEvent

	for _, t := range transitions {
		from := workflow.Classify(t.FromStatus)
		to := workflow.Classify(t.ToStatus)

		if from.Class == StageForward && from.Position > 0 &&
			to.Class == StageForward && to.Position < from.Position {
			events = append(events, BounceBackEvent{Transition: t})
		}

		if to.Class == StageBlocked {
			events = append(events, BounceBackEvent{Transition: t, IsBlocked: true})
		}
	}

	return events
}
