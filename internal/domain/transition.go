package domain

// transitions lists the permitted targets for every non-terminal status.
var transitions = map[TaskStatus][]TaskStatus{
	StatusNew:        {StatusInProgress},
	StatusInProgress: {StatusNew, StatusDone},
}

// CanTransition reports whether a task in status from may move to status to.
// It is defined for every pair: unknown statuses and self-edges are simply
// not permitted.
func CanTransition(from, to TaskStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses reachable from from in one step,
// in lifecycle order. The result is empty for DONE and for unknown statuses.
func AllowedTransitions(from TaskStatus) []TaskStatus {
	allowed := transitions[from]
	out := make([]TaskStatus, len(allowed))
	copy(out, allowed)
	return out
}
