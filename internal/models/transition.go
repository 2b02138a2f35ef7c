package models

import "fmt"

// TransitionError reports a status change the lifecycle table does not allow.
type TransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	from := e.From
	if from == "" {
		from = "none"
	}
	return fmt.Sprintf("%s status cannot change from %s to %s", e.Entity, from, e.To)
}

// transitionTable lists the allowed targets per source state. Staying in the
// same state is always allowed and is not listed.
type transitionTable[S ~string] map[S][]S

func (t transitionTable[S]) allows(from, to S) bool {
	if from == to {
		return true
	}
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}
