package remediation

import "fmt"

// State is one step of the remediation lifecycle. A finding moves forward
// through detection, validation, fix request and scoring, and terminates
// in Applied or Rejected; an Applied remediation may later move to
// RolledBack.
type State string

const (
	StateDetected     State = "detected"
	StateValidated    State = "validated"
	StateFixRequested State = "fix_requested"
	StateFixReceived  State = "fix_received"
	StateFixScored    State = "fix_scored"
	StateApplied      State = "applied"
	StateRejected     State = "rejected"
	StateRolledBack   State = "rolled_back"
)

var transitions = map[State][]State{
	StateDetected:     {StateValidated},
	StateValidated:    {StateFixRequested},
	StateFixRequested: {StateFixReceived},
	StateFixReceived:  {StateFixScored},
	StateFixScored:    {StateApplied, StateRejected},
	StateApplied:      {StateRolledBack},
	StateRejected:     {},
	StateRolledBack:   {},
}

// CanTransition reports whether moving from one state to another is legal.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions leave the state.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

// advance moves a record forward, enforcing the lifecycle order.
func (r *Record) advance(to State) error {
	if !CanTransition(r.State, to) {
		return fmt.Errorf("illegal state transition %s -> %s for issue %s", r.State, to, r.IssueID)
	}
	r.State = to
	return nil
}
