package notification

import "fmt"

// State is a step of the dispatch state machine:
//
//	Idle -> Checking -> Done
//	Idle -> Checking -> Dispatching -> Done
type State int

const (
	StateIdle State = iota
	StateChecking
	StateDispatching
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChecking:
		return "checking"
	case StateDispatching:
		return "dispatching"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// CanTransition reports whether the machine may move from s to next.
func (s State) CanTransition(next State) bool {
	switch s {
	case StateIdle:
		return next == StateChecking
	case StateChecking:
		return next == StateDispatching || next == StateDone
	case StateDispatching:
		return next == StateDone
	default:
		return false
	}
}

// MarshalText renders the state name in JSON and logs.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
