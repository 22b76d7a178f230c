package element

import "fmt"

// State is a position in the element lifecycle.
type State int32

const (
	// Undefined is the state of a fresh or fully deinitialized element.
	Undefined State = iota
	// Initialized means internal resources are allocated. A stopped element
	// is Initialized again.
	Initialized
	// Started means external resources are acquired and the element can be
	// scheduled.
	Started
	// Dispatched means the scheduler has handed the element to a worker.
	Dispatched
	// Running means the unit of work is executing.
	Running
	// Errored means a lifecycle call or a frame failed; see Element.Err.
	Errored
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Undefined:
		return "undefined"
	case Initialized:
		return "initialized"
	case Started:
		return "started"
	case Dispatched:
		return "dispatched"
	case Running:
		return "running"
	case Errored:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

func isAllowedTransition(from, to State) bool {
	if to == Errored {
		return from != Errored
	}
	switch from {
	case Undefined:
		return to == Initialized
	case Initialized:
		return to == Started || to == Undefined
	case Started:
		return to == Dispatched || to == Initialized
	case Dispatched:
		return to == Running
	case Running:
		return to == Started
	case Errored:
		return to == Initialized || to == Undefined
	default:
		return false
	}
}
