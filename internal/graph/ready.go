package graph

import "github.com/specialistvlad/framegraph/internal/element"

// Readiness explains whether an element may run for a frame.
type Readiness int

const (
	// Ready means the element can be dispatched.
	Ready Readiness = iota
	// NotStarted means the element is not in the Started state.
	NotStarted
	// Busy means the element is dispatched or running.
	Busy
	// Behind means the element has not completed the previous frame yet.
	Behind
	// ProducerIdle means a producer reported it cannot emit yet.
	ProducerIdle
	// MissingData means a synchronous input has no item.
	MissingData
	// Misaligned means synchronous inputs hold items of different frames.
	Misaligned
	// AwaitingAsync means an element with only asynchronous inputs has
	// nothing to read.
	AwaitingAsync
)

// String implements fmt.Stringer.
func (r Readiness) String() string {
	switch r {
	case Ready:
		return "ready"
	case NotStarted:
		return "not started"
	case Busy:
		return "busy"
	case Behind:
		return "behind"
	case ProducerIdle:
		return "producer idle"
	case MissingData:
		return "missing data"
	case Misaligned:
		return "misaligned"
	case AwaitingAsync:
		return "awaiting async input"
	default:
		return "unknown"
	}
}

// ReadinessOf checks whether e may run for frame serial. Frames are processed
// in order, so the element must have completed serial-1.
func ReadinessOf(e *element.Element, serial uint64) Readiness {
	switch e.State() {
	case element.Started:
	case element.Dispatched, element.Running:
		return Busy
	default:
		return NotStarted
	}
	if e.Serial()+1 != serial {
		return Behind
	}
	if e.IsProducer() {
		if !e.ReadyToProduce() {
			return ProducerIdle
		}
		return Ready
	}

	var hasSync, asyncData bool
	for _, in := range e.Inputs() {
		if !in.IsConnected() {
			continue
		}
		head, ok := in.PeekSerial()
		if in.Async() {
			if ok && head <= serial {
				asyncData = true
			}
			continue
		}
		hasSync = true
		if !ok {
			return MissingData
		}
		if head != serial {
			return Misaligned
		}
	}
	if !hasSync && !asyncData {
		return AwaitingAsync
	}
	return Ready
}
