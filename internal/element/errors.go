package element

import (
	"errors"
	"fmt"
)

// Kind classifies element errors.
type Kind int

const (
	// InitError is raised by Init or Start.
	InitError Kind = iota
	// RuntimeError is raised by a frame's unit of work.
	RuntimeError
	// NonFatalError is reported but does not stop the pipeline.
	NonFatalError
	// FatalError terminates the whole pipeline.
	FatalError
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case InitError:
		return "init error"
	case RuntimeError:
		return "runtime error"
	case NonFatalError:
		return "non-fatal error"
	case FatalError:
		return "fatal error"
	default:
		return "unknown error"
	}
}

var (
	// ErrContractViolation marks misuse of the element or port contract,
	// such as leaving a required synchronous input unconsumed.
	ErrContractViolation = errors.New("contract violation")
	// ErrPanic wraps a panic recovered from a unit of work.
	ErrPanic = errors.New("panic in element")
	// ErrAttached is returned when attaching an element that already has a graph.
	ErrAttached = errors.New("element already attached")
	// ErrUnknownProperty is returned for property names the element does not expose.
	ErrUnknownProperty = errors.New("unknown property")
	// ErrReadOnlyProperty is returned when setting a property without a setter.
	ErrReadOnlyProperty = errors.New("read-only property")
)

// Error is the error stored on an element after a failure.
type Error struct {
	Kind      Kind
	ElementID ID
	Element   string
	// Serial is the frame being processed, or zero outside of RunOnce.
	Serial uint64
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Serial > 0 {
		return fmt.Sprintf("%s in element %q (id %d) at frame %d: %v", e.Kind, e.Element, e.ElementID, e.Serial, e.Err)
	}
	return fmt.Sprintf("%s in element %q (id %d): %v", e.Kind, e.Element, e.ElementID, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// classified tags an error returned by a Unit with the kind it should be
// reported as.
type classified struct {
	kind Kind
	err  error
}

func (c *classified) Error() string { return c.err.Error() }
func (c *classified) Unwrap() error { return c.err }

// NonFatal marks err as recoverable: the frame completes and the error is
// reported as a warning.
func NonFatal(err error) error {
	if err == nil {
		return nil
	}
	return &classified{kind: NonFatalError, err: err}
}

// Fatal marks err as pipeline-fatal.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &classified{kind: FatalError, err: err}
}

// KindOf returns the kind an error returned from Process is reported as.
func KindOf(err error) Kind {
	var c *classified
	if errors.As(err, &c) {
		return c.kind
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return RuntimeError
}
