package port

import "errors"

var (
	// ErrIncompatibleType is returned when the payload type tags of two ports
	// differ, or when a published value does not match its port's tag.
	ErrIncompatibleType = errors.New("incompatible type")
	// ErrDuplicateConnection is returned when an input port is already connected.
	ErrDuplicateConnection = errors.New("duplicate connection")
	// ErrSelfConnection is returned when both ports belong to the same element.
	ErrSelfConnection = errors.New("illegal self-connection")
	// ErrNotConnected is returned when disconnecting ports that are not linked
	// by the given connection.
	ErrNotConnected = errors.New("not connected")
	// ErrEmptyQueue is returned by Consume when no item is queued.
	ErrEmptyQueue = errors.New("consume on empty input")
	// ErrAlreadyConsumed is returned when a synchronous input is consumed twice
	// within one frame.
	ErrAlreadyConsumed = errors.New("synchronous input already consumed this frame")
	// ErrAlreadyPublished is returned when an output publishes twice for the
	// same frame, or goes back to an older frame.
	ErrAlreadyPublished = errors.New("output already published this frame")
)
