package graph

import "errors"

var (
	// ErrCycle is returned when the connections form a cycle.
	ErrCycle = errors.New("cycle detected")
	// ErrRunning is returned for structural changes while the pipeline runs.
	ErrRunning = errors.New("graph is running")
	// ErrNotFound is returned for unknown element, port or connection ids.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName is returned when two elements share an instance name.
	ErrDuplicateName = errors.New("duplicate element name")
	// ErrUnconnectedPort is returned by Validate for required inputs left
	// unconnected.
	ErrUnconnectedPort = errors.New("required input not connected")
	// ErrEmpty is returned by Validate for a graph without elements.
	ErrEmpty = errors.New("graph has no elements")
)
