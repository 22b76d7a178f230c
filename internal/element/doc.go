// Package element implements the lifecycle of a processing node.
//
// Element authors write a Unit: a type that declares its ports and performs
// one unit of work per frame. Optional capability interfaces (Initializer,
// Starter, Stopper, Deinitializer, Producer, Configurable) hook into the
// lifecycle. The framework wraps the Unit in an *Element, which owns the
// ports and enforces the state machine:
//
//	Undefined -> Initialized -> Started -> {Dispatched -> Running -> Started}*
//	                   ^            |
//	                   +--- Stop ---+          (Error reachable from any state)
//	Initialized/Error -> Deinit -> Undefined
//
// RunOnce is the only entry point the scheduler uses during execution. It
// prepares the ports, calls Process with panic recovery, checks that every
// connected required synchronous input was consumed, and publishes a null
// item on every output the unit left untouched for the frame. Errors never
// escape RunOnce; they are stored on the element and reported as a false
// result.
//
// # Re-entrancy
//
// RunOnce is never entered twice concurrently for the same element: the
// Dispatched -> Running transition is guarded. Configuration may change
// from another goroutine while a frame runs; a Unit keeps its configuration
// in a Settings value and reads one snapshot at the start of Process.
package element
