// Package connection implements the FIFO edge that links one output port to
// one input port.
//
// A Connection references its two endpoints by element id and port name
// rather than by pointer, so that the graph remains the single owner of
// every element. Items are moved through the queue: once pushed, the
// producer no longer touches them, and Pop hands ownership to the consumer.
//
// The queue is unbounded. Its length is observable for diagnostics and
// back-pressure heuristics, but capacity policy lives with the scheduler,
// which limits how many frames may be in flight at once.
//
// Push, Pop and Peek are guarded by a connection-local mutex; a producer
// worker and a consumer worker may operate on the same connection
// concurrently.
package connection
