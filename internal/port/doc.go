// Package port implements the typed attachment points of an element.
//
// An element declares its ports once, at construction, with a list of Decl
// values. Inputs are required and synchronous unless declared otherwise:
// a required input must be connected before the pipeline may start, and a
// synchronous input takes part in the per-frame barrier check the scheduler
// performs before dispatching the element.
//
// Input and Output are not safe for concurrent use. Structural changes
// (Connect, Disconnect) happen only while the pipeline is stopped, and
// HasData/Consume/Publish are only called by the worker currently running
// the owning element. The connection queues underneath carry their own
// locks.
package port
