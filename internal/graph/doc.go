// Package graph owns the elements and connections of a pipeline.
//
// The Graph is an arena: elements and connections live in maps keyed by
// integer ids the graph allocates, and everything outside the graph refers
// to them by id. Structural changes (adding or removing elements and
// connections) are only allowed while the pipeline is not running; each one
// invalidates the cached topological ordering and emits an event for
// collaborators that mirror the graph, such as an editor view.
//
// # Ordering
//
// The ordering places producers before consumers. It is built from the end
// nodes (elements with no connected output) by a depth-first walk that
// follows input connections back to their producers and appends elements
// post-order. A node met again while still on the walk's path closes a
// cycle; a graph without end nodes, or with elements the walk never
// reaches, contains one as well. Any cycle refuses the ordering.
//
// # Readiness
//
// ReadinessOf decides whether an element may run for a given frame. Synchronous
// inputs form a barrier: each must hold an item and all head serials must
// equal the frame. Asynchronous inputs are side channels that never hold
// the element back once it has synchronous inputs.
package graph
