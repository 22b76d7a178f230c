// Package scheduler drives a graph: it initializes and starts its elements,
// runs frames through them on a bounded worker pool, and tears everything
// down again.
//
// # Stages
//
// A stage is one frame in flight. Each tick the scheduler
//
//  1. collects finished invocations from the pool; a failed one halts the
//     pipeline,
//  2. admits at most one new stage while fewer than MaxStages are in flight
//     and the frame limit has not been reached,
//  3. walks the stages oldest first, dispatching elements in topological
//     order while worker slots are free and stopping a stage at its first
//     element that is not ready,
//  4. retires stages from the front once every element ran for them, so
//     frames complete in serial order,
//  5. updates the FPS meter and queue depth metrics.
//
// Tick never waits on element work. Invocations run on their own goroutines
// and post results that the next tick picks up.
//
// # Stopping
//
// Stop stops admitting stages, drops admitted ones no element has run for
// yet, and keeps dispatching the rest until they complete or DrainTimeout
// expires. After a failure it only waits for invocations that are already
// running. Elements still running when the timeout fires are abandoned:
// their context is cancelled, they are neither stopped nor deinitialized,
// and Stop reports them. Every other element is stopped and deinitialized
// in reverse topological order and every connection is flushed.
package scheduler
