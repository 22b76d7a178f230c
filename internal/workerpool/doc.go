// Package workerpool runs jobs on a bounded number of worker slots without
// ever blocking the submitter.
//
// TrySubmit either claims a free slot and starts the job on its own
// goroutine, or reports that every slot is taken. Each finished job posts a
// Result on a buffered channel; the slot is released only when the result
// is collected with Drain. A caller that polls Drain on a fixed period,
// like the scheduler's tick, therefore never waits on job execution and
// never loses a completion.
package workerpool
