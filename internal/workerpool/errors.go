package workerpool

import "errors"

var (
	// ErrNilRunner is returned when New is called without a run function.
	ErrNilRunner = errors.New("run function cannot be nil")
	// ErrNoWorkers is returned for a pool with fewer than one slot.
	ErrNoWorkers = errors.New("pool needs at least one worker")
)
