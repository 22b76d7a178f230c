package scheduler

import "errors"

var (
	// ErrNotRunning is returned by Tick when the pipeline is not running.
	ErrNotRunning = errors.New("pipeline is not running")
	// ErrAlreadyRunning is returned by Start on a running pipeline.
	ErrAlreadyRunning = errors.New("pipeline is already running")
	// ErrHalted wraps the errors of the elements that stopped a pipeline.
	ErrHalted = errors.New("pipeline halted")
	// ErrDrainTimeout is returned by Stop when in-flight frames did not
	// complete in time.
	ErrDrainTimeout = errors.New("drain timed out")
	// ErrAbandoned is returned by Stop for elements still running after the
	// drain timeout.
	ErrAbandoned = errors.New("element abandoned while running")
	// ErrLeftoverData is returned by Stop when a connection still holds
	// items after the final flush.
	ErrLeftoverData = errors.New("connection still holds data")
	// ErrInvalidConfig is returned for unusable scheduler settings.
	ErrInvalidConfig = errors.New("invalid scheduler config")
)
