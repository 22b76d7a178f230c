package scheduler

import (
	"errors"
	"fmt"
	"runtime"
	"time"
)

// Config holds the scheduler settings.
type Config struct {
	// Workers is the number of element invocations that may run at once.
	Workers int
	// MaxStages bounds the frames in flight.
	MaxStages int
	// Tick is the period of the scheduling loop in Run.
	Tick time.Duration
	// Frames stops Run after that many frames. Zero means no limit.
	Frames uint64
	// DrainTimeout bounds how long Stop waits for in-flight frames.
	DrainTimeout time.Duration
}

// DefaultConfig returns the settings used when nothing else is configured.
func DefaultConfig() Config {
	return Config{
		Workers:      runtime.NumCPU(),
		MaxStages:    2,
		Tick:         10 * time.Millisecond,
		DrainTimeout: 5 * time.Second,
	}
}

// Validate reports every unusable setting.
func (c Config) Validate() error {
	var errs []error
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers))
	}
	if c.MaxStages < 1 {
		errs = append(errs, fmt.Errorf("%w: max stages must be positive, got %d", ErrInvalidConfig, c.MaxStages))
	}
	if c.Tick <= 0 {
		errs = append(errs, fmt.Errorf("%w: tick must be positive, got %s", ErrInvalidConfig, c.Tick))
	}
	if c.DrainTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: drain timeout must be positive, got %s", ErrInvalidConfig, c.DrainTimeout))
	}
	return errors.Join(errs...)
}
