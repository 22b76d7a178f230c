package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/specialistvlad/framegraph/internal/element"
)

// Sleeper wraps a unit so that every frame takes a fixed time. It records
// the execution window of each frame, keyed by "name/serial".
type Sleeper struct {
	*Unit
	ExecutionTimes map[string]*ExecutionRecord
	mu             sync.Mutex
	sleepDuration  time.Duration
}

// NewSleeper makes u sleep for d on every frame before doing its work.
func NewSleeper(u *Unit, d time.Duration) *Sleeper {
	s := &Sleeper{
		Unit:           u,
		ExecutionTimes: make(map[string]*ExecutionRecord),
		sleepDuration:  d,
	}
	work := u.Fn
	u.Fn = func(ctx context.Context, f *element.Frame) error {
		start := time.Now()
		select {
		case <-time.After(s.sleepDuration):
		case <-ctx.Done():
			return ctx.Err()
		}
		end := time.Now()

		s.mu.Lock()
		s.ExecutionTimes[fmt.Sprintf("%s/%d", u.Name, f.Serial)] = &ExecutionRecord{Start: start, End: end}
		s.mu.Unlock()

		if work == nil {
			return nil
		}
		return work(ctx, f)
	}
	return s
}

// Record returns the execution window of a frame.
func (s *Sleeper) Record(serial uint64) (*ExecutionRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.ExecutionTimes[fmt.Sprintf("%s/%d", s.Name, serial)]
	return r, ok
}
