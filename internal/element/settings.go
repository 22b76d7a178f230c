package element

import (
	"sync"
	"sync/atomic"
)

// Settings holds an element's configuration as an immutable snapshot.
// Writers copy the current value, modify the copy and publish it; readers
// take one snapshot at the start of a frame and never lock. T should be a
// value type; reference fields inside it are shared between snapshots.
type Settings[T any] struct {
	mu  sync.Mutex
	cur atomic.Pointer[T]
}

// NewSettings returns settings holding initial.
func NewSettings[T any](initial T) *Settings[T] {
	s := &Settings[T]{}
	s.cur.Store(&initial)
	return s
}

// Load returns the current snapshot.
func (s *Settings[T]) Load() T {
	return *s.cur.Load()
}

// Update applies fn to a copy of the current snapshot and publishes it
// unless fn fails.
func (s *Settings[T]) Update(fn func(*T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.cur.Load()
	if err := fn(&next); err != nil {
		return err
	}
	s.cur.Store(&next)
	return nil
}
