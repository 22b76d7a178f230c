package testutil

import "time"

// ExecutionRecord holds the start and end times of one frame of an element.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether both executions were in progress at the same time.
func (r *ExecutionRecord) Overlaps(o *ExecutionRecord) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}
