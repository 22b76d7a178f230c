// Package event carries the notifications a graph and its scheduler emit to
// outside collaborators: structural changes for an editor view, property
// changes, errors and warnings for telemetry, and the frames-per-second
// metric.
//
// Notifications fan out through a Bus. Each subscriber owns a buffered
// channel; a subscriber that falls behind loses events rather than slowing
// down the pipeline.
package event

import (
	"fmt"
	"time"
)

// Kind names the type of an Event.
type Kind string

const (
	ElementAdded      Kind = "element_added"
	ElementRemoved    Kind = "element_removed"
	ConnectionAdded   Kind = "connection_added"
	ConnectionRemoved Kind = "connection_removed"
	PropertyChanged   Kind = "property_changed"
	PipelineStarted   Kind = "pipeline_started"
	PipelineStopped   Kind = "pipeline_stopped"
	FrameCompleted    Kind = "frame_completed"
	FPS               Kind = "fps"
	Warning           Kind = "warning"
	Error             Kind = "error"
)

// Event is a single notification. Only the fields relevant to its Kind are
// set.
type Event struct {
	Kind         Kind      `json:"kind"`
	Time         time.Time `json:"time"`
	RunID        string    `json:"run_id,omitempty"`
	ElementID    uint64    `json:"element_id,omitempty"`
	Element      string    `json:"element,omitempty"`
	ConnectionID uint64    `json:"connection_id,omitempty"`
	Serial       uint64    `json:"serial,omitempty"`
	Property     string    `json:"property,omitempty"`
	Value        string    `json:"value,omitempty"`
	Message      string    `json:"message,omitempty"`
	FPS          float64   `json:"fps,omitempty"`
}

// String implements fmt.Stringer.
func (e Event) String() string {
	switch e.Kind {
	case FPS:
		return fmt.Sprintf("%s %.2f", e.Kind, e.FPS)
	case Error, Warning:
		return fmt.Sprintf("%s %s: %s", e.Kind, e.Element, e.Message)
	default:
		return fmt.Sprintf("%s %s", e.Kind, e.Element)
	}
}
