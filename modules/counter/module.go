// Package counter provides the "counter" producer element. It emits an
// arithmetic sequence, one number per frame, optionally capped by a limit
// and paced by a minimum interval between frames.
package counter

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/specialistvlad/framegraph/internal/element"
	"github.com/specialistvlad/framegraph/internal/payload"
	"github.com/specialistvlad/framegraph/internal/port"
	"github.com/specialistvlad/framegraph/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the element type with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("counter", "Emits start, start+step, ... on \"out\", one value per frame.", func() element.Unit {
		return New(time.Now)
	})
}

// Settings is the counter's configuration.
type Settings struct {
	Start float64
	Step  float64
	// Limit caps the number of values emitted. Zero means unlimited.
	Limit int64
	// Interval is the minimum time between two frames.
	Interval time.Duration
}

// Counter is the element's unit of work.
type Counter struct {
	settings *element.Settings[Settings]
	now      func() time.Time

	mu      sync.Mutex
	emitted int64
	last    time.Time
}

// New creates a counter that reads time from now.
func New(now func() time.Time) *Counter {
	return &Counter{
		settings: element.NewSettings(Settings{Start: 1, Step: 1}),
		now:      now,
	}
}

// Ports implements element.Unit.
func (c *Counter) Ports() []port.Decl {
	return []port.Decl{port.Out("out", payload.Number)}
}

// Properties implements element.Configurable.
func (c *Counter) Properties() []element.Property {
	return []element.Property{
		element.NumberProperty("start", "First value emitted.",
			func() float64 { return c.settings.Load().Start },
			func(v float64) error {
				return c.set(func(s *Settings) { s.Start = v })
			}),
		element.NumberProperty("step", "Increment between values.",
			func() float64 { return c.settings.Load().Step },
			func(v float64) error {
				return c.set(func(s *Settings) { s.Step = v })
			}),
		element.IntProperty("limit", "Number of values to emit, 0 for unlimited.",
			func() int64 { return c.settings.Load().Limit },
			func(v int64) error {
				if v < 0 {
					return errors.New("limit must not be negative")
				}
				return c.set(func(s *Settings) { s.Limit = v })
			}),
		element.StringProperty("interval", "Minimum time between frames, such as \"100ms\".",
			func() string { return c.settings.Load().Interval.String() },
			func(v string) error {
				d, err := time.ParseDuration(v)
				if err != nil {
					return err
				}
				if d < 0 {
					return errors.New("interval must not be negative")
				}
				return c.set(func(s *Settings) { s.Interval = d })
			}),
		element.IntProperty("emitted", "Values emitted so far.",
			func() int64 {
				c.mu.Lock()
				defer c.mu.Unlock()
				return c.emitted
			}, nil),
	}
}

func (c *Counter) set(fn func(*Settings)) error {
	return c.settings.Update(func(s *Settings) error {
		fn(s)
		return nil
	})
}

// Init implements element.Initializer. A re-initialized counter starts over.
func (c *Counter) Init(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emitted = 0
	c.last = time.Time{}
	return nil
}

// ReadyToProduce implements element.Producer.
func (c *Counter) ReadyToProduce() bool {
	s := c.settings.Load()
	c.mu.Lock()
	defer c.mu.Unlock()
	if s.Limit > 0 && c.emitted >= s.Limit {
		return false
	}
	if s.Interval > 0 && !c.last.IsZero() && c.now().Sub(c.last) < s.Interval {
		return false
	}
	return true
}

// Process implements element.Unit.
func (c *Counter) Process(_ context.Context, f *element.Frame) error {
	s := c.settings.Load()
	c.mu.Lock()
	n := c.emitted
	c.emitted++
	c.last = c.now()
	c.mu.Unlock()
	return f.Publish("out", s.Start+float64(n)*s.Step)
}
