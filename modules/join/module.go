// Package join provides the "join" element. It adds the two synchronous
// inputs of each frame, plus the latest value seen on the optional
// asynchronous "offset" input.
package join

import (
	"context"
	"sync"

	"github.com/specialistvlad/framegraph/internal/element"
	"github.com/specialistvlad/framegraph/internal/payload"
	"github.com/specialistvlad/framegraph/internal/port"
	"github.com/specialistvlad/framegraph/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the element type with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("join", "Publishes a + b (+ the latest offset) on \"out\".", func() element.Unit {
		return &Join{}
	})
}

// Join is the element's unit of work.
type Join struct {
	mu     sync.Mutex
	offset float64
}

// Ports implements element.Unit.
func (j *Join) Ports() []port.Decl {
	return []port.Decl{
		port.In("a", payload.Number),
		port.In("b", payload.Number),
		port.In("offset", payload.Number, port.Async()),
		port.Out("out", payload.Number),
	}
}

// Init implements element.Initializer.
func (j *Join) Init(context.Context) error {
	j.mu.Lock()
	j.offset = 0
	j.mu.Unlock()
	return nil
}

// Process implements element.Unit.
func (j *Join) Process(_ context.Context, f *element.Frame) error {
	a, err := f.Consume("a")
	if err != nil {
		return err
	}
	b, err := f.Consume("b")
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	// Drain to the newest side value; items for later frames stay queued.
	for in := f.In("offset"); in.HasData(); {
		s, _ := in.PeekSerial()
		if s > f.Serial {
			break
		}
		it, err := in.Consume()
		if err != nil {
			return err
		}
		if !it.Null {
			v, err := payload.As[float64](it)
			if err != nil {
				return err
			}
			j.offset = v
		}
	}

	if a.Null || b.Null {
		return f.PublishNull("out")
	}
	x, err := payload.As[float64](a)
	if err != nil {
		return err
	}
	y, err := payload.As[float64](b)
	if err != nil {
		return err
	}
	return f.Publish("out", x+y+j.offset)
}
