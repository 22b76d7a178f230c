// Package gate provides the "gate" element. It lets one frame in every N
// through and publishes null for the others, so downstream elements stay
// aligned while skipping work.
package gate

import (
	"context"
	"errors"

	"github.com/specialistvlad/framegraph/internal/element"
	"github.com/specialistvlad/framegraph/internal/payload"
	"github.com/specialistvlad/framegraph/internal/port"
	"github.com/specialistvlad/framegraph/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the element type with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("gate", "Forwards every Nth frame and publishes null otherwise.", func() element.Unit {
		return New()
	})
}

// Gate is the element's unit of work.
type Gate struct {
	every *element.Settings[int64]
}

// New creates a gate that forwards every frame.
func New() *Gate {
	return &Gate{every: element.NewSettings[int64](1)}
}

// Ports implements element.Unit.
func (g *Gate) Ports() []port.Decl {
	return []port.Decl{
		port.In("in", payload.Number),
		port.Out("out", payload.Number),
	}
}

// Properties implements element.Configurable.
func (g *Gate) Properties() []element.Property {
	return []element.Property{
		element.IntProperty("every", "Forward frames whose serial is a multiple of this.",
			func() int64 { return g.every.Load() },
			func(v int64) error {
				if v < 1 {
					return errors.New("every must be at least 1")
				}
				return g.every.Update(func(n *int64) error {
					*n = v
					return nil
				})
			}),
	}
}

// Process implements element.Unit.
func (g *Gate) Process(_ context.Context, f *element.Frame) error {
	it, err := f.Consume("in")
	if err != nil {
		return err
	}
	if it.Null || f.Serial%uint64(g.every.Load()) != 0 {
		return f.PublishNull("out")
	}
	return f.Publish("out", it.Value)
}
