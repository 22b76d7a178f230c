// Package scale provides the "scale" filter element, which multiplies
// every number passing through it by a configurable factor.
package scale

import (
	"context"

	"github.com/specialistvlad/framegraph/internal/element"
	"github.com/specialistvlad/framegraph/internal/payload"
	"github.com/specialistvlad/framegraph/internal/port"
	"github.com/specialistvlad/framegraph/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the element type with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("scale", "Multiplies \"in\" by factor and publishes it on \"out\".", func() element.Unit {
		return New()
	})
}

// Settings is the scale's configuration.
type Settings struct {
	Factor float64
	Offset float64
}

// Scale is the element's unit of work.
type Scale struct {
	settings *element.Settings[Settings]
}

// New creates an identity scale.
func New() *Scale {
	return &Scale{settings: element.NewSettings(Settings{Factor: 1})}
}

// Ports implements element.Unit.
func (s *Scale) Ports() []port.Decl {
	return []port.Decl{
		port.In("in", payload.Number),
		port.Out("out", payload.Number),
	}
}

// Properties implements element.Configurable.
func (s *Scale) Properties() []element.Property {
	return []element.Property{
		element.NumberProperty("factor", "Multiplier applied to every value.",
			func() float64 { return s.settings.Load().Factor },
			func(v float64) error {
				return s.settings.Update(func(st *Settings) error {
					st.Factor = v
					return nil
				})
			}),
		element.NumberProperty("offset", "Added after multiplying.",
			func() float64 { return s.settings.Load().Offset },
			func(v float64) error {
				return s.settings.Update(func(st *Settings) error {
					st.Offset = v
					return nil
				})
			}),
	}
}

// Process implements element.Unit.
func (s *Scale) Process(_ context.Context, f *element.Frame) error {
	it, err := f.Consume("in")
	if err != nil {
		return err
	}
	if it.Null {
		return f.PublishNull("out")
	}
	v, err := payload.As[float64](it)
	if err != nil {
		return err
	}
	st := s.settings.Load()
	return f.Publish("out", v*st.Factor+st.Offset)
}
