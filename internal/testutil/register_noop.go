package testutil

import (
	"context"

	"github.com/specialistvlad/framegraph/internal/element"
	"github.com/specialistvlad/framegraph/internal/payload"
	"github.com/specialistvlad/framegraph/internal/port"
	"github.com/specialistvlad/framegraph/internal/registry"
)

// NoOpModule registers a "noop" element with one optional number input
// that it drains and ignores. It is useful as an end node in pipeline
// files that only exercise loading or wiring.
type NoOpModule struct{}

// Register implements the registry.Module interface.
func (m *NoOpModule) Register(r *registry.Registry) {
	r.Register("noop", "drains \"in\" and does nothing", func() element.Unit {
		return &Unit{
			Name:  "noop",
			Decls: []port.Decl{port.In("in", payload.Number, port.Optional())},
			Fn: func(_ context.Context, f *element.Frame) error {
				if in := f.In("in"); in.HasData() {
					_, err := in.Consume()
					return err
				}
				return nil
			},
		}
	})
}
