package testutil

import (
	"github.com/specialistvlad/framegraph/internal/element"
	"github.com/specialistvlad/framegraph/internal/registry"
)

// SimpleModule is a test helper for easily creating a mock module that
// registers a single element type.
type SimpleModule struct {
	Kind    string
	Factory registry.Factory
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	r.Register(m.Kind, "test element", m.Factory)
}

// UnitModule registers kind with a factory returning a fresh copy of the
// unit built by newUnit.
func UnitModule(kind string, newUnit func() *Unit) *SimpleModule {
	return &SimpleModule{Kind: kind, Factory: func() element.Unit { return newUnit() }}
}
