package registry_test

import (
	"context"
	"testing"

	"github.com/specialistvlad/framegraph/internal/element"
	"github.com/specialistvlad/framegraph/internal/payload"
	"github.com/specialistvlad/framegraph/internal/port"
	"github.com/specialistvlad/framegraph/internal/registry"
	"github.com/specialistvlad/framegraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type module struct{}

func (module) Register(r *registry.Registry) {
	r.Register("source", "emits serials", func() element.Unit { return testutil.Source(nil, "source") })
	r.Register("sink", "collects items", func() element.Unit { return testutil.Sink(nil, "sink") })
}

func TestRegisterAndCreate(t *testing.T) {
	r := registry.New()
	module{}.Register(r)

	kinds := r.Kinds()
	require.Len(t, kinds, 2)
	assert.Equal(t, "sink", kinds[0].Name)
	assert.Equal(t, "source", kinds[1].Name)

	e, err := r.NewElement("source", "a")
	require.NoError(t, err)
	assert.Equal(t, "a", e.Name())
	assert.Equal(t, "source", e.Kind())
	assert.NotNil(t, e.Output("out"))

	other, err := r.NewElement("source", "b")
	require.NoError(t, err)
	assert.NotSame(t, e.Unit(), other.Unit(), "each element gets its own unit")

	_, err = r.NewElement("nope", "x")
	assert.ErrorIs(t, err, registry.ErrUnknownKind)
}

func TestRegisterPanics(t *testing.T) {
	r := registry.New()
	module{}.Register(r)
	assert.Panics(t, func() { module{}.Register(r) })
	assert.Panics(t, func() { r.Register("nil", "", nil) })
}

func TestValidate(t *testing.T) {
	r := registry.New()
	module{}.Register(r)
	require.NoError(t, r.Validate(context.Background()))

	r.Register("broken", "", func() element.Unit {
		return &testutil.Unit{Decls: []port.Decl{
			port.In("in", payload.Number),
			port.In("in", payload.Number),
		}}
	})
	r.Register("empty", "", func() element.Unit { return nil })

	err := r.Validate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "element type 'broken'")
	assert.Contains(t, err.Error(), "element type 'empty': factory returned nil")
}
