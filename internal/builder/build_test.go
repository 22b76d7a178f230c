package builder

import (
	"context"
	"testing"

	"github.com/specialistvlad/framegraph/internal/config"
	"github.com/specialistvlad/framegraph/internal/element"
	"github.com/specialistvlad/framegraph/internal/graph"
	"github.com/specialistvlad/framegraph/internal/payload"
	"github.com/specialistvlad/framegraph/internal/port"
	"github.com/specialistvlad/framegraph/internal/registry"
	"github.com/specialistvlad/framegraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// gain is a filter with a configurable factor.
type gain struct {
	*testutil.Unit
	factor float64
}

func (g *gain) Properties() []element.Property {
	return []element.Property{
		element.NumberProperty("factor", "multiplier", func() float64 { return g.factor }, func(v float64) error {
			g.factor = v
			return nil
		}),
	}
}

func newRegistry() *registry.Registry {
	r := registry.New()
	r.Register("source", "", func() element.Unit { return testutil.Source(nil, "source") })
	r.Register("sink", "", func() element.Unit { return testutil.Sink(nil, "sink") })
	r.Register("gain", "", func() element.Unit { return &gain{Unit: testutil.Filter(nil, "gain"), factor: 1} })
	r.Register("text", "", func() element.Unit {
		return &testutil.Unit{Decls: []port.Decl{port.In("in", payload.String)}}
	})
	return r
}

func el(typ, name string, props map[string]cty.Value) *config.Element {
	return &config.Element{Type: typ, Name: name, Properties: props, Source: name + ".hcl:1"}
}

func conn(from, to string) *config.Connection {
	f, _ := config.ParseEndpoint(from)
	t, _ := config.ParseEndpoint(to)
	return &config.Connection{From: f, To: t, Source: "conn.hcl:1"}
}

func TestBuild(t *testing.T) {
	model := &config.Model{
		Elements: []*config.Element{
			el("source", "src", nil),
			el("gain", "g", map[string]cty.Value{"factor": cty.StringVal("2.5")}),
			el("sink", "out", nil),
		},
		Connections: []*config.Connection{
			conn("src.out", "g.in"),
			conn("g.out", "out.in"),
		},
	}

	g, err := Build(context.Background(), model, newRegistry())
	require.NoError(t, err)
	require.Len(t, g.Elements(), 3)
	require.Len(t, g.Connections(), 2)

	ge, ok := g.ElementByName("g")
	require.True(t, ok)
	v, err := ge.Property("factor")
	require.NoError(t, err)
	assert.True(t, v.RawEquals(cty.NumberFloatVal(2.5)))

	order, err := g.Ordering()
	require.NoError(t, err)
	var names []string
	for _, e := range order {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"src", "g", "out"}, names)
}

func TestBuildCollectsElementErrors(t *testing.T) {
	model := &config.Model{
		Elements: []*config.Element{
			el("missing", "a", nil),
			el("gain", "b", map[string]cty.Value{"factor": cty.StringVal("lots")}),
			el("gain", "c", map[string]cty.Value{"speed": cty.NumberIntVal(1)}),
		},
	}
	_, err := Build(context.Background(), model, newRegistry())
	require.Error(t, err)
	assert.ErrorIs(t, err, registry.ErrUnknownKind)
	assert.ErrorIs(t, err, element.ErrUnknownProperty)
	assert.Contains(t, err.Error(), "a.hcl:1")
	assert.Contains(t, err.Error(), `property "factor"`)
}

func TestBuildCollectsConnectionErrors(t *testing.T) {
	model := &config.Model{
		Elements: []*config.Element{
			el("source", "src", nil),
			el("text", "txt", nil),
			el("sink", "out", nil),
		},
		Connections: []*config.Connection{
			conn("src.out", "txt.in"),
			conn("src.out", "ghost.in"),
			conn("src.nope", "out.in"),
		},
	}
	_, err := Build(context.Background(), model, newRegistry())
	require.Error(t, err)
	assert.ErrorIs(t, err, port.ErrIncompatibleType)
	assert.ErrorIs(t, err, graph.ErrNotFound)
	assert.Contains(t, err.Error(), `"ghost.in"`)
}

func TestBuildValidatesGraph(t *testing.T) {
	t.Run("unconnected input", func(t *testing.T) {
		model := &config.Model{Elements: []*config.Element{el("sink", "out", nil)}}
		_, err := Build(context.Background(), model, newRegistry())
		assert.ErrorIs(t, err, graph.ErrUnconnectedPort)
	})
	t.Run("cycle", func(t *testing.T) {
		model := &config.Model{
			Elements: []*config.Element{
				el("gain", "a", nil),
				el("gain", "b", nil),
			},
			Connections: []*config.Connection{
				conn("a.out", "b.in"),
				conn("b.out", "a.in"),
			},
		}
		_, err := Build(context.Background(), model, newRegistry())
		assert.ErrorIs(t, err, graph.ErrCycle)
	})
	t.Run("empty", func(t *testing.T) {
		_, err := Build(context.Background(), &config.Model{}, newRegistry())
		assert.ErrorIs(t, err, graph.ErrEmpty)
	})
}
