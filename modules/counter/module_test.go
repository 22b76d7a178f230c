package counter

import (
	"context"
	"testing"
	"time"

	"github.com/specialistvlad/framegraph/internal/payload"
	"github.com/specialistvlad/framegraph/internal/registry"
	"github.com/specialistvlad/framegraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func values(t *testing.T, items []payload.Item) []float64 {
	t.Helper()
	var out []float64
	for _, it := range items {
		v, err := payload.As[float64](it)
		require.NoError(t, err)
		out = append(out, v)
	}
	return out
}

func TestCounterSequence(t *testing.T) {
	b := testutil.NewBench(t, "counter", New(time.Now))
	require.NoError(t, b.El.SetProperty("start", cty.NumberIntVal(10)))
	require.NoError(t, b.El.SetProperty("step", cty.NumberFloatVal(0.5)))

	for s := uint64(1); s <= 3; s++ {
		require.NoError(t, b.Run(context.Background(), s))
	}
	assert.Equal(t, []float64{10, 10.5, 11}, values(t, b.Out("out")))

	emitted, err := b.El.Property("emitted")
	require.NoError(t, err)
	assert.True(t, emitted.RawEquals(cty.NumberIntVal(3)))
}

func TestCounterLimit(t *testing.T) {
	c := New(time.Now)
	b := testutil.NewBench(t, "counter", c)
	require.NoError(t, b.El.SetProperty("limit", cty.NumberIntVal(2)))

	assert.True(t, c.ReadyToProduce())
	require.NoError(t, b.Run(context.Background(), 1))
	require.NoError(t, b.Run(context.Background(), 2))
	assert.False(t, c.ReadyToProduce())
	assert.True(t, b.El.IsProducer())

	require.Error(t, b.El.SetProperty("limit", cty.NumberIntVal(-1)))
	require.Error(t, b.El.SetProperty("limit", cty.NumberFloatVal(1.5)))
}

func TestCounterInterval(t *testing.T) {
	now := time.Unix(0, 0)
	c := New(func() time.Time { return now })
	b := testutil.NewBench(t, "counter", c)
	require.NoError(t, b.El.SetProperty("interval", cty.StringVal("100ms")))

	assert.True(t, c.ReadyToProduce(), "first frame is never held back")
	require.NoError(t, b.Run(context.Background(), 1))
	assert.False(t, c.ReadyToProduce())

	now = now.Add(99 * time.Millisecond)
	assert.False(t, c.ReadyToProduce())
	now = now.Add(time.Millisecond)
	assert.True(t, c.ReadyToProduce())

	require.Error(t, b.El.SetProperty("interval", cty.StringVal("soon")))
	v, err := b.El.Property("interval")
	require.NoError(t, err)
	assert.Equal(t, "100ms", v.AsString())
}

func TestCounterInitResets(t *testing.T) {
	c := New(time.Now)
	require.NoError(t, c.Init(context.Background()))
	c.emitted = 5
	require.NoError(t, c.Init(context.Background()))
	assert.Zero(t, c.emitted)
}

func TestRegister(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	require.NoError(t, r.Validate(context.Background()))
	e, err := r.NewElement("counter", "src")
	require.NoError(t, err)
	assert.Len(t, e.Outputs(), 1)
}
