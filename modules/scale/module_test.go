package scale

import (
	"context"
	"testing"

	"github.com/specialistvlad/framegraph/internal/payload"
	"github.com/specialistvlad/framegraph/internal/registry"
	"github.com/specialistvlad/framegraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestScale(t *testing.T) {
	ctx := context.Background()
	b := testutil.NewBench(t, "scale", New())
	require.NoError(t, b.El.SetProperty("factor", cty.NumberIntVal(3)))
	require.NoError(t, b.El.SetProperty("offset", cty.StringVal("-1")))

	b.Feed("in", 1, 2.0)
	require.NoError(t, b.Run(ctx, 1))
	b.FeedNull("in", 2)
	require.NoError(t, b.Run(ctx, 2))

	assert.Equal(t, []payload.Item{
		payload.New(1, 5.0),
		payload.NullItem(2),
	}, b.Out("out"))
}

func TestScaleRequiresInput(t *testing.T) {
	b := testutil.NewBench(t, "scale", New())
	err := b.Run(context.Background(), 1)
	require.Error(t, err)
}

func TestRegister(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	require.NoError(t, r.Validate(context.Background()))
}
