package join

import (
	"context"
	"testing"

	"github.com/specialistvlad/framegraph/internal/payload"
	"github.com/specialistvlad/framegraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoin(t *testing.T) {
	ctx := context.Background()
	b := testutil.NewBench(t, "join", &Join{})

	b.Feed("a", 1, 1.0)
	b.Feed("b", 1, 2.0)
	require.NoError(t, b.Run(ctx, 1))

	b.Feed("offset", 1, 100.0)
	b.Feed("offset", 2, 200.0)
	b.Feed("offset", 5, 500.0)
	b.Feed("a", 2, 1.0)
	b.Feed("b", 2, 2.0)
	require.NoError(t, b.Run(ctx, 2))

	b.Feed("a", 3, 1.0)
	b.FeedNull("b", 3)
	require.NoError(t, b.Run(ctx, 3))

	b.Feed("a", 4, 1.0)
	b.Feed("b", 4, 1.0)
	require.NoError(t, b.Run(ctx, 4))

	assert.Equal(t, []payload.Item{
		payload.New(1, 3.0),
		payload.New(2, 203.0),
		payload.NullItem(3),
		payload.New(4, 202.0),
	}, b.Out("out"))
}

func TestJoinRejectsWrongValue(t *testing.T) {
	b := testutil.NewBench(t, "join", &Join{})
	b.Feed("a", 1, 1.0)
	b.Feed("b", 1, 1.0)
	b.Feed("offset", 1, 1.0)
	require.NoError(t, b.Run(context.Background(), 1))

	b.Feed("a", 2, 1.0)
	err := b.Run(context.Background(), 2)
	require.Error(t, err, "b has no data for frame 2")
}
