package testutil

import (
	"context"
	"testing"

	"github.com/specialistvlad/framegraph/internal/connection"
	"github.com/specialistvlad/framegraph/internal/element"
	"github.com/specialistvlad/framegraph/internal/graph"
	"github.com/specialistvlad/framegraph/internal/payload"
	"github.com/specialistvlad/framegraph/internal/port"
	"github.com/stretchr/testify/require"
)

// Bench runs a single element frame by frame without a scheduler. Every
// input is fed by a stub whose queue the test fills directly, and every
// output is captured by a stub whose queue the test drains.
type Bench struct {
	t     testing.TB
	El    *element.Element
	Graph *graph.Graph
	feeds map[string]*connection.Connection
	taps  map[string]*connection.Connection
}

// NewBench wraps u into a started element named after kind.
func NewBench(t testing.TB, kind string, u element.Unit) *Bench {
	t.Helper()
	g := graph.New()
	e, err := element.New(kind, kind, u)
	require.NoError(t, err)
	id, err := g.AddElement(e)
	require.NoError(t, err)

	b := &Bench{
		t:     t,
		El:    e,
		Graph: g,
		feeds: make(map[string]*connection.Connection),
		taps:  make(map[string]*connection.Connection),
	}
	for _, in := range e.Inputs() {
		stub, err := element.New("feed", "feed_"+in.Name(), &Unit{Decls: []port.Decl{port.Out("out", in.Type())}})
		require.NoError(t, err)
		sid, err := g.AddElement(stub)
		require.NoError(t, err)
		cid, err := g.Connect(sid, "out", id, in.Name())
		require.NoError(t, err)
		b.feeds[in.Name()], _ = g.Connection(cid)
	}
	for _, out := range e.Outputs() {
		stub, err := element.New("tap", "tap_"+out.Name(), &Unit{Decls: []port.Decl{port.In("in", out.Type())}})
		require.NoError(t, err)
		sid, err := g.AddElement(stub)
		require.NoError(t, err)
		cid, err := g.Connect(id, out.Name(), sid, "in")
		require.NoError(t, err)
		b.taps[out.Name()], _ = g.Connection(cid)
	}

	ctx := context.Background()
	require.NoError(t, e.Init(ctx))
	require.NoError(t, e.Start(ctx))
	t.Cleanup(func() { _ = e.Deinit(context.Background()) })
	return b
}

// Feed queues v for frame serial on the named input.
func (b *Bench) Feed(input string, serial uint64, v any) {
	b.t.Helper()
	c, ok := b.feeds[input]
	require.True(b.t, ok, "no input %q", input)
	c.Push(payload.New(serial, v))
}

// FeedNull queues a null item for frame serial on the named input.
func (b *Bench) FeedNull(input string, serial uint64) {
	b.t.Helper()
	c, ok := b.feeds[input]
	require.True(b.t, ok, "no input %q", input)
	c.Push(payload.NullItem(serial))
}

// Run executes frame serial and returns the element's error if it failed.
func (b *Bench) Run(ctx context.Context, serial uint64) error {
	b.t.Helper()
	require.NoError(b.t, b.El.Dispatch(serial))
	if !b.El.RunOnce(ctx, serial) {
		return b.El.Err()
	}
	return nil
}

// Out drains everything published on the named output.
func (b *Bench) Out(output string) []payload.Item {
	b.t.Helper()
	c, ok := b.taps[output]
	require.True(b.t, ok, "no output %q", output)
	var items []payload.Item
	for {
		it, ok := c.Pop()
		if !ok {
			return items
		}
		items = append(items, it)
	}
}
