package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/specialistvlad/framegraph/internal/element"
	"github.com/specialistvlad/framegraph/internal/graph"
	"github.com/specialistvlad/framegraph/internal/testutil"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	g   *graph.Graph
	j   *testutil.Journal
	els map[string]*element.Element
}

func newFixture() *fixture {
	return &fixture{
		g:   graph.New(),
		j:   &testutil.Journal{},
		els: make(map[string]*element.Element),
	}
}

func (f *fixture) add(t *testing.T, name string, u element.Unit) *element.Element {
	t.Helper()
	e, err := element.New("test", name, u)
	require.NoError(t, err)
	_, err = f.g.AddElement(e)
	require.NoError(t, err)
	f.els[name] = e
	return e
}

func (f *fixture) link(t *testing.T, from, output, to, input string) {
	t.Helper()
	_, err := f.g.Connect(f.els[from].ID(), output, f.els[to].ID(), input)
	require.NoError(t, err)
}

// chain builds producer -> filter -> consumer.
func (f *fixture) chain(t *testing.T) {
	t.Helper()
	f.add(t, "producer", testutil.Source(f.j, "producer"))
	f.add(t, "filter", testutil.Filter(f.j, "filter"))
	f.add(t, "consumer", testutil.Sink(f.j, "consumer"))
	f.link(t, "producer", "out", "filter", "in")
	f.link(t, "filter", "out", "consumer", "in")
}

func testConfig() Config {
	return Config{
		Workers:      4,
		MaxStages:    2,
		Tick:         time.Millisecond,
		DrainTimeout: 2 * time.Second,
	}
}

func newScheduler(t *testing.T, g *graph.Graph, cfg Config, opts ...Option) *Scheduler {
	t.Helper()
	s, err := New(g, cfg, opts...)
	require.NoError(t, err)
	return s
}

// tickUntil ticks s until cond holds, failing the test after two seconds.
func tickUntil(t *testing.T, s *Scheduler, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		require.NoError(t, s.Tick(context.Background()))
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

// tickFor ticks s n times, pausing between ticks so invocations can finish.
func tickFor(t *testing.T, s *Scheduler, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, s.Tick(context.Background()))
		time.Sleep(time.Millisecond)
	}
}

func runCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func upTo(n uint64) []uint64 {
	out := make([]uint64, 0, n)
	for i := uint64(1); i <= n; i++ {
		out = append(out, i)
	}
	return out
}
