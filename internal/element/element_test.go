package element

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/specialistvlad/framegraph/internal/event"
	"github.com/specialistvlad/framegraph/internal/payload"
	"github.com/specialistvlad/framegraph/internal/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUnit is a configurable unit used throughout the element tests.
type stubUnit struct {
	decls   []port.Decl
	process func(ctx context.Context, f *Frame) error

	initErr  error
	startErr error
	calls    []string
	mu       sync.Mutex
}

func (u *stubUnit) Ports() []port.Decl { return u.decls }

func (u *stubUnit) Process(ctx context.Context, f *Frame) error {
	if u.process == nil {
		return nil
	}
	return u.process(ctx, f)
}

func (u *stubUnit) record(call string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls = append(u.calls, call)
}

func (u *stubUnit) Init(context.Context) error { u.record("init"); return u.initErr }
func (u *stubUnit) Start(context.Context) error { u.record("start"); return u.startErr }
func (u *stubUnit) Stop(context.Context) error { u.record("stop"); return nil }
func (u *stubUnit) Deinit(context.Context) error { u.record("deinit"); return nil }

func newAttached(t *testing.T, id ID, u Unit) *Element {
	t.Helper()
	e, err := New("stub", fmt.Sprintf("e%d", id), u)
	require.NoError(t, err)
	require.NoError(t, e.Attach(id, nil))
	return e
}

func startElement(t *testing.T, e *Element) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.Init(ctx))
	require.NoError(t, e.Start(ctx))
}

func TestNew(t *testing.T) {
	t.Run("builds ports from declarations", func(t *testing.T) {
		u := &stubUnit{decls: []port.Decl{
			port.In("a", payload.Number),
			port.In("cfg", payload.String, port.Async()),
			port.Out("out", payload.Number),
		}}
		e, err := New("stub", "x", u)
		require.NoError(t, err)
		assert.Len(t, e.Inputs(), 2)
		assert.Len(t, e.Outputs(), 1)
		assert.True(t, e.Input("a").Required())
		assert.True(t, e.Input("cfg").Async())
		assert.Equal(t, 1, e.Input("cfg").ID())
		assert.Nil(t, e.Input("missing"))
		assert.Equal(t, Undefined, e.State())
		assert.Equal(t, ID(0), e.ID())
	})

	t.Run("rejects invalid declarations", func(t *testing.T) {
		_, err := New("stub", "x", &stubUnit{decls: []port.Decl{port.Out("o", payload.Number), port.Out("o", payload.Number)}})
		assert.ErrorContains(t, err, "declared twice")

		_, err = New("stub", "", &stubUnit{})
		assert.ErrorContains(t, err, "has no name")
	})
}

func TestAttach(t *testing.T) {
	e, err := New("stub", "x", &stubUnit{})
	require.NoError(t, err)
	require.NoError(t, e.Attach(3, nil))
	assert.Equal(t, ID(3), e.ID())
	assert.ErrorIs(t, e.Attach(4, nil), ErrAttached)

	require.NoError(t, e.Detach())
	assert.Equal(t, ID(0), e.ID())

	require.NoError(t, e.Attach(4, nil))
	require.NoError(t, e.Init(context.Background()))
	assert.ErrorIs(t, e.Detach(), ErrContractViolation)
}

func TestLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("full cycle", func(t *testing.T) {
		u := &stubUnit{}
		e := newAttached(t, 1, u)

		require.NoError(t, e.Init(ctx))
		assert.Equal(t, Initialized, e.State())
		require.NoError(t, e.Start(ctx))
		assert.Equal(t, Started, e.State())

		require.NoError(t, e.Dispatch(1))
		assert.True(t, e.Busy())
		require.True(t, e.RunOnce(ctx, 1))
		assert.Equal(t, Started, e.State())
		assert.Equal(t, uint64(1), e.Serial())

		require.NoError(t, e.Stop(ctx))
		assert.Equal(t, Initialized, e.State(), "stopped is initialized")
		require.NoError(t, e.Deinit(ctx))
		assert.Equal(t, Undefined, e.State())

		assert.Equal(t, []string{"init", "start", "stop", "deinit"}, u.calls)
	})

	t.Run("re-init only after deinit", func(t *testing.T) {
		e := newAttached(t, 1, &stubUnit{})
		require.NoError(t, e.Init(ctx))
		assert.ErrorIs(t, e.Init(ctx), ErrContractViolation)
		require.NoError(t, e.Deinit(ctx))
		require.NoError(t, e.Init(ctx))
		assert.Equal(t, uint64(0), e.Serial())
	})

	t.Run("start requires init", func(t *testing.T) {
		e := newAttached(t, 1, &stubUnit{})
		assert.ErrorIs(t, e.Start(ctx), ErrContractViolation)
	})

	t.Run("init failure", func(t *testing.T) {
		u := &stubUnit{initErr: errors.New("no device")}
		e := newAttached(t, 1, u)

		err := e.Init(ctx)
		require.Error(t, err)
		var elErr *Error
		require.ErrorAs(t, err, &elErr)
		assert.Equal(t, InitError, elErr.Kind)
		assert.Equal(t, Errored, e.State())

		// Deinit after a failed init must not call the unit's Deinit.
		require.NoError(t, e.Deinit(ctx))
		assert.Equal(t, Undefined, e.State())
		assert.Equal(t, []string{"init"}, u.calls)
		assert.ErrorContains(t, e.Err(), "no device", "error is kept after deinit")
	})

	t.Run("start failure still deinitializes", func(t *testing.T) {
		u := &stubUnit{startErr: errors.New("busy")}
		e := newAttached(t, 1, u)
		require.NoError(t, e.Init(ctx))
		require.Error(t, e.Start(ctx))
		assert.Equal(t, Errored, e.State())

		require.NoError(t, e.Stop(ctx))
		require.NoError(t, e.Deinit(ctx))
		assert.Equal(t, []string{"init", "start", "deinit"}, u.calls)
	})

	t.Run("deinit stops a started element", func(t *testing.T) {
		u := &stubUnit{}
		e := newAttached(t, 1, u)
		startElement(t, e)
		require.NoError(t, e.Deinit(ctx))
		assert.Equal(t, []string{"init", "start", "stop", "deinit"}, u.calls)
	})

	t.Run("stop while dispatched is rejected", func(t *testing.T) {
		e := newAttached(t, 1, &stubUnit{})
		startElement(t, e)
		require.NoError(t, e.Dispatch(1))
		assert.ErrorIs(t, e.Stop(ctx), ErrContractViolation)
		assert.ErrorIs(t, e.Dispatch(2), ErrContractViolation, "no double dispatch")
	})
}

func TestRunOnceRequiresDispatch(t *testing.T) {
	e := newAttached(t, 1, &stubUnit{})
	startElement(t, e)

	assert.False(t, e.RunOnce(context.Background(), 1))
	assert.ErrorIs(t, e.Err(), ErrContractViolation)
	assert.Equal(t, Errored, e.State())
}

func TestRunOnceConvertsPanics(t *testing.T) {
	u := &stubUnit{process: func(context.Context, *Frame) error { panic("boom") }}
	e := newAttached(t, 1, u)
	startElement(t, e)
	require.NoError(t, e.Dispatch(1))

	assert.False(t, e.RunOnce(context.Background(), 1))
	err := e.Err()
	assert.ErrorIs(t, err, ErrPanic)
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, RuntimeError, KindOf(err))
}

func TestRunOnceErrorKinds(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name   string
		err    error
		ok     bool
		kind   Kind
		events []event.Kind
	}{
		{name: "runtime", err: errors.New("bad frame"), ok: false, kind: RuntimeError, events: []event.Kind{event.Error}},
		{name: "fatal", err: Fatal(errors.New("device lost")), ok: false, kind: FatalError, events: []event.Kind{event.Error}},
		{name: "non-fatal", err: NonFatal(errors.New("late frame")), ok: true, events: []event.Kind{event.Warning}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got []event.Kind
			u := &stubUnit{process: func(context.Context, *Frame) error { return tc.err }}
			e, err := New("stub", "x", u)
			require.NoError(t, err)
			require.NoError(t, e.Attach(1, func(ev event.Event) { got = append(got, ev.Kind) }))
			startElement(t, e)
			require.NoError(t, e.Dispatch(1))

			assert.Equal(t, tc.ok, e.RunOnce(ctx, 1))
			assert.Equal(t, tc.events, got)
			if !tc.ok {
				var elErr *Error
				require.ErrorAs(t, e.Err(), &elErr)
				assert.Equal(t, tc.kind, elErr.Kind)
				assert.Equal(t, uint64(1), elErr.Serial)
			}
		})
	}
}

// wire connects src.out to dst.in and returns the connection's consumer port.
func wire(t *testing.T, out *port.Output, in *port.Input) {
	t.Helper()
	_, err := port.Connect(1, out, in)
	require.NoError(t, err)
}

func TestRunOnceRequiredInputMustBeConsumed(t *testing.T) {
	ctx := context.Background()
	src := newAttached(t, 1, &stubUnit{decls: []port.Decl{port.Out("out", payload.Number)}})
	dst := newAttached(t, 2, &stubUnit{decls: []port.Decl{port.In("in", payload.Number)}})
	wire(t, src.Output("out"), dst.Input("in"))
	startElement(t, dst)

	require.NoError(t, src.Output("out").Publish(1, 1.0))
	require.NoError(t, dst.Dispatch(1))
	assert.False(t, dst.RunOnce(ctx, 1))

	var elErr *Error
	require.ErrorAs(t, dst.Err(), &elErr)
	assert.Equal(t, FatalError, elErr.Kind)
	assert.ErrorIs(t, elErr, ErrContractViolation)
}

func TestRunOnceDiscardsUnconsumedOptionalInput(t *testing.T) {
	ctx := context.Background()
	src := newAttached(t, 1, &stubUnit{decls: []port.Decl{port.Out("out", payload.Number)}})
	dst := newAttached(t, 2, &stubUnit{decls: []port.Decl{port.In("in", payload.Number, port.Optional())}})
	wire(t, src.Output("out"), dst.Input("in"))
	startElement(t, dst)

	require.NoError(t, src.Output("out").Publish(1, 1.0))
	require.NoError(t, dst.Dispatch(1))
	require.True(t, dst.RunOnce(ctx, 1))
	assert.False(t, dst.Input("in").HasData())
}

func TestRunOncePropagatesNulls(t *testing.T) {
	ctx := context.Background()
	u := &stubUnit{
		decls: []port.Decl{port.Out("left", payload.Number), port.Out("right", payload.Number)},
		process: func(_ context.Context, f *Frame) error {
			return f.Publish("left", float64(f.Serial))
		},
	}
	src := newAttached(t, 1, u)
	left := newAttached(t, 2, &stubUnit{decls: []port.Decl{port.In("in", payload.Number)}})
	right := newAttached(t, 3, &stubUnit{decls: []port.Decl{port.In("in", payload.Number)}})
	wire(t, src.Output("left"), left.Input("in"))
	wire(t, src.Output("right"), right.Input("in"))
	startElement(t, src)

	require.NoError(t, src.Dispatch(1))
	require.True(t, src.RunOnce(ctx, 1))

	leftConn := left.Input("in").Connection()
	rightConn := right.Input("in").Connection()
	require.Equal(t, 1, leftConn.Len())
	require.Equal(t, 1, rightConn.Len(), "unwritten port emits exactly one item")

	item, _ := leftConn.Pop()
	assert.False(t, item.Null)
	assert.Equal(t, 1.0, item.Value)

	item, _ = rightConn.Pop()
	assert.True(t, item.Null)
	assert.Equal(t, uint64(1), item.Serial)
}

func TestFrameUnknownPortIsRuntimeError(t *testing.T) {
	u := &stubUnit{process: func(_ context.Context, f *Frame) error {
		return f.Publish("nope", 1.0)
	}}
	e := newAttached(t, 1, u)
	startElement(t, e)
	require.NoError(t, e.Dispatch(1))
	assert.False(t, e.RunOnce(context.Background(), 1))
	assert.ErrorContains(t, e.Err(), `has no output "nope"`)
}
