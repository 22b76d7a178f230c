package testutil

import (
	"context"
	"sync/atomic"

	"github.com/specialistvlad/framegraph/internal/element"
	"github.com/specialistvlad/framegraph/internal/payload"
	"github.com/specialistvlad/framegraph/internal/port"
)

// Unit is a scriptable element.Unit that writes everything it does to a
// Journal.
type Unit struct {
	Name    string
	Journal *Journal
	Decls   []port.Decl
	// Fn is the frame's work. Process records the run before calling it.
	Fn func(ctx context.Context, f *element.Frame) error

	InitErr  error
	StartErr error

	idle atomic.Bool
}

// Ports implements element.Unit.
func (u *Unit) Ports() []port.Decl { return u.Decls }

// Process implements element.Unit.
func (u *Unit) Process(ctx context.Context, f *element.Frame) error {
	u.record("run", f.Serial)
	if u.Fn == nil {
		return nil
	}
	return u.Fn(ctx, f)
}

// Init implements element.Initializer.
func (u *Unit) Init(context.Context) error {
	u.record("init", 0)
	return u.InitErr
}

// Start implements element.Starter.
func (u *Unit) Start(context.Context) error {
	u.record("start", 0)
	return u.StartErr
}

// Stop implements element.Stopper.
func (u *Unit) Stop(context.Context) error {
	u.record("stop", 0)
	return nil
}

// Deinit implements element.Deinitializer.
func (u *Unit) Deinit(context.Context) error {
	u.record("deinit", 0)
	return nil
}

// ReadyToProduce implements element.Producer.
func (u *Unit) ReadyToProduce() bool { return !u.idle.Load() }

// SetIdle makes a producer report that it cannot emit.
func (u *Unit) SetIdle(idle bool) { u.idle.Store(idle) }

func (u *Unit) record(call string, serial uint64) {
	if u.Journal != nil {
		u.Journal.Add(Entry{Element: u.Name, Call: call, Serial: serial})
	}
}

// Recv consumes the named input and records the item.
func (u *Unit) Recv(f *element.Frame, name string) (payload.Item, error) {
	it, err := f.Consume(name)
	if err != nil {
		return it, err
	}
	if u.Journal != nil {
		u.Journal.Add(Entry{Element: u.Name, Call: "recv", Serial: f.Serial, Port: name, Item: it})
	}
	return it, nil
}

// Source publishes the frame serial as a float64 on "out".
func Source(j *Journal, name string) *Unit {
	return &Unit{
		Name:    name,
		Journal: j,
		Decls:   []port.Decl{port.Out("out", payload.Number)},
		Fn: func(_ context.Context, f *element.Frame) error {
			return f.Publish("out", float64(f.Serial))
		},
	}
}

// Filter forwards "in" to "out".
func Filter(j *Journal, name string) *Unit {
	u := &Unit{
		Name:    name,
		Journal: j,
		Decls: []port.Decl{
			port.In("in", payload.Number),
			port.Out("out", payload.Number),
		},
	}
	u.Fn = func(_ context.Context, f *element.Frame) error {
		it, err := u.Recv(f, "in")
		if err != nil {
			return err
		}
		if it.Null {
			return f.PublishNull("out")
		}
		return f.Publish("out", it.Value)
	}
	return u
}

// Sink consumes "in".
func Sink(j *Journal, name string) *Unit {
	u := &Unit{
		Name:    name,
		Journal: j,
		Decls:   []port.Decl{port.In("in", payload.Number)},
	}
	u.Fn = func(_ context.Context, f *element.Frame) error {
		_, err := u.Recv(f, "in")
		return err
	}
	return u
}

// Join consumes "a" and "b" and publishes their sum on "out".
func Join(j *Journal, name string) *Unit {
	u := &Unit{
		Name:    name,
		Journal: j,
		Decls: []port.Decl{
			port.In("a", payload.Number),
			port.In("b", payload.Number),
			port.Out("out", payload.Number),
		},
	}
	u.Fn = func(_ context.Context, f *element.Frame) error {
		a, err := u.Recv(f, "a")
		if err != nil {
			return err
		}
		b, err := u.Recv(f, "b")
		if err != nil {
			return err
		}
		if a.Null || b.Null {
			return f.PublishNull("out")
		}
		return f.Publish("out", a.Value.(float64)+b.Value.(float64))
	}
	return u
}
