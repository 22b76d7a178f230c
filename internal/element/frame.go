package element

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/framegraph/internal/ctxlog"
	"github.com/specialistvlad/framegraph/internal/payload"
	"github.com/specialistvlad/framegraph/internal/port"
)

// Frame gives a unit of work access to its ports for one frame.
type Frame struct {
	// Serial is the frame being processed.
	Serial uint64

	el  *Element
	ctx context.Context
}

// In returns the named input. It panics if the element declared no such
// input; the panic is reported as a runtime error of the frame.
func (f *Frame) In(name string) *port.Input {
	in := f.el.Input(name)
	if in == nil {
		panic(fmt.Sprintf("element %q has no input %q", f.el.name, name))
	}
	return in
}

// Out returns the named output. It panics like In for unknown names.
func (f *Frame) Out(name string) *port.Output {
	out := f.el.Output(name)
	if out == nil {
		panic(fmt.Sprintf("element %q has no output %q", f.el.name, name))
	}
	return out
}

// Consume takes the next item from the named input.
func (f *Frame) Consume(name string) (payload.Item, error) {
	return f.In(name).Consume()
}

// Publish sends v on the named output for this frame.
func (f *Frame) Publish(name string, v any) error {
	return f.Out(name).Publish(f.Serial, v)
}

// PublishNull sends a null item on the named output for this frame.
func (f *Frame) PublishNull(name string) error {
	return f.Out(name).PublishNull(f.Serial)
}

// Logger returns a logger bound to the element and frame.
func (f *Frame) Logger() *slog.Logger {
	return ctxlog.FromContext(f.ctx)
}

// Warn reports a non-fatal error without failing the frame.
func (f *Frame) Warn(err error) {
	if err == nil {
		return
	}
	f.el.warn(f.ctx, f.Serial, err)
}
