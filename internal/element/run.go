package element

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/specialistvlad/framegraph/internal/ctxlog"
	"github.com/specialistvlad/framegraph/internal/event"
)

// RunOnce executes one frame. The element must have been dispatched for
// serial. It returns false if the frame failed; the error is then available
// from Err. RunOnce never panics.
func (e *Element) RunOnce(ctx context.Context, serial uint64) bool {
	e.mu.Lock()
	if e.state != Dispatched || e.dispatched != serial {
		err := fmt.Errorf("%w: run of frame %d while %s for frame %d", ErrContractViolation, serial, e.state, e.dispatched)
		if e.state != Errored {
			e.fail(FatalError, serial, err)
		}
		e.mu.Unlock()
		return false
	}
	e.state = Running
	e.mu.Unlock()

	ctx = ctxlog.With(ctx, "element", e.name, "elementID", e.ID(), "serial", serial)
	logger := ctxlog.FromContext(ctx)

	for _, in := range e.inputs {
		in.Prepare()
	}

	f := &Frame{Serial: serial, el: e, ctx: ctx}
	err := guard(func() error { return e.unit.Process(ctx, f) })
	if err != nil {
		switch kind := KindOf(err); kind {
		case NonFatalError:
			f.Warn(err)
		default:
			logger.Error("Element frame failed.", "kind", kind, "error", err)
			return e.finish(kind, serial, err)
		}
	}

	for _, in := range e.inputs {
		if !in.IsConnected() || in.Async() || in.Consumed() {
			continue
		}
		if in.Required() {
			err := fmt.Errorf("%w: required synchronous %s was not consumed", ErrContractViolation, in)
			logger.Error("Element left a required input unconsumed.", "port", in.Name())
			return e.finish(FatalError, serial, err)
		}
		if s, ok := in.PeekSerial(); ok && s == serial {
			in.Discard()
			logger.Debug("Discarded unconsumed optional input.", "port", in.Name())
		}
	}

	for _, out := range e.outputs {
		if out.Published(serial) {
			continue
		}
		if err := out.PublishNull(serial); err != nil {
			return e.finish(FatalError, serial, err)
		}
	}

	logger.Debug("Element frame completed.")
	e.serial.Store(serial)
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.transition(Running, Started); err != nil {
		e.fail(FatalError, serial, err)
		return false
	}
	return true
}

func (e *Element) finish(kind Kind, serial uint64, err error) bool {
	e.mu.Lock()
	elErr := e.fail(kind, serial, err)
	e.mu.Unlock()
	e.publish(event.Event{Kind: event.Error, Serial: serial, Message: elErr.Error()})
	return false
}

func (e *Element) warn(ctx context.Context, serial uint64, err error) {
	ctxlog.FromContext(ctx).Warn("Element reported a non-fatal error.", "error", err)
	e.publish(event.Event{Kind: event.Warning, Serial: serial, Message: err.Error()})
}

// guard runs fn and converts a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v\n%s", ErrPanic, r, debug.Stack())
		}
	}()
	return fn()
}
