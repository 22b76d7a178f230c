package element

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/framegraph/internal/event"
	"github.com/specialistvlad/framegraph/internal/port"
)

// ID identifies an element within its graph. Zero means detached.
type ID uint64

// Element wraps a Unit with ports and a lifecycle state machine.
type Element struct {
	kind string
	name string
	unit Unit

	inputs    []*port.Input
	outputs   []*port.Output
	inByName  map[string]*port.Input
	outByName map[string]*port.Output
	props     map[string]Property
	propOrder []string

	id     atomic.Uint64
	notify atomic.Pointer[func(event.Event)]
	// serial is the last frame completed.
	serial atomic.Uint64

	// mu protects the fields below.
	mu          sync.Mutex
	state       State
	err         *Error
	initialized bool
	started     bool
	dispatched  uint64
}

// New wraps u into an element of the given kind (its registry type name)
// and instance name. Ports and properties are read once here and fixed for
// the element's lifetime.
func New(kind, name string, u Unit) (*Element, error) {
	if name == "" {
		return nil, fmt.Errorf("element of kind %q has no name", kind)
	}
	if u == nil {
		return nil, fmt.Errorf("element %q has no unit", name)
	}
	decls := u.Ports()
	if err := port.ValidateDecls(decls); err != nil {
		return nil, fmt.Errorf("element %q: %w", name, err)
	}

	e := &Element{
		kind:      kind,
		name:      name,
		unit:      u,
		inByName:  make(map[string]*port.Input),
		outByName: make(map[string]*port.Output),
		props:     make(map[string]Property),
	}
	for _, d := range decls {
		switch d.Dir {
		case port.DirInput:
			in := port.NewInput(e, len(e.inputs), d)
			e.inputs = append(e.inputs, in)
			e.inByName[d.Name] = in
		case port.DirOutput:
			out := port.NewOutput(e, len(e.outputs), d)
			e.outputs = append(e.outputs, out)
			e.outByName[d.Name] = out
		}
	}

	if c, ok := u.(Configurable); ok {
		for _, p := range c.Properties() {
			if err := p.validate(); err != nil {
				return nil, fmt.Errorf("element %q: %w", name, err)
			}
			if _, dup := e.props[p.Name]; dup {
				return nil, fmt.Errorf("element %q: property %q declared twice", name, p.Name)
			}
			e.props[p.Name] = p
			e.propOrder = append(e.propOrder, p.Name)
		}
	}
	return e, nil
}

// Attach assigns the element its graph id and the sink for its
// notifications. It fails if the element is already attached.
func (e *Element) Attach(id ID, notify func(event.Event)) error {
	if id == 0 {
		return fmt.Errorf("element %q: id must be non-zero", e.name)
	}
	if !e.id.CompareAndSwap(0, uint64(id)) {
		return fmt.Errorf("element %q: %w (id %d)", e.name, ErrAttached, e.ID())
	}
	if notify != nil {
		e.notify.Store(&notify)
	}
	return nil
}

// Detach releases the graph id. The element must be Undefined.
func (e *Element) Detach() error {
	if s := e.State(); s != Undefined {
		return fmt.Errorf("element %q: %w: detach in state %s", e.name, ErrContractViolation, s)
	}
	e.id.Store(0)
	e.notify.Store(nil)
	return nil
}

// ID returns the graph id, or zero when detached.
func (e *Element) ID() ID { return ID(e.id.Load()) }

// ElementID implements port.Owner.
func (e *Element) ElementID() uint64 { return e.id.Load() }

// ElementName implements port.Owner.
func (e *Element) ElementName() string { return e.name }

// Name returns the instance name.
func (e *Element) Name() string { return e.name }

// Kind returns the registry type name.
func (e *Element) Kind() string { return e.kind }

// Unit returns the wrapped unit of work.
func (e *Element) Unit() Unit { return e.unit }

// Inputs returns the input ports in declaration order.
func (e *Element) Inputs() []*port.Input { return e.inputs }

// Outputs returns the output ports in declaration order.
func (e *Element) Outputs() []*port.Output { return e.outputs }

// Input returns the named input port, or nil.
func (e *Element) Input(name string) *port.Input { return e.inByName[name] }

// Output returns the named output port, or nil.
func (e *Element) Output(name string) *port.Output { return e.outByName[name] }

// Serial returns the last completed frame.
func (e *Element) Serial() uint64 { return e.serial.Load() }

// State returns the current lifecycle state.
func (e *Element) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err returns the error that moved the element into the Errored state, if
// any. It is kept after Stop and Deinit and cleared by the next Init.
func (e *Element) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err == nil {
		return nil
	}
	return e.err
}

// IsProducer reports whether none of the element's inputs is connected.
func (e *Element) IsProducer() bool {
	for _, in := range e.inputs {
		if in.IsConnected() {
			return false
		}
	}
	return true
}

// IsEndNode reports whether none of the element's outputs is connected.
func (e *Element) IsEndNode() bool {
	for _, out := range e.outputs {
		if out.IsConnected() {
			return false
		}
	}
	return true
}

// ReadyToProduce asks a Producer unit whether it can emit a frame. Units
// that do not implement Producer are always ready.
func (e *Element) ReadyToProduce() bool {
	if p, ok := e.unit.(Producer); ok {
		return p.ReadyToProduce()
	}
	return true
}

// String implements fmt.Stringer.
func (e *Element) String() string {
	return fmt.Sprintf("%s(%d)", e.name, e.ID())
}

func (e *Element) publish(ev event.Event) {
	if fn := e.notify.Load(); fn != nil {
		ev.ElementID = uint64(e.ID())
		ev.Element = e.name
		(*fn)(ev)
	}
}

// transition moves from the expected state to the next one. It must be
// called with mu held.
func (e *Element) transition(from, to State) error {
	if e.state != from {
		return fmt.Errorf("%w: element %q is %s, expected %s", ErrContractViolation, e.name, e.state, from)
	}
	if !isAllowedTransition(from, to) {
		return fmt.Errorf("%w: element %q cannot go from %s to %s", ErrContractViolation, e.name, from, to)
	}
	e.state = to
	return nil
}

// fail records err as the element's error and moves it to Errored. It
// must be called with mu held.
func (e *Element) fail(kind Kind, serial uint64, err error) *Error {
	elErr := &Error{Kind: kind, ElementID: e.ID(), Element: e.name, Serial: serial, Err: err}
	e.err = elErr
	e.state = Errored
	return elErr
}

// Init allocates internal resources. The element must be Undefined.
func (e *Element) Init(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Undefined {
		return fmt.Errorf("%w: init of element %q in state %s", ErrContractViolation, e.name, e.state)
	}
	e.err = nil
	e.serial.Store(0)
	e.dispatched = 0
	for _, out := range e.outputs {
		out.Reset()
	}

	if i, ok := e.unit.(Initializer); ok {
		if err := guard(func() error { return i.Init(ctx) }); err != nil {
			return e.fail(InitError, 0, err)
		}
	}
	e.initialized = true
	return e.transition(Undefined, Initialized)
}

// Start acquires external resources. The element must be Initialized.
func (e *Element) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Initialized {
		return fmt.Errorf("%w: start of element %q in state %s", ErrContractViolation, e.name, e.state)
	}
	if s, ok := e.unit.(Starter); ok {
		if err := guard(func() error { return s.Start(ctx) }); err != nil {
			return e.fail(InitError, 0, err)
		}
	}
	e.started = true
	return e.transition(Initialized, Started)
}

// Stop releases what Start acquired. It is a no-op if Start never
// succeeded, and keeps the element Errored if it failed earlier.
func (e *Element) Stop(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Dispatched || e.state == Running {
		return fmt.Errorf("%w: stop of element %q while %s", ErrContractViolation, e.name, e.state)
	}
	if !e.started {
		return nil
	}
	e.started = false

	var stopErr error
	if s, ok := e.unit.(Stopper); ok {
		stopErr = guard(func() error { return s.Stop(ctx) })
	}
	if e.state == Started {
		e.state = Initialized
	}
	if stopErr != nil {
		return fmt.Errorf("stop element %q: %w", e.name, stopErr)
	}
	return nil
}

// Deinit releases what Init allocated and returns the element to
// Undefined. A started element is stopped first.
func (e *Element) Deinit(ctx context.Context) error {
	stopErr := e.Stop(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Dispatched || e.state == Running {
		return fmt.Errorf("%w: deinit of element %q while %s", ErrContractViolation, e.name, e.state)
	}
	if !e.initialized {
		e.state = Undefined
		return stopErr
	}
	e.initialized = false

	var deinitErr error
	if d, ok := e.unit.(Deinitializer); ok {
		if err := guard(func() error { return d.Deinit(ctx) }); err != nil {
			deinitErr = fmt.Errorf("deinit element %q: %w", e.name, err)
		}
	}
	e.state = Undefined
	if stopErr != nil || deinitErr != nil {
		return errors.Join(stopErr, deinitErr)
	}
	return nil
}

// Dispatch marks the element as handed to a worker for the given frame.
func (e *Element) Dispatch(serial uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.transition(Started, Dispatched); err != nil {
		return err
	}
	e.dispatched = serial
	return nil
}

// Busy reports whether the element is dispatched or running.
func (e *Element) Busy() bool {
	s := e.State()
	return s == Dispatched || s == Running
}
