package port

import (
	"fmt"

	"github.com/specialistvlad/framegraph/internal/connection"
	"github.com/specialistvlad/framegraph/internal/payload"
)

// Owner is the element a port belongs to.
type Owner interface {
	ElementID() uint64
	ElementName() string
}

// Input receives items from at most one connection.
type Input struct {
	owner    Owner
	id       int
	name     string
	typ      payload.Type
	required bool
	async    bool

	conn     *connection.Connection
	consumed bool
}

// NewInput creates an input port from its declaration.
func NewInput(owner Owner, id int, d Decl) *Input {
	return &Input{
		owner:    owner,
		id:       id,
		name:     d.Name,
		typ:      d.Type,
		required: !d.Optional,
		async:    d.Async,
	}
}

// Owner returns the element the input belongs to.
func (in *Input) Owner() Owner { return in.owner }

// ID returns the input's index among its element's inputs.
func (in *Input) ID() int { return in.id }

// Name returns the declared port name.
func (in *Input) Name() string { return in.name }

// Type returns the declared payload type.
func (in *Input) Type() payload.Type { return in.typ }

// Required reports whether the graph refuses to start while the input is
// unconnected.
func (in *Input) Required() bool { return in.required }

// Async reports whether the input is excluded from the frame barrier.
func (in *Input) Async() bool { return in.async }

// Synchronous is the negation of Async.
func (in *Input) Synchronous() bool { return !in.async }

// IsConnected reports whether a connection feeds the input.
func (in *Input) IsConnected() bool { return in.conn != nil }

// Consumed reports whether an item was taken since the last Prepare.
func (in *Input) Consumed() bool { return in.consumed }

// Connection returns the feeding connection, or nil.
func (in *Input) Connection() *connection.Connection { return in.conn }

// Endpoint returns the connection endpoint naming this port.
func (in *Input) Endpoint() connection.Endpoint {
	return connection.Endpoint{Element: in.owner.ElementID(), Port: in.name}
}

// HasData reports whether an item is queued.
func (in *Input) HasData() bool {
	return in.conn != nil && in.conn.Len() > 0
}

// PeekSerial returns the serial of the oldest queued item.
func (in *Input) PeekSerial() (uint64, bool) {
	if in.conn == nil {
		return 0, false
	}
	item, ok := in.conn.Peek()
	if !ok {
		return 0, false
	}
	return item.Serial, true
}

// Prepare marks the input as about to be consumed for a new frame.
func (in *Input) Prepare() {
	in.consumed = false
}

// Consume removes and returns the oldest queued item. Optional inputs must
// be checked with HasData first.
func (in *Input) Consume() (payload.Item, error) {
	if in.consumed && !in.async {
		return payload.Item{}, fmt.Errorf("%s: %w", in, ErrAlreadyConsumed)
	}
	if in.conn == nil {
		return payload.Item{}, fmt.Errorf("%s: %w", in, ErrEmptyQueue)
	}
	item, ok := in.conn.Pop()
	if !ok {
		return payload.Item{}, fmt.Errorf("%s: %w", in, ErrEmptyQueue)
	}
	in.consumed = true
	return item, nil
}

// Discard drops the oldest queued item without marking the input consumed.
func (in *Input) Discard() bool {
	if in.conn == nil {
		return false
	}
	_, ok := in.conn.Pop()
	return ok
}

// String implements fmt.Stringer.
func (in *Input) String() string {
	return fmt.Sprintf("input %s.%s", in.owner.ElementName(), in.name)
}

// Output publishes items to every attached connection.
type Output struct {
	owner Owner
	id    int
	name  string
	typ   payload.Type

	conns     []*connection.Connection
	published bool
	last      uint64
}

// NewOutput creates an output port from its declaration.
func NewOutput(owner Owner, id int, d Decl) *Output {
	return &Output{
		owner: owner,
		id:    id,
		name:  d.Name,
		typ:   d.Type,
	}
}

// Owner returns the element the output belongs to.
func (o *Output) Owner() Owner { return o.owner }

// ID returns the output's index among its element's outputs.
func (o *Output) ID() int { return o.id }

// Name returns the declared port name.
func (o *Output) Name() string { return o.name }

// Type returns the declared payload type.
func (o *Output) Type() payload.Type { return o.typ }

// IsConnected reports whether at least one connection leaves the output.
func (o *Output) IsConnected() bool { return len(o.conns) > 0 }

// Endpoint returns the connection endpoint naming this port.
func (o *Output) Endpoint() connection.Endpoint {
	return connection.Endpoint{Element: o.owner.ElementID(), Port: o.name}
}

// Connections returns the attached connections.
func (o *Output) Connections() []*connection.Connection {
	out := make([]*connection.Connection, len(o.conns))
	copy(out, o.conns)
	return out
}

// Published reports whether the output already published the given frame.
func (o *Output) Published(serial uint64) bool {
	return o.published && o.last >= serial
}

// Publish pushes a value tagged with serial to every attached connection.
// A port publishes at most once per frame. With fan-out the same value is
// queued on every connection; consumers must treat it as read-only.
func (o *Output) Publish(serial uint64, v any) error {
	if !o.typ.Accepts(v) {
		return fmt.Errorf("%s: %w: port carries %s, got %T", o, ErrIncompatibleType, o.typ, v)
	}
	return o.push(payload.New(serial, v))
}

// PublishNull pushes a null item tagged with serial.
func (o *Output) PublishNull(serial uint64) error {
	return o.push(payload.NullItem(serial))
}

func (o *Output) push(item payload.Item) error {
	if o.published && item.Serial <= o.last {
		return fmt.Errorf("%s: %w (serial %d)", o, ErrAlreadyPublished, item.Serial)
	}
	o.published = true
	o.last = item.Serial
	for _, c := range o.conns {
		c.Push(item)
	}
	return nil
}

// Reset forgets the last published serial. It is used when an element is
// deinitialized so that a later activation can start from frame one again.
func (o *Output) Reset() {
	o.published = false
	o.last = 0
}

// String implements fmt.Stringer.
func (o *Output) String() string {
	return fmt.Sprintf("output %s.%s", o.owner.ElementName(), o.name)
}
