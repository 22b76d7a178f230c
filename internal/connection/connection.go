package connection

import (
	"fmt"
	"sync"

	"github.com/specialistvlad/framegraph/internal/payload"
)

// ID identifies a connection within its graph.
type ID uint64

// Endpoint names one side of a connection.
type Endpoint struct {
	Element uint64
	Port    string
}

// String implements fmt.Stringer.
func (e Endpoint) String() string {
	return fmt.Sprintf("%d.%s", e.Element, e.Port)
}

// Connection is a single-producer, single-consumer queue of serial-tagged
// items.
type Connection struct {
	id    ID
	from  Endpoint
	to    Endpoint
	typ   payload.Type
	async bool

	// mu protects queue and the counters below.
	mu     sync.Mutex
	queue  []payload.Item
	pushed uint64
	popped uint64
}

// New creates an empty connection. It does not attach to any port; use
// port.Connect for that.
func New(id ID, from, to Endpoint, typ payload.Type, async bool) *Connection {
	return &Connection{
		id:    id,
		from:  from,
		to:    to,
		typ:   typ,
		async: async,
	}
}

// ID returns the connection id.
func (c *Connection) ID() ID { return c.id }

// From returns the producer endpoint.
func (c *Connection) From() Endpoint { return c.from }

// To returns the consumer endpoint.
func (c *Connection) To() Endpoint { return c.to }

// Type returns the payload type carried by the connection.
func (c *Connection) Type() payload.Type { return c.typ }

// Async reports whether the connection is excluded from frame-alignment
// checks.
func (c *Connection) Async() bool { return c.async }

// Push appends an item to the tail of the queue.
func (c *Connection) Push(item payload.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = append(c.queue, item)
	c.pushed++
}

// Pop removes and returns the oldest item.
func (c *Connection) Pop() (payload.Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return payload.Item{}, false
	}
	item := c.queue[0]
	c.queue[0] = payload.Item{}
	c.queue = c.queue[1:]
	c.popped++
	return item, true
}

// Peek returns the oldest item without removing it.
func (c *Connection) Peek() (payload.Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return payload.Item{}, false
	}
	return c.queue[0], true
}

// Len returns the number of queued items.
func (c *Connection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Flush drops every queued item and returns how many were dropped.
func (c *Connection) Flush() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.queue)
	c.queue = nil
	return n
}

// Stats returns the total number of pushed and popped items.
func (c *Connection) Stats() (pushed, popped uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pushed, c.popped
}

// String implements fmt.Stringer.
func (c *Connection) String() string {
	return fmt.Sprintf("connection %d (%s -> %s)", c.id, c.from, c.to)
}
