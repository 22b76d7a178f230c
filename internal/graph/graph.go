package graph

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/framegraph/internal/connection"
	"github.com/specialistvlad/framegraph/internal/element"
	"github.com/specialistvlad/framegraph/internal/event"
	"github.com/specialistvlad/framegraph/internal/port"
)

// Graph is the set of elements and connections of one pipeline.
type Graph struct {
	// mu protects the maps, the id counters and the ordering cache.
	mu          sync.RWMutex
	elements    map[element.ID]*element.Element
	byName      map[string]*element.Element
	conns       map[connection.ID]*edge
	nextElement element.ID
	nextConn    connection.ID
	ordering    []*element.Element

	running atomic.Bool
	events  *event.Bus
}

// edge keeps the ports a connection is attached to.
type edge struct {
	conn *connection.Connection
	out  *port.Output
	in   *port.Input
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		elements: make(map[element.ID]*element.Element),
		byName:   make(map[string]*element.Element),
		conns:    make(map[connection.ID]*edge),
		events:   event.NewBus(),
	}
}

// Events returns the bus on which the graph, its elements and the scheduler
// publish notifications.
func (g *Graph) Events() *event.Bus {
	return g.events
}

// IsRunning reports whether the pipeline is running.
func (g *Graph) IsRunning() bool {
	return g.running.Load()
}

// SetRunning flips the running flag. It is used by the scheduler; it fails
// if the flag already has the requested value. It waits for structural
// changes in progress, and none can start while the flag is set.
func (g *Graph) SetRunning(running bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.running.CompareAndSwap(!running, running) {
		if running {
			return ErrRunning
		}
		return fmt.Errorf("graph is not running")
	}
	return nil
}

// AddElement attaches e to the graph and returns its new id.
func (g *Graph) AddElement(e *element.Element) (element.ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running.Load() {
		return 0, fmt.Errorf("add element %q: %w", e.Name(), ErrRunning)
	}

	if _, dup := g.byName[e.Name()]; dup {
		return 0, fmt.Errorf("add element %q: %w", e.Name(), ErrDuplicateName)
	}
	id := g.nextElement + 1
	if err := e.Attach(id, g.events.Publish); err != nil {
		return 0, err
	}
	g.nextElement = id
	g.elements[id] = e
	g.byName[e.Name()] = e
	g.ordering = nil

	g.events.Publish(event.Event{Kind: event.ElementAdded, ElementID: uint64(id), Element: e.Name()})
	return id, nil
}

// RemoveElement disconnects every connection of the element, detaches it
// and removes it from the graph.
func (g *Graph) RemoveElement(id element.ID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running.Load() {
		return fmt.Errorf("remove element %d: %w", id, ErrRunning)
	}

	e, ok := g.elements[id]
	if !ok {
		return fmt.Errorf("element %d: %w", id, ErrNotFound)
	}
	if s := e.State(); s != element.Undefined {
		return fmt.Errorf("remove element %q in state %s: %w", e.Name(), s, element.ErrContractViolation)
	}

	for _, cid := range g.sortedConnIDs() {
		ed := g.conns[cid]
		if ed.conn.From().Element == uint64(id) || ed.conn.To().Element == uint64(id) {
			if err := g.disconnectLocked(cid); err != nil {
				return err
			}
		}
	}

	if err := e.Detach(); err != nil {
		return err
	}
	delete(g.elements, id)
	delete(g.byName, e.Name())
	g.ordering = nil

	g.events.Publish(event.Event{Kind: event.ElementRemoved, ElementID: uint64(id), Element: e.Name()})
	return nil
}

// Element returns the element with the given id.
func (g *Graph) Element(id element.ID) (*element.Element, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.elements[id]
	return e, ok
}

// ElementByName returns the element with the given instance name.
func (g *Graph) ElementByName(name string) (*element.Element, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.byName[name]
	return e, ok
}

// Elements returns all elements ordered by id.
func (g *Graph) Elements() []*element.Element {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*element.Element, 0, len(g.elements))
	for _, id := range g.sortedElementIDs() {
		out = append(out, g.elements[id])
	}
	return out
}

// Connect links the named output of one element to the named input of
// another and returns the new connection id.
func (g *Graph) Connect(from element.ID, output string, to element.ID, input string) (connection.ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running.Load() {
		return 0, fmt.Errorf("connect: %w", ErrRunning)
	}

	src, ok := g.elements[from]
	if !ok {
		return 0, fmt.Errorf("source element %d: %w", from, ErrNotFound)
	}
	dst, ok := g.elements[to]
	if !ok {
		return 0, fmt.Errorf("destination element %d: %w", to, ErrNotFound)
	}
	out := src.Output(output)
	if out == nil {
		return 0, fmt.Errorf("output %s.%s: %w", src.Name(), output, ErrNotFound)
	}
	in := dst.Input(input)
	if in == nil {
		return 0, fmt.Errorf("input %s.%s: %w", dst.Name(), input, ErrNotFound)
	}

	id := g.nextConn + 1
	c, err := port.Connect(id, out, in)
	if err != nil {
		return 0, err
	}
	g.nextConn = id
	g.conns[id] = &edge{conn: c, out: out, in: in}
	g.ordering = nil

	g.events.Publish(event.Event{Kind: event.ConnectionAdded, ConnectionID: uint64(id), Message: fmt.Sprintf("%s.%s -> %s.%s", src.Name(), output, dst.Name(), input)})
	return id, nil
}

// Disconnect removes a connection and drops whatever it still queues.
func (g *Graph) Disconnect(id connection.ID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running.Load() {
		return fmt.Errorf("disconnect: %w", ErrRunning)
	}
	return g.disconnectLocked(id)
}

func (g *Graph) disconnectLocked(id connection.ID) error {
	ed, ok := g.conns[id]
	if !ok {
		return fmt.Errorf("connection %d: %w", id, ErrNotFound)
	}
	if err := port.Disconnect(ed.conn, ed.out, ed.in); err != nil {
		return err
	}
	ed.conn.Flush()
	delete(g.conns, id)
	g.ordering = nil

	g.events.Publish(event.Event{Kind: event.ConnectionRemoved, ConnectionID: uint64(id)})
	return nil
}

// Connection returns the connection with the given id.
func (g *Graph) Connection(id connection.ID) (*connection.Connection, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ed, ok := g.conns[id]
	if !ok {
		return nil, false
	}
	return ed.conn, true
}

// Connections returns all connections ordered by id.
func (g *Graph) Connections() []*connection.Connection {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*connection.Connection, 0, len(g.conns))
	for _, id := range g.sortedConnIDs() {
		out = append(out, g.conns[id].conn)
	}
	return out
}

func (g *Graph) sortedElementIDs() []element.ID {
	ids := make([]element.ID, 0, len(g.elements))
	for id := range g.elements {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (g *Graph) sortedConnIDs() []connection.ID {
	ids := make([]connection.ID, 0, len(g.conns))
	for id := range g.conns {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
