package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/framegraph/internal/element"
)

// Ordering returns the elements producers-first. The result is cached until
// the next structural change. The returned slice must not be modified.
func (g *Graph) Ordering() ([]*element.Element, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ordering != nil {
		return g.ordering, nil
	}
	ordering, err := g.computeOrdering()
	if err != nil {
		return nil, err
	}
	g.ordering = ordering
	return ordering, nil
}

func (g *Graph) computeOrdering() ([]*element.Element, error) {
	ids := g.sortedElementIDs()

	var ends []*element.Element
	for _, id := range ids {
		if e := g.elements[id]; e.IsEndNode() {
			ends = append(ends, e)
		}
	}
	if len(ends) == 0 && len(ids) > 0 {
		return nil, fmt.Errorf("%w: every element feeds another one", ErrCycle)
	}

	// Classic depth-first search with two sets:
	// done: elements already appended to the ordering.
	// onPath: elements on the current walk, from an end node back to here.
	done := make(map[element.ID]bool, len(ids))
	onPath := make(map[element.ID]bool)
	var path []string
	ordering := make([]*element.Element, 0, len(ids))

	var visit func(e *element.Element) error
	visit = func(e *element.Element) error {
		id := e.ID()
		if done[id] {
			return nil
		}
		if onPath[id] {
			return fmt.Errorf("%w: %s -> %s", ErrCycle, e.Name(), strings.Join(path, " -> "))
		}
		onPath[id] = true
		path = append([]string{e.Name()}, path...)

		for _, in := range e.Inputs() {
			c := in.Connection()
			if c == nil {
				continue
			}
			producer, ok := g.elements[element.ID(c.From().Element)]
			if !ok {
				return fmt.Errorf("producer %d of %s: %w", c.From().Element, in, ErrNotFound)
			}
			if err := visit(producer); err != nil {
				return err
			}
		}

		delete(onPath, id)
		path = path[1:]
		done[id] = true
		ordering = append(ordering, e)
		return nil
	}

	for _, end := range ends {
		if err := visit(end); err != nil {
			return nil, err
		}
	}

	if len(ordering) != len(ids) {
		var stranded []string
		for _, id := range ids {
			if !done[id] {
				stranded = append(stranded, g.elements[id].Name())
			}
		}
		return nil, fmt.Errorf("%w: no end node is reachable from %s", ErrCycle, strings.Join(stranded, ", "))
	}
	return ordering, nil
}

// Validate checks that the graph can start: it has elements, it is acyclic,
// and every required input is connected. All problems are reported
// together.
func (g *Graph) Validate() error {
	elements := g.Elements()
	if len(elements) == 0 {
		return ErrEmpty
	}

	var errs []error
	if _, err := g.Ordering(); err != nil {
		errs = append(errs, err)
	}
	for _, e := range elements {
		for _, in := range e.Inputs() {
			if in.Required() && !in.IsConnected() {
				errs = append(errs, fmt.Errorf("%w: %s", ErrUnconnectedPort, in))
			}
		}
	}
	return errors.Join(errs...)
}
