package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zclconf/go-cty/cty"
)

// Model is the unified representation of one pipeline, possibly assembled
// from several files.
type Model struct {
	Pipeline    *Pipeline
	Elements    []*Element
	Connections []*Connection
}

// Pipeline holds scheduler settings. Zero values mean "not set".
type Pipeline struct {
	Workers      int
	MaxStages    int
	Tick         time.Duration
	Frames       uint64
	DrainTimeout time.Duration
	// Source is where the block was declared.
	Source string
}

// Element is one element instance.
type Element struct {
	// Type is the registry name of the element kind.
	Type string
	// Name is the unique instance name.
	Name       string
	Properties map[string]cty.Value
	Source     string
}

// Connection links an output port to an input port.
type Connection struct {
	From   Endpoint
	To     Endpoint
	Source string
}

// Endpoint names a port of an element instance.
type Endpoint struct {
	Element string
	Port    string
}

// String returns the "element.port" form.
func (e Endpoint) String() string {
	return e.Element + "." + e.Port
}

// ErrInvalidEndpoint is returned for references not of the form
// "element.port".
var ErrInvalidEndpoint = errors.New(`endpoint must look like "element.port"`)

// ParseEndpoint parses "element.port".
func ParseEndpoint(s string) (Endpoint, error) {
	element, port, ok := strings.Cut(s, ".")
	if !ok || element == "" || port == "" || strings.Contains(port, ".") {
		return Endpoint{}, fmt.Errorf("%w: %q", ErrInvalidEndpoint, s)
	}
	return Endpoint{Element: element, Port: port}, nil
}

// Merge appends other's elements and connections to m. A pipeline block
// may be declared only once across all merged files.
func (m *Model) Merge(other *Model) error {
	if other == nil {
		return nil
	}
	if other.Pipeline != nil {
		if m.Pipeline != nil {
			return fmt.Errorf("pipeline block declared twice: %s and %s", m.Pipeline.Source, other.Pipeline.Source)
		}
		m.Pipeline = other.Pipeline
	}
	m.Elements = append(m.Elements, other.Elements...)
	m.Connections = append(m.Connections, other.Connections...)
	return nil
}

// Validate checks the model for problems that need no registry: missing
// or duplicate names and connections to undeclared elements. Every problem
// is reported.
func (m *Model) Validate() error {
	var errs []error
	seen := make(map[string]*Element, len(m.Elements))
	for _, e := range m.Elements {
		switch {
		case e.Type == "":
			errs = append(errs, fmt.Errorf("%s: element %q has no type", e.Source, e.Name))
		case e.Name == "":
			errs = append(errs, fmt.Errorf("%s: element of type %q has no name", e.Source, e.Type))
		}
		if prev, dup := seen[e.Name]; dup {
			errs = append(errs, fmt.Errorf("%s: element %q already declared at %s", e.Source, e.Name, prev.Source))
			continue
		}
		seen[e.Name] = e
	}
	for _, c := range m.Connections {
		for _, ep := range []Endpoint{c.From, c.To} {
			if _, ok := seen[ep.Element]; !ok {
				errs = append(errs, fmt.Errorf("%s: connection %s -> %s references unknown element %q", c.Source, c.From, c.To, ep.Element))
			}
		}
	}
	if p := m.Pipeline; p != nil {
		if p.Workers < 0 || p.MaxStages < 0 || p.Tick < 0 || p.DrainTimeout < 0 {
			errs = append(errs, fmt.Errorf("%s: pipeline settings must not be negative", p.Source))
		}
	}
	return errors.Join(errs...)
}
