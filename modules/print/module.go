// Package print provides the "print" consumer element, which writes one
// line per frame to an output stream.
package print

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/specialistvlad/framegraph/internal/element"
	"github.com/specialistvlad/framegraph/internal/payload"
	"github.com/specialistvlad/framegraph/internal/port"
	"github.com/specialistvlad/framegraph/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Out receives the printed lines. It defaults to os.Stdout.
	Out io.Writer
}

// Register registers the element type with the engine.
func (m *Module) Register(r *registry.Registry) {
	out := m.Out
	if out == nil {
		out = os.Stdout
	}
	w := &lockedWriter{w: out}
	r.Register("print", "Writes \"<serial> <value>\" for every frame received on \"in\".", func() element.Unit {
		return New(w)
	})
}

// lockedWriter serializes writes from print elements sharing one stream.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// Print is the element's unit of work.
type Print struct {
	w      io.Writer
	prefix *element.Settings[string]
}

// New creates a print element writing to w.
func New(w io.Writer) *Print {
	return &Print{w: w, prefix: element.NewSettings("")}
}

// Ports implements element.Unit.
func (p *Print) Ports() []port.Decl {
	return []port.Decl{port.In("in", payload.Number)}
}

// Properties implements element.Configurable.
func (p *Print) Properties() []element.Property {
	return []element.Property{
		element.StringProperty("prefix", "Text written before every line.",
			p.prefix.Load,
			func(v string) error {
				return p.prefix.Update(func(s *string) error {
					*s = v
					return nil
				})
			}),
	}
}

// Process implements element.Unit.
func (p *Print) Process(_ context.Context, f *element.Frame) error {
	it, err := f.Consume("in")
	if err != nil {
		return err
	}
	value := "(null)"
	if !it.Null {
		value = fmt.Sprint(it.Value)
	}
	if _, err := fmt.Fprintf(p.w, "%s%d %s\n", p.prefix.Load(), it.Serial, value); err != nil {
		return element.NonFatal(fmt.Errorf("write: %w", err))
	}
	return nil
}
