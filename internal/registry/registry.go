package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/specialistvlad/framegraph/internal/ctxlog"
	"github.com/specialistvlad/framegraph/internal/element"
)

// ErrUnknownKind is returned when creating an element of an unregistered type.
var ErrUnknownKind = errors.New("unknown element type")

// Factory returns a fresh unit for one element instance.
type Factory func() element.Unit

// Kind describes a registered element type.
type Kind struct {
	Name        string
	Description string
	New         Factory
}

// Module is implemented by every package that contributes element types.
type Module interface {
	Register(r *Registry)
}

// Registry holds the element kinds available to a single application instance.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]*Kind
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{kinds: make(map[string]*Kind)}
}

// Register adds an element type. Registering a name twice, or a nil
// factory, is a programming error and panics.
func (r *Registry) Register(name, description string, f Factory) {
	if f == nil {
		panic(fmt.Sprintf("element type '%s' registered with nil factory", name))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.kinds[name]; exists {
		panic(fmt.Sprintf("element type '%s' already registered", name))
	}
	r.kinds[name] = &Kind{Name: name, Description: description, New: f}
}

// Kind returns the named kind.
func (r *Registry) Kind(name string) (*Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.kinds[name]
	return k, ok
}

// Kinds returns all registered kinds sorted by name.
func (r *Registry) Kinds() []*Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Kind, 0, len(r.kinds))
	for _, k := range r.kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// NewElement builds a detached element of the given type.
func (r *Registry) NewElement(kind, name string) (*element.Element, error) {
	k, ok := r.Kind(kind)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
	return element.New(kind, name, k.New())
}

// Validate instantiates every kind once and reports all declaration errors.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string
	for _, k := range r.Kinds() {
		u := k.New()
		if u == nil {
			errs = append(errs, fmt.Sprintf("element type '%s': factory returned nil", k.Name))
			continue
		}
		e, err := element.New(k.Name, "probe", u)
		if err != nil {
			errs = append(errs, fmt.Sprintf("element type '%s': %v", k.Name, err))
			continue
		}
		logger.Debug("Element type validated.", "type", k.Name, "inputs", len(e.Inputs()), "outputs", len(e.Outputs()), "properties", len(e.Properties()))
	}
	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
