package builder

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/specialistvlad/framegraph/internal/config"
	"github.com/specialistvlad/framegraph/internal/ctxlog"
	"github.com/specialistvlad/framegraph/internal/element"
	"github.com/specialistvlad/framegraph/internal/graph"
	"github.com/specialistvlad/framegraph/internal/registry"
)

// Build constructs and validates a graph from model.
func Build(ctx context.Context, model *config.Model, r *registry.Registry) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")

	g := graph.New()

	ids, err := createElements(ctx, model.Elements, r, g)
	if err != nil {
		return nil, err
	}
	logger.Debug("Build: Element creation complete.", "element_count", len(ids))

	if err := linkElements(ctx, model.Connections, ids, g); err != nil {
		return nil, err
	}
	logger.Debug("Build: Connection linking complete.", "connection_count", len(model.Connections))

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("error validating pipeline graph: %w", err)
	}
	logger.Info("Build: Graph construction successful.")
	return g, nil
}

func createElements(ctx context.Context, elems []*config.Element, r *registry.Registry, g *graph.Graph) (map[string]element.ID, error) {
	logger := ctxlog.FromContext(ctx)
	ids := make(map[string]element.ID, len(elems))
	var errs []error

	for _, ce := range elems {
		e, err := r.NewElement(ce.Type, ce.Name)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ce.Source, err))
			continue
		}
		if err := applyProperties(e, ce); err != nil {
			errs = append(errs, err)
			continue
		}
		id, err := g.AddElement(e)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ce.Source, err))
			continue
		}
		ids[ce.Name] = id
		logger.Debug("Created element.", "type", ce.Type, "name", ce.Name, "id", id)
	}
	return ids, errors.Join(errs...)
}

func applyProperties(e *element.Element, ce *config.Element) error {
	names := make([]string, 0, len(ce.Properties))
	for name := range ce.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		if err := e.SetProperty(name, ce.Properties[name]); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ce.Source, err))
		}
	}
	return errors.Join(errs...)
}

func linkElements(ctx context.Context, conns []*config.Connection, ids map[string]element.ID, g *graph.Graph) error {
	logger := ctxlog.FromContext(ctx)
	var errs []error
	for _, cc := range conns {
		from, ok := ids[cc.From.Element]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: connection source %q: %w", cc.Source, cc.From, graph.ErrNotFound))
			continue
		}
		to, ok := ids[cc.To.Element]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: connection target %q: %w", cc.Source, cc.To, graph.ErrNotFound))
			continue
		}
		id, err := g.Connect(from, cc.From.Port, to, cc.To.Port)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: connect %s -> %s: %w", cc.Source, cc.From, cc.To, err))
			continue
		}
		logger.Debug("Linked elements.", "from", cc.From.String(), "to", cc.To.String(), "connection", id)
	}
	return errors.Join(errs...)
}
