package graph

import (
	"context"
	"testing"

	"github.com/specialistvlad/framegraph/internal/element"
	"github.com/specialistvlad/framegraph/internal/payload"
	"github.com/specialistvlad/framegraph/internal/port"
	"github.com/stretchr/testify/require"
)

// nodeUnit has a configurable set of ports and does nothing.
type nodeUnit struct {
	decls []port.Decl
	idle  bool
}

func (u *nodeUnit) Ports() []port.Decl { return u.decls }
func (u *nodeUnit) Process(context.Context, *element.Frame) error { return nil }
func (u *nodeUnit) ReadyToProduce() bool { return !u.idle }

func source() *nodeUnit {
	return &nodeUnit{decls: []port.Decl{port.Out("out", payload.Number)}}
}

func filter() *nodeUnit {
	return &nodeUnit{decls: []port.Decl{
		port.In("in", payload.Number),
		port.Out("out", payload.Number),
	}}
}

func sink() *nodeUnit {
	return &nodeUnit{decls: []port.Decl{port.In("in", payload.Number)}}
}

func join() *nodeUnit {
	return &nodeUnit{decls: []port.Decl{
		port.In("a", payload.Number),
		port.In("b", payload.Number),
		port.In("ctl", payload.Number, port.Async()),
		port.Out("out", payload.Number),
	}}
}

func add(t *testing.T, g *Graph, name string, u element.Unit) *element.Element {
	t.Helper()
	e, err := element.New("test", name, u)
	require.NoError(t, err)
	_, err = g.AddElement(e)
	require.NoError(t, err)
	return e
}

func link(t *testing.T, g *Graph, from *element.Element, output string, to *element.Element, input string) {
	t.Helper()
	_, err := g.Connect(from.ID(), output, to.ID(), input)
	require.NoError(t, err)
}

func start(t *testing.T, elements ...*element.Element) {
	t.Helper()
	ctx := context.Background()
	for _, e := range elements {
		require.NoError(t, e.Init(ctx))
		require.NoError(t, e.Start(ctx))
	}
}

func names(elements []*element.Element) []string {
	out := make([]string, 0, len(elements))
	for _, e := range elements {
		out = append(out, e.Name())
	}
	return out
}
