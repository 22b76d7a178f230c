package graph

import (
	"context"
	"testing"

	"github.com/specialistvlad/framegraph/internal/element"
	"github.com/specialistvlad/framegraph/internal/payload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func push(e *element.Element, input string, serial uint64) {
	e.Input(input).Connection().Push(payload.New(serial, float64(serial)))
}

func TestReady_Producer(t *testing.T) {
	g := New()
	u := source()
	p := add(t, g, "p", u)
	s := add(t, g, "s", sink())
	link(t, g, p, "out", s, "in")

	assert.Equal(t, NotStarted, ReadinessOf(p, 1))

	start(t, p)
	assert.Equal(t, Ready, ReadinessOf(p, 1))
	assert.Equal(t, Behind, ReadinessOf(p, 2))

	u.idle = true
	assert.Equal(t, ProducerIdle, ReadinessOf(p, 1))
	u.idle = false

	require.NoError(t, p.Dispatch(1))
	assert.Equal(t, Busy, ReadinessOf(p, 1))
	require.True(t, p.RunOnce(context.Background(), 1))
	assert.Equal(t, Ready, ReadinessOf(p, 2))
	assert.Equal(t, Behind, ReadinessOf(p, 1))
}

func TestReady_SynchronousBarrier(t *testing.T) {
	g := New()
	a := add(t, g, "a", source())
	b := add(t, g, "b", source())
	j := add(t, g, "j", join())
	s := add(t, g, "s", sink())
	link(t, g, a, "out", j, "a")
	link(t, g, b, "out", j, "b")
	link(t, g, j, "out", s, "in")
	start(t, j)

	assert.Equal(t, MissingData, ReadinessOf(j, 1))

	// a runs ahead of b by two frames.
	push(j, "a", 1)
	push(j, "a", 2)
	assert.Equal(t, MissingData, ReadinessOf(j, 1))

	push(j, "b", 1)
	assert.Equal(t, Ready, ReadinessOf(j, 1))
	assert.Equal(t, Behind, ReadinessOf(j, 2))
}

func TestReady_Misaligned(t *testing.T) {
	g := New()
	a := add(t, g, "a", source())
	b := add(t, g, "b", source())
	j := add(t, g, "j", join())
	link(t, g, a, "out", j, "a")
	link(t, g, b, "out", j, "b")
	start(t, j)

	push(j, "a", 2)
	push(j, "b", 1)
	assert.Equal(t, Misaligned, ReadinessOf(j, 1))
}

func TestReady_AsyncInputs(t *testing.T) {
	t.Run("never block synchronous inputs", func(t *testing.T) {
		g := New()
		a := add(t, g, "a", source())
		b := add(t, g, "b", source())
		ctl := add(t, g, "ctl", source())
		j := add(t, g, "j", join())
		link(t, g, a, "out", j, "a")
		link(t, g, b, "out", j, "b")
		link(t, g, ctl, "out", j, "ctl")
		start(t, j)

		push(j, "a", 1)
		push(j, "b", 1)
		assert.Equal(t, Ready, ReadinessOf(j, 1))
	})

	t.Run("alone they wait for data", func(t *testing.T) {
		g := New()
		ctl := add(t, g, "ctl", source())
		j := add(t, g, "j", join())
		link(t, g, ctl, "out", j, "ctl")
		start(t, j)

		assert.Equal(t, AwaitingAsync, ReadinessOf(j, 1))
		push(j, "ctl", 3)
		assert.Equal(t, AwaitingAsync, ReadinessOf(j, 1))

		j.Input("ctl").Connection().Flush()
		push(j, "ctl", 1)
		assert.Equal(t, Ready, ReadinessOf(j, 1))
	})
}

func TestReadiness_String(t *testing.T) {
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "misaligned", Misaligned.String())
	assert.Equal(t, "unknown", Readiness(99).String())
}
