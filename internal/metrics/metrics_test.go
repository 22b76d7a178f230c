package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"})

	require.NoError(t, reg.Register("svc", "test_total", c))
	assert.ErrorIs(t, reg.Register("svc", "test_total", c), ErrDuplicate)

	other := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"})
	assert.ErrorIs(t, reg.Register("other", "test_total", other), ErrDuplicate)

	assert.True(t, reg.Unregister("svc", "test_total"))
	assert.False(t, reg.Unregister("svc", "test_total"))
	assert.NoError(t, reg.Register("other", "test_total", other))
}

func TestPipeline(t *testing.T) {
	reg := NewRegistry()
	p, err := NewPipeline(reg)
	require.NoError(t, err)

	p.FrameCompleted()
	p.FrameCompleted()
	p.SetFPS(29.5)
	p.SetStagesInFlight(3)
	p.ObserveRun("sink", 2*time.Millisecond, true)
	p.ObserveRun("sink", time.Millisecond, false)
	p.SetQueueDepth("source.out->sink.in", 4)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.framesCompleted))
	assert.Equal(t, 29.5, testutil.ToFloat64(p.fps))
	assert.Equal(t, 3.0, testutil.ToFloat64(p.stagesInFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.elementRuns.WithLabelValues("sink", "error")))
	assert.Equal(t, 4.0, testutil.ToFloat64(p.queueDepth.WithLabelValues("source.out->sink.in")))

	p.ResetQueueDepths()
	assert.Equal(t, 0, testutil.CollectAndCount(p.queueDepth))

	_, err = NewPipeline(reg)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestPipeline_NilIsNoop(t *testing.T) {
	var p *Pipeline
	assert.NotPanics(t, func() {
		p.FrameCompleted()
		p.SetFPS(1)
		p.SetStagesInFlight(1)
		p.ObserveRun("x", time.Second, true)
		p.SetQueueDepth("c", 1)
		p.ResetQueueDepths()
	})
}

func TestRegistry_Handler(t *testing.T) {
	reg := NewRegistry()
	p, err := NewPipeline(reg)
	require.NoError(t, err)
	p.FrameCompleted()

	srv := httptest.NewServer(reg.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "framegraph_frames_completed_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}
