package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const pipelineService = "scheduler"

// Pipeline holds the collectors the scheduler updates.
type Pipeline struct {
	framesCompleted prometheus.Counter
	fps             prometheus.Gauge
	stagesInFlight  prometheus.Gauge
	elementRuns     *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
	queueDepth      *prometheus.GaugeVec
}

// NewPipeline creates the pipeline collectors and registers them with reg.
func NewPipeline(reg *Registry) (*Pipeline, error) {
	p := &Pipeline{
		framesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "framegraph_frames_completed_total",
			Help: "Frames that went through every element of the pipeline",
		}),
		fps: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "framegraph_frames_per_second",
			Help: "Completed frames per second over the last measurement window",
		}),
		stagesInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "framegraph_stages_in_flight",
			Help: "Frames admitted but not yet completed",
		}),
		elementRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "framegraph_element_runs_total",
			Help: "Element invocations by outcome",
		}, []string{"element", "status"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "framegraph_element_run_duration_seconds",
			Help:    "Time spent in one element invocation",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"element"}),
		queueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "framegraph_connection_queue_depth",
			Help: "Items waiting in a connection",
		}, []string{"connection"}),
	}

	collectors := map[string]prometheus.Collector{
		"frames_completed_total": p.framesCompleted,
		"frames_per_second":      p.fps,
		"stages_in_flight":       p.stagesInFlight,
		"element_runs_total":     p.elementRuns,
		"element_run_duration":   p.runDuration,
		"connection_queue_depth": p.queueDepth,
	}
	for name, c := range collectors {
		if err := reg.Register(pipelineService, name, c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// FrameCompleted counts one retired frame.
func (p *Pipeline) FrameCompleted() {
	if p == nil {
		return
	}
	p.framesCompleted.Inc()
}

// SetFPS records the latest frame rate.
func (p *Pipeline) SetFPS(fps float64) {
	if p == nil {
		return
	}
	p.fps.Set(fps)
}

// SetStagesInFlight records how many frames are admitted.
func (p *Pipeline) SetStagesInFlight(n int) {
	if p == nil {
		return
	}
	p.stagesInFlight.Set(float64(n))
}

// ObserveRun records one element invocation.
func (p *Pipeline) ObserveRun(element string, d time.Duration, ok bool) {
	if p == nil {
		return
	}
	status := "success"
	if !ok {
		status = "error"
	}
	p.elementRuns.WithLabelValues(element, status).Inc()
	p.runDuration.WithLabelValues(element).Observe(d.Seconds())
}

// SetQueueDepth records the number of items waiting in a connection.
func (p *Pipeline) SetQueueDepth(connection string, n int) {
	if p == nil {
		return
	}
	p.queueDepth.WithLabelValues(connection).Set(float64(n))
}

// ResetQueueDepths drops every per-connection series, for example when the
// graph's connections change between runs.
func (p *Pipeline) ResetQueueDepths() {
	if p == nil {
		return
	}
	p.queueDepth.Reset()
}
