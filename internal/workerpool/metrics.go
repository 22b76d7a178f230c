package workerpool

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/framegraph/internal/metrics"
)

// Metrics holds the Prometheus collectors of a pool. A nil *Metrics
// records nothing.
type Metrics struct {
	capacity       prometheus.Gauge
	busy           prometheus.Gauge
	utilization    prometheus.Gauge
	submitted      prometheus.Counter
	rejected       prometheus.Counter
	processingTime *prometheus.HistogramVec

	workers atomic.Int64
}

// NewMetrics creates pool collectors named after prefix and registers them
// with reg.
func NewMetrics(reg *metrics.Registry, prefix string) (*Metrics, error) {
	m := &Metrics{
		capacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_capacity",
			Help: "Number of worker slots",
		}),
		busy: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_busy",
			Help: "Worker slots claimed and not yet released",
		}),
		utilization: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_utilization",
			Help: "Worker pool utilization (0-1)",
		}),
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_submitted_total",
			Help: "Jobs started",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_rejected_total",
			Help: "Submissions refused because every slot was taken",
		}),
		processingTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prefix + "_processing_duration_seconds",
			Help:    "Time spent executing jobs",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"status"}),
	}

	const service = "worker_pool"
	for name, c := range map[string]prometheus.Collector{
		prefix + "_capacity":                    m.capacity,
		prefix + "_busy":                        m.busy,
		prefix + "_utilization":                 m.utilization,
		prefix + "_submitted_total":             m.submitted,
		prefix + "_rejected_total":              m.rejected,
		prefix + "_processing_duration_seconds": m.processingTime,
	} {
		if err := reg.Register(service, name, c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) setCapacity(workers int) {
	if m == nil {
		return
	}
	m.workers.Store(int64(workers))
	m.capacity.Set(float64(workers))
}

func (m *Metrics) submit(held int) {
	if m == nil {
		return
	}
	m.submitted.Inc()
	m.setBusy(held)
}

func (m *Metrics) release(held int) {
	if m == nil {
		return
	}
	m.setBusy(held)
}

func (m *Metrics) reject() {
	if m == nil {
		return
	}
	m.rejected.Inc()
}

func (m *Metrics) finish(d time.Duration, ok bool) {
	if m == nil {
		return
	}
	status := "success"
	if !ok {
		status = "error"
	}
	m.processingTime.WithLabelValues(status).Observe(d.Seconds())
}

func (m *Metrics) setBusy(held int) {
	m.busy.Set(float64(held))
	if w := m.workers.Load(); w > 0 {
		m.utilization.Set(float64(held) / float64(w))
	}
}
