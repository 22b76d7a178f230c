package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ErrDuplicate is returned when a service registers the same metric twice.
var ErrDuplicate = errors.New("metric already registered")

// Registry manages the registration and lifecycle of metrics.
type Registry struct {
	prom       *prometheus.Registry
	mu         sync.Mutex
	registered map[string]prometheus.Collector
}

// NewRegistry creates a registry preloaded with Go runtime and process
// collectors.
func NewRegistry() *Registry {
	r := &Registry{
		prom:       prometheus.NewRegistry(),
		registered: make(map[string]prometheus.Collector),
	}
	r.prom.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// PrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.prom
}

// Register adds a collector owned by service under the given metric name.
func (r *Registry) Register(service, name string, c prometheus.Collector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := service + "." + name
	if _, exists := r.registered[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, key)
	}
	if err := r.prom.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return fmt.Errorf("%w: %s", ErrDuplicate, key)
		}
		return fmt.Errorf("register %s: %w", key, err)
	}
	r.registered[key] = c
	return nil
}

// Unregister removes a collector. It reports whether one was registered.
func (r *Registry) Unregister(service, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := service + "." + name
	c, ok := r.registered[key]
	if !ok {
		return false
	}
	delete(r.registered, key)
	return r.prom.Unregister(c)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prom, promhttp.HandlerOpts{Registry: r.prom})
}
