package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/specialistvlad/framegraph/internal/connection"
	"github.com/specialistvlad/framegraph/internal/element"
	"github.com/specialistvlad/framegraph/internal/event"
	"github.com/specialistvlad/framegraph/internal/graph"
	"github.com/specialistvlad/framegraph/internal/metrics"
	"github.com/specialistvlad/framegraph/internal/workerpool"
)

const fpsWindow = time.Second

// Scheduler runs frames through a graph.
type Scheduler struct {
	g           *graph.Graph
	cfg         Config
	now         func() time.Time
	registry    *metrics.Registry
	metrics     *metrics.Pipeline
	poolMetrics *workerpool.Metrics

	// mu serializes ticks, Start and Stop, and protects the fields below.
	mu         sync.Mutex
	running    bool
	stopping   bool
	runID      string
	ordering   []*element.Element
	conns      []*connection.Connection
	labels     map[connection.ID]string
	pool       *workerpool.Pool[job]
	invokeCtx  context.Context
	cancel     context.CancelFunc
	stages     []*stage
	nextSerial uint64
	completed  uint64
	failures   []failure
	fps        fpsMeter
}

// stage is one frame in flight.
type stage struct {
	serial uint64
	// cursor is the ordering index of the next element to dispatch.
	cursor int
	// pending counts dispatched invocations not yet collected.
	pending int
	// blocked is the reason the stage last stalled, logged once.
	blocked graph.Readiness
}

// job is one element invocation handed to the pool.
type job struct {
	el     *element.Element
	serial uint64
}

type failure struct {
	el  *element.Element
	err error
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces time.Now for FPS measurement.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithMetrics makes the scheduler and its worker pool report to reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(s *Scheduler) {
		s.registry = reg
	}
}

// New creates a scheduler for g.
func New(g *graph.Graph, cfg Config, opts ...Option) (*Scheduler, error) {
	if g == nil {
		return nil, errors.New("scheduler needs a graph")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Scheduler{
		g:   g,
		cfg: cfg,
		now: time.Now,
		fps: fpsMeter{window: fpsWindow},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry != nil {
		m, err := metrics.NewPipeline(s.registry)
		if err != nil {
			return nil, fmt.Errorf("scheduler metrics: %w", err)
		}
		pm, err := workerpool.NewMetrics(s.registry, "framegraph_workers")
		if err != nil {
			return nil, fmt.Errorf("worker pool metrics: %w", err)
		}
		s.metrics, s.poolMetrics = m, pm
	}
	return s, nil
}

// Graph returns the scheduled graph.
func (s *Scheduler) Graph() *graph.Graph {
	return s.g
}

// Config returns the scheduler settings.
func (s *Scheduler) Config() Config {
	return s.cfg
}

// IsRunning reports whether the pipeline has been started and not yet
// stopped.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Done reports whether the frame limit has been reached.
func (s *Scheduler) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.limitReached()
}

func (s *Scheduler) limitReached() bool {
	return s.cfg.Frames > 0 && s.completed >= s.cfg.Frames
}

// Stats is a snapshot of the scheduler state.
type Stats struct {
	Running   bool             `json:"running"`
	RunID     string           `json:"run_id,omitempty"`
	Stages    int              `json:"stages"`
	Completed uint64           `json:"completed"`
	FPS       float64          `json:"fps"`
	Pool      workerpool.Stats `json:"pool"`
}

// Stats returns the current scheduler state.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Stats{
		Running:   s.running,
		RunID:     s.runID,
		Stages:    len(s.stages),
		Completed: s.completed,
		FPS:       s.fps.last,
	}
	if s.pool != nil {
		st.Pool = s.pool.Stats()
	}
	return st
}

// Run starts the pipeline, ticks every Config.Tick until ctx is done, an
// element fails or the frame limit is reached, then stops it. The returned
// error describes the failure, if any, and whatever went wrong while
// stopping. Cancelling ctx is a normal way to end a run.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				break loop
			}
			if s.Done() {
				break loop
			}
		}
	}
	return s.Stop(context.WithoutCancel(ctx))
}

func (s *Scheduler) publish(ev event.Event) {
	ev.RunID = s.runID
	s.g.Events().Publish(ev)
}

// haltErr names every element that failed. It must be called with mu held.
func (s *Scheduler) haltErr() error {
	names := make([]string, 0, len(s.failures))
	errs := make([]error, 0, len(s.failures))
	for _, f := range s.failures {
		names = append(names, f.el.String())
		errs = append(errs, f.err)
	}
	return fmt.Errorf("%w by %s: %w", ErrHalted, strings.Join(names, ", "), errors.Join(errs...))
}
