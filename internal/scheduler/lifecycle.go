package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/framegraph/internal/connection"
	"github.com/specialistvlad/framegraph/internal/ctxlog"
	"github.com/specialistvlad/framegraph/internal/element"
	"github.com/specialistvlad/framegraph/internal/event"
	"github.com/specialistvlad/framegraph/internal/workerpool"
)

// Start validates the graph, then initializes and starts every element in
// topological order. If any of them fails, what already succeeded is
// undone and the errors are returned together. On success the graph
// refuses structural changes until Stop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}
	// Structural changes are refused from here on.
	if err := s.g.SetRunning(true); err != nil {
		return err
	}
	ordering, pool, err := s.prepare()
	if err != nil {
		_ = s.g.SetRunning(false)
		return err
	}

	runID := uuid.NewString()
	ctx = ctxlog.With(ctx, "runID", runID)
	logger := ctxlog.FromContext(ctx)
	logger.Info("Starting pipeline.", "elements", len(ordering), "workers", s.cfg.Workers, "maxStages", s.cfg.MaxStages)

	if err := bringUp(ctx, ordering); err != nil {
		_ = s.g.SetRunning(false)
		logger.Error("Pipeline failed to start.", "error", err)
		return err
	}

	s.runID = runID
	s.ordering = ordering
	s.conns = s.g.Connections()
	s.labels = make(map[connection.ID]string, len(s.conns))
	for _, c := range s.conns {
		s.labels[c.ID()] = s.connLabel(c)
	}
	s.pool = pool
	s.invokeCtx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.stages = nil
	s.nextSerial = 1
	s.completed = 0
	s.failures = nil
	s.stopping = false
	s.fps.reset(s.now())
	s.metrics.ResetQueueDepths()
	s.running = true

	s.publish(event.Event{Kind: event.PipelineStarted})
	logger.Debug("Pipeline started.")
	return nil
}

func (s *Scheduler) prepare() ([]*element.Element, *workerpool.Pool[job], error) {
	if err := s.g.Validate(); err != nil {
		return nil, nil, fmt.Errorf("validate graph: %w", err)
	}
	ordering, err := s.g.Ordering()
	if err != nil {
		return nil, nil, err
	}
	pool, err := workerpool.New(s.cfg.Workers, s.invoke, workerpool.WithMetrics[job](s.poolMetrics))
	if err != nil {
		return nil, nil, err
	}
	return ordering, pool, nil
}

// bringUp runs Init on every element, then Start. On failure it stops and
// deinitializes what it touched, in reverse order.
func bringUp(ctx context.Context, ordering []*element.Element) error {
	var touched []*element.Element
	unwind := func(cause error) error {
		errs := []error{cause}
		for i := len(touched) - 1; i >= 0; i-- {
			if err := touched[i].Deinit(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	for _, e := range ordering {
		touched = append(touched, e)
		if err := e.Init(ctx); err != nil {
			return unwind(fmt.Errorf("init %s: %w", e, err))
		}
	}
	for _, e := range ordering {
		if err := e.Start(ctx); err != nil {
			return unwind(fmt.Errorf("start %s: %w", e, err))
		}
	}
	return nil
}

// Stop ends the run. It stops admitting frames, drains the ones in flight
// for at most DrainTimeout, then stops and deinitializes the elements and
// flushes every connection. It returns the error that halted the pipeline,
// if any, joined with everything that went wrong while stopping. Stop on a
// pipeline that is not running returns nil.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running || s.stopping {
		s.mu.Unlock()
		return nil
	}
	s.stopping = true
	ctx = ctxlog.With(ctx, "runID", s.runID)
	s.mu.Unlock()

	logger := ctxlog.FromContext(ctx)
	logger.Info("Stopping pipeline.")

	drained := s.drain(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Whatever is still running now is abandoned, even if it returns as
	// soon as its context is cancelled.
	abandoned := make(map[element.ID]bool)
	for _, e := range s.ordering {
		if e.Busy() {
			abandoned[e.ID()] = true
		}
	}
	s.cancel()
	s.collect(ctx)

	var errs []error
	if len(s.failures) > 0 {
		errs = append(errs, s.haltErr())
	}
	if !drained {
		errs = append(errs, fmt.Errorf("%w after %s", ErrDrainTimeout, s.cfg.DrainTimeout))
	}
	errs = append(errs, s.tearDown(ctx, abandoned)...)

	s.stages = nil
	s.running = false
	s.metrics.SetStagesInFlight(0)
	_ = s.g.SetRunning(false)

	err := errors.Join(errs...)
	stopped := event.Event{Kind: event.PipelineStopped, Serial: s.completed}
	if err != nil {
		stopped.Message = err.Error()
		logger.Error("Pipeline stopped with errors.", "frames", s.completed, "error", err)
	} else {
		logger.Info("Pipeline stopped.", "frames", s.completed)
	}
	s.publish(stopped)
	return err
}

// drain keeps scheduling admitted frames until none is left or the drain
// timeout expires. After a failure nothing more is dispatched and it only
// waits for running invocations. It reports whether it finished in time.
func (s *Scheduler) drain(ctx context.Context) bool {
	waitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.DrainTimeout)
	defer cancel()
	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()

	for {
		s.mu.Lock()
		s.collect(ctx)
		halted := len(s.failures) > 0
		var done bool
		if !halted {
			s.dropUntouched(ctx)
			s.dispatch(ctx)
			s.retire(ctx)
			s.observe()
			done = len(s.stages) == 0
		}
		s.mu.Unlock()

		if done {
			return true
		}
		if halted {
			return s.pool.Wait(waitCtx) == nil
		}
		select {
		case <-waitCtx.Done():
			return false
		case <-ticker.C:
		}
	}
}

// dropUntouched discards trailing stages no element has run for yet. The
// first element of the ordering is a producer, so such a stage has no data
// anywhere in the graph.
func (s *Scheduler) dropUntouched(ctx context.Context) {
	for len(s.stages) > 0 {
		last := s.stages[len(s.stages)-1]
		if last.cursor > 0 || last.pending > 0 {
			return
		}
		s.stages = s.stages[:len(s.stages)-1]
		ctxlog.FromContext(ctx).Debug("Dropped stage that never started.", "stage", last.serial)
	}
}

// tearDown stops and deinitializes every element that is not abandoned, in
// reverse topological order, then flushes every connection. It must be
// called with mu held.
func (s *Scheduler) tearDown(ctx context.Context, abandoned map[element.ID]bool) []error {
	logger := ctxlog.FromContext(ctx)
	var errs []error

	for i := len(s.ordering) - 1; i >= 0; i-- {
		e := s.ordering[i]
		if abandoned[e.ID()] {
			logger.Error("Abandoning element that is still running.", "element", e.Name(), "elementID", e.ID())
			errs = append(errs, fmt.Errorf("%w: %s", ErrAbandoned, e))
			continue
		}
		if err := e.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	for i := len(s.ordering) - 1; i >= 0; i-- {
		e := s.ordering[i]
		if abandoned[e.ID()] {
			continue
		}
		if err := e.Deinit(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	for _, c := range s.conns {
		if n := c.Flush(); n > 0 {
			logger.Debug("Flushed connection.", "connection", s.labels[c.ID()], "items", n)
		}
		s.metrics.SetQueueDepth(s.labels[c.ID()], 0)
	}
	for _, c := range s.conns {
		if n := c.Len(); n > 0 {
			errs = append(errs, fmt.Errorf("%w: %s holds %d items", ErrLeftoverData, s.labels[c.ID()], n))
		}
	}
	return errs
}

func (s *Scheduler) connLabel(c *connection.Connection) string {
	name := func(ep connection.Endpoint) string {
		if e, ok := s.g.Element(element.ID(ep.Element)); ok {
			return e.Name() + "." + ep.Port
		}
		return ep.String()
	}
	return name(c.From()) + "->" + name(c.To())
}
