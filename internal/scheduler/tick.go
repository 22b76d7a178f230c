package scheduler

import (
	"context"
	"fmt"

	"github.com/specialistvlad/framegraph/internal/ctxlog"
	"github.com/specialistvlad/framegraph/internal/element"
	"github.com/specialistvlad/framegraph/internal/event"
	"github.com/specialistvlad/framegraph/internal/graph"
)

// Tick performs one scheduling step. It never waits for element work. It
// returns ErrNotRunning before Start and after Stop, and the halt error
// once an element has failed.
func (s *Scheduler) Tick(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrNotRunning
	}
	ctx = ctxlog.With(ctx, "runID", s.runID)

	s.collect(ctx)
	if len(s.failures) > 0 {
		return s.haltErr()
	}
	if !s.stopping {
		s.admit(ctx)
	}
	s.dispatch(ctx)
	if len(s.failures) > 0 {
		return s.haltErr()
	}
	s.retire(ctx)
	s.observe()
	return nil
}

// invoke runs on a pool goroutine.
func (s *Scheduler) invoke(ctx context.Context, j job) bool {
	return j.el.RunOnce(ctx, j.serial)
}

// collect takes finished invocations from the pool.
func (s *Scheduler) collect(ctx context.Context) {
	for _, r := range s.pool.Drain() {
		e := r.Job.el
		if st := s.stage(r.Job.serial); st != nil {
			st.pending--
		}
		s.metrics.ObserveRun(e.Name(), r.Duration, r.OK)
		if r.OK {
			continue
		}
		err := e.Err()
		if err == nil {
			err = fmt.Errorf("element %s failed at frame %d", e, r.Job.serial)
		}
		ctxlog.FromContext(ctx).Error("Element failed, halting pipeline.", "element", e.Name(), "elementID", e.ID(), "serial", r.Job.serial, "error", err)
		s.failures = append(s.failures, failure{el: e, err: err})
	}
}

// stage returns the in-flight stage for serial, or nil.
func (s *Scheduler) stage(serial uint64) *stage {
	if len(s.stages) == 0 {
		return nil
	}
	first := s.stages[0].serial
	if serial < first || serial-first >= uint64(len(s.stages)) {
		return nil
	}
	return s.stages[serial-first]
}

// admit opens at most one new stage.
func (s *Scheduler) admit(ctx context.Context) {
	if len(s.stages) >= s.cfg.MaxStages {
		return
	}
	if s.cfg.Frames > 0 && s.nextSerial > s.cfg.Frames {
		return
	}
	st := &stage{serial: s.nextSerial, blocked: graph.Ready}
	s.stages = append(s.stages, st)
	s.nextSerial++
	ctxlog.FromContext(ctx).Debug("Stage admitted.", "stage", st.serial, "inFlight", len(s.stages))
}

// dispatch advances every stage, oldest first, while worker slots are free.
func (s *Scheduler) dispatch(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	for _, st := range s.stages {
		for st.cursor < len(s.ordering) {
			if s.pool.Free() == 0 {
				return
			}
			e := s.ordering[st.cursor]
			if r := graph.ReadinessOf(e, st.serial); r != graph.Ready {
				if st.blocked != r {
					st.blocked = r
					logger.Debug("Stage waiting.", "stage", st.serial, "element", e.Name(), "reason", r.String())
				}
				break
			}
			st.blocked = graph.Ready

			if err := e.Dispatch(st.serial); err != nil {
				s.failures = append(s.failures, failure{el: e, err: err})
				return
			}
			if !s.pool.TrySubmit(s.invokeCtx, job{el: e, serial: st.serial}) {
				err := fmt.Errorf("%w: no worker slot for %s", element.ErrContractViolation, e)
				s.failures = append(s.failures, failure{el: e, err: err})
				return
			}
			st.cursor++
			st.pending++
		}
	}
}

// retire removes completed stages from the front, in serial order.
func (s *Scheduler) retire(ctx context.Context) {
	for len(s.stages) > 0 {
		st := s.stages[0]
		if st.cursor < len(s.ordering) || st.pending > 0 {
			return
		}
		s.stages = s.stages[1:]
		s.completed++
		s.fps.frame()
		s.metrics.FrameCompleted()
		s.publish(event.Event{Kind: event.FrameCompleted, Serial: st.serial})
		ctxlog.FromContext(ctx).Debug("Stage completed.", "stage", st.serial)
	}
}

// observe updates the FPS meter and gauges.
func (s *Scheduler) observe() {
	if fps, ok := s.fps.sample(s.now()); ok {
		s.metrics.SetFPS(fps)
		s.publish(event.Event{Kind: event.FPS, FPS: fps})
	}
	s.metrics.SetStagesInFlight(len(s.stages))
	for _, c := range s.conns {
		s.metrics.SetQueueDepth(s.labels[c.ID()], c.Len())
	}
}
