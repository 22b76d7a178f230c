package workerpool

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/framegraph/internal/ctxlog"
	"golang.org/x/sync/semaphore"
)

// Result is posted when a job finishes.
type Result[T any] struct {
	Job      T
	OK       bool
	Duration time.Duration
}

// Pool runs jobs of type T on at most Size goroutines at a time.
type Pool[T any] struct {
	size    int
	slots   *semaphore.Weighted
	run     func(context.Context, T) bool
	done    chan Result[T]
	metrics *Metrics
	wg      sync.WaitGroup

	// held counts slots claimed and not yet released by Drain.
	held      atomic.Int64
	running   atomic.Int64
	submitted atomic.Int64
	rejected  atomic.Int64
	failed    atomic.Int64
}

// Option configures a pool.
type Option[T any] func(*Pool[T])

// WithMetrics makes the pool report to m.
func WithMetrics[T any](m *Metrics) Option[T] {
	return func(p *Pool[T]) {
		p.metrics = m
	}
}

// New creates a pool with the given number of slots. run reports whether
// the job succeeded; a panic inside run counts as a failure.
func New[T any](workers int, run func(context.Context, T) bool, opts ...Option[T]) (*Pool[T], error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNoWorkers, workers)
	}
	if run == nil {
		return nil, ErrNilRunner
	}
	p := &Pool[T]{
		size:  workers,
		slots: semaphore.NewWeighted(int64(workers)),
		run:   run,
		done:  make(chan Result[T], workers),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.metrics.setCapacity(workers)
	return p, nil
}

// Size returns the number of slots.
func (p *Pool[T]) Size() int { return p.size }

// Free returns the number of slots a TrySubmit can claim right now.
func (p *Pool[T]) Free() int { return p.size - int(p.held.Load()) }

// Running returns the number of jobs currently executing.
func (p *Pool[T]) Running() int { return int(p.running.Load()) }

// Held returns the number of claimed slots, including those whose result
// has not been drained yet.
func (p *Pool[T]) Held() int { return int(p.held.Load()) }

// TrySubmit starts job if a slot is free and reports whether it did.
func (p *Pool[T]) TrySubmit(ctx context.Context, job T) bool {
	if !p.slots.TryAcquire(1) {
		p.rejected.Add(1)
		p.metrics.reject()
		return false
	}
	held := p.held.Add(1)
	p.running.Add(1)
	p.submitted.Add(1)
	p.metrics.submit(int(held))

	p.wg.Add(1)
	go p.execute(ctx, job)
	return true
}

func (p *Pool[T]) execute(ctx context.Context, job T) {
	defer p.wg.Done()

	start := time.Now()
	ok := p.invoke(ctx, job)
	d := time.Since(start)

	if !ok {
		p.failed.Add(1)
	}
	p.running.Add(-1)
	p.metrics.finish(d, ok)
	// Never blocks: at most size results are outstanding.
	p.done <- Result[T]{Job: job, OK: ok, Duration: d}
}

func (p *Pool[T]) invoke(ctx context.Context, job T) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.FromContext(ctx).Error("Worker job panicked.", "panic", r, "stack", string(debug.Stack()))
			ok = false
		}
	}()
	return p.run(ctx, job)
}

// Drain collects every result posted so far and releases their slots. It
// never blocks.
func (p *Pool[T]) Drain() []Result[T] {
	var out []Result[T]
	for {
		select {
		case r := <-p.done:
			out = append(out, r)
			p.metrics.release(int(p.held.Add(-1)))
			p.slots.Release(1)
		default:
			return out
		}
	}
}

// Wait blocks until no job is executing or ctx is done. Results stay
// queued for Drain.
func (p *Pool[T]) Wait(ctx context.Context) error {
	finished := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats is a snapshot of pool counters.
type Stats struct {
	Workers   int   `json:"workers"`
	Running   int   `json:"running"`
	Held      int   `json:"held"`
	Submitted int64 `json:"submitted"`
	Rejected  int64 `json:"rejected"`
	Failed    int64 `json:"failed"`
}

// Stats returns current pool statistics.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Workers:   p.size,
		Running:   p.Running(),
		Held:      p.Held(),
		Submitted: p.submitted.Load(),
		Rejected:  p.rejected.Load(),
		Failed:    p.failed.Load(),
	}
}
