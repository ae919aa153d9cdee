// Package dispatch runs blocking admin calls on a fixed pool of workers fed by
// one bounded FIFO queue. Every job carries a deadline that covers both the
// time spent queued and the time spent executing.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/OliveiraNt/maned-lookout/internal/domain"
	"github.com/OliveiraNt/maned-lookout/internal/metrics"
	"github.com/OliveiraNt/maned-lookout/internal/utils"
	"github.com/google/uuid"
)

// Defaults applied when New or Submit receive non-positive values.
const (
	DefaultWorkers   = 10
	DefaultQueueSize = 100
	DefaultTimeout   = 10 * time.Second
)

// ErrExecutorClosed is returned for work submitted after Close.
var ErrExecutorClosed = errors.New("dispatch executor closed")

// Task is a unit of blocking work. It must honor ctx.
type Task func(ctx context.Context) (any, error)

type result struct {
	value any
	err   error
}

type job struct {
	id        string
	cluster   string
	op        string
	ctx       context.Context
	task      Task
	submitted time.Time
	result    chan result
}

// Executor is a bounded worker pool shared by every cluster.
type Executor struct {
	jobs chan *job
	quit chan struct{}
	wg   sync.WaitGroup

	// mu is held shared while enqueueing and exclusively by Close before it
	// drains the queue.
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	workers   int
}

// New starts workers goroutines reading a queue of queueSize pending jobs.
func New(workers, queueSize int) *Executor {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	e := &Executor{
		jobs:    make(chan *job, queueSize),
		quit:    make(chan struct{}),
		workers: workers,
	}
	e.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go e.worker()
	}
	return e
}

// Workers returns the size of the pool.
func (e *Executor) Workers() int { return e.workers }

// Submit enqueues task and returns immediately with a Future. When the queue
// is full Submit waits for room, bounded by the job deadline.
func (e *Executor) Submit(ctx context.Context, cluster, op string, timeout time.Duration, task Task) *Future {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	jctx, cancel := context.WithTimeout(ctx, timeout)
	j := &job{
		id:        uuid.NewString(),
		cluster:   cluster,
		op:        op,
		ctx:       jctx,
		task:      task,
		submitted: time.Now(),
		result:    make(chan result, 1),
	}
	f := &Future{job: j, cancel: cancel, timeout: timeout}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		j.result <- result{err: ErrExecutorClosed}
		return f
	}

	metrics.DispatchQueueDepth.Inc()
	select {
	case e.jobs <- j:
		utils.Logger.Debug("dispatch job queued", "job", j.id, "cluster", cluster, "op", op)
	case <-jctx.Done():
		metrics.DispatchQueueDepth.Dec()
		// Wait reports the deadline.
	case <-e.quit:
		metrics.DispatchQueueDepth.Dec()
		j.result <- result{err: ErrExecutorClosed}
	}
	return f
}

// Run submits task and waits for its outcome.
func (e *Executor) Run(ctx context.Context, cluster, op string, timeout time.Duration, task Task) (any, error) {
	return e.Submit(ctx, cluster, op, timeout, task).Wait()
}

// Do is the typed form of Executor.Run.
func Do[T any](ctx context.Context, e *Executor, cluster, op string, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	v, err := e.Run(ctx, cluster, op, timeout, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, nil
	}
	return out, nil
}

// Close stops the workers. Jobs still queued fail with ErrExecutorClosed.
func (e *Executor) Close() {
	e.closeOnce.Do(func() {
		// Wakes submitters blocked on a full queue so the lock below is reachable.
		close(e.quit)
		e.mu.Lock()
		e.closed = true
		e.mu.Unlock()
		e.wg.Wait()
		for {
			select {
			case j := <-e.jobs:
				metrics.DispatchQueueDepth.Dec()
				j.result <- result{err: ErrExecutorClosed}
			default:
				return
			}
		}
	})
}

func (e *Executor) worker() {
	defer e.wg.Done()
	for {
		select {
		case <-e.quit:
			return
		case j := <-e.jobs:
			metrics.DispatchQueueDepth.Dec()
			e.execute(j)
		}
	}
}

func (e *Executor) execute(j *job) {
	if err := j.ctx.Err(); err != nil {
		utils.Logger.Debug("dispatch job expired in queue", "job", j.id, "cluster", j.cluster, "op", j.op)
		j.result <- result{err: err}
		observe(j, err)
		return
	}

	metrics.DispatchInFlight.Inc()
	defer metrics.DispatchInFlight.Dec()

	var res result
	func() {
		defer func() {
			if r := recover(); r != nil {
				utils.Logger.Error("dispatch job panicked", "job", j.id, "cluster", j.cluster, "op", j.op, "panic", r)
				res = result{err: fmt.Errorf("%s panicked: %v", j.op, r)}
			}
		}()
		v, err := j.task(j.ctx)
		res = result{value: v, err: err}
	}()

	if res.err == nil && j.ctx.Err() != nil {
		res.err = j.ctx.Err()
	}
	j.result <- res
	observe(j, res.err)
}

func observe(j *job, err error) {
	status := metrics.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, domain.ErrOperationTimeout):
		status = metrics.StatusTimeout
	case errors.Is(err, context.Canceled):
		status = metrics.StatusCanceled
	default:
		status = metrics.StatusError
	}
	metrics.DispatchTotal.WithLabelValues(j.cluster, j.op, status).Inc()
	metrics.DispatchDuration.WithLabelValues(j.cluster, j.op).Observe(time.Since(j.submitted).Seconds())
	if status != metrics.StatusOK {
		utils.Logger.Debug("dispatch job finished", "job", j.id, "cluster", j.cluster, "op", j.op, "status", status, "err", err)
	}
}

// Future is the pending outcome of a submitted job.
type Future struct {
	job     *job
	cancel  context.CancelFunc
	timeout time.Duration

	once  sync.Once
	value any
	err   error
}

// ID returns the job's correlation id.
func (f *Future) ID() string { return f.job.id }

// Wait blocks until the job finishes or its deadline passes. A result that
// arrives after the deadline is discarded.
func (f *Future) Wait() (any, error) {
	f.once.Do(func() {
		defer f.cancel()
		select {
		case r := <-f.job.result:
			f.value, f.err = r.value, r.err
		case <-f.job.ctx.Done():
			select {
			case r := <-f.job.result:
				f.value, f.err = r.value, r.err
			default:
				f.err = f.job.ctx.Err()
			}
		}
		f.err = f.mapErr(f.err)
	})
	return f.value, f.err
}

func (f *Future) mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s exceeded %s", domain.ErrOperationTimeout, f.job.op, f.timeout)
	default:
		return err
	}
}
