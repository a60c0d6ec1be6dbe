package worker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/goto/salt/log"
)

var (
	ErrTypeExists  = errors.New("handler for given job type exists")
	ErrUnknownType = errors.New("job type is invalid")
	ErrJobExists   = errors.New("job with id exists")
	ErrNoJob       = errors.New("no job found")
)

const (
	minPollInterval    = 100 * time.Millisecond
	maxIdlePollDelay   = 5 * time.Second
	unknownTypeBackoff = 5 * time.Minute
)

// Worker polls a JobProcessor from a fixed pool of goroutines and runs the
// registered handler for every ready job.
type Worker struct {
	workers           int
	pollInterval      time.Duration
	activePollPercent float64

	processor JobProcessor
	logger    log.Logger
	now       func() time.Time

	mu       sync.RWMutex
	handlers map[string]JobHandler
}

type Option func(w *Worker) error

func New(processor JobProcessor, opts ...Option) (*Worker, error) {
	w := &Worker{
		workers:           1,
		pollInterval:      time.Second,
		activePollPercent: 20,
		processor:         processor,
		logger:            log.NewNoop(),
		now:               time.Now,
		handlers:          map[string]JobHandler{},
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, fmt.Errorf("new worker: %w", err)
		}
	}
	return w, nil
}

func WithJobHandler(typ string, h JobHandler) Option {
	return func(w *Worker) error {
		return w.Register(typ, h)
	}
}

func WithLogger(l log.Logger) Option {
	return func(w *Worker) error {
		if l != nil {
			w.logger = l
		}
		return nil
	}
}

// WithRunConfig sets the pool size and the base poll interval. Zero workers
// means one; intervals below 100ms are raised to 100ms.
func WithRunConfig(workers int, pollInterval time.Duration) Option {
	return func(w *Worker) error {
		if workers <= 0 {
			workers = 1
		}
		if pollInterval < minPollInterval {
			pollInterval = minPollInterval
		}
		w.workers = workers
		w.pollInterval = pollInterval
		return nil
	}
}

// WithActivePollPercent sets the share of workers that keep polling at the
// base interval while the queue is empty. The rest back off exponentially.
func WithActivePollPercent(pct float64) Option {
	return func(w *Worker) error {
		w.activePollPercent = pct
		return nil
	}
}

func (w *Worker) Register(typ string, h JobHandler) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.handlers[typ]; ok {
		return fmt.Errorf("register handler: %w: type '%s'", ErrTypeExists, typ)
	}
	if err := h.Sanitize(); err != nil {
		return fmt.Errorf("register handler: %w: type '%s'", err, typ)
	}
	w.handlers[typ] = h
	return nil
}

func (w *Worker) Enqueue(ctx context.Context, specs ...JobSpec) error {
	now := w.now()
	jobs := make([]Job, 0, len(specs))
	for _, spec := range specs {
		job, err := NewJob(spec, now)
		if err != nil {
			return fmt.Errorf("worker enqueue: %w", err)
		}
		jobs = append(jobs, job)
	}
	return w.processor.Enqueue(ctx, jobs...)
}

// Run blocks until ctx is done and every worker goroutine has returned.
// Cancellation is a clean shutdown and yields a nil error.
func (w *Worker) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	active := int(math.Ceil(float64(w.workers) * w.activePollPercent / 100))

	var wg sync.WaitGroup
	wg.Add(w.workers)
	for i := 0; i < w.workers; i++ {
		go func(id int) {
			defer wg.Done()
			w.poll(ctx, id < active)
			w.logger.Debug("worker exited", "worker_id", id)
		}(i)
	}
	wg.Wait()
	w.logger.Info("all workers exited")

	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func (w *Worker) poll(ctx context.Context, active bool) {
	var idle BackoffStrategy = ConstBackoff{Delay: w.pollInterval}
	if !active {
		idle = &ExponentialBackoff{
			Multiplier:   1.6,
			InitialDelay: w.pollInterval,
			MaxDelay:     maxIdlePollDelay,
			Jitter:       0.5,
		}
	}

	timer := time.NewTimer(w.pollInterval)
	defer timer.Stop()

	emptyPolls := 1
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		types := w.types()
		if len(types) == 0 {
			w.logger.Warn("no job handler registered, skipping poll")
			timer.Reset(w.pollInterval)
			continue
		}

		err := w.processor.Process(ctx, types, w.execute)
		switch {
		case errors.Is(err, ErrNoJob):
			emptyPolls++
		case err != nil:
			w.logger.Error("process job failed", "err", err)
			emptyPolls = 1
		default:
			emptyPolls = 1
		}
		timer.Reset(idle.Backoff(emptyPolls))
	}
}

func (w *Worker) execute(ctx context.Context, job Job) Job {
	start := time.Now()

	h, ok := w.handler(job.Type)
	if !ok {
		job.LastError = ErrUnknownType.Error()
		job.RunAt = w.now().Add(unknownTypeBackoff)
		return job
	}

	job.Attempt(ctx, w.now(), h)

	w.logger.Info("job attempted",
		"job_id", job.ID,
		"job_type", job.Type,
		"attempts_done", job.AttemptsDone,
		"job_status", job.Status,
		"last_error", job.LastError,
		"time_ms", time.Since(start).Milliseconds(),
	)
	return job
}

func (w *Worker) handler(typ string) (JobHandler, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	h, ok := w.handlers[typ]
	return h, ok
}

func (w *Worker) types() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	types := make([]string, 0, len(w.handlers))
	for typ := range w.handlers {
		types = append(types, typ)
	}
	sort.Strings(types)
	return types
}
