package worker

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrInvalidJobHandler = errors.New("job handler is not valid")

var (
	DefaultMaxAttempts                     = 3
	DefaultTimeout                         = 5 * time.Second
	DefaultBackoffStrategy BackoffStrategy = DefaultExponentialBackoff
)

// JobFunc handles one ready job. Return a RetryableError to have it retried.
type JobFunc func(context.Context, JobSpec) error

type JobHandler struct {
	Handle  JobFunc
	JobOpts JobOptions
}

// JobOptions bound each attempt of a job type and space its retries.
type JobOptions struct {
	MaxAttempts int
	Timeout     time.Duration
	BackoffStrategy
}

// Sanitize fills in defaults for unset options.
func (h *JobHandler) Sanitize() error {
	if h.Handle == nil {
		return fmt.Errorf("sanitize job handler: %w: handle function must be set", ErrInvalidJobHandler)
	}
	if h.JobOpts.MaxAttempts <= 0 {
		h.JobOpts.MaxAttempts = DefaultMaxAttempts
	}
	if h.JobOpts.Timeout <= 0 {
		h.JobOpts.Timeout = DefaultTimeout
	}
	if h.JobOpts.BackoffStrategy == nil {
		h.JobOpts.BackoffStrategy = DefaultBackoffStrategy
	}
	return nil
}

//go:generate mockery --name=JobProcessor -r --case underscore --with-expecter --structname JobProcessor --filename job_processor_mock.go --output=./mocks

// JobProcessor is a durable queue of jobs.
type JobProcessor interface {
	// Enqueue stores all jobs or none of them.
	Enqueue(ctx context.Context, jobs ...Job) error

	// Process locks one ready job of the given types, hands it to fn and
	// persists the returned job: cleared when done, moved to the dead jobs
	// when dead, rescheduled otherwise. Returns ErrNoJob when nothing is
	// ready.
	Process(ctx context.Context, types []string, fn JobExecutorFunc) error

	Stats(ctx context.Context) ([]JobTypeStats, error)
}

type JobExecutorFunc func(context.Context, Job) Job

// JobTypeStats counts pending and dead jobs of one type.
type JobTypeStats struct {
	Type   string
	Active int
	Dead   int
}
