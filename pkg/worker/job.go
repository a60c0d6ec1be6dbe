package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

type JobStatus string

const (
	StatusPending JobStatus = ""
	StatusDone    JobStatus = "done"
	StatusDead    JobStatus = "dead"
)

// cancelledRetryDelay is how long a job picked up during shutdown waits
// before it becomes ready again.
const cancelledRetryDelay = 5 * time.Second

var ErrInvalidJob = errors.New("job is not valid")

// JobSpec is what a producer enqueues.
type JobSpec struct {
	Type    string    `json:"type"`
	Payload []byte    `json:"payload"`
	RunAt   time.Time `json:"run_at"`
}

// Job is a JobSpec together with its execution state.
type Job struct {
	ID ulid.ULID `json:"id"`
	JobSpec

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AttemptsDone  int       `json:"attempts_done"`
	Status        JobStatus `json:"-"`
	LastAttemptAt time.Time `json:"last_attempt_at,omitempty"`
	LastError     string    `json:"last_error,omitempty"`
}

// NewJob normalizes spec and stamps it with a fresh ULID. A zero RunAt means
// the job is ready immediately.
func NewJob(spec JobSpec, now time.Time) (Job, error) {
	spec.Type = strings.ToLower(strings.TrimSpace(spec.Type))
	if spec.Type == "" {
		return Job{}, fmt.Errorf("%w: job type must be set", ErrInvalidJob)
	}
	if spec.RunAt.IsZero() {
		spec.RunAt = now
	}

	return Job{
		ID:        ulid.Make(),
		JobSpec:   spec,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Attempt invokes h for the job once and records the result on the job.
// A RetryableError reschedules the job while attempts remain; any other
// error or a panic marks it dead.
func (j *Job) Attempt(ctx context.Context, now time.Time, h JobHandler) {
	defer func() {
		if v := recover(); v != nil {
			j.Status = StatusDead
			j.LastError = fmt.Sprintf("panic: %v", v)
		}
		j.AttemptsDone++
		j.LastAttemptAt = now
		j.UpdatedAt = now
	}()

	if err := ctx.Err(); err != nil {
		j.RunAt = now.Add(cancelledRetryDelay)
		j.LastError = fmt.Sprintf("canceled: %v", err)
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, h.JobOpts.Timeout)
	defer cancel()

	err := h.Handle(runCtx, j.JobSpec)
	if err == nil {
		j.Status = StatusDone
		return
	}

	j.LastError = err.Error()
	var re *RetryableError
	if errors.As(err, &re) && j.AttemptsDone+1 < h.JobOpts.MaxAttempts {
		j.RunAt = now.Add(h.JobOpts.Backoff(j.AttemptsDone + 1))
		return
	}
	j.Status = StatusDead
}

// RetryableError asks the worker to retry the job. The retry still depends on
// the attempts left for the job type.
type RetryableError struct {
	Cause error
}

func (re *RetryableError) Error() string {
	return fmt.Sprintf("retryable-error: %v", re.Cause)
}

func (re *RetryableError) Unwrap() error { return re.Cause }
